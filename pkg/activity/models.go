package activity

import "errors"

// FitExt is the recognized activity file extension, matched case-insensitively.
const FitExt = ".fit"

var (
	// ErrDecode marks a file whose contents could not be decoded. The file
	// contributes no samples but the batch continues.
	ErrDecode = errors.New("activity decode error")
	// ErrUnreadable marks a file whose stream could not be read at all.
	ErrUnreadable = errors.New("activity file unreadable")
)

// Record is one row of a decoded record message table. Has* is false when the
// device did not write the field for that sample.
type Record struct {
	Lat     int32
	Long    int32
	HasLat  bool
	HasLong bool
}

// Table is the best-effort result of decoding one activity file.
type Table struct {
	// HasRecords is false when the file carried no record messages.
	HasRecords bool
	Records    []Record
	// Errors lists decode problems that did not prevent a result.
	Errors []error
}

// Decoder turns an activity file into a record table.
type Decoder interface {
	Decode(path string) (Table, error)
}
