package activity

import (
	"bytes"
	"fmt"
	"os"

	"github.com/tormoder/fit"
)

// FitDecoder decodes FIT activity files with github.com/tormoder/fit.
type FitDecoder struct{}

// NewFitDecoder creates a new FitDecoder.
func NewFitDecoder() *FitDecoder {
	return &FitDecoder{}
}

// Decode reads the file at path and returns its record messages. A read failure
// is returned as ErrUnreadable. Anything the FIT decoder rejects is reported in
// Table.Errors with an empty table, since the bytes were available but invalid.
func (d *FitDecoder) Decode(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}

	return d.DecodeBytes(data), nil
}

// DecodeBytes decodes an in-memory FIT stream.
func (d *FitDecoder) DecodeBytes(data []byte) Table {
	decoded, err := fit.Decode(bytes.NewReader(data))
	if err != nil {
		return Table{Errors: []error{fmt.Errorf("%w: %v", ErrDecode, err)}}
	}

	act, err := decoded.Activity()
	if err != nil {
		// Not an activity file, so there are no record messages.
		return Table{Errors: []error{fmt.Errorf("%w: %v", ErrDecode, err)}}
	}

	if len(act.Records) == 0 {
		return Table{}
	}

	table := Table{
		HasRecords: true,
		Records:    make([]Record, 0, len(act.Records)),
	}
	for _, msg := range act.Records {
		if msg == nil {
			continue
		}
		table.Records = append(table.Records, Record{
			Lat:     msg.PositionLat.Semicircles(),
			Long:    msg.PositionLong.Semicircles(),
			HasLat:  !msg.PositionLat.Invalid(),
			HasLong: !msg.PositionLong.Invalid(),
		})
	}
	return table
}
