package store

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/benmeehan/activity-heatmap/pkg/geo"
)

// coordsMagic heads every persisted coordinate array.
var coordsMagic = [8]byte{'A', 'H', 'C', 'O', 'O', 'R', 'D', '1'}

const headerSize = 16 // magic + uint64 count

// ErrCorrupt is returned when a persisted coordinate array cannot be parsed.
var ErrCorrupt = errors.New("corrupt coordinate array")

// MarshalCoordinates encodes a set as magic, little-endian uint64 count, then
// (lat, lon) float64 pairs as IEEE-754 bits.
func MarshalCoordinates(set geo.CoordinateSet) []byte {
	buf := make([]byte, headerSize+16*len(set))
	copy(buf, coordsMagic[:])
	binary.LittleEndian.PutUint64(buf[8:], uint64(len(set)))

	off := headerSize
	for _, c := range set {
		binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(c.Lat))
		binary.LittleEndian.PutUint64(buf[off+8:], math.Float64bits(c.Lon))
		off += 16
	}
	return buf
}

// UnmarshalCoordinates decodes the output of MarshalCoordinates.
func UnmarshalCoordinates(data []byte) (geo.CoordinateSet, error) {
	if len(data) < headerSize || !bytes.Equal(data[:8], coordsMagic[:]) {
		return nil, fmt.Errorf("%w: bad header", ErrCorrupt)
	}

	n := binary.LittleEndian.Uint64(data[8:])
	body := data[headerSize:]
	if uint64(len(body))%16 != 0 || uint64(len(body))/16 != n {
		return nil, fmt.Errorf("%w: header says %d pairs, body holds %d bytes", ErrCorrupt, n, len(body))
	}

	set := make(geo.CoordinateSet, n)
	for i := range set {
		off := i * 16
		set[i] = geo.Coordinate{
			Lat: math.Float64frombits(binary.LittleEndian.Uint64(body[off:])),
			Lon: math.Float64frombits(binary.LittleEndian.Uint64(body[off+8:])),
		}
	}
	return set, nil
}

// MarshalRegistry renders names sorted ascending, one per line, each newline terminated.
func MarshalRegistry(names []string) []byte {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	var b strings.Builder
	for _, name := range sorted {
		b.WriteString(name)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// UnmarshalRegistry parses a registry listing. Surrounding whitespace is
// trimmed and blank lines are ignored.
func UnmarshalRegistry(data string) []string {
	var names []string
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		names = append(names, line)
	}
	return names
}
