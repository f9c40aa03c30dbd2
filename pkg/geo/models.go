package geo

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
)

// SemicircleScale converts device semicircles to degrees.
const SemicircleScale = 180.0 / 2147483648.0

var (
	// ErrNoData is returned by Validate when a set holds no coordinates.
	ErrNoData = errors.New("no valid coordinates to display")
	// ErrInvalidData is returned by Validate when a set holds a non-finite value.
	ErrInvalidData = errors.New("coordinate data contains non-finite values")
)

// RawSample is a position in device-native semicircles.
type RawSample struct {
	Lat int64
	Lon int64
}

// Coordinate is a position in degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// CoordinateSet is an ordered sequence of coordinates.
type CoordinateSet []Coordinate

// Normalize scales a raw sample into degrees.
func Normalize(s RawSample) Coordinate {
	return Coordinate{
		Lat: float64(s.Lat) * SemicircleScale,
		Lon: float64(s.Lon) * SemicircleScale,
	}
}

// NormalizeAll scales a concatenated batch of raw samples.
func NormalizeAll(samples []RawSample) CoordinateSet {
	out := make(CoordinateSet, len(samples))
	for i, s := range samples {
		out[i] = Normalize(s)
	}
	return out
}

// Rows returns the set as degree-pair rows, latitude first.
func (cs CoordinateSet) Rows() [][2]float64 {
	rows := make([][2]float64, len(cs))
	for i, c := range cs {
		rows[i] = [2]float64{c.Lat, c.Lon}
	}
	return rows
}

// Clone returns a copy that shares no storage with cs.
func (cs CoordinateSet) Clone() CoordinateSet {
	out := make(CoordinateSet, len(cs))
	copy(out, cs)
	return out
}

// Contains reports whether c is a member of the set.
func (cs CoordinateSet) Contains(c Coordinate) bool {
	for _, p := range cs {
		if p == c {
			return true
		}
	}
	return false
}

// Bounds returns the bounding box of the set. orb points are (lon, lat).
func Bounds(cs CoordinateSet) orb.Bound {
	mp := make(orb.MultiPoint, len(cs))
	for i, c := range cs {
		mp[i] = orb.Point{c.Lon, c.Lat}
	}
	return mp.Bound()
}

// Validate checks a set before it is handed to the renderer.
func Validate(cs CoordinateSet) error {
	if len(cs) == 0 {
		return ErrNoData
	}
	for _, c := range cs {
		if !finite(c.Lat) || !finite(c.Lon) {
			return ErrInvalidData
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
