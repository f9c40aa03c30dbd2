package models

import (
	"time"
)

// Progress is one milestone of an aggregation run
type Progress struct {
	RunID     string    `json:"run_id"`
	Mode      string    `json:"mode"`
	Stage     string    `json:"stage"`
	State     string    `json:"state"`
	Message   string    `json:"message,omitempty"`
	Processed int       `json:"processed,omitempty"`
	Total     int       `json:"total,omitempty"`
	Kept      int       `json:"kept,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Bounds is the latitude/longitude box of a coordinate set
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// RunSummary describes a finished aggregation run
type RunSummary struct {
	RunID       string        `json:"run_id"`
	Mode        string        `json:"mode"`
	Files       int           `json:"files"`
	Samples     int           `json:"samples"`
	SeedSize    int           `json:"seed_size"`
	Coordinates int           `json:"coordinates"`
	Bounds      *Bounds       `json:"bounds,omitempty"`
	Duration    time.Duration `json:"duration_ns"`
	Error       string        `json:"error,omitempty"`
	Timestamp   time.Time     `json:"timestamp"`
}
