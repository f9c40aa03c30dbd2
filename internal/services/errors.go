package services

import (
	"errors"
	"fmt"
)

var (
	// ErrLoadFailed wraps the fatal per-file errors of a batch load.
	ErrLoadFailed = errors.New("failed to load activities")
	// ErrPersist marks a failure writing the coordinate set or file registry.
	ErrPersist = errors.New("failed to persist aggregation state")
)

// AggregationError reports the workflow and stage at which a run failed.
type AggregationError struct {
	Mode  string
	Stage string
	Err   error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("%s run failed while %s: %v", e.Mode, e.Stage, e.Err)
}

func (e *AggregationError) Unwrap() error {
	return e.Err
}
