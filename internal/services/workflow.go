package services

import (
	"github.com/benmeehan/activity-heatmap/internal/constants"
	"github.com/benmeehan/activity-heatmap/pkg/geo"
)

// Workflow selects what an aggregation run does. It is implemented by
// Regenerate and Merge only.
type Workflow interface {
	Mode() string
	workflow()
}

// Regenerate rebuilds the coordinate set from every activity file.
type Regenerate struct{}

func (Regenerate) Mode() string { return constants.ModeRegenerate }
func (Regenerate) workflow()    {}

// Merge extends Seed with the coordinates found in Files.
type Merge struct {
	Files []string
	Seed  geo.CoordinateSet
}

func (Merge) Mode() string { return constants.ModeMerge }
func (Merge) workflow()    {}

func modeOf(wf Workflow) string {
	if wf == nil {
		return constants.ModeNone
	}
	return wf.Mode()
}
