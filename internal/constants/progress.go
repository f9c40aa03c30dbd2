package constants

// Workflow modes
const (
	// ModeRegenerate rebuilds the coordinate set from every activity file
	ModeRegenerate = "regenerate"
	// ModeMerge extends the persisted coordinate set with new activity files
	ModeMerge = "merge"
	// ModeNone is reported when no workflow was selected
	ModeNone = "none"
)

// Progress stages, in the order a run reaches them
const (
	StageSavingFileList      = "saving file list"
	StageLoadingActivities   = "loading activities"
	StageFilteringCoords     = "filtering coordinates"
	StageSavingCoords        = "saving coordinates"
	StageMirroringArtifacts  = "mirroring artifacts"
	StageCheckingForNewFiles = "checking for new files"
)

// Progress states
const (
	StateStarted  = "started"
	StateUpdate   = "update"
	StateDone     = "done"
	StateFailed   = "failed"
	StateFinished = "finished"
)
