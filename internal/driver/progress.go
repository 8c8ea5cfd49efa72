package driver

// Stage is a step of the per-file pipeline.
type Stage uint8

const (
	StageQueued Stage = iota
	StageParse
	StageGenerate
	StageWrite
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageQueued:
		return "queued"
	case StageParse:
		return "parse"
	case StageGenerate:
		return "generate"
	case StageWrite:
		return "write"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// ProgressEvent describes a stage change of one file. Status is set on
// StageDone.
type ProgressEvent struct {
	Path   string
	Stage  Stage
	Status Status
}

// ProgressFunc receives progress events; called from worker goroutines.
type ProgressFunc func(ProgressEvent)

func (o Options) progress(path string, stage Stage, status Status) {
	if o.Progress != nil {
		o.Progress(ProgressEvent{Path: path, Stage: stage, Status: status})
	}
}
