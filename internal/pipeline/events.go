package pipeline

import "github.com/ytget/yt-frame-extractor/internal/model"

// EventKind classifies pipeline events
type EventKind int

const (
	// EventState reports a run state change
	EventState EventKind = iota
	// EventProgress reports a frame finished (or the batch size once known)
	EventProgress
	// EventWarning reports a recoverable condition, such as a clamped frame count
	EventWarning
)

func (k EventKind) String() string {
	switch k {
	case EventState:
		return "state"
	case EventProgress:
		return "progress"
	case EventWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Event is sent to the presentation layer while a run progresses
type Event struct {
	RunID string
	Kind  EventKind
	State model.RunState

	Title     string // video title once resolved, the URL before that
	OutputDir string // set on Done

	Done    int // frames with a final outcome so far, or frames written on Done
	Written int // frames written so far
	Total   int // effective frame count
	Frame   *model.FrameResult

	Message string
	Err     error
}
