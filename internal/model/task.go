package model

import (
	"fmt"
	"strings"
	"time"
)

// ExtractionTask represents a single download-and-extract run
type ExtractionTask struct {
	ID         string
	URL        string
	Title      string    // sanitized video title
	VideoPath  string    // path to downloaded video
	OutputDir  string    // directory receiving frame_<n>.jpg files
	Cached     bool      // video was already on disk
	State      RunState
	Requested  int       // frame count asked for by the user
	Effective  int       // frame count after clamping to the video length
	Succeeded  int       // frames written
	Skipped    int       // frames that could not be decoded
	Failed     int       // frames that failed to enhance or write
	LastError  string    // last error message if any
	StartedAt  time.Time // when the run started
	FinishedAt time.Time // when the run finished
}

// NewExtractionTask creates a task in the Idle state
func NewExtractionTask(id, url string, requested int) *ExtractionTask {
	return &ExtractionTask{
		ID:        id,
		URL:       url,
		State:     RunStateIdle,
		Requested: requested,
		StartedAt: time.Now(),
	}
}

// Transition moves the task to state to if the step is legal. Reaching a
// terminal state stamps FinishedAt.
func (t *ExtractionTask) Transition(to RunState) error {
	if !t.State.CanTransition(to) {
		return &TransitionError{From: t.State, To: to}
	}
	t.State = to
	if to.IsFinished() {
		t.FinishedAt = time.Now()
	}
	return nil
}

// Processed returns how many frames have a final outcome
func (t *ExtractionTask) Processed() int {
	return t.Succeeded + t.Skipped + t.Failed
}

// Clamped reports whether the video had fewer frames than requested
func (t *ExtractionTask) Clamped() bool {
	return t.Effective > 0 && t.Effective < t.Requested
}

// Duration returns how long the run took, or has taken so far
func (t *ExtractionTask) Duration() time.Duration {
	if t.StartedAt.IsZero() {
		return 0
	}
	if t.FinishedAt.IsZero() {
		return time.Since(t.StartedAt)
	}
	return t.FinishedAt.Sub(t.StartedAt)
}

// GetDisplayTitle returns title, or URL when the title is not known yet
func (t *ExtractionTask) GetDisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	return t.URL
}

// Summary returns a one-line human readable description of the outcome
func (t *ExtractionTask) Summary() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d/%d frames extracted", t.Succeeded, t.Effective))
	if t.Clamped() {
		b.WriteString(fmt.Sprintf(" (video has only %d frames, %d requested)", t.Effective, t.Requested))
	}
	if t.Skipped > 0 {
		b.WriteString(fmt.Sprintf(", %d unreadable", t.Skipped))
	}
	if t.Failed > 0 {
		b.WriteString(fmt.Sprintf(", %d failed", t.Failed))
	}
	return b.String()
}
