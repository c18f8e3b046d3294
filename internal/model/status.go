package model

import "fmt"

// RunState represents the stage a frame extraction run is in
type RunState string

const (
	// RunStateIdle means no run has started yet
	RunStateIdle RunState = "Idle"

	// RunStateResolvingTitle means the video title is being fetched
	RunStateResolvingTitle RunState = "ResolvingTitle"

	// RunStateDownloading means the video is being downloaded (or found in cache)
	RunStateDownloading RunState = "Downloading"

	// RunStateExtracting means frames are being decoded, enhanced and written
	RunStateExtracting RunState = "Extracting"

	// RunStateDone means the run finished successfully
	RunStateDone RunState = "Done"

	// RunStateFailed means the run stopped on an unrecovered error
	RunStateFailed RunState = "Failed"
)

// String returns the string representation of RunState
func (rs RunState) String() string {
	return string(rs)
}

// IsFinished returns true if the run reached a terminal state (done or failed)
func (rs RunState) IsFinished() bool {
	return rs == RunStateDone || rs == RunStateFailed
}

// next maps each state to the state that follows it on success
var next = map[RunState]RunState{
	RunStateIdle:           RunStateResolvingTitle,
	RunStateResolvingTitle: RunStateDownloading,
	RunStateDownloading:    RunStateExtracting,
	RunStateExtracting:     RunStateDone,
}

// CanTransition reports whether moving from rs to to is a legal step.
// Failed is reachable from any non-terminal state.
func (rs RunState) CanTransition(to RunState) bool {
	if rs.IsFinished() {
		return false
	}
	if to == RunStateFailed {
		return true
	}
	return next[rs] == to
}

// TransitionError reports an illegal state change
type TransitionError struct {
	From RunState
	To   RunState
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal run state transition %s -> %s", e.From, e.To)
}
