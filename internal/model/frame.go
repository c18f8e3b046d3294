package model

import "strconv"

// FrameOutcome describes what happened to one sampled frame
type FrameOutcome string

const (
	// FrameWritten means the frame was enhanced and saved
	FrameWritten FrameOutcome = "written"

	// FrameSkipped means the decoder could not produce the frame
	FrameSkipped FrameOutcome = "skipped"

	// FrameFailed means enhancement or writing failed
	FrameFailed FrameOutcome = "failed"
)

// FrameResult is the outcome of processing the frame at one sampled position
type FrameResult struct {
	Position int // zero-based position in the sampled index set
	Index    int // zero-based frame index within the video
	Path     string
	Outcome  FrameOutcome
	Err      error
}

// FileName returns the 1-based output name for a sampled position
func FileName(position int) string {
	return "frame_" + strconv.Itoa(position+1) + ".jpg"
}
