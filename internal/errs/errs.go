// Package errs defines the error taxonomy shared by the pipeline stages and
// the presentation shells.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Startup errors.
var (
	// ErrDependencyMissing indicates that a required external tool is absent or broken.
	ErrDependencyMissing = errors.New("dependency missing")
)

// Input errors.
var (
	// ErrInvalidInput indicates an empty URL or a non-positive frame count.
	ErrInvalidInput = errors.New("invalid input")
)

// Pipeline stage errors. Each aborts the current run.
var (
	// ErrTitleFetch indicates that the video title could not be retrieved.
	ErrTitleFetch = errors.New("failed to get video title")
	// ErrDownload indicates that the downloader exited with an error.
	ErrDownload = errors.New("video download failed")
	// ErrVideoOpen indicates that the downloaded file could not be opened for decoding.
	ErrVideoOpen = errors.New("failed to open video file")
)

// Per-frame errors. These never abort a run.
var (
	// ErrFrameRead indicates that a frame could not be decoded at the requested index.
	ErrFrameRead = errors.New("frame read failed")
)

// ProcessError describes a child process that exited unsuccessfully.
type ProcessError struct {
	Cmd      string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Cmd, e.ExitCode, msg)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// Kind returns the taxonomy sentinel err belongs to, or nil if it is unclassified.
func Kind(err error) error {
	for _, sentinel := range []error{
		ErrDependencyMissing,
		ErrInvalidInput,
		ErrTitleFetch,
		ErrDownload,
		ErrVideoOpen,
		ErrFrameRead,
	} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return nil
}
