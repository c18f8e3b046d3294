package video

import (
	"context"
	"image"
)

// Info describes the primary video stream of a file
type Info struct {
	Width      int
	Height     int
	FrameCount int
	FPS        float64
	Duration   float64 // seconds
}

// Source gives random access to decoded frames. ReadFrame must be safe for
// concurrent use.
type Source interface {
	Info() Info
	ReadFrame(ctx context.Context, index int) (image.Image, error)
	Close() error
}

// Opener opens a video file for frame access.
type Opener interface {
	Open(ctx context.Context, path string) (Source, error)
}
