package download

import (
	"context"
)

// Fetcher defines the interface for the download service.
type Fetcher interface {
	// ResolveTitle returns the sanitized title of the video at url.
	ResolveTitle(ctx context.Context, url string) (string, error)

	// Download makes sure the video at url is on disk under title and
	// returns where it is.
	Download(ctx context.Context, url, title string) (*Asset, error)

	// VideoDirectory returns the directory videos are stored in.
	VideoDirectory() string
}
