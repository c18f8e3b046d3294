package download

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ytget/yt-frame-extractor/internal/errs"
	"github.com/ytget/yt-frame-extractor/internal/platform"
)

// yt-dlp arguments
const (
	FlagGetTitle          = "--get-title"
	FlagNoPlaylist        = "--no-playlist"
	FlagFormat            = "-f"
	FlagMergeOutputFormat = "--merge-output-format"
	FlagOutput            = "-o"
	FlagQuiet             = "--quiet"

	// FormatSelector picks the best stream up to 1080p, merging separate audio when needed
	FormatSelector = "bestvideo[height<=1080]+bestaudio/best[height<=1080]"

	// ContainerFormat is both the merge target and the file extension
	ContainerFormat = "mp4"
)

// Asset is a video that is present on disk
type Asset struct {
	Title  string
	Path   string
	Cached bool // true when the file existed and no download happened
}

// Service handles title resolution and video downloads
type Service struct {
	runner   platform.Runner
	ytdlp    string
	videoDir string
	log      *zap.Logger
}

// NewService creates a new download service
func NewService(runner platform.Runner, ytdlpPath, videoDir string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		runner:   runner,
		ytdlp:    ytdlpPath,
		videoDir: videoDir,
		log:      log.Named("download"),
	}
}

// VideoDirectory returns the directory videos are stored in
func (s *Service) VideoDirectory() string {
	return s.videoDir
}

// ResolveTitle fetches the video title and strips characters unsafe in file names
func (s *Service) ResolveTitle(ctx context.Context, url string) (string, error) {
	out, err := s.runner.Run(ctx, s.ytdlp, BuildTitleArgs(url)...)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %w", errs.ErrTitleFetch, err)
	}

	title := platform.SanitizeFilename(string(out))
	if title == "" {
		return "", fmt.Errorf("%w: downloader returned an empty title", errs.ErrTitleFetch)
	}

	s.log.Debug("title resolved", zap.String("url", url), zap.String("title", title))
	return title, nil
}

// Download stores the video under its already resolved title. An existing
// file is returned as is and never overwritten.
func (s *Service) Download(ctx context.Context, url, title string) (*Asset, error) {
	if err := platform.CreateDirectoryIfNotExists(s.videoDir); err != nil {
		return nil, fmt.Errorf("%w: create video directory: %w", errs.ErrDownload, err)
	}

	outputPath := VideoPath(s.videoDir, title)
	if platform.FileExists(outputPath) {
		s.log.Info("video already downloaded", zap.String("path", outputPath))
		return &Asset{Title: title, Path: outputPath, Cached: true}, nil
	}

	s.log.Info("downloading video", zap.String("url", url), zap.String("path", outputPath))
	if _, err := s.runner.Run(ctx, s.ytdlp, BuildDownloadArgs(url, outputPath)...); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", errs.ErrDownload, err)
	}

	if !platform.FileExists(outputPath) {
		return nil, fmt.Errorf("%w: downloader produced no file at %s", errs.ErrDownload, outputPath)
	}

	return &Asset{Title: title, Path: outputPath}, nil
}

// VideoPath returns the deterministic download location for a sanitized title
func VideoPath(videoDir, title string) string {
	return filepath.Join(videoDir, title+"."+ContainerFormat)
}

// BuildTitleArgs builds the yt-dlp arguments that print the title
func BuildTitleArgs(url string) []string {
	return []string{FlagGetTitle, FlagNoPlaylist, strings.TrimSpace(url)}
}

// BuildDownloadArgs builds the yt-dlp arguments that download and merge the video
func BuildDownloadArgs(url, outputPath string) []string {
	return []string{
		FlagNoPlaylist,
		FlagFormat, FormatSelector,
		FlagMergeOutputFormat, ContainerFormat,
		FlagOutput, outputPath,
		FlagQuiet,
		strings.TrimSpace(url),
	}
}
