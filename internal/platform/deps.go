package platform

import (
	"context"
	"fmt"
	"strings"

	"github.com/ytget/yt-frame-extractor/internal/errs"
)

// Dependency install hints shown to the user
const (
	YTDLPInstallURL  = "https://github.com/yt-dlp/yt-dlp"
	FFmpegInstallURL = "https://ffmpeg.org/download.html"
)

// Dependency describes an external tool and the arguments that prove it runs
type Dependency struct {
	Name       string
	Path       string
	VersionArg string
	InstallURL string
}

// DependencyStatus is the outcome of probing one dependency
type DependencyStatus struct {
	Dependency
	Version string
	Err     error
}

// OK reports whether the dependency answered its version probe
func (s DependencyStatus) OK() bool {
	return s.Err == nil
}

// Message is the user facing hint for a failed probe
func (s DependencyStatus) Message() string {
	return fmt.Sprintf("%s not found. Please install it from %s", s.Name, s.InstallURL)
}

// FirstMissing returns the first dependency that failed its probe
func FirstMissing(statuses []DependencyStatus) (DependencyStatus, bool) {
	for _, s := range statuses {
		if !s.OK() {
			return s, true
		}
	}
	return DependencyStatus{}, false
}

// Tools holds the executables the pipeline shells out to
type Tools struct {
	YTDLP   string
	FFmpeg  string
	FFprobe string
}

// Dependencies lists the required external tools in check order
func (t Tools) Dependencies() []Dependency {
	return []Dependency{
		{Name: "yt-dlp", Path: t.YTDLP, VersionArg: "--version", InstallURL: YTDLPInstallURL},
		{Name: "ffmpeg", Path: t.FFmpeg, VersionArg: "-version", InstallURL: FFmpegInstallURL},
		{Name: "ffprobe", Path: t.FFprobe, VersionArg: "-version", InstallURL: FFmpegInstallURL},
	}
}

// CheckDependencies runs each tool's version probe. The returned error wraps
// errs.ErrDependencyMissing and names the first tool that failed.
func CheckDependencies(ctx context.Context, runner Runner, deps []Dependency) ([]DependencyStatus, error) {
	statuses := make([]DependencyStatus, 0, len(deps))
	var firstErr error

	for _, dep := range deps {
		status := DependencyStatus{Dependency: dep}
		out, err := runner.Run(ctx, dep.Path, dep.VersionArg)
		if err != nil {
			status.Err = err
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: %s: %v", errs.ErrDependencyMissing, status.Message(), err)
			}
		} else {
			status.Version = firstLine(string(out))
		}
		statuses = append(statuses, status)
	}

	return statuses, firstErr
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
