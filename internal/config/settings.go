package config

import (
	"fyne.io/fyne/v2"
)

// Settings keys for Fyne preferences
const (
	KeyVideoDir           = "video_directory"
	KeyFrameCount         = "default_frame_count"
	KeyLanguage           = "app_language"
	KeyAutoRevealComplete = "auto_reveal_on_complete"
)

// Default values
const (
	DefaultLanguage           = "system"
	DefaultAutoRevealComplete = true
	MaxFrameCount             = 1000
)

// Settings manages desktop preferences layered over the process Config
type Settings struct {
	app      fyne.App
	defaults *Config
}

// NewSettings creates a new settings manager. defaults may be nil.
func NewSettings(app fyne.App, defaults *Config) *Settings {
	if defaults == nil {
		defaults = Default()
	}
	return &Settings{app: app, defaults: defaults}
}

// GetVideoDirectory returns the directory downloads and frames are written under
func (s *Settings) GetVideoDirectory() string {
	dir := s.app.Preferences().String(KeyVideoDir)
	if dir == "" {
		return s.defaults.Output.VideoDir
	}
	return dir
}

// SetVideoDirectory sets the video directory
func (s *Settings) SetVideoDirectory(dir string) {
	s.app.Preferences().SetString(KeyVideoDir, dir)
}

// GetFrameCount returns the frame count pre-filled in the form
func (s *Settings) GetFrameCount() int {
	value := s.app.Preferences().Int(KeyFrameCount)
	if value <= 0 {
		return s.defaults.Extract.Frames
	}
	return value
}

// SetFrameCount sets the default frame count
func (s *Settings) SetFrameCount(count int) {
	if count < 1 {
		count = 1
	}
	if count > MaxFrameCount {
		count = MaxFrameCount
	}
	s.app.Preferences().SetInt(KeyFrameCount, count)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetAutoRevealOnComplete returns whether to open the frames folder after a run
func (s *Settings) GetAutoRevealOnComplete() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoRevealComplete, DefaultAutoRevealComplete)
}

// SetAutoRevealOnComplete sets whether to open the frames folder after a run
func (s *Settings) SetAutoRevealOnComplete(autoReveal bool) {
	s.app.Preferences().SetBool(KeyAutoRevealComplete, autoReveal)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}
