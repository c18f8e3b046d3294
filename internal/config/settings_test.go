package config

import (
	"testing"

	"fyne.io/fyne/v2/test"
)

func TestNewSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app, nil)

	if settings.app != app {
		t.Error("Settings app reference should match provided app")
	}

	if settings.defaults == nil {
		t.Error("Settings should fall back to built-in defaults")
	}
}

func TestVideoDirectory(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app, nil)

	// Test default value
	dir := settings.GetVideoDirectory()
	if dir != "downloaded_videos" {
		t.Errorf("Expected default video directory 'downloaded_videos', got %s", dir)
	}

	// Test setting custom value
	customDir := "/custom/videos"
	settings.SetVideoDirectory(customDir)

	retrievedDir := settings.GetVideoDirectory()
	if retrievedDir != customDir {
		t.Errorf("Expected video directory %s, got %s", customDir, retrievedDir)
	}
}

func TestVideoDirectory_ConfigDefault(t *testing.T) {
	app := test.NewApp()
	cfg := Default()
	cfg.Output.VideoDir = "/srv/frames"
	settings := NewSettings(app, cfg)

	if got := settings.GetVideoDirectory(); got != "/srv/frames" {
		t.Errorf("Expected config default /srv/frames, got %s", got)
	}
}

func TestFrameCount(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app, nil)

	// Test default value
	if count := settings.GetFrameCount(); count != 10 {
		t.Errorf("Expected default frame count 10, got %d", count)
	}

	// Test setting custom value
	settings.SetFrameCount(25)
	if count := settings.GetFrameCount(); count != 25 {
		t.Errorf("Expected frame count 25, got %d", count)
	}

	// Test boundary values
	settings.SetFrameCount(0) // Should be clamped to 1
	if settings.GetFrameCount() != 1 {
		t.Error("Frame count should be clamped to minimum 1")
	}

	settings.SetFrameCount(MaxFrameCount + 1)
	if settings.GetFrameCount() != MaxFrameCount {
		t.Errorf("Frame count should be clamped to maximum %d", MaxFrameCount)
	}
}

func TestLanguage(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app, nil)

	// Test default value
	lang := settings.GetLanguage()
	if lang != DefaultLanguage {
		t.Errorf("Expected default language %s, got %s", DefaultLanguage, lang)
	}

	// Test setting custom value
	settings.SetLanguage("ru")
	if settings.GetLanguage() != "ru" {
		t.Errorf("Expected language ru, got %s", settings.GetLanguage())
	}
}

func TestAutoRevealOnComplete(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app, nil)

	if settings.GetAutoRevealOnComplete() != DefaultAutoRevealComplete {
		t.Errorf("Expected default auto reveal %v", DefaultAutoRevealComplete)
	}

	settings.SetAutoRevealOnComplete(false)
	if settings.GetAutoRevealOnComplete() {
		t.Error("Expected auto reveal to be disabled")
	}
}

func TestGetLanguageOptions(t *testing.T) {
	settings := NewSettings(test.NewApp(), nil)
	options := settings.GetLanguageOptions()

	for _, code := range []string{"system", "en", "ru", "pt"} {
		if _, exists := options[code]; !exists {
			t.Errorf("Language option %s should exist", code)
		}
	}
}
