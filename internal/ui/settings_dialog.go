package ui

import (
	"sort"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-frame-extractor/internal/config"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	// UI components
	videoDirEntry   *widget.Entry
	frameCountEntry *widget.Entry
	autoRevealCheck *widget.Check
	languageSelect  *widget.Select

	// display name -> language code
	languageCodes map[string]string
}

// ShowSettingsDialog builds and shows the settings dialog. onSaved runs after
// the user confirms.
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, localization *Localization, onSaved func()) {
	NewSettingsDialog(settings, localization, window, onSaved).Show()
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings:      settings,
		localization:  localization,
		window:        window,
		onSaved:       onSaved,
		languageCodes: make(map[string]string),
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	t := sd.localization.GetText

	sd.videoDirEntry = widget.NewEntry()
	sd.videoDirEntry.SetPlaceHolder(config.Default().Output.VideoDir)
	browseDirBtn := widget.NewButton(t(KeyBrowse), sd.onBrowseDirectory)
	videoDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.videoDirEntry)

	sd.frameCountEntry = widget.NewEntry()
	sd.frameCountEntry.SetPlaceHolder("1-" + strconv.Itoa(config.MaxFrameCount))

	sd.autoRevealCheck = widget.NewCheck(t(KeyAutoReveal), nil)

	var languageNames []string
	for code, name := range sd.settings.GetLanguageOptions() {
		sd.languageCodes[name] = code
		languageNames = append(languageNames, name)
	}
	sort.Strings(languageNames)
	sd.languageSelect = widget.NewSelect(languageNames, nil)

	form := container.NewVBox(
		widget.NewLabel(t(KeyVideoDirectory)+":"),
		videoDirRow,

		widget.NewLabel(t(KeyDefaultFrameCount)+":"),
		sd.frameCountEntry,

		sd.autoRevealCheck,

		widget.NewSeparator(),

		widget.NewLabel(t(KeyLanguage)+":"),
		sd.languageSelect,
	)

	sd.dialog = dialog.NewCustomConfirm(
		t(KeySettings),
		t(KeySave),
		t(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogW, SettingsDialogH))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.videoDirEntry.SetText(sd.settings.GetVideoDirectory())
	sd.frameCountEntry.SetText(strconv.Itoa(sd.settings.GetFrameCount()))
	sd.autoRevealCheck.SetChecked(sd.settings.GetAutoRevealOnComplete())
	sd.languageSelect.SetSelected(sd.settings.GetLanguageOptions()[sd.settings.GetLanguage()])
}

// onBrowseDirectory handles directory browsing
func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.videoDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}
	sd.apply()

	if sd.onSaved != nil {
		sd.onSaved()
	}
	dialog.ShowInformation(sd.localization.GetText(KeySettings), sd.localization.GetText(KeySettingsSaved), sd.window)
}

// apply writes the form values into the preference store. Invalid numbers
// leave the stored value untouched.
func (sd *SettingsDialog) apply() {
	if dir := strings.TrimSpace(sd.videoDirEntry.Text); dir != "" {
		sd.settings.SetVideoDirectory(dir)
	}

	if count, err := parseFrameCount(sd.frameCountEntry.Text); err == nil {
		sd.settings.SetFrameCount(count)
	}

	sd.settings.SetAutoRevealOnComplete(sd.autoRevealCheck.Checked)

	if code, ok := sd.languageCodes[sd.languageSelect.Selected]; ok {
		sd.settings.SetLanguage(code)
	}
}
