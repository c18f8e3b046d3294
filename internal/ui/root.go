package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/ytget/yt-frame-extractor/internal/config"
	"github.com/ytget/yt-frame-extractor/internal/model"
	"github.com/ytget/yt-frame-extractor/internal/pipeline"
	"github.com/ytget/yt-frame-extractor/internal/platform"
)

// eventBuffer lets the pipeline run ahead of the UI by a few events
const eventBuffer = 16

// Runner executes one extraction run
type Runner interface {
	Run(ctx context.Context, req pipeline.Request, events chan<- pipeline.Event) (*model.ExtractionTask, error)
}

// RunnerFactory builds a runner writing under videoDir. It is called for
// every run so settings changes apply to the next one.
type RunnerFactory func(videoDir string) (Runner, error)

// RootUI represents the main UI structure
type RootUI struct {
	window       fyne.Window
	settings     *config.Settings
	localization *Localization
	newRunner    RunnerFactory
	openFolder   func(string) error
	log          *zap.Logger

	urlLabel     *widget.Label
	urlEntry     *widget.Entry
	countLabel   *widget.Label
	countEntry   *widget.Entry
	startBtn     *widget.Button
	progressBar  *widget.ProgressBar
	statusLabel  *widget.Label
	warningLabel *widget.Label

	running bool
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, settings *config.Settings, newRunner RunnerFactory, log *zap.Logger) *RootUI {
	if log == nil {
		log = zap.NewNop()
	}

	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		settings:     settings,
		localization: localization,
		newRunner:    newRunner,
		openFolder:   platform.OpenFolder,
		log:          log.Named("ui"),
	}

	window.SetTitle(localization.GetText(KeyAppTitle))

	ui.setupUI()
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.urlLabel = widget.NewLabel(IconVideo + " " + ui.localization.GetText(KeyVideoURL))
	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.urlEntry.OnSubmitted = func(string) {
		ui.onStartClick()
	}

	ui.countLabel = widget.NewLabel(IconFrames + " " + ui.localization.GetText(KeyFrameCount))
	ui.countEntry = widget.NewEntry()
	ui.countEntry.SetText(strconv.Itoa(ui.settings.GetFrameCount()))
	ui.countEntry.OnSubmitted = func(string) {
		ui.onStartClick()
	}

	ui.startBtn = widget.NewButton(ui.localization.GetText(KeyStart), ui.onStartClick)
	ui.startBtn.Importance = widget.HighImportance

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	ui.progressBar = widget.NewProgressBar()
	ui.progressBar.TextFormatter = func() string {
		return fmt.Sprintf("%.0f/%.0f", ui.progressBar.Value, ui.progressBar.Max)
	}

	ui.statusLabel = widget.NewLabel(ui.localization.GetText(KeyReady))
	ui.statusLabel.Alignment = fyne.TextAlignCenter
	ui.statusLabel.Importance = widget.LowImportance

	ui.warningLabel = widget.NewLabel("")
	ui.warningLabel.Alignment = fyne.TextAlignCenter
	ui.warningLabel.Importance = widget.WarningImportance
	ui.warningLabel.Wrapping = fyne.TextWrapWord
	ui.warningLabel.Hide()

	countSize := ui.countEntry.MinSize()
	countSize.Width = CountEntryWidth
	countRow := container.NewCenter(container.NewGridWrap(countSize, ui.countEntry))

	header := container.NewBorder(nil, nil, nil, settingsBtn, ui.urlLabel)

	content := container.NewVBox(
		header,
		ui.urlEntry,
		container.NewCenter(ui.countLabel),
		countRow,
		container.NewCenter(ui.startBtn),
		ui.progressBar,
		ui.statusLabel,
		ui.warningLabel,
	)

	ui.window.SetContent(container.NewPadded(content))
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(code)
		})
		if ui.localization.GetCurrentLanguage() == code {
			langItem.Checked = true
		}
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), settingsItem),
		languageMenu,
	))
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))
	ui.urlLabel.SetText(IconVideo + " " + ui.localization.GetText(KeyVideoURL))
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.countLabel.SetText(IconFrames + " " + ui.localization.GetText(KeyFrameCount))
	ui.startBtn.SetText(ui.localization.GetText(KeyStart))
	if !ui.running {
		ui.setStatus(ui.localization.GetText(KeyReady), widget.LowImportance)
	}
}

// parseFrameCount reads a positive frame count from the form
func parseFrameCount(input string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("frame count must be 1 or more, got %d", n)
	}
	return n, nil
}

// onStartClick validates the form and starts a run in the background
func (ui *RootUI) onStartClick() {
	if ui.running {
		return
	}

	link := strings.TrimSpace(ui.urlEntry.Text)
	if link == "" {
		ui.showError(errors.New(ui.localization.GetText(KeyPleaseEnterURL)))
		return
	}

	count, err := parseFrameCount(ui.countEntry.Text)
	if err != nil {
		ui.showError(errors.New(ui.localization.GetText(KeyInvalidFrameCount)))
		return
	}

	ui.startRun(pipeline.Request{URL: link, Frames: count})
}

// startRun switches the form into the running state and drives the pipeline
// from a background goroutine. Events are applied on the Fyne goroutine.
func (ui *RootUI) startRun(req pipeline.Request) {
	ui.running = true
	ui.startBtn.Disable()
	ui.warningLabel.Hide()
	ui.progressBar.Max = float64(req.Frames)
	ui.progressBar.SetValue(0)
	ui.setStatus(IconWorking+" "+ui.localization.GetText(KeyGettingInfo), widget.MediumImportance)

	runner, err := ui.newRunner(ui.settings.GetVideoDirectory())
	if err != nil {
		ui.finishRun(nil, err)
		return
	}
	ui.log.Info("starting run", zap.String("url", req.URL), zap.Int("frames", req.Frames))

	go func() {
		events := make(chan pipeline.Event, eventBuffer)
		applied := make(chan struct{})

		go func() {
			defer close(applied)
			for ev := range events {
				fyne.Do(func() {
					ui.applyEvent(ev)
				})
			}
		}()

		task, err := runner.Run(context.Background(), req, events)
		close(events)
		<-applied

		fyne.Do(func() {
			ui.finishRun(task, err)
		})
	}()
}

// applyEvent reflects a pipeline event in the form
func (ui *RootUI) applyEvent(ev pipeline.Event) {
	switch ev.Kind {
	case pipeline.EventState:
		switch ev.State {
		case model.RunStateResolvingTitle:
			ui.setStatus(IconWorking+" "+ui.localization.GetText(KeyGettingInfo), widget.MediumImportance)
		case model.RunStateDownloading:
			ui.setStatus(IconWorking+" "+ui.localization.GetText(KeyDownloadingVideo), widget.MediumImportance)
		case model.RunStateExtracting:
			ui.setStatus(IconWorking+" "+ui.localization.GetText(KeyExtracting), widget.MediumImportance)
		}

	case pipeline.EventProgress:
		if ev.Total > 0 {
			ui.progressBar.Max = float64(ev.Total)
		}
		ui.progressBar.SetValue(float64(ev.Done))
		if ev.Frame == nil {
			ui.setStatus(IconWorking+" "+fmt.Sprintf(ui.localization.GetText(KeyExtractingCount), ev.Total), widget.MediumImportance)
		} else {
			ui.setStatus(IconFrames+" "+fmt.Sprintf(ui.localization.GetText(KeyProcessed), ev.Written, ev.Total), widget.MediumImportance)
		}

	case pipeline.EventWarning:
		ui.warningLabel.SetText(ev.Message)
		ui.warningLabel.Show()
	}
}

// finishRun shows the outcome and returns the form to idle
func (ui *RootUI) finishRun(task *model.ExtractionTask, err error) {
	ui.running = false
	ui.startBtn.Enable()

	if err != nil {
		ui.log.Error("run failed", zap.Error(err))
		ui.progressBar.SetValue(0)
		ui.setStatus(IconError+" "+ui.localization.GetText(KeyProcessFailed), widget.DangerImportance)
		ui.showError(fmt.Errorf(ui.localization.GetText(KeyErrorOccurred), err.Error()))
		return
	}

	ui.setStatus(IconSuccess+" "+fmt.Sprintf(ui.localization.GetText(KeySuccess), task.Succeeded), widget.SuccessImportance)

	info := dialog.NewInformation(
		ui.localization.GetText(KeyComplete),
		fmt.Sprintf(ui.localization.GetText(KeyCompleteMessage), task.Succeeded, task.OutputDir),
		ui.window,
	)
	if ui.settings.GetAutoRevealOnComplete() {
		outputDir := task.OutputDir
		info.SetOnClosed(func() {
			ui.revealFolder(outputDir)
		})
	}
	info.Show()
}

// revealFolder opens dir in the native file manager
func (ui *RootUI) revealFolder(dir string) {
	if err := ui.openFolder(dir); err != nil {
		ui.log.Warn("open folder failed", zap.String("dir", dir), zap.Error(err))
		ui.showError(fmt.Errorf("%s: %w", ui.localization.GetText(KeyErrorOpeningFolder), err))
	}
}

func (ui *RootUI) setStatus(text string, importance widget.Importance) {
	ui.statusLabel.Importance = importance
	ui.statusLabel.SetText(text)
}

func (ui *RootUI) showError(err error) {
	dialog.ShowError(err, ui.window)
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	ShowSettingsDialog(ui.window, ui.settings, ui.localization, func() {
		ui.localization.SetLanguage(ui.settings.GetLanguage())
		ui.refreshUITexts()
		ui.createMenu()
		if !ui.running {
			ui.countEntry.SetText(strconv.Itoa(ui.settings.GetFrameCount()))
		}
	})
}
