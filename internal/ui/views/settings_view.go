package views

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/Alexander-D-Karpov/tracklist/internal/config"
	"github.com/Alexander-D-Karpov/tracklist/internal/logger"
)

type SettingsView struct {
	cfg          *config.Config
	container    *container.Scroll
	parentWindow fyne.Window
	log          *zap.Logger

	themeSelect     *widget.Select
	showMenuCheck   *widget.Check
	windowSizeEntry *widget.Entry
	volumeSlider    *widget.Slider
	maxResults      *widget.Slider
	debounceSlider  *widget.Slider
	logLevelSelect  *widget.Select

	saveBtn  *widget.Button
	applyBtn *widget.Button
	resetBtn *widget.Button

	onSettingsChanged func(*config.Config)
	saved             config.Config
}

func NewSettingsView(cfg *config.Config, parent fyne.Window, log *zap.Logger) *SettingsView {
	sv := &SettingsView{
		cfg:          cfg,
		parentWindow: parent,
		log:          logger.OrNop(log).Named("settings"),
		saved:        *cfg,
	}
	sv.setupWidgets()
	sv.setupLayout()
	sv.loadSettings()
	return sv
}

// OnSettingsChanged registers fn to run after settings are applied or saved.
func (sv *SettingsView) OnSettingsChanged(fn func(*config.Config)) { sv.onSettingsChanged = fn }

func (sv *SettingsView) Container() fyne.CanvasObject { return sv.container }

func (sv *SettingsView) setupWidgets() {
	sv.themeSelect = widget.NewSelect([]string{"dark", "light", "system"}, nil)
	sv.showMenuCheck = widget.NewCheck("Show track menu button", nil)
	sv.windowSizeEntry = widget.NewEntry()
	sv.windowSizeEntry.SetPlaceHolder("1000x700")

	sv.volumeSlider = widget.NewSlider(0, 100)
	sv.maxResults = widget.NewSlider(10, 500)
	sv.maxResults.Step = 10
	sv.debounceSlider = widget.NewSlider(50, 1000)
	sv.debounceSlider.Step = 50
	sv.logLevelSelect = widget.NewSelect([]string{"debug", "info", "warn", "error"}, nil)

	sv.saveBtn = widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), sv.saveSettings)
	sv.saveBtn.Importance = widget.HighImportance
	sv.applyBtn = widget.NewButtonWithIcon("Apply", theme.ConfirmIcon(), sv.applySettings)
	sv.resetBtn = widget.NewButtonWithIcon("Revert", theme.ViewRefreshIcon(), sv.resetSettings)
}

func (sv *SettingsView) setupLayout() {
	uiCard := widget.NewCard("Interface", "", container.NewVBox(
		sv.createFormRow("Theme:", sv.themeSelect),
		sv.showMenuCheck,
		sv.createFormRow("Window size:", sv.windowSizeEntry),
	))
	audioCard := widget.NewCard("Playback", "", container.NewVBox(
		sv.createSliderRow("Default volume (%):", sv.volumeSlider),
	))
	searchCard := widget.NewCard("Search", "", container.NewVBox(
		sv.createSliderRow("Max results:", sv.maxResults),
		sv.createSliderRow("Debounce (ms):", sv.debounceSlider),
	))
	logCard := widget.NewCard("Logging", "", sv.createFormRow("Level:", sv.logLevelSelect))

	content := container.NewVBox(
		uiCard, audioCard, searchCard, logCard,
		container.NewHBox(sv.saveBtn, sv.applyBtn, sv.resetBtn),
	)
	sv.container = container.NewVScroll(content)
}

func (sv *SettingsView) createFormRow(label string, comp fyne.CanvasObject) *fyne.Container {
	return container.NewBorder(nil, nil, widget.NewLabel(label), nil, comp)
}

func (sv *SettingsView) createSliderRow(label string, slider *widget.Slider) *fyne.Container {
	valueLabel := widget.NewLabel(fmt.Sprintf("%.0f", slider.Value))
	slider.OnChanged = func(value float64) {
		valueLabel.SetText(fmt.Sprintf("%.0f", value))
	}
	return container.NewBorder(nil, nil, widget.NewLabel(label), valueLabel, slider)
}

func (sv *SettingsView) loadSettings() {
	sv.themeSelect.SetSelected(sv.cfg.UI.Theme)
	sv.showMenuCheck.SetChecked(sv.cfg.UI.ShowMenu)
	sv.windowSizeEntry.SetText(fmt.Sprintf("%dx%d", sv.cfg.UI.WindowWidth, sv.cfg.UI.WindowHeight))
	sv.volumeSlider.SetValue(sv.cfg.Audio.DefaultVolume * 100)
	sv.maxResults.SetValue(float64(sv.cfg.UI.SearchLimit))
	sv.debounceSlider.SetValue(float64(sv.cfg.UI.DebounceMs))
	sv.logLevelSelect.SetSelected(sv.cfg.Log.Level)
}

func (sv *SettingsView) updateConfigFromUI() {
	sv.cfg.UI.Theme = sv.themeSelect.Selected
	sv.cfg.UI.ShowMenu = sv.showMenuCheck.Checked
	var width, height int
	if n, err := fmt.Sscanf(sv.windowSizeEntry.Text, "%dx%d", &width, &height); n == 2 && err == nil && width > 0 && height > 0 {
		sv.cfg.UI.WindowWidth = width
		sv.cfg.UI.WindowHeight = height
	}
	sv.cfg.Audio.DefaultVolume = sv.volumeSlider.Value / 100
	sv.cfg.UI.SearchLimit = int(sv.maxResults.Value)
	sv.cfg.UI.DebounceMs = int(sv.debounceSlider.Value)
	sv.cfg.Log.Level = sv.logLevelSelect.Selected
}

func (sv *SettingsView) applySettings() {
	sv.updateConfigFromUI()
	sv.notifyChanged()
}

func (sv *SettingsView) saveSettings() {
	sv.updateConfigFromUI()
	if err := sv.cfg.Save(); err != nil {
		sv.log.Error("save settings failed", zap.Error(err))
		sv.showError(err)
		return
	}
	sv.saved = *sv.cfg
	sv.notifyChanged()
}

// resetSettings goes back to the values of the last save.
func (sv *SettingsView) resetSettings() {
	sv.cfg.UI = sv.saved.UI
	sv.cfg.Audio = sv.saved.Audio
	sv.cfg.Log = sv.saved.Log
	sv.loadSettings()
	sv.notifyChanged()
}

func (sv *SettingsView) notifyChanged() {
	if sv.onSettingsChanged != nil {
		sv.onSettingsChanged(sv.cfg)
	}
}

func (sv *SettingsView) showError(err error) {
	if sv.parentWindow == nil {
		return
	}
	dialog.ShowError(err, sv.parentWindow)
}
