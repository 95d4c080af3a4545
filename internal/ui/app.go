package ui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/Alexander-D-Karpov/tracklist/internal/codecs"
	"github.com/Alexander-D-Karpov/tracklist/internal/config"
	"github.com/Alexander-D-Karpov/tracklist/internal/handlers"
	"github.com/Alexander-D-Karpov/tracklist/internal/logger"
	"github.com/Alexander-D-Karpov/tracklist/internal/services"
	"github.com/Alexander-D-Karpov/tracklist/internal/ui/components"
	"github.com/Alexander-D-Karpov/tracklist/internal/ui/themes"
	"github.com/Alexander-D-Karpov/tracklist/internal/ui/views"
	"github.com/Alexander-D-Karpov/tracklist/pkg/types"
)

const (
	statusReady   = "Ready"
	statusTimeout = 5 * time.Second
	progressTick  = 500 * time.Millisecond
)

type App struct {
	fyneApp fyne.App
	window  fyne.Window
	ctx     context.Context
	cancel  context.CancelFunc
	cfg     *config.Config
	log     *zap.Logger
	svc     *services.Services

	tracks      *components.TracksWidget
	playerBar   *components.PlayerBar
	searchEntry *widget.Entry
	statusBar   *widget.Label

	mu          sync.Mutex
	debounce    *time.Timer
	statusTimer *time.Timer
	loadGen     uint64

	subs      []types.SubscriptionID
	closeOnce sync.Once
}

func NewApp(ctx context.Context, fyneApp fyne.App, cfg *config.Config, svc *services.Services, log *zap.Logger) (*App, error) {
	if svc == nil {
		return nil, errors.New("services are required")
	}
	fyneApp.Settings().SetTheme(themes.NewTheme(cfg.UI.Theme))

	window := fyneApp.NewWindow("Tracklist")
	if cfg.UI.WindowWidth > 0 && cfg.UI.WindowHeight > 0 {
		window.Resize(fyne.NewSize(float32(cfg.UI.WindowWidth), float32(cfg.UI.WindowHeight)))
	}
	window.CenterOnScreen()

	ctx, cancel := context.WithCancel(ctx)
	a := &App{
		fyneApp: fyneApp,
		window:  window,
		ctx:     ctx,
		cancel:  cancel,
		cfg:     cfg,
		log:     logger.OrNop(log).Named("ui"),
		svc:     svc,
	}

	a.setupUI()
	a.setupEventHandlers()
	a.setupKeyboardShortcuts()
	go a.trackProgress()

	a.loadTracks("")
	a.log.Debug("application initialized")
	return a, nil
}

func (a *App) setupUI() {
	a.tracks = components.NewTracksWidget(a.ctx, components.TracksOptions{
		Player:    a.svc.Player,
		Store:     a.svc.DB,
		Ratings:   a.svc.DB,
		Art:       a.svc.Art,
		ShowMenu:  a.cfg.UI.ShowMenu,
		CoverSize: a.cfg.Art.RowSize,
		OnPlay:    a.play,
		Logger:    a.log,
	})
	a.tracks.OnActivated(a.play)

	a.playerBar = components.NewPlayerBar(a.ctx, a.svc.Player, a.cfg.Audio.DefaultVolume, a.log)

	a.searchEntry = widget.NewEntry()
	a.searchEntry.SetPlaceHolder("Search tracks, artists, albums...")
	a.searchEntry.OnChanged = a.scheduleSearch
	a.searchEntry.OnSubmitted = func(q string) { a.loadTracks(q) }

	a.statusBar = widget.NewLabel(statusReady)

	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), a.showSettings)
	top := container.NewBorder(nil, nil, nil, settingsBtn, a.searchEntry)
	bottom := container.NewVBox(a.playerBar.Container(), a.statusBar)
	a.window.SetContent(container.NewBorder(top, bottom, nil, nil, a.tracks))
	a.window.SetOnClosed(a.Close)
}

func (a *App) setupEventHandlers() {
	player := a.svc.Player

	// Bus handlers run on their own goroutines, so two quick changes may be
	// delivered out of order. The payload is ignored in favour of the
	// player's current track.
	a.subs = append(a.subs, player.OnTrackChanged(func(int64) {
		fyne.Do(a.syncPlayingRow)
	}))

	a.subs = append(a.subs, a.svc.Bus.Subscribe(handlers.EventMissingCodec, func(data interface{}) {
		diag, ok := data.(*codecs.Diagnostic)
		if !ok {
			return
		}
		fyne.Do(func() {
			a.updateStatus(fmt.Sprintf("Missing %s, requesting codec install", diag.Description))
		})
	}))

	a.svc.Art.OnCoverReady(func(albumID int64) {
		fyne.Do(func() { a.tracks.RefreshCover(albumID) })
	})
}

func (a *App) syncPlayingRow() {
	id, ok := a.svc.Player.CurrentTrackID()
	if !ok {
		id = 0
	}
	a.tracks.UpdatePlayingRow(id)
	a.playerBar.Update()
}

func (a *App) setupKeyboardShortcuts() {
	a.window.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		switch key.Name {
		case fyne.KeySpace:
			a.playerBar.TogglePlayback()
		case fyne.KeyN:
			a.playerBar.Next()
		case fyne.KeyF11:
			a.window.SetFullScreen(!a.window.FullScreen())
		case fyne.KeyEscape:
			if a.window.FullScreen() {
				a.window.SetFullScreen(false)
			}
		}
	})

	a.window.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyF, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) {
		a.window.Canvas().Focus(a.searchEntry)
	})
}

func (a *App) showSettings() {
	sv := views.NewSettingsView(a.cfg, a.window, a.log)
	sv.OnSettingsChanged(a.applySettings)
	d := dialog.NewCustom("Settings", "Close", sv.Container(), a.window)
	d.Resize(fyne.NewSize(480, 520))
	d.Show()
}

func (a *App) applySettings(cfg *config.Config) {
	a.fyneApp.Settings().SetTheme(themes.NewTheme(cfg.UI.Theme))
	a.tracks.SetShowMenu(cfg.UI.ShowMenu)
	a.svc.Music.SetSearchLimit(cfg.UI.SearchLimit)
	a.updateStatus("Settings applied")
}

// trackProgress keeps the player bar clock moving while something plays.
func (a *App) trackProgress() {
	ticker := time.NewTicker(progressTick)
	defer ticker.Stop()
	for {
		select {
		case <-a.ctx.Done():
			return
		case <-ticker.C:
			if a.svc.Player.IsPlaying() {
				fyne.Do(a.playerBar.Update)
			}
		}
	}
}

func (a *App) scheduleSearch(query string) {
	delay := time.Duration(a.cfg.UI.DebounceMs) * time.Millisecond

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.debounce != nil {
		a.debounce.Stop()
	}
	a.debounce = time.AfterFunc(delay, func() {
		fyne.Do(func() { a.loadTracks(query) })
	})
}

// loadTracks fetches the tracks for query off the UI thread. Results of an
// older query that finish late are dropped.
func (a *App) loadTracks(query string) {
	a.mu.Lock()
	a.loadGen++
	gen := a.loadGen
	a.mu.Unlock()

	go func() {
		tracks, err := a.svc.Music.Tracks(a.ctx, query)
		fyne.Do(func() {
			a.mu.Lock()
			stale := gen != a.loadGen
			a.mu.Unlock()
			if stale {
				return
			}
			if err != nil {
				a.log.Error("load tracks failed", zap.String("query", query), zap.Error(err))
				a.updateStatus("Could not load tracks")
				return
			}
			a.tracks.SetTracks(tracks)
			if query != "" {
				a.updateStatus(fmt.Sprintf("%d results", len(tracks)))
			}
		})
	}()
}

func (a *App) play(trackID int64) {
	go func() {
		err := a.svc.Player.Play(a.ctx, trackID)
		if err == nil {
			return
		}
		var diag *codecs.Diagnostic
		if errors.As(err, &diag) {
			return
		}
		a.log.Warn("play failed", zap.Int64("track_id", trackID), zap.Error(err))
		fyne.Do(func() { a.updateStatus("Could not play track") })
	}()
}

// updateStatus shows message and falls back to the idle text after a while.
func (a *App) updateStatus(message string) {
	a.statusBar.SetText(message)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.statusTimer != nil {
		a.statusTimer.Stop()
	}
	a.statusTimer = time.AfterFunc(statusTimeout, func() {
		fyne.Do(func() { a.statusBar.SetText(statusReady) })
	})
}

func (a *App) ShowAndRun() {
	a.window.ShowAndRun()
}

func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.log.Debug("shutting down")
		a.cancel()

		a.mu.Lock()
		if a.debounce != nil {
			a.debounce.Stop()
		}
		if a.statusTimer != nil {
			a.statusTimer.Stop()
		}
		a.mu.Unlock()

		for _, id := range a.subs {
			a.svc.Bus.Unsubscribe(id)
		}
		a.tracks.Close()
	})
}
