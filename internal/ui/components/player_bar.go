package components

import (
	"context"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/Alexander-D-Karpov/tracklist/internal/logger"
	"github.com/Alexander-D-Karpov/tracklist/internal/tracklist"
	"github.com/Alexander-D-Karpov/tracklist/pkg/types"
)

// Transport is the playback control surface of the player.
type Transport interface {
	IsPlaying() bool
	Pause() error
	Resume() error
	Next(ctx context.Context) (bool, error)
	SetVolume(volume float64)
	Position() time.Duration
	CurrentTrack() *types.Track
}

type PlayerBar struct {
	ctx    context.Context
	player Transport
	log    *zap.Logger

	container *fyne.Container
	playBtn   *widget.Button
	nextBtn   *widget.Button
	volumeBar *widget.Slider
	songLabel *widget.Label
	timeLabel *widget.Label
}

func NewPlayerBar(ctx context.Context, player Transport, volume float64, log *zap.Logger) *PlayerBar {
	pb := &PlayerBar{ctx: ctx, player: player, log: logger.OrNop(log)}

	pb.playBtn = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), pb.TogglePlayback)
	pb.nextBtn = widget.NewButtonWithIcon("", theme.MediaSkipNextIcon(), pb.Next)
	pb.songLabel = widget.NewLabel("Nothing playing")
	pb.songLabel.Truncation = fyne.TextTruncateEllipsis
	pb.timeLabel = widget.NewLabel("0:00 / 0:00")

	pb.volumeBar = widget.NewSlider(0, 1)
	pb.volumeBar.Step = 0.05
	pb.volumeBar.SetValue(volume)
	pb.volumeBar.OnChanged = player.SetVolume

	volumeBox := container.NewGridWrap(fyne.NewSize(120, pb.volumeBar.MinSize().Height), pb.volumeBar)
	pb.container = container.NewBorder(nil, nil,
		container.NewHBox(pb.playBtn, pb.nextBtn),
		container.NewHBox(pb.timeLabel, widget.NewIcon(theme.VolumeUpIcon()), volumeBox),
		pb.songLabel,
	)
	return pb
}

func (pb *PlayerBar) Container() *fyne.Container { return pb.container }

func (pb *PlayerBar) TogglePlayback() {
	var err error
	if pb.player.IsPlaying() {
		err = pb.player.Pause()
	} else {
		err = pb.player.Resume()
	}
	if err != nil {
		pb.log.Warn("toggle playback failed", zap.Error(err))
	}
	pb.Update()
}

func (pb *PlayerBar) Next() {
	ok, err := pb.player.Next(pb.ctx)
	if err != nil {
		pb.log.Warn("skip to next track failed", zap.Error(err))
	}
	if !ok && err == nil {
		pb.log.Debug("queue is empty")
	}
	pb.Update()
}

// Update redraws the title, time and play button from the player.
func (pb *PlayerBar) Update() {
	track := pb.player.CurrentTrack()
	if track == nil {
		pb.songLabel.SetText("Nothing playing")
		pb.timeLabel.SetText("0:00 / 0:00")
		pb.playBtn.SetIcon(theme.MediaPlayIcon())
		return
	}

	title := track.DisplayTitle()
	if track.Artist != "" {
		title = track.Artist + " - " + title
	}
	pb.songLabel.SetText(title)

	pos := int(pb.player.Position() / time.Second)
	pb.timeLabel.SetText(tracklist.FormatDuration(pos) + " / " + tracklist.FormatDuration(track.Duration))

	if pb.player.IsPlaying() {
		pb.playBtn.SetIcon(theme.MediaPauseIcon())
	} else {
		pb.playBtn.SetIcon(theme.MediaPlayIcon())
	}
}
