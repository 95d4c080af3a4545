package components

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/Alexander-D-Karpov/tracklist/internal/logger"
	"github.com/Alexander-D-Karpov/tracklist/pkg/types"
)

// MenuActions are the operations a row menu can trigger. Nil members are
// left out of the menu.
type MenuActions struct {
	Context context.Context
	Queue   types.QueueEditor
	Ratings types.RatingStore
	OnPlay  func(trackID int64)
	Logger  *zap.Logger
}

func (a *MenuActions) ctx() context.Context {
	if a == nil || a.Context == nil {
		return context.Background()
	}
	return a.Context
}

// TrackMenu is the popover menu of one track row.
type TrackMenu struct {
	trackID int64
	actions *MenuActions
	log     *zap.Logger

	popover  *Popover
	queueBtn *widget.Button
	rating   *RatingWidget
}

func NewTrackMenu(trackID int64, actions *MenuActions, c fyne.Canvas) *TrackMenu {
	if actions == nil {
		actions = &MenuActions{}
	}
	m := &TrackMenu{
		trackID: trackID,
		actions: actions,
		log:     logger.OrNop(actions.Logger).Named("menu"),
	}
	m.popover = NewPopover(m.build(), c)
	return m
}

func (m *TrackMenu) build() fyne.CanvasObject {
	items := container.NewVBox()

	if m.actions.OnPlay != nil {
		play := widget.NewButtonWithIcon("Play", theme.MediaPlayIcon(), func() {
			m.log.Debug("play requested", zap.Int64("track_id", m.trackID))
			m.actions.OnPlay(m.trackID)
			m.Hide()
		})
		play.Alignment = widget.ButtonAlignLeading
		play.Importance = widget.LowImportance
		items.Add(play)
	}

	if m.actions.Queue != nil {
		m.queueBtn = widget.NewButton("", m.toggleQueue)
		m.queueBtn.Alignment = widget.ButtonAlignLeading
		m.queueBtn.Importance = widget.LowImportance
		m.updateQueueButton()
		items.Add(m.queueBtn)
	}

	if m.actions.Ratings != nil {
		rating, err := m.actions.Ratings.Rating(m.actions.ctx(), m.trackID)
		if err != nil {
			m.log.Debug("rating lookup failed", zap.Int64("track_id", m.trackID), zap.Error(err))
		}
		m.rating = NewRatingWidget(rating)
		m.rating.OnChanged = m.setRating
		if len(items.Objects) > 0 {
			items.Add(widget.NewSeparator())
		}
		items.Add(m.rating)
	}

	return items
}

func (m *TrackMenu) toggleQueue() {
	q := m.actions.Queue
	if q.IsInQueue(m.trackID) {
		q.Dequeue(m.trackID)
	} else {
		q.Enqueue(m.trackID)
	}
	m.Hide()
}

func (m *TrackMenu) updateQueueButton() {
	if m.actions.Queue.IsInQueue(m.trackID) {
		m.queueBtn.SetText("Remove from queue")
		m.queueBtn.SetIcon(theme.ContentRemoveIcon())
	} else {
		m.queueBtn.SetText("Add to queue")
		m.queueBtn.SetIcon(theme.ContentAddIcon())
	}
}

func (m *TrackMenu) setRating(rating int) {
	if err := m.actions.Ratings.SetRating(m.actions.ctx(), m.trackID, rating); err != nil {
		m.log.Warn("rating not saved", zap.Int64("track_id", m.trackID), zap.Error(err))
	}
}

// SetOnClosed registers fn for when the menu goes away.
func (m *TrackMenu) SetOnClosed(fn func()) { m.popover.SetOnClosed(fn) }

func (m *TrackMenu) ShowAt(pos fyne.Position) { m.popover.ShowAtPosition(pos) }

// ShowBelow opens the menu under the bottom-left corner of anchor.
func (m *TrackMenu) ShowBelow(anchor fyne.CanvasObject) {
	m.popover.ShowAtRelativePosition(fyne.NewPos(0, anchor.Size().Height), anchor)
}

func (m *TrackMenu) Hide() { m.popover.Hide() }

func (m *TrackMenu) IsShown() bool { return m.popover.IsShown() }
