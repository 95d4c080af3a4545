package tracklist

import (
	"context"

	"fyne.io/fyne/v2"
	"go.uber.org/zap"

	"github.com/Alexander-D-Karpov/tracklist/internal/logger"
	"github.com/Alexander-D-Karpov/tracklist/pkg/types"
)

const defaultCoverSize = 48

type Options struct {
	Player types.QueueState
	Store  types.MetadataStore
	Art    types.ArtCache
	Rows   RowFactory

	// ShowMenu applies to every row of the list.
	ShowMenu bool
	// CoverSize is the unscaled album cover edge in pixels.
	CoverSize int
	Logger    *zap.Logger
}

type entry struct {
	state RowState
	view  RowView
}

// TrackList owns an ordered set of rows and keeps their playing indicator
// and number labels in sync with the player. All methods must be called
// from the UI goroutine; player notifications are routed through the
// dispatcher set with SetDispatcher.
type TrackList struct {
	ctx  context.Context
	opts Options
	log  *zap.Logger

	rows        []*entry
	subID       types.SubscriptionID
	subscribed  bool
	onActivated func(objectID int64)
	dispatch    func(func())
}

func New(ctx context.Context, opts Options) *TrackList {
	if opts.CoverSize <= 0 {
		opts.CoverSize = defaultCoverSize
	}
	return &TrackList{
		ctx:      ctx,
		opts:     opts,
		log:      logger.OrNop(opts.Logger).Named("tracklist"),
		dispatch: func(fn func()) { fn() },
	}
}

// SetDispatcher sets how queue notifications reach the UI goroutine.
func (l *TrackList) SetDispatcher(dispatch func(func())) {
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	l.dispatch = dispatch
}

// SetShowMenu changes menu visibility for every row, existing ones included.
func (l *TrackList) SetShowMenu(show bool) {
	l.opts.ShowMenu = show
	for _, e := range l.rows {
		e.state.ShowMenu = show
		e.view.SetMenuVisible(show)
	}
}

// OnActivated registers the handler for row activation.
func (l *TrackList) OnActivated(fn func(objectID int64)) { l.onActivated = fn }

// AddTrack appends a plain track row.
func (l *TrackList) AddTrack(trackID int64, number int, title string, durationSeconds int, queuePos int) TrackRowView {
	view := l.opts.Rows.NewTrackRow()
	state := l.baseState(KindTrack, trackID, number, title, durationSeconds, queuePos)
	state.Loved = l.isLoved(trackID)

	l.render(view, state)
	view.SetLoved(state.Loved)
	l.append(view, state)

	l.log.Debug("track row added",
		zap.Int64("track_id", trackID),
		zap.Int("number", number),
		zap.Int("queue_pos", queuePos),
		zap.Bool("playing", state.Playing))
	return view
}

// AddAlbum appends a track row carrying an album header. When albumID is 0
// the header stays hidden and no album metadata is looked up.
func (l *TrackList) AddAlbum(trackID, albumID int64, number int, title string, durationSeconds int, queuePos int) AlbumRowView {
	view := l.opts.Rows.NewAlbumRow()
	state := l.baseState(KindAlbum, trackID, number, title, durationSeconds, queuePos)
	state.AlbumID = albumID

	l.render(view, state)

	if albumID != 0 {
		view.SetAlbumAndArtist(l.ctx, albumID)
		state.AlbumArtist, state.AlbumTitle = view.AlbumHeader()

		state.CoverAlbumID = view.AlbumID()
		if state.CoverAlbumID == 0 {
			state.CoverAlbumID = albumID
		}
		l.applyCover(view, &state)

		state.HeaderVisible = true
		view.SetHeaderVisible(true)
	}

	l.append(view, state)

	l.log.Debug("album row added",
		zap.Int64("track_id", trackID),
		zap.Int64("album_id", albumID),
		zap.Bool("cover", state.Cover != nil))
	return view
}

// UpdatePlayingRow marks the row of trackID as playing and every other row
// as not playing.
func (l *TrackList) UpdatePlayingRow(trackID int64) {
	for _, e := range l.rows {
		playing := e.view.ObjectID() == trackID
		e.state.Playing = playing
		e.view.SetPlayingIndicator(playing)
	}
}

// RefreshCover retries the cover of every album row showing albumID, for
// covers that were not available when the row was added.
func (l *TrackList) RefreshCover(albumID int64) {
	for _, e := range l.rows {
		if e.state.Kind != KindAlbum || e.state.CoverAlbumID != albumID {
			continue
		}
		if view, ok := e.view.(AlbumRowView); ok {
			l.applyCover(view, &e.state)
		}
	}
}

// RefreshQueueLabels recomputes every row's number label from the queue.
func (l *TrackList) RefreshQueueLabels() {
	for _, e := range l.rows {
		id := e.view.ObjectID()
		pos := l.queuePosition(id)
		e.state.QueuePosition = pos
		e.state.Label = LabelFor(pos, e.view.Number())
		e.view.SetNumberLabel(e.state.Label)
	}
}

// Show subscribes to queue changes. Calling it while visible is a no-op.
func (l *TrackList) Show() {
	if l.subscribed || l.opts.Player == nil {
		return
	}
	l.subID = l.opts.Player.SubscribeQueueChanged(func() {
		l.dispatch(l.RefreshQueueLabels)
	})
	l.subscribed = true
	l.log.Debug("subscribed to queue changes", zap.Uint64("subscription", uint64(l.subID)))
}

// Hide drops the queue subscription. Calling it while hidden is a no-op.
func (l *TrackList) Hide() {
	if !l.subscribed {
		return
	}
	l.opts.Player.Unsubscribe(l.subID)
	l.log.Debug("unsubscribed from queue changes", zap.Uint64("subscription", uint64(l.subID)))
	l.subID = 0
	l.subscribed = false
}

func (l *TrackList) Visible() bool { return l.subscribed }

// Clear destroys every row.
func (l *TrackList) Clear() { l.rows = nil }

func (l *TrackList) Len() int { return len(l.rows) }

// Rows returns a snapshot of the current row states in list order.
func (l *TrackList) Rows() []RowState {
	out := make([]RowState, len(l.rows))
	for i, e := range l.rows {
		out[i] = e.state
	}
	return out
}

// Views returns the row views in list order.
func (l *TrackList) Views() []RowView {
	out := make([]RowView, len(l.rows))
	for i, e := range l.rows {
		out[i] = e.view
	}
	return out
}

// Activate raises the activation event for the row at index.
func (l *TrackList) Activate(index int) {
	if index < 0 || index >= len(l.rows) {
		return
	}
	l.activate(l.rows[index].view.ObjectID())
}

func (l *TrackList) activate(objectID int64) {
	if l.onActivated != nil {
		l.onActivated(objectID)
	}
}

func (l *TrackList) append(view RowView, state RowState) {
	view.OnActivated(func() { l.activate(view.ObjectID()) })
	l.rows = append(l.rows, &entry{state: state, view: view})
}

func (l *TrackList) baseState(kind RowKind, trackID int64, number int, title string, durationSeconds, queuePos int) RowState {
	current, ok := l.currentTrack()
	return RowState{
		Kind:          kind,
		ObjectID:      trackID,
		Number:        number,
		QueuePosition: queuePos,
		Label:         LabelFor(queuePos, number),
		Title:         title,
		Duration:      FormatDuration(durationSeconds),
		Playing:       ok && current == trackID,
		ShowMenu:      l.opts.ShowMenu,
	}
}

// render pushes the fields shared by both row variants.
func (l *TrackList) render(view RowView, s RowState) {
	view.SetMenuVisible(s.ShowMenu)
	view.SetPlayingIndicator(s.Playing)
	view.SetNumberLabel(s.Label)
	view.SetNumber(s.Number)
	view.SetTitleLabel(s.Title)
	view.SetDurationLabel(s.Duration)
	view.SetObjectID(s.ObjectID)
}

func (l *TrackList) currentTrack() (int64, bool) {
	if l.opts.Player == nil {
		return 0, false
	}
	return l.opts.Player.CurrentTrackID()
}

func (l *TrackList) queuePosition(trackID int64) int {
	if l.opts.Player == nil || !l.opts.Player.IsInQueue(trackID) {
		return 0
	}
	pos, ok := l.opts.Player.QueuePosition(trackID)
	if !ok {
		return 0
	}
	return pos
}

func (l *TrackList) isLoved(trackID int64) bool {
	if l.opts.Store == nil {
		return false
	}
	loved, err := l.opts.Store.IsLoved(l.ctx, trackID)
	if err != nil {
		l.log.Debug("loved lookup failed", zap.Int64("track_id", trackID), zap.Error(err))
		return false
	}
	return loved
}

// albumName is the cover tooltip of albumID, reusing the header title when
// the cover belongs to the header's album.
func (l *TrackList) albumName(state *RowState, albumID int64) string {
	if albumID == state.AlbumID || l.opts.Store == nil {
		return state.AlbumTitle
	}
	name, err := l.opts.Store.AlbumName(l.ctx, albumID)
	if err != nil {
		return ""
	}
	return name
}

func (l *TrackList) cover(albumID int64, size int) fyne.Resource {
	if l.opts.Art == nil {
		return nil
	}
	cover, err := l.opts.Art.AlbumCover(l.ctx, albumID, size)
	if err != nil {
		l.log.Debug("cover unavailable", zap.Int64("album_id", albumID), zap.Error(err))
		return nil
	}
	return cover
}

func (l *TrackList) applyCover(view AlbumRowView, state *RowState) {
	size := int(float32(l.opts.CoverSize) * scaleOf(view))
	cover := l.cover(state.CoverAlbumID, size)
	if cover == nil {
		return
	}
	tooltip := l.albumName(state, state.CoverAlbumID)
	state.Cover = cover
	state.CoverTooltip = tooltip
	view.SetCover(cover, tooltip)
}

func scaleOf(view AlbumRowView) float32 {
	if s := view.ScaleFactor(); s > 0 {
		return s
	}
	return 1
}

// ResolveAlbumHeader looks up the album's artist and title. Missing values
// come back empty.
func ResolveAlbumHeader(ctx context.Context, store types.MetadataStore, albumID int64) (artist, album string) {
	if store == nil || albumID == 0 {
		return "", ""
	}
	if name, err := store.ArtistName(ctx, albumID); err == nil {
		artist = name
	}
	if name, err := store.AlbumName(ctx, albumID); err == nil {
		album = name
	}
	return artist, album
}
