package components

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/Alexander-D-Karpov/tracklist/internal/tracklist"
	"github.com/Alexander-D-Karpov/tracklist/pkg/types"
)

// QueuePlayer is the player as seen by a track view.
type QueuePlayer interface {
	types.QueueState
	types.QueueEditor
}

type TracksOptions struct {
	Player    QueuePlayer
	Store     types.MetadataStore
	Ratings   types.RatingStore
	Art       types.ArtCache
	ShowMenu  bool
	CoverSize int
	OnPlay    func(trackID int64)
	Logger    *zap.Logger
}

// TracksWidget shows tracks grouped by album: the first track of every album
// gets an album row with header, the rest plain track rows. Queue labels
// follow the player while the widget is shown.
type TracksWidget struct {
	widget.BaseWidget

	ctx     context.Context
	opts    TracksOptions
	actions *MenuActions
	list    *tracklist.TrackList
	box     *fyne.Container
	scroll  *container.Scroll
	empty   *widget.Label
}

var _ tracklist.RowFactory = (*TracksWidget)(nil)

func NewTracksWidget(ctx context.Context, opts TracksOptions) *TracksWidget {
	tw := &TracksWidget{
		ctx:  ctx,
		opts: opts,
		actions: &MenuActions{
			Context: ctx,
			Ratings: opts.Ratings,
			OnPlay:  opts.OnPlay,
			Logger:  opts.Logger,
		},
		box:   container.NewVBox(),
		empty: widget.NewLabel("No tracks"),
	}
	if opts.Player != nil {
		tw.actions.Queue = opts.Player
	}

	listOpts := tracklist.Options{
		Store:     opts.Store,
		Art:       opts.Art,
		Rows:      tw,
		ShowMenu:  opts.ShowMenu,
		CoverSize: opts.CoverSize,
		Logger:    opts.Logger,
	}
	if opts.Player != nil {
		listOpts.Player = opts.Player
	}
	tw.list = tracklist.New(ctx, listOpts)
	tw.list.SetDispatcher(fyne.Do)
	tw.list.Show()

	tw.scroll = container.NewVScroll(tw.box)
	tw.box.Add(tw.empty)
	tw.ExtendBaseWidget(tw)
	return tw
}

func (tw *TracksWidget) NewTrackRow() tracklist.TrackRowView {
	return NewTrackRow(tw.actions)
}

func (tw *TracksWidget) NewAlbumRow() tracklist.AlbumRowView {
	size := tw.opts.CoverSize
	if size <= 0 {
		size = 48
	}
	return NewAlbumRow(tw.actions, tw.opts.Store, float32(size), tw.scale)
}

func (tw *TracksWidget) scale() float32 {
	app := fyne.CurrentApp()
	if app == nil {
		return 1
	}
	if c := app.Driver().CanvasForObject(tw); c != nil {
		return c.Scale()
	}
	return 1
}

// SetTracks rebuilds the rows from tracks, which must be in album order.
func (tw *TracksWidget) SetTracks(tracks []*types.Track) {
	tw.list.Clear()
	tw.box.RemoveAll()

	var lastAlbum int64
	for i, t := range tracks {
		queuePos := 0
		if tw.opts.Player != nil {
			if pos, ok := tw.opts.Player.QueuePosition(t.ID); ok {
				queuePos = pos
			}
		}

		var row fyne.CanvasObject
		if t.AlbumID != 0 && (i == 0 || t.AlbumID != lastAlbum) {
			row = tw.list.AddAlbum(t.ID, t.AlbumID, t.Number, t.DisplayTitle(), t.Duration, queuePos).(fyne.CanvasObject)
		} else {
			row = tw.list.AddTrack(t.ID, t.Number, t.DisplayTitle(), t.Duration, queuePos).(fyne.CanvasObject)
		}
		lastAlbum = t.AlbumID
		tw.box.Add(row)
	}

	if len(tracks) == 0 {
		tw.box.Add(tw.empty)
	}
	tw.box.Refresh()
	tw.scroll.ScrollToTop()
}

func (tw *TracksWidget) OnActivated(fn func(trackID int64)) { tw.list.OnActivated(fn) }

func (tw *TracksWidget) UpdatePlayingRow(trackID int64) { tw.list.UpdatePlayingRow(trackID) }

func (tw *TracksWidget) RefreshQueueLabels() { tw.list.RefreshQueueLabels() }

func (tw *TracksWidget) SetShowMenu(show bool) {
	tw.opts.ShowMenu = show
	tw.list.SetShowMenu(show)
}

func (tw *TracksWidget) RefreshCover(albumID int64) { tw.list.RefreshCover(albumID) }

// List exposes the underlying row model.
func (tw *TracksWidget) List() *tracklist.TrackList { return tw.list }

// Show resumes following the queue.
func (tw *TracksWidget) Show() {
	tw.list.Show()
	tw.list.RefreshQueueLabels()
	tw.BaseWidget.Show()
}

// Hide stops following the queue until the widget is shown again.
func (tw *TracksWidget) Hide() {
	tw.list.Hide()
	tw.BaseWidget.Hide()
}

func (tw *TracksWidget) Close() { tw.list.Hide() }

func (tw *TracksWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(tw.scroll)
}
