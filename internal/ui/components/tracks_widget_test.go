package components

import (
	"context"
	"errors"
	"sync"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alexander-D-Karpov/tracklist/internal/tracklist"
	"github.com/Alexander-D-Karpov/tracklist/internal/ui/themes"
	"github.com/Alexander-D-Karpov/tracklist/pkg/types"
)

type stubPlayer struct {
	mu      sync.Mutex
	queue   []int64
	current int64
	subs    map[types.SubscriptionID]func()
	nextSub types.SubscriptionID
}

func newStubPlayer() *stubPlayer {
	return &stubPlayer{subs: map[types.SubscriptionID]func(){}}
}

func (p *stubPlayer) CurrentTrackID() (int64, bool) { return p.current, p.current != 0 }

func (p *stubPlayer) QueuePosition(id int64) (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, q := range p.queue {
		if q == id {
			return i + 1, true
		}
	}
	return 0, false
}

func (p *stubPlayer) IsInQueue(id int64) bool {
	_, ok := p.QueuePosition(id)
	return ok
}

func (p *stubPlayer) SubscribeQueueChanged(fn func()) types.SubscriptionID {
	p.nextSub++
	p.subs[p.nextSub] = fn
	return p.nextSub
}

func (p *stubPlayer) Unsubscribe(id types.SubscriptionID) { delete(p.subs, id) }

func (p *stubPlayer) notify() {
	for _, fn := range p.subs {
		fn()
	}
}

func (p *stubPlayer) Enqueue(id int64) {
	p.mu.Lock()
	p.queue = append(p.queue, id)
	p.mu.Unlock()
	p.notify()
}

func (p *stubPlayer) Dequeue(id int64) {
	p.mu.Lock()
	for i, q := range p.queue {
		if q == id {
			p.queue = append(p.queue[:i], p.queue[i+1:]...)
			break
		}
	}
	p.mu.Unlock()
	p.notify()
}

type stubStore struct {
	ratings map[int64]int
}

func (s *stubStore) ArtistName(_ context.Context, albumID int64) (string, error) {
	if albumID == 1 {
		return "Daft Punk", nil
	}
	return "", errors.New("not found")
}

func (s *stubStore) AlbumName(_ context.Context, albumID int64) (string, error) {
	if albumID == 1 {
		return "Discovery", nil
	}
	return "", errors.New("not found")
}

func (s *stubStore) AlbumIDOfTrack(_ context.Context, trackID int64) (int64, error) {
	if trackID == 1 || trackID == 2 {
		return 1, nil
	}
	return 0, errors.New("not found")
}

func (s *stubStore) IsLoved(_ context.Context, trackID int64) (bool, error) {
	return trackID == 2, nil
}

func (s *stubStore) Rating(_ context.Context, trackID int64) (int, error) {
	return s.ratings[trackID], nil
}

func (s *stubStore) SetRating(_ context.Context, trackID int64, rating int) error {
	s.ratings[trackID] = rating
	return nil
}

type stubArt struct{}

func (stubArt) AlbumCover(_ context.Context, albumID int64, _ int) (fyne.Resource, error) {
	if albumID == 1 {
		return fyne.NewStaticResource("cover.png", []byte{1}), nil
	}
	return nil, errors.New("pending")
}

func library() []*types.Track {
	return []*types.Track{
		{ID: 1, AlbumID: 1, Number: 1, Title: "One More Time", Duration: 320},
		{ID: 2, AlbumID: 1, Number: 2, Title: "Aerodynamic", Duration: 212},
		{ID: 3, AlbumID: 4, Number: 1, Title: "Windowlicker", Duration: 367},
		{ID: 4, Title: "", Duration: 61},
	}
}

func newWidget(t *testing.T) (*TracksWidget, *stubPlayer, *stubStore) {
	t.Helper()
	test.NewTempApp(t)

	player := newStubPlayer()
	store := &stubStore{ratings: map[int64]int{}}
	tw := NewTracksWidget(context.Background(), TracksOptions{
		Player:    player,
		Store:     store,
		Ratings:   store,
		Art:       stubArt{},
		ShowMenu:  true,
		CoverSize: 48,
	})
	return tw, player, store
}

func TestSetTracksGroupsByAlbum(t *testing.T) {
	tw, _, _ := newWidget(t)
	tw.SetTracks(library())

	views := tw.List().Views()
	require.Len(t, views, 4)
	assert.IsType(t, &AlbumRow{}, views[0])
	assert.IsType(t, &TrackRow{}, views[1])
	assert.IsType(t, &AlbumRow{}, views[2])
	assert.IsType(t, &TrackRow{}, views[3])

	first := views[0].(*AlbumRow)
	assert.True(t, first.HeaderVisible())
	assert.Equal(t, "Daft Punk", first.artist.Text)
	assert.Equal(t, "Discovery", first.album.Text)
	assert.Equal(t, "Discovery", first.CoverTooltip())
	assert.NotNil(t, first.cover.Resource)

	third := views[2].(*AlbumRow)
	assert.True(t, third.HeaderVisible())
	assert.Nil(t, third.cover.Resource)

	assert.Equal(t, "Untitled", views[3].(*TrackRow).title.Text)
	assert.Equal(t, "1:01", views[3].(*TrackRow).duration.Text)
	assert.True(t, views[1].(*TrackRow).Loved())

	tw.SetTracks(nil)
	assert.Zero(t, tw.List().Len())
}

func TestQueueLabelsFollowPlayer(t *testing.T) {
	tw, player, _ := newWidget(t)
	tw.SetTracks(library())
	row := tw.List().Views()[1].(*TrackRow)

	player.Enqueue(3)
	player.Enqueue(2)

	seg := row.numberText.Segments[0].(*widget.TextSegment)
	assert.Equal(t, "2", seg.Text)
	assert.True(t, seg.Style.TextStyle.Bold)
	assert.Equal(t, themes.ColorNameQueued, seg.Style.ColorName)

	tw.Hide()
	assert.False(t, tw.List().Visible())
	player.Dequeue(3)
	seg = row.numberText.Segments[0].(*widget.TextSegment)
	assert.Equal(t, "2", seg.Text)

	tw.Show()
	seg = row.numberText.Segments[0].(*widget.TextSegment)
	assert.Equal(t, "1", seg.Text)

	player.Dequeue(2)
	seg = row.numberText.Segments[0].(*widget.TextSegment)
	assert.Equal(t, "2", seg.Text)
	assert.False(t, seg.Style.TextStyle.Bold)
}

func TestPlayingRowIsExclusive(t *testing.T) {
	tw, _, _ := newWidget(t)
	tw.SetTracks(library())

	tw.UpdatePlayingRow(2)
	rows := tw.List().Views()
	assert.Equal(t, []string{tracklist.ClassRow}, rows[0].(*AlbumRow).Classes())
	assert.Equal(t, []string{tracklist.ClassPlaying}, rows[1].(*TrackRow).Classes())
	assert.True(t, rows[1].(*TrackRow).indicator.Visible())
	assert.False(t, rows[0].(*AlbumRow).indicator.Visible())
}

func TestTapActivatesRow(t *testing.T) {
	tw, _, _ := newWidget(t)
	tw.SetTracks(library())

	var activated []int64
	tw.OnActivated(func(id int64) { activated = append(activated, id) })

	test.Tap(tw.List().Views()[2].(*AlbumRow))
	test.Tap(tw.List().Views()[3].(*TrackRow))
	assert.Equal(t, []int64{3, 4}, activated)
}

func TestRowMenuLifecycle(t *testing.T) {
	tw, player, store := newWidget(t)
	tw.SetTracks(library())
	w := test.NewWindow(tw)
	defer w.Close()
	w.Resize(fyne.NewSize(600, 400))

	row := tw.List().Views()[1].(*TrackRow)
	test.TapSecondary(row)

	menu := row.Menu()
	require.NotNil(t, menu)
	assert.True(t, menu.IsShown())
	assert.Equal(t, []string{tracklist.ClassRow, tracklist.ClassMenuSelected}, row.Classes())
	assert.Len(t, w.Canvas().Overlays().List(), 1)
	assert.Equal(t, "Add to queue", menu.queueBtn.Text)

	menu.rating.tap(4)
	assert.Equal(t, 4, store.ratings[2])

	test.Tap(menu.queueBtn)
	assert.True(t, player.IsInQueue(2))
	assert.False(t, menu.IsShown())
	assert.Equal(t, []string{tracklist.ClassRow}, row.Classes())
	assert.Empty(t, w.Canvas().Overlays().List())
}

func TestAlbumRowLinksAlbumWithoutMenu(t *testing.T) {
	tw, _, _ := newWidget(t)
	tw.SetTracks(library())

	first := tw.List().Views()[0].(*AlbumRow)
	assert.Equal(t, int64(1), first.AlbumID())
	assert.Zero(t, tw.List().Views()[2].(*AlbumRow).AlbumID())

	artist, album := first.AlbumHeader()
	assert.Equal(t, "Daft Punk", artist)
	assert.Equal(t, "Discovery", album)

	first.SetMenuVisible(true)
	assert.False(t, first.menuBtn.Visible())
	_, tappable := interface{}(first).(fyne.SecondaryTappable)
	assert.False(t, tappable)
}

func TestMenuButtonHiddenWhenDisabled(t *testing.T) {
	test.NewTempApp(t)
	tw := NewTracksWidget(context.Background(), TracksOptions{ShowMenu: false})
	tw.SetTracks(library())

	row := tw.List().Views()[1].(*TrackRow)
	assert.False(t, row.menuBtn.Visible())
}

func TestPopoverDismissOutside(t *testing.T) {
	test.NewTempApp(t)
	w := test.NewWindow(widget.NewLabel("bg"))
	defer w.Close()
	w.Resize(fyne.NewSize(400, 300))

	closed := 0
	p := NewPopover(widget.NewLabel("menu"), w.Canvas())
	p.SetOnClosed(func() { closed++ })
	p.ShowAtPosition(fyne.NewPos(10, 10))
	require.True(t, p.IsShown())

	p.Tapped(&fyne.PointEvent{Position: fyne.NewPos(15, 15)})
	assert.True(t, p.IsShown())

	p.Tapped(&fyne.PointEvent{Position: fyne.NewPos(390, 290)})
	assert.False(t, p.IsShown())
	assert.Equal(t, 1, closed)

	p.Hide()
	assert.Equal(t, 1, closed)
}

func TestRatingWidgetToggle(t *testing.T) {
	test.NewTempApp(t)
	r := NewRatingWidget(9)
	assert.Equal(t, types.MaxRating, r.Rating())

	var got []int
	r.OnChanged = func(v int) { got = append(got, v) }
	r.tap(2)
	r.tap(2)
	assert.Equal(t, []int{2, 0}, got)
	assert.Equal(t, starEmpty, r.stars[0].Text)
}

func TestMenuButtonOpensMenuBelowIt(t *testing.T) {
	tw, _, _ := newWidget(t)
	tw.SetTracks(library())
	w := test.NewWindow(tw)
	defer w.Close()
	w.Resize(fyne.NewSize(600, 400))

	row := tw.List().Views()[1].(*TrackRow)
	test.Tap(row.menuBtn)

	menu := row.Menu()
	require.NotNil(t, menu)
	assert.True(t, menu.IsShown())
	want := fyne.CurrentApp().Driver().AbsolutePositionForObject(row.menuBtn).Add(fyne.NewPos(0, row.menuBtn.Size().Height))
	assert.Equal(t, want, menu.popover.anchor)
	assert.Equal(t, []string{tracklist.ClassRow, tracklist.ClassMenuSelected}, row.Classes())

	menu.Hide()
	assert.Equal(t, []string{tracklist.ClassRow}, row.Classes())
}
