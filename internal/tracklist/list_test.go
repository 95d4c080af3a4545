package tracklist

import (
	"context"
	"testing"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	player *fakePlayer
	store  *fakeStore
	art    *fakeArt
	list   *TrackList
}

func newFixture(showMenu bool) *fixture {
	player := newFakePlayer()
	store := &fakeStore{
		albums:      map[int64]fakeAlbum{9: {artist: "A", name: "B"}},
		trackAlbums: map[int64]int64{7: 9},
		loved:       map[int64]bool{},
	}
	art := &fakeArt{covers: map[int64]fyne.Resource{}}
	list := New(context.Background(), Options{
		Player:    player,
		Store:     store,
		Art:       art,
		Rows:      &fakeFactory{store: store, scale: 1},
		ShowMenu:  showMenu,
		CoverSize: 48,
	})
	return &fixture{player: player, store: store, art: art, list: list}
}

func TestAddTrackCurrentlyPlaying(t *testing.T) {
	f := newFixture(true)
	f.player.current, f.player.hasCurrent = 42, true

	row := f.list.AddTrack(42, 3, "Song", 185, 0).(*fakeRow)

	assert.Equal(t, NumberLabel{Text: "3"}, row.label)
	assert.Equal(t, "Song", row.title)
	assert.Equal(t, "3:05", row.duration)
	assert.True(t, row.playing)
	assert.True(t, row.menuVisible)
	assert.Equal(t, int64(42), row.ObjectID())
	assert.Equal(t, 3, row.Number())

	state := f.list.Rows()[0]
	assert.Equal(t, KindTrack, state.Kind)
	assert.Equal(t, ClassPlaying, state.Class())
}

func TestAddAlbumQueuedWithHeader(t *testing.T) {
	f := newFixture(false)

	row := f.list.AddAlbum(7, 9, 0, "Intro", 30, 2).(*fakeRow)

	assert.Equal(t, NumberLabel{Text: "2", Queued: true}, row.label)
	assert.True(t, row.headerVisible)
	assert.Equal(t, "A", row.artist)
	assert.Equal(t, "B", row.album)
	assert.Equal(t, "0:30", row.duration)
	assert.False(t, row.playing)
	assert.False(t, row.menuVisible)

	state := f.list.Rows()[0]
	assert.Equal(t, "A", state.AlbumArtist)
	assert.Equal(t, "B", state.AlbumTitle)
	assert.True(t, state.HeaderVisible)
}

func TestAddAlbumCoverUsesTrackAlbumAndScale(t *testing.T) {
	f := newFixture(true)
	f.list.opts.Rows = &fakeFactory{store: f.store, scale: 2}
	cover := fyne.NewStaticResource("cover.png", []byte{1})
	f.art.covers[9] = cover

	row := f.list.AddAlbum(7, 9, 1, "Intro", 30, 0).(*fakeRow)

	assert.Same(t, cover, row.cover)
	assert.Equal(t, "B", row.tooltip)
	assert.Equal(t, []int{96}, f.art.requests)
}

func TestAddAlbumCoverMissStillShowsHeader(t *testing.T) {
	f := newFixture(true)

	row := f.list.AddAlbum(7, 9, 1, "Intro", 30, 0).(*fakeRow)

	assert.Nil(t, row.cover)
	assert.True(t, row.headerVisible)
	assert.Equal(t, 1, f.list.Len())
}

func TestAddAlbumWithoutAlbumID(t *testing.T) {
	f := newFixture(true)

	row := f.list.AddAlbum(7, 0, 4, "Intro", 30, 0).(*fakeRow)

	assert.False(t, row.headerVisible)
	assert.Empty(t, row.artist)
	assert.Empty(t, f.art.requests)
	assert.Equal(t, NumberLabel{Text: "4"}, row.label)
}

func TestAddAlbumUnknownAlbumDegrades(t *testing.T) {
	f := newFixture(true)

	row := f.list.AddAlbum(100, 55, 1, "Lost", 10, 0).(*fakeRow)

	assert.True(t, row.headerVisible)
	assert.Empty(t, row.artist)
	assert.Empty(t, row.album)
	assert.Nil(t, row.cover)
}

func TestLabelPrecedence(t *testing.T) {
	cases := []struct {
		name     string
		number   int
		queuePos int
		want     NumberLabel
	}{
		{"queue beats number", 12, 1, NumberLabel{Text: "1", Queued: true}},
		{"queue with no number", 0, 5, NumberLabel{Text: "5", Queued: true}},
		{"plain number", 7, 0, NumberLabel{Text: "7"}},
		{"blank", 0, 0, NumberLabel{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(true)
			row := f.list.AddTrack(1, tc.number, "x", 1, tc.queuePos).(*fakeRow)
			assert.Equal(t, tc.want, row.label)
		})
	}
}

func TestLovedFlag(t *testing.T) {
	f := newFixture(true)
	f.store.loved[5] = true

	loved := f.list.AddTrack(5, 1, "a", 1, 0).(*fakeRow)
	plain := f.list.AddTrack(6, 2, "b", 1, 0).(*fakeRow)

	assert.True(t, loved.loved)
	assert.False(t, plain.loved)

	f.store.failLoved = true
	failed := f.list.AddTrack(5, 3, "c", 1, 0).(*fakeRow)
	assert.False(t, failed.loved)
}

func TestUpdatePlayingRowIsExclusive(t *testing.T) {
	f := newFixture(true)
	f.player.current, f.player.hasCurrent = 1, true
	for id := int64(1); id <= 4; id++ {
		f.list.AddTrack(id, int(id), "t", 60, 0)
	}
	f.list.AddAlbum(5, 9, 5, "t", 60, 0)

	for _, target := range []int64{3, 5, 99} {
		f.list.UpdatePlayingRow(target)

		playing := 0
		for i, v := range f.list.Views() {
			row := v.(*fakeRow)
			assert.Equal(t, row.ObjectID() == target, row.playing, "row %d", i)
			if row.playing {
				playing++
			}
		}
		for _, s := range f.list.Rows() {
			assert.Equal(t, s.ObjectID == target, s.Playing)
		}
		if target == 99 {
			assert.Equal(t, 0, playing)
		} else {
			assert.Equal(t, 1, playing)
		}
	}
}

func TestRefreshQueueLabelsRestoresNumbers(t *testing.T) {
	f := newFixture(true)
	f.player.queue = []int64{2}
	f.list.AddTrack(1, 1, "a", 1, 0)
	f.list.AddTrack(2, 2, "b", 1, 1)
	f.list.AddTrack(3, 0, "c", 1, 0)

	f.list.Show()
	f.player.setQueue(3, 1)

	labels := func() []NumberLabel {
		var out []NumberLabel
		for _, v := range f.list.Views() {
			out = append(out, v.(*fakeRow).label)
		}
		return out
	}

	assert.Equal(t, []NumberLabel{
		{Text: "2", Queued: true},
		{Text: "2"},
		{Text: "1", Queued: true},
	}, labels())

	f.player.setQueue()
	assert.Equal(t, []NumberLabel{{Text: "1"}, {Text: "2"}, {}}, labels())
	assert.Equal(t, 0, f.list.Rows()[0].QueuePosition)
}

func TestShowHideIdempotent(t *testing.T) {
	f := newFixture(true)

	f.list.Hide()
	assert.Equal(t, 0, f.player.unsubs)

	f.list.Show()
	f.list.Show()
	assert.Len(t, f.player.handlers, 1)
	assert.True(t, f.list.Visible())

	f.list.Hide()
	f.list.Hide()
	assert.Empty(t, f.player.handlers)
	assert.Equal(t, 1, f.player.unsubs)
	assert.False(t, f.list.Visible())

	for i := 0; i < 3; i++ {
		f.list.Show()
		f.list.Hide()
	}
	assert.Empty(t, f.player.handlers)
}

func TestHiddenListIgnoresQueueChanges(t *testing.T) {
	f := newFixture(true)
	f.list.AddTrack(1, 4, "a", 1, 0)

	f.player.setQueue(1)

	row := f.list.Views()[0].(*fakeRow)
	assert.Equal(t, NumberLabel{Text: "4"}, row.label)
}

func TestQueueNotificationsUseDispatcher(t *testing.T) {
	f := newFixture(true)
	f.list.AddTrack(1, 4, "a", 1, 0)

	var pending []func()
	f.list.SetDispatcher(func(fn func()) { pending = append(pending, fn) })
	f.list.Show()
	f.player.setQueue(1)

	row := f.list.Views()[0].(*fakeRow)
	assert.Equal(t, NumberLabel{Text: "4"}, row.label)
	require.Len(t, pending, 1)

	pending[0]()
	assert.Equal(t, NumberLabel{Text: "1", Queued: true}, row.label)
}

func TestActivationCarriesObjectID(t *testing.T) {
	f := newFixture(true)
	var got []int64
	f.list.OnActivated(func(id int64) { got = append(got, id) })

	track := f.list.AddTrack(11, 1, "a", 1, 0).(*fakeRow)
	f.list.AddAlbum(12, 9, 2, "b", 1, 0)

	track.activate()
	f.list.Activate(1)
	f.list.Activate(7)

	assert.Equal(t, []int64{11, 12}, got)
}

func TestClearDropsRows(t *testing.T) {
	f := newFixture(true)
	f.list.AddTrack(1, 1, "a", 1, 0)
	f.list.AddTrack(2, 2, "b", 1, 0)

	f.list.Clear()

	assert.Equal(t, 0, f.list.Len())
	assert.Empty(t, f.list.Rows())
}

func TestNoCollaborators(t *testing.T) {
	list := New(context.Background(), Options{Rows: &fakeFactory{}})

	row := list.AddTrack(1, 2, "a", 61, 0).(*fakeRow)
	album := list.AddAlbum(2, 3, 0, "b", 3601, 4).(*fakeRow)
	list.Show()
	list.RefreshQueueLabels()

	assert.False(t, row.playing)
	assert.Equal(t, "1:01", row.duration)
	assert.Equal(t, "1:00:01", album.duration)
	assert.True(t, album.headerVisible)
	assert.Equal(t, NumberLabel{}, album.label)
	assert.False(t, list.Visible())
}

func TestRefreshCoverAppliesLateCover(t *testing.T) {
	f := newFixture(true)
	row := f.list.AddAlbum(7, 9, 1, "Intro", 30, 0).(*fakeRow)
	other := f.list.AddAlbum(8, 3, 1, "Elsewhere", 30, 0).(*fakeRow)
	require.Nil(t, row.cover)

	cover := fyne.NewStaticResource("late.png", []byte{1})
	f.art.covers[9] = cover
	f.list.RefreshCover(9)

	assert.Same(t, cover, row.cover)
	assert.Equal(t, "B", row.tooltip)
	assert.Nil(t, other.cover)
	assert.Equal(t, int64(9), f.list.Rows()[0].CoverAlbumID)
}

func TestSetShowMenuUpdatesRows(t *testing.T) {
	f := newFixture(true)
	first := f.list.AddTrack(1, 1, "One", 60, 0).(*fakeRow)

	f.list.SetShowMenu(false)
	assert.False(t, first.menuVisible)
	assert.False(t, f.list.Rows()[0].ShowMenu)

	second := f.list.AddTrack(2, 2, "Two", 60, 0).(*fakeRow)
	assert.False(t, second.menuVisible)
}

func TestAddAlbumResolvesHeaderOnce(t *testing.T) {
	f := newFixture(true)
	f.art.covers[9] = fyne.NewStaticResource("cover.png", []byte{1})

	row := f.list.AddAlbum(7, 9, 1, "Intro", 30, 0).(*fakeRow)

	assert.Equal(t, 2, f.store.headerLookups)
	assert.Equal(t, int64(9), row.AlbumID())
	assert.Equal(t, "B", row.tooltip)
	assert.Equal(t, "B", f.list.Rows()[0].AlbumTitle)
}

func TestCoverOfLinkedAlbumUsesItsName(t *testing.T) {
	f := newFixture(true)
	f.store.albums[3] = fakeAlbum{artist: "C", name: "D"}
	f.store.trackAlbums[8] = 3
	f.art.covers[3] = fyne.NewStaticResource("other.png", []byte{1})

	row := f.list.AddAlbum(8, 9, 1, "Bonus", 30, 0).(*fakeRow)

	assert.Equal(t, "A", row.artist)
	assert.Equal(t, "B", row.album)
	assert.Equal(t, "D", row.tooltip)
	assert.Equal(t, int64(3), f.list.Rows()[0].CoverAlbumID)
	assert.Equal(t, 3, f.store.headerLookups)
}
