package tracklist

import (
	"context"
	"errors"

	"fyne.io/fyne/v2"

	"github.com/Alexander-D-Karpov/tracklist/pkg/types"
)

var errMiss = errors.New("miss")

type fakePlayer struct {
	current    int64
	hasCurrent bool
	queue      []int64

	nextID   types.SubscriptionID
	handlers map[types.SubscriptionID]func()
	unsubs   int
}

func newFakePlayer() *fakePlayer {
	return &fakePlayer{handlers: make(map[types.SubscriptionID]func())}
}

func (p *fakePlayer) CurrentTrackID() (int64, bool) { return p.current, p.hasCurrent }

func (p *fakePlayer) IsInQueue(id int64) bool {
	_, ok := p.QueuePosition(id)
	return ok
}

func (p *fakePlayer) QueuePosition(id int64) (int, bool) {
	for i, q := range p.queue {
		if q == id {
			return i + 1, true
		}
	}
	return 0, false
}

func (p *fakePlayer) SubscribeQueueChanged(fn func()) types.SubscriptionID {
	p.nextID++
	p.handlers[p.nextID] = fn
	return p.nextID
}

func (p *fakePlayer) Unsubscribe(id types.SubscriptionID) {
	p.unsubs++
	delete(p.handlers, id)
}

func (p *fakePlayer) setQueue(ids ...int64) {
	p.queue = ids
	for _, fn := range p.handlers {
		fn()
	}
}

type fakeAlbum struct {
	artist string
	name   string
}

type fakeStore struct {
	albums      map[int64]fakeAlbum
	trackAlbums map[int64]int64
	loved       map[int64]bool
	failLoved   bool

	headerLookups int
}

func (s *fakeStore) ArtistName(_ context.Context, albumID int64) (string, error) {
	s.headerLookups++
	a, ok := s.albums[albumID]
	if !ok {
		return "", errMiss
	}
	return a.artist, nil
}

func (s *fakeStore) AlbumName(_ context.Context, albumID int64) (string, error) {
	s.headerLookups++
	a, ok := s.albums[albumID]
	if !ok {
		return "", errMiss
	}
	return a.name, nil
}

func (s *fakeStore) AlbumIDOfTrack(_ context.Context, trackID int64) (int64, error) {
	id, ok := s.trackAlbums[trackID]
	if !ok {
		return 0, errMiss
	}
	return id, nil
}

func (s *fakeStore) IsLoved(_ context.Context, trackID int64) (bool, error) {
	if s.failLoved {
		return false, errMiss
	}
	return s.loved[trackID], nil
}

type fakeArt struct {
	covers   map[int64]fyne.Resource
	requests []int
}

func (a *fakeArt) AlbumCover(_ context.Context, albumID int64, size int) (fyne.Resource, error) {
	a.requests = append(a.requests, size)
	res, ok := a.covers[albumID]
	if !ok {
		return nil, errMiss
	}
	return res, nil
}

type fakeRow struct {
	label       NumberLabel
	title       string
	duration    string
	playing     bool
	menuVisible bool
	objectID    int64
	number      int
	activate    func()

	loved bool

	store         types.MetadataStore
	albumID       int64
	cover         fyne.Resource
	tooltip       string
	artist        string
	album         string
	headerVisible bool
	scale         float32
}

func (r *fakeRow) SetNumberLabel(label NumberLabel) { r.label = label }
func (r *fakeRow) SetTitleLabel(text string)        { r.title = text }
func (r *fakeRow) SetDurationLabel(text string)     { r.duration = text }
func (r *fakeRow) SetPlayingIndicator(v bool)       { r.playing = v }
func (r *fakeRow) SetMenuVisible(v bool)            { r.menuVisible = v }
func (r *fakeRow) ObjectID() int64                  { return r.objectID }
func (r *fakeRow) SetNumber(n int)                  { r.number = n }
func (r *fakeRow) Number() int                      { return r.number }
func (r *fakeRow) OnActivated(fn func())            { r.activate = fn }
func (r *fakeRow) SetLoved(loved bool)              { r.loved = loved }
func (r *fakeRow) SetHeaderVisible(v bool)          { r.headerVisible = v }
func (r *fakeRow) ScaleFactor() float32             { return r.scale }

func (r *fakeRow) SetCover(cover fyne.Resource, tooltip string) {
	r.cover = cover
	r.tooltip = tooltip
}

func (r *fakeRow) SetAlbumAndArtist(ctx context.Context, albumID int64) {
	r.artist, r.album = ResolveAlbumHeader(ctx, r.store, albumID)
}

func (r *fakeRow) AlbumHeader() (string, string) { return r.artist, r.album }

func (r *fakeRow) SetObjectID(id int64) {
	r.objectID = id
	r.albumID = 0
	if r.store == nil {
		return
	}
	if albumID, err := r.store.AlbumIDOfTrack(context.Background(), id); err == nil {
		r.albumID = albumID
	}
}

func (r *fakeRow) AlbumID() int64 { return r.albumID }

type fakeFactory struct {
	store types.MetadataStore
	scale float32
}

func (f *fakeFactory) NewTrackRow() TrackRowView { return &fakeRow{store: f.store, scale: f.scale} }
func (f *fakeFactory) NewAlbumRow() AlbumRowView { return &fakeRow{store: f.store, scale: f.scale} }
