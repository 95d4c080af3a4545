package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alexander-D-Karpov/tracklist/pkg/types"
)

type staticSource struct {
	tracks []*types.Track
	err    error
}

func (s staticSource) Tracks(context.Context) ([]*types.Track, error) { return s.tracks, s.err }

func library() []*types.Track {
	album := &types.Album{ID: 1, Name: "Discovery", Artist: "Daft Punk"}
	return []*types.Track{
		{ID: 1, Title: "One More Time", Artist: "Daft Punk", Album: album},
		{ID: 2, Title: "Aerodynamic", Artist: "Daft Punk", Album: album},
		{ID: 3, Title: "Windowlicker", Artist: "Aphex Twin"},
		{ID: 4, Title: "Time", Artist: "Pink Floyd"},
	}
}

func ids(tracks []*types.Track) []int64 {
	var out []int64
	for _, t := range tracks {
		out = append(out, t.ID)
	}
	return out
}

func TestSearchEmptyQueryReturnsLibrary(t *testing.T) {
	e := NewEngine(staticSource{tracks: library()})

	got, err := e.Search(context.Background(), "  ", 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(got))

	got, err = e.Search(context.Background(), "", 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids(got))
}

func TestSearchRanksTitleMatchesFirst(t *testing.T) {
	e := NewEngine(staticSource{tracks: library()})

	got, err := e.Search(context.Background(), "time", 10)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, int64(4), got[0].ID)
	assert.Contains(t, ids(got), int64(1))
	assert.NotContains(t, ids(got), int64(3))
}

func TestSearchMatchesArtistAndAlbum(t *testing.T) {
	e := NewEngine(staticSource{tracks: library()})

	got, err := e.Search(context.Background(), "discovery", 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2}, ids(got))

	got, err = e.Search(context.Background(), "aphex", 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids(got))
}

func TestSearchPropagatesSourceError(t *testing.T) {
	e := NewEngine(staticSource{err: errors.New("closed")})

	_, err := e.Search(context.Background(), "x", 1)
	assert.Error(t, err)
}
