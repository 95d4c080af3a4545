package search

import (
	"context"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/Alexander-D-Karpov/tracklist/pkg/types"
)

// TrackSource lists the library.
type TrackSource interface {
	Tracks(ctx context.Context) ([]*types.Track, error)
}

type Engine struct {
	source TrackSource
}

func NewEngine(source TrackSource) *Engine {
	return &Engine{source: source}
}

type ScoredTrack struct {
	Track *types.Track
	Score float64
}

// Search ranks library tracks against query by title, artist and album.
// An empty query returns the library unchanged.
func (e *Engine) Search(ctx context.Context, query string, limit int) ([]*types.Track, error) {
	tracks, err := e.source.Tracks(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return truncate(tracks, limit), nil
	}

	return truncate(rankTracks(tracks, query), limit), nil
}

func rankTracks(tracks []*types.Track, query string) []*types.Track {
	var scored []ScoredTrack
	queryLower := strings.ToLower(query)

	for _, track := range tracks {
		score := 0.0
		title := strings.ToLower(track.Title)

		if strings.Contains(title, queryLower) {
			score += 10.0
		} else if fuzzy.MatchFold(query, track.Title) {
			score += 4.0
		}

		distance := fuzzy.LevenshteinDistance(queryLower, title)
		if distance <= len(queryLower)/2 {
			score += float64(len(queryLower) - distance)
		}

		if strings.Contains(strings.ToLower(track.Artist), queryLower) {
			score += 7.0
		}

		if track.Album != nil {
			if strings.Contains(strings.ToLower(track.Album.Name), queryLower) {
				score += 5.0
			}
			if track.Album.Artist != track.Artist && strings.Contains(strings.ToLower(track.Album.Artist), queryLower) {
				score += 5.0
			}
		}

		if score > 0 {
			scored = append(scored, ScoredTrack{Track: track, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	result := make([]*types.Track, 0, len(scored))
	for _, s := range scored {
		result = append(result, s.Track)
	}

	return result
}

func truncate(tracks []*types.Track, limit int) []*types.Track {
	if limit > 0 && len(tracks) > limit {
		return tracks[:limit]
	}
	return tracks
}
