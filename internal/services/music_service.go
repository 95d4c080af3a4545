package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Alexander-D-Karpov/tracklist/internal/audio"
	"github.com/Alexander-D-Karpov/tracklist/internal/codecs"
	"github.com/Alexander-D-Karpov/tracklist/internal/config"
	"github.com/Alexander-D-Karpov/tracklist/internal/library"
	"github.com/Alexander-D-Karpov/tracklist/internal/search"
	"github.com/Alexander-D-Karpov/tracklist/pkg/types"
)

// LibraryStore is the part of storage the music service reads directly.
type LibraryStore interface {
	Tracks(ctx context.Context) ([]*types.Track, error)
}

// CodecQueue collects missing-codec diagnostics and asks for their install.
type CodecQueue interface {
	Record(d *codecs.Diagnostic)
	Install()
}

type MusicService struct {
	store   LibraryStore
	search  *search.Engine
	scanner *library.Scanner
	codecs  CodecQueue
	log     *zap.Logger

	mu    sync.Mutex
	limit int
}

func NewMusicService(cfg *config.Config, store LibraryStore, engine *search.Engine, scanner *library.Scanner, queue CodecQueue, log *zap.Logger) *MusicService {
	return &MusicService{
		store:   store,
		search:  engine,
		scanner: scanner,
		codecs:  queue,
		limit:   cfg.UI.SearchLimit,
		log:     log,
	}
}

func (s *MusicService) SetSearchLimit(limit int) {
	s.mu.Lock()
	s.limit = limit
	s.mu.Unlock()
}

// Tracks returns the library in album order, or the best matches for query.
func (s *MusicService) Tracks(ctx context.Context, query string) ([]*types.Track, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		tracks, err := s.store.Tracks(ctx)
		if err != nil {
			return nil, fmt.Errorf("load library: %w", err)
		}
		return tracks, nil
	}

	start := time.Now()
	s.mu.Lock()
	limit := s.limit
	s.mu.Unlock()

	tracks, err := s.search.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	s.log.Debug("search finished",
		zap.String("query", query),
		zap.Int("results", len(tracks)),
		zap.Duration("elapsed", time.Since(start)))
	return tracks, nil
}

// Import scans root into the library and asks for any codecs it turned out
// to be missing.
func (s *MusicService) Import(ctx context.Context, root string) (*library.Result, error) {
	if s.scanner == nil {
		return nil, errors.New("no scanner configured")
	}
	res, err := s.scanner.Scan(ctx, root)
	if err != nil {
		return res, err
	}
	if len(res.Missing) > 0 && s.codecs != nil {
		s.codecs.Install()
	}
	return res, nil
}

// ProbeResult is the outcome of checking one file.
type ProbeResult struct {
	Path     string
	Duration time.Duration
	Err      error
}

// Probe checks that every path can be decoded. Missing codecs are recorded
// and a single install is requested for all of them.
func (s *MusicService) Probe(paths []string) []ProbeResult {
	results := make([]ProbeResult, 0, len(paths))
	missing := 0
	for _, path := range paths {
		d, err := audio.Probe(path)
		results = append(results, ProbeResult{Path: path, Duration: d, Err: err})

		var diag *codecs.Diagnostic
		if errors.As(err, &diag) && codecs.IsMissingCodec(diag) {
			missing++
			if s.codecs != nil {
				s.codecs.Record(diag)
			}
		}
	}
	if missing > 0 && s.codecs != nil {
		s.codecs.Install()
	}
	return results
}
