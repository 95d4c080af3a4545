// Package library imports audio files from disk into the metadata store.
package library

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Alexander-D-Karpov/tracklist/internal/audio"
	"github.com/Alexander-D-Karpov/tracklist/internal/codecs"
	"github.com/Alexander-D-Karpov/tracklist/internal/config"
	"github.com/Alexander-D-Karpov/tracklist/internal/logger"
	"github.com/Alexander-D-Karpov/tracklist/pkg/types"
)

type Store interface {
	UpsertAlbum(ctx context.Context, album *types.Album) error
	UpsertTrack(ctx context.Context, track *types.Track) error
}

type CodecRecorder interface {
	Record(d *codecs.Diagnostic)
}

var audioExtensions = map[string]bool{
	".mp3": true, ".wav": true, ".flac": true, ".ogg": true, ".oga": true,
	".opus": true, ".m4a": true, ".aac": true, ".wma": true, ".aiff": true,
}

// Result summarizes one scan.
type Result struct {
	Imported int
	Failed   int
	Missing  []*codecs.Diagnostic
	Elapsed  time.Duration
}

type Scanner struct {
	store   Store
	codecs  CodecRecorder
	workers int
	log     *zap.Logger
}

func NewScanner(cfg *config.Config, store Store, recorder CodecRecorder, log *zap.Logger) *Scanner {
	workers := cfg.Library.ScanWorkers
	if workers <= 0 {
		workers = 4
	}
	return &Scanner{
		store:   store,
		codecs:  recorder,
		workers: workers,
		log:     logger.OrNop(log).Named("library"),
	}
}

// Scan walks root and stores every audio file found. Files nobody can decode
// are reported as missing plugins; a broken file never stops the scan.
func (s *Scanner) Scan(ctx context.Context, root string) (*Result, error) {
	start := time.Now()
	paths, err := collect(root)
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	var (
		mu     sync.Mutex
		result Result
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			err := s.importFile(ctx, path)
			var diag *codecs.Diagnostic

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				result.Imported++
			case errors.As(err, &diag) && codecs.IsMissingCodec(diag):
				result.Missing = append(result.Missing, diag)
				if s.codecs != nil {
					s.codecs.Record(diag)
				}
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return err
			default:
				result.Failed++
				s.log.Warn("import failed", zap.String("path", path), zap.Error(err))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result.Elapsed = time.Since(start)
	s.log.Info("scan finished",
		zap.String("root", root),
		zap.Int("imported", result.Imported),
		zap.Int("failed", result.Failed),
		zap.Int("missing_codecs", len(result.Missing)),
		zap.Duration("elapsed", result.Elapsed))
	return &result, nil
}

func collect(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if audioExtensions[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

func (s *Scanner) importFile(ctx context.Context, path string) error {
	if !audio.CanDecode(path) {
		return codecs.MissingPluginFor(path)
	}

	meta, err := ReadMeta(path)
	if err != nil {
		return fmt.Errorf("read tags: %w", err)
	}

	duration, err := audio.Probe(path)
	if err != nil {
		return err
	}

	track := &types.Track{
		Number:   meta.Number,
		Title:    meta.Title,
		Artist:   meta.Artist,
		Duration: int(duration.Round(time.Second) / time.Second),
		Path:     path,
		Loved:    meta.Loved,
	}

	if meta.Album != "" {
		album := &types.Album{
			Name:      meta.Album,
			Artist:    meta.AlbumArtist,
			CoverPath: findCover(filepath.Dir(path)),
		}
		if err := s.store.UpsertAlbum(ctx, album); err != nil {
			return fmt.Errorf("store album: %w", err)
		}
		track.AlbumID = album.ID
	}

	if err := s.store.UpsertTrack(ctx, track); err != nil {
		return fmt.Errorf("store track: %w", err)
	}
	return nil
}
