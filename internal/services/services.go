// Package services wires the storage, playback and import components
// together for the desktop app and the command line.
package services

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Alexander-D-Karpov/tracklist/internal/audio"
	"github.com/Alexander-D-Karpov/tracklist/internal/codecs"
	"github.com/Alexander-D-Karpov/tracklist/internal/config"
	"github.com/Alexander-D-Karpov/tracklist/internal/handlers"
	"github.com/Alexander-D-Karpov/tracklist/internal/library"
	"github.com/Alexander-D-Karpov/tracklist/internal/logger"
	"github.com/Alexander-D-Karpov/tracklist/internal/media"
	"github.com/Alexander-D-Karpov/tracklist/internal/search"
	"github.com/Alexander-D-Karpov/tracklist/internal/storage"
	"github.com/Alexander-D-Karpov/tracklist/pkg/types"
)

type Options struct {
	Notifier  types.Notifier
	Installer codecs.PluginInstaller
	Output    audio.Output
	Logger    *zap.Logger
}

type Services struct {
	Config *config.Config
	Bus    *handlers.EventBus
	DB     *storage.Database
	Codecs *codecs.Installer
	Player *audio.Player
	Art    *media.ArtCache
	Music  *MusicService

	log *zap.Logger
}

func Open(cfg *config.Config, opts Options) (*Services, error) {
	log := logger.OrNop(opts.Logger)

	db, err := storage.NewDatabase(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	installer := opts.Installer
	if installer == nil {
		installer = codecs.NewHelperInstaller(cfg)
	}
	codecInstaller := codecs.NewInstaller(cfg, codecs.Options{
		Backend:  installer,
		Notifier: opts.Notifier,
		Logger:   log,
	})

	bus := handlers.NewEventBus()
	player := audio.NewPlayer(cfg, audio.Options{
		Tracks: db,
		Codecs: codecInstaller,
		Bus:    bus,
		Output: opts.Output,
		Logger: log,
	})

	art := media.NewArtCache(cfg, db, db, log)
	scanner := library.NewScanner(cfg, db, codecInstaller, log)

	return &Services{
		Config: cfg,
		Bus:    bus,
		DB:     db,
		Codecs: codecInstaller,
		Player: player,
		Art:    art,
		Music:  NewMusicService(cfg, db, search.NewEngine(db), scanner, codecInstaller, log),
		log:    log,
	}, nil
}

func (s *Services) Close() error {
	var errs []error
	if err := s.Player.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close player: %w", err))
	}
	s.Art.Close()
	if err := s.DB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	return errors.Join(errs...)
}
