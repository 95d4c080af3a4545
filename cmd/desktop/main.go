package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Alexander-D-Karpov/tracklist/internal/config"
	"github.com/Alexander-D-Karpov/tracklist/internal/logger"
	"github.com/Alexander-D-Karpov/tracklist/internal/notify"
	"github.com/Alexander-D-Karpov/tracklist/internal/services"
	"github.com/Alexander-D-Karpov/tracklist/internal/ui"
)

const appID = "io.github.alexander_d_karpov.tracklist"

var (
	configPath string
	debug      bool
	Version    = "dev"
)

var rootCmd = &cobra.Command{
	Use:          "tracklist",
	Short:        "Tracklist is a music player for local libraries.",
	Version:      Version,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDesktop(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration and builds the logger. The log level follows
// edits of the config file.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if debug {
		cfg.Debug = true
	}

	log, level := logger.New(cfg)
	cfg.Watch(func(fresh *config.Config) {
		if debug {
			return
		}
		level.SetLevel(logger.ParseLevel(fresh.Log.Level))
		log.Info("log level changed", zap.String("level", level.String()))
	})

	log.Debug("configuration loaded",
		zap.String("database", cfg.Storage.DatabasePath),
		zap.String("cache_dir", cfg.Storage.CacheDir),
		zap.String("theme", cfg.UI.Theme))
	return cfg, log, nil
}

func runDesktop(ctx context.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	fyneApp := app.NewWithID(appID)
	svc, err := services.Open(cfg, services.Options{
		Notifier: notify.New(fyneApp, "Tracklist", log),
		Logger:   log,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			log.Error("shutdown failed", zap.Error(err))
		}
	}()

	tracklistApp, err := ui.NewApp(ctx, fyneApp, cfg, svc, log)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		tracklistApp.Close()
		fyneApp.Quit()
	}()

	log.Info("starting", zap.String("version", Version))
	tracklistApp.ShowAndRun()
	return nil
}
