package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/Alexander-D-Karpov/tracklist/internal/config"
	"github.com/Alexander-D-Karpov/tracklist/internal/logger"
)

var (
	// ErrNotFound is returned when a track or album does not exist.
	ErrNotFound = errors.New("not found")
	ErrClosed   = errors.New("database is closed")
)

type Database struct {
	db       *sql.DB
	cacheDir string
	mu       sync.RWMutex
	closed   bool
	log      *zap.Logger
}

func NewDatabase(cfg *config.Config, log *zap.Logger) (*Database, error) {
	log = logger.OrNop(log).Named("storage")

	dbDir := filepath.Dir(cfg.Storage.DatabasePath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	cacheDir := filepath.Join(cfg.Storage.CacheDir, "files")
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := openDatabase(cfg.Storage.DatabasePath, cfg.Storage.EnableWAL, log)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	storage := &Database{
		db:       db,
		cacheDir: cacheDir,
		log:      log,
	}

	if err := storage.runMigrations(); err != nil {
		if closeErr := storage.Close(); closeErr != nil {
			log.Warn("close database after migration error", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return storage, nil
}

func openDatabase(dbPath string, enableWAL bool, log *zap.Logger) (*sql.DB, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		log.Info("creating new database", zap.String("path", dbPath))
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=memory",
		"PRAGMA cache_size=-16000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=30000",
	}

	if enableWAL {
		pragmas = append(pragmas, "PRAGMA journal_mode=WAL")
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			if closeErr := db.Close(); closeErr != nil {
				log.Warn("close database after pragma error", zap.Error(closeErr))
			}
			return nil, fmt.Errorf("execute pragma %s: %w", pragma, err)
		}
	}

	if err := db.Ping(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Warn("close database after ping error", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

func (d *Database) debugLog(operation string, err error, start time.Time) {
	if err == nil || errors.Is(err, ErrNotFound) {
		return
	}
	d.log.Debug("operation failed",
		zap.String("op", operation),
		zap.Duration("took", time.Since(start)),
		zap.Error(err))
}

func (d *Database) checkClosed() error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrClosed
	}
	return nil
}

func (d *Database) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}

	d.closed = true

	if d.db != nil {
		if _, err := d.db.Exec("PRAGMA optimize"); err != nil {
			d.log.Warn("optimize database", zap.Error(err))
		}
		return d.db.Close()
	}

	return nil
}

func (d *Database) closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		d.log.Warn("close rows", zap.Error(err))
	}
}
