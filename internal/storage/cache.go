package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// GetCachedFile returns the local copy of url, or "" when it is not cached.
func (d *Database) GetCachedFile(ctx context.Context, url string) (string, error) {
	start := time.Now()
	if err := d.checkClosed(); err != nil {
		return "", err
	}

	var localPath string
	err := d.db.QueryRowContext(ctx, "SELECT local_path FROM cache_entries WHERE url = ?", url).Scan(&localPath)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		d.debugLog("GetCachedFile", err, start)
		return "", fmt.Errorf("get cached file: %w", err)
	}

	if _, err := os.Stat(localPath); os.IsNotExist(err) {
		_, _ = d.db.ExecContext(ctx, "DELETE FROM cache_entries WHERE url = ?", url)
		return "", nil
	}

	_, _ = d.db.ExecContext(ctx, "UPDATE cache_entries SET accessed_at = ? WHERE url = ?", time.Now(), url)

	return localPath, nil
}

// SaveCachedFile stores data under the cache directory and records it for url.
func (d *Database) SaveCachedFile(ctx context.Context, url string, data io.Reader) (string, error) {
	start := time.Now()
	if err := d.checkClosed(); err != nil {
		return "", err
	}

	key := fmt.Sprintf("%x", sha256.Sum256([]byte(url)))
	localPath := filepath.Join(d.cacheDir, key[:2], key)

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		d.debugLog("SaveCachedFile", err, start)
		return "", fmt.Errorf("create cache dir: %w", err)
	}

	file, err := os.Create(localPath)
	if err != nil {
		d.debugLog("SaveCachedFile", err, start)
		return "", fmt.Errorf("create file: %w", err)
	}

	size, err := io.Copy(file, data)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		d.removeFile(localPath)
		d.debugLog("SaveCachedFile", err, start)
		return "", fmt.Errorf("write file: %w", err)
	}

	now := time.Now()
	_, err = d.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO cache_entries (key, url, local_path, size, accessed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, key, url, localPath, size, now, now)
	if err != nil {
		d.removeFile(localPath)
		d.debugLog("SaveCachedFile", err, start)
		return "", fmt.Errorf("save cache entry: %w", err)
	}

	return localPath, nil
}

func (d *Database) removeFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		d.log.Warn("remove cache file", zap.String("path", path), zap.Error(err))
	}
}
