package storage

import (
	"fmt"
)

func (d *Database) runMigrations() error {
	migrations := []string{
		createTables,
		createIndexes,
	}

	for i, migration := range migrations {
		if _, err := d.db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

const createTables = `
CREATE TABLE IF NOT EXISTS albums (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	artist TEXT NOT NULL DEFAULT '',
	cover_path TEXT NOT NULL DEFAULT '',
	cover_url TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (name, artist)
);

CREATE TABLE IF NOT EXISTS tracks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	album_id INTEGER,
	number INTEGER NOT NULL DEFAULT 0,
	title TEXT NOT NULL,
	artist TEXT NOT NULL DEFAULT '',
	duration INTEGER NOT NULL DEFAULT 0,
	path TEXT NOT NULL UNIQUE,
	loved INTEGER NOT NULL DEFAULT 0,
	rating INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (album_id) REFERENCES albums(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS cache_entries (
	key TEXT PRIMARY KEY,
	url TEXT NOT NULL UNIQUE,
	local_path TEXT NOT NULL,
	size INTEGER DEFAULT 0,
	accessed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

const createIndexes = `
CREATE INDEX IF NOT EXISTS idx_tracks_album ON tracks(album_id, number);
CREATE INDEX IF NOT EXISTS idx_tracks_title ON tracks(title);
CREATE INDEX IF NOT EXISTS idx_albums_name ON albums(name);
CREATE INDEX IF NOT EXISTS idx_cache_entries_accessed_at ON cache_entries(accessed_at);
`
