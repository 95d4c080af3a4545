package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Alexander-D-Karpov/tracklist/pkg/types"
)

const trackColumns = `t.id, COALESCE(t.album_id, 0), t.number, t.title, t.artist, t.duration,
	t.path, t.loved, t.rating,
	COALESCE(a.name, ''), COALESCE(a.artist, ''), COALESCE(a.cover_path, ''), COALESCE(a.cover_url, '')`

const trackFrom = `FROM tracks t LEFT JOIN albums a ON t.album_id = a.id`

func (d *Database) Track(ctx context.Context, id int64) (*types.Track, error) {
	start := time.Now()
	if err := d.checkClosed(); err != nil {
		return nil, err
	}

	row := d.db.QueryRowContext(ctx, `SELECT `+trackColumns+` `+trackFrom+` WHERE t.id = ?`, id)
	track, err := scanTrack(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("track %d: %w", id, ErrNotFound)
		}
		d.debugLog("Track", err, start)
		return nil, fmt.Errorf("scan track: %w", err)
	}
	return track, nil
}

// Tracks returns the whole library ordered by album, then track number.
func (d *Database) Tracks(ctx context.Context) ([]*types.Track, error) {
	return d.queryTracks(ctx, "Tracks",
		`SELECT `+trackColumns+` `+trackFrom+`
		ORDER BY COALESCE(a.artist, ''), COALESCE(a.name, ''), t.album_id, t.number, t.title`)
}

func (d *Database) AlbumTracks(ctx context.Context, albumID int64) ([]*types.Track, error) {
	return d.queryTracks(ctx, "AlbumTracks",
		`SELECT `+trackColumns+` `+trackFrom+` WHERE t.album_id = ? ORDER BY t.number, t.title`, albumID)
}

func (d *Database) queryTracks(ctx context.Context, op, query string, args ...interface{}) ([]*types.Track, error) {
	start := time.Now()
	if err := d.checkClosed(); err != nil {
		return nil, err
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		d.debugLog(op, err, start)
		return nil, fmt.Errorf("query tracks: %w", err)
	}
	defer d.closeRows(rows)

	var tracks []*types.Track
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			d.debugLog(op, err, start)
			return nil, fmt.Errorf("scan track: %w", err)
		}
		tracks = append(tracks, track)
	}
	if err := rows.Err(); err != nil {
		d.debugLog(op, err, start)
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return tracks, nil
}

func (d *Database) Album(ctx context.Context, id int64) (*types.Album, error) {
	start := time.Now()
	if err := d.checkClosed(); err != nil {
		return nil, err
	}

	var album types.Album
	err := d.db.QueryRowContext(ctx,
		`SELECT id, name, artist, cover_path, cover_url FROM albums WHERE id = ?`, id,
	).Scan(&album.ID, &album.Name, &album.Artist, &album.CoverPath, &album.CoverURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("album %d: %w", id, ErrNotFound)
		}
		d.debugLog("Album", err, start)
		return nil, fmt.Errorf("scan album: %w", err)
	}
	return &album, nil
}

func (d *Database) ArtistName(ctx context.Context, albumID int64) (string, error) {
	album, err := d.Album(ctx, albumID)
	if err != nil {
		return "", err
	}
	return album.Artist, nil
}

func (d *Database) AlbumName(ctx context.Context, albumID int64) (string, error) {
	album, err := d.Album(ctx, albumID)
	if err != nil {
		return "", err
	}
	return album.Name, nil
}

func (d *Database) AlbumIDOfTrack(ctx context.Context, trackID int64) (int64, error) {
	start := time.Now()
	if err := d.checkClosed(); err != nil {
		return 0, err
	}

	var albumID sql.NullInt64
	err := d.db.QueryRowContext(ctx, `SELECT album_id FROM tracks WHERE id = ?`, trackID).Scan(&albumID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("track %d: %w", trackID, ErrNotFound)
		}
		d.debugLog("AlbumIDOfTrack", err, start)
		return 0, fmt.Errorf("query album id: %w", err)
	}
	if !albumID.Valid {
		return 0, fmt.Errorf("track %d has no album: %w", trackID, ErrNotFound)
	}
	return albumID.Int64, nil
}

func (d *Database) IsLoved(ctx context.Context, trackID int64) (bool, error) {
	start := time.Now()
	if err := d.checkClosed(); err != nil {
		return false, err
	}

	var loved bool
	err := d.db.QueryRowContext(ctx, `SELECT loved FROM tracks WHERE id = ?`, trackID).Scan(&loved)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, fmt.Errorf("track %d: %w", trackID, ErrNotFound)
		}
		d.debugLog("IsLoved", err, start)
		return false, fmt.Errorf("query loved: %w", err)
	}
	return loved, nil
}

func (d *Database) Rating(ctx context.Context, trackID int64) (int, error) {
	start := time.Now()
	if err := d.checkClosed(); err != nil {
		return 0, err
	}

	var rating int
	err := d.db.QueryRowContext(ctx, `SELECT rating FROM tracks WHERE id = ?`, trackID).Scan(&rating)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("track %d: %w", trackID, ErrNotFound)
		}
		d.debugLog("Rating", err, start)
		return 0, fmt.Errorf("query rating: %w", err)
	}
	return rating, nil
}

// SetRating stores a 0..MaxRating rating; out of range values are clamped.
func (d *Database) SetRating(ctx context.Context, trackID int64, rating int) error {
	start := time.Now()
	if err := d.checkClosed(); err != nil {
		return err
	}

	if rating < 0 {
		rating = 0
	}
	if rating > types.MaxRating {
		rating = types.MaxRating
	}

	res, err := d.db.ExecContext(ctx,
		`UPDATE tracks SET rating = ?, updated_at = ? WHERE id = ?`, rating, time.Now(), trackID)
	if err != nil {
		d.debugLog("SetRating", err, start)
		return fmt.Errorf("update rating: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("track %d: %w", trackID, ErrNotFound)
	}
	return nil
}

// UpsertAlbum inserts an album or refreshes the cover of an existing one with
// the same name and artist, and sets album.ID.
func (d *Database) UpsertAlbum(ctx context.Context, album *types.Album) error {
	start := time.Now()
	if err := d.checkClosed(); err != nil {
		return err
	}

	err := d.db.QueryRowContext(ctx, `
		INSERT INTO albums (name, artist, cover_path, cover_url, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name, artist) DO UPDATE SET
			cover_path = CASE WHEN excluded.cover_path != '' THEN excluded.cover_path ELSE albums.cover_path END,
			cover_url = CASE WHEN excluded.cover_url != '' THEN excluded.cover_url ELSE albums.cover_url END,
			updated_at = excluded.updated_at
		RETURNING id
	`, album.Name, album.Artist, album.CoverPath, album.CoverURL, time.Now()).Scan(&album.ID)
	if err != nil {
		d.debugLog("UpsertAlbum", err, start)
		return fmt.Errorf("upsert album: %w", err)
	}
	return nil
}

// UpsertTrack inserts or updates a track keyed by its file path and sets
// track.ID. Loved and rating of an existing track are kept.
func (d *Database) UpsertTrack(ctx context.Context, track *types.Track) error {
	start := time.Now()
	if err := d.checkClosed(); err != nil {
		return err
	}

	var albumID interface{}
	if track.AlbumID != 0 {
		albumID = track.AlbumID
	}

	err := d.db.QueryRowContext(ctx, `
		INSERT INTO tracks (album_id, number, title, artist, duration, path, loved, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			album_id = excluded.album_id,
			number = excluded.number,
			title = excluded.title,
			artist = excluded.artist,
			duration = excluded.duration,
			updated_at = excluded.updated_at
		RETURNING id
	`, albumID, track.Number, track.Title, track.Artist, track.Duration, track.Path, track.Loved, time.Now(),
	).Scan(&track.ID)
	if err != nil {
		d.debugLog("UpsertTrack", err, start)
		return fmt.Errorf("upsert track: %w", err)
	}
	return nil
}

func scanTrack(scanner interface {
	Scan(dest ...interface{}) error
}) (*types.Track, error) {
	var t types.Track
	var album types.Album

	err := scanner.Scan(
		&t.ID, &t.AlbumID, &t.Number, &t.Title, &t.Artist, &t.Duration,
		&t.Path, &t.Loved, &t.Rating,
		&album.Name, &album.Artist, &album.CoverPath, &album.CoverURL,
	)
	if err != nil {
		return nil, err
	}

	if t.AlbumID != 0 {
		album.ID = t.AlbumID
		t.Album = &album
	}
	return &t, nil
}
