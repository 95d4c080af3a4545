package types

import (
	"time"
)

type Track struct {
	ID       int64  `json:"id" db:"id"`
	AlbumID  int64  `json:"album_id" db:"album_id"`
	Number   int    `json:"number" db:"number"`
	Title    string `json:"title" db:"title"`
	Artist   string `json:"artist" db:"artist"`
	Duration int    `json:"duration" db:"duration"` // seconds
	Path     string `json:"path" db:"path"`
	Loved    bool   `json:"loved" db:"loved"`
	Rating   int    `json:"rating" db:"rating"`

	Album *Album `json:"album,omitempty" db:"-"`

	CreatedAt time.Time `json:"-" db:"created_at"`
	UpdatedAt time.Time `json:"-" db:"updated_at"`
}

type Album struct {
	ID        int64  `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	Artist    string `json:"artist" db:"artist"`
	CoverPath string `json:"cover_path" db:"cover_path"`
	CoverURL  string `json:"cover_url" db:"cover_url"`

	CreatedAt time.Time `json:"-" db:"created_at"`
	UpdatedAt time.Time `json:"-" db:"updated_at"`
}

// DisplayTitle returns the title to show for a track, never empty.
func (t *Track) DisplayTitle() string {
	if t == nil || t.Title == "" {
		return "Untitled"
	}
	return t.Title
}

const MaxRating = 5
