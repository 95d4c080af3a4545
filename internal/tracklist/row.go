// Package tracklist keeps the rows of a track list in sync with the player:
// which row is playing, which rows are queued and at what position, and
// which tracks are loved. Rendering is delegated to RowView implementations.
package tracklist

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
)

// Style classifiers applied to a row. ClassRow and ClassPlaying are mutually
// exclusive; ClassMenuSelected is set while the row menu is open.
const (
	ClassRow          = "trackrow"
	ClassPlaying      = "trackrowplaying"
	ClassMenuSelected = "track-menu-selected"
)

// Loved marker opacities.
const (
	LovedOpacity   = 0.6
	UnlovedOpacity = 0.1
)

// NumberLabel is the content of a row's numeric column. Queued labels show a
// queue position and are rendered bold in the accent colour.
type NumberLabel struct {
	Text   string
	Queued bool
}

// PlainNumber is the static track number label, blank for n <= 0.
func PlainNumber(n int) NumberLabel {
	if n <= 0 {
		return NumberLabel{}
	}
	return NumberLabel{Text: strconv.Itoa(n)}
}

// QueueNumber is the styled queue-position label.
func QueueNumber(pos int) NumberLabel {
	return NumberLabel{Text: strconv.Itoa(pos), Queued: true}
}

// LabelFor applies the numbering precedence: queue position, then static
// number, then blank.
func LabelFor(queuePos, number int) NumberLabel {
	if queuePos > 0 {
		return QueueNumber(queuePos)
	}
	return PlainNumber(number)
}

// FormatDuration renders seconds as M:SS, or H:MM:SS from one hour on.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

type RowKind int

const (
	KindTrack RowKind = iota
	KindAlbum
)

func (k RowKind) String() string {
	switch k {
	case KindTrack:
		return "track"
	case KindAlbum:
		return "album"
	default:
		return "unknown"
	}
}

// RowState is the display state of one row. Rows are a projection of
// player and library state and are rebuilt rather than persisted.
type RowState struct {
	Kind          RowKind
	ObjectID      int64
	AlbumID       int64
	Number        int
	QueuePosition int
	Label         NumberLabel
	Title         string
	Duration      string
	Playing       bool
	Loved         bool
	ShowMenu      bool

	AlbumArtist   string
	AlbumTitle    string
	CoverAlbumID  int64
	Cover         fyne.Resource
	CoverTooltip  string
	HeaderVisible bool
}

// Class returns the row's base style classifier.
func (s RowState) Class() string {
	if s.Playing {
		return ClassPlaying
	}
	return ClassRow
}
