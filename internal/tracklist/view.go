package tracklist

import (
	"context"

	"fyne.io/fyne/v2"
)

// RowView renders one row.
type RowView interface {
	SetNumberLabel(label NumberLabel)
	SetTitleLabel(text string)
	SetDurationLabel(text string)
	SetPlayingIndicator(visible bool)
	SetMenuVisible(visible bool)

	SetObjectID(id int64)
	ObjectID() int64
	SetNumber(n int)
	Number() int

	// OnActivated is wired by the owning list; the row calls it on its
	// primary gesture.
	OnActivated(fn func())
}

// TrackRowView is a plain track row.
type TrackRowView interface {
	RowView
	SetLoved(loved bool)
}

// AlbumRowView is a track row with an album header and cover. Setting its
// object id links it to the album of that track.
type AlbumRowView interface {
	RowView
	// AlbumID is the album linked through SetObjectID, 0 when unknown.
	AlbumID() int64
	SetCover(cover fyne.Resource, tooltip string)
	SetAlbumAndArtist(ctx context.Context, albumID int64)
	// AlbumHeader returns what SetAlbumAndArtist resolved.
	AlbumHeader() (artist, album string)
	SetHeaderVisible(visible bool)
	// ScaleFactor is the pixel scale the row is rendered at.
	ScaleFactor() float32
}

// RowFactory creates the concrete row widgets for a list.
type RowFactory interface {
	NewTrackRow() TrackRowView
	NewAlbumRow() AlbumRowView
}
