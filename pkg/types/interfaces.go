package types

import (
	"context"

	"fyne.io/fyne/v2"
)

// SubscriptionID identifies one registered event handler.
type SubscriptionID uint64

// QueueState is the part of the player a track list observes.
type QueueState interface {
	CurrentTrackID() (int64, bool)
	IsInQueue(trackID int64) bool
	// QueuePosition is 1-based.
	QueuePosition(trackID int64) (int, bool)
	SubscribeQueueChanged(fn func()) SubscriptionID
	Unsubscribe(id SubscriptionID)
}

// QueueEditor is used by row menus to add or remove a track from the
// play-next queue.
type QueueEditor interface {
	IsInQueue(trackID int64) bool
	Enqueue(trackID int64)
	Dequeue(trackID int64)
}

// MetadataStore resolves display metadata for rows.
type MetadataStore interface {
	ArtistName(ctx context.Context, albumID int64) (string, error)
	AlbumName(ctx context.Context, albumID int64) (string, error)
	AlbumIDOfTrack(ctx context.Context, trackID int64) (int64, error)
	IsLoved(ctx context.Context, trackID int64) (bool, error)
}

// RatingStore reads and writes the user rating of a track.
type RatingStore interface {
	Rating(ctx context.Context, trackID int64) (int, error)
	SetRating(ctx context.Context, trackID int64, rating int) error
}

// ArtCache returns album covers rendered at a pixel size.
type ArtCache interface {
	AlbumCover(ctx context.Context, albumID int64, size int) (fyne.Resource, error)
}

// Notifier sends a one-shot desktop notification.
type Notifier interface {
	Send(text string)
}
