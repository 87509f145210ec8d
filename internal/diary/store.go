package diary

import (
	"context"
	"time"
)

// Store is the persistence contract shared by the cloud and the device-local
// backends. A session picks one implementation when it starts.
//
// List returns the entries visible to viewer today, newest first. Backend
// failures wrap common.ErrQuery, so an empty slice always means "no entries".
//
// Create validates the draft (common.ErrValidation), stores its image if any,
// and only then writes the entry stamped with author's own identity and role.
//
// Delete removes entryID if ownerID authored it; otherwise it fails with
// common.ErrNotOwner or common.ErrNotFound. A failure to remove the image is
// logged and does not fail the call.
type Store interface {
	List(ctx context.Context, viewer Profile) ([]Entry, error)
	Create(ctx context.Context, author Profile, draft Draft) (*Entry, error)
	Delete(ctx context.Context, entryID, ownerID string) error
}

// GalleryItem is one picture shown in the gallery view.
type GalleryItem struct {
	EntryID   string    `json:"_id"`
	ImageRef  string    `json:"image"`
	CreatedAt time.Time `json:"timestamp"`
}

// Gallery extracts image-bearing entries, keeping their order.
func Gallery(entries []Entry) []GalleryItem {
	items := make([]GalleryItem, 0)
	for _, e := range entries {
		if !e.HasImage() {
			continue
		}
		items = append(items, GalleryItem{EntryID: e.ID, ImageRef: e.ImageRef, CreatedAt: e.CreatedAt})
	}
	return items
}
