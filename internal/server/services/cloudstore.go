// Package services contains server-side business logic: accounts and the
// cloud-backed diary store.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/swapdiary/internal/common"
	"github.com/dmitrijs2005/swapdiary/internal/diary"
	"github.com/dmitrijs2005/swapdiary/internal/logging"
	"github.com/dmitrijs2005/swapdiary/internal/server/blob"
	"github.com/dmitrijs2005/swapdiary/internal/server/models"
	"github.com/dmitrijs2005/swapdiary/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// CloudStore implements diary.Store on PostgreSQL with pictures in S3.
type CloudStore struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	blobs         blob.Store
	now           diary.Clock
	maxImageBytes int64
	logger        logging.Logger
}

func NewCloudStore(db *sql.DB, m repomanager.RepositoryManager, blobs blob.Store, maxImageBytes int64, logger logging.Logger) *CloudStore {
	return &CloudStore{
		db:            db,
		repomanager:   m,
		blobs:         blobs,
		now:           time.Now,
		maxImageBytes: maxImageBytes,
		logger:        logger.With("module", "cloud_store"),
	}
}

// WithClock replaces the clock used for day parity and timestamps.
func (s *CloudStore) WithClock(c diary.Clock) *CloudStore {
	s.now = c
	return s
}

// List resolves today's view with the store clock and lists under it.
func (s *CloudStore) List(ctx context.Context, viewer diary.Profile) ([]diary.Entry, error) {
	if err := viewer.Validate(); err != nil {
		return nil, err
	}
	return s.ListForView(ctx, viewer, diary.Resolve(viewer.Role, s.now()))
}

// ListForView lists what viewer may see under a view the caller already
// resolved, so a reply reporting that view matches the filter applied.
func (s *CloudStore) ListForView(ctx context.Context, viewer diary.Profile, view diary.View) ([]diary.Entry, error) {
	if err := viewer.Validate(); err != nil {
		return nil, err
	}
	if view.Own != viewer.Role {
		return nil, fmt.Errorf("%w: view resolved for %q, viewer is %q", common.ErrValidation, view.Own, viewer.Role)
	}

	filter := diary.FilterFor(viewer, view)
	repo := s.repomanager.Entries(s.db)

	var (
		rows []*models.Entry
		err  error
	)
	if filter.Coarse() {
		s.logger.Warn(ctx, "partner not linked, listing by role only",
			"viewer", viewer.ID, "effective_role", view.Effective)
		rows, err = repo.ListByRole(ctx, string(filter.AuthorRole))
	} else {
		rows, err = repo.ListByAuthor(ctx, filter.AuthorID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrQuery, err)
	}

	result := make([]diary.Entry, 0, len(rows))
	for _, r := range rows {
		result = append(result, entryFromModel(r, s.imageURL(ctx, r.ImageKey)))
	}
	diary.SortNewestFirst(result)
	return result, nil
}

func (s *CloudStore) Create(ctx context.Context, author diary.Profile, d diary.Draft) (*diary.Entry, error) {
	if err := author.Validate(); err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	now := s.now()

	var key string
	if d.Image != nil {
		if s.maxImageBytes > 0 && int64(len(d.Image.Data)) > s.maxImageBytes {
			return nil, fmt.Errorf("%w: picture exceeds %d bytes", common.ErrValidation, s.maxImageBytes)
		}
		key = blob.EntryImageKey(author.ID, now)
		if err := s.blobs.Put(ctx, key, d.Image.ContentType, d.Image.Data); err != nil {
			return nil, err
		}
	}

	e := diary.NewEntry(uuid.NewString(), author, d, now, "")

	if err := s.repomanager.Entries(s.db).Create(ctx, entryToModel(e, key)); err != nil {
		if key != "" {
			if derr := s.blobs.Delete(ctx, key); derr != nil {
				s.logger.Warn(ctx, "orphaned picture left in storage", "key", key, "error", derr)
			}
		}
		return nil, fmt.Errorf("%w: %v", common.ErrQuery, err)
	}

	e.ImageRef = s.imageURL(ctx, key)
	return &e, nil
}

func (s *CloudStore) Delete(ctx context.Context, entryID, ownerID string) error {
	if _, err := uuid.Parse(entryID); err != nil {
		return fmt.Errorf("%w: entry %s", common.ErrNotFound, entryID)
	}

	repo := s.repomanager.Entries(s.db)

	row, err := repo.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%w: entry %s", common.ErrNotFound, entryID)
		}
		return fmt.Errorf("%w: %v", common.ErrQuery, err)
	}
	if row.AuthorID != ownerID {
		return fmt.Errorf("%w: entry %s", common.ErrNotOwner, entryID)
	}

	if err := repo.Delete(ctx, entryID, ownerID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%w: entry %s", common.ErrNotFound, entryID)
		}
		return fmt.Errorf("%w: %v", common.ErrQuery, err)
	}

	if row.ImageKey != "" {
		if err := s.blobs.Delete(ctx, row.ImageKey); err != nil {
			s.logger.Warn(ctx, "picture removal failed, entry deleted anyway",
				"entry", entryID, "key", row.ImageKey, "error", err)
		}
	}
	return nil
}

// Gallery lists the pictures visible to viewer today, newest first.
func (s *CloudStore) Gallery(ctx context.Context, viewer diary.Profile) ([]diary.GalleryItem, error) {
	entries, err := s.List(ctx, viewer)
	if err != nil {
		return nil, err
	}
	return diary.Gallery(entries), nil
}

func (s *CloudStore) GalleryForView(ctx context.Context, viewer diary.Profile, view diary.View) ([]diary.GalleryItem, error) {
	entries, err := s.ListForView(ctx, viewer, view)
	if err != nil {
		return nil, err
	}
	return diary.Gallery(entries), nil
}

// imageURL presigns key. On failure the raw key is returned so the entry
// still reports that it carries a picture.
func (s *CloudStore) imageURL(ctx context.Context, key string) string {
	if key == "" {
		return ""
	}
	url, err := s.blobs.PresignGet(ctx, key)
	if err != nil {
		s.logger.Warn(ctx, "presign failed", "key", key, "error", err)
		return key
	}
	return url
}
