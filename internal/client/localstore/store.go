// Package localstore is the device-local diary backend used by guest
// sessions. Entries and their images live together as one JSON array in a
// SQLite key/value table, mirroring browser local storage.
package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/swapdiary/internal/client/migrations"
	"github.com/dmitrijs2005/swapdiary/internal/common"
	"github.com/dmitrijs2005/swapdiary/internal/diary"
	"github.com/dmitrijs2005/swapdiary/internal/logging"
	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const (
	entriesKey = "guest_entries"
	roleKey    = "guest_role"
	avatarKey  = "guest_avatar"
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded device schema.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, ".")
}

// LocalStore implements diary.Store on the device.
type LocalStore struct {
	mu     sync.Mutex
	db     *sql.DB
	kv     *KV
	now    diary.Clock
	newID  func() string
	logger logging.Logger
}

type Option func(*LocalStore)

// WithClock overrides the clock used for day parity and timestamps.
func WithClock(c diary.Clock) Option {
	return func(s *LocalStore) { s.now = c }
}

// New wraps an already migrated database.
func New(db *sql.DB, logger logging.Logger, opts ...Option) *LocalStore {
	s := &LocalStore{
		db:     db,
		kv:     NewKV(db),
		now:    time.Now,
		newID:  func() string { return "guest_" + uuid.NewString() },
		logger: logger.With("module", "local_store"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Open opens (creating if needed) the SQLite file at dsn and migrates it.
func Open(ctx context.Context, dsn string, logger logging.Logger, opts ...Option) (*LocalStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("device storage migration: %w", err)
	}
	return New(db, logger, opts...), nil
}

func (s *LocalStore) Close() error {
	return s.db.Close()
}

func (s *LocalStore) List(ctx context.Context, viewer diary.Profile) ([]diary.Entry, error) {
	if err := viewer.Validate(); err != nil {
		return nil, err
	}

	view := diary.Resolve(viewer.Role, s.now())
	filter := diary.FilterFor(viewer, view)
	if filter.Coarse() {
		s.logger.Debug(ctx, "listing by role only", "effective_role", view.Effective)
	}

	s.mu.Lock()
	all, err := s.load(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	visible := filter.Apply(all)
	diary.SortNewestFirst(visible)

	s.logger.Debug(ctx, "listed entries", "effective_role", view.Effective, "swapped", view.Swapped, "count", len(visible))
	return visible, nil
}

func (s *LocalStore) Create(ctx context.Context, author diary.Profile, d diary.Draft) (*diary.Entry, error) {
	if err := author.Validate(); err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	var imageRef string
	if d.Image != nil {
		imageRef = EncodeDataURL(d.Image.ContentType, d.Image.Data)
	}

	e := diary.NewEntry(s.newID(), author, d, s.now(), imageRef)

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	all = append([]diary.Entry{e}, all...)
	if err := s.save(ctx, all); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *LocalStore) Delete(ctx context.Context, entryID, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load(ctx)
	if err != nil {
		return err
	}

	idx := -1
	for i := range all {
		if all[i].ID == entryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: entry %s", common.ErrNotFound, entryID)
	}
	if all[idx].AuthorID != ownerID {
		return fmt.Errorf("%w: entry %s", common.ErrNotOwner, entryID)
	}

	// the image is inline, it goes away with the record
	all = append(all[:idx], all[idx+1:]...)
	return s.save(ctx, all)
}

func (s *LocalStore) load(ctx context.Context) ([]diary.Entry, error) {
	raw, err := s.kv.Get(ctx, entriesKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrQuery, err)
	}
	if raw == nil {
		return nil, nil
	}
	var entries []diary.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: corrupt device storage: %v", common.ErrQuery, err)
	}
	return entries, nil
}

func (s *LocalStore) save(ctx context.Context, entries []diary.Entry) error {
	if entries == nil {
		entries = []diary.Entry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, entriesKey, raw); err != nil {
		return fmt.Errorf("%w: %v", common.ErrQuery, err)
	}
	return nil
}
