package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/swapdiary/internal/common"
	"github.com/dmitrijs2005/swapdiary/internal/diary"
	"github.com/dmitrijs2005/swapdiary/internal/diaryrpc"
)

// Backend is the part of Client a RemoteStore needs.
type Backend interface {
	ListEntries(ctx context.Context) (*diaryrpc.EntryList, error)
	CreateEntry(ctx context.Context, d diary.Draft) (*diary.Entry, error)
	DeleteEntry(ctx context.Context, entryID string) error
}

// RemoteStore is the cloud diary.Store of a CLI session. The server
// authenticates the caller by token and applies the visibility filter
// itself; RemoteStore only checks the viewer it is asked about is the
// session's own.
type RemoteStore struct {
	backend Backend
	ownerID string
	now     diary.Clock

	mu       sync.Mutex
	lastView *diary.View
	skew     time.Duration
}

type RemoteOption func(*RemoteStore)

// WithLocalClock overrides the device clock the server offset is measured
// against.
func WithLocalClock(c diary.Clock) RemoteOption {
	return func(r *RemoteStore) { r.now = c }
}

func NewRemoteStore(b Backend, owner diary.Profile, opts ...RemoteOption) *RemoteStore {
	r := &RemoteStore{backend: b, ownerID: owner.ID, now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *RemoteStore) List(ctx context.Context, viewer diary.Profile) ([]diary.Entry, error) {
	if viewer.ID != r.ownerID {
		return nil, fmt.Errorf("%w: store belongs to another session", common.ErrValidation)
	}
	list, err := r.backend.ListEntries(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.lastView = &diary.View{Own: viewer.Role, Effective: list.EffectiveRole, Swapped: list.Swapped}
	if !list.ServerTime.IsZero() {
		r.skew = list.ServerTime.Sub(r.now())
	}
	r.mu.Unlock()

	return list.Entries, nil
}

// ServerView returns the view the server reported with the last listing.
func (r *RemoteStore) ServerView() (diary.View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastView == nil {
		return diary.View{}, false
	}
	return *r.lastView, true
}

// Now is the device clock shifted by the offset to the server clock seen at
// the last listing, so day parity between listings follows the server.
func (r *RemoteStore) Now() time.Time {
	r.mu.Lock()
	skew := r.skew
	r.mu.Unlock()
	return r.now().Add(skew)
}

func (r *RemoteStore) Create(ctx context.Context, author diary.Profile, d diary.Draft) (*diary.Entry, error) {
	if author.ID != r.ownerID {
		return nil, fmt.Errorf("%w: store belongs to another session", common.ErrValidation)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return r.backend.CreateEntry(ctx, d)
}

func (r *RemoteStore) Delete(ctx context.Context, entryID, ownerID string) error {
	if ownerID != r.ownerID {
		return common.ErrNotOwner
	}
	return r.backend.DeleteEntry(ctx, entryID)
}
