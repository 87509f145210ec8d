package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/swapdiary/internal/common"
	"github.com/dmitrijs2005/swapdiary/internal/dbx"
	"github.com/dmitrijs2005/swapdiary/internal/server/models"
	entriesrepo "github.com/dmitrijs2005/swapdiary/internal/server/repositories/entries"
	refreshtokensrepo "github.com/dmitrijs2005/swapdiary/internal/server/repositories/refreshtokens"
	usersrepo "github.com/dmitrijs2005/swapdiary/internal/server/repositories/users"
	"github.com/google/uuid"
)

// memEntries is an in-memory entries.Repository.
type memEntries struct {
	mu        sync.Mutex
	rows      map[string]models.Entry
	listErr   error
	createErr error
}

func newMemEntries() *memEntries { return &memEntries{rows: map[string]models.Entry{}} }

func (r *memEntries) Create(_ context.Context, e *models.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.rows[e.ID] = *e
	return nil
}

func (r *memEntries) GetByID(_ context.Context, id string) (*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &e, nil
}

func (r *memEntries) ListByAuthor(_ context.Context, authorID string) ([]*models.Entry, error) {
	return r.list(func(e models.Entry) bool { return e.AuthorID == authorID })
}

func (r *memEntries) ListByRole(_ context.Context, role string) ([]*models.Entry, error) {
	return r.list(func(e models.Entry) bool { return e.AuthorRole == role })
}

func (r *memEntries) Delete(_ context.Context, id, authorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.rows[id]
	if !ok || e.AuthorID != authorID {
		return common.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *memEntries) list(keep func(models.Entry) bool) ([]*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*models.Entry, 0)
	for _, e := range r.rows {
		if keep(e) {
			e := e
			out = append(out, &e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// memUsers is an in-memory users.Repository keyed by generated UUIDs.
type memUsers struct {
	mu   sync.Mutex
	rows map[string]*models.User
}

func newMemUsers() *memUsers { return &memUsers{rows: map[string]*models.User{}} }

func (r *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.UserName == u.UserName {
			return nil, common.ErrAlreadyExists
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	cp := *u
	r.rows[u.ID] = &cp
	return u, nil
}

func (r *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUsers) GetByUsername(_ context.Context, name string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if u.UserName == name {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memUsers) SetPartner(_ context.Context, id, partnerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.rows[id]
	if !ok {
		return common.ErrNotFound
	}
	u.PartnerID = partnerID
	return nil
}

func (r *memUsers) SetAvatar(_ context.Context, id, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.rows[id]
	if !ok {
		return common.ErrNotFound
	}
	u.AvatarKey = key
	return nil
}

// memTokens is an in-memory refreshtokens.Repository.
type memTokens struct {
	mu   sync.Mutex
	rows map[string]models.RefreshToken
}

func newMemTokens() *memTokens { return &memTokens{rows: map[string]models.RefreshToken{}} }

func (r *memTokens) Create(_ context.Context, userID, token string, expires time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[token] = models.RefreshToken{UserID: userID, Token: token, Expires: expires}
	return nil
}

func (r *memTokens) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.rows[token]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &rt, nil
}

func (r *memTokens) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, token)
	return nil
}

func (r *memTokens) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, rt := range r.rows {
		if rt.Expires.Before(now) {
			delete(r.rows, k)
			n++
		}
	}
	return n, nil
}

type memRepoManager struct {
	entries *memEntries
	users   *memUsers
	tokens  *memTokens
}

func newMemRepoManager() *memRepoManager {
	return &memRepoManager{entries: newMemEntries(), users: newMemUsers(), tokens: newMemTokens()}
}

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error        { return nil }
func (m *memRepoManager) Users(dbx.DBTX) usersrepo.Repository                 { return m.users }
func (m *memRepoManager) RefreshTokens(dbx.DBTX) refreshtokensrepo.Repository { return m.tokens }
func (m *memRepoManager) Entries(dbx.DBTX) entriesrepo.Repository             { return m.entries }

// memBlobs is an in-memory blob.Store with switchable failures.
type memBlobs struct {
	mu         sync.Mutex
	objects    map[string][]byte
	putErr     error
	deleteErr  error
	presignErr error
}

func newMemBlobs() *memBlobs { return &memBlobs{objects: map[string][]byte{}} }

func (b *memBlobs) Put(_ context.Context, key, _ string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.putErr != nil {
		return b.putErr
	}
	b.objects[key] = data
	return nil
}

func (b *memBlobs) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.deleteErr != nil {
		return b.deleteErr
	}
	delete(b.objects, key)
	return nil
}

func (b *memBlobs) PresignGet(_ context.Context, key string) (string, error) {
	if b.presignErr != nil {
		return "", b.presignErr
	}
	return "https://blobs.test/" + key, nil
}

func (b *memBlobs) has(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.objects[key]
	return ok
}

func (b *memBlobs) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}

var errBackend = errors.New("backend down")
