package grpc

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/swapdiary/internal/common"
	"github.com/dmitrijs2005/swapdiary/internal/diary"
	"github.com/dmitrijs2005/swapdiary/internal/server/auth"
	"github.com/dmitrijs2005/swapdiary/internal/server/services"
)

const testSecret = "secret"

// stubUsers knows a fixed set of profiles and issues real JWTs for them.
type stubUsers struct {
	mu       sync.Mutex
	profiles map[string]*diary.Profile
	password string
}

func newStubUsers(profiles ...diary.Profile) *stubUsers {
	u := &stubUsers{profiles: map[string]*diary.Profile{}, password: "secret-pw"}
	for _, p := range profiles {
		p := p
		u.profiles[p.ID] = &p
	}
	return u
}

func (u *stubUsers) Register(_ context.Context, r services.Registration) (*diary.Profile, error) {
	role, err := diary.ParseRole(r.Role)
	if err != nil {
		return nil, common.ErrRoleRequired
	}
	p := &diary.Profile{ID: r.UserName, DisplayName: r.DisplayName, Role: role}
	u.mu.Lock()
	u.profiles[p.ID] = p
	u.mu.Unlock()
	return p, nil
}

func (u *stubUsers) Login(_ context.Context, name, password string) (*services.TokenPair, error) {
	u.mu.Lock()
	_, ok := u.profiles[name]
	u.mu.Unlock()
	if !ok || password != u.password {
		return nil, common.ErrUnauthorized
	}
	tok, err := auth.GenerateToken(name, []byte(testSecret), time.Hour)
	if err != nil {
		return nil, err
	}
	return &services.TokenPair{AccessToken: tok, RefreshToken: "refresh-" + name}, nil
}

func (u *stubUsers) RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	name, ok := cutPrefix(refreshToken, "refresh-")
	if !ok {
		return nil, common.ErrUnauthorized
	}
	return u.Login(ctx, name, u.password)
}

func (u *stubUsers) Logout(context.Context, string) error { return nil }

func (u *stubUsers) Profile(_ context.Context, id string) (*diary.Profile, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	p, ok := u.profiles[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (u *stubUsers) LinkPartner(ctx context.Context, id, partnerID string) (*diary.Profile, error) {
	if id == partnerID {
		return nil, common.ErrSelfPartner
	}
	u.mu.Lock()
	p, ok := u.profiles[id]
	_, partnerOK := u.profiles[partnerID]
	if ok && partnerOK {
		p.PartnerID = partnerID
	}
	u.mu.Unlock()
	if !ok || !partnerOK {
		return nil, common.ErrNotFound
	}
	return u.Profile(ctx, id)
}

func (u *stubUsers) SetAvatar(ctx context.Context, id string, img diary.Image) (*diary.Profile, error) {
	u.mu.Lock()
	if p, ok := u.profiles[id]; ok {
		p.AvatarRef = "https://blobs.test/avatars/" + id + "/profile"
	}
	u.mu.Unlock()
	return u.Profile(ctx, id)
}

// memStore is a minimal diary store ordered by insertion, newest first.
type memStore struct {
	mu      sync.Mutex
	entries []diary.Entry
	now     diary.Clock
	seq     int
}

func (s *memStore) List(ctx context.Context, viewer diary.Profile) ([]diary.Entry, error) {
	return s.ListForView(ctx, viewer, diary.Resolve(viewer.Role, s.now()))
}

func (s *memStore) ListForView(_ context.Context, viewer diary.Profile, view diary.View) ([]diary.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return diary.FilterFor(viewer, view).Apply(s.entries), nil
}

func (s *memStore) GalleryForView(ctx context.Context, viewer diary.Profile, view diary.View) ([]diary.GalleryItem, error) {
	entries, err := s.ListForView(ctx, viewer, view)
	if err != nil {
		return nil, err
	}
	return diary.Gallery(entries), nil
}

func (s *memStore) Create(_ context.Context, author diary.Profile, d diary.Draft) (*diary.Entry, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	var ref string
	if d.Image != nil {
		ref = "https://blobs.test/pic"
	}
	e := diary.NewEntry("e-"+string(rune('0'+s.seq)), author, d, s.now(), ref)
	s.entries = append([]diary.Entry{e}, s.entries...)
	return &e, nil
}

func (s *memStore) Delete(_ context.Context, id, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries {
		if e.ID != id {
			continue
		}
		if e.AuthorID != owner {
			return common.ErrNotOwner
		}
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
		return nil
	}
	return common.ErrNotFound
}

func cutPrefix(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || s[:len(prefix)] != prefix {
		return "", false
	}
	return s[len(prefix):], true
}
