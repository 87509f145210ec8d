package diary

import (
	"context"
	"sync"
	"time"
)

// Session binds the signed-in (or guest) profile to the store selected for
// it. It replaces any process-wide notion of "current user": every call
// passes the session explicitly.
//
// The profile may change while a SwapWatcher reads it from another
// goroutine, so it is only reachable through Profile, LinkPartner and
// SetAvatar.
type Session struct {
	Store Store
	Now   Clock

	mu      sync.RWMutex
	profile Profile
}

// NewSession validates the profile and defaults the clock.
func NewSession(p Profile, s Store, now Clock) (*Session, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	return &Session{profile: p, Store: s, Now: now}, nil
}

// Profile returns a snapshot of the session profile.
func (s *Session) Profile() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// View resolves today's view for the session profile.
func (s *Session) View() View {
	return Resolve(s.Profile().Role, s.Now())
}

// Entries lists what the session may see today.
func (s *Session) Entries(ctx context.Context) ([]Entry, error) {
	return s.Store.List(ctx, s.Profile())
}

// Write creates an entry authored by the session profile.
func (s *Session) Write(ctx context.Context, d Draft) (*Entry, error) {
	return s.Store.Create(ctx, s.Profile(), d)
}

// Remove deletes an entry owned by the session profile.
func (s *Session) Remove(ctx context.Context, entryID string) error {
	return s.Store.Delete(ctx, entryID, s.Profile().ID)
}

// LinkPartner records the partner identity on the session profile. Callers
// persist it through their profile store first.
func (s *Session) LinkPartner(partnerID string) {
	s.mu.Lock()
	s.profile.PartnerID = partnerID
	s.mu.Unlock()
}

// SetAvatar records a new avatar reference on the session profile.
func (s *Session) SetAvatar(ref string) {
	s.mu.Lock()
	s.profile.AvatarRef = ref
	s.mu.Unlock()
}
