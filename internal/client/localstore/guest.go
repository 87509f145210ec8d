package localstore

import (
	"context"

	"github.com/dmitrijs2005/swapdiary/internal/diary"
)

// GuestProfile returns the device profile. ok is false until a role has
// been chosen with SaveGuestRole.
func (s *LocalStore) GuestProfile(ctx context.Context) (p diary.Profile, ok bool, err error) {
	raw, err := s.kv.Get(ctx, roleKey)
	if err != nil || raw == nil {
		return diary.Profile{}, false, err
	}
	role, err := diary.ParseRole(string(raw))
	if err != nil {
		return diary.Profile{}, false, err
	}

	p = diary.GuestProfile(role)

	avatar, err := s.kv.Get(ctx, avatarKey)
	if err != nil {
		return diary.Profile{}, false, err
	}
	p.AvatarRef = string(avatar)

	return p, true, nil
}

// SaveGuestRole stores the persona picked for the device.
func (s *LocalStore) SaveGuestRole(ctx context.Context, role diary.Role) error {
	if _, err := diary.ParseRole(string(role)); err != nil {
		return err
	}
	return s.kv.Set(ctx, roleKey, []byte(role))
}

// SaveGuestAvatar inlines the picture and returns its data URL.
func (s *LocalStore) SaveGuestAvatar(ctx context.Context, img diary.Image) (string, error) {
	ref := EncodeDataURL(img.ContentType, img.Data)
	if err := s.kv.Set(ctx, avatarKey, []byte(ref)); err != nil {
		return "", err
	}
	return ref, nil
}

// ForgetGuest wipes the device profile and all local entries.
func (s *LocalStore) ForgetGuest(ctx context.Context) error {
	for _, k := range []string{entriesKey, roleKey, avatarKey} {
		if err := s.kv.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}
