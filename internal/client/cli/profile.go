package cli

import (
	"context"

	"github.com/dmitrijs2005/swapdiary/internal/diary"
	"github.com/dmitrijs2005/swapdiary/internal/filex"
)

// Partner links the partner whose diary replaces the role-wide view on
// swapped days. Without arguments it shows the profile and invite code.
func (a *App) Partner(ctx context.Context, args []string) error {
	s := a.currentSession()
	if s == nil {
		return nil
	}
	own := s.Profile()
	if own.IsGuest() {
		a.println("Partner linking needs an account. Use 'register' or 'login'.")
		return nil
	}

	if len(args) == 0 {
		a.println(describeProfile(own))
		a.printf("Your invite code: %s\n", own.ID)
		return nil
	}

	p, err := a.api.LinkPartner(ctx, args[0])
	if err != nil {
		a.reportError("Could not link partner", err)
		return err
	}
	s.LinkPartner(p.PartnerID)
	a.printf("Linked with %s. On swapped days you will read their diary.\n", p.PartnerID)
	return nil
}

// Avatar uploads a profile picture.
func (a *App) Avatar(ctx context.Context, args []string) error {
	s := a.currentSession()
	if s == nil {
		return nil
	}
	if len(args) == 0 {
		a.println("Usage: avatar <file>")
		return nil
	}

	img, err := filex.ReadImage(args[0])
	if err != nil {
		a.reportError("Could not read picture", err)
		return err
	}

	ref, err := a.saveAvatar(ctx, s.Profile().IsGuest(), img)
	if err != nil {
		a.reportError("Could not update avatar", err)
		return err
	}

	s.SetAvatar(ref)
	a.println("Avatar updated.")
	return nil
}

func (a *App) saveAvatar(ctx context.Context, guest bool, img *diary.Image) (string, error) {
	if guest {
		return a.local.SaveGuestAvatar(ctx, *img)
	}
	p, err := a.api.SetAvatar(ctx, *img)
	if err != nil {
		return "", err
	}
	return p.AvatarRef, nil
}
