package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/swapdiary/internal/client/client"
	"github.com/dmitrijs2005/swapdiary/internal/common"
	"github.com/dmitrijs2005/swapdiary/internal/diary"
	"github.com/dmitrijs2005/swapdiary/internal/diaryrpc"
)

// Register creates an account and signs straight into it.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Choose a username", a.writer())
	if err != nil {
		return err
	}
	displayName, err := getSimpleText(a.reader, "Display name (empty to use the username)", a.writer())
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email (optional)", a.writer())
	if err != nil {
		return err
	}
	role, err := a.askRole()
	if err != nil {
		return err
	}
	password, err := getPassword(a.writer())
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	p, err := a.api.Register(ctx, diaryrpc.RegisterRequest{
		Username:    userName,
		Password:    string(password),
		DisplayName: displayName,
		Email:       email,
		Role:        string(role),
	})
	if err != nil {
		a.reportError("Registration failed", err)
		return err
	}
	a.printf("Registered as %s. Your invite code is %s\n", p.Role.DisplayName(), p.ID)

	return a.signIn(ctx, userName, string(password))
}

// Login authenticates against the backend and opens a cloud session.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Username", a.writer())
	if err != nil {
		return err
	}
	password, err := getPassword(a.writer())
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	return a.signIn(ctx, userName, string(password))
}

func (a *App) signIn(ctx context.Context, userName, password string) error {
	if err := a.api.Login(ctx, userName, password); err != nil {
		a.reportError("Login failed", err)
		return err
	}
	p, err := a.api.Profile(ctx)
	if err != nil {
		a.reportError("Could not load your profile", err)
		return err
	}
	if err := a.startSession(ctx, *p, client.NewRemoteStore(a.api, *p, client.WithLocalClock(a.now))); err != nil {
		a.reportError("Could not start session", err)
		return err
	}
	a.printf("Welcome back, %s\n", p.DisplayName)
	return nil
}

// Guest opens a device-local session. The role is asked for once and kept
// in the local database.
func (a *App) Guest(ctx context.Context) error {
	p, ok, err := a.local.GuestProfile(ctx)
	if err != nil {
		a.reportError("Could not read the local profile", err)
		return err
	}
	if !ok {
		role, err := a.askRole()
		if err != nil {
			return err
		}
		if err := a.local.SaveGuestRole(ctx, role); err != nil {
			a.reportError("Could not save the role", err)
			return err
		}
		p = diary.GuestProfile(role)
	}

	if err := a.startSession(ctx, p, a.local); err != nil {
		a.reportError("Could not start session", err)
		return err
	}
	a.printf("Writing offline as %s (%s)\n", p.DisplayName, p.Role.DisplayName())
	return nil
}

func (a *App) askRole() (diary.Role, error) {
	for {
		answer, err := getSimpleText(a.reader, "Who are you? (taki/mitsuha)", a.writer())
		if err != nil {
			return "", err
		}
		role, err := diary.ParseRole(answer)
		if err == nil {
			return role, nil
		}
		a.println("Please answer taki or mitsuha.")
	}
}

// Logout ends the session. Cloud sessions revoke their refresh token; guest
// sessions may also wipe the device diary.
func (a *App) Logout(ctx context.Context) error {
	s := a.currentSession()
	if s == nil {
		return nil
	}

	if s.Profile().IsGuest() {
		answer, err := getSimpleText(a.reader, "Forget the guest diary on this device? (y/N)", a.writer())
		if err != nil {
			return err
		}
		if strings.EqualFold(answer, "y") {
			if err := a.local.ForgetGuest(ctx); err != nil {
				a.reportError("Could not wipe local data", err)
				return err
			}
			a.println("Local diary wiped.")
		}
	} else if err := a.api.Logout(ctx); err != nil && !errors.Is(err, client.ErrNotLoggedIn) {
		a.logger.Warn(ctx, "logout", "error", err)
	}

	a.endSession()
	a.println("Logged out.")
	return nil
}

// reportError prints a user-facing line for err and logs the cause.
func (a *App) reportError(what string, err error) {
	var reason string
	switch {
	case errors.Is(err, client.ErrUnavailable):
		reason = "the server is unavailable; 'guest' works offline"
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrRoleRequired):
		reason = strings.TrimPrefix(err.Error(), common.ErrValidation.Error()+": ")
	case errors.Is(err, common.ErrUnauthorized):
		reason = "wrong username or password, or the session expired"
	case errors.Is(err, common.ErrAlreadyExists):
		reason = "that username is taken"
	case errors.Is(err, common.ErrNotOwner):
		reason = "you can only change your own entries"
	case errors.Is(err, common.ErrNotFound):
		reason = "not found"
	case errors.Is(err, common.ErrQuery):
		reason = "the diary could not be loaded"
	default:
		reason = "unexpected error"
	}
	a.printf("%s: %s\n", what, reason)
	a.logger.Debug(context.Background(), what, "error", err)
}
