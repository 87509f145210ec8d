// Package common defines shared constants and sentinel errors used across
// the client and server layers of SwapDiary. Callers should use errors.Is to
// match these values; stores wrap them together with the backend cause.
package common

import "errors"

var (
	// Store-level errors.
	ErrValidation   = errors.New("validation error")
	ErrQuery        = errors.New("query failed")
	ErrNotOwner     = errors.New("not the owner of the entry")
	ErrNotFound     = errors.New("not found")
	ErrImagePersist = errors.New("image persist failed")

	// Account errors.
	ErrAlreadyExists = errors.New("already exists")
	ErrRoleRequired  = errors.New("role required")
	ErrSelfPartner   = errors.New("cannot link yourself as partner")

	// Service-level errors.
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Token errors.
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
