// Package models defines server-side rows persisted in PostgreSQL.
package models

import "time"

// User is an account row. Role never changes after insert; only the
// partner link and the avatar key are updated in place.
type User struct {
	ID           string
	UserName     string
	DisplayName  string
	Email        string
	Role         string
	PartnerID    string
	AvatarKey    string
	Salt         []byte
	PasswordHash []byte
	CreatedAt    time.Time
}

// Entry is a diary page row. Labels are rendered once at creation in the
// diary zone and stored alongside the timestamp.
type Entry struct {
	ID         string
	AuthorID   string
	AuthorRole string
	Title      string
	Body       string
	Preview    string
	Mood       string
	ImageKey   string
	DateLabel  string
	DayLabel   string
	MonthLabel string
	TimeLabel  string
	CreatedAt  time.Time
}

type RefreshToken struct {
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}
