package client

import (
	"context"

	"github.com/dmitrijs2005/swapdiary/internal/diary"
	"github.com/dmitrijs2005/swapdiary/internal/diaryrpc"
)

// Client is the CLI's view of the diary backend.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	Register(ctx context.Context, req diaryrpc.RegisterRequest) (*diary.Profile, error)
	Login(ctx context.Context, userName, password string) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*diary.Profile, error)
	LinkPartner(ctx context.Context, partnerID string) (*diary.Profile, error)
	SetAvatar(ctx context.Context, img diary.Image) (*diary.Profile, error)
	ListEntries(ctx context.Context) (*diaryrpc.EntryList, error)
	CreateEntry(ctx context.Context, d diary.Draft) (*diary.Entry, error)
	DeleteEntry(ctx context.Context, entryID string) error
	Gallery(ctx context.Context) ([]diary.GalleryItem, error)
}
