package users

import (
	"context"

	"github.com/dmitrijs2005/swapdiary/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, userName string) (*models.User, error)
	SetPartner(ctx context.Context, id, partnerID string) error
	SetAvatar(ctx context.Context, id, avatarKey string) error
}
