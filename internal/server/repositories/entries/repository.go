package entries

import (
	"context"

	"github.com/dmitrijs2005/swapdiary/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, entry *models.Entry) error
	GetByID(ctx context.Context, id string) (*models.Entry, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*models.Entry, error)
	ListByRole(ctx context.Context, role string) ([]*models.Entry, error)
	Delete(ctx context.Context, id, authorID string) error
}
