package assistants

import (
	"context"

	"github.com/quiltchat/quilt/internal/client/models"
)

type Repository interface {
	Upsert(ctx context.Context, a *models.Assistant) error
	GetByID(ctx context.Context, id string) (*models.Assistant, error)
	List(ctx context.Context) ([]*models.Assistant, error)
	IDs(ctx context.Context) ([]string, error)
	DeleteByID(ctx context.Context, id string) error
}
