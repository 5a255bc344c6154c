package settings

import (
	"context"

	"github.com/quiltchat/quilt/internal/client/models"
)

type Repository interface {
	Upsert(ctx context.Context, s *models.UserSettings) error
	GetByUser(ctx context.Context, userID string) (*models.UserSettings, error)
	DeleteByUser(ctx context.Context, userID string) error
}
