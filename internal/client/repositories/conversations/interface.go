package conversations

import (
	"context"

	"github.com/quiltchat/quilt/internal/client/models"
)

type Repository interface {
	// Upsert inserts the conversation or overwrites all fields of the stored
	// row with the same id. Applying the same record twice is a no-op.
	Upsert(ctx context.Context, c *models.Conversation) error
	GetByID(ctx context.Context, id string) (*models.Conversation, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Conversation, error)
	ListByProject(ctx context.Context, projectID string) ([]*models.Conversation, error)
	IDsByUser(ctx context.Context, userID string) ([]string, error)
	SetPinned(ctx context.Context, id string, pinned bool) error
	SetGenerating(ctx context.Context, id string, generating bool) error
	DeleteByID(ctx context.Context, id string) error
}
