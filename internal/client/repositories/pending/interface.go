package pending

import (
	"context"

	"github.com/quiltchat/quilt/internal/client/models"
)

// Repository tracks optimistically sent messages until the server-issued
// copies arrive.
type Repository interface {
	Enqueue(ctx context.Context, m *models.PendingMessage) error
	Get(ctx context.Context, correlationID string) (*models.PendingMessage, error)
	// ListByConversation returns queued entries oldest first.
	ListByConversation(ctx context.Context, conversationID string) ([]*models.PendingMessage, error)
	// Head returns the oldest entry still in the pending state, or
	// common.ErrNotFound when the queue is empty.
	Head(ctx context.Context, conversationID string) (*models.PendingMessage, error)
	MarkConfirmed(ctx context.Context, correlationID string) error
	MarkFailed(ctx context.Context, correlationID string, errMsg string) error
	Delete(ctx context.Context, correlationID string) error
	DeleteByConversation(ctx context.Context, conversationID string) error
}
