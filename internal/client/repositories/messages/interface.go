package messages

import (
	"context"

	"github.com/quiltchat/quilt/internal/client/models"
)

type Repository interface {
	// Upsert inserts or overwrites the message row and replaces its
	// attachment rows. A message whose conversation is not cached locally is
	// still accepted; the reconciliation layer owns eventual consistency.
	Upsert(ctx context.Context, m *models.Message) error
	GetByID(ctx context.Context, id string) (*models.Message, error)
	// ListByConversation returns messages in insertion order.
	ListByConversation(ctx context.Context, conversationID string) ([]*models.Message, error)
	IDsByConversation(ctx context.Context, conversationID string) ([]string, error)
	SetStarred(ctx context.Context, id string, starred bool) error
	// DeleteCascadeByID removes the message and its attachments.
	DeleteCascadeByID(ctx context.Context, id string) error
	// DeleteCascadeByConversation removes every message of the conversation
	// together with all owned images and documents.
	DeleteCascadeByConversation(ctx context.Context, conversationID string) error
}
