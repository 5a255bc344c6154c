package sync

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/quiltchat/quilt/internal/client/models"
	"github.com/quiltchat/quilt/internal/client/store"
	"github.com/quiltchat/quilt/internal/common"
	"github.com/quiltchat/quilt/internal/logging"
)

// PendingTracker runs the optimistic-send state machine. Every send starts
// as a queued placeholder under a fresh correlation id and ends Confirmed
// (server echoed it back) or Failed (send error).
type PendingTracker struct {
	store *store.Store
	log   logging.Logger
	newID func() string
	now   func() time.Time
}

func NewPendingTracker(st *store.Store, log logging.Logger) *PendingTracker {
	return &PendingTracker{
		store: st,
		log:   log.With("component", "pending"),
		newID: uuid.NewString,
		now:   time.Now,
	}
}

// Begin queues a placeholder for a user turn and returns it with its
// correlation id assigned.
func (t *PendingTracker) Begin(ctx context.Context, conversationID, content string) (*models.PendingMessage, error) {
	m := &models.PendingMessage{
		CorrelationID:  t.newID(),
		ConversationID: conversationID,
		Content:        content,
		State:          models.PendingStatePending,
		CreatedAt:      t.now().UTC(),
	}
	if err := t.store.Pending.Enqueue(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Confirm resolves the placeholder a server message acknowledges. The echoed
// clientId is the primary match; a user-authored message without one falls
// back to the oldest still-pending entry of its conversation. Messages that
// match nothing (assistant turns, already resolved ids) are ignored.
func (t *PendingTracker) Confirm(ctx context.Context, m *models.Message) error {
	if m.ClientID != nil {
		err := t.store.Pending.MarkConfirmed(ctx, *m.ClientID)
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return err
	}

	if m.Role != models.RoleUser {
		return nil
	}
	head, err := t.store.Pending.Head(ctx, m.ConversationID)
	if errors.Is(err, common.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	t.log.Info(ctx, "confirming pending send by queue order", "correlation_id", head.CorrelationID)
	return t.store.Pending.MarkConfirmed(ctx, head.CorrelationID)
}

// Fail marks a placeholder failed with the send error.
func (t *PendingTracker) Fail(ctx context.Context, correlationID, errMsg string) error {
	return t.store.Pending.MarkFailed(ctx, correlationID, errMsg)
}

// Outstanding returns a conversation's queue entries that are still waiting
// for the server, oldest first.
func (t *PendingTracker) Outstanding(ctx context.Context, conversationID string) ([]*models.PendingMessage, error) {
	all, err := t.store.Pending.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	var waiting []*models.PendingMessage
	for _, m := range all {
		if m.State == models.PendingStatePending {
			waiting = append(waiting, m)
		}
	}
	return waiting, nil
}
