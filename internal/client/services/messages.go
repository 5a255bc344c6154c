package services

import (
	"context"
	"errors"

	"github.com/quiltchat/quilt/internal/client/api"
	"github.com/quiltchat/quilt/internal/client/models"
	"github.com/quiltchat/quilt/internal/client/store"
	"github.com/quiltchat/quilt/internal/client/sync"
	"github.com/quiltchat/quilt/internal/common"
	"github.com/quiltchat/quilt/internal/logging"
)

type MessageService interface {
	ListForConversation(ctx context.Context, conversationID string) ([]*models.Message, error)
	// ListPage fetches one page of older history without disturbing records
	// outside the page.
	ListPage(ctx context.Context, conversationID string, page, limit int) ([]*models.Message, error)
	Send(ctx context.Context, req api.SendMessageRequest) (*models.Message, error)
	SetStarred(ctx context.Context, id string, starred bool) error
	Delete(ctx context.Context, id string) error
	// Outstanding lists the conversation's sends still waiting for the server.
	Outstanding(ctx context.Context, conversationID string) ([]*models.PendingMessage, error)
}

type messageService struct {
	client  api.Client
	store   *store.Store
	rec     *sync.Reconciler
	pending *sync.PendingTracker
	log     logging.Logger
}

func NewMessageService(client api.Client, st *store.Store, rec *sync.Reconciler, pending *sync.PendingTracker, log logging.Logger) MessageService {
	return &messageService{
		client:  client,
		store:   st,
		rec:     rec,
		pending: pending,
		log:     log.With("service", "messages"),
	}
}

// ListForConversation fetches the conversation's full transcript, commits it
// as the exact message set, and returns the cached rows in insertion order.
// Unreachable backend serves cache.
func (s *messageService) ListForConversation(ctx context.Context, conversationID string) ([]*models.Message, error) {
	tok := s.rec.Begin(sync.MessagesScope(conversationID))
	list, skipped, err := s.client.ListMessages(ctx, conversationID)
	switch {
	case err == nil:
		logSkipped(ctx, s.log, "message", skipped)
		if err := s.rec.ReplaceMessages(ctx, tok, conversationID, list); err != nil {
			return nil, err
		}
	case retryableRequest(err):
		s.log.Warn(ctx, "serving cached messages", "conversation_id", conversationID, "error", err)
	default:
		return nil, err
	}

	return s.store.Messages.ListByConversation(ctx, conversationID)
}

func (s *messageService) ListPage(ctx context.Context, conversationID string, page, limit int) ([]*models.Message, error) {
	tok := s.rec.Begin(sync.MessagesScope(conversationID))
	list, skipped, err := s.client.ListMessagesPage(ctx, conversationID, page, limit)
	if err != nil {
		return nil, err
	}
	logSkipped(ctx, s.log, "message", skipped)
	if err := s.rec.UpsertMessagesPage(ctx, tok, conversationID, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Send queues a placeholder under a fresh correlation id, submits the turn,
// and resolves the placeholder from the outcome. The conversation's
// generating flag is raised for the duration as a local overlay; the server
// record overwrites it on the next reconciliation either way.
func (s *messageService) Send(ctx context.Context, req api.SendMessageRequest) (*models.Message, error) {
	placeholder, err := s.pending.Begin(ctx, req.ConversationID, req.Content)
	if err != nil {
		return nil, err
	}
	req.ClientID = placeholder.CorrelationID

	if err := s.store.Conversations.SetGenerating(ctx, req.ConversationID, true); err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	defer func() {
		if err := s.store.Conversations.SetGenerating(ctx, req.ConversationID, false); err != nil && !errors.Is(err, common.ErrNotFound) {
			s.log.Warn(ctx, "clearing generating flag", "conversation_id", req.ConversationID, "error", err)
		}
	}()

	msg, err := s.client.SendMessage(ctx, req)
	if err != nil {
		if failErr := s.pending.Fail(ctx, placeholder.CorrelationID, err.Error()); failErr != nil {
			s.log.Error(ctx, "recording send failure", "correlation_id", placeholder.CorrelationID, "error", failErr)
		}
		return nil, err
	}

	if err := s.pending.Confirm(ctx, msg); err != nil {
		return nil, err
	}
	if err := s.store.Messages.Upsert(ctx, msg); err != nil {
		return nil, err
	}
	s.rec.Invalidate(sync.MessagesScope(req.ConversationID))
	return msg, nil
}

// SetStarred flips the flag locally first, then best-effort remotely.
func (s *messageService) SetStarred(ctx context.Context, id string, starred bool) error {
	if err := s.store.Messages.SetStarred(ctx, id, starred); err != nil {
		return err
	}
	m, err := s.store.Messages.GetByID(ctx, id)
	if err != nil {
		return err
	}
	s.rec.Invalidate(sync.MessagesScope(m.ConversationID))

	if _, err := s.client.UpdateMessage(ctx, m); err != nil {
		if retryableRequest(err) {
			s.log.Warn(ctx, "star change not delivered", "id", id, "error", err)
			return nil
		}
		return err
	}
	return nil
}

func (s *messageService) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteMessage(ctx, id); err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}
	return s.store.DeleteMessageCascade(ctx, id)
}

func (s *messageService) Outstanding(ctx context.Context, conversationID string) ([]*models.PendingMessage, error) {
	return s.pending.Outstanding(ctx, conversationID)
}
