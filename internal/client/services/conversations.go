// Package services holds the typed entity accessors the UI calls. Each
// service composes the transport client, the local store and the reconciler:
// reads try the network and fall back to cache, writes go remote-first with
// an optimistic local overlay where the operation allows it.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/quiltchat/quilt/internal/client/api"
	"github.com/quiltchat/quilt/internal/client/models"
	"github.com/quiltchat/quilt/internal/client/session"
	"github.com/quiltchat/quilt/internal/client/store"
	"github.com/quiltchat/quilt/internal/client/sync"
	"github.com/quiltchat/quilt/internal/common"
	"github.com/quiltchat/quilt/internal/logging"
)

type ConversationService interface {
	List(ctx context.Context) ([]*models.Conversation, error)
	Get(ctx context.Context, id string) (*models.Conversation, error)
	Create(ctx context.Context, title string, projectID *string) (*models.Conversation, error)
	SetPinned(ctx context.Context, id string, pinned bool) error
	Delete(ctx context.Context, id string) error
}

type conversationService struct {
	client  api.Client
	store   *store.Store
	rec     *sync.Reconciler
	session *session.Manager
	log     logging.Logger
}

func NewConversationService(client api.Client, st *store.Store, rec *sync.Reconciler, sess *session.Manager, log logging.Logger) ConversationService {
	return &conversationService{
		client:  client,
		store:   st,
		rec:     rec,
		session: sess,
		log:     log.With("service", "conversations"),
	}
}

// retryableRequest reports a transport failure that cache can paper over:
// the server was unreachable, slow, or shedding load.
func retryableRequest(err error) bool {
	var reqErr *common.RequestError
	return errors.As(err, &reqErr) && reqErr.Retryable()
}

func logSkipped(ctx context.Context, log logging.Logger, entity string, skipped []error) {
	for _, err := range skipped {
		log.Warn(ctx, "skipping undecodable record", "entity", entity, "error", err)
	}
}

// List fetches the user's conversations, commits the full slice (the server
// response is the complete set, so local records missing from it are
// deleted), and returns the cached result. When the backend is unreachable
// the cache is served as-is.
func (s *conversationService) List(ctx context.Context) ([]*models.Conversation, error) {
	userID, err := s.session.UserID(ctx)
	if err != nil {
		return nil, err
	}

	tok := s.rec.Begin(sync.ConversationsScope(userID))
	list, skipped, err := s.client.ListConversations(ctx)
	switch {
	case err == nil:
		logSkipped(ctx, s.log, "conversation", skipped)
		if err := s.rec.ReplaceConversations(ctx, tok, userID, list); err != nil {
			return nil, err
		}
	case retryableRequest(err):
		s.log.Warn(ctx, "serving cached conversations", "error", err)
	default:
		return nil, err
	}

	return s.store.Conversations.ListByUser(ctx, userID)
}

func (s *conversationService) Get(ctx context.Context, id string) (*models.Conversation, error) {
	tok := s.rec.Begin(sync.ConversationScope(id))
	c, err := s.client.GetConversation(ctx, id)
	switch {
	case err == nil:
		if err := s.rec.UpsertConversation(ctx, tok, c); err != nil {
			return nil, err
		}
	case retryableRequest(err):
		s.log.Warn(ctx, "serving cached conversation", "id", id, "error", err)
	default:
		return nil, err
	}

	return s.store.Conversations.GetByID(ctx, id)
}

func (s *conversationService) Create(ctx context.Context, title string, projectID *string) (*models.Conversation, error) {
	c, err := s.client.CreateConversation(ctx, api.CreateConversationRequest{
		Title:     title,
		ProjectID: projectID,
	})
	if err != nil {
		return nil, err
	}
	if err := s.store.Conversations.Upsert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// SetPinned flips the flag locally first so the UI reorders immediately,
// then tells the server. An unreachable server is not an error here: the
// next reconciliation settles whichever state the server holds.
func (s *conversationService) SetPinned(ctx context.Context, id string, pinned bool) error {
	if err := s.store.Conversations.SetPinned(ctx, id, pinned); err != nil {
		return err
	}
	c, err := s.store.Conversations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	s.rec.Invalidate(sync.ConversationsScope(c.UserID))
	s.rec.Invalidate(sync.ConversationScope(id))

	if _, err := s.client.UpdateConversation(ctx, c); err != nil {
		if retryableRequest(err) {
			s.log.Warn(ctx, "pin change not delivered", "id", id, "error", err)
			return nil
		}
		return fmt.Errorf("updating conversation: %w", err)
	}
	return nil
}

// Delete removes the conversation remotely, then cascades locally. A 404
// from the server means it is already gone and the local cascade proceeds.
func (s *conversationService) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteConversation(ctx, id); err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}
	if err := s.store.DeleteConversationCascade(ctx, id); err != nil {
		return err
	}
	s.rec.Invalidate(sync.ConversationScope(id))
	s.rec.Invalidate(sync.MessagesScope(id))
	return nil
}
