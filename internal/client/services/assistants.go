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

type AssistantService interface {
	List(ctx context.Context) ([]*models.Assistant, error)
	Create(ctx context.Context, a *models.Assistant) (*models.Assistant, error)
	Update(ctx context.Context, a *models.Assistant) (*models.Assistant, error)
	Delete(ctx context.Context, id string) error
}

type assistantService struct {
	client api.Client
	store  *store.Store
	rec    *sync.Reconciler
	log    logging.Logger
}

func NewAssistantService(client api.Client, st *store.Store, rec *sync.Reconciler, log logging.Logger) AssistantService {
	return &assistantService{
		client: client,
		store:  st,
		rec:    rec,
		log:    log.With("service", "assistants"),
	}
}

func (s *assistantService) List(ctx context.Context) ([]*models.Assistant, error) {
	tok := s.rec.Begin(sync.AssistantsScope)
	list, skipped, err := s.client.ListAssistants(ctx)
	switch {
	case err == nil:
		logSkipped(ctx, s.log, "assistant", skipped)
		if err := s.rec.ReplaceAssistants(ctx, tok, list); err != nil {
			return nil, err
		}
	case retryableRequest(err):
		s.log.Warn(ctx, "serving cached assistants", "error", err)
	default:
		return nil, err
	}

	return s.store.Assistants.List(ctx)
}

func (s *assistantService) Create(ctx context.Context, a *models.Assistant) (*models.Assistant, error) {
	created, err := s.client.CreateAssistant(ctx, a)
	if err != nil {
		return nil, err
	}
	if err := s.store.Assistants.Upsert(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *assistantService) Update(ctx context.Context, a *models.Assistant) (*models.Assistant, error) {
	updated, err := s.client.UpdateAssistant(ctx, a)
	if err != nil {
		return nil, err
	}
	if err := s.store.Assistants.Upsert(ctx, updated); err != nil {
		return nil, err
	}
	s.rec.Invalidate(sync.AssistantsScope)
	return updated, nil
}

func (s *assistantService) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteAssistant(ctx, id); err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}
	if err := s.store.Assistants.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.rec.Invalidate(sync.AssistantsScope)
	return nil
}
