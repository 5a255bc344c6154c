package services

import (
	"context"

	"github.com/quiltchat/quilt/internal/client/api"
	"github.com/quiltchat/quilt/internal/client/models"
	"github.com/quiltchat/quilt/internal/client/session"
	"github.com/quiltchat/quilt/internal/client/store"
	"github.com/quiltchat/quilt/internal/client/sync"
	"github.com/quiltchat/quilt/internal/logging"
)

type SettingsService interface {
	Get(ctx context.Context) (*models.UserSettings, error)
	// Update runs a read-modify-write cycle: the current record is loaded,
	// mutate is applied, and the result is pushed to the server. The record
	// the server returns wins and is cached.
	Update(ctx context.Context, mutate func(*models.UserSettings)) (*models.UserSettings, error)
}

type settingsService struct {
	client  api.Client
	store   *store.Store
	rec     *sync.Reconciler
	session *session.Manager
	log     logging.Logger
}

func NewSettingsService(client api.Client, st *store.Store, rec *sync.Reconciler, sess *session.Manager, log logging.Logger) SettingsService {
	return &settingsService{
		client:  client,
		store:   st,
		rec:     rec,
		session: sess,
		log:     log.With("service", "settings"),
	}
}

func (s *settingsService) Get(ctx context.Context) (*models.UserSettings, error) {
	userID, err := s.session.UserID(ctx)
	if err != nil {
		return nil, err
	}

	tok := s.rec.Begin(sync.SettingsScope(userID))
	remote, err := s.client.GetSettings(ctx)
	switch {
	case err == nil:
		if err := s.rec.UpsertSettings(ctx, tok, remote); err != nil {
			return nil, err
		}
	case retryableRequest(err):
		s.log.Warn(ctx, "serving cached settings", "error", err)
	default:
		return nil, err
	}

	return s.store.Settings.GetByUser(ctx, userID)
}

func (s *settingsService) Update(ctx context.Context, mutate func(*models.UserSettings)) (*models.UserSettings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	next := *current
	mutate(&next)

	updated, err := s.client.UpdateSettings(ctx, &next)
	if err != nil {
		return nil, err
	}
	s.rec.Invalidate(sync.SettingsScope(updated.UserID))
	if err := s.store.Settings.Upsert(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}
