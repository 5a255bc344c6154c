package services

import (
	"context"
	stdsync "sync"
	"time"

	"github.com/quiltchat/quilt/internal/client/api"
	"github.com/quiltchat/quilt/internal/client/models"
	"github.com/quiltchat/quilt/internal/logging"
)

// CatalogService serves the model catalog. Catalog data is not cached in
// SQLite: it is reference data the server owns entirely, so a short-lived
// in-memory read-through cache is enough.
type CatalogService interface {
	UserModels(ctx context.Context) ([]*models.UserModel, error)
	Catalog(ctx context.Context) ([]*models.ModelInfo, error)
	Providers(ctx context.Context) ([]*models.ProviderInfo, error)
	SetModelEnabled(ctx context.Context, modelID string, enabled bool) error
	SetModelPinned(ctx context.Context, modelID string, pinned bool) error
}

type catalogService struct {
	client api.Client
	ttl    time.Duration
	log    logging.Logger
	now    func() time.Time

	mu         stdsync.Mutex
	userModels cached[[]*models.UserModel]
	catalog    cached[[]*models.ModelInfo]
	providers  cached[[]*models.ProviderInfo]
}

type cached[T any] struct {
	value     T
	fetchedAt time.Time
}

func (c cached[T]) fresh(now time.Time, ttl time.Duration) bool {
	return !c.fetchedAt.IsZero() && now.Sub(c.fetchedAt) < ttl
}

func NewCatalogService(client api.Client, ttl time.Duration, log logging.Logger) CatalogService {
	return &catalogService{
		client: client,
		ttl:    ttl,
		log:    log.With("service", "catalog"),
		now:    time.Now,
	}
}

func (s *catalogService) UserModels(ctx context.Context) ([]*models.UserModel, error) {
	s.mu.Lock()
	if s.userModels.fresh(s.now(), s.ttl) {
		v := s.userModels.value
		s.mu.Unlock()
		return v, nil
	}
	s.mu.Unlock()

	list, skipped, err := s.client.ListUserModels(ctx)
	if err != nil {
		return nil, err
	}
	logSkipped(ctx, s.log, "user model", skipped)

	s.mu.Lock()
	s.userModels = cached[[]*models.UserModel]{value: list, fetchedAt: s.now()}
	s.mu.Unlock()
	return list, nil
}

func (s *catalogService) Catalog(ctx context.Context) ([]*models.ModelInfo, error) {
	s.mu.Lock()
	if s.catalog.fresh(s.now(), s.ttl) {
		v := s.catalog.value
		s.mu.Unlock()
		return v, nil
	}
	s.mu.Unlock()

	list, skipped, err := s.client.ListModelCatalog(ctx)
	if err != nil {
		return nil, err
	}
	logSkipped(ctx, s.log, "model info", skipped)

	s.mu.Lock()
	s.catalog = cached[[]*models.ModelInfo]{value: list, fetchedAt: s.now()}
	s.mu.Unlock()
	return list, nil
}

func (s *catalogService) Providers(ctx context.Context) ([]*models.ProviderInfo, error) {
	s.mu.Lock()
	if s.providers.fresh(s.now(), s.ttl) {
		v := s.providers.value
		s.mu.Unlock()
		return v, nil
	}
	s.mu.Unlock()

	list, skipped, err := s.client.ListProviders(ctx)
	if err != nil {
		return nil, err
	}
	logSkipped(ctx, s.log, "provider", skipped)

	s.mu.Lock()
	s.providers = cached[[]*models.ProviderInfo]{value: list, fetchedAt: s.now()}
	s.mu.Unlock()
	return list, nil
}

// invalidateUserModels drops the cached user-model list after a write so the
// next read reflects the toggle.
func (s *catalogService) invalidateUserModels() {
	s.mu.Lock()
	s.userModels = cached[[]*models.UserModel]{}
	s.mu.Unlock()
}

func (s *catalogService) SetModelEnabled(ctx context.Context, modelID string, enabled bool) error {
	if err := s.client.SetModelEnabled(ctx, modelID, enabled); err != nil {
		return err
	}
	s.invalidateUserModels()
	return nil
}

func (s *catalogService) SetModelPinned(ctx context.Context, modelID string, pinned bool) error {
	if err := s.client.SetModelPinned(ctx, modelID, pinned); err != nil {
		return err
	}
	s.invalidateUserModels()
	return nil
}
