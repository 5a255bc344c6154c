package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/quiltchat/quilt/internal/logging"
)

// Syncer refreshes every cached entity set in one shot, fanning the fetches
// out concurrently. The reconciler serializes commits per scope, so the
// fan-out is safe.
type Syncer struct {
	conversations ConversationService
	projects      ProjectService
	assistants    AssistantService
	settings      SettingsService
	log           logging.Logger
}

func NewSyncer(conversations ConversationService, projects ProjectService, assistants AssistantService, settings SettingsService, log logging.Logger) *Syncer {
	return &Syncer{
		conversations: conversations,
		projects:      projects,
		assistants:    assistants,
		settings:      settings,
		log:           log.With("service", "syncer"),
	}
}

// SyncAll refreshes conversations, projects, assistants and settings. The
// first hard failure cancels the rest; unreachable-server cases are already
// absorbed by each service's cache fallback.
func (s *Syncer) SyncAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.conversations.List(ctx)
		return err
	})
	g.Go(func() error {
		_, err := s.projects.List(ctx)
		return err
	})
	g.Go(func() error {
		_, err := s.assistants.List(ctx)
		return err
	})
	g.Go(func() error {
		_, err := s.settings.Get(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	s.log.Info(ctx, "full sync complete")
	return nil
}
