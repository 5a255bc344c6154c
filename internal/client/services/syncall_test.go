package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiltchat/quilt/internal/client/models"
	"github.com/quiltchat/quilt/internal/common"
	"github.com/quiltchat/quilt/internal/logging"
)

func newSyncer(f *fixture) *Syncer {
	log := logging.NewNopLogger()
	return NewSyncer(
		NewConversationService(f.client, f.store, f.rec, f.session, log),
		NewProjectService(f.client, f.store, f.rec, log),
		NewAssistantService(f.client, f.store, f.rec, log),
		NewSettingsService(f.client, f.store, f.rec, f.session, log),
		log,
	)
}

func TestSyncAll_RefreshesEverySet(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.client.listConversationsFn = func(context.Context) ([]*models.Conversation, []error, error) {
		return []*models.Conversation{conv("c1", "u1")}, nil, nil
	}
	f.client.listProjectsFn = func(context.Context) ([]*models.Project, []error, error) {
		return []*models.Project{proj("p1")}, nil, nil
	}
	f.client.listAssistantsFn = func(context.Context) ([]*models.Assistant, []error, error) {
		return nil, nil, nil
	}
	f.client.getSettingsFn = func(context.Context) (*models.UserSettings, error) {
		return sampleSettings(), nil
	}

	require.NoError(t, newSyncer(f).SyncAll(ctx))

	ids, err := f.store.Conversations.IDsByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, ids)
	projects, err := f.store.Projects.IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, projects)
	_, err = f.store.Settings.GetByUser(ctx, "u1")
	require.NoError(t, err)
}

func TestSyncAll_OfflineBackendStillSucceeds(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.store.Settings.Upsert(ctx, sampleSettings()))
	offline := func() error { return unreachable("backend") }
	f.client.listConversationsFn = func(context.Context) ([]*models.Conversation, []error, error) {
		return nil, nil, offline()
	}
	f.client.listProjectsFn = func(context.Context) ([]*models.Project, []error, error) {
		return nil, nil, offline()
	}
	f.client.listAssistantsFn = func(context.Context) ([]*models.Assistant, []error, error) {
		return nil, nil, offline()
	}
	f.client.getSettingsFn = func(context.Context) (*models.UserSettings, error) {
		return nil, offline()
	}

	require.NoError(t, newSyncer(f).SyncAll(ctx))
}

func TestSyncAll_HardFailurePropagates(t *testing.T) {
	f := setup(t)

	f.client.listConversationsFn = func(context.Context) ([]*models.Conversation, []error, error) {
		return nil, nil, &common.RequestError{Endpoint: "x", Status: 401, Kind: common.KindUnauthorized}
	}

	err := newSyncer(f).SyncAll(context.Background())
	require.ErrorIs(t, err, common.ErrUnauthorized)
}
