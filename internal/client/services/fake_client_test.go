package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quiltchat/quilt/internal/client/api"
	"github.com/quiltchat/quilt/internal/client/models"
	"github.com/quiltchat/quilt/internal/client/session"
	"github.com/quiltchat/quilt/internal/client/store"
	"github.com/quiltchat/quilt/internal/client/sync"
	"github.com/quiltchat/quilt/internal/common"
	"github.com/quiltchat/quilt/internal/logging"

	_ "modernc.org/sqlite"
)

// fakeClient implements api.Client with overridable hooks. Unset hooks
// return empty results.
type fakeClient struct {
	pingFn func(ctx context.Context) error

	listConversationsFn  func(ctx context.Context) ([]*models.Conversation, []error, error)
	getConversationFn    func(ctx context.Context, id string) (*models.Conversation, error)
	createConversationFn func(ctx context.Context, req api.CreateConversationRequest) (*models.Conversation, error)
	updateConversationFn func(ctx context.Context, c *models.Conversation) (*models.Conversation, error)
	deleteConversationFn func(ctx context.Context, id string) error

	listMessagesFn     func(ctx context.Context, conversationID string) ([]*models.Message, []error, error)
	listMessagesPageFn func(ctx context.Context, conversationID string, page, limit int) ([]*models.Message, []error, error)
	sendMessageFn      func(ctx context.Context, req api.SendMessageRequest) (*models.Message, error)
	updateMessageFn    func(ctx context.Context, m *models.Message) (*models.Message, error)
	deleteMessageFn    func(ctx context.Context, id string) error

	listProjectsFn       func(ctx context.Context) ([]*models.Project, []error, error)
	getProjectFn         func(ctx context.Context, id string) (*models.Project, error)
	createProjectFn      func(ctx context.Context, p *models.Project) (*models.Project, error)
	updateProjectFn      func(ctx context.Context, p *models.Project) (*models.Project, error)
	deleteProjectFn      func(ctx context.Context, id string) error
	listProjectMembersFn func(ctx context.Context, projectID string) ([]*models.ProjectMember, []error, error)
	listProjectFilesFn   func(ctx context.Context, projectID string) ([]*models.ProjectFile, []error, error)

	listAssistantsFn  func(ctx context.Context) ([]*models.Assistant, []error, error)
	createAssistantFn func(ctx context.Context, a *models.Assistant) (*models.Assistant, error)
	updateAssistantFn func(ctx context.Context, a *models.Assistant) (*models.Assistant, error)
	deleteAssistantFn func(ctx context.Context, id string) error

	getSettingsFn    func(ctx context.Context) (*models.UserSettings, error)
	updateSettingsFn func(ctx context.Context, s *models.UserSettings) (*models.UserSettings, error)

	listUserModelsFn   func(ctx context.Context) ([]*models.UserModel, []error, error)
	listModelCatalogFn func(ctx context.Context) ([]*models.ModelInfo, []error, error)
	listProvidersFn    func(ctx context.Context) ([]*models.ProviderInfo, []error, error)
	setModelEnabledFn  func(ctx context.Context, modelID string, enabled bool) error
	setModelPinnedFn   func(ctx context.Context, modelID string, pinned bool) error
}

var _ api.Client = (*fakeClient)(nil)

func (f *fakeClient) Ping(ctx context.Context) error {
	if f.pingFn != nil {
		return f.pingFn(ctx)
	}
	return nil
}

func (f *fakeClient) ListConversations(ctx context.Context) ([]*models.Conversation, []error, error) {
	if f.listConversationsFn != nil {
		return f.listConversationsFn(ctx)
	}
	return nil, nil, nil
}

func (f *fakeClient) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	if f.getConversationFn != nil {
		return f.getConversationFn(ctx, id)
	}
	return nil, common.ErrNotFound
}

func (f *fakeClient) CreateConversation(ctx context.Context, req api.CreateConversationRequest) (*models.Conversation, error) {
	if f.createConversationFn != nil {
		return f.createConversationFn(ctx, req)
	}
	return nil, common.ErrNotFound
}

func (f *fakeClient) UpdateConversation(ctx context.Context, c *models.Conversation) (*models.Conversation, error) {
	if f.updateConversationFn != nil {
		return f.updateConversationFn(ctx, c)
	}
	return c, nil
}

func (f *fakeClient) DeleteConversation(ctx context.Context, id string) error {
	if f.deleteConversationFn != nil {
		return f.deleteConversationFn(ctx, id)
	}
	return nil
}

func (f *fakeClient) ListMessages(ctx context.Context, conversationID string) ([]*models.Message, []error, error) {
	if f.listMessagesFn != nil {
		return f.listMessagesFn(ctx, conversationID)
	}
	return nil, nil, nil
}

func (f *fakeClient) ListMessagesPage(ctx context.Context, conversationID string, page, limit int) ([]*models.Message, []error, error) {
	if f.listMessagesPageFn != nil {
		return f.listMessagesPageFn(ctx, conversationID, page, limit)
	}
	return nil, nil, nil
}

func (f *fakeClient) SendMessage(ctx context.Context, req api.SendMessageRequest) (*models.Message, error) {
	if f.sendMessageFn != nil {
		return f.sendMessageFn(ctx, req)
	}
	return nil, common.ErrNotFound
}

func (f *fakeClient) UpdateMessage(ctx context.Context, m *models.Message) (*models.Message, error) {
	if f.updateMessageFn != nil {
		return f.updateMessageFn(ctx, m)
	}
	return m, nil
}

func (f *fakeClient) DeleteMessage(ctx context.Context, id string) error {
	if f.deleteMessageFn != nil {
		return f.deleteMessageFn(ctx, id)
	}
	return nil
}

func (f *fakeClient) ListProjects(ctx context.Context) ([]*models.Project, []error, error) {
	if f.listProjectsFn != nil {
		return f.listProjectsFn(ctx)
	}
	return nil, nil, nil
}

func (f *fakeClient) GetProject(ctx context.Context, id string) (*models.Project, error) {
	if f.getProjectFn != nil {
		return f.getProjectFn(ctx, id)
	}
	return nil, common.ErrNotFound
}

func (f *fakeClient) CreateProject(ctx context.Context, p *models.Project) (*models.Project, error) {
	if f.createProjectFn != nil {
		return f.createProjectFn(ctx, p)
	}
	return p, nil
}

func (f *fakeClient) UpdateProject(ctx context.Context, p *models.Project) (*models.Project, error) {
	if f.updateProjectFn != nil {
		return f.updateProjectFn(ctx, p)
	}
	return p, nil
}

func (f *fakeClient) DeleteProject(ctx context.Context, id string) error {
	if f.deleteProjectFn != nil {
		return f.deleteProjectFn(ctx, id)
	}
	return nil
}

func (f *fakeClient) ListProjectMembers(ctx context.Context, projectID string) ([]*models.ProjectMember, []error, error) {
	if f.listProjectMembersFn != nil {
		return f.listProjectMembersFn(ctx, projectID)
	}
	return nil, nil, nil
}

func (f *fakeClient) ListProjectFiles(ctx context.Context, projectID string) ([]*models.ProjectFile, []error, error) {
	if f.listProjectFilesFn != nil {
		return f.listProjectFilesFn(ctx, projectID)
	}
	return nil, nil, nil
}

func (f *fakeClient) ListAssistants(ctx context.Context) ([]*models.Assistant, []error, error) {
	if f.listAssistantsFn != nil {
		return f.listAssistantsFn(ctx)
	}
	return nil, nil, nil
}

func (f *fakeClient) CreateAssistant(ctx context.Context, a *models.Assistant) (*models.Assistant, error) {
	if f.createAssistantFn != nil {
		return f.createAssistantFn(ctx, a)
	}
	return a, nil
}

func (f *fakeClient) UpdateAssistant(ctx context.Context, a *models.Assistant) (*models.Assistant, error) {
	if f.updateAssistantFn != nil {
		return f.updateAssistantFn(ctx, a)
	}
	return a, nil
}

func (f *fakeClient) DeleteAssistant(ctx context.Context, id string) error {
	if f.deleteAssistantFn != nil {
		return f.deleteAssistantFn(ctx, id)
	}
	return nil
}

func (f *fakeClient) GetSettings(ctx context.Context) (*models.UserSettings, error) {
	if f.getSettingsFn != nil {
		return f.getSettingsFn(ctx)
	}
	return nil, common.ErrNotFound
}

func (f *fakeClient) UpdateSettings(ctx context.Context, s *models.UserSettings) (*models.UserSettings, error) {
	if f.updateSettingsFn != nil {
		return f.updateSettingsFn(ctx, s)
	}
	return s, nil
}

func (f *fakeClient) ListUserModels(ctx context.Context) ([]*models.UserModel, []error, error) {
	if f.listUserModelsFn != nil {
		return f.listUserModelsFn(ctx)
	}
	return nil, nil, nil
}

func (f *fakeClient) ListModelCatalog(ctx context.Context) ([]*models.ModelInfo, []error, error) {
	if f.listModelCatalogFn != nil {
		return f.listModelCatalogFn(ctx)
	}
	return nil, nil, nil
}

func (f *fakeClient) ListProviders(ctx context.Context) ([]*models.ProviderInfo, []error, error) {
	if f.listProvidersFn != nil {
		return f.listProvidersFn(ctx)
	}
	return nil, nil, nil
}

func (f *fakeClient) SetModelEnabled(ctx context.Context, modelID string, enabled bool) error {
	if f.setModelEnabledFn != nil {
		return f.setModelEnabledFn(ctx, modelID, enabled)
	}
	return nil
}

func (f *fakeClient) SetModelPinned(ctx context.Context, modelID string, pinned bool) error {
	if f.setModelPinnedFn != nil {
		return f.setModelPinnedFn(ctx, modelID, pinned)
	}
	return nil
}

// unreachable mimics a server that cannot be reached.
func unreachable(endpoint string) error {
	return &common.RequestError{Endpoint: endpoint, Kind: common.KindUnavailable, Err: context.DeadlineExceeded}
}

type fixture struct {
	client  *fakeClient
	store   *store.Store
	rec     *sync.Reconciler
	pending *sync.PendingTracker
	session *session.Manager
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, store.RunMigrations(context.Background(), db))

	st := store.New(db)
	t.Cleanup(func() { _ = st.Close() })

	log := logging.NewNopLogger()
	sess := session.NewManager(st.Session)
	require.NoError(t, sess.SetUserID(context.Background(), "u1"))

	return &fixture{
		client:  &fakeClient{},
		store:   st,
		rec:     sync.NewReconciler(st, log),
		pending: sync.NewPendingTracker(st, log),
		session: sess,
	}
}
