// Package api talks HTTP+JSON to the Quilt backend. It owns endpoint paths,
// auth headers and failure classification; response payloads are decoded by
// the dto package.
package api

import (
	"context"

	"github.com/quiltchat/quilt/internal/client/models"
)

// SendMessageRequest is a user turn submitted to a conversation. ClientID is
// the locally generated correlation id; the server echoes it back on the
// created message.
type SendMessageRequest struct {
	ConversationID string
	Content        string
	ClientID       string
	ModelID        *string
	AssistantID    *string
}

// CreateConversationRequest names the fields the server accepts on create;
// everything else is server-assigned.
type CreateConversationRequest struct {
	Title     string
	ProjectID *string
}

// List calls return partial-decode errors separately: elements that failed to
// decode are skipped and reported without failing the whole call.
type Client interface {
	Ping(ctx context.Context) error

	ListConversations(ctx context.Context) ([]*models.Conversation, []error, error)
	GetConversation(ctx context.Context, id string) (*models.Conversation, error)
	CreateConversation(ctx context.Context, req CreateConversationRequest) (*models.Conversation, error)
	UpdateConversation(ctx context.Context, c *models.Conversation) (*models.Conversation, error)
	DeleteConversation(ctx context.Context, id string) error

	ListMessages(ctx context.Context, conversationID string) ([]*models.Message, []error, error)
	// ListMessagesPage fetches one page (1-based) of a conversation's
	// messages, oldest first.
	ListMessagesPage(ctx context.Context, conversationID string, page, limit int) ([]*models.Message, []error, error)
	SendMessage(ctx context.Context, req SendMessageRequest) (*models.Message, error)
	UpdateMessage(ctx context.Context, m *models.Message) (*models.Message, error)
	DeleteMessage(ctx context.Context, id string) error

	ListProjects(ctx context.Context) ([]*models.Project, []error, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
	CreateProject(ctx context.Context, p *models.Project) (*models.Project, error)
	UpdateProject(ctx context.Context, p *models.Project) (*models.Project, error)
	DeleteProject(ctx context.Context, id string) error
	ListProjectMembers(ctx context.Context, projectID string) ([]*models.ProjectMember, []error, error)
	ListProjectFiles(ctx context.Context, projectID string) ([]*models.ProjectFile, []error, error)

	ListAssistants(ctx context.Context) ([]*models.Assistant, []error, error)
	CreateAssistant(ctx context.Context, a *models.Assistant) (*models.Assistant, error)
	UpdateAssistant(ctx context.Context, a *models.Assistant) (*models.Assistant, error)
	DeleteAssistant(ctx context.Context, id string) error

	GetSettings(ctx context.Context) (*models.UserSettings, error)
	UpdateSettings(ctx context.Context, s *models.UserSettings) (*models.UserSettings, error)

	ListUserModels(ctx context.Context) ([]*models.UserModel, []error, error)
	ListModelCatalog(ctx context.Context) ([]*models.ModelInfo, []error, error)
	ListProviders(ctx context.Context) ([]*models.ProviderInfo, []error, error)
	SetModelEnabled(ctx context.Context, modelID string, enabled bool) error
	SetModelPinned(ctx context.Context, modelID string, pinned bool) error
}
