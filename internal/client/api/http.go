package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/quiltchat/quilt/internal/client/dto"
	"github.com/quiltchat/quilt/internal/client/models"
	"github.com/quiltchat/quilt/internal/common"
)

// TokenSource supplies the bearer token for outgoing requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource holding a fixed token, used in tests and for
// token-file setups.
type StaticToken string

func (s StaticToken) Token(context.Context) (string, error) { return string(s), nil }

// HTTPClient implements Client over plain HTTP+JSON.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenSource) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

// do runs one request and returns the response body. Failures come back as
// *common.RequestError classified for retry decisions; the client itself
// never retries.
func (c *HTTPClient) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &common.RequestError{Endpoint: path, Kind: common.KindRemote, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransport(path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &common.RequestError{Endpoint: path, Kind: common.KindUnavailable, Err: err}
	}
	if resp.StatusCode >= 400 {
		return nil, &common.RequestError{
			Endpoint: path,
			Status:   resp.StatusCode,
			Kind:     classifyStatus(resp.StatusCode),
			Err:      fmt.Errorf("server returned %s", resp.Status),
		}
	}
	return data, nil
}

func classifyStatus(status int) common.RequestKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return common.KindUnauthorized
	case status == http.StatusNotFound:
		return common.KindNotFound
	case status == http.StatusRequestTimeout || status == http.StatusTooManyRequests || status >= 500:
		return common.KindThrottled
	}
	return common.KindRemote
}

func classifyTransport(path string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	kind := common.KindUnavailable
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = common.KindTimeout
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	return &common.RequestError{Endpoint: path, Kind: kind, Err: err}
}

func decodeFailure(path string, err error) error {
	return &common.RequestError{Endpoint: path, Kind: common.KindRemote, Err: err}
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/api/v1/health", nil)
	return err
}

func (c *HTTPClient) ListConversations(ctx context.Context) ([]*models.Conversation, []error, error) {
	const path = "/api/v1/conversations"
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, nil, err
	}
	list, skipped, err := dto.DecodeConversationList(data)
	if err != nil {
		return nil, nil, decodeFailure(path, err)
	}
	return list, skipped, nil
}

func (c *HTTPClient) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	path := "/api/v1/conversations/" + url.PathEscape(id)
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	conv, err := dto.DecodeConversation(data)
	if err != nil {
		return nil, decodeFailure(path, err)
	}
	return conv, nil
}

func (c *HTTPClient) CreateConversation(ctx context.Context, req CreateConversationRequest) (*models.Conversation, error) {
	const path = "/api/v1/conversations"
	body, err := json.Marshal(map[string]any{
		"title":     req.Title,
		"projectId": req.ProjectID,
	})
	if err != nil {
		return nil, decodeFailure(path, err)
	}
	data, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}
	conv, err := dto.DecodeConversation(data)
	if err != nil {
		return nil, decodeFailure(path, err)
	}
	return conv, nil
}

func (c *HTTPClient) UpdateConversation(ctx context.Context, conv *models.Conversation) (*models.Conversation, error) {
	path := "/api/v1/conversations/" + url.PathEscape(conv.ID)
	body, err := dto.EncodeConversation(conv)
	if err != nil {
		return nil, decodeFailure(path, err)
	}
	data, err := c.do(ctx, http.MethodPatch, path, body)
	if err != nil {
		return nil, err
	}
	updated, err := dto.DecodeConversation(data)
	if err != nil {
		return nil, decodeFailure(path, err)
	}
	return updated, nil
}

func (c *HTTPClient) DeleteConversation(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/v1/conversations/"+url.PathEscape(id), nil)
	return err
}

func (c *HTTPClient) ListMessages(ctx context.Context, conversationID string) ([]*models.Message, []error, error) {
	path := "/api/v1/conversations/" + url.PathEscape(conversationID) + "/messages"
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, nil, err
	}
	list, skipped, err := dto.DecodeMessageList(data)
	if err != nil {
		return nil, nil, decodeFailure(path, err)
	}
	return list, skipped, nil
}

func (c *HTTPClient) ListMessagesPage(ctx context.Context, conversationID string, page, limit int) ([]*models.Message, []error, error) {
	path := fmt.Sprintf("/api/v1/conversations/%s/messages?page=%d&limit=%d",
		url.PathEscape(conversationID), page, limit)
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, nil, err
	}
	list, skipped, err := dto.DecodeMessageList(data)
	if err != nil {
		return nil, nil, decodeFailure(path, err)
	}
	return list, skipped, nil
}

func (c *HTTPClient) SendMessage(ctx context.Context, req SendMessageRequest) (*models.Message, error) {
	path := "/api/v1/conversations/" + url.PathEscape(req.ConversationID) + "/messages"
	body, err := json.Marshal(map[string]any{
		"content":     req.Content,
		"clientId":    req.ClientID,
		"modelId":     req.ModelID,
		"assistantId": req.AssistantID,
	})
	if err != nil {
		return nil, decodeFailure(path, err)
	}
	data, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}
	msg, err := dto.DecodeMessage(data)
	if err != nil {
		return nil, decodeFailure(path, err)
	}
	return msg, nil
}

func (c *HTTPClient) UpdateMessage(ctx context.Context, m *models.Message) (*models.Message, error) {
	path := "/api/v1/messages/" + url.PathEscape(m.ID)
	body, err := dto.EncodeMessage(m)
	if err != nil {
		return nil, decodeFailure(path, err)
	}
	data, err := c.do(ctx, http.MethodPatch, path, body)
	if err != nil {
		return nil, err
	}
	updated, err := dto.DecodeMessage(data)
	if err != nil {
		return nil, decodeFailure(path, err)
	}
	return updated, nil
}

func (c *HTTPClient) DeleteMessage(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/v1/messages/"+url.PathEscape(id), nil)
	return err
}

func (c *HTTPClient) ListProjects(ctx context.Context) ([]*models.Project, []error, error) {
	const path = "/api/v1/projects"
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, nil, err
	}
	list, skipped, err := dto.DecodeProjectList(data)
	if err != nil {
		return nil, nil, decodeFailure(path, err)
	}
	return list, skipped, nil
}

func (c *HTTPClient) GetProject(ctx context.Context, id string) (*models.Project, error) {
	path := "/api/v1/projects/" + url.PathEscape(id)
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	p, err := dto.DecodeProject(data)
	if err != nil {
		return nil, decodeFailure(path, err)
	}
	return p, nil
}

func (c *HTTPClient) CreateProject(ctx context.Context, p *models.Project) (*models.Project, error) {
	const path = "/api/v1/projects"
	return c.writeProject(ctx, http.MethodPost, path, p)
}

func (c *HTTPClient) UpdateProject(ctx context.Context, p *models.Project) (*models.Project, error) {
	path := "/api/v1/projects/" + url.PathEscape(p.ID)
	return c.writeProject(ctx, http.MethodPatch, path, p)
}

func (c *HTTPClient) writeProject(ctx context.Context, method, path string, p *models.Project) (*models.Project, error) {
	body, err := dto.EncodeProject(p)
	if err != nil {
		return nil, decodeFailure(path, err)
	}
	data, err := c.do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	updated, err := dto.DecodeProject(data)
	if err != nil {
		return nil, decodeFailure(path, err)
	}
	return updated, nil
}

func (c *HTTPClient) DeleteProject(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/v1/projects/"+url.PathEscape(id), nil)
	return err
}

func (c *HTTPClient) ListProjectMembers(ctx context.Context, projectID string) ([]*models.ProjectMember, []error, error) {
	path := "/api/v1/projects/" + url.PathEscape(projectID) + "/members"
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, nil, err
	}
	list, skipped, err := dto.DecodeProjectMemberList(data)
	if err != nil {
		return nil, nil, decodeFailure(path, err)
	}
	return list, skipped, nil
}

func (c *HTTPClient) ListProjectFiles(ctx context.Context, projectID string) ([]*models.ProjectFile, []error, error) {
	path := "/api/v1/projects/" + url.PathEscape(projectID) + "/files"
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, nil, err
	}
	list, skipped, err := dto.DecodeProjectFileList(data)
	if err != nil {
		return nil, nil, decodeFailure(path, err)
	}
	return list, skipped, nil
}

func (c *HTTPClient) ListAssistants(ctx context.Context) ([]*models.Assistant, []error, error) {
	const path = "/api/v1/assistants"
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, nil, err
	}
	list, skipped, err := dto.DecodeAssistantList(data)
	if err != nil {
		return nil, nil, decodeFailure(path, err)
	}
	return list, skipped, nil
}

func (c *HTTPClient) CreateAssistant(ctx context.Context, a *models.Assistant) (*models.Assistant, error) {
	return c.writeAssistant(ctx, http.MethodPost, "/api/v1/assistants", a)
}

func (c *HTTPClient) UpdateAssistant(ctx context.Context, a *models.Assistant) (*models.Assistant, error) {
	return c.writeAssistant(ctx, http.MethodPatch, "/api/v1/assistants/"+url.PathEscape(a.ID), a)
}

func (c *HTTPClient) writeAssistant(ctx context.Context, method, path string, a *models.Assistant) (*models.Assistant, error) {
	body, err := dto.EncodeAssistant(a)
	if err != nil {
		return nil, decodeFailure(path, err)
	}
	data, err := c.do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	updated, err := dto.DecodeAssistant(data)
	if err != nil {
		return nil, decodeFailure(path, err)
	}
	return updated, nil
}

func (c *HTTPClient) DeleteAssistant(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/v1/assistants/"+url.PathEscape(id), nil)
	return err
}

func (c *HTTPClient) GetSettings(ctx context.Context) (*models.UserSettings, error) {
	const path = "/api/v1/settings"
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	s, err := dto.DecodeUserSettings(data)
	if err != nil {
		return nil, decodeFailure(path, err)
	}
	return s, nil
}

func (c *HTTPClient) UpdateSettings(ctx context.Context, s *models.UserSettings) (*models.UserSettings, error) {
	const path = "/api/v1/settings"
	body, err := dto.EncodeUserSettings(s)
	if err != nil {
		return nil, decodeFailure(path, err)
	}
	data, err := c.do(ctx, http.MethodPut, path, body)
	if err != nil {
		return nil, err
	}
	updated, err := dto.DecodeUserSettings(data)
	if err != nil {
		return nil, decodeFailure(path, err)
	}
	return updated, nil
}

func (c *HTTPClient) ListUserModels(ctx context.Context) ([]*models.UserModel, []error, error) {
	const path = "/api/v1/models"
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, nil, err
	}
	list, skipped, err := dto.DecodeUserModelList(data)
	if err != nil {
		return nil, nil, decodeFailure(path, err)
	}
	return list, skipped, nil
}

func (c *HTTPClient) ListModelCatalog(ctx context.Context) ([]*models.ModelInfo, []error, error) {
	const path = "/api/v1/models/catalog"
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, nil, err
	}
	list, skipped, err := dto.DecodeModelInfoList(data)
	if err != nil {
		return nil, nil, decodeFailure(path, err)
	}
	return list, skipped, nil
}

func (c *HTTPClient) ListProviders(ctx context.Context) ([]*models.ProviderInfo, []error, error) {
	const path = "/api/v1/models/providers"
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, nil, err
	}
	list, skipped, err := dto.DecodeProviderInfoList(data)
	if err != nil {
		return nil, nil, decodeFailure(path, err)
	}
	return list, skipped, nil
}

func (c *HTTPClient) SetModelEnabled(ctx context.Context, modelID string, enabled bool) error {
	path := "/api/v1/models/" + url.PathEscape(modelID) + "/enabled"
	body, _ := json.Marshal(map[string]bool{"enabled": enabled})
	_, err := c.do(ctx, http.MethodPost, path, body)
	return err
}

func (c *HTTPClient) SetModelPinned(ctx context.Context, modelID string, pinned bool) error {
	path := "/api/v1/models/" + url.PathEscape(modelID) + "/pinned"
	body, _ := json.Marshal(map[string]bool{"pinned": pinned})
	_, err := c.do(ctx, http.MethodPost, path, body)
	return err
}

var _ Client = (*HTTPClient)(nil)
