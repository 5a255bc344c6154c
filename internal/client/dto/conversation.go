package dto

import (
	"encoding/json"

	"github.com/quiltchat/quilt/internal/client/models"
)

// DecodeConversation parses a single conversation payload.
//
// Wire shape: {id, title, userId, projectId?, pinned, generating, costUsd?,
// createdAt, updatedAt, isPublic?}.
func DecodeConversation(data []byte) (*models.Conversation, error) {
	o, err := parseObject("Conversation", data)
	if err != nil {
		return nil, err
	}

	c := &models.Conversation{}
	if c.ID, err = o.reqString("id"); err != nil {
		return nil, err
	}
	if c.Title, err = o.reqString("title"); err != nil {
		return nil, err
	}
	if c.UserID, err = o.reqString("userId"); err != nil {
		return nil, err
	}
	if c.ProjectID, err = o.optString("projectId"); err != nil {
		return nil, err
	}
	if c.Pinned, err = o.boolOr("pinned", false); err != nil {
		return nil, err
	}
	if c.Generating, err = o.boolOr("generating", false); err != nil {
		return nil, err
	}
	if c.CostUSD, err = o.optFloat("costUsd"); err != nil {
		return nil, err
	}
	if c.IsPublic, err = o.boolOr("isPublic", false); err != nil {
		return nil, err
	}
	if c.CreatedAt, err = o.reqTime("createdAt"); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = o.reqTime("updatedAt"); err != nil {
		return nil, err
	}
	return c, nil
}

// DecodeConversationList parses an array of conversations, isolating bad
// elements (one error per skipped element).
func DecodeConversationList(data []byte) ([]*models.Conversation, []error, error) {
	return decodeList("Conversation", data, DecodeConversation)
}

type conversationWire struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	UserID     string   `json:"userId"`
	ProjectID  *string  `json:"projectId,omitempty"`
	Pinned     bool     `json:"pinned"`
	Generating bool     `json:"generating"`
	CostUSD    *float64 `json:"costUsd,omitempty"`
	CreatedAt  string   `json:"createdAt"`
	UpdatedAt  string   `json:"updatedAt"`
	IsPublic   bool     `json:"isPublic"`
}

// EncodeConversation renders c in the wire shape.
func EncodeConversation(c *models.Conversation) ([]byte, error) {
	return json.Marshal(conversationWire{
		ID:         c.ID,
		Title:      c.Title,
		UserID:     c.UserID,
		ProjectID:  c.ProjectID,
		Pinned:     c.Pinned,
		Generating: c.Generating,
		CostUSD:    c.CostUSD,
		CreatedAt:  FormatTimestamp(c.CreatedAt),
		UpdatedAt:  FormatTimestamp(c.UpdatedAt),
		IsPublic:   c.IsPublic,
	})
}
