package dto

import (
	"encoding/json"

	"github.com/quiltchat/quilt/internal/client/models"
)

// DecodeAssistant parses a single assistant payload.
//
// Wire shape: {id, name, description?, systemPrompt, isDefault,
// defaultModelId?, defaultWebSearchMode?, createdAt, updatedAt}.
func DecodeAssistant(data []byte) (*models.Assistant, error) {
	o, err := parseObject("Assistant", data)
	if err != nil {
		return nil, err
	}

	a := &models.Assistant{}
	if a.ID, err = o.reqString("id"); err != nil {
		return nil, err
	}
	if a.Name, err = o.reqString("name"); err != nil {
		return nil, err
	}
	if a.Description, err = o.optString("description"); err != nil {
		return nil, err
	}
	if a.SystemPrompt, err = o.reqString("systemPrompt"); err != nil {
		return nil, err
	}
	if a.IsDefault, err = o.boolOr("isDefault", false); err != nil {
		return nil, err
	}
	if a.DefaultModelID, err = o.optString("defaultModelId"); err != nil {
		return nil, err
	}
	if a.DefaultWebSearchMode, err = o.optString("defaultWebSearchMode"); err != nil {
		return nil, err
	}
	if a.CreatedAt, err = o.reqTime("createdAt"); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = o.reqTime("updatedAt"); err != nil {
		return nil, err
	}
	return a, nil
}

// DecodeAssistantList parses an array of assistants with isolate-and-skip.
func DecodeAssistantList(data []byte) ([]*models.Assistant, []error, error) {
	return decodeList("Assistant", data, DecodeAssistant)
}

type assistantWire struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	Description          *string `json:"description,omitempty"`
	SystemPrompt         string  `json:"systemPrompt"`
	IsDefault            bool    `json:"isDefault"`
	DefaultModelID       *string `json:"defaultModelId,omitempty"`
	DefaultWebSearchMode *string `json:"defaultWebSearchMode,omitempty"`
	CreatedAt            string  `json:"createdAt"`
	UpdatedAt            string  `json:"updatedAt"`
}

// EncodeAssistant renders a in the wire shape.
func EncodeAssistant(a *models.Assistant) ([]byte, error) {
	return json.Marshal(assistantWire{
		ID:                   a.ID,
		Name:                 a.Name,
		Description:          a.Description,
		SystemPrompt:         a.SystemPrompt,
		IsDefault:            a.IsDefault,
		DefaultModelID:       a.DefaultModelID,
		DefaultWebSearchMode: a.DefaultWebSearchMode,
		CreatedAt:            FormatTimestamp(a.CreatedAt),
		UpdatedAt:            FormatTimestamp(a.UpdatedAt),
	})
}
