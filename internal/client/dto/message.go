package dto

import (
	"encoding/json"

	"github.com/quiltchat/quilt/internal/client/models"
)

// DecodeMessage parses a single message payload, including attached images
// and documents.
//
// Wire shape: {id, conversationId, role, content, contentHtml?, modelId?,
// reasoning?, starred?, images?, documents?, createdAt, updatedAt?,
// followUpSuggestions?, clientId?}. Attachments use snake_case storage_id,
// a quirk of the upload service the backend proxies.
func DecodeMessage(data []byte) (*models.Message, error) {
	o, err := parseObject("Message", data)
	if err != nil {
		return nil, err
	}

	m := &models.Message{}
	if m.ID, err = o.reqString("id"); err != nil {
		return nil, err
	}
	if m.ConversationID, err = o.reqString("conversationId"); err != nil {
		return nil, err
	}
	role, err := o.reqString("role")
	if err != nil {
		return nil, err
	}
	if !models.ValidRole(role) {
		return nil, o.violation("role", "unknown role "+role)
	}
	m.Role = models.Role(role)

	if m.Content, err = o.reqString("content"); err != nil {
		return nil, err
	}
	if m.ContentHTML, err = o.optString("contentHtml"); err != nil {
		return nil, err
	}
	if m.ModelID, err = o.optString("modelId"); err != nil {
		return nil, err
	}
	if m.Reasoning, err = o.optString("reasoning"); err != nil {
		return nil, err
	}
	if m.Starred, err = o.boolOr("starred", false); err != nil {
		return nil, err
	}
	if m.CreatedAt, err = o.reqTime("createdAt"); err != nil {
		return nil, err
	}
	if m.UpdatedAt, err = o.optTime("updatedAt"); err != nil {
		return nil, err
	}
	if m.FollowUpSuggestions, err = o.optStringSlice("followUpSuggestions"); err != nil {
		return nil, err
	}
	if m.ClientID, err = o.optString("clientId"); err != nil {
		return nil, err
	}

	images, err := o.rawSlice("images")
	if err != nil {
		return nil, err
	}
	for _, raw := range images {
		img, err := decodeImage(m.ID, raw)
		if err != nil {
			return nil, err
		}
		m.Images = append(m.Images, *img)
	}

	documents, err := o.rawSlice("documents")
	if err != nil {
		return nil, err
	}
	for _, raw := range documents {
		doc, err := decodeDocument(m.ID, raw)
		if err != nil {
			return nil, err
		}
		m.Documents = append(m.Documents, *doc)
	}

	return m, nil
}

// DecodeMessageList parses an array of messages with isolate-and-skip.
func DecodeMessageList(data []byte) ([]*models.Message, []error, error) {
	return decodeList("Message", data, DecodeMessage)
}

func decodeImage(messageID string, data []byte) (*models.Image, error) {
	o, err := parseObject("Image", data)
	if err != nil {
		return nil, err
	}
	img := &models.Image{MessageID: messageID}
	id, err := o.optString("id")
	if err != nil {
		return nil, err
	}
	if img.URL, err = o.reqString("url"); err != nil {
		return nil, err
	}
	if img.StorageID, err = o.reqString("storage_id"); err != nil {
		return nil, err
	}
	if img.FileName, err = o.optString("fileName"); err != nil {
		return nil, err
	}
	// Some payloads omit attachment ids; the storage id is unique per
	// attachment, so it doubles as a stable local key.
	img.ID = img.StorageID
	if id != nil {
		img.ID = *id
	}
	return img, nil
}

func decodeDocument(messageID string, data []byte) (*models.Document, error) {
	o, err := parseObject("Document", data)
	if err != nil {
		return nil, err
	}
	doc := &models.Document{MessageID: messageID}
	id, err := o.optString("id")
	if err != nil {
		return nil, err
	}
	if doc.URL, err = o.reqString("url"); err != nil {
		return nil, err
	}
	if doc.StorageID, err = o.reqString("storage_id"); err != nil {
		return nil, err
	}
	if doc.FileName, err = o.optString("fileName"); err != nil {
		return nil, err
	}
	if doc.FileType, err = o.reqString("fileType"); err != nil {
		return nil, err
	}
	doc.ID = doc.StorageID
	if id != nil {
		doc.ID = *id
	}
	return doc, nil
}

type imageWire struct {
	ID        string  `json:"id"`
	URL       string  `json:"url"`
	StorageID string  `json:"storage_id"`
	FileName  *string `json:"fileName,omitempty"`
}

type documentWire struct {
	ID        string  `json:"id"`
	URL       string  `json:"url"`
	StorageID string  `json:"storage_id"`
	FileName  *string `json:"fileName,omitempty"`
	FileType  string  `json:"fileType"`
}

type messageWire struct {
	ID                  string         `json:"id"`
	ConversationID      string         `json:"conversationId"`
	Role                string         `json:"role"`
	Content             string         `json:"content"`
	ContentHTML         *string        `json:"contentHtml,omitempty"`
	ModelID             *string        `json:"modelId,omitempty"`
	Reasoning           *string        `json:"reasoning,omitempty"`
	Starred             bool           `json:"starred"`
	Images              []imageWire    `json:"images,omitempty"`
	Documents           []documentWire `json:"documents,omitempty"`
	CreatedAt           string         `json:"createdAt"`
	UpdatedAt           *string        `json:"updatedAt,omitempty"`
	FollowUpSuggestions []string       `json:"followUpSuggestions,omitempty"`
	ClientID            *string        `json:"clientId,omitempty"`
}

// EncodeMessage renders m in the wire shape.
func EncodeMessage(m *models.Message) ([]byte, error) {
	w := messageWire{
		ID:                  m.ID,
		ConversationID:      m.ConversationID,
		Role:                string(m.Role),
		Content:             m.Content,
		ContentHTML:         m.ContentHTML,
		ModelID:             m.ModelID,
		Reasoning:           m.Reasoning,
		Starred:             m.Starred,
		CreatedAt:           FormatTimestamp(m.CreatedAt),
		FollowUpSuggestions: m.FollowUpSuggestions,
		ClientID:            m.ClientID,
	}
	if m.UpdatedAt != nil {
		s := FormatTimestamp(*m.UpdatedAt)
		w.UpdatedAt = &s
	}
	for _, img := range m.Images {
		w.Images = append(w.Images, imageWire{ID: img.ID, URL: img.URL, StorageID: img.StorageID, FileName: img.FileName})
	}
	for _, doc := range m.Documents {
		w.Documents = append(w.Documents, documentWire{ID: doc.ID, URL: doc.URL, StorageID: doc.StorageID, FileName: doc.FileName, FileType: doc.FileType})
	}
	return json.Marshal(w)
}
