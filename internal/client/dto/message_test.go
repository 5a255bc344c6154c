package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiltchat/quilt/internal/client/models"
	"github.com/quiltchat/quilt/internal/common"
)

func TestDecodeMessage_WithAttachments(t *testing.T) {
	raw := []byte(`{
		"id": "m1",
		"conversationId": "c1",
		"role": "assistant",
		"content": "Here you go.",
		"contentHtml": "<p>Here you go.</p>",
		"modelId": "claude-sonnet",
		"reasoning": "the user asked for a chart",
		"starred": true,
		"images": [{"id": "i1", "url": "https://cdn.example.com/i1.png", "storage_id": "st-i1", "fileName": "chart.png"}],
		"documents": [{"id": "d1", "url": "https://cdn.example.com/d1.pdf", "storage_id": "st-d1", "fileType": "pdf"}],
		"createdAt": "2025-05-05T05:05:05.050000Z",
		"updatedAt": "2025-05-05T05:06:00.000001Z",
		"followUpSuggestions": ["zoom in", "export as csv"]
	}`)

	m, err := DecodeMessage(raw)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAssistant, m.Role)
	require.Len(t, m.Images, 1)
	assert.Equal(t, "i1", m.Images[0].ID)
	assert.Equal(t, "m1", m.Images[0].MessageID, "attachments backfill their owner id")
	assert.Equal(t, "st-i1", m.Images[0].StorageID)
	require.NotNil(t, m.Images[0].FileName)
	require.Len(t, m.Documents, 1)
	assert.Equal(t, "pdf", m.Documents[0].FileType)
	assert.Nil(t, m.Documents[0].FileName)
	require.NotNil(t, m.UpdatedAt)
	assert.Equal(t, []string{"zoom in", "export as csv"}, m.FollowUpSuggestions)
}

func TestDecodeMessage_AttachmentWithoutID(t *testing.T) {
	raw := []byte(`{
		"id": "m1",
		"conversationId": "c1",
		"role": "assistant",
		"content": "done",
		"images": [{"url": "https://cdn.example.com/a.png", "storage_id": "st-a"}],
		"documents": [{"url": "https://cdn.example.com/b.pdf", "storage_id": "st-b", "fileType": "pdf"}],
		"createdAt": "2025-05-05T05:05:05.050000Z"
	}`)

	m, err := DecodeMessage(raw)
	require.NoError(t, err)
	require.Len(t, m.Images, 1)
	assert.Equal(t, "st-a", m.Images[0].ID, "storage id stands in for a missing attachment id")
	require.Len(t, m.Documents, 1)
	assert.Equal(t, "st-b", m.Documents[0].ID)
}

func TestDecodeMessage_MinimalUserTurn(t *testing.T) {
	raw := []byte(`{
		"id": "m2",
		"conversationId": "c1",
		"role": "user",
		"content": "hello",
		"createdAt": "2025-05-05T05:05:05.000001Z"
	}`)

	m, err := DecodeMessage(raw)
	require.NoError(t, err)
	assert.False(t, m.Starred)
	assert.Nil(t, m.UpdatedAt)
	assert.Empty(t, m.Images)
	assert.Empty(t, m.Documents)
}

func TestDecodeMessage_UnknownRole(t *testing.T) {
	raw := []byte(`{
		"id": "m3", "conversationId": "c1", "role": "robot", "content": "x",
		"createdAt": "2025-05-05T05:05:05.000001Z"
	}`)
	_, err := DecodeMessage(raw)
	var sv *common.SchemaViolationError
	require.ErrorAs(t, err, &sv)
	assert.Equal(t, "role", sv.Field)
}

func TestDecodeMessage_MalformedTimestampNamesField(t *testing.T) {
	raw := []byte(`{
		"id": "m4", "conversationId": "c1", "role": "user", "content": "x",
		"createdAt": "not-a-date"
	}`)
	_, err := DecodeMessage(raw)
	var mts *common.MalformedTimestampError
	require.ErrorAs(t, err, &mts)
	assert.Equal(t, "createdAt", mts.Field)
}

func TestDecodeMessage_ClientIDEcho(t *testing.T) {
	raw := []byte(`{
		"id": "m5", "conversationId": "c1", "role": "user", "content": "x",
		"createdAt": "2025-05-05T05:05:05.000001Z",
		"clientId": "corr-42"
	}`)
	m, err := DecodeMessage(raw)
	require.NoError(t, err)
	require.NotNil(t, m.ClientID)
	assert.Equal(t, "corr-42", *m.ClientID)
}

func TestEncodeMessage_RoundTrip(t *testing.T) {
	raw := []byte(`{
		"id": "m6",
		"conversationId": "c2",
		"role": "assistant",
		"content": "done",
		"starred": false,
		"images": [{"id": "i9", "url": "u", "storage_id": "s9", "fileName": "f.png"}],
		"createdAt": "2025-05-05T05:05:05.000001Z"
	}`)

	m1, err := DecodeMessage(raw)
	require.NoError(t, err)
	encoded, err := EncodeMessage(m1)
	require.NoError(t, err)
	m2, err := DecodeMessage(encoded)
	require.NoError(t, err)
	assert.Equal(t, m1, m2)
}
