package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiltchat/quilt/internal/common"
)

func TestDecodeConversation_Full(t *testing.T) {
	raw := []byte(`{
		"id": "c1",
		"title": "Trip planning",
		"userId": "u1",
		"projectId": "p1",
		"pinned": true,
		"generating": false,
		"costUsd": 0.0132,
		"createdAt": "2025-03-01T10:20:30.123456Z",
		"updatedAt": "2025-03-02T11:00:00.500000Z",
		"isPublic": true
	}`)

	c, err := DecodeConversation(raw)
	require.NoError(t, err)
	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, "Trip planning", c.Title)
	assert.Equal(t, "u1", c.UserID)
	require.NotNil(t, c.ProjectID)
	assert.Equal(t, "p1", *c.ProjectID)
	assert.True(t, c.Pinned)
	assert.False(t, c.Generating)
	require.NotNil(t, c.CostUSD)
	assert.InDelta(t, 0.0132, *c.CostUSD, 1e-9)
	assert.True(t, c.IsPublic)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 20, 30, 123456000, time.UTC), c.CreatedAt)
}

func TestDecodeConversation_Defaults(t *testing.T) {
	raw := []byte(`{
		"id": "c2",
		"title": "Untitled",
		"userId": "u1",
		"pinned": false,
		"generating": false,
		"createdAt": "2025-03-01T10:20:30.000001Z",
		"updatedAt": "2025-03-01T10:20:30.000001Z"
	}`)

	c, err := DecodeConversation(raw)
	require.NoError(t, err)
	assert.Nil(t, c.ProjectID)
	assert.Nil(t, c.CostUSD)
	assert.False(t, c.IsPublic, "isPublic defaults to false when absent")
}

func TestDecodeConversation_RoundTrip(t *testing.T) {
	raw := []byte(`{
		"id": "c3",
		"title": "Round trip",
		"userId": "u9",
		"pinned": true,
		"generating": true,
		"costUsd": 1.25,
		"createdAt": "2025-06-15T08:00:00.250000Z",
		"updatedAt": "2025-06-15T09:30:00.750000Z",
		"isPublic": false
	}`)

	c1, err := DecodeConversation(raw)
	require.NoError(t, err)

	encoded, err := EncodeConversation(c1)
	require.NoError(t, err)

	c2, err := DecodeConversation(encoded)
	require.NoError(t, err)
	assert.Equal(t, c1, c2)
}

func TestDecodeConversation_MalformedTimestamp(t *testing.T) {
	raw := []byte(`{
		"id": "c4",
		"title": "Bad clock",
		"userId": "u1",
		"pinned": false,
		"generating": false,
		"createdAt": "not-a-date",
		"updatedAt": "2025-03-01T10:20:30.000001Z"
	}`)

	_, err := DecodeConversation(raw)
	var mts *common.MalformedTimestampError
	require.ErrorAs(t, err, &mts)
	assert.Equal(t, "Conversation", mts.Entity)
	assert.Equal(t, "createdAt", mts.Field)
	assert.Equal(t, "not-a-date", mts.Value)
}

func TestDecodeConversation_TypeMismatchIsSchemaViolation(t *testing.T) {
	// pinned present with the wrong type must fail, not default
	raw := []byte(`{
		"id": "c5",
		"title": "x",
		"userId": "u1",
		"pinned": "yes",
		"generating": false,
		"createdAt": "2025-03-01T10:20:30.000001Z",
		"updatedAt": "2025-03-01T10:20:30.000001Z"
	}`)

	_, err := DecodeConversation(raw)
	var sv *common.SchemaViolationError
	require.ErrorAs(t, err, &sv)
	assert.Equal(t, "Conversation", sv.Entity)
	assert.Equal(t, "pinned", sv.Field)
}

func TestDecodeConversationList_IsolatesBadElements(t *testing.T) {
	raw := []byte(`[
		{"id":"a","title":"ok","userId":"u1","pinned":false,"generating":false,
		 "createdAt":"2025-01-01T00:00:00.000000Z","updatedAt":"2025-01-01T00:00:00.000000Z"},
		{"id":"b","title":"broken","userId":"u1","pinned":false,"generating":false,
		 "createdAt":"garbage","updatedAt":"2025-01-01T00:00:00.000000Z"},
		{"id":"c","title":"ok too","userId":"u1","pinned":false,"generating":false,
		 "createdAt":"2025-01-01T00:00:00.000000Z","updatedAt":"2025-01-01T00:00:00.000000Z"}
	]`)

	list, itemErrs, err := DecodeConversationList(raw)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "c", list[1].ID)
	require.Len(t, itemErrs, 1)
	var mts *common.MalformedTimestampError
	assert.ErrorAs(t, itemErrs[0], &mts)
}

func TestDecodeConversationList_NotAnArray(t *testing.T) {
	_, _, err := DecodeConversationList([]byte(`{"id":"a"}`))
	var sv *common.SchemaViolationError
	require.ErrorAs(t, err, &sv)
}
