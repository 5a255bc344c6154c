package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestError_Unwrap(t *testing.T) {
	nf := &RequestError{Endpoint: "/api/conversations/c1", Status: 404, Kind: KindNotFound, Err: errors.New("no such conversation")}
	assert.ErrorIs(t, nf, ErrNotFound)

	ua := &RequestError{Endpoint: "/api/settings", Status: 401, Kind: KindUnauthorized, Err: errors.New("missing token")}
	assert.ErrorIs(t, ua, ErrUnauthorized)
}

func TestRequestError_Retryable(t *testing.T) {
	tests := []struct {
		name string
		kind RequestKind
		want bool
	}{
		{"timeout", KindTimeout, true},
		{"unavailable", KindUnavailable, true},
		{"throttled", KindThrottled, true},
		{"remote", KindRemote, false},
		{"not found", KindNotFound, false},
		{"unauthorized", KindUnauthorized, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &RequestError{Kind: tt.kind}
			assert.Equal(t, tt.want, e.Retryable())
		})
	}
}

func TestDecodeErrors_NameTheField(t *testing.T) {
	sv := &SchemaViolationError{Entity: "Conversation", Field: "pinned", Detail: "expected bool"}
	assert.Contains(t, sv.Error(), "Conversation.pinned")

	mt := &MalformedTimestampError{Entity: "Message", Field: "createdAt", Value: "not-a-date"}
	assert.Contains(t, mt.Error(), "Message.createdAt")
	assert.Contains(t, mt.Error(), "not-a-date")
}
