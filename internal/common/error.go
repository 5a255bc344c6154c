// Package common defines shared sentinel and typed errors used across the
// Quilt client layers. Callers should use errors.Is / errors.As to match
// these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")
	ErrStoreIO  = errors.New("store i/o error")

	// Transport-level errors.
	ErrUnauthorized = errors.New("unauthorized")

	// Session errors.
	ErrTokenExpired = errors.New("token expired")
)

// SchemaViolationError reports a present field with the wrong JSON type, or a
// required field that is missing entirely. It is fatal to the decode of that
// entity and is never retried.
type SchemaViolationError struct {
	Entity string
	Field  string
	Detail string
}

func (e *SchemaViolationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("schema violation: %s.%s: %s", e.Entity, e.Field, e.Detail)
	}
	return fmt.Sprintf("schema violation: %s.%s", e.Entity, e.Field)
}

// MalformedTimestampError reports a required timestamp field whose value could
// not be parsed as ISO-8601 with fractional seconds.
type MalformedTimestampError struct {
	Entity string
	Field  string
	Value  string
}

func (e *MalformedTimestampError) Error() string {
	return fmt.Sprintf("malformed timestamp: %s.%s: %q", e.Entity, e.Field, e.Value)
}

// StoreIOError reports a failure of the local storage medium. Such failures
// are always surfaced to the caller; the store never degrades silently.
type StoreIOError struct {
	Op  string
	Err error
}

func (e *StoreIOError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *StoreIOError) Unwrap() []error { return []error{ErrStoreIO, e.Err} }

// WrapStore wraps a medium error with the operation that hit it.
func WrapStore(op string, err error) error {
	return &StoreIOError{Op: op, Err: err}
}

// RequestKind classifies a transport failure so that callers can decide
// whether to retry. The core itself never retries.
type RequestKind int

const (
	// KindRemote is a non-retryable remote rejection (4xx other than the
	// mapped statuses, or a malformed response).
	KindRemote RequestKind = iota
	// KindTimeout is a request that exceeded its deadline.
	KindTimeout
	// KindUnavailable is a connection-level failure (refused, DNS, reset).
	KindUnavailable
	// KindNotFound maps HTTP 404: the referenced id is absent remotely.
	KindNotFound
	// KindUnauthorized maps HTTP 401/403.
	KindUnauthorized
	// KindThrottled maps HTTP 408/429 and 5xx.
	KindThrottled
)

// RequestError wraps a failed call to the backend with enough context for
// diagnostic logging and retry decisions by the caller.
type RequestError struct {
	Endpoint string
	Status   int
	Kind     RequestKind
	Err      error
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("request %s: status %d: %v", e.Endpoint, e.Status, e.Err)
	}
	return fmt.Sprintf("request %s: %v", e.Endpoint, e.Err)
}

func (e *RequestError) Unwrap() error {
	switch e.Kind {
	case KindNotFound:
		return ErrNotFound
	case KindUnauthorized:
		return ErrUnauthorized
	}
	return e.Err
}

// Retryable reports whether the failure class is worth retrying: timeouts,
// unreachable servers and throttling statuses are; decode failures and other
// remote rejections are not.
func (e *RequestError) Retryable() bool {
	switch e.Kind {
	case KindTimeout, KindUnavailable, KindThrottled:
		return true
	}
	return false
}
