// Package session keeps the signed-in state: the access token and the id of
// the user it belongs to. Tokens are opaque to the client except for the
// standard JWT claims it peeks at (without verifying; verification is the
// server's job).
package session

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	sessionrepo "github.com/quiltchat/quilt/internal/client/repositories/session"
	"github.com/quiltchat/quilt/internal/common"
)

const (
	keyToken  = "token"
	keyUserID = "user_id"
)

type Manager struct {
	repo sessionrepo.Repository
	now  func() time.Time
}

func NewManager(repo sessionrepo.Repository) *Manager {
	return &Manager{repo: repo, now: time.Now}
}

// SaveToken stores the access token. When the token carries a subject claim
// the user id is captured from it.
func (m *Manager) SaveToken(ctx context.Context, token string) error {
	if err := m.repo.Set(ctx, keyToken, []byte(token)); err != nil {
		return err
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// not a JWT; usable as an opaque bearer token
		return nil
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return m.repo.Set(ctx, keyUserID, []byte(sub))
	}
	return nil
}

// Token returns the stored access token, refusing locally when the token's
// own expiry claim has already passed.
func (m *Manager) Token(ctx context.Context) (string, error) {
	raw, err := m.repo.Get(ctx, keyToken)
	if err != nil {
		return "", err
	}
	if len(raw) == 0 {
		return "", common.ErrUnauthorized
	}
	token := string(raw)

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && exp.Before(m.now()) {
			return "", common.ErrTokenExpired
		}
	}
	return token, nil
}

// UserID returns the id of the signed-in user.
func (m *Manager) UserID(ctx context.Context) (string, error) {
	raw, err := m.repo.Get(ctx, keyUserID)
	if err != nil {
		return "", err
	}
	if len(raw) == 0 {
		return "", common.ErrUnauthorized
	}
	return string(raw), nil
}

// SetUserID records the user id explicitly, for backends that issue opaque
// tokens without a subject claim.
func (m *Manager) SetUserID(ctx context.Context, userID string) error {
	return m.repo.Set(ctx, keyUserID, []byte(userID))
}

// SignedIn reports whether a usable token is stored.
func (m *Manager) SignedIn(ctx context.Context) bool {
	_, err := m.Token(ctx)
	return err == nil
}

// Clear forgets the session.
func (m *Manager) Clear(ctx context.Context) error {
	return m.repo.Clear(ctx)
}
