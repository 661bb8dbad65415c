package ui

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/me/heroconsole/internal/session"
	"github.com/me/heroconsole/internal/store"
	"github.com/me/heroconsole/pkg/model"
)

const (
	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "hero_session"
	// SessionDuration is the default session lifetime.
	SessionDuration = 24 * time.Hour
)

// SessionManager handles browser session creation, validation, and cleanup.
// A browser session maps the cookie to the API bearer token.
type SessionManager struct {
	store store.Store
	ttl   time.Duration
}

// NewSessionManager creates a new session manager. A non-positive ttl uses SessionDuration.
func NewSessionManager(st store.Store, ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = SessionDuration
	}
	return &SessionManager{store: st, ttl: ttl}
}

// CreateSession stores a session for the token returned by the API login.
// The role is read from the token claims.
func (sm *SessionManager) CreateSession(ctx context.Context, email, token string) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}

	now := time.Now()
	sess := &model.Session{
		ID:        sessionID,
		Email:     email,
		Role:      session.DecodeRole(token),
		Token:     token,
		CreatedAt: now,
		ExpiresAt: now.Add(sm.ttl),
	}

	if err := sm.store.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return sess, nil
}

// GetSession retrieves a session by ID from the store.
// Returns nil if the session doesn't exist or has expired.
func (sm *SessionManager) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	sess, err := sm.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if sess == nil {
		return nil, nil
	}

	if sess.IsExpired() {
		_ = sm.store.DeleteSession(ctx, sessionID)
		return nil, nil
	}

	return sess, nil
}

// Refresh extends a session that is past half its lifetime and reports
// whether it did. The caller must re-issue the cookie when it returns true.
func (sm *SessionManager) Refresh(ctx context.Context, sess *model.Session) (bool, error) {
	if sess == nil || time.Until(sess.ExpiresAt) >= sm.ttl/2 {
		return false, nil
	}
	exp := time.Now().Add(sm.ttl)
	if err := sm.store.TouchSession(ctx, sess.ID, exp); err != nil {
		return false, fmt.Errorf("touch session: %w", err)
	}
	sess.ExpiresAt = exp
	return true, nil
}

// DeleteSession removes a session from the store.
func (sm *SessionManager) DeleteSession(ctx context.Context, sessionID string) error {
	return sm.store.DeleteSession(ctx, sessionID)
}

// CleanupExpiredSessions removes all expired sessions from the store.
func (sm *SessionManager) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	return sm.store.DeleteExpiredSessions(ctx)
}

// GetSessionFromRequest extracts the session from the request cookie.
func (sm *SessionManager) GetSessionFromRequest(r *http.Request) (*model.Session, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil, nil // No cookie, no session
	}
	return sm.GetSession(r.Context(), cookie.Value)
}

// stateOf converts a browser session into the state route gating works on.
func stateOf(sess *model.Session) session.State {
	if sess == nil {
		return session.State{}
	}
	return session.State{Token: sess.Token, Authenticated: true, Role: sess.Role}
}

// sessionCredentials exposes a browser session as the API client's credential
// store. Clearing it deletes the session row, so every later request from the
// same browser is anonymous.
type sessionCredentials struct {
	sm   *SessionManager
	ctx  context.Context
	sess *model.Session
}

func (c *sessionCredentials) Token() string {
	if c.sess == nil {
		return ""
	}
	return c.sess.Token
}

func (c *sessionCredentials) SetToken(token string) error {
	if c.sess == nil {
		return fmt.Errorf("no browser session")
	}
	c.sess.Token = token
	return nil
}

func (c *sessionCredentials) Clear() error {
	if c.sess == nil {
		return nil
	}
	id := c.sess.ID
	c.sess = nil
	return c.sm.DeleteSession(context.WithoutCancel(c.ctx), id)
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, sess *model.Session, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Expires:  sess.ExpiresAt,
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// generateSessionID generates a cryptographically secure random session ID.
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "sess_" + hex.EncodeToString(b), nil
}
