package store

import (
	"context"
	"time"

	"github.com/me/heroconsole/pkg/model"
)

// Store defines the persistence layer for console sessions.
type Store interface {
	CreateSession(ctx context.Context, sess *model.Session) error
	// GetSession returns nil, nil when no session has the id.
	GetSession(ctx context.Context, id string) (*model.Session, error)
	TouchSession(ctx context.Context, id string, expiresAt time.Time) error
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
	CountSessions(ctx context.Context) (int, error)

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}
