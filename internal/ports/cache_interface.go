package ports

import (
	"context"

	"lms-platform/internal/model"
)

// SessionCache : Redis слой сессий, не источник истины
type SessionCache interface {
	SetSession(ctx context.Context, userUUID string, session *model.Session) error
	GetSession(ctx context.Context, userUUID string) (*model.Session, error)
	DeleteSession(ctx context.Context, userUUID string) error
}
