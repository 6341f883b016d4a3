package ports

import (
	"context"

	"lms-platform/internal/model"
)

type AuthenticationService interface {
	Register(ctx context.Context, email, password, name, role string) (*model.User, *model.TokensPair, error)
	Login(ctx context.Context, email, password string) (*model.User, *model.TokensPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*model.TokensPair, error)
	Logout(ctx context.Context, accessToken string) error
	Session(ctx context.Context, userUUID string) (*model.Session, error)
}

// EventPublisher : публикация доменных событий, доставка не гарантируется
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, payload interface{}) error
	Close() error
}
