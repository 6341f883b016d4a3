package ports

import (
	"context"

	"lms-platform/internal/model"
)

// UserRepository : SQL слой пользователей
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}
