package repository

import (
	"context"

	"lms-platform/config"
	"lms-platform/internal/apperr"
	"lms-platform/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type UserRepository struct {
	*config.Database
}

func NewUserRepository(database *config.Database) *UserRepository {
	return &UserRepository{database}
}

// CreateUser : сохраняет нового пользователя.
// Повторный email отдаёт Conflict по уникальному индексу users_email_key.
func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	query := `
	INSERT INTO users (uuid, email, password_hash, name, role)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING uuid, email, password_hash, name, role, created_at, updated_at
	`

	createdUser := &model.User{}
	err := sqlx.GetContext(ctx, r.DB, createdUser, query,
		user.UUID, user.Email, user.PasswordHash, user.Name, user.Role)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("[UserRepo] ошибка вставки данных в БД")
		return nil, apperr.FromDB("email already registered", err)
	}

	return createdUser, nil
}

// FindByEmail : ищет пользователя по email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT uuid, email, password_hash, name, role, created_at, updated_at FROM users WHERE email = $1`
	var user model.User
	if err := sqlx.GetContext(ctx, r.DB, &user, query, email); err != nil {
		return nil, apperr.FromDB("user not found", err)
	}
	return &user, nil
}
