package ports

import (
	"context"
	"errors"
	"time"

	"lms-platform/internal/model"
	"lms-platform/internal/security"
)

// ErrRefreshTokenRevoked : строки с таким хэшем нет, токен уже использован или отозван
var ErrRefreshTokenRevoked = errors.New("refresh token not found or revoked")

// RefreshTokenRepository : источник истины для отзыва refresh-токенов
type RefreshTokenRepository interface {
	SaveRefreshToken(ctx context.Context, token *model.RefreshToken) error
	FindByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	DeleteByHash(ctx context.Context, tokenHash string) error
	DeleteAllForUser(ctx context.Context, userUUID string) (int64, error)
	// Rotate : удаление старой строки и вставка новой в одной транзакции
	Rotate(ctx context.Context, oldTokenHash string, next *model.RefreshToken) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type JWTServiceInterface interface {
	GenerateAccessRefreshTokens(subject security.Subject) (*model.TokensPair, error)
	ValidateJWT(tokenStr string, kind security.TokenKind) (*security.Claims, error)
}
