package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"lms-platform/config"
	"lms-platform/internal/apperr"
	"lms-platform/internal/model"
	"lms-platform/internal/ports"
	"lms-platform/internal/util"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type RefreshTokenRepository struct {
	*config.Database
}

func NewRefreshTokenRepository(database *config.Database) *RefreshTokenRepository {
	return &RefreshTokenRepository{database}
}

// SaveRefreshToken сохраняет хэш refresh-токена в базе данных
func (r *RefreshTokenRepository) SaveRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	return insertRefreshToken(ctx, r.DB, token)
}

func insertRefreshToken(ctx context.Context, exec sqlx.ExecerContext, token *model.RefreshToken) error {
	query := `INSERT INTO refresh_tokens (uuid, user_uuid, token_hash, expires_at) VALUES ($1, $2, $3, $4)`

	if _, err := exec.ExecContext(ctx, query, token.UUID, token.UserUUID, token.TokenHash, token.ExpiresAt); err != nil {
		return apperr.FromDB("ошибка вставки refresh-токена", err)
	}
	return nil
}

// FindByHash ищет строку по sha256 токена.
// Отсутствие строки означает отзыв: ports.ErrRefreshTokenRevoked.
func (r *RefreshTokenRepository) FindByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	query := `SELECT uuid, user_uuid, token_hash, expires_at, created_at FROM refresh_tokens WHERE token_hash = $1`

	var token model.RefreshToken
	if err := sqlx.GetContext(ctx, r.DB, &token, query, tokenHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ports.ErrRefreshTokenRevoked
		}
		return nil, util.LogError("[RefreshTokenRepo] ошибка при выполнении запроса", err)
	}
	return &token, nil
}

// DeleteByHash : удаляет одну строку, отсутствие строки ошибкой не считается
func (r *RefreshTokenRepository) DeleteByHash(ctx context.Context, tokenHash string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token_hash = $1`, tokenHash); err != nil {
		return util.LogError("[RefreshTokenRepo] не удалось удалить токен", err)
	}
	return nil
}

// DeleteAllForUser : отзывает все refresh-токены пользователя
func (r *RefreshTokenRepository) DeleteAllForUser(ctx context.Context, userUUID string) (int64, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE user_uuid = $1`, userUUID)
	if err != nil {
		return 0, util.LogError("[RefreshTokenRepo] не удалось отозвать токены пользователя", err)
	}
	return result.RowsAffected()
}

// Rotate : DELETE старой строки и INSERT новой в одной транзакции.
// Если DELETE не затронул ровно одну строку, токен уже ротирован
// параллельным запросом: транзакция откатывается, возвращается ports.ErrRefreshTokenRevoked.
func (r *RefreshTokenRepository) Rotate(ctx context.Context, oldTokenHash string, next *model.RefreshToken) (err error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return util.LogError("[RefreshTokenRepo] не удалось начать транзакцию", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Ctx(ctx).Warn().Err(rbErr).Msg("[RefreshTokenRepo] ошибка отката транзакции")
			}
		}
	}()

	result, err := tx.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token_hash = $1`, oldTokenHash)
	if err != nil {
		return util.LogError("[RefreshTokenRepo] не удалось удалить старый токен", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[RefreshTokenRepo] не удалось проверить удаление токена", err)
	}
	if deleted != 1 {
		return ports.ErrRefreshTokenRevoked
	}

	if err = insertRefreshToken(ctx, tx, next); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return util.LogError("[RefreshTokenRepo] не удалось зафиксировать ротацию", err)
	}
	return nil
}

// DeleteExpired : чистка истёкших строк
func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= $1`, before)
	if err != nil {
		return 0, util.LogError("[RefreshTokenRepo] не удалось удалить истёкшие токены", err)
	}
	return result.RowsAffected()
}
