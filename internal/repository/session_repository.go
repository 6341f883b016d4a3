package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lms-platform/config"
	"lms-platform/internal/model"
	"lms-platform/internal/util"

	"github.com/redis/go-redis/v9"
)

type SessionRepository struct {
	client *config.RedisClient
	ttl    time.Duration
}

func NewSessionRepository(rdb *config.RedisClient, ttl time.Duration) *SessionRepository {
	return &SessionRepository{rdb, ttl}
}

// SetSession : перезаписывает сессию и продлевает TTL
func (r *SessionRepository) SetSession(ctx context.Context, userUUID string, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return util.LogError("ошибка сериализации сессии", err)
	}

	cmd := r.client.Client.Set(ctx, r.key(userUUID), data, r.ttl)
	if err = cmd.Err(); err != nil {
		return util.LogError("ошибка сохранения в Redis", err)
	}
	if cmd.Val() != "OK" {
		return fmt.Errorf("неожиданный ответ Redis: %s", cmd.Val())
	}

	return nil
}

func (r *SessionRepository) GetSession(ctx context.Context, userUUID string) (*model.Session, error) {
	val, err := r.client.Client.Get(ctx, r.key(userUUID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // нет в кэше
	} else if err != nil {
		return nil, util.LogError("ошибка получения сессии из Redis", err)
	}

	var session model.Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, util.LogError("ошибка десериализации сессии из кэша", err)
	}
	return &session, nil
}

func (r *SessionRepository) DeleteSession(ctx context.Context, userUUID string) error {
	if err := r.client.Client.Del(ctx, r.key(userUUID)).Err(); err != nil {
		return util.LogError("ошибка удаления сессии из Redis", err)
	}
	return nil
}

func (r *SessionRepository) key(userUUID string) string {
	return fmt.Sprintf("session:%s", userUUID)
}
