package model

import "time"

// Session : запись кэша сессии. Не является источником истины,
// её потеря не отзывает доступ пользователя.
type Session struct {
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	LastSeenAt time.Time `json:"last_seen_at"`
}
