package model

import (
	"fmt"
	"time"
)

// Role : закрытое перечисление ролей
type Role string

const (
	RoleLearner       Role = "learner"
	RoleInstructor    Role = "instructor"
	RoleAdministrator Role = "administrator"
)

// ParseRole : возвращает ошибку для любой строки вне перечисления
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleLearner, RoleInstructor, RoleAdministrator:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// SelfRegistrationRole : роль, которую можно получить при самостоятельной регистрации.
// Администратор понижается до ученика, пустая роль тоже.
func SelfRegistrationRole(requested string) Role {
	if Role(requested) == RoleInstructor {
		return RoleInstructor
	}
	return RoleLearner
}

type User struct {
	UUID         string    `db:"uuid" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	Role         Role      `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
