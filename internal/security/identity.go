package security

import (
	"context"
	"slices"

	"lms-platform/internal/model"
)

// Заголовки доверенной идентичности, которые выставляет только шлюз
const (
	HeaderUserID   = "X-User-Id"
	HeaderUserRole = "X-User-Role"
)

// Identity : проверенная идентичность запроса. Поля закрыты, поэтому
// заполненное значение может создать только этот пакет.
type Identity struct {
	userUUID string
	role     model.Role
}

func (i Identity) UserUUID() string {
	return i.userUUID
}

func (i Identity) Role() model.Role {
	return i.role
}

func (i Identity) IsAdmin() bool {
	return i.role == model.RoleAdministrator
}

func (i Identity) HasRole(roles ...model.Role) bool {
	return slices.Contains(roles, i.role)
}

// CanModify : владелец ресурса или администратор
func (i Identity) CanModify(ownerUUID string) bool {
	return i.IsAdmin() || i.userUUID == ownerUUID
}

type identityKey struct{}

func withIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || identity.userUUID == "" {
		return Identity{}, false
	}
	return identity, true
}
