package service

import (
	"context"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/models"
)

type ctxKey string

const ctxIdentityKey ctxKey = "identity"

// Identity - проверенные данные из bearer-токена.
type Identity struct {
	UserID int
	Role   models.Role
}

func (i Identity) IsAdmin() bool { return i.Role == models.RoleAdmin }

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxIdentityKey, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	v, ok := ctx.Value(ctxIdentityKey).(Identity)
	return v, ok
}

func requireAuth(ctx context.Context) (Identity, error) {
	id, ok := IdentityFromContext(ctx)
	if !ok || id.UserID <= 0 {
		return Identity{}, ErrUnauthorized
	}
	return id, nil
}

func requireAdmin(ctx context.Context) (Identity, error) {
	id, err := requireAuth(ctx)
	if err != nil {
		return Identity{}, err
	}
	if !id.IsAdmin() {
		return Identity{}, ErrForbidden
	}
	return id, nil
}
