package service

import (
	"context"
	"time"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/models"
)

type Claims struct {
	UserID int
	Role   models.Role
	Exp    time.Time
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type TokenProvider interface {
	SignAccess(ctx context.Context, userID int, role models.Role) (string, time.Time, error)
	ParseAndValidateAccess(ctx context.Context, token string) (*Claims, error)
}

// CatalogCache - read-through кэш каталога. Промах и ошибка кэша
// неотличимы для вызывающего: в обоих случаях идём в базу.
type CatalogCache interface {
	GetCategories(ctx context.Context) ([]models.Category, bool)
	SetCategories(ctx context.Context, list []models.Category)
	InvalidateCategories(ctx context.Context)

	GetProduct(ctx context.Context, id int) (*models.Product, bool)
	SetProduct(ctx context.Context, p *models.Product)
	InvalidateProducts(ctx context.Context, ids ...int)
	InvalidateAllProducts(ctx context.Context)
}
