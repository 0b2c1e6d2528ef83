package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/models"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/repository"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/service"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCategorySvc(cats *MockCategoryRepo, cache service.CatalogCache) service.CategoryService {
	return service.NewCategoryService(&repository.Repository{Categories: cats}, cache, zap.NewNop())
}

func TestCategoryService_Create(t *testing.T) {
	var saved *models.Category
	cache := NewMockCache()
	svc := newCategorySvc(&MockCategoryRepo{
		CreateFunc: func(ctx context.Context, c *models.Category) error {
			c.ID = 11
			saved = c
			return nil
		},
	}, cache)

	c, err := svc.Create(adminCtx(), "  Ladoo  ")
	require.NoError(t, err)
	assert.Equal(t, 11, c.ID)
	assert.Equal(t, "Ladoo", saved.Name)
	assert.Equal(t, 1, cache.InvalidatedCats)
}

func TestCategoryService_Create_Validation(t *testing.T) {
	svc := newCategorySvc(&MockCategoryRepo{}, nil)

	_, err := svc.Create(adminCtx(), "   ")
	assert.EqualError(t, err, "Category name is required.")

	_, err = svc.Create(adminCtx(), strings.Repeat("a", 256))
	assert.EqualError(t, err, "Category name must be less than 255 characters.")

	_, err = svc.Create(customerCtx(2), "Barfi")
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestCategoryService_Create_Duplicate(t *testing.T) {
	svc := newCategorySvc(&MockCategoryRepo{
		FindByNameFunc: func(ctx context.Context, name string, excludeID int) (*models.Category, error) {
			return &models.Category{ID: 1, Name: "ladoo"}, nil
		},
	}, nil)
	_, err := svc.Create(adminCtx(), "LADOO")
	assert.ErrorIs(t, err, service.ErrCategoryExists)

	svc = newCategorySvc(&MockCategoryRepo{
		CreateFunc: func(ctx context.Context, c *models.Category) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: repository.CategoryNameIndex}
		},
	}, nil)
	_, err = svc.Create(adminCtx(), "Ladoo")
	assert.ErrorIs(t, err, service.ErrCategoryExists)
}

func TestCategoryService_Update(t *testing.T) {
	var excluded int
	cache := NewMockCache()
	name := "Old"
	svc := newCategorySvc(&MockCategoryRepo{
		GetByIDFunc: func(ctx context.Context, id int) (*models.Category, error) {
			if id != 4 {
				return nil, nil
			}
			return &models.Category{ID: 4, Name: name}, nil
		},
		FindByNameFunc: func(ctx context.Context, n string, excludeID int) (*models.Category, error) {
			excluded = excludeID
			return nil, nil
		},
		UpdateNameFunc: func(ctx context.Context, id int, n string) error {
			name = n
			return nil
		},
	}, cache)

	c, err := svc.Update(adminCtx(), 4, " New ")
	require.NoError(t, err)
	assert.Equal(t, "New", c.Name)
	assert.Equal(t, 4, excluded)
	assert.Equal(t, 1, cache.InvalidatedAll)

	_, err = svc.Update(adminCtx(), 5, "Other")
	assert.ErrorIs(t, err, service.ErrCategoryNotFound)
}

func TestCategoryService_List_UsesCache(t *testing.T) {
	calls := 0
	cache := NewMockCache()
	svc := newCategorySvc(&MockCategoryRepo{
		ListFunc: func(ctx context.Context) ([]models.Category, error) {
			calls++
			return []models.Category{{ID: 1, Name: "Barfi"}, {ID: 2, Name: "Ladoo"}}, nil
		},
	}, cache)

	first, err := svc.List(context.Background())
	require.NoError(t, err)
	second, err := svc.List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestCategoryService_Get_NotFound(t *testing.T) {
	svc := newCategorySvc(&MockCategoryRepo{}, nil)
	_, err := svc.Get(context.Background(), 99)
	assert.ErrorIs(t, err, service.ErrCategoryNotFound)
}
