package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/models"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/repository"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/service"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func ptr[T any](v T) *T { return &v }

func newProductSvc(cats *MockCategoryRepo, products *MockProductRepo, cache service.CatalogCache) service.ProductService {
	if cats == nil {
		cats = &MockCategoryRepo{
			GetByIDFunc: func(ctx context.Context, id int) (*models.Category, error) {
				return &models.Category{ID: id, Name: "Mithai"}, nil
			},
		}
	}
	return service.NewProductService(&repository.Repository{Categories: cats, Products: products}, cache, zap.NewNop())
}

func validProduct() service.ProductInput {
	return service.ProductInput{
		Name:          ptr("Kaju Katli"),
		Price:         ptr(int64(2999)),
		StockQuantity: ptr(10),
		CategoryID:    ptr(1),
		Description:   ptr("  "),
		ImageURLs:     []string{"https://cdn.example.com/katli.jpg"},
	}
}

func TestProductService_Create(t *testing.T) {
	var saved *models.Product
	products := &MockProductRepo{
		CreateFunc: func(ctx context.Context, p *models.Product) error {
			p.ID = 21
			saved = p
			return nil
		},
	}
	products.GetByIDFunc = func(ctx context.Context, id int) (*models.Product, error) {
		cp := *saved
		cp.Category = &models.Category{ID: 1, Name: "Mithai"}
		return &cp, nil
	}
	svc := newProductSvc(nil, products, nil)

	p, err := svc.Create(adminCtx(), validProduct())
	require.NoError(t, err)
	assert.Equal(t, 21, p.ID)
	assert.Nil(t, saved.Description)
	assert.Equal(t, pq.StringArray{"https://cdn.example.com/katli.jpg"}, saved.ImageURLs)
	assert.Equal(t, "Mithai", p.Category.Name)
}

func TestProductService_Create_Validation(t *testing.T) {
	svc := newProductSvc(nil, &MockProductRepo{}, nil)

	_, err := svc.Create(adminCtx(), service.ProductInput{Name: ptr(" ")})
	assert.EqualError(t, err, "Missing required fields: name, price, stock_quantity, categoryId.")

	cases := map[string]func(in *service.ProductInput){
		"Price must be a positive number.":                func(in *service.ProductInput) { in.Price = ptr(int64(0)) },
		"Stock quantity must be 0 or greater.":            func(in *service.ProductInput) { in.StockQuantity = ptr(-1) },
		"Valid category ID is required.":                  func(in *service.ProductInput) { in.CategoryID = ptr(-4) },
		"Product name must be less than 255 characters.":  func(in *service.ProductInput) { in.Name = ptr(strings.Repeat("k", 256)) },
		"All image URLs must be valid URLs.":              func(in *service.ProductInput) { in.ImageURLs = []string{"not a url"} },
		"Maximum 5 images allowed per product.": func(in *service.ProductInput) {
			in.ImageURLs = []string{"https://a/1", "https://a/2", "https://a/3", "https://a/4", "https://a/5", "https://a/6"}
		},
	}
	for msg, mutate := range cases {
		t.Run(msg, func(t *testing.T) {
			in := validProduct()
			mutate(&in)
			_, err := svc.Create(adminCtx(), in)
			assert.EqualError(t, err, msg)
		})
	}
}

func TestProductService_Create_Conflicts(t *testing.T) {
	svc := newProductSvc(&MockCategoryRepo{}, &MockProductRepo{}, nil)
	_, err := svc.Create(adminCtx(), validProduct())
	assert.ErrorIs(t, err, service.ErrCategoryNotFound)

	svc = newProductSvc(nil, &MockProductRepo{
		FindByNameFunc: func(ctx context.Context, name string, excludeID int) (*models.Product, error) {
			return &models.Product{ID: 2, Name: "kaju katli"}, nil
		},
	}, nil)
	_, err = svc.Create(adminCtx(), validProduct())
	assert.ErrorIs(t, err, service.ErrProductExists)

	svc = newProductSvc(nil, &MockProductRepo{
		CreateFunc: func(ctx context.Context, p *models.Product) error {
			return &pgconn.PgError{Code: "23503", ConstraintName: "fk_products_category"}
		},
	}, nil)
	_, err = svc.Create(adminCtx(), validProduct())
	assert.ErrorIs(t, err, service.ErrCategoryNotFound)
}

func TestProductService_Update_OnlySuppliedFields(t *testing.T) {
	var got map[string]any
	cache := NewMockCache()
	products := &MockProductRepo{
		GetByIDFunc: func(ctx context.Context, id int) (*models.Product, error) {
			return &models.Product{ID: id, Name: "Rasgulla", Price: 500}, nil
		},
		UpdateFieldsFunc: func(ctx context.Context, id int, fields map[string]any) error {
			got = fields
			return nil
		},
	}
	svc := newProductSvc(nil, products, cache)

	_, err := svc.Update(adminCtx(), 3, service.ProductPatch{
		Price:          ptr(int64(650)),
		DescriptionSet: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(650), got["price"])
	assert.Contains(t, got, "description")
	assert.Nil(t, got["description"])
	assert.NotContains(t, got, "name")
	assert.Equal(t, []int{3}, cache.InvalidatedIDs)
}

func TestProductService_Update_Validation(t *testing.T) {
	products := &MockProductRepo{
		GetByIDFunc: func(ctx context.Context, id int) (*models.Product, error) {
			if id == 404 {
				return nil, nil
			}
			return &models.Product{ID: id, Name: "Rasgulla"}, nil
		},
	}
	svc := newProductSvc(nil, products, nil)

	_, err := svc.Update(adminCtx(), 404, service.ProductPatch{})
	assert.ErrorIs(t, err, service.ErrProductNotFound)

	_, err = svc.Update(adminCtx(), 1, service.ProductPatch{Name: ptr("  ")})
	assert.EqualError(t, err, "Product name must be a non-empty string.")

	urls := []string{"https://a/1", "https://a/2", "https://a/3", "https://a/4", "https://a/5", "https://a/6"}
	_, err = svc.Update(adminCtx(), 1, service.ProductPatch{ImageURLs: &urls})
	assert.EqualError(t, err, "Maximum 5 images allowed per product.")
}

func TestProductService_Update_RenameCaseOnly(t *testing.T) {
	products := &MockProductRepo{
		GetByIDFunc: func(ctx context.Context, id int) (*models.Product, error) {
			return &models.Product{ID: id, Name: "Rasgulla"}, nil
		},
		FindByNameFunc: func(ctx context.Context, name string, excludeID int) (*models.Product, error) {
			t.Fatal("duplicate lookup must be skipped when only case changes")
			return nil, nil
		},
	}
	svc := newProductSvc(nil, products, nil)
	_, err := svc.Update(adminCtx(), 1, service.ProductPatch{Name: ptr("RASGULLA")})
	require.NoError(t, err)
}

func TestProductService_List_Pagination(t *testing.T) {
	var filter repository.ProductListFilter
	svc := newProductSvc(nil, &MockProductRepo{
		ListFunc: func(ctx context.Context, f repository.ProductListFilter) ([]models.Product, int64, error) {
			filter = f
			return []models.Product{{ID: 1}}, 25, nil
		},
	}, nil)

	page, err := svc.List(context.Background(), service.ProductListQuery{Page: 3, Limit: 12, InStock: true})
	require.NoError(t, err)
	assert.Equal(t, 24, filter.Offset)
	assert.True(t, filter.InStock)
	assert.Equal(t, int64(25), page.Total)

	_, err = svc.List(context.Background(), service.ProductListQuery{Page: 0, Limit: 12})
	assert.EqualError(t, err, "Page must be a positive integer.")
	_, err = svc.List(context.Background(), service.ProductListQuery{Page: 1, Limit: 51})
	assert.EqualError(t, err, "Limit must be between 1 and 50.")
}

func TestProductService_Get_Cache(t *testing.T) {
	calls := 0
	cache := NewMockCache()
	svc := newProductSvc(nil, &MockProductRepo{
		GetByIDFunc: func(ctx context.Context, id int) (*models.Product, error) {
			calls++
			return &models.Product{ID: id, Name: "Jalebi"}, nil
		},
	}, cache)

	for i := 0; i < 3; i++ {
		p, err := svc.Get(context.Background(), 8)
		require.NoError(t, err)
		assert.Equal(t, "Jalebi", p.Name)
	}
	assert.Equal(t, 1, calls)
}
