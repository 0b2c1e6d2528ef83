package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/models"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/repository"

	"go.uber.org/zap"
)

const maxNameLen = 255

type CategoryDeleteResult struct {
	ID                     int
	Name                   string
	DeletedProductsCount   int64
	DeletedOrderItemsCount int64
}

type CategoryService interface {
	Create(ctx context.Context, name string) (*models.Category, error)
	Update(ctx context.Context, id int, name string) (*models.Category, error)
	Delete(ctx context.Context, id int) (*CategoryDeleteResult, error)
	List(ctx context.Context) ([]models.Category, error)
	Get(ctx context.Context, id int) (*models.Category, error)
}

type categoryService struct {
	repo  *repository.Repository
	cache CatalogCache // nil, если Redis выключен
	log   *zap.Logger
}

func NewCategoryService(repo *repository.Repository, cache CatalogCache, log *zap.Logger) CategoryService {
	return &categoryService{repo: repo, cache: cache, log: log}
}

func normalizeCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("Category name is required.")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "", invalid("Category name must be less than 255 characters.")
	}
	return name, nil
}

func (s *categoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	name, err := normalizeCategoryName(name)
	if err != nil {
		return nil, err
	}

	dup, err := s.repo.Categories.FindByName(ctx, name, 0)
	if err != nil {
		return nil, err
	}
	if dup != nil {
		return nil, ErrCategoryExists
	}

	c := &models.Category{Name: name}
	if err := s.repo.Categories.Create(ctx, c); err != nil {
		if repository.IsUniqueViolation(err, repository.CategoryNameIndex) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}

	s.invalidateCategories(ctx)
	return c, nil
}

func (s *categoryService) Update(ctx context.Context, id int, name string) (*models.Category, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	name, err := normalizeCategoryName(name)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrCategoryNotFound
	}

	dup, err := s.repo.Categories.FindByName(ctx, name, id)
	if err != nil {
		return nil, err
	}
	if dup != nil {
		return nil, ErrCategoryExists
	}

	if err := s.repo.Categories.UpdateName(ctx, id, name); err != nil {
		if repository.IsUniqueViolation(err, repository.CategoryNameIndex) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}

	updated, err := s.repo.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrCategoryNotFound
	}

	s.invalidateCategories(ctx)
	// в карточке товара есть имя категории
	if s.cache != nil {
		s.cache.InvalidateAllProducts(ctx)
	}
	return updated, nil
}

// Delete удаляет категорию каскадом: позиции заказов с её товарами,
// сами товары, затем категорию. Всё в одной транзакции.
func (s *categoryService) Delete(ctx context.Context, id int) (*CategoryDeleteResult, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	var res CategoryDeleteResult
	var productIDs []int
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		c, err := tx.Categories.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return ErrCategoryNotFound
		}
		res.ID, res.Name = c.ID, c.Name

		productIDs, err = tx.Products.IDsByCategory(ctx, id)
		if err != nil {
			return err
		}
		if res.DeletedOrderItemsCount, err = tx.OrderItems.DeleteByProductIDs(ctx, productIDs); err != nil {
			return err
		}
		if res.DeletedProductsCount, err = tx.Products.DeleteByCategory(ctx, id); err != nil {
			return err
		}
		ok, err := tx.Categories.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrCategoryNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("category deleted",
		zap.Int("category_id", res.ID),
		zap.Int64("products", res.DeletedProductsCount),
		zap.Int64("order_items", res.DeletedOrderItemsCount),
	)

	s.invalidateCategories(ctx)
	if s.cache != nil && len(productIDs) > 0 {
		s.cache.InvalidateProducts(ctx, productIDs...)
	}
	return &res, nil
}

func (s *categoryService) List(ctx context.Context) ([]models.Category, error) {
	if s.cache != nil {
		if list, ok := s.cache.GetCategories(ctx); ok {
			return list, nil
		}
	}

	list, err := s.repo.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Category{}
	}
	if s.cache != nil {
		s.cache.SetCategories(ctx, list)
	}
	return list, nil
}

func (s *categoryService) Get(ctx context.Context, id int) (*models.Category, error) {
	c, err := s.repo.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCategoryNotFound
	}
	return c, nil
}

func (s *categoryService) invalidateCategories(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateCategories(ctx)
	}
}
