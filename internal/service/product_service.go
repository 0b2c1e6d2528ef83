package service

import (
	"context"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/models"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/repository"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const (
	DefaultProductLimit = 12

	maxProductImages = 5
	maxProductLimit  = 50
)

// ProductInput - тело создания товара. nil означает, что поле не передано.
type ProductInput struct {
	Name          *string
	Price         *int64
	StockQuantity *int
	CategoryID    *int
	Description   *string
	ImageURLs     []string
}

// ProductPatch - частичное обновление: меняются только переданные поля.
// DescriptionSet отличает "description": null от отсутствия ключа.
type ProductPatch struct {
	Name           *string
	Price          *int64
	StockQuantity  *int
	CategoryID     *int
	DescriptionSet bool
	Description    *string
	ImageURLs      *[]string
}

type ProductListQuery struct {
	Page       int
	Limit      int
	CategoryID *int
	Search     string
	MinPrice   *int64
	MaxPrice   *int64
	InStock    bool
}

type ProductPage struct {
	Products []models.Product
	Total    int64
	Page     int
	Limit    int
}

type ProductDeleteResult struct {
	ID                     int
	Name                   string
	DeletedAt              time.Time
	DeletedOrderItemsCount int64
}

type ProductService interface {
	Create(ctx context.Context, in ProductInput) (*models.Product, error)
	Update(ctx context.Context, id int, patch ProductPatch) (*models.Product, error)
	Delete(ctx context.Context, id int) (*ProductDeleteResult, error)
	List(ctx context.Context, q ProductListQuery) (*ProductPage, error)
	Get(ctx context.Context, id int) (*models.Product, error)
}

type productService struct {
	repo  *repository.Repository
	cache CatalogCache
	now   func() time.Time
	log   *zap.Logger
}

func NewProductService(repo *repository.Repository, cache CatalogCache, log *zap.Logger) ProductService {
	return &productService{repo: repo, cache: cache, now: time.Now, log: log}
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != ""
}

func validateImageURLs(urls []string) error {
	for _, u := range urls {
		if !isAbsoluteURL(u) {
			return invalid("All image URLs must be valid URLs.")
		}
	}
	return nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func (s *productService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	var missing []string
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		missing = append(missing, "name")
	}
	if in.Price == nil {
		missing = append(missing, "price")
	}
	if in.StockQuantity == nil {
		missing = append(missing, "stock_quantity")
	}
	if in.CategoryID == nil || *in.CategoryID == 0 {
		missing = append(missing, "categoryId")
	}
	if len(missing) > 0 {
		return nil, missingFields(missing)
	}

	if *in.Price <= 0 {
		return nil, invalid("Price must be a positive number.")
	}
	if *in.StockQuantity < 0 {
		return nil, invalid("Stock quantity must be 0 or greater.")
	}
	if *in.CategoryID < 0 {
		return nil, invalid("Valid category ID is required.")
	}
	name := strings.TrimSpace(*in.Name)
	if utf8.RuneCountInString(name) > maxNameLen {
		return nil, invalid("Product name must be less than 255 characters.")
	}
	if err := validateImageURLs(in.ImageURLs); err != nil {
		return nil, err
	}
	if len(in.ImageURLs) > maxProductImages {
		return nil, invalid("Maximum 5 images allowed per product.")
	}

	cat, err := s.repo.Categories.GetByID(ctx, *in.CategoryID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, ErrCategoryNotFound
	}

	dup, err := s.repo.Products.FindByName(ctx, name, 0)
	if err != nil {
		return nil, err
	}
	if dup != nil {
		return nil, ErrProductExists
	}

	images := in.ImageURLs
	if images == nil {
		images = []string{}
	}
	p := &models.Product{
		Name:          name,
		Price:         *in.Price,
		Description:   trimmedOrNil(in.Description),
		StockQuantity: *in.StockQuantity,
		CategoryID:    cat.ID,
		ImageURLs:     images,
	}
	if err := s.repo.Products.Create(ctx, p); err != nil {
		return nil, s.mapWriteError(err)
	}

	created, err := s.repo.Products.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, ErrProductNotFound
	}
	return created, nil
}

func (s *productService) Update(ctx context.Context, id int, patch ProductPatch) (*models.Product, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	current, err := s.repo.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrProductNotFound
	}

	fields := map[string]any{}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, invalid("Product name must be a non-empty string.")
		}
		if utf8.RuneCountInString(name) > maxNameLen {
			return nil, invalid("Product name must be less than 255 characters.")
		}
		fields["name"] = name
	}
	if patch.Price != nil {
		if *patch.Price <= 0 {
			return nil, invalid("Price must be a positive number.")
		}
		fields["price"] = *patch.Price
	}
	if patch.StockQuantity != nil {
		if *patch.StockQuantity < 0 {
			return nil, invalid("Stock quantity must be 0 or greater.")
		}
		fields["stock_quantity"] = *patch.StockQuantity
	}
	if patch.CategoryID != nil {
		if *patch.CategoryID <= 0 {
			return nil, invalid("Valid category ID is required.")
		}
		cat, err := s.repo.Categories.GetByID(ctx, *patch.CategoryID)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, ErrCategoryNotFound
		}
		fields["category_id"] = cat.ID
	}
	if patch.ImageURLs != nil {
		urls := *patch.ImageURLs
		if len(urls) > maxProductImages {
			return nil, invalid("Maximum 5 images allowed per product.")
		}
		if err := validateImageURLs(urls); err != nil {
			return nil, err
		}
		if urls == nil {
			urls = []string{}
		}
		fields["image_urls"] = pq.StringArray(urls)
	}
	if patch.DescriptionSet {
		fields["description"] = trimmedOrNil(patch.Description)
	}

	if name, ok := fields["name"].(string); ok && !strings.EqualFold(name, current.Name) {
		dup, err := s.repo.Products.FindByName(ctx, name, id)
		if err != nil {
			return nil, err
		}
		if dup != nil {
			return nil, ErrProductExists
		}
	}

	if err := s.repo.Products.UpdateFields(ctx, id, fields); err != nil {
		return nil, s.mapWriteError(err)
	}

	updated, err := s.repo.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrProductNotFound
	}

	if s.cache != nil {
		s.cache.InvalidateProducts(ctx, id)
	}
	return updated, nil
}

// Delete удаляет товар вместе с позициями заказов, которые на него ссылаются.
func (s *productService) Delete(ctx context.Context, id int) (*ProductDeleteResult, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	var res ProductDeleteResult
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		p, err := tx.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrProductNotFound
		}
		res.ID, res.Name = p.ID, p.Name

		if res.DeletedOrderItemsCount, err = tx.OrderItems.DeleteByProductIDs(ctx, []int{id}); err != nil {
			return err
		}
		ok, err := tx.Products.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrProductNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.DeletedAt = s.now()

	s.log.Info("product deleted", zap.Int("product_id", id), zap.Int64("order_items", res.DeletedOrderItemsCount))
	if s.cache != nil {
		s.cache.InvalidateProducts(ctx, id)
	}
	return &res, nil
}

func (s *productService) List(ctx context.Context, q ProductListQuery) (*ProductPage, error) {
	if q.Page < 1 {
		return nil, invalid("Page must be a positive integer.")
	}
	if q.Limit < 1 || q.Limit > maxProductLimit {
		return nil, invalid("Limit must be between 1 and 50.")
	}

	list, total, err := s.repo.Products.List(ctx, repository.ProductListFilter{
		CategoryID: q.CategoryID,
		Search:     q.Search,
		MinPrice:   q.MinPrice,
		MaxPrice:   q.MaxPrice,
		InStock:    q.InStock,
		Limit:      q.Limit,
		Offset:     (q.Page - 1) * q.Limit,
	})
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Product{}
	}
	return &ProductPage{Products: list, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

func (s *productService) Get(ctx context.Context, id int) (*models.Product, error) {
	if s.cache != nil {
		if p, ok := s.cache.GetProduct(ctx, id); ok {
			return p, nil
		}
	}

	p, err := s.repo.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	if s.cache != nil {
		s.cache.SetProduct(ctx, p)
	}
	return p, nil
}

func (s *productService) mapWriteError(err error) error {
	switch {
	case repository.IsUniqueViolation(err, repository.ProductNameIndex):
		return ErrProductExists
	case repository.IsForeignKeyViolation(err):
		return ErrCategoryNotFound
	}
	return err
}
