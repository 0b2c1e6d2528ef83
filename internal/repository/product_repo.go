package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/models"

	"gorm.io/gorm"
)

const ProductNameIndex = "ux_products_name"

type ProductListFilter struct {
	CategoryID *int
	Search     string // по name/description, без учёта регистра
	MinPrice   *int64
	MaxPrice   *int64
	InStock    bool
	Limit      int
	Offset     int
}

type ProductRepo interface {
	Create(ctx context.Context, p *models.Product) error
	UpdateFields(ctx context.Context, id int, fields map[string]any) error
	GetByID(ctx context.Context, id int) (*models.Product, error)
	FindByName(ctx context.Context, name string, excludeID int) (*models.Product, error)
	List(ctx context.Context, f ProductListFilter) ([]models.Product, int64, error)
	Delete(ctx context.Context, id int) (bool, error)
	DeleteByCategory(ctx context.Context, categoryID int) (int64, error)
	IDsByCategory(ctx context.Context, categoryID int) ([]int, error)
	BatchGetByIDs(ctx context.Context, ids []int) ([]models.Product, error)

	// DecrementStock: stock_quantity -= qty, только если хватает остатка.
	DecrementStock(ctx context.Context, id int, qty int) (bool, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepo { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Omit("Category").Create(p).Error
}

func (r *productRepo) UpdateFields(ctx context.Context, id int, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(fields).Error
}

func (r *productRepo) GetByID(ctx context.Context, id int) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).Preload("Category").First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *productRepo) FindByName(ctx context.Context, name string, excludeID int) (*models.Product, error) {
	q := r.db.WithContext(ctx).Where("lower(name) = lower(?)", name)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var p models.Product
	err := q.First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *productRepo) List(ctx context.Context, f ProductListFilter) ([]models.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})

	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := containsPattern(s)
		q = q.Where("(name ILIKE ? OR description ILIKE ?)", p, p)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.InStock {
		q = q.Where("stock_quantity > 0")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 12
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	var list []models.Product
	err := q.Preload("Category").
		Order("created_at DESC").Order("id DESC").
		Limit(f.Limit).Offset(f.Offset).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *productRepo) Delete(ctx context.Context, id int) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	return tx.RowsAffected > 0, tx.Error
}

func (r *productRepo) DeleteByCategory(ctx context.Context, categoryID int) (int64, error) {
	tx := r.db.WithContext(ctx).Where("category_id = ?", categoryID).Delete(&models.Product{})
	return tx.RowsAffected, tx.Error
}

func (r *productRepo) IDsByCategory(ctx context.Context, categoryID int) ([]int, error) {
	var ids []int
	err := r.db.WithContext(ctx).Model(&models.Product{}).Where("category_id = ?", categoryID).Pluck("id", &ids).Error
	return ids, err
}

func (r *productRepo) BatchGetByIDs(ctx context.Context, ids []int) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	var list []models.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error
	return list, err
}

func (r *productRepo) DecrementStock(ctx context.Context, id int, qty int) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE products
SET stock_quantity = stock_quantity - @q,
    updated_at = now()
WHERE id = @pid
  AND stock_quantity >= @q
`, map[string]any{
		"pid": id,
		"q":   qty,
	})
	return tx.RowsAffected > 0, tx.Error
}
