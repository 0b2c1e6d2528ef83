package repository

import (
	"context"
	"errors"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/models"

	"gorm.io/gorm"
)

// Имя функционального индекса lower(name), создаётся в миграции.
const CategoryNameIndex = "ux_categories_name"

type CategoryRepo interface {
	Create(ctx context.Context, c *models.Category) error
	GetByID(ctx context.Context, id int) (*models.Category, error)
	// FindByName ищет без учёта регистра; excludeID > 0 исключает саму запись.
	FindByName(ctx context.Context, name string, excludeID int) (*models.Category, error)
	UpdateName(ctx context.Context, id int, name string) error
	List(ctx context.Context) ([]models.Category, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type categoryRepo struct{ db *gorm.DB }

func NewCategoryRepo(db *gorm.DB) CategoryRepo { return &categoryRepo{db: db} }

func (r *categoryRepo) Create(ctx context.Context, c *models.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoryRepo) GetByID(ctx context.Context, id int) (*models.Category, error) {
	var c models.Category
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *categoryRepo) FindByName(ctx context.Context, name string, excludeID int) (*models.Category, error) {
	q := r.db.WithContext(ctx).Where("lower(name) = lower(?)", name)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var c models.Category
	err := q.First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *categoryRepo) UpdateName(ctx context.Context, id int, name string) error {
	return r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Update("name", name).Error
}

func (r *categoryRepo) List(ctx context.Context) ([]models.Category, error) {
	var list []models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error
	return list, err
}

func (r *categoryRepo) Delete(ctx context.Context, id int) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	return tx.RowsAffected > 0, tx.Error
}
