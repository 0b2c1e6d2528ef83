package repository

import (
	"context"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/models"

	"gorm.io/gorm"
)

type OrderItemRepo interface {
	BulkCreate(ctx context.Context, items []models.OrderItem) error
	GetByOrderID(ctx context.Context, orderID int) ([]models.OrderItem, error)
	CountByProductIDs(ctx context.Context, productIDs []int) (int64, error)
	DeleteByProductIDs(ctx context.Context, productIDs []int) (int64, error)
}

type orderItemRepo struct{ db *gorm.DB }

func NewOrderItemRepo(db *gorm.DB) OrderItemRepo { return &orderItemRepo{db: db} }

func (r *orderItemRepo) BulkCreate(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Product").Create(&items).Error
}

func (r *orderItemRepo) GetByOrderID(ctx context.Context, orderID int) ([]models.OrderItem, error) {
	var rows []models.OrderItem
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *orderItemRepo) CountByProductIDs(ctx context.Context, productIDs []int) (int64, error) {
	if len(productIDs) == 0 {
		return 0, nil
	}
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.OrderItem{}).Where("product_id IN ?", productIDs).Count(&cnt).Error
	return cnt, err
}

func (r *orderItemRepo) DeleteByProductIDs(ctx context.Context, productIDs []int) (int64, error) {
	if len(productIDs) == 0 {
		return 0, nil
	}
	tx := r.db.WithContext(ctx).Where("product_id IN ?", productIDs).Delete(&models.OrderItem{})
	return tx.RowsAffected, tx.Error
}
