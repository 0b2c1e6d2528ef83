package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/models"

	"gorm.io/gorm"
)

const OrderTokenIndex = "ux_orders_token_date_number"

type OrderListFilter struct {
	UserID    *int
	Status    *models.OrderStatus
	OrderType *models.OrderType
	// Search: customer_name (ILIKE), phone_number (подстрока) или точный token_number.
	Search   string
	WithUser bool
	Limit    int
	Offset   int
}

type OrderRepo interface {
	Create(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id int) (*models.Order, error)
	GetByIDForUser(ctx context.Context, id, userID int) (*models.Order, error)
	UpdateStatus(ctx context.Context, id int, status models.OrderStatus) (bool, error)
	List(ctx context.Context, f OrderListFilter) ([]models.Order, int64, error)
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) OrderRepo { return &orderRepo{db: db} }

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Omit("User", "Items").Create(o).Error
}

func (r *orderRepo) withItems(q *gorm.DB) *gorm.DB {
	return q.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_items.id ASC")
	}).Preload("Items.Product", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "image_urls")
	})
}

func (r *orderRepo) GetByID(ctx context.Context, id int) (*models.Order, error) {
	var ord models.Order
	q := r.withItems(r.db.WithContext(ctx)).Preload("User")
	err := q.First(&ord, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ord, err
}

func (r *orderRepo) GetByIDForUser(ctx context.Context, id, userID int) (*models.Order, error) {
	var ord models.Order
	err := r.withItems(r.db.WithContext(ctx)).First(&ord, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ord, err
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id int, status models.OrderStatus) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	return tx.RowsAffected > 0, tx.Error
}

func (r *orderRepo) List(ctx context.Context, f OrderListFilter) ([]models.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{})

	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.OrderType != nil {
		q = q.Where("order_type = ?", *f.OrderType)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := containsPattern(s)
		if n, err := strconv.Atoi(s); err == nil {
			q = q.Where("(customer_name ILIKE ? OR phone_number LIKE ? OR token_number = ?)", p, p, n)
		} else {
			q = q.Where("(customer_name ILIKE ? OR phone_number LIKE ?)", p, p)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	q = r.withItems(q)
	if f.WithUser {
		q = q.Preload("User")
	}

	var list []models.Order
	err := q.Order("created_at DESC").Order("id DESC").Limit(f.Limit).Offset(f.Offset).Find(&list).Error
	return list, total, err
}
