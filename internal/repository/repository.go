package repository

import (
	"context"

	"gorm.io/gorm"
)

type Repository struct {
	DB            *gorm.DB
	Users         UserRepo
	Categories    CategoryRepo
	Products      ProductRepo
	Orders        OrderRepo
	OrderItems    OrderItemRepo
	TokenCounters TokenCounterRepo
}

func buildRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:            db,
		Users:         NewUserRepo(db),
		Categories:    NewCategoryRepo(db),
		Products:      NewProductRepo(db),
		Orders:        NewOrderRepo(db),
		OrderItems:    NewOrderItemRepo(db),
		TokenCounters: NewTokenCounterRepo(db),
	}
}

func New(db *gorm.DB) *Repository { return buildRepository(db) }

// WithTx выполняет fn в одной транзакции на весь набор репозиториев.
// Ошибка из fn откатывает транзакцию.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(buildRepository(tx))
	})
}

// Ping проверяет доступность базы (для /health).
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
