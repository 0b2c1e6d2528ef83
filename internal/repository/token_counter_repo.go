package repository

import (
	"context"
	"time"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/models"

	"gorm.io/gorm"
)

type TokenCounterRepo interface {
	// Next атомарно увеличивает счётчик дня и возвращает новый номер (с 1).
	// Должен вызываться внутри транзакции создания заказа: строка счётчика
	// остаётся заблокированной до commit, поэтому номера идут без пропусков.
	Next(ctx context.Context, day time.Time) (int, error)
	DeleteBefore(ctx context.Context, day time.Time) (int64, error)
}

type tokenCounterRepo struct{ db *gorm.DB }

func NewTokenCounterRepo(db *gorm.DB) TokenCounterRepo { return &tokenCounterRepo{db: db} }

// DayOf возвращает календарный день t (в его часовом поясе) как полночь UTC,
// чтобы драйвер не сдвинул дату при записи в колонку типа date.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (r *tokenCounterRepo) Next(ctx context.Context, day time.Time) (int, error) {
	var token int
	err := r.db.WithContext(ctx).Raw(`
INSERT INTO daily_token_counters (day, last_token, updated_at)
VALUES (@day, 1, now())
ON CONFLICT (day) DO UPDATE
SET last_token = daily_token_counters.last_token + 1,
    updated_at = now()
RETURNING last_token
`, map[string]any{"day": DayOf(day)}).Scan(&token).Error
	return token, err
}

func (r *tokenCounterRepo) DeleteBefore(ctx context.Context, day time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).Where("day < ?", DayOf(day)).Delete(&models.DailyTokenCounter{})
	return tx.RowsAffected, tx.Error
}
