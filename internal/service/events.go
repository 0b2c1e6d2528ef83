package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

type OrderItemEvent struct {
	ProductID   int    `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"`
	LineTotal   int64  `json:"line_total"`
}

type OrderCreatedEvent struct {
	EventID      uuid.UUID        `json:"event_id"`
	OrderID      int              `json:"order_id"`
	UserID       int              `json:"user_id"`
	TokenNumber  int              `json:"token_number"`
	CustomerName string           `json:"customer_name"`
	PhoneNumber  string           `json:"phone_number"`
	OrderType    string           `json:"order_type"`
	City         *string          `json:"city,omitempty"`
	Items        []OrderItemEvent `json:"items"`
	TotalAmount  int64            `json:"total_amount"`
	CreatedAt    time.Time        `json:"created_at"`
}

type OrderStatusChangedEvent struct {
	EventID     uuid.UUID `json:"event_id"`
	OrderID     int       `json:"order_id"`
	UserID      int       `json:"user_id"`
	TokenNumber int       `json:"token_number"`
	Status      string    `json:"status"`
	ChangedAt   time.Time `json:"changed_at"`
}

type EventBus interface {
	PublishOrderCreated(ctx context.Context, e OrderCreatedEvent) error
	PublishOrderStatusChanged(ctx context.Context, e OrderStatusChangedEvent) error
}
