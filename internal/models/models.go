package models

import (
	"time"

	"github.com/lib/pq"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
)

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleCustomer }

type User struct {
	ID        int       `gorm:"primaryKey"`
	Name      string    `gorm:"type:text;not null"`
	Email     string    `gorm:"type:text;not null"` // уникальность через индекс lower(email)
	Password  string    `gorm:"type:text;not null"` // bcrypt hash
	Role      Role      `gorm:"type:text;not null;default:'CUSTOMER';index"`
	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (User) TableName() string { return "users" }

type Category struct {
	ID        int       `gorm:"primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null"` // уникальность через индекс lower(name)
	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Category) TableName() string { return "categories" }

type Product struct {
	ID            int            `gorm:"primaryKey"`
	Name          string         `gorm:"type:varchar(255);not null"`
	Price         int64          `gorm:"not null"` // в минимальных единицах валюты
	Description   *string        `gorm:"type:text"`
	StockQuantity int            `gorm:"not null;default:0"`
	CategoryID    int            `gorm:"not null;index"`
	ImageURLs     pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
	CreatedAt     time.Time      `gorm:"not null;default:now();index"`
	UpdatedAt     time.Time      `gorm:"not null;default:now()"`

	Category *Category `gorm:"foreignKey:CategoryID"`
}

func (Product) TableName() string { return "products" }

func (p *Product) IsInStock() bool { return p.StockQuantity > 0 }

type OrderType string

const (
	OrderTypeDineIn   OrderType = "DINE_IN"
	OrderTypeDelivery OrderType = "DELIVERY"
)

func (t OrderType) Valid() bool { return t == OrderTypeDineIn || t == OrderTypeDelivery }

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusReady     OrderStatus = "READY"
	OrderStatusCompleted OrderStatus = "COMPLETED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusReady, OrderStatusCompleted:
		return true
	}
	return false
}

type Order struct {
	ID           int         `gorm:"primaryKey"`
	UserID       int         `gorm:"not null;index"`
	CustomerName string      `gorm:"type:text;not null"`
	PhoneNumber  string      `gorm:"type:varchar(10);not null"`
	TokenNumber  int         `gorm:"not null"`
	TokenDate    time.Time   `gorm:"type:date;not null"` // день, к которому относится token_number
	OrderType    OrderType   `gorm:"type:text;not null"`
	Status       OrderStatus `gorm:"type:text;not null;default:'PENDING';index"`
	TotalAmount  int64       `gorm:"not null;default:0"`

	AddressLine1 *string `gorm:"type:text"`
	AddressLine2 *string `gorm:"type:text"`
	City         *string `gorm:"type:text"`
	Pincode      *string `gorm:"type:varchar(6)"`
	Landmark     *string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	User  *User       `gorm:"foreignKey:UserID"`
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	ID        int   `gorm:"primaryKey"`
	OrderID   int   `gorm:"not null;index"`
	ProductID int   `gorm:"not null;index"`
	Quantity  int   `gorm:"not null"` // CHECK в миграции
	Price     int64 `gorm:"not null"` // цена за единицу на момент заказа

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (OrderItem) TableName() string { return "order_items" }

// DailyTokenCounter хранит последний выданный token_number за день.
type DailyTokenCounter struct {
	Day       time.Time `gorm:"type:date;primaryKey"`
	LastToken int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (DailyTokenCounter) TableName() string { return "daily_token_counters" }
