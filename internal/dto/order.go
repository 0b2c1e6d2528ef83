package dto

import (
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/models"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/service"
)

type OrderItemRequest struct {
	ProductID int `json:"product_id" example:"1"`
	Quantity  int `json:"quantity" example:"2"`
}

type CreateOrderRequest struct {
	CustomerName string             `json:"customer_name" example:"Meera Shah"`
	PhoneNumber  string             `json:"phone_number" example:"9876543210"`
	OrderType    string             `json:"order_type" example:"DINE_IN" enums:"DINE_IN,DELIVERY"`
	AddressLine1 string             `json:"address_line1"`
	AddressLine2 string             `json:"address_line2"`
	City         string             `json:"city"`
	Pincode      string             `json:"pincode"`
	Landmark     string             `json:"landmark"`
	Items        []OrderItemRequest `json:"items"`
}

func (r CreateOrderRequest) ToInput() service.CreateOrderInput {
	items := make([]service.CreateOrderItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = service.CreateOrderItem{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return service.CreateOrderInput{
		CustomerName: r.CustomerName,
		PhoneNumber:  r.PhoneNumber,
		OrderType:    r.OrderType,
		AddressLine1: r.AddressLine1,
		AddressLine2: r.AddressLine2,
		City:         r.City,
		Pincode:      r.Pincode,
		Landmark:     r.Landmark,
		Items:        items,
	}
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" example:"READY" enums:"PENDING,READY,COMPLETED"`
}

type OrderProductRef struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	ImageURLs []string `json:"image_urls"`
}

type OrderItemResponse struct {
	ID        int              `json:"id"`
	ProductID int              `json:"product_id"`
	Quantity  int              `json:"quantity"`
	Price     int64            `json:"price"`
	Product   *OrderProductRef `json:"product"`
}

type OrderUserRef struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type OrderResponse struct {
	ID           int                 `json:"id"`
	UserID       int                 `json:"userId"`
	CustomerName string              `json:"customer_name"`
	PhoneNumber  string              `json:"phone_number"`
	TokenNumber  int                 `json:"token_number"`
	OrderType    string              `json:"order_type"`
	Status       string              `json:"status"`
	TotalAmount  int64               `json:"total_amount"`
	CreatedAt    string              `json:"created_at"`
	UpdatedAt    string              `json:"updated_at"`
	AddressLine1 *string             `json:"address_line1"`
	AddressLine2 *string             `json:"address_line2"`
	City         *string             `json:"city"`
	Pincode      *string             `json:"pincode"`
	Landmark     *string             `json:"landmark"`
	OrderItems   []OrderItemResponse `json:"order_items"`
	User         *OrderUserRef       `json:"user,omitempty"`
}

func NewOrderResponse(o *models.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		}
		if it.Product != nil {
			images := []string(it.Product.ImageURLs)
			if images == nil {
				images = []string{}
			}
			items[i].Product = &OrderProductRef{ID: it.Product.ID, Name: it.Product.Name, ImageURLs: images}
		}
	}
	out := OrderResponse{
		ID:           o.ID,
		UserID:       o.UserID,
		CustomerName: o.CustomerName,
		PhoneNumber:  o.PhoneNumber,
		TokenNumber:  o.TokenNumber,
		OrderType:    string(o.OrderType),
		Status:       string(o.Status),
		TotalAmount:  o.TotalAmount,
		CreatedAt:    ISOTime(o.CreatedAt),
		UpdatedAt:    ISOTime(o.UpdatedAt),
		AddressLine1: o.AddressLine1,
		AddressLine2: o.AddressLine2,
		City:         o.City,
		Pincode:      o.Pincode,
		Landmark:     o.Landmark,
		OrderItems:   items,
	}
	if o.User != nil {
		out.User = &OrderUserRef{ID: o.User.ID, Name: o.User.Name, Email: o.User.Email}
	}
	return out
}

// OrderSummaryResponse - заказ без позиций (ответ на смену статуса).
type OrderSummaryResponse struct {
	ID           int     `json:"id"`
	CustomerName string  `json:"customer_name"`
	PhoneNumber  string  `json:"phone_number"`
	TokenNumber  int     `json:"token_number"`
	OrderType    string  `json:"order_type"`
	Status       string  `json:"status"`
	TotalAmount  int64   `json:"total_amount"`
	CreatedAt    string  `json:"created_at"`
	AddressLine1 *string `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	City         *string `json:"city"`
	Pincode      *string `json:"pincode"`
	Landmark     *string `json:"landmark"`
}

func NewOrderSummaryResponse(o *models.Order) OrderSummaryResponse {
	return OrderSummaryResponse{
		ID:           o.ID,
		CustomerName: o.CustomerName,
		PhoneNumber:  o.PhoneNumber,
		TokenNumber:  o.TokenNumber,
		OrderType:    string(o.OrderType),
		Status:       string(o.Status),
		TotalAmount:  o.TotalAmount,
		CreatedAt:    ISOTime(o.CreatedAt),
		AddressLine1: o.AddressLine1,
		AddressLine2: o.AddressLine2,
		City:         o.City,
		Pincode:      o.Pincode,
		Landmark:     o.Landmark,
	}
}

type OrderPagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalOrders int64 `json:"totalOrders"`
	Limit       int   `json:"limit"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

type OrderListResponse struct {
	Orders     []OrderResponse `json:"orders"`
	Pagination OrderPagination `json:"pagination"`
}

func NewOrderListResponse(page *service.OrderPage) OrderListResponse {
	out := make([]OrderResponse, len(page.Orders))
	for i := range page.Orders {
		out[i] = NewOrderResponse(&page.Orders[i])
	}
	pages := totalPages(page.Total, page.Limit)
	return OrderListResponse{
		Orders: out,
		Pagination: OrderPagination{
			CurrentPage: page.Page,
			TotalPages:  pages,
			TotalOrders: page.Total,
			Limit:       page.Limit,
			HasNextPage: page.Page < pages,
			HasPrevPage: page.Page > 1,
		},
	}
}
