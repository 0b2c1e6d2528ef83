package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("admin access required")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidToken       = errors.New("invalid token")

	ErrInvalidID    = errors.New("invalid id format")
	ErrIDOutOfRange = errors.New("id out of range")

	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
	ErrProductNotFound  = errors.New("product not found")
	ErrProductExists    = errors.New("product already exists")
	ErrOrderNotFound    = errors.New("order not found")
	ErrInvalidStatus    = errors.New("invalid order status")

	// ErrOrderProcessingFailed оборачивает инфраструктурный сбой транзакции заказа.
	ErrOrderProcessingFailed = errors.New("order processing failed")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError - ошибка входных данных (400). Fields заполняется, когда
// проверяется сразу несколько полей.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) *ValidationError { return &ValidationError{Message: msg} }

func missingFields(names []string) *ValidationError {
	return invalid(fmt.Sprintf("Missing required fields: %s.", strings.Join(names, ", ")))
}

type MissingProductsError struct {
	IDs []int
}

func (e *MissingProductsError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = strconv.Itoa(id)
	}
	return fmt.Sprintf("Product not found with IDs: %s.", strings.Join(ids, ", "))
}

type StockShortage struct {
	ProductID int
	Name      string
	Available int
	Requested int
}

type InsufficientStockError struct {
	Shortages []StockShortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, len(e.Shortages))
	for i, s := range e.Shortages {
		parts[i] = fmt.Sprintf("%s (available: %d, requested: %d)", s.Name, s.Available, s.Requested)
	}
	return fmt.Sprintf("Insufficient stock for: %s.", strings.Join(parts, ", "))
}
