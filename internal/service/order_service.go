package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/models"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultUserOrderLimit  = 10
	DefaultAdminOrderLimit = 20

	maxUserOrderLimit  = 50
	maxAdminOrderLimit = 100
)

var (
	phoneRe   = regexp.MustCompile(`^[0-9]{10}$`)
	pincodeRe = regexp.MustCompile(`^[0-9]{6}$`)
)

type CreateOrderItem struct {
	ProductID int
	Quantity  int
}

type CreateOrderInput struct {
	CustomerName string
	PhoneNumber  string
	OrderType    string

	AddressLine1 string
	AddressLine2 string
	City         string
	Pincode      string
	Landmark     string

	Items []CreateOrderItem
}

// OrderListQuery: Status и OrderType применяются, только если это допустимые значения.
type OrderListQuery struct {
	Page      int
	Limit     int
	Status    string
	OrderType string
	Search    string
}

type OrderPage struct {
	Orders []models.Order
	Total  int64
	Page   int
	Limit  int
}

type OrderService interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error)
	ListUserOrders(ctx context.Context, q OrderListQuery) (*OrderPage, error)
	AdminListOrders(ctx context.Context, q OrderListQuery) (*OrderPage, error)
	GetOrder(ctx context.Context, id int) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id int, status string) (*models.Order, error)
}

type orderService struct {
	repo   *repository.Repository
	events EventBus     // nil, если Kafka выключена
	cache  CatalogCache // nil, если Redis выключен
	now    func() time.Time
	log    *zap.Logger
}

func NewOrderService(repo *repository.Repository, events EventBus, cache CatalogCache, log *zap.Logger) OrderService {
	return &orderService{
		repo:   repo,
		events: events,
		cache:  cache,
		now:    time.Now,
		log:    log,
	}
}

// maxItemQuantity ограничивает количество в позиции (и после слияния),
// совпадает с диапазоном integer-колонки quantity.
const maxItemQuantity = math.MaxInt32

var errQuantityRange = invalid("Each item must have a positive quantity.")

// orderLine - позиция после слияния повторяющихся product_id.
type orderLine struct {
	productID int
	quantity  int
}

func validateCreateOrder(in *CreateOrderInput) error {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)

	var missing []string
	if in.CustomerName == "" {
		missing = append(missing, "customer_name")
	}
	if in.PhoneNumber == "" {
		missing = append(missing, "phone_number")
	}
	if !models.OrderType(in.OrderType).Valid() {
		missing = append(missing, "order_type")
	}
	if len(in.Items) == 0 {
		missing = append(missing, "items")
	}
	if len(missing) > 0 {
		return missingFields(missing)
	}

	if !phoneRe.MatchString(in.PhoneNumber) {
		return invalid("Phone number must be exactly 10 digits.")
	}

	if models.OrderType(in.OrderType) == models.OrderTypeDelivery {
		in.AddressLine1 = strings.TrimSpace(in.AddressLine1)
		in.City = strings.TrimSpace(in.City)
		in.Pincode = strings.TrimSpace(in.Pincode)

		var addr []string
		if in.AddressLine1 == "" {
			addr = append(addr, "address_line1")
		}
		if in.City == "" {
			addr = append(addr, "city")
		}
		if in.Pincode == "" {
			addr = append(addr, "pincode")
		}
		if len(addr) > 0 {
			return invalid(fmt.Sprintf("Delivery orders require address fields: %s.", strings.Join(addr, ", ")))
		}
		if !pincodeRe.MatchString(in.Pincode) {
			return invalid("Pincode must be exactly 6 digits.")
		}
	}

	for _, it := range in.Items {
		if it.ProductID <= 0 {
			return invalid("Each item must have a valid product_id.")
		}
		if it.Quantity <= 0 || it.Quantity > maxItemQuantity {
			return errQuantityRange
		}
	}
	return nil
}

// mergeLines суммирует количество по одинаковым product_id, сохраняя порядок первого появления.
// Сумма не может выйти за maxItemQuantity.
func mergeLines(items []CreateOrderItem) ([]orderLine, error) {
	idx := make(map[int]int, len(items))
	lines := make([]orderLine, 0, len(items))
	for _, it := range items {
		if i, ok := idx[it.ProductID]; ok {
			if it.Quantity > maxItemQuantity-lines[i].quantity {
				return nil, errQuantityRange
			}
			lines[i].quantity += it.Quantity
			continue
		}
		idx[it.ProductID] = len(lines)
		lines = append(lines, orderLine{productID: it.ProductID, quantity: it.Quantity})
	}
	return lines, nil
}

// addLineTotal прибавляет price*quantity к total; false при переполнении int64.
func addLineTotal(total, price int64, quantity int) (int64, bool) {
	q := int64(quantity)
	if price < 0 || q <= 0 || price > (math.MaxInt64-total)/q {
		return total, false
	}
	return total + price*q, true
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (s *orderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	ident, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateCreateOrder(&in); err != nil {
		return nil, err
	}

	lines, err := mergeLines(in.Items)
	if err != nil {
		return nil, err
	}
	ids := make([]int, len(lines))
	for i, l := range lines {
		ids[i] = l.productID
	}

	found, err := s.repo.Products.BatchGetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	products := make(map[int]models.Product, len(found))
	for _, p := range found {
		products[p.ID] = p
	}

	var missing []int
	for _, l := range lines {
		if _, ok := products[l.productID]; !ok {
			missing = append(missing, l.productID)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingProductsError{IDs: missing}
	}

	var (
		total     int64
		overflow  bool
		shortages []StockShortage
	)
	for _, l := range lines {
		p := products[l.productID]
		if p.StockQuantity < l.quantity {
			shortages = append(shortages, StockShortage{
				ProductID: p.ID,
				Name:      p.Name,
				Available: p.StockQuantity,
				Requested: l.quantity,
			})
		}
		var ok bool
		if total, ok = addLineTotal(total, p.Price, l.quantity); !ok {
			overflow = true
		}
	}
	if len(shortages) > 0 {
		return nil, &InsufficientStockError{Shortages: shortages}
	}
	if overflow {
		return nil, invalid("Order total is too large.")
	}

	now := s.now()
	orderType := models.OrderType(in.OrderType)
	order := &models.Order{
		UserID:       ident.UserID,
		CustomerName: in.CustomerName,
		PhoneNumber:  in.PhoneNumber,
		TokenDate:    repository.DayOf(now),
		OrderType:    orderType,
		Status:       models.OrderStatusPending,
		TotalAmount:  total,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if orderType == models.OrderTypeDelivery {
		order.AddressLine1 = optional(in.AddressLine1)
		order.AddressLine2 = optional(in.AddressLine2)
		order.City = optional(in.City)
		order.Pincode = optional(in.Pincode)
		order.Landmark = optional(in.Landmark)
	}

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		token, err := tx.TokenCounters.Next(ctx, now)
		if err != nil {
			return fmt.Errorf("next token: %w", err)
		}
		order.TokenNumber = token

		if err := tx.Orders.Create(ctx, order); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		items := make([]models.OrderItem, len(lines))
		for i, l := range lines {
			items[i] = models.OrderItem{
				OrderID:   order.ID,
				ProductID: l.productID,
				Quantity:  l.quantity,
				Price:     products[l.productID].Price,
			}
		}
		if err := tx.OrderItems.BulkCreate(ctx, items); err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}

		// единый порядок блокировок строк products между параллельными заказами
		byID := append([]orderLine(nil), lines...)
		sort.Slice(byID, func(i, j int) bool { return byID[i].productID < byID[j].productID })

		var lost []StockShortage
		for _, l := range byID {
			ok, err := tx.Products.DecrementStock(ctx, l.productID, l.quantity)
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			if ok {
				continue
			}
			live, err := tx.Products.GetByID(ctx, l.productID)
			if err != nil {
				return fmt.Errorf("reload product: %w", err)
			}
			sh := StockShortage{ProductID: l.productID, Name: products[l.productID].Name, Requested: l.quantity}
			if live != nil {
				sh.Name, sh.Available = live.Name, live.StockQuantity
			}
			lost = append(lost, sh)
		}
		if len(lost) > 0 {
			return &InsufficientStockError{Shortages: lost}
		}
		return nil
	})
	if err != nil {
		var stockErr *InsufficientStockError
		if errors.As(err, &stockErr) {
			s.log.Info("order rejected: stock changed concurrently", zap.Int("user_id", ident.UserID))
			return nil, stockErr
		}
		s.log.Error("order transaction failed", zap.Int("user_id", ident.UserID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrOrderProcessingFailed, err)
	}

	created, err := s.repo.Orders.GetByID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, ErrOrderNotFound
	}

	s.log.Info("order created",
		zap.Int("order_id", created.ID),
		zap.Int("token_number", created.TokenNumber),
		zap.Int64("total_amount", created.TotalAmount),
	)

	if s.cache != nil {
		s.cache.InvalidateProducts(ctx, ids...)
	}
	s.publishCreated(ctx, created, products)
	return created, nil
}

func (s *orderService) publishCreated(ctx context.Context, o *models.Order, products map[int]models.Product) {
	if s.events == nil {
		return
	}
	items := make([]OrderItemEvent, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemEvent{
			ProductID:   it.ProductID,
			ProductName: products[it.ProductID].Name,
			Quantity:    it.Quantity,
			Price:       it.Price,
			LineTotal:   it.Price * int64(it.Quantity),
		})
	}
	ev := OrderCreatedEvent{
		EventID:      uuid.New(),
		OrderID:      o.ID,
		UserID:       o.UserID,
		TokenNumber:  o.TokenNumber,
		CustomerName: o.CustomerName,
		PhoneNumber:  o.PhoneNumber,
		OrderType:    string(o.OrderType),
		City:         o.City,
		Items:        items,
		TotalAmount:  o.TotalAmount,
		CreatedAt:    o.CreatedAt,
	}
	if err := s.events.PublishOrderCreated(ctx, ev); err != nil {
		s.log.Warn("publish order.created failed", zap.Int("order_id", o.ID), zap.Error(err))
	}
}

func (s *orderService) list(ctx context.Context, q OrderListQuery, maxLimit int, f repository.OrderListFilter) (*OrderPage, error) {
	if q.Page < 1 {
		return nil, invalid("Page must be a positive integer.")
	}
	if q.Limit < 1 || q.Limit > maxLimit {
		return nil, invalid(fmt.Sprintf("Limit must be between 1 and %d.", maxLimit))
	}

	if st := models.OrderStatus(q.Status); st.Valid() {
		f.Status = &st
	}
	if ot := models.OrderType(q.OrderType); ot.Valid() {
		f.OrderType = &ot
	}
	f.Limit = q.Limit
	f.Offset = (q.Page - 1) * q.Limit

	list, total, err := s.repo.Orders.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Order{}
	}
	return &OrderPage{Orders: list, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

func (s *orderService) ListUserOrders(ctx context.Context, q OrderListQuery) (*OrderPage, error) {
	ident, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	uid := ident.UserID
	return s.list(ctx, q, maxUserOrderLimit, repository.OrderListFilter{UserID: &uid})
}

func (s *orderService) AdminListOrders(ctx context.Context, q OrderListQuery) (*OrderPage, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.list(ctx, q, maxAdminOrderLimit, repository.OrderListFilter{
		Search:   q.Search,
		WithUser: true,
	})
}

// GetOrder: администратор видит любой заказ, покупатель только свой.
// Чужой заказ неотличим от несуществующего.
func (s *orderService) GetOrder(ctx context.Context, id int) (*models.Order, error) {
	ident, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	var o *models.Order
	if ident.IsAdmin() {
		o, err = s.repo.Orders.GetByID(ctx, id)
	} else {
		o, err = s.repo.Orders.GetByIDForUser(ctx, id, ident.UserID)
	}
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, id int, status string) (*models.Order, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	st := models.OrderStatus(strings.TrimSpace(status))
	if !st.Valid() {
		return nil, ErrInvalidStatus
	}

	ok, err := s.repo.Orders.UpdateStatus(ctx, id, st)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrOrderNotFound
	}

	o, err := s.repo.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}

	s.log.Info("order status updated", zap.Int("order_id", id), zap.String("status", string(st)))

	if s.events != nil {
		ev := OrderStatusChangedEvent{
			EventID:     uuid.New(),
			OrderID:     o.ID,
			UserID:      o.UserID,
			TokenNumber: o.TokenNumber,
			Status:      string(o.Status),
			ChangedAt:   s.now(),
		}
		if err := s.events.PublishOrderStatusChanged(ctx, ev); err != nil {
			s.log.Warn("publish order.status_changed failed", zap.Int("order_id", id), zap.Error(err))
		}
	}
	return o, nil
}
