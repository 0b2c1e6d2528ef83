package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/models"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/service"

	"github.com/gin-gonic/gin"
)

func init() { gin.SetMode(gin.TestMode) }

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// withIdentity подменяет AuthRequired в тестах обработчиков.
func withIdentity(id service.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(service.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

var admin = service.Identity{UserID: 1, Role: models.RoleAdmin}

func send(r http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

type MockAuthService struct {
	RegisterFunc func(ctx context.Context, in service.RegisterInput) (*models.User, error)
	LoginFunc    func(ctx context.Context, email, password string) (*service.LoginResult, error)
	VerifyFunc   func(ctx context.Context) (*models.User, error)
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*models.User, error) {
	return m.RegisterFunc(ctx, in)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	return m.LoginFunc(ctx, email, password)
}

func (m *MockAuthService) Verify(ctx context.Context) (*models.User, error) {
	return m.VerifyFunc(ctx)
}

type MockCategoryService struct {
	service.CategoryService
	CreateFunc func(ctx context.Context, name string) (*models.Category, error)
	UpdateFunc func(ctx context.Context, id int, name string) (*models.Category, error)
	DeleteFunc func(ctx context.Context, id int) (*service.CategoryDeleteResult, error)
	GetFunc    func(ctx context.Context, id int) (*models.Category, error)
}

func (m *MockCategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	return m.CreateFunc(ctx, name)
}

func (m *MockCategoryService) Update(ctx context.Context, id int, name string) (*models.Category, error) {
	return m.UpdateFunc(ctx, id, name)
}

func (m *MockCategoryService) Delete(ctx context.Context, id int) (*service.CategoryDeleteResult, error) {
	return m.DeleteFunc(ctx, id)
}

func (m *MockCategoryService) Get(ctx context.Context, id int) (*models.Category, error) {
	return m.GetFunc(ctx, id)
}

type MockProductService struct {
	service.ProductService
	CreateFunc func(ctx context.Context, in service.ProductInput) (*models.Product, error)
	UpdateFunc func(ctx context.Context, id int, patch service.ProductPatch) (*models.Product, error)
	ListFunc   func(ctx context.Context, q service.ProductListQuery) (*service.ProductPage, error)
}

func (m *MockProductService) Create(ctx context.Context, in service.ProductInput) (*models.Product, error) {
	return m.CreateFunc(ctx, in)
}

func (m *MockProductService) Update(ctx context.Context, id int, patch service.ProductPatch) (*models.Product, error) {
	return m.UpdateFunc(ctx, id, patch)
}

func (m *MockProductService) List(ctx context.Context, q service.ProductListQuery) (*service.ProductPage, error) {
	return m.ListFunc(ctx, q)
}

type MockOrderService struct {
	service.OrderService
	CreateOrderFunc       func(ctx context.Context, in service.CreateOrderInput) (*models.Order, error)
	UpdateOrderStatusFunc func(ctx context.Context, id int, status string) (*models.Order, error)
	ListUserOrdersFunc    func(ctx context.Context, q service.OrderListQuery) (*service.OrderPage, error)
}

func (m *MockOrderService) CreateOrder(ctx context.Context, in service.CreateOrderInput) (*models.Order, error) {
	return m.CreateOrderFunc(ctx, in)
}

func (m *MockOrderService) UpdateOrderStatus(ctx context.Context, id int, status string) (*models.Order, error) {
	return m.UpdateOrderStatusFunc(ctx, id, status)
}

func (m *MockOrderService) ListUserOrders(ctx context.Context, q service.OrderListQuery) (*service.OrderPage, error) {
	return m.ListUserOrdersFunc(ctx, q)
}
