package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/models"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/repository"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/service"
)

// Моки зависимостей сервисов

type MockUserRepo struct {
	CreateFunc        func(ctx context.Context, u *models.User) error
	GetByIDFunc       func(ctx context.Context, id int) (*models.User, error)
	GetByEmailFunc    func(ctx context.Context, email string) (*models.User, error)
	ExistsByEmailFunc func(ctx context.Context, email string) (bool, error)
}

func (m *MockUserRepo) Create(ctx context.Context, u *models.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	return nil
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.ExistsByEmailFunc != nil {
		return m.ExistsByEmailFunc(ctx, email)
	}
	return false, nil
}

type MockCategoryRepo struct {
	CreateFunc     func(ctx context.Context, c *models.Category) error
	GetByIDFunc    func(ctx context.Context, id int) (*models.Category, error)
	FindByNameFunc func(ctx context.Context, name string, excludeID int) (*models.Category, error)
	UpdateNameFunc func(ctx context.Context, id int, name string) error
	ListFunc       func(ctx context.Context) ([]models.Category, error)
	DeleteFunc     func(ctx context.Context, id int) (bool, error)
}

func (m *MockCategoryRepo) Create(ctx context.Context, c *models.Category) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	return nil
}

func (m *MockCategoryRepo) GetByID(ctx context.Context, id int) (*models.Category, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCategoryRepo) FindByName(ctx context.Context, name string, excludeID int) (*models.Category, error) {
	if m.FindByNameFunc != nil {
		return m.FindByNameFunc(ctx, name, excludeID)
	}
	return nil, nil
}

func (m *MockCategoryRepo) UpdateName(ctx context.Context, id int, name string) error {
	if m.UpdateNameFunc != nil {
		return m.UpdateNameFunc(ctx, id, name)
	}
	return nil
}

func (m *MockCategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockCategoryRepo) Delete(ctx context.Context, id int) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return false, nil
}

type MockProductRepo struct {
	repository.ProductRepo // не переопределённые методы паникуют

	CreateFunc        func(ctx context.Context, p *models.Product) error
	UpdateFieldsFunc  func(ctx context.Context, id int, fields map[string]any) error
	GetByIDFunc       func(ctx context.Context, id int) (*models.Product, error)
	FindByNameFunc    func(ctx context.Context, name string, excludeID int) (*models.Product, error)
	ListFunc          func(ctx context.Context, f repository.ProductListFilter) ([]models.Product, int64, error)
	BatchGetByIDsFunc func(ctx context.Context, ids []int) ([]models.Product, error)
}

func (m *MockProductRepo) Create(ctx context.Context, p *models.Product) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return nil
}

func (m *MockProductRepo) UpdateFields(ctx context.Context, id int, fields map[string]any) error {
	if m.UpdateFieldsFunc != nil {
		return m.UpdateFieldsFunc(ctx, id, fields)
	}
	return nil
}

func (m *MockProductRepo) GetByID(ctx context.Context, id int) (*models.Product, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockProductRepo) FindByName(ctx context.Context, name string, excludeID int) (*models.Product, error) {
	if m.FindByNameFunc != nil {
		return m.FindByNameFunc(ctx, name, excludeID)
	}
	return nil, nil
}

func (m *MockProductRepo) List(ctx context.Context, f repository.ProductListFilter) ([]models.Product, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return nil, 0, nil
}

func (m *MockProductRepo) BatchGetByIDs(ctx context.Context, ids []int) ([]models.Product, error) {
	if m.BatchGetByIDsFunc != nil {
		return m.BatchGetByIDsFunc(ctx, ids)
	}
	return nil, nil
}

type MockHasher struct{}

func (MockHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (MockHasher) Compare(hash, password string) bool  { return hash == "hashed:"+password }

type MockTokenProvider struct {
	SignAccessFunc func(ctx context.Context, userID int, role models.Role) (string, time.Time, error)
	ParseFunc      func(ctx context.Context, token string) (*service.Claims, error)
}

func (m *MockTokenProvider) SignAccess(ctx context.Context, userID int, role models.Role) (string, time.Time, error) {
	if m.SignAccessFunc != nil {
		return m.SignAccessFunc(ctx, userID, role)
	}
	return "token", time.Now().Add(time.Hour), nil
}

func (m *MockTokenProvider) ParseAndValidateAccess(ctx context.Context, token string) (*service.Claims, error) {
	if m.ParseFunc != nil {
		return m.ParseFunc(ctx, token)
	}
	return nil, service.ErrInvalidToken
}

// MockCache - кэш в памяти с учётом инвалидаций.
type MockCache struct {
	mu              sync.Mutex
	categories      []models.Category
	hasCategories   bool
	products        map[int]*models.Product
	InvalidatedCats int
	InvalidatedIDs  []int
	InvalidatedAll  int
}

func NewMockCache() *MockCache { return &MockCache{products: map[int]*models.Product{}} }

func (c *MockCache) GetCategories(ctx context.Context) ([]models.Category, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.categories, c.hasCategories
}

func (c *MockCache) SetCategories(ctx context.Context, list []models.Category) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.categories, c.hasCategories = list, true
}

func (c *MockCache) InvalidateCategories(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.categories, c.hasCategories = nil, false
	c.InvalidatedCats++
}

func (c *MockCache) GetProduct(ctx context.Context, id int) (*models.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[id]
	return p, ok
}

func (c *MockCache) SetProduct(ctx context.Context, p *models.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[p.ID] = p
}

func (c *MockCache) InvalidateProducts(ctx context.Context, ids ...int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.products, id)
	}
	c.InvalidatedIDs = append(c.InvalidatedIDs, ids...)
}

func (c *MockCache) InvalidateAllProducts(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = map[int]*models.Product{}
	c.InvalidatedAll++
}

type MockEventBus struct {
	mu      sync.Mutex
	Created []service.OrderCreatedEvent
	Changed []service.OrderStatusChangedEvent
	Err     error
}

func (m *MockEventBus) PublishOrderCreated(ctx context.Context, e service.OrderCreatedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Created = append(m.Created, e)
	return m.Err
}

func (m *MockEventBus) PublishOrderStatusChanged(ctx context.Context, e service.OrderStatusChangedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Changed = append(m.Changed, e)
	return m.Err
}

func adminCtx() context.Context {
	return service.WithIdentity(context.Background(), service.Identity{UserID: 1, Role: models.RoleAdmin})
}

func customerCtx(id int) context.Context {
	return service.WithIdentity(context.Background(), service.Identity{UserID: id, Role: models.RoleCustomer})
}
