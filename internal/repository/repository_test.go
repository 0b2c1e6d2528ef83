package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/migrate"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/models"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/repository"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRepo(t *testing.T) *repository.Repository {
	t.Helper()
	db := testutil.SetupTestPostgres(t)
	require.NoError(t, migrate.MigrateShopDB(context.Background(), db, zap.NewNop(), migrate.DefaultMigrateOptions()))
	return repository.New(db)
}

func seedCategory(t *testing.T, repo *repository.Repository, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name}
	require.NoError(t, repo.Categories.Create(context.Background(), c))
	return c
}

func seedProduct(t *testing.T, repo *repository.Repository, catID int, name string, price int64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Price: price, StockQuantity: stock, CategoryID: catID}
	require.NoError(t, repo.Products.Create(context.Background(), p))
	return p
}

func TestUserRepo_CaseInsensitiveEmail(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	u := &models.User{Name: "Meera", Email: "meera@example.com", Password: "hash", Role: models.RoleCustomer}
	require.NoError(t, repo.Users.Create(ctx, u))

	got, err := repo.Users.GetByEmail(ctx, "MEERA@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)

	exists, err := repo.Users.ExistsByEmail(ctx, "Meera@Example.COM")
	require.NoError(t, err)
	assert.True(t, exists)

	err = repo.Users.Create(ctx, &models.User{Name: "Dup", Email: "Meera@Example.com", Password: "x", Role: models.RoleCustomer})
	assert.True(t, repository.IsUniqueViolation(err, ""), "got %v", err)

	missing, err := repo.Users.GetByID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCategoryRepo_NameUniqueness(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	c := seedCategory(t, repo, "Mithai")
	other := seedCategory(t, repo, "Namkeen")

	found, err := repo.Categories.FindByName(ctx, "MITHAI", 0)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, c.ID, found.ID)

	found, err = repo.Categories.FindByName(ctx, "mithai", c.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	err = repo.Categories.Create(ctx, &models.Category{Name: "mithai"})
	assert.True(t, repository.IsUniqueViolation(err, repository.CategoryNameIndex), "got %v", err)

	err = repo.Categories.UpdateName(ctx, other.ID, "MITHAI")
	assert.True(t, repository.IsUniqueViolation(err, repository.CategoryNameIndex), "got %v", err)

	list, err := repo.Categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Mithai", list[0].Name)
}

func TestProductRepo_ListFilters(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	sweets := seedCategory(t, repo, "Sweets")
	snacks := seedCategory(t, repo, "Snacks")
	seedProduct(t, repo, sweets.ID, "Kaju Katli", 2999, 10)
	seedProduct(t, repo, sweets.ID, "Rasgulla", 499, 0)
	seedProduct(t, repo, snacks.ID, "Kachori", 150, 5)

	list, total, err := repo.Products.List(ctx, repository.ProductListFilter{Limit: 12})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, "Kachori", list[0].Name, "newest first")
	require.NotNil(t, list[0].Category)
	assert.Equal(t, "Snacks", list[0].Category.Name)

	_, total, err = repo.Products.List(ctx, repository.ProductListFilter{CategoryID: &sweets.ID, InStock: true, Limit: 12})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	minPrice, maxPrice := int64(150), int64(499)
	list, total, err = repo.Products.List(ctx, repository.ProductListFilter{MinPrice: &minPrice, MaxPrice: &maxPrice, Limit: 12})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)

	list, _, err = repo.Products.List(ctx, repository.ProductListFilter{Search: "KAJU", Limit: 12})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Kaju Katli", list[0].Name)

	_, total, err = repo.Products.List(ctx, repository.ProductListFilter{Search: "100%", Limit: 12})
	require.NoError(t, err)
	assert.Zero(t, total)

	list, total, err = repo.Products.List(ctx, repository.ProductListFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, list, 1)
}

func TestProductRepo_DecrementStock(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	cat := seedCategory(t, repo, "Sweets")
	p := seedProduct(t, repo, cat.ID, "Barfi", 100, 3)

	ok, err := repo.Products.DecrementStock(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Products.DecrementStock(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok, "only 1 left")

	got, err := repo.Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.StockQuantity)
}

func TestProductRepo_WriteErrors(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	cat := seedCategory(t, repo, "Sweets")
	seedProduct(t, repo, cat.ID, "Peda", 100, 1)

	err := repo.Products.Create(ctx, &models.Product{Name: "PEDA", Price: 1, CategoryID: cat.ID})
	assert.True(t, repository.IsUniqueViolation(err, repository.ProductNameIndex), "got %v", err)

	err = repo.Products.Create(ctx, &models.Product{Name: "Ghost", Price: 1, CategoryID: 4242})
	assert.True(t, repository.IsForeignKeyViolation(err), "got %v", err)
}

func TestTokenCounterRepo_Next(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	today := time.Date(2024, 5, 1, 18, 30, 0, 0, time.Local)
	for want := 1; want <= 3; want++ {
		got, err := repo.TokenCounters.Next(ctx, today)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	got, err := repo.TokenCounters.Next(ctx, today.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, got, "new day restarts at 1")

	n, err := repo.TokenCounters.DeleteBefore(ctx, today.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestTokenCounterRepo_ConcurrentNext(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	day := time.Now()

	const n = 10
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = map[int]bool{}
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, err := repo.TokenCounters.Next(ctx, day)
			assert.NoError(t, err)
			mu.Lock()
			seen[tok] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
	for i := 1; i <= n; i++ {
		assert.True(t, seen[i], "token %d missing", i)
	}
}

func TestOrderRepo_ListAndOwnership(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	cat := seedCategory(t, repo, "Sweets")
	p := seedProduct(t, repo, cat.ID, "Ladoo", 50, 100)

	alice := &models.User{Name: "Alice", Email: "alice@example.com", Password: "x", Role: models.RoleCustomer}
	bob := &models.User{Name: "Bob", Email: "bob@example.com", Password: "x", Role: models.RoleCustomer}
	require.NoError(t, repo.Users.Create(ctx, alice))
	require.NoError(t, repo.Users.Create(ctx, bob))

	day := repository.DayOf(time.Now())
	mk := func(u *models.User, token int, name, phone string) *models.Order {
		o := &models.Order{
			UserID: u.ID, CustomerName: name, PhoneNumber: phone, TokenNumber: token, TokenDate: day,
			OrderType: models.OrderTypeDineIn, Status: models.OrderStatusPending, TotalAmount: 100,
		}
		require.NoError(t, repo.Orders.Create(ctx, o))
		require.NoError(t, repo.OrderItems.BulkCreate(ctx, []models.OrderItem{{OrderID: o.ID, ProductID: p.ID, Quantity: 2, Price: 50}}))
		return o
	}
	o1 := mk(alice, 1, "Alice A", "9876543210")
	mk(bob, 2, "Bob B", "9123456780")

	err := repo.Orders.Create(ctx, &models.Order{
		UserID: bob.ID, CustomerName: "Dup", PhoneNumber: "9000000000", TokenNumber: 1, TokenDate: day,
		OrderType: models.OrderTypeDineIn, Status: models.OrderStatusPending,
	})
	assert.True(t, repository.IsUniqueViolation(err, repository.OrderTokenIndex), "got %v", err)

	got, err := repo.Orders.GetByIDForUser(ctx, o1.ID, bob.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.Orders.GetByID(ctx, o1.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Ladoo", got.Items[0].Product.Name)

	list, total, err := repo.Orders.List(ctx, repository.OrderListFilter{UserID: &alice.ID, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, o1.ID, list[0].ID)

	list, _, err = repo.Orders.List(ctx, repository.OrderListFilter{Search: "2", WithUser: true, Limit: 20})
	require.NoError(t, err)
	require.Len(t, list, 2, "token 2 and phone containing 2")
	require.NotNil(t, list[0].User)

	list, _, err = repo.Orders.List(ctx, repository.OrderListFilter{Search: "bob", Limit: 20})
	require.NoError(t, err)
	require.Len(t, list, 1)

	updated, err := repo.Orders.UpdateStatus(ctx, o1.ID, models.OrderStatusReady)
	require.NoError(t, err)
	assert.True(t, updated)
	ready := models.OrderStatusReady
	_, total, err = repo.Orders.List(ctx, repository.OrderListFilter{Status: &ready, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestRepository_WithTxRollsBack(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	err := repo.WithTx(ctx, func(tx *repository.Repository) error {
		require.NoError(t, tx.Categories.Create(ctx, &models.Category{Name: "Temp"}))
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	found, err := repo.Categories.FindByName(ctx, "temp", 0)
	require.NoError(t, err)
	assert.Nil(t, found)

	require.NoError(t, repo.Ping(ctx))
}
