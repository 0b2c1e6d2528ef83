package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/models"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/service"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuth(users *MockUserRepo, tokens *MockTokenProvider) *service.AuthService {
	if tokens == nil {
		tokens = &MockTokenProvider{}
	}
	return service.NewAuthService(users, MockHasher{}, tokens, zap.NewNop())
}

func TestAuthService_Register_Success(t *testing.T) {
	var created *models.User
	users := &MockUserRepo{
		CreateFunc: func(ctx context.Context, u *models.User) error {
			u.ID = 7
			created = u
			return nil
		},
	}
	svc := newAuth(users, nil)

	u, err := svc.Register(context.Background(), service.RegisterInput{
		Name:     "Asha",
		Email:    "  Asha@Example.COM ",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, 7, u.ID)
	assert.Equal(t, "asha@example.com", created.Email)
	assert.Equal(t, models.RoleCustomer, created.Role)
	assert.Equal(t, "hashed:password123", created.Password)
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newAuth(&MockUserRepo{}, nil)

	_, err := svc.Register(context.Background(), service.RegisterInput{Email: "bad", Password: "short"})
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Invalid input for name.", verr.Message)
	require.Len(t, verr.Fields, 3)
	assert.Equal(t, service.FieldError{Field: "name", Message: "Name is required."}, verr.Fields[0])
	assert.Equal(t, "Please provide a valid email address.", verr.Fields[1].Message)
	assert.Equal(t, "Password is too weak. It must be at least 8 characters long.", verr.Fields[2].Message)

	_, err = svc.Register(context.Background(), service.RegisterInput{
		Name: "A", Email: "a@b.co", Password: "password123", Role: "ROOT",
	})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Invalid input for role.", verr.Message)
	assert.Equal(t, "Role must be ADMIN or CUSTOMER.", verr.Fields[0].Message)
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newAuth(&MockUserRepo{
		ExistsByEmailFunc: func(ctx context.Context, email string) (bool, error) { return true, nil },
	}, nil)
	_, err := svc.Register(context.Background(), service.RegisterInput{Name: "A", Email: "a@b.co", Password: "password123"})
	assert.ErrorIs(t, err, service.ErrEmailExists)

	// гонка: проверка прошла, но сработал уникальный индекс
	svc = newAuth(&MockUserRepo{
		CreateFunc: func(ctx context.Context, u *models.User) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "ux_users_email"}
		},
	}, nil)
	_, err = svc.Register(context.Background(), service.RegisterInput{Name: "A", Email: "a@b.co", Password: "password123"})
	assert.ErrorIs(t, err, service.ErrEmailExists)
}

func TestAuthService_Register_AdminRole(t *testing.T) {
	svc := newAuth(&MockUserRepo{}, nil)
	u, err := svc.Register(context.Background(), service.RegisterInput{
		Name: "Boss", Email: "boss@shop.in", Password: "password123", Role: "ADMIN",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
}

func TestAuthService_Login(t *testing.T) {
	stored := &models.User{ID: 3, Email: "asha@example.com", Password: "hashed:password123", Role: models.RoleCustomer}
	var lookedUp string
	users := &MockUserRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			lookedUp = email
			if email == stored.Email {
				return stored, nil
			}
			return nil, nil
		},
	}
	exp := time.Now().Add(24 * time.Hour)
	tokens := &MockTokenProvider{
		SignAccessFunc: func(ctx context.Context, userID int, role models.Role) (string, time.Time, error) {
			return "signed-3", exp, nil
		},
	}
	svc := newAuth(users, tokens)

	res, err := svc.Login(context.Background(), "ASHA@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", lookedUp)
	assert.Equal(t, "signed-3", res.Token)
	assert.Equal(t, 3, res.User.ID)

	_, err = svc.Login(context.Background(), "asha@example.com", "wrong-password")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody@example.com", "password123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuthService_Login_Validation(t *testing.T) {
	svc := newAuth(&MockUserRepo{}, nil)

	_, err := svc.Login(context.Background(), "", "x")
	assert.EqualError(t, err, "Email and password are required.")

	_, err = svc.Login(context.Background(), "not-an-email", "password123")
	assert.EqualError(t, err, "Please provide a valid email address.")
}

func TestAuthService_Verify(t *testing.T) {
	users := &MockUserRepo{
		GetByIDFunc: func(ctx context.Context, id int) (*models.User, error) {
			if id == 5 {
				return &models.User{ID: 5, Name: "Ravi"}, nil
			}
			return nil, nil
		},
	}
	svc := newAuth(users, nil)

	_, err := svc.Verify(context.Background())
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	u, err := svc.Verify(customerCtx(5))
	require.NoError(t, err)
	assert.Equal(t, "Ravi", u.Name)

	_, err = svc.Verify(customerCtx(9))
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestAuthService_Register_StoreError(t *testing.T) {
	boom := errors.New("db down")
	svc := newAuth(&MockUserRepo{
		ExistsByEmailFunc: func(ctx context.Context, email string) (bool, error) { return false, boom },
	}, nil)
	_, err := svc.Register(context.Background(), service.RegisterInput{
		Name: "A", Email: "a@b.co", Password: strings.Repeat("x", 8),
	})
	assert.ErrorIs(t, err, boom)
}
