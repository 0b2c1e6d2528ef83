package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/models"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/repository"

	"go.uber.org/zap"
)

const minPasswordLen = 8

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type AuthService struct {
	users  repository.UserRepo
	hasher PasswordHasher
	tokens TokenProvider

	log *zap.Logger
}

func NewAuthService(users repository.UserRepo, hasher PasswordHasher, tokens TokenProvider, log *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		log:    log,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string // пусто = CUSTOMER
}

type LoginResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

func validateRegister(in RegisterInput) *ValidationError {
	var fields []FieldError

	if strings.TrimSpace(in.Name) == "" {
		fields = append(fields, FieldError{Field: "name", Message: "Name is required."})
	}

	email := strings.TrimSpace(in.Email)
	switch {
	case email == "":
		fields = append(fields, FieldError{Field: "email", Message: "Email is required."})
	case !emailRe.MatchString(email):
		fields = append(fields, FieldError{Field: "email", Message: "Please provide a valid email address."})
	}

	switch {
	case in.Password == "":
		fields = append(fields, FieldError{Field: "password", Message: "Password is required."})
	case len(in.Password) < minPasswordLen:
		fields = append(fields, FieldError{Field: "password", Message: "Password is too weak. It must be at least 8 characters long."})
	}

	if in.Role != "" && !models.Role(in.Role).Valid() {
		fields = append(fields, FieldError{Field: "role", Message: "Role must be ADMIN or CUSTOMER."})
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{
		Message: "Invalid input for " + fields[0].Field + ".",
		Fields:  fields,
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if verr := validateRegister(in); verr != nil {
		return nil, verr
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	role := models.RoleCustomer
	if in.Role != "" {
		role = models.Role(in.Role)
	}

	u := &models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: hash,
		Role:     role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// параллельная регистрация с тем же адресом
		if repository.IsUniqueViolation(err, "") {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	s.log.Info("user registered", zap.Int("user_id", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, invalid("Email and password are required.")
	}
	if !emailRe.MatchString(email) {
		return nil, invalid("Please provide a valid email address.")
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}
	if user == nil || !s.hasher.Compare(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.tokens.SignAccess(ctx, user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: user, Token: token, ExpiresAt: exp}, nil
}

// Verify возвращает актуальную запись пользователя по идентичности из токена.
func (s *AuthService) Verify(ctx context.Context) (*models.User, error) {
	id, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *AuthService) ParseToken(ctx context.Context, token string) (*Claims, error) {
	return s.tokens.ParseAndValidateAccess(ctx, token)
}
