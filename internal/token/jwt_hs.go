package token

import (
	"context"
	"errors"
	"time"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/models"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/service"

	"github.com/golang-jwt/jwt/v5"
)

type HSProvider struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewHSProvider(secret string, ttl time.Duration) *HSProvider {
	return &HSProvider{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// В payload только id и role: всё остальное читается из базы по id.
type customClaims struct {
	ID   int    `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (p *HSProvider) SignAccess(ctx context.Context, userID int, role models.Role) (string, time.Time, error) {
	now := p.now()
	exp := now.Add(p.ttl)

	claims := customClaims{
		ID:   userID,
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(p.secret)
	return signed, exp, err
}

func (p *HSProvider) ParseAndValidateAccess(ctx context.Context, token string) (*service.Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &customClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(p.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, service.ErrTokenExpired
		}
		return nil, service.ErrInvalidToken
	}
	cc, ok := parsed.Claims.(*customClaims)
	if !ok || !parsed.Valid || cc.ID <= 0 {
		return nil, service.ErrInvalidToken
	}
	return &service.Claims{UserID: cc.ID, Role: models.Role(cc.Role), Exp: cc.ExpiresAt.Time}, nil
}
