package token

import (
	"context"
	"testing"
	"time"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/models"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHSProvider_SignAndParse(t *testing.T) {
	p := NewHSProvider("test-secret", 24*time.Hour)
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	tok, exp, err := p.SignAccess(context.Background(), 42, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(24*time.Hour), exp)

	claims, err := p.ParseAndValidateAccess(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.True(t, claims.Exp.Equal(exp))
}

func TestHSProvider_Expired(t *testing.T) {
	p := NewHSProvider("test-secret", time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	p.now = func() time.Time { return issued }

	tok, _, err := p.SignAccess(context.Background(), 1, models.RoleCustomer)
	require.NoError(t, err)

	p.now = time.Now
	_, err = p.ParseAndValidateAccess(context.Background(), tok)
	assert.ErrorIs(t, err, service.ErrTokenExpired)
}

func TestHSProvider_Invalid(t *testing.T) {
	p := NewHSProvider("test-secret", time.Hour)
	other := NewHSProvider("another-secret", time.Hour)

	foreign, _, err := other.SignAccess(context.Background(), 1, models.RoleCustomer)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, customClaims{
		ID:   1,
		Role: "ADMIN",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"garbage":      "not-a-jwt",
		"wrong secret": foreign,
		"alg none":     unsigned,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := p.ParseAndValidateAccess(context.Background(), tok)
			assert.ErrorIs(t, err, service.ErrInvalidToken)
		})
	}
}
