package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/dto"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/models"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Ключ gin-контекста с service.Identity
const CtxIdentity = "identity"

type authOptions struct {
	failureData any
}

type AuthOption func(*authOptions)

// WithFailureData задаёт поле data для ответов 401 (по умолчанию null).
func WithFailureData(data any) AuthOption {
	return func(o *authOptions) { o.failureData = data }
}

// AuthRequired проверяет bearer-токен и кладёт Identity в gin-контекст
// и в context.Context запроса.
func AuthRequired(tokens service.TokenProvider, log *zap.Logger, opts ...AuthOption) gin.HandlerFunc {
	var o authOptions
	for _, opt := range opts {
		opt(&o)
	}
	unauthorized := func(c *gin.Context, msg string) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail(msg, o.failureData))
	}

	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" {
			unauthorized(c, "Authorization header is required.")
			return
		}
		token, ok := ExtractBearerToken(authz)
		if !ok {
			unauthorized(c, "Bearer token is required.")
			return
		}
		if token == "" {
			unauthorized(c, "Token is required.")
			return
		}

		claims, err := tokens.ParseAndValidateAccess(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrTokenExpired) {
				unauthorized(c, "Token has expired.")
				return
			}
			log.Debug("token rejected", zap.Error(err))
			unauthorized(c, "Invalid token.")
			return
		}

		id := service.Identity{UserID: claims.UserID, Role: claims.Role}
		c.Set(CtxIdentity, id)
		c.Request = c.Request.WithContext(service.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// ExtractBearerToken возвращает часть заголовка после "Bearer ".
// ok=false, если схема не Bearer; пустой токен возвращается как "".
func ExtractBearerToken(authz string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(authz, prefix) {
		return "", false
	}
	return strings.TrimSpace(authz[len(prefix):]), true
}

func IdentityFrom(c *gin.Context) (service.Identity, bool) {
	v, ok := c.Get(CtxIdentity)
	if !ok {
		return service.Identity{}, false
	}
	id, ok := v.(service.Identity)
	return id, ok
}

// RequireRole пропускает только пользователей с указанной ролью.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail("Authentication required.", nil))
			return
		}
		if id.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.Fail("Admin access required.", nil))
			return
		}
		c.Next()
	}
}
