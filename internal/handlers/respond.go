package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/dto"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgUnexpected  = "An unexpected error occurred."
	msgInvalidJSON = "Invalid JSON body."
	msgBodyNeeded  = "Request body is required."
)

func ok(c *gin.Context, status int, message string, data any) {
	c.JSON(status, dto.OK(message, data))
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, dto.Fail(message, nil))
}

// respondError переводит ошибку сервиса в HTTP-статус и конверт ответа.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var (
		verr    *service.ValidationError
		missing *service.MissingProductsError
		stock   *service.InsufficientStockError
	)
	switch {
	case errors.As(err, &verr):
		var data any
		if len(verr.Fields) > 0 {
			data = verr.Fields
		}
		c.JSON(http.StatusBadRequest, dto.Fail(verr.Message, data))
	case errors.As(err, &missing):
		fail(c, http.StatusNotFound, missing.Error())
	case errors.As(err, &stock):
		fail(c, http.StatusBadRequest, stock.Error())

	case errors.Is(err, service.ErrUnauthorized):
		fail(c, http.StatusUnauthorized, "Authentication required.")
	case errors.Is(err, service.ErrForbidden):
		fail(c, http.StatusForbidden, "Admin access required.")
	case errors.Is(err, service.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, "Invalid email or password.")
	case errors.Is(err, service.ErrUserNotFound):
		fail(c, http.StatusUnauthorized, "User not found.")
	case errors.Is(err, service.ErrEmailExists):
		fail(c, http.StatusConflict, "An account with this email already exists.")

	case errors.Is(err, service.ErrCategoryNotFound):
		fail(c, http.StatusNotFound, "Category not found.")
	case errors.Is(err, service.ErrCategoryExists):
		fail(c, http.StatusConflict, "Category with this name already exists.")
	case errors.Is(err, service.ErrProductNotFound):
		fail(c, http.StatusNotFound, "Product not found.")
	case errors.Is(err, service.ErrProductExists):
		fail(c, http.StatusConflict, "Product with this name already exists.")
	case errors.Is(err, service.ErrOrderNotFound):
		fail(c, http.StatusNotFound, "Order not found.")
	case errors.Is(err, service.ErrInvalidStatus):
		fail(c, http.StatusBadRequest, "Valid status is required (PENDING, READY, COMPLETED).")

	case errors.Is(err, service.ErrOrderProcessingFailed):
		log.Error("order transaction failed", zap.Error(err), zap.String("path", c.FullPath()))
		fail(c, http.StatusInternalServerError, "Order processing failed. Please try again.")
	default:
		log.Error("unexpected error", zap.Error(err), zap.String("path", c.FullPath()))
		fail(c, http.StatusInternalServerError, msgUnexpected)
	}
}

// pathID разбирает :id. При ошибке ответ уже записан и ok=false.
// Числа за пределами int4 заведомо не существуют, поэтому это 404.
func pathID(c *gin.Context, invalidMsg, notFoundMsg string) (int, bool) {
	id, err := service.ParseID(c.Param("id"))
	switch {
	case err == nil:
		return id, true
	case errors.Is(err, service.ErrIDOutOfRange):
		fail(c, http.StatusNotFound, notFoundMsg)
	default:
		fail(c, http.StatusBadRequest, invalidMsg)
	}
	return 0, false
}

// decodeBody разбирает JSON тела. Пустое тело не ошибка (empty=true, dst не тронут).
// encoding/json продолжает разбор после несовпадения типа и возвращает
// первое такое несовпадение: остальные поля dst уже заполнены.
func decodeBody(c *gin.Context, dst any) (empty bool, typeErr *json.UnmarshalTypeError, err error) {
	err = c.ShouldBindJSON(dst)
	switch {
	case err == nil:
		return false, nil, nil
	case errors.Is(err, io.EOF):
		return true, nil, nil
	case errors.As(err, &typeErr):
		return false, typeErr, nil
	}
	return false, nil, err
}

func fieldIs(typeErr *json.UnmarshalTypeError, name string) bool {
	return typeErr != nil && (typeErr.Field == name || strings.HasPrefix(typeErr.Field, name+"."))
}

// queryInt: отсутствующий параметр даёт def, нечисловой даёт 0
// (сервис отклонит его как неверную страницу или лимит).
func queryInt(c *gin.Context, key string, def int) int {
	raw, present := c.GetQuery(key)
	if !present || raw == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}

// Необязательные фильтры: нечисловое значение игнорируется.
func optionalQueryInt(c *gin.Context, key string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return nil
	}
	return &n
}

func optionalQueryInt64(c *gin.Context, key string) *int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(c.Query(key)), 10, 64)
	if err != nil {
		return nil
	}
	return &n
}
