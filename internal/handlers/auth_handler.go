package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/dto"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/models"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
	Verify(ctx context.Context) (*models.User, error)
}

type AuthHandler struct {
	auth AuthService
	log  *zap.Logger
}

func NewAuthHandler(auth AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth: auth,
		log:  log,
	}
}

// Register godoc
// @Summary Регистрация пользователя
// @Description Создаёт пользователя. Роль необязательна, по умолчанию CUSTOMER
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "Данные регистрации"
// @Success 201 {object} dto.Envelope{data=dto.UserResponse} "Пользователь создан"
// @Failure 400 {object} dto.Envelope{data=[]service.FieldError} "Неверные данные"
// @Failure 409 {object} dto.ErrorResponse "Email уже занят"
// @Failure 429 {object} dto.ErrorResponse "Слишком много запросов"
// @Failure 500 {object} dto.ErrorResponse "Внутренняя ошибка"
// @Router /v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	empty, _, err := decodeBody(c, &req)
	if err != nil {
		h.log.Warn("Invalid registration request", zap.Error(err))
		fail(c, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	if empty {
		fail(c, http.StatusBadRequest, msgBodyNeeded)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	ok(c, http.StatusCreated, "User registered successfully.", dto.NewUserResponse(user))
}

// Login godoc
// @Summary Вход
// @Description Проверяет email и пароль, выдаёт bearer-токен
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Данные для входа"
// @Success 200 {object} dto.Envelope{data=dto.LoginResponse}
// @Failure 400 {object} dto.ErrorResponse "Неверные данные"
// @Failure 401 {object} dto.ErrorResponse "Неверный email или пароль"
// @Failure 429 {object} dto.ErrorResponse "Слишком много запросов"
// @Failure 500 {object} dto.ErrorResponse "Внутренняя ошибка"
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if _, _, err := decodeBody(c, &req); err != nil {
		h.log.Warn("Invalid login request", zap.Error(err))
		fail(c, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	ok(c, http.StatusOK, "Login successful.", dto.LoginResponse{
		User:  dto.NewUserResponse(res.User),
		Token: res.Token,
	})
}

// Verify godoc
// @Summary Проверка токена
// @Description Проверяет bearer-токен и возвращает актуальные данные пользователя
// @Security BearerAuth
// @Tags auth
// @Produce json
// @Success 200 {object} dto.Envelope{data=dto.VerifyResponse}
// @Failure 401 {object} dto.Envelope{data=dto.VerifyResponse} "Токен недействителен или пользователь удалён"
// @Failure 500 {object} dto.Envelope{data=dto.VerifyResponse} "Внутренняя ошибка"
// @Router /v1/auth/verify [get]
func (h *AuthHandler) Verify(c *gin.Context) {
	invalid := dto.VerifyResponse{Valid: false}

	user, err := h.auth.Verify(c.Request.Context())
	switch {
	case err == nil:
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, dto.Fail("User not found.", invalid))
		return
	default:
		h.log.Error("Verify failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.Fail(msgUnexpected, invalid))
		return
	}

	resp := dto.NewUserResponse(user)
	ok(c, http.StatusOK, "Token is valid.", dto.VerifyResponse{Valid: true, User: &resp})
}
