package handlers

import (
	"net/http"
	"strings"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/dto"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const msgOrderNotFound = "Order not found."

type OrderHandler struct {
	orders service.OrderService
	log    *zap.Logger
}

func NewOrderHandler(orders service.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		log:    log,
	}
}

// Create godoc
// @Summary Оформление заказа
// @Description Проверяет наличие, списывает остатки и выдаёт номер заказа на текущий день
// @Tags orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param order body dto.CreateOrderRequest true "Данные заказа"
// @Success 201 {object} dto.Envelope{data=dto.OrderResponse}
// @Failure 400 {object} dto.ErrorResponse "Неверные данные или недостаточно товара"
// @Failure 401 {object} dto.ErrorResponse "Не авторизован"
// @Failure 404 {object} dto.ErrorResponse "Товары не найдены"
// @Failure 500 {object} dto.ErrorResponse "Не удалось оформить заказ"
// @Router /v1/user/orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	// несовпадение типов оставляет поле нулевым, сервис сообщит о нём сам
	if _, _, err := decodeBody(c, &req); err != nil {
		h.log.Warn("Invalid order request", zap.Error(err))
		fail(c, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	o, err := h.orders.CreateOrder(c.Request.Context(), req.ToInput())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	ok(c, http.StatusCreated, "Order created successfully.", dto.NewOrderResponse(o))
}

func orderListQuery(c *gin.Context, defLimit int) service.OrderListQuery {
	return service.OrderListQuery{
		Page:      queryInt(c, "page", 1),
		Limit:     queryInt(c, "limit", defLimit),
		Status:    c.Query("status"),
		OrderType: c.Query("order_type"),
		Search:    strings.TrimSpace(c.Query("search")),
	}
}

// ListMine godoc
// @Summary Мои заказы
// @Tags orders
// @Security BearerAuth
// @Produce json
// @Param page query int false "Страница" default(1)
// @Param limit query int false "Размер страницы (1..50)" default(10)
// @Param status query string false "Статус" Enums(PENDING, READY, COMPLETED)
// @Param order_type query string false "Тип заказа" Enums(DINE_IN, DELIVERY)
// @Success 200 {object} dto.Envelope{data=dto.OrderListResponse}
// @Failure 400 {object} dto.ErrorResponse "Неверные параметры"
// @Failure 401 {object} dto.ErrorResponse "Не авторизован"
// @Router /v1/user/orders [get]
func (h *OrderHandler) ListMine(c *gin.Context) {
	page, err := h.orders.ListUserOrders(c.Request.Context(), orderListQuery(c, service.DefaultUserOrderLimit))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, "Orders retrieved successfully.", dto.NewOrderListResponse(page))
}

// ListAll godoc
// @Summary Все заказы
// @Description Поиск по имени клиента, телефону или номеру заказа
// @Tags orders
// @Security BearerAuth
// @Produce json
// @Param page query int false "Страница" default(1)
// @Param limit query int false "Размер страницы (1..100)" default(20)
// @Param status query string false "Статус" Enums(PENDING, READY, COMPLETED)
// @Param order_type query string false "Тип заказа" Enums(DINE_IN, DELIVERY)
// @Param search query string false "Строка поиска"
// @Success 200 {object} dto.Envelope{data=dto.OrderListResponse}
// @Failure 400 {object} dto.ErrorResponse "Неверные параметры"
// @Failure 403 {object} dto.ErrorResponse "Нужны права администратора"
// @Router /v1/admin/orders [get]
func (h *OrderHandler) ListAll(c *gin.Context) {
	page, err := h.orders.AdminListOrders(c.Request.Context(), orderListQuery(c, service.DefaultAdminOrderLimit))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, "Orders retrieved successfully.", dto.NewOrderListResponse(page))
}

func (h *OrderHandler) get(c *gin.Context, invalidMsg string) {
	id, valid := pathID(c, invalidMsg, msgOrderNotFound)
	if !valid {
		return
	}

	o, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, "Order details retrieved successfully.", dto.NewOrderResponse(o))
}

// GetMine godoc
// @Summary Мой заказ
// @Tags orders
// @Security BearerAuth
// @Produce json
// @Param id path int true "ID заказа"
// @Success 200 {object} dto.Envelope{data=dto.OrderResponse}
// @Failure 400 {object} dto.ErrorResponse "Неверный ID"
// @Failure 404 {object} dto.ErrorResponse "Заказ не найден"
// @Router /v1/user/orders/{id} [get]
func (h *OrderHandler) GetMine(c *gin.Context) {
	h.get(c, "Invalid order ID format.")
}

// Get godoc
// @Summary Заказ по ID
// @Tags orders
// @Security BearerAuth
// @Produce json
// @Param id path int true "ID заказа"
// @Success 200 {object} dto.Envelope{data=dto.OrderResponse}
// @Failure 400 {object} dto.ErrorResponse "Неверный ID"
// @Failure 404 {object} dto.ErrorResponse "Заказ не найден"
// @Router /v1/admin/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	h.get(c, "Invalid order ID.")
}

// UpdateStatus godoc
// @Summary Смена статуса заказа
// @Tags orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "ID заказа"
// @Param status body dto.UpdateOrderStatusRequest true "Новый статус"
// @Success 200 {object} dto.Envelope{data=dto.OrderSummaryResponse}
// @Failure 400 {object} dto.ErrorResponse "Неверный ID или статус"
// @Failure 404 {object} dto.ErrorResponse "Заказ не найден"
// @Failure 500 {object} dto.ErrorResponse "Внутренняя ошибка"
// @Router /v1/admin/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, valid := pathID(c, "Invalid order ID.", msgOrderNotFound)
	if !valid {
		return
	}

	var req dto.UpdateOrderStatusRequest
	if _, _, err := decodeBody(c, &req); err != nil {
		h.log.Warn("Invalid order status request", zap.Error(err))
		fail(c, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	o, err := h.orders.UpdateOrderStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, "Order status updated successfully.", dto.NewOrderSummaryResponse(o))
}
