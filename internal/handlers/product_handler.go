package handlers

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strings"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/dto"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgInvalidProductID = "Valid product ID is required."
	msgProductNotFound  = "Product not found."
)

type ProductHandler struct {
	products service.ProductService
	log      *zap.Logger
}

func NewProductHandler(products service.ProductService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		log:      log,
	}
}

// productTypeMessage - текст ошибки для поля товара неверного JSON-типа.
// Пустая строка: поле считается отсутствующим.
func productTypeMessage(typeErr *json.UnmarshalTypeError, update bool) string {
	switch {
	case typeErr == nil:
		return ""
	case fieldIs(typeErr, "name"):
		if update {
			return "Product name must be a non-empty string."
		}
		return ""
	case fieldIs(typeErr, "price"):
		return "Price must be a positive number."
	case fieldIs(typeErr, "stock_quantity"):
		return "Stock quantity must be 0 or greater."
	case fieldIs(typeErr, "categoryId"):
		return "Valid category ID is required."
	case fieldIs(typeErr, "image_urls"):
		// string: неверный элемент массива; иначе не массив целиком
		if typeErr.Type != nil && typeErr.Type.Kind() == reflect.String {
			return "All image URLs must be valid URLs."
		}
		return "Image URLs must be an array."
	case fieldIs(typeErr, "description"):
		return "Description must be a string."
	}
	return msgInvalidJSON
}

// Create godoc
// @Summary Добавление товара
// @Tags products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param product body dto.ProductCreateRequest true "Данные товара (цена в минимальных единицах)"
// @Success 201 {object} dto.Envelope{data=dto.ProductResponse}
// @Failure 400 {object} dto.ErrorResponse "Неверные данные"
// @Failure 401 {object} dto.ErrorResponse "Не авторизован"
// @Failure 403 {object} dto.ErrorResponse "Нужны права администратора"
// @Failure 404 {object} dto.ErrorResponse "Категория не найдена"
// @Failure 409 {object} dto.ErrorResponse "Товар уже существует"
// @Failure 500 {object} dto.ErrorResponse "Внутренняя ошибка"
// @Router /v1/admin/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.ProductCreateRequest
	_, typeErr, err := decodeBody(c, &req)
	if err != nil {
		h.log.Warn("Invalid product request", zap.Error(err))
		fail(c, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	if msg := productTypeMessage(typeErr, false); msg != "" {
		fail(c, http.StatusBadRequest, msg)
		return
	}

	p, err := h.products.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	ok(c, http.StatusCreated, "Product added successfully.", dto.NewProductResponse(p))
}

// Update godoc
// @Summary Изменение товара
// @Description Обновляет только переданные поля
// @Tags products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "ID товара"
// @Param product body dto.ProductUpdateRequest true "Изменяемые поля"
// @Success 200 {object} dto.Envelope{data=dto.ProductResponse}
// @Failure 400 {object} dto.ErrorResponse "Неверные данные"
// @Failure 404 {object} dto.ErrorResponse "Товар или категория не найдены"
// @Failure 409 {object} dto.ErrorResponse "Товар уже существует"
// @Failure 500 {object} dto.ErrorResponse "Внутренняя ошибка"
// @Router /v1/admin/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, valid := pathID(c, msgInvalidProductID, msgProductNotFound)
	if !valid {
		return
	}

	var req dto.ProductUpdateRequest
	_, typeErr, err := decodeBody(c, &req)
	if err != nil {
		h.log.Warn("Invalid product update request", zap.Error(err))
		fail(c, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	if msg := productTypeMessage(typeErr, true); msg != "" {
		fail(c, http.StatusBadRequest, msg)
		return
	}

	p, err := h.products.Update(c.Request.Context(), id, req.ToPatch())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, "Product updated successfully.", dto.NewProductResponse(p))
}

// Delete godoc
// @Summary Удаление товара
// @Description Удаляет товар и позиции заказов, которые на него ссылаются
// @Tags products
// @Security BearerAuth
// @Produce json
// @Param id path int true "ID товара"
// @Success 200 {object} dto.Envelope{data=dto.ProductDeleteResponse}
// @Failure 400 {object} dto.ErrorResponse "Неверный ID"
// @Failure 404 {object} dto.ErrorResponse "Товар не найден"
// @Failure 500 {object} dto.ErrorResponse "Внутренняя ошибка"
// @Router /v1/admin/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, valid := pathID(c, msgInvalidProductID, msgProductNotFound)
	if !valid {
		return
	}

	res, err := h.products.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, "Product deleted successfully.", dto.NewProductDeleteResponse(res))
}

// List godoc
// @Summary Каталог товаров
// @Tags products
// @Produce json
// @Param page query int false "Страница" default(1)
// @Param limit query int false "Размер страницы (1..50)" default(12)
// @Param categoryId query int false "Фильтр по категории"
// @Param search query string false "Поиск по названию и описанию"
// @Param minPrice query int false "Минимальная цена"
// @Param maxPrice query int false "Максимальная цена"
// @Param inStock query bool false "Только в наличии"
// @Success 200 {object} dto.Envelope{data=dto.ProductListResponse}
// @Failure 400 {object} dto.ErrorResponse "Неверные параметры"
// @Failure 500 {object} dto.ErrorResponse "Внутренняя ошибка"
// @Router /v1/user/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	q := service.ProductListQuery{
		Page:       queryInt(c, "page", 1),
		Limit:      queryInt(c, "limit", service.DefaultProductLimit),
		CategoryID: optionalQueryInt(c, "categoryId"),
		Search:     strings.TrimSpace(c.Query("search")),
		MinPrice:   optionalQueryInt64(c, "minPrice"),
		MaxPrice:   optionalQueryInt64(c, "maxPrice"),
		InStock:    c.Query("inStock") == "true",
	}

	page, err := h.products.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, "Products retrieved successfully.", dto.NewProductListResponse(page))
}

// Get godoc
// @Summary Карточка товара
// @Tags products
// @Produce json
// @Param id path int true "ID товара"
// @Success 200 {object} dto.Envelope{data=dto.ProductResponse}
// @Failure 400 {object} dto.ErrorResponse "Неверный ID"
// @Failure 404 {object} dto.ErrorResponse "Товар не найден"
// @Failure 500 {object} dto.ErrorResponse "Внутренняя ошибка"
// @Router /v1/user/products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, valid := pathID(c, msgInvalidProductID, msgProductNotFound)
	if !valid {
		return
	}

	p, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, "Product details retrieved successfully.", dto.NewProductResponse(p))
}
