package handlers

import (
	"net/http"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/dto"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgInvalidCategoryID = "Invalid category ID format."
	msgCategoryNotFound  = "Category not found."
)

type CategoryHandler struct {
	categories service.CategoryService
	log        *zap.Logger
}

func NewCategoryHandler(categories service.CategoryService, log *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categories: categories,
		log:        log,
	}
}

// readName разбирает {"name": ...}. ok=false означает, что ответ уже отправлен.
func (h *CategoryHandler) readName(c *gin.Context) (string, bool) {
	var req dto.CategoryRequest
	empty, typeErr, err := decodeBody(c, &req)
	switch {
	case err != nil:
		h.log.Warn("Invalid category request", zap.Error(err))
		fail(c, http.StatusBadRequest, msgInvalidJSON)
		return "", false
	case empty:
		fail(c, http.StatusBadRequest, msgBodyNeeded)
		return "", false
	case fieldIs(typeErr, "name"):
		fail(c, http.StatusBadRequest, "Category name must be a string.")
		return "", false
	}
	return req.Name, true
}

// Create godoc
// @Summary Создание категории
// @Tags categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param category body dto.CategoryRequest true "Название категории"
// @Success 201 {object} dto.Envelope{data=dto.CategoryResponse}
// @Failure 400 {object} dto.ErrorResponse "Неверные данные"
// @Failure 401 {object} dto.ErrorResponse "Не авторизован"
// @Failure 403 {object} dto.ErrorResponse "Нужны права администратора"
// @Failure 409 {object} dto.ErrorResponse "Категория уже существует"
// @Failure 500 {object} dto.ErrorResponse "Внутренняя ошибка"
// @Router /v1/admin/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	name, valid := h.readName(c)
	if !valid {
		return
	}

	cat, err := h.categories.Create(c.Request.Context(), name)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	ok(c, http.StatusCreated, "Category created successfully.", dto.NewCategoryResponse(cat))
}

// Update godoc
// @Summary Переименование категории
// @Tags categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "ID категории"
// @Param category body dto.CategoryRequest true "Новое название"
// @Success 200 {object} dto.Envelope{data=dto.CategoryResponse}
// @Failure 400 {object} dto.ErrorResponse "Неверные данные"
// @Failure 404 {object} dto.ErrorResponse "Категория не найдена"
// @Failure 409 {object} dto.ErrorResponse "Категория уже существует"
// @Failure 500 {object} dto.ErrorResponse "Внутренняя ошибка"
// @Router /v1/admin/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	name, valid := h.readName(c)
	if !valid {
		return
	}
	id, valid := pathID(c, msgInvalidCategoryID, msgCategoryNotFound)
	if !valid {
		return
	}

	cat, err := h.categories.Update(c.Request.Context(), id, name)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, "Category updated successfully.", dto.NewCategoryResponse(cat))
}

// Delete godoc
// @Summary Удаление категории
// @Description Каскадно удаляет товары категории и позиции заказов с ними
// @Tags categories
// @Security BearerAuth
// @Produce json
// @Param id path int true "ID категории"
// @Success 200 {object} dto.Envelope{data=dto.CategoryDeleteResponse}
// @Failure 400 {object} dto.ErrorResponse "Неверный ID"
// @Failure 404 {object} dto.ErrorResponse "Категория не найдена"
// @Failure 500 {object} dto.ErrorResponse "Внутренняя ошибка"
// @Router /v1/admin/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, valid := pathID(c, msgInvalidCategoryID, msgCategoryNotFound)
	if !valid {
		return
	}

	res, err := h.categories.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, "Category deleted successfully.", dto.NewCategoryDeleteResponse(res))
}

// List godoc
// @Summary Список категорий
// @Tags categories
// @Produce json
// @Success 200 {object} dto.Envelope{data=dto.CategoryListResponse}
// @Failure 500 {object} dto.ErrorResponse "Внутренняя ошибка"
// @Router /v1/user/listCategories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.categories.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, "Categories retrieved successfully.", dto.NewCategoryListResponse(list))
}

// Get godoc
// @Summary Категория по ID
// @Tags categories
// @Produce json
// @Param id path int true "ID категории"
// @Success 200 {object} dto.Envelope{data=dto.CategoryResponse}
// @Failure 400 {object} dto.ErrorResponse "Неверный ID"
// @Failure 404 {object} dto.ErrorResponse "Категория не найдена"
// @Router /v1/user/categories/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	id, valid := pathID(c, msgInvalidCategoryID, msgCategoryNotFound)
	if !valid {
		return
	}

	cat, err := h.categories.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, "Category retrieved successfully.", dto.NewCategoryResponse(cat))
}

