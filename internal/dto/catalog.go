package dto

import (
	"math"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/models"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/service"
)

type CategoryRequest struct {
	Name string `json:"name" example:"Mithai"`
}

type CategoryResponse struct {
	ID        int    `json:"id" example:"1"`
	Name      string `json:"name" example:"Mithai"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories"`
	Total      int                `json:"total"`
}

type CategoryDeleteResponse struct {
	ID                     int    `json:"id"`
	Name                   string `json:"name"`
	Deleted                bool   `json:"deleted"`
	DeletedProductsCount   int64  `json:"deletedProductsCount"`
	DeletedOrderItemsCount int64  `json:"deletedOrderItemsCount"`
}

func NewCategoryResponse(c *models.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: ISOTime(c.CreatedAt),
		UpdatedAt: ISOTime(c.UpdatedAt),
	}
}

func NewCategoryListResponse(list []models.Category) CategoryListResponse {
	out := make([]CategoryResponse, len(list))
	for i := range list {
		out[i] = NewCategoryResponse(&list[i])
	}
	return CategoryListResponse{Categories: out, Total: len(out)}
}

func NewCategoryDeleteResponse(r *service.CategoryDeleteResult) CategoryDeleteResponse {
	return CategoryDeleteResponse{
		ID:                     r.ID,
		Name:                   r.Name,
		Deleted:                true,
		DeletedProductsCount:   r.DeletedProductsCount,
		DeletedOrderItemsCount: r.DeletedOrderItemsCount,
	}
}

// ProductCreateRequest: указатели отличают отсутствующее поле от нулевого значения.
type ProductCreateRequest struct {
	Name          *string  `json:"name" example:"Kaju Katli"`
	Price         *int64   `json:"price" example:"2999"`
	Description   *string  `json:"description" example:"Cashew fudge"`
	StockQuantity *int     `json:"stock_quantity" example:"10"`
	CategoryID    *int     `json:"categoryId" example:"1"`
	ImageURLs     []string `json:"image_urls"`
}

type ProductUpdateRequest struct {
	Name          *string        `json:"name"`
	Price         *int64         `json:"price"`
	Description   OptionalString `json:"description" swaggertype:"string"`
	StockQuantity *int           `json:"stock_quantity"`
	CategoryID    *int           `json:"categoryId"`
	ImageURLs     *[]string      `json:"image_urls"`
}

func (r ProductCreateRequest) ToInput() service.ProductInput {
	return service.ProductInput{
		Name:          r.Name,
		Price:         r.Price,
		StockQuantity: r.StockQuantity,
		CategoryID:    r.CategoryID,
		Description:   r.Description,
		ImageURLs:     r.ImageURLs,
	}
}

func (r ProductUpdateRequest) ToPatch() service.ProductPatch {
	return service.ProductPatch{
		Name:           r.Name,
		Price:          r.Price,
		StockQuantity:  r.StockQuantity,
		CategoryID:     r.CategoryID,
		DescriptionSet: r.Description.Set,
		Description:    r.Description.Value,
		ImageURLs:      r.ImageURLs,
	}
}

type CategoryRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type ProductResponse struct {
	ID            int          `json:"id" example:"1"`
	Name          string       `json:"name" example:"Kaju Katli"`
	Price         int64        `json:"price" example:"2999"`
	Description   *string      `json:"description"`
	StockQuantity int          `json:"stock_quantity" example:"10"`
	CategoryID    int          `json:"categoryId" example:"1"`
	Category      *CategoryRef `json:"category"`
	ImageURLs     []string     `json:"image_urls"`
	CreatedAt     string       `json:"created_at"`
	UpdatedAt     string       `json:"updated_at"`
	IsInStock     bool         `json:"isInStock"`
}

func NewProductResponse(p *models.Product) ProductResponse {
	images := []string(p.ImageURLs)
	if images == nil {
		images = []string{}
	}
	out := ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.Price,
		Description:   p.Description,
		StockQuantity: p.StockQuantity,
		CategoryID:    p.CategoryID,
		ImageURLs:     images,
		CreatedAt:     ISOTime(p.CreatedAt),
		UpdatedAt:     ISOTime(p.UpdatedAt),
		IsInStock:     p.IsInStock(),
	}
	if p.Category != nil {
		out.Category = &CategoryRef{ID: p.Category.ID, Name: p.Category.Name}
	}
	return out
}

type ProductPagination struct {
	CurrentPage   int   `json:"currentPage"`
	TotalPages    int   `json:"totalPages"`
	TotalProducts int64 `json:"totalProducts"`
	Limit         int   `json:"limit"`
	HasNextPage   bool  `json:"hasNextPage"`
	HasPrevPage   bool  `json:"hasPrevPage"`
}

type ProductListResponse struct {
	Products   []ProductResponse `json:"products"`
	Pagination ProductPagination `json:"pagination"`
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

func NewProductListResponse(page *service.ProductPage) ProductListResponse {
	out := make([]ProductResponse, len(page.Products))
	for i := range page.Products {
		out[i] = NewProductResponse(&page.Products[i])
	}
	pages := totalPages(page.Total, page.Limit)
	return ProductListResponse{
		Products: out,
		Pagination: ProductPagination{
			CurrentPage:   page.Page,
			TotalPages:    pages,
			TotalProducts: page.Total,
			Limit:         page.Limit,
			HasNextPage:   page.Page < pages,
			HasPrevPage:   page.Page > 1,
		},
	}
}

type ProductDeleteResponse struct {
	ID                     int    `json:"id"`
	Name                   string `json:"name"`
	DeletedAt              string `json:"deleted_at"`
	DeletedOrderItemsCount int64  `json:"deletedOrderItemsCount"`
}

func NewProductDeleteResponse(r *service.ProductDeleteResult) ProductDeleteResponse {
	return ProductDeleteResponse{
		ID:                     r.ID,
		Name:                   r.Name,
		DeletedAt:              ISOTime(r.DeletedAt),
		DeletedOrderItemsCount: r.DeletedOrderItemsCount,
	}
}

