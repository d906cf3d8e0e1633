package public

import (
	"strings"

	"github.com/hatstore-next/internal/http/handlers/shared"
	"github.com/hatstore-next/internal/http/response"
	"github.com/hatstore-next/internal/models"
	"github.com/hatstore-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ProductImageResponse 商品图片响应
type ProductImageResponse struct {
	ImageURL     string `json:"image_url"`
	DisplayOrder int    `json:"display_order"`
	IsPrimary    bool   `json:"is_primary"`
}

// ProductResponse 商品响应
type ProductResponse struct {
	ID           uint                   `json:"id"`
	Name         string                 `json:"name"`
	Slug         string                 `json:"slug"`
	Description  string                 `json:"description"`
	Price        models.Money           `json:"price"`
	Stock        int                    `json:"stock"`
	InStock      bool                   `json:"in_stock"`
	CategoryID   uint                   `json:"category_id"`
	CategoryName string                 `json:"category_name,omitempty"`
	PrimaryImage string                 `json:"primary_image,omitempty"`
	Images       []ProductImageResponse `json:"images,omitempty"`
}

func buildProductResponse(product *models.Product, withImages bool) ProductResponse {
	resp := ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Slug:        product.Slug,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		InStock:     product.InStock(),
		CategoryID:  product.CategoryID,
	}
	if product.Category.ID != 0 {
		resp.CategoryName = product.Category.Name
	}
	if primary := product.PrimaryImage(); primary != nil {
		resp.PrimaryImage = primary.ImageURL
	}
	if withImages {
		images := make([]ProductImageResponse, 0, len(product.Images))
		for _, image := range product.Images {
			images = append(images, ProductImageResponse{
				ImageURL:     image.ImageURL,
				DisplayOrder: image.DisplayOrder,
				IsPrimary:    image.IsPrimary,
			})
		}
		resp.Images = images
	}
	return resp
}

// ListProducts 商品列表（仅上架）
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)

	products, total, err := h.ProductService.List(repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategorySlug: strings.TrimSpace(c.Query("category")),
		Search:       strings.TrimSpace(c.Query("search")),
		OnlyActive:   true,
		WithCategory: true,
		WithImages:   true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "product list failed", err)
		return
	}

	items := make([]ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, buildProductResponse(&products[i], false))
	}
	response.SuccessWithPage(c, items, shared.BuildPagination(page, pageSize, total))
}

// GetProduct 商品详情（按 slug，仅上架）
func (h *Handler) GetProduct(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	product, err := h.ProductService.GetBySlug(slug, true)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "product fetch failed")
		return
	}
	response.Success(c, buildProductResponse(product, true))
}

// ListCategories 分类列表
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.CategoryService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "category list failed", err)
		return
	}
	response.Success(c, gin.H{"items": categories})
}

// GetCategory 分类详情（按 slug）
func (h *Handler) GetCategory(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	category, err := h.CategoryService.GetBySlug(slug)
	if err != nil {
		respondWithMappedError(c, err, categoryErrorRules, response.CodeInternal, "category fetch failed")
		return
	}
	response.Success(c, category)
}
