package admin

import (
	"strconv"
	"strings"

	"github.com/hatstore-next/internal/http/handlers/shared"
	"github.com/hatstore-next/internal/http/response"
	"github.com/hatstore-next/internal/repository"
	"github.com/hatstore-next/internal/service"

	"github.com/gin-gonic/gin"
)

// SaveProductRequest 创建/更新商品请求。is_active 缺省视为上架。
type SaveProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Price       string   `json:"price" binding:"required"`
	CategoryID  uint     `json:"category_id" binding:"required"`
	Stock       int      `json:"stock"`
	IsActive    *bool    `json:"is_active"`
	ImageURLs   []string `json:"image_urls"`
}

func (r *SaveProductRequest) toInput() service.SaveProductInput {
	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}
	return service.SaveProductInput{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Price:       r.Price,
		CategoryID:  r.CategoryID,
		Stock:       r.Stock,
		IsActive:    isActive,
		ImageURLs:   r.ImageURLs,
	}
}

// ListProducts 后台商品列表（含下架）
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)
	categoryID, _ := strconv.ParseUint(c.Query("category_id"), 10, 64)

	products, total, err := h.ProductService.List(repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   uint(categoryID),
		Search:       strings.TrimSpace(c.Query("search")),
		WithCategory: true,
		WithImages:   true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "product list failed", err)
		return
	}
	response.SuccessWithPage(c, products, shared.BuildPagination(page, pageSize, total))
}

// GetProduct 后台商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	product, err := h.ProductService.GetByID(id)
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "product fetch failed")
		return
	}
	response.Success(c, product)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req SaveProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	product, err := h.ProductService.Create(req.toInput())
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "product create failed")
		return
	}
	requestLog(c).Infow("admin_product_created", "product_id", product.ID, "name", product.Name)
	response.Created(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req SaveProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	product, err := h.ProductService.Update(id, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "product update failed")
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.ProductService.Delete(id); err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "product delete failed")
		return
	}
	requestLog(c).Infow("admin_product_deleted", "product_id", id)
	response.Success(c, gin.H{"deleted": true})
}

// ImportProducts CSV 批量导入商品
func (h *Handler) ImportProducts(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "no file provided", err)
		return
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv") {
		respondError(c, response.CodeBadRequest, "file must be a CSV file", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, response.CodeBadRequest, "failed to read CSV file", err)
		return
	}
	defer file.Close()

	result, err := h.ProductImportService.Import(file)
	if err != nil {
		respondError(c, response.CodeBadRequest, "failed to read CSV file", err)
		return
	}
	requestLog(c).Infow("admin_products_imported",
		"created", result.Created,
		"updated", result.Updated,
		"errors", len(result.Errors),
	)
	response.Success(c, result)
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid id", nil)
		return 0, false
	}
	return uint(id), true
}
