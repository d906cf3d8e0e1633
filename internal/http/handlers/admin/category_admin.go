package admin

import (
	"github.com/hatstore-next/internal/http/response"
	"github.com/hatstore-next/internal/service"

	"github.com/gin-gonic/gin"
)

// SaveCategoryRequest 创建/更新分类请求
type SaveCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
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

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req SaveCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	category, err := h.CategoryService.Create(service.CreateCategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "category create failed")
		return
	}
	response.Created(c, category)
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req SaveCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	category, err := h.CategoryService.Update(id, service.CreateCategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "category update failed")
		return
	}
	response.Success(c, category)
}

// DeleteCategory 删除分类
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.CategoryService.Delete(id); err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "category delete failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
