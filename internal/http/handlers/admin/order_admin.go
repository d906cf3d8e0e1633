package admin

import (
	"strings"

	"github.com/hatstore-next/internal/http/handlers/shared"
	"github.com/hatstore-next/internal/http/response"
	"github.com/hatstore-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest 更新订单状态请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListOrders 后台订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)

	orders, total, err := h.OrderService.ListAdmin(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
		OrderNo:  strings.TrimSpace(c.Query("order_no")),
		Email:    strings.TrimSpace(c.Query("email")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "order list failed", err)
		return
	}
	response.SuccessWithPage(c, orders, shared.BuildPagination(page, pageSize, total))
}

// GetOrder 后台订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	order, err := h.OrderService.GetByID(id)
	if err != nil {
		respondWithMappedError(c, err, orderAdminErrorRules, response.CodeInternal, "order fetch failed")
		return
	}
	response.Success(c, order)
}

// UpdateOrderStatus 更新订单状态
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "status is required", err)
		return
	}
	order, err := h.OrderService.UpdateStatus(id, strings.TrimSpace(req.Status))
	if err != nil {
		respondWithMappedError(c, err, orderAdminErrorRules, response.CodeInternal, "order status update failed")
		return
	}
	requestLog(c).Infow("admin_order_status_updated", "order_id", order.ID, "status", order.Status)
	response.Success(c, order)
}
