package public

import (
	"strconv"

	"github.com/hatstore-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加购请求。quantity 省略时默认 1
type AddCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  *int `json:"quantity"`
}

// UpdateCartItemRequest 改量请求。quantity ≤ 0 等价删除
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart 获取购物车投影
func (h *Handler) GetCart(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}
	response.Success(c, h.CartService.Snapshot(sess))
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}
	h.CartService.Clear(sess)
	response.Success(c, h.CartService.Snapshot(sess))
}

// AddCartItem 加入商品
func (h *Handler) AddCartItem(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "product_id is required", err)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	line, err := h.CartService.AddItem(sess, req.ProductID, quantity)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "add to cart failed")
		return
	}
	response.Created(c, gin.H{
		"item": line,
		"cart": h.CartService.Snapshot(sess),
	})
}

// UpdateCartItem 覆盖行数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}
	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "quantity is required", err)
		return
	}

	line, err := h.CartService.UpdateQuantity(sess, productID, *req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "update cart failed")
		return
	}
	// 数量 ≤ 0 且行本就不存在时没有可回显的行
	var item interface{}
	if line.ProductID != 0 {
		item = line
	}
	response.Success(c, gin.H{
		"item": item,
		"cart": h.CartService.Snapshot(sess),
	})
}

// RemoveCartItem 删除行
func (h *Handler) RemoveCartItem(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}
	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	line, err := h.CartService.RemoveItem(sess, productID)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "remove cart item failed")
		return
	}
	response.Success(c, gin.H{
		"item": line,
		"cart": h.CartService.Snapshot(sess),
	})
}

func parseProductID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return 0, false
	}
	return uint(id), true
}
