package public

import (
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/hatstore-next/internal/http/handlers/shared"
	"github.com/hatstore-next/internal/http/response"
	"github.com/hatstore-next/internal/models"
	"github.com/hatstore-next/internal/repository"
	"github.com/hatstore-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 结算请求
type CheckoutRequest struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
}

// OrderItemResponse 订单项响应
type OrderItemResponse struct {
	ID              uint         `json:"id"`
	ProductID       *uint        `json:"product_id"`
	ProductName     string       `json:"product_name"`
	Quantity        int          `json:"quantity"`
	PriceAtPurchase models.Money `json:"price_at_purchase"`
	Subtotal        models.Money `json:"subtotal"`
}

// OrderResponse 订单响应
type OrderResponse struct {
	ID              uint                   `json:"id"`
	OrderNo         string                 `json:"order_no"`
	Email           string                 `json:"email"`
	Status          string                 `json:"status"`
	TotalPrice      models.Money           `json:"total_price"`
	ItemCount       int                    `json:"item_count"`
	Items           []OrderItemResponse    `json:"items"`
	ShippingAddress models.ShippingAddress `json:"shipping_address"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

func buildOrderResponse(order *models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ID:              item.ID,
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
			Subtotal:        item.Subtotal(),
		})
	}
	return OrderResponse{
		ID:              order.ID,
		OrderNo:         order.OrderNo,
		Email:           order.Email,
		Status:          order.Status,
		TotalPrice:      order.TotalPrice,
		ItemCount:       order.ItemCount(),
		Items:           items,
		ShippingAddress: order.ShippingAddress,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

// Checkout 结算：校验表单后把购物车固化成订单
func (h *Handler) Checkout(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	if msg, ok := validateCheckoutRequest(&req); !ok {
		respondError(c, response.CodeBadRequest, msg, nil)
		return
	}

	order, err := h.OrderService.CreateOrderFromCart(sess, service.CheckoutInput{
		Email:        req.Email,
		Name:         req.Name,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		UserID:       optionalUserID(c),
	})
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "checkout failed")
		return
	}

	requestLog(c).Infow("order_created", "order_id", order.ID, "order_no", order.OrderNo, "total_price", order.TotalPrice.String())
	response.Created(c, buildOrderResponse(order))
}

// GetOrder 匿名查询订单：数字按 ID 查，其余按订单编号查
func (h *Handler) GetOrder(c *gin.Context) {
	key := strings.TrimSpace(c.Param("id"))

	var order *models.Order
	var err error
	if id, parseErr := strconv.ParseUint(key, 10, 64); parseErr == nil && id > 0 {
		order, err = h.OrderService.GetByID(uint(id))
	} else {
		order, err = h.OrderService.GetByOrderNo(key)
	}
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "order fetch failed")
		return
	}
	response.Success(c, buildOrderResponse(order))
}

// GetMyOrder 已登录顾客的订单详情，只允许读自己的订单
func (h *Handler) GetMyOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeNotFound, "order not found", nil)
		return
	}

	order, err := h.OrderService.GetByIDForUser(uint(id), uid)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "order fetch failed")
		return
	}
	response.Success(c, buildOrderResponse(order))
}

// ListMyOrders 已登录顾客的订单列表
func (h *Handler) ListMyOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := shared.ParsePagination(c)

	orders, total, err := h.OrderService.ListByUser(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "order list failed", err)
		return
	}

	items := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, buildOrderResponse(&orders[i]))
	}
	response.SuccessWithPage(c, items, shared.BuildPagination(page, pageSize, total))
}

// validateCheckoutRequest 必填项与邮箱格式校验，返回首个错误
func validateCheckoutRequest(req *CheckoutRequest) (string, bool) {
	required := []struct {
		value string
		name  string
	}{
		{req.Email, "email"},
		{req.Name, "name"},
		{req.AddressLine1, "address_line_1"},
		{req.City, "city"},
		{req.State, "state"},
		{req.PostalCode, "postal_code"},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return field.name + " is required", false
		}
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(req.Email)); err != nil {
		return "invalid email address", false
	}
	return "", true
}
