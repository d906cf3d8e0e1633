package service

import "errors"

// 业务错误定义。HTTP 层按错误映射状态码与提示文案
var (
	// 购物车
	ErrCartEmpty        = errors.New("cart is empty")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("quantity must be positive")

	// 商品与分类
	ErrProductNotFound      = errors.New("product not found")
	ErrProductNotAvailable  = errors.New("product not available")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryHasProducts  = errors.New("category still has products")
	ErrSlugExists           = errors.New("slug already exists")
	ErrProductNameRequired  = errors.New("product name is required")
	ErrCategoryNameRequired = errors.New("category name is required")
	ErrInvalidPrice         = errors.New("invalid price")

	// 订单
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderCreateFailed = errors.New("order create failed")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrCheckoutInFlight  = errors.New("checkout already in progress")

	// 认证
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already registered")
	ErrUserDisabled       = errors.New("user disabled")
	ErrWeakPassword       = errors.New("password too short")

	// 邮件
	ErrEmailNotConfigured = errors.New("smtp not configured")
)
