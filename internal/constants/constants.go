package constants

// 订单状态
const (
	OrderStatusPending   = "pending"   // 待支付/待处理
	OrderStatusPaid      = "paid"      // 已支付
	OrderStatusShipped   = "shipped"   // 已发货
	OrderStatusDelivered = "delivered" // 已送达
	OrderStatusCancelled = "cancelled" // 已取消
)

// OrderStatuses 全部合法订单状态
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusPaid,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// IsValidOrderStatus 判断订单状态是否合法
func IsValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// 会话相关
const (
	SessionCookieName = "hs_session" // 会话 Cookie 名称
	SessionContextKey = "session"    // gin 上下文中的会话 key
)

// 队列任务类型
const (
	QueueDefault               = "default"
	TaskOrderNotificationEmail = "order:notification_email"
)

// 收货地址默认值
const (
	DefaultShippingCountry = "United States"
)

// 未分类商品的默认分类名
const DefaultCategoryName = "Uncategorized"

// 用户状态
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)
