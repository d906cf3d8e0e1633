package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID                uint           `gorm:"primarykey" json:"id"`                                     // 主键
	OrderNo           string         `gorm:"uniqueIndex;not null" json:"order_no"`                     // 订单编号
	UserID            *uint          `gorm:"index" json:"user_id,omitempty"`                           // 用户ID（匿名订单为空）
	Email             string         `gorm:"index;not null" json:"email"`                              // 联系邮箱
	Status            string         `gorm:"index;not null;default:'pending'" json:"status"`           // 订单状态
	TotalPrice        Money          `gorm:"type:decimal(10,2);not null;default:0" json:"total_price"` // 订单总价（服务端计算）
	ShippingAddressID uint           `gorm:"not null;index" json:"shipping_address_id"`                // 收货地址ID
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt         time.Time      `gorm:"index" json:"updated_at"`                                  // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间

	// 关联：订单独占其订单项（随订单级联删除）；地址被引用期间禁止删除
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	ShippingAddress ShippingAddress `gorm:"foreignKey:ShippingAddressID;constraint:OnDelete:RESTRICT" json:"shipping_address,omitempty"`
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// ItemCount 订单内商品总件数（数量之和，非行数）
func (o *Order) ItemCount() int {
	if o == nil {
		return 0
	}
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}
