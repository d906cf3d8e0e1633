package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem 订单项表：商品信息在下单时快照，后续商品变动不影响历史订单
type OrderItem struct {
	ID              uint      `gorm:"primarykey" json:"id"`                                   // 主键
	OrderID         uint      `gorm:"not null;index" json:"order_id"`                         // 所属订单
	ProductID       *uint     `gorm:"index" json:"product_id,omitempty"`                      // 商品ID（商品删除后置空）
	ProductName     string    `gorm:"not null" json:"product_name"`                           // 商品名称快照
	Quantity        int       `gorm:"not null" json:"quantity"`                               // 购买数量
	PriceAtPurchase Money     `gorm:"type:decimal(10,2);not null" json:"price_at_purchase"`   // 下单时单价快照
	CreatedAt       time.Time `json:"created_at"`                                             // 创建时间
	UpdatedAt       time.Time `json:"updated_at"`                                             // 更新时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

// Subtotal 行小计 = 快照单价 × 数量
func (i *OrderItem) Subtotal() Money {
	return NewMoneyFromDecimal(i.PriceAtPurchase.Decimal.Mul(decimal.NewFromInt(int64(i.Quantity))))
}
