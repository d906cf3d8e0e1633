package models

import (
	"time"
)

// ShippingAddress 收货地址表（创建后不可变，被订单引用期间禁止删除）
type ShippingAddress struct {
	ID           uint      `gorm:"primarykey" json:"id"`                              // 主键
	Name         string    `gorm:"type:varchar(200);not null" json:"name"`            // 收件人姓名
	AddressLine1 string    `gorm:"type:varchar(255);not null" json:"address_line_1"`  // 地址行1
	AddressLine2 string    `gorm:"type:varchar(255);default:''" json:"address_line_2"` // 地址行2（可空）
	City         string    `gorm:"type:varchar(100);not null" json:"city"`            // 城市
	State        string    `gorm:"type:varchar(100);not null" json:"state"`           // 州/省
	PostalCode   string    `gorm:"type:varchar(20);not null" json:"postal_code"`      // 邮编
	Country      string    `gorm:"type:varchar(100);not null;default:'United States'" json:"country"` // 国家
	CreatedAt    time.Time `json:"created_at"`                                        // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                                        // 更新时间
}

// TableName 指定表名
func (ShippingAddress) TableName() string {
	return "shipping_addresses"
}
