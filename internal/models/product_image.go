package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductImage 商品图片表（一个商品支持多张图片）
type ProductImage struct {
	ID           uint           `gorm:"primarykey" json:"id"`                        // 主键
	ProductID    uint           `gorm:"not null;index" json:"product_id"`            // 商品ID
	ImageURL     string         `gorm:"type:varchar(500);not null" json:"image_url"` // 图片地址
	DisplayOrder int            `gorm:"not null;default:0" json:"display_order"`     // 展示顺序
	IsPrimary    bool           `gorm:"default:false" json:"is_primary"`             // 是否主图
	CreatedAt    time.Time      `json:"created_at"`                                  // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                  // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                              // 软删除时间
}

// TableName 指定表名
func (ProductImage) TableName() string {
	return "product_images"
}
