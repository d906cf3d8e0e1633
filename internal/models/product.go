package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                 // 主键
	CategoryID  uint           `gorm:"not null;index" json:"category_id"`                    // 分类ID
	Name        string         `gorm:"type:varchar(200);not null;index" json:"name"`         // 商品名称
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`                     // 唯一标识
	Description string         `gorm:"type:text" json:"description"`                         // 商品描述
	Price       Money          `gorm:"type:decimal(10,2);not null;default:0" json:"price"`   // 价格
	Stock       int            `gorm:"not null;default:0" json:"stock"`                      // 库存数量
	IsActive    bool           `gorm:"not null;index" json:"is_active"`                      // 是否上架（不带列默认值，false 才能如实落库）
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                              // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                           // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                       // 软删除时间

	// 关联
	Category Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
	Images   []ProductImage `gorm:"foreignKey:ProductID" json:"images,omitempty"`    // 商品图片
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// PrimaryImage 返回主图；未设置主图时退回第一张图
func (p *Product) PrimaryImage() *ProductImage {
	if p == nil || len(p.Images) == 0 {
		return nil
	}
	for i := range p.Images {
		if p.Images[i].IsPrimary {
			return &p.Images[i]
		}
	}
	return &p.Images[0]
}

// InStock 判断商品是否有库存
func (p *Product) InStock() bool {
	return p != nil && p.Stock > 0
}
