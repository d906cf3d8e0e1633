package repository

import (
	"github.com/hatstore-next/internal/models"

	"gorm.io/gorm"
)

// ShippingAddressRepository 收货地址数据访问接口。
// 地址随订单在结算事务内创建，随订单预加载读取，没有独立的生命周期
type ShippingAddressRepository interface {
	Create(address *models.ShippingAddress) error
	WithTx(tx *gorm.DB) ShippingAddressRepository
}

// GormShippingAddressRepository GORM 实现
type GormShippingAddressRepository struct {
	db *gorm.DB
}

// NewShippingAddressRepository 创建收货地址仓库
func NewShippingAddressRepository(db *gorm.DB) *GormShippingAddressRepository {
	return &GormShippingAddressRepository{db: db}
}

// WithTx 绑定事务
func (r *GormShippingAddressRepository) WithTx(tx *gorm.DB) ShippingAddressRepository {
	if tx == nil {
		return r
	}
	return &GormShippingAddressRepository{db: tx}
}

// Create 创建收货地址
func (r *GormShippingAddressRepository) Create(address *models.ShippingAddress) error {
	return r.db.Create(address).Error
}
