package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem 订单项表（商品快照，创建后不可变更）
type OrderItem struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                          // 主键
	OrderID          uint           `gorm:"index;not null" json:"order_id"`                                // 订单ID
	ProductID        uint           `gorm:"index;not null" json:"product_id"`                              // 商品ID
	ProductTitle     string         `gorm:"not null" json:"product_title"`                                 // 商品标题快照
	ProductImage     string         `gorm:"type:varchar(500)" json:"product_image,omitempty"`              // 商品主图快照
	UnitPrice        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`       // 单价快照
	Quantity         int            `gorm:"not null" json:"quantity"`                                      // 数量
	Subtotal         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`         // 小计
	CommissionRate   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"commission_rate"`  // 佣金比例快照
	CommissionAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"commission_amount"` // 佣金金额
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt        time.Time      `json:"updated_at"`                                                    // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
