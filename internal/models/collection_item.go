package models

import (
	"time"

	"gorm.io/gorm"
)

// CollectionItem 货盘商品表
type CollectionItem struct {
	ID                   uint           `gorm:"primarykey" json:"id"`                                                 // 主键
	CollectionID         uint           `gorm:"index:idx_collection_product;not null" json:"collection_id"`          // 货盘ID
	ProductID            uint           `gorm:"index:idx_collection_product;not null" json:"product_id"`             // 商品ID
	SortOrder            int            `gorm:"default:0;index" json:"sort_order"`                                   // 排序权重
	IsFeatured           bool           `gorm:"default:false" json:"is_featured"`                                    // 是否主推
	CustomPrice          *Money         `gorm:"type:decimal(20,2)" json:"custom_price,omitempty"`                    // 自定义售价（覆盖商品价）
	CustomCommissionRate *Money         `gorm:"type:decimal(20,2)" json:"custom_commission_rate,omitempty"`          // 自定义佣金比例
	CreatedAt            time.Time      `gorm:"index" json:"created_at"`                                             // 创建时间
	UpdatedAt            time.Time      `json:"updated_at"`                                                          // 更新时间
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`                                                      // 软删除时间

	// 关联
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 商品信息
}

// TableName 指定表名
func (CollectionItem) TableName() string {
	return "collection_items"
}
