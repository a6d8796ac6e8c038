package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                         // 主键
	MerchantID       uint           `gorm:"not null;index" json:"merchant_id"`                            // 商家ID
	Title            string         `gorm:"not null" json:"title"`                                        // 商品标题
	Description      string         `gorm:"type:text" json:"description,omitempty"`                       // 商品描述
	Category         string         `gorm:"type:varchar(50);index" json:"category,omitempty"`             // 类目
	Brand            string         `gorm:"type:varchar(100)" json:"brand,omitempty"`                     // 品牌
	Price            Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`           // 售价
	OriginalPrice    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"original_price"`  // 原价
	CommissionRate   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"commission_rate"` // 佣金比例（百分比）
	StockQuantity    int            `gorm:"not null;default:0" json:"stock_quantity"`                     // 库存数量
	MinOrderQuantity int            `gorm:"not null;default:1" json:"min_order_quantity"`                 // 最小起订量
	MaxOrderQuantity int            `gorm:"not null;default:0" json:"max_order_quantity"`                 // 最大限购量（0 表示不限购）
	AllowSample      bool           `gorm:"default:false" json:"allow_sample"`                            // 是否支持样品申请
	SamplePrice      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"sample_price"`    // 样品价格
	Images           StringArray    `gorm:"type:json" json:"images"`                                      // 图片数组
	Tags             StringArray    `gorm:"type:json" json:"tags"`                                        // 标签数组
	SpecsJSON        JSON           `gorm:"type:json" json:"specs"`                                       // 规格参数
	IsActive         bool           `gorm:"index" json:"is_active"`                                       // 是否上架（写入时显式赋值，列默认值会吞掉 false）
	SortOrder        int            `gorm:"default:0;index" json:"sort_order"`                            // 排序权重
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt        time.Time      `json:"updated_at"`                                                   // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
