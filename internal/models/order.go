package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                           // 主键
	OrderNo         string         `gorm:"uniqueIndex;not null" json:"order_no"`                           // 订单编号
	BuyerID         uint           `gorm:"index;not null" json:"buyer_id"`                                 // 买家ID
	MerchantID      uint           `gorm:"index;not null" json:"merchant_id"`                              // 商家ID
	ReferrerID      *uint          `gorm:"index" json:"referrer_id,omitempty"`                             // 推荐人ID（达人/团长）
	Status          string         `gorm:"index;not null" json:"status"`                                   // 订单状态
	PaymentStatus   string         `gorm:"index;not null" json:"payment_status"`                           // 支付状态
	TotalAmount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`     // 商品总额
	DiscountAmount  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`  // 优惠金额
	ShippingFee     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_fee"`     // 运费
	FinalAmount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"final_amount"`     // 应付金额
	CommissionTotal Money          `gorm:"type:decimal(20,2);not null;default:0" json:"commission_total"` // 佣金总额
	ShippingAddress JSON           `gorm:"type:json" json:"shipping_address"`                             // 收货地址
	BuyerNotes      string         `gorm:"type:varchar(500)" json:"buyer_notes,omitempty"`                // 买家备注
	ClientIP        string         `gorm:"type:varchar(64)" json:"client_ip,omitempty"`                   // 下单客户端IP
	PaidAt          *time.Time     `gorm:"index" json:"paid_at"`                                          // 支付时间
	ConfirmedAt     *time.Time     `json:"confirmed_at"`                                                  // 确认时间
	ShippedAt       *time.Time     `json:"shipped_at"`                                                    // 发货时间
	DeliveredAt     *time.Time     `json:"delivered_at"`                                                  // 签收时间
	CompletedAt     *time.Time     `json:"completed_at"`                                                  // 完成时间
	CancelledAt     *time.Time     `gorm:"index" json:"cancelled_at"`                                     // 取消时间
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                       // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间

	// 关联
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
