package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment 支付记录（微信小程序 JSAPI）
type Payment struct {
	ID              uint           `gorm:"primarykey" json:"id"`                       // 主键
	OrderID         uint           `gorm:"index;not null" json:"order_id"`             // 订单ID
	UserID          uint           `gorm:"index;not null" json:"user_id"`              // 付款用户ID
	Amount          Money          `gorm:"type:decimal(20,2);not null" json:"amount"`  // 支付金额
	Currency        string         `gorm:"not null;default:'CNY'" json:"currency"`     // 币种
	Status          string         `gorm:"index;not null" json:"status"`               // 支付状态
	PrepayID        string         `gorm:"type:varchar(128)" json:"prepay_id"`         // 微信预支付单号
	TransactionID   string         `gorm:"index" json:"transaction_id"`                // 微信交易流水号
	ProviderPayload JSON           `gorm:"type:json" json:"provider_payload"`          // 回调原始数据
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                    // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                    // 更新时间
	PaidAt          *time.Time     `gorm:"index" json:"paid_at"`                       // 支付时间
	CallbackAt      *time.Time     `json:"callback_at"`                                // 回调时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                             // 软删除时间
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}
