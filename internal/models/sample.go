package models

import (
	"time"

	"gorm.io/gorm"
)

// Sample 样品申请表
type Sample struct {
	ID                uint           `gorm:"primarykey" json:"id"`                                       // 主键
	SampleNo          string         `gorm:"uniqueIndex;not null" json:"sample_no"`                      // 样品申请编号
	ApplicantID       uint           `gorm:"index;not null" json:"applicant_id"`                         // 申请人ID（达人/团长）
	ProductID         uint           `gorm:"index;not null" json:"product_id"`                           // 商品ID
	MerchantID        uint           `gorm:"index;not null" json:"merchant_id"`                          // 商家ID
	Type              string         `gorm:"type:varchar(20);not null" json:"type"`                      // 申请类型（free/paid/deposit/exchange）
	Status            string         `gorm:"index;not null" json:"status"`                               // 申请状态
	Quantity          int            `gorm:"not null;default:1" json:"quantity"`                         // 申请数量
	ApplicationReason string         `gorm:"type:varchar(500)" json:"application_reason,omitempty"`      // 申请理由
	ShippingAddress   JSON           `gorm:"type:json" json:"shipping_address"`                          // 收货地址
	TrackingNo        string         `gorm:"type:varchar(100)" json:"tracking_no,omitempty"`             // 物流单号
	ReviewRating      int            `gorm:"default:0" json:"review_rating,omitempty"`                   // 测评评分（1-5）
	ReviewContent     string         `gorm:"type:text" json:"review_content,omitempty"`                  // 测评内容
	ReviewMedia       StringArray    `gorm:"type:json" json:"review_media,omitempty"`                    // 测评图片/视频
	Notes             string         `gorm:"type:varchar(500)" json:"notes,omitempty"`                   // 备注
	ApprovedBy        *uint          `json:"approved_by,omitempty"`                                      // 审批人ID
	RejectedBy        *uint          `json:"rejected_by,omitempty"`                                      // 驳回人ID
	ApprovedAt        *time.Time     `json:"approved_at"`                                                // 审批时间
	RejectedAt        *time.Time     `json:"rejected_at"`                                                // 驳回时间
	ShippedAt         *time.Time     `json:"shipped_at"`                                                 // 发货时间
	DeliveredAt       *time.Time     `json:"delivered_at"`                                               // 签收时间
	ReturnedAt        *time.Time     `json:"returned_at"`                                                // 归还时间
	ReviewedAt        *time.Time     `json:"reviewed_at"`                                                // 测评提交时间
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                                    // 创建时间
	UpdatedAt         time.Time      `gorm:"index" json:"updated_at"`                                    // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                             // 软删除时间

	// 关联
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 商品信息
}

// TableName 指定表名
func (Sample) TableName() string {
	return "samples"
}
