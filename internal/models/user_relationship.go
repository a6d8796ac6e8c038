package models

import (
	"time"

	"gorm.io/gorm"
)

// UserRelationship 用户关系表（绑定/推荐/合作/关注）
type UserRelationship struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                              // 主键
	UserID          uint           `gorm:"index:idx_rel_pair_type;not null" json:"user_id"`                   // 发起方用户ID
	RelatedUserID   uint           `gorm:"index:idx_rel_pair_type;not null" json:"related_user_id"`           // 目标方用户ID
	Type            string         `gorm:"type:varchar(20);index:idx_rel_pair_type;not null" json:"type"`     // 关系类型（binding/referral/partnership/follow）
	Status          string         `gorm:"type:varchar(20);index;not null" json:"status"`                     // 关系状态
	CommissionRate  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"commission_rate"`      // 佣金比例（百分比）
	MinOrderAmount  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"min_order_amount"`     // 计佣最低订单金额
	MaxCommission   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"max_commission"`       // 单笔佣金上限（0 表示不限）
	TotalOrders     int            `gorm:"not null;default:0" json:"total_orders"`                            // 累计订单数
	TotalAmount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`         // 累计订单金额
	TotalCommission Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_commission"`     // 累计佣金
	Notes           string         `gorm:"type:varchar(500)" json:"notes,omitempty"`                          // 备注
	EffectiveDate   *time.Time     `gorm:"index" json:"effective_date"`                                       // 生效时间（进入 active 时记录）
	ExpiresAt       *time.Time     `gorm:"index" json:"expires_at"`                                           // 到期时间
	LastActivityAt  *time.Time     `json:"last_activity_at"`                                                  // 最近活跃时间
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                           // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                           // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                                    // 软删除时间

	// 关联
	User        *User `gorm:"foreignKey:UserID" json:"user,omitempty"`                // 发起方用户
	RelatedUser *User `gorm:"foreignKey:RelatedUserID" json:"related_user,omitempty"` // 目标方用户
}

// TableName 指定表名
func (UserRelationship) TableName() string {
	return "user_relationships"
}
