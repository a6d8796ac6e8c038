package models

import (
	"time"

	"gorm.io/gorm"
)

// Collection 货盘表（精选商品集合）
type Collection struct {
	ID          uint           `gorm:"primarykey" json:"id"`                             // 主键
	OwnerID     uint           `gorm:"index;not null" json:"owner_id"`                   // 创建者ID
	Title       string         `gorm:"not null" json:"title"`                            // 货盘标题
	Description string         `gorm:"type:text" json:"description,omitempty"`           // 货盘描述
	Type        string         `gorm:"type:varchar(20);index;not null" json:"type"`      // 货盘类型
	Status      string         `gorm:"type:varchar(20);index;not null" json:"status"`    // 货盘状态（业务状态，不含删除）
	IsPublic    bool           `gorm:"default:false;index" json:"is_public"`             // 是否公开
	CoverImage  string         `gorm:"type:varchar(500)" json:"cover_image,omitempty"`   // 封面图
	Tags        StringArray    `gorm:"type:json" json:"tags"`                            // 标签数组
	ViewCount   int            `gorm:"not null;default:0" json:"view_count"`             // 浏览次数
	ShareCount  int            `gorm:"not null;default:0" json:"share_count"`            // 分享次数
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                          // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                          // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                   // 软删除时间（删除与业务状态分离）

	// 关联
	Items []CollectionItem `gorm:"foreignKey:CollectionID" json:"items,omitempty"` // 货盘商品
}

// TableName 指定表名
func (Collection) TableName() string {
	return "collections"
}
