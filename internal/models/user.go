package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                          // 主键
	Role               string         `gorm:"type:varchar(20);not null;index" json:"role"`   // 角色（merchant/leader/influencer/admin/user）
	Phone              string         `gorm:"uniqueIndex;not null" json:"phone"`             // 手机号
	WechatOpenID       string         `gorm:"index" json:"wechat_openid,omitempty"`          // 微信 OpenID
	WechatUnionID      string         `gorm:"index" json:"wechat_unionid,omitempty"`         // 微信 UnionID
	Nickname           string         `gorm:"default:''" json:"nickname"`                    // 昵称
	AvatarURL          string         `gorm:"type:varchar(500)" json:"avatar_url,omitempty"` // 头像
	PasswordHash       string         `gorm:"not null" json:"-"`                             // 密码哈希（不返回给前端）
	ProfileJSON        JSON           `gorm:"type:json" json:"profile"`                      // 角色差异化资料（公司/团队/粉丝量等）
	IsActive           bool           `gorm:"index" json:"is_active"`                        // 是否启用（写入时显式赋值，列默认值会吞掉 false）
	TokenVersion       uint64         `gorm:"not null;default:0" json:"-"`                   // Token 版本（用于全量失效）
	TokenInvalidBefore *time.Time     `gorm:"index" json:"-"`                                // 该时间点前签发的 Token 失效
	LastLoginAt        *time.Time     `json:"last_login_at"`                                 // 最后登录时间
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                       // 创建时间
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`                       // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// IsAdmin 判断是否为管理员角色
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == "admin"
}
