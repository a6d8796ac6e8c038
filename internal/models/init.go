package models

import (
	"github.com/yuntuike/yanxuan/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// InitDefaultAdmin 初始化默认管理员账号
func InitDefaultAdmin(phone, password string) error {
	var count int64
	DB.Model(&User{}).Where("role = ?", "admin").Count(&count)
	if count > 0 {
		return nil
	}

	if phone == "" {
		phone = "13800000000"
	}
	if password == "" {
		password = "admin123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := User{
		Role:         "admin",
		Phone:        phone,
		Nickname:     "管理员",
		PasswordHash: string(hash),
		IsActive:     true,
	}

	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	if password == "admin123" {
		logger.Warnw("default_admin_created_with_default_password", "phone", phone)
		logger.Warnw("default_admin_password_change_required", "phone", phone)
	} else {
		logger.Warnw("default_admin_created", "phone", phone, "password_hidden", true)
	}

	return nil
}
