package models

import (
	"fmt"
	"strings"
	"testing"
)

func setupModelsTestDB(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	if err := InitDB("sqlite", dsn, DBPoolConfig{}); err != nil {
		t.Fatalf("init db failed: %v", err)
	}
	if err := AutoMigrate(); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
}

// 零值连接池配置不得把空闲连接数压成 0：
// 共享缓存的内存库靠常驻连接存活，连接间歇关闭会丢表。
func TestInitDBZeroPoolConfigKeepsSharedMemoryDB(t *testing.T) {
	setupModelsTestDB(t)

	user := &User{
		Role:         "user",
		Phone:        "13900000001",
		PasswordHash: "x",
		IsActive:     true,
	}
	if err := DB.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	var got User
	if err := DB.First(&got, user.ID).Error; err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if got.Phone != user.Phone {
		t.Fatalf("phone = %q, want %q", got.Phone, user.Phone)
	}
}

func TestInactiveFlagSurvivesCreate(t *testing.T) {
	setupModelsTestDB(t)

	user := &User{
		Role:         "user",
		Phone:        "13900000002",
		PasswordHash: "x",
		IsActive:     false,
	}
	if err := DB.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	var gotUser User
	if err := DB.First(&gotUser, user.ID).Error; err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if gotUser.IsActive {
		t.Fatal("user created with IsActive=false was stored active")
	}

	product := &Product{
		MerchantID:       1,
		Title:            "下架商品",
		MinOrderQuantity: 1,
		IsActive:         false,
	}
	if err := DB.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	var gotProduct Product
	if err := DB.First(&gotProduct, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if gotProduct.IsActive {
		t.Fatal("product created with IsActive=false was stored active")
	}
}
