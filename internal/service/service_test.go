package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/yuntuike/yanxuan/internal/models"
	"github.com/yuntuike/yanxuan/internal/repository"

	"github.com/shopspring/decimal"
)

var testUserSeq int

// setupServiceTestDB 每个测试使用独立的内存数据库
func setupServiceTestDB(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	if err := models.InitDB("sqlite", dsn, models.DBPoolConfig{}); err != nil {
		t.Fatalf("init db failed: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
}

func money(value string) models.Money {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return models.NewMoneyFromDecimal(d)
}

func createTestUser(t *testing.T, role string) *models.User {
	t.Helper()
	testUserSeq++
	user := &models.User{
		Role:         role,
		Phone:        fmt.Sprintf("139%08d", testUserSeq),
		Nickname:     role,
		PasswordHash: "x",
		IsActive:     true,
	}
	if err := models.DB.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func createTestProduct(t *testing.T, merchantID uint, mutate func(*models.Product)) *models.Product {
	t.Helper()
	product := &models.Product{
		MerchantID:       merchantID,
		Title:            "测试商品",
		Price:            money("100"),
		CommissionRate:   money("10"),
		StockQuantity:    50,
		MinOrderQuantity: 1,
		AllowSample:      true,
		IsActive:         true,
	}
	if mutate != nil {
		mutate(product)
	}
	if err := models.DB.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func reloadProduct(t *testing.T, id uint) *models.Product {
	t.Helper()
	var product models.Product
	if err := models.DB.First(&product, id).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	return &product
}

func newTestRelationshipService() *RelationshipService {
	return NewRelationshipService(
		repository.NewRelationshipRepository(models.DB),
		repository.NewUserRepository(models.DB),
		repository.NewOrderRepository(models.DB),
	)
}

func newTestOrderService() *OrderService {
	return NewOrderService(
		repository.NewOrderRepository(models.DB),
		repository.NewProductRepository(models.DB),
		repository.NewUserRepository(models.DB),
		nil,
		30,
	)
}

func newTestSampleService() *SampleService {
	return NewSampleService(
		repository.NewSampleRepository(models.DB),
		repository.NewProductRepository(models.DB),
		repository.NewUserRepository(models.DB),
		nil,
		NewNotificationService(nil),
		14,
	)
}

func newTestCollectionService() *CollectionService {
	return NewCollectionService(
		repository.NewCollectionRepository(models.DB),
		repository.NewProductRepository(models.DB),
	)
}
