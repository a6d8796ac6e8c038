package service

import (
	"errors"
	"testing"

	"github.com/yuntuike/yanxuan/internal/constants"
	"github.com/yuntuike/yanxuan/internal/models"
	"github.com/yuntuike/yanxuan/internal/repository"
)

func newTestProductService() *ProductService {
	return NewProductService(
		repository.NewProductRepository(models.DB),
		repository.NewUserRepository(models.DB),
	)
}

func TestCreateProductOwnership(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestProductService()
	merchant := createTestUser(t, constants.RoleMerchant)
	other := createTestUser(t, constants.RoleMerchant)
	admin := createTestUser(t, constants.RoleAdmin)

	input := CreateProductInput{
		MerchantID:     merchant.ID,
		Title:          "无线蓝牙耳机",
		Price:          money("99.90"),
		CommissionRate: money("12"),
		StockQuantity:  100,
	}

	// 其他商家不能替人建品
	if _, err := svc.CreateProduct(input, other.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("other merchant error = %v, want ErrForbidden", err)
	}

	product, err := svc.CreateProduct(input, merchant.ID)
	if err != nil {
		t.Fatalf("merchant create failed: %v", err)
	}
	if !product.IsActive {
		t.Fatal("new product should be active")
	}
	if product.MinOrderQuantity != 1 {
		t.Fatalf("min order quantity = %d, want default 1", product.MinOrderQuantity)
	}

	if _, err := svc.CreateProduct(input, admin.ID); err != nil {
		t.Fatalf("admin create failed: %v", err)
	}
}

func TestUpdateAndDeleteProductOwnerOnly(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestProductService()
	merchant := createTestUser(t, constants.RoleMerchant)
	other := createTestUser(t, constants.RoleMerchant)
	product := createTestProduct(t, merchant.ID, nil)

	if _, err := svc.UpdateProduct(product.ID, other.ID, nil); !errors.Is(err, ErrForbidden) {
		t.Fatalf("other update error = %v, want ErrForbidden", err)
	}

	updated, err := svc.UpdateProduct(product.ID, merchant.ID, func(p *models.Product) {
		p.Title = "改名后的商品"
		p.IsActive = false
	})
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if updated.Title != "改名后的商品" || updated.IsActive {
		t.Fatalf("update not applied: %+v", updated)
	}

	if err := svc.DeleteProduct(product.ID, other.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("other delete error = %v, want ErrForbidden", err)
	}
	if err := svc.DeleteProduct(product.ID, merchant.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if _, err := svc.GetProduct(product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("get deleted error = %v, want ErrProductNotFound", err)
	}
}

func TestAdjustStock(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestProductService()
	merchant := createTestUser(t, constants.RoleMerchant)
	product := createTestProduct(t, merchant.ID, func(p *models.Product) { p.StockQuantity = 10 })

	increased, err := svc.AdjustStock(product.ID, merchant.ID, 5)
	if err != nil {
		t.Fatalf("increase failed: %v", err)
	}
	if increased.StockQuantity != 15 {
		t.Fatalf("stock = %d, want 15", increased.StockQuantity)
	}

	decreased, err := svc.AdjustStock(product.ID, merchant.ID, -12)
	if err != nil {
		t.Fatalf("decrease failed: %v", err)
	}
	if decreased.StockQuantity != 3 {
		t.Fatalf("stock = %d, want 3", decreased.StockQuantity)
	}

	// 超量扣减条件更新零行命中
	if _, err := svc.AdjustStock(product.ID, merchant.ID, -4); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("overdraw error = %v, want ErrInsufficientStock", err)
	}
	if got := reloadProduct(t, product.ID).StockQuantity; got != 3 {
		t.Fatalf("stock after failed overdraw = %d, want 3", got)
	}
}
