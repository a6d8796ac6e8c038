package service

import (
	"github.com/yuntuike/yanxuan/internal/models"
	"github.com/yuntuike/yanxuan/internal/repository"
)

// ProductService 商品服务
type ProductService struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository, userRepo repository.UserRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

// CreateProductInput 创建商品输入
type CreateProductInput struct {
	MerchantID       uint
	Title            string
	Description      string
	Category         string
	Brand            string
	Price            models.Money
	OriginalPrice    models.Money
	CommissionRate   models.Money
	StockQuantity    int
	MinOrderQuantity int
	MaxOrderQuantity int
	AllowSample      bool
	SamplePrice      models.Money
	Images           []string
	Tags             []string
	Specs            models.JSON
}

// CreateProduct 创建商品（仅商家或管理员）
func (s *ProductService) CreateProduct(input CreateProductInput, operatorID uint) (*models.Product, error) {
	if input.MerchantID == 0 || input.Title == "" {
		return nil, ErrInvalidInput
	}
	operator, err := s.userRepo.GetByID(operatorID)
	if err != nil {
		return nil, err
	}
	if operator == nil {
		return nil, ErrUserNotFound
	}
	if operatorID != input.MerchantID && !operator.IsAdmin() {
		return nil, ErrForbidden
	}

	product := &models.Product{
		MerchantID:       input.MerchantID,
		Title:            input.Title,
		Description:      input.Description,
		Category:         input.Category,
		Brand:            input.Brand,
		Price:            input.Price,
		OriginalPrice:    input.OriginalPrice,
		CommissionRate:   input.CommissionRate,
		StockQuantity:    input.StockQuantity,
		MinOrderQuantity: input.MinOrderQuantity,
		MaxOrderQuantity: input.MaxOrderQuantity,
		AllowSample:      input.AllowSample,
		SamplePrice:      input.SamplePrice,
		Images:           input.Images,
		Tags:             input.Tags,
		SpecsJSON:        input.Specs,
		IsActive:         true,
	}
	if product.MinOrderQuantity <= 0 {
		product.MinOrderQuantity = 1
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct 获取商品详情
func (s *ProductService) GetProduct(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ListProducts 商品列表
func (s *ProductService) ListProducts(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// UpdateProduct 更新商品（仅所属商家或管理员）
func (s *ProductService) UpdateProduct(id uint, operatorID uint, updates func(*models.Product)) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if err := s.requireOwnerOrAdmin(product, operatorID); err != nil {
		return nil, err
	}
	if updates != nil {
		updates(product)
	}
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct 删除商品（仅所属商家或管理员）
func (s *ProductService) DeleteProduct(id uint, operatorID uint) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	if err := s.requireOwnerOrAdmin(product, operatorID); err != nil {
		return err
	}
	return s.productRepo.Delete(id)
}

// AdjustStock 调整库存。
// 减少走条件扣减，返回 0 行即库存不足。
func (s *ProductService) AdjustStock(id uint, operatorID uint, delta int) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if err := s.requireOwnerOrAdmin(product, operatorID); err != nil {
		return nil, err
	}

	switch {
	case delta < 0:
		affected, err := s.productRepo.ReserveStock(id, -delta)
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			return nil, ErrInsufficientStock
		}
	case delta > 0:
		if _, err := s.productRepo.RestoreStock(id, delta); err != nil {
			return nil, err
		}
	}
	return s.productRepo.GetByID(id)
}

func (s *ProductService) requireOwnerOrAdmin(product *models.Product, operatorID uint) error {
	if operatorID == product.MerchantID {
		return nil
	}
	operator, err := s.userRepo.GetByID(operatorID)
	if err != nil {
		return err
	}
	if operator == nil {
		return ErrUserNotFound
	}
	if !operator.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
