package service

import (
	"time"

	"github.com/yuntuike/yanxuan/internal/constants"
	"github.com/yuntuike/yanxuan/internal/logger"
	"github.com/yuntuike/yanxuan/internal/models"
	"github.com/yuntuike/yanxuan/internal/repository"
)

// CollectionService 货盘服务
type CollectionService struct {
	collectionRepo repository.CollectionRepository
	productRepo    repository.ProductRepository
}

// NewCollectionService 创建货盘服务
func NewCollectionService(
	collectionRepo repository.CollectionRepository,
	productRepo repository.ProductRepository,
) *CollectionService {
	return &CollectionService{
		collectionRepo: collectionRepo,
		productRepo:    productRepo,
	}
}

// CreateCollectionInput 创建货盘输入
type CreateCollectionInput struct {
	OwnerID     uint
	Title       string
	Description string
	Type        string
	IsPublic    bool
	CoverImage  string
	Tags        []string
}

// UpdateCollectionInput 更新货盘输入
type UpdateCollectionInput struct {
	Title       *string
	Description *string
	Type        *string
	Status      *string
	IsPublic    *bool
	CoverImage  *string
	Tags        []string
}

// AddCollectionItemInput 添加货盘商品输入
type AddCollectionItemInput struct {
	ProductID            uint
	SortOrder            int
	IsFeatured           bool
	CustomPrice          *models.Money
	CustomCommissionRate *models.Money
}

// CreateCollection 创建货盘
func (s *CollectionService) CreateCollection(input CreateCollectionInput) (*models.Collection, error) {
	if input.OwnerID == 0 || input.Title == "" {
		return nil, ErrInvalidInput
	}
	collection := &models.Collection{
		OwnerID:     input.OwnerID,
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		Status:      constants.CollectionStatusActive,
		IsPublic:    input.IsPublic,
		CoverImage:  input.CoverImage,
		Tags:        input.Tags,
	}
	if collection.Type == "" {
		collection.Type = constants.CollectionTypeGeneral
	}
	if err := s.collectionRepo.Create(collection); err != nil {
		logger.Errorw("collection_create_failed", "owner_id", input.OwnerID, "error", err)
		return nil, err
	}
	return collection, nil
}

// GetCollection 获取货盘详情。
// 私有货盘仅创建者可见；非创建者访问时自增浏览计数。
func (s *CollectionService) GetCollection(collectionID, callerID uint) (*models.Collection, error) {
	collection, err := s.collectionRepo.GetByID(collectionID)
	if err != nil {
		return nil, err
	}
	if collection == nil {
		return nil, ErrCollectionNotFound
	}
	if !collection.IsPublic && collection.OwnerID != callerID {
		return nil, ErrForbidden
	}
	if collection.OwnerID != callerID {
		if err := s.collectionRepo.IncrementCounter(collection.ID, "view_count"); err != nil {
			logger.Warnw("collection_view_count_failed", "collection_id", collection.ID, "error", err)
		}
	}
	return collection, nil
}

// UpdateCollection 更新货盘（仅创建者）
func (s *CollectionService) UpdateCollection(collectionID, callerID uint, input UpdateCollectionInput) (*models.Collection, error) {
	collection, err := s.collectionRepo.GetByID(collectionID)
	if err != nil {
		return nil, err
	}
	if collection == nil {
		return nil, ErrCollectionNotFound
	}
	if collection.OwnerID != callerID {
		return nil, ErrForbidden
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Type != nil {
		updates["type"] = *input.Type
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}
	if input.IsPublic != nil {
		updates["is_public"] = *input.IsPublic
	}
	if input.CoverImage != nil {
		updates["cover_image"] = *input.CoverImage
	}
	if input.Tags != nil {
		updates["tags"] = models.StringArray(input.Tags)
	}

	if err := s.collectionRepo.UpdateFields(collection.ID, updates); err != nil {
		return nil, err
	}
	return s.collectionRepo.GetByID(collection.ID)
}

// DeleteCollection 删除货盘（软删除墓碑，业务状态保持不变）
func (s *CollectionService) DeleteCollection(collectionID, callerID uint) error {
	collection, err := s.collectionRepo.GetByID(collectionID)
	if err != nil {
		return err
	}
	if collection == nil {
		return ErrCollectionNotFound
	}
	if collection.OwnerID != callerID {
		return ErrForbidden
	}
	return s.collectionRepo.Delete(collection.ID)
}

// AddItem 添加货盘商品。
// 要求货盘处于启用状态、商品存在且未在货盘中。
func (s *CollectionService) AddItem(collectionID, callerID uint, input AddCollectionItemInput) (*models.CollectionItem, error) {
	collection, err := s.collectionRepo.GetByID(collectionID)
	if err != nil {
		return nil, err
	}
	if collection == nil {
		return nil, ErrCollectionNotFound
	}
	if collection.OwnerID != callerID {
		return nil, ErrForbidden
	}
	if collection.Status != constants.CollectionStatusActive {
		return nil, ErrCollectionNotActive
	}

	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	existing, err := s.collectionRepo.CountItemsByProduct(collection.ID, input.ProductID)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrProductInCollection
	}

	item := &models.CollectionItem{
		CollectionID:         collection.ID,
		ProductID:            input.ProductID,
		SortOrder:            input.SortOrder,
		IsFeatured:           input.IsFeatured,
		CustomPrice:          input.CustomPrice,
		CustomCommissionRate: input.CustomCommissionRate,
	}
	if err := s.collectionRepo.AddItem(item); err != nil {
		return nil, err
	}

	// 商品变动视为货盘内容更新
	if err := s.collectionRepo.UpdateFields(collection.ID, map[string]interface{}{
		"updated_at": time.Now(),
	}); err != nil {
		logger.Warnw("collection_touch_failed", "collection_id", collection.ID, "error", err)
	}
	return item, nil
}

// RemoveItem 移除货盘商品（仅创建者）
func (s *CollectionService) RemoveItem(collectionID, itemID, callerID uint) error {
	collection, err := s.collectionRepo.GetByID(collectionID)
	if err != nil {
		return err
	}
	if collection == nil {
		return ErrCollectionNotFound
	}
	if collection.OwnerID != callerID {
		return ErrForbidden
	}

	item, err := s.collectionRepo.GetItem(collection.ID, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrCollectionItemNotFound
	}
	return s.collectionRepo.RemoveItem(collection.ID, itemID)
}

// ListItems 获取货盘商品列表（私有货盘仅创建者）
func (s *CollectionService) ListItems(collectionID, callerID uint) ([]models.CollectionItem, error) {
	collection, err := s.collectionRepo.GetByID(collectionID)
	if err != nil {
		return nil, err
	}
	if collection == nil {
		return nil, ErrCollectionNotFound
	}
	if !collection.IsPublic && collection.OwnerID != callerID {
		return nil, ErrForbidden
	}
	return s.collectionRepo.ListItems(collection.ID)
}

// SearchCollections 搜索货盘（可见性规则由仓库层统一收口）
func (s *CollectionService) SearchCollections(filter repository.CollectionListFilter) ([]models.Collection, int64, error) {
	return s.collectionRepo.List(filter)
}

// ShareCollection 分享货盘，自增分享计数
func (s *CollectionService) ShareCollection(collectionID, callerID uint) error {
	collection, err := s.collectionRepo.GetByID(collectionID)
	if err != nil {
		return err
	}
	if collection == nil {
		return ErrCollectionNotFound
	}
	if !collection.IsPublic && collection.OwnerID != callerID {
		return ErrForbidden
	}
	return s.collectionRepo.IncrementCounter(collection.ID, "share_count")
}

// GetCollectionStatistics 货盘统计
func (s *CollectionService) GetCollectionStatistics(ownerID uint) (map[string]int64, error) {
	return s.collectionRepo.CountByStatus(ownerID)
}
