package repository

import (
	"errors"
	"strings"

	"github.com/yuntuike/yanxuan/internal/models"

	"gorm.io/gorm"
)

// CollectionRepository 货盘数据访问接口
type CollectionRepository interface {
	Create(collection *models.Collection) error
	GetByID(id uint) (*models.Collection, error)
	List(filter CollectionListFilter) ([]models.Collection, int64, error)
	Update(collection *models.Collection) error
	UpdateFields(id uint, updates map[string]interface{}) error
	Delete(id uint) error
	AddItem(item *models.CollectionItem) error
	GetItem(collectionID, itemID uint) (*models.CollectionItem, error)
	CountItemsByProduct(collectionID, productID uint) (int64, error)
	ListItems(collectionID uint) ([]models.CollectionItem, error)
	RemoveItem(collectionID, itemID uint) error
	IncrementCounter(id uint, column string) error
	CountByStatus(ownerID uint) (map[string]int64, error)
	WithTx(tx *gorm.DB) CollectionRepository
}

// GormCollectionRepository GORM 实现
type GormCollectionRepository struct {
	db *gorm.DB
}

// NewCollectionRepository 创建货盘仓库
func NewCollectionRepository(db *gorm.DB) *GormCollectionRepository {
	return &GormCollectionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCollectionRepository) WithTx(tx *gorm.DB) CollectionRepository {
	if tx == nil {
		return r
	}
	return &GormCollectionRepository{db: tx}
}

// Create 创建货盘
func (r *GormCollectionRepository) Create(collection *models.Collection) error {
	return r.db.Create(collection).Error
}

// GetByID 根据 ID 获取货盘（含商品）
func (r *GormCollectionRepository) GetByID(id uint) (*models.Collection, error) {
	var collection models.Collection
	err := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Preload("Items.Product").
		First(&collection, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &collection, nil
}

// collectionSortColumns 可排序字段白名单
var collectionSortColumns = map[string]bool{
	"created_at":  true,
	"updated_at":  true,
	"view_count":  true,
	"share_count": true,
	"sort_order":  true,
}

// collectionOrderClause 归一外部传入的排序参数。
// order_by 来自请求参数，白名单外的任何输入一律回退默认排序，不得拼入 SQL。
func collectionOrderClause(orderBy string) string {
	const fallback = "updated_at DESC"
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(orderBy)))
	if len(fields) == 0 || len(fields) > 2 {
		return fallback
	}
	if !collectionSortColumns[fields[0]] {
		return fallback
	}
	direction := "DESC"
	if len(fields) == 2 {
		switch fields[1] {
		case "asc":
			direction = "ASC"
		case "desc":
			direction = "DESC"
		default:
			return fallback
		}
	}
	return fields[0] + " " + direction
}

// List 货盘列表。
// 可见性规则：公开货盘所有人可见，私有货盘仅创建者可见。
func (r *GormCollectionRepository) List(filter CollectionListFilter) ([]models.Collection, int64, error) {
	var collections []models.Collection

	query := r.db.Model(&models.Collection{})
	if filter.OwnerID != 0 && filter.OwnerID != filter.CallerID {
		// 查询他人货盘时只允许公开内容
		query = query.Where("owner_id = ? AND is_public = ?", filter.OwnerID, true)
	} else if filter.OwnerID != 0 {
		query = query.Where("owner_id = ?", filter.OwnerID)
	} else if filter.CallerID != 0 {
		query = query.Where("is_public = ? OR owner_id = ?", true, filter.CallerID)
	} else {
		query = query.Where("is_public = ?", true)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		like := "%" + keyword + "%"
		op := likeOperator(r.db)
		query = query.Where("title "+op+" ? OR description "+op+" ?", like, like)
	}
	if tag := strings.TrimSpace(filter.Tag); tag != "" {
		query = query.Where("tags "+likeOperator(r.db)+" ?", "%\""+tag+"\"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order(collectionOrderClause(filter.OrderBy)).Find(&collections).Error; err != nil {
		return nil, 0, err
	}
	return collections, total, nil
}

// Update 保存货盘
func (r *GormCollectionRepository) Update(collection *models.Collection) error {
	return r.db.Save(collection).Error
}

// UpdateFields 更新货盘指定字段
func (r *GormCollectionRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.Collection{}).Where("id = ?", id).Updates(updates).Error
}

// Delete 删除货盘（软删除墓碑，与业务状态分离）
func (r *GormCollectionRepository) Delete(id uint) error {
	return r.db.Delete(&models.Collection{}, id).Error
}

// AddItem 添加货盘商品
func (r *GormCollectionRepository) AddItem(item *models.CollectionItem) error {
	return r.db.Create(item).Error
}

// GetItem 获取货盘商品
func (r *GormCollectionRepository) GetItem(collectionID, itemID uint) (*models.CollectionItem, error) {
	var item models.CollectionItem
	err := r.db.
		Where("id = ? AND collection_id = ?", itemID, collectionID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// CountItemsByProduct 统计货盘内同一商品的条目数
func (r *GormCollectionRepository) CountItemsByProduct(collectionID, productID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.CollectionItem{}).
		Where("collection_id = ? AND product_id = ?", collectionID, productID).
		Count(&count).Error
	return count, err
}

// ListItems 获取货盘商品列表
func (r *GormCollectionRepository) ListItems(collectionID uint) ([]models.CollectionItem, error) {
	var items []models.CollectionItem
	err := r.db.
		Preload("Product").
		Where("collection_id = ?", collectionID).
		Order("sort_order ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// RemoveItem 移除货盘商品
func (r *GormCollectionRepository) RemoveItem(collectionID, itemID uint) error {
	return r.db.
		Where("id = ? AND collection_id = ?", itemID, collectionID).
		Delete(&models.CollectionItem{}).Error
}

// IncrementCounter 自增浏览/分享计数
func (r *GormCollectionRepository) IncrementCounter(id uint, column string) error {
	if column != "view_count" && column != "share_count" {
		return errors.New("unsupported counter column")
	}
	return r.db.Model(&models.Collection{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + 1")).Error
}

// CountByStatus 按状态统计货盘数量
func (r *GormCollectionRepository) CountByStatus(ownerID uint) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	query := r.db.Model(&models.Collection{})
	if ownerID != 0 {
		query = query.Where("owner_id = ?", ownerID)
	}
	var rows []row
	if err := query.Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, item := range rows {
		result[item.Status] = item.Count
	}
	return result, nil
}
