package repository

import (
	"errors"

	"github.com/yuntuike/yanxuan/internal/constants"
	"github.com/yuntuike/yanxuan/internal/models"

	"gorm.io/gorm"
)

// RelationshipRepository 用户关系数据访问接口
type RelationshipRepository interface {
	Create(rel *models.UserRelationship) error
	GetByID(id uint) (*models.UserRelationship, error)
	GetByPairAndType(userID, relatedUserID uint, relType string) (*models.UserRelationship, error)
	GetActiveUpstreamBinding(userID uint) (*models.UserRelationship, error)
	ListActiveDownstreamBindings(relatedUserID uint) ([]models.UserRelationship, error)
	CountActiveUpstreamBindings(userID uint, excludeID uint) (int64, error)
	List(filter RelationshipListFilter) ([]models.UserRelationship, int64, error)
	Update(rel *models.UserRelationship) error
	UpdateStatus(id uint, status string, updates map[string]interface{}) error
	CountByStatus(userID uint) (map[string]int64, error)
	WithTx(tx *gorm.DB) RelationshipRepository
}

// GormRelationshipRepository GORM 实现
type GormRelationshipRepository struct {
	db *gorm.DB
}

// NewRelationshipRepository 创建用户关系仓库
func NewRelationshipRepository(db *gorm.DB) *GormRelationshipRepository {
	return &GormRelationshipRepository{db: db}
}

// WithTx 绑定事务
func (r *GormRelationshipRepository) WithTx(tx *gorm.DB) RelationshipRepository {
	if tx == nil {
		return r
	}
	return &GormRelationshipRepository{db: tx}
}

// Create 创建用户关系
func (r *GormRelationshipRepository) Create(rel *models.UserRelationship) error {
	return r.db.Create(rel).Error
}

// GetByID 根据 ID 获取用户关系
func (r *GormRelationshipRepository) GetByID(id uint) (*models.UserRelationship, error) {
	var rel models.UserRelationship
	if err := r.db.First(&rel, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rel, nil
}

// GetByPairAndType 根据有序用户对与类型获取关系
func (r *GormRelationshipRepository) GetByPairAndType(userID, relatedUserID uint, relType string) (*models.UserRelationship, error) {
	var rel models.UserRelationship
	err := r.db.
		Where("user_id = ? AND related_user_id = ? AND type = ?", userID, relatedUserID, relType).
		First(&rel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rel, nil
}

// GetActiveUpstreamBinding 获取用户生效中的上级绑定关系。
// 按 id 升序取第一条，结果确定。
func (r *GormRelationshipRepository) GetActiveUpstreamBinding(userID uint) (*models.UserRelationship, error) {
	var rel models.UserRelationship
	err := r.db.
		Preload("RelatedUser").
		Where("user_id = ? AND type = ? AND status = ?", userID, constants.RelationshipTypeBinding, constants.RelationshipStatusActive).
		Order("id ASC").
		First(&rel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rel, nil
}

// ListActiveDownstreamBindings 获取以指定用户为上级的生效绑定关系列表
func (r *GormRelationshipRepository) ListActiveDownstreamBindings(relatedUserID uint) ([]models.UserRelationship, error) {
	var rels []models.UserRelationship
	err := r.db.
		Preload("User").
		Where("related_user_id = ? AND type = ? AND status = ?", relatedUserID, constants.RelationshipTypeBinding, constants.RelationshipStatusActive).
		Order("id ASC").
		Find(&rels).Error
	if err != nil {
		return nil, err
	}
	return rels, nil
}

// CountActiveUpstreamBindings 统计用户生效中的上级绑定数量（可排除指定关系）
func (r *GormRelationshipRepository) CountActiveUpstreamBindings(userID uint, excludeID uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.UserRelationship{}).
		Where("user_id = ? AND type = ? AND status = ?", userID, constants.RelationshipTypeBinding, constants.RelationshipStatusActive)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count, err
}

// List 用户关系列表
func (r *GormRelationshipRepository) List(filter RelationshipListFilter) ([]models.UserRelationship, int64, error) {
	var rels []models.UserRelationship

	query := r.db.Model(&models.UserRelationship{})
	if filter.EitherSideOf != 0 {
		query = query.Where("user_id = ? OR related_user_id = ?", filter.EitherSideOf, filter.EitherSideOf)
	}
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.RelatedUserID != 0 {
		query = query.Where("related_user_id = ?", filter.RelatedUserID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	err := query.
		Preload("User").
		Preload("RelatedUser").
		Order("created_at DESC").
		Find(&rels).Error
	if err != nil {
		return nil, 0, err
	}
	return rels, total, nil
}

// Update 保存用户关系
func (r *GormRelationshipRepository) Update(rel *models.UserRelationship) error {
	return r.db.Save(rel).Error
}

// UpdateStatus 更新关系状态及附带字段
func (r *GormRelationshipRepository) UpdateStatus(id uint, status string, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = status
	return r.db.Model(&models.UserRelationship{}).Where("id = ?", id).Updates(updates).Error
}

// CountByStatus 按状态统计用户参与的关系数量
func (r *GormRelationshipRepository) CountByStatus(userID uint) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.Model(&models.UserRelationship{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ? OR related_user_id = ?", userID, userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, item := range rows {
		result[item.Status] = item.Count
	}
	return result, nil
}
