package repository

import (
	"errors"

	"github.com/yuntuike/yanxuan/internal/models"

	"gorm.io/gorm"
)

// SampleRepository 样品申请数据访问接口
type SampleRepository interface {
	Create(sample *models.Sample) error
	GetByID(id uint) (*models.Sample, error)
	CountNonTerminal(productID, applicantID uint, statuses []string) (int64, error)
	List(filter SampleListFilter) ([]models.Sample, int64, error)
	UpdateStatus(id uint, status string, updates map[string]interface{}) error
	Update(sample *models.Sample) error
	CountByStatus(applicantID, merchantID uint) (map[string]int64, error)
	WithTx(tx *gorm.DB) SampleRepository
}

// GormSampleRepository GORM 实现
type GormSampleRepository struct {
	db *gorm.DB
}

// NewSampleRepository 创建样品申请仓库
func NewSampleRepository(db *gorm.DB) *GormSampleRepository {
	return &GormSampleRepository{db: db}
}

// WithTx 绑定事务
func (r *GormSampleRepository) WithTx(tx *gorm.DB) SampleRepository {
	if tx == nil {
		return r
	}
	return &GormSampleRepository{db: tx}
}

// Create 创建样品申请
func (r *GormSampleRepository) Create(sample *models.Sample) error {
	return r.db.Create(sample).Error
}

// GetByID 根据 ID 获取样品申请
func (r *GormSampleRepository) GetByID(id uint) (*models.Sample, error) {
	var sample models.Sample
	if err := r.db.Preload("Product").First(&sample, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sample, nil
}

// CountNonTerminal 统计同一（商品, 申请人）处于指定状态的申请数
func (r *GormSampleRepository) CountNonTerminal(productID, applicantID uint, statuses []string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Sample{}).
		Where("product_id = ? AND applicant_id = ? AND status IN ?", productID, applicantID, statuses).
		Count(&count).Error
	return count, err
}

// List 样品申请列表
func (r *GormSampleRepository) List(filter SampleListFilter) ([]models.Sample, int64, error) {
	var samples []models.Sample

	query := r.db.Model(&models.Sample{})
	if filter.ApplicantID != 0 {
		query = query.Where("applicant_id = ?", filter.ApplicantID)
	}
	if filter.MerchantID != 0 {
		query = query.Where("merchant_id = ?", filter.MerchantID)
	}
	if filter.ProductID != 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Preload("Product").Order("created_at DESC").Find(&samples).Error; err != nil {
		return nil, 0, err
	}
	return samples, total, nil
}

// UpdateStatus 更新样品申请状态及附带字段
func (r *GormSampleRepository) UpdateStatus(id uint, status string, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = status
	return r.db.Model(&models.Sample{}).Where("id = ?", id).Updates(updates).Error
}

// Update 保存样品申请
func (r *GormSampleRepository) Update(sample *models.Sample) error {
	return r.db.Save(sample).Error
}

// CountByStatus 按状态统计样品申请数量
func (r *GormSampleRepository) CountByStatus(applicantID, merchantID uint) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	query := r.db.Model(&models.Sample{})
	if applicantID != 0 {
		query = query.Where("applicant_id = ?", applicantID)
	}
	if merchantID != 0 {
		query = query.Where("merchant_id = ?", merchantID)
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
