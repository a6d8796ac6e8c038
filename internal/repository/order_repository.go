package repository

import (
	"errors"
	"strings"

	"github.com/yuntuike/yanxuan/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem) error
	GetByID(id uint) (*models.Order, error)
	GetByOrderNo(orderNo string) (*models.Order, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	UpdateStatus(id uint, status string, updates map[string]interface{}) error
	SumByReferrers(referrerIDs []uint) (*OrderRollup, error)
	CountByStatus(buyerID, merchantID uint) (map[string]int64, error)
	WithTx(tx *gorm.DB) OrderRepository
}

// OrderRollup 订单聚合结果
type OrderRollup struct {
	Orders     int64
	Amount     models.Money
	Commission models.Money
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Create 创建订单与订单项
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem) error {
	if err := r.db.Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetByID 根据 ID 获取订单
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNo 根据订单编号获取订单
func (r *GormOrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").Where("order_no = ?", orderNo).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// List 订单列表
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	var orders []models.Order

	query := r.db.Model(&models.Order{})
	if filter.BuyerID != 0 {
		query = query.Where("buyer_id = ?", filter.BuyerID)
	}
	if filter.MerchantID != 0 {
		query = query.Where("merchant_id = ?", filter.MerchantID)
	}
	if filter.ReferrerID != 0 {
		query = query.Where("referrer_id = ?", filter.ReferrerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OrderNo != "" {
		query = query.Where("order_no = ?", filter.OrderNo)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("order_no "+likeOperator(r.db)+" ?", like)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus 更新订单状态及附带字段
func (r *GormOrderRepository) UpdateStatus(id uint, status string, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = status
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}

// SumByReferrers 按推荐人集合聚合订单数、金额与佣金
func (r *GormOrderRepository) SumByReferrers(referrerIDs []uint) (*OrderRollup, error) {
	rollup := &OrderRollup{}
	if len(referrerIDs) == 0 {
		return rollup, nil
	}
	type row struct {
		Orders     int64
		Amount     models.Money
		Commission models.Money
	}
	var result row
	err := r.db.Model(&models.Order{}).
		Select("COUNT(*) AS orders, COALESCE(SUM(final_amount), 0) AS amount, COALESCE(SUM(commission_total), 0) AS commission").
		Where("referrer_id IN ? AND status <> ?", referrerIDs, "cancelled").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}
	rollup.Orders = result.Orders
	rollup.Amount = result.Amount
	rollup.Commission = result.Commission
	return rollup, nil
}

// CountByStatus 按状态统计订单数量（买家或商家视角）
func (r *GormOrderRepository) CountByStatus(buyerID, merchantID uint) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	query := r.db.Model(&models.Order{})
	if buyerID != 0 {
		query = query.Where("buyer_id = ?", buyerID)
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
