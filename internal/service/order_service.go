package service

import (
	"time"

	"github.com/yuntuike/yanxuan/internal/constants"
	"github.com/yuntuike/yanxuan/internal/logger"
	"github.com/yuntuike/yanxuan/internal/models"
	"github.com/yuntuike/yanxuan/internal/queue"
	"github.com/yuntuike/yanxuan/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	queueClient *queue.Client
	timeout     time.Duration
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	queueClient *queue.Client,
	timeoutMinutes int,
) *OrderService {
	if timeoutMinutes <= 0 {
		timeoutMinutes = 30
	}
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		queueClient: queueClient,
		timeout:     time.Duration(timeoutMinutes) * time.Minute,
	}
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	BuyerID         uint
	ReferrerID      *uint
	Items           []CreateOrderItem
	ShippingAddress models.JSON
	ShippingFee     models.Money
	DiscountAmount  models.Money
	BuyerNotes      string
	ClientIP        string
}

// CreateOrderItem 创建订单项输入
type CreateOrderItem struct {
	ProductID uint
	Quantity  int
}

// orderItemPlan 订单项计划数据
type orderItemPlan struct {
	Product    *models.Product
	Item       models.OrderItem
	Subtotal   decimal.Decimal
	Commission decimal.Decimal
}

// orderAllowedTransitions 订单状态流转表
var orderAllowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusConfirmed: true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusConfirmed: {
		constants.OrderStatusShipped:   true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusDelivered: true,
	},
}

func isOrderTransitionAllowed(current, target string) bool {
	nexts, ok := orderAllowedTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}

// CreateOrder 创建订单。
// 商品校验、库存条件扣减与订单/订单项写入在同一事务内完成，
// 任一环节失败整体回滚，库存不会被吃掉。
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if input.BuyerID == 0 || len(input.Items) == 0 {
		return nil, ErrInvalidOrderItem
	}

	buyer, err := s.userRepo.GetByID(input.BuyerID)
	if err != nil {
		return nil, err
	}
	if buyer == nil {
		return nil, ErrUserNotFound
	}

	plans := make([]orderItemPlan, 0, len(input.Items))
	var merchantID uint
	totalAmount := decimal.Zero
	commissionTotal := decimal.Zero

	for _, item := range input.Items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return nil, ErrInvalidOrderItem
		}
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, ErrProductNotFound
		}
		if !product.IsActive {
			return nil, ErrProductInactive
		}
		if item.Quantity > product.StockQuantity {
			return nil, ErrInsufficientStock
		}
		if item.Quantity < product.MinOrderQuantity {
			return nil, ErrBelowMinimumOrder
		}
		if product.MaxOrderQuantity > 0 && item.Quantity > product.MaxOrderQuantity {
			return nil, ErrAboveMaximumOrder
		}
		if merchantID == 0 {
			merchantID = product.MerchantID
		} else if merchantID != product.MerchantID {
			// 单笔订单只允许同一商家的商品
			return nil, ErrInvalidOrderItem
		}

		quantity := decimal.NewFromInt(int64(item.Quantity))
		subtotal := product.Price.Decimal.Mul(quantity)
		commission := subtotal.Mul(product.CommissionRate.Decimal).Div(decimal.NewFromInt(100))

		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		plans = append(plans, orderItemPlan{
			Product: product,
			Item: models.OrderItem{
				ProductID:        product.ID,
				ProductTitle:     product.Title,
				ProductImage:     image,
				UnitPrice:        product.Price,
				Quantity:         item.Quantity,
				Subtotal:         models.NewMoneyFromDecimal(subtotal),
				CommissionRate:   product.CommissionRate,
				CommissionAmount: models.NewMoneyFromDecimal(commission),
			},
			Subtotal:   subtotal,
			Commission: commission,
		})
		totalAmount = totalAmount.Add(subtotal)
		commissionTotal = commissionTotal.Add(commission)
	}

	finalAmount := totalAmount.Add(input.ShippingFee.Decimal).Sub(input.DiscountAmount.Decimal)
	if finalAmount.IsNegative() {
		finalAmount = decimal.Zero
	}

	order := &models.Order{
		OrderNo:         generateOrderNo(),
		BuyerID:         input.BuyerID,
		MerchantID:      merchantID,
		ReferrerID:      input.ReferrerID,
		Status:          constants.OrderStatusPending,
		PaymentStatus:   constants.PaymentStatusPending,
		TotalAmount:     models.NewMoneyFromDecimal(totalAmount),
		DiscountAmount:  input.DiscountAmount,
		ShippingFee:     input.ShippingFee,
		FinalAmount:     models.NewMoneyFromDecimal(finalAmount),
		CommissionTotal: models.NewMoneyFromDecimal(commissionTotal),
		ShippingAddress: input.ShippingAddress,
		BuyerNotes:      input.BuyerNotes,
		ClientIP:        input.ClientIP,
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		txProductRepo := s.productRepo.WithTx(tx)
		for _, plan := range plans {
			affected, err := txProductRepo.ReserveStock(plan.Product.ID, plan.Item.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrInsufficientStock
			}
		}

		items := make([]models.OrderItem, 0, len(plans))
		for _, plan := range plans {
			items = append(items, plan.Item)
		}
		return s.orderRepo.WithTx(tx).Create(order, items)
	})
	if err != nil {
		if err != ErrInsufficientStock {
			logger.Errorw("order_create_failed",
				"buyer_id", input.BuyerID,
				"merchant_id", merchantID,
				"error", err,
			)
		}
		return nil, err
	}

	s.enqueueTimeoutCancel(order.ID)
	return s.orderRepo.GetByID(order.ID)
}

// enqueueTimeoutCancel 入队超时取消任务
func (s *OrderService) enqueueTimeoutCancel(orderID uint) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	if err := s.queueClient.EnqueueOrderTimeoutCancel(orderID, s.timeout); err != nil {
		logger.Warnw("order_timeout_task_enqueue_failed", "order_id", orderID, "error", err)
	}
}

// GetOrder 获取订单详情（仅买家、商家、推荐人或管理员可见）
func (s *OrderService) GetOrder(orderID, operatorID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !s.canViewOrder(order, operatorID) {
		return nil, ErrForbidden
	}
	return order, nil
}

func (s *OrderService) canViewOrder(order *models.Order, operatorID uint) bool {
	if operatorID == order.BuyerID || operatorID == order.MerchantID {
		return true
	}
	if order.ReferrerID != nil && *order.ReferrerID == operatorID {
		return true
	}
	operator, err := s.userRepo.GetByID(operatorID)
	if err != nil || operator == nil {
		return false
	}
	return operator.IsAdmin()
}

// UpdateOrderStatus 更新订单状态。
// 操作者必须是订单买家或商家；取消时在同一事务内回补库存。
func (s *OrderService) UpdateOrderStatus(orderID uint, newStatus string, operatorID uint, notes string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if operatorID != order.BuyerID && operatorID != order.MerchantID {
		return nil, ErrForbidden
	}
	if !isOrderTransitionAllowed(order.Status, newStatus) {
		return nil, ErrInvalidStatus
	}

	now := time.Now()
	updates := map[string]interface{}{
		"updated_at": now,
	}
	if notes != "" {
		updates["buyer_notes"] = notes
	}
	switch newStatus {
	case constants.OrderStatusConfirmed:
		updates["confirmed_at"] = now
	case constants.OrderStatusShipped:
		updates["shipped_at"] = now
	case constants.OrderStatusDelivered:
		updates["delivered_at"] = now
	case constants.OrderStatusCancelled:
		updates["cancelled_at"] = now
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if newStatus == constants.OrderStatusCancelled {
			txProductRepo := s.productRepo.WithTx(tx)
			for _, item := range order.Items {
				if _, err := txProductRepo.RestoreStock(item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}
		return s.orderRepo.WithTx(tx).UpdateStatus(order.ID, newStatus, updates)
	})
	if err != nil {
		logger.Errorw("order_status_update_failed",
			"order_id", order.ID,
			"from", order.Status,
			"to", newStatus,
			"error", err,
		)
		return nil, err
	}

	return s.orderRepo.GetByID(order.ID)
}

// MarkOrderPaid 标记订单支付成功（由支付回调触发）
func (s *OrderService) MarkOrderPaid(orderID uint, paidAt time.Time) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if order.PaymentStatus == constants.PaymentStatusSuccess {
		return nil
	}
	updates := map[string]interface{}{
		"payment_status": constants.PaymentStatusSuccess,
		"paid_at":        paidAt,
		"updated_at":     time.Now(),
	}
	return s.orderRepo.UpdateStatus(order.ID, order.Status, updates)
}

// CancelUnpaidOrder 取消超时未支付订单（由异步任务触发）
func (s *OrderService) CancelUnpaidOrder(orderID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return nil
	}
	if order.Status != constants.OrderStatusPending || order.PaymentStatus == constants.PaymentStatusSuccess {
		return nil
	}

	now := time.Now()
	return models.DB.Transaction(func(tx *gorm.DB) error {
		txProductRepo := s.productRepo.WithTx(tx)
		for _, item := range order.Items {
			if _, err := txProductRepo.RestoreStock(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return s.orderRepo.WithTx(tx).UpdateStatus(order.ID, constants.OrderStatusCancelled, map[string]interface{}{
			"payment_status": constants.PaymentStatusCancelled,
			"cancelled_at":   now,
			"updated_at":     now,
		})
	})
}

// ListOrders 订单列表
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// GetOrderStatistics 订单统计（买家或商家视角）
func (s *OrderService) GetOrderStatistics(buyerID, merchantID uint) (map[string]int64, error) {
	return s.orderRepo.CountByStatus(buyerID, merchantID)
}
