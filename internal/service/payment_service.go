package service

import (
	"context"
	"time"

	"github.com/yuntuike/yanxuan/internal/constants"
	"github.com/yuntuike/yanxuan/internal/logger"
	"github.com/yuntuike/yanxuan/internal/models"
	"github.com/yuntuike/yanxuan/internal/repository"
)

// PrepayResult 预支付结果
type PrepayResult struct {
	PrepayID  string `json:"prepay_id"`
	NonceStr  string `json:"nonce_str"`
	Package   string `json:"package"`
	PaySign   string `json:"pay_sign"`
	Timestamp string `json:"timestamp"`
	SignType  string `json:"sign_type"`
}

// PaymentCallbackResult 支付回调验签解密后的结果
type PaymentCallbackResult struct {
	OrderNo       string
	TransactionID string
	Success       bool
	PaidAt        *time.Time
	Raw           models.JSON
}

// PaymentGateway 微信支付网关接口
type PaymentGateway interface {
	CreateJSAPI(ctx context.Context, orderNo, openid, description string, amount models.Money) (*PrepayResult, error)
}

// PaymentService 支付服务
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	orderSvc    *OrderService
	notifySvc   *NotificationService
	gateway     PaymentGateway
}

// NewPaymentService 创建支付服务
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	orderSvc *OrderService,
	notifySvc *NotificationService,
	gateway PaymentGateway,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		orderSvc:    orderSvc,
		notifySvc:   notifySvc,
		gateway:     gateway,
	}
}

// CreatePayment 对待支付订单发起微信 JSAPI 预支付
func (s *PaymentService) CreatePayment(ctx context.Context, orderID, operatorID uint) (*PrepayResult, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if operatorID != order.BuyerID {
		return nil, ErrForbidden
	}
	if order.Status != constants.OrderStatusPending || order.PaymentStatus == constants.PaymentStatusSuccess {
		return nil, ErrOrderNotPayable
	}

	buyer, err := s.userRepo.GetByID(order.BuyerID)
	if err != nil {
		return nil, err
	}
	if buyer == nil {
		return nil, ErrUserNotFound
	}

	if s.gateway == nil {
		return nil, ErrPaymentGateway
	}
	result, err := s.gateway.CreateJSAPI(ctx, order.OrderNo, buyer.WechatOpenID, "严选订单 "+order.OrderNo, order.FinalAmount)
	if err != nil {
		logger.Errorw("wechatpay_prepay_failed", "order_no", order.OrderNo, "error", err)
		return nil, ErrPaymentGateway
	}

	payment := &models.Payment{
		OrderID:  order.ID,
		UserID:   order.BuyerID,
		Amount:   order.FinalAmount,
		Currency: "CNY",
		Status:   constants.PaymentStatusPending,
		PrepayID: result.PrepayID,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, err
	}
	return result, nil
}

// HandleCallback 处理微信支付回调（已验签）
func (s *PaymentService) HandleCallback(result PaymentCallbackResult) error {
	order, err := s.orderRepo.GetByOrderNo(result.OrderNo)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}

	payment, err := s.paymentRepo.GetLatestByOrderID(order.ID)
	if err != nil {
		return err
	}
	if payment == nil {
		return ErrPaymentNotFound
	}
	if payment.Status == constants.PaymentStatusSuccess {
		// 回调重放，幂等处理
		return nil
	}

	now := time.Now()
	paidAt := now
	if result.PaidAt != nil {
		paidAt = *result.PaidAt
	}

	status := constants.PaymentStatusFailed
	if result.Success {
		status = constants.PaymentStatusSuccess
	}
	updates := map[string]interface{}{
		"status":           status,
		"transaction_id":   result.TransactionID,
		"provider_payload": result.Raw,
		"callback_at":      now,
		"updated_at":       now,
	}
	if result.Success {
		updates["paid_at"] = paidAt
	}
	if err := s.paymentRepo.UpdateFields(payment.ID, updates); err != nil {
		return err
	}

	if result.Success {
		if err := s.orderSvc.MarkOrderPaid(order.ID, paidAt); err != nil {
			return err
		}
		if s.notifySvc != nil {
			s.notifySvc.NotifyOrderStatus(order, "paid")
		}
	}
	return nil
}
