package service

import (
	"github.com/yuntuike/yanxuan/internal/logger"
	"github.com/yuntuike/yanxuan/internal/models"
	"github.com/yuntuike/yanxuan/internal/queue"
)

// NotificationService 通知服务。
// 订单/样品状态变化通过队列异步推送微信订阅消息。
type NotificationService struct {
	queueClient *queue.Client
}

// NewNotificationService 创建通知服务
func NewNotificationService(queueClient *queue.Client) *NotificationService {
	return &NotificationService{queueClient: queueClient}
}

// NotifyOrderStatus 推送订单状态通知
func (s *NotificationService) NotifyOrderStatus(order *models.Order, status string) {
	if order == nil {
		return
	}
	s.enqueue(queue.WechatNotifyPayload{
		UserID: order.BuyerID,
		Scene:  "order_status",
		Data: map[string]string{
			"order_no": order.OrderNo,
			"status":   status,
		},
	})
}

// NotifySampleStatus 推送样品申请状态通知
func (s *NotificationService) NotifySampleStatus(sample *models.Sample, status string) {
	if sample == nil {
		return
	}
	s.enqueue(queue.WechatNotifyPayload{
		UserID: sample.ApplicantID,
		Scene:  "sample_status",
		Data: map[string]string{
			"sample_no": sample.SampleNo,
			"status":    status,
		},
	})
}

func (s *NotificationService) enqueue(payload queue.WechatNotifyPayload) {
	if s == nil || s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	if err := s.queueClient.EnqueueWechatNotify(payload); err != nil {
		logger.Warnw("wechat_notify_enqueue_failed",
			"user_id", payload.UserID,
			"scene", payload.Scene,
			"error", err,
		)
	}
}
