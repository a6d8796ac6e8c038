package worker

import (
	"context"
	"encoding/json"

	"github.com/yuntuike/yanxuan/internal/logger"
	"github.com/yuntuike/yanxuan/internal/provider"
	"github.com/yuntuike/yanxuan/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 队列任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{Container: c}
}

// Register 注册任务处理器
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if mux == nil {
		return
	}
	mux.HandleFunc(queue.TaskOrderTimeoutCancel, c.handleOrderTimeoutCancel)
	mux.HandleFunc(queue.TaskSampleReturnExpire, c.handleSampleReturnExpire)
	mux.HandleFunc(queue.TaskWechatNotify, c.handleWechatNotify)
}

// handleOrderTimeoutCancel 超时未支付订单自动取消
func (c *Consumer) handleOrderTimeoutCancel(ctx context.Context, task *asynq.Task) error {
	var payload queue.OrderTimeoutCancelPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_timeout_payload_invalid", "error", err)
		return nil
	}
	if err := c.OrderService.CancelUnpaidOrder(payload.OrderID); err != nil {
		logger.Errorw("worker_order_timeout_cancel_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	return nil
}

// handleSampleReturnExpire 超期未归还样品置为 expired
func (c *Consumer) handleSampleReturnExpire(ctx context.Context, task *asynq.Task) error {
	var payload queue.SampleReturnExpirePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_sample_expire_payload_invalid", "error", err)
		return nil
	}
	if err := c.SampleService.ExpireOverdueSample(payload.SampleID); err != nil {
		logger.Errorw("worker_sample_expire_failed", "sample_id", payload.SampleID, "error", err)
		return err
	}
	return nil
}

// handleWechatNotify 推送微信订阅消息
func (c *Consumer) handleWechatNotify(ctx context.Context, task *asynq.Task) error {
	var payload queue.WechatNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_wechat_notify_payload_invalid", "error", err)
		return nil
	}
	if c.WechatClient == nil {
		return nil
	}
	user, err := c.UserRepo.GetByID(payload.UserID)
	if err != nil {
		return err
	}
	if user == nil || user.WechatOpenID == "" {
		return nil
	}
	if err := c.WechatClient.SendSubscribeMessage(ctx, user.WechatOpenID, payload.Scene, payload.Data); err != nil {
		logger.Warnw("worker_wechat_notify_failed",
			"user_id", payload.UserID,
			"scene", payload.Scene,
			"error", err,
		)
		return err
	}
	return nil
}
