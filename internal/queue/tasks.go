package queue

import (
	"encoding/json"

	"github.com/yuntuike/yanxuan/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderTimeoutCancel 订单超时取消任务
	TaskOrderTimeoutCancel = constants.TaskOrderTimeoutCancel
	// TaskSampleReturnExpire 样品归还超期任务
	TaskSampleReturnExpire = constants.TaskSampleReturnExpire
	// TaskWechatNotify 微信订阅消息推送任务
	TaskWechatNotify = constants.TaskWechatNotify
)

// OrderTimeoutCancelPayload 订单超时取消任务载荷
type OrderTimeoutCancelPayload struct {
	OrderID uint `json:"order_id"`
}

// SampleReturnExpirePayload 样品归还超期任务载荷
type SampleReturnExpirePayload struct {
	SampleID uint `json:"sample_id"`
}

// WechatNotifyPayload 微信订阅消息任务载荷
type WechatNotifyPayload struct {
	UserID uint              `json:"user_id"`
	Scene  string            `json:"scene"`
	Data   map[string]string `json:"data"`
}

// NewOrderTimeoutCancelTask 创建订单超时取消任务
func NewOrderTimeoutCancelTask(payload OrderTimeoutCancelPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderTimeoutCancel, body), nil
}

// NewSampleReturnExpireTask 创建样品归还超期任务
func NewSampleReturnExpireTask(payload SampleReturnExpirePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSampleReturnExpire, body), nil
}

// NewWechatNotifyTask 创建微信订阅消息任务
func NewWechatNotifyTask(payload WechatNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWechatNotify, body), nil
}
