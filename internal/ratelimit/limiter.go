package ratelimit

import "context"

// Rule 限流规则
type Rule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
}

// Result 限流判定结果
type Result struct {
	Allowed       bool
	Remaining     int
	RetryAfterSec int
}

// Limiter 限流器接口。
// 引擎只依赖该接口，部署形态决定注入 Redis 实现还是进程内实现。
type Limiter interface {
	Allow(ctx context.Context, key string, rule Rule) (Result, error)
}
