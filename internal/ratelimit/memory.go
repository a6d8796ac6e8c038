package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// MemoryLimiter 进程内滑动窗口限流器。
// 单副本部署与测试使用；多副本共享计数请注入 RedisLimiter。
type MemoryLimiter struct {
	mu      sync.Mutex
	history map[string][]time.Time
	now     func() time.Time
}

// NewMemoryLimiter 创建进程内限流器
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		history: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Allow 判定请求是否放行
func (l *MemoryLimiter) Allow(ctx context.Context, key string, rule Rule) (Result, error) {
	if l == nil || rule.WindowSeconds <= 0 || rule.MaxRequests <= 0 {
		return Result{Allowed: true}, nil
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return Result{Allowed: true}, nil
	}
	if rule.Prefix != "" {
		key = fmt.Sprintf("%s:%s", rule.Prefix, key)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-time.Duration(rule.WindowSeconds) * time.Second)

	recent := l.history[key][:0]
	for _, stamp := range l.history[key] {
		if stamp.After(cutoff) {
			recent = append(recent, stamp)
		}
	}

	if len(recent) >= rule.MaxRequests {
		l.history[key] = recent
		retryAfter := int(recent[0].Sub(cutoff).Seconds()) + 1
		if retryAfter < 1 {
			retryAfter = 1
		}
		return Result{Allowed: false, RetryAfterSec: retryAfter}, nil
	}

	l.history[key] = append(recent, now)
	return Result{Allowed: true, Remaining: rule.MaxRequests - len(recent) - 1}, nil
}
