package ratelimit

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
return {current, ttl}
`)

// RedisLimiter 基于 Redis 固定窗口计数的限流器，多副本共享计数。
type RedisLimiter struct {
	client *redis.Client
}

// NewRedisLimiter 创建 Redis 限流器
func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client}
}

// Allow 判定请求是否放行
func (l *RedisLimiter) Allow(ctx context.Context, key string, rule Rule) (Result, error) {
	if l == nil || l.client == nil || rule.WindowSeconds <= 0 || rule.MaxRequests <= 0 {
		return Result{Allowed: true}, nil
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return Result{Allowed: true}, nil
	}
	if rule.Prefix != "" {
		key = fmt.Sprintf("%s:%s", rule.Prefix, key)
	}

	raw, err := rateLimitScript.Run(ctx, l.client, []string{key}, rule.WindowSeconds).Result()
	if err != nil {
		return Result{}, err
	}
	values, ok := raw.([]interface{})
	if !ok || len(values) < 2 {
		return Result{}, fmt.Errorf("unexpected rate limit script result: %v", raw)
	}
	count, ok := toInt64(values[0])
	if !ok {
		return Result{}, fmt.Errorf("unexpected rate limit count: %v", values[0])
	}
	ttl, _ := toInt64(values[1])

	if count > int64(rule.MaxRequests) {
		retryAfter := int(ttl)
		if retryAfter < 1 {
			retryAfter = rule.WindowSeconds
		}
		if retryAfter < 1 {
			retryAfter = 1
		}
		return Result{Allowed: false, RetryAfterSec: retryAfter}, nil
	}

	remaining := rule.MaxRequests - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Result{Allowed: true, Remaining: remaining}, nil
}

func toInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case uint64:
		return int64(v), true
	case uint32:
		return int64(v), true
	case float64:
		return int64(v), true
	case float32:
		return int64(v), true
	default:
		return 0, false
	}
}
