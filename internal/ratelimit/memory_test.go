package ratelimit

import (
	"context"
	"testing"
	"time"
)

func newFrozenLimiter(start time.Time) (*MemoryLimiter, *time.Time) {
	current := start
	limiter := NewMemoryLimiter()
	limiter.now = func() time.Time { return current }
	return limiter, &current
}

func TestMemoryLimiterBlocksOverLimit(t *testing.T) {
	limiter, _ := newFrozenLimiter(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	rule := Rule{Prefix: "test", WindowSeconds: 60, MaxRequests: 2}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		result, err := limiter.Allow(ctx, "1.2.3.4", rule)
		if err != nil {
			t.Fatalf("allow %d failed: %v", i, err)
		}
		if !result.Allowed {
			t.Fatalf("request %d should be allowed", i)
		}
	}

	result, err := limiter.Allow(ctx, "1.2.3.4", rule)
	if err != nil {
		t.Fatalf("allow failed: %v", err)
	}
	if result.Allowed {
		t.Fatal("third request should be blocked")
	}
	if result.RetryAfterSec < 1 {
		t.Fatalf("retry after = %d, want >= 1", result.RetryAfterSec)
	}

	// 其他 key 不受影响
	other, err := limiter.Allow(ctx, "5.6.7.8", rule)
	if err != nil {
		t.Fatalf("allow other failed: %v", err)
	}
	if !other.Allowed {
		t.Fatal("request with different key should be allowed")
	}
}

func TestMemoryLimiterSlidingWindow(t *testing.T) {
	limiter, current := newFrozenLimiter(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	rule := Rule{WindowSeconds: 10, MaxRequests: 1}
	ctx := context.Background()

	if result, _ := limiter.Allow(ctx, "k", rule); !result.Allowed {
		t.Fatal("first request should be allowed")
	}
	if result, _ := limiter.Allow(ctx, "k", rule); result.Allowed {
		t.Fatal("second request inside window should be blocked")
	}

	// 窗口滑过后放行
	*current = current.Add(11 * time.Second)
	if result, _ := limiter.Allow(ctx, "k", rule); !result.Allowed {
		t.Fatal("request after window should be allowed")
	}
}

func TestMemoryLimiterZeroRuleAllowsAll(t *testing.T) {
	limiter := NewMemoryLimiter()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		result, err := limiter.Allow(ctx, "k", Rule{})
		if err != nil {
			t.Fatalf("allow failed: %v", err)
		}
		if !result.Allowed {
			t.Fatal("zero rule should allow everything")
		}
	}

	// 空 key 同样直接放行
	result, err := limiter.Allow(ctx, "  ", Rule{WindowSeconds: 60, MaxRequests: 1})
	if err != nil {
		t.Fatalf("allow failed: %v", err)
	}
	if !result.Allowed {
		t.Fatal("blank key should be allowed")
	}
}

func TestMemoryLimiterRemainingCount(t *testing.T) {
	limiter, _ := newFrozenLimiter(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	rule := Rule{WindowSeconds: 60, MaxRequests: 3}
	ctx := context.Background()

	want := []int{2, 1, 0}
	for i, remaining := range want {
		result, err := limiter.Allow(ctx, "k", rule)
		if err != nil {
			t.Fatalf("allow %d failed: %v", i, err)
		}
		if result.Remaining != remaining {
			t.Fatalf("remaining after request %d = %d, want %d", i+1, result.Remaining, remaining)
		}
	}
}
