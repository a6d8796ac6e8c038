package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yuntuike/yanxuan/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

func newRateLimitTestRouter(limiter ratelimit.Limiter, rule ratelimit.Rule, keyFunc RateLimitKeyFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", RateLimitMiddleware(limiter, rule, keyFunc), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestRateLimitMiddlewareBlocksOverLimit(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter()
	rule := ratelimit.Rule{Prefix: "test:rate:login", WindowSeconds: 60, MaxRequests: 2}
	r := newRateLimitTestRouter(limiter, rule, KeyByIP)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", w.Code)
	}
}

func TestRateLimitMiddlewareSkipsWithoutLimiter(t *testing.T) {
	rule := ratelimit.Rule{Prefix: "test:rate:login", WindowSeconds: 60, MaxRequests: 1}
	r := newRateLimitTestRouter(nil, rule, KeyByIP)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, w.Code)
		}
	}
}

func TestKeyByIPAndJSONField(t *testing.T) {
	gin.SetMode(gin.TestMode)

	keyFunc := KeyByIPAndJSONField("phone")

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"phone":"13800138000","password":"x"}`))
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	key := keyFunc(c)
	if !strings.HasPrefix(key, "13800138000|") {
		t.Fatalf("key = %q, want prefix 13800138000|", key)
	}

	// body 需保持可重复读取，后续 handler 还要绑定
	payload := make([]byte, 64)
	n, _ := c.Request.Body.Read(payload)
	if n == 0 {
		t.Fatal("request body was consumed by key func")
	}
}

func TestKeyByIPAndJSONFieldFallsBackToIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	keyFunc := KeyByIPAndJSONField("phone")

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{}`))
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	if key := keyFunc(c); strings.Contains(key, "|") {
		t.Fatalf("key = %q, want bare client IP", key)
	}
}
