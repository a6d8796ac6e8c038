package wechat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/yuntuike/yanxuan/internal/cache"
	"github.com/yuntuike/yanxuan/internal/config"
	"github.com/yuntuike/yanxuan/internal/logger"
)

var (
	ErrConfigInvalid   = errors.New("wechat config invalid")
	ErrRequestFailed   = errors.New("wechat request failed")
	ErrResponseInvalid = errors.New("wechat response invalid")
)

const (
	defaultBaseURL      = "https://api.weixin.qq.com"
	accessTokenCacheKey = "wechat:access_token"
)

// Client 微信小程序接口客户端
type Client struct {
	cfg        config.WechatConfig
	baseURL    string
	httpClient *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewClient 创建微信客户端
func NewClient(cfg config.WechatConfig) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		cfg:     cfg,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Enabled 判断是否已配置
func (c *Client) Enabled() bool {
	return c != nil && strings.TrimSpace(c.cfg.AppID) != "" && strings.TrimSpace(c.cfg.Secret) != ""
}

type codeToSessionResponse struct {
	OpenID     string `json:"openid"`
	UnionID    string `json:"unionid"`
	SessionKey string `json:"session_key"`
	ErrCode    int    `json:"errcode"`
	ErrMsg     string `json:"errmsg"`
}

// CodeToSession 登录凭证 code 换取会话
func (c *Client) CodeToSession(ctx context.Context, code string) (string, string, error) {
	if !c.Enabled() {
		return "", "", ErrConfigInvalid
	}
	if strings.TrimSpace(code) == "" {
		return "", "", ErrResponseInvalid
	}

	query := url.Values{}
	query.Set("appid", c.cfg.AppID)
	query.Set("secret", c.cfg.Secret)
	query.Set("js_code", code)
	query.Set("grant_type", "authorization_code")

	var result codeToSessionResponse
	if err := c.getJSON(ctx, "/sns/jscode2session?"+query.Encode(), &result); err != nil {
		return "", "", err
	}
	if result.ErrCode != 0 || result.OpenID == "" {
		logger.Warnw("wechat_code2session_rejected", "errcode", result.ErrCode, "errmsg", result.ErrMsg)
		return "", "", fmt.Errorf("%w: %s", ErrResponseInvalid, result.ErrMsg)
	}
	return result.OpenID, result.UnionID, nil
}

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	ErrCode     int    `json:"errcode"`
	ErrMsg      string `json:"errmsg"`
}

// AccessToken 获取接口调用凭证，优先走 Redis 缓存，其次进程内缓存。
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	if !c.Enabled() {
		return "", ErrConfigInvalid
	}

	var cached string
	if ok, err := cache.GetJSON(ctx, accessTokenCacheKey, &cached); err == nil && ok && cached != "" {
		return cached, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	query := url.Values{}
	query.Set("grant_type", "client_credential")
	query.Set("appid", c.cfg.AppID)
	query.Set("secret", c.cfg.Secret)

	var result accessTokenResponse
	if err := c.getJSON(ctx, "/cgi-bin/token?"+query.Encode(), &result); err != nil {
		return "", err
	}
	if result.ErrCode != 0 || result.AccessToken == "" {
		return "", fmt.Errorf("%w: %s", ErrResponseInvalid, result.ErrMsg)
	}

	ttl := time.Duration(result.ExpiresIn) * time.Second
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	// 提前 5 分钟过期，避免边界失效
	ttl -= 5 * time.Minute
	c.token = result.AccessToken
	c.tokenExpiry = time.Now().Add(ttl)
	if err := cache.SetJSON(ctx, accessTokenCacheKey, result.AccessToken, ttl); err != nil {
		logger.Warnw("wechat_access_token_cache_failed", "error", err)
	}
	return result.AccessToken, nil
}

type apiResponse struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

// SendSubscribeMessage 发送订阅消息
func (c *Client) SendSubscribeMessage(ctx context.Context, openid, scene string, data map[string]string) error {
	if !c.Enabled() {
		return ErrConfigInvalid
	}
	templateID := c.cfg.SubscribeTemplates[scene]
	if templateID == "" {
		// 未配置模板的场景静默跳过
		return nil
	}

	token, err := c.AccessToken(ctx)
	if err != nil {
		return err
	}

	values := make(map[string]map[string]string, len(data))
	for key, value := range data {
		values[key] = map[string]string{"value": value}
	}
	body := map[string]interface{}{
		"touser":      openid,
		"template_id": templateID,
		"data":        values,
	}

	var result apiResponse
	if err := c.postJSON(ctx, "/cgi-bin/message/subscribe/send?access_token="+url.QueryEscape(token), body, &result); err != nil {
		return err
	}
	if result.ErrCode != 0 {
		return fmt.Errorf("%w: %s", ErrResponseInvalid, result.ErrMsg)
	}
	return nil
}

// GetUnlimitedQRCode 获取小程序码（分享货盘等场景）
func (c *Client) GetUnlimitedQRCode(ctx context.Context, scene, page string) ([]byte, error) {
	if !c.Enabled() {
		return nil, ErrConfigInvalid
	}
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"scene": scene,
	}
	if page != "" {
		body["page"] = page
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/wxa/getwxacodeunlimit?access_token="+url.QueryEscape(token),
		strings.NewReader(string(payload)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	// 失败时返回 JSON 错误体而非图片字节
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var result apiResponse
		if err := json.Unmarshal(raw, &result); err == nil && result.ErrCode != 0 {
			return nil, fmt.Errorf("%w: %s", ErrResponseInvalid, result.ErrMsg)
		}
	}
	return raw, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(dest)
}

func (c *Client) postJSON(ctx context.Context, path string, body, dest interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(string(payload)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(dest)
}
