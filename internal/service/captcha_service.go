package service

import (
	"github.com/yuntuike/yanxuan/internal/config"

	"github.com/mojocn/base64Captcha"
)

// CaptchaImageChallenge 图片验证码挑战
type CaptchaImageChallenge struct {
	CaptchaID   string `json:"captcha_id"`
	ImageBase64 string `json:"image_base64"`
}

// CaptchaService 验证码服务（密码登录场景）
type CaptchaService struct {
	cfg     config.CaptchaConfig
	captcha *base64Captcha.Captcha
}

// NewCaptchaService 创建验证码服务
func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	width := cfg.Width
	if width <= 0 {
		width = 240
	}
	height := cfg.Height
	if height <= 0 {
		height = 80
	}
	length := cfg.Length
	if length <= 0 {
		length = 4
	}
	driver := base64Captcha.NewDriverDigit(height, width, length, 0.7, 80)
	store := base64Captcha.NewMemoryStore(base64Captcha.GCLimitNumber, base64Captcha.Expiration)
	return &CaptchaService{
		cfg:     cfg,
		captcha: base64Captcha.NewCaptcha(driver, store),
	}
}

// Required 密码登录是否需要验证码
func (s *CaptchaService) Required() bool {
	return s != nil && s.cfg.Enabled
}

// GenerateImageChallenge 生成图片验证码
func (s *CaptchaService) GenerateImageChallenge() (*CaptchaImageChallenge, error) {
	id, b64, _, err := s.captcha.Generate()
	if err != nil {
		return nil, err
	}
	return &CaptchaImageChallenge{
		CaptchaID:   id,
		ImageBase64: b64,
	}, nil
}

// Verify 校验验证码（一次性，校验后即失效）
func (s *CaptchaService) Verify(captchaID, code string) bool {
	if s == nil || s.captcha == nil {
		return false
	}
	if captchaID == "" || code == "" {
		return false
	}
	return s.captcha.Verify(captchaID, code, true)
}
