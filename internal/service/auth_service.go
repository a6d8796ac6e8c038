package service

import (
	"context"
	"time"

	"github.com/yuntuike/yanxuan/internal/config"
	"github.com/yuntuike/yanxuan/internal/constants"
	"github.com/yuntuike/yanxuan/internal/logger"
	"github.com/yuntuike/yanxuan/internal/models"
	"github.com/yuntuike/yanxuan/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// WechatSessionProvider 微信登录凭证交换接口
type WechatSessionProvider interface {
	CodeToSession(ctx context.Context, code string) (openid, unionid string, err error)
}

// AuthService 认证服务
type AuthService struct {
	cfg          *config.Config
	userRepo     repository.UserRepository
	wechatClient WechatSessionProvider
	captchaSvc   *CaptchaService
}

// NewAuthService 创建认证服务
func NewAuthService(
	cfg *config.Config,
	userRepo repository.UserRepository,
	wechatClient WechatSessionProvider,
	captchaSvc *CaptchaService,
) *AuthService {
	return &AuthService{
		cfg:          cfg,
		userRepo:     userRepo,
		wechatClient: wechatClient,
		captchaSvc:   captchaSvc,
	}
}

// HashPassword 使用 bcrypt 加密密码
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 验证密码
func (s *AuthService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// UserJWTClaims JWT 声明
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Role         string `json:"role"`
	TokenType    string `json:"token_type"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateJWT 生成访问 Token
func (s *AuthService) GenerateJWT(user *models.User) (string, time.Time, error) {
	return s.generateToken(user, "access", time.Duration(s.cfg.JWT.ExpireHours)*time.Hour)
}

// GenerateRefreshJWT 生成刷新 Token
func (s *AuthService) GenerateRefreshJWT(user *models.User) (string, time.Time, error) {
	hours := s.cfg.JWT.RefreshExpireHours
	if hours <= 0 {
		hours = s.cfg.JWT.ExpireHours * 24
	}
	return s.generateToken(user, "refresh", time.Duration(hours)*time.Hour)
}

func (s *AuthService) generateToken(user *models.User, tokenType string, ttl time.Duration) (string, time.Time, error) {
	expiresAt := time.Now().Add(ttl)
	claims := UserJWTClaims{
		UserID:       user.ID,
		Role:         user.Role,
		TokenType:    tokenType,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseJWT 解析 Token
func (s *AuthService) ParseJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &UserJWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*UserJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrTokenInvalid
}

// RegisterInput 注册输入
type RegisterInput struct {
	Phone    string
	Password string
	Role     string
	Nickname string
	Profile  models.JSON
}

// registerableRoles 开放注册的角色集合
var registerableRoles = map[string]bool{
	constants.RoleMerchant:   true,
	constants.RoleLeader:     true,
	constants.RoleInfluencer: true,
	constants.RoleUser:       true,
}

// Register 手机号注册
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	if input.Phone == "" || len(input.Password) < 6 {
		return nil, ErrInvalidInput
	}
	if !registerableRoles[input.Role] {
		return nil, ErrInvalidInput
	}

	existing, err := s.userRepo.GetByPhone(input.Phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrPhoneTaken
	}

	hash, err := s.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Role:         input.Role,
		Phone:        input.Phone,
		Nickname:     input.Nickname,
		PasswordHash: hash,
		ProfileJSON:  input.Profile,
		IsActive:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	logger.Infow("user_registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// LoginResult 登录结果
type LoginResult struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    time.Time    `json:"expires_at"`
}

// LoginWithPassword 手机号密码登录
func (s *AuthService) LoginWithPassword(phone, password, captchaID, captchaCode string) (*LoginResult, error) {
	if s.captchaSvc != nil && s.captchaSvc.Required() {
		if !s.captchaSvc.Verify(captchaID, captchaCode) {
			return nil, ErrCaptchaInvalid
		}
	}

	user, err := s.userRepo.GetByPhone(phone)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(user)
}

// LoginWithWechat 微信小程序登录，首次登录自动注册
func (s *AuthService) LoginWithWechat(ctx context.Context, code, nickname, avatarURL string) (*LoginResult, error) {
	if s.wechatClient == nil {
		return nil, ErrInvalidInput
	}
	openid, unionid, err := s.wechatClient.CodeToSession(ctx, code)
	if err != nil {
		logger.Warnw("wechat_code2session_failed", "error", err)
		return nil, err
	}

	user, err := s.userRepo.GetByWechatOpenID(openid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user = &models.User{
			Role:          constants.RoleUser,
			Phone:         "wx_" + openid,
			WechatOpenID:  openid,
			WechatUnionID: unionid,
			Nickname:      nickname,
			AvatarURL:     avatarURL,
			PasswordHash:  "!",
			IsActive:      true,
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, err
		}
		logger.Infow("user_auto_registered_via_wechat", "user_id", user.ID)
	}
	return s.issueTokens(user)
}

func (s *AuthService) issueTokens(user *models.User) (*LoginResult, error) {
	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	access, expiresAt, err := s.GenerateJWT(user)
	if err != nil {
		return nil, err
	}
	refresh, _, err := s.GenerateRefreshJWT(user)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{
		"last_login_at": now,
	}); err != nil {
		logger.Warnw("user_last_login_update_failed", "user_id", user.ID, "error", err)
	}

	return &LoginResult{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	}, nil
}

// RefreshToken 刷新访问 Token
func (s *AuthService) RefreshToken(refreshToken string) (*LoginResult, error) {
	claims, err := s.ParseJWT(refreshToken)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	if claims.TokenType != "refresh" {
		return nil, ErrTokenInvalid
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrTokenInvalid
	}
	return s.issueTokens(user)
}

// VerifyAccessToken 校验访问 Token 并返回用户
func (s *AuthService) VerifyAccessToken(tokenString string) (*models.User, error) {
	claims, err := s.ParseJWT(tokenString)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	if claims.TokenType != "access" {
		return nil, ErrTokenInvalid
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrTokenInvalid
	}
	if !user.IsActive {
		return nil, ErrUserDisabled
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrTokenInvalid
	}
	if user.TokenInvalidBefore != nil && claims.IssuedAt != nil && claims.IssuedAt.Time.Before(*user.TokenInvalidBefore) {
		return nil, ErrTokenInvalid
	}
	return user, nil
}

// ChangePassword 修改密码并使既有 Token 失效
func (s *AuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return ErrInvalidInput
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err := s.VerifyPassword(user.PasswordHash, oldPassword); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}
	now := time.Now()
	return s.userRepo.UpdateFields(user.ID, map[string]interface{}{
		"password_hash":        hash,
		"token_version":        user.TokenVersion + 1,
		"token_invalid_before": now,
	})
}

// UpdateProfile 更新用户资料
func (s *AuthService) UpdateProfile(userID uint, nickname, avatarURL *string, profile models.JSON) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	updates := map[string]interface{}{}
	if nickname != nil {
		updates["nickname"] = *nickname
	}
	if avatarURL != nil {
		updates["avatar_url"] = *avatarURL
	}
	if profile != nil {
		updates["profile_json"] = profile
	}
	if len(updates) > 0 {
		if err := s.userRepo.UpdateFields(user.ID, updates); err != nil {
			return nil, err
		}
	}
	return s.userRepo.GetByID(user.ID)
}

// Logout 登出，递增 Token 版本使全部 Token 失效
func (s *AuthService) Logout(userID uint) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}
	return s.userRepo.UpdateFields(user.ID, map[string]interface{}{
		"token_version": user.TokenVersion + 1,
	})
}

// GetUserByID 获取用户
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	return s.userRepo.GetByID(id)
}
