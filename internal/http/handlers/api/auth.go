package api

import (
	"github.com/yuntuike/yanxuan/internal/http/response"
	"github.com/yuntuike/yanxuan/internal/models"
	"github.com/yuntuike/yanxuan/internal/service"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Phone    string      `json:"phone" binding:"required"`
	Password string      `json:"password" binding:"required"`
	Role     string      `json:"role" binding:"required"`
	Nickname string      `json:"nickname"`
	Profile  models.JSON `json:"profile"`
}

// Register 手机号注册
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", nil)
		return
	}

	user, err := h.AuthService.Register(service.RegisterInput{
		Phone:    req.Phone,
		Password: req.Password,
		Role:     req.Role,
		Nickname: req.Nickname,
		Profile:  req.Profile,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}
	response.Success(c, user)
}

type loginRequest struct {
	Phone       string `json:"phone" binding:"required"`
	Password    string `json:"password" binding:"required"`
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// Login 手机号密码登录
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", nil)
		return
	}

	result, err := h.AuthService.LoginWithPassword(req.Phone, req.Password, req.CaptchaID, req.CaptchaCode)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	response.Success(c, result)
}

type wechatLoginRequest struct {
	Code      string `json:"code" binding:"required"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
}

// WechatLogin 微信小程序登录，首次登录自动注册
func (h *Handler) WechatLogin(c *gin.Context) {
	var req wechatLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", nil)
		return
	}

	result, err := h.AuthService.LoginWithWechat(c.Request.Context(), req.Code, req.Nickname, req.AvatarURL)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	response.Success(c, result)
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshToken 刷新访问令牌
func (h *Handler) RefreshToken(c *gin.Context) {
	var req refreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", nil)
		return
	}

	result, err := h.AuthService.RefreshToken(req.RefreshToken)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	response.Success(c, result)
}

// Captcha 获取图片验证码
func (h *Handler) Captcha(c *gin.Context) {
	if !h.CaptchaService.Required() {
		response.Success(c, gin.H{"required": false})
		return
	}
	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		respondError(c, response.CodeInternal, "验证码生成失败", err)
		return
	}
	response.Success(c, gin.H{
		"required":     true,
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
	})
}

// Logout 退出登录（失效全部已签发令牌）
func (h *Handler) Logout(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.AuthService.Logout(userID); err != nil {
		respondAuthError(c, err)
		return
	}
	response.Success(c, nil)
}

// Me 当前用户信息
func (h *Handler) Me(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.AuthService.GetUserByID(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	if user == nil {
		respondError(c, response.CodeNotFound, "用户不存在", nil)
		return
	}
	response.Success(c, user)
}

type updateProfileRequest struct {
	Nickname  *string     `json:"nickname"`
	AvatarURL *string     `json:"avatar_url"`
	Profile   models.JSON `json:"profile"`
}

// UpdateMe 更新当前用户资料
func (h *Handler) UpdateMe(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", nil)
		return
	}

	user, err := h.AuthService.UpdateProfile(userID, req.Nickname, req.AvatarURL, req.Profile)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	response.Success(c, user)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword 修改密码
func (h *Handler) ChangePassword(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", nil)
		return
	}

	if err := h.AuthService.ChangePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		respondAuthError(c, err)
		return
	}
	response.SuccessWithMsg(c, "密码已更新", nil)
}
