package api

import (
	"io"
	"net/http"

	"github.com/yuntuike/yanxuan/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CreateOrderPayment 对订单发起微信 JSAPI 预支付
func (h *Handler) CreateOrderPayment(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.PaymentService.CreatePayment(c.Request.Context(), orderID, userID)
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	response.Success(c, result)
}

// WechatPayCallback 微信支付结果回调。
// 验签失败或业务处理失败时按微信回调协议返回 FAIL，触发平台重试。
func (h *Handler) WechatPayCallback(c *gin.Context) {
	if h.WechatGateway == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": "FAIL", "message": "网关未配置"})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "FAIL", "message": "读取回调失败"})
		return
	}
	headers := map[string]string{
		"Wechatpay-Timestamp": c.GetHeader("Wechatpay-Timestamp"),
		"Wechatpay-Nonce":     c.GetHeader("Wechatpay-Nonce"),
		"Wechatpay-Signature": c.GetHeader("Wechatpay-Signature"),
		"Wechatpay-Serial":    c.GetHeader("Wechatpay-Serial"),
	}

	result, err := h.WechatGateway.VerifyAndDecodeWebhook(c.Request.Context(), headers, body)
	if err != nil {
		requestLog(c).Warnw("wechatpay_callback_verify_failed", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"code": "FAIL", "message": "验签失败"})
		return
	}

	if err := h.PaymentService.HandleCallback(*result); err != nil {
		requestLog(c).Errorw("wechatpay_callback_handle_failed",
			"order_no", result.OrderNo,
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"code": "FAIL", "message": "处理失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": "SUCCESS", "message": "成功"})
}
