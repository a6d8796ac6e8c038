package wechatpay

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yuntuike/yanxuan/internal/config"
	"github.com/yuntuike/yanxuan/internal/models"
	"github.com/yuntuike/yanxuan/internal/service"

	"github.com/shopspring/decimal"
	"github.com/wechatpay-apiv3/wechatpay-go/core"
	"github.com/wechatpay-apiv3/wechatpay-go/core/auth/verifiers"
	"github.com/wechatpay-apiv3/wechatpay-go/core/downloader"
	"github.com/wechatpay-apiv3/wechatpay-go/core/notify"
	"github.com/wechatpay-apiv3/wechatpay-go/core/option"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments/jsapi"
	"github.com/wechatpay-apiv3/wechatpay-go/utils"
)

var (
	ErrConfigInvalid    = errors.New("wechatpay config invalid")
	ErrRequestFailed    = errors.New("wechatpay request failed")
	ErrResponseInvalid  = errors.New("wechatpay response invalid")
	ErrSignatureInvalid = errors.New("wechatpay signature invalid")
)

// Gateway 微信支付 JSAPI 网关
type Gateway struct {
	cfg        config.WechatPayConfig
	privateKey *rsa.PrivateKey
	client     *core.Client
}

// NewGateway 创建微信支付网关
func NewGateway(ctx context.Context, cfg config.WechatPayConfig) (*Gateway, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	privateKey, err := utils.LoadPrivateKeyWithPath(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("%w: load private key failed: %v", ErrConfigInvalid, err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	client, err := core.NewClient(ctx,
		option.WithMerchantCredential(cfg.MchID, cfg.CertSerialNo, privateKey),
		option.WithoutValidator(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: init client failed: %v", ErrConfigInvalid, err)
	}
	return &Gateway{
		cfg:        cfg,
		privateKey: privateKey,
		client:     client,
	}, nil
}

// CreateJSAPI 发起 JSAPI 预支付，返回小程序端拉起支付所需参数
func (g *Gateway) CreateJSAPI(ctx context.Context, orderNo, openid, description string, amount models.Money) (*service.PrepayResult, error) {
	if g == nil || g.client == nil {
		return nil, ErrConfigInvalid
	}
	orderNo = strings.TrimSpace(orderNo)
	openid = strings.TrimSpace(openid)
	if orderNo == "" || openid == "" {
		return nil, fmt.Errorf("%w: order no and openid are required", ErrConfigInvalid)
	}
	amountFen, err := convertAmountToFen(amount)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	svc := jsapi.JsapiApiService{Client: g.client}
	resp, _, err := svc.PrepayWithRequestPayment(ctx, jsapi.PrepayRequest{
		Appid:       core.String(g.cfg.AppID),
		Mchid:       core.String(g.cfg.MchID),
		Description: core.String(buildDescription(description, orderNo)),
		OutTradeNo:  core.String(orderNo),
		NotifyUrl:   core.String(g.cfg.NotifyURL),
		Amount: &jsapi.Amount{
			Total:    core.Int64(amountFen),
			Currency: core.String("CNY"),
		},
		Payer: &jsapi.Payer{
			Openid: core.String(openid),
		},
	})
	if err != nil {
		return nil, wrapRequestError(err)
	}
	if resp == nil || pointerString(resp.PrepayId) == "" {
		return nil, fmt.Errorf("%w: missing prepay_id", ErrResponseInvalid)
	}

	return &service.PrepayResult{
		PrepayID:  pointerString(resp.PrepayId),
		NonceStr:  pointerString(resp.NonceStr),
		Package:   pointerString(resp.Package),
		PaySign:   pointerString(resp.PaySign),
		Timestamp: pointerString(resp.TimeStamp),
		SignType:  pointerString(resp.SignType),
	}, nil
}

// VerifyAndDecodeWebhook 验签并解密支付结果回调
func (g *Gateway) VerifyAndDecodeWebhook(ctx context.Context, headers map[string]string, body []byte) (*service.PaymentCallbackResult, error) {
	if g == nil || g.privateKey == nil {
		return nil, ErrConfigInvalid
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty webhook body", ErrResponseInvalid)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	mgr := downloader.MgrInstance()
	if !mgr.HasDownloader(ctx, g.cfg.MchID) {
		if err := mgr.RegisterDownloaderWithPrivateKey(ctx, g.privateKey, g.cfg.CertSerialNo, g.cfg.MchID, g.cfg.APIv3Key); err != nil {
			return nil, fmt.Errorf("%w: register certificate downloader failed", ErrRequestFailed)
		}
	}

	verifier := verifiers.NewSHA256WithRSAVerifier(mgr.GetCertificateVisitor(g.cfg.MchID))
	handler, err := notify.NewRSANotifyHandler(g.cfg.APIv3Key, verifier)
	if err != nil {
		return nil, fmt.Errorf("%w: init notify handler failed", ErrConfigInvalid)
	}

	transaction, err := parseNotifyTransaction(ctx, handler, headers, body)
	if err != nil {
		return nil, err
	}

	raw := models.JSON{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode webhook body failed", ErrResponseInvalid)
	}

	return &service.PaymentCallbackResult{
		OrderNo:       strings.TrimSpace(pointerString(transaction.OutTradeNo)),
		TransactionID: strings.TrimSpace(pointerString(transaction.TransactionId)),
		Success:       isTradeSuccess(pointerString(transaction.TradeState)),
		PaidAt:        parseTransactionTime(pointerString(transaction.SuccessTime)),
		Raw:           raw,
	}, nil
}

func validateConfig(cfg config.WechatPayConfig) error {
	if strings.TrimSpace(cfg.AppID) == "" {
		return fmt.Errorf("%w: app_id is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.MchID) == "" {
		return fmt.Errorf("%w: mch_id is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.CertSerialNo) == "" {
		return fmt.Errorf("%w: cert_serial_no is required", ErrConfigInvalid)
	}
	if len(strings.TrimSpace(cfg.APIv3Key)) != 32 {
		return fmt.Errorf("%w: api_v3_key must be 32 chars", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.PrivateKeyPath) == "" {
		return fmt.Errorf("%w: private_key_path is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.NotifyURL) == "" {
		return fmt.Errorf("%w: notify_url is required", ErrConfigInvalid)
	}
	return nil
}

func parseNotifyTransaction(ctx context.Context, handler *notify.Handler, headers map[string]string, body []byte) (*payments.Transaction, error) {
	requestURL := "https://notify.wechat.example/callback"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build webhook request failed", ErrResponseInvalid)
	}
	for key, value := range headers {
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		req.Header.Set(key, value)
	}

	content := new(payments.Transaction)
	if _, err := handler.ParseNotifyRequest(ctx, req, content); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	return content, nil
}

func isTradeSuccess(tradeState string) bool {
	return strings.ToUpper(strings.TrimSpace(tradeState)) == "SUCCESS"
}

func convertAmountToFen(amount models.Money) (int64, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return 0, fmt.Errorf("%w: amount must be greater than zero", ErrConfigInvalid)
	}
	fen := amount.Mul(decimal.NewFromInt(100))
	if !fen.Equal(fen.Truncate(0)) {
		return 0, fmt.Errorf("%w: amount precision exceeds fen", ErrConfigInvalid)
	}
	return fen.IntPart(), nil
}

func wrapRequestError(err error) error {
	var apiErr *core.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %s", ErrResponseInvalid, strings.TrimSpace(apiErr.Message))
	}
	return fmt.Errorf("%w: %v", ErrRequestFailed, err)
}

func pointerString(val *string) string {
	if val == nil {
		return ""
	}
	return strings.TrimSpace(*val)
}

func parseTransactionTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &parsed
}

func buildDescription(description string, orderNo string) string {
	description = strings.TrimSpace(description)
	if description != "" {
		return description
	}
	return "订单 " + strings.TrimSpace(orderNo)
}
