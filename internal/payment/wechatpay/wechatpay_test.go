package wechatpay

import (
	"testing"

	"github.com/yuntuike/yanxuan/internal/config"
	"github.com/yuntuike/yanxuan/internal/models"

	"github.com/shopspring/decimal"
)

func TestConvertAmountToFen(t *testing.T) {
	cases := []struct {
		amount  string
		wantFen int64
		wantErr bool
	}{
		{amount: "0.01", wantFen: 1},
		{amount: "99.90", wantFen: 9990},
		{amount: "128", wantFen: 12800},
		{amount: "0", wantErr: true},
		{amount: "-1.00", wantErr: true},
		{amount: "0.001", wantErr: true},
	}
	for _, item := range cases {
		dec, err := decimal.NewFromString(item.amount)
		if err != nil {
			t.Fatalf("parse amount %q failed: %v", item.amount, err)
		}
		fen, err := convertAmountToFen(models.Money{Decimal: dec})
		if item.wantErr {
			if err == nil {
				t.Fatalf("amount %q expected error", item.amount)
			}
			continue
		}
		if err != nil {
			t.Fatalf("amount %q failed: %v", item.amount, err)
		}
		if fen != item.wantFen {
			t.Fatalf("amount %q want %d fen, got %d", item.amount, item.wantFen, fen)
		}
	}
}

func TestValidateConfig(t *testing.T) {
	valid := config.WechatPayConfig{
		AppID:          "wxabc",
		MchID:          "1900000001",
		CertSerialNo:   "serial",
		APIv3Key:       "01234567890123456789012345678901",
		PrivateKeyPath: "/etc/wechatpay/key.pem",
		NotifyURL:      "https://example.com/api/v1/payments/callback/wechat",
	}
	if err := validateConfig(valid); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	badKey := valid
	badKey.APIv3Key = "short"
	if err := validateConfig(badKey); err == nil {
		t.Fatalf("expected api_v3_key length error")
	}

	noNotify := valid
	noNotify.NotifyURL = ""
	if err := validateConfig(noNotify); err == nil {
		t.Fatalf("expected notify_url error")
	}
}

func TestBuildDescription(t *testing.T) {
	if got := buildDescription("严选订单 YTK1", "YTK1"); got != "严选订单 YTK1" {
		t.Fatalf("description passthrough failed: %q", got)
	}
	if got := buildDescription("", "YTK2"); got != "订单 YTK2" {
		t.Fatalf("description fallback failed: %q", got)
	}
}
