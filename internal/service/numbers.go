package service

import (
	"strings"
	"time"

	"github.com/yuntuike/yanxuan/internal/constants"

	"github.com/google/uuid"
)

// generateOrderNo 生成订单编号：YTK + 时间戳 + 6 位随机后缀
func generateOrderNo() string {
	return constants.OrderNoPrefix + time.Now().Format("20060102150405") + randHexUpper(6)
}

// generateSampleNo 生成样品申请编号：SP + 时间戳 + 8 位随机后缀
func generateSampleNo() string {
	return constants.SampleNoPrefix + time.Now().Format("20060102150405") + randHexUpper(8)
}

func randHexUpper(length int) string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	if length > len(raw) {
		length = len(raw)
	}
	return raw[:length]
}
