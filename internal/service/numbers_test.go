package service

import (
	"strings"
	"testing"
)

func TestGenerateOrderNo(t *testing.T) {
	no := generateOrderNo()
	if !strings.HasPrefix(no, "YTK") {
		t.Fatalf("order no %q missing YTK prefix", no)
	}
	// YTK + 14 位时间戳 + 6 位随机后缀
	if len(no) != 3+14+6 {
		t.Fatalf("order no %q length = %d, want %d", no, len(no), 3+14+6)
	}

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		no := generateOrderNo()
		if seen[no] {
			t.Fatalf("duplicate order no %q", no)
		}
		seen[no] = true
	}
}

func TestGenerateSampleNo(t *testing.T) {
	no := generateSampleNo()
	if !strings.HasPrefix(no, "SP") {
		t.Fatalf("sample no %q missing SP prefix", no)
	}
	// SP + 14 位时间戳 + 8 位随机后缀
	if len(no) != 2+14+8 {
		t.Fatalf("sample no %q length = %d, want %d", no, len(no), 2+14+8)
	}
}

func TestRandHexUpper(t *testing.T) {
	s := randHexUpper(6)
	if len(s) != 6 {
		t.Fatalf("length = %d, want 6", len(s))
	}
	if s != strings.ToUpper(s) {
		t.Fatalf("%q is not upper case", s)
	}
	// 超长请求收敛到可用长度
	if got := randHexUpper(100); len(got) != 32 {
		t.Fatalf("oversize length = %d, want 32", len(got))
	}
}
