package order

import (
	"strings"
	"testing"
	"time"
)

func testIdentity(t *testing.T) *Identity {
	t.Helper()
	id, err := NewIdentity("RT1")
	if err != nil {
		t.Fatalf("NewIdentity: %v", err)
	}
	return id
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	id := testIdentity(t)
	for _, token := range []string{"42", "1650000000_1234", "a_b_c"} {
		s := id.Encode(PhaseOpen, token)
		phase, got, ok := id.DecodeID(s)
		if !ok || phase != PhaseOpen || got != token {
			t.Fatalf("round trip %q -> (%v, %q, %v)", s, phase, got, ok)
		}
	}
	phase, token, ok := id.DecodeID(id.Encode(PhaseClose, "42"))
	if !ok || phase != PhaseClose || token != "42" {
		t.Fatalf("close round trip failed: %v %q %v", phase, token, ok)
	}
}

func TestEncodeGeneratesToken(t *testing.T) {
	id := testIdentity(t)
	id.now = func() time.Time { return time.Unix(1650000000, 0) }
	id.randInt = func() int { return 4242 }

	got := id.Encode(PhaseOpen, "")
	if got != "RT1_OPEN_1650000000_4242" {
		t.Fatalf("Encode = %q", got)
	}
}

func TestNewTokenShape(t *testing.T) {
	id := testIdentity(t)
	token := id.NewToken()
	parts := strings.SplitN(token, "_", 2)
	if len(parts) != 2 {
		t.Fatalf("token %q should be <unix>_<rand>", token)
	}
	if len(parts[1]) < 4 || len(parts[1]) > 7 {
		t.Fatalf("random component %q should be 4-7 digits", parts[1])
	}
}

func TestDecodeRejectsForeignOrders(t *testing.T) {
	id := testIdentity(t)
	cases := []string{
		"",                     // 缺失
		"RT1_OPEN_",            // token 为空
		"RT1_HEDGE_42",         // 未知 phase
		"rt1_OPEN_42",          // 大小写不符
		"XRT1_OPEN_42",         // 前缀未锚定在行首
		"web_RT1_OPEN_42",      // 仅包含前缀子串
		"electro_7348231",      // 手工订单
		"RT2_OPEN_42",          // 其他策略实例
	}
	for _, s := range cases {
		if _, _, ok := id.DecodeID(s); ok {
			t.Fatalf("DecodeID(%q) should not match", s)
		}
	}
}

func TestDecodePrefersClientOrderID(t *testing.T) {
	id := testIdentity(t)
	o := Order{ClientOrderID: "RT1_OPEN_1", NewClientOrderID: "RT1_CLOSE_2"}
	phase, token, ok := id.Decode(o)
	if !ok || phase != PhaseOpen || token != "1" {
		t.Fatalf("Decode = %v %q %v", phase, token, ok)
	}
	o.ClientOrderID = ""
	phase, token, ok = id.Decode(o)
	if !ok || phase != PhaseClose || token != "2" {
		t.Fatalf("fallback Decode = %v %q %v", phase, token, ok)
	}
}

func TestNewIdentityRequiresPrefix(t *testing.T) {
	if _, err := NewIdentity(""); err == nil {
		t.Fatalf("empty prefix should be rejected")
	}
}
