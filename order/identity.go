package order

import (
	"fmt"
	"math/rand"
	"regexp"
	"time"
)

// Phase 区分开仓与平仓两类策略订单。
type Phase string

const (
	PhaseOpen  Phase = "OPEN"
	PhaseClose Phase = "CLOSE"
)

// Identity 把策略归属编码进 clientOrderId：<prefix>_<phase>_<token>。
// CLOSE 单的 token 与它所平掉的 OPEN 单逐字节一致，这是开仓与止盈之间
// 唯一的关联方式，没有额外台账。
type Identity struct {
	prefix string
	re     *regexp.Regexp

	now     func() time.Time
	randInt func() int
}

// NewIdentity 构造编码器。prefix 必须跨重启保持稳定，否则旧挂单会被当成外部订单。
func NewIdentity(prefix string) (*Identity, error) {
	if prefix == "" {
		return nil, fmt.Errorf("identity prefix is required")
	}
	// 前缀锚定在行首且区分大小写，避免误匹配仅包含前缀子串的外部订单。
	re, err := regexp.Compile("^" + regexp.QuoteMeta(prefix) + "_(CLOSE|OPEN)_(.+)")
	if err != nil {
		return nil, fmt.Errorf("compile identity pattern: %w", err)
	}
	return &Identity{
		prefix:  prefix,
		re:      re,
		now:     time.Now,
		randInt: func() int { return 1000 + rand.Intn(9999000) },
	}, nil
}

// Prefix 返回策略实例前缀。
func (id *Identity) Prefix() string { return id.prefix }

// Encode 生成订单 id；token 为空时生成新的唯一 token（OPEN 单场景）。
func (id *Identity) Encode(phase Phase, token string) string {
	if token == "" {
		token = id.NewToken()
	}
	return fmt.Sprintf("%s_%s_%s", id.prefix, phase, token)
}

// NewToken 生成 <unixSeconds>_<4~7位随机数>，进程生命周期内实用唯一。
func (id *Identity) NewToken() string {
	return fmt.Sprintf("%d_%d", id.now().Unix(), id.randInt())
}

// Decode 从订单读取策略归属；非本策略、缺失或畸形的 id 返回 ok=false。
// 优先读 clientOrderId，回落到 newClientOrderId。纯函数，无副作用。
func (id *Identity) Decode(o Order) (Phase, string, bool) {
	return id.DecodeID(o.EffectiveID())
}

// DecodeID 对裸 id 字符串做同样的解析。
func (id *Identity) DecodeID(s string) (Phase, string, bool) {
	if s == "" {
		return "", "", false
	}
	m := id.re.FindStringSubmatch(s)
	if m == nil {
		return "", "", false
	}
	return Phase(m[1]), m[2], true
}
