package order

// Guard 判断候选订单是否与既有策略订单重复，防止重复建立敞口。
type Guard struct {
	ID *Identity
}

// IsDuplicate 两条独立判据，命中任意一条即视为重复：
//
//  1. 身份匹配：候选 id 解析出的 (phase, token) 与某既有策略订单完全相等，
//     拦截逐字节重试；
//  2. 经济等价：某既有策略订单状态为 NEW 且 (price, quantity, symbol, side)
//     与候选完全一致，拦截换了新 token 的同一意图（典型场景：进程重启后
//     丢失了之前生成的 token）。
//
// 经济等价有意忽略 type 与 timeInForce：同价同量同向的挂单代表同一份
// 敞口，与挂单类型无关。
func (g *Guard) IsDuplicate(candidate Intent, owned []Order) bool {
	candPhase, candToken, candOK := g.ID.DecodeID(candidate.ClientOrderID)

	for _, o := range owned {
		if candOK {
			if phase, token, ok := g.ID.Decode(o); ok &&
				phase == candPhase && token == candToken {
				return true
			}
		}
		if o.Status == StatusNew &&
			o.Price == candidate.Price &&
			o.Quantity == candidate.Quantity &&
			o.Symbol == candidate.Symbol &&
			o.Side == candidate.Side {
			return true
		}
	}
	return false
}

// HasClose 报告既有策略订单中是否已存在该 token 的 CLOSE 单，
// 用于判定某笔已成交开仓是否还缺止盈。
func (g *Guard) HasClose(token string, owned []Order) bool {
	for _, o := range owned {
		if phase, t, ok := g.ID.Decode(o); ok && phase == PhaseClose && t == token {
			return true
		}
	}
	return false
}
