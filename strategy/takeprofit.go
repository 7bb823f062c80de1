package strategy

import "range-trader-go/order"

// Deriver 从已成交的开仓单推导唯一对应的止盈单。
// 止盈价是固定绝对价差而非百分比：稳定币对的相对波动极小，
// 百分比止盈在这种区间里没有意义。
type Deriver struct {
	Offset    float64
	Precision int
	Identity  *order.Identity
}

// Derive 为已成交的 OPEN 单生成止盈草稿。
// 前置条件：id 解析为 OPEN，价格为正；不满足返回 ok=false。
// 止盈单的 token 沿用开仓单的 token，这是日后能找到并去重它的唯一依据。
// 数量优先取 executedQty，为零时回落到原始委托量（个别交易所回报缺该字段）。
func (d *Deriver) Derive(entry order.Order) (order.Intent, bool) {
	phase, token, ok := d.Identity.Decode(entry)
	if !ok || phase != order.PhaseOpen || entry.Price <= 0 {
		return order.Intent{}, false
	}

	qty := entry.ExecutedQty
	if qty == 0 {
		qty = entry.Quantity
	}

	return d.exit(token, entry.Symbol, entry.Side, entry.Price, qty), true
}

// DeriveDraft 对尚未提交的开仓草稿做同样的推导，用于在铺梯阶段
// 预判「这单将来的止盈是否已存在」。
func (d *Deriver) DeriveDraft(entry order.Intent) (order.Intent, bool) {
	phase, token, ok := d.Identity.DecodeID(entry.ClientOrderID)
	if !ok || phase != order.PhaseOpen || entry.Price <= 0 {
		return order.Intent{}, false
	}
	return d.exit(token, entry.Symbol, entry.Side, entry.Price, entry.Quantity), true
}

func (d *Deriver) exit(token, symbol string, entrySide order.Side, entryPrice, qty float64) order.Intent {
	price := entryPrice + d.Offset
	if entrySide == order.SideSell {
		price = entryPrice - d.Offset
	}
	return order.Intent{
		ClientOrderID: d.Identity.Encode(order.PhaseClose, token),
		Symbol:        symbol,
		Side:          entrySide.Opposite(),
		Type:          order.TypeLimit,
		Price:         roundTo(price, d.Precision),
		Quantity:      qty,
		TimeInForce:   order.TIFGoodTillCancel,
	}
}
