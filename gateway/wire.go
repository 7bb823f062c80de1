package gateway

import (
	"fmt"
	"strconv"

	"range-trader-go/order"
)

// wireOrder Binance /api/v3/allOrders 回报中的订单条目。
// 数字字段在报文里是字符串，这里只做原样承接，转换时再解析。
type wireOrder struct {
	Symbol        string `json:"symbol"`
	OrderID       int64  `json:"orderId"`
	ClientOrderID string `json:"clientOrderId"`
	Price         string `json:"price"`
	OrigQty       string `json:"origQty"`
	ExecutedQty   string `json:"executedQty"`
	Status        string `json:"status"`
	TimeInForce   string `json:"timeInForce"`
	Type          string `json:"type"`
	Side          string `json:"side"`
}

// toOrder 把报文条目转成领域订单。任何不认识的枚举值都是硬错误：
// 调用方把整份快照判为同步失败，而不是带着缺口继续分类。
func (w wireOrder) toOrder() (order.Order, error) {
	status, err := order.ParseStatus(w.Status)
	if err != nil {
		return order.Order{}, fmt.Errorf("order %d: %w", w.OrderID, err)
	}
	side, err := order.ParseSide(w.Side)
	if err != nil {
		return order.Order{}, fmt.Errorf("order %d: %w", w.OrderID, err)
	}
	typ, err := order.ParseType(w.Type)
	if err != nil {
		return order.Order{}, fmt.Errorf("order %d: %w", w.OrderID, err)
	}
	tif, err := order.ParseTimeInForce(w.TimeInForce)
	if err != nil {
		return order.Order{}, fmt.Errorf("order %d: %w", w.OrderID, err)
	}
	price, err := parseDecimal(w.Price, "price")
	if err != nil {
		return order.Order{}, fmt.Errorf("order %d: %w", w.OrderID, err)
	}
	qty, err := parseDecimal(w.OrigQty, "origQty")
	if err != nil {
		return order.Order{}, fmt.Errorf("order %d: %w", w.OrderID, err)
	}
	executed := 0.0
	if w.ExecutedQty != "" {
		if executed, err = parseDecimal(w.ExecutedQty, "executedQty"); err != nil {
			return order.Order{}, fmt.Errorf("order %d: %w", w.OrderID, err)
		}
	}

	return order.Order{
		ClientOrderID: w.ClientOrderID,
		Symbol:        w.Symbol,
		Side:          side,
		Type:          typ,
		Price:         price,
		Quantity:      qty,
		ExecutedQty:   executed,
		Status:        status,
		TimeInForce:   tif,
	}, nil
}

func parseDecimal(s, field string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed %s %q", field, s)
	}
	return v, nil
}

// formatDecimal 输出最短且无损的十进制表示，满足交易所对价格/数量
// 字符串格式的要求（不带多余的尾零）。
func formatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
