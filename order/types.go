// Package order 定义交易所订单模型与策略订单的识别/分类/去重逻辑。
package order

import (
	"errors"
	"fmt"
)

// ErrUnknownValue 表示交易所返回了本系统不认识的枚举值。
// 解析层必须显式拒绝，不允许静默放行。
var ErrUnknownValue = errors.New("unrecognized exchange value")

// Side 订单方向。
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// ParseSide 解析交易所方向字段。
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case SideBuy, SideSell:
		return Side(s), nil
	}
	return "", fmt.Errorf("side %q: %w", s, ErrUnknownValue)
}

// Opposite 返回相反方向。
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Status 订单生命周期状态。
type Status string

const (
	StatusNew             Status = "NEW"
	StatusPartiallyFilled Status = "PARTIALLY_FILLED"
	StatusFilled          Status = "FILLED"
	StatusCanceled        Status = "CANCELED"
	StatusPendingCancel   Status = "PENDING_CANCEL"
	StatusRejected        Status = "REJECTED"
	StatusExpired         Status = "EXPIRED"
)

// ParseStatus 解析交易所状态字段。
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusNew, StatusPartiallyFilled, StatusFilled, StatusCanceled,
		StatusPendingCancel, StatusRejected, StatusExpired:
		return Status(s), nil
	}
	return "", fmt.Errorf("status %q: %w", s, ErrUnknownValue)
}

// Type 订单类型。
type Type string

const (
	TypeLimit           Type = "LIMIT"
	TypeLimitMaker      Type = "LIMIT_MAKER"
	TypeMarket          Type = "MARKET"
	TypeStopLoss        Type = "STOP_LOSS"
	TypeStopLossLimit   Type = "STOP_LOSS_LIMIT"
	TypeTakeProfit      Type = "TAKE_PROFIT"
	TypeTakeProfitLimit Type = "TAKE_PROFIT_LIMIT"
)

// ParseType 解析交易所订单类型字段。
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeLimit, TypeLimitMaker, TypeMarket, TypeStopLoss,
		TypeStopLossLimit, TypeTakeProfit, TypeTakeProfitLimit:
		return Type(s), nil
	}
	return "", fmt.Errorf("order type %q: %w", s, ErrUnknownValue)
}

// TimeInForce 订单有效期策略。
type TimeInForce string

const (
	TIFGoodTillCancel    TimeInForce = "GTC"
	TIFImmediateOrCancel TimeInForce = "IOC"
	TIFFillOrKill        TimeInForce = "FOK"
)

// ParseTimeInForce 解析交易所 timeInForce 字段。
func ParseTimeInForce(s string) (TimeInForce, error) {
	switch TimeInForce(s) {
	case TIFGoodTillCancel, TIFImmediateOrCancel, TIFFillOrKill:
		return TimeInForce(s), nil
	}
	return "", fmt.Errorf("timeInForce %q: %w", s, ErrUnknownValue)
}

// Order 交易所侧订单的只读视图；交易所是唯一事实来源，本系统不另存台账。
type Order struct {
	ClientOrderID    string
	NewClientOrderID string
	Symbol           string
	Side             Side
	Type             Type
	Price            float64
	Quantity         float64
	ExecutedQty      float64
	Status           Status
	TimeInForce      TimeInForce
}

// EffectiveID 优先返回 clientOrderId，回落到 newClientOrderId。
// 已挂单的回报带前者，下单请求参数只有后者。
func (o Order) EffectiveID() string {
	if o.ClientOrderID != "" {
		return o.ClientOrderID
	}
	return o.NewClientOrderID
}

// Intent 待提交的订单草稿：与 Order 同形，但还没有状态与成交量。
// 只存在于决策与提交之间。
type Intent struct {
	ClientOrderID string
	Symbol        string
	Side          Side
	Type          Type
	Price         float64
	Quantity      float64
	TimeInForce   TimeInForce
}

// Notional 返回提交该意图所需的名义金额（价格×数量）。
func (i Intent) Notional() float64 {
	return i.Price * i.Quantity
}
