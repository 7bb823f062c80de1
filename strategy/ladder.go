// Package strategy 负责区间策略的纯规划：阶梯开仓单与对应止盈单的推导。
// 本包不触网、不持状态，所有函数都是输入到草稿的纯映射。
package strategy

import (
	"math"

	"range-trader-go/order"
)

// Planner 在参考价附近铺设阶梯限价单。
// 平价(1.0)以下且高于下界时铺买单梯，平价以上且低于上界时铺卖单梯；
// 价格越过配置区间或恰好等于 1 时完全停手——界外的价格要么风险过高，
// 要么离平价太近，不值得报价。
type Planner struct {
	Symbol     string
	LowerBound float64
	UpperBound float64
	Offset     float64 // 档距，与止盈距离共用同一个绝对价差
	RungCount  int
	RungSize   float64
	Precision  int // 价格小数位，对应交易对的 tick 精度
	Identity   *order.Identity
}

// Plan 计算本梯当前应新开的全部订单草稿。每个草稿带全新 OPEN id。
func (p *Planner) Plan(referencePrice float64) []order.Intent {
	var side order.Side
	var direction float64

	switch {
	case referencePrice < 1 && referencePrice > p.LowerBound:
		side, direction = order.SideBuy, -1
	case referencePrice > 1 && referencePrice < p.UpperBound:
		side, direction = order.SideSell, +1
	default:
		return nil
	}

	intents := make([]order.Intent, 0, p.RungCount)
	for i := 0; i < p.RungCount; i++ {
		price := roundTo(referencePrice+direction*p.Offset*float64(i), p.Precision)
		intents = append(intents, order.Intent{
			ClientOrderID: p.Identity.Encode(order.PhaseOpen, ""),
			Symbol:        p.Symbol,
			Side:          side,
			Type:          order.TypeLimit,
			Price:         price,
			Quantity:      p.RungSize,
			TimeInForce:   order.TIFGoodTillCancel,
		})
	}
	return intents
}

func roundTo(v float64, precision int) float64 {
	scale := math.Pow10(precision)
	return math.Round(v*scale) / scale
}
