package trader

import (
	"fmt"

	"range-trader-go/order"
	"range-trader-go/strategy"
)

// Balances 每轮取一次的可用余额快照，按资产名索引。
// 余额检查到实际提交之间存在先检查后行动的竞态，这是已知且接受的
// 风险（单笔逐单提交、小额、有人工盯盘），不用预留机制去解决。
type Balances map[string]float64

// Cycle 一轮对账的纯决策部分：分类 → 补止盈 → 铺梯 → 去重 → 余额过滤。
// 本组件没有任何副作用，只产出提交意图；执行交给 Executor。
// 决策与执行的分离使对账逻辑可以在没有交易所连接的情况下完整测试。
type Cycle struct {
	Symbol     string
	BaseAsset  string
	QuoteAsset string

	Identity   *order.Identity
	Classifier *order.Classifier
	Guard      *order.Guard
	Planner    *strategy.Planner
	Deriver    *strategy.Deriver
}

// Run 在一份快照上执行完整决策，返回应提交的意图与全部丢弃记录。
// 同样的输入必然产出同样的经济意图——没有隐藏状态。
func (c *Cycle) Run(snapshot []order.Order, referencePrice float64, balances Balances) ([]order.Intent, []Skip) {
	set := c.Classifier.Classify(snapshot)

	var intents []order.Intent
	var skips []Skip

	// 已成交的策略开仓单，缺止盈的逐一补上
	for _, o := range set.StrategyOwned {
		if o.Status != order.StatusFilled {
			continue
		}
		phase, token, ok := c.Identity.Decode(o)
		if !ok || phase != order.PhaseOpen {
			continue
		}
		if c.Guard.HasClose(token, set.StrategyOwned) {
			continue
		}
		tp, ok := c.Deriver.Derive(o)
		if !ok {
			skips = append(skips, Skip{
				Kind:          SkipPlanning,
				ClientOrderID: o.EffectiveID(),
				Reason:        "filled entry fails take-profit preconditions",
			})
			continue
		}
		intents = append(intents, tp)
	}

	// 铺梯：草稿本身或它将来的止盈任一已存在，这单就不值得提交
	for _, draft := range c.Planner.Plan(referencePrice) {
		tp, ok := c.Deriver.DeriveDraft(draft)
		if !ok {
			skips = append(skips, Skip{
				Kind:          SkipPlanning,
				ClientOrderID: draft.ClientOrderID,
				Reason:        "planned rung fails take-profit preconditions",
			})
			continue
		}
		if c.Guard.IsDuplicate(draft, set.StrategyOwned) || c.Guard.IsDuplicate(tp, set.StrategyOwned) {
			skips = append(skips, Skip{
				Kind:          SkipDuplicate,
				ClientOrderID: draft.ClientOrderID,
				Reason:        "equivalent order or take-profit already open",
			})
			continue
		}
		intents = append(intents, draft)
	}

	return c.filterByBalance(intents, balances, skips)
}

// filterByBalance 按余额快照过滤意图；同一轮内先接受的意图会占用额度。
func (c *Cycle) filterByBalance(intents []order.Intent, balances Balances, skips []Skip) ([]order.Intent, []Skip) {
	quoteFree := balances[c.QuoteAsset]
	baseFree := balances[c.BaseAsset]

	kept := intents[:0]
	for _, it := range intents {
		switch it.Side {
		case order.SideBuy:
			need := it.Notional()
			if need > quoteFree {
				skips = append(skips, Skip{
					Kind:          SkipInsufficientBalance,
					ClientOrderID: it.ClientOrderID,
					Reason:        fmt.Sprintf("need %.8f %s, free %.8f", need, c.QuoteAsset, quoteFree),
				})
				continue
			}
			quoteFree -= need
		case order.SideSell:
			if it.Quantity > baseFree {
				skips = append(skips, Skip{
					Kind:          SkipInsufficientBalance,
					ClientOrderID: it.ClientOrderID,
					Reason:        fmt.Sprintf("need %.8f %s, free %.8f", it.Quantity, c.BaseAsset, baseFree),
				})
				continue
			}
			baseFree -= it.Quantity
		}
		kept = append(kept, it)
	}
	return kept, skips
}
