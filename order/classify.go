package order

// ClassifiedSet 单次轮询快照上的四个视图。每轮从最新快照整体重建，
// 轮与轮之间不合并——这是对外部改单（手工交易、交易所撤单）造成
// 漂移的唯一防线。
type ClassifiedSet struct {
	All           []Order
	Filled        []Order
	New           []Order
	StrategyOwned []Order
}

// Classifier 把原始订单列表切成策略相关的桶。
type Classifier struct {
	ID *Identity
}

// Classify 构建分类视图。StrategyOwned 只收 id 可解析且状态为
// FILLED/NEW 的订单：CANCELED/EXPIRED/REJECTED 既不可操作也不应
// 阻塞重新铺单。PARTIALLY_FILLED 同样被排除，属于显式策略决定
// （部分成交的开仓单不派生止盈、也不参与去重），而非遗漏。
func (c *Classifier) Classify(raw []Order) ClassifiedSet {
	set := ClassifiedSet{All: raw}
	for _, o := range raw {
		switch o.Status {
		case StatusFilled:
			set.Filled = append(set.Filled, o)
		case StatusNew:
			set.New = append(set.New, o)
		}
		if o.Status != StatusFilled && o.Status != StatusNew {
			continue
		}
		if _, _, ok := c.ID.Decode(o); ok {
			set.StrategyOwned = append(set.StrategyOwned, o)
		}
	}
	return set
}
