package trader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"range-trader-go/order"
	"range-trader-go/strategy"
)

func newTestCycle(t *testing.T) *Cycle {
	t.Helper()
	id, err := order.NewIdentity("RT1")
	require.NoError(t, err)
	return &Cycle{
		Symbol:     "BUSDUSDT",
		BaseAsset:  "BUSD",
		QuoteAsset: "USDT",
		Identity:   id,
		Classifier: &order.Classifier{ID: id},
		Guard:      &order.Guard{ID: id},
		Planner: &strategy.Planner{
			Symbol:     "BUSDUSDT",
			LowerBound: 0.9990,
			UpperBound: 1.0010,
			Offset:     0.0001,
			RungCount:  2,
			RungSize:   20,
			Precision:  4,
			Identity:   id,
		},
		Deriver: &strategy.Deriver{Offset: 0.0001, Precision: 4, Identity: id},
	}
}

func ample() Balances {
	return Balances{"BUSD": 1e6, "USDT": 1e6}
}

func TestCycleDerivesMissingTakeProfit(t *testing.T) {
	c := newTestCycle(t)

	snapshot := []order.Order{
		{ClientOrderID: "RT1_OPEN_42", Symbol: "BUSDUSDT", Side: order.SideBuy,
			Price: 0.9995, Quantity: 25, ExecutedQty: 20, Status: order.StatusFilled},
	}
	// 参考价在平价上，梯子停手，只剩补止盈
	intents, skips := c.Run(snapshot, 1.0, ample())

	require.Len(t, intents, 1)
	assert.Empty(t, skips)
	tp := intents[0]
	assert.Equal(t, "RT1_CLOSE_42", tp.ClientOrderID)
	assert.Equal(t, order.SideSell, tp.Side)
	assert.InDelta(t, 0.9996, tp.Price, 1e-9)
	assert.Equal(t, 20.0, tp.Quantity)
}

func TestCycleDoesNotReemitExistingTakeProfit(t *testing.T) {
	c := newTestCycle(t)

	snapshot := []order.Order{
		{ClientOrderID: "RT1_OPEN_42", Symbol: "BUSDUSDT", Side: order.SideBuy,
			Price: 0.9995, Quantity: 20, ExecutedQty: 20, Status: order.StatusFilled},
		{ClientOrderID: "RT1_CLOSE_42", Symbol: "BUSDUSDT", Side: order.SideSell,
			Price: 0.9996, Quantity: 20, Status: order.StatusNew},
	}
	intents, skips := c.Run(snapshot, 1.0, ample())

	assert.Empty(t, intents)
	assert.Empty(t, skips)
}

func TestCycleFilledCloseDoesNotChain(t *testing.T) {
	c := newTestCycle(t)

	// 已成交的 CLOSE 单不再派生新的止盈，链条在平仓处终止
	snapshot := []order.Order{
		{ClientOrderID: "RT1_CLOSE_42", Symbol: "BUSDUSDT", Side: order.SideSell,
			Price: 0.9996, Quantity: 20, ExecutedQty: 20, Status: order.StatusFilled},
	}
	intents, skips := c.Run(snapshot, 1.0, ample())

	assert.Empty(t, intents)
	assert.Empty(t, skips)
}

func TestCyclePlansLadder(t *testing.T) {
	c := newTestCycle(t)

	intents, skips := c.Run(nil, 0.9995, ample())

	require.Len(t, intents, 2)
	assert.Empty(t, skips)
	assert.InDelta(t, 0.9995, intents[0].Price, 1e-9)
	assert.InDelta(t, 0.9994, intents[1].Price, 1e-9)
	for _, it := range intents {
		assert.Equal(t, order.SideBuy, it.Side)
	}
}

func TestCycleSuppressesDuplicateRung(t *testing.T) {
	c := newTestCycle(t)

	// 既有 NEW 挂单与第一档经济等价（token 不同）
	snapshot := []order.Order{
		{ClientOrderID: "RT1_OPEN_1650000000_1111", Symbol: "BUSDUSDT",
			Side: order.SideBuy, Price: 0.9995, Quantity: 20, Status: order.StatusNew},
	}
	intents, skips := c.Run(snapshot, 0.9995, ample())

	require.Len(t, intents, 1)
	assert.InDelta(t, 0.9994, intents[0].Price, 1e-9)
	require.Len(t, skips, 1)
	assert.Equal(t, SkipDuplicate, skips[0].Kind)
}

func TestCycleProspectiveTakeProfitBlocksRung(t *testing.T) {
	c := newTestCycle(t)

	// 第一档的未来止盈（SELL 0.9996 x20）已作为 NEW 单存在：
	// 这一档连开仓都不该提交
	snapshot := []order.Order{
		{ClientOrderID: "RT1_CLOSE_1650000000_9999", Symbol: "BUSDUSDT",
			Side: order.SideSell, Price: 0.9996, Quantity: 20, Status: order.StatusNew},
	}
	intents, skips := c.Run(snapshot, 0.9995, ample())

	require.Len(t, intents, 1)
	assert.InDelta(t, 0.9994, intents[0].Price, 1e-9)
	require.Len(t, skips, 1)
	assert.Equal(t, SkipDuplicate, skips[0].Kind)
}

func TestCycleInsufficientBalance(t *testing.T) {
	c := newTestCycle(t)

	// 只够第一档（0.9995*20 = 19.99），第二档被丢弃并留痕
	intents, skips := c.Run(nil, 0.9995, Balances{"USDT": 25})

	require.Len(t, intents, 1)
	assert.InDelta(t, 0.9995, intents[0].Price, 1e-9)
	require.Len(t, skips, 1)
	assert.Equal(t, SkipInsufficientBalance, skips[0].Kind)
}

func TestCycleSellLadderNeedsBaseBalance(t *testing.T) {
	c := newTestCycle(t)

	intents, skips := c.Run(nil, 1.0005, Balances{"BUSD": 20, "USDT": 0})

	require.Len(t, intents, 1)
	assert.Equal(t, order.SideSell, intents[0].Side)
	require.Len(t, skips, 1)
	assert.Equal(t, SkipInsufficientBalance, skips[0].Kind)
}

func TestCycleIdempotent(t *testing.T) {
	c := newTestCycle(t)

	snapshot := []order.Order{
		{ClientOrderID: "RT1_OPEN_42", Symbol: "BUSDUSDT", Side: order.SideBuy,
			Price: 0.9995, Quantity: 20, ExecutedQty: 20, Status: order.StatusFilled},
	}
	first, _ := c.Run(snapshot, 0.9994, ample())
	second, _ := c.Run(snapshot, 0.9994, ample())

	// OPEN token 是随机生成的，按经济字段比较两次结果
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Side, second[i].Side)
		assert.Equal(t, first[i].Price, second[i].Price)
		assert.Equal(t, first[i].Quantity, second[i].Quantity)
		assert.Equal(t, first[i].Symbol, second[i].Symbol)
	}
}

func TestCycleTakeProfitsComeBeforeLadder(t *testing.T) {
	c := newTestCycle(t)

	snapshot := []order.Order{
		{ClientOrderID: "RT1_OPEN_42", Symbol: "BUSDUSDT", Side: order.SideBuy,
			Price: 0.9992, Quantity: 20, ExecutedQty: 20, Status: order.StatusFilled},
	}
	intents, _ := c.Run(snapshot, 0.9995, ample())

	require.Len(t, intents, 3)
	assert.Equal(t, "RT1_CLOSE_42", intents[0].ClientOrderID)
	assert.Equal(t, order.SideSell, intents[0].Side)
	assert.Equal(t, order.SideBuy, intents[1].Side)
	assert.Equal(t, order.SideBuy, intents[2].Side)
}
