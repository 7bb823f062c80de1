package trader

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"range-trader-go/infrastructure/logger"
	"range-trader-go/metrics"
	"range-trader-go/order"
	"range-trader-go/strategy"
)

// Gateway 核心对外部交易所连接层的全部要求。
type Gateway interface {
	Snapshotter
	Submitter
	AvgPrice(ctx context.Context, symbol string) (float64, error)
	AccountBalances(ctx context.Context) (map[string]float64, error)
}

// PriceFeed 可选的低延迟参考价来源（WS 行情）；不新鲜时回落到 REST。
type PriceFeed interface {
	Last() (price float64, at time.Time, ok bool)
}

// Params 策略可调参数；支持热更新，每轮开始时取一次一致快照。
type Params struct {
	Symbol     string
	BaseAsset  string
	QuoteAsset string
	LowerBound float64
	UpperBound float64
	Offset     float64
	RungCount  int
	RungSize   float64
	Precision  int
}

// Runner 以固定间隔驱动对账轮。轮内严格串行：取快照 → 纯决策 →
// 逐笔提交（每笔后重同步）。进程内没有并发修改，唯一被并发改动的
// 资源是交易所本身，提交后重同步是仅有的并发正确性机制。
type Runner struct {
	Gateway    Gateway
	Identity   *order.Identity
	Interval   time.Duration
	Feed       PriceFeed
	FeedMaxAge time.Duration
	Log        *logger.Logger
	Metrics    *metrics.Set
	DryRun     bool

	mu     sync.RWMutex
	params Params
}

// NewRunner 构造轮询驱动器。
func NewRunner(gw Gateway, id *order.Identity, p Params) *Runner {
	return &Runner{
		Gateway:    gw,
		Identity:   id,
		Interval:   10 * time.Second,
		FeedMaxAge: 5 * time.Second,
		Log:        logger.Nop(),
		params:     p,
	}
}

// ApplyParams 热更新策略参数；下一轮生效。
func (r *Runner) ApplyParams(p Params) {
	r.mu.Lock()
	r.params = p
	r.mu.Unlock()
}

func (r *Runner) snapshotParams() Params {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.params
}

// Run 立即执行一轮，然后按 Interval 循环，直到 ctx 取消。
// 单轮失败只记录不中断——下一轮会从最新快照整体重算。
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		if err := r.Tick(ctx); err != nil {
			r.Log.LogError(err, map[string]interface{}{"symbol": r.snapshotParams().Symbol})
			if r.Metrics != nil {
				r.Metrics.SyncFailures.Inc()
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Tick 执行一轮完整对账。快照/价格/余额任一获取失败都按同步失败
// 处理并中止本轮：分类正确性依赖完整视图，残缺数据上不做任何决策。
func (r *Runner) Tick(ctx context.Context) error {
	p := r.snapshotParams()
	cycleID := uuid.NewString()

	snapshot, err := r.Gateway.AllOrders(ctx, p.Symbol)
	if err != nil {
		return &SyncError{Op: "allOrders", Err: err}
	}
	price, err := r.referencePrice(ctx, p.Symbol)
	if err != nil {
		return &SyncError{Op: "referencePrice", Err: err}
	}
	balances, err := r.Gateway.AccountBalances(ctx)
	if err != nil {
		return &SyncError{Op: "accountBalances", Err: err}
	}

	classifier := &order.Classifier{ID: r.Identity}
	guard := &order.Guard{ID: r.Identity}
	cycle := &Cycle{
		Symbol:     p.Symbol,
		BaseAsset:  p.BaseAsset,
		QuoteAsset: p.QuoteAsset,
		Identity:   r.Identity,
		Classifier: classifier,
		Guard:      guard,
		Planner: &strategy.Planner{
			Symbol:     p.Symbol,
			LowerBound: p.LowerBound,
			UpperBound: p.UpperBound,
			Offset:     p.Offset,
			RungCount:  p.RungCount,
			RungSize:   p.RungSize,
			Precision:  p.Precision,
			Identity:   r.Identity,
		},
		Deriver: &strategy.Deriver{
			Offset:    p.Offset,
			Precision: p.Precision,
			Identity:  r.Identity,
		},
	}

	set := classifier.Classify(snapshot)
	intents, skips := cycle.Run(snapshot, price, balances)

	if r.Metrics != nil {
		r.Metrics.CyclesTotal.Inc()
		r.Metrics.ReferencePrice.Set(price)
		r.Metrics.StrategyOpenCount.Set(float64(len(set.StrategyOwned)))
		r.Metrics.IntentsPlanned.Add(float64(len(intents)))
		for _, s := range skips {
			r.Metrics.IntentsSkipped.WithLabelValues(string(s.Kind)).Inc()
		}
	}
	for _, s := range skips {
		r.Log.LogOrder("skipped", s.ClientOrderID, map[string]interface{}{
			"kind":   string(s.Kind),
			"reason": s.Reason,
		})
	}

	exec := &Executor{
		Snap:       r.Gateway,
		Submit:     r.Gateway,
		Classifier: classifier,
		Guard:      guard,
		Log:        r.Log,
		Metrics:    r.Metrics,
		DryRun:     r.DryRun,
	}
	report, execErr := exec.Execute(ctx, p.Symbol, intents, set)

	r.Log.LogCycle("cycle_done", cycleID, map[string]interface{}{
		"symbol":          p.Symbol,
		"reference_price": price,
		"snapshot_size":   len(snapshot),
		"strategy_owned":  len(set.StrategyOwned),
		"intents":         len(intents),
		"submitted":       len(report.Submitted),
		"skipped":         len(skips) + len(report.Skipped),
		"failed":          len(report.Failed),
	})
	return execErr
}

func (r *Runner) referencePrice(ctx context.Context, symbol string) (float64, error) {
	if r.Feed != nil {
		if price, at, ok := r.Feed.Last(); ok && time.Since(at) <= r.FeedMaxAge {
			return price, nil
		}
	}
	return r.Gateway.AvgPrice(ctx, symbol)
}
