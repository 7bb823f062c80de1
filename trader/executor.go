package trader

import (
	"context"

	"range-trader-go/infrastructure/logger"
	"range-trader-go/metrics"
	"range-trader-go/order"
)

// Snapshotter 提供全量订单快照。
type Snapshotter interface {
	AllOrders(ctx context.Context, symbol string) ([]order.Order, error)
}

// Submitter 提交单笔订单；交易所必须原样接受预先算好的 clientOrderId，
// 因为 id 本身就是归属与关联机制。
type Submitter interface {
	PlaceOrder(ctx context.Context, it order.Intent) (order.Order, error)
}

// ExecReport 一批意图的执行结果。
type ExecReport struct {
	Submitted []order.Intent
	Skipped   []Skip
	Failed    []SubmitError
}

// Executor 逐笔提交意图。每笔提交之后、评估下一笔之前，先做一次
// 全量重新同步并重过去重判定：这把陈旧窗口压缩到单笔订单的往返，
// 避免同一份旧快照推出的两笔意图重复建立敞口（典型案例：同一笔
// 成交被推导出两份止盈）。
type Executor struct {
	Snap   Snapshotter
	Submit Submitter

	Classifier *order.Classifier
	Guard      *order.Guard

	Log     *logger.Logger
	Metrics *metrics.Set
	DryRun  bool
}

// Execute 按序处理意图。ctx 取消时在意图边界放弃剩余批次；单笔提交
// 对策略而言是原子的（交易所整单接受或拒绝），不存在半applied状态。
// 重新同步失败时同样放弃剩余批次：没有可信快照就没有提交的依据。
func (e *Executor) Execute(ctx context.Context, symbol string, intents []order.Intent, initial order.ClassifiedSet) (ExecReport, error) {
	var report ExecReport
	owned := initial.StrategyOwned

	for i, it := range intents {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		if i > 0 {
			snapshot, err := e.Snap.AllOrders(ctx, symbol)
			if err != nil {
				return report, &SyncError{Op: "resync", Err: err}
			}
			owned = e.Classifier.Classify(snapshot).StrategyOwned
		}

		if e.Guard.IsDuplicate(it, owned) {
			skip := Skip{
				Kind:          SkipDuplicate,
				ClientOrderID: it.ClientOrderID,
				Reason:        "equivalent order appeared after re-sync",
			}
			report.Skipped = append(report.Skipped, skip)
			e.observeSkip(skip)
			continue
		}

		if e.DryRun {
			report.Submitted = append(report.Submitted, it)
			e.logOrder("dry_run_submit", it)
			continue
		}

		if _, err := e.Submit.PlaceOrder(ctx, it); err != nil {
			subErr := SubmitError{ClientOrderID: it.ClientOrderID, Err: err}
			report.Failed = append(report.Failed, subErr)
			if e.Log != nil {
				e.Log.LogError(&subErr, map[string]interface{}{"symbol": symbol})
			}
			if e.Metrics != nil {
				e.Metrics.SubmitFailures.Inc()
			}
			continue
		}
		report.Submitted = append(report.Submitted, it)
		e.logOrder("submitted", it)
		if e.Metrics != nil {
			e.Metrics.IntentsSubmitted.Inc()
		}
	}
	return report, nil
}

func (e *Executor) logOrder(event string, it order.Intent) {
	if e.Log == nil {
		return
	}
	e.Log.LogOrder(event, it.ClientOrderID, map[string]interface{}{
		"symbol":   it.Symbol,
		"side":     string(it.Side),
		"price":    it.Price,
		"quantity": it.Quantity,
	})
}

func (e *Executor) observeSkip(s Skip) {
	if e.Log != nil {
		e.Log.LogOrder("skipped", s.ClientOrderID, map[string]interface{}{
			"kind":   string(s.Kind),
			"reason": s.Reason,
		})
	}
	if e.Metrics != nil {
		e.Metrics.IntentsSkipped.WithLabelValues(string(s.Kind)).Inc()
	}
}
