// Package metrics provides Prometheus metrics for the range trader
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Set 聚合一个策略实例的全部指标。
type Set struct {
	CyclesTotal       prometheus.Counter
	SyncFailures      prometheus.Counter
	IntentsPlanned    prometheus.Counter
	IntentsSubmitted  prometheus.Counter
	IntentsSkipped    *prometheus.CounterVec // 按跳过原因分桶
	SubmitFailures    prometheus.Counter
	ReferencePrice    prometheus.Gauge
	StrategyOpenCount prometheus.Gauge
}

// New 注册并返回指标集合；reg 为 nil 时使用默认注册表。
func New(reg prometheus.Registerer, symbol string) *Set {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	labels := prometheus.Labels{"symbol": symbol}
	s := &Set{
		CyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rt_cycles_total", Help: "Completed reconciliation cycles.", ConstLabels: labels,
		}),
		SyncFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rt_sync_failures_total", Help: "Aborted cycles due to snapshot sync failure.", ConstLabels: labels,
		}),
		IntentsPlanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rt_intents_planned_total", Help: "Order intents produced by reconciliation.", ConstLabels: labels,
		}),
		IntentsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rt_intents_submitted_total", Help: "Order intents submitted to the exchange.", ConstLabels: labels,
		}),
		IntentsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rt_intents_skipped_total", Help: "Order intents dropped before submission.", ConstLabels: labels,
		}, []string{"reason"}),
		SubmitFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rt_submit_failures_total", Help: "Order submissions rejected by the exchange.", ConstLabels: labels,
		}),
		ReferencePrice: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rt_reference_price", Help: "Latest reference price used as ladder center.", ConstLabels: labels,
		}),
		StrategyOpenCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rt_strategy_owned_orders", Help: "Strategy-owned orders in the latest snapshot.", ConstLabels: labels,
		}),
	}
	reg.MustRegister(
		s.CyclesTotal, s.SyncFailures, s.IntentsPlanned, s.IntentsSubmitted,
		s.IntentsSkipped, s.SubmitFailures, s.ReferencePrice, s.StrategyOpenCount,
	)
	return s
}

// StartMetricsServer 启动Prometheus指标服务器
func StartMetricsServer(addr string) {
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		_ = http.ListenAndServe(addr, nil)
	}()
}
