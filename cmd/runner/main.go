package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"range-trader-go/config"
	"range-trader-go/gateway"
	"range-trader-go/infrastructure/logger"
	"range-trader-go/metrics"
	"range-trader-go/order"
	"range-trader-go/trader"
)

func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	dryRun := flag.Bool("dryRun", false, "仅日志输出，不真正下单")
	metricsAddr := flag.String("metricsAddr", ":9100", "Prometheus metrics 监听地址，留空则关闭")
	flag.Parse()

	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zlog.Close()

	symbol := strings.ToUpper(cfg.Strategy.Symbol)
	if *metricsAddr != "" {
		metrics.StartMetricsServer(*metricsAddr)
	}
	mset := metrics.New(nil, symbol)

	identity, err := order.NewIdentity(cfg.Strategy.OrderIDPrefix)
	if err != nil {
		log.Fatalf("初始化订单标识失败: %v", err)
	}

	restClient := &gateway.BinanceRESTClient{
		BaseURL:      cfg.Gateway.BaseURL,
		APIKey:       cfg.Gateway.APIKey,
		Secret:       cfg.Gateway.APISecret,
		HTTPClient:   gateway.NewDefaultHTTPClient(),
		RecvWindowMs: cfg.Gateway.RecvWindowMs,
		Limiter:      gateway.NewTokenBucketLimiter(cfg.Gateway.RestRate, cfg.Gateway.RestBurst),
	}

	runner := trader.NewRunner(restClient, identity, paramsFrom(cfg.Strategy))
	runner.Interval = time.Duration(cfg.Strategy.PollIntervalSec) * time.Second
	runner.Log = zlog
	runner.Metrics = mset
	runner.DryRun = *dryRun

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Strategy.UseWSPrice {
		feed := gateway.NewPriceFeed(symbol)
		feed.Endpoint = cfg.Gateway.WSEndpoint
		runner.Feed = feed
		go func() {
			if err := feed.Run(ctx); err != nil && ctx.Err() == nil {
				zlog.LogError(err, map[string]interface{}{"component": "price_feed"})
			}
		}()
	}

	// 配置热更新：校验通过的新参数在下一轮生效
	watcher := config.Watcher{Path: *cfgPath}
	go func() {
		_ = watcher.Start(ctx, func(next config.AppConfig) {
			runner.ApplyParams(paramsFrom(next.Strategy))
			zlog.Info("strategy params reloaded")
		})
	}()

	// systemd 集成：就绪通知与看门狗喂狗
	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)
	if interval, err := daemon.SdWatchdogEnabled(false); err == nil && interval > 0 {
		go func() {
			ticker := time.NewTicker(interval / 2)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					_, _ = daemon.SdNotify(false, daemon.SdNotifyWatchdog)
				}
			}
		}()
	}

	zlog.Info("range trader started")
	err = runner.Run(ctx)
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
	if err != nil && ctx.Err() == nil {
		zlog.LogError(err, map[string]interface{}{"component": "runner"})
		os.Exit(1)
	}
	zlog.Info("range trader stopped")
}

func paramsFrom(s config.StrategyConfig) trader.Params {
	return trader.Params{
		Symbol:     strings.ToUpper(s.Symbol),
		BaseAsset:  s.BaseAsset,
		QuoteAsset: s.QuoteAsset,
		LowerBound: s.LowerBound,
		UpperBound: s.UpperBound,
		Offset:     s.TakeProfitAmount,
		RungCount:  s.RungCount,
		RungSize:   s.RungSize,
		Precision:  s.PricePrecision,
	}
}
