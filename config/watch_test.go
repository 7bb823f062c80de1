package config

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestWatcherTriggersOnChange(t *testing.T) {
	t.Setenv("RT_API_KEY", "k")
	t.Setenv("RT_API_SECRET", "s")
	path := writeTempConfig(t, validYAML)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := make(chan AppConfig, 1)
	w := Watcher{Path: path, Cooldown: time.Millisecond}
	go func() {
		_ = w.Start(ctx, func(cfg AppConfig) {
			select {
			case ch <- cfg:
			default:
			}
		})
	}()

	// 给 watcher 一点时间挂上目录
	time.Sleep(100 * time.Millisecond)

	updated := validYAML + "  pollIntervalSec: 30\n"
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-ch:
		if cfg.Strategy.PollIntervalSec != 30 {
			t.Fatalf("callback got stale config: %+v", cfg.Strategy)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("expected update callback")
	}
}

func TestWatcherIgnoresInvalidEdit(t *testing.T) {
	t.Setenv("RT_API_KEY", "k")
	t.Setenv("RT_API_SECRET", "s")
	path := writeTempConfig(t, validYAML)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := make(chan AppConfig, 1)
	w := Watcher{Path: path, Cooldown: time.Millisecond}
	go func() {
		_ = w.Start(ctx, func(cfg AppConfig) { ch <- cfg })
	}()
	time.Sleep(100 * time.Millisecond)

	// rungCount 为负通不过校验，运行中的进程应继续用上一份好配置
	if err := os.WriteFile(path, []byte("env: dev\nstrategy:\n  rungCount: -1\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-ch:
		t.Fatalf("invalid config must not reach the callback: %+v", cfg)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcherStopsOnCancel(t *testing.T) {
	path := writeTempConfig(t, validYAML)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := Watcher{Path: path}
	if err := w.Start(ctx, nil); err == nil {
		t.Fatalf("expected context cancellation error")
	}
}
