package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// BinanceSpotWSEndpoint 现货行情流默认入口。
const BinanceSpotWSEndpoint = "wss://stream.binance.com:9443"

// PriceFeed 订阅 <symbol>@miniTicker 流并缓存最近收盘价，作为比
// REST avgPrice 更低延迟的参考价来源。断线后指数退避重连；消费方
// 通过 Last 的时间戳自行判断新鲜度，过期则回落到 REST。
type PriceFeed struct {
	Endpoint string
	Symbol   string
	Dialer   *websocket.Dialer

	mu     sync.RWMutex
	last   float64
	lastAt time.Time
}

// miniTicker 流的最小字段：c 为最新收盘价。
type miniTickerEvent struct {
	Symbol string `json:"s"`
	Close  string `json:"c"`
}

// NewPriceFeed 构造行情订阅器。
func NewPriceFeed(symbol string) *PriceFeed {
	return &PriceFeed{
		Endpoint: BinanceSpotWSEndpoint,
		Symbol:   symbol,
		Dialer:   websocket.DefaultDialer,
	}
}

// Run 维持订阅直到 ctx 取消；单次连接失败只影响本次，退避后重连。
func (f *PriceFeed) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		err := f.readLoop(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		_ = err // 连接级错误不向上冒泡，靠重连恢复
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (f *PriceFeed) readLoop(ctx context.Context) error {
	streamURL := fmt.Sprintf("%s/ws/%s@miniTicker", f.Endpoint, strings.ToLower(f.Symbol))
	conn, _, err := f.Dialer.DialContext(ctx, streamURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var ev miniTickerEvent
		if err := json.Unmarshal(message, &ev); err != nil {
			continue
		}
		price, err := strconv.ParseFloat(ev.Close, 64)
		if err != nil || price <= 0 {
			continue
		}
		f.mu.Lock()
		f.last = price
		f.lastAt = time.Now()
		f.mu.Unlock()
	}
}

// Last 返回最近一次行情价与其到达时间；从未收到行情时 ok=false。
func (f *PriceFeed) Last() (price float64, at time.Time, ok bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.lastAt.IsZero() {
		return 0, time.Time{}, false
	}
	return f.last, f.lastAt, true
}
