package gateway

import (
	"sync"
	"time"
)

// RateLimiter 控制请求速率，避免触发交易所限流。
// 现货 REST 的权重限制按分钟计，这里用令牌桶做保守的客户端侧约束。
type RateLimiter interface {
	Wait()
}

// NopLimiter 不做任何限流，供测试注入。
type NopLimiter struct{}

func (NopLimiter) Wait() {}

// TokenBucketLimiter 令牌桶限流器：rate 为每秒补充的令牌数，burst 为桶容量。
type TokenBucketLimiter struct {
	mu     sync.Mutex
	rate   float64
	burst  float64
	tokens float64
	last   time.Time
}

func NewTokenBucketLimiter(rate float64, burst int) *TokenBucketLimiter {
	if rate <= 0 {
		rate = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &TokenBucketLimiter{
		rate:   rate,
		burst:  float64(burst),
		tokens: float64(burst),
		last:   time.Now(),
	}
}

// Wait 取走一个令牌，不足时阻塞到补满为止。
func (l *TokenBucketLimiter) Wait() {
	l.mu.Lock()
	l.refill()
	if l.tokens >= 1 {
		l.tokens--
		l.mu.Unlock()
		return
	}
	deficit := 1 - l.tokens
	l.tokens = 0
	l.mu.Unlock()

	time.Sleep(time.Duration(deficit/l.rate*float64(time.Second)) + time.Millisecond)
}

func (l *TokenBucketLimiter) refill() {
	now := time.Now()
	l.tokens += now.Sub(l.last).Seconds() * l.rate
	if l.tokens > l.burst {
		l.tokens = l.burst
	}
	l.last = now
}
