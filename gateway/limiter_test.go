package gateway

import (
	"testing"
	"time"
)

func TestTokenBucketAllowsBurst(t *testing.T) {
	l := NewTokenBucketLimiter(100, 5)
	start := time.Now()
	for i := 0; i < 5; i++ {
		l.Wait()
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Fatalf("burst should not block, took %v", elapsed)
	}
}

func TestTokenBucketThrottles(t *testing.T) {
	l := NewTokenBucketLimiter(10, 1)
	l.Wait() // 耗尽桶
	start := time.Now()
	l.Wait()
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Fatalf("expected ~100ms throttle, got %v", elapsed)
	}
}

func TestTokenBucketDefaults(t *testing.T) {
	l := NewTokenBucketLimiter(0, 0)
	if l.rate != 1 || l.burst != 1 {
		t.Fatalf("invalid parameters should fall back to minimums")
	}
}
