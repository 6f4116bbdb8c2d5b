package common

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// DefaultRateLimit 交易所未声明时的最小请求间隔
const DefaultRateLimit = 1000 * time.Millisecond

// Throttle 单个适配器实例的请求节流，保证相邻请求间隔不小于 gap
// 超出频率的请求会被延迟而不是丢弃
type Throttle struct {
	limiter *rate.Limiter
	gap     time.Duration
}

// NewThrottle gap 为 0 时使用 DefaultRateLimit，小于 0 时不限速
func NewThrottle(gap time.Duration) *Throttle {
	if gap == 0 {
		gap = DefaultRateLimit
	}
	if gap < 0 {
		return &Throttle{limiter: rate.NewLimiter(rate.Inf, 1), gap: 0}
	}
	return &Throttle{limiter: rate.NewLimiter(rate.Every(gap), 1), gap: gap}
}

// Wait 阻塞到允许发送下一次请求，ctx 取消时立即返回
func (t *Throttle) Wait(ctx context.Context) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}

// Gap 当前最小间隔
func (t *Throttle) Gap() time.Duration {
	return t.gap
}
