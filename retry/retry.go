// Package retry 为网络类错误提供指数退避重试
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/lemconn/venuelink/errs"
	"github.com/lemconn/venuelink/logger"
)

// Policy 重试策略
type Policy struct {
	MaxTries        uint          // 含首次调用，0 表示不限次数
	MaxElapsed      time.Duration // 0 表示不限时长
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	Logger          *logger.Entry
}

// DefaultPolicy 默认最多 3 次，间隔从 500ms 起
func DefaultPolicy() Policy {
	return Policy{
		MaxTries:        3,
		MaxElapsed:      30 * time.Second,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2,
	}
}

func (p Policy) backOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	if p.Multiplier > 0 {
		b.Multiplier = p.Multiplier
	}
	return b
}

// Do 执行 op，仅在限流、交易所不可用或网络错误时重试，其余错误直接返回
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	attempt := 0
	operation := func() (T, error) {
		attempt++
		v, err := op(ctx)
		if err != nil && !errs.IsRetryable(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}

	opts := []backoff.RetryOption{backoff.WithBackOff(p.backOff())}
	if p.MaxTries > 0 {
		opts = append(opts, backoff.WithMaxTries(p.MaxTries))
	}
	if p.MaxElapsed > 0 {
		opts = append(opts, backoff.WithMaxElapsedTime(p.MaxElapsed))
	}
	if p.Logger != nil {
		opts = append(opts, backoff.WithNotify(func(err error, wait time.Duration) {
			p.Logger.WithError(err).WithFields(logger.Fields{
				"attempt": attempt,
				"wait":    wait.String(),
			}).Warn("retrying after retryable error")
		}))
	}
	return backoff.Retry(ctx, operation, opts...)
}

// Run 用于无返回值的调用
func Run(ctx context.Context, p Policy, op func(ctx context.Context) error) error {
	_, err := Do(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}
