package base

import (
	"context"

	"github.com/sourcegraph/conc/pool"
)

// MaxFanOut 逐个请求时的最大并发数
const MaxFanOut = 4

// FanOut 对每个 key 并发调用 fn，最多 MaxFanOut 个同时进行
// 任一调用失败会取消其余调用并返回第一个错误；结果顺序与 keys 无关
// 每次调用仍然经过 Dispatch 的节流，请求间隔不会被并发打破
func FanOut[T any](ctx context.Context, keys []string, fn func(ctx context.Context, key string) (T, error)) (map[string]T, error) {
	type keyed struct {
		key   string
		value T
	}
	p := pool.NewWithResults[keyed]().
		WithContext(ctx).
		WithMaxGoroutines(MaxFanOut).
		WithCancelOnError().
		WithFirstError()
	for _, key := range keys {
		p.Go(func(ctx context.Context) (keyed, error) {
			v, err := fn(ctx, key)
			return keyed{key: key, value: v}, err
		})
	}
	results, err := p.Wait()
	if err != nil {
		return nil, err
	}
	out := make(map[string]T, len(results))
	for _, r := range results {
		out[r.key] = r.value
	}
	return out, nil
}
