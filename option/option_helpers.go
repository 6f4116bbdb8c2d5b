package option

import (
	"time"

	"github.com/shopspring/decimal"
)

func StringPresent(s *string) bool {
	return s != nil && *s != ""
}

// GetString 返回字符串值及是否存在（非 nil 且非空）
func GetString(s *string) (string, bool) {
	if s == nil || *s == "" {
		return "", false
	}
	return *s, true
}

func GetDecimalFromString(s *string) (decimal.Decimal, bool) {
	if s == nil || *s == "" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(*s)
	if err != nil {
		return decimal.Zero, false
	}

	return d, true
}

// GetInt 返回 int 值及是否存在（非 nil）
func GetInt(i *int) (int, bool) {
	if i == nil {
		return 0, false
	}
	return *i, true
}

// GetTime 返回 time.Time 值及是否存在（非 nil 且非零值）
func GetTime(t *time.Time) (time.Time, bool) {
	if t == nil || t.IsZero() {
		return time.Time{}, false
	}
	return *t, true
}

// LimitOr 返回 Limit，未设置或不大于 0 时返回 def
func (o *ExchangeArgsOptions) LimitOr(def int) int {
	if limit, ok := GetInt(o.Limit); ok && limit > 0 {
		return limit
	}
	return def
}

// SinceMillis 返回毫秒时间戳，未设置时返回 false
func (o *ExchangeArgsOptions) SinceMillis() (int64, bool) {
	since, ok := GetTime(o.Since)
	if !ok {
		return 0, false
	}
	return since.UnixMilli(), true
}
