package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// ExTimestamp 支持多种格式的时间戳类型，零值表示未知
// 支持秒、毫秒、微秒、纳秒以及 RFC3339 字符串
type ExTimestamp struct {
	time.Time
}

// NewExTimestamp 由 time.Time 创建
func NewExTimestamp(t time.Time) ExTimestamp {
	return ExTimestamp{Time: t}
}

// ExTimestampFromMillis 由毫秒创建
func ExTimestampFromMillis(ms int64) ExTimestamp {
	return ExTimestamp{Time: time.UnixMilli(ms).UTC()}
}

// ExTimestampFromSeconds 由秒（可含小数）创建
func ExTimestampFromSeconds(sec float64) ExTimestamp {
	whole := int64(sec)
	nanos := int64((sec - float64(whole)) * 1e9)
	return ExTimestamp{Time: time.Unix(whole, nanos).UTC()}
}

// ParseExTimestamp 解析时间戳字符串
// 数字按数量级判断单位：< 1e11 秒，< 1e14 毫秒，< 1e17 微秒，其余纳秒
func ParseExTimestamp(s string) (ExTimestamp, error) {
	s = strings.TrimSpace(strings.Trim(s, `"`))
	if s == "" || s == "null" {
		return ExTimestamp{}, nil
	}

	if ts, err := strconv.ParseInt(s, 10, 64); err == nil {
		return fromEpoch(ts), nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f < 1e11 {
			return ExTimestampFromSeconds(f), nil
		}
		return fromEpoch(int64(f)), nil
	}

	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if tt, err := time.Parse(layout, s); err == nil {
			return ExTimestamp{Time: tt.UTC()}, nil
		}
	}
	return ExTimestamp{}, fmt.Errorf("invalid timestamp %s", s)
}

func fromEpoch(ts int64) ExTimestamp {
	abs := ts
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs < 1e11:
		return ExTimestamp{Time: time.Unix(ts, 0).UTC()}
	case abs < 1e14:
		return ExTimestamp{Time: time.UnixMilli(ts).UTC()}
	case abs < 1e17:
		return ExTimestamp{Time: time.UnixMicro(ts).UTC()}
	default:
		return ExTimestamp{Time: time.Unix(0, ts).UTC()}
	}
}

// Valid 是否为已知时间
func (t ExTimestamp) Valid() bool {
	return !t.Time.IsZero()
}

// Millis 毫秒时间戳，未知时返回 0
func (t ExTimestamp) Millis() int64 {
	if !t.Valid() {
		return 0
	}
	return t.Time.UnixMilli()
}

// UnmarshalJSON 自定义 JSON 反序列化，支持多种时间戳格式
func (t *ExTimestamp) UnmarshalJSON(b []byte) error {
	parsed, err := ParseExTimestamp(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON 序列化为毫秒时间戳，未知时为 null
func (t ExTimestamp) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.UnixMilli())
}
