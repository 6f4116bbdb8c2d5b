package types

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// Payload 交易所返回的 JSON 对象
// 数字以 json.Number 保存，避免精度丢失
type Payload map[string]any

// List 交易所返回的 JSON 数组
type List []any

// Decode 解析响应体，数字保留为 json.Number
func Decode(body []byte) (any, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// AsPayload 尝试转换为 Payload
func AsPayload(v any) (Payload, bool) {
	switch m := v.(type) {
	case Payload:
		return m, true
	case map[string]any:
		return Payload(m), true
	}
	return nil, false
}

// AsList 尝试转换为 List
func AsList(v any) (List, bool) {
	switch l := v.(type) {
	case List:
		return l, true
	case []any:
		return List(l), true
	}
	return nil, false
}

// present 空值（nil、空字符串）视为缺失
func present(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok && s == "" {
		return false
	}
	return true
}

// FirstPresent 按顺序返回第一个存在的字段值
func (p Payload) FirstPresent(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := p[k]; ok && present(v) {
			return v, true
		}
	}
	return nil, false
}

// String 按候选字段取字符串
func (p Payload) String(keys ...string) (string, bool) {
	v, ok := p.FirstPresent(keys...)
	if !ok {
		return "", false
	}
	return ToString(v)
}

// SafeString 按候选字段取字符串，缺失时返回空串
func (p Payload) SafeString(keys ...string) string {
	s, _ := p.String(keys...)
	return s
}

// Decimal 按候选字段取数值，缺失或无法解析时返回未知值
func (p Payload) Decimal(keys ...string) ExDecimal {
	v, ok := p.FirstPresent(keys...)
	if !ok {
		return NoneDecimal
	}
	return ToDecimal(v)
}

// Int 按候选字段取整数
func (p Payload) Int(keys ...string) (int64, bool) {
	d := p.Decimal(keys...)
	if !d.Valid {
		return 0, false
	}
	return d.Decimal.IntPart(), true
}

// Bool 按候选字段取布尔值，数字非 0 为 true
func (p Payload) Bool(keys ...string) (bool, bool) {
	v, ok := p.FirstPresent(keys...)
	if !ok {
		return false, false
	}
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		if parsed, err := strconv.ParseBool(b); err == nil {
			return parsed, true
		}
	}
	d := ToDecimal(v)
	if !d.Valid {
		return false, false
	}
	return !d.Decimal.IsZero(), true
}

// Timestamp 按候选字段取时间，数字单位按数量级自动识别
func (p Payload) Timestamp(keys ...string) ExTimestamp {
	v, ok := p.FirstPresent(keys...)
	if !ok {
		return ExTimestamp{}
	}
	s, ok := ToString(v)
	if !ok {
		return ExTimestamp{}
	}
	ts, err := ParseExTimestamp(s)
	if err != nil {
		return ExTimestamp{}
	}
	return ts
}

// Seconds 按候选字段取秒级时间戳（允许小数）
func (p Payload) Seconds(keys ...string) ExTimestamp {
	d := p.Decimal(keys...)
	if !d.Valid {
		return ExTimestamp{}
	}
	f, _ := d.Decimal.Float64()
	return ExTimestampFromSeconds(f)
}

// Millis 按候选字段取毫秒时间戳
func (p Payload) Millis(keys ...string) ExTimestamp {
	ms, ok := p.Int(keys...)
	if !ok {
		return ExTimestamp{}
	}
	return ExTimestampFromMillis(ms)
}

// Map 取子对象
func (p Payload) Map(key string) Payload {
	m, _ := AsPayload(p[key])
	return m
}

// List 取子数组
func (p Payload) List(key string) List {
	l, _ := AsList(p[key])
	return l
}

// Has 字段是否存在且非空
func (p Payload) Has(key string) bool {
	v, ok := p[key]
	return ok && present(v)
}

// Maps 取出数组中所有对象元素
func (l List) Maps() []Payload {
	out := make([]Payload, 0, len(l))
	for _, v := range l {
		if m, ok := AsPayload(v); ok {
			out = append(out, m)
		}
	}
	return out
}

// Decimal 取数组下标处的数值
func (l List) Decimal(i int) ExDecimal {
	if i < 0 || i >= len(l) || !present(l[i]) {
		return NoneDecimal
	}
	return ToDecimal(l[i])
}

// String 取数组下标处的字符串
func (l List) String(i int) (string, bool) {
	if i < 0 || i >= len(l) || !present(l[i]) {
		return "", false
	}
	return ToString(l[i])
}

// ToString 标量转换为字符串
func ToString(v any) (string, bool) {
	switch s := v.(type) {
	case nil:
		return "", false
	case string:
		return s, true
	case bool:
		return strconv.FormatBool(s), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case map[string]any, []any, Payload, List:
		return "", false
	default:
		return fmt.Sprint(s), true
	}
}

// ToDecimal 标量转换为数值，字符串会去掉首尾空白和 + 号
func ToDecimal(v any) ExDecimal {
	switch n := v.(type) {
	case decimal.Decimal:
		return NewExDecimal(n)
	case ExDecimal:
		return n
	case float64:
		return ExDecimalFromFloat(n)
	case int:
		return ExDecimalFromInt(int64(n))
	case int64:
		return ExDecimalFromInt(n)
	}
	s, ok := ToString(v)
	if !ok {
		return NoneDecimal
	}
	return ExDecimalFromString(strings.TrimPrefix(strings.TrimSpace(s), "+"))
}

// Convert 把已解析的响应转换为强类型结构
func Convert(v any, out any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return dec.Decode(out)
}
