package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ExDecimal 可缺省的 decimal.Decimal 类型
// Valid 为 false 表示交易所未返回该字段（未知），与真实的 0 区分开
type ExDecimal struct {
	decimal.Decimal
	Valid bool
}

// NoneDecimal 未知值
var NoneDecimal = ExDecimal{}

// NewExDecimal 由 decimal 创建有效值
func NewExDecimal(d decimal.Decimal) ExDecimal {
	return ExDecimal{Decimal: d, Valid: true}
}

// ExDecimalFromString 解析字符串，空串或非法数字返回未知值
func ExDecimalFromString(s string) ExDecimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return NoneDecimal
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return NoneDecimal
	}
	return NewExDecimal(d)
}

// ExDecimalFromFloat 由 float64 创建
func ExDecimalFromFloat(f float64) ExDecimal {
	return NewExDecimal(decimal.NewFromFloat(f))
}

// ExDecimalFromInt 由 int64 创建
func ExDecimalFromInt(i int64) ExDecimal {
	return NewExDecimal(decimal.NewFromInt(i))
}

// Plus 加法，任一操作数未知则结果未知
func (d ExDecimal) Plus(o ExDecimal) ExDecimal {
	if !d.Valid || !o.Valid {
		return NoneDecimal
	}
	return NewExDecimal(d.Decimal.Add(o.Decimal))
}

// Minus 减法
func (d ExDecimal) Minus(o ExDecimal) ExDecimal {
	if !d.Valid || !o.Valid {
		return NoneDecimal
	}
	return NewExDecimal(d.Decimal.Sub(o.Decimal))
}

// Times 乘法
func (d ExDecimal) Times(o ExDecimal) ExDecimal {
	if !d.Valid || !o.Valid {
		return NoneDecimal
	}
	return NewExDecimal(d.Decimal.Mul(o.Decimal))
}

// Over 除法，除数为 0 时结果未知
func (d ExDecimal) Over(o ExDecimal) ExDecimal {
	if !d.Valid || !o.Valid || o.Decimal.IsZero() {
		return NoneDecimal
	}
	return NewExDecimal(d.Decimal.Div(o.Decimal))
}

// Abs 绝对值
func (d ExDecimal) Abs() ExDecimal {
	if !d.Valid {
		return NoneDecimal
	}
	return NewExDecimal(d.Decimal.Abs())
}

// Round 四舍五入到 places 位小数
func (d ExDecimal) Round(places int32) ExDecimal {
	if !d.Valid {
		return NoneDecimal
	}
	return NewExDecimal(d.Decimal.Round(places))
}

// Or 未知时返回 fallback
func (d ExDecimal) Or(fallback ExDecimal) ExDecimal {
	if d.Valid {
		return d
	}
	return fallback
}

// Positive 是否为有效的正数
func (d ExDecimal) Positive() bool {
	return d.Valid && d.Decimal.IsPositive()
}

// String 未知值返回空字符串
func (d ExDecimal) String() string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

// MarshalJSON 未知值序列化为 null
func (d ExDecimal) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return d.Decimal.MarshalJSON()
}

// UnmarshalJSON 自定义 JSON 反序列化，空字符串或 null 视为未知
func (d *ExDecimal) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(strings.Trim(string(data), `"`))
	if s == "" || s == "null" {
		*d = NoneDecimal
		return nil
	}
	if err := d.Decimal.UnmarshalJSON(data); err != nil {
		return err
	}
	d.Valid = true
	return nil
}
