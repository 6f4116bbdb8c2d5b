package common

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lemconn/venuelink/types"
)

// RoundingMode 精度处理方式
type RoundingMode string

const (
	// RoundHalfUp 四舍五入（默认）
	RoundHalfUp RoundingMode = "round"
	// Truncate 截断
	Truncate RoundingMode = "truncate"
)

var hundred = decimal.NewFromInt(100)

// ToPrecision 按小数位数处理
func ToPrecision(d decimal.Decimal, places int, mode RoundingMode) decimal.Decimal {
	if mode == Truncate {
		return d.Truncate(int32(places))
	}
	return d.Round(int32(places))
}

// FormatToPrecision 处理精度后输出固定小数位字符串
func FormatToPrecision(d decimal.Decimal, places int, mode RoundingMode) string {
	return ToPrecision(d, places, mode).StringFixed(int32(places))
}

// PrecisionFromStep 由步长推导小数位数：0.001 -> 3，1 -> 0
func PrecisionFromStep(step decimal.Decimal) int {
	if step.Sign() <= 0 {
		return 0
	}
	s := step.String()
	idx := strings.IndexByte(s, '.')
	if idx < 0 {
		return 0
	}
	return len(strings.TrimRight(s[idx+1:], "0"))
}

// StepFromPrecision 精度对应的最小步长 10^-places
func StepFromPrecision(places int) decimal.Decimal {
	return decimal.New(1, int32(-places))
}

// ParsePercent 解析百分比字符串，去掉 % 与正号："+5.0%" -> 5.0
func ParsePercent(s string) types.ExDecimal {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	return types.ExDecimalFromString(strings.TrimPrefix(strings.TrimSpace(s), "+"))
}

// OpenFromPercent open = last / (1 + pct/100)
func OpenFromPercent(last, pct types.ExDecimal) types.ExDecimal {
	if !last.Valid || !pct.Valid {
		return types.NoneDecimal
	}
	factor := decimal.NewFromInt(1).Add(pct.Decimal.Div(hundred))
	return last.Over(types.NewExDecimal(factor))
}

// PriceToPrecision 价格按市场精度处理
func PriceToPrecision(price decimal.Decimal, places int, mode RoundingMode) decimal.Decimal {
	return ToPrecision(price, places, mode)
}

// AmountToPrecision 数量按市场精度处理
func AmountToPrecision(amount decimal.Decimal, places int, mode RoundingMode) decimal.Decimal {
	return ToPrecision(amount, places, mode)
}

// CostToPrecision 金额按价格精度四舍五入
func CostToPrecision(cost decimal.Decimal, places int) decimal.Decimal {
	return ToPrecision(cost, places, RoundHalfUp)
}

// TruncateToPrecision 截断到指定小数位
func TruncateToPrecision(d decimal.Decimal, places int) decimal.Decimal {
	return ToPrecision(d, places, Truncate)
}
