package common

import (
	"fmt"
	"strings"
)

// NormalizeSymbol 标准化交易对格式为 BASE/QUOTE (如 BTC/USDT)
func NormalizeSymbol(base, quote string) string {
	return strings.ToUpper(base) + "/" + strings.ToUpper(quote)
}

// ParseSymbol 解析标准化交易对 (BTC/USDT -> base, quote)
func ParseSymbol(symbol string) (base, quote string, err error) {
	parts := strings.Split(symbol, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid symbol format: %s, expected BASE/QUOTE", symbol)
	}
	return strings.ToUpper(parts[0]), strings.ToUpper(parts[1]), nil
}

// SplitMarketID 按最后一个分隔符拆分交易所市场ID
// vet_erc20_usdt -> vet_erc20, usdt
func SplitMarketID(id, sep string) (baseID, quoteID string, ok bool) {
	idx := strings.LastIndex(id, sep)
	if sep == "" || idx <= 0 || idx+len(sep) >= len(id) {
		return "", "", false
	}
	return id[:idx], id[idx+len(sep):], true
}

// CommonCurrencyCode 交易所币种代码转为统一代码（大写并应用别名表）
func CommonCurrencyCode(id string, aliases map[string]string) string {
	code := strings.ToUpper(id)
	if alias, ok := aliases[code]; ok {
		return alias
	}
	return code
}

// CurrencyID 统一代码反查交易所代码，找不到时返回原值
func CurrencyID(code string, aliases map[string]string) string {
	for venue, common := range aliases {
		if common == code {
			return venue
		}
	}
	return code
}
