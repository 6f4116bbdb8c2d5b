package common

import "strings"

// timeframeAliases 常见写法到统一周期的映射
var timeframeAliases = map[string]string{
	"60m":   "1h",
	"1440m": "1d",
	"24h":   "1d",
	"7d":    "1w",
	"30d":   "1M",
}

// NormalizeTimeframe 标准化时间框架，月线保留大写 M
func NormalizeTimeframe(timeframe string) string {
	if timeframe == "1M" {
		return timeframe
	}
	tf := strings.ToLower(timeframe)
	if alias, ok := timeframeAliases[tf]; ok {
		return alias
	}
	return tf
}

// VenueTimeframe 通过交易所周期表转换
func VenueTimeframe(table map[string]string, timeframe string) (string, bool) {
	v, ok := table[NormalizeTimeframe(timeframe)]
	return v, ok
}
