package lbank

import (
	"github.com/lemconn/venuelink/types"
)

// lbankAccuracy 交易对精度
type lbankAccuracy struct {
	Symbol           string          `json:"symbol"`
	QuantityAccuracy types.ExDecimal `json:"quantityAccuracy"`
	PriceAccuracy    types.ExDecimal `json:"priceAccuracy"`
}

// lbankTicker 行情响应，24h 涨跌幅 change 为百分比
type lbankTicker struct {
	Symbol    string            `json:"symbol"`
	Timestamp types.ExTimestamp `json:"timestamp"`
	Ticker    struct {
		Latest   types.ExDecimal `json:"latest"`
		Change   types.ExDecimal `json:"change"`
		High     types.ExDecimal `json:"high"`
		Low      types.ExDecimal `json:"low"`
		Vol      types.ExDecimal `json:"vol"`
		Turnover types.ExDecimal `json:"turnover"`
	} `json:"ticker"`
}

// lbankUserInfo 余额响应，三个表都以小写币种为键
type lbankUserInfo struct {
	Info struct {
		Free   map[string]types.ExDecimal `json:"free"`
		Freeze map[string]types.ExDecimal `json:"freeze"`
		Asset  map[string]types.ExDecimal `json:"asset"`
	} `json:"info"`
}
