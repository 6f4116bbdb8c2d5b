package model

import (
	"sort"

	"github.com/lemconn/venuelink/types"
)

// Timeframe 统一K线周期，由各交易所的周期表映射为交易所格式
type Timeframe string

const (
	Timeframe1m  Timeframe = "1m"
	Timeframe5m  Timeframe = "5m"
	Timeframe15m Timeframe = "15m"
	Timeframe30m Timeframe = "30m"
	Timeframe1h  Timeframe = "1h"
	Timeframe2h  Timeframe = "2h"
	Timeframe4h  Timeframe = "4h"
	Timeframe6h  Timeframe = "6h"
	Timeframe8h  Timeframe = "8h"
	Timeframe12h Timeframe = "12h"
	Timeframe1d  Timeframe = "1d"
	Timeframe1w  Timeframe = "1w"
	Timeframe1M  Timeframe = "1M"
)

// OHLCV K线数据
type OHLCV struct {
	Timestamp types.ExTimestamp `json:"timestamp"`
	Open      types.ExDecimal   `json:"open"`
	High      types.ExDecimal   `json:"high"`
	Low       types.ExDecimal   `json:"low"`
	Close     types.ExDecimal   `json:"close"`
	Volume    types.ExDecimal   `json:"volume"`
}

// OHLCVs K线数据数组
type OHLCVs []*OHLCV

// SortByTime 按时间升序排列
func (o OHLCVs) SortByTime() {
	sort.SliceStable(o, func(i, j int) bool {
		return o[i].Timestamp.Before(o[j].Timestamp.Time)
	})
}
