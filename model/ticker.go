package model

import (
	"github.com/shopspring/decimal"

	"github.com/lemconn/venuelink/types"
)

var two = types.ExDecimalFromInt(2)

// Ticker 行情信息
type Ticker struct {
	// Symbol 交易对
	Symbol string `json:"symbol"`
	// Timestamp 时间戳
	Timestamp types.ExTimestamp `json:"timestamp"`
	// High 24小时最高价
	High types.ExDecimal `json:"high"`
	// Low 24小时最低价
	Low types.ExDecimal `json:"low"`
	// Bid 买一价
	Bid types.ExDecimal `json:"bid"`
	// Ask 卖一价
	Ask types.ExDecimal `json:"ask"`
	// Vwap 成交量加权均价
	Vwap types.ExDecimal `json:"vwap"`
	// Open 开盘价
	Open types.ExDecimal `json:"open"`
	// Close 收盘价
	Close types.ExDecimal `json:"close"`
	// Last 最新价
	Last types.ExDecimal `json:"last"`
	// Change 涨跌额
	Change types.ExDecimal `json:"change"`
	// Percentage 涨跌幅（百分比）
	Percentage types.ExDecimal `json:"percentage"`
	// Average 均价
	Average types.ExDecimal `json:"average"`
	// BaseVolume 24小时成交量
	BaseVolume types.ExDecimal `json:"baseVolume"`
	// QuoteVolume 24小时成交额
	QuoteVolume types.ExDecimal `json:"quoteVolume"`
	// Info 交易所原始信息
	Info map[string]any `json:"info,omitempty"`
}

// Derive 补齐可推导字段：last 与 open 都已知时计算 change 与 average
// 已有值不会被覆盖
func (t *Ticker) Derive() {
	if !t.Close.Valid {
		t.Close = t.Last
	}
	if !t.Last.Valid || !t.Open.Valid {
		return
	}
	if !t.Change.Valid {
		t.Change = t.Last.Minus(t.Open)
	}
	if !t.Average.Valid {
		t.Average = t.Last.Plus(t.Open).Over(two)
	}
	if !t.Percentage.Valid && t.Open.Positive() {
		t.Percentage = t.Change.Over(t.Open).Times(types.NewExDecimal(decimal.NewFromInt(100)))
	}
}

// Tickers 行情信息映射（交易对 -> 行情）
type Tickers map[string]*Ticker
