package model

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/lemconn/venuelink/types"
)

// OrderBookEntry 订单簿条目
type OrderBookEntry struct {
	// Price 价格
	Price decimal.Decimal `json:"price"`
	// Amount 数量
	Amount decimal.Decimal `json:"amount"`
}

// OrderBook 订单簿
type OrderBook struct {
	// Symbol 交易对
	Symbol string `json:"symbol"`
	// Bids 买单列表（价格从高到低）
	Bids []OrderBookEntry `json:"bids"`
	// Asks 卖单列表（价格从低到高）
	Asks []OrderBookEntry `json:"asks"`
	// Timestamp 时间戳
	Timestamp types.ExTimestamp `json:"timestamp"`
	// Nonce 交易所序列号
	Nonce *int64 `json:"nonce,omitempty"`
}

// Sort 买单按价格降序、卖单按价格升序，稳定排序
func (b *OrderBook) Sort() {
	sort.SliceStable(b.Bids, func(i, j int) bool {
		return b.Bids[i].Price.GreaterThan(b.Bids[j].Price)
	})
	sort.SliceStable(b.Asks, func(i, j int) bool {
		return b.Asks[i].Price.LessThan(b.Asks[j].Price)
	})
}

// Limit 截断买卖盘深度，n <= 0 不截断
func (b *OrderBook) Limit(n int) {
	if n <= 0 {
		return
	}
	if len(b.Bids) > n {
		b.Bids = b.Bids[:n]
	}
	if len(b.Asks) > n {
		b.Asks = b.Asks[:n]
	}
}
