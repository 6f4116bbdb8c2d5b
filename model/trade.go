package model

import "github.com/lemconn/venuelink/types"

// Trade 成交记录
type Trade struct {
	// ID 成交ID
	ID string `json:"id"`
	// Order 订单ID（可能为空）
	Order string `json:"order,omitempty"`
	// Timestamp 时间戳
	Timestamp types.ExTimestamp `json:"timestamp"`
	// Symbol 交易对
	Symbol string `json:"symbol"`
	// Type 订单类型
	Type OrderType `json:"type,omitempty"`
	// Side 方向
	Side OrderSide `json:"side"`
	// TakerOrMaker taker 或 maker
	TakerOrMaker string `json:"takerOrMaker,omitempty"`
	// Price 价格
	Price types.ExDecimal `json:"price"`
	// Amount 数量
	Amount types.ExDecimal `json:"amount"`
	// Cost 成交金额
	Cost types.ExDecimal `json:"cost"`
	// Fee 手续费
	Fee *Fee `json:"fee,omitempty"`
	// Info 交易所原始信息
	Info map[string]any `json:"info,omitempty"`
}

// Derive price 与 amount 都已知时计算 cost，pricePrecision 小于 0 时不取整
func (t *Trade) Derive(pricePrecision int) {
	if t.Cost.Valid {
		return
	}
	t.Cost = t.Price.Times(t.Amount)
	if t.Cost.Valid && pricePrecision >= 0 {
		t.Cost = t.Cost.Round(int32(pricePrecision))
	}
}
