package model

import "github.com/lemconn/venuelink/types"

// OrderSide 订单方向
type OrderSide string

const (
	// OrderSideBuy 买入
	OrderSideBuy OrderSide = "buy"
	// OrderSideSell 卖出
	OrderSideSell OrderSide = "sell"
)

// OrderType 订单类型
type OrderType string

const (
	// OrderTypeMarket 市价单
	OrderTypeMarket OrderType = "market"
	// OrderTypeLimit 限价单
	OrderTypeLimit OrderType = "limit"
)

// OrderStatus 订单状态，未识别的交易所状态原样保留
type OrderStatus string

const (
	// OrderStatusOpen 未完成
	OrderStatusOpen OrderStatus = "open"
	// OrderStatusClosed 已完成
	OrderStatusClosed OrderStatus = "closed"
	// OrderStatusCanceled 已取消
	OrderStatusCanceled OrderStatus = "canceled"
)

// Fee 手续费信息
type Fee struct {
	// Currency 手续费币种
	Currency string `json:"currency"`
	// Cost 手续费金额
	Cost types.ExDecimal `json:"cost"`
	// Rate 手续费率
	Rate types.ExDecimal `json:"rate"`
}

// Order 订单信息
type Order struct {
	// ID 订单ID
	ID string `json:"id"`
	// ClientOrderID 客户端订单ID
	ClientOrderID string `json:"clientOrderId,omitempty"`
	// Timestamp 下单时间
	Timestamp types.ExTimestamp `json:"timestamp"`
	// LastTradeTimestamp 最后成交时间
	LastTradeTimestamp types.ExTimestamp `json:"lastTradeTimestamp"`
	// Symbol 交易对
	Symbol string `json:"symbol"`
	// Type 订单类型
	Type OrderType `json:"type"`
	// Side 订单方向
	Side OrderSide `json:"side"`
	// Price 订单价格
	Price types.ExDecimal `json:"price"`
	// Amount 订单数量
	Amount types.ExDecimal `json:"amount"`
	// Filled 已成交数量
	Filled types.ExDecimal `json:"filled"`
	// Remaining 未成交数量
	Remaining types.ExDecimal `json:"remaining"`
	// Cost 成交金额
	Cost types.ExDecimal `json:"cost"`
	// Average 平均成交价格
	Average types.ExDecimal `json:"average"`
	// Status 订单状态
	Status OrderStatus `json:"status"`
	// Fee 手续费
	Fee *Fee `json:"fee,omitempty"`
	// Trades 成交明细
	Trades []*Trade `json:"trades,omitempty"`
	// Info 交易所原始信息
	Info map[string]any `json:"info,omitempty"`
}

// Derive 补齐可推导字段，输入未知时保持未知
func (o *Order) Derive() {
	if !o.Remaining.Valid {
		o.Remaining = o.Amount.Minus(o.Filled)
	}
	if !o.Filled.Valid {
		o.Filled = o.Amount.Minus(o.Remaining)
	}
	if !o.Amount.Valid {
		o.Amount = o.Filled.Plus(o.Remaining)
	}
	if !o.Cost.Valid {
		if o.Average.Valid {
			o.Cost = o.Filled.Times(o.Average)
		} else if o.Type != OrderTypeMarket {
			o.Cost = o.Filled.Times(o.Price)
		}
	}
	if !o.Average.Valid && o.Filled.Positive() {
		o.Average = o.Cost.Over(o.Filled)
	}
}
