package bibox

import (
	"strings"

	"github.com/lemconn/venuelink/base"
	"github.com/lemconn/venuelink/common"
	"github.com/lemconn/venuelink/model"
	"github.com/lemconn/venuelink/types"
)

var orderStatuses = common.StatusMap[model.OrderStatus]{
	"1": model.OrderStatusOpen,     // pending
	"2": model.OrderStatusOpen,     // part completed
	"3": model.OrderStatusClosed,   // completed
	"4": model.OrderStatusCanceled, // part canceled
	"5": model.OrderStatusCanceled, // canceled
	"6": model.OrderStatusCanceled, // canceling
}

var transactionStatuses = map[model.TransactionType]common.StatusMap[model.TransactionStatus]{
	model.TransactionDeposit: {
		"1": model.TransactionPending,
		"2": model.TransactionOK,
	},
	model.TransactionWithdrawal: {
		"0": model.TransactionPending,
		"3": model.TransactionOK,
	},
}

// marketID 由基础币与计价币拼出市场ID
func marketID(baseID, quoteID string) string {
	if baseID == "" || quoteID == "" {
		return ""
	}
	return baseID + "_" + quoteID
}

// resolve 优先使用调用方传入的市场，否则按响应中的币种查找
func (b *Bibox) resolve(item types.Payload, market *model.Market) *model.Market {
	if market != nil {
		return market
	}
	id := item.SafeString("pair")
	if id == "" {
		id = marketID(item.SafeString("coin_symbol"), item.SafeString("currency_symbol"))
	}
	if m, ok := b.Markets.ResolveID(id); ok {
		return m
	}
	return nil
}

// parseTicker open = last - change，percent 形如 "+3.02%"
func (b *Bibox) parseTicker(t *biboxTicker, raw any, market *model.Market) *model.Ticker {
	var symbol string
	if market != nil {
		symbol = market.Symbol
	} else {
		symbol = common.NormalizeSymbol(b.CommonCurrencyCode(t.CoinSymbol), b.CommonCurrencyCode(t.CurrencySymbol))
	}
	ticker := &model.Ticker{
		Symbol:      symbol,
		Timestamp:   t.Timestamp,
		High:        t.High,
		Low:         t.Low,
		Bid:         t.Buy,
		Ask:         t.Sell,
		Open:        t.Last.Minus(t.Change),
		Last:        t.Last,
		Change:      t.Change,
		Percentage:  common.ParsePercent(t.Percent),
		BaseVolume:  t.Vol.Or(t.Vol24H),
		QuoteVolume: t.Amount,
		Info:        base.PayloadInfo(raw),
	}
	ticker.Derive()
	return ticker
}

// parseTrade 公共成交与我的成交共用，side 1 为买
func (b *Bibox) parseTrade(item types.Payload, market *model.Market) *model.Trade {
	market = b.resolve(item, market)
	trade := &model.Trade{
		ID:        item.SafeString("id"),
		Timestamp: item.Millis("time", "createdAt"),
		Type:      model.OrderTypeLimit,
		Side:      side(item, "side", "order_side"),
		Price:     item.Decimal("price"),
		Amount:    item.Decimal("amount"),
		Info:      item,
	}
	if market != nil {
		trade.Symbol = market.Symbol
	}
	if fee := item.Decimal("fee"); fee.Valid {
		currency := item.SafeString("fee_symbol")
		if c, ok := b.Currencies.ByID(currency); ok {
			currency = c.Code
		} else if currency != "" {
			currency = b.CommonCurrencyCode(currency)
		}
		trade.Fee = &model.Fee{Currency: currency, Cost: fee}
	}
	trade.Derive(-1)
	return trade
}

// parseOrder order_type 1 为市价，cost 缺失时用 price × deal_amount
func (b *Bibox) parseOrder(item types.Payload, market *model.Market) *model.Order {
	market = b.resolve(item, market)
	orderType := model.OrderTypeLimit
	if t, _ := item.Int("order_type"); t == 1 {
		orderType = model.OrderTypeMarket
	}
	order := &model.Order{
		ID:        item.SafeString("id"),
		Timestamp: item.Millis("createdAt"),
		Type:      orderType,
		Side:      side(item, "order_side"),
		Price:     item.Decimal("price"),
		Amount:    item.Decimal("amount"),
		Filled:    item.Decimal("deal_amount"),
		Average:   item.Decimal("deal_price"),
		Cost:      item.Decimal("deal_money", "money"),
		Status:    orderStatuses.Lookup(item.SafeString("status")),
		Info:      item,
	}
	if market != nil {
		order.Symbol = market.Symbol
	}
	if !order.Cost.Valid {
		order.Cost = order.Price.Times(order.Filled)
	}
	if fee := item.Decimal("fee"); fee.Valid {
		order.Fee = &model.Fee{Cost: fee}
	}
	order.Derive()
	return order
}

// parseTransaction 充值没有手续费和地址备注
func (b *Bibox) parseTransaction(item types.Payload, kind model.TransactionType) *model.Transaction {
	code := b.CommonCurrencyCode(item.SafeString("coin_symbol"))
	if c, ok := b.Currencies.ByID(item.SafeString("coin_symbol")); ok {
		code = c.Code
	}
	tx := &model.Transaction{
		ID:        item.SafeString("id"),
		Type:      kind,
		Currency:  code,
		Amount:    item.Decimal("amount"),
		Address:   item.SafeString("to_address"),
		Tag:       item.SafeString("addr_remark"),
		Status:    transactionStatuses[kind].Lookup(item.SafeString("status")),
		Timestamp: item.Millis("createdAt"),
		Info:      item,
	}
	feeCost := item.Decimal("fee")
	if kind == model.TransactionDeposit {
		feeCost = types.ExDecimalFromInt(0)
		tx.Tag = ""
	}
	tx.Fee = &model.Fee{Currency: code, Cost: feeCost}
	return tx
}

func side(item types.Payload, keys ...string) model.OrderSide {
	if s, _ := item.Int(keys...); s == 1 {
		return model.OrderSideBuy
	}
	return model.OrderSideSell
}

// balanceCode 余额键可能是 total_btc 形式
func (b *Bibox) balanceCode(id string) string {
	code := strings.ToUpper(id)
	code = strings.TrimPrefix(code, "TOTAL_")
	if c, ok := b.Currencies.ByID(code); ok {
		return c.Code
	}
	return b.CommonCurrencyCode(code)
}
