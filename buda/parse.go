package buda

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lemconn/venuelink/common"
	"github.com/lemconn/venuelink/model"
	"github.com/lemconn/venuelink/types"
)

var (
	one     = types.NewExDecimal(decimal.NewFromInt(1))
	hundred = types.NewExDecimal(decimal.NewFromInt(100))
)

var orderStatuses = common.StatusMap[model.OrderStatus]{
	"received":  model.OrderStatusOpen,
	"pending":   model.OrderStatusOpen,
	"traded":    model.OrderStatusClosed,
	"canceling": model.OrderStatusCanceled,
	"canceled":  model.OrderStatusCanceled,
}

var transactionStatuses = common.StatusMap[model.TransactionStatus]{
	"rejected":             model.TransactionFailed,
	"confirmed":            model.TransactionOK,
	"anulled":              model.TransactionCanceled,
	"retained":             model.TransactionCanceled,
	"pending_confirmation": model.TransactionPending,
}

// amount 取 ["数量", "币种"] 中的数量
func amount(item types.Payload, key string) types.ExDecimal {
	return item.List(key).Decimal(0)
}

// amountCurrency 取 ["数量", "币种"] 中的币种
func amountCurrency(item types.Payload, key string) string {
	s, _ := item.List(key).String(1)
	return s
}

// parseTicker open = last / (1 + variation)，按价格精度取整；percentage = variation × 100
func (b *Buda) parseTicker(t *budaTicker, raw types.Payload, market *model.Market) *model.Ticker {
	last := t.LastPrice.Value()
	ticker := &model.Ticker{
		Symbol:     market.Symbol,
		Timestamp:  types.NewExTimestamp(time.Now()),
		Bid:        t.MaxBid.Value(),
		Ask:        t.MinAsk.Value(),
		Last:       last,
		BaseVolume: t.Volume.Value(),
		Percentage: t.PriceVariation24h.Times(hundred),
		Info:       raw,
	}
	if open := last.Over(one.Plus(t.PriceVariation24h)); open.Valid {
		ticker.Open = types.NewExDecimal(common.PriceToPrecision(open.Decimal, market.Precision.Price, b.RoundingMode()))
	}
	ticker.Derive()
	return ticker
}

// parseTrade 公共成交为 [时间, 价格, 数量, 方向, ID]
func (b *Buda) parseTrade(row types.List, market *model.Market) *model.Trade {
	ts, _ := row.String(0)
	timestamp, _ := types.ParseExTimestamp(ts)
	side, _ := row.String(3)
	id, _ := row.String(4)
	trade := &model.Trade{
		ID:        id,
		Timestamp: timestamp,
		Symbol:    market.Symbol,
		Side:      model.OrderSide(strings.ToLower(side)),
		Price:     row.Decimal(1),
		Amount:    row.Decimal(2),
		Info:      map[string]any{"entry": []any(row)},
	}
	trade.Derive(market.Precision.Price)
	return trade
}

// parseOrder type 为 Bid/Ask；有成交时平均价 = total_exchanged / traded_amount
func (b *Buda) parseOrder(item types.Payload, market *model.Market) *model.Order {
	if market == nil {
		if m, ok := b.Markets.ResolveID(item.SafeString("market_id")); ok {
			market = m
		}
	}
	side := model.OrderSideSell
	if strings.EqualFold(item.SafeString("type"), "bid") {
		side = model.OrderSideBuy
	}
	order := &model.Order{
		ID:        item.SafeString("id"),
		Timestamp: item.Timestamp("created_at"),
		Type:      model.OrderType(item.SafeString("price_type")),
		Side:      side,
		Price:     amount(item, "limit"),
		Amount:    amount(item, "original_amount"),
		Remaining: amount(item, "amount"),
		Filled:    amount(item, "traded_amount"),
		Cost:      amount(item, "total_exchanged"),
		Status:    orderStatuses.Lookup(item.SafeString("state")),
		Info:      item,
	}
	if market != nil {
		order.Symbol = market.Symbol
		if order.Cost.Positive() && order.Filled.Positive() {
			avg := order.Cost.Over(order.Filled)
			order.Average = types.NewExDecimal(common.PriceToPrecision(avg.Decimal, market.Precision.Price, b.RoundingMode()))
		}
	}
	if !order.Price.Valid {
		order.Price = order.Average
	}
	if fee := amount(item, "paid_fee"); fee.Valid {
		order.Fee = &model.Fee{Currency: b.CommonCurrencyCode(amountCurrency(item, "paid_fee")), Cost: fee}
	}
	order.Derive()
	return order
}

// parseTransaction 有 deposit_data 的是充值，否则是提现
func (b *Buda) parseTransaction(item types.Payload) *model.Transaction {
	kind := model.TransactionWithdrawal
	if item.Has("deposit_data") {
		kind = model.TransactionDeposit
	}
	data := item.Map(string(kind) + "_data")
	code := b.CommonCurrencyCode(item.SafeString("currency"))
	tx := &model.Transaction{
		ID:        item.SafeString("id"),
		TxID:      data.SafeString("tx_hash"),
		Type:      kind,
		Currency:  code,
		Amount:    amount(item, "amount"),
		Address:   data.SafeString("target_address"),
		Status:    transactionStatuses.Lookup(item.SafeString("state")),
		Timestamp: item.Timestamp("created_at"),
		Updated:   data.Timestamp("updated_at"),
		Info:      item,
	}
	if fee := amount(item, "fee"); fee.Valid {
		feeCurrency := amountCurrency(item, "fee")
		if feeCurrency == "" {
			feeCurrency = code
		} else {
			feeCurrency = b.CommonCurrencyCode(feeCurrency)
		}
		tx.Fee = &model.Fee{Currency: feeCurrency, Cost: fee}
	}
	return tx
}

// parseFee 充提手续费：固定部分 base 与比例 percent
func (b *Buda) parseFee(f budaFee) *model.Fee {
	return &model.Fee{
		Currency: b.CommonCurrencyCode(f.Base.Currency()),
		Cost:     f.Base.Value(),
		Rate:     f.Percent,
	}
}
