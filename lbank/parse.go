package lbank

import (
	"strings"

	"github.com/lemconn/venuelink/base"
	"github.com/lemconn/venuelink/common"
	"github.com/lemconn/venuelink/errs"
	"github.com/lemconn/venuelink/model"
	"github.com/lemconn/venuelink/types"
)

var orderStatuses = common.StatusMap[model.OrderStatus]{
	"-1": model.OrderStatusCanceled,
	"0":  model.OrderStatusOpen,
	"1":  model.OrderStatusOpen,
	"2":  model.OrderStatusClosed,
	"4":  model.OrderStatusClosed,
}

var (
	one     = types.ExDecimalFromInt(1)
	hundred = types.ExDecimalFromInt(100)
)

// parseTicker 解析行情
// change 是百分比，open = last / (1 + (1 + change/100))，1 + change/100 不大于 0 时 open 未知
func (l *LBank) parseTicker(raw any) (*model.Ticker, error) {
	var data lbankTicker
	if err := types.Convert(raw, &data); err != nil {
		return nil, errs.New(lbankID, errs.ExchangeError, errs.WithMessage("malformed ticker"), errs.WithCause(err))
	}
	last := data.Ticker.Latest
	pct := data.Ticker.Change

	open := types.NoneDecimal
	if rel := one.Plus(pct.Over(hundred)); rel.Positive() {
		open = last.Over(one.Plus(rel))
	}

	ticker := &model.Ticker{
		Symbol:      l.SafeSymbol(data.Symbol),
		Timestamp:   data.Timestamp,
		High:        data.Ticker.High,
		Low:         data.Ticker.Low,
		Open:        open,
		Last:        last,
		Percentage:  pct,
		BaseVolume:  data.Ticker.Vol,
		QuoteVolume: data.Ticker.Turnover,
		Info:        base.PayloadInfo(raw),
	}
	ticker.Derive()
	return ticker, nil
}

// parseOrder 解析订单，avg_price 已知时 cost = deal_amount × avg_price
func (l *LBank) parseOrder(item types.Payload, market *model.Market) *model.Order {
	symbol := market.Symbol
	if m, ok := l.Markets.ResolveID(item.SafeString("symbol")); ok {
		symbol = m.Symbol
	}

	amount := item.Decimal("amount").Or(types.ExDecimalFromInt(0))
	filled := item.Decimal("deal_amount").Or(types.ExDecimalFromInt(0))
	average := item.Decimal("avg_price")

	side := item.SafeString("type")
	orderType := model.OrderType(item.SafeString("order_type"))
	if s, ok := strings.CutSuffix(side, "_market"); ok {
		side = s
		orderType = model.OrderTypeMarket
	}

	order := &model.Order{
		ID:        item.SafeString("order_id"),
		Timestamp: item.Millis("create_time"),
		Symbol:    symbol,
		Type:      orderType,
		Side:      model.OrderSide(side),
		Price:     item.Decimal("price"),
		Amount:    amount,
		Filled:    filled,
		Average:   average,
		Status:    orderStatuses.Lookup(item.SafeString("status")),
		Info:      item,
	}
	if average.Valid {
		order.Cost = filled.Times(average)
	}
	order.Derive()
	return order
}
