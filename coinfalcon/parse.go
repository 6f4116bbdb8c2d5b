package coinfalcon

import (
	"strings"
	"time"

	"github.com/lemconn/venuelink/common"
	"github.com/lemconn/venuelink/model"
	"github.com/lemconn/venuelink/types"
)

const iso8601 = "2006-01-02T15:04:05.000Z"

var orderStatuses = common.StatusMap[model.OrderStatus]{
	"fulfilled":        model.OrderStatusClosed,
	"canceled":         model.OrderStatusCanceled,
	"pending":          model.OrderStatusOpen,
	"open":             model.OrderStatusOpen,
	"partially_filled": model.OrderStatusOpen,
}

func formatTime(t time.Time) string {
	return t.UTC().Format(iso8601)
}

// parseTicker change_in_24h 是 "+5.0%" 形式的涨跌幅，open 由涨跌幅反推
func (c *CoinFalcon) parseTicker(item types.Payload, market *model.Market) *model.Ticker {
	if market == nil {
		if m, ok := c.Markets.ResolveID(item.SafeString("name")); ok {
			market = m
		}
	}
	last := item.Decimal("last_price")
	pct := common.ParsePercent(item.SafeString("change_in_24h"))
	ticker := &model.Ticker{
		Timestamp:   types.NewExTimestamp(time.Now()),
		Last:        last,
		Open:        common.OpenFromPercent(last, pct),
		Percentage:  pct,
		QuoteVolume: item.Decimal("volume"),
		Info:        item,
	}
	if market != nil {
		ticker.Symbol = market.Symbol
	}
	ticker.Derive()
	return ticker
}

// parseTrade 公共成交与我的成交结构相同，我的成交多 order_id 和 fee
func (c *CoinFalcon) parseTrade(item types.Payload, market *model.Market) *model.Trade {
	trade := &model.Trade{
		ID:        item.SafeString("id"),
		Order:     item.SafeString("order_id"),
		Timestamp: item.Timestamp("created_at"),
		Symbol:    market.Symbol,
		Side:      model.OrderSide(item.SafeString("side")),
		Price:     item.Decimal("price"),
		Amount:    item.Decimal("size"),
		Info:      item,
	}
	if fee := item.Decimal("fee"); fee.Valid {
		trade.Fee = &model.Fee{Cost: fee}
	}
	trade.Derive(market.Precision.Price)
	return trade
}

// parseOrder operation_type 形如 limit_order，取下划线前的部分作为类型
func (c *CoinFalcon) parseOrder(item types.Payload, market *model.Market) *model.Order {
	if market == nil {
		if m, ok := c.Markets.ResolveID(item.SafeString("market")); ok {
			market = m
		}
	}
	orderType, _, _ := strings.Cut(item.SafeString("operation_type"), "_")
	order := &model.Order{
		ID:        item.SafeString("id"),
		Timestamp: item.Timestamp("created_at"),
		Type:      model.OrderType(orderType),
		Side:      model.OrderSide(item.SafeString("order_type")),
		Price:     item.Decimal("price"),
		Amount:    item.Decimal("size"),
		Filled:    item.Decimal("size_filled"),
		Status:    orderStatuses.Lookup(item.SafeString("status")),
		Info:      item,
	}
	if market != nil {
		order.Symbol = market.Symbol
		mode := c.RoundingMode()
		if rest := order.Amount.Minus(order.Filled); rest.Valid {
			order.Remaining = types.NewExDecimal(common.AmountToPrecision(rest.Decimal, market.Precision.Amount, mode))
		}
		if cost := order.Filled.Times(order.Price); cost.Valid && order.Amount.Valid {
			order.Cost = types.NewExDecimal(common.PriceToPrecision(cost.Decimal, market.Precision.Price, mode))
		}
	}
	order.Derive()
	return order
}
