package coinfloor

import (
	"slices"
	"strings"
	"time"

	"github.com/lemconn/venuelink/common"
	"github.com/lemconn/venuelink/model"
	"github.com/lemconn/venuelink/types"
)

var ledgerTypes = common.StatusMap[model.LedgerType]{
	"0": model.LedgerTransaction, // 充值
	"1": model.LedgerTransaction, // 提现
	"2": model.LedgerTrade,
}

// parseTicker 没有开盘价，quoteVolume = volume × vwap
func (c *Coinfloor) parseTicker(item types.Payload, market *model.Market) *model.Ticker {
	vwap := item.Decimal("vwap")
	volume := item.Decimal("volume")
	ticker := &model.Ticker{
		Symbol:      market.Symbol,
		Timestamp:   types.NewExTimestamp(time.Now()),
		High:        item.Decimal("high"),
		Low:         item.Decimal("low"),
		Bid:         item.Decimal("bid"),
		Ask:         item.Decimal("ask"),
		Vwap:        vwap,
		Last:        item.Decimal("last"),
		BaseVolume:  volume,
		QuoteVolume: volume.Times(vwap),
		Info:        item,
	}
	ticker.Derive()
	return ticker
}

// parseTrade date 为秒级时间戳，成交不带方向
func (c *Coinfloor) parseTrade(item types.Payload, market *model.Market) *model.Trade {
	trade := &model.Trade{
		ID:        item.SafeString("tid"),
		Timestamp: item.Seconds("date"),
		Symbol:    market.Symbol,
		Price:     item.Decimal("price"),
		Amount:    item.Decimal("amount"),
		Info:      item,
	}
	trade.Derive(-1)
	return trade
}

// parseOrder type 为 0 是买单，1 是卖单；只有限价单
func (c *Coinfloor) parseOrder(item types.Payload, market *model.Market, status model.OrderStatus) *model.Order {
	order := &model.Order{
		ID:        item.SafeString("id"),
		Timestamp: item.Timestamp("datetime"),
		Type:      model.OrderTypeLimit,
		Price:     item.Decimal("price"),
		Amount:    item.Decimal("amount"),
		Status:    status,
		Info:      item,
	}
	if order.Status == "" {
		order.Status = model.OrderStatus(item.SafeString("status"))
	}
	switch item.SafeString("type") {
	case "0":
		order.Side = model.OrderSideBuy
	case "1":
		order.Side = model.OrderSideSell
	}
	if market != nil {
		order.Symbol = market.Symbol
	}
	order.Cost = order.Price.Times(order.Amount)
	return order
}

// parseLedgerEntry 成交展开为基础币、计价币两条流水，手续费记在计价币一侧
// 充值、提现只有一条，币种取非零的一侧
func (c *Coinfloor) parseLedgerEntry(item types.Payload) []*model.LedgerEntry {
	baseID, quoteID, baseAmount, quoteAmount := ledgerPair(item)
	baseCode := c.CommonCurrencyCode(baseID)
	quoteCode := c.CommonCurrencyCode(quoteID)
	kind := ledgerTypes.Lookup(item.SafeString("type"))
	feeCost := item.Decimal("fee")

	entry := func(code string, amount types.ExDecimal) *model.LedgerEntry {
		direction := model.LedgerOut
		if amount.Positive() {
			direction = model.LedgerIn
		}
		return &model.LedgerEntry{
			Timestamp:   item.Timestamp("datetime"),
			Direction:   direction,
			ReferenceID: item.SafeString("id"),
			Type:        kind,
			Currency:    code,
			Amount:      amount.Abs(),
			Status:      "ok",
			Info:        item,
		}
	}

	if kind == model.LedgerTrade {
		quote := entry(quoteCode, quoteAmount)
		if feeCost.Valid {
			quote.Fee = &model.Fee{Currency: quoteCode, Cost: feeCost}
		}
		return []*model.LedgerEntry{entry(baseCode, baseAmount), quote}
	}

	code, amount := baseCode, baseAmount
	if baseAmount.Valid && baseAmount.Decimal.IsZero() {
		code, amount = quoteCode, quoteAmount
	}
	e := entry(code, amount)
	if feeCost.Valid {
		e.Fee = &model.Fee{Currency: code, Cost: feeCost}
	}
	return []*model.LedgerEntry{e}
}

// ledgerPair 从 xbt_eur 这类键找出币对，两侧币种键都有数值时才采用
func ledgerPair(item types.Payload) (baseID, quoteID string, baseAmount, quoteAmount types.ExDecimal) {
	keys := make([]string, 0, len(item))
	for k := range item {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, key := range keys {
		parts := strings.Split(key, "_")
		if len(parts) != 2 || parts[0] == "" {
			continue
		}
		b, q := item.Decimal(parts[0]), item.Decimal(parts[1])
		if b.Valid && q.Valid {
			baseID, quoteID, baseAmount, quoteAmount = parts[0], parts[1], b, q
		}
	}
	return baseID, quoteID, baseAmount, quoteAmount
}
