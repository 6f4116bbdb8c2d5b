package base

import (
	"github.com/shopspring/decimal"

	"github.com/lemconn/venuelink/model"
	"github.com/lemconn/venuelink/option"
	"github.com/lemconn/venuelink/types"
)

// ParseBookSide 解析一侧盘口
// 元素为数组时取 [price, amount]；为对象时按 priceKeys、amountKeys 取值
func ParseBookSide(side types.List, priceKeys, amountKeys []string) []model.OrderBookEntry {
	out := make([]model.OrderBookEntry, 0, len(side))
	for _, raw := range side {
		var price, amount types.ExDecimal
		if level, ok := types.AsList(raw); ok {
			price, amount = level.Decimal(0), level.Decimal(1)
		} else if level, ok := types.AsPayload(raw); ok {
			price, amount = level.Decimal(priceKeys...), level.Decimal(amountKeys...)
		}
		if !price.Valid || !amount.Valid {
			continue
		}
		out = append(out, model.OrderBookEntry{Price: price.Decimal, Amount: amount.Decimal})
	}
	return out
}

// NewOrderBook 组装盘口并排序、截断
func NewOrderBook(symbol string, bids, asks []model.OrderBookEntry, ts types.ExTimestamp, limit int) *model.OrderBook {
	book := &model.OrderBook{
		Symbol:    symbol,
		Bids:      bids,
		Asks:      asks,
		Timestamp: ts,
	}
	book.Sort()
	if limit > 0 {
		book.Limit(limit)
	}
	return book
}

// ParseOHLCVRow 解析 [time, open, high, low, close, volume] 形式的K线
// timeScale 为时间字段到毫秒的倍数（秒级为 1000）
func ParseOHLCVRow(row types.List, timeScale int64) *model.OHLCV {
	ts, ok := row.String(0)
	if !ok {
		return nil
	}
	t := types.ToDecimal(ts)
	if !t.Valid {
		return nil
	}
	return &model.OHLCV{
		Timestamp: types.ExTimestampFromMillis(t.Decimal.Mul(decimal.NewFromInt(timeScale)).IntPart()),
		Open:      row.Decimal(1),
		High:      row.Decimal(2),
		Low:       row.Decimal(3),
		Close:     row.Decimal(4),
		Volume:    row.Decimal(5),
	}
}

// FilterTrades 按 since、limit 本地过滤（保留最后 limit 条）
func FilterTrades(trades []*model.Trade, args *option.ExchangeArgsOptions) []*model.Trade {
	if args == nil {
		return trades
	}
	if since, ok := args.SinceMillis(); ok {
		kept := trades[:0:0]
		for _, t := range trades {
			if !t.Timestamp.Valid() || t.Timestamp.Millis() >= since {
				kept = append(kept, t)
			}
		}
		trades = kept
	}
	if limit := args.LimitOr(0); limit > 0 && len(trades) > limit {
		trades = trades[len(trades)-limit:]
	}
	return trades
}

// FilterOrders 按交易对、since、limit 本地过滤
func FilterOrders(orders []*model.Order, symbol string, args *option.ExchangeArgsOptions) []*model.Order {
	kept := make([]*model.Order, 0, len(orders))
	var since int64
	hasSince := false
	if args != nil {
		since, hasSince = args.SinceMillis()
	}
	for _, o := range orders {
		if symbol != "" && o.Symbol != symbol {
			continue
		}
		if hasSince && o.Timestamp.Valid() && o.Timestamp.Millis() < since {
			continue
		}
		kept = append(kept, o)
	}
	if args != nil {
		if limit := args.LimitOr(0); limit > 0 && len(kept) > limit {
			kept = kept[len(kept)-limit:]
		}
	}
	return kept
}

// PayloadInfo 原始信息，非对象时包一层
func PayloadInfo(v any) map[string]any {
	if p, ok := types.AsPayload(v); ok {
		return p
	}
	if v == nil {
		return nil
	}
	return map[string]any{"data": v}
}
