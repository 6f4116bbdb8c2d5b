package bibox

import (
	"context"
	"fmt"

	"github.com/lemconn/venuelink/base"
	"github.com/lemconn/venuelink/common"
	"github.com/lemconn/venuelink/errs"
	"github.com/lemconn/venuelink/model"
	"github.com/lemconn/venuelink/option"
	"github.com/lemconn/venuelink/types"
)

const (
	amountPrecision = 4
	pricePrecision  = 8
	defaultPageSize = 200
	defaultKlines   = 1000
)

// ========== 市场数据 ==========

// FetchMarkets 获取市场列表，精度固定为数量 4 位、价格 8 位
func (b *Bibox) FetchMarkets(ctx context.Context) ([]*model.Market, error) {
	call, err := b.publicCall(opFetchMarkets, nil)
	if err != nil {
		return nil, err
	}
	raw, err := b.Dispatch(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch markets: %w", err)
	}
	list, ok := types.AsList(raw)
	if !ok {
		return nil, errs.New(biboxID, errs.ExchangeError, errs.WithMessage("fetch markets: expected array"), errs.WithInfo(raw))
	}

	markets := make([]*model.Market, 0, len(list))
	for _, item := range list {
		var t biboxTicker
		if err := types.Convert(item, &t); err != nil {
			return nil, fmt.Errorf("fetch markets: %w", err)
		}
		if t.CoinSymbol == "" || t.CurrencySymbol == "" {
			continue
		}
		baseCode := b.CommonCurrencyCode(t.CoinSymbol)
		quoteCode := b.CommonCurrencyCode(t.CurrencySymbol)
		market := &model.Market{
			ID:      marketID(t.CoinSymbol, t.CurrencySymbol),
			Symbol:  common.NormalizeSymbol(baseCode, quoteCode),
			Base:    baseCode,
			Quote:   quoteCode,
			BaseID:  t.CoinSymbol,
			QuoteID: t.CurrencySymbol,
			Active:  true,
			Precision: model.Precision{
				Amount: amountPrecision,
				Price:  pricePrecision,
			},
			Info: base.PayloadInfo(item),
		}
		if t.ID.Valid {
			id := t.ID.Decimal.IntPart()
			market.NumericID = &id
		}
		market.Limits.Amount.Min = types.NewExDecimal(common.StepFromPrecision(amountPrecision))
		market.Limits.Price.Min = types.NewExDecimal(common.StepFromPrecision(pricePrecision))
		markets = append(markets, market)
	}
	return markets, nil
}

// FetchTicker 获取行情（单个）
func (b *Bibox) FetchTicker(ctx context.Context, symbol string) (*model.Ticker, error) {
	market, err := b.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	call, err := b.publicCall(opFetchTicker, map[string]any{"pair": market.ID})
	if err != nil {
		return nil, err
	}
	raw, err := b.Dispatch(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch ticker: %w", err)
	}
	var t biboxTicker
	if err := types.Convert(raw, &t); err != nil {
		return nil, fmt.Errorf("fetch ticker: %w", err)
	}
	return b.parseTicker(&t, raw, market), nil
}

// FetchTickers 通过 marketAll 批量获取行情
func (b *Bibox) FetchTickers(ctx context.Context, symbols ...string) (model.Tickers, error) {
	call, err := b.publicCall(opFetchTickers, nil)
	if err != nil {
		return nil, err
	}
	raw, err := b.Dispatch(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch tickers: %w", err)
	}
	list, _ := types.AsList(raw)

	wanted := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		wanted[s] = true
	}
	tickers := make(model.Tickers, len(list))
	for _, item := range list {
		var t biboxTicker
		if err := types.Convert(item, &t); err != nil {
			return nil, fmt.Errorf("fetch tickers: %w", err)
		}
		ticker := b.parseTicker(&t, item, nil)
		if len(wanted) > 0 && !wanted[ticker.Symbol] {
			continue
		}
		tickers[ticker.Symbol] = ticker
	}
	return tickers, nil
}

// FetchOrderBook 获取订单簿，档位为 {price, volume} 对象
func (b *Bibox) FetchOrderBook(ctx context.Context, symbol string, opts ...option.ArgsOption) (*model.OrderBook, error) {
	args := option.ApplyArgs(opts...)
	market, err := b.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	params := map[string]any{"pair": market.ID}
	if limit, ok := option.GetInt(args.Limit); ok && limit > 0 {
		params["size"] = limit
	}
	call, err := b.publicCall(opFetchOrderBook, params)
	if err != nil {
		return nil, err
	}
	base.ApplyParams(call.Query, args.Params)

	raw, err := b.Dispatch(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch order book: %w", err)
	}
	result, _ := types.AsPayload(raw)
	bids := base.ParseBookSide(result.List("bids"), []string{"price"}, []string{"volume"})
	asks := base.ParseBookSide(result.List("asks"), []string{"price"}, []string{"volume"})
	return base.NewOrderBook(market.Symbol, bids, asks, result.Timestamp("update_time"), 0), nil
}

// FetchTrades 获取公共成交记录
func (b *Bibox) FetchTrades(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Trade, error) {
	args := option.ApplyArgs(opts...)
	market, err := b.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	params := map[string]any{"pair": market.ID}
	if limit, ok := option.GetInt(args.Limit); ok && limit > 0 {
		params["size"] = limit
	}
	call, err := b.publicCall(opFetchTrades, params)
	if err != nil {
		return nil, err
	}
	base.ApplyParams(call.Query, args.Params)

	raw, err := b.Dispatch(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch trades: %w", err)
	}
	list, _ := types.AsList(raw)
	trades := make([]*model.Trade, 0, len(list))
	for _, item := range list.Maps() {
		trades = append(trades, b.parseTrade(item, market))
	}
	return base.FilterTrades(trades, args), nil
}

// FetchOHLCV 获取K线数据，默认 1000 根
func (b *Bibox) FetchOHLCV(ctx context.Context, symbol, timeframe string, opts ...option.ArgsOption) (model.OHLCVs, error) {
	args := option.ApplyArgs(opts...)
	period, ok := common.VenueTimeframe(b.Descriptor().Timeframes, timeframe)
	if !ok {
		return nil, errs.New(biboxID, errs.NotSupported, errs.WithMessage("unsupported timeframe "+timeframe))
	}
	market, err := b.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	call, err := b.publicCall(opFetchOHLCV, map[string]any{
		"pair":   market.ID,
		"period": period,
		"size":   args.LimitOr(defaultKlines),
	})
	if err != nil {
		return nil, err
	}
	base.ApplyParams(call.Query, args.Params)

	raw, err := b.Dispatch(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch ohlcv: %w", err)
	}
	list, _ := types.AsList(raw)
	out := make(model.OHLCVs, 0, len(list))
	since, hasSince := args.SinceMillis()
	for _, item := range list.Maps() {
		candle := &model.OHLCV{
			Timestamp: item.Millis("time"),
			Open:      item.Decimal("open"),
			High:      item.Decimal("high"),
			Low:       item.Decimal("low"),
			Close:     item.Decimal("close"),
			Volume:    item.Decimal("vol"),
		}
		if hasSince && candle.Timestamp.Millis() < since {
			continue
		}
		out = append(out, candle)
	}
	out.SortByTime()
	return out, nil
}

// ========== 账户与订单 ==========

// FetchBalance 获取余额，Params 中的 type 可选 assets（默认）或 mainAssets
func (b *Bibox) FetchBalance(ctx context.Context, opts ...option.ArgsOption) (*model.BalanceSheet, error) {
	args := option.ApplyArgs(opts...)
	params := make(map[string]any, len(args.Params))
	cmd := commands[opFetchBalance]
	for k, v := range args.Params {
		if k == "type" {
			if s, ok := types.ToString(v); ok && s != "" {
				cmd = "transfer/" + s
			}
			continue
		}
		params[k] = v
	}
	call, err := b.command(opFetchBalance, cmd, map[string]any{"select": 1}, params)
	if err != nil {
		return nil, err
	}

	raw, err := b.Dispatch(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch balance: %w", err)
	}
	result, _ := types.AsPayload(raw)
	sheet := model.NewBalanceSheet(raw)

	if result.Has("assets_list") {
		for _, item := range result.List("assets_list").Maps() {
			sheet.Set(b.balanceCode(item.SafeString("coin_symbol")), &model.Balance{
				Free: item.Decimal("balance"),
				Used: item.Decimal("freeze"),
			})
		}
		return sheet, nil
	}
	// mainAssets 返回 币种 -> {balance, freeze} 或 币种 -> 总额
	for id, v := range result {
		if item, isMap := types.AsPayload(v); isMap {
			sheet.Set(b.balanceCode(id), &model.Balance{
				Free: item.Decimal("balance"),
				Used: item.Decimal("freeze"),
			})
			continue
		}
		amount := types.ToDecimal(v)
		if !amount.Valid {
			continue
		}
		sheet.Set(b.balanceCode(id), &model.Balance{
			Free:  amount,
			Used:  types.ExDecimalFromInt(0),
			Total: amount,
		})
	}
	return sheet, nil
}

// CreateOrder 创建限价单，不支持市价单
func (b *Bibox) CreateOrder(ctx context.Context, symbol string, side model.OrderSide, orderType model.OrderType, amount string, opts ...option.ArgsOption) (*model.Order, error) {
	args := option.ApplyArgs(opts...)
	if orderType == model.OrderTypeMarket {
		return nil, errs.New(biboxID, errs.InvalidOrder, errs.WithMessage("market orders are not supported"))
	}
	market, err := b.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	req, err := b.PrepareOrder(market, side, orderType, amount, args)
	if err != nil {
		return nil, err
	}

	orderSide := 2
	if side == model.OrderSideBuy {
		orderSide = 1
	}
	call, err := b.privateCall(opCreateOrder, map[string]any{
		"pair":         market.ID,
		"account_type": 0,
		"order_type":   2,
		"order_side":   orderSide,
		"pay_bix":      0,
		"amount":       req.AmountString(),
		"price":        req.PriceString(),
	}, req.Params)
	if err != nil {
		return nil, err
	}

	raw, err := b.Dispatch(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	id, _ := types.ToString(raw)
	order := &model.Order{
		ID:     id,
		Symbol: market.Symbol,
		Type:   orderType,
		Side:   side,
		Price:  types.NewExDecimal(req.Price),
		Amount: types.NewExDecimal(req.Amount),
		Filled: types.ExDecimalFromInt(0),
		Status: model.OrderStatusOpen,
		Info:   base.PayloadInfo(raw),
	}
	order.Derive()
	b.Orders.Put(order)
	return order, nil
}

// CancelOrder 取消订单
func (b *Bibox) CancelOrder(ctx context.Context, id, symbol string, opts ...option.ArgsOption) (*model.Order, error) {
	args := option.ApplyArgs(opts...)
	call, err := b.privateCall(opCancelOrder, map[string]any{"orders_id": id}, args.Params)
	if err != nil {
		return nil, err
	}
	raw, err := b.Dispatch(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}
	order, ok := b.Orders.Get(id)
	if !ok {
		order = &model.Order{ID: id, Symbol: symbol}
	}
	order.Status = model.OrderStatusCanceled
	order.Info = base.PayloadInfo(raw)
	b.Orders.Put(order)
	return order, nil
}

// FetchOrder 查询订单
func (b *Bibox) FetchOrder(ctx context.Context, id, symbol string, opts ...option.ArgsOption) (*model.Order, error) {
	args := option.ApplyArgs(opts...)
	if err := b.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	call, err := b.privateCall(opFetchOrder, map[string]any{
		"id":           id,
		"account_type": 0,
	}, args.Params)
	if err != nil {
		return nil, err
	}
	raw, err := b.Dispatch(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch order: %w", err)
	}
	item, ok := types.AsPayload(raw)
	if !ok || len(item) == 0 {
		return nil, errs.New(biboxID, errs.OrderNotFound, errs.WithMessage("order "+id+" not found"))
	}
	order := b.parseOrder(item, nil)
	b.Orders.Put(order)
	return order, nil
}

// FetchOpenOrders 查询未完成订单，symbol 可为空
func (b *Bibox) FetchOpenOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	args := option.ApplyArgs(opts...)
	if err := b.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	var market *model.Market
	body := map[string]any{
		"account_type": 0,
		"page":         1,
		"size":         args.LimitOr(defaultPageSize),
	}
	if symbol != "" {
		m, err := b.GetMarket(symbol)
		if err != nil {
			return nil, err
		}
		market = m
		body["pair"] = m.ID
	}
	return b.fetchOrderList(ctx, opFetchOpenOrders, body, market, args)
}

// FetchClosedOrders 查询历史订单，必须指定交易对
func (b *Bibox) FetchClosedOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	args := option.ApplyArgs(opts...)
	market, err := b.requireMarket(ctx, "fetchClosedOrders", symbol)
	if err != nil {
		return nil, err
	}
	return b.fetchOrderList(ctx, opFetchClosedOrders, map[string]any{
		"pair":         market.ID,
		"account_type": 0,
		"page":         1,
		"size":         args.LimitOr(defaultPageSize),
	}, market, args)
}

// FetchMyTrades 查询我的成交，必须指定交易对
func (b *Bibox) FetchMyTrades(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Trade, error) {
	args := option.ApplyArgs(opts...)
	market, err := b.requireMarket(ctx, "fetchMyTrades", symbol)
	if err != nil {
		return nil, err
	}
	call, err := b.privateCall(opFetchMyTrades, map[string]any{
		"pair":            market.ID,
		"account_type":    0,
		"page":            1,
		"size":            args.LimitOr(defaultPageSize),
		"coin_symbol":     market.BaseID,
		"currency_symbol": market.QuoteID,
	}, args.Params)
	if err != nil {
		return nil, err
	}
	raw, err := b.Dispatch(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch my trades: %w", err)
	}
	result, _ := types.AsPayload(raw)
	items := result.List("items").Maps()
	trades := make([]*model.Trade, 0, len(items))
	for _, item := range items {
		trades = append(trades, b.parseTrade(item, market))
	}
	return base.FilterTrades(trades, args), nil
}

// ========== 内部方法 ==========

func (b *Bibox) fetchOrderList(ctx context.Context, op string, body map[string]any, market *model.Market, args *option.ExchangeArgsOptions) ([]*model.Order, error) {
	call, err := b.privateCall(op, body, args.Params)
	if err != nil {
		return nil, err
	}
	raw, err := b.Dispatch(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result, _ := types.AsPayload(raw)
	items := result.List("items").Maps()
	orders := make([]*model.Order, 0, len(items))
	for _, item := range items {
		orders = append(orders, b.parseOrder(item, market))
	}
	return base.FilterOrders(orders, "", args), nil
}

func (b *Bibox) requireMarket(ctx context.Context, op, symbol string) (*model.Market, error) {
	if symbol == "" {
		return nil, errs.New(biboxID, errs.ArgumentsRequired, errs.WithMessage(op+" requires a symbol argument"))
	}
	return b.Market(ctx, symbol)
}
