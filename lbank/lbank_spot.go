package lbank

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lemconn/venuelink/base"
	"github.com/lemconn/venuelink/common"
	"github.com/lemconn/venuelink/errs"
	"github.com/lemconn/venuelink/model"
	"github.com/lemconn/venuelink/option"
	"github.com/lemconn/venuelink/types"
)

const (
	maxDepthSize     = 60
	defaultTradeSize = 100
	defaultKlineSize = 1000
	defaultPageSize  = 100
)

// ========== 市场数据 ==========

// FetchMarkets 获取市场列表
func (l *LBank) FetchMarkets(ctx context.Context) ([]*model.Market, error) {
	call, err := l.Prepare(opFetchMarkets, nil)
	if err != nil {
		return nil, err
	}
	var data []lbankAccuracy
	if err := l.DispatchInto(ctx, call, &data); err != nil {
		return nil, fmt.Errorf("fetch markets: %w", err)
	}

	markets := make([]*model.Market, 0, len(data))
	for _, item := range data {
		// vet_erc20_usdt 这类ID按最后一个分隔符拆分
		baseID, quoteID, ok := common.SplitMarketID(item.Symbol, "_")
		if !ok {
			continue
		}
		baseCode := l.CommonCurrencyCode(baseID)
		quoteCode := l.CommonCurrencyCode(quoteID)
		amountPrec := int(item.QuantityAccuracy.Decimal.IntPart())
		pricePrec := int(item.PriceAccuracy.Decimal.IntPart())

		market := &model.Market{
			ID:      item.Symbol,
			Symbol:  common.NormalizeSymbol(baseCode, quoteCode),
			Base:    baseCode,
			Quote:   quoteCode,
			BaseID:  baseID,
			QuoteID: quoteID,
			Active:  true,
			Precision: model.Precision{
				Amount: amountPrec,
				Price:  pricePrec,
			},
			Info: map[string]any{
				"symbol":           item.Symbol,
				"quantityAccuracy": item.QuantityAccuracy.String(),
				"priceAccuracy":    item.PriceAccuracy.String(),
			},
		}
		market.Limits.Amount.Min = types.NewExDecimal(common.StepFromPrecision(amountPrec))
		market.Limits.Price.Min = types.NewExDecimal(common.StepFromPrecision(pricePrec))
		market.Limits.Price.Max = types.NewExDecimal(decimal.New(1, int32(pricePrec)))
		markets = append(markets, market)
	}
	return markets, nil
}

// FetchTicker 获取行情（单个）
func (l *LBank) FetchTicker(ctx context.Context, symbol string) (*model.Ticker, error) {
	market, err := l.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	call, err := l.Prepare(opFetchTicker, nil)
	if err != nil {
		return nil, err
	}
	call.Query.Set("symbol", market.ID)

	resp, err := l.Dispatch(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch ticker: %w", err)
	}
	// 单个交易对有时也以数组返回
	if list, ok := types.AsList(resp); ok {
		if len(list) == 0 {
			return nil, errs.New(lbankID, errs.ExchangeError, errs.WithMessage("fetch ticker: empty response"))
		}
		resp = list[0]
	}
	ticker, err := l.parseTicker(resp)
	if err != nil {
		return nil, fmt.Errorf("fetch ticker: %w", err)
	}
	ticker.Symbol = market.Symbol
	return ticker, nil
}

// FetchTickers 批量获取行情，symbols 为空时返回全部
func (l *LBank) FetchTickers(ctx context.Context, symbols ...string) (model.Tickers, error) {
	if err := l.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	call, err := l.Prepare(opFetchTicker, nil)
	if err != nil {
		return nil, err
	}
	call.Query.Set("symbol", "all")

	list, err := l.DispatchList(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch tickers: %w", err)
	}

	wanted := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		wanted[s] = true
	}
	tickers := make(model.Tickers, len(list))
	for _, raw := range list {
		ticker, err := l.parseTicker(raw)
		if err != nil {
			return nil, fmt.Errorf("fetch tickers: %w", err)
		}
		if len(wanted) > 0 && !wanted[ticker.Symbol] {
			continue
		}
		tickers[ticker.Symbol] = ticker
	}
	return tickers, nil
}

// FetchOrderBook 获取订单簿，深度最多 60 档
func (l *LBank) FetchOrderBook(ctx context.Context, symbol string, opts ...option.ArgsOption) (*model.OrderBook, error) {
	args := option.ApplyArgs(opts...)
	market, err := l.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	call, err := l.Prepare(opFetchOrderBook, nil)
	if err != nil {
		return nil, err
	}
	call.Query.Set("symbol", market.ID)
	call.Query.Set("size", strconv.Itoa(min(args.LimitOr(maxDepthSize), maxDepthSize)))
	base.ApplyParams(call.Query, args.Params)

	resp, err := l.DispatchPayload(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch order book: %w", err)
	}
	bids := base.ParseBookSide(resp.List("bids"), nil, nil)
	asks := base.ParseBookSide(resp.List("asks"), nil, nil)
	return base.NewOrderBook(market.Symbol, bids, asks, resp.Timestamp("timestamp"), 0), nil
}

// FetchTrades 获取公共成交记录
func (l *LBank) FetchTrades(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Trade, error) {
	args := option.ApplyArgs(opts...)
	market, err := l.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	call, err := l.Prepare(opFetchTrades, nil)
	if err != nil {
		return nil, err
	}
	call.Query.Set("symbol", market.ID)
	call.Query.Set("size", strconv.Itoa(args.LimitOr(defaultTradeSize)))
	if since, ok := args.SinceMillis(); ok {
		call.Query.Set("time", strconv.FormatInt(since, 10))
	}
	base.ApplyParams(call.Query, args.Params)

	list, err := l.DispatchList(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch trades: %w", err)
	}
	trades := make([]*model.Trade, 0, len(list))
	for _, item := range list.Maps() {
		trade := &model.Trade{
			ID:        item.SafeString("tid"),
			Timestamp: item.Millis("date_ms"),
			Symbol:    market.Symbol,
			Side:      model.OrderSide(item.SafeString("type")),
			Price:     item.Decimal("price"),
			Amount:    item.Decimal("amount"),
			Info:      item,
		}
		trade.Derive(market.Precision.Price)
		trades = append(trades, trade)
	}
	return base.FilterTrades(trades, args), nil
}

// FetchOHLCV 获取K线数据，必须指定起始时间
func (l *LBank) FetchOHLCV(ctx context.Context, symbol, timeframe string, opts ...option.ArgsOption) (model.OHLCVs, error) {
	args := option.ApplyArgs(opts...)
	since, ok := args.SinceMillis()
	if !ok {
		return nil, errs.New(lbankID, errs.ArgumentsRequired, errs.WithMessage("fetchOHLCV requires a since argument"))
	}
	interval, ok := common.VenueTimeframe(l.Descriptor().Timeframes, timeframe)
	if !ok {
		return nil, errs.New(lbankID, errs.NotSupported, errs.WithMessage("unsupported timeframe "+timeframe))
	}
	market, err := l.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	call, err := l.Prepare(opFetchOHLCV, nil)
	if err != nil {
		return nil, err
	}
	call.Query.Set("symbol", market.ID)
	call.Query.Set("type", interval)
	call.Query.Set("size", strconv.Itoa(args.LimitOr(defaultKlineSize)))
	call.Query.Set("time", strconv.FormatInt(since/1000, 10))
	base.ApplyParams(call.Query, args.Params)

	list, err := l.DispatchList(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch ohlcv: %w", err)
	}
	out := make(model.OHLCVs, 0, len(list))
	for _, raw := range list {
		row, ok := types.AsList(raw)
		if !ok {
			continue
		}
		if candle := base.ParseOHLCVRow(row, 1000); candle != nil {
			out = append(out, candle)
		}
	}
	out.SortByTime()
	return out, nil
}

// ========== 账户与订单 ==========

// FetchBalance 获取余额
func (l *LBank) FetchBalance(ctx context.Context, opts ...option.ArgsOption) (*model.BalanceSheet, error) {
	args := option.ApplyArgs(opts...)
	call, err := l.Prepare(opFetchBalance, nil)
	if err != nil {
		return nil, err
	}
	form := types.NewExValues()
	base.ApplyParams(form, args.Params)
	call.SetFormBody(form)

	resp, err := l.Dispatch(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch balance: %w", err)
	}
	var data lbankUserInfo
	if err := types.Convert(resp, &data); err != nil {
		return nil, fmt.Errorf("fetch balance: %w", err)
	}

	sheet := model.NewBalanceSheet(resp)
	for id, free := range data.Info.Free {
		sheet.Set(l.CommonCurrencyCode(id), &model.Balance{
			Free:  free,
			Used:  data.Info.Freeze[id],
			Total: data.Info.Asset[id],
		})
	}
	return sheet, nil
}

// CreateOrder 创建订单，市价单的 type 为 buy_market / sell_market
func (l *LBank) CreateOrder(ctx context.Context, symbol string, side model.OrderSide, orderType model.OrderType, amount string, opts ...option.ArgsOption) (*model.Order, error) {
	args := option.ApplyArgs(opts...)
	market, err := l.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	req, err := l.PrepareOrder(market, side, orderType, amount, args)
	if err != nil {
		return nil, err
	}

	call, err := l.Prepare(opCreateOrder, nil)
	if err != nil {
		return nil, err
	}
	form := types.NewExValues()
	form.Set("symbol", market.ID)
	form.Set("amount", req.AmountString())
	if orderType == model.OrderTypeMarket {
		form.Set("type", string(side)+"_market")
	} else {
		form.Set("type", string(side))
		form.Set("price", req.PriceString())
	}
	base.ApplyParams(form, req.Params)
	call.SetFormBody(form)

	resp, err := l.DispatchPayload(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	order := &model.Order{
		ID:        resp.SafeString("order_id"),
		Timestamp: types.NewExTimestamp(time.Now()),
		Symbol:    market.Symbol,
		Type:      orderType,
		Side:      side,
		Amount:    types.NewExDecimal(req.Amount),
		Filled:    types.NewExDecimal(decimal.Zero),
		Status:    model.OrderStatusOpen,
		Info:      resp,
	}
	if req.HasPrice {
		order.Price = types.NewExDecimal(req.Price)
	}
	order.Derive()
	l.Orders.Put(order)
	return order, nil
}

// CancelOrder 取消订单，必须指定交易对
func (l *LBank) CancelOrder(ctx context.Context, id, symbol string, opts ...option.ArgsOption) (*model.Order, error) {
	args := option.ApplyArgs(opts...)
	market, err := l.requireMarket(ctx, "cancelOrder", symbol)
	if err != nil {
		return nil, err
	}
	call, err := l.Prepare(opCancelOrder, nil)
	if err != nil {
		return nil, err
	}
	form := types.NewExValues()
	form.Set("symbol", market.ID)
	form.Set("order_id", id)
	base.ApplyParams(form, args.Params)
	call.SetFormBody(form)

	resp, err := l.DispatchPayload(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}

	order, ok := l.Orders.Get(id)
	if !ok {
		order = &model.Order{ID: id, Symbol: market.Symbol}
	}
	order.Status = model.OrderStatusCanceled
	order.Info = resp
	l.Orders.Put(order)
	return order, nil
}

// FetchOrder 查询订单
func (l *LBank) FetchOrder(ctx context.Context, id, symbol string, opts ...option.ArgsOption) (*model.Order, error) {
	args := option.ApplyArgs(opts...)
	market, err := l.requireMarket(ctx, "fetchOrder", symbol)
	if err != nil {
		return nil, err
	}
	call, err := l.Prepare(opFetchOrder, nil)
	if err != nil {
		return nil, err
	}
	form := types.NewExValues()
	form.Set("symbol", market.ID)
	form.Set("order_id", id)
	base.ApplyParams(form, args.Params)
	call.SetFormBody(form)

	resp, err := l.DispatchPayload(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch order: %w", err)
	}
	items := resp.List("orders").Maps()
	if len(items) == 0 {
		return nil, errs.New(lbankID, errs.OrderNotFound, errs.WithMessage("order "+id+" not found"), errs.WithInfo(resp))
	}
	order := l.parseOrder(items[0], market)
	l.Orders.Put(order)
	return order, nil
}

// FetchOrders 查询历史订单（第一页）
func (l *LBank) FetchOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	args := option.ApplyArgs(opts...)
	market, err := l.requireMarket(ctx, "fetchOrders", symbol)
	if err != nil {
		return nil, err
	}
	call, err := l.Prepare(opFetchOrders, nil)
	if err != nil {
		return nil, err
	}
	form := types.NewExValues()
	form.Set("symbol", market.ID)
	form.Set("current_page", "1")
	form.Set("page_length", strconv.Itoa(args.LimitOr(defaultPageSize)))
	base.ApplyParams(form, args.Params)
	call.SetFormBody(form)

	resp, err := l.DispatchPayload(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch orders: %w", err)
	}
	items := resp.List("orders").Maps()
	orders := make([]*model.Order, 0, len(items))
	for _, item := range items {
		orders = append(orders, l.parseOrder(item, market))
	}
	return base.FilterOrders(orders, "", args), nil
}

// FetchClosedOrders 查询已完成订单，已取消的订单可能部分成交，一并返回
func (l *LBank) FetchClosedOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	orders, err := l.FetchOrders(ctx, symbol, opts...)
	if err != nil {
		return nil, err
	}
	closed := make([]*model.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == model.OrderStatusClosed || o.Status == model.OrderStatusCanceled {
			closed = append(closed, o)
		}
	}
	return base.FilterOrders(closed, symbol, option.ApplyArgs(opts...)), nil
}

// ========== 充值提现 ==========

// Withdraw 提现，WithTag 设置 memo
func (l *LBank) Withdraw(ctx context.Context, code, amount, address string, opts ...option.ArgsOption) (*model.Transaction, error) {
	args := option.ApplyArgs(opts...)
	if address == "" {
		return nil, errs.New(lbankID, errs.ArgumentsRequired, errs.WithMessage("withdraw requires an address"))
	}
	qty := types.ExDecimalFromString(amount)
	if !qty.Positive() {
		return nil, errs.New(lbankID, errs.InvalidOrder, errs.WithMessage("invalid withdraw amount "+amount))
	}
	call, err := l.Prepare(opWithdraw, nil)
	if err != nil {
		return nil, err
	}
	form := types.NewExValues()
	form.Set("assetCode", strings.ToLower(l.CurrencyID(code)))
	form.Set("amount", qty.String())
	form.Set("account", address)
	tag, hasTag := option.GetString(args.Tag)
	if hasTag {
		form.Set("memo", tag)
	}
	base.ApplyParams(form, args.Params)
	call.SetFormBody(form)

	resp, err := l.DispatchPayload(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("withdraw: %w", err)
	}
	return &model.Transaction{
		ID:        resp.SafeString("id", "withdrawId"),
		Type:      model.TransactionWithdrawal,
		Currency:  code,
		Amount:    qty,
		Address:   address,
		Tag:       tag,
		Status:    model.TransactionPending,
		Timestamp: types.NewExTimestamp(time.Now()),
		Info:      resp,
	}, nil
}

// ========== 内部方法 ==========

// requireMarket 私有接口都需要交易对
func (l *LBank) requireMarket(ctx context.Context, op, symbol string) (*model.Market, error) {
	if symbol == "" {
		return nil, errs.New(lbankID, errs.ArgumentsRequired, errs.WithMessage(op+" requires a symbol argument"))
	}
	return l.Market(ctx, symbol)
}
