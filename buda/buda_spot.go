package buda

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lemconn/venuelink/base"
	"github.com/lemconn/venuelink/common"
	"github.com/lemconn/venuelink/errs"
	"github.com/lemconn/venuelink/model"
	"github.com/lemconn/venuelink/option"
	"github.com/lemconn/venuelink/types"
)

// ========== 市场数据 ==========

// FetchMarkets 获取市场列表，精度取自币种的 input_decimals
func (b *Buda) FetchMarkets(ctx context.Context) ([]*model.Market, error) {
	call, err := b.Prepare(opFetchMarkets, nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Markets []budaMarket `json:"markets"`
	}
	if err := b.DispatchInto(ctx, call, &resp); err != nil {
		return nil, fmt.Errorf("fetch markets: %w", err)
	}
	currencies, err := b.fetchCurrencyList(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch markets: %w", err)
	}
	decimals := make(map[string]int, len(currencies))
	for _, c := range currencies {
		decimals[c.ID] = int(c.InputDecimals.Decimal.IntPart())
	}

	markets := make([]*model.Market, 0, len(resp.Markets))
	for _, item := range resp.Markets {
		amountPrec, ok := decimals[item.BaseCurrency]
		if !ok {
			continue
		}
		pricePrec, ok := decimals[item.QuoteCurrency]
		if !ok {
			continue
		}
		baseCode := b.CommonCurrencyCode(item.BaseCurrency)
		quoteCode := b.CommonCurrencyCode(item.QuoteCurrency)
		market := &model.Market{
			ID:      item.ID,
			Symbol:  common.NormalizeSymbol(baseCode, quoteCode),
			Base:    baseCode,
			Quote:   quoteCode,
			BaseID:  item.BaseCurrency,
			QuoteID: item.QuoteCurrency,
			Active:  true,
			Precision: model.Precision{
				Amount: amountPrec,
				Price:  pricePrec,
			},
			Info: map[string]any{
				"id":                   item.ID,
				"name":                 item.Name,
				"base_currency":        item.BaseCurrency,
				"quote_currency":       item.QuoteCurrency,
				"minimum_order_amount": []string(item.MinimumOrderAmount),
			},
		}
		market.Limits.Amount.Min = item.MinimumOrderAmount.Value()
		market.Limits.Price.Min = types.NewExDecimal(common.StepFromPrecision(pricePrec))
		market.Limits.Cost.Min = market.Limits.Amount.Min.Times(market.Limits.Price.Min)
		markets = append(markets, market)
	}
	return markets, nil
}

// FetchTicker 获取行情（单个）
func (b *Buda) FetchTicker(ctx context.Context, symbol string) (*model.Ticker, error) {
	market, err := b.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	call, err := b.Prepare(opFetchTicker, map[string]string{"market": market.ID})
	if err != nil {
		return nil, err
	}
	resp, err := b.DispatchPayload(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch ticker: %w", err)
	}
	raw := resp.Map("ticker")
	var t budaTicker
	if err := types.Convert(raw, &t); err != nil {
		return nil, fmt.Errorf("fetch ticker: %w", err)
	}
	return b.parseTicker(&t, raw, market), nil
}

// FetchTickers 没有批量接口，按交易对并发请求；symbols 为空时请求全部市场
func (b *Buda) FetchTickers(ctx context.Context, symbols ...string) (model.Tickers, error) {
	if err := b.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	if len(symbols) == 0 {
		symbols = b.Markets.Symbols()
	}
	tickers, err := base.FanOut(ctx, symbols, b.FetchTicker)
	if err != nil {
		return nil, fmt.Errorf("fetch tickers: %w", err)
	}
	return model.Tickers(tickers), nil
}

// FetchOrderBook 获取订单簿
func (b *Buda) FetchOrderBook(ctx context.Context, symbol string, opts ...option.ArgsOption) (*model.OrderBook, error) {
	args := option.ApplyArgs(opts...)
	market, err := b.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	call, err := b.Prepare(opFetchOrderBook, map[string]string{"market": market.ID})
	if err != nil {
		return nil, err
	}
	base.ApplyParams(call.Query, args.Params)

	resp, err := b.DispatchPayload(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch order book: %w", err)
	}
	book := resp.Map("order_book")
	bids := base.ParseBookSide(book.List("bids"), nil, nil)
	asks := base.ParseBookSide(book.List("asks"), nil, nil)
	limit, _ := option.GetInt(args.Limit)
	return base.NewOrderBook(market.Symbol, bids, asks, types.NewExTimestamp(time.Now()), limit), nil
}

// FetchTrades 获取公共成交记录，since 只做本地过滤（接口的 timestamp 参数是向前翻页）
func (b *Buda) FetchTrades(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Trade, error) {
	args := option.ApplyArgs(opts...)
	market, err := b.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	call, err := b.Prepare(opFetchTrades, map[string]string{"market": market.ID})
	if err != nil {
		return nil, err
	}
	if limit, ok := option.GetInt(args.Limit); ok {
		call.Query.Set("limit", strconv.Itoa(limit))
	}
	base.ApplyParams(call.Query, args.Params)

	resp, err := b.DispatchPayload(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch trades: %w", err)
	}
	entries := resp.Map("trades").List("entries")
	trades := make([]*model.Trade, 0, len(entries))
	for _, raw := range entries {
		row, ok := types.AsList(raw)
		if !ok || len(row) < 5 {
			continue
		}
		trades = append(trades, b.parseTrade(row, market))
	}
	return base.FilterTrades(trades, args), nil
}

// TradingFeeForVolume 按 30 日成交量（计价币）查阶梯费率
func (b *Buda) TradingFeeForVolume(volume string) (*model.TradingFee, error) {
	v, err := decimal.NewFromString(volume)
	if err != nil {
		return nil, errs.New(budaID, errs.ArgumentsRequired, errs.WithMessage("invalid volume "+volume), errs.WithCause(err))
	}
	maker, taker := b.Descriptor().Fees.ForVolume(v)
	return &model.TradingFee{
		Maker: types.NewExDecimal(maker),
		Taker: types.NewExDecimal(taker),
	}, nil
}

// ========== 账户与订单 ==========

// FetchBalance 获取余额，used 由 total - free 推导
func (b *Buda) FetchBalance(ctx context.Context, opts ...option.ArgsOption) (*model.BalanceSheet, error) {
	args := option.ApplyArgs(opts...)
	call, err := b.Prepare(opFetchBalance, nil)
	if err != nil {
		return nil, err
	}
	base.ApplyParams(call.Query, args.Params)

	resp, err := b.Dispatch(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch balance: %w", err)
	}
	var data struct {
		Balances []budaBalance `json:"balances"`
	}
	if err := types.Convert(resp, &data); err != nil {
		return nil, fmt.Errorf("fetch balance: %w", err)
	}
	sheet := model.NewBalanceSheet(resp)
	for _, item := range data.Balances {
		sheet.Set(b.CommonCurrencyCode(item.ID), &model.Balance{
			Free:  item.AvailableAmount.Value(),
			Total: item.Amount.Value(),
		})
	}
	return sheet, nil
}

// CreateOrder 创建订单，方向为 Bid/Ask，限价单价格放在 limit
func (b *Buda) CreateOrder(ctx context.Context, symbol string, side model.OrderSide, orderType model.OrderType, amount string, opts ...option.ArgsOption) (*model.Order, error) {
	args := option.ApplyArgs(opts...)
	market, err := b.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	req, err := b.PrepareOrder(market, side, orderType, amount, args)
	if err != nil {
		return nil, err
	}
	call, err := b.Prepare(opCreateOrder, map[string]string{"market": market.ID})
	if err != nil {
		return nil, err
	}
	direction := "Ask"
	if side == model.OrderSideBuy {
		direction = "Bid"
	}
	body := map[string]any{
		"price_type": string(orderType),
		"type":       direction,
		"amount":     req.AmountString(),
	}
	if orderType == model.OrderTypeLimit {
		body["limit"] = req.PriceString()
	}
	for k, v := range req.Params {
		body[k] = v
	}
	call.SetJSONBody(body)

	resp, err := b.DispatchPayload(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	order := b.parseOrder(resp.Map("order"), market)
	b.Orders.Put(order)
	return order, nil
}

// CancelOrder 取消订单：把订单状态改为 canceling
func (b *Buda) CancelOrder(ctx context.Context, id, symbol string, opts ...option.ArgsOption) (*model.Order, error) {
	args := option.ApplyArgs(opts...)
	if err := b.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	call, err := b.Prepare(opCancelOrder, map[string]string{"id": id})
	if err != nil {
		return nil, err
	}
	body := map[string]any{"state": "canceling"}
	for k, v := range args.Params {
		body[k] = v
	}
	call.SetJSONBody(body)

	resp, err := b.DispatchPayload(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}
	order := b.parseOrder(resp.Map("order"), nil)
	b.Orders.Put(order)
	return order, nil
}

// FetchOrder 查询订单
func (b *Buda) FetchOrder(ctx context.Context, id, symbol string, opts ...option.ArgsOption) (*model.Order, error) {
	args := option.ApplyArgs(opts...)
	if err := b.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	call, err := b.Prepare(opFetchOrder, map[string]string{"id": id})
	if err != nil {
		return nil, err
	}
	base.ApplyParams(call.Query, args.Params)

	resp, err := b.DispatchPayload(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch order: %w", err)
	}
	item := resp.Map("order")
	if len(item) == 0 {
		return nil, errs.New(budaID, errs.OrderNotFound, errs.WithMessage("order "+id+" not found"), errs.WithInfo(resp))
	}
	order := b.parseOrder(item, nil)
	b.Orders.Put(order)
	return order, nil
}

// FetchOrders 查询订单，必须指定交易对；Params 中的 state 过滤状态
func (b *Buda) FetchOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	args := option.ApplyArgs(opts...)
	return b.fetchOrders(ctx, "fetchOrders", symbol, "", args)
}

// FetchOpenOrders 查询挂单（state=pending）
func (b *Buda) FetchOpenOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	args := option.ApplyArgs(opts...)
	return b.fetchOrders(ctx, "fetchOpenOrders", symbol, "pending", args)
}

// FetchClosedOrders 查询已成交订单（state=traded）
func (b *Buda) FetchClosedOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	args := option.ApplyArgs(opts...)
	return b.fetchOrders(ctx, "fetchClosedOrders", symbol, "traded", args)
}

// ========== 内部方法 ==========

func (b *Buda) fetchOrders(ctx context.Context, op, symbol, state string, args *option.ExchangeArgsOptions) ([]*model.Order, error) {
	if symbol == "" {
		return nil, errs.New(budaID, errs.ArgumentsRequired, errs.WithMessage(op+" requires a symbol argument"))
	}
	market, err := b.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	call, err := b.Prepare(opFetchOrders, map[string]string{"market": market.ID})
	if err != nil {
		return nil, err
	}
	if state != "" {
		call.Query.Set("state", state)
	}
	if limit, ok := option.GetInt(args.Limit); ok {
		call.Query.Set("per", strconv.Itoa(limit))
	}
	base.ApplyParams(call.Query, args.Params)

	resp, err := b.DispatchPayload(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	items := resp.List("orders").Maps()
	orders := make([]*model.Order, 0, len(items))
	for _, item := range items {
		orders = append(orders, b.parseOrder(item, market))
	}
	return base.FilterOrders(orders, "", args), nil
}
