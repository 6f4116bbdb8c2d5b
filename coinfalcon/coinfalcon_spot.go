package coinfalcon

import (
	"context"
	"fmt"
	"strconv"

	"github.com/lemconn/venuelink/base"
	"github.com/lemconn/venuelink/common"
	"github.com/lemconn/venuelink/errs"
	"github.com/lemconn/venuelink/model"
	"github.com/lemconn/venuelink/option"
	"github.com/lemconn/venuelink/types"
)

// ========== 市场数据 ==========

// FetchMarkets 获取市场列表，市场名形如 ETH-BTC
func (c *CoinFalcon) FetchMarkets(ctx context.Context) ([]*model.Market, error) {
	call, err := c.Prepare(opFetchMarkets, nil)
	if err != nil {
		return nil, err
	}
	var items []cfMarket
	if err := c.DispatchInto(ctx, call, &items); err != nil {
		return nil, fmt.Errorf("fetch markets: %w", err)
	}

	markets := make([]*model.Market, 0, len(items))
	for _, item := range items {
		baseID, quoteID, ok := common.SplitMarketID(item.Name, "-")
		if !ok {
			continue
		}
		baseCode := c.CommonCurrencyCode(baseID)
		quoteCode := c.CommonCurrencyCode(quoteID)
		market := &model.Market{
			ID:      item.Name,
			Symbol:  common.NormalizeSymbol(baseCode, quoteCode),
			Base:    baseCode,
			Quote:   quoteCode,
			BaseID:  baseID,
			QuoteID: quoteID,
			Active:  true,
			Precision: model.Precision{
				Amount: item.SizePrecision,
				Price:  item.PricePrecision,
			},
			Info: map[string]any{
				"name":            item.Name,
				"size_precision":  item.SizePrecision,
				"price_precision": item.PricePrecision,
			},
		}
		market.Limits.Amount.Min = types.NewExDecimal(common.StepFromPrecision(item.SizePrecision))
		market.Limits.Price.Min = types.NewExDecimal(common.StepFromPrecision(item.PricePrecision))
		markets = append(markets, market)
	}
	return markets, nil
}

// FetchTicker 没有单个行情接口，从市场列表中取
func (c *CoinFalcon) FetchTicker(ctx context.Context, symbol string) (*model.Ticker, error) {
	if _, err := c.Market(ctx, symbol); err != nil {
		return nil, err
	}
	tickers, err := c.FetchTickers(ctx, symbol)
	if err != nil {
		return nil, err
	}
	ticker, ok := tickers[symbol]
	if !ok {
		return nil, errs.New(coinfalconID, errs.ExchangeError, errs.WithMessage("fetch ticker: no ticker for "+symbol))
	}
	return ticker, nil
}

// FetchTickers 市场列表接口同时返回行情
func (c *CoinFalcon) FetchTickers(ctx context.Context, symbols ...string) (model.Tickers, error) {
	if err := c.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	call, err := c.Prepare(opFetchMarkets, nil)
	if err != nil {
		return nil, err
	}
	list, err := c.DispatchList(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch tickers: %w", err)
	}
	wanted := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		wanted[s] = true
	}
	tickers := make(model.Tickers, len(list))
	for _, item := range list.Maps() {
		ticker := c.parseTicker(item, nil)
		if ticker.Symbol == "" {
			continue
		}
		if len(wanted) > 0 && !wanted[ticker.Symbol] {
			continue
		}
		tickers[ticker.Symbol] = ticker
	}
	return tickers, nil
}

// FetchOrderBook 获取订单簿，level=3 返回逐笔挂单
func (c *CoinFalcon) FetchOrderBook(ctx context.Context, symbol string, opts ...option.ArgsOption) (*model.OrderBook, error) {
	args := option.ApplyArgs(opts...)
	market, err := c.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	call, err := c.Prepare(opFetchOrderBook, map[string]string{"market": market.ID})
	if err != nil {
		return nil, err
	}
	call.Query.Set("level", "3")
	base.ApplyParams(call.Query, args.Params)

	resp, err := c.DispatchPayload(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch order book: %w", err)
	}
	bids := base.ParseBookSide(resp.List("bids"), []string{"price"}, []string{"size"})
	asks := base.ParseBookSide(resp.List("asks"), []string{"price"}, []string{"size"})
	return base.NewOrderBook(market.Symbol, bids, asks, types.ExTimestamp{}, args.LimitOr(0)), nil
}

// FetchTrades 获取公共成交记录
func (c *CoinFalcon) FetchTrades(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Trade, error) {
	args := option.ApplyArgs(opts...)
	market, err := c.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	call, err := c.Prepare(opFetchTrades, map[string]string{"market": market.ID})
	if err != nil {
		return nil, err
	}
	if since, ok := option.GetTime(args.Since); ok {
		call.Query.Set("since", formatTime(since))
	}
	base.ApplyParams(call.Query, args.Params)

	list, err := c.DispatchList(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch trades: %w", err)
	}
	return c.parseTrades(list, market, args), nil
}

// ========== 账户与订单 ==========

// FetchBalance 获取余额
func (c *CoinFalcon) FetchBalance(ctx context.Context, opts ...option.ArgsOption) (*model.BalanceSheet, error) {
	args := option.ApplyArgs(opts...)
	call, err := c.Prepare(opFetchBalance, nil)
	if err != nil {
		return nil, err
	}
	base.ApplyParams(call.Query, args.Params)

	resp, err := c.Dispatch(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch balance: %w", err)
	}
	var accounts []cfAccount
	if err := types.Convert(resp, &accounts); err != nil {
		return nil, fmt.Errorf("fetch balance: %w", err)
	}
	sheet := model.NewBalanceSheet(resp)
	for _, a := range accounts {
		sheet.Set(c.CommonCurrencyCode(a.CurrencyCode), &model.Balance{
			Free:  a.AvailableBalance,
			Used:  a.HoldBalance,
			Total: a.Balance,
		})
	}
	return sheet, nil
}

// CreateOrder 创建订单，价格与数量以字符串提交
func (c *CoinFalcon) CreateOrder(ctx context.Context, symbol string, side model.OrderSide, orderType model.OrderType, amount string, opts ...option.ArgsOption) (*model.Order, error) {
	args := option.ApplyArgs(opts...)
	market, err := c.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	req, err := c.PrepareOrder(market, side, orderType, amount, args)
	if err != nil {
		return nil, err
	}
	call, err := c.Prepare(opCreateOrder, nil)
	if err != nil {
		return nil, err
	}
	body := map[string]any{
		"market":         market.ID,
		"size":           req.AmountString(),
		"order_type":     string(side),
		"operation_type": string(orderType) + "_order",
	}
	if orderType == model.OrderTypeLimit {
		body["price"] = req.PriceString()
	}
	for k, v := range req.Params {
		body[k] = v
	}
	call.SetJSONBody(body)

	resp, err := c.DispatchPayload(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	order := c.parseOrder(resp, market)
	c.Orders.Put(order)
	return order, nil
}

// CancelOrder 取消订单
func (c *CoinFalcon) CancelOrder(ctx context.Context, id, symbol string, opts ...option.ArgsOption) (*model.Order, error) {
	args := option.ApplyArgs(opts...)
	market, err := c.optionalMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}
	call, err := c.Prepare(opCancelOrder, map[string]string{"id": id})
	if err != nil {
		return nil, err
	}
	if len(args.Params) > 0 {
		call.SetJSONBody(args.Params)
	}

	resp, err := c.DispatchPayload(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}
	return c.parseOrder(resp, market), nil
}

// FetchOrder 查询订单
func (c *CoinFalcon) FetchOrder(ctx context.Context, id, symbol string, opts ...option.ArgsOption) (*model.Order, error) {
	args := option.ApplyArgs(opts...)
	market, err := c.optionalMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}
	call, err := c.Prepare(opFetchOrder, map[string]string{"id": id})
	if err != nil {
		return nil, err
	}
	base.ApplyParams(call.Query, args.Params)

	resp, err := c.DispatchPayload(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch order: %w", err)
	}
	if len(resp) == 0 {
		return nil, errs.New(coinfalconID, errs.OrderNotFound, errs.WithMessage("order "+id+" not found"))
	}
	return c.parseOrder(resp, market), nil
}

// FetchOpenOrders 查询未完成订单，symbol 可为空
func (c *CoinFalcon) FetchOpenOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	args := option.ApplyArgs(opts...)
	market, err := c.optionalMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}
	call, err := c.Prepare(opFetchOpenOrders, nil)
	if err != nil {
		return nil, err
	}
	if market != nil {
		call.Query.Set("market", market.ID)
	}
	if since, ok := option.GetTime(args.Since); ok {
		call.Query.Set("since_time", formatTime(since))
	}
	base.ApplyParams(call.Query, args.Params)

	list, err := c.DispatchList(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch open orders: %w", err)
	}
	orders := make([]*model.Order, 0, len(list))
	for _, item := range list.Maps() {
		orders = append(orders, c.parseOrder(item, market))
	}
	return base.FilterOrders(orders, symbol, args), nil
}

// FetchMyTrades 我的成交记录，必须指定交易对
func (c *CoinFalcon) FetchMyTrades(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Trade, error) {
	args := option.ApplyArgs(opts...)
	if symbol == "" {
		return nil, errs.New(coinfalconID, errs.ArgumentsRequired, errs.WithMessage("fetchMyTrades requires a symbol argument"))
	}
	market, err := c.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	call, err := c.Prepare(opFetchMyTrades, nil)
	if err != nil {
		return nil, err
	}
	call.Query.Set("market", market.ID)
	if since, ok := option.GetTime(args.Since); ok {
		call.Query.Set("start_time", formatTime(since))
	}
	if limit, ok := option.GetInt(args.Limit); ok {
		call.Query.Set("limit", strconv.Itoa(limit))
	}
	base.ApplyParams(call.Query, args.Params)

	list, err := c.DispatchList(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch my trades: %w", err)
	}
	return c.parseTrades(list, market, args), nil
}

// ========== 内部方法 ==========

func (c *CoinFalcon) parseTrades(list types.List, market *model.Market, args *option.ExchangeArgsOptions) []*model.Trade {
	trades := make([]*model.Trade, 0, len(list))
	for _, item := range list.Maps() {
		trades = append(trades, c.parseTrade(item, market))
	}
	return base.FilterTrades(trades, args)
}

// optionalMarket symbol 为空时返回 nil
func (c *CoinFalcon) optionalMarket(ctx context.Context, symbol string) (*model.Market, error) {
	if symbol == "" {
		if err := c.LoadMarkets(ctx, false); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return c.Market(ctx, symbol)
}
