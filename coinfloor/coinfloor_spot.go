package coinfloor

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/lemconn/venuelink/base"
	"github.com/lemconn/venuelink/common"
	"github.com/lemconn/venuelink/errs"
	"github.com/lemconn/venuelink/model"
	"github.com/lemconn/venuelink/option"
	"github.com/lemconn/venuelink/types"
)

// MarketEstimate 市价单预估结果
type MarketEstimate struct {
	Quantity types.ExDecimal `json:"quantity"`
	Total    types.ExDecimal `json:"total"`
	Info     map[string]any  `json:"info,omitempty"`
}

// ========== 市场数据 ==========

// FetchMarkets 返回内置的固定市场，不发请求
func (c *Coinfloor) FetchMarkets(ctx context.Context) ([]*model.Market, error) {
	markets := make([]*model.Market, 0, len(staticMarkets))
	for _, s := range staticMarkets {
		baseCode := c.CommonCurrencyCode(s.baseID)
		quoteCode := c.CommonCurrencyCode(s.quoteID)
		market := &model.Market{
			ID:      s.id,
			Symbol:  common.NormalizeSymbol(baseCode, quoteCode),
			Base:    baseCode,
			Quote:   quoteCode,
			BaseID:  s.baseID,
			QuoteID: s.quoteID,
			Active:  true,
			Precision: model.Precision{
				Amount: amountPrecision,
				Price:  pricePrecision,
			},
			Info: map[string]any{"id": s.id},
		}
		market.Limits.Amount.Min = types.NewExDecimal(common.StepFromPrecision(amountPrecision))
		markets = append(markets, market)
	}
	return markets, nil
}

// FetchTicker 获取行情（单个）
func (c *Coinfloor) FetchTicker(ctx context.Context, symbol string) (*model.Ticker, error) {
	market, err := c.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	call, err := c.Prepare(opFetchTicker, map[string]string{"id": market.ID})
	if err != nil {
		return nil, err
	}
	resp, err := c.DispatchPayload(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch ticker: %w", err)
	}
	return c.parseTicker(resp, market), nil
}

// FetchTickers 没有批量接口，按交易对并发请求；symbols 为空时请求全部市场
func (c *Coinfloor) FetchTickers(ctx context.Context, symbols ...string) (model.Tickers, error) {
	if err := c.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	if len(symbols) == 0 {
		symbols = c.Markets.Symbols()
	}
	tickers, err := base.FanOut(ctx, symbols, c.FetchTicker)
	if err != nil {
		return nil, fmt.Errorf("fetch tickers: %w", err)
	}
	return model.Tickers(tickers), nil
}

// FetchOrderBook 获取订单簿
func (c *Coinfloor) FetchOrderBook(ctx context.Context, symbol string, opts ...option.ArgsOption) (*model.OrderBook, error) {
	args := option.ApplyArgs(opts...)
	market, err := c.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	call, err := c.Prepare(opFetchOrderBook, map[string]string{"id": market.ID})
	if err != nil {
		return nil, err
	}
	base.ApplyParams(call.Query, args.Params)

	resp, err := c.DispatchPayload(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch order book: %w", err)
	}
	bids := base.ParseBookSide(resp.List("bids"), nil, nil)
	asks := base.ParseBookSide(resp.List("asks"), nil, nil)
	return base.NewOrderBook(market.Symbol, bids, asks, types.ExTimestamp{}, args.LimitOr(0)), nil
}

// FetchTrades 获取公共成交记录，since 与 limit 在本地过滤
func (c *Coinfloor) FetchTrades(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Trade, error) {
	args := option.ApplyArgs(opts...)
	market, err := c.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	call, err := c.Prepare(opFetchTrades, map[string]string{"id": market.ID})
	if err != nil {
		return nil, err
	}
	base.ApplyParams(call.Query, args.Params)

	list, err := c.DispatchList(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch trades: %w", err)
	}
	trades := make([]*model.Trade, 0, len(list))
	for _, item := range list.Maps() {
		trades = append(trades, c.parseTrade(item, market))
	}
	return base.FilterTrades(trades, args), nil
}

// ========== 账户与订单 ==========

// FetchBalance 余额按市场查询，需要 WithSymbol 或 params 中的 symbol/id
// 返回该市场基础币与计价币两项余额
func (c *Coinfloor) FetchBalance(ctx context.Context, opts ...option.ArgsOption) (*model.BalanceSheet, error) {
	args := option.ApplyArgs(opts...)
	market, err := c.balanceMarket(ctx, args)
	if err != nil {
		return nil, err
	}
	call, err := c.Prepare(opFetchBalance, map[string]string{"id": market.ID})
	if err != nil {
		return nil, err
	}
	params := make(map[string]any, len(args.Params))
	for k, v := range args.Params {
		if k != "symbol" && k != "id" {
			params[k] = v
		}
	}
	base.ApplyParams(call.Query, params)

	resp, err := c.DispatchPayload(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch balance: %w", err)
	}
	// 键名形如 xbt_available、gbp_reserved
	sheet := model.NewBalanceSheet(resp)
	for _, side := range []struct{ code, id string }{
		{market.Base, market.BaseID},
		{market.Quote, market.QuoteID},
	} {
		prefix := strings.ToLower(side.id) + "_"
		sheet.Set(side.code, &model.Balance{
			Free:  resp.Decimal(prefix + "available"),
			Used:  resp.Decimal(prefix + "reserved"),
			Total: resp.Decimal(prefix + "balance"),
		})
	}
	return sheet, nil
}

// CreateOrder 限价单提交 price/amount，市价单提交 quantity
func (c *Coinfloor) CreateOrder(ctx context.Context, symbol string, side model.OrderSide, orderType model.OrderType, amount string, opts ...option.ArgsOption) (*model.Order, error) {
	args := option.ApplyArgs(opts...)
	market, err := c.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	req, err := c.PrepareOrder(market, side, orderType, amount, args)
	if err != nil {
		return nil, err
	}
	op := orderOp(side, orderType)
	call, err := c.Prepare(op, map[string]string{"id": market.ID})
	if err != nil {
		return nil, err
	}
	if orderType == model.OrderTypeMarket {
		call.Query.Set("quantity", req.AmountString())
	} else {
		call.Query.Set("price", req.PriceString())
		call.Query.Set("amount", req.AmountString())
	}
	base.ApplyParams(call.Query, req.Params)

	resp, err := c.DispatchPayload(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	order := c.parseOrder(resp, market, model.OrderStatusOpen)
	order.Side = side
	order.Type = orderType
	if orderType == model.OrderTypeMarket {
		// 市价单只返回 remaining
		order.Amount = types.NewExDecimal(req.Amount)
		order.Remaining = resp.Decimal("remaining")
		order.Cost = types.NoneDecimal
		order.Status = model.OrderStatusClosed
		order.Derive()
	}
	if order.ID != "" {
		c.Orders.Put(order)
	}
	return order, nil
}

// CancelOrder 取消订单，必须指定交易对；交易所返回 false 表示订单不存在
func (c *Coinfloor) CancelOrder(ctx context.Context, id, symbol string, opts ...option.ArgsOption) (*model.Order, error) {
	if symbol == "" {
		return nil, errs.New(coinfloorID, errs.ArgumentsRequired, errs.WithMessage("cancelOrder requires a symbol argument"))
	}
	market, err := c.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	call, err := c.Prepare(opCancelOrder, map[string]string{"id": market.ID})
	if err != nil {
		return nil, err
	}
	call.Query.Set("id", id)

	resp, err := c.Dispatch(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}
	if ok, _ := resp.(bool); !ok {
		return nil, errs.New(coinfloorID, errs.OrderNotFound,
			errs.WithMessage("order "+id+" not found or already closed"), errs.WithInfo(resp))
	}
	order := &model.Order{
		ID:     id,
		Symbol: market.Symbol,
		Status: model.OrderStatusCanceled,
		Info:   map[string]any{"result": resp},
	}
	if cached, ok := c.Orders.Get(id); ok {
		order.Side, order.Price, order.Amount = cached.Side, cached.Price, cached.Amount
	}
	return order, nil
}

// FetchOpenOrders 查询未完成订单，必须指定交易对
func (c *Coinfloor) FetchOpenOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	args := option.ApplyArgs(opts...)
	if symbol == "" {
		return nil, errs.New(coinfloorID, errs.ArgumentsRequired, errs.WithMessage("fetchOpenOrders requires a symbol argument"))
	}
	market, err := c.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	call, err := c.Prepare(opFetchOpenOrders, map[string]string{"id": market.ID})
	if err != nil {
		return nil, err
	}
	base.ApplyParams(call.Query, args.Params)

	list, err := c.DispatchList(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch open orders: %w", err)
	}
	orders := make([]*model.Order, 0, len(list))
	for _, item := range list.Maps() {
		orders = append(orders, c.parseOrder(item, market, model.OrderStatusOpen))
	}
	return base.FilterOrders(orders, symbol, args), nil
}

// EstimateMarketOrder 预估市价单：卖单按数量估算所得，买单按数量估算花费
func (c *Coinfloor) EstimateMarketOrder(ctx context.Context, symbol string, side model.OrderSide, amount string) (*MarketEstimate, error) {
	market, err := c.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	qty := types.ExDecimalFromString(amount)
	if !qty.Positive() {
		return nil, errs.New(coinfloorID, errs.InvalidOrder, errs.WithMessage("invalid amount "+amount))
	}
	op := opEstimateSellMarket
	if side == model.OrderSideBuy {
		op = opEstimateBuyMarket
	}
	call, err := c.Prepare(op, map[string]string{"id": market.ID})
	if err != nil {
		return nil, err
	}
	call.Query.Set("quantity", common.FormatToPrecision(qty.Decimal, market.Precision.Amount, c.RoundingMode()))

	resp, err := c.DispatchPayload(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("estimate market order: %w", err)
	}
	return &MarketEstimate{
		Quantity: resp.Decimal("quantity"),
		Total:    resp.Decimal("total"),
		Info:     resp,
	}, nil
}

// ========== 资金流水 ==========

// FetchLedger 资金流水按市场查询，code 传交易对（如 BTC/GBP）或市场ID
func (c *Coinfloor) FetchLedger(ctx context.Context, code string, opts ...option.ArgsOption) ([]*model.LedgerEntry, error) {
	args := option.ApplyArgs(opts...)
	if code == "" {
		return nil, errs.New(coinfloorID, errs.ArgumentsRequired, errs.WithMessage("fetchLedger requires a market symbol argument"))
	}
	market, err := c.findMarket(ctx, code)
	if err != nil {
		return nil, err
	}
	call, err := c.Prepare(opFetchLedger, map[string]string{"id": market.ID})
	if err != nil {
		return nil, err
	}
	if limit, ok := option.GetInt(args.Limit); ok {
		call.Query.Set("limit", strconv.Itoa(limit))
	}
	base.ApplyParams(call.Query, args.Params)

	list, err := c.DispatchList(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch ledger: %w", err)
	}
	since, hasSince := args.SinceMillis()
	entries := make([]*model.LedgerEntry, 0, len(list)*2)
	for _, item := range list.Maps() {
		for _, e := range c.parseLedgerEntry(item) {
			if hasSince && e.Timestamp.Valid() && e.Timestamp.Millis() < since {
				continue
			}
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// ========== 内部方法 ==========

func orderOp(side model.OrderSide, orderType model.OrderType) string {
	switch {
	case side == model.OrderSideBuy && orderType == model.OrderTypeMarket:
		return opBuyMarket
	case side == model.OrderSideBuy:
		return opBuy
	case orderType == model.OrderTypeMarket:
		return opSellMarket
	default:
		return opSell
	}
}

// findMarket 先按交易对查，再按市场ID查
func (c *Coinfloor) findMarket(ctx context.Context, s string) (*model.Market, error) {
	if err := c.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	if m, ok := c.Markets.ResolveID(s); ok {
		return m, nil
	}
	m, err := c.Markets.Resolve(s)
	if err != nil {
		return nil, errs.New(coinfloorID, errs.NotSupported,
			errs.WithMessage(s+" is not a known market"), errs.WithCause(err))
	}
	return m, nil
}

func (c *Coinfloor) balanceMarket(ctx context.Context, args *option.ExchangeArgsOptions) (*model.Market, error) {
	key, ok := option.GetString(args.Symbol)
	if !ok {
		for _, k := range []string{"id", "symbol"} {
			if v, found := args.Params[k]; found {
				key, ok = types.ToString(v)
				break
			}
		}
	}
	if !ok || key == "" {
		return nil, errs.New(coinfloorID, errs.NotSupported, errs.WithMessage("fetchBalance requires a symbol param"))
	}
	return c.findMarket(ctx, key)
}
