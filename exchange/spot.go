package exchange

import (
	"context"

	"github.com/lemconn/venuelink/model"
	"github.com/lemconn/venuelink/option"
)

// SpotExchange 现货交易接口
type SpotExchange interface {
	MarketData
	Trading
	Funding
}

// MarketData 市场数据
type MarketData interface {
	// LoadMarkets 加载市场信息，reload 为 false 时只加载一次
	LoadMarkets(ctx context.Context, reload bool) error

	// FetchMarkets 获取市场列表（总是请求交易所）
	FetchMarkets(ctx context.Context) ([]*model.Market, error)

	// GetMarket 获取单个市场信息
	GetMarket(symbol string) (*model.Market, error)

	// GetMarkets 从内存中获取所有市场信息
	GetMarkets() ([]*model.Market, error)

	// FetchCurrencies 获取币种信息
	FetchCurrencies(ctx context.Context) (map[string]*model.Currency, error)

	// FetchTicker 获取行情（单个）
	FetchTicker(ctx context.Context, symbol string) (*model.Ticker, error)

	// FetchTickers 批量获取行情，symbols 为空时返回全部
	FetchTickers(ctx context.Context, symbols ...string) (model.Tickers, error)

	// FetchOrderBook 获取订单簿
	FetchOrderBook(ctx context.Context, symbol string, opts ...option.ArgsOption) (*model.OrderBook, error)

	// FetchTrades 获取公共成交记录
	FetchTrades(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Trade, error)

	// FetchOHLCV 获取K线数据
	FetchOHLCV(ctx context.Context, symbol, timeframe string, opts ...option.ArgsOption) (model.OHLCVs, error)

	// FetchTradingFees 获取交易手续费
	FetchTradingFees(ctx context.Context) (map[string]*model.TradingFee, error)
}

// Trading 账户与订单
type Trading interface {
	// FetchBalance 获取余额
	FetchBalance(ctx context.Context, opts ...option.ArgsOption) (*model.BalanceSheet, error)

	// CreateOrder 创建订单，amount 为基础币数量，限价单通过 WithPrice 传入价格
	CreateOrder(ctx context.Context, symbol string, side model.OrderSide, orderType model.OrderType, amount string, opts ...option.ArgsOption) (*model.Order, error)

	// CancelOrder 取消订单
	CancelOrder(ctx context.Context, id, symbol string, opts ...option.ArgsOption) (*model.Order, error)

	// FetchOrder 查询订单
	FetchOrder(ctx context.Context, id, symbol string, opts ...option.ArgsOption) (*model.Order, error)

	// FetchOpenOrders 查询未完成订单
	FetchOpenOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error)

	// FetchClosedOrders 查询已完成订单
	FetchClosedOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error)

	// FetchMyTrades 获取我的成交记录
	FetchMyTrades(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Trade, error)
}

// Funding 充值提现
type Funding interface {
	// FetchDeposits 充值记录
	FetchDeposits(ctx context.Context, code string, opts ...option.ArgsOption) ([]*model.Transaction, error)

	// FetchWithdrawals 提现记录
	FetchWithdrawals(ctx context.Context, code string, opts ...option.ArgsOption) ([]*model.Transaction, error)

	// FetchDepositAddress 充值地址
	FetchDepositAddress(ctx context.Context, code string, opts ...option.ArgsOption) (*model.DepositAddress, error)

	// Withdraw 提现，返回的 Transaction.ID 为交易所提现ID
	Withdraw(ctx context.Context, code, amount, address string, opts ...option.ArgsOption) (*model.Transaction, error)

	// FetchLedger 资金流水
	FetchLedger(ctx context.Context, code string, opts ...option.ArgsOption) ([]*model.LedgerEntry, error)
}
