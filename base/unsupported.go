package base

import (
	"context"

	"github.com/lemconn/venuelink/errs"
	"github.com/lemconn/venuelink/model"
	"github.com/lemconn/venuelink/option"
)

// Unsupported 可选操作的默认实现，全部返回 NotSupported
// 交易所通过在自身类型上定义同名方法覆盖
type Unsupported struct {
	exchange string
}

// NewUnsupported 创建默认实现
func NewUnsupported(exchange string) Unsupported {
	return Unsupported{exchange: exchange}
}

func (u Unsupported) notSupported(op string) error {
	return errs.New(u.exchange, errs.NotSupported, errs.WithMessage(op+" is not supported"))
}

// FetchCurrencies 不支持
func (u Unsupported) FetchCurrencies(ctx context.Context) (map[string]*model.Currency, error) {
	return nil, u.notSupported("fetchCurrencies")
}

// FetchOHLCV 不支持
func (u Unsupported) FetchOHLCV(ctx context.Context, symbol, timeframe string, opts ...option.ArgsOption) (model.OHLCVs, error) {
	return nil, u.notSupported("fetchOHLCV")
}

// FetchOrder 不支持
func (u Unsupported) FetchOrder(ctx context.Context, id, symbol string, opts ...option.ArgsOption) (*model.Order, error) {
	return nil, u.notSupported("fetchOrder")
}

// FetchOpenOrders 不支持
func (u Unsupported) FetchOpenOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	return nil, u.notSupported("fetchOpenOrders")
}

// FetchClosedOrders 不支持
func (u Unsupported) FetchClosedOrders(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Order, error) {
	return nil, u.notSupported("fetchClosedOrders")
}

// FetchMyTrades 不支持
func (u Unsupported) FetchMyTrades(ctx context.Context, symbol string, opts ...option.ArgsOption) ([]*model.Trade, error) {
	return nil, u.notSupported("fetchMyTrades")
}

// FetchDeposits 不支持
func (u Unsupported) FetchDeposits(ctx context.Context, code string, opts ...option.ArgsOption) ([]*model.Transaction, error) {
	return nil, u.notSupported("fetchDeposits")
}

// FetchWithdrawals 不支持
func (u Unsupported) FetchWithdrawals(ctx context.Context, code string, opts ...option.ArgsOption) ([]*model.Transaction, error) {
	return nil, u.notSupported("fetchWithdrawals")
}

// FetchDepositAddress 不支持
func (u Unsupported) FetchDepositAddress(ctx context.Context, code string, opts ...option.ArgsOption) (*model.DepositAddress, error) {
	return nil, u.notSupported("fetchDepositAddress")
}

// Withdraw 不支持
func (u Unsupported) Withdraw(ctx context.Context, code, amount, address string, opts ...option.ArgsOption) (*model.Transaction, error) {
	return nil, u.notSupported("withdraw")
}

// FetchLedger 不支持
func (u Unsupported) FetchLedger(ctx context.Context, code string, opts ...option.ArgsOption) ([]*model.LedgerEntry, error) {
	return nil, u.notSupported("fetchLedger")
}
