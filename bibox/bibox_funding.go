package bibox

import (
	"context"
	"fmt"
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
	currencyPrecision   = 8
	defaultTransferSize = 100
)

// ========== 充值提现 ==========

// FetchCurrencies 获取币种列表（需要凭证），结果同时写入币种缓存
func (b *Bibox) FetchCurrencies(ctx context.Context) (map[string]*model.Currency, error) {
	call, err := b.privateCall(opFetchCurrencies, nil, nil)
	if err != nil {
		return nil, err
	}
	raw, err := b.Dispatch(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch currencies: %w", err)
	}
	var coins []biboxCoin
	if err := types.Convert(raw, &coins); err != nil {
		return nil, fmt.Errorf("fetch currencies: %w", err)
	}
	infos, _ := types.AsList(raw)

	step := types.NewExDecimal(common.StepFromPrecision(currencyPrecision))
	ceiling := types.NewExDecimal(decimal.New(1, currencyPrecision))
	list := make([]*model.Currency, 0, len(coins))
	for i, coin := range coins {
		c := &model.Currency{
			ID:        coin.Symbol,
			Code:      b.CommonCurrencyCode(coin.Symbol),
			Name:      coin.Name,
			Active:    coin.EnableDeposit && coin.EnableWithdraw,
			Precision: currencyPrecision,
		}
		c.Limits.Amount = model.MinMax{Min: step, Max: ceiling}
		c.Limits.Withdraw.Max = ceiling
		if i < len(infos) {
			c.Info = base.PayloadInfo(infos[i])
		}
		list = append(list, c)
	}
	b.Currencies.Load(list)

	out := make(map[string]*model.Currency, len(list))
	for _, c := range list {
		out[c.Code] = c
	}
	return out, nil
}

// FetchDeposits 充值记录，code 可为空
func (b *Bibox) FetchDeposits(ctx context.Context, code string, opts ...option.ArgsOption) ([]*model.Transaction, error) {
	return b.fetchTransactions(ctx, opFetchDeposits, model.TransactionDeposit, code, opts...)
}

// FetchWithdrawals 提现记录，code 可为空
func (b *Bibox) FetchWithdrawals(ctx context.Context, code string, opts ...option.ArgsOption) ([]*model.Transaction, error) {
	return b.fetchTransactions(ctx, opFetchWithdrawals, model.TransactionWithdrawal, code, opts...)
}

// FetchDepositAddress 充值地址，接口不返回地址标签
func (b *Bibox) FetchDepositAddress(ctx context.Context, code string, opts ...option.ArgsOption) (*model.DepositAddress, error) {
	args := option.ApplyArgs(opts...)
	call, err := b.privateCall(opFetchDepositAddress, map[string]any{
		"coin_symbol": b.currencyID(code),
	}, args.Params)
	if err != nil {
		return nil, err
	}
	raw, err := b.Dispatch(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch deposit address: %w", err)
	}
	address, _ := types.ToString(raw)
	return &model.DepositAddress{
		Currency: code,
		Address:  address,
		Info:     base.PayloadInfo(raw),
	}, nil
}

// Withdraw 提现，资金密码依次取 WithFundPassword、WithTradePassword、WithPassword
// 二次验证码依次取 WithTwoFACode、WithTwoFA
func (b *Bibox) Withdraw(ctx context.Context, code, amount, address string, opts ...option.ArgsOption) (*model.Transaction, error) {
	args := option.ApplyArgs(opts...)
	if address == "" {
		return nil, errs.New(biboxID, errs.ArgumentsRequired, errs.WithMessage("withdraw requires an address"))
	}
	qty := types.ExDecimalFromString(amount)
	if !qty.Positive() {
		return nil, errs.New(biboxID, errs.InvalidOrder, errs.WithMessage("invalid withdraw amount "+amount))
	}

	body := map[string]any{
		"coin_symbol": b.currencyID(code),
		"amount":      qty.String(),
		"addr":        address,
	}
	creds := b.Credentials()
	if pwd := firstNonEmpty(args.FundPassword, creds.TradePassword, creds.Password); pwd != "" {
		body["trade_pwd"] = pwd
	} else if _, ok := args.Params["trade_pwd"]; !ok {
		return nil, errs.New(biboxID, errs.ArgumentsRequired,
			errs.WithMessage("withdraw requires a trade password or a trade_pwd parameter"))
	}
	if totp := firstNonEmpty(args.TwoFACode, creds.TwoFA); totp != "" {
		body["totp_code"] = totp
	} else if _, ok := args.Params["totp_code"]; !ok {
		return nil, errs.New(biboxID, errs.ArgumentsRequired,
			errs.WithMessage("withdraw requires a totp_code for 2FA authentication"))
	}
	tag, hasTag := option.GetString(args.Tag)
	if hasTag && tag != "" {
		body["address_remark"] = tag
	}

	call, err := b.privateCall(opWithdraw, body, args.Params)
	if err != nil {
		return nil, err
	}
	raw, err := b.Dispatch(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("withdraw: %w", err)
	}
	id, _ := types.ToString(raw)
	return &model.Transaction{
		ID:        id,
		Type:      model.TransactionWithdrawal,
		Currency:  code,
		Amount:    qty,
		Address:   address,
		Tag:       tag,
		Status:    model.TransactionPending,
		Timestamp: types.NewExTimestamp(time.Now()),
		Info:      base.PayloadInfo(raw),
	}, nil
}

// FetchFundingFees 逐个币种查询提现手续费，codes 为空时查询已加载的全部币种
func (b *Bibox) FetchFundingFees(ctx context.Context, codes ...string) (map[string]types.ExDecimal, error) {
	if len(codes) == 0 {
		for code := range b.Currencies.All() {
			codes = append(codes, code)
		}
	}
	return base.FanOut(ctx, codes, func(ctx context.Context, code string) (types.ExDecimal, error) {
		call, err := b.privateCall(opFetchFundingFee, map[string]any{
			"coin_symbol": b.currencyID(code),
		}, nil)
		if err != nil {
			return types.ExDecimal{}, err
		}
		result, err := b.DispatchPayload(ctx, call)
		if err != nil {
			return types.ExDecimal{}, fmt.Errorf("fetch funding fee %s: %w", code, err)
		}
		return result.Decimal("withdraw_fee"), nil
	})
}

// ========== 内部方法 ==========

func (b *Bibox) fetchTransactions(ctx context.Context, op string, kind model.TransactionType, code string, opts ...option.ArgsOption) ([]*model.Transaction, error) {
	args := option.ApplyArgs(opts...)
	body := map[string]any{
		"page": 1,
		"size": args.LimitOr(defaultTransferSize),
	}
	if code != "" {
		body["symbol"] = b.currencyID(code)
	}
	call, err := b.privateCall(op, body, args.Params)
	if err != nil {
		return nil, err
	}
	result, err := b.DispatchPayload(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	since, hasSince := args.SinceMillis()
	items := result.List("items").Maps()
	out := make([]*model.Transaction, 0, len(items))
	for _, item := range items {
		tx := b.parseTransaction(item, kind)
		if code != "" && tx.Currency != code {
			continue
		}
		if hasSince && tx.Timestamp.Millis() < since {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

// currencyID 优先使用币种缓存中的交易所代码
func (b *Bibox) currencyID(code string) string {
	if c, ok := b.Currencies.Get(code); ok {
		return c.ID
	}
	return b.CurrencyID(code)
}

// firstNonEmpty 单次调用的参数优先，其次是创建时的凭证
func firstNonEmpty(call *string, fallbacks ...string) string {
	if v, ok := option.GetString(call); ok && v != "" {
		return v
	}
	for _, v := range fallbacks {
		if v != "" {
			return v
		}
	}
	return ""
}
