package buda

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

// FundingFees 单个币种的充值与提现手续费
type FundingFees struct {
	Deposit  *model.Fee `json:"deposit"`
	Withdraw *model.Fee `json:"withdraw"`
}

// ========== 充值提现 ==========

// FetchCurrencies 获取币种列表，只返回托管币种，结果同时写入币种缓存
func (b *Buda) FetchCurrencies(ctx context.Context) (map[string]*model.Currency, error) {
	list, err := b.fetchCurrencyList(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch currencies: %w", err)
	}
	currencies := make([]*model.Currency, 0, len(list))
	for _, item := range list {
		if !item.Managed {
			continue
		}
		precision := int(item.InputDecimals.Decimal.IntPart())
		step := types.NewExDecimal(common.StepFromPrecision(precision))
		c := &model.Currency{
			ID:        item.ID,
			Code:      b.CommonCurrencyCode(item.ID),
			Active:    true,
			Precision: precision,
			Info: map[string]any{
				"id":                 item.ID,
				"managed":            item.Managed,
				"input_decimals":     item.InputDecimals.String(),
				"deposit_minimum":    []string(item.DepositMinimum),
				"withdrawal_minimum": []string(item.WithdrawalMinimum),
			},
		}
		c.Limits.Amount.Min = step
		c.Limits.Deposit.Min = item.DepositMinimum.Value()
		c.Limits.Withdraw.Min = item.WithdrawalMinimum.Value()
		currencies = append(currencies, c)
	}
	b.Currencies.Load(currencies)

	out := make(map[string]*model.Currency, len(currencies))
	for _, c := range currencies {
		out[c.Code] = c
	}
	return out, nil
}

// FetchFundingFees 逐个币种查询充提手续费，codes 为空时查询已加载的全部币种
func (b *Buda) FetchFundingFees(ctx context.Context, codes ...string) (map[string]*FundingFees, error) {
	if len(codes) == 0 {
		if !b.Currencies.Loaded() {
			if _, err := b.FetchCurrencies(ctx); err != nil {
				return nil, err
			}
		}
		for code := range b.Currencies.All() {
			codes = append(codes, code)
		}
	}
	return base.FanOut(ctx, codes, func(ctx context.Context, code string) (*FundingFees, error) {
		params := map[string]string{"currency": b.currencyID(code)}
		withdraw, err := b.fetchFee(ctx, opFetchWithdrawalFee, params)
		if err != nil {
			return nil, fmt.Errorf("fetch withdrawal fee %s: %w", code, err)
		}
		deposit, err := b.fetchFee(ctx, opFetchDepositFee, params)
		if err != nil {
			return nil, fmt.Errorf("fetch deposit fee %s: %w", code, err)
		}
		return &FundingFees{Deposit: deposit, Withdraw: withdraw}, nil
	})
}

// FetchDepositAddress 返回第一个可用的充值地址，法币不支持
func (b *Buda) FetchDepositAddress(ctx context.Context, code string, opts ...option.ArgsOption) (*model.DepositAddress, error) {
	args := option.ApplyArgs(opts...)
	if fiats[code] {
		return nil, errs.New(budaID, errs.NotSupported, errs.WithMessage("fetchDepositAddress for fiat "+code+" is not supported"))
	}
	call, err := b.Prepare(opFetchDepositAddress, map[string]string{"currency": b.currencyID(code)})
	if err != nil {
		return nil, err
	}
	base.ApplyParams(call.Query, args.Params)

	resp, err := b.DispatchPayload(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("fetch deposit address: %w", err)
	}
	for _, item := range resp.List("receive_addresses").Maps() {
		ready, _ := item.Bool("ready")
		address := item.SafeString("address")
		if ready && address != "" {
			return &model.DepositAddress{Currency: code, Address: address, Info: item}, nil
		}
	}
	return nil, errs.New(budaID, errs.AddressPending,
		errs.WithMessage("there are no addresses ready for receiving "+code+", retry again later"),
		errs.WithInfo(resp))
}

// CreateDepositAddress 申请新的充值地址，地址异步生成，返回时可能为空
func (b *Buda) CreateDepositAddress(ctx context.Context, code string, opts ...option.ArgsOption) (*model.DepositAddress, error) {
	args := option.ApplyArgs(opts...)
	if fiats[code] {
		return nil, errs.New(budaID, errs.NotSupported, errs.WithMessage("createDepositAddress for fiat "+code+" is not supported"))
	}
	call, err := b.Prepare(opCreateDepositAddress, map[string]string{"currency": b.currencyID(code)})
	if err != nil {
		return nil, err
	}
	if len(args.Params) > 0 {
		call.SetJSONBody(args.Params)
	}

	resp, err := b.DispatchPayload(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("create deposit address: %w", err)
	}
	item := resp.Map("receive_address")
	return &model.DepositAddress{
		Currency: code,
		Address:  item.SafeString("address"),
		Info:     resp,
	}, nil
}

// FetchDeposits 充值记录，必须指定币种
func (b *Buda) FetchDeposits(ctx context.Context, code string, opts ...option.ArgsOption) ([]*model.Transaction, error) {
	return b.fetchTransactions(ctx, opFetchDeposits, "deposits", code, opts...)
}

// FetchWithdrawals 提现记录，必须指定币种
func (b *Buda) FetchWithdrawals(ctx context.Context, code string, opts ...option.ArgsOption) ([]*model.Transaction, error) {
	return b.fetchTransactions(ctx, opFetchWithdrawals, "withdrawals", code, opts...)
}

// Withdraw 提现
func (b *Buda) Withdraw(ctx context.Context, code, amount, address string, opts ...option.ArgsOption) (*model.Transaction, error) {
	args := option.ApplyArgs(opts...)
	if address == "" {
		return nil, errs.New(budaID, errs.ArgumentsRequired, errs.WithMessage("withdraw requires an address"))
	}
	qty := types.ExDecimalFromString(amount)
	if !qty.Positive() {
		return nil, errs.New(budaID, errs.InvalidOrder, errs.WithMessage("invalid withdraw amount "+amount))
	}
	id := b.currencyID(code)
	call, err := b.Prepare(opWithdraw, map[string]string{"currency": id})
	if err != nil {
		return nil, err
	}
	body := map[string]any{
		"currency": id,
		"amount":   qty.String(),
		"withdrawal_data": map[string]any{
			"target_address": address,
		},
	}
	for k, v := range args.Params {
		body[k] = v
	}
	call.SetJSONBody(body)

	resp, err := b.DispatchPayload(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("withdraw: %w", err)
	}
	return b.parseTransaction(resp.Map("withdrawal")), nil
}

// ========== 内部方法 ==========

func (b *Buda) fetchCurrencyList(ctx context.Context) ([]budaCurrency, error) {
	call, err := b.Prepare(opFetchCurrencies, nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Currencies []budaCurrency `json:"currencies"`
	}
	if err := b.DispatchInto(ctx, call, &resp); err != nil {
		return nil, err
	}
	return resp.Currencies, nil
}

func (b *Buda) fetchFee(ctx context.Context, op string, params map[string]string) (*model.Fee, error) {
	call, err := b.Prepare(op, params)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Fee budaFee `json:"fee"`
	}
	if err := b.DispatchInto(ctx, call, &resp); err != nil {
		return nil, err
	}
	return b.parseFee(resp.Fee), nil
}

func (b *Buda) fetchTransactions(ctx context.Context, op, key, code string, opts ...option.ArgsOption) ([]*model.Transaction, error) {
	args := option.ApplyArgs(opts...)
	if code == "" {
		return nil, errs.New(budaID, errs.ArgumentsRequired, errs.WithMessage(op+" requires a currency code argument"))
	}
	call, err := b.Prepare(op, map[string]string{"currency": b.currencyID(code)})
	if err != nil {
		return nil, err
	}
	if limit, ok := option.GetInt(args.Limit); ok {
		call.Query.Set("per", strconv.Itoa(limit))
	}
	base.ApplyParams(call.Query, args.Params)

	resp, err := b.DispatchPayload(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	since, hasSince := args.SinceMillis()
	items := resp.List(key).Maps()
	out := make([]*model.Transaction, 0, len(items))
	for _, item := range items {
		tx := b.parseTransaction(item)
		if hasSince && tx.Timestamp.Millis() < since {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

// currencyID 优先使用币种缓存中的交易所代码
func (b *Buda) currencyID(code string) string {
	if c, ok := b.Currencies.Get(code); ok {
		return c.ID
	}
	return b.CurrencyID(code)
}
