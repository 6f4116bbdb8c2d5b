package option

import (
	"time"
)

// ExchangeArgsOptions 方法调用参数选项（用于 Exchange 方法调用）
type ExchangeArgsOptions struct {
	// ========== 通用查询参数 ==========
	// Limit 限制返回数量
	Limit *int
	// Since 起始时间
	Since *time.Time
	// Symbol 交易对（FetchMyTrades、FetchLedger 等可选过滤）
	Symbol *string
	// Params 交易所特有参数，原样并入请求
	Params map[string]any

	// ========== 订单相关参数 ==========
	// Price 订单价格（限价单必填）
	Price *string
	// ClientOrderID 客户端订单ID
	ClientOrderID *string

	// ========== 充提相关参数 ==========
	// Tag 地址标签（memo）
	Tag *string
	// TwoFACode 二次验证码
	TwoFACode *string
	// FundPassword 资金密码
	FundPassword *string
}

// ArgsOption 方法调用参数选项函数类型
type ArgsOption func(*ExchangeArgsOptions)

// ApplyArgs 应用所有调用选项
func ApplyArgs(opts ...ArgsOption) *ExchangeArgsOptions {
	args := &ExchangeArgsOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(args)
		}
	}
	return args
}

// ========== 通用查询参数选项 ==========

// WithLimit 设置限制返回数量
func WithLimit(limit int) ArgsOption {
	return func(opts *ExchangeArgsOptions) {
		opts.Limit = &limit
	}
}

// WithSince 设置起始时间
func WithSince(since time.Time) ArgsOption {
	return func(opts *ExchangeArgsOptions) {
		opts.Since = &since
	}
}

// WithSymbol 设置交易对
func WithSymbol(symbol string) ArgsOption {
	return func(opts *ExchangeArgsOptions) {
		opts.Symbol = &symbol
	}
}

// WithParams 设置交易所特有参数
func WithParams(params map[string]any) ArgsOption {
	return func(opts *ExchangeArgsOptions) {
		if opts.Params == nil {
			opts.Params = make(map[string]any, len(params))
		}
		for k, v := range params {
			opts.Params[k] = v
		}
	}
}

// ========== 订单相关参数选项 ==========

// WithPrice 设置订单价格
func WithPrice(price string) ArgsOption {
	return func(opts *ExchangeArgsOptions) {
		opts.Price = &price
	}
}

// WithClientOrderID 设置客户端订单ID
func WithClientOrderID(clientOrderID string) ArgsOption {
	return func(opts *ExchangeArgsOptions) {
		opts.ClientOrderID = &clientOrderID
	}
}

// ========== 充提相关参数选项 ==========

// WithTag 设置地址标签
func WithTag(tag string) ArgsOption {
	return func(opts *ExchangeArgsOptions) {
		opts.Tag = &tag
	}
}

// WithTwoFACode 设置二次验证码
func WithTwoFACode(code string) ArgsOption {
	return func(opts *ExchangeArgsOptions) {
		opts.TwoFACode = &code
	}
}

// WithFundPassword 设置资金密码
func WithFundPassword(password string) ArgsOption {
	return func(opts *ExchangeArgsOptions) {
		opts.FundPassword = &password
	}
}
