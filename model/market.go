package model

import "github.com/lemconn/venuelink/types"

// MinMax 上下限，未知的一侧保持未知
type MinMax struct {
	// Min 下限
	Min types.ExDecimal `json:"min"`
	// Max 上限
	Max types.ExDecimal `json:"max"`
}

// Precision 精度（小数位数）
type Precision struct {
	// Amount 数量精度
	Amount int `json:"amount"`
	// Price 价格精度
	Price int `json:"price"`
}

// Limits 交易限制
type Limits struct {
	Amount MinMax `json:"amount"`
	Price  MinMax `json:"price"`
	Cost   MinMax `json:"cost"`
}

// Market 市场信息
type Market struct {
	// ID 交易所原始市场ID，如 "eth_btc"
	ID string `json:"id"`

	// NumericID 交易所数字ID（部分交易所提供）
	NumericID *int64 `json:"numericId,omitempty"`

	// Symbol 统一格式交易对，如 "ETH/BTC"
	Symbol string `json:"symbol"`

	// Base 基础货币（统一代码）
	Base string `json:"base"`

	// Quote 计价货币（统一代码）
	Quote string `json:"quote"`

	// BaseID 基础货币（交易所代码）
	BaseID string `json:"baseId"`

	// QuoteID 计价货币（交易所代码）
	QuoteID string `json:"quoteId"`

	// Active 是否活跃
	Active bool `json:"active"`

	// Precision 精度信息
	Precision Precision `json:"precision"`

	// Limits 限制信息
	Limits Limits `json:"limits"`

	// Info 交易所原始信息
	Info map[string]any `json:"info,omitempty"`
}

// Currency 币种信息
type Currency struct {
	// ID 交易所币种代码
	ID string `json:"id"`
	// Code 统一币种代码（经过别名表映射）
	Code string `json:"code"`
	// Name 名称
	Name string `json:"name,omitempty"`
	// Active 是否可充可提
	Active bool `json:"active"`
	// Precision 精度
	Precision int `json:"precision"`
	// Fee 提现手续费
	Fee types.ExDecimal `json:"fee"`
	// Limits 数量、充值、提现限制
	Limits struct {
		Amount   MinMax `json:"amount"`
		Deposit  MinMax `json:"deposit"`
		Withdraw MinMax `json:"withdraw"`
	} `json:"limits"`
	// Info 交易所原始信息
	Info map[string]any `json:"info,omitempty"`
}

// DepositAddress 充值地址
type DepositAddress struct {
	Currency string         `json:"currency"`
	Address  string         `json:"address"`
	Tag      string         `json:"tag,omitempty"`
	Info     map[string]any `json:"info,omitempty"`
}

// TradingFee 交易手续费率
type TradingFee struct {
	Symbol string          `json:"symbol,omitempty"`
	Maker  types.ExDecimal `json:"maker"`
	Taker  types.ExDecimal `json:"taker"`
}
