package buda

import (
	"github.com/lemconn/venuelink/types"
)

// budaAmount 金额以 ["数量", "币种"] 数组返回
type budaAmount []string

// Value 数量
func (a budaAmount) Value() types.ExDecimal {
	if len(a) == 0 {
		return types.NoneDecimal
	}
	return types.ExDecimalFromString(a[0])
}

// Currency 币种
func (a budaAmount) Currency() string {
	if len(a) < 2 {
		return ""
	}
	return a[1]
}

type budaMarket struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	BaseCurrency       string     `json:"base_currency"`
	QuoteCurrency      string     `json:"quote_currency"`
	MinimumOrderAmount budaAmount `json:"minimum_order_amount"`
}

type budaCurrency struct {
	ID                string          `json:"id"`
	Symbol            string          `json:"symbol"`
	Managed           bool            `json:"managed"`
	InputDecimals     types.ExDecimal `json:"input_decimals"`
	DepositMinimum    budaAmount      `json:"deposit_minimum"`
	WithdrawalMinimum budaAmount      `json:"withdrawal_minimum"`
}

type budaTicker struct {
	MarketID          string          `json:"market_id"`
	LastPrice         budaAmount      `json:"last_price"`
	MinAsk            budaAmount      `json:"min_ask"`
	MaxBid            budaAmount      `json:"max_bid"`
	Volume            budaAmount      `json:"volume"`
	PriceVariation24h types.ExDecimal `json:"price_variation_24h"`
	PriceVariation7d  types.ExDecimal `json:"price_variation_7d"`
}

type budaBalance struct {
	ID                    string     `json:"id"`
	Amount                budaAmount `json:"amount"`
	AvailableAmount       budaAmount `json:"available_amount"`
	FrozenAmount          budaAmount `json:"frozen_amount"`
	PendingWithdrawAmount budaAmount `json:"pending_withdraw_amount"`
}

// budaFee 充提手续费
type budaFee struct {
	Name    string          `json:"name"`
	Percent types.ExDecimal `json:"percent"`
	Base    budaAmount      `json:"base"`
}
