package coinfalcon

import "github.com/lemconn/venuelink/types"

// cfMarket 市场定义，行情字段在 parseTicker 中按原始结构读取
type cfMarket struct {
	Name           string `json:"name"`
	SizePrecision  int    `json:"size_precision"`
	PricePrecision int    `json:"price_precision"`
}

type cfAccount struct {
	CurrencyCode     string          `json:"currency_code"`
	Balance          types.ExDecimal `json:"balance"`
	AvailableBalance types.ExDecimal `json:"available_balance"`
	HoldBalance      types.ExDecimal `json:"hold_balance"`
}
