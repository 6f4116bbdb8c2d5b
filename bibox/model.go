package bibox

import (
	"github.com/lemconn/venuelink/types"
)

// biboxCommand 命令负载，签名前会包成单元素数组
type biboxCommand struct {
	Cmd  string         `json:"cmd"`
	Body map[string]any `json:"body"`
}

// biboxTicker marketAll 与 ticker 共用的行情字段
// marketAll 的成交量字段为 vol24H，ticker 为 vol
type biboxTicker struct {
	ID             types.ExDecimal   `json:"id"`
	CoinSymbol     string            `json:"coin_symbol"`
	CurrencySymbol string            `json:"currency_symbol"`
	Pair           string            `json:"pair"`
	IsHide         types.ExDecimal   `json:"is_hide"`
	Last           types.ExDecimal   `json:"last"`
	Change         types.ExDecimal   `json:"change"`
	Percent        string            `json:"percent"`
	High           types.ExDecimal   `json:"high"`
	Low            types.ExDecimal   `json:"low"`
	Buy            types.ExDecimal   `json:"buy"`
	Sell           types.ExDecimal   `json:"sell"`
	Vol            types.ExDecimal   `json:"vol"`
	Vol24H         types.ExDecimal   `json:"vol24H"`
	Amount         types.ExDecimal   `json:"amount"`
	Timestamp      types.ExTimestamp `json:"timestamp"`
}

// biboxCoin transfer/coinList 中的币种
type biboxCoin struct {
	Symbol         string `json:"symbol"`
	Name           string `json:"name"`
	EnableDeposit  bool   `json:"enable_deposit"`
	EnableWithdraw bool   `json:"enable_withdraw"`
}
