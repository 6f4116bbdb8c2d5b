package coinfloor

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lemconn/venuelink/config"
)

const (
	coinfloorName    = "coinfloor"
	coinfloorID      = "coinfloor"
	coinfloorBaseURL = "https://webapi.coinfloor.co.uk/bist"
)

// 操作ID
const (
	opFetchTicker        = "fetchTicker"
	opFetchOrderBook     = "fetchOrderBook"
	opFetchTrades        = "fetchTrades"
	opFetchBalance       = "fetchBalance"
	opFetchLedger        = "fetchLedger"
	opFetchOpenOrders    = "fetchOpenOrders"
	opCancelOrder        = "cancelOrder"
	opBuy                = "buy"
	opSell               = "sell"
	opBuyMarket          = "buyMarket"
	opSellMarket         = "sellMarket"
	opEstimateSellMarket = "estimateSellMarket"
	opEstimateBuyMarket  = "estimateBuyMarket"
)

// staticMarket 交易所没有市场列表接口，市场是固定的
type staticMarket struct {
	id, baseID, quoteID string
}

var staticMarkets = []staticMarket{
	{id: "XBT/GBP", baseID: "XBT", quoteID: "GBP"},
	{id: "XBT/EUR", baseID: "XBT", quoteID: "EUR"},
	{id: "ETH/GBP", baseID: "ETH", quoteID: "GBP"},
}

const (
	amountPrecision = 4
	pricePrecision  = 0
)

// endpoint 路径参数 {id} 是带斜杠的市场ID，如 XBT/GBP
func endpoint(method, path string, private bool) config.Endpoint {
	return config.Endpoint{Method: method, Path: "/" + path, Private: private}
}

// Descriptor coinfloor 内置描述
func Descriptor() *config.Descriptor {
	return &config.Descriptor{
		Name:          coinfloorName,
		ID:            coinfloorID,
		BaseURL:       coinfloorBaseURL,
		RateLimit:     time.Second,
		Timeout:       30 * time.Second,
		PrecisionMode: config.PrecisionRound,
		Separator:     "/",
		Endpoints: map[string]config.Endpoint{
			opFetchTicker:        endpoint(http.MethodGet, "{id}/ticker/", false),
			opFetchOrderBook:     endpoint(http.MethodGet, "{id}/order_book/", false),
			opFetchTrades:        endpoint(http.MethodGet, "{id}/transactions/", false),
			opFetchBalance:       endpoint(http.MethodPost, "{id}/balance/", true),
			opFetchLedger:        endpoint(http.MethodPost, "{id}/user_transactions/", true),
			opFetchOpenOrders:    endpoint(http.MethodPost, "{id}/open_orders/", true),
			opCancelOrder:        endpoint(http.MethodPost, "{id}/cancel_order/", true),
			opBuy:                endpoint(http.MethodPost, "{id}/buy/", true),
			opSell:               endpoint(http.MethodPost, "{id}/sell/", true),
			opBuyMarket:          endpoint(http.MethodPost, "{id}/buy_market/", true),
			opSellMarket:         endpoint(http.MethodPost, "{id}/sell_market/", true),
			opEstimateSellMarket: endpoint(http.MethodPost, "{id}/estimate_sell_market/", true),
			opEstimateBuyMarket:  endpoint(http.MethodPost, "{id}/estimate_buy_market/", true),
		},
		Fees: config.Fees{
			Maker: decimal.RequireFromString("0.003"),
			Taker: decimal.RequireFromString("0.003"),
		},
		CommonCurrencies: map[string]string{
			"XBT": "BTC",
		},
		Auth: config.AuthConfig{
			Strategy:   config.StrategyBasicToken,
			NonceParam: "nonce",
			NonceUnit:  "ms",
		},
		RequiredCredentials: config.RequiredCredentials{APIKey: true, Password: true, UID: true},
		Has: map[string]bool{
			"fetchMarkets":     true,
			"fetchTicker":      true,
			"fetchTickers":     true,
			"fetchOrderBook":   true,
			"fetchTrades":      true,
			"fetchOHLCV":       false,
			"fetchTradingFees": true,
			"fetchBalance":     true,
			"fetchLedger":      true,
			"createOrder":      true,
			"cancelOrder":      true,
			"fetchOpenOrders":  true,
			"fetchOrder":       false,
		},
	}
}
