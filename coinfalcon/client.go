package coinfalcon

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lemconn/venuelink/config"
)

const (
	coinfalconName    = "CoinFalcon"
	coinfalconID      = "coinfalcon"
	coinfalconBaseURL = "https://coinfalcon.com"
	coinfalconVersion = "v1"
)

// 操作ID
const (
	opFetchMarkets    = "fetchMarkets"
	opFetchOrderBook  = "fetchOrderBook"
	opFetchTrades     = "fetchTrades"
	opFetchBalance    = "fetchBalance"
	opCreateOrder     = "createOrder"
	opCancelOrder     = "cancelOrder"
	opFetchOrder      = "fetchOrder"
	opFetchOpenOrders = "fetchOpenOrders"
	opFetchMyTrades   = "fetchMyTrades"
)

// endpoint 签名串中的路径带 /api/v1 前缀
func endpoint(method, path string, private bool) config.Endpoint {
	return config.Endpoint{
		Method:  method,
		Path:    "/api/" + coinfalconVersion + "/" + path,
		Private: private,
	}
}

// Descriptor CoinFalcon 内置描述
func Descriptor() *config.Descriptor {
	return &config.Descriptor{
		Name:          coinfalconName,
		ID:            coinfalconID,
		BaseURL:       coinfalconBaseURL,
		Version:       coinfalconVersion,
		RateLimit:     time.Second,
		Timeout:       30 * time.Second,
		PrecisionMode: config.PrecisionRound,
		Separator:     "-",
		Endpoints: map[string]config.Endpoint{
			opFetchMarkets:    endpoint(http.MethodGet, "markets", false),
			opFetchOrderBook:  endpoint(http.MethodGet, "markets/{market}/orders", false),
			opFetchTrades:     endpoint(http.MethodGet, "markets/{market}/trades", false),
			opFetchBalance:    endpoint(http.MethodGet, "user/accounts", true),
			opCreateOrder:     endpoint(http.MethodPost, "user/orders", true),
			opCancelOrder:     endpoint(http.MethodDelete, "user/orders/{id}", true),
			opFetchOrder:      endpoint(http.MethodGet, "user/orders/{id}", true),
			opFetchOpenOrders: endpoint(http.MethodGet, "user/orders", true),
			opFetchMyTrades:   endpoint(http.MethodGet, "user/trades", true),
		},
		// 阶梯费率从 0.2% 起
		Fees: config.Fees{
			Maker: decimal.Zero,
			Taker: decimal.RequireFromString("0.002"),
		},
		Auth: config.AuthConfig{
			Strategy:        config.StrategyCompositeHMAC,
			Digest:          "sha256",
			Encoding:        "hex",
			Delimiter:       "|",
			Parts:           []string{"nonce", "method", "path", "body"},
			KeyHeader:       "CF-API-KEY",
			SignatureHeader: "CF-API-SIGNATURE",
			NonceHeader:     "CF-API-TIMESTAMP",
			NonceUnit:       "s",
		},
		RequiredCredentials: config.RequiredCredentials{APIKey: true, Secret: true},
		Has: map[string]bool{
			"fetchMarkets":      true,
			"fetchTicker":       true,
			"fetchTickers":      true,
			"fetchOrderBook":    true,
			"fetchTrades":       true,
			"fetchOHLCV":        false,
			"fetchTradingFees":  true,
			"fetchBalance":      true,
			"createOrder":       true,
			"cancelOrder":       true,
			"fetchOrder":        true,
			"fetchOpenOrders":   true,
			"fetchClosedOrders": false,
			"fetchMyTrades":     true,
		},
	}
}
