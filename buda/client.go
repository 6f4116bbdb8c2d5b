package buda

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lemconn/venuelink/config"
)

const (
	budaName    = "Buda"
	budaID      = "buda"
	budaBaseURL = "https://www.buda.com"
	budaVersion = "v2"
)

// 操作ID
const (
	opFetchMarkets         = "fetchMarkets"
	opFetchCurrencies      = "fetchCurrencies"
	opFetchTicker          = "fetchTicker"
	opFetchOrderBook       = "fetchOrderBook"
	opFetchTrades          = "fetchTrades"
	opFetchWithdrawalFee   = "fetchWithdrawalFee"
	opFetchDepositFee      = "fetchDepositFee"
	opFetchBalance         = "fetchBalance"
	opCreateOrder          = "createOrder"
	opCancelOrder          = "cancelOrder"
	opFetchOrder           = "fetchOrder"
	opFetchOrders          = "fetchOrders"
	opFetchDepositAddress  = "fetchDepositAddress"
	opCreateDepositAddress = "createDepositAddress"
	opFetchDeposits        = "fetchDeposits"
	opFetchWithdrawals     = "fetchWithdrawals"
	opWithdraw             = "withdraw"
)

// fiats 法币不支持链上充值地址
var fiats = map[string]bool{
	"ARS": true,
	"CLP": true,
	"COP": true,
	"PEN": true,
}

// endpoint 签名串中的路径包含 /api 前缀，所以基础地址不带 /api
func endpoint(method, path string, private bool) config.Endpoint {
	return config.Endpoint{
		Method:  method,
		Path:    "/api/" + budaVersion + "/" + path,
		Private: private,
	}
}

func tier(volume, maker, taker string) config.FeeTier {
	return config.FeeTier{
		Volume: decimal.RequireFromString(volume),
		Maker:  decimal.RequireFromString(maker),
		Taker:  decimal.RequireFromString(taker),
	}
}

// Descriptor Buda 内置描述
func Descriptor() *config.Descriptor {
	return &config.Descriptor{
		Name:          budaName,
		ID:            budaID,
		BaseURL:       budaBaseURL,
		Version:       budaVersion,
		RateLimit:     time.Second,
		Timeout:       30 * time.Second,
		PrecisionMode: config.PrecisionRound,
		Separator:     "-",
		Endpoints: map[string]config.Endpoint{
			opFetchMarkets:         endpoint(http.MethodGet, "markets", false),
			opFetchCurrencies:      endpoint(http.MethodGet, "currencies", false),
			opFetchTicker:          endpoint(http.MethodGet, "markets/{market}/ticker", false),
			opFetchOrderBook:       endpoint(http.MethodGet, "markets/{market}/order_book", false),
			opFetchTrades:          endpoint(http.MethodGet, "markets/{market}/trades", false),
			opFetchWithdrawalFee:   endpoint(http.MethodGet, "currencies/{currency}/fees/withdrawal", false),
			opFetchDepositFee:      endpoint(http.MethodGet, "currencies/{currency}/fees/deposit", false),
			opFetchBalance:         endpoint(http.MethodGet, "balances", true),
			opCreateOrder:          endpoint(http.MethodPost, "markets/{market}/orders", true),
			opCancelOrder:          endpoint(http.MethodPut, "orders/{id}", true),
			opFetchOrder:           endpoint(http.MethodGet, "orders/{id}", true),
			opFetchOrders:          endpoint(http.MethodGet, "markets/{market}/orders", true),
			opFetchDepositAddress:  endpoint(http.MethodGet, "currencies/{currency}/receive_addresses", true),
			opCreateDepositAddress: endpoint(http.MethodPost, "currencies/{currency}/receive_addresses", true),
			opFetchDeposits:        endpoint(http.MethodGet, "currencies/{currency}/deposits", true),
			opFetchWithdrawals:     endpoint(http.MethodGet, "currencies/{currency}/withdrawals", true),
			opWithdraw:             endpoint(http.MethodPost, "currencies/{currency}/withdrawals", true),
		},
		Fees: config.Fees{
			Maker: decimal.RequireFromString("0.004"),
			Taker: decimal.RequireFromString("0.008"),
			Tiers: []config.FeeTier{
				tier("0", "0.004", "0.008"),
				tier("2000", "0.0035", "0.007"),
				tier("20000", "0.003", "0.006"),
				tier("100000", "0.0025", "0.005"),
				tier("500000", "0.002", "0.004"),
				tier("2500000", "0.0015", "0.003"),
				tier("12500000", "0.001", "0.002"),
			},
		},
		Timeframes: map[string]string{
			"1m":  "1",
			"5m":  "5",
			"30m": "30",
			"1h":  "60",
			"2h":  "120",
			"1d":  "D",
			"1w":  "W",
		},
		Auth: config.AuthConfig{
			Strategy:        config.StrategyCompositeHMAC,
			Digest:          "sha384",
			Encoding:        "hex",
			Delimiter:       " ",
			Parts:           []string{"method", "path", "body", "nonce"},
			BodyTransform:   "base64",
			KeyHeader:       "X-SBTC-APIKEY",
			SignatureHeader: "X-SBTC-SIGNATURE",
			NonceHeader:     "X-SBTC-NONCE",
			NonceUnit:       "us",
		},
		RequiredCredentials: config.RequiredCredentials{APIKey: true, Secret: true},
		Has: map[string]bool{
			"fetchMarkets":         true,
			"fetchCurrencies":      true,
			"fetchTicker":          true,
			"fetchTickers":         true,
			"fetchOrderBook":       true,
			"fetchTrades":          true,
			"fetchOHLCV":           false,
			"fetchTradingFees":     true,
			"fetchFundingFees":     true,
			"fetchBalance":         true,
			"createOrder":          true,
			"cancelOrder":          true,
			"fetchOrder":           true,
			"fetchOrders":          true,
			"fetchOpenOrders":      true,
			"fetchClosedOrders":    true,
			"fetchMyTrades":        false,
			"fetchDepositAddress":  true,
			"createDepositAddress": true,
			"fetchDeposits":        true,
			"fetchWithdrawals":     true,
			"withdraw":             true,
		},
	}
}
