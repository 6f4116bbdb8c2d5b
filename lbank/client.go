package lbank

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lemconn/venuelink/config"
)

const (
	lbankName    = "LBank"
	lbankID      = "lbank"
	lbankBaseURL = "https://api.lbank.info"
	lbankVersion = "v1"
)

// 操作ID
const (
	opFetchMarkets   = "fetchMarkets"
	opFetchTicker    = "fetchTicker"
	opFetchOrderBook = "fetchOrderBook"
	opFetchTrades    = "fetchTrades"
	opFetchOHLCV     = "fetchOHLCV"
	opFetchBalance   = "fetchBalance"
	opCreateOrder    = "createOrder"
	opCancelOrder    = "cancelOrder"
	opFetchOrder     = "fetchOrder"
	opFetchOrders    = "fetchOrders"
	opWithdraw       = "withdraw"
)

// endpoint 每个接口都以 .do 结尾
func endpoint(method, name string, private bool) config.Endpoint {
	return config.Endpoint{
		Method:  method,
		Path:    "/" + lbankVersion + "/" + name + ".do",
		Private: private,
	}
}

// Descriptor LBank 内置描述
func Descriptor() *config.Descriptor {
	return &config.Descriptor{
		Name:          lbankName,
		ID:            lbankID,
		BaseURL:       lbankBaseURL,
		Version:       lbankVersion,
		RateLimit:     2 * time.Second,
		Timeout:       30 * time.Second,
		PrecisionMode: config.PrecisionRound,
		Separator:     "_",
		Endpoints: map[string]config.Endpoint{
			opFetchMarkets:   endpoint(http.MethodGet, "accuracy", false),
			opFetchTicker:    endpoint(http.MethodGet, "ticker", false),
			opFetchOrderBook: endpoint(http.MethodGet, "depth", false),
			opFetchTrades:    endpoint(http.MethodGet, "trades", false),
			opFetchOHLCV:     endpoint(http.MethodGet, "kline", false),
			opFetchBalance:   endpoint(http.MethodPost, "user_info", true),
			opCreateOrder:    endpoint(http.MethodPost, "create_order", true),
			opCancelOrder:    endpoint(http.MethodPost, "cancel_order", true),
			opFetchOrder:     endpoint(http.MethodPost, "orders_info", true),
			opFetchOrders:    endpoint(http.MethodPost, "orders_info_history", true),
			opWithdraw:       endpoint(http.MethodPost, "withdraw", true),
		},
		Fees: config.Fees{
			Maker: decimal.RequireFromString("0.001"),
			Taker: decimal.RequireFromString("0.001"),
		},
		Timeframes: map[string]string{
			"1m":  "minute1",
			"5m":  "minute5",
			"15m": "minute15",
			"30m": "minute30",
			"1h":  "hour1",
			"2h":  "hour2",
			"4h":  "hour4",
			"6h":  "hour6",
			"8h":  "hour8",
			"12h": "hour12",
			"1d":  "day1",
			"1w":  "week1",
		},
		CommonCurrencies: map[string]string{
			"VET_ERC20": "VEN",
		},
		Auth: config.AuthConfig{
			Strategy:  config.StrategyRSADigest,
			KeyParam:  "api_key",
			ParamName: "sign",
			LineWidth: 64,
			PEMHeader: "PRIVATE KEY",
		},
		RequiredCredentials: config.RequiredCredentials{APIKey: true, Secret: true},
		Has: map[string]bool{
			"fetchMarkets":      true,
			"fetchTicker":       true,
			"fetchTickers":      true,
			"fetchOrderBook":    true,
			"fetchTrades":       true,
			"fetchOHLCV":        true,
			"fetchTradingFees":  true,
			"fetchBalance":      true,
			"createOrder":       true,
			"cancelOrder":       true,
			"fetchOrder":        true,
			"fetchOrders":       true,
			"fetchOpenOrders":   false,
			"fetchClosedOrders": true,
			"withdraw":          true,
		},
	}
}
