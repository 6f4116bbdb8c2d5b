package bibox

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lemconn/venuelink/config"
)

const (
	biboxName    = "Bibox"
	biboxID      = "bibox"
	biboxBaseURL = "https://api.bibox.com"
	biboxVersion = "v1"
)

// 操作ID
const (
	opFetchMarkets        = "fetchMarkets"
	opFetchTicker         = "fetchTicker"
	opFetchTickers        = "fetchTickers"
	opFetchOrderBook      = "fetchOrderBook"
	opFetchTrades         = "fetchTrades"
	opFetchOHLCV          = "fetchOHLCV"
	opFetchCurrencies     = "fetchCurrencies"
	opFetchBalance        = "fetchBalance"
	opFetchDeposits       = "fetchDeposits"
	opFetchWithdrawals    = "fetchWithdrawals"
	opFetchDepositAddress = "fetchDepositAddress"
	opFetchFundingFee     = "fetchFundingFee"
	opWithdraw            = "withdraw"
	opCreateOrder         = "createOrder"
	opCancelOrder         = "cancelOrder"
	opFetchOrder          = "fetchOrder"
	opFetchOpenOrders     = "fetchOpenOrders"
	opFetchClosedOrders   = "fetchClosedOrders"
	opFetchMyTrades       = "fetchMyTrades"
)

// commands 操作对应的 cmd，同一路径下按 cmd 区分接口
var commands = map[string]string{
	opFetchMarkets:        "marketAll",
	opFetchTicker:         "ticker",
	opFetchTickers:        "marketAll",
	opFetchOrderBook:      "depth",
	opFetchTrades:         "deals",
	opFetchOHLCV:          "kline",
	opFetchCurrencies:     "transfer/coinList",
	opFetchBalance:        "transfer/assets",
	opFetchDeposits:       "transfer/transferInList",
	opFetchWithdrawals:    "transfer/transferOutList",
	opFetchDepositAddress: "transfer/transferIn",
	opFetchFundingFee:     "transfer/coinConfig",
	opWithdraw:            "transfer/transferOut",
	opCreateOrder:         "orderpending/trade",
	opCancelOrder:         "orderpending/cancelTrade",
	opFetchOrder:          "orderpending/order",
	opFetchOpenOrders:     "orderpending/orderPendingList",
	opFetchClosedOrders:   "orderpending/pendingHistoryList",
	opFetchMyTrades:       "orderpending/orderHistoryList",
}

var (
	mdata        = config.Endpoint{Method: http.MethodGet, Path: "/" + biboxVersion + "/mdata"}
	transfer     = config.Endpoint{Method: http.MethodPost, Path: "/" + biboxVersion + "/transfer", Private: true}
	orderpending = config.Endpoint{Method: http.MethodPost, Path: "/" + biboxVersion + "/orderpending", Private: true}
)

// Descriptor Bibox 内置描述
func Descriptor() *config.Descriptor {
	return &config.Descriptor{
		Name:          biboxName,
		ID:            biboxID,
		BaseURL:       biboxBaseURL,
		Version:       biboxVersion,
		RateLimit:     2 * time.Second,
		Timeout:       30 * time.Second,
		PrecisionMode: config.PrecisionRound,
		Separator:     "_",
		Endpoints: map[string]config.Endpoint{
			opFetchMarkets:        mdata,
			opFetchTicker:         mdata,
			opFetchTickers:        mdata,
			opFetchOrderBook:      mdata,
			opFetchTrades:         mdata,
			opFetchOHLCV:          mdata,
			opFetchCurrencies:     transfer,
			opFetchBalance:        transfer,
			opFetchDeposits:       transfer,
			opFetchWithdrawals:    transfer,
			opFetchDepositAddress: transfer,
			opFetchFundingFee:     transfer,
			opWithdraw:            transfer,
			opCreateOrder:         orderpending,
			opCancelOrder:         orderpending,
			opFetchOrder:          orderpending,
			opFetchOpenOrders:     orderpending,
			opFetchClosedOrders:   orderpending,
			opFetchMyTrades:       orderpending,
		},
		Fees: config.Fees{
			Maker: decimal.RequireFromString("0.001"),
			Taker: decimal.RequireFromString("0.001"),
		},
		Timeframes: map[string]string{
			"1m":  "1min",
			"5m":  "5min",
			"15m": "15min",
			"30m": "30min",
			"1h":  "1hour",
			"2h":  "2hour",
			"4h":  "4hour",
			"6h":  "6hour",
			"12h": "12hour",
			"1d":  "day",
			"1w":  "week",
		},
		CommonCurrencies: map[string]string{
			"KEY": "Bihu",
			"PAI": "PCHAIN",
		},
		Auth: config.AuthConfig{
			Strategy:     config.StrategyJSONBodyHMAC,
			Digest:       "md5",
			Encoding:     "hex",
			PayloadField: "cmds",
			KeyField:     "apikey",
			SignField:    "sign",
			Wrap:         true,
		},
		RequiredCredentials: config.RequiredCredentials{APIKey: true, Secret: true},
		Has: map[string]bool{
			"fetchMarkets":        true,
			"fetchCurrencies":     true,
			"fetchTicker":         true,
			"fetchTickers":        true,
			"fetchOrderBook":      true,
			"fetchTrades":         true,
			"fetchOHLCV":          true,
			"fetchTradingFees":    true,
			"fetchFundingFees":    true,
			"fetchBalance":        true,
			"createOrder":         true,
			"createMarketOrder":   false,
			"cancelOrder":         true,
			"fetchOrder":          true,
			"fetchOpenOrders":     true,
			"fetchClosedOrders":   true,
			"fetchMyTrades":       true,
			"fetchDeposits":       true,
			"fetchWithdrawals":    true,
			"fetchDepositAddress": true,
			"withdraw":            true,
		},
	}
}
