package coinfalcon

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/lemconn/venuelink/errs"
	"github.com/lemconn/venuelink/logger"
	"github.com/lemconn/venuelink/model"
	"github.com/lemconn/venuelink/option"
)

const (
	testKey    = "cf-key"
	testSecret = "cf-secret"
)

const marketsBody = `{"data":[
	{"name":"ETH-BTC","precision":6,"min_volume":"0.01","min_price":"0.000001","price_precision":6,"size_precision":8,"last_price":"105.0","change_in_24h":"+5.0%","volume":"1200.5"},
	{"name":"BTC-EUR","precision":2,"min_volume":"0.0001","min_price":"0.01","price_precision":2,"size_precision":8,"last_price":"6000.00","change_in_24h":"-4.0%","volume":"80000"}
]}`

// verifySign 按 "TS|METHOD|PATH[|BODY]" 校验签名头
func verifySign(t *testing.T, r *http.Request) []byte {
	t.Helper()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("read body error = %v", err)
	}
	if got := r.Header.Get("CF-API-KEY"); got != testKey {
		t.Errorf("api key header = %q, want %q", got, testKey)
	}
	ts := r.Header.Get("CF-API-TIMESTAMP")
	if len(ts) != 10 {
		t.Errorf("timestamp = %q, want seconds", ts)
	}
	parts := []string{ts, r.Method, r.URL.RequestURI()}
	if len(body) > 0 {
		parts = append(parts, string(body))
	}
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(strings.Join(parts, "|")))
	if want := hex.EncodeToString(mac.Sum(nil)); r.Header.Get("CF-API-SIGNATURE") != want {
		t.Errorf("signature = %q, want %q", r.Header.Get("CF-API-SIGNATURE"), want)
	}
	return body
}

func newTestCoinFalcon(t *testing.T, h http.Handler, opts ...option.Option) *CoinFalcon {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	all := append([]option.Option{
		option.WithBaseURL(srv.URL),
		option.WithRateLimit(-1),
		option.WithLogger(logger.Discard().WithComponent(coinfalconID)),
	}, opts...)
	ex, err := NewCoinFalcon(all...)
	if err != nil {
		t.Fatalf("NewCoinFalcon() error = %v", err)
	}
	return ex.(*CoinFalcon)
}

func withCredentials() []option.Option {
	return []option.Option{option.WithAPIKey(testKey), option.WithSecretKey(testSecret)}
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func marketsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/markets", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, marketsBody)
	})
	return mux
}

func TestCoinFalcon_FetchMarkets(t *testing.T) {
	c := newTestCoinFalcon(t, marketsMux())

	markets, err := c.FetchMarkets(context.Background())
	if err != nil {
		t.Fatalf("FetchMarkets() error = %v", err)
	}
	if len(markets) != 2 {
		t.Fatalf("FetchMarkets() len = %d, want 2", len(markets))
	}
	m := markets[0]
	if m.ID != "ETH-BTC" || m.Symbol != "ETH/BTC" || m.BaseID != "ETH" || m.QuoteID != "BTC" {
		t.Errorf("market = %+v", m)
	}
	if m.Precision.Amount != 8 || m.Precision.Price != 6 {
		t.Errorf("precision = %+v, want amount 8 price 6", m.Precision)
	}
	if !m.Limits.Price.Min.Decimal.Equal(decimal.RequireFromString("0.000001")) {
		t.Errorf("price min = %s, want 0.000001", m.Limits.Price.Min)
	}
}

func TestCoinFalcon_FetchTicker_PercentString(t *testing.T) {
	c := newTestCoinFalcon(t, marketsMux())

	ticker, err := c.FetchTicker(context.Background(), "ETH/BTC")
	if err != nil {
		t.Fatalf("FetchTicker() error = %v", err)
	}
	if !ticker.Percentage.Decimal.Equal(decimal.NewFromInt(5)) {
		t.Errorf("percentage = %s, want 5", ticker.Percentage)
	}
	if !ticker.Open.Decimal.Equal(decimal.NewFromInt(100)) {
		t.Errorf("open = %s, want 100", ticker.Open)
	}
	if !ticker.Change.Decimal.Equal(decimal.NewFromInt(5)) {
		t.Errorf("change = %s, want 5", ticker.Change)
	}
	if !ticker.Average.Decimal.Equal(decimal.RequireFromString("102.5")) {
		t.Errorf("average = %s, want 102.5", ticker.Average)
	}
	if !ticker.QuoteVolume.Decimal.Equal(decimal.RequireFromString("1200.5")) {
		t.Errorf("quote volume = %s, want 1200.5", ticker.QuoteVolume)
	}
}

func TestCoinFalcon_FetchTickers(t *testing.T) {
	c := newTestCoinFalcon(t, marketsMux())
	ctx := context.Background()

	all, err := c.FetchTickers(ctx)
	if err != nil {
		t.Fatalf("FetchTickers() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("FetchTickers() len = %d, want 2", len(all))
	}
	eur := all["BTC/EUR"]
	if eur == nil || !eur.Open.Decimal.Equal(decimal.NewFromInt(6250)) {
		t.Errorf("BTC/EUR ticker = %+v, want open 6250", eur)
	}

	some, err := c.FetchTickers(ctx, "BTC/EUR")
	if err != nil {
		t.Fatalf("FetchTickers(BTC/EUR) error = %v", err)
	}
	if len(some) != 1 {
		t.Errorf("FetchTickers(BTC/EUR) len = %d, want 1", len(some))
	}
}

func TestCoinFalcon_FetchOrderBook(t *testing.T) {
	mux := marketsMux()
	mux.HandleFunc("/api/v1/markets/ETH-BTC/orders", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("level"); got != "3" {
			t.Errorf("level = %q, want 3", got)
		}
		writeJSON(w, `{"data":{
			"bids":[{"price":"0.030","size":"1"},{"price":"0.031","size":"2"},{"price":"0.029","size":"3"}],
			"asks":[{"price":"0.034","size":"1"},{"price":"0.032","size":"2"}]
		}}`)
	})
	c := newTestCoinFalcon(t, mux)

	book, err := c.FetchOrderBook(context.Background(), "ETH/BTC", option.WithLimit(2))
	if err != nil {
		t.Fatalf("FetchOrderBook() error = %v", err)
	}
	if len(book.Bids) != 2 || len(book.Asks) != 2 {
		t.Fatalf("book sizes = %d/%d, want 2/2", len(book.Bids), len(book.Asks))
	}
	if !book.Bids[0].Price.Equal(decimal.RequireFromString("0.031")) {
		t.Errorf("best bid = %s, want 0.031", book.Bids[0].Price)
	}
	if !book.Asks[0].Price.Equal(decimal.RequireFromString("0.032")) {
		t.Errorf("best ask = %s, want 0.032", book.Asks[0].Price)
	}
}

func TestCoinFalcon_FetchTrades_Cost(t *testing.T) {
	mux := marketsMux()
	mux.HandleFunc("/api/v1/markets/ETH-BTC/trades", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"data":[
			{"id":"5ec36295-5c8d-4874-8d66-2609d4938557","price":"0.0315","size":"2.5","market_name":"ETH-BTC","side":"buy","created_at":"2018-06-14T10:21:34.321Z"},
			{"id":"8a7c0b13-2f48-4f8c-9d2a-5d07e1b2f8d1","price":"0.03333","size":"0.3","market_name":"ETH-BTC","side":"sell","created_at":"2018-06-14T10:22:00.000Z"}
		]}`)
	})
	c := newTestCoinFalcon(t, mux)

	trades, err := c.FetchTrades(context.Background(), "ETH/BTC")
	if err != nil {
		t.Fatalf("FetchTrades() error = %v", err)
	}
	if len(trades) != 2 {
		t.Fatalf("FetchTrades() len = %d, want 2", len(trades))
	}
	want := []string{"0.07875", "0.009999"}
	for i, tr := range trades {
		if !tr.Cost.Decimal.Equal(decimal.RequireFromString(want[i])) {
			t.Errorf("trade %d cost = %s, want %s", i, tr.Cost, want[i])
		}
		diff := tr.Price.Decimal.Mul(tr.Amount.Decimal).Sub(tr.Cost.Decimal).Abs()
		if diff.GreaterThan(decimal.New(1, -6)) {
			t.Errorf("trade %d cost %s too far from price*amount", i, tr.Cost)
		}
	}
	if trades[0].Timestamp.Millis() != 1528971694321 {
		t.Errorf("timestamp = %d, want 1528971694321", trades[0].Timestamp.Millis())
	}
}

func TestCoinFalcon_FetchBalance(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/user/accounts", func(w http.ResponseWriter, r *http.Request) {
		verifySign(t, r)
		writeJSON(w, `{"data":[
			{"id":"1b8fd6ec-8d4f-4ab0-a8b5-d1b3f5e1a9f9","balance":"1.5","available_balance":"1.2","hold_balance":"0.3","currency_code":"btc","currency_name":"Bitcoin"},
			{"id":"2c9fe7fd-9e5a-4bc1-b9c6-e2c4a6f2bafa","balance":"10.0","available_balance":"10.0","hold_balance":"0.0","currency_code":"eth","currency_name":"Ethereum"}
		]}`)
	})
	c := newTestCoinFalcon(t, mux, withCredentials()...)

	sheet, err := c.FetchBalance(context.Background())
	if err != nil {
		t.Fatalf("FetchBalance() error = %v", err)
	}
	if len(sheet.Balances) != 2 {
		t.Fatalf("balances len = %d, want 2", len(sheet.Balances))
	}
	for code, bal := range sheet.Balances {
		if !bal.Consistent(decimal.New(1, -8)) {
			t.Errorf("%s balance inconsistent: %+v", code, bal)
		}
	}
}

func TestCoinFalcon_MissingSecret_NoRequest(t *testing.T) {
	var hits int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		writeJSON(w, `{"data":[]}`)
	})
	c := newTestCoinFalcon(t, h, option.WithAPIKey(testKey))

	_, err := c.FetchBalance(context.Background())
	if !errors.Is(err, errs.MissingCredentials) {
		t.Fatalf("FetchBalance() error = %v, want MissingCredentials", err)
	}
	if n := atomic.LoadInt32(&hits); n != 0 {
		t.Errorf("requests = %d, want 0", n)
	}
}

func TestCoinFalcon_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, errs.AuthenticationError},
		{"rate limited", http.StatusTooManyRequests, errs.DDoSProtection},
		{"rate limited is network", http.StatusTooManyRequests, errs.NetworkError},
		{"server error", http.StatusInternalServerError, errs.ExchangeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/api/v1/user/accounts", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":"nope"}`))
			})
			c := newTestCoinFalcon(t, mux, withCredentials()...)

			_, err := c.FetchBalance(context.Background())
			if !errors.Is(err, tt.want) {
				t.Fatalf("FetchBalance() error = %v, want %v", err, tt.want)
			}
			var e *errs.Error
			if !errors.As(err, &e) || e.HTTP != tt.status {
				t.Errorf("error = %#v, want HTTP %d", e, tt.status)
			}
		})
	}
}

func TestCoinFalcon_CreateOrder(t *testing.T) {
	mux := marketsMux()
	mux.HandleFunc("/api/v1/user/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		raw := verifySign(t, r)
		var body map[string]any
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("decode body error = %v", err)
		}
		want := map[string]any{
			"market":         "ETH-BTC",
			"size":           "1.50000000",
			"price":          "0.031500",
			"order_type":     "buy",
			"operation_type": "limit_order",
		}
		for k, v := range want {
			if body[k] != v {
				t.Errorf("body[%s] = %v, want %v", k, body[k], v)
			}
		}
		writeJSON(w, `{"data":{"id":"8bdd79f4-8414-40a2-90c3-e9f4d6d1eef4","market":"ETH-BTC","price":"0.0315","size":"1.5","size_filled":"0.5","fee":"0.0","fee_currency_code":"eth","funds":"0.0","status":"partially_filled","order_type":"buy","post_only":false,"operation_type":"limit_order","created_at":"2018-06-14T10:21:34.321Z"}}`)
	})
	c := newTestCoinFalcon(t, mux, withCredentials()...)

	order, err := c.CreateOrder(context.Background(), "ETH/BTC", model.OrderSideBuy, model.OrderTypeLimit, "1.5",
		option.WithPrice("0.0315"))
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if order.Status != model.OrderStatusOpen || order.Type != model.OrderTypeLimit || order.Side != model.OrderSideBuy {
		t.Errorf("order = %+v", order)
	}
	if !order.Remaining.Decimal.Equal(decimal.NewFromInt(1)) {
		t.Errorf("remaining = %s, want 1", order.Remaining)
	}
	if !order.Remaining.Decimal.Equal(order.Amount.Decimal.Sub(order.Filled.Decimal)) {
		t.Errorf("remaining %s != amount %s - filled %s", order.Remaining, order.Amount, order.Filled)
	}
	if !order.Cost.Decimal.Equal(decimal.RequireFromString("0.01575")) {
		t.Errorf("cost = %s, want 0.01575", order.Cost)
	}
	if cached, ok := c.Orders.Get(order.ID); !ok || cached != order {
		t.Error("created order not cached")
	}
}

func TestCoinFalcon_FetchOpenOrders(t *testing.T) {
	mux := marketsMux()
	mux.HandleFunc("/api/v1/user/orders", func(w http.ResponseWriter, r *http.Request) {
		verifySign(t, r)
		if got := r.URL.Query().Get("market"); got != "BTC-EUR" {
			t.Errorf("market = %q, want BTC-EUR", got)
		}
		writeJSON(w, `{"data":[{"id":"a1","market":"BTC-EUR","price":"6000.00","size":"0.2","size_filled":"0.0","status":"open","order_type":"sell","operation_type":"limit_order","created_at":"2018-06-14T10:21:34.321Z"}]}`)
	})
	c := newTestCoinFalcon(t, mux, withCredentials()...)

	orders, err := c.FetchOpenOrders(context.Background(), "BTC/EUR")
	if err != nil {
		t.Fatalf("FetchOpenOrders() error = %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("FetchOpenOrders() len = %d, want 1", len(orders))
	}
	o := orders[0]
	if o.Symbol != "BTC/EUR" || o.Side != model.OrderSideSell || !o.Remaining.Decimal.Equal(decimal.RequireFromString("0.2")) {
		t.Errorf("order = %+v", o)
	}
}

func TestCoinFalcon_FetchMyTrades(t *testing.T) {
	mux := marketsMux()
	mux.HandleFunc("/api/v1/user/trades", func(w http.ResponseWriter, r *http.Request) {
		verifySign(t, r)
		q := r.URL.Query()
		if q.Get("market") != "ETH-BTC" || q.Get("limit") != "10" {
			t.Errorf("query = %v", q)
		}
		writeJSON(w, `{"data":[{"id":"t1","order_id":"o1","price":"0.0315","size":"2.0","side":"sell","fee":"0.000126","created_at":"2018-06-14T10:21:34.321Z"}]}`)
	})
	c := newTestCoinFalcon(t, mux, withCredentials()...)
	ctx := context.Background()

	if _, err := c.FetchMyTrades(ctx, ""); !errors.Is(err, errs.ArgumentsRequired) {
		t.Errorf("FetchMyTrades(\"\") error = %v, want ArgumentsRequired", err)
	}

	trades, err := c.FetchMyTrades(ctx, "ETH/BTC", option.WithLimit(10))
	if err != nil {
		t.Fatalf("FetchMyTrades() error = %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("FetchMyTrades() len = %d, want 1", len(trades))
	}
	tr := trades[0]
	if tr.Order != "o1" || tr.Fee == nil || !tr.Fee.Cost.Decimal.Equal(decimal.RequireFromString("0.000126")) {
		t.Errorf("trade = %+v", tr)
	}
	if !tr.Cost.Decimal.Equal(decimal.RequireFromString("0.063")) {
		t.Errorf("cost = %s, want 0.063", tr.Cost)
	}
}
