package lbank

import (
	"context"
	"crypto"
	"crypto/md5"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lemconn/venuelink/errs"
	"github.com/lemconn/venuelink/logger"
	"github.com/lemconn/venuelink/model"
	"github.com/lemconn/venuelink/option"
)

const accuracyBody = `[
	{"symbol":"eth_btc","quantityAccuracy":"4","priceAccuracy":"6"},
	{"symbol":"vet_erc20_usdt","quantityAccuracy":"2","priceAccuracy":"4"}
]`

var (
	testKeyOnce sync.Once
	testKey     *rsa.PrivateKey
)

// rsaSecret 生成 PKCS#8 私钥并返回去掉 PEM 标记的 base64 文本
func rsaSecret(t *testing.T) (string, *rsa.PrivateKey) {
	t.Helper()
	testKeyOnce.Do(func() {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			t.Fatalf("GenerateKey() error = %v", err)
		}
		testKey = key
	})
	der, err := x509.MarshalPKCS8PrivateKey(testKey)
	if err != nil {
		t.Fatalf("MarshalPKCS8PrivateKey() error = %v", err)
	}
	return base64.StdEncoding.EncodeToString(der), testKey
}

// verifySign 按排序后的原始参数校验 sign
func verifySign(r *http.Request, pub *rsa.PublicKey) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	sig, err := base64.StdEncoding.DecodeString(r.PostForm.Get("sign"))
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(r.PostForm))
	for k := range r.PostForm {
		if k != "sign" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+r.PostForm.Get(k))
	}
	digest := md5.Sum([]byte(strings.Join(parts, "&")))
	sum := sha256.Sum256([]byte(strings.ToUpper(hex.EncodeToString(digest[:]))))
	return rsa.VerifyPKCS1v15(pub, crypto.SHA256, sum[:], sig)
}

func newTestLBank(t *testing.T, h http.Handler, opts ...option.Option) *LBank {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	all := append([]option.Option{
		option.WithBaseURL(srv.URL),
		option.WithRateLimit(-1),
		option.WithLogger(logger.Discard().WithComponent(lbankID)),
	}, opts...)
	ex, err := NewLBank(all...)
	if err != nil {
		t.Fatalf("NewLBank() error = %v", err)
	}
	return ex.(*LBank)
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func TestLBank_FetchMarkets(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/accuracy.do", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, accuracyBody)
	})
	l := newTestLBank(t, mux)
	ctx := context.Background()

	first, err := l.FetchMarkets(ctx)
	if err != nil {
		t.Fatalf("FetchMarkets() error = %v", err)
	}
	second, err := l.FetchMarkets(ctx)
	if err != nil {
		t.Fatalf("FetchMarkets() error = %v", err)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("FetchMarkets() len = %d, %d, want 2", len(first), len(second))
	}
	for i := range first {
		if first[i].Symbol != second[i].Symbol || first[i].ID != second[i].ID {
			t.Errorf("FetchMarkets() not idempotent: %s/%s vs %s/%s", first[i].ID, first[i].Symbol, second[i].ID, second[i].Symbol)
		}
	}

	eth := first[0]
	if eth.Symbol != "ETH/BTC" || eth.Precision.Amount != 4 || eth.Precision.Price != 6 {
		t.Errorf("market = %+v", eth)
	}
	if !eth.Limits.Amount.Min.Decimal.Equal(decimal.RequireFromString("0.0001")) {
		t.Errorf("amount min = %s, want 0.0001", eth.Limits.Amount.Min)
	}
	if !eth.Limits.Price.Max.Decimal.Equal(decimal.NewFromInt(1000000)) {
		t.Errorf("price max = %s, want 1000000", eth.Limits.Price.Max)
	}

	vet := first[1]
	if vet.Symbol != "VEN/USDT" || vet.BaseID != "vet_erc20" {
		t.Errorf("aliased market = %s base %s, want VEN/USDT base vet_erc20", vet.Symbol, vet.BaseID)
	}
}

func TestLBank_FetchTicker(t *testing.T) {
	tests := []struct {
		name       string
		change     string
		wantOpen   string
		wantChange string
	}{
		{name: "rising", change: "5", wantOpen: "1", wantChange: "1.05"},
		{name: "collapsed", change: "-100", wantOpen: "", wantChange: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/v1/accuracy.do", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, accuracyBody)
			})
			mux.HandleFunc("/v1/ticker.do", func(w http.ResponseWriter, r *http.Request) {
				if got := r.URL.Query().Get("symbol"); got != "eth_btc" {
					t.Errorf("symbol = %q, want eth_btc", got)
				}
				writeJSON(w, `{"symbol":"eth_btc","timestamp":1546588466386,"ticker":{"change":"`+tt.change+
					`","high":"2.2","latest":"2.05","low":"1.9","turnover":"120.5","vol":"60"}}`)
			})
			l := newTestLBank(t, mux)

			ticker, err := l.FetchTicker(context.Background(), "ETH/BTC")
			if err != nil {
				t.Fatalf("FetchTicker() error = %v", err)
			}
			if ticker.Symbol != "ETH/BTC" || ticker.Last.String() != "2.05" || ticker.Close.String() != "2.05" {
				t.Errorf("ticker = %s last %s close %s", ticker.Symbol, ticker.Last, ticker.Close)
			}
			if ticker.Percentage.String() != tt.change {
				t.Errorf("Percentage = %s, want %s", ticker.Percentage, tt.change)
			}
			if ticker.Open.String() != tt.wantOpen {
				t.Errorf("Open = %q, want %q", ticker.Open, tt.wantOpen)
			}
			if ticker.Change.String() != tt.wantChange {
				t.Errorf("Change = %q, want %q", ticker.Change, tt.wantChange)
			}
			if ticker.Timestamp.Millis() != 1546588466386 {
				t.Errorf("Timestamp = %d", ticker.Timestamp.Millis())
			}
		})
	}
}

func TestLBank_FetchTickers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/accuracy.do", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, accuracyBody)
	})
	mux.HandleFunc("/v1/ticker.do", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("symbol"); got != "all" {
			t.Errorf("symbol = %q, want all", got)
		}
		writeJSON(w, `[
			{"symbol":"eth_btc","timestamp":1546588466386,"ticker":{"change":"0","latest":"0.03"}},
			{"symbol":"vet_erc20_usdt","timestamp":1546588466386,"ticker":{"change":"1","latest":"0.005"}}
		]`)
	})
	l := newTestLBank(t, mux)

	all, err := l.FetchTickers(context.Background())
	if err != nil {
		t.Fatalf("FetchTickers() error = %v", err)
	}
	if len(all) != 2 || all["VEN/USDT"] == nil {
		t.Fatalf("FetchTickers() = %v, want ETH/BTC and VEN/USDT", all)
	}

	some, err := l.FetchTickers(context.Background(), "ETH/BTC")
	if err != nil {
		t.Fatalf("FetchTickers() error = %v", err)
	}
	if len(some) != 1 || some["ETH/BTC"] == nil {
		t.Errorf("FetchTickers(ETH/BTC) = %v", some)
	}
}

func TestLBank_FetchTrades_Cost(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/accuracy.do", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, accuracyBody)
	})
	mux.HandleFunc("/v1/trades.do", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("size"); got != "2" {
			t.Errorf("size = %q, want 2", got)
		}
		writeJSON(w, `[
			{"date_ms":1546588466000,"amount":"2","price":"0.0123456","type":"buy","tid":"t1"},
			{"date_ms":1546588467000,"amount":"0.5","price":"0.02","type":"sell","tid":"t2"}
		]`)
	})
	l := newTestLBank(t, mux)

	trades, err := l.FetchTrades(context.Background(), "ETH/BTC", option.WithLimit(2))
	if err != nil {
		t.Fatalf("FetchTrades() error = %v", err)
	}
	if len(trades) != 2 {
		t.Fatalf("FetchTrades() len = %d, want 2", len(trades))
	}
	for _, tr := range trades {
		want := tr.Price.Decimal.Mul(tr.Amount.Decimal).Round(6)
		if !tr.Cost.Decimal.Equal(want) {
			t.Errorf("trade %s cost = %s, want %s", tr.ID, tr.Cost, want)
		}
	}
	if trades[0].Side != model.OrderSideBuy || trades[0].Cost.String() != "0.024691" {
		t.Errorf("trade[0] = %s %s", trades[0].Side, trades[0].Cost)
	}
}

func TestLBank_FetchOrderBook(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/accuracy.do", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, accuracyBody)
	})
	mux.HandleFunc("/v1/depth.do", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("size"); got != "60" {
			t.Errorf("size = %q, want capped 60", got)
		}
		writeJSON(w, `{"asks":[[0.032,1],[0.031,2]],"bids":[[0.029,3],[0.030,4]]}`)
	})
	l := newTestLBank(t, mux)

	book, err := l.FetchOrderBook(context.Background(), "ETH/BTC", option.WithLimit(500))
	if err != nil {
		t.Fatalf("FetchOrderBook() error = %v", err)
	}
	if book.Bids[0].Price.String() != "0.03" || book.Asks[0].Price.String() != "0.031" {
		t.Errorf("best bid/ask = %s/%s, want 0.03/0.031", book.Bids[0].Price, book.Asks[0].Price)
	}
}

func TestLBank_FetchOHLCV(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/accuracy.do", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, accuracyBody)
	})
	mux.HandleFunc("/v1/kline.do", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("type") != "hour1" || q.Get("time") != "1546588800" || q.Get("size") != "1000" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		writeJSON(w, `[[1546592400,0.03,0.032,0.029,0.031,10],[1546588800,0.029,0.03,0.028,0.03,5]]`)
	})
	l := newTestLBank(t, mux)
	ctx := context.Background()

	_, err := l.FetchOHLCV(ctx, "ETH/BTC", "1h")
	if !errors.Is(err, errs.ArgumentsRequired) {
		t.Fatalf("FetchOHLCV() without since error = %v, want ArgumentsRequired", err)
	}

	candles, err := l.FetchOHLCV(ctx, "ETH/BTC", "1h", option.WithSince(time.UnixMilli(1546588800000)))
	if err != nil {
		t.Fatalf("FetchOHLCV() error = %v", err)
	}
	if len(candles) != 2 || candles[0].Timestamp.Millis() != 1546588800000 {
		t.Fatalf("FetchOHLCV() = %v", candles)
	}
}

func TestLBank_FetchBalance_Signed(t *testing.T) {
	secret, key := rsaSecret(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/user_info.do", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := verifySign(r, &key.PublicKey); err != nil {
			t.Errorf("signature verify error = %v", err)
		}
		if got := r.PostForm.Get("api_key"); got != "key" {
			t.Errorf("api_key = %q", got)
		}
		writeJSON(w, `{"result":"true","info":{
			"freeze":{"btc":"0.5","eth":"0"},
			"asset":{"btc":"1.5","eth":"2"},
			"free":{"btc":"1.0","eth":"2"}}}`)
	})
	l := newTestLBank(t, mux, option.WithAPIKey("key"), option.WithSecretKey(secret))

	sheet, err := l.FetchBalance(context.Background())
	if err != nil {
		t.Fatalf("FetchBalance() error = %v", err)
	}
	tol := decimal.RequireFromString("0.00000001")
	btc := sheet.Balances.GetBalance("BTC")
	if btc.Total.String() != "1.5" || !btc.Consistent(tol) {
		t.Errorf("BTC balance = %+v", btc)
	}
	if !sheet.Balances.GetBalance("ETH").Consistent(tol) {
		t.Errorf("ETH balance inconsistent")
	}
}

func TestLBank_MissingSecret_NoRequest(t *testing.T) {
	var hits atomic.Int32
	l := newTestLBank(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, `{"result":"true"}`)
	}), option.WithAPIKey("key"))

	_, err := l.FetchBalance(context.Background())
	if !errors.Is(err, errs.AuthenticationError) {
		t.Fatalf("FetchBalance() error = %v, want AuthenticationError", err)
	}
	if hits.Load() != 0 {
		t.Errorf("server hits = %d, want 0", hits.Load())
	}
}

func TestLBank_ErrorMapping(t *testing.T) {
	secret, _ := rsaSecret(t)
	tests := []struct {
		code    string
		want    errs.Kind
		message string
	}{
		{code: "10007", want: errs.AuthenticationError, message: "Invalid signature"},
		{code: "10004", want: errs.DDoSProtection, message: "User requests are too frequent"},
		{code: "10016", want: errs.InvalidOrder, message: "Account balance is not enough"},
		{code: "10017", want: errs.ExchangeError, message: "Abnormal server"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			l := newTestLBank(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, `{"result":false,"error_code":`+tt.code+`}`)
			}), option.WithAPIKey("key"), option.WithSecretKey(secret))

			_, err := l.FetchBalance(context.Background())
			var e *errs.Error
			if !errors.As(err, &e) {
				t.Fatalf("FetchBalance() error = %v, want *errs.Error", err)
			}
			if e.Kind != tt.want || e.Code != tt.code || e.Message != tt.message {
				t.Errorf("error = %s/%s/%q, want %s/%s/%q", e.Kind, e.Code, e.Message, tt.want, tt.code, tt.message)
			}
		})
	}
}

func TestLBank_CreateAndFetchOrder(t *testing.T) {
	secret, key := rsaSecret(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/accuracy.do", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, accuracyBody)
	})
	mux.HandleFunc("/v1/create_order.do", func(w http.ResponseWriter, r *http.Request) {
		if err := verifySign(r, &key.PublicKey); err != nil {
			t.Errorf("signature verify error = %v", err)
		}
		f := r.PostForm
		if f.Get("type") != "buy" || f.Get("price") != "0.031235" || f.Get("amount") != "1.5000" {
			t.Errorf("form = %v", f)
		}
		writeJSON(w, `{"result":"true","order_id":"o-1"}`)
	})
	mux.HandleFunc("/v1/orders_info.do", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"result":"true","orders":[{"symbol":"eth_btc","amount":"1.5","create_time":1546588466000,
			"price":"0.031235","avg_price":"0.03","type":"buy","order_id":"o-1","deal_amount":"1","status":1}]}`)
	})
	l := newTestLBank(t, mux, option.WithAPIKey("key"), option.WithSecretKey(secret))
	ctx := context.Background()

	order, err := l.CreateOrder(ctx, "ETH/BTC", model.OrderSideBuy, model.OrderTypeLimit, "1.5",
		option.WithPrice("0.0312345"))
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if order.ID != "o-1" || order.Status != model.OrderStatusOpen || order.Remaining.String() != "1.5" {
		t.Errorf("CreateOrder() = %+v", order)
	}
	if _, ok := l.Orders.Get("o-1"); !ok {
		t.Errorf("order not cached")
	}

	fetched, err := l.FetchOrder(ctx, "o-1", "ETH/BTC")
	if err != nil {
		t.Fatalf("FetchOrder() error = %v", err)
	}
	if fetched.Status != model.OrderStatusOpen || fetched.Remaining.String() != "0.5" || fetched.Cost.String() != "0.03" {
		t.Errorf("FetchOrder() = status %s remaining %s cost %s", fetched.Status, fetched.Remaining, fetched.Cost)
	}
	if !fetched.Remaining.Decimal.Equal(fetched.Amount.Decimal.Sub(fetched.Filled.Decimal)) {
		t.Errorf("remaining != amount - filled")
	}
}

func TestLBank_FetchOrder_NotFound(t *testing.T) {
	secret, _ := rsaSecret(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/accuracy.do", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, accuracyBody)
	})
	mux.HandleFunc("/v1/orders_info.do", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"result":"true","orders":[]}`)
	})
	l := newTestLBank(t, mux, option.WithAPIKey("key"), option.WithSecretKey(secret))

	_, err := l.FetchOrder(context.Background(), "missing", "ETH/BTC")
	if !errors.Is(err, errs.OrderNotFound) {
		t.Fatalf("FetchOrder() error = %v, want OrderNotFound", err)
	}
	if _, err := l.CancelOrder(context.Background(), "x", ""); !errors.Is(err, errs.ArgumentsRequired) {
		t.Errorf("CancelOrder() without symbol error = %v, want ArgumentsRequired", err)
	}
}

func TestLBank_FetchClosedOrders(t *testing.T) {
	secret, _ := rsaSecret(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/accuracy.do", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, accuracyBody)
	})
	mux.HandleFunc("/v1/orders_info_history.do", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostForm.Get("page_length") != "100" || r.PostForm.Get("current_page") != "1" {
			t.Errorf("form = %v", r.PostForm)
		}
		writeJSON(w, `{"result":"true","orders":[
			{"symbol":"eth_btc","order_id":"a","status":2,"amount":"1","deal_amount":"1","type":"sell"},
			{"symbol":"eth_btc","order_id":"b","status":0,"amount":"1","deal_amount":"0","type":"buy"},
			{"symbol":"eth_btc","order_id":"c","status":-1,"amount":"1","deal_amount":"0.2","type":"buy_market"}
		]}`)
	})
	l := newTestLBank(t, mux, option.WithAPIKey("key"), option.WithSecretKey(secret))

	orders, err := l.FetchClosedOrders(context.Background(), "ETH/BTC")
	if err != nil {
		t.Fatalf("FetchClosedOrders() error = %v", err)
	}
	if len(orders) != 2 || orders[0].ID != "a" || orders[1].ID != "c" {
		t.Fatalf("FetchClosedOrders() = %d orders", len(orders))
	}
	if orders[1].Type != model.OrderTypeMarket || orders[1].Side != model.OrderSideBuy {
		t.Errorf("market order parsed as %s %s", orders[1].Type, orders[1].Side)
	}
}

func TestLBank_Withdraw(t *testing.T) {
	secret, key := rsaSecret(t)
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/withdraw.do", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if err := verifySign(r, &key.PublicKey); err != nil {
			t.Errorf("signature verify error = %v", err)
		}
		f := r.PostForm
		if f.Get("assetCode") != "eos" || f.Get("amount") != "12.5" || f.Get("account") != "eosaccount" || f.Get("memo") != "m-1" {
			t.Errorf("form = %v", f)
		}
		writeJSON(w, `{"result":"true","withdrawId":90082,"fee":0.001}`)
	})
	l := newTestLBank(t, mux, option.WithAPIKey("key"), option.WithSecretKey(secret))
	ctx := context.Background()

	tx, err := l.Withdraw(ctx, "EOS", "12.5", "eosaccount", option.WithTag("m-1"))
	if err != nil {
		t.Fatalf("Withdraw() error = %v", err)
	}
	if tx.ID != "90082" || tx.Type != model.TransactionWithdrawal || tx.Status != model.TransactionPending || tx.Tag != "m-1" {
		t.Errorf("Withdraw() = %+v", tx)
	}

	tests := []struct {
		name    string
		amount  string
		address string
		kind    errs.Kind
	}{
		{"missing address", "1", "", errs.ArgumentsRequired},
		{"zero amount", "0", "eosaccount", errs.InvalidOrder},
		{"bad amount", "abc", "eosaccount", errs.InvalidOrder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := l.Withdraw(ctx, "EOS", tt.amount, tt.address); !errors.Is(err, tt.kind) {
				t.Errorf("Withdraw() error = %v, want %s", err, tt.kind)
			}
		})
	}
	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1", hits.Load())
	}
}
