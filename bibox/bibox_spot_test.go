package bibox

import (
	"context"
	"crypto/hmac"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/lemconn/venuelink/errs"
	"github.com/lemconn/venuelink/logger"
	"github.com/lemconn/venuelink/model"
	"github.com/lemconn/venuelink/option"
)

const (
	testKey    = "bibox-key"
	testSecret = "bibox-secret"
)

const marketAllBody = `{"result":[
	{"id":1,"coin_symbol":"BIX","currency_symbol":"BTC","last":"0.00002080","high":"0.00002140","low":"0.00002010","change":"+0.00000020","percent":"+0.97%","vol24H":"641954","amount":"13.48","timestamp":1547546988399},
	{"id":2,"coin_symbol":"ETH","currency_symbol":"USDT","last":"120.5","high":"125","low":"118","change":"-1.5","percent":"-1.23%","vol24H":"5000","amount":"602500","timestamp":1547546988399}
],"cmd":"marketAll"}`

// biboxRequest 私有请求体
type biboxRequest struct {
	Cmds   string `json:"cmds"`
	APIKey string `json:"apikey"`
	Sign   string `json:"sign"`
}

// decodeCommand 校验签名并解出 cmds 中的唯一命令
func decodeCommand(t *testing.T, r *http.Request) biboxCommand {
	t.Helper()
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("read body error = %v", err)
	}
	var req biboxRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		t.Fatalf("decode body %s error = %v", raw, err)
	}
	if req.APIKey != testKey {
		t.Errorf("apikey = %q, want %q", req.APIKey, testKey)
	}
	mac := hmac.New(md5.New, []byte(testSecret))
	mac.Write([]byte(req.Cmds))
	if want := hex.EncodeToString(mac.Sum(nil)); req.Sign != want {
		t.Errorf("sign = %q, want %q", req.Sign, want)
	}
	var cmds []biboxCommand
	if err := json.Unmarshal([]byte(req.Cmds), &cmds); err != nil {
		t.Fatalf("decode cmds %s error = %v", req.Cmds, err)
	}
	if len(cmds) != 1 {
		t.Fatalf("cmds len = %d, want 1", len(cmds))
	}
	return cmds[0]
}

// privateResult 私有接口的成功响应
func privateResult(cmd, result string) string {
	return `{"result":[{"result":` + result + `,"cmd":"` + cmd + `"}]}`
}

func newTestBibox(t *testing.T, h http.Handler, opts ...option.Option) *Bibox {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	all := append([]option.Option{
		option.WithBaseURL(srv.URL),
		option.WithRateLimit(-1),
		option.WithLogger(logger.Discard().WithComponent(biboxID)),
	}, opts...)
	ex, err := NewBibox(all...)
	if err != nil {
		t.Fatalf("NewBibox() error = %v", err)
	}
	return ex.(*Bibox)
}

func withCredentials() []option.Option {
	return []option.Option{option.WithAPIKey(testKey), option.WithSecretKey(testSecret)}
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

// mdataHandler 按 cmd 分发公共接口
func mdataHandler(t *testing.T, bodies map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd := r.URL.Query().Get("cmd")
		body, ok := bodies[cmd]
		if !ok {
			t.Errorf("unexpected cmd %q", cmd)
			http.NotFound(w, r)
			return
		}
		writeJSON(w, body)
	}
}

func TestBibox_FetchMarkets(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/mdata", mdataHandler(t, map[string]string{"marketAll": marketAllBody}))
	b := newTestBibox(t, mux)
	ctx := context.Background()

	first, err := b.FetchMarkets(ctx)
	if err != nil {
		t.Fatalf("FetchMarkets() error = %v", err)
	}
	second, err := b.FetchMarkets(ctx)
	if err != nil {
		t.Fatalf("FetchMarkets() error = %v", err)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("FetchMarkets() len = %d, %d, want 2", len(first), len(second))
	}
	for i := range first {
		if first[i].Symbol != second[i].Symbol || first[i].ID != second[i].ID {
			t.Errorf("FetchMarkets() not idempotent: %s vs %s", first[i].Symbol, second[i].Symbol)
		}
	}

	bix := first[0]
	if bix.ID != "BIX_BTC" || bix.Symbol != "BIX/BTC" {
		t.Errorf("market = %s %s, want BIX_BTC BIX/BTC", bix.ID, bix.Symbol)
	}
	if bix.Precision.Amount != 4 || bix.Precision.Price != 8 {
		t.Errorf("precision = %+v, want amount 4 price 8", bix.Precision)
	}
	if bix.NumericID == nil || *bix.NumericID != 1 {
		t.Errorf("numeric id = %v, want 1", bix.NumericID)
	}
	if !bix.Limits.Amount.Min.Decimal.Equal(decimal.RequireFromString("0.0001")) {
		t.Errorf("amount min = %s, want 0.0001", bix.Limits.Amount.Min)
	}
}

func TestBibox_FetchTicker(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/mdata", mdataHandler(t, map[string]string{
		"marketAll": marketAllBody,
		"ticker":    `{"result":{"pair":"BIX_BTC","last":"0.00002080","high":"0.00002140","low":"0.00002010","buy":"0.00002077","sell":"0.00002085","change":"+0.00000020","percent":"+0.97%","vol":"641954","amount":"13.48","timestamp":1547546988399},"cmd":"ticker"}`,
	}))
	b := newTestBibox(t, mux)

	ticker, err := b.FetchTicker(context.Background(), "BIX/BTC")
	if err != nil {
		t.Fatalf("FetchTicker() error = %v", err)
	}
	if ticker.Symbol != "BIX/BTC" {
		t.Errorf("symbol = %s, want BIX/BTC", ticker.Symbol)
	}
	if !ticker.Open.Decimal.Equal(decimal.RequireFromString("0.0000206")) {
		t.Errorf("open = %s, want 0.0000206", ticker.Open)
	}
	if !ticker.Percentage.Decimal.Equal(decimal.RequireFromString("0.97")) {
		t.Errorf("percentage = %s, want 0.97", ticker.Percentage)
	}
	if !ticker.BaseVolume.Decimal.Equal(decimal.NewFromInt(641954)) {
		t.Errorf("base volume = %s, want 641954", ticker.BaseVolume)
	}
}

func TestBibox_FetchTickers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/mdata", mdataHandler(t, map[string]string{"marketAll": marketAllBody}))
	b := newTestBibox(t, mux)

	tickers, err := b.FetchTickers(context.Background(), "ETH/USDT")
	if err != nil {
		t.Fatalf("FetchTickers() error = %v", err)
	}
	if len(tickers) != 1 {
		t.Fatalf("FetchTickers() len = %d, want 1", len(tickers))
	}
	eth := tickers["ETH/USDT"]
	if eth == nil {
		t.Fatal("missing ETH/USDT")
	}
	if !eth.Open.Decimal.Equal(decimal.NewFromInt(122)) {
		t.Errorf("open = %s, want 122", eth.Open)
	}
	if !eth.BaseVolume.Decimal.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("base volume = %s, want 5000 from vol24H", eth.BaseVolume)
	}
}

func TestBibox_FetchOrderBook(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/mdata", mdataHandler(t, map[string]string{
		"marketAll": marketAllBody,
		"depth": `{"result":{"pair":"BIX_BTC","update_time":1547546988399,
			"bids":[{"price":"0.0000207","volume":"10"},{"price":"0.0000208","volume":"5"}],
			"asks":[{"price":"0.0000212","volume":"3"},{"price":"0.0000209","volume":"7"}]},"cmd":"depth"}`,
	}))
	b := newTestBibox(t, mux)

	book, err := b.FetchOrderBook(context.Background(), "BIX/BTC", option.WithLimit(2))
	if err != nil {
		t.Fatalf("FetchOrderBook() error = %v", err)
	}
	if len(book.Bids) != 2 || len(book.Asks) != 2 {
		t.Fatalf("book = %d bids %d asks, want 2 and 2", len(book.Bids), len(book.Asks))
	}
	if !book.Bids[0].Price.GreaterThan(book.Bids[1].Price) {
		t.Errorf("bids not descending: %s, %s", book.Bids[0].Price, book.Bids[1].Price)
	}
	if !book.Asks[0].Price.LessThan(book.Asks[1].Price) {
		t.Errorf("asks not ascending: %s, %s", book.Asks[0].Price, book.Asks[1].Price)
	}
	if book.Timestamp.Millis() != 1547546988399 {
		t.Errorf("timestamp = %d", book.Timestamp.Millis())
	}
}

func TestBibox_FetchTrades_Cost(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/mdata", mdataHandler(t, map[string]string{
		"marketAll": marketAllBody,
		"deals":     `{"result":[{"pair":"BIX_BTC","price":"0.0000208","amount":"1000","time":1547546988399,"side":1,"id":"7"}],"cmd":"deals"}`,
	}))
	b := newTestBibox(t, mux)

	trades, err := b.FetchTrades(context.Background(), "BIX/BTC")
	if err != nil {
		t.Fatalf("FetchTrades() error = %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("FetchTrades() len = %d, want 1", len(trades))
	}
	trade := trades[0]
	if trade.Side != model.OrderSideBuy || trade.Symbol != "BIX/BTC" {
		t.Errorf("trade = %+v", trade)
	}
	if !trade.Cost.Decimal.Equal(decimal.RequireFromString("0.0208")) {
		t.Errorf("cost = %s, want 0.0208", trade.Cost)
	}
}

func TestBibox_FetchBalance(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/transfer", func(w http.ResponseWriter, r *http.Request) {
		cmd := decodeCommand(t, r)
		if cmd.Cmd != "transfer/assets" {
			t.Errorf("cmd = %s, want transfer/assets", cmd.Cmd)
		}
		writeJSON(w, privateResult(cmd.Cmd, `{"total_btc":"0.1","assets_list":[
			{"coin_symbol":"BTC","balance":"0.09","freeze":"0.01"},
			{"coin_symbol":"PAI","balance":"100","freeze":"0"}
		]}`))
	})
	b := newTestBibox(t, mux, withCredentials()...)

	sheet, err := b.FetchBalance(context.Background())
	if err != nil {
		t.Fatalf("FetchBalance() error = %v", err)
	}
	btc := sheet.Balances.GetBalance("BTC")
	if !btc.Total.Decimal.Equal(decimal.RequireFromString("0.1")) {
		t.Errorf("BTC total = %s, want 0.1", btc.Total)
	}
	for code, bal := range sheet.Balances {
		if !bal.Consistent(decimal.Zero) {
			t.Errorf("%s balance inconsistent: %+v", code, bal)
		}
	}
	if _, ok := sheet.Balances["PCHAIN"]; !ok {
		t.Errorf("PAI not mapped to PCHAIN: %v", sheet.Balances)
	}
}

func TestBibox_MissingSecret_NoRequest(t *testing.T) {
	var hits int32
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/transfer", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	})
	b := newTestBibox(t, mux, option.WithAPIKey(testKey))

	_, err := b.FetchBalance(context.Background())
	if !errors.Is(err, errs.MissingCredentials) {
		t.Fatalf("FetchBalance() error = %v, want MissingCredentials", err)
	}
	if n := atomic.LoadInt32(&hits); n != 0 {
		t.Errorf("server hits = %d, want 0", n)
	}
}

func TestBibox_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
		code string
	}{
		{"insufficient funds", `{"error":{"code":"2021","msg":"Insufficient balance"}}`, errs.InsufficientFunds, "2021"},
		{"nested order not found", `{"result":[{"error":{"code":"2033","msg":"completed"},"cmd":"transfer/assets"}]}`, errs.OrderNotFound, "2033"},
		{"rate limited", `{"error":{"code":"4003","msg":"server busy"}}`, errs.DDoSProtection, "4003"},
		{"unknown code", `{"error":{"code":"9999","msg":"boom"}}`, errs.ExchangeError, "9999"},
		{"missing result", `{"cmd":"transfer/assets"}`, errs.ExchangeError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/v1/transfer", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.body)
			})
			b := newTestBibox(t, mux, withCredentials()...)

			_, err := b.FetchBalance(context.Background())
			if !errors.Is(err, tt.want) {
				t.Fatalf("FetchBalance() error = %v, want %v", err, tt.want)
			}
			var exErr *errs.Error
			if !errors.As(err, &exErr) {
				t.Fatalf("error %T is not *errs.Error", err)
			}
			if exErr.Code != tt.code {
				t.Errorf("code = %q, want %q", exErr.Code, tt.code)
			}
		})
	}
}

func TestBibox_CreateOrder(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/mdata", mdataHandler(t, map[string]string{"marketAll": marketAllBody}))
	mux.HandleFunc("/v1/orderpending", func(w http.ResponseWriter, r *http.Request) {
		cmd := decodeCommand(t, r)
		if cmd.Cmd != "orderpending/trade" {
			t.Errorf("cmd = %s, want orderpending/trade", cmd.Cmd)
		}
		if cmd.Body["pair"] != "BIX_BTC" || cmd.Body["amount"] != "1000.0000" || cmd.Body["price"] != "0.00002080" {
			t.Errorf("body = %v", cmd.Body)
		}
		if side, _ := cmd.Body["order_side"].(float64); side != 1 {
			t.Errorf("order_side = %v, want 1", cmd.Body["order_side"])
		}
		writeJSON(w, privateResult(cmd.Cmd, `"100234"`))
	})
	b := newTestBibox(t, mux, withCredentials()...)

	order, err := b.CreateOrder(context.Background(), "BIX/BTC", model.OrderSideBuy, model.OrderTypeLimit, "1000",
		option.WithPrice("0.0000208"))
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if order.ID != "100234" || order.Status != model.OrderStatusOpen {
		t.Errorf("order = %+v", order)
	}
	cached, ok := b.Orders.Get("100234")
	if !ok || cached.Symbol != "BIX/BTC" {
		t.Errorf("order not cached: %+v", cached)
	}
}

func TestBibox_CreateMarketOrder_Rejected(t *testing.T) {
	var hits int32
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	})
	b := newTestBibox(t, mux, withCredentials()...)

	_, err := b.CreateOrder(context.Background(), "BIX/BTC", model.OrderSideBuy, model.OrderTypeMarket, "1")
	if !errors.Is(err, errs.InvalidOrder) {
		t.Fatalf("CreateOrder() error = %v, want InvalidOrder", err)
	}
	if n := atomic.LoadInt32(&hits); n != 0 {
		t.Errorf("server hits = %d, want 0", n)
	}
}

func TestBibox_FetchOpenOrders(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/mdata", mdataHandler(t, map[string]string{"marketAll": marketAllBody}))
	mux.HandleFunc("/v1/orderpending", func(w http.ResponseWriter, r *http.Request) {
		cmd := decodeCommand(t, r)
		if _, ok := cmd.Body["pair"]; ok {
			t.Errorf("pair sent without symbol: %v", cmd.Body)
		}
		writeJSON(w, privateResult(cmd.Cmd, `{"count":1,"page":1,"items":[
			{"id":"100234","createdAt":1547546988399,"coin_symbol":"BIX","currency_symbol":"BTC","order_side":2,"order_type":2,"price":"0.0000210","amount":"100","deal_amount":"40","deal_price":"0.0000210","status":2}
		]}`))
	})
	b := newTestBibox(t, mux, withCredentials()...)

	orders, err := b.FetchOpenOrders(context.Background(), "")
	if err != nil {
		t.Fatalf("FetchOpenOrders() error = %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("FetchOpenOrders() len = %d, want 1", len(orders))
	}
	o := orders[0]
	if o.Symbol != "BIX/BTC" || o.Side != model.OrderSideSell || o.Status != model.OrderStatusOpen {
		t.Errorf("order = %+v", o)
	}
	if !o.Remaining.Decimal.Equal(decimal.NewFromInt(60)) {
		t.Errorf("remaining = %s, want 60", o.Remaining)
	}
	if !o.Cost.Decimal.Equal(decimal.RequireFromString("0.00084")) {
		t.Errorf("cost = %s, want 0.00084", o.Cost)
	}
}

func TestBibox_SymbolRequired(t *testing.T) {
	b := newTestBibox(t, http.NotFoundHandler(), withCredentials()...)
	ctx := context.Background()

	if _, err := b.FetchClosedOrders(ctx, ""); !errors.Is(err, errs.ArgumentsRequired) {
		t.Errorf("FetchClosedOrders() error = %v, want ArgumentsRequired", err)
	}
	if _, err := b.FetchMyTrades(ctx, ""); !errors.Is(err, errs.ArgumentsRequired) {
		t.Errorf("FetchMyTrades() error = %v, want ArgumentsRequired", err)
	}
}

func TestBibox_FetchDeposits(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/transfer", func(w http.ResponseWriter, r *http.Request) {
		cmd := decodeCommand(t, r)
		if cmd.Cmd != "transfer/transferInList" || cmd.Body["symbol"] != "ETH" {
			t.Errorf("command = %+v", cmd)
		}
		writeJSON(w, privateResult(cmd.Cmd, `{"count":1,"page":1,"items":[
			{"id":1023291,"coin_symbol":"ETH","to_address":"0x7263","amount":"0.49170000","confirmCount":"16","createdAt":1553123867000,"status":2}
		]}`))
	})
	b := newTestBibox(t, mux, withCredentials()...)

	txs, err := b.FetchDeposits(context.Background(), "ETH")
	if err != nil {
		t.Fatalf("FetchDeposits() error = %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("FetchDeposits() len = %d, want 1", len(txs))
	}
	tx := txs[0]
	if tx.Type != model.TransactionDeposit || tx.Status != model.TransactionOK || tx.Address != "0x7263" {
		t.Errorf("tx = %+v", tx)
	}
	if tx.Fee == nil || !tx.Fee.Cost.Decimal.IsZero() {
		t.Errorf("deposit fee = %+v, want 0", tx.Fee)
	}
}

func TestBibox_Withdraw(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/transfer", func(w http.ResponseWriter, r *http.Request) {
		cmd := decodeCommand(t, r)
		if cmd.Body["trade_pwd"] != "fund-pwd" || cmd.Body["totp_code"] != "123456" || cmd.Body["address_remark"] != "memo" {
			t.Errorf("body = %v", cmd.Body)
		}
		writeJSON(w, privateResult(cmd.Cmd, `228`))
	})
	b := newTestBibox(t, mux, withCredentials()...)
	ctx := context.Background()

	_, err := b.Withdraw(ctx, "EOS", "1", "eosaddress", option.WithFundPassword("fund-pwd"))
	if !errors.Is(err, errs.ArgumentsRequired) {
		t.Fatalf("Withdraw() without totp error = %v, want ArgumentsRequired", err)
	}

	tx, err := b.Withdraw(ctx, "EOS", "1", "eosaddress",
		option.WithFundPassword("fund-pwd"), option.WithTwoFACode("123456"), option.WithTag("memo"))
	if err != nil {
		t.Fatalf("Withdraw() error = %v", err)
	}
	if tx.ID != "228" || tx.Status != model.TransactionPending || tx.Tag != "memo" {
		t.Errorf("tx = %+v", tx)
	}
}

func TestBibox_Withdraw_ConstructionCredentials(t *testing.T) {
	tests := []struct {
		name     string
		opts     []option.Option
		wantPwd  string
		wantTOTP string
	}{
		{
			name:     "trade password",
			opts:     []option.Option{option.WithTradePassword("fund-pwd"), option.WithTwoFA("123456")},
			wantPwd:  "fund-pwd",
			wantTOTP: "123456",
		},
		{
			name:     "password fallback",
			opts:     []option.Option{option.WithPassword("login-pwd"), option.WithTwoFA("654321")},
			wantPwd:  "login-pwd",
			wantTOTP: "654321",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int32
			mux := http.NewServeMux()
			mux.HandleFunc("/v1/transfer", func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				cmd := decodeCommand(t, r)
				if cmd.Body["trade_pwd"] != tt.wantPwd || cmd.Body["totp_code"] != tt.wantTOTP {
					t.Errorf("body = %v", cmd.Body)
				}
				writeJSON(w, privateResult(cmd.Cmd, `229`))
			})
			b := newTestBibox(t, mux, append(withCredentials(), tt.opts...)...)

			tx, err := b.Withdraw(context.Background(), "EOS", "1", "eosaddress")
			if err != nil {
				t.Fatalf("Withdraw() error = %v", err)
			}
			if tx.ID != "229" || hits.Load() != 1 {
				t.Errorf("tx = %+v, hits = %d", tx, hits.Load())
			}
		})
	}

	// 单次调用的参数优先于创建时的凭证
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/transfer", func(w http.ResponseWriter, r *http.Request) {
		cmd := decodeCommand(t, r)
		if cmd.Body["trade_pwd"] != "call-pwd" || cmd.Body["totp_code"] != "111111" {
			t.Errorf("body = %v", cmd.Body)
		}
		writeJSON(w, privateResult(cmd.Cmd, `230`))
	})
	b := newTestBibox(t, mux, append(withCredentials(),
		option.WithTradePassword("fund-pwd"), option.WithTwoFA("123456"))...)
	if _, err := b.Withdraw(context.Background(), "EOS", "1", "eosaddress",
		option.WithFundPassword("call-pwd"), option.WithTwoFACode("111111")); err != nil {
		t.Fatalf("Withdraw() error = %v", err)
	}
}

func TestBibox_FetchFundingFees(t *testing.T) {
	var hits int32
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/transfer", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		cmd := decodeCommand(t, r)
		fee := map[any]string{"BTC": "0.0005", "ETH": "0.01"}[cmd.Body["coin_symbol"]]
		writeJSON(w, privateResult(cmd.Cmd, `{"withdraw_fee":"`+fee+`"}`))
	})
	b := newTestBibox(t, mux, withCredentials()...)

	fees, err := b.FetchFundingFees(context.Background(), "BTC", "ETH")
	if err != nil {
		t.Fatalf("FetchFundingFees() error = %v", err)
	}
	if len(fees) != 2 || atomic.LoadInt32(&hits) != 2 {
		t.Fatalf("fees = %v, hits = %d", fees, hits)
	}
	if !fees["ETH"].Decimal.Equal(decimal.RequireFromString("0.01")) {
		t.Errorf("ETH fee = %s, want 0.01", fees["ETH"])
	}
}

func TestBibox_FetchOHLCV(t *testing.T) {
	var klineHits int32
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/mdata", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch q.Get("cmd") {
		case "marketAll":
			writeJSON(w, marketAllBody)
		case "kline":
			atomic.AddInt32(&klineHits, 1)
			if q.Get("pair") != "BIX_BTC" || q.Get("period") != "1hour" || q.Get("size") != "2" {
				t.Errorf("query = %v", q)
			}
			writeJSON(w, `{"result":[
				{"time":1546952400000,"open":"0.00002080","high":"0.00002100","low":"0.00002070","close":"0.00002090","vol":"1200"},
				{"time":1546948800000,"open":"0.00002060","high":"0.00002085","low":"0.00002050","close":"0.00002080","vol":"800"}
			],"cmd":"kline"}`)
		default:
			t.Errorf("unexpected cmd %q", q.Get("cmd"))
		}
	})
	b := newTestBibox(t, mux)
	ctx := context.Background()

	candles, err := b.FetchOHLCV(ctx, "BIX/BTC", "1h", option.WithLimit(2))
	if err != nil {
		t.Fatalf("FetchOHLCV() error = %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("FetchOHLCV() len = %d, want 2", len(candles))
	}
	if candles[0].Timestamp.Millis() != 1546948800000 {
		t.Errorf("first candle = %d, want ascending order", candles[0].Timestamp.Millis())
	}
	if !candles[1].Volume.Decimal.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("volume = %s, want 1200", candles[1].Volume)
	}

	if _, err := b.FetchOHLCV(ctx, "BIX/BTC", "3m"); !errors.Is(err, errs.NotSupported) {
		t.Errorf("FetchOHLCV(3m) error = %v, want NotSupported", err)
	}
	if n := atomic.LoadInt32(&klineHits); n != 1 {
		t.Errorf("kline hits = %d, want 1", n)
	}
}

func TestBibox_FetchCurrencies(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/transfer", func(w http.ResponseWriter, r *http.Request) {
		cmd := decodeCommand(t, r)
		if cmd.Cmd != "transfer/coinList" {
			t.Errorf("cmd = %q, want transfer/coinList", cmd.Cmd)
		}
		writeJSON(w, privateResult(cmd.Cmd, `[
			{"symbol":"BTC","name":"Bitcoin","enable_deposit":true,"enable_withdraw":true},
			{"symbol":"KEY","name":"SelfKey","enable_deposit":true,"enable_withdraw":false}
		]`))
	})
	b := newTestBibox(t, mux, withCredentials()...)

	currencies, err := b.FetchCurrencies(context.Background())
	if err != nil {
		t.Fatalf("FetchCurrencies() error = %v", err)
	}
	btc, ok := currencies["BTC"]
	if !ok || !btc.Active || btc.Precision != 8 {
		t.Fatalf("BTC = %+v", btc)
	}
	if !btc.Limits.Amount.Min.Decimal.Equal(decimal.RequireFromString("0.00000001")) {
		t.Errorf("amount min = %s, want 0.00000001", btc.Limits.Amount.Min)
	}
	key, ok := currencies["Bihu"]
	if !ok || key.ID != "KEY" || key.Active {
		t.Errorf("KEY = %+v, want code Bihu inactive", key)
	}
	if !b.Currencies.Loaded() {
		t.Errorf("currencies not cached")
	}
}

func TestBibox_FetchDepositAddress(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/transfer", func(w http.ResponseWriter, r *http.Request) {
		cmd := decodeCommand(t, r)
		if cmd.Cmd != "transfer/transferIn" || cmd.Body["coin_symbol"] != "ETH" {
			t.Errorf("command = %+v", cmd)
		}
		writeJSON(w, privateResult(cmd.Cmd, `"0x7263a4b1"`))
	})
	b := newTestBibox(t, mux, withCredentials()...)

	addr, err := b.FetchDepositAddress(context.Background(), "ETH")
	if err != nil {
		t.Fatalf("FetchDepositAddress() error = %v", err)
	}
	if addr.Currency != "ETH" || addr.Address != "0x7263a4b1" {
		t.Errorf("address = %+v", addr)
	}
}

func TestBibox_FetchMyTrades(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/mdata", mdataHandler(t, map[string]string{"marketAll": marketAllBody}))
	mux.HandleFunc("/v1/orderpending", func(w http.ResponseWriter, r *http.Request) {
		cmd := decodeCommand(t, r)
		if cmd.Cmd != "orderpending/orderHistoryList" || cmd.Body["pair"] != "BIX_BTC" || cmd.Body["coin_symbol"] != "BIX" {
			t.Errorf("command = %+v", cmd)
		}
		writeJSON(w, privateResult(cmd.Cmd, `{"count":1,"page":1,"items":[
			{"id":"t-1","createdAt":1547546988399,"pair":"BIX_BTC","order_side":1,"price":"0.00002080","amount":"100","fee":"0.1","fee_symbol":"BIX"}
		]}`))
	})
	b := newTestBibox(t, mux, withCredentials()...)

	trades, err := b.FetchMyTrades(context.Background(), "BIX/BTC")
	if err != nil {
		t.Fatalf("FetchMyTrades() error = %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("FetchMyTrades() len = %d, want 1", len(trades))
	}
	tr := trades[0]
	if tr.Symbol != "BIX/BTC" || tr.Side != model.OrderSideBuy {
		t.Errorf("trade = %+v", tr)
	}
	if !tr.Cost.Decimal.Equal(decimal.RequireFromString("0.00208")) {
		t.Errorf("cost = %s, want 0.00208", tr.Cost)
	}
	if tr.Fee == nil || tr.Fee.Currency != "BIX" {
		t.Errorf("fee = %+v", tr.Fee)
	}
}
