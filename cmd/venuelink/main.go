package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/sourcegraph/conc/pool"

	"github.com/lemconn/venuelink"
	"github.com/lemconn/venuelink/common"
	"github.com/lemconn/venuelink/exchange"
	"github.com/lemconn/venuelink/logger"
	"github.com/lemconn/venuelink/option"
	"github.com/lemconn/venuelink/retry"
)

const defaultTimeout = 30 * time.Second

type flags struct {
	venue      string
	op         string
	symbol     string
	limit      int
	all        bool
	configFile string
	logLevel   string
	logFile    string
	timeout    time.Duration
	retries    uint
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var f flags
	flag.StringVar(&f.venue, "venue", "", "venue id ("+strings.Join(venuelink.GetSupportedExchanges(), "|")+")")
	flag.StringVar(&f.op, "op", "ticker", "operation (markets|currencies|ticker|tickers|orderbook|trades|balance)")
	flag.StringVar(&f.symbol, "symbol", "", "unified symbol, e.g. BTC/USDT")
	flag.IntVar(&f.limit, "limit", 0, "result limit for orderbook and trades")
	flag.BoolVar(&f.all, "all", false, "run the operation on every registered venue")
	flag.StringVar(&f.configFile, "config", "", "descriptor override file (.yaml/.yml/.toml)")
	flag.StringVar(&f.logLevel, "log-level", "info", "log level")
	flag.StringVar(&f.logFile, "log-file", "stderr", "log output: stderr, stdout or a file path")
	flag.DurationVar(&f.timeout, "timeout", defaultTimeout, "overall timeout")
	flag.UintVar(&f.retries, "retries", 3, "max attempts for network errors")
	flag.Parse()

	// .env 不存在时忽略
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	log := logger.Logger()
	if err := log.Configure(f.logLevel, "json", f.logFile, 7); err != nil {
		return err
	}
	logger.SetLogger(log)
	runID := common.UUID16()

	venues := []string{f.venue}
	if f.all {
		venues = venuelink.GetSupportedExchanges()
	} else if f.venue == "" {
		return errors.New("-venue flag is required (or use -all)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	results := make(map[string]any, len(venues))
	var mu sync.Mutex
	p := pool.New().WithContext(ctx).WithMaxGoroutines(len(venues))
	for _, venue := range venues {
		p.Go(func(ctx context.Context) error {
			out, err := execute(ctx, log, f, venue, runID)
			if err != nil {
				log.WithComponent(venue).WithFields(logger.Fields{"run_id": runID}).WithError(err).Error("operation failed")
				out = map[string]string{"error": err.Error()}
			}
			mu.Lock()
			results[venue] = out
			mu.Unlock()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if !f.all {
		return enc.Encode(results[f.venue])
	}
	return enc.Encode(results)
}

func execute(ctx context.Context, log *logger.Log, f flags, venue, runID string) (any, error) {
	entry := log.WithComponent(venue).WithFields(logger.Fields{"run_id": runID, "op": f.op})
	ex, err := venuelink.NewExchange(venue, venueOptions(entry, f, venue)...)
	if err != nil {
		return nil, err
	}
	policy := retry.DefaultPolicy()
	policy.MaxTries = f.retries
	policy.Logger = entry
	return retry.Do(ctx, policy, func(ctx context.Context) (any, error) {
		return dispatch(ctx, ex, f)
	})
}

func dispatch(ctx context.Context, ex exchange.Exchange, f flags) (any, error) {
	var args []option.ArgsOption
	if f.limit > 0 {
		args = append(args, option.WithLimit(f.limit))
	}
	switch f.op {
	case "markets":
		return ex.FetchMarkets(ctx)
	case "currencies":
		return ex.FetchCurrencies(ctx)
	case "ticker":
		if f.symbol == "" {
			return nil, errors.New("-symbol is required for ticker")
		}
		return ex.FetchTicker(ctx, f.symbol)
	case "tickers":
		var symbols []string
		if f.symbol != "" {
			symbols = strings.Split(f.symbol, ",")
		}
		return ex.FetchTickers(ctx, symbols...)
	case "orderbook":
		return ex.FetchOrderBook(ctx, f.symbol, args...)
	case "trades":
		return ex.FetchTrades(ctx, f.symbol, args...)
	case "balance":
		if f.symbol != "" {
			args = append(args, option.WithSymbol(f.symbol))
		}
		return ex.FetchBalance(ctx, args...)
	default:
		return nil, fmt.Errorf("unknown op %q", f.op)
	}
}

// venueOptions 凭证取自 VENUELINK_<VENUE>_API_KEY 等环境变量
func venueOptions(entry *logger.Entry, f flags, venue string) []option.Option {
	prefix := "VENUELINK_" + strings.ToUpper(venue) + "_"
	opts := []option.Option{
		option.WithAPIKey(os.Getenv(prefix + "API_KEY")),
		option.WithSecretKey(os.Getenv(prefix + "SECRET_KEY")),
		option.WithPassword(os.Getenv(prefix + "PASSWORD")),
		option.WithUID(os.Getenv(prefix + "UID")),
		option.WithLogger(entry),
	}
	if proxy := os.Getenv(prefix + "PROXY"); proxy != "" {
		opts = append(opts, option.WithProxy(proxy))
	}
	if f.configFile != "" {
		opts = append(opts, option.WithConfigFile(f.configFile))
	}
	return opts
}
