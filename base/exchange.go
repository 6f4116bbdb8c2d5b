package base

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/lemconn/venuelink/auth"
	"github.com/lemconn/venuelink/common"
	"github.com/lemconn/venuelink/config"
	"github.com/lemconn/venuelink/errs"
	"github.com/lemconn/venuelink/exchange"
	"github.com/lemconn/venuelink/logger"
	"github.com/lemconn/venuelink/model"
	"github.com/lemconn/venuelink/option"
	"github.com/lemconn/venuelink/types"
)

// MarketFetcher 从交易所拉取市场列表
type MarketFetcher func(ctx context.Context) ([]*model.Market, error)

// Adapter 交易所适配器公共部分：描述、凭证、HTTP、节流、签名、错误映射、市场缓存
// 各交易所嵌入 *Adapter，并通过 Set* 注入自身的签名器、错误映射与市场拉取
type Adapter struct {
	desc       *config.Descriptor
	http       *common.HTTPClient
	throttle   *common.Throttle
	classifier *errs.Classifier
	log        *logger.Entry

	credMu sync.RWMutex
	creds  auth.Credentials

	signer      exchange.Signer
	errorMapper exchange.ErrorMapper
	normalizer  exchange.Normalizer

	Markets    *MarketRegistry
	Currencies *CurrencyRegistry
	Orders     *OrderCache

	fetchMarkets MarketFetcher
	loadGroup    singleflight.Group
}

// NewAdapter 创建适配器
// 依次应用：内置描述 -> 配置文件覆盖 -> 构造选项（BaseURL、RateLimit、Timeout）
func NewAdapter(def *config.Descriptor, opts *option.ExchangeOptions, codes *errs.Classifier) (*Adapter, error) {
	if opts == nil {
		opts = &option.ExchangeOptions{}
	}

	var ov *config.Override
	if opts.ConfigFile != "" {
		ovs, err := config.LoadOverride(opts.ConfigFile)
		if err != nil {
			return nil, err
		}
		ov = ovs.For(def.ID)
	}
	desc, err := config.Merge(def, ov)
	if err != nil {
		return nil, err
	}
	if opts.BaseURL != "" {
		desc.BaseURL = opts.BaseURL
	}
	if opts.RateLimit != 0 {
		desc.RateLimit = opts.RateLimit
	}
	if opts.Timeout > 0 {
		desc.Timeout = opts.Timeout
	}

	classifier, err := desc.Classifier(codes)
	if err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = logger.GetLogger().WithComponent(desc.ID)
	}

	client := common.NewHTTPClient(desc.ID, desc.BaseURL)
	client.SetClient(opts.HTTPClient)
	client.SetLogger(log)
	client.SetTimeout(desc.Timeout)
	client.SetDebug(opts.Debug)
	if opts.Proxy != "" {
		if err := client.SetProxy(opts.Proxy); err != nil {
			return nil, err
		}
	}

	a := &Adapter{
		desc:       desc,
		http:       client,
		throttle:   common.NewThrottle(desc.RateLimit),
		classifier: classifier,
		log:        log,
		creds: auth.Credentials{
			APIKey:        opts.APIKey,
			Secret:        opts.SecretKey,
			Password:      opts.Password,
			UID:           opts.UID,
			TwoFA:         opts.TwoFA,
			TradePassword: opts.TradePassword,
		},
		Markets:    NewMarketRegistry(desc.ID),
		Currencies: &CurrencyRegistry{},
		Orders:     NewOrderCache(),
	}

	a.Markets.log = log

	if desc.Auth.Strategy != "" {
		signer, err := auth.New(desc)
		if err != nil {
			return nil, err
		}
		a.signer = signer
	}
	return a, nil
}

// SetSigner 设置签名器
func (a *Adapter) SetSigner(s exchange.Signer) { a.signer = s }

// SetErrorMapper 设置错误映射
func (a *Adapter) SetErrorMapper(m exchange.ErrorMapper) { a.errorMapper = m }

// SetNormalizer 设置响应解包
func (a *Adapter) SetNormalizer(n exchange.Normalizer) { a.normalizer = n }

// SetMarketFetcher 设置市场拉取函数
func (a *Adapter) SetMarketFetcher(f MarketFetcher) { a.fetchMarkets = f }

// Name 返回交易所名称
func (a *Adapter) Name() string {
	return a.desc.Name
}

// ID 返回交易所ID
func (a *Adapter) ID() string {
	return a.desc.ID
}

// Has 能力标记
func (a *Adapter) Has(capability string) bool {
	return a.desc.Supports(capability)
}

// Descriptor 当前生效的描述（已合并覆盖配置）
func (a *Adapter) Descriptor() *config.Descriptor {
	return a.desc
}

// Classifier 错误分类器
func (a *Adapter) Classifier() *errs.Classifier {
	return a.classifier
}

// Log 日志
func (a *Adapter) Log() *logger.Entry {
	return a.log
}

// Signer 当前签名器
func (a *Adapter) Signer() exchange.Signer {
	return a.signer
}

// Credentials 当前凭证
func (a *Adapter) Credentials() auth.Credentials {
	a.credMu.RLock()
	defer a.credMu.RUnlock()
	return a.creds
}

// SetSecret 更换 secret，同时清除签名器的私钥缓存
func (a *Adapter) SetSecret(secret string) {
	a.credMu.Lock()
	a.creds.Secret = secret
	a.credMu.Unlock()
	if r, ok := a.signer.(interface{ Reset() }); ok {
		r.Reset()
	}
}

// RoundingMode 精度处理方式
func (a *Adapter) RoundingMode() common.RoundingMode {
	if a.desc.Truncates() {
		return common.Truncate
	}
	return common.RoundHalfUp
}

// CommonCurrencyCode 交易所币种代码转统一代码
func (a *Adapter) CommonCurrencyCode(id string) string {
	return common.CommonCurrencyCode(id, a.desc.CommonCurrencies)
}

// CurrencyID 统一币种代码转交易所代码
func (a *Adapter) CurrencyID(code string) string {
	if c, ok := a.Currencies.Get(code); ok {
		return c.ID
	}
	return common.CurrencyID(code, a.desc.CommonCurrencies)
}

// SafeSymbol 交易所市场ID转统一交易对
func (a *Adapter) SafeSymbol(id string) string {
	return a.Markets.SafeSymbol(id, a.desc.Separator, a.desc.CommonCurrencies)
}

// ========== 市场信息 ==========

// LoadMarkets 加载市场信息，并发的首次调用只会请求一次
func (a *Adapter) LoadMarkets(ctx context.Context, reload bool) error {
	if !reload && a.Markets.Loaded() {
		return nil
	}
	if a.fetchMarkets == nil {
		return errs.New(a.desc.ID, errs.NotSupported, errs.WithMessage("fetchMarkets is not configured"))
	}
	key := "markets"
	if reload {
		key = "markets-reload"
	}
	_, err, _ := a.loadGroup.Do(key, func() (any, error) {
		if !reload && a.Markets.Loaded() {
			return nil, nil
		}
		markets, err := a.fetchMarkets(ctx)
		if err != nil {
			return nil, err
		}
		a.Markets.Load(markets)
		a.log.WithFields(logger.Fields{"markets": len(markets)}).Debug("markets loaded")
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("load markets: %w", err)
	}
	return nil
}

// GetMarket 获取单个市场信息
func (a *Adapter) GetMarket(symbol string) (*model.Market, error) {
	return a.Markets.Resolve(symbol)
}

// GetMarkets 从内存中获取所有市场信息
func (a *Adapter) GetMarkets() ([]*model.Market, error) {
	if !a.Markets.Loaded() {
		return nil, errs.New(a.desc.ID, errs.ExchangeError, errs.WithMessage("markets not loaded"))
	}
	return a.Markets.Markets(), nil
}

// Market 确保市场已加载后解析交易对
func (a *Adapter) Market(ctx context.Context, symbol string) (*model.Market, error) {
	if err := a.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	return a.Markets.Resolve(symbol)
}

// FetchTradingFees 按描述中的费率表返回每个市场的手续费
func (a *Adapter) FetchTradingFees(ctx context.Context) (map[string]*model.TradingFee, error) {
	if err := a.LoadMarkets(ctx, false); err != nil {
		return nil, fmt.Errorf("fetch trading fees: %w", err)
	}
	out := make(map[string]*model.TradingFee)
	for _, m := range a.Markets.Markets() {
		out[m.Symbol] = &model.TradingFee{
			Symbol: m.Symbol,
			Maker:  types.NewExDecimal(a.desc.Fees.Maker),
			Taker:  types.NewExDecimal(a.desc.Fees.Taker),
		}
	}
	return out, nil
}
