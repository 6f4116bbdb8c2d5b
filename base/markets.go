package base

import (
	"sort"
	"strings"
	"sync/atomic"

	"github.com/lemconn/venuelink/common"
	"github.com/lemconn/venuelink/errs"
	"github.com/lemconn/venuelink/logger"
	"github.com/lemconn/venuelink/model"
)

// marketIndex 不可变的市场索引，整体替换
type marketIndex struct {
	bySymbol    map[string]*model.Market
	byID        map[string]*model.Market
	byNumericID map[int64]*model.Market
	sorted      []*model.Market
}

// MarketRegistry 市场注册表
// 读操作无锁，Load 构建新索引后一次性替换，读者不会看到构建到一半的索引
type MarketRegistry struct {
	exchange string
	log      *logger.Entry
	idx      atomic.Pointer[marketIndex]
}

// NewMarketRegistry 创建市场注册表
func NewMarketRegistry(exchange string) *MarketRegistry {
	return &MarketRegistry{exchange: exchange, log: logger.GetLogger().WithComponent(exchange)}
}

// Load 用 markets 替换整个索引
// 多个市场映射到同一交易对时保留第一个，后面的整条丢弃
func (r *MarketRegistry) Load(markets []*model.Market) {
	idx := &marketIndex{
		bySymbol:    make(map[string]*model.Market, len(markets)),
		byID:        make(map[string]*model.Market, len(markets)),
		byNumericID: make(map[int64]*model.Market),
		sorted:      make([]*model.Market, 0, len(markets)),
	}
	for _, m := range markets {
		if m == nil {
			continue
		}
		if prev, dup := idx.bySymbol[m.Symbol]; dup {
			r.log.WithFields(logger.Fields{
				"symbol":  m.Symbol,
				"kept":    prev.ID,
				"dropped": m.ID,
			}).Warn("duplicate market symbol")
			continue
		}
		idx.sorted = append(idx.sorted, m)
		idx.bySymbol[m.Symbol] = m
		idx.byID[m.ID] = m
		if m.NumericID != nil {
			idx.byNumericID[*m.NumericID] = m
		}
	}
	sort.Slice(idx.sorted, func(i, j int) bool {
		return idx.sorted[i].Symbol < idx.sorted[j].Symbol
	})
	r.idx.Store(idx)
}

// Loaded 是否已加载
func (r *MarketRegistry) Loaded() bool {
	return r.idx.Load() != nil
}

// Resolve 按统一交易对查找市场
func (r *MarketRegistry) Resolve(symbol string) (*model.Market, error) {
	idx := r.idx.Load()
	if idx == nil {
		return nil, errs.New(r.exchange, errs.UnknownSymbol, errs.WithMessage("markets not loaded, symbol "+symbol))
	}
	m, ok := idx.bySymbol[symbol]
	if !ok {
		return nil, errs.New(r.exchange, errs.UnknownSymbol, errs.WithMessage("unknown symbol "+symbol))
	}
	return m, nil
}

// ResolveID 按交易所市场ID查找
func (r *MarketRegistry) ResolveID(id string) (*model.Market, bool) {
	idx := r.idx.Load()
	if idx == nil {
		return nil, false
	}
	m, ok := idx.byID[id]
	return m, ok
}

// ResolveNumericID 按交易所数字ID查找
func (r *MarketRegistry) ResolveNumericID(id int64) (*model.Market, bool) {
	idx := r.idx.Load()
	if idx == nil {
		return nil, false
	}
	m, ok := idx.byNumericID[id]
	return m, ok
}

// MarketID 统一交易对转交易所市场ID
func (r *MarketRegistry) MarketID(symbol string) (string, error) {
	m, err := r.Resolve(symbol)
	if err != nil {
		return "", err
	}
	return m.ID, nil
}

// Markets 按交易对排序的市场列表
func (r *MarketRegistry) Markets() []*model.Market {
	idx := r.idx.Load()
	if idx == nil {
		return nil
	}
	return append([]*model.Market(nil), idx.sorted...)
}

// Symbols 按字母排序的交易对
func (r *MarketRegistry) Symbols() []string {
	markets := r.Markets()
	out := make([]string, len(markets))
	for i, m := range markets {
		out[i] = m.Symbol
	}
	return out
}

// SafeSymbol 交易所市场ID转统一交易对，从不失败：
// 已索引的ID返回其交易对；否则按分隔符拆分并应用币种别名；无法拆分时原样返回
func (r *MarketRegistry) SafeSymbol(id, sep string, aliases map[string]string) string {
	if m, ok := r.ResolveID(id); ok {
		return m.Symbol
	}
	baseID, quoteID, ok := common.SplitMarketID(id, sep)
	if !ok {
		return id
	}
	return common.CommonCurrencyCode(baseID, aliases) + "/" + common.CommonCurrencyCode(quoteID, aliases)
}

// CurrencyRegistry 币种注册表
type CurrencyRegistry struct {
	idx atomic.Pointer[currencyIndex]
}

type currencyIndex struct {
	byCode map[string]*model.Currency
	byID   map[string]*model.Currency
}

// Load 替换币种索引
func (r *CurrencyRegistry) Load(currencies []*model.Currency) {
	idx := &currencyIndex{
		byCode: make(map[string]*model.Currency, len(currencies)),
		byID:   make(map[string]*model.Currency, len(currencies)),
	}
	for _, c := range currencies {
		if c == nil {
			continue
		}
		idx.byCode[c.Code] = c
		idx.byID[strings.ToLower(c.ID)] = c
	}
	r.idx.Store(idx)
}

// Loaded 是否已加载
func (r *CurrencyRegistry) Loaded() bool {
	return r.idx.Load() != nil
}

// Get 按统一代码查找
func (r *CurrencyRegistry) Get(code string) (*model.Currency, bool) {
	idx := r.idx.Load()
	if idx == nil {
		return nil, false
	}
	c, ok := idx.byCode[code]
	return c, ok
}

// ByID 按交易所代码查找（不区分大小写）
func (r *CurrencyRegistry) ByID(id string) (*model.Currency, bool) {
	idx := r.idx.Load()
	if idx == nil {
		return nil, false
	}
	c, ok := idx.byID[strings.ToLower(id)]
	return c, ok
}

// All 全部币种
func (r *CurrencyRegistry) All() map[string]*model.Currency {
	idx := r.idx.Load()
	if idx == nil {
		return nil
	}
	out := make(map[string]*model.Currency, len(idx.byCode))
	for k, v := range idx.byCode {
		out[k] = v
	}
	return out
}
