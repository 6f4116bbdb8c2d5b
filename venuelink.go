package venuelink

import (
	"fmt"
	"slices"
	"sync"

	"github.com/lemconn/venuelink/bibox"
	"github.com/lemconn/venuelink/buda"
	"github.com/lemconn/venuelink/coinfalcon"
	"github.com/lemconn/venuelink/coinfloor"
	"github.com/lemconn/venuelink/exchange"
	"github.com/lemconn/venuelink/lbank"
	"github.com/lemconn/venuelink/option"
)

// 交易所名称常量
const (
	ExchangeLBank      = "lbank"      // LBank 交易所
	ExchangeBibox      = "bibox"      // Bibox 交易所
	ExchangeBuda       = "buda"       // Buda 交易所
	ExchangeCoinFalcon = "coinfalcon" // CoinFalcon 交易所
	ExchangeCoinfloor  = "coinfloor"  // coinfloor 交易所
)

// ExchangeFactory 交易所工厂函数
type ExchangeFactory func(opts ...option.Option) (exchange.Exchange, error)

// Registry 交易所注册表
type Registry struct {
	mu        sync.RWMutex
	factories map[string]ExchangeFactory
}

var globalRegistry = &Registry{
	factories: make(map[string]ExchangeFactory),
}

// init 注册所有支持的交易所
func init() {
	Register(ExchangeLBank, lbank.NewLBank)
	Register(ExchangeBibox, bibox.NewBibox)
	Register(ExchangeBuda, buda.NewBuda)
	Register(ExchangeCoinFalcon, coinfalcon.NewCoinFalcon)
	Register(ExchangeCoinfloor, coinfloor.NewCoinfloor)
}

// Register 注册交易所，同名时覆盖
func Register(name string, factory ExchangeFactory) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.factories[name] = factory
}

// NewExchange 创建交易所实例
// 市场信息在第一次用到时加载，不在这里请求
func NewExchange(name string, opts ...option.Option) (exchange.Exchange, error) {
	globalRegistry.mu.RLock()
	factory, ok := globalRegistry.factories[name]
	globalRegistry.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrExchangeNotSupported, name)
	}

	ex, err := factory(opts...)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}
	return ex, nil
}

// GetSupportedExchanges 获取支持的交易所列表（按名称排序）
func GetSupportedExchanges() []string {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	exchanges := make([]string, 0, len(globalRegistry.factories))
	for name := range globalRegistry.factories {
		exchanges = append(exchanges, name)
	}
	slices.Sort(exchanges)
	return exchanges
}

// IsExchangeSupported 检查交易所是否支持
func IsExchangeSupported(name string) bool {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	_, ok := globalRegistry.factories[name]
	return ok
}
