package coinfalcon

import (
	"github.com/lemconn/venuelink/base"
	"github.com/lemconn/venuelink/exchange"
	"github.com/lemconn/venuelink/option"
)

// CoinFalcon CoinFalcon 交易所实现
type CoinFalcon struct {
	*base.Adapter
	base.Unsupported
}

var _ exchange.Exchange = (*CoinFalcon)(nil)

// NewCoinFalcon 创建 CoinFalcon 交易所实例
func NewCoinFalcon(opts ...option.Option) (exchange.Exchange, error) {
	adapter, err := base.NewAdapter(Descriptor(), option.Apply(opts...), Classifier())
	if err != nil {
		return nil, err
	}

	c := &CoinFalcon{
		Adapter:     adapter,
		Unsupported: base.NewUnsupported(coinfalconID),
	}
	c.SetErrorMapper(errorMapper(adapter.Classifier()))
	c.SetNormalizer(normalizer(adapter.Descriptor()))
	c.SetMarketFetcher(c.FetchMarkets)
	return c, nil
}
