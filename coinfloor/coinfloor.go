package coinfloor

import (
	"github.com/lemconn/venuelink/base"
	"github.com/lemconn/venuelink/exchange"
	"github.com/lemconn/venuelink/option"
)

// Coinfloor coinfloor 交易所实现
type Coinfloor struct {
	*base.Adapter
	base.Unsupported
}

var _ exchange.Exchange = (*Coinfloor)(nil)

// NewCoinfloor 创建 coinfloor 交易所实例
func NewCoinfloor(opts ...option.Option) (exchange.Exchange, error) {
	adapter, err := base.NewAdapter(Descriptor(), option.Apply(opts...), Classifier())
	if err != nil {
		return nil, err
	}

	c := &Coinfloor{
		Adapter:     adapter,
		Unsupported: base.NewUnsupported(coinfloorID),
	}
	c.SetErrorMapper(errorMapper(adapter.Classifier()))
	c.SetMarketFetcher(c.FetchMarkets)
	return c, nil
}
