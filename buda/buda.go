package buda

import (
	"github.com/lemconn/venuelink/base"
	"github.com/lemconn/venuelink/exchange"
	"github.com/lemconn/venuelink/option"
)

// Buda Buda 交易所实现
type Buda struct {
	*base.Adapter
	base.Unsupported
}

var _ exchange.Exchange = (*Buda)(nil)

// NewBuda 创建 Buda 交易所实例
func NewBuda(opts ...option.Option) (exchange.Exchange, error) {
	adapter, err := base.NewAdapter(Descriptor(), option.Apply(opts...), Classifier())
	if err != nil {
		return nil, err
	}

	b := &Buda{
		Adapter:     adapter,
		Unsupported: base.NewUnsupported(budaID),
	}
	b.SetErrorMapper(errorMapper(adapter.Classifier()))
	b.SetMarketFetcher(b.FetchMarkets)
	return b, nil
}
