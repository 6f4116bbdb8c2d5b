package lbank

import (
	"github.com/lemconn/venuelink/base"
	"github.com/lemconn/venuelink/exchange"
	"github.com/lemconn/venuelink/option"
)

// LBank LBank 交易所实现
type LBank struct {
	*base.Adapter
	base.Unsupported
}

var _ exchange.Exchange = (*LBank)(nil)

// NewLBank 创建 LBank 交易所实例
func NewLBank(opts ...option.Option) (exchange.Exchange, error) {
	adapter, err := base.NewAdapter(Descriptor(), option.Apply(opts...), Classifier())
	if err != nil {
		return nil, err
	}

	l := &LBank{
		Adapter:     adapter,
		Unsupported: base.NewUnsupported(lbankID),
	}
	l.SetErrorMapper(errorMapper(adapter.Classifier()))
	l.SetMarketFetcher(l.FetchMarkets)
	return l, nil
}
