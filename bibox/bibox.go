package bibox

import (
	"github.com/lemconn/venuelink/base"
	"github.com/lemconn/venuelink/exchange"
	"github.com/lemconn/venuelink/option"
)

// Bibox Bibox 交易所实现
type Bibox struct {
	*base.Adapter
	base.Unsupported
}

var _ exchange.Exchange = (*Bibox)(nil)

// NewBibox 创建 Bibox 交易所实例
func NewBibox(opts ...option.Option) (exchange.Exchange, error) {
	adapter, err := base.NewAdapter(Descriptor(), option.Apply(opts...), Classifier())
	if err != nil {
		return nil, err
	}

	b := &Bibox{
		Adapter:     adapter,
		Unsupported: base.NewUnsupported(biboxID),
	}
	b.SetErrorMapper(errorMapper(adapter.Classifier()))
	b.SetNormalizer(normalizer(adapter.Descriptor()))
	b.SetMarketFetcher(b.FetchMarkets)
	return b, nil
}

// publicCall 公共接口，cmd 与参数放在查询串
func (b *Bibox) publicCall(op string, params map[string]any) (*base.Call, error) {
	call, err := b.Prepare(op, nil)
	if err != nil {
		return nil, err
	}
	call.Query.Set("cmd", commands[op])
	base.ApplyParams(call.Query, params)
	return call, nil
}

// privateCall 私有接口，命令放在 JSON 请求体，由签名器序列化为 cmds
func (b *Bibox) privateCall(op string, body map[string]any, params map[string]any) (*base.Call, error) {
	return b.command(op, commands[op], body, params)
}

// command 同一端点下按 cmd 区分接口，如 transfer/assets 与 transfer/mainAssets
func (b *Bibox) command(op, cmd string, body map[string]any, params map[string]any) (*base.Call, error) {
	call, err := b.Prepare(op, nil)
	if err != nil {
		return nil, err
	}
	if body == nil {
		body = make(map[string]any, len(params))
	}
	for k, v := range params {
		body[k] = v
	}
	call.SetJSONBody(biboxCommand{Cmd: cmd, Body: body})
	return call, nil
}
