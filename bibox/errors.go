package bibox

import (
	"github.com/lemconn/venuelink/config"
	"github.com/lemconn/venuelink/errs"
	"github.com/lemconn/venuelink/exchange"
	"github.com/lemconn/venuelink/types"
)

// Classifier Bibox 错误码表
func Classifier() *errs.Classifier {
	return &errs.Classifier{
		Exchange: biboxID,
		Codes: map[string]errs.Kind{
			"2015": errs.AuthenticationError,  // Google authenticator is wrong
			"2021": errs.InsufficientFunds,    // Insufficient balance available for withdrawal
			"2027": errs.InsufficientFunds,    // Insufficient balance available (for trade)
			"2033": errs.OrderNotFound,        // Orders have been completed or revoked
			"2067": errs.InvalidOrder,         // Does not support market orders
			"2068": errs.InvalidOrder,         // The number of orders can not be less than
			"2085": errs.InvalidOrder,         // Order quantity is too small
			"3012": errs.AuthenticationError,  // invalid apiKey
			"3024": errs.PermissionDenied,     // wrong apikey permissions
			"3025": errs.AuthenticationError,  // signature failed
			"4000": errs.ExchangeNotAvailable, // current network is unstable
			"4003": errs.DDoSProtection,       // server busy please try again later
		},
	}
}

// errorMapper 顶层或 result[0] 中出现 error 时按 error.code 分类
func errorMapper(c *errs.Classifier) exchange.ErrorMapper {
	return exchange.ErrorMapperFunc(func(status int, body []byte, payload any) error {
		p, ok := types.AsPayload(payload)
		if !ok {
			return nil
		}
		if e := findError(p); e != nil {
			code := e.SafeString("code")
			if code == "" {
				return errs.New(biboxID, errs.ExchangeError,
					errs.WithMessage(`"error" in response: `+string(body)),
					errs.WithHTTP(status), errs.WithInfo(payload))
			}
			msg := e.SafeString("msg")
			if msg == "" {
				msg = string(body)
			}
			return c.Classify(code, msg, errs.WithHTTP(status), errs.WithInfo(payload))
		}
		if !p.Has("result") {
			return errs.New(biboxID, errs.ExchangeError,
				errs.WithMessage(string(body)), errs.WithHTTP(status), errs.WithInfo(payload))
		}
		return nil
	})
}

func findError(p types.Payload) types.Payload {
	if _, ok := p["error"]; ok {
		e, _ := types.AsPayload(p["error"])
		if e == nil {
			e = types.Payload{}
		}
		return e
	}
	for _, item := range p.List("result").Maps() {
		if _, ok := item["error"]; ok {
			e, _ := types.AsPayload(item["error"])
			if e == nil {
				e = types.Payload{}
			}
			return e
		}
	}
	return nil
}

// normalizer 公共接口取 result，私有接口取 result[0].result
func normalizer(desc *config.Descriptor) exchange.Normalizer {
	return exchange.NormalizerFunc(func(op string, payload any) (any, error) {
		p, ok := types.AsPayload(payload)
		if !ok {
			return payload, nil
		}
		ep, _ := desc.Endpoint(op)
		if !ep.Private {
			return p["result"], nil
		}
		items := p.List("result")
		if len(items) == 0 {
			return nil, errs.New(biboxID, errs.ExchangeError,
				errs.WithMessage(op+": empty result"), errs.WithInfo(payload))
		}
		first, ok := types.AsPayload(items[0])
		if !ok {
			return items[0], nil
		}
		return first["result"], nil
	})
}
