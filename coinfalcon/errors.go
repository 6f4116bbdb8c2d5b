package coinfalcon

import (
	"net/http"
	"strconv"

	"github.com/lemconn/venuelink/config"
	"github.com/lemconn/venuelink/errs"
	"github.com/lemconn/venuelink/exchange"
	"github.com/lemconn/venuelink/types"
)

// Classifier 响应体里没有错误码，按 HTTP 状态码分类
func Classifier() *errs.Classifier {
	return &errs.Classifier{
		Exchange: coinfalconID,
		Codes: map[string]errs.Kind{
			"401": errs.AuthenticationError,
			"429": errs.DDoSProtection,
		},
	}
}

// errorMapper 只看状态码，2xx/3xx 一律视为成功
func errorMapper(c *errs.Classifier) exchange.ErrorMapper {
	return exchange.ErrorMapperFunc(func(status int, body []byte, payload any) error {
		if status < http.StatusBadRequest {
			return nil
		}
		return c.Classify(strconv.Itoa(status), string(body), errs.WithHTTP(status), errs.WithInfo(payload))
	})
}

// normalizer 取 data 包装层
func normalizer(desc *config.Descriptor) exchange.Normalizer {
	return exchange.NormalizerFunc(func(op string, payload any) (any, error) {
		p, ok := types.AsPayload(payload)
		if !ok {
			return payload, nil
		}
		data, ok := p["data"]
		if !ok {
			return nil, errs.New(desc.ID, errs.ExchangeError,
				errs.WithMessage(op+": missing data"), errs.WithInfo(payload))
		}
		return data, nil
	})
}
