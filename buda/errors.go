package buda

import (
	"net/http"

	"github.com/lemconn/venuelink/errs"
	"github.com/lemconn/venuelink/exchange"
	"github.com/lemconn/venuelink/types"
)

// Classifier Buda 错误码表，错误码是字符串
func Classifier() *errs.Classifier {
	return &errs.Classifier{
		Exchange: budaID,
		Codes: map[string]errs.Kind{
			"not_authorized":    errs.AuthenticationError, // Invalid credentials
			"forbidden":         errs.PermissionDenied,    // You dont have access to this resource
			"invalid_record":    errs.ExchangeError,       // Validation Failed
			"not_found":         errs.ExchangeError,
			"parameter_missing": errs.ExchangeError,
			"bad_parameter":     errs.ExchangeError,
		},
	}
}

// errorMapper 只处理 4xx/5xx 且带 code 的响应
func errorMapper(c *errs.Classifier) exchange.ErrorMapper {
	return exchange.ErrorMapperFunc(func(status int, body []byte, payload any) error {
		if status < http.StatusBadRequest {
			return nil
		}
		p, ok := types.AsPayload(payload)
		if !ok {
			return nil
		}
		code, ok := p.String("code")
		if !ok {
			return nil
		}
		msg, ok := p.String("message")
		if !ok {
			msg = string(body)
		}
		return c.Classify(code, msg, errs.WithHTTP(status), errs.WithInfo(payload))
	})
}
