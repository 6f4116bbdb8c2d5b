package coinfloor

import (
	"net/http"

	"github.com/lemconn/venuelink/errs"
	"github.com/lemconn/venuelink/exchange"
	"github.com/lemconn/venuelink/types"
)

// Classifier 交易所未公开错误码表，可通过描述文件的 exceptions 补充
func Classifier() *errs.Classifier {
	return &errs.Classifier{
		Exchange: coinfloorID,
		Codes:    map[string]errs.Kind{},
	}
}

// errorMapper 4xx/5xx 且带 error_msg 时保留 error_code 分类，其余交给通用处理
func errorMapper(c *errs.Classifier) exchange.ErrorMapper {
	return exchange.ErrorMapperFunc(func(status int, body []byte, payload any) error {
		if status < http.StatusBadRequest {
			return nil
		}
		p, ok := types.AsPayload(payload)
		if !ok {
			return nil
		}
		msg, ok := p.String("error_msg")
		if !ok {
			return nil
		}
		return c.Classify(p.SafeString("error_code"), msg, errs.WithHTTP(status), errs.WithInfo(payload))
	})
}
