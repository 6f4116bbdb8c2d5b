package lbank

import (
	"github.com/lemconn/venuelink/errs"
	"github.com/lemconn/venuelink/exchange"
	"github.com/lemconn/venuelink/types"
)

// errorMessages 错误码说明，响应中没有 msg 字段
var errorMessages = map[string]string{
	"10000": "Internal error",
	"10001": "The required parameters can not be empty",
	"10002": "verification failed",
	"10003": "Illegal parameters",
	"10004": "User requests are too frequent",
	"10005": "Key does not exist",
	"10006": "user does not exist",
	"10007": "Invalid signature",
	"10008": "This currency pair is not supported",
	"10009": "Limit orders can not be missing orders and the number of orders",
	"10010": "Order price or order quantity must be greater than 0",
	"10011": "Market orders can not be missing the amount of the order",
	"10012": "market sell orders can not be missing orders",
	"10013": "is less than the minimum trading position 0.001",
	"10014": "Account number is not enough",
	"10015": "The order type is wrong",
	"10016": "Account balance is not enough",
	"10017": "Abnormal server",
	"10018": "order inquiry can not be more than 50 less than one",
	"10019": "withdrawal orders can not be more than 3 less than one",
	"10020": "less than the minimum amount of the transaction limit of 0.001",
	"10022": "Insufficient key authority",
}

// Classifier LBank 错误码表
func Classifier() *errs.Classifier {
	return &errs.Classifier{
		Exchange: lbankID,
		Codes: map[string]errs.Kind{
			"10002": errs.AuthenticationError,
			"10004": errs.DDoSProtection,
			"10005": errs.AuthenticationError,
			"10006": errs.AuthenticationError,
			"10007": errs.AuthenticationError,
			"10009": errs.InvalidOrder,
			"10010": errs.InvalidOrder,
			"10011": errs.InvalidOrder,
			"10012": errs.InvalidOrder,
			"10013": errs.InvalidOrder,
			"10014": errs.InvalidOrder,
			"10015": errs.InvalidOrder,
			"10016": errs.InvalidOrder,
			"10022": errs.AuthenticationError,
		},
	}
}

// errorMapper result 为 false 时按 error_code 分类，其余响应交给通用处理
func errorMapper(c *errs.Classifier) exchange.ErrorMapper {
	return exchange.ErrorMapperFunc(func(status int, body []byte, payload any) error {
		p, ok := types.AsPayload(payload)
		if !ok {
			return nil
		}
		if result, ok := p.String("result"); !ok || result != "false" {
			return nil
		}
		code := p.SafeString("error_code")
		msg, ok := errorMessages[code]
		if !ok {
			msg = string(body)
		}
		return c.Classify(code, msg, errs.WithHTTP(status), errs.WithInfo(payload))
	})
}
