package auth

import (
	"fmt"

	"github.com/lemconn/venuelink/config"
	"github.com/lemconn/venuelink/errs"
)

// Field 凭证字段名
type Field string

const (
	FieldAPIKey        Field = "apiKey"
	FieldSecret        Field = "secret"
	FieldPassword      Field = "password"
	FieldUID           Field = "uid"
	FieldTwoFA         Field = "twofa"
	FieldTradePassword Field = "tradePassword"
)

// Credentials API 凭证
type Credentials struct {
	APIKey        string
	Secret        string
	Password      string
	UID           string
	TwoFA         string
	TradePassword string
}

func (c Credentials) value(f Field) string {
	switch f {
	case FieldAPIKey:
		return c.APIKey
	case FieldSecret:
		return c.Secret
	case FieldPassword:
		return c.Password
	case FieldUID:
		return c.UID
	case FieldTwoFA:
		return c.TwoFA
	case FieldTradePassword:
		return c.TradePassword
	}
	return ""
}

// Require 检查必需凭证，返回第一个缺失字段对应的 MissingCredentials 错误
func (c Credentials) Require(exchange string, fields ...Field) error {
	for _, f := range fields {
		if c.value(f) == "" {
			return errs.New(exchange, errs.MissingCredentials,
				errs.WithMessage(fmt.Sprintf("requires %q credential", string(f))))
		}
	}
	return nil
}

// RequiredFields 描述中声明的必需凭证
func RequiredFields(rc config.RequiredCredentials) []Field {
	var fields []Field
	if rc.APIKey {
		fields = append(fields, FieldAPIKey)
	}
	if rc.Secret {
		fields = append(fields, FieldSecret)
	}
	if rc.UID {
		fields = append(fields, FieldUID)
	}
	if rc.Password {
		fields = append(fields, FieldPassword)
	}
	if rc.TwoFA {
		fields = append(fields, FieldTwoFA)
	}
	return fields
}

// String 脱敏输出
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{apiKey:%s secret:%s password:%s uid:%s}",
		redact(c.APIKey), redact(c.Secret), redact(c.Password), redact(c.UID))
}

// GoString 与 String 相同，避免 %#v 打出明文
func (c Credentials) GoString() string {
	return c.String()
}

func redact(s string) string {
	switch {
	case s == "":
		return "<empty>"
	case len(s) <= 8:
		return "****"
	default:
		return s[:4] + "****"
	}
}
