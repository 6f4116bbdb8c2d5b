package exchange

import (
	"github.com/lemconn/venuelink/auth"
)

// Exchange 顶层交易所接口
type Exchange interface {
	SpotExchange

	// Name 返回交易所名称
	Name() string

	// ID 返回交易所ID（注册名）
	ID() string

	// Has 是否支持某项能力（如 "fetchOHLCV"）
	Has(capability string) bool
}

// Signer 私有请求签名
type Signer = auth.Signer

// ErrorMapper 把交易所响应映射为错误，非错误响应返回 nil
// status 为 HTTP 状态码，payload 为解析后的 JSON（解析失败时为 nil）
type ErrorMapper interface {
	MapError(status int, body []byte, payload any) error
}

// Normalizer 从响应中取出业务数据（如 result、data 包装层）
type Normalizer interface {
	Unwrap(op string, payload any) (any, error)
}

// ErrorMapperFunc 函数形式的 ErrorMapper
type ErrorMapperFunc func(status int, body []byte, payload any) error

// MapError 实现 ErrorMapper
func (f ErrorMapperFunc) MapError(status int, body []byte, payload any) error {
	return f(status, body, payload)
}

// NormalizerFunc 函数形式的 Normalizer
type NormalizerFunc func(op string, payload any) (any, error)

// Unwrap 实现 Normalizer
func (f NormalizerFunc) Unwrap(op string, payload any) (any, error) {
	return f(op, payload)
}
