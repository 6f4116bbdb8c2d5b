package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Kind 错误类别，本身实现 error，可直接作为 errors.Is 的目标
type Kind string

const (
	ExchangeError        Kind = "ExchangeError"
	AuthenticationError  Kind = "AuthenticationError"
	MissingCredentials   Kind = "MissingCredentials"
	PermissionDenied     Kind = "PermissionDenied"
	InsufficientFunds    Kind = "InsufficientFunds"
	InvalidOrder         Kind = "InvalidOrder"
	OrderNotFound        Kind = "OrderNotFound"
	UnknownSymbol        Kind = "UnknownSymbol"
	NotSupported         Kind = "NotSupported"
	ArgumentsRequired    Kind = "ArgumentsRequired"
	AddressPending       Kind = "AddressPending"
	NetworkError         Kind = "NetworkError"
	DDoSProtection       Kind = "DDoSProtection"
	ExchangeNotAvailable Kind = "ExchangeNotAvailable"
)

// parents 子类别 -> 父类别
var parents = map[Kind]Kind{
	AuthenticationError:  ExchangeError,
	MissingCredentials:   AuthenticationError,
	PermissionDenied:     ExchangeError,
	InsufficientFunds:    ExchangeError,
	InvalidOrder:         ExchangeError,
	OrderNotFound:        InvalidOrder,
	UnknownSymbol:        ExchangeError,
	NotSupported:         ExchangeError,
	ArgumentsRequired:    ExchangeError,
	AddressPending:       ExchangeError,
	DDoSProtection:       NetworkError,
	ExchangeNotAvailable: NetworkError,
}

func (k Kind) Error() string { return string(k) }

// Parent 返回父类别，根类别返回空
func (k Kind) Parent() Kind { return parents[k] }

// IsA k 等于 target 或是其子类别
func (k Kind) IsA(target Kind) bool {
	for cur := k; cur != ""; cur = cur.Parent() {
		if cur == target {
			return true
		}
	}
	return false
}

// Error 适配器返回的结构化错误
type Error struct {
	Exchange string
	Kind     Kind
	Code     string
	Message  string
	HTTP     int
	Info     any
	cause    error
}

// Option 构造 Error 时的可选项
type Option func(*Error)

// WithCode 交易所原始错误码
func WithCode(code string) Option {
	return func(e *Error) { e.Code = code }
}

// WithMessage 交易所返回的消息或本地描述
func WithMessage(msg string) Option {
	return func(e *Error) { e.Message = msg }
}

// WithHTTP HTTP 状态码
func WithHTTP(status int) Option {
	return func(e *Error) { e.HTTP = status }
}

// WithInfo 附带原始响应
func WithInfo(info any) Option {
	return func(e *Error) { e.Info = info }
}

// WithCause 包装底层错误
func WithCause(err error) Option {
	return func(e *Error) { e.cause = err }
}

// New 创建指定类别的错误
func New(exchange string, kind Kind, opts ...Option) *Error {
	e := &Error{Exchange: exchange, Kind: kind}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Newf 同 New，消息按格式化生成
func Newf(exchange string, kind Kind, format string, args ...any) *Error {
	return New(exchange, kind, WithMessage(fmt.Sprintf(format, args...)))
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	parts := make([]string, 0, 6)
	if e.Exchange != "" {
		parts = append(parts, e.Exchange)
	}
	parts = append(parts, string(e.Kind))
	if e.Code != "" {
		parts = append(parts, "code="+e.Code)
	}
	if e.HTTP != 0 {
		parts = append(parts, fmt.Sprintf("http=%d", e.HTTP))
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.cause != nil {
		parts = append(parts, "cause="+e.cause.Error())
	}
	return strings.Join(parts, " ")
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is 按类别层级匹配 Kind
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	if k, ok := target.(Kind); ok {
		return e.Kind.IsA(k)
	}
	return false
}

// KindOf 返回错误链中第一个 *Error 的类别
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsRetryable 网络类错误可重试
func IsRetryable(err error) bool {
	return errors.Is(err, NetworkError)
}
