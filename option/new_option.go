package option

import (
	"net/http"
	"time"

	"github.com/lemconn/venuelink/logger"
)

// ExchangeOptions 交易所配置选项（用于 Exchange 初始化）
type ExchangeOptions struct {
	APIKey        string
	SecretKey     string
	Password      string // 密码（coinfloor 等需要 password 的交易所）
	UID           string // 用户ID（coinfloor）
	TwoFA         string // 二次验证密钥
	TradePassword string // 资金密码（bibox 提现）
	Proxy         string
	BaseURL       string
	Debug         bool
	Timeout       time.Duration
	// RateLimit 最小请求间隔，0 使用交易所默认值，小于 0 不限速
	RateLimit time.Duration
	// ConfigFile 交易所描述覆盖文件（.yaml/.yml/.toml）
	ConfigFile string
	Logger     *logger.Entry
	HTTPClient *http.Client
}

// Option 配置选项函数类型（用于 Exchange 初始化）
type Option func(*ExchangeOptions)

// Apply 应用所有选项
func Apply(opts ...Option) *ExchangeOptions {
	options := &ExchangeOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}
	return options
}

// WithAPIKey 设置 API Key
func WithAPIKey(apiKey string) Option {
	return func(opts *ExchangeOptions) {
		opts.APIKey = apiKey
	}
}

// WithSecretKey 设置 Secret Key
func WithSecretKey(secretKey string) Option {
	return func(opts *ExchangeOptions) {
		opts.SecretKey = secretKey
	}
}

// WithPassword 设置 Password
func WithPassword(password string) Option {
	return func(opts *ExchangeOptions) {
		opts.Password = password
	}
}

// WithUID 设置用户ID
func WithUID(uid string) Option {
	return func(opts *ExchangeOptions) {
		opts.UID = uid
	}
}

// WithTwoFA 设置二次验证密钥
func WithTwoFA(twofa string) Option {
	return func(opts *ExchangeOptions) {
		opts.TwoFA = twofa
	}
}

// WithTradePassword 设置资金密码
func WithTradePassword(password string) Option {
	return func(opts *ExchangeOptions) {
		opts.TradePassword = password
	}
}

// WithProxy 设置代理
func WithProxy(proxy string) Option {
	return func(opts *ExchangeOptions) {
		opts.Proxy = proxy
	}
}

// WithBaseURL 设置基础 URL
func WithBaseURL(baseURL string) Option {
	return func(opts *ExchangeOptions) {
		opts.BaseURL = baseURL
	}
}

// WithDebug 设置是否启用调试模式
func WithDebug(debug bool) Option {
	return func(opts *ExchangeOptions) {
		opts.Debug = debug
	}
}

// WithTimeout 设置请求超时
func WithTimeout(timeout time.Duration) Option {
	return func(opts *ExchangeOptions) {
		opts.Timeout = timeout
	}
}

// WithRateLimit 设置最小请求间隔
func WithRateLimit(gap time.Duration) Option {
	return func(opts *ExchangeOptions) {
		opts.RateLimit = gap
	}
}

// WithConfigFile 设置描述覆盖文件
func WithConfigFile(path string) Option {
	return func(opts *ExchangeOptions) {
		opts.ConfigFile = path
	}
}

// WithLogger 设置日志
func WithLogger(entry *logger.Entry) Option {
	return func(opts *ExchangeOptions) {
		opts.Logger = entry
	}
}

// WithHTTPClient 替换底层 http.Client（测试或自定义 Transport）
func WithHTTPClient(client *http.Client) Option {
	return func(opts *ExchangeOptions) {
		opts.HTTPClient = client
	}
}
