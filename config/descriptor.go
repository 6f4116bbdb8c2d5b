package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lemconn/venuelink/errs"
)

// 签名策略名称
const (
	StrategyRawQueryHMAC  = "raw_query_hmac"
	StrategyJSONBodyHMAC  = "json_body_hmac"
	StrategyRSADigest     = "rsa_digest"
	StrategyCompositeHMAC = "composite_hmac"
	StrategyBasicToken    = "basic_token"
)

// PrecisionMode 精度处理方式
const (
	PrecisionRound    = "round"
	PrecisionTruncate = "truncate"
)

// Endpoint 单个接口定义，Path 为相对基础地址的完整路径，可含 {id} 形式的路径参数
type Endpoint struct {
	Method  string `yaml:"method" toml:"method" json:"method"`
	Path    string `yaml:"path" toml:"path" json:"path"`
	Private bool   `yaml:"private" toml:"private" json:"private"`
}

// FeeTier 阶梯费率
type FeeTier struct {
	Volume decimal.Decimal
	Maker  decimal.Decimal
	Taker  decimal.Decimal
}

// Fees 交易手续费表
type Fees struct {
	Maker decimal.Decimal
	Taker decimal.Decimal
	Tiers []FeeTier
}

// ForVolume 按 30 日成交量取阶梯费率，Tiers 按 Volume 升序排列；无阶梯时返回基础费率
func (f Fees) ForVolume(volume decimal.Decimal) (maker, taker decimal.Decimal) {
	maker, taker = f.Maker, f.Taker
	for _, tier := range f.Tiers {
		if volume.LessThan(tier.Volume) {
			break
		}
		maker, taker = tier.Maker, tier.Taker
	}
	return maker, taker
}

// Exceptions 交易所错误码与错误信息映射，值为错误类型名（如 "InsufficientFunds"）
type Exceptions struct {
	Codes map[string]string `yaml:"codes" toml:"codes"`
	Exact map[string]string `yaml:"exact" toml:"exact"`
	Broad map[string]string `yaml:"broad" toml:"broad"`
}

// AuthConfig 签名方式配置，按 Strategy 选择签名器，其余字段由对应签名器读取
type AuthConfig struct {
	Strategy string

	Digest   string // md5 / sha256 / sha384 / sha512
	Encoding string // hex / base64

	// raw_query_hmac
	Placement  string // query / header
	ParamName  string
	KeyParam   string
	KeyHeader  string
	NonceParam string

	// json_body_hmac
	PayloadField string
	KeyField     string
	SignField    string
	Wrap         bool

	// rsa_digest
	LineWidth int
	PEMHeader string

	// composite_hmac
	Delimiter       string
	Parts           []string // nonce / method / path / body
	BodyTransform   string   // none / base64
	SignatureHeader string
	NonceHeader     string

	NonceUnit string // s / ms / us
}

// RequiredCredentials 私有接口需要的凭证
type RequiredCredentials struct {
	APIKey   bool
	Secret   bool
	Password bool
	UID      bool
	TwoFA    bool
}

// Descriptor 交易所描述：地址、接口表、费率、周期、别名、错误映射与签名方式
type Descriptor struct {
	Name          string
	ID            string
	BaseURL       string
	Version       string
	RateLimit     time.Duration
	Timeout       time.Duration
	PrecisionMode string
	// Separator 市场ID中基础币与计价币的分隔符
	Separator string

	Endpoints           map[string]Endpoint
	Fees                Fees
	Timeframes          map[string]string
	CommonCurrencies    map[string]string
	Exceptions          Exceptions
	Auth                AuthConfig
	RequiredCredentials RequiredCredentials
	Has                 map[string]bool
}

// Endpoint 按操作ID查找接口
func (d *Descriptor) Endpoint(op string) (Endpoint, bool) {
	ep, ok := d.Endpoints[op]
	return ep, ok
}

// Supports 能力标记
func (d *Descriptor) Supports(capability string) bool {
	return d.Has[capability]
}

// Truncates 是否使用截断精度
func (d *Descriptor) Truncates() bool {
	return strings.EqualFold(d.PrecisionMode, PrecisionTruncate)
}

// Clone 深拷贝，覆盖配置不会影响内置默认值
func (d *Descriptor) Clone() *Descriptor {
	out := *d
	out.Endpoints = maps.Clone(d.Endpoints)
	out.Timeframes = maps.Clone(d.Timeframes)
	out.CommonCurrencies = maps.Clone(d.CommonCurrencies)
	out.Has = maps.Clone(d.Has)
	out.Exceptions = Exceptions{
		Codes: maps.Clone(d.Exceptions.Codes),
		Exact: maps.Clone(d.Exceptions.Exact),
		Broad: maps.Clone(d.Exceptions.Broad),
	}
	out.Fees.Tiers = slices.Clone(d.Fees.Tiers)
	out.Auth.Parts = slices.Clone(d.Auth.Parts)
	return &out
}

// Validate 检查必填项
func (d *Descriptor) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("descriptor: id is required")
	}
	if d.BaseURL == "" {
		return fmt.Errorf("descriptor %s: base url is required", d.ID)
	}
	for op, ep := range d.Endpoints {
		if ep.Method == "" || ep.Path == "" {
			return fmt.Errorf("descriptor %s: endpoint %s needs method and path", d.ID, op)
		}
	}
	if d.PrecisionMode != "" && d.PrecisionMode != PrecisionRound && d.PrecisionMode != PrecisionTruncate {
		return fmt.Errorf("descriptor %s: unknown precision mode %q", d.ID, d.PrecisionMode)
	}
	if _, err := d.Exceptions.kinds(); err != nil {
		return fmt.Errorf("descriptor %s: %w", d.ID, err)
	}
	return nil
}

// Classifier 在交易所内置错误表上叠加描述中的 Exceptions
func (d *Descriptor) Classifier(base *errs.Classifier) (*errs.Classifier, error) {
	k, err := d.Exceptions.kinds()
	if err != nil {
		return nil, err
	}
	if base == nil {
		base = &errs.Classifier{}
	}
	c := base.Extend(k.codes, k.exact, k.broad)
	c.Exchange = d.ID
	return c, nil
}

type exceptionKinds struct {
	codes, exact, broad map[string]errs.Kind
}

func (e Exceptions) kinds() (exceptionKinds, error) {
	var (
		out exceptionKinds
		err error
	)
	if out.codes, err = toKinds(e.Codes); err != nil {
		return out, err
	}
	if out.exact, err = toKinds(e.Exact); err != nil {
		return out, err
	}
	if out.broad, err = toKinds(e.Broad); err != nil {
		return out, err
	}
	return out, nil
}

func toKinds(m map[string]string) (map[string]errs.Kind, error) {
	out := make(map[string]errs.Kind, len(m))
	for key, name := range m {
		kind, ok := errs.ParseKind(name)
		if !ok {
			return nil, fmt.Errorf("unknown error kind %q for %q", name, key)
		}
		out[key] = kind
	}
	return out, nil
}
