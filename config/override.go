package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// FeesOverride 费率覆盖，数值以字符串书写以保留精度
type FeesOverride struct {
	Maker *string `yaml:"maker" toml:"maker"`
	Taker *string `yaml:"taker" toml:"taker"`
}

// Override 单个交易所的可覆盖配置，未设置的字段保持默认值
type Override struct {
	BaseURL       *string `yaml:"baseUrl" toml:"baseUrl"`
	RateLimitMS   *int64  `yaml:"rateLimit" toml:"rateLimit"`
	TimeoutMS     *int64  `yaml:"timeout" toml:"timeout"`
	PrecisionMode *string `yaml:"precisionMode" toml:"precisionMode"`

	Fees             *FeesOverride       `yaml:"fees" toml:"fees"`
	Endpoints        map[string]Endpoint `yaml:"endpoints" toml:"endpoints"`
	Timeframes       map[string]string   `yaml:"timeframes" toml:"timeframes"`
	CommonCurrencies map[string]string   `yaml:"commonCurrencies" toml:"commonCurrencies"`
	Exceptions       *Exceptions         `yaml:"exceptions" toml:"exceptions"`
	Has              map[string]bool     `yaml:"has" toml:"has"`
}

// Overrides 配置文件内容，按交易所ID分组
type Overrides map[string]*Override

// For 取指定交易所的覆盖配置，没有时返回 nil
func (o Overrides) For(id string) *Override {
	if o == nil {
		return nil
	}
	return o[strings.ToLower(id)]
}

// LoadOverride 读取覆盖配置文件，按扩展名选择 YAML 或 TOML
//
//	lbank:
//	  rateLimit: 500
//	  exceptions:
//	    codes:
//	      "10016": InsufficientFunds
func LoadOverride(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read override file: %w", err)
	}

	raw := make(Overrides)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode yaml override %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), &raw)
		if err != nil {
			return nil, fmt.Errorf("decode toml override %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("decode toml override %s: unknown key %s", path, undecoded[0])
		}
	default:
		return nil, fmt.Errorf("unsupported override file extension %q", ext)
	}

	out := make(Overrides, len(raw))
	for id, ov := range raw {
		out[strings.ToLower(id)] = ov
	}
	return out, nil
}

// Merge 先默认值后覆盖，返回新的描述，def 不会被修改
// map 类字段逐键覆盖，不做嵌套合并
func Merge(def *Descriptor, ov *Override) (*Descriptor, error) {
	out := def.Clone()
	if ov == nil {
		return out, nil
	}

	if ov.BaseURL != nil {
		out.BaseURL = *ov.BaseURL
	}
	if ov.RateLimitMS != nil {
		out.RateLimit = time.Duration(*ov.RateLimitMS) * time.Millisecond
	}
	if ov.TimeoutMS != nil {
		out.Timeout = time.Duration(*ov.TimeoutMS) * time.Millisecond
	}
	if ov.PrecisionMode != nil {
		out.PrecisionMode = *ov.PrecisionMode
	}
	if ov.Fees != nil {
		if ov.Fees.Maker != nil {
			v, err := decimal.NewFromString(*ov.Fees.Maker)
			if err != nil {
				return nil, fmt.Errorf("override %s: maker fee: %w", def.ID, err)
			}
			out.Fees.Maker = v
		}
		if ov.Fees.Taker != nil {
			v, err := decimal.NewFromString(*ov.Fees.Taker)
			if err != nil {
				return nil, fmt.Errorf("override %s: taker fee: %w", def.ID, err)
			}
			out.Fees.Taker = v
		}
	}

	out.Endpoints = overlay(out.Endpoints, ov.Endpoints)
	out.Timeframes = overlay(out.Timeframes, ov.Timeframes)
	out.CommonCurrencies = overlay(out.CommonCurrencies, ov.CommonCurrencies)
	out.Has = overlay(out.Has, ov.Has)
	if ov.Exceptions != nil {
		out.Exceptions.Codes = overlay(out.Exceptions.Codes, ov.Exceptions.Codes)
		out.Exceptions.Exact = overlay(out.Exceptions.Exact, ov.Exceptions.Exact)
		out.Exceptions.Broad = overlay(out.Exceptions.Broad, ov.Exceptions.Broad)
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func overlay[V any](dst, src map[string]V) map[string]V {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]V, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
