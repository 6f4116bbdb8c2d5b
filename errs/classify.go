package errs

import "strings"

// Classifier 将交易所错误码和消息映射为错误类别
// 匹配顺序：Codes -> Exact（完整消息）-> Broad（子串），都未命中时为 ExchangeError
type Classifier struct {
	Exchange string
	Codes    map[string]Kind
	Exact    map[string]Kind
	Broad    map[string]Kind
}

// Classify 按错误码和消息生成带类别的错误
func (c *Classifier) Classify(code, message string, opts ...Option) *Error {
	kind := c.Lookup(code, message)
	all := append([]Option{WithCode(code), WithMessage(message)}, opts...)
	return New(c.Exchange, kind, all...)
}

// Lookup 只解析类别，不构造错误
func (c *Classifier) Lookup(code, message string) Kind {
	if code != "" {
		if k, ok := c.Codes[code]; ok {
			return k
		}
	}
	if message != "" {
		if k, ok := c.Exact[message]; ok {
			return k
		}
		if k, ok := c.broadMatch(message); ok {
			return k
		}
	}
	return ExchangeError
}

// broadMatch 取最长的匹配子串，长度相同时取字典序较小者
func (c *Classifier) broadMatch(message string) (Kind, bool) {
	var (
		best    string
		matched Kind
	)
	for needle, kind := range c.Broad {
		if needle == "" || !strings.Contains(message, needle) {
			continue
		}
		if len(needle) > len(best) || (len(needle) == len(best) && needle < best) {
			best = needle
			matched = kind
		}
	}
	return matched, best != ""
}

// Extend 返回叠加新条目后的副本
func (c *Classifier) Extend(codes, exact, broad map[string]Kind) *Classifier {
	return &Classifier{
		Exchange: c.Exchange,
		Codes:    mergeKinds(c.Codes, codes),
		Exact:    mergeKinds(c.Exact, exact),
		Broad:    mergeKinds(c.Broad, broad),
	}
}

func mergeKinds(base, over map[string]Kind) map[string]Kind {
	out := make(map[string]Kind, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// ParseKind 解析配置中的类别名，未知时返回 false
func ParseKind(name string) (Kind, bool) {
	k := Kind(name)
	if k == ExchangeError || k == NetworkError {
		return k, true
	}
	_, ok := parents[k]
	return k, ok
}
