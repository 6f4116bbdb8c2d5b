package auth

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/lemconn/venuelink/common"
)

// JSONBodyHMAC 序列化命令负载后做 HMAC，负载、API Key 与签名一起放入 JSON 请求体
//
//	{"cmds": "[{...}]", "apikey": "...", "sign": "..."}
type JSONBodyHMAC struct {
	Exchange     string
	Digest       common.Digest
	Encoding     common.Encoding
	PayloadField string
	KeyField     string
	SignField    string
	// Wrap 为 true 时负载先包成单元素数组
	Wrap bool
}

var _ Signer = (*JSONBodyHMAC)(nil)

// Sign 实现 Signer
func (s *JSONBodyHMAC) Sign(req *Request, creds Credentials) (*Request, error) {
	if err := creds.Require(s.Exchange, FieldAPIKey, FieldSecret); err != nil {
		return nil, err
	}
	out := req.Clone()

	payload, err := s.Payload(req.JSON)
	if err != nil {
		return nil, err
	}
	sig, err := common.HMAC(s.Digest, s.Encoding, []byte(payload), []byte(creds.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign request: %w", err)
	}

	out.SetJSONBody(map[string]any{
		field(s.PayloadField, "cmds"): payload,
		field(s.KeyField, "apikey"):   creds.APIKey,
		field(s.SignField, "sign"):    sig,
	})
	if err := out.Encode(); err != nil {
		return nil, err
	}
	return out, nil
}

// Payload 序列化命令负载，公共接口也用它构造请求体
func (s *JSONBodyHMAC) Payload(v any) (string, error) {
	if s.Wrap {
		v = []any{v}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	return string(b), nil
}

func field(name, def string) string {
	if name == "" {
		return def
	}
	return name
}
