package auth

import (
	"fmt"

	"github.com/lemconn/venuelink/common"
)

// RawQueryHMAC 对按键排序后的 k=v&k=v 原始串做 HMAC
// 签名追加为查询参数或请求头
type RawQueryHMAC struct {
	Exchange   string
	Digest     common.Digest
	Encoding   common.Encoding
	Placement  Placement
	ParamName  string
	KeyParam   string
	KeyHeader  string
	NonceParam string
	Nonce      *Nonce
}

var _ Signer = (*RawQueryHMAC)(nil)

// Sign 实现 Signer
func (s *RawQueryHMAC) Sign(req *Request, creds Credentials) (*Request, error) {
	if err := creds.Require(s.Exchange, FieldAPIKey, FieldSecret); err != nil {
		return nil, err
	}
	out := req.Clone()

	params := out.Query
	if out.Form != nil {
		params = out.Form
	}
	if s.KeyParam != "" {
		params.Set(s.KeyParam, creds.APIKey)
	}
	if s.NonceParam != "" && s.Nonce != nil {
		params.Set(s.NonceParam, s.Nonce.NextString())
	}

	sorted := params.Sorted()
	sig, err := common.HMAC(s.Digest, s.Encoding, []byte(sorted.EncodeRaw()), []byte(creds.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign request: %w", err)
	}

	name := s.ParamName
	if name == "" {
		name = "signature"
	}
	if s.Placement == PlaceHeader {
		out.Headers.Set(name, sig)
	} else {
		sorted.Set(name, sig)
	}
	if s.KeyHeader != "" {
		out.Headers.Set(s.KeyHeader, creds.APIKey)
	}

	if out.Form != nil {
		out.Form = sorted
	} else {
		out.Query = sorted
	}
	if err := out.Encode(); err != nil {
		return nil, err
	}
	return out, nil
}
