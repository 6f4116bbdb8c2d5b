package auth

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/lemconn/venuelink/common"
)

// Part 签名串组成部分
type Part string

const (
	PartNonce  Part = "nonce"
	PartMethod Part = "method"
	PartPath   Part = "path"
	PartBody   Part = "body"
)

// CompositeHMAC 按 Parts 顺序拼接 nonce、方法、路径（含查询串）与请求体后做 HMAC
// 请求体为空时 body 部分省略；BodyTransform 为 base64 时请求体先做 base64
type CompositeHMAC struct {
	Exchange        string
	Digest          common.Digest
	Encoding        common.Encoding
	Delimiter       string
	Parts           []Part
	BodyTransform   string
	KeyHeader       string
	SignatureHeader string
	NonceHeader     string
	Nonce           *Nonce
}

var _ Signer = (*CompositeHMAC)(nil)

// Sign 实现 Signer
func (s *CompositeHMAC) Sign(req *Request, creds Credentials) (*Request, error) {
	if err := creds.Require(s.Exchange, FieldAPIKey, FieldSecret); err != nil {
		return nil, err
	}
	out := req.Clone()
	if err := out.Encode(); err != nil {
		return nil, err
	}

	nonce := s.Nonce.NextString()
	components := make([]string, 0, len(s.Parts))
	for _, p := range s.Parts {
		switch p {
		case PartNonce:
			components = append(components, nonce)
		case PartMethod:
			components = append(components, out.Method)
		case PartPath:
			components = append(components, out.PathWithQuery())
		case PartBody:
			if len(out.Body) == 0 {
				continue
			}
			if s.BodyTransform == "base64" {
				components = append(components, base64.StdEncoding.EncodeToString(out.Body))
			} else {
				components = append(components, string(out.Body))
			}
		default:
			return nil, fmt.Errorf("%s: unknown signature part %q", s.Exchange, p)
		}
	}

	sig, err := common.HMAC(s.Digest, s.Encoding, []byte(strings.Join(components, s.Delimiter)), []byte(creds.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign request: %w", err)
	}

	out.Headers.Set(s.KeyHeader, creds.APIKey)
	out.Headers.Set(s.SignatureHeader, sig)
	if s.NonceHeader != "" {
		out.Headers.Set(s.NonceHeader, nonce)
	}
	out.Headers.Set("Content-Type", ContentTypeJSON)
	return out, nil
}
