package auth

import (
	"fmt"

	"github.com/lemconn/venuelink/common"
	"github.com/lemconn/venuelink/config"
)

// Signer 请求签名器，返回签名后的副本，不修改入参
type Signer interface {
	Sign(req *Request, creds Credentials) (*Request, error)
}

// Placement 签名放置位置
type Placement string

const (
	PlaceQuery  Placement = "query"
	PlaceHeader Placement = "header"
)

// New 按描述中的签名方式创建签名器
func New(desc *config.Descriptor) (Signer, error) {
	a := desc.Auth
	nonce := NewNonce(NonceUnit(a.NonceUnit))

	switch a.Strategy {
	case config.StrategyRawQueryHMAC:
		return &RawQueryHMAC{
			Exchange:   desc.ID,
			Digest:     common.Digest(a.Digest),
			Encoding:   common.Encoding(a.Encoding),
			Placement:  Placement(a.Placement),
			ParamName:  a.ParamName,
			KeyParam:   a.KeyParam,
			KeyHeader:  a.KeyHeader,
			NonceParam: a.NonceParam,
			Nonce:      nonce,
		}, nil
	case config.StrategyJSONBodyHMAC:
		return &JSONBodyHMAC{
			Exchange:     desc.ID,
			Digest:       common.Digest(a.Digest),
			Encoding:     common.Encoding(a.Encoding),
			PayloadField: a.PayloadField,
			KeyField:     a.KeyField,
			SignField:    a.SignField,
			Wrap:         a.Wrap,
		}, nil
	case config.StrategyRSADigest:
		return &RSADigest{
			Exchange:  desc.ID,
			KeyParam:  a.KeyParam,
			SignParam: a.ParamName,
			LineWidth: a.LineWidth,
			Header:    a.PEMHeader,
		}, nil
	case config.StrategyCompositeHMAC:
		parts := make([]Part, 0, len(a.Parts))
		for _, p := range a.Parts {
			parts = append(parts, Part(p))
		}
		return &CompositeHMAC{
			Exchange:        desc.ID,
			Digest:          common.Digest(a.Digest),
			Encoding:        common.Encoding(a.Encoding),
			Delimiter:       a.Delimiter,
			Parts:           parts,
			BodyTransform:   a.BodyTransform,
			KeyHeader:       a.KeyHeader,
			SignatureHeader: a.SignatureHeader,
			NonceHeader:     a.NonceHeader,
			Nonce:           nonce,
		}, nil
	case config.StrategyBasicToken:
		return &BasicToken{
			Exchange:   desc.ID,
			NonceParam: a.NonceParam,
			Nonce:      nonce,
		}, nil
	}
	return nil, fmt.Errorf("%s: unknown auth strategy %q", desc.ID, a.Strategy)
}
