package auth

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"strings"
	"sync"

	"github.com/lemconn/venuelink/common"
	"github.com/lemconn/venuelink/errs"
	"github.com/lemconn/venuelink/types"
)

const defaultPEMHeader = "PRIVATE KEY"

// RSADigest 排序参数（含 api_key）原样拼接，取 MD5 大写十六进制，
// 再用 RSA PKCS#1 v1.5 SHA-256 签名，base64 后放入表单的 sign 字段
type RSADigest struct {
	Exchange  string
	KeyParam  string
	SignParam string
	LineWidth int
	Header    string

	// 解析后的私钥缓存，secret 变化时重新解析
	mu        sync.Mutex
	key       *rsa.PrivateKey
	keySecret string
}

var _ Signer = (*RSADigest)(nil)

// Sign 实现 Signer
func (s *RSADigest) Sign(req *Request, creds Credentials) (*Request, error) {
	if err := creds.Require(s.Exchange, FieldAPIKey, FieldSecret); err != nil {
		return nil, err
	}
	key, err := s.privateKey(creds.Secret)
	if err != nil {
		return nil, err
	}

	out := req.Clone()
	fromQuery := out.Form == nil
	params := out.Query
	if !fromQuery {
		params = out.Form
	}
	params.Set(field(s.KeyParam, "api_key"), creds.APIKey)
	sorted := params.Sorted()

	digest, err := common.Hash(common.DigestMD5, common.EncodingHex, []byte(sorted.EncodeRaw()))
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256([]byte(strings.ToUpper(digest)))
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, sum[:])
	if err != nil {
		return nil, fmt.Errorf("rsa sign: %w", err)
	}
	sorted.Set(field(s.SignParam, "sign"), base64.StdEncoding.EncodeToString(sig))

	out.SetFormBody(sorted)
	if fromQuery {
		out.Query = types.NewExValues()
	}
	if err := out.Encode(); err != nil {
		return nil, err
	}
	return out, nil
}

// Reset 清除私钥缓存，更换 secret 时调用
func (s *RSADigest) Reset() {
	s.mu.Lock()
	s.key = nil
	s.keySecret = ""
	s.mu.Unlock()
}

func (s *RSADigest) privateKey(secret string) (*rsa.PrivateKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.key != nil && s.keySecret == secret {
		return s.key, nil
	}

	key, err := ParseRSAPrivateKey(ReshapePEM(secret, s.Header, s.LineWidth))
	if err != nil {
		return nil, errs.New(s.Exchange, errs.AuthenticationError,
			errs.WithMessage("invalid rsa secret"), errs.WithCause(err))
	}
	s.key = key
	s.keySecret = secret
	return key, nil
}

// ReshapePEM 去掉已有的 PEM 标记与空白，按 width 换行后加上标记
func ReshapePEM(secret, header string, width int) string {
	if header == "" {
		header = defaultPEMHeader
	}
	if width <= 0 {
		width = 64
	}

	var body strings.Builder
	for _, line := range strings.Split(secret, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "-----") {
			continue
		}
		body.WriteString(strings.Join(strings.Fields(line), ""))
	}
	raw := body.String()

	var b strings.Builder
	b.WriteString("-----BEGIN " + header + "-----\n")
	for i := 0; i < len(raw); i += width {
		end := min(i+width, len(raw))
		b.WriteString(raw[i:end])
		b.WriteByte('\n')
	}
	b.WriteString("-----END " + header + "-----\n")
	return b.String()
}

// ParseRSAPrivateKey 解析 PEM 私钥，先按 PKCS#8，失败再按 PKCS#1
func ParseRSAPrivateKey(pemText string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemText))
	if block == nil {
		return nil, fmt.Errorf("failed to decode PEM block")
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		pkcs1Key, pkcs1Err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if pkcs1Err != nil {
			return nil, fmt.Errorf("parse private key: pkcs8: %v; pkcs1: %w", err, pkcs1Err)
		}
		return pkcs1Key, nil
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is not RSA")
	}
	return rsaKey, nil
}
