package common

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"
)

// Digest 哈希算法名称
type Digest string

const (
	DigestMD5    Digest = "md5"
	DigestSHA1   Digest = "sha1"
	DigestSHA256 Digest = "sha256"
	DigestSHA384 Digest = "sha384"
	DigestSHA512 Digest = "sha512"
)

// Encoding 签名输出编码
type Encoding string

const (
	EncodingHex    Encoding = "hex"
	EncodingBase64 Encoding = "base64"
)

// HashFunc 返回算法对应的构造函数
func (d Digest) HashFunc() (func() hash.Hash, error) {
	switch Digest(strings.ToLower(string(d))) {
	case DigestMD5:
		return md5.New, nil
	case DigestSHA1:
		return sha1.New, nil
	case DigestSHA256, "":
		return sha256.New, nil
	case DigestSHA384:
		return sha512.New384, nil
	case DigestSHA512:
		return sha512.New, nil
	}
	return nil, fmt.Errorf("unsupported digest %q", string(d))
}

// HMAC 计算 HMAC 并按 enc 编码
func HMAC(d Digest, enc Encoding, message, secret []byte) (string, error) {
	fn, err := d.HashFunc()
	if err != nil {
		return "", err
	}
	mac := hmac.New(fn, secret)
	mac.Write(message)
	return Encode(mac.Sum(nil), enc), nil
}

// Hash 计算摘要并按 enc 编码
func Hash(d Digest, enc Encoding, message []byte) (string, error) {
	fn, err := d.HashFunc()
	if err != nil {
		return "", err
	}
	h := fn()
	h.Write(message)
	return Encode(h.Sum(nil), enc), nil
}

// Encode 按编码输出
func Encode(b []byte, enc Encoding) string {
	if enc == EncodingBase64 {
		return base64.StdEncoding.EncodeToString(b)
	}
	return hex.EncodeToString(b)
}
