package auth

import (
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/lemconn/venuelink/types"
)

// 请求体类型
const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// Request 待发送的请求
// Path 相对交易所基础地址且已展开路径参数；
// 请求体在 Encode 之前以 Form 或 JSON 的结构化形式保存，方便签名器改写
type Request struct {
	Method      string
	Path        string
	Query       *types.ExValues
	Form        *types.ExValues
	JSON        any
	Headers     http.Header
	Body        []byte
	ContentType string
}

// NewRequest 创建请求
func NewRequest(method, path string) *Request {
	return &Request{
		Method:  method,
		Path:    path,
		Query:   types.NewExValues(),
		Headers: make(http.Header),
	}
}

// SetJSONBody 设置 JSON 请求体
func (r *Request) SetJSONBody(v any) {
	r.JSON = v
	r.Form = nil
	r.Body = nil
	r.ContentType = ContentTypeJSON
}

// SetFormBody 设置表单请求体
func (r *Request) SetFormBody(v *types.ExValues) {
	r.Form = v
	r.JSON = nil
	r.Body = nil
	r.ContentType = ContentTypeForm
}

// Clone 复制请求，签名器在副本上修改
func (r *Request) Clone() *Request {
	out := *r
	if r.Query != nil {
		out.Query = r.Query.Clone()
	} else {
		out.Query = types.NewExValues()
	}
	if r.Form != nil {
		out.Form = r.Form.Clone()
	}
	out.Headers = r.Headers.Clone()
	if out.Headers == nil {
		out.Headers = make(http.Header)
	}
	if r.Body != nil {
		out.Body = append([]byte(nil), r.Body...)
	}
	return &out
}

// RawQuery 编码后的查询串
func (r *Request) RawQuery() string {
	if r.Query == nil {
		return ""
	}
	return r.Query.EncodeQuery()
}

// PathWithQuery 路径加查询串
func (r *Request) PathWithQuery() string {
	if q := r.RawQuery(); q != "" {
		return r.Path + "?" + q
	}
	return r.Path
}

// Encode 把结构化请求体编码到 Body，已有 Body 时不处理
func (r *Request) Encode() error {
	if r.Body != nil {
		return nil
	}
	switch {
	case r.JSON != nil:
		b, err := json.Marshal(r.JSON)
		if err != nil {
			return fmt.Errorf("encode json body: %w", err)
		}
		r.Body = b
		r.ContentType = ContentTypeJSON
	case r.Form != nil && r.Form.Len() > 0:
		r.Body = []byte(r.Form.EncodeQuery())
		r.ContentType = ContentTypeForm
	}
	if r.ContentType != "" && len(r.Body) > 0 {
		r.Headers.Set("Content-Type", r.ContentType)
	}
	return nil
}
