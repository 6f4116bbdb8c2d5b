package common

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lemconn/venuelink/errs"
	"github.com/lemconn/venuelink/logger"
)

// Response HTTP 响应，非 2xx 状态同样返回，由上层解析错误体
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Elapsed    time.Duration
}

// HTTPClient HTTP客户端
type HTTPClient struct {
	client   *http.Client
	exchange string
	baseURL  string
	headers  map[string]string
	proxy    string
	debug    bool
	log      *logger.Entry
}

// NewHTTPClient 创建HTTP客户端
func NewHTTPClient(exchange, baseURL string) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		exchange: exchange,
		baseURL:  strings.TrimRight(baseURL, "/"),
		headers:  make(map[string]string),
		log:      logger.GetLogger().WithComponent(exchange),
	}
}

// SetProxy 设置代理
func (c *HTTPClient) SetProxy(proxyURL string) error {
	if proxyURL == "" {
		c.client.Transport = nil
		c.proxy = ""
		return nil
	}

	proxy, err := url.Parse(proxyURL)
	if err != nil {
		return fmt.Errorf("invalid proxy URL: %w", err)
	}

	transport := &http.Transport{
		Proxy: http.ProxyURL(proxy),
	}
	if existing, ok := c.client.Transport.(*http.Transport); ok {
		transport.TLSClientConfig = existing.TLSClientConfig
	}

	c.client.Transport = transport
	c.proxy = proxyURL
	return nil
}

// GetProxy 获取当前代理设置
func (c *HTTPClient) GetProxy() string {
	return c.proxy
}

// SetHeader 设置固定请求头
func (c *HTTPClient) SetHeader(key, value string) {
	c.headers[key] = value
}

// SetTimeout 设置超时时间
func (c *HTTPClient) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		c.client.Timeout = timeout
	}
}

// SetDebug 设置是否启用调试模式（记录请求与响应体）
func (c *HTTPClient) SetDebug(debug bool) {
	c.debug = debug
}

// SetLogger 设置日志
func (c *HTTPClient) SetLogger(entry *logger.Entry) {
	if entry != nil {
		c.log = entry
	}
}

// SetClient 替换底层 http.Client
func (c *HTTPClient) SetClient(client *http.Client) {
	if client != nil {
		c.client = client
	}
}

// BaseURL 基础地址
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// SetBaseURL 修改基础地址
func (c *HTTPClient) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
}

// Do 发送请求
// 传输层失败（超时、连接重置、DNS）返回 NetworkError，不重试；
// 响应体总是读取完并关闭连接
func (c *HTTPClient) Do(ctx context.Context, method, path, query string, headers http.Header, body []byte) (*Response, error) {
	target := c.baseURL + path
	if query != "" {
		target += "?" + query
	}

	var reqBody io.Reader
	if len(body) > 0 {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, vs := range headers {
		for i, v := range vs {
			if i == 0 {
				req.Header.Set(k, v)
			} else {
				req.Header.Add(k, v)
			}
		}
	}

	if c.debug {
		c.log.WithFields(logger.Fields{
			"method": method,
			"url":    target,
			"body":   string(body),
		}).Info("request")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, method, path, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.log.WithError(closeErr).Warn("close response body")
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportError(ctx, method, path, err)
	}
	elapsed := time.Since(start)

	entry := c.log.WithFields(logger.Fields{
		"method":  method,
		"path":    path,
		"status":  resp.StatusCode,
		"elapsed": elapsed.String(),
	})
	if c.debug {
		entry.WithFields(logger.Fields{"body": string(respBody)}).Info("response")
	} else {
		entry.Debug("response")
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
		Elapsed:    elapsed,
	}, nil
}

func (c *HTTPClient) transportError(ctx context.Context, method, path string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(ctxErr, context.Canceled) {
		return fmt.Errorf("%s %s: %w", method, path, ctxErr)
	}
	msg := method + " " + path
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		msg += " timed out"
	}
	return errs.New(c.exchange, errs.NetworkError, errs.WithMessage(msg), errs.WithCause(err))
}
