package base

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/lemconn/venuelink/auth"
	"github.com/lemconn/venuelink/config"
	"github.com/lemconn/venuelink/errs"
	"github.com/lemconn/venuelink/logger"
	"github.com/lemconn/venuelink/types"
)

// Call 一次接口调用：操作ID、接口定义与待发送的请求
type Call struct {
	Op       string
	Endpoint config.Endpoint
	*auth.Request
}

// Prepare 按操作ID查找接口并创建请求，路径中的 {name} 由 pathParams 替换
// 描述中没有该操作时返回 NotSupported
func (a *Adapter) Prepare(op string, pathParams map[string]string) (*Call, error) {
	ep, ok := a.desc.Endpoint(op)
	if !ok {
		return nil, errs.New(a.desc.ID, errs.NotSupported, errs.WithMessage(op+" is not supported"))
	}
	path := ep.Path
	for name, value := range pathParams {
		path = strings.ReplaceAll(path, "{"+name+"}", value)
	}
	if strings.Contains(path, "{") {
		return nil, errs.New(a.desc.ID, errs.ArgumentsRequired,
			errs.WithMessage(fmt.Sprintf("%s: unresolved path parameter in %s", op, path)))
	}
	return &Call{
		Op:       op,
		Endpoint: ep,
		Request:  auth.NewRequest(ep.Method, path),
	}, nil
}

// Dispatch 发送请求
// 顺序：检查凭证 -> 节流 -> 签名 -> 发送 -> 解析 -> 错误映射 -> 解包
// 节流之后才签名，nonce 与实际发送顺序一致
func (a *Adapter) Dispatch(ctx context.Context, call *Call) (any, error) {
	if err := a.requireCredentials(call); err != nil {
		return nil, err
	}

	if err := a.throttle.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := a.sign(call)
	if err != nil {
		return nil, err
	}

	resp, err := a.http.Do(ctx, req.Method, req.Path, req.RawQuery(), req.Headers, req.Body)
	if err != nil {
		return nil, err
	}

	payload, decodeErr := types.Decode(resp.Body)
	if decodeErr != nil {
		payload = nil
	}

	if a.errorMapper != nil {
		if mapped := a.errorMapper.MapError(resp.StatusCode, resp.Body, payload); mapped != nil {
			a.log.WithFields(logger.Fields{
				"op":     call.Op,
				"status": resp.StatusCode,
			}).WithError(mapped).Warn("exchange error")
			return nil, mapped
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		e := errs.New(a.desc.ID, errs.ExchangeError,
			errs.WithHTTP(resp.StatusCode),
			errs.WithMessage(string(resp.Body)),
			errs.WithInfo(payload),
		)
		a.log.WithFields(logger.Fields{
			"op":     call.Op,
			"status": resp.StatusCode,
		}).WithError(e).Warn("exchange error")
		return nil, e
	}

	if decodeErr != nil {
		return nil, errs.New(a.desc.ID, errs.ExchangeError,
			errs.WithMessage(call.Op+": malformed response"),
			errs.WithCause(decodeErr),
		)
	}

	if a.normalizer != nil {
		return a.normalizer.Unwrap(call.Op, payload)
	}
	return payload, nil
}

// sign 私有接口先检查凭证再签名，公有接口只编码请求体
// requireCredentials 私有接口在排队和发送前检查凭证
func (a *Adapter) requireCredentials(call *Call) error {
	if !call.Endpoint.Private {
		return nil
	}
	return a.Credentials().Require(a.desc.ID, auth.RequiredFields(a.desc.RequiredCredentials)...)
}

func (a *Adapter) sign(call *Call) (*auth.Request, error) {
	if !call.Endpoint.Private {
		req := call.Request.Clone()
		if err := req.Encode(); err != nil {
			return nil, err
		}
		return req, nil
	}

	creds := a.Credentials()
	if a.signer == nil {
		return nil, errs.New(a.desc.ID, errs.NotSupported, errs.WithMessage(call.Op+": no signer configured"))
	}
	req, err := a.signer.Sign(call.Request, creds)
	if err != nil {
		return nil, err
	}
	if err := req.Encode(); err != nil {
		return nil, err
	}
	return req, nil
}

// DispatchPayload 发送请求并要求返回 JSON 对象
func (a *Adapter) DispatchPayload(ctx context.Context, call *Call) (types.Payload, error) {
	v, err := a.Dispatch(ctx, call)
	if err != nil {
		return nil, err
	}
	p, ok := types.AsPayload(v)
	if !ok {
		return nil, a.unexpected(call.Op, "object", v)
	}
	return p, nil
}

// DispatchList 发送请求并要求返回 JSON 数组
func (a *Adapter) DispatchList(ctx context.Context, call *Call) (types.List, error) {
	v, err := a.Dispatch(ctx, call)
	if err != nil {
		return nil, err
	}
	l, ok := types.AsList(v)
	if !ok {
		return nil, a.unexpected(call.Op, "array", v)
	}
	return l, nil
}

func (a *Adapter) unexpected(op, want string, v any) error {
	return errs.New(a.desc.ID, errs.ExchangeError,
		errs.WithMessage(fmt.Sprintf("%s: expected %s, got %T", op, want, v)),
		errs.WithInfo(v),
	)
}

// ApplyParams 把调用方的交易所特有参数并入查询或表单
func ApplyParams(dst *types.ExValues, params map[string]any) {
	if dst == nil || len(params) == 0 {
		return
	}
	dst.Merge(types.ExValuesFromMap(params))
}

// DispatchInto 发送请求并把结果解析到 out
func (a *Adapter) DispatchInto(ctx context.Context, call *Call, out any) error {
	v, err := a.Dispatch(ctx, call)
	if err != nil {
		return err
	}
	if err := types.Convert(v, out); err != nil {
		return errs.New(a.desc.ID, errs.ExchangeError,
			errs.WithMessage(call.Op+": unexpected response shape"),
			errs.WithCause(err),
			errs.WithInfo(v),
		)
	}
	return nil
}
