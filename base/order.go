package base

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lemconn/venuelink/common"
	"github.com/lemconn/venuelink/errs"
	"github.com/lemconn/venuelink/model"
	"github.com/lemconn/venuelink/option"
)

// OrderRequest 已按市场精度处理并通过限制检查的下单参数
type OrderRequest struct {
	Market        *model.Market
	Side          model.OrderSide
	Type          model.OrderType
	Amount        decimal.Decimal
	Price         decimal.Decimal
	HasPrice      bool
	ClientOrderID string
	Params        map[string]any
}

// AmountString 数量按市场精度输出
func (r *OrderRequest) AmountString() string {
	return r.Amount.StringFixed(int32(r.Market.Precision.Amount))
}

// PriceString 价格按市场精度输出，无价格时为空
func (r *OrderRequest) PriceString() string {
	if !r.HasPrice {
		return ""
	}
	return r.Price.StringFixed(int32(r.Market.Precision.Price))
}

// PrepareOrder 下单前检查：解析并按精度处理数量和价格，检查市场限制
// 限价单缺少价格返回 ArgumentsRequired，超出限制返回 InvalidOrder
func (a *Adapter) PrepareOrder(market *model.Market, side model.OrderSide, orderType model.OrderType, amount string, args *option.ExchangeArgsOptions) (*OrderRequest, error) {
	if args == nil {
		args = &option.ExchangeArgsOptions{}
	}
	if side != model.OrderSideBuy && side != model.OrderSideSell {
		return nil, errs.New(a.desc.ID, errs.InvalidOrder, errs.WithMessage(fmt.Sprintf("invalid order side %q", side)))
	}
	if orderType != model.OrderTypeLimit && orderType != model.OrderTypeMarket {
		return nil, errs.New(a.desc.ID, errs.InvalidOrder, errs.WithMessage(fmt.Sprintf("invalid order type %q", orderType)))
	}

	qty, err := decimal.NewFromString(amount)
	if err != nil || qty.Sign() <= 0 {
		return nil, errs.New(a.desc.ID, errs.InvalidOrder, errs.WithMessage(fmt.Sprintf("invalid amount %q", amount)))
	}

	mode := a.RoundingMode()
	req := &OrderRequest{
		Market: market,
		Side:   side,
		Type:   orderType,
		Amount: common.AmountToPrecision(qty, market.Precision.Amount, mode),
		Params: args.Params,
	}
	if args.ClientOrderID != nil {
		req.ClientOrderID = *args.ClientOrderID
	}

	if option.StringPresent(args.Price) {
		if _, ok := option.GetDecimalFromString(args.Price); !ok {
			return nil, errs.New(a.desc.ID, errs.InvalidOrder, errs.WithMessage(fmt.Sprintf("invalid price %q", *args.Price)))
		}
	}
	if price, ok := option.GetDecimalFromString(args.Price); ok {
		if price.Sign() <= 0 {
			return nil, errs.New(a.desc.ID, errs.InvalidOrder, errs.WithMessage("price must be positive"))
		}
		req.Price = common.PriceToPrecision(price, market.Precision.Price, mode)
		req.HasPrice = true
	} else if orderType == model.OrderTypeLimit {
		return nil, errs.New(a.desc.ID, errs.ArgumentsRequired, errs.WithMessage("limit order requires a price"))
	}

	if err := a.checkLimits(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (a *Adapter) checkLimits(req *OrderRequest) error {
	limits := req.Market.Limits
	if req.Amount.Sign() <= 0 {
		return errs.New(a.desc.ID, errs.InvalidOrder,
			errs.WithMessage(fmt.Sprintf("amount rounds to zero at precision %d", req.Market.Precision.Amount)))
	}
	if err := a.checkRange("amount", req.Amount, limits.Amount); err != nil {
		return err
	}
	if !req.HasPrice {
		return nil
	}
	if err := a.checkRange("price", req.Price, limits.Price); err != nil {
		return err
	}
	return a.checkRange("cost", req.Amount.Mul(req.Price), limits.Cost)
}

func (a *Adapter) checkRange(name string, v decimal.Decimal, mm model.MinMax) error {
	if mm.Min.Valid && v.LessThan(mm.Min.Decimal) {
		return errs.New(a.desc.ID, errs.InvalidOrder,
			errs.WithMessage(fmt.Sprintf("%s %s is below minimum %s", name, v, mm.Min)))
	}
	if mm.Max.Valid && mm.Max.Positive() && v.GreaterThan(mm.Max.Decimal) {
		return errs.New(a.desc.ID, errs.InvalidOrder,
			errs.WithMessage(fmt.Sprintf("%s %s exceeds maximum %s", name, v, mm.Max)))
	}
	return nil
}
