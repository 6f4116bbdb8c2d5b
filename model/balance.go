package model

import (
	"github.com/shopspring/decimal"

	"github.com/lemconn/venuelink/types"
)

// Balance 单币种余额
type Balance struct {
	// Free 可用余额
	Free types.ExDecimal `json:"free"`
	// Used 冻结余额
	Used types.ExDecimal `json:"used"`
	// Total 总余额
	Total types.ExDecimal `json:"total"`
}

// Derive 三项中已知两项时补齐第三项
func (b *Balance) Derive() {
	switch {
	case !b.Total.Valid:
		b.Total = b.Free.Plus(b.Used)
	case !b.Free.Valid:
		b.Free = b.Total.Minus(b.Used)
	case !b.Used.Valid:
		b.Used = b.Total.Minus(b.Free)
	}
}

// Consistent 三项都已知时检查 total == free + used（容差 tol）
// 有任一项未知时返回 true
func (b *Balance) Consistent(tol decimal.Decimal) bool {
	if !b.Free.Valid || !b.Used.Valid || !b.Total.Valid {
		return true
	}
	diff := b.Total.Decimal.Sub(b.Free.Decimal.Add(b.Used.Decimal)).Abs()
	return diff.LessThanOrEqual(tol)
}

// Balances 所有余额（币种 -> 余额）
type Balances map[string]*Balance

// GetBalance 获取指定币种余额，不存在时返回三项均为 0 的余额
func (b Balances) GetBalance(currency string) *Balance {
	if balance, ok := b[currency]; ok {
		return balance
	}
	zero := types.NewExDecimal(decimal.Zero)
	return &Balance{Free: zero, Used: zero, Total: zero}
}

// BalanceSheet 余额查询结果
type BalanceSheet struct {
	// Balances 币种余额
	Balances Balances `json:"balances"`
	// Timestamp 时间戳
	Timestamp types.ExTimestamp `json:"timestamp"`
	// Info 交易所原始信息
	Info any `json:"info,omitempty"`
}

// NewBalanceSheet 创建空余额表
func NewBalanceSheet(info any) *BalanceSheet {
	return &BalanceSheet{Balances: make(Balances), Info: info}
}

// Set 写入币种余额并补齐推导字段
func (s *BalanceSheet) Set(code string, b *Balance) {
	b.Derive()
	s.Balances[code] = b
}
