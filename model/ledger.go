package model

import "github.com/lemconn/venuelink/types"

// LedgerDirection 资金方向
type LedgerDirection string

const (
	LedgerIn  LedgerDirection = "in"
	LedgerOut LedgerDirection = "out"
)

// LedgerType 流水类型
type LedgerType string

const (
	LedgerTrade       LedgerType = "trade"
	LedgerTransaction LedgerType = "transaction"
	LedgerFee         LedgerType = "fee"
)

// LedgerEntry 资金流水
// 一笔成交会展开为基础币、计价币两条流水，手续费可能单独一条
type LedgerEntry struct {
	ID               string            `json:"id"`
	Timestamp        types.ExTimestamp `json:"timestamp"`
	Direction        LedgerDirection   `json:"direction"`
	Account          string            `json:"account,omitempty"`
	ReferenceID      string            `json:"referenceId"`
	ReferenceAccount string            `json:"referenceAccount,omitempty"`
	Type             LedgerType        `json:"type"`
	Currency         string            `json:"currency"`
	Amount           types.ExDecimal   `json:"amount"`
	Before           types.ExDecimal   `json:"before"`
	After            types.ExDecimal   `json:"after"`
	Status           string            `json:"status"`
	Fee              *Fee              `json:"fee,omitempty"`
	Info             map[string]any    `json:"info,omitempty"`
}
