package model

import "github.com/lemconn/venuelink/types"

// TransactionType 充提类型
type TransactionType string

const (
	TransactionDeposit    TransactionType = "deposit"
	TransactionWithdrawal TransactionType = "withdrawal"
)

// TransactionStatus 充提状态，未识别的交易所状态原样保留
type TransactionStatus string

const (
	TransactionPending  TransactionStatus = "pending"
	TransactionOK       TransactionStatus = "ok"
	TransactionFailed   TransactionStatus = "failed"
	TransactionCanceled TransactionStatus = "canceled"
)

// Transaction 充值或提现记录
type Transaction struct {
	ID        string            `json:"id"`
	TxID      string            `json:"txid,omitempty"`
	Type      TransactionType   `json:"type"`
	Currency  string            `json:"currency"`
	Amount    types.ExDecimal   `json:"amount"`
	Address   string            `json:"address,omitempty"`
	Tag       string            `json:"tag,omitempty"`
	Status    TransactionStatus `json:"status"`
	Fee       *Fee              `json:"fee,omitempty"`
	Timestamp types.ExTimestamp `json:"timestamp"`
	Updated   types.ExTimestamp `json:"updated"`
	Info      map[string]any    `json:"info,omitempty"`
}
