package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionBuy  TransactionType = "buy"
	TransactionSell TransactionType = "sell"
)

// Transaction is one settled trade. The transaction log is append-only and is
// the system of record; holdings and cash are projections of it.
type Transaction struct {
	ID          uint            `json:"id"`
	AccountID   uint            `json:"account_id"`
	Symbol      string          `json:"symbol"`
	CompanyName string          `json:"company_name"`
	Type        TransactionType `json:"type"`
	Shares      int64           `json:"shares"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
	ExecutedAt  time.Time       `json:"executed_at"`
}
