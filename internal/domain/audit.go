package domain

import "github.com/shopspring/decimal"

// Replay folds the transaction log into the cash delta and share counts it
// implies. Transactions are the source of truth; the stored cash balance and
// holding rows must always match a replay from the starting grant.
func Replay(transactions []Transaction) (decimal.Decimal, map[string]int64) {
	cashDelta := decimal.Zero
	shares := make(map[string]int64)

	for _, t := range transactions {
		switch t.Type {
		case TransactionBuy:
			cashDelta = cashDelta.Sub(t.Total)
			shares[t.Symbol] += t.Shares
		case TransactionSell:
			cashDelta = cashDelta.Add(t.Total)
			shares[t.Symbol] -= t.Shares
		}
	}

	for symbol, count := range shares {
		if count == 0 {
			delete(shares, symbol)
		}
	}

	return cashDelta, shares
}

type HoldingDrift struct {
	Symbol   string `json:"symbol"`
	Expected int64  `json:"expected_shares"`
	Actual   int64  `json:"actual_shares"`
}

// AuditReport compares the stored ledger state against a transaction replay.
type AuditReport struct {
	Consistent   bool            `json:"consistent"`
	ExpectedCash decimal.Decimal `json:"expected_cash"`
	ActualCash   decimal.Decimal `json:"actual_cash"`
	HoldingDrift []HoldingDrift  `json:"holding_drift,omitempty"`
}
