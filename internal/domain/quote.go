package domain

import "github.com/shopspring/decimal"

// Quote is a live price read from the oracle. Prices are never stored, so a
// Quote is only valid for the single operation it was fetched for.
type Quote struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
}
