package domain

import "github.com/shopspring/decimal"

// Holding is an account's current position in one company. A holding only
// exists while its share count is positive.
type Holding struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"company_name"`
	Shares      int64  `json:"shares"`
}

// PortfolioRow is a holding priced at the moment the portfolio was built.
type PortfolioRow struct {
	Symbol      string          `json:"symbol"`
	CompanyName string          `json:"company_name"`
	Shares      int64           `json:"shares"`
	Price       decimal.Decimal `json:"price"`
	MarketValue decimal.Decimal `json:"market_value"`
}

type Portfolio struct {
	Rows       []PortfolioRow  `json:"rows"`
	Cash       decimal.Decimal `json:"cash"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}
