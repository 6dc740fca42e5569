package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StartingCash is the play-money grant every new account receives.
var StartingCash = decimal.RequireFromString("10000.00")

type Account struct {
	ID        uint            `json:"id"`
	Username  string          `json:"username"`
	Password  string          `json:"-"`
	Cash      decimal.Decimal `json:"cash"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
