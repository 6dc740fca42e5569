package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestReplay(t *testing.T) {
	transactions := []Transaction{
		{Type: TransactionBuy, Symbol: "NFLX", Shares: 10, Total: decimal.RequireFromString("5000.00")},
		{Type: TransactionBuy, Symbol: "AAPL", Shares: 5, Total: decimal.RequireFromString("1000.00")},
		{Type: TransactionSell, Symbol: "NFLX", Shares: 4, Total: decimal.RequireFromString("2080.00")},
	}

	cashDelta, shares := Replay(transactions)

	assert.True(t, cashDelta.Equal(decimal.RequireFromString("-3920.00")))
	assert.Equal(t, map[string]int64{"NFLX": 6, "AAPL": 5}, shares)
}

func TestReplay_ClosedPositionLeavesNoHolding(t *testing.T) {
	transactions := []Transaction{
		{Type: TransactionBuy, Symbol: "NFLX", Shares: 10, Total: decimal.RequireFromString("5000.00")},
		{Type: TransactionSell, Symbol: "NFLX", Shares: 10, Total: decimal.RequireFromString("5200.00")},
	}

	cashDelta, shares := Replay(transactions)

	assert.True(t, cashDelta.Equal(decimal.RequireFromString("200.00")))
	assert.Empty(t, shares)
}

func TestReplay_Empty(t *testing.T) {
	cashDelta, shares := Replay(nil)

	assert.True(t, cashDelta.IsZero())
	assert.Empty(t, shares)
}
