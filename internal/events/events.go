// Package events publishes trade-executed notifications after settlement has
// committed. Publishing is best effort: a failed publish is logged and never
// rolls back the ledger.
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type TradeExecuted struct {
	EventID    string          `json:"event_id"`
	AccountID  uint            `json:"account_id"`
	Symbol     string          `json:"symbol"`
	Type       string          `json:"type"`
	Shares     int64           `json:"shares"`
	Price      decimal.Decimal `json:"price"`
	Total      decimal.Decimal `json:"total"`
	ExecutedAt time.Time       `json:"executed_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event TradeExecuted) error
}

// NoopPublisher is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(_ context.Context, _ TradeExecuted) error {
	return nil
}
