package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"papertrade/internal/domain"
	"papertrade/internal/events"
	"papertrade/internal/oracle"
	"papertrade/internal/repository"
)

var (
	ErrSymbolNotFound     = oracle.ErrSymbolNotFound
	ErrInsufficientFunds  = repository.ErrInsufficientFunds
	ErrInsufficientShares = repository.ErrInsufficientShares
	ErrInvalidShares      = errors.New("shares must be a positive integer")
)

type TradeLedgerRepository interface {
	Buy(ctx context.Context, accountID uint, quote domain.Quote, shares int64) (domain.Transaction, error)
	Sell(ctx context.Context, accountID uint, quote domain.Quote, shares int64) (domain.Transaction, error)
	FindHoldings(ctx context.Context, accountID uint) ([]domain.Holding, error)
	FindTransactions(ctx context.Context, accountID uint) ([]domain.Transaction, error)
}

type PriceOracle interface {
	Lookup(ctx context.Context, symbol string) (domain.Quote, error)
}

// TradeService is the ledger core. Every operation takes the acting account
// id explicitly; authentication has already happened at the boundary.
type TradeService struct {
	ledger      TradeLedgerRepository
	accountRepo AccountRepository
	oracle      PriceOracle
	publisher   events.Publisher
}

func NewTradeService(ledger TradeLedgerRepository, accountRepo AccountRepository, oracle PriceOracle, publisher events.Publisher) *TradeService {
	return &TradeService{
		ledger:      ledger,
		accountRepo: accountRepo,
		oracle:      oracle,
		publisher:   publisher,
	}
}

// Quote reads a fresh price from the oracle. Results are never cached.
func (s *TradeService) Quote(ctx context.Context, symbol string) (domain.Quote, error) {
	quote, err := s.oracle.Lookup(ctx, symbol)
	if err != nil {
		if errors.Is(err, oracle.ErrSymbolNotFound) {
			return domain.Quote{}, ErrSymbolNotFound
		}

		return domain.Quote{}, fmt.Errorf("s.oracle.Lookup -> %w", err)
	}

	return quote, nil
}

// Buy settles a purchase at the current oracle price. The price is fetched
// before the ledger transaction starts and is fixed for the whole settlement.
func (s *TradeService) Buy(ctx context.Context, accountID uint, symbol string, shares int64) (domain.Transaction, error) {
	if shares <= 0 {
		return domain.Transaction{}, ErrInvalidShares
	}

	quote, err := s.Quote(ctx, symbol)
	if err != nil {
		return domain.Transaction{}, err
	}

	created, err := s.ledger.Buy(ctx, accountID, quote, shares)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientFunds) {
			return domain.Transaction{}, ErrInsufficientFunds
		}

		return domain.Transaction{}, fmt.Errorf("s.ledger.Buy -> %w", err)
	}

	s.publishTrade(ctx, created)

	return created, nil
}

// Sell settles a sale at the current oracle price.
func (s *TradeService) Sell(ctx context.Context, accountID uint, symbol string, shares int64) (domain.Transaction, error) {
	if shares <= 0 {
		return domain.Transaction{}, ErrInvalidShares
	}

	quote, err := s.Quote(ctx, symbol)
	if err != nil {
		return domain.Transaction{}, err
	}

	created, err := s.ledger.Sell(ctx, accountID, quote, shares)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientShares) {
			return domain.Transaction{}, ErrInsufficientShares
		}

		return domain.Transaction{}, fmt.Errorf("s.ledger.Sell -> %w", err)
	}

	s.publishTrade(ctx, created)

	return created, nil
}

// Portfolio prices every holding at the current oracle quote. If any single
// quote fails the whole view fails: the grand total must never mix fresh and
// missing prices.
func (s *TradeService) Portfolio(ctx context.Context, accountID uint) (domain.Portfolio, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return domain.Portfolio{}, fmt.Errorf("s.accountRepo.FindByID -> %w", err)
	}

	holdings, err := s.ledger.FindHoldings(ctx, accountID)
	if err != nil {
		return domain.Portfolio{}, fmt.Errorf("s.ledger.FindHoldings -> %w", err)
	}

	portfolio := domain.Portfolio{
		Rows:       make([]domain.PortfolioRow, 0, len(holdings)),
		Cash:       account.Cash,
		GrandTotal: account.Cash,
	}
	for _, h := range holdings {
		quote, err := s.oracle.Lookup(ctx, h.Symbol)
		if err != nil {
			return domain.Portfolio{}, fmt.Errorf("s.oracle.Lookup(%v) -> %w", h.Symbol, err)
		}

		value := quote.Price.Mul(decimal.NewFromInt(h.Shares))
		portfolio.Rows = append(portfolio.Rows, domain.PortfolioRow{
			Symbol:      h.Symbol,
			CompanyName: h.CompanyName,
			Shares:      h.Shares,
			Price:       quote.Price,
			MarketValue: value,
		})
		portfolio.GrandTotal = portfolio.GrandTotal.Add(value)
	}

	return portfolio, nil
}

// History returns the account's transactions, newest first.
func (s *TradeService) History(ctx context.Context, accountID uint) ([]domain.Transaction, error) {
	transactions, err := s.ledger.FindTransactions(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("s.ledger.FindTransactions -> %w", err)
	}

	return transactions, nil
}

// Audit replays the transaction log and compares it with the stored cash
// balance and holdings. Read-only; any drift is reported, never repaired.
func (s *TradeService) Audit(ctx context.Context, accountID uint) (domain.AuditReport, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return domain.AuditReport{}, fmt.Errorf("s.accountRepo.FindByID -> %w", err)
	}

	transactions, err := s.ledger.FindTransactions(ctx, accountID)
	if err != nil {
		return domain.AuditReport{}, fmt.Errorf("s.ledger.FindTransactions -> %w", err)
	}

	holdings, err := s.ledger.FindHoldings(ctx, accountID)
	if err != nil {
		return domain.AuditReport{}, fmt.Errorf("s.ledger.FindHoldings -> %w", err)
	}

	cashDelta, expectedShares := domain.Replay(transactions)

	report := domain.AuditReport{
		ExpectedCash: domain.StartingCash.Add(cashDelta),
		ActualCash:   account.Cash,
	}

	actualShares := make(map[string]int64, len(holdings))
	for _, h := range holdings {
		actualShares[h.Symbol] = h.Shares
	}
	for symbol, expected := range expectedShares {
		if actualShares[symbol] != expected {
			report.HoldingDrift = append(report.HoldingDrift, domain.HoldingDrift{
				Symbol:   symbol,
				Expected: expected,
				Actual:   actualShares[symbol],
			})
		}
	}
	for symbol, actual := range actualShares {
		if _, ok := expectedShares[symbol]; !ok {
			report.HoldingDrift = append(report.HoldingDrift, domain.HoldingDrift{
				Symbol:   symbol,
				Expected: 0,
				Actual:   actual,
			})
		}
	}

	report.Consistent = report.ExpectedCash.Equal(report.ActualCash) && len(report.HoldingDrift) == 0

	return report, nil
}

func (s *TradeService) publishTrade(ctx context.Context, t domain.Transaction) {
	event := events.TradeExecuted{
		EventID:    uuid.New().String(),
		AccountID:  t.AccountID,
		Symbol:     t.Symbol,
		Type:       string(t.Type),
		Shares:     t.Shares,
		Price:      t.Price,
		Total:      t.Total,
		ExecutedAt: t.ExecutedAt,
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		zap.L().Warn("failed to publish trade event",
			zap.String("event_id", event.EventID),
			zap.String("symbol", event.Symbol),
			zap.Error(err),
		)
	}
}
