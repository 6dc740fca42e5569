package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"papertrade/internal/domain"
	"papertrade/internal/repository/dao"
)

var (
	ErrInsufficientFunds  = dao.ErrInsufficientFunds
	ErrInsufficientShares = dao.ErrInsufficientShares
)

type LedgerDAO interface {
	ExecuteBuy(ctx context.Context, accountID uint, symbol, name string, shares int64, price decimal.Decimal) (dao.Transaction, error)
	ExecuteSell(ctx context.Context, accountID uint, symbol string, shares int64, price decimal.Decimal) (dao.Transaction, error)
	FindHoldings(ctx context.Context, accountID uint) ([]dao.Holding, error)
	FindTransactions(ctx context.Context, accountID uint) ([]dao.Transaction, error)
}

type LedgerRepository struct {
	dao LedgerDAO
}

func NewLedgerRepository(dao LedgerDAO) *LedgerRepository {
	return &LedgerRepository{
		dao: dao,
	}
}

func (r *LedgerRepository) Buy(ctx context.Context, accountID uint, quote domain.Quote, shares int64) (domain.Transaction, error) {
	created, err := r.dao.ExecuteBuy(ctx, accountID, quote.Symbol, quote.Name, shares, quote.Price)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("r.dao.ExecuteBuy -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *LedgerRepository) Sell(ctx context.Context, accountID uint, quote domain.Quote, shares int64) (domain.Transaction, error) {
	created, err := r.dao.ExecuteSell(ctx, accountID, quote.Symbol, shares, quote.Price)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("r.dao.ExecuteSell -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *LedgerRepository) FindHoldings(ctx context.Context, accountID uint) ([]domain.Holding, error) {
	found, err := r.dao.FindHoldings(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindHoldings -> %w", err)
	}

	holdings := make([]domain.Holding, 0, len(found))
	for _, h := range found {
		holdings = append(holdings, domain.Holding{
			Symbol:      h.Company.Symbol,
			CompanyName: h.Company.Name,
			Shares:      h.Shares,
		})
	}

	return holdings, nil
}

func (r *LedgerRepository) FindTransactions(ctx context.Context, accountID uint) ([]domain.Transaction, error) {
	found, err := r.dao.FindTransactions(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindTransactions -> %w", err)
	}

	transactions := make([]domain.Transaction, 0, len(found))
	for _, t := range found {
		transactions = append(transactions, r.daoToDomain(t))
	}

	return transactions, nil
}

func (r *LedgerRepository) daoToDomain(t dao.Transaction) domain.Transaction {
	return domain.Transaction{
		ID:          t.ID,
		AccountID:   t.AccountID,
		Symbol:      t.Company.Symbol,
		CompanyName: t.Company.Name,
		Type:        domain.TransactionType(t.Type),
		Shares:      t.Shares,
		Price:       t.Price,
		Total:       t.Total,
		ExecutedAt:  t.ExecutedAt,
	}
}
