package dao

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
)

type Company struct {
	ID     uint   `gorm:"primaryKey"`
	Symbol string `gorm:"unique;not null"`
	Name   string `gorm:"not null"`
}

type Holding struct {
	ID        uint    `gorm:"primaryKey"`
	AccountID uint    `gorm:"not null;uniqueIndex:idx_holdings_account_company"`
	CompanyID uint    `gorm:"not null;uniqueIndex:idx_holdings_account_company"`
	Company   Company `gorm:"foreignKey:CompanyID"`
	Shares    int64   `gorm:"not null"`
}

type Transaction struct {
	ID         uint            `gorm:"primaryKey"`
	AccountID  uint            `gorm:"index;not null"`
	CompanyID  uint            `gorm:"not null"`
	Company    Company         `gorm:"foreignKey:CompanyID"`
	Type       string          `gorm:"not null"` // "buy" or "sell"
	Shares     int64           `gorm:"not null"`
	Price      decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	Total      decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	ExecutedAt time.Time       `gorm:"index;not null"`
}

// LedgerDAO owns every write to companies, holdings and transactions, plus
// the cash column of accounts. Settlement runs inside a single database
// transaction with rows locked in a fixed order: account first, holding
// second. Prices are computed by the caller before the transaction begins so
// no network call ever happens under a row lock.
type LedgerDAO struct {
	db *gorm.DB
}

func NewLedgerDAO(db *gorm.DB) *LedgerDAO {
	return &LedgerDAO{
		db: db,
	}
}

// ExecuteBuy settles a buy: debit cash, upsert the holding, append the
// transaction. All or nothing.
func (d *LedgerDAO) ExecuteBuy(ctx context.Context, accountID uint, symbol, name string, shares int64, price decimal.Decimal) (Transaction, error) {
	total := price.Mul(decimal.NewFromInt(shares))

	var created Transaction
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account, err := lockAccount(tx, accountID)
		if err != nil {
			return err
		}
		if account.Cash.LessThan(total) {
			return ErrInsufficientFunds
		}

		// Idempotent on symbol: a concurrent first trade of the same company
		// from another account must not create a duplicate row.
		company := Company{Symbol: symbol, Name: name}
		if err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "symbol"}},
			DoNothing: true,
		}).Create(&company).Error; err != nil {
			return err
		}
		if company.ID == 0 {
			if err = tx.First(&company, "symbol = ?", symbol).Error; err != nil {
				return err
			}
		}

		var holding Holding
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("account_id = ? AND company_id = ?", accountID, company.ID).
			First(&holding).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			holding = Holding{AccountID: accountID, CompanyID: company.ID, Shares: shares}
			if err = tx.Create(&holding).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err = tx.Model(&Holding{}).Where("id = ?", holding.ID).
				Update("shares", gorm.Expr("shares + ?", shares)).Error; err != nil {
				return err
			}
		}

		created = Transaction{
			AccountID:  accountID,
			CompanyID:  company.ID,
			Company:    company,
			Type:       "buy",
			Shares:     shares,
			Price:      price,
			Total:      total,
			ExecutedAt: time.Now().UTC(),
		}
		if err = tx.Omit("Company").Create(&created).Error; err != nil {
			return err
		}

		return tx.Model(&Account{}).Where("id = ?", accountID).
			Update("cash", gorm.Expr("cash - ?", total)).Error
	})
	if err != nil {
		return Transaction{}, err
	}

	return created, nil
}

// ExecuteSell settles a sell: decrement or delete the holding, append the
// transaction, credit cash. A holding never survives at zero shares.
func (d *LedgerDAO) ExecuteSell(ctx context.Context, accountID uint, symbol string, shares int64, price decimal.Decimal) (Transaction, error) {
	total := price.Mul(decimal.NewFromInt(shares))

	var created Transaction
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock order matches ExecuteBuy so concurrent buy/sell on one account
		// cannot deadlock.
		if _, err := lockAccount(tx, accountID); err != nil {
			return err
		}

		var company Company
		err := tx.First(&company, "symbol = ?", symbol).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInsufficientShares
		}
		if err != nil {
			return err
		}

		var holding Holding
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("account_id = ? AND company_id = ?", accountID, company.ID).
			First(&holding).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInsufficientShares
		}
		if err != nil {
			return err
		}
		if holding.Shares < shares {
			return ErrInsufficientShares
		}

		if holding.Shares == shares {
			if err = tx.Delete(&Holding{}, holding.ID).Error; err != nil {
				return err
			}
		} else {
			if err = tx.Model(&Holding{}).Where("id = ?", holding.ID).
				Update("shares", gorm.Expr("shares - ?", shares)).Error; err != nil {
				return err
			}
		}

		created = Transaction{
			AccountID:  accountID,
			CompanyID:  company.ID,
			Company:    company,
			Type:       "sell",
			Shares:     shares,
			Price:      price,
			Total:      total,
			ExecutedAt: time.Now().UTC(),
		}
		if err = tx.Omit("Company").Create(&created).Error; err != nil {
			return err
		}

		return tx.Model(&Account{}).Where("id = ?", accountID).
			Update("cash", gorm.Expr("cash + ?", total)).Error
	})
	if err != nil {
		return Transaction{}, err
	}

	return created, nil
}

func (d *LedgerDAO) FindHoldings(ctx context.Context, accountID uint) ([]Holding, error) {
	var holdings []Holding

	result := d.db.WithContext(ctx).
		Preload("Company").
		Where("account_id = ?", accountID).
		Order("id").
		Find(&holdings)
	if result.Error != nil {
		return nil, result.Error
	}

	return holdings, nil
}

// FindTransactions returns the account's full transaction log, newest first.
func (d *LedgerDAO) FindTransactions(ctx context.Context, accountID uint) ([]Transaction, error) {
	var transactions []Transaction

	result := d.db.WithContext(ctx).
		Preload("Company").
		Where("account_id = ?", accountID).
		Order("executed_at DESC, id DESC").
		Find(&transactions)
	if result.Error != nil {
		return nil, result.Error
	}

	return transactions, nil
}

func lockAccount(tx *gorm.DB, accountID uint) (Account, error) {
	var account Account

	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&account, accountID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Account{}, ErrAccountNotFound
		}

		return Account{}, err
	}

	return account, nil
}
