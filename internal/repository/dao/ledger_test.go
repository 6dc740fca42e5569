package dao

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err == nil {
		err = pool.Client.Ping()
	}
	if err != nil {
		// No docker on this machine; every test skips via requireDB.
		log.Printf("docker not available, skipping dao integration tests: %v", err)
		os.Exit(m.Run())
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=postgres",
			"POSTGRES_DB=papertrade_test",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}
	_ = resource.Expire(180)

	dsn := fmt.Sprintf("host=localhost port=%v user=postgres password=postgres dbname=papertrade_test sslmode=disable",
		resource.GetPort("5432/tcp"))

	pool.MaxWait = 60 * time.Second
	if err = pool.Retry(func() error {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return err
		}

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err = sqlDB.Ping(); err != nil {
			return err
		}

		testDB = db

		return nil
	}); err != nil {
		log.Fatalf("could not connect to postgres container: %v", err)
	}

	if err = InitTables(testDB); err != nil {
		log.Fatalf("could not migrate tables: %v", err)
	}

	code := m.Run()
	_ = pool.Purge(resource)
	os.Exit(code)
}

func requireDB(t *testing.T) {
	t.Helper()

	if testDB == nil {
		t.Skip("docker not available")
	}
}

func createAccount(t *testing.T, username string) Account {
	t.Helper()

	account, err := NewAccountDAO(testDB).Insert(context.Background(), Account{
		Username: username,
		Password: "not-a-real-hash",
		Cash:     decimal.RequireFromString("10000.00"),
	})
	require.NoError(t, err)

	return account
}

func accountCash(t *testing.T, id uint) decimal.Decimal {
	t.Helper()

	account, err := NewAccountDAO(testDB).FindByID(context.Background(), id)
	require.NoError(t, err)

	return account.Cash
}

func TestAccountDAO_UniqueUsername(t *testing.T) {
	requireDB(t)

	createAccount(t, "dup_user")

	_, err := NewAccountDAO(testDB).Insert(context.Background(), Account{
		Username: "dup_user",
		Password: "not-a-real-hash",
		Cash:     decimal.RequireFromString("10000.00"),
	})
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestExecuteBuy(t *testing.T) {
	requireDB(t)

	account := createAccount(t, "buyer")
	ledger := NewLedgerDAO(testDB)

	created, err := ledger.ExecuteBuy(context.Background(), account.ID,
		"NFLX", "Netflix, Inc.", 10, decimal.RequireFromString("500.00"))
	require.NoError(t, err)

	assert.Equal(t, "buy", created.Type)
	assert.True(t, created.Total.Equal(decimal.RequireFromString("5000.00")))
	assert.Equal(t, "NFLX", created.Company.Symbol)

	assert.True(t, accountCash(t, account.ID).Equal(decimal.RequireFromString("5000.00")))

	holdings, err := ledger.FindHoldings(context.Background(), account.ID)
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, int64(10), holdings[0].Shares)
	assert.Equal(t, "Netflix, Inc.", holdings[0].Company.Name)
}

func TestExecuteBuy_InsufficientFundsLeavesNoTrace(t *testing.T) {
	requireDB(t)

	account := createAccount(t, "pauper")
	ledger := NewLedgerDAO(testDB)

	_, err := ledger.ExecuteBuy(context.Background(), account.ID,
		"AMZN", "Amazon.com, Inc.", 1000, decimal.RequireFromString("200.00"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	assert.True(t, accountCash(t, account.ID).Equal(decimal.RequireFromString("10000.00")))

	holdings, err := ledger.FindHoldings(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Empty(t, holdings)

	transactions, err := ledger.FindTransactions(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestExecuteSell_ClosingPositionDeletesHolding(t *testing.T) {
	requireDB(t)

	account := createAccount(t, "closer")
	ledger := NewLedgerDAO(testDB)

	_, err := ledger.ExecuteBuy(context.Background(), account.ID,
		"MSFT", "Microsoft Corporation", 10, decimal.RequireFromString("500.00"))
	require.NoError(t, err)

	created, err := ledger.ExecuteSell(context.Background(), account.ID,
		"MSFT", 10, decimal.RequireFromString("520.00"))
	require.NoError(t, err)

	assert.Equal(t, "sell", created.Type)
	assert.True(t, created.Total.Equal(decimal.RequireFromString("5200.00")))

	assert.True(t, accountCash(t, account.ID).Equal(decimal.RequireFromString("10200.00")))

	holdings, err := ledger.FindHoldings(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Empty(t, holdings, "a holding sold down to zero shares must be deleted")
}

func TestExecuteSell_PartialSaleKeepsHolding(t *testing.T) {
	requireDB(t)

	account := createAccount(t, "trimmer")
	ledger := NewLedgerDAO(testDB)

	_, err := ledger.ExecuteBuy(context.Background(), account.ID,
		"GOOG", "Alphabet Inc.", 10, decimal.RequireFromString("100.00"))
	require.NoError(t, err)

	_, err = ledger.ExecuteSell(context.Background(), account.ID,
		"GOOG", 4, decimal.RequireFromString("110.00"))
	require.NoError(t, err)

	holdings, err := ledger.FindHoldings(context.Background(), account.ID)
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, int64(6), holdings[0].Shares)
}

func TestExecuteSell_InsufficientShares(t *testing.T) {
	requireDB(t)

	account := createAccount(t, "shortless")
	ledger := NewLedgerDAO(testDB)

	// No holding at all.
	_, err := ledger.ExecuteSell(context.Background(), account.ID,
		"TSLA", 1, decimal.RequireFromString("100.00"))
	assert.ErrorIs(t, err, ErrInsufficientShares)

	// Holding exists but is too small.
	_, err = ledger.ExecuteBuy(context.Background(), account.ID,
		"TSLA", "Tesla, Inc.", 5, decimal.RequireFromString("100.00"))
	require.NoError(t, err)

	_, err = ledger.ExecuteSell(context.Background(), account.ID,
		"TSLA", 6, decimal.RequireFromString("100.00"))
	assert.ErrorIs(t, err, ErrInsufficientShares)

	assert.True(t, accountCash(t, account.ID).Equal(decimal.RequireFromString("9500.00")))
}

func TestCompanyUpsert_IdempotentAcrossAccounts(t *testing.T) {
	requireDB(t)

	first := createAccount(t, "first_trader")
	second := createAccount(t, "second_trader")
	ledger := NewLedgerDAO(testDB)

	_, err := ledger.ExecuteBuy(context.Background(), first.ID,
		"NVDA", "NVIDIA Corporation", 1, decimal.RequireFromString("100.00"))
	require.NoError(t, err)

	_, err = ledger.ExecuteBuy(context.Background(), second.ID,
		"NVDA", "NVIDIA Corporation", 1, decimal.RequireFromString("100.00"))
	require.NoError(t, err)

	var count int64
	require.NoError(t, testDB.Model(&Company{}).Where("symbol = ?", "NVDA").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFindTransactions_NewestFirst(t *testing.T) {
	requireDB(t)

	account := createAccount(t, "historian")
	ledger := NewLedgerDAO(testDB)

	_, err := ledger.ExecuteBuy(context.Background(), account.ID,
		"INTC", "Intel Corporation", 10, decimal.RequireFromString("30.00"))
	require.NoError(t, err)

	_, err = ledger.ExecuteSell(context.Background(), account.ID,
		"INTC", 3, decimal.RequireFromString("31.00"))
	require.NoError(t, err)

	transactions, err := ledger.FindTransactions(context.Background(), account.ID)
	require.NoError(t, err)

	require.Len(t, transactions, 2)
	assert.Equal(t, "sell", transactions[0].Type)
	assert.Equal(t, "buy", transactions[1].Type)
}

// Five concurrent buys of 4000.00 each against a 10000.00 balance: exactly
// two can settle. The account row lock serializes them; the rest must fail
// with insufficient funds and leave no partial writes behind.
func TestConcurrentBuys_NeverOverspend(t *testing.T) {
	requireDB(t)

	account := createAccount(t, "racer")
	ledger := NewLedgerDAO(testDB)

	const attempts = 5

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := ledger.ExecuteBuy(context.Background(), account.ID,
				"META", "Meta Platforms, Inc.", 10, decimal.RequireFromString("400.00"))
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, ErrInsufficientFunds)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, succeeded)
	assert.True(t, accountCash(t, account.ID).Equal(decimal.RequireFromString("2000.00")))

	holdings, err := ledger.FindHoldings(context.Background(), account.ID)
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, int64(20), holdings[0].Shares)

	transactions, err := ledger.FindTransactions(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Len(t, transactions, 2)
}
