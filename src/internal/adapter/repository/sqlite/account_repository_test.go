package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/api-sage/simple-bank-service/src/internal/domain"
	"github.com/shopspring/decimal"
)

func openTestRepo(t *testing.T) *AccountRepository {
	t.Helper()

	repo, err := Open(context.Background(), filepath.Join(t.TempDir(), "bank.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSQLiteFetchUnknownAccount(t *testing.T) {
	repo := openTestRepo(t)

	_, err := repo.Fetch(context.Background(), "99999")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestSQLiteSaveFetchRoundTrip(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	account := domain.NewAccount("12345", decimal.RequireFromString("100.00"))
	if err := repo.Save(ctx, account); err != nil {
		t.Fatalf("save: %v", err)
	}

	fetched, err := repo.Fetch(ctx, "12345")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if fetched.ID != account.ID || !fetched.Balance.Equal(account.Balance) {
		t.Fatalf("round trip mismatch: got %s/%s", fetched.ID, fetched.Balance)
	}
}

func TestSQLiteSaveUpsertsExistingAccount(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, domain.NewAccount("12345", decimal.NewFromInt(100))); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := repo.Save(ctx, domain.NewAccount("12345", decimal.NewFromInt(250))); err != nil {
		t.Fatalf("second save: %v", err)
	}

	fetched, err := repo.Fetch(ctx, "12345")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if want := decimal.NewFromInt(250); !fetched.Balance.Equal(want) {
		t.Fatalf("expected balance %s, got %s", want, fetched.Balance)
	}
}

func TestSQLiteSchemaCreationIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bank.db")
	ctx := context.Background()

	repo, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	if err := repo.Save(ctx, domain.NewAccount("12345", decimal.NewFromInt(100))); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Reopening the same file recreates nothing and keeps the data.
	reopened, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen repository: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })

	fetched, err := reopened.Fetch(ctx, "12345")
	if err != nil {
		t.Fatalf("fetch after reopen: %v", err)
	}
	if want := decimal.NewFromInt(100); !fetched.Balance.Equal(want) {
		t.Fatalf("expected balance %s, got %s", want, fetched.Balance)
	}
}

func TestSQLiteUpdateBalanceFailureLeavesStateUntouched(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, domain.NewAccount("12345", decimal.NewFromInt(100))); err != nil {
		t.Fatalf("save: %v", err)
	}

	_, err := repo.UpdateBalance(ctx, "12345", func(account domain.Account) (domain.Account, error) {
		if err := account.Withdraw(decimal.NewFromInt(200)); err != nil {
			return domain.Account{}, err
		}
		return account, nil
	})
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	fetched, err := repo.Fetch(ctx, "12345")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if want := decimal.NewFromInt(100); !fetched.Balance.Equal(want) {
		t.Fatalf("balance changed on failed update: %s", fetched.Balance)
	}
}

func TestSQLiteConcurrentDepositsDoNotLoseUpdates(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, domain.NewAccount("12345", decimal.NewFromInt(100))); err != nil {
		t.Fatalf("save: %v", err)
	}

	const writers = 2
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			_, err := repo.UpdateBalance(ctx, "12345", func(account domain.Account) (domain.Account, error) {
				if err := account.Deposit(decimal.NewFromInt(10)); err != nil {
					return domain.Account{}, err
				}
				return account, nil
			})
			if err != nil {
				t.Errorf("concurrent deposit: %v", err)
			}
		}()
	}
	wg.Wait()

	fetched, err := repo.Fetch(ctx, "12345")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if want := decimal.NewFromInt(120); !fetched.Balance.Equal(want) {
		t.Fatalf("lost update: expected %s, got %s", want, fetched.Balance)
	}
}
