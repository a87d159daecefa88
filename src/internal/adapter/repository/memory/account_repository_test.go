package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/api-sage/simple-bank-service/src/internal/domain"
	"github.com/shopspring/decimal"
)

func TestFetchUnknownAccount(t *testing.T) {
	repo := NewAccountRepository()

	_, err := repo.Fetch(context.Background(), "99999")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestSaveFetchRoundTrip(t *testing.T) {
	repo := NewAccountRepository()
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

func TestSaveIsIdempotent(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()

	account := domain.NewAccount("12345", decimal.NewFromInt(100))
	if err := repo.Save(ctx, account); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := repo.Save(ctx, account); err != nil {
		t.Fatalf("second save: %v", err)
	}

	fetched, err := repo.Fetch(ctx, "12345")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !fetched.Balance.Equal(account.Balance) {
		t.Fatalf("expected balance %s, got %s", account.Balance, fetched.Balance)
	}
}

func TestFetchReturnsDetachedSnapshot(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()

	if err := repo.Save(ctx, domain.NewAccount("12345", decimal.NewFromInt(100))); err != nil {
		t.Fatalf("save: %v", err)
	}

	fetched, err := repo.Fetch(ctx, "12345")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	// Mutating the snapshot must not touch stored state until a save.
	if err := fetched.Deposit(decimal.NewFromInt(50)); err != nil {
		t.Fatalf("deposit on snapshot: %v", err)
	}

	stored, err := repo.Fetch(ctx, "12345")
	if err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if want := decimal.NewFromInt(100); !stored.Balance.Equal(want) {
		t.Fatalf("stored balance changed without save: %s", stored.Balance)
	}
}

func TestUpdateBalanceUnknownAccount(t *testing.T) {
	repo := NewAccountRepository()

	_, err := repo.UpdateBalance(context.Background(), "99999", func(a domain.Account) (domain.Account, error) {
		return a, nil
	})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestUpdateBalanceApplyErrorLeavesStateUntouched(t *testing.T) {
	repo := NewAccountRepository()
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

	stored, err := repo.Fetch(ctx, "12345")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if want := decimal.NewFromInt(100); !stored.Balance.Equal(want) {
		t.Fatalf("balance changed on failed update: %s", stored.Balance)
	}
}

func TestConcurrentDepositsDoNotLoseUpdates(t *testing.T) {
	repo := NewAccountRepository()
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

	stored, err := repo.Fetch(ctx, "12345")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if want := decimal.NewFromInt(120); !stored.Balance.Equal(want) {
		t.Fatalf("lost update: expected %s, got %s", want, stored.Balance)
	}
}
