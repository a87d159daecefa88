// Package memory keeps accounts in a process-local map. State does not
// survive a restart; it exists for tests and zero-setup runs.
package memory

import (
	"context"
	"sync"

	"github.com/api-sage/simple-bank-service/src/internal/domain"
)

type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{accounts: map[string]domain.Account{}}
}

func (r *AccountRepository) Fetch(_ context.Context, accountID string) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[accountID]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return account, nil
}

func (r *AccountRepository) Save(_ context.Context, account domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.accounts[account.ID] = account
	return nil
}

func (r *AccountRepository) UpdateBalance(
	_ context.Context,
	accountID string,
	apply func(domain.Account) (domain.Account, error),
) (domain.Account, error) {
	// The write lock spans read, apply and write, so concurrent updates to
	// the same account serialize.
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[accountID]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	updated, err := apply(account)
	if err != nil {
		return domain.Account{}, err
	}

	r.accounts[accountID] = updated
	return updated, nil
}
