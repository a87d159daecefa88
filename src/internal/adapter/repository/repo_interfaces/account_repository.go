package repo_interfaces

import (
	"context"

	"github.com/api-sage/simple-bank-service/src/internal/domain"
)

// AccountRepository is the persistence port for accounts. Fetch returns a
// detached snapshot; mutating it has no effect until saved back. Save is an
// atomic upsert. UpdateBalance serializes the read-modify-write cycle per
// account id so concurrent writers cannot lose an update.
type AccountRepository interface {
	Fetch(ctx context.Context, accountID string) (domain.Account, error)
	Save(ctx context.Context, account domain.Account) error
	UpdateBalance(ctx context.Context, accountID string, apply func(domain.Account) (domain.Account, error)) (domain.Account, error)
}
