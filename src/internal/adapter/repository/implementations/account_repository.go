package implementations

import (
	"context"
	"database/sql"
	"errors"

	"github.com/api-sage/simple-bank-service/src/internal/domain"
	"github.com/api-sage/simple-bank-service/src/internal/logger"
	"github.com/shopspring/decimal"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Fetch(ctx context.Context, accountID string) (domain.Account, error) {
	logger.Info("account repository fetch", logger.Fields{
		"accountId": accountID,
	})

	const query = `
SELECT id, balance
FROM accounts
WHERE id = $1`

	var (
		id         string
		balanceRaw string
	)
	if err := r.db.QueryRowContext(ctx, query, accountID).Scan(&id, &balanceRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Info("account repository record not found", logger.Fields{
				"accountId": accountID,
			})
			return domain.Account{}, domain.ErrAccountNotFound
		}
		logger.Error("account repository fetch failed", err, logger.Fields{
			"accountId": accountID,
		})
		return domain.Account{}, domain.NewStorageError("fetch account", err)
	}

	balance, err := decimal.NewFromString(balanceRaw)
	if err != nil {
		return domain.Account{}, domain.NewStorageError("parse stored balance", err)
	}

	return domain.NewAccount(id, balance), nil
}

func (r *AccountRepository) Save(ctx context.Context, account domain.Account) error {
	logger.Info("account repository save", logger.Fields{
		"accountId": account.ID,
	})

	// Single-statement upsert so there is no window between an existence
	// check and the write.
	const query = `
INSERT INTO accounts (id, balance)
VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE
SET balance = EXCLUDED.balance,
    updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, account.ID, account.Balance.String()); err != nil {
		logger.Error("account repository save failed", err, logger.Fields{
			"accountId": account.ID,
		})
		return domain.NewStorageError("save account", err)
	}

	logger.Info("account repository save success", logger.Fields{
		"accountId": account.ID,
	})
	return nil
}

func (r *AccountRepository) UpdateBalance(
	ctx context.Context,
	accountID string,
	apply func(domain.Account) (domain.Account, error),
) (domain.Account, error) {
	logger.Info("account repository update balance", logger.Fields{
		"accountId": accountID,
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Account{}, domain.NewStorageError("begin balance transaction", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Row lock holds off concurrent writers on the same account until commit.
	const selectQuery = `
SELECT id, balance
FROM accounts
WHERE id = $1
FOR UPDATE`

	var (
		id         string
		balanceRaw string
	)
	if err = tx.QueryRowContext(ctx, selectQuery, accountID).Scan(&id, &balanceRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = domain.ErrAccountNotFound
			return domain.Account{}, err
		}
		logger.Error("account repository update balance select failed", err, logger.Fields{
			"accountId": accountID,
		})
		err = domain.NewStorageError("lock account row", err)
		return domain.Account{}, err
	}

	balance, parseErr := decimal.NewFromString(balanceRaw)
	if parseErr != nil {
		err = domain.NewStorageError("parse stored balance", parseErr)
		return domain.Account{}, err
	}

	updated, applyErr := apply(domain.NewAccount(id, balance))
	if applyErr != nil {
		err = applyErr
		return domain.Account{}, err
	}

	const updateQuery = `
UPDATE accounts
SET balance = $2,
    updated_at = NOW()
WHERE id = $1`

	if _, err = tx.ExecContext(ctx, updateQuery, accountID, updated.Balance.String()); err != nil {
		logger.Error("account repository update balance write failed", err, logger.Fields{
			"accountId": accountID,
		})
		err = domain.NewStorageError("write account balance", err)
		return domain.Account{}, err
	}

	if err = tx.Commit(); err != nil {
		err = domain.NewStorageError("commit balance transaction", err)
		return domain.Account{}, err
	}

	logger.Info("account repository update balance success", logger.Fields{
		"accountId": accountID,
		"balance":   updated.Balance.String(),
	})
	return updated, nil
}
