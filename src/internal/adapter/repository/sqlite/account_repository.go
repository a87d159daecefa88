// Package sqlite backs the account store with a local SQLite database,
// suited to single-machine deployments that should survive restarts without
// a database server.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/api-sage/simple-bank-service/src/internal/domain"
	"github.com/api-sage/simple-bank-service/src/internal/logger"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

type AccountRepository struct {
	db *sql.DB
}

// Open creates the repository and ensures the accounts table exists. Schema
// creation is idempotent, so reopening the same file is safe.
func Open(ctx context.Context, path string) (*AccountRepository, error) {
	// _txlock=immediate takes the write lock at BEGIN, so two overlapping
	// balance transactions queue instead of failing mid-flight.
	dsn := fmt.Sprintf("file:%s?_txlock=immediate&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	const ddl = `
CREATE TABLE IF NOT EXISTS accounts (
	id TEXT PRIMARY KEY,
	balance TEXT NOT NULL DEFAULT '0'
)`

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure accounts table: %w", err)
	}

	return &AccountRepository{db: db}, nil
}

func (r *AccountRepository) Close() error {
	return r.db.Close()
}

func (r *AccountRepository) Fetch(ctx context.Context, accountID string) (domain.Account, error) {
	const query = `
SELECT id, balance
FROM accounts
WHERE id = ?`

	var (
		id         string
		balanceRaw string
	)
	if err := r.db.QueryRowContext(ctx, query, accountID).Scan(&id, &balanceRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrAccountNotFound
		}
		logger.Error("sqlite account repository fetch failed", err, logger.Fields{
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
	const query = `
INSERT INTO accounts (id, balance)
VALUES (?, ?)
ON CONFLICT (id) DO UPDATE
SET balance = excluded.balance`

	if _, err := r.db.ExecContext(ctx, query, account.ID, account.Balance.String()); err != nil {
		logger.Error("sqlite account repository save failed", err, logger.Fields{
			"accountId": account.ID,
		})
		return domain.NewStorageError("save account", err)
	}

	return nil
}

func (r *AccountRepository) UpdateBalance(
	ctx context.Context,
	accountID string,
	apply func(domain.Account) (domain.Account, error),
) (domain.Account, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Account{}, domain.NewStorageError("begin balance transaction", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const selectQuery = `
SELECT id, balance
FROM accounts
WHERE id = ?`

	var (
		id         string
		balanceRaw string
	)
	if err = tx.QueryRowContext(ctx, selectQuery, accountID).Scan(&id, &balanceRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = domain.ErrAccountNotFound
			return domain.Account{}, err
		}
		logger.Error("sqlite account repository update balance select failed", err, logger.Fields{
			"accountId": accountID,
		})
		err = domain.NewStorageError("read account balance", err)
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
SET balance = ?
WHERE id = ?`

	if _, err = tx.ExecContext(ctx, updateQuery, updated.Balance.String(), accountID); err != nil {
		logger.Error("sqlite account repository update balance write failed", err, logger.Fields{
			"accountId": accountID,
		})
		err = domain.NewStorageError("write account balance", err)
		return domain.Account{}, err
	}

	if err = tx.Commit(); err != nil {
		err = domain.NewStorageError("commit balance transaction", err)
		return domain.Account{}, err
	}

	return updated, nil
}
