// Package redis backs the account store with a Redis instance. Balances live
// under one key per account; read-modify-write cycles use WATCH so a
// concurrent writer forces a retry instead of a lost update.
package redis

import (
	"context"
	"errors"

	"github.com/api-sage/simple-bank-service/src/internal/domain"
	"github.com/api-sage/simple-bank-service/src/internal/logger"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const balanceKeyPrefix = "account:balance:"

const maxUpdateRetries = 10

type AccountRepository struct {
	client *goredis.Client
}

func NewAccountRepository(client *goredis.Client) *AccountRepository {
	return &AccountRepository{client: client}
}

func balanceKey(accountID string) string {
	return balanceKeyPrefix + accountID
}

func (r *AccountRepository) Fetch(ctx context.Context, accountID string) (domain.Account, error) {
	raw, err := r.client.Get(ctx, balanceKey(accountID)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return domain.Account{}, domain.ErrAccountNotFound
		}
		logger.Error("redis account repository fetch failed", err, logger.Fields{
			"accountId": accountID,
		})
		return domain.Account{}, domain.NewStorageError("fetch account", err)
	}

	balance, err := decimal.NewFromString(raw)
	if err != nil {
		return domain.Account{}, domain.NewStorageError("parse stored balance", err)
	}

	return domain.NewAccount(accountID, balance), nil
}

func (r *AccountRepository) Save(ctx context.Context, account domain.Account) error {
	if err := r.client.Set(ctx, balanceKey(account.ID), account.Balance.String(), 0).Err(); err != nil {
		logger.Error("redis account repository save failed", err, logger.Fields{
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
	key := balanceKey(accountID)

	var (
		updated  domain.Account
		applyErr error
	)

	txn := func(tx *goredis.Tx) error {
		applyErr = nil

		raw, err := tx.Get(ctx, key).Result()
		if err != nil {
			if errors.Is(err, goredis.Nil) {
				return domain.ErrAccountNotFound
			}
			return domain.NewStorageError("read account balance", err)
		}

		balance, err := decimal.NewFromString(raw)
		if err != nil {
			return domain.NewStorageError("parse stored balance", err)
		}

		account, err := apply(domain.NewAccount(accountID, balance))
		if err != nil {
			applyErr = err
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, account.Balance.String(), 0)
			return nil
		})
		if err != nil {
			return err
		}

		updated = account
		return nil
	}

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		err := r.client.Watch(ctx, txn, key)
		switch {
		case err == nil:
			return updated, nil
		case errors.Is(err, goredis.TxFailedErr):
			// Someone else wrote the key between GET and EXEC; reread and retry.
			continue
		case applyErr != nil, errors.Is(err, domain.ErrAccountNotFound), domain.IsStorageError(err):
			return domain.Account{}, err
		default:
			logger.Error("redis account repository update balance failed", err, logger.Fields{
				"accountId": accountID,
			})
			return domain.Account{}, domain.NewStorageError("update account balance", err)
		}
	}

	return domain.Account{}, domain.NewStorageError("update account balance", errors.New("too many concurrent writers"))
}
