package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/api-sage/simple-bank-service/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/simple-bank-service/src/internal/domain"
	"github.com/api-sage/simple-bank-service/src/internal/logger"
	"github.com/shopspring/decimal"
)

// AccountService orchestrates account mutations against the repository.
// Arithmetic and balance validation stay on the entity; errors propagate to
// the caller untouched.
type AccountService struct {
	accountRepo repo_interfaces.AccountRepository
}

func NewAccountService(accountRepo repo_interfaces.AccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

func (s *AccountService) OpenAccount(ctx context.Context, accountID string, initialBalance decimal.Decimal) (domain.Account, error) {
	logger.Info("account service open account", logger.Fields{
		"accountId":      accountID,
		"initialBalance": initialBalance.String(),
	})

	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return domain.Account{}, fmt.Errorf("accountId is required")
	}
	if initialBalance.IsNegative() {
		return domain.Account{}, fmt.Errorf("initial balance cannot be negative")
	}

	_, err := s.accountRepo.Fetch(ctx, accountID)
	if err == nil {
		return domain.Account{}, domain.ErrAccountAlreadyExists
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		logger.Error("account service open account fetch failed", err, logger.Fields{
			"accountId": accountID,
		})
		return domain.Account{}, err
	}

	account := domain.NewAccount(accountID, initialBalance)
	if err := s.accountRepo.Save(ctx, account); err != nil {
		logger.Error("account service open account save failed", err, logger.Fields{
			"accountId": accountID,
		})
		return domain.Account{}, err
	}

	logger.Info("account service open account success", logger.Fields{
		"accountId": account.ID,
		"balance":   account.Balance.String(),
	})
	return account, nil
}

func (s *AccountService) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (domain.Account, error) {
	logger.Info("account service deposit", logger.Fields{
		"accountId": accountID,
		"amount":    amount.String(),
	})

	updated, err := s.accountRepo.UpdateBalance(ctx, accountID, func(account domain.Account) (domain.Account, error) {
		if err := account.Deposit(amount); err != nil {
			return domain.Account{}, err
		}
		return account, nil
	})
	if err != nil {
		logger.Error("account service deposit failed", err, logger.Fields{
			"accountId": accountID,
			"amount":    amount.String(),
		})
		return domain.Account{}, err
	}

	logger.Info("account service deposit success", logger.Fields{
		"accountId": updated.ID,
		"balance":   updated.Balance.String(),
	})
	return updated, nil
}

func (s *AccountService) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (domain.Account, error) {
	logger.Info("account service withdraw", logger.Fields{
		"accountId": accountID,
		"amount":    amount.String(),
	})

	updated, err := s.accountRepo.UpdateBalance(ctx, accountID, func(account domain.Account) (domain.Account, error) {
		if err := account.Withdraw(amount); err != nil {
			return domain.Account{}, err
		}
		return account, nil
	})
	if err != nil {
		logger.Error("account service withdraw failed", err, logger.Fields{
			"accountId": accountID,
			"amount":    amount.String(),
		})
		return domain.Account{}, err
	}

	logger.Info("account service withdraw success", logger.Fields{
		"accountId": updated.ID,
		"balance":   updated.Balance.String(),
	})
	return updated, nil
}

func (s *AccountService) Balance(ctx context.Context, accountID string) (domain.Account, error) {
	logger.Info("account service balance", logger.Fields{
		"accountId": accountID,
	})

	account, err := s.accountRepo.Fetch(ctx, accountID)
	if err != nil {
		if !errors.Is(err, domain.ErrAccountNotFound) {
			logger.Error("account service balance fetch failed", err, logger.Fields{
				"accountId": accountID,
			})
		}
		return domain.Account{}, err
	}

	return account, nil
}

// EnsureAccount creates the account with the given balance when it does not
// exist yet. Composition roots use it to seed a starter account.
func (s *AccountService) EnsureAccount(ctx context.Context, accountID string, balance decimal.Decimal) error {
	_, err := s.accountRepo.Fetch(ctx, accountID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return err
	}

	logger.Info("account service seeding account", logger.Fields{
		"accountId": accountID,
		"balance":   balance.String(),
	})
	return s.accountRepo.Save(ctx, domain.NewAccount(accountID, balance))
}
