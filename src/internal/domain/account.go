package domain

import "github.com/shopspring/decimal"

// Account is the bank account entity. Balance is held as a decimal and may
// never go negative; both mutations validate fully before applying.
type Account struct {
	ID      string
	Balance decimal.Decimal
}

func NewAccount(id string, balance decimal.Decimal) Account {
	return Account{ID: id, Balance: balance}
}

// Deposit increases the balance by amount. The amount must be strictly
// positive; on failure the balance is left untouched.
func (a *Account) Deposit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	a.Balance = a.Balance.Add(amount)
	return nil
}

// Withdraw decreases the balance by amount. The amount must be strictly
// positive and must not exceed the current balance; on failure the balance is
// left untouched.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(a.Balance) {
		return ErrInsufficientFunds
	}

	a.Balance = a.Balance.Sub(amount)
	return nil
}
