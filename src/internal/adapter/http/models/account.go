package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type OpenAccountRequest struct {
	AccountID      string `json:"accountId"`
	InitialBalance string `json:"initialBalance,omitempty"`
}

func (r OpenAccountRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.AccountID) == "" {
		errs = append(errs, "accountId is required")
	}

	if strings.TrimSpace(r.InitialBalance) != "" {
		parsed, err := decimal.NewFromString(strings.TrimSpace(r.InitialBalance))
		if err != nil {
			errs = append(errs, "initialBalance must be numeric")
		} else if parsed.IsNegative() {
			errs = append(errs, "initialBalance cannot be negative")
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// ParsedInitialBalance returns the requested starting balance, defaulting to
// zero when the field is omitted. Call Validate first.
func (r OpenAccountRequest) ParsedInitialBalance() decimal.Decimal {
	raw := strings.TrimSpace(r.InitialBalance)
	if raw == "" {
		return decimal.Zero
	}

	parsed, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return parsed
}

type AccountResponse struct {
	AccountID string `json:"accountId"`
	Balance   string `json:"balance"`
}

type AmountRequest struct {
	AccountID string `json:"accountId"`
	Amount    string `json:"amount"`
}

func (r AmountRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.AccountID) == "" {
		errs = append(errs, "accountId is required")
	}

	amount := strings.TrimSpace(r.Amount)
	if amount == "" {
		errs = append(errs, "amount is required")
	} else {
		parsed, err := decimal.NewFromString(amount)
		if err != nil {
			errs = append(errs, "amount must be numeric")
		} else if parsed.LessThanOrEqual(decimal.Zero) {
			errs = append(errs, "amount must be greater than zero")
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// ParsedAmount returns the request amount. Call Validate first.
func (r AmountRequest) ParsedAmount() decimal.Decimal {
	parsed, err := decimal.NewFromString(strings.TrimSpace(r.Amount))
	if err != nil {
		return decimal.Zero
	}
	return parsed
}
