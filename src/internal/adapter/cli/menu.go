// Package cli is the interactive text-menu front end. It collects an account
// id and an amount, calls the account service, and prints the outcome; all
// business rules live behind the service.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/api-sage/simple-bank-service/src/internal/domain"
	"github.com/shopspring/decimal"
)

type AccountService interface {
	Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (domain.Account, error)
	Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (domain.Account, error)
	Balance(ctx context.Context, accountID string) (domain.Account, error)
}

type Menu struct {
	service AccountService
	in      *bufio.Scanner
	out     io.Writer
}

func NewMenu(service AccountService, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		service: service,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

// Run loops over the menu until the user exits or input ends.
func (m *Menu) Run(ctx context.Context) error {
	for {
		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, "Welcome to Simple Bank")
		fmt.Fprintln(m.out, "1. Deposit")
		fmt.Fprintln(m.out, "2. Withdraw")
		fmt.Fprintln(m.out, "3. Check balance")
		fmt.Fprintln(m.out, "4. Exit")

		choice, ok := m.prompt("Select an option: ")
		if !ok {
			return m.in.Err()
		}

		switch choice {
		case "1":
			m.deposit(ctx)
		case "2":
			m.withdraw(ctx)
		case "3":
			m.balance(ctx)
		case "4":
			fmt.Fprintln(m.out, "Thank you for using Simple Bank. Goodbye!")
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid option. Please try again.")
		}
	}
}

func (m *Menu) deposit(ctx context.Context) {
	accountID, amount, ok := m.promptAccountAndAmount("deposit")
	if !ok {
		return
	}

	account, err := m.service.Deposit(ctx, accountID, amount)
	if err != nil {
		m.printError(err)
		return
	}

	fmt.Fprintf(m.out, "Deposit successful. New balance: %s\n", account.Balance.String())
}

func (m *Menu) withdraw(ctx context.Context) {
	accountID, amount, ok := m.promptAccountAndAmount("withdraw")
	if !ok {
		return
	}

	account, err := m.service.Withdraw(ctx, accountID, amount)
	if err != nil {
		m.printError(err)
		return
	}

	fmt.Fprintf(m.out, "Withdrawal successful. New balance: %s\n", account.Balance.String())
}

func (m *Menu) balance(ctx context.Context) {
	accountID, ok := m.prompt("Enter the account id: ")
	if !ok {
		return
	}

	account, err := m.service.Balance(ctx, accountID)
	if err != nil {
		m.printError(err)
		return
	}

	fmt.Fprintf(m.out, "Current balance: %s\n", account.Balance.String())
}

func (m *Menu) promptAccountAndAmount(verb string) (string, decimal.Decimal, bool) {
	accountID, ok := m.prompt("Enter the account id: ")
	if !ok {
		return "", decimal.Zero, false
	}

	raw, ok := m.prompt(fmt.Sprintf("Enter the amount to %s: ", verb))
	if !ok {
		return "", decimal.Zero, false
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		fmt.Fprintln(m.out, "Error: amount must be numeric")
		return "", decimal.Zero, false
	}

	return accountID, amount, true
}

func (m *Menu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) printError(err error) {
	if domain.IsStorageError(err) {
		fmt.Fprintln(m.out, "Error: the bank is unavailable right now, please try again later")
		return
	}
	fmt.Fprintf(m.out, "Error: %s\n", err.Error())
}
