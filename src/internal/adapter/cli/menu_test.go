package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/api-sage/simple-bank-service/src/internal/adapter/repository/memory"
	"github.com/api-sage/simple-bank-service/src/internal/domain"
	"github.com/api-sage/simple-bank-service/src/internal/usecase/services"
	"github.com/shopspring/decimal"
)

func runMenu(t *testing.T, input string) string {
	t.Helper()

	repo := memory.NewAccountRepository()
	if err := repo.Save(context.Background(), domain.NewAccount("12345", decimal.RequireFromString("100.00"))); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	var out bytes.Buffer
	menu := NewMenu(services.NewAccountService(repo), strings.NewReader(input), &out)
	if err := menu.Run(context.Background()); err != nil {
		t.Fatalf("run menu: %v", err)
	}
	return out.String()
}

func TestMenuDeposit(t *testing.T) {
	out := runMenu(t, "1\n12345\n50\n4\n")

	if !strings.Contains(out, "Deposit successful. New balance: 150") {
		t.Fatalf("missing deposit confirmation in output:\n%s", out)
	}
}

func TestMenuWithdrawInsufficientFunds(t *testing.T) {
	out := runMenu(t, "2\n12345\n200\n4\n")

	if !strings.Contains(out, "Error: Insufficient funds") {
		t.Fatalf("missing insufficient funds error in output:\n%s", out)
	}
}

func TestMenuBalance(t *testing.T) {
	out := runMenu(t, "3\n12345\n4\n")

	if !strings.Contains(out, "Current balance: 100") {
		t.Fatalf("missing balance in output:\n%s", out)
	}
}

func TestMenuUnknownAccount(t *testing.T) {
	out := runMenu(t, "3\n99999\n4\n")

	if !strings.Contains(out, "Error: Account not found") {
		t.Fatalf("missing not-found error in output:\n%s", out)
	}
}

func TestMenuRejectsNonNumericAmount(t *testing.T) {
	out := runMenu(t, "1\n12345\nabc\n4\n")

	if !strings.Contains(out, "Error: amount must be numeric") {
		t.Fatalf("missing parse error in output:\n%s", out)
	}
}

func TestMenuInvalidOption(t *testing.T) {
	out := runMenu(t, "9\n4\n")

	if !strings.Contains(out, "Invalid option. Please try again.") {
		t.Fatalf("missing invalid option message in output:\n%s", out)
	}
}
