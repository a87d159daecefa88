package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/api-sage/simple-bank-service/src/internal/adapter/http/models"
	"github.com/api-sage/simple-bank-service/src/internal/commons"
	"github.com/api-sage/simple-bank-service/src/internal/domain"
	"github.com/shopspring/decimal"
)

const storageUnavailableMessage = "Unable to process the request right now"

type AccountService interface {
	OpenAccount(ctx context.Context, accountID string, initialBalance decimal.Decimal) (domain.Account, error)
	Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (domain.Account, error)
	Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (domain.Account, error)
	Balance(ctx context.Context, accountID string) (domain.Account, error)
}

type AccountController struct {
	service AccountService
}

func NewAccountController(service AccountService) *AccountController {
	return &AccountController{service: service}
}

func (c *AccountController) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/accounts", http.HandlerFunc(c.openAccount))
	mux.Handle("/accounts/deposit", http.HandlerFunc(c.deposit))
	mux.Handle("/accounts/withdraw", http.HandlerFunc(c.withdraw))
	mux.Handle("/accounts/balance", http.HandlerFunc(c.balance))
}

func (c *AccountController) openAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.AccountResponse]("method not allowed"))
		return
	}

	var req models.OpenAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.AccountResponse]("invalid request body", err.Error()))
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()))
		return
	}

	account, err := c.service.OpenAccount(r.Context(), req.AccountID, req.ParsedInitialBalance())
	if err != nil {
		status, response := errorResponseFor(err)
		logError(r, err, nil)
		writeJSON(w, status, response)
		return
	}

	response := commons.SuccessResponse("account opened successfully", accountResponse(account))
	logResponse(r, http.StatusCreated, response, start)
	writeJSON(w, http.StatusCreated, response)
}

func (c *AccountController) deposit(w http.ResponseWriter, r *http.Request) {
	c.mutateBalance(w, r, "deposit successful", c.service.Deposit)
}

func (c *AccountController) withdraw(w http.ResponseWriter, r *http.Request) {
	c.mutateBalance(w, r, "withdrawal successful", c.service.Withdraw)
}

func (c *AccountController) mutateBalance(
	w http.ResponseWriter,
	r *http.Request,
	successMessage string,
	op func(ctx context.Context, accountID string, amount decimal.Decimal) (domain.Account, error),
) {
	start := time.Now()

	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.AccountResponse]("method not allowed"))
		return
	}

	var req models.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.AccountResponse]("invalid request body", err.Error()))
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()))
		return
	}

	account, err := op(r.Context(), req.AccountID, req.ParsedAmount())
	if err != nil {
		status, response := errorResponseFor(err)
		logError(r, err, nil)
		writeJSON(w, status, response)
		return
	}

	response := commons.SuccessResponse(successMessage, accountResponse(account))
	logResponse(r, http.StatusOK, response, start)
	writeJSON(w, http.StatusOK, response)
}

func (c *AccountController) balance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.AccountResponse]("method not allowed"))
		return
	}

	accountID := r.URL.Query().Get("accountId")
	if accountID == "" {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.AccountResponse]("validation failed", "accountId is required"))
		return
	}

	account, err := c.service.Balance(r.Context(), accountID)
	if err != nil {
		status, response := errorResponseFor(err)
		logError(r, err, nil)
		writeJSON(w, status, response)
		return
	}

	response := commons.SuccessResponse("balance fetched successfully", accountResponse(account))
	logResponse(r, http.StatusOK, response, start)
	writeJSON(w, http.StatusOK, response)
}

func accountResponse(account domain.Account) models.AccountResponse {
	return models.AccountResponse{
		AccountID: account.ID,
		Balance:   account.Balance.String(),
	}
}

// errorResponseFor maps service errors onto HTTP statuses. Storage failures
// get a generic message so driver internals never reach the client.
func errorResponseFor(err error) (int, commons.Response[models.AccountResponse]) {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, commons.ErrorResponse[models.AccountResponse]("Account not found")
	case errors.Is(err, domain.ErrAccountAlreadyExists):
		return http.StatusConflict, commons.ErrorResponse[models.AccountResponse]("Account already exists")
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest, commons.ErrorResponse[models.AccountResponse]("validation failed", domain.ErrInvalidAmount.Error())
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusConflict, commons.ErrorResponse[models.AccountResponse]("Insufficient funds")
	case domain.IsStorageError(err):
		return http.StatusInternalServerError, commons.ErrorResponse[models.AccountResponse](storageUnavailableMessage)
	default:
		return http.StatusBadRequest, commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
