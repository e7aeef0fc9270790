package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ivlev/dealbook/internal/adapter/http/dto"
	"github.com/ivlev/dealbook/internal/domain"
	"github.com/ivlev/dealbook/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	CreateInvestor(ctx context.Context, name string) (*domain.Investor, error)
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	GetSupplierAccountBalance(ctx context.Context, supplierID, accountID string) (decimal.Decimal, error)
	ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
	SupplierLedger(ctx context.Context) ([]usecase.SupplierLedgerRow, error)
	ListInvestors(ctx context.Context) ([]*domain.Investor, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Create creates a new account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create account", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", usecase.DefaultListLimit)
	offset := parseIntQuery(r, "offset", 0)

	accounts, err := h.accountUC.ListAccounts(r.Context(), usecase.ListAccountsInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list accounts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Total:    int64(len(accounts)),
	})
}

// SupplierBalance returns one (supplier, account) sub-balance. A pair that
// has never been posted to reads as zero.
func (h *AccountHandler) SupplierBalance(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	supplierID := chi.URLParam(r, "supplierID")

	balance, err := h.accountUC.GetSupplierAccountBalance(r.Context(), supplierID, accountID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get supplier balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]decimal.Decimal{"balance": balance})
}

// SupplierLedger lists every existing (supplier, account) sub-balance.
func (h *AccountHandler) SupplierLedger(w http.ResponseWriter, r *http.Request) {
	rows, err := h.accountUC.SupplierLedger(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build supplier ledger", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SupplierLedgerFromRows(rows))
}

// CreateInvestor creates a new investor.
func (h *AccountHandler) CreateInvestor(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateInvestorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	investor, err := h.accountUC.CreateInvestor(r.Context(), req.Name)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create investor", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.InvestorFromDomain(investor))
}

// ListInvestors lists investors.
func (h *AccountHandler) ListInvestors(w http.ResponseWriter, r *http.Request) {
	investors, err := h.accountUC.ListInvestors(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list investors", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.InvestorsFromDomain(investors))
}
