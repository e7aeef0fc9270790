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

// SettlementService defines the behavior needed by SettlementHandler.
type SettlementService interface {
	RepaySupplierDebt(ctx context.Context, input usecase.RepaySupplierDebtInput) (*usecase.RepaySupplierDebtResult, error)
	RepayClientDebt(ctx context.Context, input usecase.RepayClientDebtInput) (*usecase.RepayClientDebtResult, error)
	RepayBonusDebt(ctx context.Context, dealID string, amount decimal.Decimal) (*domain.CashFlow, error)
	InvestorOperation(ctx context.Context, input usecase.InvestorOperationInput) (*domain.InvestorDebtOperation, error)
	CloseInvestorDebt(ctx context.Context, investorID string, amount decimal.Decimal) ([]domain.DebtAllocation, error)
	EditSupplierRepaymentComment(ctx context.Context, id, comment string) error
	EditClientRepaymentComment(ctx context.Context, id, comment string) error
	ListSupplierRepaymentsByBranch(ctx context.Context, branchID string) ([]*domain.SupplierDebtRepayment, error)
	ListInvestorOperations(ctx context.Context, investorID string) ([]*domain.InvestorDebtOperation, error)
}

// SettlementHandler handles debt settlement HTTP requests.
type SettlementHandler struct {
	settlementUC SettlementService
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(settlementUC SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementUC: settlementUC}
}

// RepaySupplierDebt settles supplier debt for one deal or a whole branch.
func (h *SettlementHandler) RepaySupplierDebt(w http.ResponseWriter, r *http.Request) {
	var req dto.RepaySupplierDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.settlementUC.RepaySupplierDebt(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to repay supplier debt", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.RepaySupplierDebtFromResult(result))
}

// RepayClientDebt returns funds to the client out of the cash account.
func (h *SettlementHandler) RepayClientDebt(w http.ResponseWriter, r *http.Request) {
	var req dto.RepayClientDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.settlementUC.RepayClientDebt(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to repay client debt", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.RepayClientDebtFromResult(result))
}

// RepayBonusDebt settles bonus debt for one deal.
func (h *SettlementHandler) RepayBonusDebt(w http.ResponseWriter, r *http.Request) {
	var req dto.RepayBonusDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	cf, err := h.settlementUC.RepayBonusDebt(r.Context(), req.DealID, req.Amount)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to repay bonus debt", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.CashFlowFromDomain(cf))
}

// InvestorOperation applies a deposit, withdrawal or profit recognition.
func (h *SettlementHandler) InvestorOperation(w http.ResponseWriter, r *http.Request) {
	investorID := chi.URLParam(r, "id")

	var req dto.InvestorOperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	op, err := h.settlementUC.InvestorOperation(r.Context(), req.ToUseCaseInput(investorID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to apply investor operation", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.InvestorOperationFromDomain(op))
}

// CloseInvestorDebt recognizes profit across paid deals, oldest first.
func (h *SettlementHandler) CloseInvestorDebt(w http.ResponseWriter, r *http.Request) {
	investorID := chi.URLParam(r, "id")

	var req dto.CloseInvestorDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	allocations, err := h.settlementUC.CloseInvestorDebt(r.Context(), investorID, req.Amount)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to close investor debt", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AllocationsFromDomain(allocations))
}

// EditSupplierRepaymentComment changes a supplier settlement's comment.
func (h *SettlementHandler) EditSupplierRepaymentComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.EditCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.settlementUC.EditSupplierRepaymentComment(r.Context(), id, req.Comment); err != nil {
		writeError(w, mapDomainError(err), "failed to edit comment", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// EditClientRepaymentComment changes a client settlement's comment.
func (h *SettlementHandler) EditClientRepaymentComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.EditCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.settlementUC.EditClientRepaymentComment(r.Context(), id, req.Comment); err != nil {
		writeError(w, mapDomainError(err), "failed to edit comment", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListSupplierRepaymentsByBranch lists branch-wide settlements.
func (h *SettlementHandler) ListSupplierRepaymentsByBranch(w http.ResponseWriter, r *http.Request) {
	branchID := chi.URLParam(r, "id")

	repayments, err := h.settlementUC.ListSupplierRepaymentsByBranch(r.Context(), branchID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list repayments", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SupplierRepaymentsFromDomain(repayments))
}

// ListInvestorOperations lists an investor's balance changes.
func (h *SettlementHandler) ListInvestorOperations(w http.ResponseWriter, r *http.Request) {
	investorID := chi.URLParam(r, "id")

	ops, err := h.settlementUC.ListInvestorOperations(r.Context(), investorID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list investor operations", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.InvestorOperationsFromDomain(ops))
}
