package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ivlev/dealbook/internal/adapter/http/dto"
	"github.com/ivlev/dealbook/internal/domain"
	"github.com/ivlev/dealbook/internal/usecase"
)

// CashFlowService defines the behavior needed by CashFlowHandler.
type CashFlowService interface {
	CreateCashFlow(ctx context.Context, input usecase.CreateCashFlowInput) (*domain.CashFlow, error)
	EditCashFlow(ctx context.Context, input usecase.EditCashFlowInput) (*domain.CashFlow, error)
	DeleteCashFlow(ctx context.Context, id string) error
	GetCashFlow(ctx context.Context, id string) (*domain.CashFlow, error)
	ListCashFlowsByAccount(ctx context.Context, input usecase.ListCashFlowsByAccountInput) ([]*domain.CashFlow, error)
}

// CashFlowHandler handles posting-related HTTP requests.
type CashFlowHandler struct {
	cashFlowUC CashFlowService
}

// NewCashFlowHandler creates a new CashFlowHandler.
func NewCashFlowHandler(cashFlowUC CashFlowService) *CashFlowHandler {
	return &CashFlowHandler{cashFlowUC: cashFlowUC}
}

// Create creates a new posting.
func (h *CashFlowHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCashFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	cf, err := h.cashFlowUC.CreateCashFlow(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create cash flow", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.CashFlowFromDomain(cf))
}

// Edit reverses a posting and applies new values.
func (h *CashFlowHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.EditCashFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	cf, err := h.cashFlowUC.EditCashFlow(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to edit cash flow", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CashFlowFromDomain(cf))
}

// Delete reverses a posting's balance effect and removes it.
func (h *CashFlowHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.cashFlowUC.DeleteCashFlow(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete cash flow", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Get retrieves a posting by ID.
func (h *CashFlowHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	cf, err := h.cashFlowUC.GetCashFlow(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get cash flow", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CashFlowFromDomain(cf))
}

// ListByAccount lists an account's postings, newest first.
func (h *CashFlowHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	limit := parseIntQuery(r, "limit", usecase.DefaultListLimit)
	offset := parseIntQuery(r, "offset", 0)

	flows, err := h.cashFlowUC.ListCashFlowsByAccount(r.Context(), usecase.ListCashFlowsByAccountInput{
		AccountID: accountID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list cash flows", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListCashFlowsResponse{
		CashFlows: dto.CashFlowsFromDomain(flows),
		Total:     int64(len(flows)),
	})
}
