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

// DealService defines the behavior needed by DealHandler.
type DealService interface {
	CreateDeal(ctx context.Context, input usecase.CreateDealInput) (*domain.Deal, error)
	UpdateDeal(ctx context.Context, input usecase.UpdateDealInput) (*domain.Deal, error)
	RecordPayment(ctx context.Context, dealID string, newPaidAmount decimal.Decimal) (*usecase.RecordPaymentResult, error)
	GetDeal(ctx context.Context, id string) (*domain.Deal, error)
	GetDealDebts(ctx context.Context, id string) (*domain.Debts, error)
	ListDeals(ctx context.Context, input usecase.ListDealsInput) ([]*domain.Deal, error)
}

// DealHandler handles deal-related HTTP requests.
type DealHandler struct {
	dealUC DealService
}

// NewDealHandler creates a new DealHandler.
func NewDealHandler(dealUC DealService) *DealHandler {
	return &DealHandler{dealUC: dealUC}
}

// Create creates a new deal.
func (h *DealHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	deal, err := h.dealUC.CreateDeal(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create deal", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.DealFromDomain(deal))
}

// Update changes a deal's amount and percentages.
func (h *DealHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UpdateDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	deal, err := h.dealUC.UpdateDeal(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update deal", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DealFromDomain(deal))
}

// RecordPayment sets a deal's paid amount.
func (h *DealHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.dealUC.RecordPayment(r.Context(), id, req.PaidAmount)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record payment", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RecordPaymentFromResult(result))
}

// Get retrieves a deal by ID.
func (h *DealHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deal, err := h.dealUC.GetDeal(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get deal", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DealFromDomain(deal))
}

// Debts returns the derived debt buckets of a deal.
func (h *DealHandler) Debts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	debts, err := h.dealUC.GetDealDebts(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get deal debts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DebtsFromDomain(*debts))
}

// List lists deals.
func (h *DealHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", usecase.DefaultListLimit)
	offset := parseIntQuery(r, "offset", 0)

	deals, err := h.dealUC.ListDeals(r.Context(), usecase.ListDealsInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list deals", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListDealsResponse{
		Deals: dto.DealsFromDomain(deals),
		Total: int64(len(deals)),
	})
}
