package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ivlev/dealbook/internal/adapter/http/dto"
	"github.com/ivlev/dealbook/internal/domain"
	"github.com/ivlev/dealbook/internal/usecase"
)

// CapitalService defines the behavior needed by CapitalHandler.
type CapitalService interface {
	ComputeCurrentCapital(ctx context.Context, before *time.Time) (*domain.BalanceSheet, error)
	SnapshotMonth(ctx context.Context, year, month int) (*domain.MonthlyCapital, error)
	GetCapitalSnapshot(ctx context.Context, year, month int) (*domain.MonthlyCapital, error)
	MonthlyReturnPercent(ctx context.Context, year, month int) (decimal.Decimal, error)
	SetBalanceItem(ctx context.Context, name string, amount decimal.Decimal) (*domain.BalanceItem, error)
}

// ConsistencyService defines the behavior needed for the consistency check.
type ConsistencyService interface {
	CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error)
}

// CapitalHandler handles balance sheet and snapshot HTTP requests.
type CapitalHandler struct {
	snapshotUC    CapitalService
	consistencyUC ConsistencyService
}

// NewCapitalHandler creates a new CapitalHandler.
func NewCapitalHandler(snapshotUC CapitalService, consistencyUC ConsistencyService) *CapitalHandler {
	return &CapitalHandler{
		snapshotUC:    snapshotUC,
		consistencyUC: consistencyUC,
	}
}

// BalanceSheet computes the current balance sheet.
func (h *CapitalHandler) BalanceSheet(w http.ResponseWriter, r *http.Request) {
	sheet, err := h.snapshotUC.ComputeCurrentCapital(r.Context(), nil)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute balance sheet", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceSheetFromDomain(sheet))
}

// Snapshot computes and stores the capital snapshot for one month.
func (h *CapitalHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	year := parseIntQuery(r, "year", 0)
	month := parseIntQuery(r, "month", 0)

	mc, err := h.snapshotUC.SnapshotMonth(r.Context(), year, month)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to snapshot month", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.MonthlyCapitalFromDomain(mc))
}

// GetSnapshot returns the stored snapshot for one month with the monthly
// return percentage.
func (h *CapitalHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	year := parseIntQuery(r, "year", 0)
	month := parseIntQuery(r, "month", 0)

	mc, err := h.snapshotUC.GetCapitalSnapshot(r.Context(), year, month)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get snapshot", err.Error())
		return
	}

	resp := dto.MonthlyCapitalFromDomain(mc)
	if percent, err := h.snapshotUC.MonthlyReturnPercent(r.Context(), year, month); err == nil {
		resp.ReturnPercent = &percent
	}

	writeJSON(w, http.StatusOK, resp)
}

// SetBalanceItem records a manual balance-sheet input.
func (h *CapitalHandler) SetBalanceItem(w http.ResponseWriter, r *http.Request) {
	var req dto.SetBalanceItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	item, err := h.snapshotUC.SetBalanceItem(r.Context(), req.Name, req.Amount)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to set balance item", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"name":   item.Name,
		"amount": item.Amount,
	})
}

// Consistency recomputes every balance from the posting log and reports
// divergences.
func (h *CapitalHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.consistencyUC.CheckConsistency(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to run consistency check", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyFromReport(report))
}
