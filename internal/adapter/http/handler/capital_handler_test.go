package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ivlev/dealbook/internal/adapter/http/dto"
	"github.com/ivlev/dealbook/internal/domain"
	"github.com/ivlev/dealbook/internal/usecase"
)

type capitalServiceStub struct {
	computeFn       func(ctx context.Context, before *time.Time) (*domain.BalanceSheet, error)
	snapshotFn      func(ctx context.Context, year, month int) (*domain.MonthlyCapital, error)
	getSnapshotFn   func(ctx context.Context, year, month int) (*domain.MonthlyCapital, error)
	returnPercentFn func(ctx context.Context, year, month int) (decimal.Decimal, error)
	setItemFn       func(ctx context.Context, name string, amount decimal.Decimal) (*domain.BalanceItem, error)
}

func (s *capitalServiceStub) ComputeCurrentCapital(ctx context.Context, before *time.Time) (*domain.BalanceSheet, error) {
	return s.computeFn(ctx, before)
}

func (s *capitalServiceStub) SnapshotMonth(ctx context.Context, year, month int) (*domain.MonthlyCapital, error) {
	return s.snapshotFn(ctx, year, month)
}

func (s *capitalServiceStub) GetCapitalSnapshot(ctx context.Context, year, month int) (*domain.MonthlyCapital, error) {
	return s.getSnapshotFn(ctx, year, month)
}

func (s *capitalServiceStub) MonthlyReturnPercent(ctx context.Context, year, month int) (decimal.Decimal, error) {
	return s.returnPercentFn(ctx, year, month)
}

func (s *capitalServiceStub) SetBalanceItem(ctx context.Context, name string, amount decimal.Decimal) (*domain.BalanceItem, error) {
	return s.setItemFn(ctx, name, amount)
}

type consistencyServiceStub struct {
	checkFn func(ctx context.Context) (*usecase.ConsistencyReport, error)
}

func (s *consistencyServiceStub) CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error) {
	return s.checkFn(ctx)
}

func TestCapitalHandler_BalanceSheet(t *testing.T) {
	handler := NewCapitalHandler(&capitalServiceStub{
		computeFn: func(ctx context.Context, before *time.Time) (*domain.BalanceSheet, error) {
			if before != nil {
				t.Fatal("expected nil cutoff for the live balance sheet")
			}
			return &domain.BalanceSheet{
				Capital: decimal.NewFromInt(5000),
			}, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/capital/balance-sheet", nil)
	rec := httptest.NewRecorder()

	handler.BalanceSheet(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.BalanceSheetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Capital.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("expected capital 5000, got %s", resp.Capital)
	}
}

func TestCapitalHandler_Snapshot(t *testing.T) {
	handler := NewCapitalHandler(&capitalServiceStub{
		snapshotFn: func(ctx context.Context, year, month int) (*domain.MonthlyCapital, error) {
			if year != 2024 || month != 3 {
				t.Fatalf("expected 2024-03, got %d-%d", year, month)
			}
			return &domain.MonthlyCapital{
				ID:      "mc-1",
				Year:    year,
				Month:   month,
				Capital: decimal.NewFromInt(7000),
			}, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/capital/snapshot?year=2024&month=3", nil)
	rec := httptest.NewRecorder()

	handler.Snapshot(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCapitalHandler_Snapshot_InvalidMonth(t *testing.T) {
	handler := NewCapitalHandler(&capitalServiceStub{
		snapshotFn: func(ctx context.Context, year, month int) (*domain.MonthlyCapital, error) {
			return nil, domain.ErrInvalidAmount
		},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/capital/snapshot?year=2024&month=13", nil)
	rec := httptest.NewRecorder()

	handler.Snapshot(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCapitalHandler_GetSnapshot_NotFound(t *testing.T) {
	handler := NewCapitalHandler(&capitalServiceStub{
		getSnapshotFn: func(ctx context.Context, year, month int) (*domain.MonthlyCapital, error) {
			return nil, domain.ErrSnapshotNotFound
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/capital/snapshot?year=2024&month=3", nil)
	rec := httptest.NewRecorder()

	handler.GetSnapshot(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCapitalHandler_Consistency(t *testing.T) {
	handler := NewCapitalHandler(nil, &consistencyServiceStub{
		checkFn: func(ctx context.Context) (*usecase.ConsistencyReport, error) {
			return &usecase.ConsistencyReport{
				AccountsChecked: 3,
				PairsChecked:    5,
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/consistency", nil)
	rec := httptest.NewRecorder()

	handler.Consistency(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ConsistencyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Consistent {
		t.Fatal("expected consistent report")
	}
	if resp.AccountsChecked != 3 || resp.PairsChecked != 5 {
		t.Fatalf("unexpected counts: %+v", resp)
	}
}

func TestCapitalHandler_Consistency_Mismatch(t *testing.T) {
	handler := NewCapitalHandler(nil, &consistencyServiceStub{
		checkFn: func(ctx context.Context) (*usecase.ConsistencyReport, error) {
			return &usecase.ConsistencyReport{
				AccountsChecked: 1,
				Mismatches: []usecase.BalanceMismatch{{
					AccountID: "acc-1",
					Stored:    decimal.NewFromInt(100),
					Computed:  decimal.NewFromInt(90),
				}},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/consistency", nil)
	rec := httptest.NewRecorder()

	handler.Consistency(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ConsistencyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Consistent {
		t.Fatal("expected inconsistent report")
	}
	if len(resp.Mismatches) != 1 || resp.Mismatches[0].AccountID != "acc-1" {
		t.Fatalf("unexpected mismatches: %+v", resp.Mismatches)
	}
}
