package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ivlev/dealbook/internal/adapter/http/dto"
	"github.com/ivlev/dealbook/internal/domain"
	"github.com/ivlev/dealbook/internal/usecase"
)

type accountServiceStub struct {
	createFn          func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	createInvestorFn  func(ctx context.Context, name string) (*domain.Investor, error)
	getFn             func(ctx context.Context, id string) (*domain.Account, error)
	supplierBalanceFn func(ctx context.Context, supplierID, accountID string) (decimal.Decimal, error)
	listFn            func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
	supplierLedgerFn  func(ctx context.Context) ([]usecase.SupplierLedgerRow, error)
	listInvestorsFn   func(ctx context.Context) ([]*domain.Investor, error)
}

func (s *accountServiceStub) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, input)
}

func (s *accountServiceStub) CreateInvestor(ctx context.Context, name string) (*domain.Investor, error) {
	return s.createInvestorFn(ctx, name)
}

func (s *accountServiceStub) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return s.getFn(ctx, id)
}

func (s *accountServiceStub) GetSupplierAccountBalance(ctx context.Context, supplierID, accountID string) (decimal.Decimal, error) {
	return s.supplierBalanceFn(ctx, supplierID, accountID)
}

func (s *accountServiceStub) ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
	return s.listFn(ctx, input)
}

func (s *accountServiceStub) SupplierLedger(ctx context.Context) ([]usecase.SupplierLedgerRow, error) {
	return s.supplierLedgerFn(ctx)
}

func (s *accountServiceStub) ListInvestors(ctx context.Context) ([]*domain.Investor, error) {
	return s.listInvestorsFn(ctx)
}

func TestAccountHandler_Create_Success(t *testing.T) {
	account := &domain.Account{
		ID:          "acc-1",
		Name:        "office safe",
		AccountType: "cash",
	}

	var captured usecase.CreateAccountInput
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			captured = input
			return account, nil
		},
	})

	body, _ := json.Marshal(dto.CreateAccountRequest{
		Name:        "office safe",
		AccountType: "cash",
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.Name != "office safe" || captured.AccountType != "cash" {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "acc-1" {
		t.Fatalf("expected account ID acc-1, got %s", resp.ID)
	}
}

func TestAccountHandler_Create_InvalidJSON(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			t.Fatal("CreateAccount should not be called for invalid payload")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString("{invalid json"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Create_ServiceError(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			return nil, errors.New("db error")
		},
	})

	body, _ := json.Marshal(dto.CreateAccountRequest{Name: "office safe"})
	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestAccountHandler_Get(t *testing.T) {
	account := &domain.Account{ID: "acc-1", Name: "office safe"}
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Account, error) {
			if id != "acc-1" {
				t.Fatalf("expected id acc-1, got %s", id)
			}
			return account, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts/acc-1", nil)
	req = setChiURLParam(req, "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAccountHandler_Get_NotFound(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Account, error) {
			return nil, domain.ErrAccountNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts/acc-1", nil)
	req = setChiURLParam(req, "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAccountHandler_SupplierBalance(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		supplierBalanceFn: func(ctx context.Context, supplierID, accountID string) (decimal.Decimal, error) {
			if supplierID != "sup-1" || accountID != "acc-1" {
				t.Fatalf("unexpected pair (%s, %s)", supplierID, accountID)
			}
			return decimal.NewFromInt(150), nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts/acc-1/suppliers/sup-1/balance", nil)
	req = setChiURLParams(req, map[string]string{"id": "acc-1", "supplierID": "sup-1"})
	rec := httptest.NewRecorder()

	handler.SupplierBalance(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]decimal.Decimal
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp["balance"].Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected balance 150, got %s", resp["balance"])
	}
}

func TestAccountHandler_List(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		listFn: func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
			if input.Limit != 10 || input.Offset != 5 {
				t.Fatalf("expected limit 10 offset 5, got %+v", input)
			}
			return []*domain.Account{{ID: "acc-1"}, {ID: "acc-2"}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts?limit=10&offset=5", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ListAccountsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("expected total 2, got %d", resp.Total)
	}
}

func TestAccountHandler_CreateInvestor(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		createInvestorFn: func(ctx context.Context, name string) (*domain.Investor, error) {
			return &domain.Investor{ID: "inv-1", Name: name}, nil
		},
	})

	body, _ := json.Marshal(dto.CreateInvestorRequest{Name: "ivan"})
	req := httptest.NewRequest(http.MethodPost, "/investors", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.CreateInvestor(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	return setChiURLParams(r, map[string]string{key: value})
}

func setChiURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
