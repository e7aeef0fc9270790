package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	httpAdapter "github.com/ivlev/dealbook/internal/adapter/http"
	"github.com/ivlev/dealbook/internal/adapter/http/dto"
	"github.com/ivlev/dealbook/internal/adapter/http/handler"
	postgresRepo "github.com/ivlev/dealbook/internal/adapter/repository/postgres"
	"github.com/ivlev/dealbook/internal/usecase"
	"github.com/ivlev/dealbook/tests/testutil"
)

// Purpose ID seeded by the ledger refs migration.
const paymentPurposeID = "01J0000000000000000000PRP01"

// newTestServer wires the full stack against a real database. Redis-backed
// pieces (idempotency, caching) and metrics are left out so tests exercise
// the ledger itself.
func newTestServer(t *testing.T, db *testutil.TestDB) http.Handler {
	t.Helper()

	ctx := context.Background()

	txManager := postgresRepo.NewTxManager(db.Pool)
	idGen := postgresRepo.NewULIDGenerator()
	accountRepo := postgresRepo.NewAccountRepository(db.Pool)
	subRepo := postgresRepo.NewSupplierAccountRepository(db.Pool, idGen)
	supplierRepo := postgresRepo.NewSupplierRepository(db.Pool)
	dealRepo := postgresRepo.NewDealRepository(db.Pool)
	cashFlowRepo := postgresRepo.NewCashFlowRepository(db.Pool)
	purposeRepo := postgresRepo.NewPurposeRepository(db.Pool)
	transferRepo := postgresRepo.NewTransferRepository(db.Pool)
	investorRepo := postgresRepo.NewInvestorRepository(db.Pool)
	repaymentRepo := postgresRepo.NewRepaymentRepository(db.Pool)
	capitalRepo := postgresRepo.NewCapitalRepository(db.Pool)

	refs, err := usecase.ResolveLedgerRefs(ctx, accountRepo, purposeRepo, usecase.RefNames{
		CashAccount:       "cash",
		PaymentPurpose:    "deal payment",
		TransferPurpose:   "transfer",
		CollectionPurpose: "cash collection",
		RepaymentPurpose:  "debt repayment",
		PayoutPurpose:     "client payout",
		DepositPurpose:    "investor deposit",
		WithdrawalPurpose: "investor withdrawal",
	})
	require.NoError(t, err)

	ledger := usecase.NewLedger(accountRepo, subRepo)

	accountUC := usecase.NewAccountUseCase(accountRepo, subRepo, supplierRepo, investorRepo, idGen)
	dealUC := usecase.NewDealUseCase(txManager, ledger, dealRepo, supplierRepo, cashFlowRepo, idGen, refs)
	cashFlowUC := usecase.NewCashFlowUseCase(txManager, ledger, cashFlowRepo, purposeRepo, dealRepo, idGen, refs)
	transferUC := usecase.NewTransferUseCase(txManager, ledger, transferRepo, cashFlowRepo, idGen, refs)
	settlementUC := usecase.NewSettlementUseCase(txManager, ledger, dealRepo, supplierRepo, cashFlowRepo, investorRepo, repaymentRepo, idGen, refs)
	snapshotUC := usecase.NewSnapshotUseCase(txManager, accountRepo, subRepo, supplierRepo, dealRepo, capitalRepo, idGen, refs)
	consistencyUC := usecase.NewConsistencyUseCase(accountRepo, subRepo, cashFlowRepo)

	return httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:    handler.NewAccountHandler(accountUC),
		DealHandler:       handler.NewDealHandler(dealUC),
		CashFlowHandler:   handler.NewCashFlowHandler(cashFlowUC),
		TransferHandler:   handler.NewTransferHandler(transferUC),
		SettlementHandler: handler.NewSettlementHandler(settlementUC),
		CapitalHandler:    handler.NewCapitalHandler(snapshotUC, consistencyUC),
		HealthHandler:     handler.NewHealthHandler(db.Pool, nil),
		Logger:            zerolog.Nop(),
	})
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if out != nil && rec.Code < 300 {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
	}

	return rec.Code
}

func createAccount(t *testing.T, router http.Handler, name string) string {
	t.Helper()

	var account dto.AccountResponse
	code := doJSON(t, router, http.MethodPost, "/api/v1/accounts/", dto.CreateAccountRequest{
		Name:        name,
		AccountType: "bank",
	}, &account)
	require.Equal(t, http.StatusCreated, code)
	require.NotEmpty(t, account.ID)

	return account.ID
}

func TestDealPaymentFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := testutil.NewTestDB(t)
	defer db.Cleanup()

	ctx := context.Background()
	db.TruncateAll(ctx)

	router := newTestServer(t, db)

	accountID := createAccount(t, router, "supplier safe")
	branchID := db.CreateBranch(ctx, "north")
	supplierID := db.CreateSupplier(ctx, "acme", branchID, accountID, decimal.NewFromInt(5))

	var deal dto.DealResponse
	code := doJSON(t, router, http.MethodPost, "/api/v1/deals/", dto.CreateDealRequest{
		SupplierID:         supplierID,
		Amount:             decimal.NewFromInt(1000),
		ClientPercentage:   decimal.NewFromInt(10),
		BonusPercentage:    decimal.NewFromInt(2),
		SupplierPercentage: decimal.NewFromInt(5),
	}, &deal)
	require.Equal(t, http.StatusCreated, code)

	// A payment credits the supplier's default account and its sub-balance.
	var payment dto.RecordPaymentResponse
	code = doJSON(t, router, http.MethodPost, "/api/v1/deals/"+deal.ID+"/payment",
		dto.RecordPaymentRequest{PaidAmount: decimal.NewFromInt(400)}, &payment)
	require.Equal(t, http.StatusOK, code)
	require.True(t, payment.Deal.PaidAmount.Equal(decimal.NewFromInt(400)))
	require.NotNil(t, payment.CashFlow)
	require.Equal(t, paymentPurposeID, payment.CashFlow.PurposeID)

	var account dto.AccountResponse
	code = doJSON(t, router, http.MethodGet, "/api/v1/accounts/"+accountID, nil, &account)
	require.Equal(t, http.StatusOK, code)
	require.True(t, account.Balance.Equal(decimal.NewFromInt(400)))

	var sub struct {
		Balance decimal.Decimal `json:"balance"`
	}
	code = doJSON(t, router, http.MethodGet,
		"/api/v1/accounts/"+accountID+"/suppliers/"+supplierID+"/balance", nil, &sub)
	require.Equal(t, http.StatusOK, code)
	require.True(t, sub.Balance.Equal(decimal.NewFromInt(400)))

	var debts dto.DebtsResponse
	code = doJSON(t, router, http.MethodGet, "/api/v1/deals/"+deal.ID+"/debts", nil, &debts)
	require.Equal(t, http.StatusOK, code)
	// paid 400 minus the 5% supplier fee of 50
	require.True(t, debts.SupplierDebt.Equal(decimal.NewFromInt(350)), "supplier debt %s", debts.SupplierDebt)
	// amount net of the 10% client fee
	require.True(t, debts.ClientDebt.Equal(decimal.NewFromInt(900)), "client debt %s", debts.ClientDebt)
	require.True(t, debts.Profit.Equal(decimal.NewFromInt(30)), "profit %s", debts.Profit)

	// Paying past the deal amount is rejected.
	code = doJSON(t, router, http.MethodPost, "/api/v1/deals/"+deal.ID+"/payment",
		dto.RecordPaymentRequest{PaidAmount: decimal.NewFromInt(2000)}, nil)
	require.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestTransferMovesFundsBetweenAccounts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := testutil.NewTestDB(t)
	defer db.Cleanup()

	ctx := context.Background()
	db.TruncateAll(ctx)

	router := newTestServer(t, db)

	sourceID := createAccount(t, router, "source")
	destinationID := createAccount(t, router, "destination")

	// Fund the source with an income posting.
	var cf dto.CashFlowResponse
	code := doJSON(t, router, http.MethodPost, "/api/v1/cash-flows/", dto.CreateCashFlowRequest{
		AccountID: sourceID,
		Amount:    decimal.NewFromInt(500),
		PurposeID: paymentPurposeID,
	}, &cf)
	require.Equal(t, http.StatusCreated, code)

	var transfer dto.TransferResponse
	code = doJSON(t, router, http.MethodPost, "/api/v1/transfers/", dto.CreateTransferRequest{
		SourceAccountID:      sourceID,
		DestinationAccountID: destinationID,
		Amount:               decimal.NewFromInt(200),
	}, &transfer)
	require.Equal(t, http.StatusCreated, code)

	require.True(t, db.AccountBalance(ctx, sourceID).Equal(decimal.NewFromInt(300)))
	require.True(t, db.AccountBalance(ctx, destinationID).Equal(decimal.NewFromInt(200)))

	// More than the source holds is rejected and nothing moves.
	code = doJSON(t, router, http.MethodPost, "/api/v1/transfers/", dto.CreateTransferRequest{
		SourceAccountID:      sourceID,
		DestinationAccountID: destinationID,
		Amount:               decimal.NewFromInt(10000),
	}, nil)
	require.Equal(t, http.StatusUnprocessableEntity, code)
	require.True(t, db.AccountBalance(ctx, sourceID).Equal(decimal.NewFromInt(300)))

	var report dto.ConsistencyResponse
	code = doJSON(t, router, http.MethodGet, "/api/v1/consistency", nil, &report)
	require.Equal(t, http.StatusOK, code)
	require.True(t, report.Consistent, "mismatches: %+v", report.Mismatches)
}
