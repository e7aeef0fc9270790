package usecase_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ivlev/dealbook/internal/domain"
	"github.com/ivlev/dealbook/internal/usecase"
	"github.com/ivlev/dealbook/internal/usecase/mocks"
)

// testEnv wires every mock repository with the well-known rows seeded, so a
// test can build any usecase it needs.
type testEnv struct {
	txMgr      *mocks.MockTransactionManager
	accounts   *mocks.MockAccountRepository
	subs       *mocks.MockSupplierAccountRepository
	suppliers  *mocks.MockSupplierRepository
	deals      *mocks.MockDealRepository
	flows      *mocks.MockCashFlowRepository
	purposes   *mocks.MockPurposeRepository
	transfers  *mocks.MockTransferRepository
	investors  *mocks.MockInvestorRepository
	repayments *mocks.MockRepaymentRepository
	capital    *mocks.MockCapitalRepository
	idGen      *mocks.MockIDGenerator
	ledger     *usecase.Ledger
	refs       usecase.LedgerRefs
}

func newTestEnv() *testEnv {
	env := &testEnv{
		txMgr:      mocks.NewMockTransactionManager(),
		accounts:   mocks.NewMockAccountRepository(),
		subs:       mocks.NewMockSupplierAccountRepository(),
		suppliers:  mocks.NewMockSupplierRepository(),
		deals:      mocks.NewMockDealRepository(),
		flows:      mocks.NewMockCashFlowRepository(),
		purposes:   mocks.NewMockPurposeRepository(),
		transfers:  mocks.NewMockTransferRepository(),
		investors:  mocks.NewMockInvestorRepository(),
		repayments: mocks.NewMockRepaymentRepository(),
		capital:    mocks.NewMockCapitalRepository(),
		idGen:      mocks.NewMockIDGenerator(),
	}

	env.ledger = usecase.NewLedger(env.accounts, env.subs)
	env.refs = usecase.LedgerRefs{
		CashAccountID:       "acc-cash",
		PaymentPurposeID:    "purpose-payment",
		TransferPurposeID:   "purpose-transfer",
		CollectionPurposeID: "purpose-collection",
		RepaymentPurposeID:  "purpose-repayment",
		PayoutPurposeID:     "purpose-payout",
		DepositPurposeID:    "purpose-deposit",
		WithdrawalPurposeID: "purpose-withdrawal",
	}

	for _, p := range []*domain.PaymentPurpose{
		{ID: "purpose-payment", Name: "payment", OperationType: domain.OperationIncome},
		{ID: "purpose-transfer", Name: "transfer", OperationType: domain.OperationIncome},
		{ID: "purpose-collection", Name: "collection", OperationType: domain.OperationIncome},
		{ID: "purpose-repayment", Name: "repayment", OperationType: domain.OperationIncome},
		{ID: "purpose-payout", Name: "payout", OperationType: domain.OperationExpense},
		{ID: "purpose-deposit", Name: "deposit", OperationType: domain.OperationIncome},
		{ID: "purpose-withdrawal", Name: "withdrawal", OperationType: domain.OperationExpense},
	} {
		env.purposes.Add(p)
	}

	env.addAccount("acc-cash", "cash", 0)

	return env
}

func (env *testEnv) addAccount(id, name string, balance int64) *domain.Account {
	account := &domain.Account{
		ID:      id,
		Name:    name,
		Balance: decimal.NewFromInt(balance),
	}
	env.accounts.Create(context.Background(), account)

	return account
}

func (env *testEnv) addSupplier(id, branchID, defaultAccountID string) *domain.Supplier {
	supplier := &domain.Supplier{
		ID:               id,
		Name:             "supplier " + id,
		BranchID:         branchID,
		DefaultAccountID: defaultAccountID,
	}
	env.suppliers.Create(context.Background(), supplier)

	return supplier
}

func (env *testEnv) addDeal(id, supplierID string, amount, paid int64, clientPct, bonusPct, supplierPct string, createdAt time.Time) *domain.Deal {
	cp, _ := decimal.NewFromString(clientPct)
	bp, _ := decimal.NewFromString(bonusPct)
	sp, _ := decimal.NewFromString(supplierPct)

	deal := &domain.Deal{
		ID:                 id,
		ClientID:           "client-1",
		SupplierID:         supplierID,
		Amount:             decimal.NewFromInt(amount),
		ClientPercentage:   cp,
		BonusPercentage:    bp,
		SupplierPercentage: sp,
		PaidAmount:         decimal.NewFromInt(paid),
		CreatedAt:          createdAt,
		UpdatedAt:          createdAt,
	}
	env.deals.Create(context.Background(), deal)

	return deal
}

func (env *testEnv) cashFlowUC() *usecase.CashFlowUseCase {
	return usecase.NewCashFlowUseCase(env.txMgr, env.ledger, env.flows, env.purposes, env.deals, env.idGen, env.refs)
}

func (env *testEnv) dealUC() *usecase.DealUseCase {
	return usecase.NewDealUseCase(env.txMgr, env.ledger, env.deals, env.suppliers, env.flows, env.idGen, env.refs)
}

func (env *testEnv) settlementUC() *usecase.SettlementUseCase {
	return usecase.NewSettlementUseCase(env.txMgr, env.ledger, env.deals, env.suppliers, env.flows, env.investors, env.repayments, env.idGen, env.refs)
}

func (env *testEnv) transferUC() *usecase.TransferUseCase {
	return usecase.NewTransferUseCase(env.txMgr, env.ledger, env.transfers, env.flows, env.idGen, env.refs)
}

func (env *testEnv) snapshotUC() *usecase.SnapshotUseCase {
	return usecase.NewSnapshotUseCase(env.txMgr, env.accounts, env.subs, env.suppliers, env.deals, env.capital, env.idGen, env.refs)
}

func (env *testEnv) consistencyUC() *usecase.ConsistencyUseCase {
	return usecase.NewConsistencyUseCase(env.accounts, env.subs, env.flows)
}

func (env *testEnv) accountBalance(id string) decimal.Decimal {
	account, err := env.accounts.GetByID(context.Background(), id)
	if err != nil {
		return decimal.Zero
	}

	return account.Balance
}

func (env *testEnv) setPairBalance(supplierID, accountID string, balance int64) {
	ctx := context.Background()
	sub, _ := env.subs.GetOrCreateForUpdate(ctx, nil, supplierID, accountID)
	env.subs.UpdateBalance(ctx, nil, sub.ID, decimal.NewFromInt(balance))
}

func (env *testEnv) pairBalance(supplierID, accountID string) decimal.Decimal {
	sub, err := env.subs.GetPair(context.Background(), supplierID, accountID)
	if err != nil {
		return decimal.Zero
	}

	return sub.Balance
}
