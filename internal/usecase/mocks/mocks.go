package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ivlev/dealbook/internal/domain"
	"github.com/ivlev/dealbook/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc            func(ctx context.Context, account *domain.Account) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.Account, error)
	GetByNameFunc         func(ctx context.Context, name string) (*domain.Account, error)
	GetByIDForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	GetByIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalanceFunc     func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	ListFunc              func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	ListAllFunc           func(ctx context.Context) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByName(ctx context.Context, name string) (*domain.Account, error) {
	if m.GetByNameFunc != nil {
		return m.GetByNameFunc(ctx, name)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if acc.Name == name {
			return acc, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, id := range ids {
		if acc, ok := m.accounts[id]; ok {
			accounts = append(accounts, acc)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		acc.Balance = balance
		acc.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return m.ListAll(ctx)
}

func (m *MockAccountRepository) ListAll(ctx context.Context) ([]*domain.Account, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		accounts = append(accounts, acc)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

// MockSupplierAccountRepository is a mock implementation of SupplierAccountRepository.
type MockSupplierAccountRepository struct {
	mu   sync.RWMutex
	subs map[string]*domain.SupplierAccount

	GetOrCreateForUpdateFunc func(ctx context.Context, tx usecase.Transaction, supplierID, accountID string) (*domain.SupplierAccount, error)
	GetPairFunc              func(ctx context.Context, supplierID, accountID string) (*domain.SupplierAccount, error)
	UpdateBalanceFunc        func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal) error
	ListByAccountFunc        func(ctx context.Context, accountID string) ([]*domain.SupplierAccount, error)
	ListFunc                 func(ctx context.Context) ([]*domain.SupplierAccount, error)
	SumByAccountFunc         func(ctx context.Context, accountID string) (decimal.Decimal, error)
}

func NewMockSupplierAccountRepository() *MockSupplierAccountRepository {
	return &MockSupplierAccountRepository{
		subs: make(map[string]*domain.SupplierAccount),
	}
}

func (m *MockSupplierAccountRepository) GetOrCreateForUpdate(ctx context.Context, tx usecase.Transaction, supplierID, accountID string) (*domain.SupplierAccount, error) {
	if m.GetOrCreateForUpdateFunc != nil {
		return m.GetOrCreateForUpdateFunc(ctx, tx, supplierID, accountID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sub := range m.subs {
		if sub.SupplierID == supplierID && sub.AccountID == accountID {
			return sub, nil
		}
	}
	sub := &domain.SupplierAccount{
		ID:         fmt.Sprintf("sub-%d", len(m.subs)+1),
		SupplierID: supplierID,
		AccountID:  accountID,
		Balance:    decimal.Zero,
	}
	m.subs[sub.ID] = sub
	return sub, nil
}

func (m *MockSupplierAccountRepository) GetPair(ctx context.Context, supplierID, accountID string) (*domain.SupplierAccount, error) {
	if m.GetPairFunc != nil {
		return m.GetPairFunc(ctx, supplierID, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, sub := range m.subs {
		if sub.SupplierID == supplierID && sub.AccountID == accountID {
			return sub, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockSupplierAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if sub, ok := m.subs[id]; ok {
		sub.Balance = balance
	}
	return nil
}

func (m *MockSupplierAccountRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.SupplierAccount, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var subs []*domain.SupplierAccount
	for _, sub := range m.subs {
		if sub.AccountID == accountID {
			subs = append(subs, sub)
		}
	}
	return subs, nil
}

func (m *MockSupplierAccountRepository) List(ctx context.Context) ([]*domain.SupplierAccount, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var subs []*domain.SupplierAccount
	for _, sub := range m.subs {
		subs = append(subs, sub)
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].ID < subs[j].ID })
	return subs, nil
}

func (m *MockSupplierAccountRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	if m.SumByAccountFunc != nil {
		return m.SumByAccountFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, sub := range m.subs {
		if sub.AccountID == accountID {
			sum = sum.Add(sub.Balance)
		}
	}
	return sum, nil
}

// MockSupplierRepository is a mock implementation of SupplierRepository.
type MockSupplierRepository struct {
	mu        sync.RWMutex
	suppliers map[string]*domain.Supplier
	branches  map[string]*domain.Branch

	CreateFunc       func(ctx context.Context, supplier *domain.Supplier) error
	GetByIDFunc      func(ctx context.Context, id string) (*domain.Supplier, error)
	ListFunc         func(ctx context.Context) ([]*domain.Supplier, error)
	ListByBranchFunc func(ctx context.Context, branchID string) ([]*domain.Supplier, error)
	GetBranchFunc    func(ctx context.Context, id string) (*domain.Branch, error)
	ListBranchesFunc func(ctx context.Context) ([]*domain.Branch, error)
}

func NewMockSupplierRepository() *MockSupplierRepository {
	return &MockSupplierRepository{
		suppliers: make(map[string]*domain.Supplier),
		branches:  make(map[string]*domain.Branch),
	}
}

// AddBranch seeds a branch.
func (m *MockSupplierRepository) AddBranch(b *domain.Branch) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.branches[b.ID] = b
}

func (m *MockSupplierRepository) Create(ctx context.Context, supplier *domain.Supplier) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, supplier)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suppliers[supplier.ID] = supplier
	return nil
}

func (m *MockSupplierRepository) GetByID(ctx context.Context, id string) (*domain.Supplier, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.suppliers[id]; ok {
		return s, nil
	}
	return nil, domain.ErrSupplierNotFound
}

func (m *MockSupplierRepository) List(ctx context.Context) ([]*domain.Supplier, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var suppliers []*domain.Supplier
	for _, s := range m.suppliers {
		suppliers = append(suppliers, s)
	}
	sort.Slice(suppliers, func(i, j int) bool { return suppliers[i].ID < suppliers[j].ID })
	return suppliers, nil
}

func (m *MockSupplierRepository) ListByBranch(ctx context.Context, branchID string) ([]*domain.Supplier, error) {
	if m.ListByBranchFunc != nil {
		return m.ListByBranchFunc(ctx, branchID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var suppliers []*domain.Supplier
	for _, s := range m.suppliers {
		if s.BranchID == branchID {
			suppliers = append(suppliers, s)
		}
	}
	sort.Slice(suppliers, func(i, j int) bool { return suppliers[i].ID < suppliers[j].ID })
	return suppliers, nil
}

func (m *MockSupplierRepository) GetBranch(ctx context.Context, id string) (*domain.Branch, error) {
	if m.GetBranchFunc != nil {
		return m.GetBranchFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.branches[id]; ok {
		return b, nil
	}
	return nil, domain.ErrBranchNotFound
}

func (m *MockSupplierRepository) ListBranches(ctx context.Context) ([]*domain.Branch, error) {
	if m.ListBranchesFunc != nil {
		return m.ListBranchesFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var branches []*domain.Branch
	for _, b := range m.branches {
		branches = append(branches, b)
	}
	sort.Slice(branches, func(i, j int) bool { return branches[i].ID < branches[j].ID })
	return branches, nil
}

// MockDealRepository is a mock implementation of DealRepository.
type MockDealRepository struct {
	mu    sync.RWMutex
	deals map[string]*domain.Deal

	CreateFunc                   func(ctx context.Context, deal *domain.Deal) error
	GetByIDFunc                  func(ctx context.Context, id string) (*domain.Deal, error)
	GetByIDForUpdateFunc         func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Deal, error)
	ListBySuppliersForUpdateFunc func(ctx context.Context, tx usecase.Transaction, supplierIDs []string) ([]*domain.Deal, error)
	ListPaidForUpdateFunc        func(ctx context.Context, tx usecase.Transaction) ([]*domain.Deal, error)
	UpdateFunc                   func(ctx context.Context, tx usecase.Transaction, deal *domain.Deal) error
	ListPaidFunc                 func(ctx context.Context, before *time.Time) ([]*domain.Deal, error)
	ListAllFunc                  func(ctx context.Context, before *time.Time) ([]*domain.Deal, error)
	ListCreatedBetweenFunc       func(ctx context.Context, from, to time.Time) ([]*domain.Deal, error)
	ListFunc                     func(ctx context.Context, limit, offset int) ([]*domain.Deal, error)
}

func NewMockDealRepository() *MockDealRepository {
	return &MockDealRepository{
		deals: make(map[string]*domain.Deal),
	}
}

func (m *MockDealRepository) Create(ctx context.Context, deal *domain.Deal) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, deal)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deals[deal.ID] = deal
	return nil
}

func (m *MockDealRepository) GetByID(ctx context.Context, id string) (*domain.Deal, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.deals[id]; ok {
		return d, nil
	}
	return nil, domain.ErrDealNotFound
}

func (m *MockDealRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Deal, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockDealRepository) ListBySuppliersForUpdate(ctx context.Context, tx usecase.Transaction, supplierIDs []string) ([]*domain.Deal, error) {
	if m.ListBySuppliersForUpdateFunc != nil {
		return m.ListBySuppliersForUpdateFunc(ctx, tx, supplierIDs)
	}
	wanted := make(map[string]bool, len(supplierIDs))
	for _, id := range supplierIDs {
		wanted[id] = true
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var deals []*domain.Deal
	for _, d := range m.deals {
		if wanted[d.SupplierID] && d.PaidAmount.IsPositive() {
			deals = append(deals, d)
		}
	}
	sortOldestFirst(deals)
	return deals, nil
}

func (m *MockDealRepository) ListPaidForUpdate(ctx context.Context, tx usecase.Transaction) ([]*domain.Deal, error) {
	if m.ListPaidForUpdateFunc != nil {
		return m.ListPaidForUpdateFunc(ctx, tx)
	}
	return m.ListPaid(ctx, nil)
}

func (m *MockDealRepository) Update(ctx context.Context, tx usecase.Transaction, deal *domain.Deal) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, deal)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deals[deal.ID] = deal
	return nil
}

func (m *MockDealRepository) ListPaid(ctx context.Context, before *time.Time) ([]*domain.Deal, error) {
	if m.ListPaidFunc != nil {
		return m.ListPaidFunc(ctx, before)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var deals []*domain.Deal
	for _, d := range m.deals {
		if !d.PaidAmount.IsPositive() {
			continue
		}
		if before != nil && d.CreatedAt.After(*before) {
			continue
		}
		deals = append(deals, d)
	}
	sortOldestFirst(deals)
	return deals, nil
}

func (m *MockDealRepository) ListAll(ctx context.Context, before *time.Time) ([]*domain.Deal, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx, before)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var deals []*domain.Deal
	for _, d := range m.deals {
		if before != nil && d.CreatedAt.After(*before) {
			continue
		}
		deals = append(deals, d)
	}
	sortOldestFirst(deals)
	return deals, nil
}

func (m *MockDealRepository) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]*domain.Deal, error) {
	if m.ListCreatedBetweenFunc != nil {
		return m.ListCreatedBetweenFunc(ctx, from, to)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var deals []*domain.Deal
	for _, d := range m.deals {
		if d.CreatedAt.Before(from) || d.CreatedAt.After(to) {
			continue
		}
		deals = append(deals, d)
	}
	sortOldestFirst(deals)
	return deals, nil
}

func (m *MockDealRepository) List(ctx context.Context, limit, offset int) ([]*domain.Deal, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return m.ListAll(ctx, nil)
}

func sortOldestFirst(deals []*domain.Deal) {
	sort.Slice(deals, func(i, j int) bool {
		if deals[i].CreatedAt.Equal(deals[j].CreatedAt) {
			return deals[i].ID < deals[j].ID
		}
		return deals[i].CreatedAt.Before(deals[j].CreatedAt)
	})
}

// MockCashFlowRepository is a mock implementation of CashFlowRepository.
type MockCashFlowRepository struct {
	mu    sync.RWMutex
	flows map[string]*domain.CashFlow

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, cf *domain.CashFlow) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.CashFlow, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.CashFlow, error)
	UpdateFunc           func(ctx context.Context, tx usecase.Transaction, cf *domain.CashFlow) error
	DeleteFunc           func(ctx context.Context, tx usecase.Transaction, id string) error
	DeleteByTransferFunc func(ctx context.Context, tx usecase.Transaction, transferID string) error
	ListByAccountFunc    func(ctx context.Context, accountID string, limit, offset int) ([]*domain.CashFlow, error)
	ListByTransferFunc   func(ctx context.Context, transferID string) ([]*domain.CashFlow, error)
	SumByAccountFunc     func(ctx context.Context, accountID string) (decimal.Decimal, error)
	SumByPairFunc        func(ctx context.Context, supplierID, accountID string) (decimal.Decimal, error)
}

func NewMockCashFlowRepository() *MockCashFlowRepository {
	return &MockCashFlowRepository{
		flows: make(map[string]*domain.CashFlow),
	}
}

func (m *MockCashFlowRepository) Create(ctx context.Context, tx usecase.Transaction, cf *domain.CashFlow) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, cf)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flows[cf.ID] = cf
	return nil
}

func (m *MockCashFlowRepository) GetByID(ctx context.Context, id string) (*domain.CashFlow, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if cf, ok := m.flows[id]; ok {
		return cf, nil
	}
	return nil, domain.ErrCashFlowNotFound
}

func (m *MockCashFlowRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.CashFlow, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockCashFlowRepository) Update(ctx context.Context, tx usecase.Transaction, cf *domain.CashFlow) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, cf)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flows[cf.ID] = cf
	return nil
}

func (m *MockCashFlowRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.flows, id)
	return nil
}

func (m *MockCashFlowRepository) DeleteByTransfer(ctx context.Context, tx usecase.Transaction, transferID string) error {
	if m.DeleteByTransferFunc != nil {
		return m.DeleteByTransferFunc(ctx, tx, transferID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, cf := range m.flows {
		if cf.TransferID == transferID {
			delete(m.flows, id)
		}
	}
	return nil
}

func (m *MockCashFlowRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.CashFlow, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var flows []*domain.CashFlow
	for _, cf := range m.flows {
		if cf.AccountID == accountID {
			flows = append(flows, cf)
		}
	}
	return flows, nil
}

func (m *MockCashFlowRepository) ListByTransfer(ctx context.Context, transferID string) ([]*domain.CashFlow, error) {
	if m.ListByTransferFunc != nil {
		return m.ListByTransferFunc(ctx, transferID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var flows []*domain.CashFlow
	for _, cf := range m.flows {
		if cf.TransferID == transferID {
			flows = append(flows, cf)
		}
	}
	return flows, nil
}

func (m *MockCashFlowRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	if m.SumByAccountFunc != nil {
		return m.SumByAccountFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, cf := range m.flows {
		if cf.AccountID == accountID {
			sum = sum.Add(cf.Amount)
		}
	}
	return sum, nil
}

func (m *MockCashFlowRepository) SumByPair(ctx context.Context, supplierID, accountID string) (decimal.Decimal, error) {
	if m.SumByPairFunc != nil {
		return m.SumByPairFunc(ctx, supplierID, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, cf := range m.flows {
		if cf.AccountID == accountID && cf.SupplierID == supplierID {
			sum = sum.Add(cf.Amount)
		}
	}
	return sum, nil
}

// MockPurposeRepository is a mock implementation of PurposeRepository.
type MockPurposeRepository struct {
	mu       sync.RWMutex
	purposes map[string]*domain.PaymentPurpose

	GetByIDFunc   func(ctx context.Context, id string) (*domain.PaymentPurpose, error)
	GetByNameFunc func(ctx context.Context, name string) (*domain.PaymentPurpose, error)
	ListFunc      func(ctx context.Context) ([]*domain.PaymentPurpose, error)
}

func NewMockPurposeRepository() *MockPurposeRepository {
	return &MockPurposeRepository{
		purposes: make(map[string]*domain.PaymentPurpose),
	}
}

// Add seeds a purpose.
func (m *MockPurposeRepository) Add(p *domain.PaymentPurpose) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purposes[p.ID] = p
}

func (m *MockPurposeRepository) GetByID(ctx context.Context, id string) (*domain.PaymentPurpose, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.purposes[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPurposeNotFound
}

func (m *MockPurposeRepository) GetByName(ctx context.Context, name string) (*domain.PaymentPurpose, error) {
	if m.GetByNameFunc != nil {
		return m.GetByNameFunc(ctx, name)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.purposes {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, domain.ErrPurposeNotFound
}

func (m *MockPurposeRepository) List(ctx context.Context) ([]*domain.PaymentPurpose, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var purposes []*domain.PaymentPurpose
	for _, p := range m.purposes {
		purposes = append(purposes, p)
	}
	return purposes, nil
}

// MockTransferRepository is a mock implementation of TransferRepository.
type MockTransferRepository struct {
	mu        sync.RWMutex
	transfers map[string]*domain.MoneyTransfer

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, transfer *domain.MoneyTransfer) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.MoneyTransfer, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.MoneyTransfer, error)
	UpdateFunc           func(ctx context.Context, tx usecase.Transaction, transfer *domain.MoneyTransfer) error
	DeleteFunc           func(ctx context.Context, tx usecase.Transaction, id string) error
	ListFunc             func(ctx context.Context, limit, offset int) ([]*domain.MoneyTransfer, error)
}

func NewMockTransferRepository() *MockTransferRepository {
	return &MockTransferRepository{
		transfers: make(map[string]*domain.MoneyTransfer),
	}
}

func (m *MockTransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.MoneyTransfer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, transfer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transfers[transfer.ID] = transfer
	return nil
}

func (m *MockTransferRepository) GetByID(ctx context.Context, id string) (*domain.MoneyTransfer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.transfers[id]; ok {
		return t, nil
	}
	return nil, domain.ErrTransferNotFound
}

func (m *MockTransferRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.MoneyTransfer, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockTransferRepository) Update(ctx context.Context, tx usecase.Transaction, transfer *domain.MoneyTransfer) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, transfer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transfers[transfer.ID] = transfer
	return nil
}

func (m *MockTransferRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.transfers, id)
	return nil
}

func (m *MockTransferRepository) List(ctx context.Context, limit, offset int) ([]*domain.MoneyTransfer, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var transfers []*domain.MoneyTransfer
	for _, t := range m.transfers {
		transfers = append(transfers, t)
	}
	return transfers, nil
}

// MockInvestorRepository is a mock implementation of InvestorRepository.
type MockInvestorRepository struct {
	mu        sync.RWMutex
	investors map[string]*domain.Investor

	CreateFunc           func(ctx context.Context, investor *domain.Investor) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Investor, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Investor, error)
	UpdateBalanceFunc    func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal) error
	ListFunc             func(ctx context.Context, before *time.Time) ([]*domain.Investor, error)
}

func NewMockInvestorRepository() *MockInvestorRepository {
	return &MockInvestorRepository{
		investors: make(map[string]*domain.Investor),
	}
}

func (m *MockInvestorRepository) Create(ctx context.Context, investor *domain.Investor) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, investor)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.investors[investor.ID] = investor
	return nil
}

func (m *MockInvestorRepository) GetByID(ctx context.Context, id string) (*domain.Investor, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if inv, ok := m.investors[id]; ok {
		return inv, nil
	}
	return nil, domain.ErrInvestorNotFound
}

func (m *MockInvestorRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Investor, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockInvestorRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if inv, ok := m.investors[id]; ok {
		inv.Balance = balance
	}
	return nil
}

func (m *MockInvestorRepository) List(ctx context.Context, before *time.Time) ([]*domain.Investor, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, before)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var investors []*domain.Investor
	for _, inv := range m.investors {
		if before != nil && inv.CreatedAt.After(*before) {
			continue
		}
		investors = append(investors, inv)
	}
	return investors, nil
}

// MockRepaymentRepository is a mock implementation of RepaymentRepository.
type MockRepaymentRepository struct {
	mu                 sync.RWMutex
	supplierRepayments map[string]*domain.SupplierDebtRepayment
	clientRepayments   map[string]*domain.ClientDebtRepayment
	investorOps        map[string]*domain.InvestorDebtOperation

	CreateSupplierRepaymentFunc        func(ctx context.Context, tx usecase.Transaction, r *domain.SupplierDebtRepayment) error
	GetSupplierRepaymentFunc           func(ctx context.Context, id string) (*domain.SupplierDebtRepayment, error)
	UpdateSupplierRepaymentCommentFunc func(ctx context.Context, id, comment string) error
	ListSupplierRepaymentsByBranchFunc func(ctx context.Context, branchID string) ([]*domain.SupplierDebtRepayment, error)
	CreateClientRepaymentFunc          func(ctx context.Context, tx usecase.Transaction, r *domain.ClientDebtRepayment) error
	GetClientRepaymentFunc             func(ctx context.Context, id string) (*domain.ClientDebtRepayment, error)
	UpdateClientRepaymentCommentFunc   func(ctx context.Context, id, comment string) error
	CreateInvestorOperationFunc        func(ctx context.Context, tx usecase.Transaction, op *domain.InvestorDebtOperation) error
	ListInvestorOperationsFunc         func(ctx context.Context, investorID string) ([]*domain.InvestorDebtOperation, error)
}

func NewMockRepaymentRepository() *MockRepaymentRepository {
	return &MockRepaymentRepository{
		supplierRepayments: make(map[string]*domain.SupplierDebtRepayment),
		clientRepayments:   make(map[string]*domain.ClientDebtRepayment),
		investorOps:        make(map[string]*domain.InvestorDebtOperation),
	}
}

func (m *MockRepaymentRepository) CreateSupplierRepayment(ctx context.Context, tx usecase.Transaction, r *domain.SupplierDebtRepayment) error {
	if m.CreateSupplierRepaymentFunc != nil {
		return m.CreateSupplierRepaymentFunc(ctx, tx, r)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.supplierRepayments[r.ID] = r
	return nil
}

func (m *MockRepaymentRepository) GetSupplierRepayment(ctx context.Context, id string) (*domain.SupplierDebtRepayment, error) {
	if m.GetSupplierRepaymentFunc != nil {
		return m.GetSupplierRepaymentFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.supplierRepayments[id]; ok {
		return r, nil
	}
	return nil, domain.ErrRepaymentNotFound
}

func (m *MockRepaymentRepository) UpdateSupplierRepaymentComment(ctx context.Context, id, comment string) error {
	if m.UpdateSupplierRepaymentCommentFunc != nil {
		return m.UpdateSupplierRepaymentCommentFunc(ctx, id, comment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.supplierRepayments[id]; ok {
		r.Comment = comment
		return nil
	}
	return domain.ErrRepaymentNotFound
}

func (m *MockRepaymentRepository) ListSupplierRepaymentsByBranch(ctx context.Context, branchID string) ([]*domain.SupplierDebtRepayment, error) {
	if m.ListSupplierRepaymentsByBranchFunc != nil {
		return m.ListSupplierRepaymentsByBranchFunc(ctx, branchID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var repayments []*domain.SupplierDebtRepayment
	for _, r := range m.supplierRepayments {
		if r.BranchID == branchID {
			repayments = append(repayments, r)
		}
	}
	return repayments, nil
}

func (m *MockRepaymentRepository) CreateClientRepayment(ctx context.Context, tx usecase.Transaction, r *domain.ClientDebtRepayment) error {
	if m.CreateClientRepaymentFunc != nil {
		return m.CreateClientRepaymentFunc(ctx, tx, r)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clientRepayments[r.ID] = r
	return nil
}

func (m *MockRepaymentRepository) GetClientRepayment(ctx context.Context, id string) (*domain.ClientDebtRepayment, error) {
	if m.GetClientRepaymentFunc != nil {
		return m.GetClientRepaymentFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.clientRepayments[id]; ok {
		return r, nil
	}
	return nil, domain.ErrRepaymentNotFound
}

func (m *MockRepaymentRepository) UpdateClientRepaymentComment(ctx context.Context, id, comment string) error {
	if m.UpdateClientRepaymentCommentFunc != nil {
		return m.UpdateClientRepaymentCommentFunc(ctx, id, comment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.clientRepayments[id]; ok {
		r.Comment = comment
		return nil
	}
	return domain.ErrRepaymentNotFound
}

func (m *MockRepaymentRepository) CreateInvestorOperation(ctx context.Context, tx usecase.Transaction, op *domain.InvestorDebtOperation) error {
	if m.CreateInvestorOperationFunc != nil {
		return m.CreateInvestorOperationFunc(ctx, tx, op)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.investorOps[op.ID] = op
	return nil
}

func (m *MockRepaymentRepository) ListInvestorOperations(ctx context.Context, investorID string) ([]*domain.InvestorDebtOperation, error) {
	if m.ListInvestorOperationsFunc != nil {
		return m.ListInvestorOperationsFunc(ctx, investorID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ops []*domain.InvestorDebtOperation
	for _, op := range m.investorOps {
		if op.InvestorID == investorID {
			ops = append(ops, op)
		}
	}
	return ops, nil
}

// MockCapitalRepository is a mock implementation of CapitalRepository.
type MockCapitalRepository struct {
	mu      sync.RWMutex
	items   map[string]*domain.BalanceItem
	monthly map[string]*domain.MonthlyCapital

	SumBalanceItemsFunc   func(ctx context.Context, name string, before *time.Time) (decimal.Decimal, error)
	UpsertBalanceItemFunc func(ctx context.Context, item *domain.BalanceItem) error
	UpsertMonthlyFunc     func(ctx context.Context, tx usecase.Transaction, mc *domain.MonthlyCapital) error
	GetMonthlyFunc        func(ctx context.Context, year, month int) (*domain.MonthlyCapital, error)
}

func NewMockCapitalRepository() *MockCapitalRepository {
	return &MockCapitalRepository{
		items:   make(map[string]*domain.BalanceItem),
		monthly: make(map[string]*domain.MonthlyCapital),
	}
}

func monthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

func (m *MockCapitalRepository) SumBalanceItems(ctx context.Context, name string, before *time.Time) (decimal.Decimal, error) {
	if m.SumBalanceItemsFunc != nil {
		return m.SumBalanceItemsFunc(ctx, name, before)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, item := range m.items {
		if item.Name != name {
			continue
		}
		if before != nil && item.CreatedAt.After(*before) {
			continue
		}
		sum = sum.Add(item.Amount)
	}
	return sum, nil
}

func (m *MockCapitalRepository) UpsertBalanceItem(ctx context.Context, item *domain.BalanceItem) error {
	if m.UpsertBalanceItemFunc != nil {
		return m.UpsertBalanceItemFunc(ctx, item)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, existing := range m.items {
		if existing.Name == item.Name {
			delete(m.items, id)
		}
	}
	m.items[item.ID] = item
	return nil
}

func (m *MockCapitalRepository) UpsertMonthly(ctx context.Context, tx usecase.Transaction, mc *domain.MonthlyCapital) error {
	if m.UpsertMonthlyFunc != nil {
		return m.UpsertMonthlyFunc(ctx, tx, mc)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.monthly[monthKey(mc.Year, mc.Month)] = mc
	return nil
}

func (m *MockCapitalRepository) GetMonthly(ctx context.Context, year, month int) (*domain.MonthlyCapital, error) {
	if m.GetMonthlyFunc != nil {
		return m.GetMonthlyFunc(ctx, year, month)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if mc, ok := m.monthly[monthKey(year, month)]; ok {
		return mc, nil
	}
	return nil, domain.ErrSnapshotNotFound
}

// MonthlyCount reports how many snapshot rows exist.
func (m *MockCapitalRepository) MonthlyCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.monthly)
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string][]byte),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[key], nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}
