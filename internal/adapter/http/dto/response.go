package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ivlev/dealbook/internal/domain"
	"github.com/ivlev/dealbook/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	AccountType string          `json:"account_type"`
	Balance     decimal.Decimal `json:"balance"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:          a.ID,
		Name:        a.Name,
		AccountType: a.AccountType,
		Balance:     a.Balance,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// InvestorResponse represents an investor in API responses.
type InvestorResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

// InvestorFromDomain converts a domain investor to a response.
func InvestorFromDomain(i *domain.Investor) *InvestorResponse {
	return &InvestorResponse{
		ID:        i.ID,
		Name:      i.Name,
		Balance:   i.Balance,
		CreatedAt: i.CreatedAt,
	}
}

// InvestorsFromDomain converts domain investors to responses.
func InvestorsFromDomain(investors []*domain.Investor) []*InvestorResponse {
	result := make([]*InvestorResponse, len(investors))
	for i, inv := range investors {
		result[i] = InvestorFromDomain(inv)
	}
	return result
}

// DealResponse represents a deal with its derived debts.
type DealResponse struct {
	ID                 string          `json:"id"`
	ClientID           string          `json:"client_id,omitempty"`
	SupplierID         string          `json:"supplier_id"`
	Amount             decimal.Decimal `json:"amount"`
	ClientPercentage   decimal.Decimal `json:"client_percentage"`
	BonusPercentage    decimal.Decimal `json:"bonus_percentage"`
	SupplierPercentage decimal.Decimal `json:"supplier_percentage"`
	PaidAmount         decimal.Decimal `json:"paid_amount"`
	Documents          bool            `json:"documents"`
	Debts              DebtsResponse   `json:"debts"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	ReturnedAt         *time.Time      `json:"returned_at,omitempty"`
}

// DebtsResponse carries the derived debt buckets of a deal.
type DebtsResponse struct {
	SupplierDebt   decimal.Decimal `json:"supplier_debt"`
	ClientDebt     decimal.Decimal `json:"client_debt"`
	ClientDebtPaid decimal.Decimal `json:"client_debt_paid"`
	BonusDebt      decimal.Decimal `json:"bonus_debt"`
	InvestorDebt   decimal.Decimal `json:"investor_debt"`
	Profit         decimal.Decimal `json:"profit"`
}

// DebtsFromDomain converts derived debts to a response.
func DebtsFromDomain(d domain.Debts) DebtsResponse {
	return DebtsResponse{
		SupplierDebt:   d.SupplierDebt,
		ClientDebt:     d.ClientDebt,
		ClientDebtPaid: d.ClientDebtPaid,
		BonusDebt:      d.BonusDebt,
		InvestorDebt:   d.InvestorDebt,
		Profit:         d.Profit,
	}
}

// DealFromDomain converts a domain deal to a response.
func DealFromDomain(d *domain.Deal) *DealResponse {
	return &DealResponse{
		ID:                 d.ID,
		ClientID:           d.ClientID,
		SupplierID:         d.SupplierID,
		Amount:             d.Amount,
		ClientPercentage:   d.ClientPercentage,
		BonusPercentage:    d.BonusPercentage,
		SupplierPercentage: d.SupplierPercentage,
		PaidAmount:         d.PaidAmount,
		Documents:          d.Documents,
		Debts:              DebtsFromDomain(d.DeriveDebts()),
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
		ReturnedAt:         d.ReturnedAt,
	}
}

// DealsFromDomain converts domain deals to responses.
func DealsFromDomain(deals []*domain.Deal) []*DealResponse {
	result := make([]*DealResponse, len(deals))
	for i, d := range deals {
		result[i] = DealFromDomain(d)
	}
	return result
}

// ListDealsResponse wraps a page of deals.
type ListDealsResponse struct {
	Deals []*DealResponse `json:"deals"`
	Total int64           `json:"total"`
}

// RecordPaymentResponse reports the outcome of setting a paid amount.
type RecordPaymentResponse struct {
	Deal     *DealResponse     `json:"deal"`
	Delta    decimal.Decimal   `json:"delta"`
	CashFlow *CashFlowResponse `json:"cash_flow,omitempty"`
}

// RecordPaymentFromResult converts a use case result to a response.
func RecordPaymentFromResult(r *usecase.RecordPaymentResult) *RecordPaymentResponse {
	resp := &RecordPaymentResponse{
		Deal:  DealFromDomain(r.Deal),
		Delta: r.Delta,
	}
	if r.CashFlow != nil {
		resp.CashFlow = CashFlowFromDomain(r.CashFlow)
	}
	return resp
}

// CashFlowResponse represents a posting in API responses.
type CashFlowResponse struct {
	ID         string          `json:"id"`
	AccountID  string          `json:"account_id"`
	SupplierID string          `json:"supplier_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	PurposeID  string          `json:"purpose_id"`
	DealID     string          `json:"deal_id,omitempty"`
	TransferID string          `json:"transfer_id,omitempty"`
	Comment    string          `json:"comment,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	CreatedBy  string          `json:"created_by,omitempty"`
}

// CashFlowFromDomain converts a domain posting to a response.
func CashFlowFromDomain(cf *domain.CashFlow) *CashFlowResponse {
	return &CashFlowResponse{
		ID:         cf.ID,
		AccountID:  cf.AccountID,
		SupplierID: cf.SupplierID,
		Amount:     cf.Amount,
		PurposeID:  cf.PurposeID,
		DealID:     cf.DealID,
		TransferID: cf.TransferID,
		Comment:    cf.Comment,
		CreatedAt:  cf.CreatedAt,
		CreatedBy:  cf.CreatedBy,
	}
}

// CashFlowsFromDomain converts domain postings to responses.
func CashFlowsFromDomain(flows []*domain.CashFlow) []*CashFlowResponse {
	result := make([]*CashFlowResponse, len(flows))
	for i, cf := range flows {
		result[i] = CashFlowFromDomain(cf)
	}
	return result
}

// ListCashFlowsResponse wraps a page of postings.
type ListCashFlowsResponse struct {
	CashFlows []*CashFlowResponse `json:"cash_flows"`
	Total     int64               `json:"total"`
}

// TransferResponse represents a transfer in API responses.
type TransferResponse struct {
	ID                    string          `json:"id"`
	SourceAccountID       string          `json:"source_account_id"`
	SourceSupplierID      string          `json:"source_supplier_id,omitempty"`
	DestinationAccountID  string          `json:"destination_account_id"`
	DestinationSupplierID string          `json:"destination_supplier_id,omitempty"`
	Amount                decimal.Decimal `json:"amount"`
	Comment               string          `json:"comment,omitempty"`
	Completed             bool            `json:"completed"`
	CreatedAt             time.Time       `json:"created_at"`
}

// TransferFromDomain converts a domain transfer to a response.
func TransferFromDomain(t *domain.MoneyTransfer) *TransferResponse {
	return &TransferResponse{
		ID:                    t.ID,
		SourceAccountID:       t.SourceAccountID,
		SourceSupplierID:      t.SourceSupplierID,
		DestinationAccountID:  t.DestinationAccountID,
		DestinationSupplierID: t.DestinationSupplierID,
		Amount:                t.Amount,
		Comment:               t.Comment,
		Completed:             t.Completed,
		CreatedAt:             t.CreatedAt,
	}
}

// TransfersFromDomain converts domain transfers to responses.
func TransfersFromDomain(transfers []*domain.MoneyTransfer) []*TransferResponse {
	result := make([]*TransferResponse, len(transfers))
	for i, t := range transfers {
		result[i] = TransferFromDomain(t)
	}
	return result
}

// ListTransfersResponse wraps a page of transfers.
type ListTransfersResponse struct {
	Transfers []*TransferResponse `json:"transfers"`
	Total     int64               `json:"total"`
}

// AllocationResponse reports how much of a settlement one deal consumed.
type AllocationResponse struct {
	DealID    string          `json:"deal_id"`
	Amount    decimal.Decimal `json:"amount"`
	Remaining decimal.Decimal `json:"remaining"`
}

// AllocationsFromDomain converts debt allocations to responses.
func AllocationsFromDomain(allocations []domain.DebtAllocation) []AllocationResponse {
	result := make([]AllocationResponse, len(allocations))
	for i, a := range allocations {
		result[i] = AllocationResponse{
			DealID:    a.DealID,
			Amount:    a.Amount,
			Remaining: a.Remaining,
		}
	}
	return result
}

// SupplierRepaymentResponse represents a supplier settlement audit row.
type SupplierRepaymentResponse struct {
	ID         string          `json:"id"`
	SupplierID string          `json:"supplier_id,omitempty"`
	BranchID   string          `json:"branch_id,omitempty"`
	DealID     string          `json:"deal_id,omitempty"`
	CashFlowID string          `json:"cash_flow_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Comment    string          `json:"comment,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// SupplierRepaymentFromDomain converts a supplier settlement to a response.
func SupplierRepaymentFromDomain(r *domain.SupplierDebtRepayment) *SupplierRepaymentResponse {
	return &SupplierRepaymentResponse{
		ID:         r.ID,
		SupplierID: r.SupplierID,
		BranchID:   r.BranchID,
		DealID:     r.DealID,
		CashFlowID: r.CashFlowID,
		Amount:     r.Amount,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

// SupplierRepaymentsFromDomain converts supplier settlements to responses.
func SupplierRepaymentsFromDomain(repayments []*domain.SupplierDebtRepayment) []*SupplierRepaymentResponse {
	result := make([]*SupplierRepaymentResponse, len(repayments))
	for i, r := range repayments {
		result[i] = SupplierRepaymentFromDomain(r)
	}
	return result
}

// RepaySupplierDebtResponse reports a supplier settlement with its FIFO
// allocations.
type RepaySupplierDebtResponse struct {
	Repayment   *SupplierRepaymentResponse `json:"repayment"`
	CashFlow    *CashFlowResponse          `json:"cash_flow"`
	Allocations []AllocationResponse       `json:"allocations,omitempty"`
}

// RepaySupplierDebtFromResult converts a use case result to a response.
func RepaySupplierDebtFromResult(r *usecase.RepaySupplierDebtResult) *RepaySupplierDebtResponse {
	return &RepaySupplierDebtResponse{
		Repayment:   SupplierRepaymentFromDomain(r.Repayment),
		CashFlow:    CashFlowFromDomain(r.CashFlow),
		Allocations: AllocationsFromDomain(r.Allocations),
	}
}

// ClientRepaymentResponse represents a client settlement audit row.
type ClientRepaymentResponse struct {
	ID         string          `json:"id"`
	ClientID   string          `json:"client_id,omitempty"`
	DealID     string          `json:"deal_id"`
	CashFlowID string          `json:"cash_flow_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Comment    string          `json:"comment,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// RepayClientDebtResponse reports a client settlement with its posting.
type RepayClientDebtResponse struct {
	Repayment *ClientRepaymentResponse `json:"repayment"`
	CashFlow  *CashFlowResponse        `json:"cash_flow"`
}

// RepayClientDebtFromResult converts a use case result to a response.
func RepayClientDebtFromResult(r *usecase.RepayClientDebtResult) *RepayClientDebtResponse {
	return &RepayClientDebtResponse{
		Repayment: &ClientRepaymentResponse{
			ID:         r.Repayment.ID,
			ClientID:   r.Repayment.ClientID,
			DealID:     r.Repayment.DealID,
			CashFlowID: r.Repayment.CashFlowID,
			Amount:     r.Repayment.Amount,
			Comment:    r.Repayment.Comment,
			CreatedAt:  r.Repayment.CreatedAt,
		},
		CashFlow: CashFlowFromDomain(r.CashFlow),
	}
}

// InvestorOperationResponse represents an investor balance change.
type InvestorOperationResponse struct {
	ID            string          `json:"id"`
	InvestorID    string          `json:"investor_id"`
	OperationType string          `json:"operation_type"`
	Amount        decimal.Decimal `json:"amount"`
	CreatedAt     time.Time       `json:"created_at"`
}

// InvestorOperationFromDomain converts an investor operation to a response.
func InvestorOperationFromDomain(op *domain.InvestorDebtOperation) *InvestorOperationResponse {
	return &InvestorOperationResponse{
		ID:            op.ID,
		InvestorID:    op.InvestorID,
		OperationType: op.OperationType,
		Amount:        op.Amount,
		CreatedAt:     op.CreatedAt,
	}
}

// InvestorOperationsFromDomain converts investor operations to responses.
func InvestorOperationsFromDomain(ops []*domain.InvestorDebtOperation) []*InvestorOperationResponse {
	result := make([]*InvestorOperationResponse, len(ops))
	for i, op := range ops {
		result[i] = InvestorOperationFromDomain(op)
	}
	return result
}

// SupplierLedgerResponse lists every (supplier, account) sub-balance.
type SupplierLedgerResponse struct {
	Rows []SupplierLedgerRowResponse `json:"rows"`
}

// SupplierLedgerRowResponse is one sub-balance row.
type SupplierLedgerRowResponse struct {
	SupplierID   string          `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	AccountID    string          `json:"account_id"`
	Balance      decimal.Decimal `json:"balance"`
}

// SupplierLedgerFromRows converts supplier ledger rows to a response.
func SupplierLedgerFromRows(rows []usecase.SupplierLedgerRow) *SupplierLedgerResponse {
	resp := &SupplierLedgerResponse{Rows: make([]SupplierLedgerRowResponse, len(rows))}
	for i, row := range rows {
		resp.Rows[i] = SupplierLedgerRowResponse{
			SupplierID:   row.SupplierID,
			SupplierName: row.SupplierName,
			AccountID:    row.AccountID,
			Balance:      row.Balance,
		}
	}
	return resp
}

// BalanceLineResponse is one named amount on the balance sheet.
type BalanceLineResponse struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// BalanceSheetResponse represents the point-in-time capital report.
type BalanceSheetResponse struct {
	FixedAssets      decimal.Decimal       `json:"fixed_assets"`
	Inventory        decimal.Decimal       `json:"inventory"`
	DebtorsByBranch  []BalanceLineResponse `json:"debtors_by_branch"`
	DebtorsTotal     decimal.Decimal       `json:"debtors_total"`
	CashLines        []BalanceLineResponse `json:"cash_lines"`
	CashTotal        decimal.Decimal       `json:"cash_total"`
	Assets           decimal.Decimal       `json:"assets"`
	LiabilityLines   []BalanceLineResponse `json:"liability_lines"`
	LiabilitiesTotal decimal.Decimal       `json:"liabilities_total"`
	Capital          decimal.Decimal       `json:"capital"`
	ComputedAt       time.Time             `json:"computed_at"`
}

func balanceLines(lines []domain.BalanceLine) []BalanceLineResponse {
	result := make([]BalanceLineResponse, len(lines))
	for i, l := range lines {
		result[i] = BalanceLineResponse{Name: l.Name, Amount: l.Amount}
	}
	return result
}

// BalanceSheetFromDomain converts a balance sheet to a response.
func BalanceSheetFromDomain(s *domain.BalanceSheet) *BalanceSheetResponse {
	return &BalanceSheetResponse{
		FixedAssets:      s.FixedAssets,
		Inventory:        s.Inventory,
		DebtorsByBranch:  balanceLines(s.DebtorsByBranch),
		DebtorsTotal:     s.DebtorsTotal,
		CashLines:        balanceLines(s.CashLines),
		CashTotal:        s.CashTotal,
		Assets:           s.Assets,
		LiabilityLines:   balanceLines(s.LiabilityLines),
		LiabilitiesTotal: s.LiabilitiesTotal,
		Capital:          s.Capital,
		ComputedAt:       s.ComputedAt,
	}
}

// MonthlyCapitalResponse represents a stored monthly snapshot.
type MonthlyCapitalResponse struct {
	Year          int              `json:"year"`
	Month         int              `json:"month"`
	Capital       decimal.Decimal  `json:"capital"`
	ReturnPercent *decimal.Decimal `json:"return_percent,omitempty"`
	CalculatedAt  time.Time        `json:"calculated_at"`
}

// MonthlyCapitalFromDomain converts a monthly snapshot to a response.
func MonthlyCapitalFromDomain(mc *domain.MonthlyCapital) *MonthlyCapitalResponse {
	return &MonthlyCapitalResponse{
		Year:         mc.Year,
		Month:        mc.Month,
		Capital:      mc.Capital,
		CalculatedAt: mc.CalculatedAt,
	}
}

// ConsistencyResponse reports the outcome of a balance consistency check.
type ConsistencyResponse struct {
	Consistent      bool               `json:"consistent"`
	AccountsChecked int                `json:"accounts_checked"`
	PairsChecked    int                `json:"pairs_checked"`
	Mismatches      []MismatchResponse `json:"mismatches,omitempty"`
}

// MismatchResponse is one stored-vs-computed balance divergence.
type MismatchResponse struct {
	AccountID  string          `json:"account_id"`
	SupplierID string          `json:"supplier_id,omitempty"`
	Stored     decimal.Decimal `json:"stored"`
	Computed   decimal.Decimal `json:"computed"`
}

// ConsistencyFromReport converts a consistency report to a response.
func ConsistencyFromReport(r *usecase.ConsistencyReport) *ConsistencyResponse {
	resp := &ConsistencyResponse{
		Consistent:      r.Consistent(),
		AccountsChecked: r.AccountsChecked,
		PairsChecked:    r.PairsChecked,
		Mismatches:      make([]MismatchResponse, len(r.Mismatches)),
	}
	for i, m := range r.Mismatches {
		resp.Mismatches[i] = MismatchResponse{
			AccountID:  m.AccountID,
			SupplierID: m.SupplierID,
			Stored:     m.Stored,
			Computed:   m.Computed,
		}
	}
	return resp
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
