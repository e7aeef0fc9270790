package dto

import (
	"github.com/shopspring/decimal"

	"github.com/ivlev/dealbook/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name        string `json:"name"`
	AccountType string `json:"account_type"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Name:        r.Name,
		AccountType: r.AccountType,
	}
}

// CreateInvestorRequest represents a request to create an investor.
type CreateInvestorRequest struct {
	Name string `json:"name"`
}

// CreateDealRequest represents a request to create a deal.
type CreateDealRequest struct {
	ClientID           string          `json:"client_id,omitempty"`
	SupplierID         string          `json:"supplier_id"`
	Amount             decimal.Decimal `json:"amount"`
	ClientPercentage   decimal.Decimal `json:"client_percentage"`
	BonusPercentage    decimal.Decimal `json:"bonus_percentage"`
	SupplierPercentage decimal.Decimal `json:"supplier_percentage"`
	Documents          bool            `json:"documents"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateDealRequest) ToUseCaseInput() usecase.CreateDealInput {
	return usecase.CreateDealInput{
		ClientID:           r.ClientID,
		SupplierID:         r.SupplierID,
		Amount:             r.Amount,
		ClientPercentage:   r.ClientPercentage,
		BonusPercentage:    r.BonusPercentage,
		SupplierPercentage: r.SupplierPercentage,
		Documents:          r.Documents,
	}
}

// UpdateDealRequest represents a request to change a deal's terms.
type UpdateDealRequest struct {
	Amount             decimal.Decimal `json:"amount"`
	ClientPercentage   decimal.Decimal `json:"client_percentage"`
	BonusPercentage    decimal.Decimal `json:"bonus_percentage"`
	SupplierPercentage decimal.Decimal `json:"supplier_percentage"`
	Documents          bool            `json:"documents"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateDealRequest) ToUseCaseInput(id string) usecase.UpdateDealInput {
	return usecase.UpdateDealInput{
		ID:                 id,
		Amount:             r.Amount,
		ClientPercentage:   r.ClientPercentage,
		BonusPercentage:    r.BonusPercentage,
		SupplierPercentage: r.SupplierPercentage,
		Documents:          r.Documents,
	}
}

// RecordPaymentRequest sets a deal's paid amount.
type RecordPaymentRequest struct {
	PaidAmount decimal.Decimal `json:"paid_amount"`
}

// CreateCashFlowRequest represents a request to create a posting.
type CreateCashFlowRequest struct {
	AccountID  string          `json:"account_id"`
	SupplierID string          `json:"supplier_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	PurposeID  string          `json:"purpose_id"`
	DealID     string          `json:"deal_id,omitempty"`
	Comment    string          `json:"comment,omitempty"`
	CreatedBy  string          `json:"created_by,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCashFlowRequest) ToUseCaseInput() usecase.CreateCashFlowInput {
	return usecase.CreateCashFlowInput{
		AccountID:  r.AccountID,
		SupplierID: r.SupplierID,
		Amount:     r.Amount,
		PurposeID:  r.PurposeID,
		DealID:     r.DealID,
		Comment:    r.Comment,
		CreatedBy:  r.CreatedBy,
	}
}

// EditCashFlowRequest represents a request to edit a posting.
type EditCashFlowRequest struct {
	AccountID  string          `json:"account_id"`
	SupplierID string          `json:"supplier_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	PurposeID  string          `json:"purpose_id"`
	Comment    string          `json:"comment,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *EditCashFlowRequest) ToUseCaseInput(id string) usecase.EditCashFlowInput {
	return usecase.EditCashFlowInput{
		ID:         id,
		AccountID:  r.AccountID,
		SupplierID: r.SupplierID,
		Amount:     r.Amount,
		PurposeID:  r.PurposeID,
		Comment:    r.Comment,
	}
}

// CreateTransferRequest represents a request to create a transfer.
type CreateTransferRequest struct {
	SourceAccountID       string          `json:"source_account_id"`
	SourceSupplierID      string          `json:"source_supplier_id,omitempty"`
	DestinationAccountID  string          `json:"destination_account_id"`
	DestinationSupplierID string          `json:"destination_supplier_id,omitempty"`
	Amount                decimal.Decimal `json:"amount"`
	Comment               string          `json:"comment,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransferRequest) ToUseCaseInput() usecase.CreateTransferInput {
	return usecase.CreateTransferInput{
		SourceAccountID:       r.SourceAccountID,
		SourceSupplierID:      r.SourceSupplierID,
		DestinationAccountID:  r.DestinationAccountID,
		DestinationSupplierID: r.DestinationSupplierID,
		Amount:                r.Amount,
		Comment:               r.Comment,
	}
}

// EditTransferRequest represents a request to edit a transfer.
type EditTransferRequest struct {
	SourceAccountID       string          `json:"source_account_id"`
	SourceSupplierID      string          `json:"source_supplier_id,omitempty"`
	DestinationAccountID  string          `json:"destination_account_id"`
	DestinationSupplierID string          `json:"destination_supplier_id,omitempty"`
	Amount                decimal.Decimal `json:"amount"`
	Comment               string          `json:"comment,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *EditTransferRequest) ToUseCaseInput(id string) usecase.EditTransferInput {
	return usecase.EditTransferInput{
		ID:                    id,
		SourceAccountID:       r.SourceAccountID,
		SourceSupplierID:      r.SourceSupplierID,
		DestinationAccountID:  r.DestinationAccountID,
		DestinationSupplierID: r.DestinationSupplierID,
		Amount:                r.Amount,
		Comment:               r.Comment,
	}
}

// CollectRequest pulls a supplier's sub-balance into the cash account.
type CollectRequest struct {
	SupplierID string          `json:"supplier_id"`
	AccountID  string          `json:"account_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// RepaySupplierDebtRequest settles supplier debt for one deal or a branch.
type RepaySupplierDebtRequest struct {
	DealID   string          `json:"deal_id,omitempty"`
	BranchID string          `json:"branch_id,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
	Comment  string          `json:"comment,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RepaySupplierDebtRequest) ToUseCaseInput() usecase.RepaySupplierDebtInput {
	return usecase.RepaySupplierDebtInput{
		DealID:   r.DealID,
		BranchID: r.BranchID,
		Amount:   r.Amount,
		Comment:  r.Comment,
	}
}

// RepayClientDebtRequest settles client debt for one deal.
type RepayClientDebtRequest struct {
	DealID  string          `json:"deal_id"`
	Amount  decimal.Decimal `json:"amount"`
	Comment string          `json:"comment,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RepayClientDebtRequest) ToUseCaseInput() usecase.RepayClientDebtInput {
	return usecase.RepayClientDebtInput{
		DealID:  r.DealID,
		Amount:  r.Amount,
		Comment: r.Comment,
	}
}

// RepayBonusDebtRequest settles bonus debt for one deal.
type RepayBonusDebtRequest struct {
	DealID string          `json:"deal_id"`
	Amount decimal.Decimal `json:"amount"`
}

// InvestorOperationRequest applies a deposit, withdrawal or profit
// recognition to an investor.
type InvestorOperationRequest struct {
	OperationType string          `json:"operation_type"`
	Amount        decimal.Decimal `json:"amount"`
	AccountID     string          `json:"account_id,omitempty"`
	SupplierID    string          `json:"supplier_id,omitempty"`
	DealID        string          `json:"deal_id,omitempty"`
	CashFlowID    string          `json:"cash_flow_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *InvestorOperationRequest) ToUseCaseInput(investorID string) usecase.InvestorOperationInput {
	return usecase.InvestorOperationInput{
		InvestorID:    investorID,
		OperationType: r.OperationType,
		Amount:        r.Amount,
		AccountID:     r.AccountID,
		SupplierID:    r.SupplierID,
		DealID:        r.DealID,
		CashFlowID:    r.CashFlowID,
	}
}

// CloseInvestorDebtRequest recognizes profit across paid deals, oldest first.
type CloseInvestorDebtRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// EditCommentRequest changes the free-form comment of a settlement record.
type EditCommentRequest struct {
	Comment string `json:"comment"`
}

// SetBalanceItemRequest records a manual balance-sheet input.
type SetBalanceItemRequest struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}
