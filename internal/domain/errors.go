package domain

import "errors"

var (
	// Validation errors
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidPercentage = errors.New("percentage must be between 0 and 100")
	ErrInvalidOperation  = errors.New("unknown investor operation type")

	// Balance errors
	ErrInsufficientFunds = errors.New("insufficient funds")

	// Settlement errors
	ErrDebtCeilingExceeded = errors.New("amount exceeds outstanding debt")
	ErrOverpayment         = errors.New("payment exceeds deal amount")

	// Posting errors
	ErrPurposeImmutable = errors.New("purpose of an income posting cannot be changed")
	ErrTransferLeg      = errors.New("posting belongs to a transfer and must be changed through it")

	// Transfer errors
	ErrSameTarget        = errors.New("cannot transfer to the same account and supplier")
	ErrTransferCompleted = errors.New("transfer is completed and cannot be changed")

	// Configuration errors
	ErrConfigMissing    = errors.New("required account or payment purpose is not configured")
	ErrNoDefaultAccount = errors.New("supplier has no default account")

	// Not-found errors
	ErrAccountNotFound   = errors.New("account not found")
	ErrSupplierNotFound  = errors.New("supplier not found")
	ErrBranchNotFound    = errors.New("branch not found")
	ErrDealNotFound      = errors.New("deal not found")
	ErrCashFlowNotFound  = errors.New("cash flow not found")
	ErrTransferNotFound  = errors.New("transfer not found")
	ErrInvestorNotFound  = errors.New("investor not found")
	ErrPurposeNotFound   = errors.New("payment purpose not found")
	ErrRepaymentNotFound = errors.New("repayment not found")
	ErrSnapshotNotFound  = errors.New("monthly capital snapshot not found")
)
