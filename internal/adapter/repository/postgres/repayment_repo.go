package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivlev/dealbook/internal/domain"
	"github.com/ivlev/dealbook/internal/usecase"
)

// RepaymentRepository implements usecase.RepaymentRepository.
type RepaymentRepository struct {
	pool *pgxpool.Pool
}

// NewRepaymentRepository creates a new RepaymentRepository.
func NewRepaymentRepository(pool *pgxpool.Pool) *RepaymentRepository {
	return &RepaymentRepository{pool: pool}
}

const supplierRepaymentColumns = `id, supplier_id, branch_id, deal_id, cash_flow_id, amount, comment, created_at`

// CreateSupplierRepayment writes a supplier settlement audit row.
func (r *RepaymentRepository) CreateSupplierRepayment(ctx context.Context, tx usecase.Transaction, rep *domain.SupplierDebtRepayment) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO supplier_debt_repayments (id, supplier_id, branch_id, deal_id, cash_flow_id, amount, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rep.ID,
		textOrNull(rep.SupplierID),
		textOrNull(rep.BranchID),
		textOrNull(rep.DealID),
		textOrNull(rep.CashFlowID),
		decimalToNumeric(rep.Amount),
		rep.Comment,
		timeToPgTimestamptz(rep.CreatedAt),
	)

	return err
}

// GetSupplierRepayment retrieves a supplier settlement by ID.
func (r *RepaymentRepository) GetSupplierRepayment(ctx context.Context, id string) (*domain.SupplierDebtRepayment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+supplierRepaymentColumns+` FROM supplier_debt_repayments WHERE id = $1`, id)

	return scanSupplierRepayment(row)
}

// UpdateSupplierRepaymentComment changes the free-form comment only.
func (r *RepaymentRepository) UpdateSupplierRepaymentComment(ctx context.Context, id, comment string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE supplier_debt_repayments SET comment = $2 WHERE id = $1`, id, comment)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRepaymentNotFound
	}

	return nil
}

// ListSupplierRepaymentsByBranch lists branch-wide settlements, newest first.
func (r *RepaymentRepository) ListSupplierRepaymentsByBranch(ctx context.Context, branchID string) ([]*domain.SupplierDebtRepayment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+supplierRepaymentColumns+` FROM supplier_debt_repayments
		WHERE branch_id = $1
		ORDER BY created_at DESC, id DESC`, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	repayments := make([]*domain.SupplierDebtRepayment, 0)
	for rows.Next() {
		rep, err := scanSupplierRepayment(rows)
		if err != nil {
			return nil, err
		}
		repayments = append(repayments, rep)
	}

	return repayments, rows.Err()
}

const clientRepaymentColumns = `id, client_id, deal_id, cash_flow_id, amount, comment, created_at`

// CreateClientRepayment writes a client settlement audit row.
func (r *RepaymentRepository) CreateClientRepayment(ctx context.Context, tx usecase.Transaction, rep *domain.ClientDebtRepayment) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO client_debt_repayments (id, client_id, deal_id, cash_flow_id, amount, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rep.ID,
		textOrNull(rep.ClientID),
		rep.DealID,
		textOrNull(rep.CashFlowID),
		decimalToNumeric(rep.Amount),
		rep.Comment,
		timeToPgTimestamptz(rep.CreatedAt),
	)

	return err
}

// GetClientRepayment retrieves a client settlement by ID.
func (r *RepaymentRepository) GetClientRepayment(ctx context.Context, id string) (*domain.ClientDebtRepayment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+clientRepaymentColumns+` FROM client_debt_repayments WHERE id = $1`, id)

	return scanClientRepayment(row)
}

// UpdateClientRepaymentComment changes the free-form comment only.
func (r *RepaymentRepository) UpdateClientRepaymentComment(ctx context.Context, id, comment string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE client_debt_repayments SET comment = $2 WHERE id = $1`, id, comment)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRepaymentNotFound
	}

	return nil
}

// CreateInvestorOperation appends an investor balance change record.
func (r *RepaymentRepository) CreateInvestorOperation(ctx context.Context, tx usecase.Transaction, op *domain.InvestorDebtOperation) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO investor_debt_operations (id, investor_id, operation_type, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		op.ID,
		op.InvestorID,
		op.OperationType,
		decimalToNumeric(op.Amount),
		timeToPgTimestamptz(op.CreatedAt),
	)

	return err
}

// ListInvestorOperations lists an investor's operations, newest first.
func (r *RepaymentRepository) ListInvestorOperations(ctx context.Context, investorID string) ([]*domain.InvestorDebtOperation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, investor_id, operation_type, amount, created_at
		FROM investor_debt_operations
		WHERE investor_id = $1
		ORDER BY created_at DESC, id DESC`, investorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ops := make([]*domain.InvestorDebtOperation, 0)
	for rows.Next() {
		var (
			op        domain.InvestorDebtOperation
			amount    pgtype.Numeric
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&op.ID, &op.InvestorID, &op.OperationType, &amount, &createdAt); err != nil {
			return nil, err
		}
		op.Amount = numericToDecimal(amount)
		op.CreatedAt = createdAt.Time
		ops = append(ops, &op)
	}

	return ops, rows.Err()
}

func scanSupplierRepayment(row pgx.Row) (*domain.SupplierDebtRepayment, error) {
	var (
		rep        domain.SupplierDebtRepayment
		supplierID pgtype.Text
		branchID   pgtype.Text
		dealID     pgtype.Text
		cashFlowID pgtype.Text
		amount     pgtype.Numeric
		createdAt  pgtype.Timestamptz
	)

	err := row.Scan(&rep.ID, &supplierID, &branchID, &dealID, &cashFlowID, &amount, &rep.Comment, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRepaymentNotFound
		}

		return nil, err
	}

	rep.SupplierID = supplierID.String
	rep.BranchID = branchID.String
	rep.DealID = dealID.String
	rep.CashFlowID = cashFlowID.String
	rep.Amount = numericToDecimal(amount)
	rep.CreatedAt = createdAt.Time

	return &rep, nil
}

func scanClientRepayment(row pgx.Row) (*domain.ClientDebtRepayment, error) {
	var (
		rep        domain.ClientDebtRepayment
		clientID   pgtype.Text
		cashFlowID pgtype.Text
		amount     pgtype.Numeric
		createdAt  pgtype.Timestamptz
	)

	err := row.Scan(&rep.ID, &clientID, &rep.DealID, &cashFlowID, &amount, &rep.Comment, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRepaymentNotFound
		}

		return nil, err
	}

	rep.ClientID = clientID.String
	rep.CashFlowID = cashFlowID.String
	rep.Amount = numericToDecimal(amount)
	rep.CreatedAt = createdAt.Time

	return &rep, nil
}
