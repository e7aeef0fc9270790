package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ivlev/dealbook/internal/domain"
	"github.com/ivlev/dealbook/internal/usecase"
)

// CashFlowRepository implements usecase.CashFlowRepository.
type CashFlowRepository struct {
	pool *pgxpool.Pool
}

// NewCashFlowRepository creates a new CashFlowRepository.
func NewCashFlowRepository(pool *pgxpool.Pool) *CashFlowRepository {
	return &CashFlowRepository{pool: pool}
}

const cashFlowColumns = `id, account_id, supplier_id, amount, purpose_id, deal_id,
		transfer_id, returned_to_investor, comment, created_at, created_by`

// Create writes a posting within the transaction that mutated the balances
// it is backing.
func (r *CashFlowRepository) Create(ctx context.Context, tx usecase.Transaction, cf *domain.CashFlow) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO cash_flows (id, account_id, supplier_id, amount, purpose_id, deal_id,
			transfer_id, returned_to_investor, comment, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		cf.ID,
		cf.AccountID,
		textOrNull(cf.SupplierID),
		decimalToNumeric(cf.Amount),
		cf.PurposeID,
		textOrNull(cf.DealID),
		textOrNull(cf.TransferID),
		decimalToNumeric(cf.ReturnedToInvestor),
		cf.Comment,
		timeToPgTimestamptz(cf.CreatedAt),
		cf.CreatedBy,
	)

	return err
}

// GetByID retrieves a posting by ID.
func (r *CashFlowRepository) GetByID(ctx context.Context, id string) (*domain.CashFlow, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+cashFlowColumns+` FROM cash_flows WHERE id = $1`, id)

	return scanCashFlow(row)
}

// GetByIDForUpdate retrieves a posting by ID with a FOR UPDATE lock.
func (r *CashFlowRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.CashFlow, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `
		SELECT `+cashFlowColumns+` FROM cash_flows WHERE id = $1 FOR UPDATE`, id)

	return scanCashFlow(row)
}

// Update rewrites a posting after an edit.
func (r *CashFlowRepository) Update(ctx context.Context, tx usecase.Transaction, cf *domain.CashFlow) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE cash_flows SET
			account_id = $2,
			supplier_id = $3,
			amount = $4,
			purpose_id = $5,
			deal_id = $6,
			returned_to_investor = $7,
			comment = $8
		WHERE id = $1`,
		cf.ID,
		cf.AccountID,
		textOrNull(cf.SupplierID),
		decimalToNumeric(cf.Amount),
		cf.PurposeID,
		textOrNull(cf.DealID),
		decimalToNumeric(cf.ReturnedToInvestor),
		cf.Comment,
	)

	return err
}

// Delete removes a posting.
func (r *CashFlowRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `DELETE FROM cash_flows WHERE id = $1`, id)

	return err
}

// DeleteByTransfer removes both legs of a transfer.
func (r *CashFlowRepository) DeleteByTransfer(ctx context.Context, tx usecase.Transaction, transferID string) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `DELETE FROM cash_flows WHERE transfer_id = $1`, transferID)

	return err
}

// ListByAccount lists an account's postings, newest first.
func (r *CashFlowRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.CashFlow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+cashFlowColumns+` FROM cash_flows
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCashFlows(rows)
}

// ListByTransfer lists the legs of one transfer.
func (r *CashFlowRepository) ListByTransfer(ctx context.Context, transferID string) ([]*domain.CashFlow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+cashFlowColumns+` FROM cash_flows
		WHERE transfer_id = $1
		ORDER BY amount, id`, transferID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCashFlows(rows)
}

// SumByAccount recomputes an account balance from its live postings.
func (r *CashFlowRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	var sum pgtype.Numeric

	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM cash_flows
		WHERE account_id = $1`, accountID).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

// SumByPair recomputes a supplier sub-balance from its live postings.
func (r *CashFlowRepository) SumByPair(ctx context.Context, supplierID, accountID string) (decimal.Decimal, error) {
	var sum pgtype.Numeric

	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM cash_flows
		WHERE supplier_id = $1 AND account_id = $2`, supplierID, accountID).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

func scanCashFlow(row pgx.Row) (*domain.CashFlow, error) {
	var (
		cf                 domain.CashFlow
		supplierID         pgtype.Text
		amount             pgtype.Numeric
		dealID             pgtype.Text
		transferID         pgtype.Text
		returnedToInvestor pgtype.Numeric
		createdAt          pgtype.Timestamptz
	)

	err := row.Scan(
		&cf.ID, &cf.AccountID, &supplierID, &amount, &cf.PurposeID, &dealID,
		&transferID, &returnedToInvestor, &cf.Comment, &createdAt, &cf.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCashFlowNotFound
		}

		return nil, err
	}

	cf.SupplierID = supplierID.String
	cf.Amount = numericToDecimal(amount)
	cf.DealID = dealID.String
	cf.TransferID = transferID.String
	cf.ReturnedToInvestor = numericToDecimal(returnedToInvestor)
	cf.CreatedAt = createdAt.Time

	return &cf, nil
}

func collectCashFlows(rows pgx.Rows) ([]*domain.CashFlow, error) {
	flows := make([]*domain.CashFlow, 0)
	for rows.Next() {
		cf, err := scanCashFlow(rows)
		if err != nil {
			return nil, err
		}
		flows = append(flows, cf)
	}

	return flows, rows.Err()
}
