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

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	pool *pgxpool.Pool
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(pool *pgxpool.Pool) *TransferRepository {
	return &TransferRepository{pool: pool}
}

const transferColumns = `id, source_account_id, source_supplier_id, destination_account_id,
		destination_supplier_id, amount, comment, completed, created_at`

// Create writes a transfer within the transaction that posted its legs.
func (r *TransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.MoneyTransfer) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO money_transfers (id, source_account_id, source_supplier_id,
			destination_account_id, destination_supplier_id, amount, comment, completed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		transfer.ID,
		transfer.SourceAccountID,
		textOrNull(transfer.SourceSupplierID),
		transfer.DestinationAccountID,
		textOrNull(transfer.DestinationSupplierID),
		decimalToNumeric(transfer.Amount),
		transfer.Comment,
		transfer.Completed,
		timeToPgTimestamptz(transfer.CreatedAt),
	)

	return err
}

// GetByID retrieves a transfer by ID.
func (r *TransferRepository) GetByID(ctx context.Context, id string) (*domain.MoneyTransfer, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+transferColumns+` FROM money_transfers WHERE id = $1`, id)

	return scanTransfer(row)
}

// GetByIDForUpdate retrieves a transfer by ID with a FOR UPDATE lock.
func (r *TransferRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.MoneyTransfer, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `
		SELECT `+transferColumns+` FROM money_transfers WHERE id = $1 FOR UPDATE`, id)

	return scanTransfer(row)
}

// Update rewrites a transfer after an edit.
func (r *TransferRepository) Update(ctx context.Context, tx usecase.Transaction, transfer *domain.MoneyTransfer) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE money_transfers SET
			source_account_id = $2,
			source_supplier_id = $3,
			destination_account_id = $4,
			destination_supplier_id = $5,
			amount = $6,
			comment = $7,
			completed = $8
		WHERE id = $1`,
		transfer.ID,
		transfer.SourceAccountID,
		textOrNull(transfer.SourceSupplierID),
		transfer.DestinationAccountID,
		textOrNull(transfer.DestinationSupplierID),
		decimalToNumeric(transfer.Amount),
		transfer.Comment,
		transfer.Completed,
	)

	return err
}

// Delete removes a transfer.
func (r *TransferRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `DELETE FROM money_transfers WHERE id = $1`, id)

	return err
}

// List lists transfers with pagination, newest first.
func (r *TransferRepository) List(ctx context.Context, limit, offset int) ([]*domain.MoneyTransfer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transferColumns+` FROM money_transfers
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transfers := make([]*domain.MoneyTransfer, 0)
	for rows.Next() {
		transfer, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, transfer)
	}

	return transfers, rows.Err()
}

func scanTransfer(row pgx.Row) (*domain.MoneyTransfer, error) {
	var (
		transfer            domain.MoneyTransfer
		sourceSupplier      pgtype.Text
		destinationSupplier pgtype.Text
		amount              pgtype.Numeric
		createdAt           pgtype.Timestamptz
	)

	err := row.Scan(
		&transfer.ID, &transfer.SourceAccountID, &sourceSupplier,
		&transfer.DestinationAccountID, &destinationSupplier,
		&amount, &transfer.Comment, &transfer.Completed, &createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransferNotFound
		}

		return nil, err
	}

	transfer.SourceSupplierID = sourceSupplier.String
	transfer.DestinationSupplierID = destinationSupplier.String
	transfer.Amount = numericToDecimal(amount)
	transfer.CreatedAt = createdAt.Time

	return &transfer, nil
}
