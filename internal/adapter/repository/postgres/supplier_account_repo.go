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

// SupplierAccountRepository implements usecase.SupplierAccountRepository.
type SupplierAccountRepository struct {
	pool  *pgxpool.Pool
	idGen usecase.IDGenerator
}

// NewSupplierAccountRepository creates a new SupplierAccountRepository.
func NewSupplierAccountRepository(pool *pgxpool.Pool, idGen usecase.IDGenerator) *SupplierAccountRepository {
	return &SupplierAccountRepository{pool: pool, idGen: idGen}
}

const supplierAccountColumns = `id, supplier_id, account_id, balance`

// GetOrCreateForUpdate locks the (supplier, account) row, inserting a zero
// balance row first if none exists. The insert tolerates a concurrent
// creation via ON CONFLICT so the subsequent lock always finds the row.
func (r *SupplierAccountRepository) GetOrCreateForUpdate(ctx context.Context, tx usecase.Transaction, supplierID, accountID string) (*domain.SupplierAccount, error) {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO supplier_accounts (id, supplier_id, account_id, balance)
		VALUES ($1, $2, $3, 0)
		ON CONFLICT (supplier_id, account_id) DO NOTHING`,
		r.idGen.Generate(), supplierID, accountID)
	if err != nil {
		return nil, err
	}

	row := pgxTx.QueryRow(ctx, `
		SELECT `+supplierAccountColumns+` FROM supplier_accounts
		WHERE supplier_id = $1 AND account_id = $2
		FOR UPDATE`, supplierID, accountID)

	return scanSupplierAccount(row)
}

// GetPair retrieves the sub-balance of one (supplier, account) pair.
func (r *SupplierAccountRepository) GetPair(ctx context.Context, supplierID, accountID string) (*domain.SupplierAccount, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+supplierAccountColumns+` FROM supplier_accounts
		WHERE supplier_id = $1 AND account_id = $2`, supplierID, accountID)

	return scanSupplierAccount(row)
}

// UpdateBalance updates one sub-balance row.
func (r *SupplierAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE supplier_accounts SET balance = $2 WHERE id = $1`,
		id, decimalToNumeric(balance))

	return err
}

// ListByAccount lists all supplier sub-balances within one account.
func (r *SupplierAccountRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.SupplierAccount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+supplierAccountColumns+` FROM supplier_accounts
		WHERE account_id = $1
		ORDER BY id`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSupplierAccounts(rows)
}

// List lists every supplier sub-balance.
func (r *SupplierAccountRepository) List(ctx context.Context) ([]*domain.SupplierAccount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+supplierAccountColumns+` FROM supplier_accounts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSupplierAccounts(rows)
}

// SumByAccount sums the supplier sub-balances within one account.
func (r *SupplierAccountRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	var sum pgtype.Numeric

	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(balance), 0) FROM supplier_accounts
		WHERE account_id = $1`, accountID).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

func scanSupplierAccount(row pgx.Row) (*domain.SupplierAccount, error) {
	var (
		sub     domain.SupplierAccount
		balance pgtype.Numeric
	)

	err := row.Scan(&sub.ID, &sub.SupplierID, &sub.AccountID, &balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	sub.Balance = numericToDecimal(balance)

	return &sub, nil
}

func collectSupplierAccounts(rows pgx.Rows) ([]*domain.SupplierAccount, error) {
	subs := make([]*domain.SupplierAccount, 0)
	for rows.Next() {
		sub, err := scanSupplierAccount(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}

	return subs, rows.Err()
}
