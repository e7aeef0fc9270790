package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ivlev/dealbook/internal/domain"
	"github.com/ivlev/dealbook/internal/usecase"
)

// CapitalRepository implements usecase.CapitalRepository.
type CapitalRepository struct {
	pool *pgxpool.Pool
}

// NewCapitalRepository creates a new CapitalRepository.
func NewCapitalRepository(pool *pgxpool.Pool) *CapitalRepository {
	return &CapitalRepository{pool: pool}
}

// SumBalanceItems sums the manual balance-sheet inputs recorded under one
// name, optionally limited to those recorded at or before the cutoff.
func (r *CapitalRepository) SumBalanceItems(ctx context.Context, name string, before *time.Time) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM balance_items WHERE name = $1`
	args := []any{name}

	if before != nil {
		query += ` AND created_at <= $2`
		args = append(args, timeToPgTimestamptz(*before))
	}

	var sum pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&sum); err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

// UpsertBalanceItem records a manual balance-sheet input, replacing the
// previous value of the same name.
func (r *CapitalRepository) UpsertBalanceItem(ctx context.Context, item *domain.BalanceItem) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO balance_items (id, name, amount, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE SET
			amount = EXCLUDED.amount,
			created_at = EXCLUDED.created_at`,
		item.ID,
		item.Name,
		decimalToNumeric(item.Amount),
		timeToPgTimestamptz(item.CreatedAt),
	)

	return err
}

// UpsertMonthly stores a monthly capital snapshot. Re-running the snapshot
// for the same month overwrites the stored row.
func (r *CapitalRepository) UpsertMonthly(ctx context.Context, tx usecase.Transaction, mc *domain.MonthlyCapital) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO monthly_capitals (id, year, month, capital, calculated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (year, month) DO UPDATE SET
			capital = EXCLUDED.capital,
			calculated_at = EXCLUDED.calculated_at`,
		mc.ID,
		mc.Year,
		mc.Month,
		decimalToNumeric(mc.Capital),
		timeToPgTimestamptz(mc.CalculatedAt),
	)

	return err
}

// GetMonthly retrieves the stored snapshot for one month.
func (r *CapitalRepository) GetMonthly(ctx context.Context, year, month int) (*domain.MonthlyCapital, error) {
	var (
		mc           domain.MonthlyCapital
		capital      pgtype.Numeric
		calculatedAt pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, `
		SELECT id, year, month, capital, calculated_at FROM monthly_capitals
		WHERE year = $1 AND month = $2`, year, month).
		Scan(&mc.ID, &mc.Year, &mc.Month, &capital, &calculatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSnapshotNotFound
		}

		return nil, err
	}

	mc.Capital = numericToDecimal(capital)
	mc.CalculatedAt = calculatedAt.Time

	return &mc, nil
}
