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

// InvestorRepository implements usecase.InvestorRepository.
type InvestorRepository struct {
	pool *pgxpool.Pool
}

// NewInvestorRepository creates a new InvestorRepository.
func NewInvestorRepository(pool *pgxpool.Pool) *InvestorRepository {
	return &InvestorRepository{pool: pool}
}

const investorColumns = `id, name, balance, created_at`

// Create creates a new investor.
func (r *InvestorRepository) Create(ctx context.Context, investor *domain.Investor) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO investors (id, name, balance, created_at)
		VALUES ($1, $2, $3, $4)`,
		investor.ID,
		investor.Name,
		decimalToNumeric(investor.Balance),
		timeToPgTimestamptz(investor.CreatedAt),
	)

	return err
}

// GetByID retrieves an investor by ID.
func (r *InvestorRepository) GetByID(ctx context.Context, id string) (*domain.Investor, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+investorColumns+` FROM investors WHERE id = $1`, id)

	return scanInvestor(row)
}

// GetByIDForUpdate retrieves an investor by ID with a FOR UPDATE lock.
func (r *InvestorRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Investor, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `
		SELECT `+investorColumns+` FROM investors WHERE id = $1 FOR UPDATE`, id)

	return scanInvestor(row)
}

// UpdateBalance updates the balance of an investor.
func (r *InvestorRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE investors SET balance = $2 WHERE id = $1`,
		id, decimalToNumeric(balance))

	return err
}

// List lists investors, optionally limited to those created at or before the
// cutoff.
func (r *InvestorRepository) List(ctx context.Context, before *time.Time) ([]*domain.Investor, error) {
	query := `SELECT ` + investorColumns + ` FROM investors`
	args := []any{}

	if before != nil {
		query += ` WHERE created_at <= $1`
		args = append(args, timeToPgTimestamptz(*before))
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	investors := make([]*domain.Investor, 0)
	for rows.Next() {
		investor, err := scanInvestor(rows)
		if err != nil {
			return nil, err
		}
		investors = append(investors, investor)
	}

	return investors, rows.Err()
}

func scanInvestor(row pgx.Row) (*domain.Investor, error) {
	var (
		investor  domain.Investor
		balance   pgtype.Numeric
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(&investor.ID, &investor.Name, &balance, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvestorNotFound
		}

		return nil, err
	}

	investor.Balance = numericToDecimal(balance)
	investor.CreatedAt = createdAt.Time

	return &investor, nil
}
