package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivlev/dealbook/internal/domain"
)

// PurposeRepository implements usecase.PurposeRepository.
type PurposeRepository struct {
	pool *pgxpool.Pool
}

// NewPurposeRepository creates a new PurposeRepository.
func NewPurposeRepository(pool *pgxpool.Pool) *PurposeRepository {
	return &PurposeRepository{pool: pool}
}

// GetByID retrieves a payment purpose by ID.
func (r *PurposeRepository) GetByID(ctx context.Context, id string) (*domain.PaymentPurpose, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, operation_type FROM payment_purposes WHERE id = $1`, id)

	return scanPurpose(row)
}

// GetByName retrieves a payment purpose by its unique name.
func (r *PurposeRepository) GetByName(ctx context.Context, name string) (*domain.PaymentPurpose, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, operation_type FROM payment_purposes WHERE name = $1`, name)

	return scanPurpose(row)
}

// List lists all payment purposes.
func (r *PurposeRepository) List(ctx context.Context) ([]*domain.PaymentPurpose, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, operation_type FROM payment_purposes ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	purposes := make([]*domain.PaymentPurpose, 0)
	for rows.Next() {
		purpose, err := scanPurpose(rows)
		if err != nil {
			return nil, err
		}
		purposes = append(purposes, purpose)
	}

	return purposes, rows.Err()
}

func scanPurpose(row pgx.Row) (*domain.PaymentPurpose, error) {
	var purpose domain.PaymentPurpose

	err := row.Scan(&purpose.ID, &purpose.Name, &purpose.OperationType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPurposeNotFound
		}

		return nil, err
	}

	return &purpose, nil
}
