package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivlev/dealbook/internal/domain"
)

// SupplierRepository implements usecase.SupplierRepository.
type SupplierRepository struct {
	pool *pgxpool.Pool
}

// NewSupplierRepository creates a new SupplierRepository.
func NewSupplierRepository(pool *pgxpool.Pool) *SupplierRepository {
	return &SupplierRepository{pool: pool}
}

const supplierColumns = `id, name, branch_id, cost_percentage, default_account_id, created_at`

// Create creates a new supplier.
func (r *SupplierRepository) Create(ctx context.Context, supplier *domain.Supplier) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO suppliers (id, name, branch_id, cost_percentage, default_account_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		supplier.ID,
		supplier.Name,
		textOrNull(supplier.BranchID),
		decimalToNumeric(supplier.CostPercentage),
		textOrNull(supplier.DefaultAccountID),
		timeToPgTimestamptz(supplier.CreatedAt),
	)

	return err
}

// GetByID retrieves a supplier by ID.
func (r *SupplierRepository) GetByID(ctx context.Context, id string) (*domain.Supplier, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id)

	return scanSupplier(row)
}

// List lists all suppliers.
func (r *SupplierRepository) List(ctx context.Context) ([]*domain.Supplier, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+supplierColumns+` FROM suppliers ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSuppliers(rows)
}

// ListByBranch lists the suppliers belonging to one branch.
func (r *SupplierRepository) ListByBranch(ctx context.Context, branchID string) ([]*domain.Supplier, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+supplierColumns+` FROM suppliers
		WHERE branch_id = $1
		ORDER BY name, id`, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSuppliers(rows)
}

// GetBranch retrieves a branch by ID.
func (r *SupplierRepository) GetBranch(ctx context.Context, id string) (*domain.Branch, error) {
	var branch domain.Branch

	err := r.pool.QueryRow(ctx, `
		SELECT id, name FROM branches WHERE id = $1`, id).
		Scan(&branch.ID, &branch.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBranchNotFound
		}

		return nil, err
	}

	return &branch, nil
}

// ListBranches lists all branches.
func (r *SupplierRepository) ListBranches(ctx context.Context) ([]*domain.Branch, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name FROM branches ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	branches := make([]*domain.Branch, 0)
	for rows.Next() {
		var branch domain.Branch
		if err := rows.Scan(&branch.ID, &branch.Name); err != nil {
			return nil, err
		}
		branches = append(branches, &branch)
	}

	return branches, rows.Err()
}

func scanSupplier(row pgx.Row) (*domain.Supplier, error) {
	var (
		supplier       domain.Supplier
		branchID       pgtype.Text
		costPercentage pgtype.Numeric
		defaultAccount pgtype.Text
		createdAt      pgtype.Timestamptz
	)

	err := row.Scan(&supplier.ID, &supplier.Name, &branchID, &costPercentage, &defaultAccount, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSupplierNotFound
		}

		return nil, err
	}

	supplier.BranchID = branchID.String
	supplier.CostPercentage = numericToDecimal(costPercentage)
	supplier.DefaultAccountID = defaultAccount.String
	supplier.CreatedAt = createdAt.Time

	return &supplier, nil
}

func collectSuppliers(rows pgx.Rows) ([]*domain.Supplier, error) {
	suppliers := make([]*domain.Supplier, 0)
	for rows.Next() {
		supplier, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, supplier)
	}

	return suppliers, rows.Err()
}
