package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivlev/dealbook/internal/domain"
	"github.com/ivlev/dealbook/internal/usecase"
)

// DealRepository implements usecase.DealRepository.
type DealRepository struct {
	pool *pgxpool.Pool
}

// NewDealRepository creates a new DealRepository.
func NewDealRepository(pool *pgxpool.Pool) *DealRepository {
	return &DealRepository{pool: pool}
}

const dealColumns = `id, client_id, supplier_id, amount, client_percentage, bonus_percentage,
		supplier_percentage, paid_amount, returned_by_supplier, returned_to_client,
		returned_bonus, returned_to_investor, documents, created_at, updated_at, returned_at`

// Create creates a new deal.
func (r *DealRepository) Create(ctx context.Context, deal *domain.Deal) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO deals (id, client_id, supplier_id, amount, client_percentage, bonus_percentage,
			supplier_percentage, paid_amount, returned_by_supplier, returned_to_client,
			returned_bonus, returned_to_investor, documents, created_at, updated_at, returned_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		deal.ID,
		textOrNull(deal.ClientID),
		deal.SupplierID,
		decimalToNumeric(deal.Amount),
		decimalToNumeric(deal.ClientPercentage),
		decimalToNumeric(deal.BonusPercentage),
		decimalToNumeric(deal.SupplierPercentage),
		decimalToNumeric(deal.PaidAmount),
		decimalToNumeric(deal.ReturnedBySupplier),
		decimalToNumeric(deal.ReturnedToClient),
		decimalToNumeric(deal.ReturnedBonus),
		decimalToNumeric(deal.ReturnedToInvestor),
		deal.Documents,
		timeToPgTimestamptz(deal.CreatedAt),
		timeToPgTimestamptz(deal.UpdatedAt),
		timePtrToPgTimestamptz(deal.ReturnedAt),
	)

	return err
}

// GetByID retrieves a deal by ID.
func (r *DealRepository) GetByID(ctx context.Context, id string) (*domain.Deal, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+dealColumns+` FROM deals WHERE id = $1`, id)

	return scanDeal(row)
}

// GetByIDForUpdate retrieves a deal by ID with a FOR UPDATE lock.
func (r *DealRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Deal, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `
		SELECT `+dealColumns+` FROM deals WHERE id = $1 FOR UPDATE`, id)

	return scanDeal(row)
}

// ListBySuppliersForUpdate locks and returns paid deals of the given
// suppliers, oldest first. The allocation order of branch-wide repayments
// depends on it.
func (r *DealRepository) ListBySuppliersForUpdate(ctx context.Context, tx usecase.Transaction, supplierIDs []string) ([]*domain.Deal, error) {
	pgxTx := tx.(*Tx).PgxTx()

	rows, err := pgxTx.Query(ctx, `
		SELECT `+dealColumns+` FROM deals
		WHERE supplier_id = ANY($1) AND paid_amount > 0
		ORDER BY created_at, id
		FOR UPDATE`, supplierIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDeals(rows)
}

// ListPaidForUpdate locks and returns all paid deals, oldest first.
func (r *DealRepository) ListPaidForUpdate(ctx context.Context, tx usecase.Transaction) ([]*domain.Deal, error) {
	pgxTx := tx.(*Tx).PgxTx()

	rows, err := pgxTx.Query(ctx, `
		SELECT `+dealColumns+` FROM deals
		WHERE paid_amount > 0
		ORDER BY created_at, id
		FOR UPDATE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDeals(rows)
}

// Update persists the mutable fields of a deal.
func (r *DealRepository) Update(ctx context.Context, tx usecase.Transaction, deal *domain.Deal) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE deals SET
			amount = $2,
			client_percentage = $3,
			bonus_percentage = $4,
			supplier_percentage = $5,
			paid_amount = $6,
			returned_by_supplier = $7,
			returned_to_client = $8,
			returned_bonus = $9,
			returned_to_investor = $10,
			documents = $11,
			updated_at = $12,
			returned_at = $13
		WHERE id = $1`,
		deal.ID,
		decimalToNumeric(deal.Amount),
		decimalToNumeric(deal.ClientPercentage),
		decimalToNumeric(deal.BonusPercentage),
		decimalToNumeric(deal.SupplierPercentage),
		decimalToNumeric(deal.PaidAmount),
		decimalToNumeric(deal.ReturnedBySupplier),
		decimalToNumeric(deal.ReturnedToClient),
		decimalToNumeric(deal.ReturnedBonus),
		decimalToNumeric(deal.ReturnedToInvestor),
		deal.Documents,
		timeToPgTimestamptz(deal.UpdatedAt),
		timePtrToPgTimestamptz(deal.ReturnedAt),
	)

	return err
}

// ListPaid lists paid deals, optionally limited to those created at or
// before the cutoff.
func (r *DealRepository) ListPaid(ctx context.Context, before *time.Time) ([]*domain.Deal, error) {
	return r.list(ctx, `paid_amount > 0`, before)
}

// ListAll lists every deal, optionally limited to those created at or before
// the cutoff.
func (r *DealRepository) ListAll(ctx context.Context, before *time.Time) ([]*domain.Deal, error) {
	return r.list(ctx, `TRUE`, before)
}

func (r *DealRepository) list(ctx context.Context, where string, before *time.Time) ([]*domain.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE ` + where
	args := []any{}

	if before != nil {
		query += ` AND created_at <= $1`
		args = append(args, timeToPgTimestamptz(*before))
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDeals(rows)
}

// ListCreatedBetween lists deals created within [from, to).
func (r *DealRepository) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]*domain.Deal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+dealColumns+` FROM deals
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at, id`,
		timeToPgTimestamptz(from), timeToPgTimestamptz(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDeals(rows)
}

// List lists deals with pagination, newest first.
func (r *DealRepository) List(ctx context.Context, limit, offset int) ([]*domain.Deal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+dealColumns+` FROM deals
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDeals(rows)
}

func scanDeal(row pgx.Row) (*domain.Deal, error) {
	var (
		deal               domain.Deal
		clientID           pgtype.Text
		amount             pgtype.Numeric
		clientPercentage   pgtype.Numeric
		bonusPercentage    pgtype.Numeric
		supplierPercentage pgtype.Numeric
		paidAmount         pgtype.Numeric
		returnedBySupplier pgtype.Numeric
		returnedToClient   pgtype.Numeric
		returnedBonus      pgtype.Numeric
		returnedToInvestor pgtype.Numeric
		createdAt          pgtype.Timestamptz
		updatedAt          pgtype.Timestamptz
		returnedAt         pgtype.Timestamptz
	)

	err := row.Scan(
		&deal.ID, &clientID, &deal.SupplierID, &amount, &clientPercentage, &bonusPercentage,
		&supplierPercentage, &paidAmount, &returnedBySupplier, &returnedToClient,
		&returnedBonus, &returnedToInvestor, &deal.Documents, &createdAt, &updatedAt, &returnedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDealNotFound
		}

		return nil, err
	}

	deal.ClientID = clientID.String
	deal.Amount = numericToDecimal(amount)
	deal.ClientPercentage = numericToDecimal(clientPercentage)
	deal.BonusPercentage = numericToDecimal(bonusPercentage)
	deal.SupplierPercentage = numericToDecimal(supplierPercentage)
	deal.PaidAmount = numericToDecimal(paidAmount)
	deal.ReturnedBySupplier = numericToDecimal(returnedBySupplier)
	deal.ReturnedToClient = numericToDecimal(returnedToClient)
	deal.ReturnedBonus = numericToDecimal(returnedBonus)
	deal.ReturnedToInvestor = numericToDecimal(returnedToInvestor)
	deal.CreatedAt = createdAt.Time
	deal.UpdatedAt = updatedAt.Time
	if returnedAt.Valid {
		t := returnedAt.Time
		deal.ReturnedAt = &t
	}

	return &deal, nil
}

func collectDeals(rows pgx.Rows) ([]*domain.Deal, error) {
	deals := make([]*domain.Deal, 0)
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, deal)
	}

	return deals, rows.Err()
}

func timePtrToPgTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}
