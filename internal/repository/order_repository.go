package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/tajtravel/guidehire/internal/model"
)

// OrderRepo writes the minimal payable-order records consumed by the
// external payment subsystem.  hire_id carries a UNIQUE constraint, so
// at most one payable order can ever exist per hire record no matter
// how often a confirmation is retried.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// CreatePayableOrderTx emits a payable order for a hire within the
// provided transaction.  A fresh uuid becomes the order reference.  If
// an order for this hire already exists the insert is a no-op and the
// existing order is returned instead, which is what makes the bridge
// idempotent under caller retries.
func (r *OrderRepo) CreatePayableOrderTx(ctx context.Context, tx *sql.Tx, hireID uint64, amount float64, currency string) (*model.PayableOrder, error) {
	ref := uuid.NewString()
	const q = `INSERT INTO payable_orders (order_ref, hire_id, amount, currency)
			   VALUES (?, ?, ?, ?)
			   ON DUPLICATE KEY UPDATE id = id`
	if _, err := tx.ExecContext(ctx, q, ref, hireID, amount, currency); err != nil {
		return nil, err
	}
	// Read back whichever row now owns the hire_id: the one just
	// inserted, or the one an earlier attempt created.
	return r.getByHireTx(ctx, tx, hireID)
}

// GetByHire returns the payable order emitted for a hire, if any.
func (r *OrderRepo) GetByHire(ctx context.Context, hireID uint64) (*model.PayableOrder, error) {
	const q = `SELECT id, order_ref, hire_id, amount, currency, created_at
			   FROM payable_orders WHERE hire_id = ?`
	return scanOrder(r.db.QueryRowContext(ctx, q, hireID))
}

func (r *OrderRepo) getByHireTx(ctx context.Context, tx *sql.Tx, hireID uint64) (*model.PayableOrder, error) {
	const q = `SELECT id, order_ref, hire_id, amount, currency, created_at
			   FROM payable_orders WHERE hire_id = ?`
	return scanOrder(tx.QueryRowContext(ctx, q, hireID))
}

func scanOrder(row *sql.Row) (*model.PayableOrder, error) {
	var o model.PayableOrder
	err := row.Scan(&o.ID, &o.OrderRef, &o.HireID, &o.Amount, &o.Currency, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHireNotFound
		}
		return nil, err
	}
	return &o, nil
}
