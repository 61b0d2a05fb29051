package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/tajtravel/guidehire/internal/model"
)

// HireRepo provides persistence for hire records and their frozen
// day-set snapshots.  A hire row is created exactly once; afterwards
// only status and payment_status may change, and every status change
// goes through a guarded UPDATE conditioned on the current status so
// that two concurrent actors can never both win the same transition.
// Rows are never deleted; the table doubles as the audit trail.
type HireRepo struct {
	db *sql.DB
}

// NewHireRepo returns a new HireRepo bound to the given database.
func NewHireRepo(db *sql.DB) *HireRepo { return &HireRepo{db: db} }

const hireColumns = `id, guide_id, requester_name, requester_contact, num_days,
			   total_price, base_total_price, currency, base_currency, exchange_rate,
			   status, payment_status, created_at, updated_at`

// CreateTx inserts a new hire record and its day snapshot within the
// scope of an existing transaction.  It populates the generated ID and
// timestamps on the provided record.  The day rows in hire_days are the
// write-once frozen snapshot: nothing in the codebase updates them
// after this insert.  The caller must commit or roll back.
func (r *HireRepo) CreateTx(ctx context.Context, tx *sql.Tx, h *model.HireRecord) error {
	const q = `INSERT INTO hires (guide_id, requester_name, requester_contact, num_days,
				total_price, base_total_price, currency, base_currency, exchange_rate,
				status, payment_status)
			   VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		h.GuideID, h.RequesterName, h.RequesterContact, h.NumDays,
		h.TotalPrice, h.BaseTotalPrice, h.Currency, h.BaseCurrency, h.ExchangeRate,
		string(h.Status), string(h.PaymentStatus))
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	if len(h.Days) > 0 {
		query := `INSERT INTO hire_days (hire_id, day) VALUES `
		args := make([]interface{}, 0, len(h.Days)*2)
		for i, d := range h.Days {
			if i > 0 {
				query += ","
			}
			query += "(?, ?)"
			args = append(args, h.ID, d)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	// Query back timestamps and defaults populated by the database.
	const sel = `SELECT created_at, updated_at FROM hires WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, h.ID).Scan(&h.CreatedAt, &h.UpdatedAt)
}

// scanHire reads one hire row without its day snapshot.
func scanHire(row *sql.Row) (*model.HireRecord, error) {
	var h model.HireRecord
	var status, payment string
	err := row.Scan(&h.ID, &h.GuideID, &h.RequesterName, &h.RequesterContact, &h.NumDays,
		&h.TotalPrice, &h.BaseTotalPrice, &h.Currency, &h.BaseCurrency, &h.ExchangeRate,
		&status, &payment, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHireNotFound
		}
		return nil, err
	}
	h.Status = model.HireStatus(status)
	h.PaymentStatus = model.PaymentStatus(payment)
	return &h, nil
}

// GetByID loads a hire record together with its frozen day snapshot.
func (r *HireRepo) GetByID(ctx context.Context, hireID uint64) (*model.HireRecord, error) {
	const q = `SELECT ` + hireColumns + ` FROM hires WHERE id = ?`
	h, err := scanHire(r.db.QueryRowContext(ctx, q, hireID))
	if err != nil {
		return nil, err
	}
	const dayQ = `SELECT DATE_FORMAT(day, '%Y-%m-%d') FROM hire_days WHERE hire_id = ? ORDER BY day`
	rows, err := r.db.QueryContext(ctx, dayQ, hireID)
	if err != nil {
		return nil, err
	}
	h.Days, err = scanDays(rows)
	return h, err
}

// GetByIDTx loads a hire record and its day snapshot inside an existing
// transaction.  Approval and compensation read the record here after
// taking the guide lock so the status they see is the committed one.
func (r *HireRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, hireID uint64) (*model.HireRecord, error) {
	const q = `SELECT ` + hireColumns + ` FROM hires WHERE id = ?`
	h, err := scanHire(tx.QueryRowContext(ctx, q, hireID))
	if err != nil {
		return nil, err
	}
	const dayQ = `SELECT DATE_FORMAT(day, '%Y-%m-%d') FROM hire_days WHERE hire_id = ? ORDER BY day`
	rows, err := tx.QueryContext(ctx, dayQ, hireID)
	if err != nil {
		return nil, err
	}
	h.Days, err = scanDays(rows)
	return h, err
}

// GuideIDByHire resolves the owning guide of a hire record without
// loading the whole row.  The workflow needs this before it can take
// the guide lock, since the lock target is the guide, not the hire.
func (r *HireRepo) GuideIDByHire(ctx context.Context, hireID uint64) (uint64, error) {
	const q = `SELECT guide_id FROM hires WHERE id = ?`
	var guideID uint64
	if err := r.db.QueryRowContext(ctx, q, hireID).Scan(&guideID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrHireNotFound
		}
		return 0, err
	}
	return guideID, nil
}

// UpdateStatusGuardedTx flips a hire's status from exactly `from` to
// `to` within the provided transaction.  The WHERE clause carries the
// current status, so if a concurrent actor already transitioned the
// record the update matches zero rows and ErrAlreadyProcessed is
// returned.  This is the guard against double-approval by concurrent
// administrators.
func (r *HireRepo) UpdateStatusGuardedTx(ctx context.Context, tx *sql.Tx, hireID uint64, from, to model.HireStatus) error {
	const q = `UPDATE hires SET status = ?, updated_at = UTC_TIMESTAMP() WHERE id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, q, string(to), hireID, string(from))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAlreadyProcessed
	}
	return nil
}

// UpdatePaymentStatusGuarded flips a hire's payment status with the
// same zero-rows-means-raced semantics as UpdateStatusGuardedTx.  The
// payment flag never interacts with the calendar, so no guide lock or
// wider transaction is required.
func (r *HireRepo) UpdatePaymentStatusGuarded(ctx context.Context, hireID uint64, from, to model.PaymentStatus) error {
	const q = `UPDATE hires SET payment_status = ?, updated_at = UTC_TIMESTAMP() WHERE id = ? AND payment_status = ?`
	res, err := r.db.ExecContext(ctx, q, string(to), hireID, string(from))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAlreadyProcessed
	}
	return nil
}

// ListByGuide returns all hire records for a guide, newest first, with
// day snapshots populated in a single batched query.
func (r *HireRepo) ListByGuide(ctx context.Context, guideID uint64) ([]model.HireRecord, error) {
	const q = `SELECT ` + hireColumns + ` FROM hires WHERE guide_id = ? ORDER BY created_at DESC`
	return r.list(ctx, q, guideID)
}

// ListByRequester returns all hire records created with the given
// contact, newest first.  This is the requester-facing hire history.
func (r *HireRepo) ListByRequester(ctx context.Context, contact string) ([]model.HireRecord, error) {
	const q = `SELECT ` + hireColumns + ` FROM hires WHERE requester_contact = ? ORDER BY created_at DESC`
	return r.list(ctx, q, contact)
}

func (r *HireRepo) list(ctx context.Context, query string, arg interface{}) ([]model.HireRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	records := make([]model.HireRecord, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var h model.HireRecord
		var status, payment string
		if err := rows.Scan(&h.ID, &h.GuideID, &h.RequesterName, &h.RequesterContact, &h.NumDays,
			&h.TotalPrice, &h.BaseTotalPrice, &h.Currency, &h.BaseCurrency, &h.ExchangeRate,
			&status, &payment, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		h.Status = model.HireStatus(status)
		h.PaymentStatus = model.PaymentStatus(payment)
		h.Days = []string{}
		index[h.ID] = len(records)
		records = append(records, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return records, nil
	}
	// Populate day snapshots for all records in one query.
	ids := make([]interface{}, 0, len(records))
	placeholders := make([]string, 0, len(records))
	for _, h := range records {
		ids = append(ids, h.ID)
		placeholders = append(placeholders, "?")
	}
	dayQuery := `SELECT hire_id, DATE_FORMAT(day, '%Y-%m-%d')
				 FROM hire_days
				 WHERE hire_id IN (` + strings.Join(placeholders, ",") + `)
				 ORDER BY hire_id, day`
	drows, err := r.db.QueryContext(ctx, dayQuery, ids...)
	if err != nil {
		return nil, err
	}
	defer drows.Close()
	for drows.Next() {
		var hid uint64
		var day string
		if err := drows.Scan(&hid, &day); err != nil {
			return nil, err
		}
		if idx, ok := index[hid]; ok {
			records[idx].Days = append(records[idx].Days, day)
		}
	}
	if err := drows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
