package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/tajtravel/guidehire/internal/model"
)

// GuideRepo provides access to guide profiles and their availability
// calendar.  The calendar is the per-guide set of free bookable days
// stored in guide_available_days with a (guide_id, day) primary key, so
// uniqueness of a day within one calendar is enforced by the schema.
//
// The calendar mutators (RemoveDaysTx, AddDaysTx) and the live re-read
// (ListFreeDaysTx) are transaction-only by design: callers must first
// take the guide row lock via GetForUpdateTx so that all units touching
// one guide serialize.  They are never safe to call standalone from
// concurrent contexts.
type GuideRepo struct {
	db *sql.DB
}

// NewGuideRepo returns a new GuideRepo bound to the given database.
func NewGuideRepo(db *sql.DB) *GuideRepo { return &GuideRepo{db: db} }

// DB exposes the underlying handle so that the service layer can open
// transactions spanning guides, hires and payable orders.
func (r *GuideRepo) DB() *sql.DB { return r.db }

const guideColumns = `id, full_name, contact_email, is_active, is_hireable, price_per_day, currency, created_at, updated_at`

// scanGuide reads one guide row.  sql.ErrNoRows becomes
// ErrGuideNotFound so handlers never see driver-level sentinels.
func scanGuide(row *sql.Row) (*model.Guide, error) {
	var g model.Guide
	var price sql.NullFloat64
	err := row.Scan(&g.ID, &g.FullName, &g.ContactEmail, &g.IsActive, &g.IsHireable,
		&price, &g.Currency, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGuideNotFound
		}
		return nil, err
	}
	if price.Valid {
		p := price.Float64
		g.PricePerDay = &p
	}
	return &g, nil
}

// GetByID loads a guide profile without locking.  Suitable for
// read-only display such as the public availability endpoint; never use
// the result to decide a reservation (re-read under the lock instead).
func (r *GuideRepo) GetByID(ctx context.Context, guideID uint64) (*model.Guide, error) {
	const q = `SELECT ` + guideColumns + ` FROM guides WHERE id = ?`
	return scanGuide(r.db.QueryRowContext(ctx, q, guideID))
}

// GetForUpdateTx loads a guide row with SELECT ... FOR UPDATE inside
// the given transaction.  Every atomic unit that mutates a guide's
// calendar or flips a hire status must call this first: the row lock
// serializes all contending units at guide granularity, which is the
// mutual exclusion the reservation algorithm relies on.
func (r *GuideRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, guideID uint64) (*model.Guide, error) {
	const q = `SELECT ` + guideColumns + ` FROM guides WHERE id = ? FOR UPDATE`
	return scanGuide(tx.QueryRowContext(ctx, q, guideID))
}

// ListFreeDays returns the guide's free days as sorted ISO date strings
// using a plain read-committed read.  The result is advisory only: a
// day listed here can be gone by the time a hire request arrives, which
// is why commits re-read inside the transaction.
func (r *GuideRepo) ListFreeDays(ctx context.Context, guideID uint64) ([]string, error) {
	const q = `SELECT DATE_FORMAT(day, '%Y-%m-%d') FROM guide_available_days WHERE guide_id = ? ORDER BY day`
	rows, err := r.db.QueryContext(ctx, q, guideID)
	if err != nil {
		return nil, err
	}
	return scanDays(rows)
}

// ListFreeDaysTx is the in-transaction live re-read of the free-day
// set.  With the guide row locked this observes the latest committed
// state, never a value cached before the transaction began.
func (r *GuideRepo) ListFreeDaysTx(ctx context.Context, tx *sql.Tx, guideID uint64) ([]string, error) {
	const q = `SELECT DATE_FORMAT(day, '%Y-%m-%d') FROM guide_available_days WHERE guide_id = ? ORDER BY day`
	rows, err := tx.QueryContext(ctx, q, guideID)
	if err != nil {
		return nil, err
	}
	return scanDays(rows)
}

func scanDays(rows *sql.Rows) ([]string, error) {
	defer rows.Close()
	days := make([]string, 0)
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return days, nil
}

// RemoveDaysTx deletes the given days from the guide's calendar within
// the provided transaction.  The caller has already verified every day
// is free while holding the guide lock, so the affected-row count must
// equal len(days); anything less means that check was bypassed and the
// unit must abort with ErrConflict.  Passing an empty slice is a no-op.
func (r *GuideRepo) RemoveDaysTx(ctx context.Context, tx *sql.Tx, guideID uint64, days []string) error {
	if len(days) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(days)), ",")
	query := `DELETE FROM guide_available_days WHERE guide_id = ? AND day IN (` + placeholders + `)`
	args := make([]interface{}, 0, len(days)+1)
	args = append(args, guideID)
	for _, d := range days {
		args = append(args, d)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != int64(len(days)) {
		return ErrConflict
	}
	return nil
}

// AddDaysTx unions the given days back into the guide's calendar within
// the provided transaction.  Days not strictly in the future (and
// anything unparseable) are silently dropped, so a compensation that
// restores a hire's frozen days never resurrects a day that has already
// passed.  INSERT IGNORE makes the union idempotent: a day already
// present is silently skipped, so a compensation that partially ran
// before a retry cannot duplicate anything.  A slice with nothing left
// after filtering is a no-op.
func (r *GuideRepo) AddDaysTx(ctx context.Context, tx *sql.Tx, guideID uint64, days []string) error {
	days = futureDays(days)
	if len(days) == 0 {
		return nil
	}
	query := `INSERT IGNORE INTO guide_available_days (guide_id, day) VALUES `
	args := make([]interface{}, 0, len(days)*2)
	for i, d := range days {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, guideID, d)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// futureDays keeps only well-formed ISO dates strictly after today in
// UTC.
func futureDays(days []string) []string {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	kept := make([]string, 0, len(days))
	for _, d := range days {
		t, err := time.Parse("2006-01-02", d)
		if err != nil {
			continue
		}
		if t.After(today) {
			kept = append(kept, d)
		}
	}
	return kept
}
