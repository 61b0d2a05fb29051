package repository

import (
	"context"
	"database/sql"
)

// RateRepo reads the currency rate table.  The table is maintained by
// an external subsystem; this service only ever takes read-only
// snapshots of it.  Rates follow the base-per-unit convention described
// in the pricing package.
type RateRepo struct {
	db *sql.DB
}

// NewRateRepo returns a new RateRepo bound to the given database.
func NewRateRepo(db *sql.DB) *RateRepo { return &RateRepo{db: db} }

// Snapshot loads the whole rate table as a code -> rate map.  Each
// request that needs conversion takes one snapshot and uses it for all
// of its arithmetic, so a concurrent table refresh cannot produce a
// record converted with two different rates.
func (r *RateRepo) Snapshot(ctx context.Context) (map[string]float64, error) {
	const q = `SELECT code, rate FROM currency_rates`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	rates := make(map[string]float64)
	for rows.Next() {
		var code string
		var rate float64
		if err := rows.Scan(&code, &rate); err != nil {
			return nil, err
		}
		rates[code] = rate
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rates, nil
}
