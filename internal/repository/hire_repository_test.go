package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tajtravel/guidehire/internal/model"
)

var hireCols = []string{"id", "guide_id", "requester_name", "requester_contact", "num_days",
	"total_price", "base_total_price", "currency", "base_currency", "exchange_rate",
	"status", "payment_status", "created_at", "updated_at"}

func TestHireRepoCreateTx(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewHireRepo(db)
	ctx := context.Background()

	now := time.Now()
	hire := &model.HireRecord{
		GuideID:          7,
		RequesterName:    "Malika S.",
		RequesterContact: "malika@example.com",
		Days:             []string{"2026-10-01", "2026-10-02"},
		NumDays:          2,
		TotalPrice:       900.00,
		BaseTotalPrice:   900.00,
		Currency:         "TJS",
		BaseCurrency:     "TJS",
		ExchangeRate:     1,
		Status:           model.StatusConfirmed,
		PaymentStatus:    model.PaymentUnpaid,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO hires").
		WithArgs(hire.GuideID, hire.RequesterName, hire.RequesterContact, hire.NumDays,
			hire.TotalPrice, hire.BaseTotalPrice, hire.Currency, hire.BaseCurrency, hire.ExchangeRate,
			"confirmed", "unpaid").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec("INSERT INTO hire_days").
		WithArgs(uint64(42), "2026-10-01", uint64(42), "2026-10-02").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery("SELECT created_at, updated_at FROM hires WHERE id = \\?").
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectCommit()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repo.CreateTx(ctx, tx, hire))
	require.NoError(t, tx.Commit())

	assert.Equal(t, uint64(42), hire.ID)
	assert.Equal(t, now, hire.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHireRepoGetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewHireRepo(db)
	ctx := context.Background()

	t.Run("WithDaySnapshot", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery("SELECT (.+) FROM hires WHERE id = \\?").
			WithArgs(uint64(42)).
			WillReturnRows(sqlmock.NewRows(hireCols).
				AddRow(42, 7, "Malika S.", "malika@example.com", 2,
					900.00, 900.00, "TJS", "TJS", 1.0,
					"confirmed", "unpaid", now, now))
		mock.ExpectQuery("FROM hire_days WHERE hire_id = \\? ORDER BY day").
			WithArgs(uint64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"day"}).
				AddRow("2026-10-01").
				AddRow("2026-10-02"))

		h, err := repo.GetByID(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, model.StatusConfirmed, h.Status)
		assert.Equal(t, model.PaymentUnpaid, h.PaymentStatus)
		assert.Equal(t, []string{"2026-10-01", "2026-10-02"}, h.Days)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM hires WHERE id = \\?").
			WithArgs(uint64(99)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(ctx, 99)
		assert.ErrorIs(t, err, ErrHireNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHireRepoUpdateStatusGuardedTx(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewHireRepo(db)
	ctx := context.Background()

	t.Run("WinsTheTransition", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE hires SET status = \\?, updated_at = UTC_TIMESTAMP\\(\\) WHERE id = \\? AND status = \\?").
			WithArgs("approved", uint64(42), "pending").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)
		err = repo.UpdateStatusGuardedTx(ctx, tx, 42, model.StatusPending, model.StatusApproved)
		assert.NoError(t, err)
		assert.NoError(t, tx.Commit())
	})

	t.Run("LosesTheRace", func(t *testing.T) {
		// Zero rows matched: another actor already moved the record
		// out of pending.
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE hires SET status = \\?").
			WithArgs("approved", uint64(42), "pending").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)
		err = repo.UpdateStatusGuardedTx(ctx, tx, 42, model.StatusPending, model.StatusApproved)
		assert.ErrorIs(t, err, ErrAlreadyProcessed)
		assert.NoError(t, tx.Rollback())
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHireRepoUpdatePaymentStatusGuarded(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewHireRepo(db)
	ctx := context.Background()

	t.Run("UnpaidToPaid", func(t *testing.T) {
		mock.ExpectExec("UPDATE hires SET payment_status = \\?").
			WithArgs("paid", uint64(42), "unpaid").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdatePaymentStatusGuarded(ctx, 42, model.PaymentUnpaid, model.PaymentPaid)
		assert.NoError(t, err)
	})

	t.Run("Raced", func(t *testing.T) {
		mock.ExpectExec("UPDATE hires SET payment_status = \\?").
			WithArgs("paid", uint64(42), "unpaid").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdatePaymentStatusGuarded(ctx, 42, model.PaymentUnpaid, model.PaymentPaid)
		assert.ErrorIs(t, err, ErrAlreadyProcessed)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHireRepoGuideIDByHire(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewHireRepo(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT guide_id FROM hires WHERE id = \\?").
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"guide_id"}).AddRow(7))

	guideID, err := repo.GuideIDByHire(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), guideID)

	mock.ExpectQuery("SELECT guide_id FROM hires WHERE id = \\?").
		WithArgs(uint64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GuideIDByHire(ctx, 99)
	assert.ErrorIs(t, err, ErrHireNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHireRepoListByGuide(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewHireRepo(db)
	ctx := context.Background()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM hires WHERE guide_id = \\? ORDER BY created_at DESC").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows(hireCols).
			AddRow(43, 7, "Second", "second@example.com", 1,
				450.00, 450.00, "TJS", "TJS", 1.0, "pending", "unpaid", now, now).
			AddRow(42, 7, "First", "first@example.com", 2,
				900.00, 900.00, "TJS", "TJS", 1.0, "confirmed", "unpaid", now, now))
	mock.ExpectQuery("SELECT hire_id, DATE_FORMAT\\(day, '%Y-%m-%d'\\)").
		WithArgs(uint64(43), uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"hire_id", "day"}).
			AddRow(42, "2026-10-01").
			AddRow(42, "2026-10-02").
			AddRow(43, "2026-10-05"))

	records, err := repo.ListByGuide(ctx, 7)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, uint64(43), records[0].ID)
	assert.Equal(t, []string{"2026-10-05"}, records[0].Days)
	assert.Equal(t, []string{"2026-10-01", "2026-10-02"}, records[1].Days)
	assert.NoError(t, mock.ExpectationsWereMet())
}
