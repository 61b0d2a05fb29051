// Package service implements the guide-hire reservation engine: the
// atomic check-then-commit over a guide's availability calendar and the
// approval workflow around hire records.  Every mutation of the
// calendar runs inside a single database transaction that first locks
// the guide row, so concurrent requests contending for the same guide
// serialize and exactly one of two overlapping reservations can win.
package service

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tajtravel/guidehire/internal/model"
	"github.com/tajtravel/guidehire/internal/pricing"
	"github.com/tajtravel/guidehire/internal/queue"
	"github.com/tajtravel/guidehire/internal/repository"
)

const dayLayout = "2006-01-02"

// ErrInvalidDays is returned when a request names no days, a malformed
// day, or a day that is not in the future.  Maps to HTTP 400.
var ErrInvalidDays = errors.New("days must be distinct future dates in YYYY-MM-DD format")

// Notifier delivers fire-and-forget hire notifications.  Failures are
// logged and ignored: a committed reservation is never rolled back
// because the broker was unreachable.
type Notifier interface {
	HireConfirmed(ctx context.Context, ev queue.HireEvent) error
	HireApproved(ctx context.Context, ev queue.HireEvent) error
}

// HireService owns the reservation and workflow logic.  All state
// lives in the database; the service itself is stateless and safe for
// concurrent use.
type HireService struct {
	guides *repository.GuideRepo
	hires  *repository.HireRepo
	rates  *repository.RateRepo
	orders *repository.OrderRepo
	notify Notifier
}

// NewHireService constructs a HireService.  The repositories must be
// non-nil; notify may be nil to disable notifications (tests).
func NewHireService(guides *repository.GuideRepo, hires *repository.HireRepo, rates *repository.RateRepo, orders *repository.OrderRepo, notify Notifier) *HireService {
	if guides == nil || hires == nil || rates == nil || orders == nil {
		panic("nil repository passed to NewHireService")
	}
	return &HireService{guides: guides, hires: hires, rates: rates, orders: orders, notify: notify}
}

// HireRequestInput carries a hire request from the HTTP layer.
// DisplayCurrency is optional; when empty the quote stays in the
// guide's own currency.
type HireRequestInput struct {
	GuideID          uint64
	RequesterName    string
	RequesterContact string
	Days             []string
	DisplayCurrency  string
}

// normalizeDays validates and canonicalizes a requested day-set:
// deduplicated, each a well-formed ISO date strictly after today (UTC),
// returned sorted.  An empty result is invalid.
func normalizeDays(days []string) ([]string, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	seen := make(map[string]struct{}, len(days))
	out := make([]string, 0, len(days))
	for _, d := range days {
		t, err := time.Parse(dayLayout, d)
		if err != nil {
			return nil, ErrInvalidDays
		}
		if !t.After(today) {
			return nil, ErrInvalidDays
		}
		canonical := t.Format(dayLayout)
		if _, ok := seen[canonical]; ok {
			continue
		}
		seen[canonical] = struct{}{}
		out = append(out, canonical)
	}
	if len(out) == 0 {
		return nil, ErrInvalidDays
	}
	sort.Strings(out)
	return out, nil
}

// missingDays returns the requested days absent from the free set, in
// request order.  A non-empty result aborts the reservation.
func missingDays(requested, free []string) []string {
	freeSet := make(map[string]struct{}, len(free))
	for _, d := range free {
		freeSet[d] = struct{}{}
	}
	var missing []string
	for _, d := range requested {
		if _, ok := freeSet[d]; !ok {
			missing = append(missing, d)
		}
	}
	return missing
}

// quote freezes the price for n days of the guide's time.  The base
// total is always in the guide's currency; when a display currency is
// requested the total is converted through a rate-table snapshot and
// the applied pair rate is recorded on the hire.  The returned values
// are written once at creation and never recomputed (frozen quote).
func (s *HireService) quote(ctx context.Context, guide *model.Guide, n int, displayCurrency string) (total, baseTotal, rate float64, currency string, err error) {
	baseTotal = pricing.Round2(*guide.PricePerDay * float64(n))
	currency = displayCurrency
	if currency == "" {
		currency = guide.Currency
	}
	if currency == guide.Currency {
		return baseTotal, baseTotal, 1, currency, nil
	}
	rates, err := s.rates.Snapshot(ctx)
	if err != nil {
		return 0, 0, 0, "", err
	}
	rate, err = pricing.PairRate(guide.Currency, currency, rates)
	if err != nil {
		return 0, 0, 0, "", err
	}
	total, err = pricing.Convert(baseTotal, guide.Currency, currency, rates)
	if err != nil {
		return 0, 0, 0, "", err
	}
	return total, baseTotal, rate, currency, nil
}

// RequestDirectHire is the public direct-booking path: one atomic unit
// that re-reads the live calendar, claims the requested days, freezes
// the quote and creates a confirmed hire plus its payable order.  Two
// requests racing on overlapping days serialize on the guide lock;
// the loser observes the winner's committed removal and fails with
// DatesUnavailableError naming the contested days, with no partial
// effects.
func (s *HireService) RequestDirectHire(ctx context.Context, in HireRequestInput) (*model.HireRecord, *model.PayableOrder, error) {
	days, err := normalizeDays(in.Days)
	if err != nil {
		return nil, nil, err
	}
	tx, err := s.guides.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	// Lock the guide row; everything after this observes committed
	// state and excludes every other unit touching the same guide.
	guide, err := s.guides.GetForUpdateTx(ctx, tx, in.GuideID)
	if err != nil {
		return nil, nil, err
	}
	if !guide.Hireable() {
		return nil, nil, repository.ErrGuideNotHireable
	}
	free, err := s.guides.ListFreeDaysTx(ctx, tx, in.GuideID)
	if err != nil {
		return nil, nil, err
	}
	if missing := missingDays(days, free); len(missing) > 0 {
		return nil, nil, &repository.DatesUnavailableError{Days: missing}
	}
	if err := s.guides.RemoveDaysTx(ctx, tx, in.GuideID, days); err != nil {
		return nil, nil, err
	}
	total, baseTotal, rate, currency, err := s.quote(ctx, guide, len(days), in.DisplayCurrency)
	if err != nil {
		return nil, nil, err
	}
	hire := &model.HireRecord{
		GuideID:          in.GuideID,
		RequesterName:    in.RequesterName,
		RequesterContact: in.RequesterContact,
		Days:             days,
		NumDays:          len(days),
		TotalPrice:       total,
		BaseTotalPrice:   baseTotal,
		Currency:         currency,
		BaseCurrency:     guide.Currency,
		ExchangeRate:     rate,
		Status:           model.StatusConfirmed,
		PaymentStatus:    model.PaymentUnpaid,
	}
	if err := s.hires.CreateTx(ctx, tx, hire); err != nil {
		return nil, nil, err
	}
	order, err := s.orders.CreatePayableOrderTx(ctx, tx, hire.ID, hire.TotalPrice, hire.Currency)
	if err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	committed = true
	s.publishConfirmed(ctx, hire, guide, order)
	return hire, order, nil
}

// SubmitHireRequest records a pending hire request without touching the
// calendar: pending requests deliberately hold no inventory, so the
// named days remain free to other requesters until an administrator
// approves.  The quote is still frozen at submission time.
func (s *HireService) SubmitHireRequest(ctx context.Context, in HireRequestInput) (*model.HireRecord, error) {
	days, err := normalizeDays(in.Days)
	if err != nil {
		return nil, err
	}
	guide, err := s.guides.GetByID(ctx, in.GuideID)
	if err != nil {
		return nil, err
	}
	if !guide.Hireable() {
		return nil, repository.ErrGuideNotHireable
	}
	total, baseTotal, rate, currency, err := s.quote(ctx, guide, len(days), in.DisplayCurrency)
	if err != nil {
		return nil, err
	}
	hire := &model.HireRecord{
		GuideID:          in.GuideID,
		RequesterName:    in.RequesterName,
		RequesterContact: in.RequesterContact,
		Days:             days,
		NumDays:          len(days),
		TotalPrice:       total,
		BaseTotalPrice:   baseTotal,
		Currency:         currency,
		BaseCurrency:     guide.Currency,
		ExchangeRate:     rate,
		Status:           model.StatusPending,
		PaymentStatus:    model.PaymentUnpaid,
	}
	// The record and its day snapshot must appear together; no guide
	// lock is needed because the calendar is untouched.
	tx, err := s.guides.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := s.hires.CreateTx(ctx, tx, hire); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return hire, nil
}

// ApproveHire transitions a pending request to approved and performs
// the identical atomic check-and-commit as the direct path, scoped to
// the record's frozen day-set.  The status flip is conditioned on the
// record still being pending at the moment of commit: when two
// administrators race, exactly one sees the transition apply and the
// other gets ErrAlreadyProcessed.  If any frozen day has been taken in
// the meantime the whole unit rolls back and the record stays pending.
func (s *HireService) ApproveHire(ctx context.Context, hireID uint64) (*model.HireRecord, *model.PayableOrder, error) {
	guideID, err := s.hires.GuideIDByHire(ctx, hireID)
	if err != nil {
		return nil, nil, err
	}
	tx, err := s.guides.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	guide, err := s.guides.GetForUpdateTx(ctx, tx, guideID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.hires.UpdateStatusGuardedTx(ctx, tx, hireID, model.StatusPending, model.StatusApproved); err != nil {
		return nil, nil, err
	}
	hire, err := s.hires.GetByIDTx(ctx, tx, hireID)
	if err != nil {
		return nil, nil, err
	}
	free, err := s.guides.ListFreeDaysTx(ctx, tx, guideID)
	if err != nil {
		return nil, nil, err
	}
	if missing := missingDays(hire.Days, free); len(missing) > 0 {
		return nil, nil, &repository.DatesUnavailableError{Days: missing}
	}
	if err := s.guides.RemoveDaysTx(ctx, tx, guideID, hire.Days); err != nil {
		return nil, nil, err
	}
	// The payable order uses the frozen quote from the record, never a
	// recomputation from the guide's current rate.
	order, err := s.orders.CreatePayableOrderTx(ctx, tx, hire.ID, hire.TotalPrice, hire.Currency)
	if err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	committed = true
	s.publishApproved(ctx, hire, guide, order)
	return hire, order, nil
}

// RejectOrCancelHire applies a rejecting or cancelling transition.  For
// a record that holds days (approved or confirmed) the compensation —
// returning the still-future part of the frozen day-set to the
// calendar — happens atomically with the status flip.  A pending
// rejection needs no compensation because pending requests never
// removed days.  Transitions outside the table fail with
// ErrInvalidTransition.
func (s *HireService) RejectOrCancelHire(ctx context.Context, hireID uint64, target model.HireStatus) (*model.HireRecord, error) {
	if target != model.StatusRejected && target != model.StatusCancelled {
		return nil, repository.ErrInvalidTransition
	}
	return s.transition(ctx, hireID, target)
}

// CompleteHire moves an approved or confirmed hire to completed.  The
// days were consumed by the hire actually happening, so nothing is
// returned to the calendar.
func (s *HireService) CompleteHire(ctx context.Context, hireID uint64) (*model.HireRecord, error) {
	return s.transition(ctx, hireID, model.StatusCompleted)
}

// transition performs a guarded status change under the guide lock,
// with compensation when a day-holding record is released.
func (s *HireService) transition(ctx context.Context, hireID uint64, target model.HireStatus) (*model.HireRecord, error) {
	guideID, err := s.hires.GuideIDByHire(ctx, hireID)
	if err != nil {
		return nil, err
	}
	tx, err := s.guides.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := s.guides.GetForUpdateTx(ctx, tx, guideID); err != nil {
		return nil, err
	}
	hire, err := s.hires.GetByIDTx(ctx, tx, hireID)
	if err != nil {
		return nil, err
	}
	if !hire.Status.CanTransition(target) {
		return nil, repository.ErrInvalidTransition
	}
	if err := s.hires.UpdateStatusGuardedTx(ctx, tx, hireID, hire.Status, target); err != nil {
		return nil, err
	}
	releasing := hire.Status.HoldsDays() && (target == model.StatusRejected || target == model.StatusCancelled)
	if releasing {
		if err := s.guides.AddDaysTx(ctx, tx, guideID, hire.Days); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	hire.Status = target
	return hire, nil
}

// SetPaymentStatus flips the payment flag along the unpaid -> paid ->
// refunded chain.  The calendar is never involved, so this runs as a
// single guarded UPDATE outside any guide lock.
func (s *HireService) SetPaymentStatus(ctx context.Context, hireID uint64, target model.PaymentStatus) (*model.HireRecord, error) {
	if !target.Valid() {
		return nil, repository.ErrInvalidTransition
	}
	hire, err := s.hires.GetByID(ctx, hireID)
	if err != nil {
		return nil, err
	}
	if !hire.PaymentStatus.CanTransition(target) {
		return nil, repository.ErrInvalidTransition
	}
	if err := s.hires.UpdatePaymentStatusGuarded(ctx, hireID, hire.PaymentStatus, target); err != nil {
		return nil, err
	}
	hire.PaymentStatus = target
	return hire, nil
}

// Availability is the read-only view served to requesters before they
// pick days.  PricePerDay is converted into the requested display
// currency when one is given.
type Availability struct {
	GuideID     uint64   `json:"guide_id"`
	GuideName   string   `json:"guide_name"`
	IsHireable  bool     `json:"is_hireable"`
	PricePerDay *float64 `json:"price_per_day,omitempty"`
	Currency    string   `json:"currency,omitempty"`
	FreeDays    []string `json:"free_days"`
}

// GuideAvailability lists a guide's free days.  The result is a
// snapshot for display; any reservation re-checks inside its own
// transaction, so serving a slightly stale copy (or a cached one) is
// harmless.
func (s *HireService) GuideAvailability(ctx context.Context, guideID uint64, displayCurrency string) (*Availability, error) {
	guide, err := s.guides.GetByID(ctx, guideID)
	if err != nil {
		return nil, err
	}
	days, err := s.guides.ListFreeDays(ctx, guideID)
	if err != nil {
		return nil, err
	}
	av := &Availability{
		GuideID:    guide.ID,
		GuideName:  guide.FullName,
		IsHireable: guide.Hireable(),
		Currency:   guide.Currency,
		FreeDays:   days,
	}
	if guide.PricePerDay != nil {
		price := *guide.PricePerDay
		if displayCurrency != "" && displayCurrency != guide.Currency {
			rates, err := s.rates.Snapshot(ctx)
			if err != nil {
				return nil, err
			}
			price, err = pricing.Convert(price, guide.Currency, displayCurrency, rates)
			if err != nil {
				return nil, err
			}
			av.Currency = displayCurrency
		}
		av.PricePerDay = &price
	}
	return av, nil
}

// HistoryByGuide returns every hire record for a guide, newest first.
func (s *HireService) HistoryByGuide(ctx context.Context, guideID uint64) ([]model.HireRecord, error) {
	if _, err := s.guides.GetByID(ctx, guideID); err != nil {
		return nil, err
	}
	return s.hires.ListByGuide(ctx, guideID)
}

// HistoryByRequester returns every hire record created under a
// requester contact, newest first.
func (s *HireService) HistoryByRequester(ctx context.Context, contact string) ([]model.HireRecord, error) {
	return s.hires.ListByRequester(ctx, contact)
}

func (s *HireService) publishConfirmed(ctx context.Context, hire *model.HireRecord, guide *model.Guide, order *model.PayableOrder) {
	if s.notify == nil {
		return
	}
	if err := s.notify.HireConfirmed(ctx, buildEvent(hire, guide, order)); err != nil {
		log.Printf("hire service: confirm notification failed for hire %d: %v", hire.ID, err)
	}
}

func (s *HireService) publishApproved(ctx context.Context, hire *model.HireRecord, guide *model.Guide, order *model.PayableOrder) {
	if s.notify == nil {
		return
	}
	if err := s.notify.HireApproved(ctx, buildEvent(hire, guide, order)); err != nil {
		log.Printf("hire service: approve notification failed for hire %d: %v", hire.ID, err)
	}
}

func buildEvent(hire *model.HireRecord, guide *model.Guide, order *model.PayableOrder) queue.HireEvent {
	ev := queue.HireEvent{
		EventID:          uuid.NewString(),
		HireID:           hire.ID,
		GuideID:          hire.GuideID,
		GuideName:        guide.FullName,
		RequesterName:    hire.RequesterName,
		RequesterContact: hire.RequesterContact,
		Days:             hire.Days,
		TotalPrice:       hire.TotalPrice,
		Currency:         hire.Currency,
		Status:           string(hire.Status),
		OccurredAt:       time.Now().UTC().Format(time.RFC3339),
	}
	if order != nil {
		ev.OrderRef = order.OrderRef
	}
	return ev
}
