package model

import "time"

// HireRecord is the durable outcome of a hire request.  The day-set in
// Days is a frozen snapshot taken at creation time and is never
// recomputed from the live calendar afterwards; likewise TotalPrice and
// BaseTotalPrice are a frozen quote that survives later changes to the
// guide's day rate.  Records are never deleted – only Status and
// PaymentStatus change – so the table is a full audit trail.
//
// Fields:
//  ID               – primary key identifier.
//  GuideID          – guide being hired.
//  RequesterName    – name supplied by the requester.
//  RequesterContact – email or phone used to look up hire history.
//  Days             – exact set of ISO dates claimed (write-once).
//  NumDays          – len(Days), denormalized for listings.
//  TotalPrice       – frozen quote in Currency.
//  BaseTotalPrice   – frozen quote in the guide's BaseCurrency.
//  Currency         – display currency the requester asked for.
//  BaseCurrency     – the guide's own currency.
//  ExchangeRate     – pair rate applied at creation (1 when Currency ==
//                     BaseCurrency).
//  Status           – lifecycle state, see HireStatus.
//  PaymentStatus    – payment state, see PaymentStatus.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type HireRecord struct {
	ID               uint64        `json:"id"`                // hires.id
	GuideID          uint64        `json:"guide_id"`          // hires.guide_id
	RequesterName    string        `json:"requester_name"`    // hires.requester_name
	RequesterContact string        `json:"requester_contact"` // hires.requester_contact
	Days             []string      `json:"days"`              // hire_days.day rows, sorted ascending
	NumDays          int           `json:"num_days"`          // hires.num_days
	TotalPrice       float64       `json:"total_price"`       // hires.total_price
	BaseTotalPrice   float64       `json:"base_total_price"`  // hires.base_total_price
	Currency         string        `json:"currency"`          // hires.currency
	BaseCurrency     string        `json:"base_currency"`     // hires.base_currency
	ExchangeRate     float64       `json:"exchange_rate"`     // hires.exchange_rate
	Status           HireStatus    `json:"status"`            // hires.status
	PaymentStatus    PaymentStatus `json:"payment_status"`    // hires.payment_status
	CreatedAt        time.Time     `json:"created_at"`        // hires.created_at
	UpdatedAt        time.Time     `json:"updated_at"`        // hires.updated_at
}

// PayableOrder is the minimal record handed to the external payment
// subsystem when a hire is confirmed or approved.  hire_id is unique so
// a retried confirmation can never produce a second payable order.
type PayableOrder struct {
	ID        uint64    `json:"id"`         // payable_orders.id
	OrderRef  string    `json:"order_ref"`  // payable_orders.order_ref, opaque reference for the payment side
	HireID    uint64    `json:"hire_id"`    // payable_orders.hire_id (unique)
	Amount    float64   `json:"amount"`     // payable_orders.amount
	Currency  string    `json:"currency"`   // payable_orders.currency
	CreatedAt time.Time `json:"created_at"` // payable_orders.created_at
}
