package model

import "time"

// Guide represents a tour guide who can be hired by the day.  The
// available days live in a separate table keyed by (guide_id, day) and
// are mutated exclusively inside reservation transactions; the Guide
// row itself doubles as the lock target for guide-level serialization.
//
// Fields:
//  ID           – primary key identifier.
//  FullName     – display name of the guide.
//  ContactEmail – where hire notifications for this guide are sent.
//  IsActive     – whether the profile is visible at all.
//  IsHireable   – whether new hire requests are accepted.
//  PricePerDay  – day rate in the guide's own currency (nullable; a
//                 guide with no rate cannot be hired).
//  Currency     – ISO 4217 code of the day rate, e.g. "TJS".
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Guide struct {
	ID           uint64    `json:"id"`                      // guides.id
	FullName     string    `json:"full_name"`               // guides.full_name
	ContactEmail string    `json:"contact_email,omitempty"` // guides.contact_email
	IsActive     bool      `json:"is_active"`               // guides.is_active
	IsHireable   bool      `json:"is_hireable"`             // guides.is_hireable
	PricePerDay  *float64  `json:"price_per_day,omitempty"` // guides.price_per_day (nullable)
	Currency     string    `json:"currency"`                // guides.currency
	CreatedAt    time.Time `json:"created_at"`              // guides.created_at
	UpdatedAt    time.Time `json:"updated_at"`              // guides.updated_at
}

// Hireable reports whether the guide can accept a new hire request at
// all: the profile must be active, flagged hireable and carry a
// positive day rate.
func (g *Guide) Hireable() bool {
	return g.IsActive && g.IsHireable && g.PricePerDay != nil && *g.PricePerDay > 0
}
