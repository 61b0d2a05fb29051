// Package queue defines the hire notification events exchanged over
// the message broker, the publisher that emits them and the background
// consumer that records them.  Notifications are strictly
// fire-and-forget: a broker failure is logged and never rolls back the
// reservation that triggered it.
package queue

// Queue names for hire lifecycle notifications.  Durable queues, one
// per event kind, declared idempotently by both publisher and consumer.
const (
	HireConfirmedQueue = "hire.confirmed"
	HireApprovedQueue  = "hire.approved"
)

// HireEvent is published when a hire is confirmed (direct booking) or
// approved (manual workflow).  It carries enough information for
// downstream consumers to notify, log or feed analytics without
// querying the primary database.  EventID is a fresh uuid per publish
// so consumers can deduplicate redeliveries.
type HireEvent struct {
	EventID          string   `json:"event_id"`
	HireID           uint64   `json:"hire_id"`
	GuideID          uint64   `json:"guide_id"`
	GuideName        string   `json:"guide_name"`
	RequesterName    string   `json:"requester_name"`
	RequesterContact string   `json:"requester_contact"`
	Days             []string `json:"days"`
	TotalPrice       float64  `json:"total_price"`
	Currency         string   `json:"currency"`
	OrderRef         string   `json:"order_ref"`
	Status           string   `json:"status"`
	OccurredAt       string   `json:"occurred_at"`
}
