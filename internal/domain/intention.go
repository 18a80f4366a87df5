package domain

import "time"

// Kind distinguishes a completed booking from an abandoned one.
type Kind string

const (
	// KindIntention marks a visitor who started the booking flow but
	// never completed it.
	KindIntention Kind = "intention"
	// KindAppointment marks a confirmed booking.
	KindAppointment Kind = "appointment"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindIntention || k == KindAppointment
}

// Intention is one buffered Salonhub notification. Records are
// append-only: after insert, only the Processed flag may change, and
// only from false to true.
type Intention struct {
	ID              int64      `db:"id"`
	Email           string     `db:"email"`
	FirstName       *string    `db:"first_name"`
	LastName        *string    `db:"last_name"`
	Phone           *string    `db:"phone"`
	Kind            Kind       `db:"kind"`
	SalonID         *string    `db:"salon_id"`
	SalonName       *string    `db:"salon_name"`
	StylistID       *string    `db:"stylist_id"`
	StylistName     *string    `db:"stylist_name"`
	Treatment       *string    `db:"treatment"`
	Price           *float64   `db:"price"`
	AppointmentDate *time.Time `db:"appointment_date"`
	CampaignSource  *string    `db:"campaign_source"`
	RawPayload      *string    `db:"raw_payload"`
	CreatedAt       time.Time  `db:"created_at"`
	Processed       bool       `db:"processed"`
}

// BufferCounts summarizes buffer state for the health endpoint.
type BufferCounts struct {
	Total       int `json:"total"`
	Unprocessed int `json:"unprocessed"`
	Processed   int `json:"processed"`
}
