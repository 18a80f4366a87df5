package domain

import "time"

// Klaviyo metric names emitted per contact after aggregation.
const (
	EventAppointmentMade      = "appointmentMade"
	EventAppointmentIntention = "appointmentIntention"
)

// Contact is one consolidated record ready to forward to Klaviyo.
// It is scoped to a single sync run and never persisted: exactly one
// Contact exists per distinct normalized email in the run's input.
type Contact struct {
	Email            string
	FirstName        *string
	LastName         *string
	Phone            *string
	EventName        string
	SalonID          *string
	SalonName        *string
	StylistID        *string
	StylistName      *string
	Treatment        *string
	Price            *float64
	AppointmentDate  *time.Time
	CampaignSource   *string
	IntentionCount   int
	AppointmentCount int
}
