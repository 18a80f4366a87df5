// Package aggregate collapses buffered intentions into one outbound
// contact per normalized email. Aggregation is a pure function over an
// immutable input slice: it never mutates records and has no side
// effects, which keeps every merge rule independently testable.
package aggregate

import (
	"github.com/hairlooks/salonbridge/internal/domain"
)

// Aggregate merges records into one domain.Contact per distinct
// normalized email. The input must be ordered by creation time
// ascending (the buffer store guarantees this); within that contract,
// "latest" means maximum creation timestamp with later input position
// winning ties.
//
// Classification: a group with at least one appointment-kind record is
// EventAppointmentMade, otherwise EventAppointmentIntention.
// Appointment details (salon, stylist, treatment, price, date) come
// from the latest appointment-kind record if one exists, else from the
// latest record overall. Name, phone, and campaign source are resolved
// independently per field: the most recently created record with a
// non-empty value wins.
//
// Output preserves the order in which emails first appear in the input.
func Aggregate(records []domain.Intention) []domain.Contact {
	if len(records) == 0 {
		return nil
	}

	var order []string
	groups := make(map[string][]domain.Intention)
	for _, rec := range records {
		key := domain.NormalizeEmail(rec.Email)
		if key == "" {
			// Records without an email are filtered before buffering;
			// skip rather than fail if one slips through.
			continue
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], rec)
	}

	contacts := make([]domain.Contact, 0, len(order))
	for _, key := range order {
		contacts = append(contacts, merge(key, groups[key]))
	}
	return contacts
}

// merge builds the consolidated contact for one email group.
func merge(email string, group []domain.Intention) domain.Contact {
	var intentions, appointments int
	latest, latestAppt := 0, -1
	for i, rec := range group {
		if rec.Kind == domain.KindAppointment {
			appointments++
			if latestAppt < 0 || !rec.CreatedAt.Before(group[latestAppt].CreatedAt) {
				latestAppt = i
			}
		} else {
			intentions++
		}
		if !rec.CreatedAt.Before(group[latest].CreatedAt) {
			latest = i
		}
	}

	eventName := domain.EventAppointmentIntention
	if appointments > 0 {
		eventName = domain.EventAppointmentMade
	}

	detail := group[latest]
	if latestAppt >= 0 {
		detail = group[latestAppt]
	}

	return domain.Contact{
		Email:            email,
		FirstName:        newestNonEmpty(group, func(r domain.Intention) *string { return r.FirstName }),
		LastName:         newestNonEmpty(group, func(r domain.Intention) *string { return r.LastName }),
		Phone:            newestNonEmpty(group, func(r domain.Intention) *string { return r.Phone }),
		EventName:        eventName,
		SalonID:          detail.SalonID,
		SalonName:        detail.SalonName,
		StylistID:        detail.StylistID,
		StylistName:      detail.StylistName,
		Treatment:        detail.Treatment,
		Price:            detail.Price,
		AppointmentDate:  detail.AppointmentDate,
		CampaignSource:   newestNonEmpty(group, func(r domain.Intention) *string { return r.CampaignSource }),
		IntentionCount:   intentions,
		AppointmentCount: appointments,
	}
}

// newestNonEmpty scans the group newest-first and returns the first
// non-empty value of the field, or nil when every record leaves it
// empty. Fields resolve independently: first name and phone may come
// from different records.
func newestNonEmpty(group []domain.Intention, field func(domain.Intention) *string) *string {
	for i := len(group) - 1; i >= 0; i-- {
		if v := field(group[i]); v != nil && *v != "" {
			return v
		}
	}
	return nil
}
