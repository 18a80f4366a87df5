package aggregate

import (
	"testing"
	"time"

	"github.com/hairlooks/salonbridge/internal/domain"
)

var base = time.Date(2026, 8, 22, 10, 0, 0, 0, time.UTC)

func rec(email string, kind domain.Kind, minutes int, mutate ...func(*domain.Intention)) domain.Intention {
	r := domain.Intention{
		Email:     email,
		Kind:      kind,
		CreatedAt: base.Add(time.Duration(minutes) * time.Minute),
	}
	for _, m := range mutate {
		m(&r)
	}
	return r
}

func strptr(s string) *string { return &s }

func TestAggregate_EmptyInput(t *testing.T) {
	t.Parallel()

	if got := Aggregate(nil); len(got) != 0 {
		t.Errorf("nil input: got %d contacts, want 0", len(got))
	}
	if got := Aggregate([]domain.Intention{}); len(got) != 0 {
		t.Errorf("empty input: got %d contacts, want 0", len(got))
	}
}

func TestAggregate_OneContactPerNormalizedEmail(t *testing.T) {
	t.Parallel()

	records := []domain.Intention{
		rec("A@x.com", domain.KindIntention, 0),
		rec("a@x.com ", domain.KindIntention, 1),
		rec("b@x.com", domain.KindIntention, 2),
		rec(" B@X.COM", domain.KindAppointment, 3),
		rec("c@x.com", domain.KindAppointment, 4),
	}

	contacts := Aggregate(records)
	if len(contacts) != 3 {
		t.Fatalf("contacts: got %d, want 3", len(contacts))
	}

	// Groups appear in first-seen order with normalized keys.
	wantEmails := []string{"a@x.com", "b@x.com", "c@x.com"}
	for i, want := range wantEmails {
		if contacts[i].Email != want {
			t.Errorf("contacts[%d].Email: got %q, want %q", i, contacts[i].Email, want)
		}
	}
}

func TestAggregate_Classification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		kinds     []domain.Kind
		wantEvent string
	}{
		{"only intentions", []domain.Kind{domain.KindIntention, domain.KindIntention}, domain.EventAppointmentIntention},
		{"single appointment", []domain.Kind{domain.KindAppointment}, domain.EventAppointmentMade},
		{"mixed", []domain.Kind{domain.KindIntention, domain.KindAppointment, domain.KindIntention}, domain.EventAppointmentMade},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			records := make([]domain.Intention, len(tt.kinds))
			for i, k := range tt.kinds {
				records[i] = rec("a@x.com", k, i)
			}

			contacts := Aggregate(records)
			if len(contacts) != 1 {
				t.Fatalf("contacts: got %d, want 1", len(contacts))
			}
			if contacts[0].EventName != tt.wantEvent {
				t.Errorf("event: got %q, want %q", contacts[0].EventName, tt.wantEvent)
			}
		})
	}
}

func TestAggregate_CountsAreExact(t *testing.T) {
	t.Parallel()

	records := []domain.Intention{
		rec("a@x.com", domain.KindIntention, 0),
		rec("a@x.com", domain.KindIntention, 1),
		rec("a@x.com", domain.KindAppointment, 2),
		rec("a@x.com", domain.KindIntention, 3),
	}

	contacts := Aggregate(records)
	if len(contacts) != 1 {
		t.Fatalf("contacts: got %d, want 1", len(contacts))
	}
	if contacts[0].IntentionCount != 3 {
		t.Errorf("intention count: got %d, want 3", contacts[0].IntentionCount)
	}
	if contacts[0].AppointmentCount != 1 {
		t.Errorf("appointment count: got %d, want 1", contacts[0].AppointmentCount)
	}
}

func TestAggregate_FieldsResolveIndependently(t *testing.T) {
	t.Parallel()

	// Older record has the phone, newer has the name: the contact must
	// combine both, each field sourced from its own record.
	records := []domain.Intention{
		rec("a@x.com", domain.KindIntention, 0, func(r *domain.Intention) {
			r.Phone = strptr("+31612345678")
		}),
		rec("a@x.com", domain.KindIntention, 10, func(r *domain.Intention) {
			r.FirstName = strptr("Anna")
		}),
	}

	contacts := Aggregate(records)
	if len(contacts) != 1 {
		t.Fatalf("contacts: got %d, want 1", len(contacts))
	}
	c := contacts[0]
	if c.FirstName == nil || *c.FirstName != "Anna" {
		t.Errorf("first name: got %v, want Anna", c.FirstName)
	}
	if c.Phone == nil || *c.Phone != "+31612345678" {
		t.Errorf("phone: got %v, want +31612345678", c.Phone)
	}
}

func TestAggregate_NewestNonEmptyWins(t *testing.T) {
	t.Parallel()

	records := []domain.Intention{
		rec("a@x.com", domain.KindIntention, 0, func(r *domain.Intention) {
			r.FirstName = strptr("Old")
		}),
		rec("a@x.com", domain.KindIntention, 5, func(r *domain.Intention) {
			r.FirstName = strptr("New")
		}),
		// Newest record has an empty value: it must not shadow "New".
		rec("a@x.com", domain.KindIntention, 10, func(r *domain.Intention) {
			r.FirstName = strptr("")
		}),
	}

	contacts := Aggregate(records)
	if contacts[0].FirstName == nil || *contacts[0].FirstName != "New" {
		t.Errorf("first name: got %v, want New", contacts[0].FirstName)
	}
}

func TestAggregate_DetailsFromLatestAppointment(t *testing.T) {
	t.Parallel()

	records := []domain.Intention{
		rec("a@x.com", domain.KindAppointment, 0, func(r *domain.Intention) {
			r.Treatment = strptr("wash")
			r.SalonName = strptr("Centrum")
		}),
		rec("a@x.com", domain.KindAppointment, 5, func(r *domain.Intention) {
			r.Treatment = strptr("cut")
		}),
		// A later intention must not override appointment details.
		rec("a@x.com", domain.KindIntention, 10, func(r *domain.Intention) {
			r.Treatment = strptr("color")
		}),
	}

	contacts := Aggregate(records)
	c := contacts[0]
	if c.Treatment == nil || *c.Treatment != "cut" {
		t.Errorf("treatment: got %v, want cut (latest appointment)", c.Treatment)
	}
	// Detail fields come from the detail record as a block: the second
	// appointment has no salon name, so none is set.
	if c.SalonName != nil {
		t.Errorf("salon name: got %v, want nil", c.SalonName)
	}
}

func TestAggregate_DetailsFromLatestOverallWhenNoAppointment(t *testing.T) {
	t.Parallel()

	records := []domain.Intention{
		rec("a@x.com", domain.KindIntention, 0, func(r *domain.Intention) {
			r.Treatment = strptr("wash")
		}),
		rec("a@x.com", domain.KindIntention, 5, func(r *domain.Intention) {
			r.Treatment = strptr("color")
			r.Price = func() *float64 { p := 85.0; return &p }()
		}),
	}

	contacts := Aggregate(records)
	c := contacts[0]
	if c.Treatment == nil || *c.Treatment != "color" {
		t.Errorf("treatment: got %v, want color", c.Treatment)
	}
	if c.Price == nil || *c.Price != 85.0 {
		t.Errorf("price: got %v, want 85.0", c.Price)
	}
}

func TestAggregate_AbsentOptionalFieldsStayAbsent(t *testing.T) {
	t.Parallel()

	contacts := Aggregate([]domain.Intention{rec("a@x.com", domain.KindIntention, 0)})
	c := contacts[0]
	if c.FirstName != nil || c.LastName != nil || c.Phone != nil || c.CampaignSource != nil {
		t.Errorf("optional fields must stay nil: %+v", c)
	}
}

func TestAggregate_EndToEndScenario(t *testing.T) {
	t.Parallel()

	// Mirrors the canonical two-record scenario: an intention followed
	// by an appointment under a differently-cased, padded email.
	records := []domain.Intention{
		rec("A@x.com", domain.KindIntention, 0),
		rec("a@x.com ", domain.KindAppointment, 30, func(r *domain.Intention) {
			r.Treatment = strptr("cut")
		}),
	}

	contacts := Aggregate(records)
	if len(contacts) != 1 {
		t.Fatalf("contacts: got %d, want 1", len(contacts))
	}
	c := contacts[0]
	if c.Email != "a@x.com" {
		t.Errorf("email: got %q, want a@x.com", c.Email)
	}
	if c.EventName != domain.EventAppointmentMade {
		t.Errorf("event: got %q, want %q", c.EventName, domain.EventAppointmentMade)
	}
	if c.IntentionCount != 1 || c.AppointmentCount != 1 {
		t.Errorf("counts: got %d/%d, want 1/1", c.IntentionCount, c.AppointmentCount)
	}
	if c.Treatment == nil || *c.Treatment != "cut" {
		t.Errorf("treatment: got %v, want cut", c.Treatment)
	}
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	records := []domain.Intention{
		rec("a@x.com", domain.KindIntention, 0, func(r *domain.Intention) {
			r.FirstName = strptr("Anna")
		}),
	}
	before := records[0]

	Aggregate(records)

	if records[0] != before {
		t.Error("input record was mutated")
	}
}
