package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/hairlooks/salonbridge/internal/domain"
)

// unmarshalLenient decodes raw into p when the shape fits. A shape
// mismatch (a string where an object was expected, an array at the
// top level) leaves p zero-valued so the email scan can still run;
// only syntactically invalid JSON is an error.
func unmarshalLenient(raw []byte, p *webhookPayload) error {
	if !json.Valid(raw) {
		return errors.New("invalid json")
	}
	if err := json.Unmarshal(raw, p); err != nil {
		*p = webhookPayload{}
	}
	return nil
}

// webhookPayload is the expected Salonhub notification shape. The
// format is not final on the Salonhub side, so decoding is best-effort:
// every field is optional and the raw body is always retained.
type webhookPayload struct {
	EventType string `json:"eventType"`
	Customer  *struct {
		Email     string `json:"email"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Phone     string `json:"phone"`
	} `json:"customer"`
	Appointment *struct {
		SalonID     string   `json:"salonId"`
		SalonName   string   `json:"salonName"`
		StylistID   string   `json:"stylistId"`
		StylistName string   `json:"stylistName"`
		Treatment   string   `json:"treatment"`
		Price       *float64 `json:"price"`
		Date        string   `json:"date"`
	} `json:"appointment"`
	CampaignSource string `json:"campaignSource"`
}

// classifyKind maps the notification's event type onto a record kind.
// Anything that mentions an appointment and is not a cancellation is a
// confirmed booking; everything else is an intention.
func classifyKind(eventType string) domain.Kind {
	et := strings.ToLower(eventType)
	if strings.Contains(et, "appointment") && !strings.Contains(et, "cancel") {
		return domain.KindAppointment
	}
	return domain.KindIntention
}

// buildRecord converts a decoded payload into a buffer record. The raw
// body is always retained verbatim.
func buildRecord(p webhookPayload, raw []byte) domain.Intention {
	rec := domain.Intention{
		Kind:           classifyKind(p.EventType),
		CampaignSource: optional(p.CampaignSource),
		RawPayload:     optional(string(raw)),
	}
	if c := p.Customer; c != nil {
		rec.Email = c.Email
		rec.FirstName = optional(c.FirstName)
		rec.LastName = optional(c.LastName)
		rec.Phone = optional(c.Phone)
	}
	if a := p.Appointment; a != nil {
		rec.SalonID = optional(a.SalonID)
		rec.SalonName = optional(a.SalonName)
		rec.StylistID = optional(a.StylistID)
		rec.StylistName = optional(a.StylistName)
		rec.Treatment = optional(a.Treatment)
		rec.Price = a.Price
		if t, err := time.Parse(time.RFC3339, a.Date); err == nil {
			rec.AppointmentDate = &t
		}
	}
	return rec
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// extractEmail scans the raw JSON document for the first string value
// under an email-ish key that looks like an address. The scan walks the
// token stream depth-first in document order, so the result is
// deterministic for any given body.
func extractEmail(raw []byte) string {
	dec := json.NewDecoder(bytes.NewReader(raw))

	type frame struct {
		object  bool
		wantKey bool
	}
	var stack []frame
	var key string

	for {
		tok, err := dec.Token()
		if err != nil {
			return ""
		}

		var cur *frame
		if len(stack) > 0 {
			cur = &stack[len(stack)-1]
		}

		switch t := tok.(type) {
		case json.Delim:
			switch t {
			case '{', '[':
				// The container is the value for the pending key.
				if cur != nil && cur.object {
					cur.wantKey = true
				}
				stack = append(stack, frame{object: t == '{', wantKey: t == '{'})
			case '}', ']':
				stack = stack[:len(stack)-1]
				if len(stack) == 0 {
					return ""
				}
			}
		case string:
			if cur == nil || !cur.object {
				continue
			}
			if cur.wantKey {
				key = t
				cur.wantKey = false
				continue
			}
			cur.wantKey = true
			if emailKey(key) && strings.Contains(t, "@") {
				return t
			}
		default:
			if cur != nil && cur.object {
				cur.wantKey = true
			}
		}
	}
}

// emailKey matches the recognized key aliases, insensitive to case and
// to "-"/"_" separators: email, e-mail, emailAddress, email_address,
// customerEmail and the like.
func emailKey(key string) bool {
	k := strings.ToLower(key)
	k = strings.ReplaceAll(k, "-", "")
	k = strings.ReplaceAll(k, "_", "")
	switch k {
	case "email", "emailaddress", "customeremail":
		return true
	}
	return false
}
