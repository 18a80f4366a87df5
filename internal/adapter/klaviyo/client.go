// Package klaviyo implements the outbound Klaviyo V3 API client.
//
// Every downstream call is independently retried with exponential
// backoff: rate-limit responses honor the server's Retry-After hint,
// everything else doubles a fixed base interval until the configured
// attempt budget is exhausted. Non-retryable 4xx responses follow the
// same bounded policy — that matches the long-observed production
// behavior and is kept as the baseline.
package klaviyo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/hairlooks/salonbridge/internal/config"
	"github.com/hairlooks/salonbridge/internal/domain"
)

// Client talks to the Klaviyo V3 API.
type Client struct {
	cfg        config.KlaviyoConfig
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client from configuration. The configuration is
// captured at construction; there is no process-wide client state.
func NewClient(cfg config.KlaviyoConfig, logger *slog.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "klaviyo"),
	}
}

// Status describes downstream connectivity for the health endpoint.
type Status struct {
	Status string `json:"status"`
	Mode   string `json:"mode"`
	ListID string `json:"list_id,omitempty"`
	Error  string `json:"error,omitempty"`
}

// UpsertProfile creates or updates the profile keyed by the contact's
// email and returns the Klaviyo profile id. Name and phone are always
// carried; salon properties only in extended mode.
func (c *Client) UpsertProfile(ctx context.Context, contact domain.Contact) (string, error) {
	attrs := profileAttributes{
		Email:       contact.Email,
		FirstName:   contact.FirstName,
		LastName:    contact.LastName,
		PhoneNumber: contact.Phone,
	}

	if c.cfg.Extended() {
		props := make(map[string]any)
		putStr(props, "salon_naam", contact.SalonName)
		putStr(props, "salon_id", contact.SalonID)
		putStr(props, "kapper_naam", contact.StylistName)
		putStr(props, "stylist_id", contact.StylistID)
		putStr(props, "laatste_behandeling", contact.Treatment)
		putStr(props, "campagne_bron", contact.CampaignSource)
		if len(props) > 0 {
			attrs.Properties = props
		}
	}

	body, err := c.do(ctx, http.MethodPost, "/profile-import", profileImportRequest{
		Data: profileData{Type: "profile", Attributes: attrs},
	})
	if err != nil {
		return "", err
	}

	var resp profileImportResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("klaviyo: decode profile response: %w", err)
	}

	c.log.InfoContext(ctx, "profile upserted",
		slog.String("email", contact.Email),
		slog.String("profile_id", resp.Data.ID),
	)
	return resp.Data.ID, nil
}

// AddToList adds the profile to the configured list. The call is
// idempotent on the Klaviyo side; without a configured list it is
// skipped, which is not an error.
func (c *Client) AddToList(ctx context.Context, profileID string) error {
	if c.cfg.ListID == "" {
		c.log.DebugContext(ctx, "no list configured, skipping list add")
		return nil
	}

	path := "/lists/" + c.cfg.ListID + "/relationships/profiles"
	_, err := c.do(ctx, http.MethodPost, path, listMembersRequest{
		Data: []listMember{{Type: "profile", ID: profileID}},
	})
	if err != nil {
		return err
	}

	c.log.InfoContext(ctx, "profile added to list",
		slog.String("profile_id", profileID),
		slog.String("list_id", c.cfg.ListID),
	)
	return nil
}

// CreateEvent records the contact's classification event with counts
// and salon properties. Events are only emitted in extended mode.
func (c *Client) CreateEvent(ctx context.Context, contact domain.Contact) error {
	if !c.cfg.Extended() {
		return nil
	}

	props := map[string]any{
		"intention_count":   contact.IntentionCount,
		"appointment_count": contact.AppointmentCount,
	}
	putStr(props, "salon_naam", contact.SalonName)
	putStr(props, "salon_id", contact.SalonID)
	putStr(props, "kapper_naam", contact.StylistName)
	putStr(props, "stylist_id", contact.StylistID)
	putStr(props, "behandeling", contact.Treatment)
	putStr(props, "campagne_bron", contact.CampaignSource)
	if contact.Price != nil {
		props["prijs"] = *contact.Price
	}
	if contact.AppointmentDate != nil {
		props["afspraak_datum"] = contact.AppointmentDate.Format(time.RFC3339)
	}

	_, err := c.do(ctx, http.MethodPost, "/events", eventRequest{
		Data: eventData{
			Type: "event",
			Attributes: eventAttributes{
				Metric:     newMetricRef(contact.EventName),
				Profile:    newProfileRef(contact.Email),
				Properties: props,
				Time:       time.Now().UTC().Format(time.RFC3339),
			},
		},
	})
	if err != nil {
		return err
	}

	c.log.InfoContext(ctx, "event created",
		slog.String("email", contact.Email),
		slog.String("event", contact.EventName),
	)
	return nil
}

// Forward pushes one contact downstream: profile upsert, list add,
// event. Failures after retry exhaustion are converted to false here
// with the reason logged — they never escape to the orchestrator.
// Steps skipped by configuration still count as success.
func (c *Client) Forward(ctx context.Context, contact domain.Contact) bool {
	profileID, err := c.UpsertProfile(ctx, contact)
	if err != nil {
		c.log.ErrorContext(ctx, "forward failed: profile upsert",
			slog.String("email", contact.Email),
			slog.String("error", err.Error()),
		)
		return false
	}

	if profileID != "" {
		if err := c.AddToList(ctx, profileID); err != nil {
			c.log.ErrorContext(ctx, "forward failed: list add",
				slog.String("email", contact.Email),
				slog.String("error", err.Error()),
			)
			return false
		}
	}

	if err := c.CreateEvent(ctx, contact); err != nil {
		c.log.ErrorContext(ctx, "forward failed: event create",
			slog.String("email", contact.Email),
			slog.String("error", err.Error()),
		)
		return false
	}

	return true
}

// CheckConnection probes the API with a list read. Used by /health.
func (c *Client) CheckConnection(ctx context.Context) Status {
	st := Status{Mode: c.cfg.Mode, ListID: c.cfg.ListID}

	if _, err := c.do(ctx, http.MethodGet, "/lists", nil); err != nil {
		st.Status = "error"
		st.Error = err.Error()
		return st
	}

	st.Status = "connected"
	return st
}

// do executes one API request under the retry policy. The request is
// rebuilt for every attempt so the body can be re-sent.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body []byte
	if payload != nil {
		var err error
		if body, err = json.Marshal(payload); err != nil {
			return nil, fmt.Errorf("klaviyo: encode %s %s: %w", method, path, err)
		}
	}

	// hint carries the most recent Retry-After value from a rate-limit
	// response into the wait policy for the next attempt.
	var hint time.Duration

	operation := func() ([]byte, error) {
		data, err := c.attempt(ctx, method, path, body)
		var rl *rateLimitError
		if errors.As(err, &rl) {
			hint = rl.wait
		}
		return data, err
	}

	notify := func(err error, wait time.Duration) {
		c.log.WarnContext(ctx, "klaviyo retry",
			slog.String("method", method),
			slog.String("path", path),
			slog.Duration("wait", wait),
			slog.String("reason", err.Error()),
		)
	}

	data, err := backoff.RetryNotifyWithData(operation, c.retryPolicy(ctx, &hint), notify)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// attempt performs a single HTTP exchange. Any non-2xx status returns
// an error so the retry policy decides what happens next; 429 carries
// the server's Retry-After hint when present.
func (c *Client) attempt(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("klaviyo: create request: %w", err))
	}
	req.Header.Set("Authorization", "Klaviyo-API-Key "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("revision", c.cfg.Revision)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("klaviyo: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("klaviyo: read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		rl := &rateLimitError{method: method, path: path}
		if secs, ok := retryAfter(resp); ok {
			rl.wait = time.Duration(secs) * time.Second
		}
		return nil, rl
	}

	if resp.StatusCode >= 400 {
		// 4xx other than 429 is retried under the same bounded policy.
		return nil, fmt.Errorf("klaviyo: %s %s: status %d: %s", method, path, resp.StatusCode, truncate(data, 200))
	}

	return data, nil
}

func (c *Client) retryPolicy(ctx context.Context, hint *time.Duration) backoff.BackOffContext {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = c.cfg.InitialBackoff
	expo.Multiplier = 2
	expo.RandomizationFactor = 0
	expo.MaxElapsedTime = 0 // bounded by attempt count, not wall clock

	bounded := backoff.WithMaxRetries(expo, uint64(c.cfg.MaxAttempts-1))
	return backoff.WithContext(&retryAfterBackOff{BackOff: bounded, hint: hint}, ctx)
}

// rateLimitError marks a 429 response; wait holds the Retry-After hint
// (zero when the server sent none).
type rateLimitError struct {
	method string
	path   string
	wait   time.Duration
}

func (e *rateLimitError) Error() string {
	if e.wait > 0 {
		return fmt.Sprintf("klaviyo: %s %s: rate limited, retry after %s", e.method, e.path, e.wait)
	}
	return fmt.Sprintf("klaviyo: %s %s: rate limited", e.method, e.path)
}

// retryAfterBackOff substitutes the server's Retry-After hint for the
// computed exponential wait. The wrapped policy's NextBackOff is always
// consulted first so a hinted wait still consumes one of the bounded
// attempts.
type retryAfterBackOff struct {
	backoff.BackOff
	hint *time.Duration
}

func (b *retryAfterBackOff) NextBackOff() time.Duration {
	next := b.BackOff.NextBackOff()
	if next == backoff.Stop {
		return backoff.Stop
	}
	if wait := *b.hint; wait > 0 {
		*b.hint = 0
		return wait
	}
	return next
}

// retryAfter parses the Retry-After header in seconds.
func retryAfter(resp *http.Response) (int, bool) {
	raw := resp.Header.Get("Retry-After")
	if raw == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs < 0 {
		return 0, false
	}
	return secs, true
}

func putStr(props map[string]any, key string, value *string) {
	if value != nil && *value != "" {
		props[key] = *value
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
