// Package ingest accepts raw Salonhub webhook notifications, verifies
// their signature and buffers them as intention records. Parsing is
// deliberately forgiving: a notification with a findable email is
// always buffered, whatever else its shape.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/hairlooks/salonbridge/internal/config"
	"github.com/hairlooks/salonbridge/internal/domain"
)

// Store buffers accepted records.
type Store interface {
	Insert(ctx context.Context, rec *domain.Intention) (int64, error)
}

// Ingest outcomes.
const (
	StatusBuffered = "buffered"
	StatusIgnored  = "ignored"
)

// Result reports what happened to one notification.
type Result struct {
	Status string      `json:"status"`
	ID     int64       `json:"id,omitempty"`
	Kind   domain.Kind `json:"kind,omitempty"`
}

// Service is the webhook ingestion service.
type Service struct {
	store Store
	cfg   config.WebhookConfig
	log   *slog.Logger
}

// New creates the ingestion service.
func New(store Store, cfg config.WebhookConfig, logger *slog.Logger) *Service {
	return &Service{
		store: store,
		cfg:   cfg,
		log:   logger.With("service", "ingest"),
	}
}

// Ingest verifies and buffers one raw notification. A notification
// without a findable email is acknowledged but ignored; everything else
// becomes exactly one buffer record.
func (s *Service) Ingest(ctx context.Context, raw []byte, signature string) (Result, error) {
	if s.cfg.Secret == "" {
		s.log.WarnContext(ctx, "webhook secret not configured, skipping signature verification")
	} else if !validSignature(s.cfg.Secret, raw, signature) {
		return Result{}, fmt.Errorf("verify webhook signature: %w", domain.ErrUnauthorized)
	}

	if !utf8.Valid(raw) {
		return Result{}, fmt.Errorf("webhook body is not valid UTF-8: %w", domain.ErrValidation)
	}

	var payload webhookPayload
	if err := unmarshalLenient(raw, &payload); err != nil {
		return Result{}, fmt.Errorf("decode webhook payload: %w", domain.ErrValidation)
	}

	rec := buildRecord(payload, raw)
	if domain.NormalizeEmail(rec.Email) == "" {
		rec.Email = extractEmail(raw)
	}
	if domain.NormalizeEmail(rec.Email) == "" {
		s.log.InfoContext(ctx, "notification without email ignored",
			slog.String("event_type", payload.EventType),
		)
		return Result{Status: StatusIgnored}, nil
	}

	id, err := s.store.Insert(ctx, &rec)
	if err != nil {
		return Result{}, fmt.Errorf("buffer notification: %w", err)
	}

	s.log.InfoContext(ctx, "notification buffered",
		slog.Int64("id", id),
		slog.String("kind", string(rec.Kind)),
		slog.String("event_type", payload.EventType),
	)
	return Result{Status: StatusBuffered, ID: id, Kind: rec.Kind}, nil
}
