// Package sync runs the daily forwarding pass: read the day's buffered
// records, collapse them to one contact per email, push each contact
// downstream and retire the records.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hairlooks/salonbridge/internal/domain"
	"github.com/hairlooks/salonbridge/internal/service/aggregate"
)

// Store reads and retires buffered records.
type Store interface {
	Unprocessed(ctx context.Context, day *time.Time) ([]domain.Intention, error)
	MarkProcessed(ctx context.Context, ids []int64) error
}

// Forwarder pushes one consolidated contact downstream. The boolean
// result carries the outcome; failure details stay in the forwarder's
// own logs.
type Forwarder interface {
	Forward(ctx context.Context, contact domain.Contact) bool
}

// Service is the sync orchestrator.
type Service struct {
	store     Store
	forwarder Forwarder
	log       *slog.Logger
}

// New creates the sync service.
func New(store Store, forwarder Forwarder, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		forwarder: forwarder,
		log:       logger.With("service", "sync"),
	}
}

// RunDailySync processes all unprocessed records created on the target
// day. A nil target means yesterday in UTC, matching the scheduled
// just-after-midnight run.
//
// Every fetched record is marked processed after the forwarding pass,
// whether its contact was forwarded successfully or not. A permanently
// failing contact therefore costs one failed attempt per run instead of
// blocking the buffer forever; the tradeoff is surfaced in the
// succeeded/failed tally, not in retained buffer state.
func (s *Service) RunDailySync(ctx context.Context, target *time.Time) (domain.SyncResult, error) {
	day := yesterdayUTC()
	if target != nil {
		day = target.UTC()
	}
	result := domain.SyncResult{Date: day.Format(time.DateOnly)}

	records, err := s.store.Unprocessed(ctx, &day)
	if err != nil {
		return result, fmt.Errorf("fetch unprocessed records: %w", err)
	}
	result.Records = len(records)

	if len(records) == 0 {
		s.log.InfoContext(ctx, "nothing to sync", slog.String("date", result.Date))
		return result, nil
	}

	contacts := aggregate.Aggregate(records)
	result.Contacts = len(contacts)

	for _, contact := range contacts {
		if s.forwarder.Forward(ctx, contact) {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}

	ids := make([]int64, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
	}
	if err := s.store.MarkProcessed(ctx, ids); err != nil {
		return result, fmt.Errorf("mark records processed: %w", err)
	}

	s.log.InfoContext(ctx, "daily sync finished",
		slog.String("date", result.Date),
		slog.Int("records", result.Records),
		slog.Int("contacts", result.Contacts),
		slog.Int("succeeded", result.Succeeded),
		slog.Int("failed", result.Failed),
	)
	return result, nil
}

// yesterdayUTC returns midnight UTC of the previous day.
func yesterdayUTC() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}
