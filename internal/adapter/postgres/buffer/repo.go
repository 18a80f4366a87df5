// Package buffer implements the durable intention buffer using PostgreSQL.
// Records are append-only; the only mutation ever applied is flipping
// the processed flag from false to true.
package buffer

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/hairlooks/salonbridge/internal/adapter/postgres"
	"github.com/hairlooks/salonbridge/internal/domain"
)

const table = "intentions"

var columns = []string{
	"id", "email", "first_name", "last_name", "phone", "kind",
	"salon_id", "salon_name", "stylist_id", "stylist_name",
	"treatment", "price", "appointment_date", "campaign_source",
	"raw_payload", "created_at", "processed",
}

var insertColumns = []string{
	"email", "first_name", "last_name", "phone", "kind",
	"salon_id", "salon_name", "stylist_id", "stylist_name",
	"treatment", "price", "appointment_date", "campaign_source",
	"raw_payload",
}

// builder is the shared statement builder with PostgreSQL placeholders.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides intention buffer persistence backed by PostgreSQL.
type Repo struct {
	q postgres.Querier
}

// New creates a new buffer repository.
func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

// Insert appends one intention to the buffer and returns its id.
// The database assigns id (strictly increasing) and created_at; both
// are written back into rec.
func (r *Repo) Insert(ctx context.Context, rec *domain.Intention) (int64, error) {
	if rec.Email == "" {
		return 0, domain.NewValidationError("email", "required")
	}
	if !rec.Kind.Valid() {
		return 0, domain.NewValidationError("kind", "unknown kind")
	}

	query, args, err := builder.
		Insert(table).
		Columns(insertColumns...).
		Values(
			rec.Email, rec.FirstName, rec.LastName, rec.Phone, rec.Kind,
			rec.SalonID, rec.SalonName, rec.StylistID, rec.StylistName,
			rec.Treatment, rec.Price, rec.AppointmentDate, rec.CampaignSource,
			rec.RawPayload,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return 0, postgres.MapError(err, "build insert intention")
	}

	row := r.q.QueryRow(ctx, query, args...)
	if err := row.Scan(&rec.ID, &rec.CreatedAt); err != nil {
		return 0, postgres.MapError(err, "insert intention")
	}

	return rec.ID, nil
}

// Unprocessed returns all records with processed = false, optionally
// restricted to records created on the given UTC calendar day, ordered
// oldest first. The ordering is what makes "most recent wins" merging
// deterministic downstream.
func (r *Repo) Unprocessed(ctx context.Context, day *time.Time) ([]domain.Intention, error) {
	q := builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"processed": false})

	if day != nil {
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		end := start.Add(24 * time.Hour)
		q = q.Where(sq.GtOrEq{"created_at": start}).Where(sq.Lt{"created_at": end})
	}

	query, args, err := q.OrderBy("created_at ASC", "id ASC").ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "build select unprocessed")
	}

	var records []domain.Intention
	if err := pgxscan.Select(ctx, r.q, &records, query, args...); err != nil {
		return nil, postgres.MapError(err, "select unprocessed")
	}

	return records, nil
}

// MarkProcessed flips processed = true for all given ids in one
// statement. Calling it with ids that are already processed is
// harmless, and an empty id set is a no-op.
func (r *Repo) MarkProcessed(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := builder.
		Update(table).
		Set("processed", true).
		Where("id = ANY(?)", ids).
		ToSql()
	if err != nil {
		return postgres.MapError(err, "build mark processed")
	}

	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "mark processed")
	}

	return nil
}

// countsSQL computes all three counts in a single scan of the table.
const countsSQL = `
SELECT COUNT(*) AS total,
       COUNT(*) FILTER (WHERE NOT processed) AS unprocessed
FROM intentions`

// Counts returns buffer totals for the health endpoint.
func (r *Repo) Counts(ctx context.Context) (domain.BufferCounts, error) {
	var counts domain.BufferCounts

	row := r.q.QueryRow(ctx, countsSQL)
	if err := row.Scan(&counts.Total, &counts.Unprocessed); err != nil {
		return domain.BufferCounts{}, postgres.MapError(err, "count intentions")
	}

	counts.Processed = counts.Total - counts.Unprocessed
	return counts, nil
}

// PurgeProcessedBefore deletes processed records created before cutoff
// and returns the number of rows removed. Unprocessed records are never
// touched. Used by cmd/cleanup.
func (r *Repo) PurgeProcessedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := builder.
		Delete(table).
		Where(sq.Eq{"processed": true}).
		Where(sq.Lt{"created_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, postgres.MapError(err, "build purge processed")
	}

	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return 0, postgres.MapError(err, "purge processed")
	}

	return tag.RowsAffected(), nil
}
