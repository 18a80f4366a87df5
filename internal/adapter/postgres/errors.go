package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hairlooks/salonbridge/internal/domain"
)

// MapError converts pgx/pgconn errors to domain errors.
// context.DeadlineExceeded and context.Canceled pass through unmapped,
// pgx.ErrNoRows becomes domain.ErrNotFound, and any other driver or
// I/O failure is wrapped in domain.ErrStorage so callers can treat the
// durable store as a single fault domain.
func MapError(err error, op string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	return fmt.Errorf("%s: %w: %v", op, domain.ErrStorage, err)
}
