package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hairlooks/salonbridge/internal/domain"
)

// syncService defines the minimal interface needed by AdminHandler.
type syncService interface {
	RunDailySync(ctx context.Context, target *time.Time) (domain.SyncResult, error)
}

// AdminHandler serves operational endpoints.
type AdminHandler struct {
	sync syncService
	log  *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(sync syncService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{sync: sync, log: logger.With("handler", "admin")}
}

// syncResponse wraps a manual run's outcome.
type syncResponse struct {
	Status string            `json:"status"`
	Result domain.SyncResult `json:"result"`
}

// TriggerSync runs the daily sync synchronously and returns its result.
// POST /admin/sync?date=2026-08-21 — date is optional, default is
// yesterday (UTC).
func (h *AdminHandler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	var target *time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		day, err := time.ParseInLocation(time.DateOnly, raw, time.UTC)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		target = &day
	}

	h.log.InfoContext(r.Context(), "manual sync triggered")

	result, err := h.sync.RunDailySync(r.Context(), target)
	if err != nil {
		h.log.ErrorContext(r.Context(), "manual sync failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "sync failed")
		return
	}

	writeJSON(w, http.StatusOK, syncResponse{Status: "completed", Result: result})
}
