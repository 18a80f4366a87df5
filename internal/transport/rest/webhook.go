package rest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/hairlooks/salonbridge/internal/domain"
	"github.com/hairlooks/salonbridge/internal/service/ingest"
)

// signatureHeader carries the sender's HMAC over the raw body.
const signatureHeader = "X-Webhook-Signature"

// maxBodySize caps inbound webhook bodies at 1 MiB.
const maxBodySize = 1 << 20

// ingestService defines the minimal interface needed by WebhookHandler.
type ingestService interface {
	Ingest(ctx context.Context, raw []byte, signature string) (ingest.Result, error)
}

// WebhookHandler serves the Salonhub intake endpoint.
type WebhookHandler struct {
	svc ingestService
	log *slog.Logger
}

// NewWebhookHandler creates a WebhookHandler.
func NewWebhookHandler(svc ingestService, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{svc: svc, log: logger.With("handler", "webhook")}
}

// Receive handles POST /webhook/salonhub.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read request body")
		return
	}

	result, err := h.svc.Ingest(r.Context(), raw, r.Header.Get(signatureHeader))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *WebhookHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		h.log.WarnContext(r.Context(), "webhook with invalid signature rejected")
		writeError(w, http.StatusUnauthorized, "invalid signature")
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, "invalid payload")
	default:
		h.log.ErrorContext(r.Context(), "webhook intake failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
