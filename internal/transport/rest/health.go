package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/hairlooks/salonbridge/internal/adapter/klaviyo"
	"github.com/hairlooks/salonbridge/internal/domain"
)

// dbPinger defines the minimal interface for DB health checks.
type dbPinger interface {
	Ping(ctx context.Context) error
}

// downstreamChecker reports Klaviyo connectivity.
type downstreamChecker interface {
	CheckConnection(ctx context.Context) klaviyo.Status
}

// bufferCounter reports buffer store statistics.
type bufferCounter interface {
	Counts(ctx context.Context) (domain.BufferCounts, error)
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	db         dbPinger
	downstream downstreamChecker
	buffer     bufferCounter
	version    string
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(db dbPinger, downstream downstreamChecker, buffer bufferCounter, version string) *HealthHandler {
	return &HealthHandler{db: db, downstream: downstream, buffer: buffer, version: version}
}

// HealthResponse is the JSON response for /health and /ready.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Klaviyo    *klaviyo.Status       `json:"klaviyo,omitempty"`
	Buffer     *domain.BufferCounts  `json:"buffer,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Ready is the readiness probe. Pings DB: 200 if OK, 503 if not.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    "down",
			Timestamp: time.Now(),
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Health is the full health check: DB ping with latency, Klaviyo
// connectivity and buffer counts. A Klaviyo outage is reported but does
// not flip the overall status; intake keeps working without it.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	components := make(map[string]CompStatus)
	overallStatus := "ok"

	start := time.Now()
	err := h.db.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		components["database"] = CompStatus{Status: "down"}
		overallStatus = "down"
	} else {
		components["database"] = CompStatus{
			Status:  "ok",
			Latency: latency.String(),
		}
	}

	resp := HealthResponse{
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	}

	klaviyoStatus := h.downstream.CheckConnection(ctx)
	resp.Klaviyo = &klaviyoStatus
	components["klaviyo"] = CompStatus{Status: klaviyoStatus.Status}

	if counts, err := h.buffer.Counts(ctx); err == nil {
		resp.Buffer = &counts
	}

	status := http.StatusOK
	if overallStatus != "ok" {
		status = http.StatusServiceUnavailable
	}
	resp.Status = overallStatus

	writeJSON(w, status, resp)
}
