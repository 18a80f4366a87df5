package rest

import (
	"log/slog"
	"net/http"

	"github.com/hairlooks/salonbridge/internal/config"
	"github.com/hairlooks/salonbridge/internal/transport/middleware"
)

// RouterDeps bundles the handlers the router serves.
type RouterDeps struct {
	Webhook *WebhookHandler
	Admin   *AdminHandler
	Health  *HealthHandler
}

// NewRouter builds the HTTP handler tree behind the shared middleware
// chain. Only the intake endpoint is rate-limited; probes and the
// manual trigger are not.
func NewRouter(deps RouterDeps, cfg config.ServerConfig, corsCfg config.CORSConfig, limiter *middleware.RateLimiter, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /webhook/salonhub",
		limiter.Limit(cfg.WebhookPerMin)(http.HandlerFunc(deps.Webhook.Receive)))
	mux.HandleFunc("POST /admin/sync", deps.Admin.TriggerSync)
	mux.HandleFunc("GET /health", deps.Health.Health)
	mux.HandleFunc("GET /live", deps.Health.Live)
	mux.HandleFunc("GET /ready", deps.Health.Ready)

	chain := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(corsCfg),
	)
	return chain(mux)
}
