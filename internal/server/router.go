package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hookinbox/hookinbox/internal/handlers"
	"github.com/hookinbox/hookinbox/internal/middleware"
)

// AuthConfig carries the optional credentials guarding the two boundaries.
// Empty values leave the corresponding boundary open.
type AuthConfig struct {
	WebhookToken   string
	ViewerUsername string
	ViewerPassword string
}

// NewRouter constructs a ServeMux with all routes registered. The webhook
// receiver sits behind the shared-token stage; viewer and API routes sit
// behind the Basic-auth stage. Both stages are pass-throughs when their
// credentials are unconfigured.
func NewRouter(wh *handlers.WebhookHandler, vh *handlers.ViewerHandler, hh *handlers.HealthHandler, auth AuthConfig) http.Handler {
	token := middleware.RequireWebhookToken(auth.WebhookToken)
	basic := middleware.RequireBasicAuth(auth.ViewerUsername, auth.ViewerPassword)

	mux := http.NewServeMux()

	// Receiver: any method, fixed path
	mux.HandleFunc("/webhook", token(wh.Receive))

	// Viewer pages
	mux.HandleFunc("GET /{$}", basic(vh.Inbox))
	mux.HandleFunc("GET /event/{id}", basic(vh.Detail))

	// Query API for external rendering layers
	mux.HandleFunc("GET /api/v1/events", basic(vh.ListEvents))
	mux.HandleFunc("GET /api/v1/events/{id}", basic(vh.GetEvent))

	// Health endpoints
	mux.HandleFunc("GET /healthz", hh.Healthz)
	mux.HandleFunc("GET /readyz", hh.Readyz)

	// Prometheus metrics
	mux.Handle("GET /metrics", promhttp.Handler())

	return middleware.RequestID(mux)
}
