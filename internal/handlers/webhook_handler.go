package handlers

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/hookinbox/hookinbox/internal/httputil"
	"github.com/hookinbox/hookinbox/internal/logging"
	"github.com/hookinbox/hookinbox/internal/models"
	"github.com/hookinbox/hookinbox/internal/ratelimit"
	"github.com/hookinbox/hookinbox/internal/service"
)

// Inbox is the service surface the HTTP handlers depend on.
type Inbox interface {
	Capture(ctx context.Context, in service.IncomingWebhook) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]*models.WebhookEvent, error)
	GetEvent(ctx context.Context, id int64) (*models.EventDetail, error)
	Healthy(ctx context.Context) error
}

// WebhookHandler accepts inbound webhook deliveries.
type WebhookHandler struct {
	inbox       Inbox
	limiter     ratelimit.RateLimiter
	maxBodySize int64
	logger      *logging.Logger
}

func NewWebhookHandler(inbox Inbox, limiter ratelimit.RateLimiter, maxBodySize int64, logger *logging.Logger) *WebhookHandler {
	if limiter == nil {
		limiter = &ratelimit.NoOpRateLimiter{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookHandler{
		inbox:       inbox,
		limiter:     limiter,
		maxBodySize: maxBodySize,
		logger:      logger,
	}
}

// Receive captures one delivery. Any HTTP method is accepted; the payload is
// stored opaquely, so no shape or encoding is ever required of it.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	allowed, err := h.limiter.Allow(ctx, clientIP(r))
	if err != nil {
		// Limiter outage must not drop deliveries; fail open.
		h.logger.WarnContext(ctx, "rate limiter unavailable", logging.Error(err))
	} else if !allowed {
		httputil.WriteError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	body, err := readBody(r, h.maxBodySize)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httputil.WriteError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		httputil.WriteError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	id, err := h.inbox.Capture(ctx, service.IncomingWebhook{
		Method:      r.Method,
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
		Header:      r.Header,
		Body:        body,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to store webhook event",
			logging.Error(err),
			logging.Method(r.Method),
			logging.Path(r.URL.Path),
		)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to store event")
		return
	}

	h.logger.InfoContext(ctx, "webhook captured",
		logging.EventID(id),
		logging.Method(r.Method),
	)
	httputil.WriteJSON(w, http.StatusCreated, models.ReceiveResponse{OK: true, ID: id})
}

func readBody(r *http.Request, maxSize int64) ([]byte, error) {
	if maxSize > 0 {
		r.Body = http.MaxBytesReader(nil, r.Body, maxSize)
	}
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
