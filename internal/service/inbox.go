package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hookinbox/hookinbox/internal/logging"
	"github.com/hookinbox/hookinbox/internal/metrics"
	"github.com/hookinbox/hookinbox/internal/models"
	"github.com/hookinbox/hookinbox/internal/repository"
)

// ListCap is the hard ceiling on records returned by a single listing,
// independent of the retention capacity.
const ListCap = 200

// IncomingWebhook carries the raw pieces of one inbound delivery. The body
// is stored opaquely; no validation or decoding is ever applied to it.
type IncomingWebhook struct {
	Method      string
	Path        string
	ContentType string
	Header      http.Header
	Body        []byte
}

// InboxService implements ingestion and query access to the event store.
type InboxService struct {
	repo      repository.EventRepository
	maxEvents int
	logger    *logging.Logger
}

func NewInboxService(repo repository.EventRepository, maxEvents int, logger *logging.Logger) *InboxService {
	if logger == nil {
		logger = logging.Default()
	}
	return &InboxService{
		repo:      repo,
		maxEvents: maxEvents,
		logger:    logger,
	}
}

// Capture persists one inbound delivery and returns its assigned id.
// The received_at instant is taken here, in UTC, at capture time. After a
// successful insert the retention trim runs best-effort: a trim failure is
// logged but never fails the capture, since the record is already durable.
//
// Bodies are stored as text. Against Postgres a body that is not valid
// UTF-8 fails the insert and the delivery is rejected with a storage error;
// the memory store has no such constraint.
func (s *InboxService) Capture(ctx context.Context, in IncomingWebhook) (int64, error) {
	event := &models.WebhookEvent{
		ReceivedAt: time.Now().UTC(),
		Method:     in.Method,
		Path:       in.Path,
		Headers:    FlattenHeaders(in.Header),
	}

	if in.ContentType != "" {
		ct := in.ContentType
		event.ContentType = &ct
	}

	body := string(in.Body)
	event.Body = &body

	start := time.Now()
	id, err := s.repo.Insert(ctx, event)
	metrics.StorageDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.StorageErrors.Inc()
		metrics.EventsReceived.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("failed to capture event: %w", err)
	}

	metrics.EventsReceived.WithLabelValues("created").Inc()
	metrics.EventBytesTotal.Add(float64(len(in.Body)))

	deleted, err := s.repo.EnforceRetention(ctx, s.maxEvents)
	if err != nil {
		metrics.RetentionErrors.Inc()
		s.logger.WarnContext(ctx, "retention trim failed",
			logging.Error(err),
			logging.Capacity(s.maxEvents),
		)
		return id, nil
	}
	if deleted > 0 {
		metrics.EventsEvicted.Add(float64(deleted))
		s.logger.DebugContext(ctx, "retention trim evicted events",
			logging.Evicted(deleted),
			logging.Capacity(s.maxEvents),
		)
	}

	return id, nil
}

// ListRecent returns up to limit events newest-first. The limit is clamped
// to ListCap; non-positive limits get the full cap.
func (s *InboxService) ListRecent(ctx context.Context, limit int) ([]*models.WebhookEvent, error) {
	if limit <= 0 || limit > ListCap {
		limit = ListCap
	}

	events, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// GetEvent returns one event by id together with its display-only pretty
// JSON form, or repository.ErrEventNotFound.
func (s *InboxService) GetEvent(ctx context.Context, id int64) (*models.EventDetail, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &models.EventDetail{WebhookEvent: *event}
	if IsJSONContent(event.ContentType) && event.Body != nil {
		detail.PrettyJSON = PrettyJSON(*event.Body)
	}

	return detail, nil
}

// Healthy reports whether the backing store is reachable.
func (s *InboxService) Healthy(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// FlattenHeaders collapses a header set into a name-to-value map.
// When a header name repeats, the last value wins; this is the documented
// collision policy, matching the stored headers blob being a plain JSON
// object.
func FlattenHeaders(h http.Header) map[string]string {
	flat := make(map[string]string, len(h))
	for name, values := range h {
		if len(values) == 0 {
			continue
		}
		flat[name] = values[len(values)-1]
	}
	return flat
}

// IsJSONContent reports whether a content type denotes JSON: a
// case-insensitive substring match on "json".
func IsJSONContent(contentType *string) bool {
	return contentType != nil && strings.Contains(strings.ToLower(*contentType), "json")
}

// PrettyJSON parses the payload as JSON and re-serializes it indented with
// sorted keys. Returns nil when the payload does not parse; callers then
// fall back to the raw body. This never affects stored data.
func PrettyJSON(payload string) *string {
	var obj interface{}
	if err := json.Unmarshal([]byte(payload), &obj); err != nil {
		return nil
	}

	pretty, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return nil
	}

	out := string(pretty)
	return &out
}
