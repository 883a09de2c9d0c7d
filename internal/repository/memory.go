package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/hookinbox/hookinbox/internal/models"
)

// InMemoryRepository is a development fallback used when no database is
// configured, and the store-of-record for unit tests. It mirrors the
// Postgres ordering semantics: received_at descending, ties by id descending.
type InMemoryRepository struct {
	events []*models.WebhookEvent
	nextID int64
	mu     sync.RWMutex
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) Insert(ctx context.Context, event *models.WebhookEvent) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *event
	stored.ID = r.nextID
	r.nextID++

	r.events = append(r.events, &stored)
	event.ID = stored.ID
	return stored.ID, nil
}

func (r *InMemoryRepository) EnforceRetention(ctx context.Context, capacity int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if capacity < 0 {
		capacity = 0
	}
	if len(r.events) <= capacity {
		return 0, nil
	}

	sortNewestFirst(r.events)
	deleted := int64(len(r.events) - capacity)
	r.events = r.events[:capacity]
	return deleted, nil
}

func (r *InMemoryRepository) ListRecent(ctx context.Context, limit int) ([]*models.WebhookEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ordered := make([]*models.WebhookEvent, len(r.events))
	copy(ordered, r.events)
	sortNewestFirst(ordered)

	if limit >= 0 && limit < len(ordered) {
		ordered = ordered[:limit]
	}
	return ordered, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id int64) (*models.WebhookEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, event := range r.events {
		if event.ID == id {
			return event, nil
		}
	}
	return nil, ErrEventNotFound
}

func (r *InMemoryRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.events)), nil
}

func (r *InMemoryRepository) Ping(ctx context.Context) error {
	return nil
}

func (r *InMemoryRepository) Close() {}

func sortNewestFirst(events []*models.WebhookEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].ReceivedAt.Equal(events[j].ReceivedAt) {
			return events[i].ReceivedAt.After(events[j].ReceivedAt)
		}
		return events[i].ID > events[j].ID
	})
}
