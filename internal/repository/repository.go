package repository

import (
	"context"
	"errors"

	"github.com/hookinbox/hookinbox/internal/models"
)

var (
	// ErrEventNotFound is returned by GetByID for ids that do not exist or
	// were already evicted by the retention trim.
	ErrEventNotFound = errors.New("event not found")
)

// EventRepository is the durable, ordered store of webhook events. Ordering
// everywhere is newest-first: received_at descending, ties broken by id
// descending, so retention and listing always agree on which records are
// "oldest".
type EventRepository interface {
	// Insert persists the event atomically and returns its assigned id.
	// Ids are unique and strictly increasing in insert order. A failed
	// insert leaves no partial record visible to readers.
	Insert(ctx context.Context, event *models.WebhookEvent) (int64, error)

	// EnforceRetention deletes the oldest events until at most capacity
	// remain, as a single atomic operation. Returns the number of rows
	// deleted. Safe to run concurrently with inserts and reads.
	EnforceRetention(ctx context.Context, capacity int) (int64, error)

	// ListRecent returns up to limit events, newest first.
	ListRecent(ctx context.Context, limit int) ([]*models.WebhookEvent, error)

	// GetByID returns the event with the given id, or ErrEventNotFound.
	GetByID(ctx context.Context, id int64) (*models.WebhookEvent, error)

	// Count returns the number of stored events.
	Count(ctx context.Context) (int64, error)

	// Ping reports whether the backing medium is reachable.
	Ping(ctx context.Context) error

	Close()
}
