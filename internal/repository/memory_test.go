package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hookinbox/hookinbox/internal/models"
)

func newEvent(receivedAt time.Time, path string) *models.WebhookEvent {
	body := "payload for " + path
	return &models.WebhookEvent{
		ReceivedAt: receivedAt,
		Method:     "POST",
		Path:       path,
		Headers:    map[string]string{"Content-Type": "text/plain"},
		Body:       &body,
	}
}

func TestInMemoryRepository_InsertAssignsMonotonicIDs(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	now := time.Now().UTC()
	var lastID int64
	for i := 0; i < 10; i++ {
		id, err := repo.Insert(ctx, newEvent(now.Add(time.Duration(i)*time.Second), fmt.Sprintf("/hook/%d", i)))
		require.NoError(t, err)
		assert.Greater(t, id, lastID, "ids must be strictly increasing")
		lastID = id
	}
}

func TestInMemoryRepository_CapacityInvariant(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	const capacity = 5
	now := time.Now().UTC()

	for i := 0; i < 20; i++ {
		_, err := repo.Insert(ctx, newEvent(now.Add(time.Duration(i)*time.Second), fmt.Sprintf("/hook/%d", i)))
		require.NoError(t, err)

		_, err = repo.EnforceRetention(ctx, capacity)
		require.NoError(t, err)

		count, err := repo.Count(ctx)
		require.NoError(t, err)

		want := int64(i + 1)
		if want > capacity {
			want = capacity
		}
		assert.Equal(t, want, count)
	}

	// The survivors are exactly the newest capacity events
	events, err := repo.ListRecent(ctx, 100)
	require.NoError(t, err)
	require.Len(t, events, capacity)
	for i, event := range events {
		assert.Equal(t, fmt.Sprintf("/hook/%d", 19-i), event.Path)
	}
}

func TestInMemoryRepository_RetentionScenario(t *testing.T) {
	// capacity=2; ingest A, B, C -> store holds exactly {B, C}
	repo := NewInMemoryRepository()
	ctx := context.Background()

	now := time.Now().UTC()
	idA, err := repo.Insert(ctx, newEvent(now, "/a"))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, newEvent(now.Add(time.Second), "/b"))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, newEvent(now.Add(2*time.Second), "/c"))
	require.NoError(t, err)

	deleted, err := repo.EnforceRetention(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	events, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "/c", events[0].Path)
	assert.Equal(t, "/b", events[1].Path)

	_, err = repo.GetByID(ctx, idA)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestInMemoryRepository_OrderingTiesBrokenByID(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	// Same received_at for all three; newest-first must fall back to id desc
	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		_, err := repo.Insert(ctx, newEvent(now, fmt.Sprintf("/tie/%d", i)))
		require.NoError(t, err)
	}

	events, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "/tie/2", events[0].Path)
	assert.Equal(t, "/tie/1", events[1].Path)
	assert.Equal(t, "/tie/0", events[2].Path)

	// Retention with ties evicts the lowest ids
	_, err = repo.EnforceRetention(ctx, 1)
	require.NoError(t, err)

	events, err = repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "/tie/2", events[0].Path)
}

func TestInMemoryRepository_ListRecentLimit(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	now := time.Now().UTC()
	for i := 0; i < 5; i++ {
		_, err := repo.Insert(ctx, newEvent(now.Add(time.Duration(i)*time.Second), fmt.Sprintf("/hook/%d", i)))
		require.NoError(t, err)
	}

	events, err := repo.ListRecent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, events, 3)

	events, err = repo.ListRecent(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, events, 5)
}

func TestInMemoryRepository_GetByIDNotFound(t *testing.T) {
	repo := NewInMemoryRepository()

	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestInMemoryRepository_RetentionNoopUnderCapacity(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	_, err := repo.Insert(ctx, newEvent(time.Now().UTC(), "/only"))
	require.NoError(t, err)

	deleted, err := repo.EnforceRetention(ctx, 500)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
