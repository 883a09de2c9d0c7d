package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hookinbox/hookinbox/internal/models"
)

// PostgresRepository stores webhook events in a webhook_events table.
// All durable state lives here; the pool is opened once at startup and
// reused for every request.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(ctx context.Context, connString string) (*PostgresRepository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// Connection pool configuration
	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

func (r *PostgresRepository) Close() {
	r.pool.Close()
}

func (r *PostgresRepository) Insert(ctx context.Context, event *models.WebhookEvent) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	headersJSON, err := json.Marshal(event.Headers)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal headers: %w", err)
	}

	query := `
		INSERT INTO webhook_events (received_at, method, path, content_type, headers, body)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err = r.pool.QueryRow(ctx, query,
		event.ReceivedAt, event.Method, event.Path, event.ContentType,
		string(headersJSON), event.Body,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}

	event.ID = id
	return id, nil
}

// EnforceRetention keeps only the newest capacity rows. The delete is a
// single statement, so concurrent trims from overlapping ingestion calls
// converge on the capacity invariant without application-level locking.
func (r *PostgresRepository) EnforceRetention(ctx context.Context, capacity int) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		DELETE FROM webhook_events
		WHERE id NOT IN (
			SELECT id FROM webhook_events
			ORDER BY received_at DESC, id DESC
			LIMIT $1
		)
	`

	result, err := r.pool.Exec(ctx, query, capacity)
	if err != nil {
		return 0, fmt.Errorf("failed to enforce retention: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]*models.WebhookEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		SELECT id, received_at, method, path, content_type, headers, body
		FROM webhook_events
		ORDER BY received_at DESC, id DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*models.WebhookEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.WebhookEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		SELECT id, received_at, method, path, content_type, headers, body
		FROM webhook_events
		WHERE id = $1
	`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	return event, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM webhook_events`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}

	return count, nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.pool.Ping(ctx)
}

func scanEvent(row pgx.Row) (*models.WebhookEvent, error) {
	var (
		event       models.WebhookEvent
		headersJSON string
	)

	err := row.Scan(
		&event.ID, &event.ReceivedAt, &event.Method, &event.Path,
		&event.ContentType, &headersJSON, &event.Body,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}

	if err := json.Unmarshal([]byte(headersJSON), &event.Headers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal headers: %w", err)
	}

	return &event, nil
}
