package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"

	"nomadai/models"
)

// PostgresStore persists itineraries as JSONB documents keyed by request id.
// Rows are never updated; retention is managed outside the service.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects, waiting for the database to come up, and runs migrations.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	for i := 0; i < 10; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		log.Printf("⏳ Waiting for database... attempt %d/10: %v", i+1, err)
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database after retries: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	log.Println("✅ Database connected and migrated")
	return s, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// ─── Migrations ───────────────────────────────────────────────────────────────

func (s *PostgresStore) migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS itineraries (
			request_id   TEXT PRIMARY KEY,
			origin       TEXT NOT NULL,
			destination  TEXT NOT NULL,
			total_cost   NUMERIC(12,2) NOT NULL,
			source       TEXT NOT NULL,
			payload      JSONB NOT NULL,
			created_at   TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_itineraries_created_at
			ON itineraries(created_at DESC)`,
	}

	for _, m := range migrations {
		if _, err := s.db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ─── CRUD ─────────────────────────────────────────────────────────────────────

func (s *PostgresStore) Save(ctx context.Context, it *models.Itinerary) error {
	payload, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("encode itinerary %s: %w", it.RequestID, err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO itineraries (request_id, origin, destination, total_cost, source, payload)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (request_id) DO NOTHING`,
		it.RequestID, it.TravelRequest.Origin, it.TravelRequest.Destination, it.TotalCost, string(it.Source), payload)
	if err != nil {
		return fmt.Errorf("insert itinerary %s: %w", it.RequestID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert itinerary %s: %w", it.RequestID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrDuplicate, it.RequestID)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*models.Itinerary, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM itineraries WHERE request_id = $1`, id).
		Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query itinerary %s: %w", id, err)
	}

	it := &models.Itinerary{}
	if err := json.Unmarshal(payload, it); err != nil {
		return nil, fmt.Errorf("decode itinerary %s: %w", id, err)
	}
	return it, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
