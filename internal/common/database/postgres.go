// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"brand-content-engine/internal/common/config"

	_ "github.com/lib/pq"
)

// schemaStatements create the tables the matrix store and the section finder
// read from. They are idempotent.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS brand_content_matrices (
		brand_id   TEXT PRIMARY KEY,
		matrix     JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS layout_sections (
		id                    TEXT PRIMARY KEY,
		category              TEXT NOT NULL,
		content_type          TEXT NOT NULL DEFAULT '',
		height                INTEGER NOT NULL DEFAULT 0,
		intent_keywords       TEXT[] NOT NULL DEFAULT '{}',
		brand_archetype_match TEXT[] NOT NULL DEFAULT '{}',
		industry_fit          TEXT[] NOT NULL DEFAULT '{}',
		platform_optimized    TEXT[] NOT NULL DEFAULT '{}',
		emotional_tone        TEXT[] NOT NULL DEFAULT '{}',
		conversion_goal       TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_layout_sections_category ON layout_sections (category)`,
}

// PostgresClient wraps the SQL database connection
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres creates a new PostgreSQL client
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// Ping tests the database connection
func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// EnsureSchema creates the engine tables when they are missing.
func (c *PostgresClient) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := c.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// Close closes the database connection
func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
