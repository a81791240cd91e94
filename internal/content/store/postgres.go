// internal/content/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"brand-content-engine/internal/models"
)

const (
	selectMatrixSQL = `SELECT matrix FROM brand_content_matrices WHERE brand_id = $1`
	upsertMatrixSQL = `INSERT INTO brand_content_matrices (brand_id, matrix, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (brand_id) DO UPDATE SET matrix = EXCLUDED.matrix, updated_at = NOW()`
)

// PostgresStore keeps matrices in the brand_content_matrices JSONB table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, brandID string) (*models.ContentMatrix, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, selectMatrixSQL, brandID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMatrixNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select matrix %s: %w", brandID, err)
	}

	var m models.ContentMatrix
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode stored matrix %s: %w", brandID, err)
	}
	return &m, nil
}

func (s *PostgresStore) Put(ctx context.Context, brandID string, m *models.ContentMatrix) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode matrix %s: %w", brandID, err)
	}
	if _, err := s.db.ExecContext(ctx, upsertMatrixSQL, brandID, data); err != nil {
		return fmt.Errorf("upsert matrix %s: %w", brandID, err)
	}
	return nil
}
