// Package store persists one content matrix per brand.
package store

import (
	"context"
	"errors"

	"brand-content-engine/internal/models"
)

// ErrMatrixNotFound is returned by Get when the brand has no stored matrix.
var ErrMatrixNotFound = errors.New("content matrix not found")

// Store is the get/put persistence collaborator of the matrix service. Put
// overwrites; there is no partial update.
type Store interface {
	Get(ctx context.Context, brandID string) (*models.ContentMatrix, error)
	Put(ctx context.Context, brandID string, m *models.ContentMatrix) error
}
