// Package matrix generates a brand's content matrix once and serves it from
// the store afterwards.
package matrix

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"brand-content-engine/internal/common/errors"
	"brand-content-engine/internal/common/logger"
	"brand-content-engine/internal/common/metrics"
	"brand-content-engine/internal/common/observability"
	"brand-content-engine/internal/content/store"
	"brand-content-engine/internal/models"

	"github.com/xeipuuv/gojsonschema"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"
)

// Generator is the structured generation backend.
type Generator interface {
	GenerateStructured(ctx context.Context, prompt, schemaName string, schema map[string]interface{}) (json.RawMessage, error)
}

type Service struct {
	store     store.Store
	generator Generator
	logger    logger.Logger
	validator *gojsonschema.Schema
	flights   *singleflight.Group
	obs       *observability.Observability
}

type Option func(*Service)

// WithSingleFlight collapses concurrent in-process misses for the same brand
// into one generation call. Without it, racing misses each generate and the
// store keeps the last write.
func WithSingleFlight() Option {
	return func(s *Service) { s.flights = &singleflight.Group{} }
}

func WithObservability(o *observability.Observability) Option {
	return func(s *Service) { s.obs = o }
}

func NewService(st store.Store, gen Generator, log logger.Logger, opts ...Option) (*Service, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(ResponseSchema()))
	if err != nil {
		return nil, fmt.Errorf("compile matrix schema: %w", err)
	}

	s := &Service{
		store:     st,
		generator: gen,
		logger:    log.WithFields(map[string]interface{}{"component": "content-matrix"}),
		validator: schema,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GetOrCreate returns the stored matrix, generating and storing it on a miss.
func (s *Service) GetOrCreate(ctx context.Context, brandID, brandContext string) (*models.ContentMatrix, error) {
	m, _, err := s.Ensure(ctx, brandID, brandContext)
	return m, err
}

// Ensure is GetOrCreate that also reports whether this call generated.
func (s *Service) Ensure(ctx context.Context, brandID, brandContext string) (*models.ContentMatrix, bool, error) {
	m, err := s.store.Get(ctx, brandID)
	switch {
	case err == nil:
		metrics.MatrixCacheLookups.WithLabelValues("hit").Inc()
		s.logger.Debug("content matrix cache hit", map[string]interface{}{"brandId": brandID})
		return m, false, nil
	case stderrors.Is(err, store.ErrMatrixNotFound):
		metrics.MatrixCacheLookups.WithLabelValues("miss").Inc()
	default:
		return nil, false, errors.NewMatrixStoreFailedError("get", brandID, err)
	}

	if s.flights == nil {
		m, err = s.generateAndStore(ctx, brandID, brandContext)
		return m, err == nil, err
	}

	v, err, _ := s.flights.Do(brandID, func() (interface{}, error) {
		return s.generateAndStore(ctx, brandID, brandContext)
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*models.ContentMatrix), true, nil
}

// Regenerate generates unconditionally and overwrites the stored matrix.
func (s *Service) Regenerate(ctx context.Context, brandID, brandContext string) (*models.ContentMatrix, error) {
	s.logger.Info("regenerating content matrix", map[string]interface{}{"brandId": brandID})
	return s.generateAndStore(ctx, brandID, brandContext)
}

// Get loads a stored matrix without ever generating.
func (s *Service) Get(ctx context.Context, brandID string) (*models.ContentMatrix, error) {
	m, err := s.store.Get(ctx, brandID)
	if stderrors.Is(err, store.ErrMatrixNotFound) {
		return nil, errors.NewMatrixNotFoundError(brandID)
	}
	if err != nil {
		return nil, errors.NewMatrixStoreFailedError("get", brandID, err)
	}
	return m, nil
}

func (s *Service) generateAndStore(ctx context.Context, brandID, brandContext string) (*models.ContentMatrix, error) {
	m, err := s.generate(ctx, brandID, brandContext)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, brandID, m); err != nil {
		return nil, errors.NewMatrixStoreFailedError("put", brandID, err)
	}

	s.logger.Info("content matrix generated", map[string]interface{}{
		"brandId":         brandID,
		"emptyCategories": len(m.EmptyCategories()),
	})
	return m, nil
}

func (s *Service) generate(ctx context.Context, brandID, brandContext string) (*models.ContentMatrix, error) {
	ctx, span := s.obs.StartSpan(ctx, "content_matrix.generate", attribute.String("brand.id", brandID))
	defer span.End()

	start := time.Now()
	raw, err := s.generator.GenerateStructured(ctx, BuildPrompt(brandContext), SchemaName, RequestSchema())
	metrics.MatrixGenerationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		if stderrors.Is(err, context.DeadlineExceeded) {
			metrics.MatrixGenerations.WithLabelValues("timeout").Inc()
			return nil, errors.NewGenerationTimeoutError(brandID, err)
		}
		metrics.MatrixGenerations.WithLabelValues("failed").Inc()
		return nil, errors.NewGenerationFailedError(brandID, err)
	}

	m, err := s.decode(raw)
	if err != nil {
		span.RecordError(err)
		metrics.MatrixGenerations.WithLabelValues("invalid").Inc()
		return nil, errors.NewGenerationFailedError(brandID, err)
	}

	metrics.MatrixGenerations.WithLabelValues("success").Inc()
	return m, nil
}

// decode rejects responses that do not match the matrix shape.
func (s *Service) decode(raw json.RawMessage) (*models.ContentMatrix, error) {
	result, err := s.validator.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}
	if !result.Valid() {
		violations := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			violations[i] = desc.String()
		}
		return nil, fmt.Errorf("response does not match matrix schema: %v", violations)
	}

	var m models.ContentMatrix
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode matrix: %w", err)
	}
	return &m, nil
}
