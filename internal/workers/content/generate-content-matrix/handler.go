// internal/workers/content/generate-content-matrix/handler.go
package generatecontentmatrix

import (
	"context"
	"strings"

	"brand-content-engine/internal/common/camunda"
	"brand-content-engine/internal/common/errors"
	"brand-content-engine/internal/common/logger"
	"brand-content-engine/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "generate-content-matrix"
)

// MatrixService is the part of matrix.Service this worker needs.
type MatrixService interface {
	Ensure(ctx context.Context, brandID, brandContext string) (*models.ContentMatrix, bool, error)
	Regenerate(ctx context.Context, brandID, brandContext string) (*models.ContentMatrix, error)
}

type Handler struct {
	config   *Config
	matrices MatrixService
	runner   *camunda.JobRunner
	logger   logger.Logger
}

func NewHandler(config *Config, matrices MatrixService, log logger.Logger, opts ...camunda.RunnerOption) *Handler {
	return &Handler{
		config:   config,
		matrices: matrices,
		runner:   camunda.NewJobRunner(TaskType, config.Timeout, log, opts...),
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.Run(h.runner, client, job, h.Execute)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	brandID := strings.TrimSpace(input.BrandID)
	if brandID == "" {
		return nil, errors.NewInvalidInputError("brandId is required")
	}
	if strings.TrimSpace(input.BrandContext) == "" {
		return nil, errors.NewInvalidInputError("brandContext is required")
	}

	if input.ForceRegenerate {
		m, err := h.matrices.Regenerate(ctx, brandID, input.BrandContext)
		if err != nil {
			return nil, err
		}
		return &Output{BrandID: brandID, ContentMatrix: m, Generated: true}, nil
	}

	m, generated, err := h.matrices.Ensure(ctx, brandID, input.BrandContext)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("content matrix ready", map[string]interface{}{
		"brandId":   brandID,
		"generated": generated,
	})
	return &Output{BrandID: brandID, ContentMatrix: m, Generated: generated}, nil
}
