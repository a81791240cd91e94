// internal/workers/content/resolve-template-variables/handler.go
package resolvetemplatevariables

import (
	"context"
	"strings"

	"brand-content-engine/internal/common/camunda"
	"brand-content-engine/internal/common/errors"
	"brand-content-engine/internal/common/logger"
	"brand-content-engine/internal/content/resolver"
	"brand-content-engine/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "resolve-template-variables"
)

// MatrixReader loads a stored matrix without generating one.
type MatrixReader interface {
	Get(ctx context.Context, brandID string) (*models.ContentMatrix, error)
}

type Handler struct {
	config   *Config
	matrices MatrixReader
	runner   *camunda.JobRunner
	logger   logger.Logger
}

func NewHandler(config *Config, matrices MatrixReader, log logger.Logger, opts ...camunda.RunnerOption) *Handler {
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

// newPicker returns a fresh source per job. A seeded source must not be
// shared by concurrent jobs.
func (h *Handler) newPicker() resolver.Picker {
	if h.config.Seed != 0 {
		return resolver.NewSeededPicker(h.config.Seed)
	}
	return resolver.NewRandomPicker()
}

// Execute binds every schema key. An inline contentMatrix wins over the
// stored one for brandId.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.VariableSchema == nil {
		return nil, errors.NewInvalidInputError("variableSchema is required")
	}

	m := input.ContentMatrix
	if m == nil {
		brandID := strings.TrimSpace(input.BrandID)
		if brandID == "" {
			return nil, errors.NewInvalidInputError("brandId or contentMatrix is required")
		}
		var err error
		if m, err = h.matrices.Get(ctx, brandID); err != nil {
			return nil, err
		}
	}

	r := resolver.New(
		resolver.WithPicker(h.newPicker()),
		resolver.WithBrandName(input.BrandName),
	)
	bindings, trace := r.ResolveWithTrace(input.VariableSchema, m, input.ImagePool)

	unresolved := resolver.UnresolvedKeys(bindings)
	if unresolved == nil {
		unresolved = []string{}
	}
	if len(unresolved) > 0 {
		h.logger.Warn("template variables left unresolved", map[string]interface{}{
			"brandId": input.BrandID,
			"keys":    unresolved,
		})
	}

	out := &Output{Bindings: bindings, UnresolvedKeys: unresolved}
	if input.IncludeTrace {
		out.RuleTrace = trace
	}
	return out, nil
}
