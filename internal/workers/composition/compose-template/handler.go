// internal/workers/composition/compose-template/handler.go
package composetemplate

import (
	"context"
	"strings"

	"brand-content-engine/internal/common/camunda"
	"brand-content-engine/internal/common/errors"
	"brand-content-engine/internal/common/logger"
	"brand-content-engine/internal/composition/composer"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "compose-template"
)

type Handler struct {
	config   *Config
	composer *composer.Composer
	runner   *camunda.JobRunner
	logger   logger.Logger
}

func NewHandler(config *Config, c *composer.Composer, log logger.Logger, opts ...camunda.RunnerOption) *Handler {
	return &Handler{
		config:   config,
		composer: c,
		runner:   camunda.NewJobRunner(TaskType, config.Timeout, log, opts...),
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.Run(h.runner, client, job, h.Execute)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.UserIntent.Primary) == "" {
		return nil, errors.NewInvalidInputError("userIntent.primary is required")
	}

	tpl, err := h.composer.Compose(ctx, input.UserIntent, input.BrandDNA)
	if err != nil {
		return nil, err
	}

	out := &Output{ComposedTemplate: tpl}
	if input.Validate || h.config.AlwaysValidate {
		_, rules := h.composer.Tables().RulesFor(input.UserIntent.Platform)
		v := composer.ValidateComposition(tpl.Sections, rules)
		out.Validation = &v
		if !v.IsValid {
			h.logger.Warn("composed template breaks platform rules", map[string]interface{}{
				"compositionId": tpl.CompositionID,
				"errors":        v.Errors,
			})
		}
	}
	return out, nil
}
