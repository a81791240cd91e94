// internal/workers/composition/validate-composition/handler.go
package validatecomposition

import (
	"context"

	"brand-content-engine/internal/common/camunda"
	"brand-content-engine/internal/common/logger"
	"brand-content-engine/internal/composition/composer"
	"brand-content-engine/internal/composition/policy"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "validate-composition"
)

type Handler struct {
	config *Config
	tables *policy.Tables
	runner *camunda.JobRunner
	logger logger.Logger
}

func NewHandler(config *Config, tables *policy.Tables, log logger.Logger, opts ...camunda.RunnerOption) *Handler {
	return &Handler{
		config: config,
		tables: tables,
		runner: camunda.NewJobRunner(TaskType, config.Timeout, log, opts...),
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.Run(h.runner, client, job, h.Execute)
}

func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	out := &Output{}
	if input.Rules != nil {
		out.Validation = composer.ValidateComposition(input.Sections, *input.Rules)
		return out, nil
	}

	platform, rules := h.tables.RulesFor([]string{input.Platform})
	out.Platform = platform
	out.Validation = composer.ValidateComposition(input.Sections, rules)
	return out, nil
}
