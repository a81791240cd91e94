// internal/workers/composition/score-section/handler.go
package scoresection

import (
	"context"

	"brand-content-engine/internal/common/camunda"
	"brand-content-engine/internal/common/logger"
	"brand-content-engine/internal/composition/scorer"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "score-section"
)

type Handler struct {
	config *Config
	runner *camunda.JobRunner
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger, opts ...camunda.RunnerOption) *Handler {
	return &Handler{
		config: config,
		runner: camunda.NewJobRunner(TaskType, config.Timeout, log, opts...),
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.Run(h.runner, client, job, h.Execute)
}

// Execute scores every section. The best section is the strict maximum, the
// earlier one on ties.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	out := &Output{Scores: make([]SectionScore, 0, len(input.Sections))}
	best := -1

	for _, s := range input.Sections {
		b := scorer.Explain(s, input.UserIntent, input.BrandDNA)
		score := b.Total()
		out.Scores = append(out.Scores, SectionScore{
			SectionID: s.ID,
			Category:  s.Category,
			Score:     score,
			Breakdown: b,
		})
		if score > best {
			best = score
			out.BestSectionID = s.ID
		}
	}
	return out, nil
}
