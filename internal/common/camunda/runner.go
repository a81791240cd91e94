// internal/common/camunda/runner.go
package camunda

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"brand-content-engine/internal/common/errors"
	"brand-content-engine/internal/common/logger"
	"brand-content-engine/internal/common/metrics"
	"brand-content-engine/internal/common/observability"
	"brand-content-engine/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const commandTimeout = 10 * time.Second

// JobRunner holds what every worker does around its Execute call: schema
// checks, decoding, timeouts, completion, error mapping and metrics.
type JobRunner struct {
	taskType   string
	timeout    time.Duration
	logger     logger.Logger
	validator  *registry.Validator
	errHandler *errors.ErrorHandler
	obs        *observability.Observability
}

type RunnerOption func(*JobRunner)

// WithValidator enables input schema validation from the activity registry.
func WithValidator(v *registry.Validator) RunnerOption {
	return func(r *JobRunner) { r.validator = v }
}

// WithObservability records otel job metrics and spans.
func WithObservability(o *observability.Observability) RunnerOption {
	return func(r *JobRunner) { r.obs = o }
}

func NewJobRunner(taskType string, timeout time.Duration, log logger.Logger, opts ...RunnerOption) *JobRunner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	r := &JobRunner{
		taskType:   taskType,
		timeout:    timeout,
		logger:     log.WithFields(map[string]interface{}{"taskType": taskType}),
		errHandler: errors.NewErrorHandler(log),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *JobRunner) TaskType() string { return r.taskType }

// Run decodes the job variables into In, calls exec under the worker timeout
// and completes the job with the output, or hands the error to the
// ErrorHandler.
func Run[In any, Out any](r *JobRunner, client worker.JobClient, job entities.Job, exec func(context.Context, *In) (*Out, error)) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(r.taskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(r.taskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	ctx, span := r.obs.StartSpan(ctx, "job "+r.taskType,
		attribute.Int64("job.key", job.Key),
		attribute.Int64("job.processInstanceKey", job.ProcessInstanceKey),
	)
	defer span.End()

	r.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	output, err := decodeAndExecute(ctx, r, job, exec)

	// The execution context may already be past its deadline.
	cmdCtx, cmdCancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cmdCancel()

	status := "completed"
	if err != nil {
		status = "failed"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		bpmnErr := r.errHandler.HandleJobError(cmdCtx, client, job, err)
		metrics.WorkerJobsFailed.WithLabelValues(r.taskType, bpmnErr.Code).Inc()
	} else if err := r.complete(cmdCtx, client, job, output); err != nil {
		status = "failed"
		r.logger.Error("failed to complete job", map[string]interface{}{"jobKey": job.Key, "error": err})
		metrics.WorkerJobsFailed.WithLabelValues(r.taskType, "COMPLETE_FAILED").Inc()
	} else {
		metrics.WorkerJobsCompleted.WithLabelValues(r.taskType).Inc()
	}

	elapsed := time.Since(start)
	metrics.WorkerJobDuration.WithLabelValues(r.taskType).Observe(elapsed.Seconds())
	r.obs.RecordJobProcessed(ctx, r.taskType, status)
	r.obs.RecordJobDuration(ctx, r.taskType, elapsed, status)
}

func decodeAndExecute[In any, Out any](ctx context.Context, r *JobRunner, job entities.Job, exec func(context.Context, *In) (*Out, error)) (*Out, error) {
	raw := []byte(job.Variables)
	if len(raw) == 0 {
		raw = []byte("{}")
	}

	violations, err := r.validator.Validate(r.taskType, raw)
	if err != nil {
		return nil, errors.NewInvalidInputError(err.Error())
	}
	if len(violations) > 0 {
		return nil, errors.NewSchemaInvalidError(r.taskType, violations)
	}

	var input In
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
	}
	return exec(ctx, &input)
}

func (r *JobRunner) complete(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		return fmt.Errorf("create complete job command: %w", err)
	}
	if _, err := cmd.Send(ctx); err != nil {
		return fmt.Errorf("send complete job command: %w", err)
	}
	return nil
}
