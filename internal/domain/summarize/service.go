// Package summarize is the gateway core: it validates caller text, builds the
// prompt, calls the inference backend and maps the outcome to a summary or a
// typed *Error.
package summarize

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/matiasleandrokruk/summarygate/internal/infra/llm"
	"github.com/matiasleandrokruk/summarygate/internal/infra/logging"
	"github.com/matiasleandrokruk/summarygate/internal/infra/metrics"
)

const livenessMessage = "LLaMA Text Summarizer API is running!"

// outcomeCompleted labels the one successful terminal state.
const outcomeCompleted = "completed"

// Liveness is the constant acknowledgement served on /.
type Liveness struct {
	Message string `json:"message"`
}

// APIStatus is the coarse gateway health.
type APIStatus string

const (
	StatusHealthy   APIStatus = "healthy"
	StatusUnhealthy APIStatus = "unhealthy"
)

// HealthStatus is recomputed on every Health call.
type HealthStatus struct {
	APIStatus        APIStatus
	BackendReachable bool
}

// Response is a successful summarize result. Summary is never empty.
type Response struct {
	Summary string `json:"summary"`
}

// Service implements the gateway operations. It holds no per-request state
// and is safe for concurrent use.
type Service struct {
	client  llm.InferenceClient
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewService wires the service to an inference backend. m may be nil.
func NewService(client llm.InferenceClient, logger *zap.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, logger: logger, metrics: m}
}

// Liveness always succeeds and has no side effects.
func (s *Service) Liveness() Liveness {
	return Liveness{Message: livenessMessage}
}

// Health probes the backend. Probe failures are reported as data, never as errors.
func (s *Service) Health(ctx context.Context) HealthStatus {
	reachable := s.client.Probe(ctx)
	s.metrics.RecordHealth(reachable)
	if !reachable {
		logging.FromContext(ctx, s.logger).Warn("inference backend unreachable")
		return HealthStatus{APIStatus: StatusUnhealthy, BackendReachable: false}
	}
	return HealthStatus{APIStatus: StatusHealthy, BackendReachable: true}
}

// Summarize validates text, asks the backend for a summary and maps the
// result. Every failure is an *Error. The caller's text is never logged, only
// its length.
func (s *Service) Summarize(ctx context.Context, text string) (Response, error) {
	start := time.Now()
	log := logging.FromContext(ctx, s.logger).With(zap.Int("text_length", utf8.RuneCountInString(text)))

	if err := Validate(text); err != nil {
		s.finish(log, err, start)
		return Response{}, err
	}

	log.Info("summarizing text")
	raw, genErr := s.client.Generate(ctx, BuildPrompt(text))
	if genErr != nil {
		err := fromInference(genErr)
		s.finish(log, err, start)
		return Response{}, err
	}
	if raw == "" {
		s.finish(log, ErrEmptyResult, start)
		return Response{}, ErrEmptyResult
	}

	s.finish(log, nil, start)
	return Response{Summary: raw}, nil
}

// fromInference maps a backend failure onto the gateway taxonomy.
func fromInference(err error) *Error {
	var llmErr *llm.Error
	if !errors.As(err, &llmErr) {
		return &Error{Kind: KindUnexpected, Err: err}
	}
	switch llmErr.Kind {
	case llm.KindTimeout:
		return &Error{Kind: KindUpstreamTimeout, Err: err}
	case llm.KindUnreachable:
		return &Error{Kind: KindUpstreamUnreachable, Err: err}
	case llm.KindBackendError:
		return &Error{Kind: KindUpstreamError, Status: llmErr.Status, Err: err}
	case llm.KindEmptyResult:
		return &Error{Kind: KindEmptyResult, Err: err}
	case llm.KindCanceled:
		return &Error{Kind: KindCanceled, Err: err}
	default:
		return &Error{Kind: KindUnexpected, Err: err}
	}
}

// finish emits the single terminal log entry and outcome metric for a call.
func (s *Service) finish(log *zap.Logger, err error, start time.Time) {
	elapsed := time.Since(start)
	if err == nil {
		s.metrics.RecordSummarize(outcomeCompleted, elapsed)
		log.Info("summary generated",
			zap.String("outcome", outcomeCompleted),
			zap.Duration("duration", elapsed))
		return
	}

	kind := KindOf(err)
	s.metrics.RecordSummarize(string(kind), elapsed)

	fields := []zap.Field{
		zap.String("outcome", string(kind)),
		zap.Duration("duration", elapsed),
	}
	var llmErr *llm.Error
	if errors.As(err, &llmErr) && llmErr.Kind == llm.KindBackendError {
		fields = append(fields, zap.Int("upstream_status", llmErr.Status), zap.Int("upstream_body_bytes", len(llmErr.Body)))
	}

	switch {
	case IsInvalidInput(err):
		log.Info("summarize rejected", fields...)
	case kind == KindCanceled:
		log.Info("summarize abandoned by caller", fields...)
	default:
		log.Error("summarize failed", append(fields, zap.Error(err))...)
	}
}
