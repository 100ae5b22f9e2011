// Package pipeline orchestrates one KYC intake run: extract the transcript,
// normalize the raw output, validate the record, then hand the result to the
// rendering and notification sinks. Each run is independent; the only shared
// structure is the run-status store.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"skyvault/internal/normalize"
	"skyvault/internal/pipeline/metrics"
	"skyvault/internal/validation"
	"skyvault/pkg/requestcontext"
)

// DefaultExtractTimeout bounds the extraction backend call. A timeout is an
// ExtractionFailure, never a partial record.
const DefaultExtractTimeout = 90 * time.Second

// ServiceConfig wires the service's collaborators. Backend, Renderer,
// Notifier and Store are required; the rest default sensibly.
type ServiceConfig struct {
	Backend        ExtractionBackend
	Renderer       Renderer
	Notifier       Notifier
	Store          RunStore
	Normalizer     *normalize.Normalizer
	Engine         *validation.Engine
	Metrics        *metrics.Metrics
	Logger         *slog.Logger
	ExtractTimeout time.Duration
	DealingRep     string
}

// Service runs the intake pipeline.
type Service struct {
	backend        ExtractionBackend
	renderer       Renderer
	notifier       Notifier
	store          RunStore
	normalizer     *normalize.Normalizer
	engine         *validation.Engine
	metrics        *metrics.Metrics
	logger         *slog.Logger
	extractTimeout time.Duration
	dealingRep     string
}

func NewService(cfg ServiceConfig) *Service {
	s := &Service{
		backend:        cfg.Backend,
		renderer:       cfg.Renderer,
		notifier:       cfg.Notifier,
		store:          cfg.Store,
		normalizer:     cfg.Normalizer,
		engine:         cfg.Engine,
		metrics:        cfg.Metrics,
		logger:         cfg.Logger,
		extractTimeout: cfg.ExtractTimeout,
		dealingRep:     cfg.DealingRep,
	}
	if s.normalizer == nil {
		s.normalizer = normalize.New()
	}
	if s.engine == nil {
		s.engine = validation.NewEngine()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.extractTimeout <= 0 {
		s.extractTimeout = DefaultExtractTimeout
	}
	return s
}

// Start queues a run in the background and returns its ID immediately. The
// run carries its own context: webhook requests ack before processing ends,
// so the run must not die with the request context.
func (s *Service) Start(req Request) string {
	runID := uuid.NewString()
	ctx := requestcontext.WithRunID(context.Background(), runID)

	s.saveState(ctx, RunState{
		RunID:     runID,
		ClientID:  req.ClientID,
		FormType:  req.FormType,
		Status:    StatusProcessing,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	})

	go s.run(ctx, runID, req)
	return runID
}

// Run executes one pipeline run synchronously.
func (s *Service) Run(ctx context.Context, req Request) Result {
	runID := uuid.NewString()
	ctx = requestcontext.WithRunID(ctx, runID)

	s.saveState(ctx, RunState{
		RunID:     runID,
		ClientID:  req.ClientID,
		FormType:  req.FormType,
		Status:    StatusProcessing,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	})

	return s.run(ctx, runID, req)
}

// Status reports the observable state of a run.
func (s *Service) Status(ctx context.Context, runID string) (RunState, error) {
	return s.store.Get(ctx, runID)
}

func (s *Service) run(ctx context.Context, runID string, req Request) Result {
	start := time.Now()
	defer func() {
		s.metrics.ObserveRunDuration(time.Since(start).Seconds())
	}()

	result := Result{
		RunID:    runID,
		ClientID: req.ClientID,
		FormType: req.FormType,
	}

	// Stage 1: extraction, bounded by timeout. No retry: an explicit failed
	// run beats a silently retried one that could mix partial states.
	extractCtx, cancel := context.WithTimeout(ctx, s.extractTimeout)
	raw, err := s.backend.Extract(extractCtx, req.Transcript, req.Language, req.FormType)
	cancel()
	if err != nil {
		s.metrics.IncrementExtractionFailures()
		s.metrics.RecordRun(string(StatusExtractionFailed))
		s.logger.ErrorContext(ctx, "extraction failed",
			"run_id", runID,
			"client_id", req.ClientID,
			"error", err,
		)
		result.Status = StatusExtractionFailed
		result.Errors = append(result.Errors, StageError{Stage: StageExtraction, Err: err.Error()})
		s.updateState(ctx, runID, StatusExtractionFailed, "", err.Error())
		return result
	}

	// Stage 2: normalization. Never fails; malformed input degrades to nulls
	// plus missing_fields.
	rec, findings := s.normalizer.Normalize(raw, req.Language)
	result.Findings = findings

	forbidden := 0
	for _, f := range findings {
		if f.Kind == normalize.FindingForbiddenFieldStripped {
			forbidden++
			s.logger.WarnContext(ctx, "forbidden field returned by extraction backend",
				"run_id", runID,
				"path", f.Path,
			)
		}
	}
	s.metrics.AddForbiddenFieldsStripped(forbidden)

	// Stage 3: validation. Pure; the engine owns the exemption section.
	vres := s.engine.Validate(rec, req.FormType)
	rec.ExemptionStatus = vres.Exemption
	result.Record = &rec
	result.Validation = &vres
	result.Status = StatusCompleted

	s.logger.InfoContext(ctx, "record validated",
		"run_id", runID,
		"client_name", rec.ClientName.Full(),
		"classification", vres.Classification,
		"red_flags", len(vres.RedFlags),
		"missing_fields", len(rec.MissingFields),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	// Stage 4: sinks. Failures are reported with the computed record
	// retained; a human can intervene manually.
	dealingRep := req.DealingRep
	if dealingRep == "" {
		dealingRep = s.dealingRep
	}
	doc, err := s.renderer.Render(ctx, rec, req.FormType, dealingRep)
	if err != nil {
		s.logger.ErrorContext(ctx, "rendering failed", "run_id", runID, "error", err)
		result.Errors = append(result.Errors, StageError{Stage: StageRendering, Err: err.Error()})
	} else {
		result.Document = &doc
	}

	if err := s.notifier.Notify(ctx, result, result.Document); err != nil {
		s.logger.ErrorContext(ctx, "notification failed", "run_id", runID, "error", err)
		result.Errors = append(result.Errors, StageError{Stage: StageNotification, Err: err.Error()})
	}

	s.metrics.RecordRun(string(StatusCompleted))
	s.updateState(ctx, runID, StatusCompleted, rec.ClientName.Full(), joinStageErrors(result.Errors))
	return result
}

func (s *Service) saveState(ctx context.Context, state RunState) {
	if err := s.store.Save(ctx, state); err != nil {
		s.logger.ErrorContext(ctx, "save run state failed", "run_id", state.RunID, "error", err)
	}
}

func (s *Service) updateState(ctx context.Context, runID string, status Status, clientName, errMsg string) {
	state, err := s.store.Get(ctx, runID)
	if err != nil {
		state = RunState{RunID: runID, CreatedAt: time.Now().UTC()}
	}
	state.Status = status
	state.ClientName = clientName
	state.Error = errMsg
	state.UpdatedAt = time.Now().UTC()
	s.saveState(ctx, state)
}

func joinStageErrors(errs []StageError) string {
	if len(errs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, string(e.Stage)+": "+e.Err)
	}
	return strings.Join(parts, "; ")
}
