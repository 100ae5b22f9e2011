// Package httptransport is the thin HTTP layer. It delegates to the pipeline
// service without embedding business logic so transport concerns stay
// isolated.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"skyvault/internal/pipeline"
	"skyvault/pkg/platform/httputil"
	"skyvault/pkg/requestcontext"
)

// PipelineService defines the pipeline operations the transport needs.
type PipelineService interface {
	Start(req pipeline.Request) string
	Run(ctx context.Context, req pipeline.Request) pipeline.Result
	Status(ctx context.Context, runID string) (pipeline.RunState, error)
}

// Handler wires intake endpoints to the pipeline service.
type Handler struct {
	service PipelineService
	logger  *slog.Logger
}

func NewHandler(service PipelineService, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts intake endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/webhook/transcript", h.HandleWebhook)
	r.Post("/extract/sync", h.HandleExtractSync)
	r.Get("/runs/{runID}", h.HandleRunStatus)
}

// HandleWebhook accepts a transcript, queues the pipeline run and acks
// immediately with the run ID.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeJSON[TranscriptRequest](w, r)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	runID := h.service.Start(req.ToPipelineRequest())

	h.logger.InfoContext(ctx, "transcript accepted",
		"request_id", requestID,
		"run_id", runID,
		"client_id", req.ClientID,
		"form_type", req.FormType,
		"transcript_chars", len(req.Transcript),
	)

	httputil.WriteJSON(w, http.StatusAccepted, WebhookResponse{
		RunID:    runID,
		Status:   pipeline.StatusProcessing,
		FormType: req.ToPipelineRequest().FormType,
		Message:  "KYC extraction started; the review team will be notified when the draft is ready",
	})
}

// HandleExtractSync runs the full pipeline inline and returns the result.
// Meant for testing and manual reruns, not the webhook path.
func (h *Handler) HandleExtractSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeJSON[TranscriptRequest](w, r)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	result := h.service.Run(ctx, req.ToPipelineRequest())

	h.logger.InfoContext(ctx, "synchronous run finished",
		"request_id", requestID,
		"run_id", result.RunID,
		"status", result.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	status := http.StatusOK
	if result.Status == pipeline.StatusExtractionFailed {
		status = http.StatusBadGateway
	}
	httputil.WriteJSON(w, status, result)
}

// HandleRunStatus reports the observable state of a queued run.
func (h *Handler) HandleRunStatus(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	state, err := h.service.Status(r.Context(), runID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, state)
}
