package pipeline

import (
	"context"

	"skyvault/internal/schema"
)

// ExtractionBackend is the opaque extraction capability. Implementations must
// attempt every schema field and return null rather than invent values; the
// normalizer enforces the sensitive-field contract defensively regardless.
type ExtractionBackend interface {
	Extract(ctx context.Context, transcript string, lang schema.Language, formType schema.FormType) (map[string]any, error)
}

// DocumentHandle points at a rendered draft filing.
type DocumentHandle struct {
	Path string `json:"path"`
}

// Renderer produces the draft filing document. Failures are reported back,
// never retried here.
type Renderer interface {
	Render(ctx context.Context, rec schema.KYCRecord, formType schema.FormType, dealingRep string) (DocumentHandle, error)
}

// Notifier delivers the pipeline outcome to the reviewing humans. A nil
// document means rendering did not produce one.
type Notifier interface {
	Notify(ctx context.Context, result Result, doc *DocumentHandle) error
}

// RunStore tracks per-run status so the ingress layer can answer progress
// queries. Implementations must return sentinel.ErrNotFound for unknown runs.
type RunStore interface {
	Save(ctx context.Context, state RunState) error
	Get(ctx context.Context, runID string) (RunState, error)
}
