package pipeline

import (
	"time"

	"skyvault/internal/normalize"
	"skyvault/internal/schema"
	"skyvault/internal/validation"
)

// Status is the observable run state reported to the ingress layer.
type Status string

const (
	StatusProcessing       Status = "processing"
	StatusCompleted        Status = "completed"
	StatusExtractionFailed Status = "extraction_failed"
	// StatusValidationError is reserved for schema-shape violations. The
	// validation engine itself never fails on a well-formed record.
	StatusValidationError Status = "validation_error"
)

// Stage names the pipeline step an error belongs to, so a terminal failure
// always communicates where it happened.
type Stage string

const (
	StageExtraction    Stage = "extraction"
	StageNormalization Stage = "normalization"
	StageValidation    Stage = "validation"
	StageRendering     Stage = "rendering"
	StageNotification  Stage = "notification"
)

// StageError reports a failed stage without discarding what earlier stages
// computed.
type StageError struct {
	Stage Stage  `json:"stage"`
	Err   string `json:"error"`
}

// Request is one transcript to process. ClientID is opaque passthrough from
// the trigger layer.
type Request struct {
	Transcript string          `json:"transcript"`
	Language   schema.Language `json:"language"`
	FormType   schema.FormType `json:"form_type"`
	DealingRep string          `json:"dealing_rep,omitempty"`
	ClientID   string          `json:"client_id,omitempty"`
}

// Result is the outcome of one pipeline run. Record and Validation are nil
// only when extraction failed; sink failures leave them populated so nothing
// computed is lost.
type Result struct {
	RunID      string              `json:"run_id"`
	ClientID   string              `json:"client_id,omitempty"`
	FormType   schema.FormType     `json:"form_type"`
	Status     Status              `json:"status"`
	Record     *schema.KYCRecord   `json:"record,omitempty"`
	Validation *validation.Result  `json:"validation,omitempty"`
	Document   *DocumentHandle     `json:"document,omitempty"`
	Findings   []normalize.Finding `json:"-"`
	Errors     []StageError        `json:"errors,omitempty"`
}

// RunState is the persisted per-run status record.
type RunState struct {
	RunID      string          `json:"run_id"`
	ClientID   string          `json:"client_id,omitempty"`
	FormType   schema.FormType `json:"form_type"`
	Status     Status          `json:"status"`
	ClientName string          `json:"client_name,omitempty"`
	Error      string          `json:"error,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
