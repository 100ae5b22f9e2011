package httptransport

import (
	"fmt"
	"strings"

	"skyvault/internal/pipeline"
	"skyvault/internal/schema"
)

// minTranscriptLen filters out empty webhook pings and truncated payloads
// before spending a model call on them.
const minTranscriptLen = 50

// TranscriptRequest is the ingress payload from the transcript source.
// client_id is opaque passthrough.
type TranscriptRequest struct {
	Transcript     string `json:"transcript"`
	SourceLanguage string `json:"source_language,omitempty"`
	FormType       string `json:"form_type,omitempty"`
	DealingRep     string `json:"dealing_rep,omitempty"`
	ClientID       string `json:"client_id,omitempty"`
	CallDate       string `json:"call_date,omitempty"`
}

func (r TranscriptRequest) Validate() error {
	if len(strings.TrimSpace(r.Transcript)) < minTranscriptLen {
		return fmt.Errorf("transcript too short or empty (min %d characters)", minTranscriptLen)
	}
	return nil
}

func (r TranscriptRequest) ToPipelineRequest() pipeline.Request {
	return pipeline.Request{
		Transcript: r.Transcript,
		Language:   schema.ParseLanguage(r.SourceLanguage),
		FormType:   schema.ParseFormType(r.FormType),
		DealingRep: r.DealingRep,
		ClientID:   r.ClientID,
	}
}

// WebhookResponse acks an accepted transcript; processing continues in the
// background and the status endpoint serves progress.
type WebhookResponse struct {
	RunID    string          `json:"run_id"`
	Status   pipeline.Status `json:"status"`
	FormType schema.FormType `json:"form_type"`
	Message  string          `json:"message"`
}
