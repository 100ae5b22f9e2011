package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"skyvault/internal/pipeline"
	"skyvault/internal/schema"
	"skyvault/pkg/platform/sentinel"
)

type stubService struct {
	startReq  *pipeline.Request
	runResult pipeline.Result
	states    map[string]pipeline.RunState
}

func (s *stubService) Start(req pipeline.Request) string {
	s.startReq = &req
	return "run-abc"
}

func (s *stubService) Run(ctx context.Context, req pipeline.Request) pipeline.Result {
	return s.runResult
}

func (s *stubService) Status(ctx context.Context, runID string) (pipeline.RunState, error) {
	state, ok := s.states[runID]
	if !ok {
		return pipeline.RunState{}, sentinel.ErrNotFound
	}
	return state, nil
}

type HandlerSuite struct {
	suite.Suite
	service *stubService
	router  chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.service = &stubService{
		runResult: pipeline.Result{RunID: "run-abc", Status: pipeline.StatusCompleted},
		states:    map[string]pipeline.RunState{},
	}
	handler := NewHandler(s.service, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.router = chi.NewRouter()
	handler.Register(s.router)
}

func (s *HandlerSuite) post(path string, body any) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	require.NoError(s.T(), err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func longTranscript() string {
	return strings.Repeat("client discusses income, assets and risk tolerance. ", 3)
}

func (s *HandlerSuite) TestWebhookAccepted() {
	rec := s.post("/webhook/transcript", TranscriptRequest{
		Transcript:     longTranscript(),
		SourceLanguage: "ru",
		FormType:       "individual",
		ClientID:       "client-42",
	})

	s.Equal(http.StatusAccepted, rec.Code)

	var resp WebhookResponse
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("run-abc", resp.RunID)
	s.Equal(pipeline.StatusProcessing, resp.Status)
	s.Equal(schema.FormIndividual, resp.FormType)

	require.NotNil(s.T(), s.service.startReq)
	s.Equal(schema.LanguageRussian, s.service.startReq.Language)
	s.Equal("client-42", s.service.startReq.ClientID)
}

func (s *HandlerSuite) TestWebhookRejectsShortTranscript() {
	rec := s.post("/webhook/transcript", TranscriptRequest{Transcript: "hello"})

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "transcript too short")
	s.Nil(s.service.startReq)
}

func (s *HandlerSuite) TestWebhookRejectsMalformedBody() {
	req := httptest.NewRequest(http.MethodPost, "/webhook/transcript", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "invalid JSON body")
}

func (s *HandlerSuite) TestWebhookDefaultsUnknownFormType() {
	rec := s.post("/webhook/transcript", TranscriptRequest{
		Transcript: longTranscript(),
		FormType:   "mystery",
	})

	s.Equal(http.StatusAccepted, rec.Code)
	require.NotNil(s.T(), s.service.startReq)
	s.Equal(schema.FormIndividual, s.service.startReq.FormType)
}

func (s *HandlerSuite) TestExtractSyncCompleted() {
	rec := s.post("/extract/sync", TranscriptRequest{Transcript: longTranscript()})

	s.Equal(http.StatusOK, rec.Code)

	var result pipeline.Result
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &result))
	s.Equal("run-abc", result.RunID)
	s.Equal(pipeline.StatusCompleted, result.Status)
}

func (s *HandlerSuite) TestExtractSyncExtractionFailure() {
	s.service.runResult = pipeline.Result{
		RunID:  "run-abc",
		Status: pipeline.StatusExtractionFailed,
		Errors: []pipeline.StageError{{Stage: pipeline.StageExtraction, Err: "backend timeout"}},
	}

	rec := s.post("/extract/sync", TranscriptRequest{Transcript: longTranscript()})

	s.Equal(http.StatusBadGateway, rec.Code)
	s.Contains(rec.Body.String(), "backend timeout")
}

func (s *HandlerSuite) TestRunStatusFound() {
	s.service.states["run-abc"] = pipeline.RunState{
		RunID:  "run-abc",
		Status: pipeline.StatusCompleted,
	}

	req := httptest.NewRequest(http.MethodGet, "/runs/run-abc", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusOK, rec.Code)

	var state pipeline.RunState
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &state))
	s.Equal(pipeline.StatusCompleted, state.Status)
}

func (s *HandlerSuite) TestRunStatusNotFound() {
	req := httptest.NewRequest(http.MethodGet, "/runs/missing", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusNotFound, rec.Code)
	s.Contains(rec.Body.String(), "not found")
}
