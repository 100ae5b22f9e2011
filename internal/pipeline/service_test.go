package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"skyvault/internal/normalize"
	"skyvault/internal/schema"
	"skyvault/pkg/platform/sentinel"
)

type stubBackend struct {
	raw   map[string]any
	err   error
	block bool

	mu    sync.Mutex
	calls int
}

func (b *stubBackend) Extract(ctx context.Context, transcript string, lang schema.Language, formType schema.FormType) (map[string]any, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	if b.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return b.raw, b.err
}

type stubRenderer struct {
	err error
}

func (r *stubRenderer) Render(ctx context.Context, rec schema.KYCRecord, formType schema.FormType, dealingRep string) (DocumentHandle, error) {
	if r.err != nil {
		return DocumentHandle{}, r.err
	}
	return DocumentHandle{Path: "/tmp/kyc_test.pdf"}, nil
}

type stubNotifier struct {
	err error

	mu     sync.Mutex
	calls  int
	result Result
	doc    *DocumentHandle
}

func (n *stubNotifier) Notify(ctx context.Context, result Result, doc *DocumentHandle) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	n.result = result
	n.doc = doc
	return n.err
}

func (n *stubNotifier) snapshot() (int, *DocumentHandle) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls, n.doc
}

type stubStore struct {
	mu     sync.Mutex
	states map[string]RunState
}

func newStubStore() *stubStore {
	return &stubStore{states: make(map[string]RunState)}
}

func (s *stubStore) Save(ctx context.Context, state RunState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.RunID] = state
	return nil
}

func (s *stubStore) Get(ctx context.Context, runID string) (RunState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[runID]
	if !ok {
		return RunState{}, sentinel.ErrNotFound
	}
	return state, nil
}

type ServiceSuite struct {
	suite.Suite
	backend  *stubBackend
	renderer *stubRenderer
	notifier *stubNotifier
	store    *stubStore
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.backend = &stubBackend{raw: validRaw()}
	s.renderer = &stubRenderer{}
	s.notifier = &stubNotifier{}
	s.store = newStubStore()
}

func (s *ServiceSuite) newService() *Service {
	return NewService(ServiceConfig{
		Backend:  s.backend,
		Renderer: s.renderer,
		Notifier: s.notifier,
		Store:    s.store,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func validRaw() map[string]any {
	return map[string]any{
		"client_name": map[string]any{"first": "Ivan", "last": "Petrov"},
		"financials": map[string]any{
			"annual_income":         220000.0,
			"income_stable_2_years": true,
		},
	}
}

func (s *ServiceSuite) request() Request {
	return Request{
		Transcript: "long enough transcript about the client's finances",
		Language:   schema.LanguageEnglish,
		FormType:   schema.FormIndividual,
		ClientID:   "client-42",
	}
}

func (s *ServiceSuite) TestRunSuccess() {
	svc := s.newService()
	result := svc.Run(context.Background(), s.request())

	s.Equal(StatusCompleted, result.Status)
	s.Empty(result.Errors)
	require.NotNil(s.T(), result.Record)
	require.NotNil(s.T(), result.Validation)
	require.NotNil(s.T(), result.Document)
	s.Equal("/tmp/kyc_test.pdf", result.Document.Path)

	// The exemption section on the record mirrors the validation outcome.
	s.True(result.Record.ExemptionStatus.IsAccredited)
	s.Equal(result.Validation.Exemption, result.Record.ExemptionStatus)

	calls, doc := s.notifier.snapshot()
	s.Equal(1, calls)
	require.NotNil(s.T(), doc)

	state, err := s.store.Get(context.Background(), result.RunID)
	require.NoError(s.T(), err)
	s.Equal(StatusCompleted, state.Status)
	s.Equal("Ivan Petrov", state.ClientName)
	s.Equal("client-42", state.ClientID)
	s.Empty(state.Error)
}

func (s *ServiceSuite) TestExtractionFailure() {
	s.backend.raw = nil
	s.backend.err = errors.New("backend returned 500")
	svc := s.newService()

	result := svc.Run(context.Background(), s.request())

	s.Equal(StatusExtractionFailed, result.Status)
	s.Nil(result.Record)
	s.Nil(result.Validation)
	s.Nil(result.Document)
	require.Len(s.T(), result.Errors, 1)
	s.Equal(StageExtraction, result.Errors[0].Stage)

	// No document, no notification: a failed extraction produces nothing to
	// deliver.
	calls, _ := s.notifier.snapshot()
	s.Zero(calls)

	state, err := s.store.Get(context.Background(), result.RunID)
	require.NoError(s.T(), err)
	s.Equal(StatusExtractionFailed, state.Status)
	s.Contains(state.Error, "backend returned 500")
}

func (s *ServiceSuite) TestExtractionTimeout() {
	s.backend.block = true
	svc := NewService(ServiceConfig{
		Backend:        s.backend,
		Renderer:       s.renderer,
		Notifier:       s.notifier,
		Store:          s.store,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		ExtractTimeout: 20 * time.Millisecond,
	})

	result := svc.Run(context.Background(), s.request())

	s.Equal(StatusExtractionFailed, result.Status)
	require.Len(s.T(), result.Errors, 1)
	s.Equal(StageExtraction, result.Errors[0].Stage)
}

func (s *ServiceSuite) TestRendererFailureKeepsRecord() {
	s.renderer.err = errors.New("disk full")
	svc := s.newService()

	result := svc.Run(context.Background(), s.request())

	// Sink failures never discard computed results.
	s.Equal(StatusCompleted, result.Status)
	require.NotNil(s.T(), result.Record)
	require.NotNil(s.T(), result.Validation)
	s.Nil(result.Document)
	require.Len(s.T(), result.Errors, 1)
	s.Equal(StageRendering, result.Errors[0].Stage)

	// Notification still goes out, with no attachment.
	calls, doc := s.notifier.snapshot()
	s.Equal(1, calls)
	s.Nil(doc)

	state, err := s.store.Get(context.Background(), result.RunID)
	require.NoError(s.T(), err)
	s.Equal(StatusCompleted, state.Status)
	s.Contains(state.Error, "rendering: disk full")
}

func (s *ServiceSuite) TestNotifierFailure() {
	s.notifier.err = errors.New("smtp unreachable")
	svc := s.newService()

	result := svc.Run(context.Background(), s.request())

	s.Equal(StatusCompleted, result.Status)
	require.NotNil(s.T(), result.Document)
	require.Len(s.T(), result.Errors, 1)
	s.Equal(StageNotification, result.Errors[0].Stage)

	state, err := s.store.Get(context.Background(), result.RunID)
	require.NoError(s.T(), err)
	s.Contains(state.Error, "notification: smtp unreachable")
}

func (s *ServiceSuite) TestForbiddenFindingsSurface() {
	s.backend.raw = map[string]any{
		"client_name": map[string]any{"first": "Ivan", "last": "Petrov"},
		"sin":         "123 456 789",
	}
	svc := s.newService()

	result := svc.Run(context.Background(), s.request())

	require.Equal(s.T(), StatusCompleted, result.Status)
	var stripped []normalize.Finding
	for _, f := range result.Findings {
		if f.Kind == normalize.FindingForbiddenFieldStripped {
			stripped = append(stripped, f)
		}
	}
	require.Len(s.T(), stripped, 1)
	s.Equal("sin", stripped[0].Path)
}

func (s *ServiceSuite) TestStartRunsInBackground() {
	svc := s.newService()

	runID := svc.Start(s.request())
	s.NotEmpty(runID)

	// The processing state is visible immediately; completion follows.
	state, err := s.store.Get(context.Background(), runID)
	require.NoError(s.T(), err)
	s.Contains([]Status{StatusProcessing, StatusCompleted}, state.Status)

	s.Eventually(func() bool {
		state, err := s.store.Get(context.Background(), runID)
		return err == nil && state.Status == StatusCompleted
	}, 2*time.Second, 10*time.Millisecond)

	calls, _ := s.notifier.snapshot()
	s.Equal(1, calls)
}

func (s *ServiceSuite) TestStatusUnknownRun() {
	svc := s.newService()
	_, err := svc.Status(context.Background(), "no-such-run")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
