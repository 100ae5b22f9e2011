package extraction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"skyvault/internal/schema"
	"skyvault/pkg/platform/sentinel"
)

func apiResponse(text string) string {
	payload, _ := json.Marshal(map[string]any{
		"content": []map[string]any{{"type": "text", "text": text}},
	})
	return string(payload)
}

func newTestBackend(t *testing.T, handler http.HandlerFunc) *AnthropicBackend {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAnthropic(Config{APIKey: "test-key", BaseURL: srv.URL})
}

func TestExtractParsesModelJSON(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/messages", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("x-api-key"))
		require.Equal(t, apiVersion, r.Header.Get("anthropic-version"))

		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.System)
		require.Len(t, req.Messages, 1)
		require.Contains(t, req.Messages[0].Content, "Source language hint: ru")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(apiResponse(`{"client_name": {"first": "Ivan", "last": "Petrov"}}`)))
	})

	raw, err := backend.Extract(context.Background(), "transcript text", schema.LanguageRussian, schema.FormIndividual)
	require.NoError(t, err)

	name, ok := raw["client_name"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Ivan", name["first"])
}

func TestExtractStripsMarkdownFences(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(apiResponse("```json\n{\"financials\": {\"annual_income\": 180000}}\n```")))
	})

	raw, err := backend.Extract(context.Background(), "transcript", schema.LanguageAuto, schema.FormIndividual)
	require.NoError(t, err)

	fin, ok := raw["financials"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, 180000.0, fin["annual_income"])
}

func TestExtractServerError(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	})

	_, err := backend.Extract(context.Background(), "transcript", schema.LanguageEnglish, schema.FormIndividual)
	require.Error(t, err)
	require.ErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestExtractNonJSONAnswer(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(apiResponse("I could not find any KYC data in this transcript.")))
	})

	_, err := backend.Extract(context.Background(), "transcript", schema.LanguageEnglish, schema.FormIndividual)
	require.Error(t, err)
	require.NotErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestExtractEmptyContent(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content": []}`))
	})

	_, err := backend.Extract(context.Background(), "transcript", schema.LanguageEnglish, schema.FormIndividual)
	require.Error(t, err)
}

func TestParseModelJSONVariants(t *testing.T) {
	cases := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"bare object", `{"a": 1}`, false},
		{"fenced", "```\n{\"a\": 1}\n```", false},
		{"fenced with language tag", "```json\n{\"a\": 1}\n```", false},
		{"prose", "the client is accredited", true},
		{"array", `[1, 2]`, true},
		{"empty", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := parseModelJSON(tc.text)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Contains(t, raw, "a")
		})
	}
}
