package chatgpt

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/anime-curator/internal/domain/curator"
)

func newTestGenerator(t *testing.T, handler http.HandlerFunc) *Generator {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient("test-key", server.URL)
	require.NoError(t, err)
	return NewGenerator(client, "gpt-4o-mini", 0.7)
}

func TestGeneratorGenerate(t *testing.T) {
	var got ChatCompletionRequest
	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"Watch Monster."}}]}`)
	})

	text, err := gen.Generate(context.Background(), "be a curator", "recommend something")
	require.NoError(t, err)
	require.Equal(t, "Watch Monster.", text)

	require.Equal(t, "gpt-4o-mini", got.Model)
	require.InDelta(t, 0.7, got.Temperature, 1e-6)
	require.Len(t, got.Messages, 2)
	require.Equal(t, Message{Role: "system", Content: "be a curator"}, got.Messages[0])
	require.Equal(t, Message{Role: "user", Content: "recommend something"}, got.Messages[1])
}

func TestGeneratorQuotaStatus(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"message":"Rate limit reached","code":"rate_limit_exceeded"}}`)
	})

	_, err := gen.Generate(context.Background(), "s", "p")
	var quota *curator.QuotaError
	require.ErrorAs(t, err, &quota)
	require.Equal(t, http.StatusTooManyRequests, quota.Status)
}

func TestGeneratorQuotaCode(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"error":{"message":"You exceeded your current quota","code":"insufficient_quota"}}`)
	})

	_, err := gen.Generate(context.Background(), "s", "p")
	var quota *curator.QuotaError
	require.ErrorAs(t, err, &quota)
}

func TestGeneratorPlainFailure(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":{"message":"server error","code":"server_error"}}`)
	})

	_, err := gen.Generate(context.Background(), "s", "p")
	require.Error(t, err)
	var quota *curator.QuotaError
	require.False(t, errors.As(err, &quota))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestGeneratorNoChoices(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"choices":[]}`)
	})

	_, err := gen.Generate(context.Background(), "s", "p")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no choices")
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient("  ", "")
	require.Error(t, err)
}
