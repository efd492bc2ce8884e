package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/anime-curator/internal/domain/curator"
	"github.com/yanqian/anime-curator/internal/infra/config"
	apperrors "github.com/yanqian/anime-curator/pkg/errors"
)

func TestRouter_ChatSuccess(t *testing.T) {
	favorite := curator.MediaItem{ID: 1, Title: "Death Note", Genres: []string{"Mystery"}, Year: 2006}
	resp := curator.Response{
		AssistantMessage: curator.Message{Role: "assistant", Content: "Watch Monster."},
		Favorite:         &favorite,
		Similar:          []curator.MediaItem{{ID: 2, Title: "Monster", Genres: []string{"Mystery"}, Year: 2004}},
		Errors:           []curator.APIError{},
		Timings:          curator.Timings{AIProvider: "gemini"},
	}
	svc := &stubCuratorService{
		chatFn: func(ctx context.Context, req curator.Request) (curator.Response, error) {
			require.Len(t, req.Messages, 1)
			require.Equal(t, "Death Note", req.Messages[0].Content)
			return resp, nil
		},
	}

	recorder := performRequest("/api/v1/chat", `{"messages":[{"role":"user","content":"Death Note"}]}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got curator.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, "Watch Monster.", got.AssistantMessage.Content)
	require.NotNil(t, got.Favorite)
	require.Equal(t, "Death Note", got.Favorite.Title)
	require.Len(t, got.Similar, 1)
	require.Empty(t, got.Errors)
	require.Equal(t, "gemini", got.Timings.AIProvider)
}

func TestRouter_ChatDegradedStillOK(t *testing.T) {
	svc := &stubCuratorService{
		chatFn: func(ctx context.Context, req curator.Request) (curator.Response, error) {
			return curator.Response{
				AssistantMessage: curator.Message{Role: "assistant", Content: "I could not fetch similar titles right now. Try another title or retry in a moment."},
				Similar:          []curator.MediaItem{},
				Errors:           []curator.APIError{{Source: "catalog", Message: "AniList HTTP 500"}},
				Timings:          curator.Timings{AIProvider: "none"},
			}, nil
		},
	}

	recorder := performRequest("/api/v1/chat", `{"messages":[{"role":"user","content":"Death Note"}]}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Equal(t, "null", string(body["favorite"]))
	require.Equal(t, "[]", string(body["similar"]))

	var apiErrs []curator.APIError
	require.NoError(t, json.Unmarshal(body["errors"], &apiErrs))
	require.Len(t, apiErrs, 1)
	require.Equal(t, "catalog", apiErrs[0].Source)
}

func TestRouter_ChatValidationError(t *testing.T) {
	svc := &stubCuratorService{
		chatFn: func(ctx context.Context, req curator.Request) (curator.Response, error) {
			return curator.Response{}, apperrors.Wrap("validation", "No user message found", nil)
		},
	}

	recorder := performRequest("/api/v1/chat", `{"messages":[{"role":"assistant","content":"hello"}]}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "validation", errBody["error"]["source"])
	require.Contains(t, errBody["error"]["message"], "No user message found")
}

func TestRouter_ChatInvalidJSON(t *testing.T) {
	svc := &stubCuratorService{}

	recorder := performRequest("/api/v1/chat", `{"messages":[{"role":"user","content":123}]}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "validation", errBody["error"]["source"])
	require.NotEmpty(t, errBody["error"]["message"])
	require.Equal(t, 0, svc.calls)
}

func TestRouter_ChatUnexpectedError(t *testing.T) {
	svc := &stubCuratorService{
		chatFn: func(ctx context.Context, req curator.Request) (curator.Response, error) {
			return curator.Response{}, errors.New("catalog client exploded")
		},
	}

	recorder := performRequest("/api/v1/chat", `{"messages":[{"role":"user","content":"Death Note"}]}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusInternalServerError, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "unknown", errBody["error"]["source"])
	require.Equal(t, "Unexpected error", errBody["error"]["message"])
}

func TestRouter_Healthz(t *testing.T) {
	server := newRouterUnderTest(t, &stubCuratorService{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RequestIDHeader(t *testing.T) {
	server := newRouterUnderTest(t, &stubCuratorService{
		chatFn: func(ctx context.Context, req curator.Request) (curator.Response, error) {
			return curator.Response{Similar: []curator.MediaItem{}, Errors: []curator.APIError{}}, nil
		},
	})

	recorder := performRequest("/api/v1/chat", `{"messages":[{"role":"user","content":"x"}]}`, server)
	require.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
}

func performRequest(path, body string, server *http.Server) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newRouterUnderTest(t *testing.T, svc curator.Service) *http.Server {
	t.Helper()
	logger := newTestLogger()
	handler := NewHandler(svc, logger)
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	return NewRouter(cfg, handler, logger)
}

func decodeErrorBody(t *testing.T, data []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(data, &body))
	return body
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubCuratorService struct {
	chatFn func(ctx context.Context, req curator.Request) (curator.Response, error)
	calls  int
}

func (s *stubCuratorService) Chat(ctx context.Context, req curator.Request) (curator.Response, error) {
	s.calls++
	if s.chatFn != nil {
		return s.chatFn(ctx, req)
	}
	return curator.Response{Similar: []curator.MediaItem{}, Errors: []curator.APIError{}}, nil
}
