package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"
)

// fakeOpenAI serves chat completions, answering with the number of messages
// it was sent. Request failOn (1-based) gets a 401 when set.
func fakeOpenAI(t *testing.T, failOn int32) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if n == failOn {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error":{"message":"invalid api key","type":"invalid_request_error"}}`)
			return
		}
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:    fmt.Sprintf("cmpl-%d", n),
			Model: req.Model,
			Choices: []openai.ChatCompletionChoice{{
				Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: fmt.Sprintf("reply to %d messages", len(req.Messages))},
				FinishReason: openai.FinishReasonStop,
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func setupEnv(t *testing.T, baseURL string) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("LLM_BASE_URL", "")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("LLM_MODEL", "")
	t.Setenv("ARCHIVE_PATH", "")
	t.Setenv("OPENROUTER_BASE_URL", baseURL)
	t.Setenv("OPENROUTER_API_KEY", "sk-test")
	t.Setenv("MODEL_NAME", "test-model")
}

func TestRun_TweetSession(t *testing.T) {
	srv, calls := fakeOpenAI(t, 0)
	setupEnv(t, srv.URL)
	dbPath := filepath.Join(t.TempDir(), "reports.db")

	var stdout, stderr bytes.Buffer
	code := run([]string{"--archive", dbPath, "tool", "calling", "is", "underrated"}, nil, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	require.EqualValues(t, 7, calls.Load())
	out := stdout.String()
	require.Contains(t, out, "Make this tweet better:")
	require.Contains(t, out, "Round 3 · Critique")
	require.Contains(t, out, "Round 4 · Draft")
	require.Contains(t, out, "reply to 8 messages", "last draft sees system prompt plus 7 messages")
	require.NotContains(t, out, "Round 4 · Critique")

	_, err := os.Stat(dbPath)
	require.NoError(t, err)
}

func TestRun_Deterministic(t *testing.T) {
	srv, _ := fakeOpenAI(t, 0)
	setupEnv(t, srv.URL)

	var first, second, stderr bytes.Buffer
	require.Equal(t, exitOK, run([]string{"--mode", "audit", "eval(x)"}, nil, &first, &stderr))
	require.Equal(t, exitOK, run([]string{"--mode", "audit", "eval(x)"}, nil, &second, &stderr))
	require.Equal(t, first.String(), second.String())
}

func TestRun_CompletionFailureDiscardsTranscript(t *testing.T) {
	srv, calls := fakeOpenAI(t, 3)
	setupEnv(t, srv.URL)

	var stdout, stderr bytes.Buffer
	code := run([]string{"hello"}, nil, &stdout, &stderr)
	require.Equal(t, exitFailure, code)
	require.EqualValues(t, 3, calls.Load(), "no retry after a failure")
	require.Empty(t, stdout.String(), "partial transcript must not be rendered")
	require.Contains(t, stderr.String(), "Round 2 generate failed")
	require.Contains(t, stderr.String(), "authentication failed")
}

func TestRun_MissingConfigFailsBeforeAnyCall(t *testing.T) {
	srv, calls := fakeOpenAI(t, 0)
	setupEnv(t, srv.URL)
	t.Setenv("MODEL_NAME", "")

	var stdout, stderr bytes.Buffer
	code := run([]string{"hello"}, nil, &stdout, &stderr)
	require.Equal(t, exitUsage, code)
	require.Zero(t, calls.Load())
	require.Contains(t, stderr.String(), "Configuration error")
	require.Contains(t, stderr.String(), "MODEL_NAME")
}

func TestRun_UnknownMode(t *testing.T) {
	srv, calls := fakeOpenAI(t, 0)
	setupEnv(t, srv.URL)

	var stdout, stderr bytes.Buffer
	require.Equal(t, exitUsage, run([]string{"--mode", "poem", "hello"}, nil, &stdout, &stderr))
	require.Zero(t, calls.Load())
}
