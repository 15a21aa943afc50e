package ask

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tnglemongrass/davinci"
	"github.com/tnglemongrass/davinci/internal/config"
)

func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/completions", r.URL.Path)
		var req davinci.CompletionRequest
		json.NewDecoder(r.Body).Decode(&req)
		resp := davinci.CompletionResponse{
			ID:      "1",
			Object:  "text_completion",
			Model:   req.Model,
			Choices: []davinci.Choice{{Text: "The answer is 4.", FinishReason: "stop"}},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func testConfig(serverURL string) *config.Config {
	return &config.Config{
		APIKey:    "test-key",
		APIBase:   serverURL,
		Context:   "You are a test assistant",
		MaxTokens: 100,
		Timeout:   5 * time.Second,
	}
}

func scriptedReader(inputs ...string) InputReader {
	idx := 0
	return func(_ string) (string, error) {
		if idx >= len(inputs) {
			return "", io.EOF
		}
		line := inputs[idx]
		idx++
		return line, nil
	}
}

func TestNewSession(t *testing.T) {
	srv := fakeServer(t)
	defer srv.Close()

	var buf bytes.Buffer
	s, err := NewSession(testConfig(srv.URL), &buf)
	require.NoError(t, err)
	assert.NotNil(t, s)
	assert.Equal(t, "You are a test assistant", s.Context())
}

func TestRunQuit(t *testing.T) {
	srv := fakeServer(t)
	defer srv.Close()

	var buf bytes.Buffer
	s, err := NewSession(testConfig(srv.URL), &buf)
	require.NoError(t, err)

	require.NoError(t, s.Run(scriptedReader("/quit")))
}

func TestRunAsksAndRenders(t *testing.T) {
	srv := fakeServer(t)
	defer srv.Close()

	var buf bytes.Buffer
	s, err := NewSession(testConfig(srv.URL), &buf)
	require.NoError(t, err)

	require.NoError(t, s.Run(scriptedReader("What is 2+2?", "/quit")))
	assert.Contains(t, buf.String(), "The answer is 4.")
}

func TestRunSkipsBlankInput(t *testing.T) {
	srv := fakeServer(t)
	defer srv.Close()

	var buf bytes.Buffer
	s, err := NewSession(testConfig(srv.URL), &buf)
	require.NoError(t, err)

	require.NoError(t, s.Run(scriptedReader("", "   ", "/quit")))
	assert.NotContains(t, buf.String(), "Error")
}

func TestRunReportsAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided"}}`))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	s, err := NewSession(testConfig(srv.URL), &buf)
	require.NoError(t, err)

	require.NoError(t, s.Run(scriptedReader("hello?", "/quit")))
	assert.Contains(t, buf.String(), "Error: API error 401: Incorrect API key provided")
}

func TestContextCommand(t *testing.T) {
	srv := fakeServer(t)
	defer srv.Close()

	var buf bytes.Buffer
	s, err := NewSession(testConfig(srv.URL), &buf)
	require.NoError(t, err)

	out := s.setContext("")
	assert.Equal(t, "You are a test assistant", out)

	out = s.setContext("You are a pirate")
	assert.Contains(t, out, "You are a pirate")
	assert.Equal(t, "You are a pirate", s.Context())
}

func TestTokensCommand(t *testing.T) {
	srv := fakeServer(t)
	defer srv.Close()

	var buf bytes.Buffer
	s, err := NewSession(testConfig(srv.URL), &buf)
	require.NoError(t, err)

	assert.Equal(t, "Max tokens: 100", s.setTokens(""))
	assert.Contains(t, s.setTokens("250"), "250")
	assert.Contains(t, s.setTokens("nope"), "Invalid")
	assert.Contains(t, s.setTokens("-5"), "Invalid")
}

func TestShowConfigRedactsKey(t *testing.T) {
	srv := fakeServer(t)
	defer srv.Close()

	var buf bytes.Buffer
	s, err := NewSession(testConfig(srv.URL), &buf)
	require.NoError(t, err)

	out := s.showConfig()
	assert.NotContains(t, out, "test-key")
	assert.Contains(t, out, "(set)")
	assert.Contains(t, out, "Max Tokens: 100")
}
