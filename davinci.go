package davinci

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the OpenAI API endpoint used unless overridden.
const DefaultBaseURL = "https://api.openai.com"

// DefaultTimeout bounds the whole request round trip when the caller does not
// install their own HTTP client or cancel via context.
const DefaultTimeout = 30 * time.Second

// Params holds the sampling parameters sent with every completion request.
// The zero value is not useful; start from DefaultParams.
type Params struct {
	Model            string
	Temperature      float64
	TopP             int
	FrequencyPenalty float64
	PresencePenalty  float64
	Stop             []string
}

// DefaultParams returns the standard sampling policy: moderately creative,
// penalized for repetition, stopping at the first newline.
func DefaultParams() Params {
	return Params{
		Model:            "text-davinci-003",
		Temperature:      0.9,
		TopP:             1,
		FrequencyPenalty: 0.0,
		PresencePenalty:  0.6,
		Stop:             []string{"\n"},
	}
}

// Client communicates with the OpenAI completions endpoint.
// It holds no mutable state and is safe for concurrent use.
type Client struct {
	BaseURL    string
	APIKey     string
	Params     Params
	HTTPClient *http.Client
}

// NewClient creates a Client for the given API key with DefaultParams and a
// DefaultTimeout-bounded HTTP client.
func NewClient(apiKey string) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		APIKey:     apiKey,
		Params:     DefaultParams(),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// Complete asks the model one question and returns the first choice's text.
//
// contextText describes the desired behavior or persona and question is the
// phrase to ask; both are formatted into the prompt by BuildPrompt. maxTokens
// bounds the generated token count and is passed through unvalidated — the
// caller is responsible for staying under the provider's limit (up to ~4096
// depending on the backing model). The API key is likewise sent as-is.
//
// Exactly one request is issued; there are no retries. Transport failures,
// non-2xx statuses (*APIError), undecodable bodies and empty choice lists
// (ErrEmptyChoices) are all returned as errors.
func (c *Client) Complete(ctx context.Context, contextText, question string, maxTokens int) (string, error) {
	req := CompletionRequest{
		Model:            c.Params.Model,
		Prompt:           BuildPrompt(contextText, question),
		Temperature:      c.Params.Temperature,
		MaxTokens:        maxTokens,
		TopP:             c.Params.TopP,
		FrequencyPenalty: c.Params.FrequencyPenalty,
		PresencePenalty:  c.Params.PresencePenalty,
		Stop:             c.Params.Stop,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(c.BaseURL, "/")+"/v1/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.httpClient().Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
		var envelope errorResponse
		if json.Unmarshal(respBody, &envelope) == nil {
			apiErr.Detail = envelope.Error
		}
		return "", apiErr
	}

	var result CompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", ErrEmptyChoices
	}
	return result.Choices[0].Text, nil
}

// Complete is a convenience wrapper that issues a single completion request
// with DefaultParams, for callers that do not need a reusable Client.
func Complete(ctx context.Context, apiKey, contextText, question string, maxTokens int) (string, error) {
	return NewClient(apiKey).Complete(ctx, contextText, question, maxTokens)
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}
