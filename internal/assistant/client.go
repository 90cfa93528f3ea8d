// Package assistant wraps the external speech-and-chat service behind a
// small typed client. The upstream exposes one JSON endpoint that both
// transcribes voice clips and produces conversational replies; this package
// keeps the wire shapes in one place so the rest of the application only
// deals with plain strings.
package assistant

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "http://localhost:3001"
	defaultTimeout = 30 * time.Second
)

// APIError carries the status and body of a non-2xx upstream response.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("assistant upstream status %d: %s", e.Status, e.Body)
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the per-request timeout used when the caller's context
// carries no deadline of its own.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// Client is a typed HTTP client for the assistant service.
type Client struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient creates an assistant client. apiKey may be empty when the
// upstream is an unauthenticated local mock.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		timeout:    defaultTimeout,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transcript is the upstream's answer to a voice clip: the recognized text
// plus an optional base64 audio reply for playback.
type Transcript struct {
	Text  string `json:"text"`
	Audio string `json:"audio,omitempty"`
}

type transcribeRequest struct {
	Audio  string `json:"audio"`
	Action string `json:"action"`
}

// Transcribe sends a recorded voice clip (raw bytes, encoded to base64 on
// the wire) and returns the recognized utterance.
func (c *Client) Transcribe(ctx context.Context, audio []byte) (*Transcript, error) {
	req := transcribeRequest{
		Audio:  base64.StdEncoding.EncodeToString(audio),
		Action: "chat",
	}
	var out Transcript
	if err := c.post(ctx, "/api", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type completeRequest struct {
	Prompt  string   `json:"prompt"`
	Service string   `json:"service,omitempty"`
	Context []string `json:"context,omitempty"`
}

type completeResponse struct {
	Response string `json:"response"`
}

// Complete asks the upstream for a conversational reply. service hints which
// vertical the conversation belongs to; history carries prior messages,
// oldest first.
func (c *Client) Complete(ctx context.Context, prompt, service string, history []string) (string, error) {
	req := completeRequest{Prompt: prompt, Service: service, Context: history}
	var out completeResponse
	if err := c.post(ctx, "/api", req, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
