package serverapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"brc-agent/internal/application/port/output"
	"brc-agent/internal/domain/entity"
	"brc-agent/internal/infrastructure/logger"
)

var _ output.CommandServer = (*Client)(nil)

const (
	DefaultAPIPrefix = "/wp-json/brc/v1"
	DefaultTimeout   = 30 * time.Second

	maxErrorBody = 4 << 10
)

type Config struct {
	// APIPrefix is appended to the configured server URL.
	APIPrefix string
	Timeout   time.Duration
	Transport http.RoundTripper
	Logger    output.LoggerPort
}

func DefaultConfig() Config {
	return Config{
		APIPrefix: DefaultAPIPrefix,
		Timeout:   DefaultTimeout,
	}
}

// Client speaks the command queue's JSON protocol. The endpoint comes from
// the settings snapshot passed to each call, so edits apply on the next call.
type Client struct {
	http   *http.Client
	prefix string
	logger output.LoggerPort
}

func NewClient(cfg Config) *Client {
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = DefaultAPIPrefix
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
	transport = &loggingTransport{base: transport, logger: cfg.Logger}

	return &Client{
		http:   &http.Client{Transport: transport, Timeout: cfg.Timeout},
		prefix: "/" + strings.Trim(cfg.APIPrefix, "/"),
		logger: cfg.Logger,
	}
}

// StatusError is a non-2xx answer from the server.
type StatusError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: server returned %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: server returned %d: %s", e.Op, e.StatusCode, e.Message)
}

type registerRequest struct {
	APIKey    string `json:"api_key"`
	BrowserID string `json:"browser_id"`
	Label     string `json:"label"`
}

type registerResponse struct {
	Status string `json:"status"`
}

type pollResponse struct {
	Commands []json.RawMessage `json:"commands"`
}

type reportRequest struct {
	APIKey    string               `json:"api_key"`
	BrowserID string               `json:"browser_id"`
	Status    entity.OutcomeStatus `json:"status"`
	Result    string               `json:"result"`
}

func (c *Client) Register(ctx context.Context, settings entity.Settings) (string, error) {
	body := registerRequest{
		APIKey:    settings.Binding.Credential,
		BrowserID: settings.Identity.ID,
		Label:     settings.Label(),
	}
	var resp registerResponse
	if err := c.do(ctx, "register", http.MethodPost, c.url(settings, "register", nil), body, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// Poll fetches the pending queue. An entry whose id cannot be read is dropped,
// since its outcome could not be reported; an entry whose command does not
// decode is kept with Err set.
func (c *Client) Poll(ctx context.Context, settings entity.Settings) ([]entity.CommandEnvelope, error) {
	query := url.Values{
		"api_key":    {settings.Binding.Credential},
		"browser_id": {settings.Identity.ID},
	}
	var resp pollResponse
	if err := c.do(ctx, "poll", http.MethodGet, c.url(settings, "poll", query), nil, &resp); err != nil {
		return nil, err
	}

	envelopes := make([]entity.CommandEnvelope, 0, len(resp.Commands))
	for _, raw := range resp.Commands {
		var env entity.CommandEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.logger.Warn("Dropping queue entry without usable id", "error", err)
			continue
		}
		envelopes = append(envelopes, env)
	}
	return envelopes, nil
}

func (c *Client) Report(ctx context.Context, settings entity.Settings, envelopeID int64, outcome entity.ExecutionOutcome) error {
	body := reportRequest{
		APIKey:    settings.Binding.Credential,
		BrowserID: settings.Identity.ID,
		Status:    outcome.Status,
		Result:    outcome.Result,
	}
	path := "result/" + strconv.FormatInt(envelopeID, 10)
	return c.do(ctx, "report", http.MethodPost, c.url(settings, path, nil), body, nil)
}

func (c *Client) url(settings entity.Settings, path string, query url.Values) string {
	u := strings.TrimRight(settings.Binding.Endpoint, "/") + c.prefix + "/" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) do(ctx context.Context, op, method, target string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// errorMessage prefers the "message" field of a JSON error body and falls
// back to the raw text.
func errorMessage(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(data))
}
