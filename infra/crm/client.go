package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kilianp07/fieldops/auth"
)

// Config defines the connection parameters for the CRM REST API.
type Config struct {
	BaseURL string    `json:"base_url"`
	Auth    auth.Conf `json:"auth"`
	// TimeoutSeconds bounds every request; defaults to 10.
	TimeoutSeconds int `json:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 10
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("crm base_url is required")
	}
	return nil
}

// Client talks to the CRM REST API. It implements the technician,
// schedule and dispatch directory interfaces consumed by the orchestrator.
type Client struct {
	baseURL string
	http    *http.Client
	cred    *auth.ClientCred
}

// New creates a CRM client. Authentication is skipped when the auth
// section is left empty, which keeps local setups and tests simple.
func New(cfg Config) (*Client, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}
	if cfg.Auth.ClientID != "" {
		c.cred = auth.NewClientCred(cfg.Auth)
	}
	return c, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cred != nil {
		if err := c.cred.SetAuthHeader(req); err != nil {
			return fmt.Errorf("failed to set auth header: %w", err)
		}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
