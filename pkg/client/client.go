// Package client calls the registration API over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"registrar/internal/dto"
	"registrar/internal/model"
)

const registrationsPath = "/v1/registrations"

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each call; zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit posts form and decodes the server's answer. Validation and store
// failures come back as a response with Success=false; an error is returned
// only when no well-formed answer was received.
func (c *Client) Submit(ctx context.Context, form model.RegistrationForm) (dto.SubmissionResponse, error) {
	payload, err := json.Marshal(form)
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+registrationsPath, bytes.NewReader(payload))
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("error submitting registration: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("error reading response: %w", err)
	}

	var out dto.SubmissionResponse
	if err := json.Unmarshal(body, &out); err != nil || out.Message == "" {
		return dto.SubmissionResponse{}, fmt.Errorf("unexpected response (status %d): %s", resp.StatusCode, string(body))
	}
	return out, nil
}
