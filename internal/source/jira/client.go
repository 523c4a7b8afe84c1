package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nhle/workstatus/internal/source"
)

// Client is a thin HTTP client for the Jira Server/DC REST API
// (core v2, agile 1.0 and dev-status 1.0). It handles Bearer token
// authentication, JSON unmarshaling, and automatic retry with
// exponential backoff on HTTP 429.
type Client struct {
	baseURL    string
	tokens     source.TokenSource
	httpClient *http.Client
	maxRetries int
}

// NewClient creates a new Jira HTTP client. The baseURL should be the
// root URL of the Jira instance (e.g., https://jira.corp.example.com).
// The token source is asked for a Personal Access Token on each request.
func NewClient(baseURL string, tokens source.TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: 3,
	}
}

// Get performs an HTTP GET request and unmarshals the JSON response.
func (c *Client) Get(
	ctx context.Context,
	path string,
	result interface{},
) error {
	return c.do(ctx, http.MethodGet, path, result)
}

// do builds the request, handles auth, rate limiting with exponential
// backoff, and JSON deserialization. Every non-2xx response other than
// 429 becomes a *source.TransportError.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	result interface{},
) error {
	if c.baseURL == "" {
		return &source.ConfigError{
			Key:         "jira.base_url",
			Remediation: "set jira.base_url in the config file or run `workstatus login`",
		}
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	url := c.baseURL + path

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, method, url, nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("executing request %s %s: %w", method, path, err)
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return fmt.Errorf("reading response body: %w", readErr)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			waitDuration := retryAfterDuration(resp, attempt)
			lastErr = fmt.Errorf(
				"rate limited (429) on %s %s", method, path,
			)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitDuration):
				continue
			}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return c.statusError(method, path, resp.StatusCode, respBody)
		}

		if result == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}

		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf(
				"unmarshaling response from %s %s: %w",
				method, path, err,
			)
		}

		return nil
	}

	return fmt.Errorf(
		"max retries (%d) exceeded: %w", c.maxRetries, lastErr,
	)
}

// statusError converts a non-success response into a transport error,
// preferring Jira's structured error messages for the body.
func (c *Client) statusError(
	method string,
	path string,
	status int,
	body []byte,
) error {
	detail := string(body)
	var jiraErr ErrorResponse
	if json.Unmarshal(body, &jiraErr) == nil &&
		(len(jiraErr.ErrorMessages) > 0 || len(jiraErr.Errors) > 0) {
		detail = strings.Join(jiraErr.ErrorMessages, "; ")
		if len(jiraErr.Errors) > 0 {
			detail = strings.TrimSpace(fmt.Sprintf("%s %v", detail, jiraErr.Errors))
		}
	}

	te := &source.TransportError{
		Source:     source.SourceTypeJira,
		Method:     method,
		Path:       path,
		StatusCode: status,
		Body:       detail,
	}

	if status == http.StatusUnauthorized {
		return &source.AuthError{
			SourceType: source.SourceTypeJira,
			Message: fmt.Sprintf(
				"authentication failed (401): check your "+
					"Personal Access Token for %s", c.baseURL,
			),
			Transport: te,
		}
	}

	return te
}

// retryAfterDuration reads the Retry-After header and computes a wait
// duration. Falls back to exponential backoff if the header is missing.
func retryAfterDuration(resp *http.Response, attempt int) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	// Exponential backoff: 1s, 2s, 4s, ...
	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	return backoff
}
