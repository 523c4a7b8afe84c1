package github

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

// apiVersion pins the REST API version sent with every request.
const apiVersion = "2022-11-28"

// Client is a thin HTTP client for the GitHub REST API. It handles Bearer
// token authentication, JSON unmarshaling, and automatic retry with
// exponential backoff when the primary or secondary rate limit is hit.
type Client struct {
	baseURL    string
	tokens     source.TokenSource
	httpClient *http.Client
	maxRetries int
}

// NewClient creates a new GitHub HTTP client. The baseURL is the API root
// (https://api.github.com, or https://host/api/v3 for Enterprise Server).
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
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	url := c.baseURL + path

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/vnd.github+json")
		req.Header.Set("X-GitHub-Api-Version", apiVersion)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("executing request GET %s: %w", path, err)
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return fmt.Errorf("reading response body: %w", readErr)
		}

		if isRateLimited(resp) {
			lastErr = fmt.Errorf("rate limited (%d) on GET %s", resp.StatusCode, path)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryAfterDuration(resp, attempt)):
				continue
			}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return c.statusError(path, resp.StatusCode, respBody)
		}

		if result == nil {
			return nil
		}

		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshaling response from GET %s: %w", path, err)
		}

		return nil
	}

	return fmt.Errorf(
		"max retries (%d) exceeded: %w", c.maxRetries, lastErr,
	)
}

// statusError converts a non-success response into a transport error,
// using GitHub's "message" field for the body when present.
func (c *Client) statusError(path string, status int, body []byte) error {
	detail := string(body)
	var ghErr ErrorResponse
	if json.Unmarshal(body, &ghErr) == nil && ghErr.Message != "" {
		detail = ghErr.Message
	}

	te := &source.TransportError{
		Source:     source.SourceTypeGitHub,
		Method:     http.MethodGet,
		Path:       path,
		StatusCode: status,
		Body:       detail,
	}

	if status == http.StatusUnauthorized {
		return &source.AuthError{
			SourceType: source.SourceTypeGitHub,
			Message: fmt.Sprintf(
				"authentication failed (401): check your token for %s",
				c.baseURL,
			),
			Transport: te,
		}
	}

	return te
}

// isRateLimited reports a 429, or a 403 with an exhausted rate limit.
func isRateLimited(resp *http.Response) bool {
	if resp.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return resp.StatusCode == http.StatusForbidden &&
		resp.Header.Get("X-RateLimit-Remaining") == "0"
}

// retryAfterDuration reads the Retry-After header and computes a wait
// duration. Falls back to exponential backoff if the header is missing.
func retryAfterDuration(resp *http.Response, attempt int) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	return backoff
}
