// Package login collects connection settings and tokens for both sources.
package login

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/99designs/keyring"
	"github.com/charmbracelet/huh"

	"github.com/nhle/workstatus/internal/model"
	"github.com/nhle/workstatus/internal/source"
)

// Values holds what the login form collects. An empty token keeps the
// stored one.
type Values struct {
	JiraBaseURL  string
	JiraToken    string
	GitHubAPIURL string
	GitHubToken  string
}

// NewValues prefills the form from the current configuration.
func NewValues(cfg *model.AppConfig) *Values {
	return &Values{
		JiraBaseURL:  cfg.Jira.BaseURL,
		GitHubAPIURL: cfg.GitHub.APIURL,
	}
}

// Form builds the login form bound to v.
func Form(v *Values) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Jira base URL").
				Description("Jira server URL (e.g., https://jira.example.com)").
				Placeholder("https://jira.example.com").
				Value(&v.JiraBaseURL).
				Validate(validateURL),
			huh.NewInput().
				Title("Jira Personal Access Token").
				Description("Leave empty to keep the stored token").
				EchoMode(huh.EchoModePassword).
				Value(&v.JiraToken),
		).Title("Jira"),
		huh.NewGroup(
			huh.NewInput().
				Title("GitHub API URL").
				Description("https://api.github.com, or https://HOST/api/v3 for Enterprise Server").
				Placeholder("https://api.github.com").
				Value(&v.GitHubAPIURL).
				Validate(validateURL),
			huh.NewInput().
				Title("GitHub token").
				Description("Leave empty to keep the stored token").
				EchoMode(huh.EchoModePassword).
				Value(&v.GitHubToken),
		).Title("GitHub"),
	)
}

// CredentialSetter stores tokens.
type CredentialSetter interface {
	Set(key string, value string) error
}

// Save writes the URLs to the config file at path and the non-empty
// tokens to creds.
func Save(v *Values, cfg *model.AppConfig, path string, creds CredentialSetter) error {
	cfg.Jira.BaseURL = strings.TrimRight(strings.TrimSpace(v.JiraBaseURL), "/")
	cfg.GitHub.APIURL = strings.TrimRight(strings.TrimSpace(v.GitHubAPIURL), "/")

	if err := model.SaveConfig(path, cfg); err != nil {
		return err
	}

	tokens := []struct{ key, value string }{
		{cfg.Jira.CredentialKey, v.JiraToken},
		{cfg.GitHub.CredentialKey, v.GitHubToken},
	}
	for _, t := range tokens {
		if strings.TrimSpace(t.value) == "" {
			continue
		}
		if err := creds.Set(t.key, strings.TrimSpace(t.value)); err != nil {
			return fmt.Errorf("saving %s: %w", t.key, err)
		}
	}
	return nil
}

// CredentialDeleter removes tokens.
type CredentialDeleter interface {
	Delete(key string) error
}

// Forget removes the stored tokens under keys and returns the ones that
// were present. Missing entries are skipped.
func Forget(creds CredentialDeleter, keys ...string) ([]string, error) {
	var removed []string
	for _, key := range keys {
		err := creds.Delete(key)
		if errors.Is(err, keyring.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return removed, fmt.Errorf("removing %s: %w", key, err)
		}
		removed = append(removed, key)
	}
	return removed, nil
}

// Validator checks a source connection and returns the account name.
type Validator interface {
	Type() source.SourceType
	ValidateConnection(ctx context.Context) (string, error)
}

// Check is the outcome of validating one source.
type Check struct {
	Source  string
	Account string
	Err     error
}

// Verify validates each source in order. It does not stop at the first
// failure so every result can be reported.
func Verify(ctx context.Context, sources ...Validator) []Check {
	checks := make([]Check, 0, len(sources))
	for _, v := range sources {
		account, err := v.ValidateConnection(ctx)
		checks = append(checks, Check{Source: string(v.Type()), Account: account, Err: err})
	}
	return checks
}

func validateURL(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("URL is required")
	}
	parsed, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("URL must include scheme and host (e.g., https://example.com)")
	}
	return nil
}
