package source

import (
	"context"
	"errors"
	"fmt"
)

// SourceType identifies the kind of external source integration.
type SourceType string

const (
	SourceTypeJira   SourceType = "jira"
	SourceTypeGitHub SourceType = "github"
)

// TokenSource supplies the bearer token for a source. It is consulted on
// every request so a token added after startup is picked up.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

// Token returns the fixed token. An empty token is a configuration fault.
func (s StaticToken) Token(context.Context) (string, error) {
	if s == "" {
		return "", &ConfigError{
			Key:         "token",
			Remediation: "no token configured",
		}
	}
	return string(s), nil
}

// ConfigError reports a missing or unusable local setting, typically a
// credential. It is always fatal for the query.
type ConfigError struct {
	Key         string
	Remediation string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error (%s): %s", e.Key, e.Remediation)
}

// NotFoundError reports that a required upstream entity does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// TransportError reports a non-success response from a source.
type TransportError struct {
	Source     SourceType
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf(
		"%s API error (%d) on %s %s: %s",
		e.Source, e.StatusCode, e.Method, e.Path, e.Body,
	)
}

// AuthError indicates that authentication has failed or expired for a source.
// It is returned by source clients when a 401 response is received.
type AuthError struct {
	SourceType SourceType
	Message    string
	Transport  *TransportError
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s): %s", e.SourceType, e.Message)
}

// Unwrap exposes the underlying transport failure.
func (e *AuthError) Unwrap() error {
	if e.Transport == nil {
		return nil
	}
	return e.Transport
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// IsConfigError reports whether err (or any error in its chain) is a
// ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

// IsNotFound reports whether err (or any error in its chain) is a
// NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsTransportError reports whether err (or any error in its chain) is a
// TransportError, including one wrapped by an AuthError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// StatusCode returns the upstream HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var te *TransportError
	if errors.As(err, &te) {
		return te.StatusCode
	}
	return 0
}

// SoftFailure records a best-effort lookup that failed. It is logged and
// journaled by the component that owns the lookup and never returned to
// callers.
type SoftFailure struct {
	Operation string
	Target    string
	Err       error
}

func (e *SoftFailure) Error() string {
	return fmt.Sprintf("%s %s (degraded): %v", e.Operation, e.Target, e.Err)
}

func (e *SoftFailure) Unwrap() error {
	return e.Err
}
