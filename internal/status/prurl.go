package status

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// PullRequestRef identifies a pull request on a code host.
type PullRequestRef struct {
	Owner  string
	Repo   string
	Number int
}

// FullName returns the "owner/name" repository identifier.
func (r PullRequestRef) FullName() string {
	return r.Owner + "/" + r.Repo
}

// URLError describes why a string is not a pull request URL.
type URLError struct {
	URL    string
	Reason string
}

func (e *URLError) Error() string {
	return fmt.Sprintf("not a pull request URL %q: %s", e.URL, e.Reason)
}

// Reasons reported by ParsePullRequestURL.
const (
	ReasonEmpty         = "empty"
	ReasonUnparseable   = "unparseable"
	ReasonNoHost        = "no host"
	ReasonNoPullSegment = "no pull segment"
	ReasonMissingRepo   = "missing owner or repo"
	ReasonBadNumber     = "bad number"
)

// ParsePullRequestURL reads a code host URL of the form
// [scheme://]host/.../<owner>/<repo>/pull/<number>[/...]. A URL without a
// scheme is read as https.
//
// "pull" segments are tried from the last one backwards; the first one
// preceded by two path segments and followed by a positive decimal number
// decides the match. When none matches, the reason reported is the one
// for the last "pull" segment.
func ParsePullRequestURL(raw string) (PullRequestRef, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return PullRequestRef{}, &URLError{URL: raw, Reason: ReasonEmpty}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return PullRequestRef{}, &URLError{URL: raw, Reason: ReasonUnparseable}
	}
	if u.Scheme == "" && u.Host == "" && !strings.HasPrefix(raw, "/") {
		u, err = url.Parse("https://" + raw)
		if err != nil {
			return PullRequestRef{}, &URLError{URL: raw, Reason: ReasonUnparseable}
		}
	}
	if u.Host == "" {
		return PullRequestRef{}, &URLError{URL: raw, Reason: ReasonNoHost}
	}

	segments := splitPath(u.Path)

	reason := ReasonNoPullSegment
	for i := len(segments) - 2; i >= 0; i-- {
		if segments[i] != "pull" {
			continue
		}
		if i < 2 {
			if reason == ReasonNoPullSegment {
				reason = ReasonMissingRepo
			}
			continue
		}
		number, ok := parseNumber(segments[i+1])
		if !ok {
			if reason == ReasonNoPullSegment {
				reason = ReasonBadNumber
			}
			continue
		}
		return PullRequestRef{
			Owner:  segments[i-2],
			Repo:   segments[i-1],
			Number: number,
		}, nil
	}

	return PullRequestRef{}, &URLError{URL: raw, Reason: reason}
}

// splitPath returns the non-empty segments of a URL path.
func splitPath(p string) []string {
	parts := strings.Split(p, "/")
	segments := parts[:0]
	for _, s := range parts {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// parseNumber accepts only ASCII digits, so "+4" and "4e2" are rejected.
func parseNumber(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
