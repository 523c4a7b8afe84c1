package status

import "strings"

// RepoFromAPIURL derives "owner/name" from a repository API URL such as
// https://api.github.com/repos/acme/widgets. The apiBase prefix (with or
// without a trailing slash) and the "repos/" segment are stripped. URLs
// that do not start with the prefix are returned unchanged.
func RepoFromAPIURL(repoURL, apiBase string) string {
	prefix := strings.TrimRight(apiBase, "/") + "/repos/"
	if !strings.HasPrefix(repoURL, prefix) {
		return repoURL
	}
	return strings.TrimSuffix(strings.TrimPrefix(repoURL, prefix), "/")
}

// ScopeToPullRequests adds the pull request qualifier (and an optional
// extra qualifier such as "org:acme") to a free-text search query.
func ScopeToPullRequests(query, qualifier string) string {
	parts := []string{strings.TrimSpace(query), "is:pr"}
	if q := strings.TrimSpace(qualifier); q != "" {
		parts = append(parts, q)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
