package crossref

import "regexp"

// issueKeyPattern matches tracker issue keys (e.g., PROJ-123, ABC-1).
// Keys must start at a word boundary so "xPROJ-1" is not picked up.
var issueKeyPattern = regexp.MustCompile(`\b([A-Z][A-Z0-9]+-[1-9]\d*)\b`)

// ExtractIssueKeys extracts all issue key matches from text.
// Returns a deduplicated list preserving the order of first occurrence.
func ExtractIssueKeys(text string) []string {
	matches := issueKeyPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var result []string
	for _, m := range matches {
		if seen[m] {
			continue
		}
		seen[m] = true
		result = append(result, m)
	}
	return result
}

// PullRequestKeys extracts issue keys from a pull request's head branch,
// title, and body, in that order of precedence. When projects is non-empty
// only keys whose project prefix is listed are returned.
func PullRequestKeys(
	headBranch string,
	title string,
	body string,
	projects map[string]bool,
) []string {
	combined := headBranch + " " + title + " " + body
	keys := ExtractIssueKeys(combined)

	if len(projects) == 0 {
		return keys
	}

	var filtered []string
	for _, key := range keys {
		if projects[projectOf(key)] {
			filtered = append(filtered, key)
		}
	}
	return filtered
}

// projectOf returns the project prefix of an issue key.
func projectOf(key string) string {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == '-' {
			return key[:i]
		}
	}
	return key
}
