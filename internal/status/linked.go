package status

import (
	"strings"

	"github.com/nhle/workstatus/internal/model"
)

// PanelPullRequest is a pull request reference as it appears on a
// development panel. Either field may be absent upstream.
type PanelPullRequest struct {
	URL    *string
	Status *string
}

// ResolveLinkedPRs turns development-panel pull request references into
// LinkedPRs. References without a URL, or whose URL is not a pull request
// URL, are dropped.
func ResolveLinkedPRs(refs []PanelPullRequest) []model.LinkedPR {
	linked := make([]model.LinkedPR, 0, len(refs))
	for _, ref := range refs {
		if ref.URL == nil {
			continue
		}
		pr, err := ParsePullRequestURL(*ref.URL)
		if err != nil {
			continue
		}
		linked = append(linked, model.LinkedPR{
			Repo:   pr.FullName(),
			Number: pr.Number,
			State:  linkedState(ref.Status),
		})
	}
	return linked
}

// linkedState lowercases the panel status, falling back to
// model.UnknownPRState when it is absent.
func linkedState(status *string) string {
	if status == nil || *status == "" {
		return model.UnknownPRState
	}
	return strings.ToLower(*status)
}
