package crossref

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractIssueKeys(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"none", "fix typo in readme", nil},
		{"single", "PROJ-12 add retries", []string{"PROJ-12"}},
		{"dedup keeps order", "ABC-2 and PROJ-1, again ABC-2", []string{"ABC-2", "PROJ-1"}},
		{"branch style", "feature/PROJ-77-login", []string{"PROJ-77"}},
		{"lowercase ignored", "proj-5", nil},
		{"leading zero rejected", "PROJ-01", nil},
		{"glued prefix ignored", "xPROJ-9", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractIssueKeys(tt.text))
		})
	}
}

func TestPullRequestKeys(t *testing.T) {
	keys := PullRequestKeys("feature/PROJ-7-cache", "PROJ-7: cache tokens", "Also touches OPS-3.", nil)
	assert.Equal(t, []string{"PROJ-7", "OPS-3"}, keys)

	filtered := PullRequestKeys("feature/PROJ-7-cache", "", "Also touches OPS-3.", map[string]bool{"OPS": true})
	assert.Equal(t, []string{"OPS-3"}, filtered)
}
