// Package render formats status records for the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/workstatus/internal/model"
	"github.com/nhle/workstatus/internal/theme"
)

const none = "-"

func field(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, theme.LabelStyle.Render(label), value)
}

func orNone(s *string) string {
	if s == nil || *s == "" {
		return none
	}
	return *s
}

// Issue renders an issue with its linked pull requests.
func Issue(issue *model.Issue) string {
	lines := []string{
		theme.HeaderStyle.Render(issue.Key) + " " + issue.Summary,
		"",
		field("Status", theme.StatusStyle(issue.Status).Render(issue.Status)),
		field("Assignee", orNone(issue.Assignee)),
	}
	if issue.Priority != "" {
		lines = append(lines, field("Priority", issue.Priority))
	}
	if issue.URL != "" {
		lines = append(lines, field("Link", issue.URL))
	}

	lines = append(lines, theme.SectionStyle.Render("Pull requests"))
	if len(issue.LinkedPRs) == 0 {
		lines = append(lines, theme.HelpStyle.Render("no linked pull requests"))
	}
	for _, pr := range issue.LinkedPRs {
		lines = append(lines, fmt.Sprintf("  %s#%d  %s",
			pr.Repo, pr.Number, theme.StatusStyle(pr.State).Render(pr.State)))
	}

	return theme.PanelStyle.Render(strings.Join(lines, "\n"))
}

// Sprint renders the active sprint, or the no-sprint message.
func Sprint(sp *model.Sprint) string {
	if sp.Name == nil {
		msg := sp.Message
		if msg == "" {
			msg = model.NoActiveSprintMessage
		}
		return theme.PanelStyle.Render(theme.HelpStyle.Render(msg))
	}

	days := none
	if sp.DaysRemaining != nil {
		days = fmt.Sprintf("%d", *sp.DaysRemaining)
	}

	lines := []string{
		theme.HeaderStyle.Render(*sp.Name),
		"",
		field("Goal", orNone(sp.Goal)),
		field("Days left", days),
		theme.SectionStyle.Render(fmt.Sprintf("Issues (%d)", len(sp.Issues))),
	}
	for _, is := range sp.Issues {
		lines = append(lines, fmt.Sprintf("  %-12s %s  %s  %s",
			is.Key,
			theme.StatusStyle(is.Status).Render(is.Status),
			orNone(is.Assignee),
			is.Summary,
		))
	}

	return theme.PanelStyle.Render(strings.Join(lines, "\n"))
}

// PRStatus renders a pull request's reviews, checks and conflict state.
func PRStatus(pr *model.PRStatus) string {
	state := pr.State
	if pr.Draft {
		state += " (draft)"
	}

	mergeable := "computing"
	if pr.Mergeable != nil {
		mergeable = fmt.Sprintf("%t", *pr.Mergeable)
	}

	lines := []string{
		theme.HeaderStyle.Render(fmt.Sprintf("%s#%d", pr.Repo, pr.Number)) + " " + pr.Title,
		"",
		field("Author", pr.Author),
		field("State", theme.StatusStyle(pr.State).Render(state)),
		field("Mergeable", mergeable),
		field("Conflict", theme.FlagStyle(pr.MergeConflict).Render(fmt.Sprintf("%t", pr.MergeConflict))),
		field("Changes", fmt.Sprintf("+%d -%d in %d files", pr.Additions, pr.Deletions, pr.ChangedFiles)),
	}
	if len(pr.IssueKeys) > 0 {
		lines = append(lines, field("Issues", strings.Join(pr.IssueKeys, ", ")))
	}

	lines = append(lines,
		theme.SectionStyle.Render("Reviews"),
		field("  Approved", list(pr.Reviews.Approved)),
		field("  Changes", list(pr.Reviews.ChangesRequested)),
		theme.SectionStyle.Render(fmt.Sprintf("Checks (%d)", pr.Checks.Total)),
		"  "+strings.Join([]string{
			theme.CountStyle("passed", pr.Checks.Passed).Render(fmt.Sprintf("%d passed", pr.Checks.Passed)),
			theme.CountStyle("failed", pr.Checks.Failed).Render(fmt.Sprintf("%d failed", pr.Checks.Failed)),
			theme.CountStyle("pending", pr.Checks.Pending).Render(fmt.Sprintf("%d pending", pr.Checks.Pending)),
		}, "  "),
	)
	for _, name := range pr.Checks.FailedNames {
		lines = append(lines, "  "+theme.ErrorStyle.Render("✗ "+name))
	}
	if pr.URL != "" {
		lines = append(lines, "", theme.HelpStyle.Render(pr.URL))
	}

	return theme.PanelStyle.Render(strings.Join(lines, "\n"))
}

// SearchHits renders search results as one line per hit.
func SearchHits(hits []model.SearchHit) string {
	if len(hits) == 0 {
		return theme.HelpStyle.Render("no pull requests found")
	}

	lines := make([]string, 0, len(hits))
	for _, h := range hits {
		lines = append(lines, fmt.Sprintf("%s#%d  %s  %s  %s",
			h.Repo, h.Number,
			theme.StatusStyle(h.State).Render(h.State),
			h.Author,
			h.Title,
		))
	}
	return strings.Join(lines, "\n")
}

// Diagnostics renders the recent journal entries.
func Diagnostics(queries []model.QueryRecord, failures []model.SoftFailureRecord) string {
	lines := []string{theme.SectionStyle.Render("Recent queries")}
	if len(queries) == 0 {
		lines = append(lines, theme.HelpStyle.Render("none"))
	}
	for _, q := range queries {
		outcome := theme.CountStyle("passed", 1).Render(q.Outcome)
		if q.Outcome != model.OutcomeOK {
			outcome = theme.ErrorStyle.Render(q.Outcome)
		}
		line := fmt.Sprintf("  %s  %-6s %-28s %s %5dms",
			q.CreatedAt.Local().Format("2006-01-02 15:04:05"), q.Kind, q.Target, outcome, q.DurationMs)
		if q.Error != "" {
			line += "  " + q.Error
		}
		lines = append(lines, line)
	}

	lines = append(lines, theme.SectionStyle.Render("Degraded lookups"))
	if len(failures) == 0 {
		lines = append(lines, theme.HelpStyle.Render("none"))
	}
	for _, f := range failures {
		lines = append(lines, fmt.Sprintf("  %s  %s %s: %s",
			f.CreatedAt.Local().Format("2006-01-02 15:04:05"), f.Operation, f.Target, f.Message))
	}
	return strings.Join(lines, "\n")
}

func list(names []string) string {
	if len(names) == 0 {
		return none
	}
	return strings.Join(names, ", ")
}
