package watch

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/workstatus/internal/model"
)

// FetchFunc runs one pull request status query.
type FetchFunc func(ctx context.Context) (*model.PRStatus, error)

// resultMsg is a tea.Msg sent when a status query completes.
type resultMsg struct {
	pr  *model.PRStatus
	err error
	at  time.Time
}

// tickMsg is a tea.Msg sent when the next scheduled refresh is due. gen
// ties it to the result that scheduled it so a manual refresh does not
// leave two tick chains running.
type tickMsg struct {
	gen int
}

// fetchCmd returns a tea.Cmd that runs the query with a timeout. Each run
// is an independent pass; nothing from a previous run is reused.
func fetchCmd(fetch FetchFunc, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		pr, err := fetch(ctx)
		return resultMsg{pr: pr, err: err, at: time.Now()}
	}
}

// scheduleTick returns a tea.Cmd that fires tickMsg after interval.
func scheduleTick(interval time.Duration, gen int) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}
