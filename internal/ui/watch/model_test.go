package watch

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/workstatus/internal/model"
)

func keyMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestModel(fetch FetchFunc) Model {
	if fetch == nil {
		fetch = func(context.Context) (*model.PRStatus, error) {
			return &model.PRStatus{Repo: "acme/widgets", Number: 42}, nil
		}
	}
	return New("acme/widgets#42", fetch, time.Minute)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()

	next, cmd := m.Update(msg)
	got, ok := next.(Model)
	require.True(t, ok)
	return got, cmd
}

func TestFetchCmd(t *testing.T) {
	var hadDeadline bool
	cmd := fetchCmd(func(ctx context.Context) (*model.PRStatus, error) {
		_, hadDeadline = ctx.Deadline()
		return &model.PRStatus{Number: 42}, nil
	}, time.Second)

	msg, ok := cmd().(resultMsg)
	require.True(t, ok)
	assert.True(t, hadDeadline)
	assert.NoError(t, msg.err)
	assert.Equal(t, 42, msg.pr.Number)
	assert.False(t, msg.at.IsZero())
}

func TestResultSchedulesNextTick(t *testing.T) {
	m := newTestModel(nil)
	require.True(t, m.loading)

	m, cmd := update(t, m, resultMsg{pr: &model.PRStatus{Number: 42}, at: time.Now()})
	assert.False(t, m.loading)
	assert.Equal(t, 42, m.pr.Number)
	assert.Equal(t, 1, m.gen)
	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "acme/widgets#42")
}

func TestErrorKeepsLastGoodStatus(t *testing.T) {
	m := newTestModel(nil)
	m, _ = update(t, m, resultMsg{pr: &model.PRStatus{Number: 42, Title: "Fix totals"}, at: time.Now()})

	m, _ = update(t, m, tickMsg{gen: m.gen})
	require.True(t, m.loading)
	m, _ = update(t, m, resultMsg{err: errors.New("github API error (502)"), at: time.Now()})

	assert.Equal(t, "Fix totals", m.pr.Title)
	view := m.View()
	assert.Contains(t, view, "github API error (502)")
	assert.Contains(t, view, "Fix totals")
}

func TestStaleTickIgnored(t *testing.T) {
	m := newTestModel(nil)
	m, _ = update(t, m, resultMsg{pr: &model.PRStatus{}, at: time.Now()})

	m, cmd := update(t, m, tickMsg{gen: m.gen - 1})
	assert.False(t, m.loading)
	assert.Nil(t, cmd)
}

func TestRefreshKey(t *testing.T) {
	m := newTestModel(nil)

	m, cmd := update(t, m, keyMsg('r'))
	assert.Nil(t, cmd, "no second query while one is running")

	m, _ = update(t, m, resultMsg{pr: &model.PRStatus{}, at: time.Now()})
	m, cmd = update(t, m, keyMsg('r'))
	assert.True(t, m.loading)
	assert.NotNil(t, cmd)
}

func TestQuitKey(t *testing.T) {
	_, cmd := update(t, newTestModel(nil), keyMsg('q'))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(nil)
	m, _ = update(t, m, keyMsg('?'))
	assert.True(t, m.showHelp)
	m, _ = update(t, m, keyMsg('?'))
	assert.False(t, m.showHelp)
}
