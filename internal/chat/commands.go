package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/huddlechat/huddle/internal/live"
	"github.com/huddlechat/huddle/internal/types"
)

func timeNow() time.Time { return time.Now() }

type connectedMsg struct{ client *live.Client }

type eventMsg struct{ event types.Event }

// eventsClosedMsg arrives when the server drops the live connection.
type eventsClosedMsg struct{}

type pageLoadedMsg struct {
	merged  int
	initial bool
}

type errMsg struct{ err error }

type tickMsg time.Time

func (m *Model) connectCmd() tea.Cmd {
	opts := m.opts
	return func() tea.Msg {
		client, err := live.Dial(opts.ServerURL, opts.Channel.ID, opts.Token)
		if err != nil {
			return errMsg{err}
		}
		return connectedMsg{client}
	}
}

func (m *Model) waitForEventCmd(client *live.Client) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-client.Events()
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg{event}
	}
}

func (m *Model) loadLatestCmd() tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		if err := sess.LoadLatest(context.Background()); err != nil {
			return errMsg{err}
		}
		return pageLoadedMsg{initial: true}
	}
}

func (m *Model) loadOlderCmd() tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		merged, err := sess.LoadOlder(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return pageLoadedMsg{merged: merged}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
