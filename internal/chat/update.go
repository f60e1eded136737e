package chat

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/huddlechat/huddle/internal/session"
	"github.com/huddlechat/huddle/internal/types"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case connectedMsg:
		m.live = msg.client
		m.session.SetOutbound(msg.client)
		m.status = ""
		return m, m.waitForEventCmd(msg.client)
	case eventMsg:
		return m.handleEvent(msg.event)
	case eventsClosedMsg:
		m.live = nil
		m.status = "connection lost, reconnecting..."
		return m, m.connectCmd()
	case pageLoadedMsg:
		return m.handlePageLoaded(msg)
	case errMsg:
		m.status = msg.err.Error()
		return m, nil
	case tickMsg:
		return m.handleTick()
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	headerHeight := 1
	footerHeight := m.input.Height() + 2
	if !m.ready {
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - headerHeight - footerHeight
		m.ready = true
		m.refreshViewport(true)
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - headerHeight - footerHeight
		m.refreshViewport(false)
	}
	m.input.SetWidth(msg.Width - 2)
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		if msg.String() == "esc" && (m.replyTo != nil || m.editingID != 0) {
			m.replyTo = nil
			m.editingID = 0
			m.input.SetValue("")
			return m, nil
		}
		return m, tea.Quit
	case "enter":
		return m.handleSubmit()
	case "pgup":
		m.viewport.ViewUp()
		if m.nearTop() {
			m.markHeightBeforeLoad()
			return m, m.loadOlderCmd()
		}
		return m, nil
	case "pgdown":
		m.viewport.ViewDown()
		if m.atBottom() {
			m.session.MarkRead()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	// First keystroke after idle broadcasts typing; the stop signal goes
	// out on the idle tick or on send.
	if m.keys.Keystroke(timeNow()) {
		_ = m.session.SendTyping(true)
	}
	return m, cmd
}

func (m *Model) handleSubmit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	if strings.HasPrefix(text, "/") {
		return m.handleCommand(text)
	}

	if m.keys.MessageSent() {
		_ = m.session.SendTyping(false)
	}

	if m.editingID != 0 {
		id := m.editingID
		m.editingID = 0
		m.input.SetValue("")
		sess := m.session
		return m, func() tea.Msg {
			if err := sess.Edit(context.Background(), id, text); err != nil {
				return errMsg{err}
			}
			return pageLoadedMsg{}
		}
	}

	var parentID *int64
	if m.replyTo != nil {
		id := m.replyTo.ID
		parentID = &id
		m.replyTo = nil
	}
	if err := m.session.Send(text, parentID, nil); err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.input.SetValue("")
	m.refreshViewport(true)
	return m, nil
}

func (m *Model) handleEvent(event types.Event) (tea.Model, tea.Cmd) {
	wasAtBottom := m.atBottom()
	m.session.Dispatch(event)

	if nm, ok := event.(types.NewMessageEvent); ok {
		m.maybeNotify(nm)
	}

	m.refreshViewport(wasAtBottom)
	if m.live == nil {
		return m, nil
	}
	return m, m.waitForEventCmd(m.live)
}

func (m *Model) handlePageLoaded(msg pageLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.initial {
		m.refreshViewport(true)
		m.session.MarkRead()
		return m, nil
	}
	if msg.merged > 0 {
		m.anchorAfterPrepend(msg.merged)
	} else {
		m.refreshViewport(false)
	}
	return m, nil
}

func (m *Model) handleTick() (tea.Model, tea.Cmd) {
	if m.keys.Idle(timeNow()) {
		_ = m.session.SendTyping(false)
	}
	m.session.ExpirePending()

	for {
		select {
		case notice := <-m.notices:
			m.status = notice.Text
			if notice.Level == session.NoticeError {
				m.status = "error: " + notice.Text
			}
			if notice.PromptJoin {
				m.status += " (/join to join this channel)"
			}
		default:
			m.refreshViewport(false)
			return m, tickCmd()
		}
	}
}
