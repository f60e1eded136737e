package chat

import (
	"context"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// handleCommand runs a slash command typed into the input. Unknown commands
// surface in the status line instead of going to the wire.
func (m *Model) handleCommand(text string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(text)
	command, args := fields[0], fields[1:]
	m.input.SetValue("")

	switch command {
	case "/reply":
		return m.commandReply(args)
	case "/edit":
		return m.commandEdit(args)
	case "/delete":
		return m.commandDelete(args)
	case "/react":
		return m.commandReact(args)
	case "/mute":
		return m.commandMute(args)
	case "/unmute":
		return m.apiCmd(func(ctx context.Context) error {
			return m.opts.API.Mute(ctx, m.session.ActiveID(), nil)
		})
	case "/pin":
		return m.apiCmd(func(ctx context.Context) error {
			return m.opts.API.Pin(ctx, m.session.ActiveID(), true)
		})
	case "/unpin":
		return m.apiCmd(func(ctx context.Context) error {
			return m.opts.API.Pin(ctx, m.session.ActiveID(), false)
		})
	case "/join":
		return m.apiCmd(func(ctx context.Context) error {
			return m.opts.API.Join(ctx, m.session.ActiveID())
		})
	case "/leave":
		channelID := m.session.ActiveID()
		return m, tea.Sequence(func() tea.Msg {
			if err := m.opts.API.Leave(context.Background(), channelID); err != nil {
				return errMsg{err}
			}
			return nil
		}, tea.Quit)
	case "/quit":
		return m, tea.Quit
	default:
		m.status = "unknown command " + command
		return m, nil
	}
}

// lastOwnMessage returns the newest message authored by the local user.
func (m *Model) lastOwnMessage() (int64, bool) {
	messages := m.session.Messages()
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].UserID == m.session.Self().ID {
			return messages[i].ID, true
		}
	}
	return 0, false
}

// resolveTarget parses an optional message id argument, falling back to the
// local user's newest message.
func (m *Model) resolveTarget(args []string) (int64, bool) {
	if len(args) > 0 {
		if id, err := strconv.ParseInt(args[0], 10, 64); err == nil {
			return id, true
		}
		m.status = "bad message id " + args[0]
		return 0, false
	}
	id, ok := m.lastOwnMessage()
	if !ok {
		m.status = "no message to target"
	}
	return id, ok
}

func (m *Model) commandReply(args []string) (tea.Model, tea.Cmd) {
	if len(args) == 0 {
		m.status = "usage: /reply <id>"
		return m, nil
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		m.status = "bad message id " + args[0]
		return m, nil
	}
	messages := m.session.Messages()
	for i := range messages {
		if messages[i].ID == id {
			target := messages[i]
			m.replyTo = &target
			return m, nil
		}
	}
	m.status = "message not loaded"
	return m, nil
}

func (m *Model) commandEdit(args []string) (tea.Model, tea.Cmd) {
	id, ok := m.resolveTarget(args)
	if !ok {
		return m, nil
	}
	for _, msg := range m.session.Messages() {
		if msg.ID == id {
			m.editingID = id
			m.input.SetValue(msg.Content)
			m.input.CursorEnd()
			return m, nil
		}
	}
	m.status = "message not loaded"
	return m, nil
}

func (m *Model) commandDelete(args []string) (tea.Model, tea.Cmd) {
	id, ok := m.resolveTarget(args)
	if !ok {
		return m, nil
	}
	sess := m.session
	return m, func() tea.Msg {
		if err := sess.Delete(context.Background(), id); err != nil {
			return errMsg{err}
		}
		return pageLoadedMsg{}
	}
}

func (m *Model) commandReact(args []string) (tea.Model, tea.Cmd) {
	if len(args) < 2 {
		m.status = "usage: /react <id> <emoji>"
		return m, nil
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		m.status = "bad message id " + args[0]
		return m, nil
	}
	emoji := args[1]
	sess := m.session
	return m, func() tea.Msg {
		if err := sess.ToggleReaction(context.Background(), id, emoji); err != nil {
			return errMsg{err}
		}
		return pageLoadedMsg{}
	}
}

func (m *Model) commandMute(args []string) (tea.Model, tea.Cmd) {
	duration := time.Hour
	if len(args) > 0 {
		parsed, err := time.ParseDuration(args[0])
		if err != nil {
			m.status = "usage: /mute [duration]"
			return m, nil
		}
		duration = parsed
	}
	until := timeNow().Add(duration)
	return m.apiCmd(func(ctx context.Context) error {
		return m.opts.API.Mute(ctx, m.session.ActiveID(), &until)
	})
}

func (m *Model) apiCmd(call func(context.Context) error) (tea.Model, tea.Cmd) {
	return m, func() tea.Msg {
		if err := call(context.Background()); err != nil {
			return errMsg{err}
		}
		return pageLoadedMsg{}
	}
}
