package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/huddlechat/huddle/internal/timeline"
	"github.com/huddlechat/huddle/internal/types"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	authorStyle    = lipgloss.NewStyle().Bold(true)
	timeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	unreadStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("178"))
	reactionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("116"))
	replyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("146")).Italic(true)
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	editedMark     = dimStyle.Render(" (edited)")
	seenMark       = dimStyle.Render(" ✓✓")
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

var authorPalette = []lipgloss.Color{
	lipgloss.Color("111"),
	lipgloss.Color("157"),
	lipgloss.Color("216"),
	lipgloss.Color("36"),
	lipgloss.Color("183"),
	lipgloss.Color("230"),
}

func (m *Model) authorColor(userID int64) lipgloss.Color {
	if color, ok := m.colorMap[userID]; ok {
		return color
	}
	color := authorPalette[len(m.colorMap)%len(authorPalette)]
	m.colorMap[userID] = color
	return color
}

func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderTypingLine(),
		m.renderInput(),
		statusStyle.Render(m.status),
	)
}

func (m *Model) renderHeader() string {
	ch := m.session.Channel()
	members, online := m.session.Counts()
	title := headerStyle.Render(ch.Title())
	counts := dimStyle.Render(fmt.Sprintf("  %d members · %d online", members, online))
	return title + counts
}

func (m *Model) renderTypingLine() string {
	names := m.session.TypingNames()
	switch len(names) {
	case 0:
		return ""
	case 1:
		return dimStyle.Render(names[0] + " is typing...")
	default:
		return dimStyle.Render(strings.Join(names, ", ") + " are typing...")
	}
}

func (m *Model) renderInput() string {
	var prefix string
	if m.editingID != 0 {
		prefix = replyStyle.Render("editing message") + "\n"
	} else if m.replyTo != nil {
		preview := m.replyTo.Content
		if len(preview) > 40 {
			preview = preview[:40] + "…"
		}
		prefix = replyStyle.Render(fmt.Sprintf("replying to %s: %s", m.replyTo.Username, preview)) + "\n"
	}
	return prefix + m.input.View()
}

func (m *Model) renderMessages() string {
	messages := m.session.Messages()
	boundary := m.session.UnreadBoundary()
	groups := timeline.GroupMessages(messages)

	var b strings.Builder
	index := 0
	for _, group := range groups {
		for i, msg := range group.Messages {
			if index == boundary {
				b.WriteString(m.renderUnreadSeparator())
			}
			if i == 0 {
				b.WriteString(m.renderGroupHeader(group, msg))
			}
			b.WriteString(m.renderMessageBody(msg))
			index++
		}
	}

	for _, p := range m.session.Pending() {
		b.WriteString(pendingStyle.Render("  "+p.Content+" (sending…)") + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) renderUnreadSeparator() string {
	width := m.viewport.Width
	if width < 12 {
		width = 12
	}
	label := " new messages "
	pad := (width - len(label)) / 2
	if pad < 2 {
		pad = 2
	}
	line := strings.Repeat("─", pad)
	return separatorStyle.Render(line+label+line) + "\n"
}

func (m *Model) renderGroupHeader(group timeline.Group, first types.Message) string {
	name := group.Username
	if group.FullName != nil && *group.FullName != "" {
		name = *group.FullName
	}
	author := authorStyle.Foreground(m.authorColor(group.UserID)).Render(name)
	stamp := timeStyle.Render(first.CreatedAt.Local().Format("Jan 2 15:04"))
	return "\n" + author + " " + stamp + "\n"
}

func (m *Model) renderMessageBody(msg types.Message) string {
	var b strings.Builder

	if msg.Parent != nil {
		b.WriteString(replyStyle.Render(fmt.Sprintf("  ↪ %s: %s", msg.Parent.Username, truncate(msg.Parent.Content, 50))) + "\n")
	}

	line := "  " + msg.Content
	if msg.Edited() {
		line += editedMark
	}
	if msg.UserID == m.session.Self().ID && m.session.SeenByCounterpart(msg.ID) {
		line += seenMark
	}
	b.WriteString(line + "\n")

	if msg.ReplyCount > 0 {
		b.WriteString(replyStyle.Render(fmt.Sprintf("  %d repl%s", msg.ReplyCount, plural(msg.ReplyCount, "y", "ies"))) + "\n")
	}
	if reactions := renderReactions(msg.Reactions); reactions != "" {
		b.WriteString(reactionStyle.Render("  "+reactions) + "\n")
	}
	return b.String()
}

// renderReactions collapses reactions into "👍 2 · ❤️ 1" keeping first-seen
// emoji order.
func renderReactions(reactions []types.Reaction) string {
	if len(reactions) == 0 {
		return ""
	}
	counts := map[string]int{}
	var order []string
	for _, r := range reactions {
		if counts[r.Emoji] == 0 {
			order = append(order, r.Emoji)
		}
		counts[r.Emoji]++
	}
	parts := make([]string, len(order))
	for i, emoji := range order {
		parts[i] = fmt.Sprintf("%s %d", emoji, counts[emoji])
	}
	return strings.Join(parts, " · ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
