package chat

import "github.com/charmbracelet/lipgloss"

func (m *Model) refreshViewport(scrollToBottom bool) {
	content := m.renderMessages()
	m.viewport.SetContent(content)
	if scrollToBottom {
		m.viewport.GotoBottom()
		return
	}
	if m.viewport.Height <= 0 {
		return
	}
	maxOffset := lipgloss.Height(content) - m.viewport.Height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if m.viewport.YOffset > maxOffset {
		m.viewport.SetYOffset(maxOffset)
	}
}

func (m *Model) nearTop() bool {
	return m.viewport.YOffset <= 5
}

func (m *Model) atBottom() bool {
	if m.viewport.Height <= 0 {
		return true
	}
	content := m.viewport.View()
	maxOffset := lipgloss.Height(content) - m.viewport.Height
	if maxOffset < 0 {
		maxOffset = 0
	}
	return m.viewport.YOffset >= maxOffset-3
}

// markHeightBeforeLoad snapshots the rendered height before older history
// is requested, so the anchor math has the pre-merge baseline.
func (m *Model) markHeightBeforeLoad() {
	m.heightBeforeLoad = lipgloss.Height(m.renderMessages())
}

// anchorAfterPrepend keeps the same messages on screen after older history
// merges above: the viewport offset moves down by exactly the height the
// new content added.
func (m *Model) anchorAfterPrepend(merged int) {
	if merged == 0 {
		return
	}
	prevOffset := m.viewport.YOffset

	content := m.renderMessages()
	m.viewport.SetContent(content)

	delta := lipgloss.Height(content) - m.heightBeforeLoad
	if delta > 0 {
		m.viewport.SetYOffset(prevOffset + delta)
	}
}
