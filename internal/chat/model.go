package chat

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/huddlechat/huddle/internal/api"
	"github.com/huddlechat/huddle/internal/live"
	"github.com/huddlechat/huddle/internal/session"
	"github.com/huddlechat/huddle/internal/store"
	"github.com/huddlechat/huddle/internal/types"
	"github.com/huddlechat/huddle/internal/typing"
)

// Options configure the chat UI.
type Options struct {
	API       *api.Client
	Cache     *sql.DB
	ServerURL string
	Token     string
	Self      types.User
	Channel   types.Channel
}

// Run opens one conversation and blocks until the user quits.
func Run(opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}
	fmt.Printf("\033]0;huddle · %s\007", opts.Channel.Title())

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	model.Close()
	return err
}

// Model implements the conversation UI.
type Model struct {
	opts    Options
	session *session.Session
	live    *live.Client
	keys    *typing.Broadcaster

	viewport viewport.Model
	input    textarea.Model
	width    int
	height   int
	ready    bool

	// Rendered content height captured before an older-history fetch, used
	// to hold the scroll position when the page merges above.
	heightBeforeLoad int

	status   string
	notices  chan session.Notice
	colorMap map[int64]lipgloss.Color

	// Message the next send replies to, nil for top-level sends.
	replyTo *types.Message
	// Message id being edited, 0 when composing a new message.
	editingID int64
}

// NewModel builds the UI around a fresh session for the chosen conversation.
func NewModel(opts Options) (*Model, error) {
	notices := make(chan session.Notice, 16)
	sess := session.New(opts.Self, opts.API, opts.API, func(n session.Notice) {
		select {
		case notices <- n:
		default:
		}
	})
	sess.Open(opts.Channel)

	input := textarea.New()
	input.Placeholder = "Message " + opts.Channel.Title()
	input.CharLimit = session.MaxMessageLength
	input.SetHeight(1)
	input.ShowLineNumbers = false
	input.Focus()

	if opts.Cache != nil {
		if draft, err := store.GetDraft(opts.Cache, opts.Channel.ID); err == nil && draft != "" {
			input.SetValue(draft)
		}
		if cached, err := store.CachedMessages(opts.Cache, opts.Channel.ID); err == nil && len(cached) > 0 {
			sess.MergeCached(cached)
		}
	}

	return &Model{
		opts:     opts,
		session:  sess,
		keys:     typing.NewBroadcaster(),
		input:    input,
		notices:  notices,
		colorMap: map[int64]lipgloss.Color{},
	}, nil
}

// Init connects the live channel and kicks off the first history fetch.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.connectCmd(), m.loadLatestCmd(), tickCmd())
}

// Close persists the draft and tears down the live connection.
func (m *Model) Close() {
	if m.opts.Cache != nil {
		_ = store.SaveDraft(m.opts.Cache, m.session.ActiveID(), m.input.Value(), timeNow())
		_ = store.SaveMessages(m.opts.Cache, m.session.Messages())
	}
	if m.live != nil {
		m.live.Close()
	}
}
