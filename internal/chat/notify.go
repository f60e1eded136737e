package chat

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/huddlechat/huddle/internal/core"
	"github.com/huddlechat/huddle/internal/types"
)

// maybeNotify raises a desktop notification for messages that mention the
// local user or arrive in a direct thread. Own messages and muted channels
// stay silent.
func (m *Model) maybeNotify(ev types.NewMessageEvent) {
	if ev.UserID == m.session.Self().ID {
		return
	}
	ch := m.session.Channel()
	if ch.MuteUntil != nil && ch.MuteUntil.After(timeNow()) {
		return
	}
	mentioned := core.MentionsUser(ev.Content, m.session.Self().Username)
	if !ch.IsDirect && !mentioned {
		return
	}

	title := fmt.Sprintf("huddle · %s", ch.Title())
	body := fmt.Sprintf("%s: %s", ev.Username, truncate(ev.Content, 120))
	_ = beeep.Notify(title, body, "")
}
