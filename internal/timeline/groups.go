package timeline

import (
	"time"

	"github.com/huddlechat/huddle/internal/types"
)

// groupGap is the silence after which a new group starts even for the same
// author.
const groupGap = 5 * time.Minute

// Group is a run of consecutive messages by one author, rendered under a
// single header.
type Group struct {
	UserID   int64
	Username string
	FullName *string
	Messages []types.Message
}

// GroupMessages partitions an ordered timeline into visual groups in one
// forward pass. A new group starts when the author changes, a calendar day
// boundary is crossed, or more than groupGap elapsed since the previous
// message in the group.
func GroupMessages(messages []types.Message) []Group {
	var groups []Group
	for _, msg := range messages {
		if len(groups) > 0 {
			current := &groups[len(groups)-1]
			prev := current.Messages[len(current.Messages)-1]
			if msg.UserID == current.UserID &&
				sameDay(prev.CreatedAt, msg.CreatedAt) &&
				msg.CreatedAt.Sub(prev.CreatedAt) <= groupGap {
				current.Messages = append(current.Messages, msg)
				continue
			}
		}
		groups = append(groups, Group{
			UserID:   msg.UserID,
			Username: msg.Username,
			FullName: msg.FullName,
			Messages: []types.Message{msg},
		})
	}
	return groups
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
