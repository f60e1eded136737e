package timeline

import "github.com/huddlechat/huddle/internal/types"

// UnreadBoundary returns the index of the first message the unread
// separator renders before: the first message with id above the last-read
// snapshot that was not authored by the local user. Returns -1 when
// everything is read. The snapshot is taken once per conversation open and
// never moves, so the boundary is stable however many messages are merged
// around it.
func UnreadBoundary(messages []types.Message, lastRead int64, selfID int64) int {
	for i, msg := range messages {
		if msg.ID > lastRead && msg.UserID != selfID {
			return i
		}
	}
	return -1
}

// UnreadCount counts messages past the snapshot not authored by the local
// user.
func UnreadCount(messages []types.Message, lastRead int64, selfID int64) int {
	count := 0
	for _, msg := range messages {
		if msg.ID > lastRead && msg.UserID != selfID {
			count++
		}
	}
	return count
}
