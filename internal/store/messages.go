package store

import (
	"database/sql"
	"time"

	"github.com/huddlechat/huddle/internal/types"
)

// cacheDepth bounds how many messages are kept per conversation. Older rows
// are pruned on each save; the server remains the source of history.
const cacheDepth = 200

// SaveMessages upserts a batch of messages into the cache and prunes each
// touched conversation down to cacheDepth.
func SaveMessages(db *sql.DB, messages []types.Message) error {
	if len(messages) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO huddle_messages
		(id, channel_id, user_id, username, full_name, content, parent_id,
		 reply_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	touched := map[int64]bool{}
	for _, m := range messages {
		var updatedAt *int64
		if m.UpdatedAt != nil {
			ms := m.UpdatedAt.UnixMilli()
			updatedAt = &ms
		}
		_, err := stmt.Exec(
			m.ID, m.ChannelID, m.UserID, m.Username, m.FullName, m.Content,
			m.ParentID, m.ReplyCount, m.CreatedAt.UnixMilli(), updatedAt,
		)
		if err != nil {
			return err
		}
		touched[m.ChannelID] = true
	}

	for channelID := range touched {
		_, err := tx.Exec(`
			DELETE FROM huddle_messages
			WHERE channel_id = ? AND id NOT IN (
				SELECT id FROM huddle_messages
				WHERE channel_id = ? ORDER BY id DESC LIMIT ?
			)`, channelID, channelID, cacheDepth)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// CachedMessages returns a conversation's cached tail in ascending id order.
func CachedMessages(db *sql.DB, channelID int64) ([]types.Message, error) {
	rows, err := db.Query(`
		SELECT id, channel_id, user_id, username, full_name, content, parent_id,
		       reply_count, created_at, updated_at
		FROM huddle_messages
		WHERE channel_id = ?
		ORDER BY id`, channelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []types.Message
	for rows.Next() {
		var m types.Message
		var createdAt int64
		var updatedAt *int64
		err := rows.Scan(
			&m.ID, &m.ChannelID, &m.UserID, &m.Username, &m.FullName, &m.Content,
			&m.ParentID, &m.ReplyCount, &createdAt, &updatedAt,
		)
		if err != nil {
			return nil, err
		}
		m.CreatedAt = time.UnixMilli(createdAt).UTC()
		if updatedAt != nil {
			t := time.UnixMilli(*updatedAt).UTC()
			m.UpdatedAt = &t
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// DeleteMessage removes one message from the cache.
func DeleteMessage(db *sql.DB, messageID int64) error {
	_, err := db.Exec("DELETE FROM huddle_messages WHERE id = ?", messageID)
	return err
}
