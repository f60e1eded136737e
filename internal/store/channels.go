package store

import (
	"database/sql"
	"time"

	"github.com/huddlechat/huddle/internal/types"
)

// UpsertChannels replaces the cached summary rows for the given channels.
func UpsertChannels(db *sql.DB, channels []types.Channel, now time.Time) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO huddle_channels
		(id, name, display_name, is_direct, is_pinned, mute_until, unread_count,
		 last_read_message_id, last_message_id, last_message_text, last_message_sender,
		 last_message_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, ch := range channels {
		var muteUntil *int64
		if ch.MuteUntil != nil {
			ms := ch.MuteUntil.UnixMilli()
			muteUntil = &ms
		}
		var lastID, lastAt *int64
		var lastText, lastSender *string
		if ch.LastMessage != nil {
			id := ch.LastMessage.ID
			at := ch.LastMessage.CreatedAt.UnixMilli()
			lastID, lastAt = &id, &at
			lastText, lastSender = &ch.LastMessage.Content, &ch.LastMessage.SenderName
		}
		_, err := stmt.Exec(
			ch.ID, ch.Name, ch.DisplayName, ch.IsDirect, ch.IsPinned, muteUntil,
			ch.UnreadCount, ch.LastReadMessageID, lastID, lastText, lastSender,
			lastAt, now.UnixMilli(),
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListChannels returns the cached summaries, pinned first, most recent
// activity next.
func ListChannels(db *sql.DB) ([]types.Channel, error) {
	rows, err := db.Query(`
		SELECT id, name, display_name, is_direct, is_pinned, mute_until, unread_count,
		       last_read_message_id, last_message_id, last_message_text,
		       last_message_sender, last_message_at
		FROM huddle_channels
		ORDER BY is_pinned DESC, COALESCE(last_message_id, 0) DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []types.Channel
	for rows.Next() {
		var ch types.Channel
		var muteUntil, lastID, lastAt *int64
		var lastText, lastSender *string
		err := rows.Scan(
			&ch.ID, &ch.Name, &ch.DisplayName, &ch.IsDirect, &ch.IsPinned, &muteUntil,
			&ch.UnreadCount, &ch.LastReadMessageID, &lastID, &lastText, &lastSender, &lastAt,
		)
		if err != nil {
			return nil, err
		}
		if muteUntil != nil {
			t := time.UnixMilli(*muteUntil).UTC()
			ch.MuteUntil = &t
		}
		if lastID != nil {
			last := types.LastMessage{ID: *lastID}
			if lastText != nil {
				last.Content = *lastText
			}
			if lastSender != nil {
				last.SenderName = *lastSender
			}
			if lastAt != nil {
				last.CreatedAt = time.UnixMilli(*lastAt).UTC()
			}
			ch.LastMessage = &last
		}
		channels = append(channels, ch)
	}
	return channels, rows.Err()
}

// SetLastRead moves a cached channel's read watermark and zeroes its unread
// counter.
func SetLastRead(db *sql.DB, channelID, lastReadID int64) error {
	_, err := db.Exec(`
		UPDATE huddle_channels
		SET last_read_message_id = ?, unread_count = 0
		WHERE id = ?`, lastReadID, channelID)
	return err
}

// DeleteChannel drops a channel and its cached messages and draft.
func DeleteChannel(db *sql.DB, channelID int64) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, q := range []string{
		"DELETE FROM huddle_messages WHERE channel_id = ?",
		"DELETE FROM huddle_drafts WHERE channel_id = ?",
		"DELETE FROM huddle_channels WHERE id = ?",
	} {
		if _, err := tx.Exec(q, channelID); err != nil {
			return err
		}
	}
	return tx.Commit()
}
