package store

import (
	"database/sql"
	"time"
)

// SaveDraft stores unsent input for a conversation. An empty draft deletes
// the row.
func SaveDraft(db *sql.DB, channelID int64, content string, now time.Time) error {
	if content == "" {
		return DeleteDraft(db, channelID)
	}
	_, err := db.Exec(`
		INSERT OR REPLACE INTO huddle_drafts (channel_id, content, updated_at)
		VALUES (?, ?, ?)`, channelID, content, now.UnixMilli())
	return err
}

// GetDraft returns the saved draft for a conversation, empty when none.
func GetDraft(db *sql.DB, channelID int64) (string, error) {
	row := db.QueryRow("SELECT content FROM huddle_drafts WHERE channel_id = ?", channelID)
	var content string
	if err := row.Scan(&content); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", err
	}
	return content, nil
}

// DeleteDraft removes a conversation's draft.
func DeleteDraft(db *sql.DB, channelID int64) error {
	_, err := db.Exec("DELETE FROM huddle_drafts WHERE channel_id = ?", channelID)
	return err
}
