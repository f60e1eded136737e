package store

const schemaSQL = `
-- Conversation summaries for the offline channel list
CREATE TABLE IF NOT EXISTS huddle_channels (
  id INTEGER PRIMARY KEY,              -- server channel id
  name TEXT NOT NULL,
  display_name TEXT,                   -- counterpart name for direct threads
  is_direct INTEGER NOT NULL DEFAULT 0,
  is_pinned INTEGER NOT NULL DEFAULT 0,
  mute_until INTEGER,                  -- unix ms, null when not muted
  unread_count INTEGER NOT NULL DEFAULT 0,
  last_read_message_id INTEGER,        -- local user's read watermark
  last_message_id INTEGER,             -- preview
  last_message_text TEXT,
  last_message_sender TEXT,
  last_message_at INTEGER,             -- unix ms
  updated_at INTEGER NOT NULL          -- unix ms, cache freshness
);

-- Cached messages, enough to render a conversation before the first fetch
CREATE TABLE IF NOT EXISTS huddle_messages (
  id INTEGER PRIMARY KEY,              -- server message id
  channel_id INTEGER NOT NULL,
  user_id INTEGER NOT NULL,
  username TEXT NOT NULL,
  full_name TEXT,
  content TEXT NOT NULL,
  parent_id INTEGER,
  reply_count INTEGER NOT NULL DEFAULT 0,
  created_at INTEGER NOT NULL,         -- unix ms
  updated_at INTEGER                   -- unix ms, null when never edited
);

CREATE INDEX IF NOT EXISTS idx_huddle_messages_channel ON huddle_messages(channel_id, id);

-- Unsent input, one draft per conversation
CREATE TABLE IF NOT EXISTS huddle_drafts (
  channel_id INTEGER PRIMARY KEY,
  content TEXT NOT NULL,
  updated_at INTEGER NOT NULL          -- unix ms
);
`
