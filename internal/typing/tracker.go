// Package typing tracks who is typing: remote indicators with a silence
// timeout, and the debounced start/stop broadcast for local keystrokes.
package typing

import (
	"sort"
	"sync"
	"time"
)

// ExpireAfter is how long a remote typing entry survives without refresh.
const ExpireAfter = 5 * time.Second

// Entry is one remote user currently typing.
type Entry struct {
	UserID   int64
	Name     string
	LastSeen time.Time
}

// Tracker keeps remote typing entries. An entry is created or refreshed on
// typing(true), removed on typing(false) or after ExpireAfter of silence,
// whichever comes first.
type Tracker struct {
	mu      sync.Mutex
	entries map[int64]Entry
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{entries: make(map[int64]Entry)}
}

// Touch creates or refreshes the entry for a user.
func (t *Tracker) Touch(userID int64, name string, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[userID] = Entry{UserID: userID, Name: name, LastSeen: now}
}

// Stop removes a user's entry. Absent entries are a no-op.
func (t *Tracker) Stop(userID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, userID)
}

// Reset drops all entries. Called on conversation switch.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make(map[int64]Entry)
}

// Active prunes expired entries and returns the rest ordered by name.
func (t *Tracker) Active(now time.Time) []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	var active []Entry
	for id, entry := range t.entries {
		if now.Sub(entry.LastSeen) >= ExpireAfter {
			delete(t.entries, id)
			continue
		}
		active = append(active, entry)
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Name < active[j].Name })
	return active
}
