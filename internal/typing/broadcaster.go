package typing

import (
	"sync"
	"time"
)

// StopAfter is the local inactivity window after which a stop is broadcast.
const StopAfter = 3 * time.Second

// Broadcaster debounces the local typing signal. The first keystroke after
// an idle period reports a start; subsequent keystrokes only refresh the
// window; StopAfter of silence (observed via Idle polls) or sending a
// message reports a stop.
type Broadcaster struct {
	mu        sync.Mutex
	typing    bool
	lastInput time.Time
}

// NewBroadcaster creates an idle broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// Keystroke registers local input. Returns true when a typing-start should
// be sent, i.e. only on the first keystroke after idle.
func (b *Broadcaster) Keystroke(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastInput = now
	if b.typing {
		return false
	}
	b.typing = true
	return true
}

// Idle is polled on a timer. Returns true when the inactivity window has
// elapsed and a typing-stop should be sent.
func (b *Broadcaster) Idle(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.typing {
		return false
	}
	if now.Sub(b.lastInput) < StopAfter {
		return false
	}
	b.typing = false
	return true
}

// MessageSent resets to idle. Returns true when a typing-stop should be
// sent immediately alongside the message.
func (b *Broadcaster) MessageSent() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.typing {
		return false
	}
	b.typing = false
	return true
}
