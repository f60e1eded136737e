package session

import (
	"context"
	"fmt"

	"github.com/huddlechat/huddle/internal/api"
)

// LoadLatest fetches the newest page for the open conversation. Called once
// right after Open.
func (s *Session) LoadLatest(ctx context.Context) error {
	s.mu.Lock()
	s.page = 0
	s.exhausted = false
	s.mu.Unlock()
	return s.loadPage(ctx)
}

// LoadOlder fetches the next page back in history. A no-op while exhausted
// or while another fetch is in flight, so a held scroll key cannot stack
// requests. Returns the number of messages merged.
func (s *Session) LoadOlder(ctx context.Context) (int, error) {
	s.mu.Lock()
	if s.activeID == 0 || s.exhausted || s.fetching {
		s.mu.Unlock()
		return 0, nil
	}
	s.mu.Unlock()
	if err := s.loadPage(ctx); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastMerged, nil
}

// loadPage fetches the page the cursor points at. The lock is dropped for
// the network round trip; the result is applied only if the same
// conversation is still open when it lands.
func (s *Session) loadPage(ctx context.Context) error {
	s.mu.Lock()
	if s.activeID == 0 || s.fetching {
		s.mu.Unlock()
		return nil
	}
	channelID := s.activeID
	offset := s.page * api.PageSize
	s.fetching = true
	s.mu.Unlock()

	messages, err := s.history.Messages(ctx, channelID, api.PageSize, offset)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetching = false

	if err != nil {
		return fmt.Errorf("load messages: %w", err)
	}
	if s.activeID != channelID {
		// The conversation changed while the page was in flight. Stale
		// data for the old conversation is discarded, not merged.
		return nil
	}

	s.lastMerged = s.timeline.Merge(messages)
	s.page++
	if len(messages) < api.PageSize {
		s.exhausted = true
	}
	return nil
}

// Exhausted reports whether history has been fetched back to the first
// message.
func (s *Session) Exhausted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exhausted
}
