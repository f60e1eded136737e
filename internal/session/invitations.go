package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/huddlechat/huddle/internal/types"
)

// InvitationStore tracks invitation statuses keyed by invitation id, so a
// status change to one invitation never touches another rendered in the
// same timeline.
type InvitationStore struct {
	mu       sync.Mutex
	statuses map[int64]types.InvitationStatus
}

// NewInvitationStore returns an empty invitation status store.
func NewInvitationStore() *InvitationStore {
	return &InvitationStore{statuses: make(map[int64]types.InvitationStatus)}
}

// Set records an invitation's status.
func (s *InvitationStore) Set(id int64, status types.InvitationStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[id] = status
}

// Get returns an invitation's status, defaulting to pending when the store
// has never heard of it.
func (s *InvitationStore) Get(id int64) types.InvitationStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status, ok := s.statuses[id]; ok {
		return status
	}
	return types.InvitationPending
}

// RespondInvitation answers an invitation embedded in the timeline. The
// status flips optimistically so the buttons deactivate at once, and rolls
// back to pending if the request fails. Answering a non-pending invitation
// is a no-op. On accept, the returned channel is added to the summary cache.
func (s *Session) RespondInvitation(ctx context.Context, invitationID int64, accept bool) error {
	if s.invitations.Get(invitationID) != types.InvitationPending {
		return nil
	}

	next := types.InvitationDeclined
	if accept {
		next = types.InvitationAccepted
	}
	s.invitations.Set(invitationID, next)

	var err error
	if accept {
		var ch types.Channel
		ch, err = s.mutations.AcceptInvitation(ctx, invitationID)
		if err == nil {
			s.summaries.Set(ch)
		}
	} else {
		err = s.mutations.DeclineInvitation(ctx, invitationID, "")
	}

	if err != nil {
		s.invitations.Set(invitationID, types.InvitationPending)
		s.notify(Notice{Level: NoticeError, Text: fmt.Sprintf("invitation: %v", err)})
		return err
	}
	return nil
}
