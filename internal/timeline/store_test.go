package timeline

import (
	"testing"
	"time"

	"github.com/huddlechat/huddle/internal/types"
)

func msg(id int64, userID int64, content string) types.Message {
	return types.Message{
		ID:        id,
		ChannelID: 42,
		UserID:    userID,
		Username:  "u",
		Content:   content,
		CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC).Add(time.Duration(id) * time.Second),
	}
}

func ids(store *Store) []int64 {
	msgs := store.Messages()
	out := make([]int64, len(msgs))
	for i, m := range msgs {
		out[i] = m.ID
	}
	return out
}

func TestMergeSortsById(t *testing.T) {
	store := NewStore(42)
	store.Merge([]types.Message{msg(5, 1, "e"), msg(2, 1, "b"), msg(9, 2, "i")})

	got := ids(store)
	want := []int64{2, 5, 9}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	store := NewStore(42)
	page := []types.Message{msg(1, 1, "a"), msg(2, 1, "b"), msg(3, 2, "c")}

	store.Merge(page)
	first := ids(store)

	if added := store.Merge(page); added != 0 {
		t.Errorf("second merge added %d messages, want 0", added)
	}
	second := ids(store)

	if len(first) != len(second) {
		t.Fatalf("store size changed on re-merge: %d -> %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("order changed on re-merge: %v -> %v", first, second)
		}
	}
}

func TestMergeOverlappingPageUpdatesInPlace(t *testing.T) {
	store := NewStore(42)
	store.Merge([]types.Message{msg(1, 1, "old"), msg(2, 1, "b")})

	updated := msg(1, 1, "new")
	store.Merge([]types.Message{updated, msg(3, 1, "c")})

	if store.Len() != 3 {
		t.Fatalf("len = %d, want 3", store.Len())
	}
	got, _ := store.Get(1)
	if got.Content != "new" {
		t.Errorf("overlapping merge did not update content: %q", got.Content)
	}
}

func TestOrderInvariantUnderMixedOps(t *testing.T) {
	store := NewStore(42)
	store.Merge([]types.Message{msg(10, 1, "j"), msg(3, 1, "c")})
	store.Merge([]types.Message{msg(7, 2, "g"), msg(1, 2, "a")})
	store.Remove(3)
	content := "patched"
	store.ApplyPatch(7, Patch{Content: &content})
	store.Merge([]types.Message{msg(5, 1, "e")})

	got := ids(store)
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Fatalf("order not strictly increasing: %v", got)
		}
	}
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	store := NewStore(42)
	store.Merge([]types.Message{msg(1, 1, "a")})

	if store.Remove(99) {
		t.Error("removing absent id should report false")
	}
	if store.Len() != 1 {
		t.Errorf("len = %d, want 1", store.Len())
	}
	// Removing twice is also a no-op.
	store.Remove(1)
	if store.Remove(1) {
		t.Error("second remove should be a no-op")
	}
}

func TestApplyPatchUnknownId(t *testing.T) {
	store := NewStore(42)
	content := "x"
	if store.ApplyPatch(404, Patch{Content: &content}) {
		t.Error("patching unknown id should report false")
	}
}

func TestReplyDeltaNeverNegative(t *testing.T) {
	store := NewStore(42)
	store.Merge([]types.Message{msg(1, 1, "a")})
	store.ApplyPatch(1, Patch{ReplyDelta: -2})
	got, _ := store.Get(1)
	if got.ReplyCount != 0 {
		t.Errorf("reply count = %d, want 0", got.ReplyCount)
	}
}

func TestResetClearsAndRebinds(t *testing.T) {
	store := NewStore(42)
	store.Merge([]types.Message{msg(1, 1, "a"), msg(2, 1, "b")})

	store.Reset(7)
	if store.Len() != 0 {
		t.Errorf("len after reset = %d, want 0", store.Len())
	}
	if store.ChannelID() != 7 {
		t.Errorf("channel = %d, want 7", store.ChannelID())
	}
	if store.Contains(1) {
		t.Error("reset store should not remember old ids")
	}
}

func TestAddReactionIdempotent(t *testing.T) {
	store := NewStore(42)
	store.Merge([]types.Message{msg(1, 1, "a")})
	reaction := types.Reaction{Emoji: "👍", UserID: 2, Username: "ann"}

	if !store.AddReaction(1, reaction) {
		t.Fatal("first add should apply")
	}
	if store.AddReaction(1, reaction) {
		t.Error("duplicate (user, emoji) add should be skipped")
	}
	got, _ := store.Get(1)
	if len(got.Reactions) != 1 {
		t.Errorf("reactions = %d, want 1", len(got.Reactions))
	}

	// Same emoji from another user is a distinct reaction.
	store.AddReaction(1, types.Reaction{Emoji: "👍", UserID: 3, Username: "bob"})
	got, _ = store.Get(1)
	if len(got.Reactions) != 2 {
		t.Errorf("reactions = %d, want 2", len(got.Reactions))
	}
}

func TestRemoveReaction(t *testing.T) {
	store := NewStore(42)
	store.Merge([]types.Message{msg(1, 1, "a")})
	store.AddReaction(1, types.Reaction{Emoji: "👍", UserID: 2, Username: "ann"})

	if !store.RemoveReaction(1, 2, "👍") {
		t.Fatal("remove should apply")
	}
	if store.RemoveReaction(1, 2, "👍") {
		t.Error("second remove should be a no-op")
	}
	got, _ := store.Get(1)
	if len(got.Reactions) != 0 {
		t.Errorf("reactions = %d, want 0", len(got.Reactions))
	}
}
