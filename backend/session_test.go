package backend

import "testing"

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	sess := store.Snapshot(1)
	if sess.State != StateIdle {
		t.Errorf("fresh session state = %q, want idle", sess.State)
	}

	store.Update(1, func(s *Session) {
		s.State = StateQualityPending
		s.Resolved = &Resolved{Kind: KindTrack, Track: &TrackMetadata{Title: "Song"}}
	})

	sess = store.Snapshot(1)
	if sess.State != StateQualityPending {
		t.Errorf("state = %q, want quality_pending", sess.State)
	}
	if sess.Resolved == nil || sess.Resolved.Track.Title != "Song" {
		t.Error("resolved metadata not stored")
	}
	if sess.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not stamped")
	}

	// Other chats are independent.
	if other := store.Snapshot(2); other.State != StateIdle {
		t.Errorf("chat 2 state = %q, want idle", other.State)
	}

	store.Reset(1)
	sess = store.Snapshot(1)
	if sess.State != StateIdle || sess.Resolved != nil {
		t.Errorf("after reset: state %q, resolved %v", sess.State, sess.Resolved)
	}
}

func TestSessionStoreGetCreates(t *testing.T) {
	store := NewSessionStore()
	a := store.Get(7)
	b := store.Get(7)
	if a != b {
		t.Error("Get should return the same session for a chat")
	}
}
