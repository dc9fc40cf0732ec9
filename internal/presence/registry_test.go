package presence

import "testing"

func user(id, name string) UserInfo {
	return UserInfo{ID: id, DisplayName: name}
}

func findEntry(t *testing.T, entries []Entry, userID string) Entry {
	t.Helper()
	for _, e := range entries {
		if e.UserID == userID {
			return e
		}
	}
	t.Fatalf("user %q not found in snapshot", userID)
	return Entry{}
}

func TestRegistryDistinctCount(t *testing.T) {
	r := NewRegistry()

	r.Add("CS-A", user("u1", "Asha"), "c1")
	r.Add("CS-A", user("u1", "Asha"), "c2")
	r.Add("CS-A", user("u2", "Ravi"), "c3")

	if got := r.Count("CS-A"); got != 2 {
		t.Fatalf("expected 2 distinct users, got %d", got)
	}
	if got := len(r.Snapshot("CS-A")); got != 2 {
		t.Fatalf("expected snapshot length 2, got %d", got)
	}
}

func TestRegistryIdempotentAdd(t *testing.T) {
	r := NewRegistry()

	r.Add("CS-A", user("u1", "Asha"), "c1")
	r.Add("CS-A", user("u1", "Asha"), "c1")

	entry := findEntry(t, r.Snapshot("CS-A"), "u1")
	if entry.ConnectionCount != 1 {
		t.Fatalf("expected 1 connection after duplicate add, got %d", entry.ConnectionCount)
	}
	if r.Count("CS-A") != 1 {
		t.Fatalf("expected count 1, got %d", r.Count("CS-A"))
	}
}

func TestRegistryMultiConnectionFanIn(t *testing.T) {
	r := NewRegistry()

	r.Add("CS-A", user("u1", "Asha"), "c1")
	r.Add("CS-A", user("u1", "Asha"), "c2")

	entry := findEntry(t, r.Snapshot("CS-A"), "u1")
	if entry.ConnectionCount != 2 {
		t.Fatalf("expected connectionCount 2, got %d", entry.ConnectionCount)
	}
	if r.Count("CS-A") != 1 {
		t.Fatalf("user with two connections must count once, got %d", r.Count("CS-A"))
	}

	r.Remove("CS-A", "u1", "c1")
	entry = findEntry(t, r.Snapshot("CS-A"), "u1")
	if entry.ConnectionCount != 1 {
		t.Fatalf("expected connectionCount 1 after removing c1, got %d", entry.ConnectionCount)
	}

	r.Remove("CS-A", "u1", "c2")
	if r.Count("CS-A") != 0 {
		t.Fatalf("expected empty room after last connection left, got %d", r.Count("CS-A"))
	}
	if len(r.Snapshot("CS-A")) != 0 {
		t.Fatal("expected empty snapshot after room emptied")
	}
}

func TestRegistryRemoveToleratesAbsentEntries(t *testing.T) {
	r := NewRegistry()

	// None of these may panic or create entries.
	r.Remove("CS-A", "u1", "c1")

	r.Add("CS-A", user("u1", "Asha"), "c1")
	r.Remove("CS-A", "u2", "c9")
	r.Remove("CS-B", "u1", "c1")
	r.Remove("CS-A", "u1", "c9")

	if r.Count("CS-A") != 1 {
		t.Fatalf("expected u1 still present, count %d", r.Count("CS-A"))
	}
	if r.Count("CS-B") != 0 {
		t.Fatalf("expected CS-B untouched, count %d", r.Count("CS-B"))
	}
}

func TestRegistryNoGhostConnections(t *testing.T) {
	r := NewRegistry()

	r.Add("CS-A", user("u1", "Asha"), "c1")
	r.Add("CS-B", user("u1", "Asha"), "c2")
	r.Remove("CS-A", "u1", "c1")

	for _, room := range []string{"CS-A", "CS-B"} {
		for _, connID := range r.Connections(room) {
			if connID == "c1" {
				t.Fatalf("connection c1 still present in room %s", room)
			}
		}
	}
	if !r.Contains("CS-B", "u1", "c2") {
		t.Fatal("connection c2 should survive removal of c1")
	}
}

func TestRegistryCrossRoomIsolation(t *testing.T) {
	r := NewRegistry()

	r.Add("CS-A", user("u1", "Asha"), "c1")
	r.Add("CS-B", user("u2", "Ravi"), "c2")

	if r.Count("CS-A") != 1 || r.Count("CS-B") != 1 {
		t.Fatalf("rooms must not share members: CS-A=%d CS-B=%d", r.Count("CS-A"), r.Count("CS-B"))
	}
	conns := r.Connections("CS-A")
	if len(conns) != 1 || conns[0] != "c1" {
		t.Fatalf("expected only c1 in CS-A, got %v", conns)
	}
}

func TestRegistryDisplayAttrsRefreshOnRejoin(t *testing.T) {
	r := NewRegistry()

	r.Add("CS-A", UserInfo{ID: "u1", DisplayName: "Asha", AvatarRef: "/uploads/a.jpg"}, "c1")
	r.Add("CS-A", UserInfo{ID: "u1", DisplayName: "Asha K", AvatarRef: "/uploads/b.jpg"}, "c2")

	entry := findEntry(t, r.Snapshot("CS-A"), "u1")
	if entry.DisplayName != "Asha K" || entry.AvatarRef != "/uploads/b.jpg" {
		t.Fatalf("expected refreshed display attrs, got %q %q", entry.DisplayName, entry.AvatarRef)
	}
}

func TestSessionsAttachLookupDetach(t *testing.T) {
	s := NewSessions()

	if _, ok := s.Lookup("c1"); ok {
		t.Fatal("lookup of unknown connection must report not found")
	}

	s.Attach("c1", Session{UserID: "u1", Room: "CS-A", DisplayName: "Asha"})
	sess, ok := s.Lookup("c1")
	if !ok || sess.UserID != "u1" || sess.Room != "CS-A" {
		t.Fatalf("unexpected session %+v ok=%v", sess, ok)
	}

	// Re-join on the same connection overwrites.
	s.Attach("c1", Session{UserID: "u1", Room: "CS-B"})
	sess, _ = s.Lookup("c1")
	if sess.Room != "CS-B" {
		t.Fatalf("expected overwritten room CS-B, got %s", sess.Room)
	}

	s.Detach("c1")
	if _, ok := s.Lookup("c1"); ok {
		t.Fatal("session should be gone after detach")
	}
	if s.Len() != 0 {
		t.Fatalf("expected no sessions, got %d", s.Len())
	}
}
