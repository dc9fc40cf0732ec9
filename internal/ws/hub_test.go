package ws

import (
	"encoding/json"
	"testing"
	"time"

	"saarthi/internal/models"
)

// fakeConn records every frame the hub pushes to it.
type fakeConn struct {
	id     string
	frames [][]byte
}

func (f *fakeConn) ID() string { return f.id }

func (f *fakeConn) Enqueue(frame []byte) bool {
	f.frames = append(f.frames, frame)
	return true
}

func newTestHub(history Sink) *Hub {
	h := NewHub(history)
	h.now = func() time.Time { return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC) }
	n := 0
	h.newID = func() string {
		n++
		return string(rune('a' + n - 1))
	}
	return h
}

func connect(h *Hub, id string) *fakeConn {
	c := &fakeConn{id: id}
	h.conns[c.ID()] = c
	return c
}

func join(h *Hub, c conn, userID, room, name string) {
	h.handleJoin(c, models.JoinRoomPayload{UserID: userID, Room: room, DisplayName: name})
}

func lastPresence(t *testing.T, c *fakeConn) models.PresenceSnapshot {
	t.Helper()
	for i := len(c.frames) - 1; i >= 0; i-- {
		var env models.Envelope
		if err := json.Unmarshal(c.frames[i], &env); err != nil {
			t.Fatalf("bad frame: %v", err)
		}
		if env.Type == models.EventPresenceSnapshot {
			var snap models.PresenceSnapshot
			if err := json.Unmarshal(c.frames[i], &snap); err != nil {
				t.Fatalf("bad presence frame: %v", err)
			}
			return snap
		}
	}
	t.Fatal("no presence snapshot received")
	return models.PresenceSnapshot{}
}

func countFrames(t *testing.T, c *fakeConn, typ models.EventType) int {
	t.Helper()
	n := 0
	for _, frame := range c.frames {
		var env models.Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			t.Fatalf("bad frame: %v", err)
		}
		if env.Type == typ {
			n++
		}
	}
	return n
}

func TestJoinLeaveScenario(t *testing.T) {
	h := newTestHub(nil)

	c1 := connect(h, "c1")
	join(h, c1, "u1", "CS-A", "Asha")

	snap := lastPresence(t, c1)
	if snap.Count != 1 || len(snap.Users) != 1 || snap.Users[0].UserID != "u1" {
		t.Fatalf("unexpected snapshot after first join: %+v", snap)
	}
	if snap.Users[0].ConnectionCount != 1 {
		t.Fatalf("expected connectionCount 1, got %d", snap.Users[0].ConnectionCount)
	}

	c2 := connect(h, "c2")
	join(h, c2, "u2", "CS-A", "Ravi")

	if snap := lastPresence(t, c1); snap.Count != 2 {
		t.Fatalf("expected count 2 after second join, got %d", snap.Count)
	}

	h.handleDisconnect(c1)

	snap = lastPresence(t, c2)
	if snap.Count != 1 || snap.Users[0].UserID != "u2" {
		t.Fatalf("expected only u2 after c1 left, got %+v", snap)
	}
}

func TestBroadcastAfterEveryMutation(t *testing.T) {
	h := newTestHub(nil)

	c1 := connect(h, "c1")
	join(h, c1, "u1", "CS-A", "Asha")
	c2 := connect(h, "c2")
	join(h, c2, "u2", "CS-A", "Ravi")
	h.handleDisconnect(c2)

	// c1 was present for its own join, u2's join, and u2's leave.
	if got := countFrames(t, c1, models.EventPresenceSnapshot); got != 3 {
		t.Fatalf("expected exactly 3 presence broadcasts, got %d", got)
	}
	if snap := lastPresence(t, c1); snap.Count != len(snap.Users) {
		t.Fatalf("count %d disagrees with users %d", snap.Count, len(snap.Users))
	}
}

func TestMalformedJoinRefused(t *testing.T) {
	h := newTestHub(nil)
	c1 := connect(h, "c1")

	h.handleJoin(c1, models.JoinRoomPayload{UserID: "", Room: "CS-A"})
	h.handleJoin(c1, models.JoinRoomPayload{UserID: "   ", Room: "CS-A"})
	h.handleJoin(c1, models.JoinRoomPayload{UserID: "u1", Room: "   "})

	if len(c1.frames) != 0 {
		t.Fatalf("refused joins must not broadcast, got %d frames", len(c1.frames))
	}
	if _, ok := h.sessions.Lookup("c1"); ok {
		t.Fatal("refused join must not attach a session")
	}

	// The connection stays usable and may retry.
	join(h, c1, "u1", "CS-A", "Asha")
	if snap := lastPresence(t, c1); snap.Count != 1 {
		t.Fatalf("retry join failed, count %d", snap.Count)
	}
}

func TestOrphanMessageDropped(t *testing.T) {
	h := newTestHub(nil)

	c1 := connect(h, "c1")
	join(h, c1, "u1", "CS-A", "Asha")

	orphan := connect(h, "c9")
	h.handleMessage(orphan, models.ChatMessagePayload{Text: "hello?"})

	if got := countFrames(t, c1, models.EventChatBroadcast); got != 0 {
		t.Fatalf("orphan message must not reach any room, got %d broadcasts", got)
	}
}

func TestChatRelayStampsAndEchoes(t *testing.T) {
	sink := &recordingSink{}
	h := newTestHub(sink)

	c1 := connect(h, "c1")
	h.handleJoin(c1, models.JoinRoomPayload{
		UserID: "u1", Room: "CS-A", DisplayName: "Asha", AvatarRef: "/uploads/a.jpg",
	})
	c2 := connect(h, "c2")
	join(h, c2, "u2", "CS-A", "Ravi")

	h.handleMessage(c1, models.ChatMessagePayload{Text: "hi all"})

	for _, c := range []*fakeConn{c1, c2} {
		if got := countFrames(t, c, models.EventChatBroadcast); got != 1 {
			t.Fatalf("conn %s expected 1 chat broadcast, got %d", c.id, got)
		}
	}

	var msg models.ChatBroadcast
	if err := json.Unmarshal(c2.frames[len(c2.frames)-1], &msg); err != nil {
		t.Fatalf("bad chat frame: %v", err)
	}
	if msg.ID == "" || msg.CreatedAt == "" {
		t.Fatal("server must stamp id and timestamp")
	}
	if msg.UserID != "u1" || msg.DisplayName != "Asha" || msg.AvatarRef != "/uploads/a.jpg" {
		t.Fatalf("sender identity must come from the session, got %+v", msg)
	}
	if msg.Text != "hi all" {
		t.Fatalf("unexpected text %q", msg.Text)
	}

	if len(sink.msgs) != 1 || sink.msgs[0].Room != "CS-A" || sink.msgs[0].ID != msg.ID {
		t.Fatalf("history sink not fed correctly: %+v", sink.msgs)
	}
}

func TestCrossRoomIsolation(t *testing.T) {
	h := newTestHub(nil)

	c1 := connect(h, "c1")
	join(h, c1, "u1", "CS-A", "Asha")
	c2 := connect(h, "c2")
	join(h, c2, "u2", "CS-B", "Ravi")

	h.handleMessage(c1, models.ChatMessagePayload{Text: "only for CS-A"})

	if got := countFrames(t, c2, models.EventChatBroadcast); got != 0 {
		t.Fatalf("message leaked into CS-B, got %d broadcasts", got)
	}
	if got := countFrames(t, c1, models.EventChatBroadcast); got != 1 {
		t.Fatalf("sender must receive its own broadcast, got %d", got)
	}
}

func TestReconnectInterleaving(t *testing.T) {
	h := newTestHub(nil)

	// u1 joins on c1, the network drops without a disconnect event, and u1
	// re-joins on c2 before c1's disconnect is detected.
	c1 := connect(h, "c1")
	join(h, c1, "u1", "CS-A", "Asha")
	c2 := connect(h, "c2")
	join(h, c2, "u1", "CS-A", "Asha")

	snap := lastPresence(t, c2)
	if snap.Count != 1 {
		t.Fatalf("u1 must count once across two connections, got %d", snap.Count)
	}
	if snap.Users[0].ConnectionCount != 2 {
		t.Fatalf("expected connectionCount 2, got %d", snap.Users[0].ConnectionCount)
	}

	// The stale connection's disconnect eventually fires.
	h.handleDisconnect(c1)

	snap = lastPresence(t, c2)
	if snap.Count != 1 || snap.Users[0].ConnectionCount != 1 {
		t.Fatalf("u1 must remain via c2 after c1 cleanup, got %+v", snap)
	}
}

func TestRejoinMovesConnectionBetweenRooms(t *testing.T) {
	h := newTestHub(nil)

	c1 := connect(h, "c1")
	join(h, c1, "u1", "CS-A", "Asha")
	watcher := connect(h, "c2")
	join(h, watcher, "u2", "CS-A", "Ravi")

	// u1 switches rooms on the same connection.
	join(h, c1, "u1", "CS-B", "Asha")

	snap := lastPresence(t, watcher)
	if snap.Count != 1 || snap.Users[0].UserID != "u2" {
		t.Fatalf("u1 must leave CS-A on room switch, got %+v", snap)
	}
	if h.registry.Contains("CS-A", "u1", "c1") {
		t.Fatal("stale registration left in the old room")
	}
	if !h.registry.Contains("CS-B", "u1", "c1") {
		t.Fatal("connection missing from the new room")
	}

	// Messages now land in the new room only.
	h.handleMessage(c1, models.ChatMessagePayload{Text: "moved"})
	if got := countFrames(t, watcher, models.EventChatBroadcast); got != 0 {
		t.Fatalf("message leaked into the old room, got %d broadcasts", got)
	}
}

func TestOrphanDisconnectIsNoOp(t *testing.T) {
	h := newTestHub(nil)

	c1 := connect(h, "c1")
	join(h, c1, "u1", "CS-A", "Asha")

	orphan := connect(h, "c9")
	h.handleDisconnect(orphan)

	if snap := lastPresence(t, c1); snap.Count != 1 {
		t.Fatalf("orphan disconnect must not disturb membership, count %d", snap.Count)
	}
}

func TestNormalizeJoinLegacyAliases(t *testing.T) {
	tests := []struct {
		name    string
		payload models.JoinRoomPayload
		want    string
	}{
		{"canonical", models.JoinRoomPayload{Room: "CS-A"}, "CS-A"},
		{"snake alias", models.JoinRoomPayload{LegacyClassSnake: "CS-B"}, "CS-B"},
		{"camel alias", models.JoinRoomPayload{LegacyClassCamel: "CS-C"}, "CS-C"},
		{"canonical wins", models.JoinRoomPayload{Room: "CS-A", LegacyClassSnake: "CS-B"}, "CS-A"},
		{"snake wins over camel", models.JoinRoomPayload{LegacyClassSnake: "CS-B", LegacyClassCamel: "CS-C"}, "CS-B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeJoin(tt.payload)
			if got.Room != tt.want {
				t.Fatalf("expected room %q, got %q", tt.want, got.Room)
			}
			if got.LegacyClassSnake != "" || got.LegacyClassCamel != "" {
				t.Fatal("aliases must be cleared after normalization")
			}
		})
	}
}

type recordingSink struct {
	msgs []*models.ChatMessage
}

func (s *recordingSink) Append(msg *models.ChatMessage) {
	s.msgs = append(s.msgs, msg)
}
