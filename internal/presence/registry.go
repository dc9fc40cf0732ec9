// Package presence tracks which users are online in which class room and
// through which connections. The registry and session map carry no locks:
// they are owned by the hub's event loop and must only be touched from it.
package presence

// UserInfo is the identity a connection presents when joining a room.
type UserInfo struct {
	ID          string
	DisplayName string
	AvatarRef   string
}

// Entry is one user's presence in a room's snapshot.
type Entry struct {
	UserID          string
	ConnectionCount int
	ConnectionIDs   []string
	DisplayName     string
	AvatarRef       string
}

type roomEntry struct {
	info  UserInfo
	conns map[string]struct{}
}

// Registry maps room -> user -> set of live connection ids. A user appears in
// a room's map iff it has at least one live connection there; empty
// connection sets are removed immediately so the user count stays equal to
// the distinct-online-user count.
type Registry struct {
	rooms map[string]map[string]*roomEntry
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]map[string]*roomEntry)}
}

// Add records a connection for a user in a room, creating the room and user
// entries on first use. Adding an already-recorded connection is a no-op.
// Display attributes are refreshed on every add so a rejoin can update them.
func (r *Registry) Add(room string, user UserInfo, connID string) {
	users, ok := r.rooms[room]
	if !ok {
		users = make(map[string]*roomEntry)
		r.rooms[room] = users
	}
	entry, ok := users[user.ID]
	if !ok {
		entry = &roomEntry{conns: make(map[string]struct{})}
		users[user.ID] = entry
	}
	entry.info = user
	entry.conns[connID] = struct{}{}
}

// Remove drops a connection from a user's set. Emptied user entries and
// emptied rooms are deleted. Removing an absent room, user, or connection is
// a silent no-op; disconnect races must be tolerated.
func (r *Registry) Remove(room, userID, connID string) {
	users, ok := r.rooms[room]
	if !ok {
		return
	}
	entry, ok := users[userID]
	if !ok {
		return
	}
	delete(entry.conns, connID)
	if len(entry.conns) == 0 {
		delete(users, userID)
	}
	if len(users) == 0 {
		delete(r.rooms, room)
	}
}

// Snapshot returns the current membership of a room. Order is unspecified.
func (r *Registry) Snapshot(room string) []Entry {
	users := r.rooms[room]
	entries := make([]Entry, 0, len(users))
	for userID, entry := range users {
		connIDs := make([]string, 0, len(entry.conns))
		for id := range entry.conns {
			connIDs = append(connIDs, id)
		}
		entries = append(entries, Entry{
			UserID:          userID,
			ConnectionCount: len(entry.conns),
			ConnectionIDs:   connIDs,
			DisplayName:     entry.info.DisplayName,
			AvatarRef:       entry.info.AvatarRef,
		})
	}
	return entries
}

// Count returns the number of distinct users in a room, not connections.
func (r *Registry) Count(room string) int {
	return len(r.rooms[room])
}

// Connections returns every live connection id in a room, across all users.
func (r *Registry) Connections(room string) []string {
	users := r.rooms[room]
	var connIDs []string
	for _, entry := range users {
		for id := range entry.conns {
			connIDs = append(connIDs, id)
		}
	}
	return connIDs
}

// Contains reports whether a connection is recorded for a user in a room.
func (r *Registry) Contains(room, userID, connID string) bool {
	users, ok := r.rooms[room]
	if !ok {
		return false
	}
	entry, ok := users[userID]
	if !ok {
		return false
	}
	_, ok = entry.conns[connID]
	return ok
}
