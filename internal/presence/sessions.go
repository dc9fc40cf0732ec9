package presence

// Session remembers which room and user a live connection belongs to, so
// disconnect cleanup does not need the transport to re-supply them.
type Session struct {
	UserID      string
	Room        string
	DisplayName string
	AvatarRef   string
}

// Sessions maps connection id -> Session. Same ownership rule as Registry:
// only the hub loop mutates it.
type Sessions struct {
	byConn map[string]Session
}

func NewSessions() *Sessions {
	return &Sessions{byConn: make(map[string]Session)}
}

// Attach stores the association for a connection, overwriting any previous
// one so a re-join on the same connection takes effect.
func (s *Sessions) Attach(connID string, sess Session) {
	s.byConn[connID] = sess
}

// Lookup returns the stored association, or ok=false for a connection that
// never joined a room.
func (s *Sessions) Lookup(connID string) (Session, bool) {
	sess, ok := s.byConn[connID]
	return sess, ok
}

// Detach removes the association once disconnect cleanup completes.
func (s *Sessions) Detach(connID string) {
	delete(s.byConn, connID)
}

// Len returns the number of attached connections.
func (s *Sessions) Len() int {
	return len(s.byConn)
}
