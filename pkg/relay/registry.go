package relay

import "sync"

// Registry maps authenticated users to their live connections. A user may
// hold several simultaneous connections (tabs, devices); each connection
// belongs to exactly one user.
type Registry struct {
	mu     sync.RWMutex
	conns  map[ConnID]*Conn
	byUser map[uint]map[ConnID]*Conn
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		conns:  make(map[ConnID]*Conn),
		byUser: make(map[uint]map[ConnID]*Conn),
	}
}

// Register records the connection under its user. Re-registering an existing
// connection ID fails with ErrDuplicateConnection.
func (r *Registry) Register(c *Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.conns[c.ID]; exists {
		return ErrDuplicateConnection
	}
	r.conns[c.ID] = c
	set, ok := r.byUser[c.UserID]
	if !ok {
		set = make(map[ConnID]*Conn)
		r.byUser[c.UserID] = set
	}
	set[c.ID] = c
	return nil
}

// Unregister removes the connection. Removing an absent connection is a
// no-op so duplicate disconnect notifications are harmless.
func (r *Registry) Unregister(id ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conns[id]
	if !ok {
		return
	}
	delete(r.conns, id)
	if set, ok := r.byUser[c.UserID]; ok {
		delete(set, id)
		if len(set) == 0 {
			delete(r.byUser, c.UserID)
		}
	}
}

// Resolve returns all live connections for a user. An empty result means the
// user is offline; it is never an error.
func (r *Registry) Resolve(userID uint) []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.byUser[userID]
	if !ok {
		return nil
	}
	out := make([]*Conn, 0, len(set))
	for _, c := range set {
		out = append(out, c)
	}
	return out
}

// Get looks up a connection by ID.
func (r *Registry) Get(id ConnID) (*Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[id]
	return c, ok
}

// Len returns the number of live connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
