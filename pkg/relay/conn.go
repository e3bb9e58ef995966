package relay

import (
	"sync"

	"github.com/LingByte/LingMeetX/pkg/constants"
	"github.com/google/uuid"
)

// ConnID identifies one transport session
type ConnID string

// ConnState tracks a connection through its lifecycle
type ConnState int

const (
	StateConnecting ConnState = iota
	StateAuthenticated
	StateInRoom
	StateClosed
)

// Conn represents one live signaling connection. Outbound frames go through a
// buffered channel drained by a single writer, which preserves per-connection
// send order.
type Conn struct {
	ID     ConnID
	UserID uint

	mu     sync.Mutex
	state  ConnState
	send   chan []byte
	closed bool

	teardownOnce sync.Once
}

// NewConn creates a connection for an authenticated user. The connection
// stays in StateConnecting until the router registers it.
func NewConn(userID uint) *Conn {
	return &Conn{
		ID:     ConnID(uuid.NewString()),
		UserID: userID,
		state:  StateConnecting,
		send:   make(chan []byte, constants.DefaultSendBufferSize),
	}
}

// State returns the current lifecycle state.
func (c *Conn) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Conn) setState(s ConnState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Outbound exposes the frame channel for the transport writer. The channel is
// closed on teardown.
func (c *Conn) Outbound() <-chan []byte {
	return c.send
}

// trySend enqueues a frame for delivery. It reports false without blocking if
// the connection is mid-teardown or its buffer is full; callers treat that as
// "target offline".
func (c *Conn) trySend(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// closeSend marks the connection closed and closes the outbound channel.
// Safe to call more than once.
func (c *Conn) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.state = StateClosed
	close(c.send)
}
