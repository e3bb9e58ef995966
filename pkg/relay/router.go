package relay

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/LingByte/LingMeetX/pkg/constants"
	"github.com/LingByte/LingMeetX/pkg/protocol"
	"go.uber.org/zap"
)

// ParticipantStore records meeting membership changes. Failures are logged
// and never block signaling.
type ParticipantStore interface {
	AddParticipant(meetingID, userID uint) error
	RemoveParticipant(meetingID, userID uint) error
}

// ChatSink persists in-room chat messages, best-effort.
type ChatSink interface {
	SaveMessage(meetingID, userID uint, content string) error
}

// EventPublisher fans participant events out to other relay instances.
type EventPublisher interface {
	PublishJoin(meetingID, userID uint)
	PublishLeave(meetingID, userID uint)
}

// Router is the signaling control core. It owns no transport; the WebSocket
// handler feeds it inbound frames and drains each connection's outbound
// channel. All shared state lives in the injected registry and room table.
type Router struct {
	registry  *Registry
	rooms     *RoomTable
	store     ParticipantStore
	chats     ChatSink
	publisher EventPublisher
	logger    *zap.Logger
}

// NewRouter creates a router over the given registry and room table.
func NewRouter(registry *Registry, rooms *RoomTable, store ParticipantStore, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		registry: registry,
		rooms:    rooms,
		store:    store,
		logger:   logger,
	}
}

// SetChatSink enables chat persistence.
func (r *Router) SetChatSink(chats ChatSink) {
	r.chats = chats
}

// SetPublisher enables cross-instance participant event publishing.
func (r *Router) SetPublisher(p EventPublisher) {
	r.publisher = p
}

// Attach registers an authenticated connection. The caller must tear the
// connection down if this fails.
func (r *Router) Attach(c *Conn) error {
	if err := r.registry.Register(c); err != nil {
		return err
	}
	c.setState(StateAuthenticated)
	metricConnections.Inc()
	r.logger.Info("connection registered",
		zap.String("conn_id", string(c.ID)),
		zap.Uint("user_id", c.UserID))
	return nil
}

// HandleMessage dispatches one inbound frame. A returned error means the
// connection must be closed; recoverable protocol problems are reported to
// the client as error envelopes instead.
func (r *Router) HandleMessage(c *Conn, raw []byte) error {
	env, err := protocol.Decode(raw)
	if err != nil {
		r.sendError(c, ErrInvalidMessage)
		return nil
	}
	switch env.Type {
	case constants.MsgJoin:
		var p protocol.JoinPayload
		if err := protocol.DecodePayload(env, &p); err != nil {
			r.sendError(c, ErrInvalidMessage)
			return nil
		}
		return r.dispatch(c, r.Join(c, p.RoomID))
	case constants.MsgLeave:
		var p protocol.LeavePayload
		if err := protocol.DecodePayload(env, &p); err != nil {
			r.sendError(c, ErrInvalidMessage)
			return nil
		}
		return r.dispatch(c, r.Leave(c, p.RoomID))
	case constants.MsgOffer, constants.MsgAnswer, constants.MsgICECandidate:
		var p protocol.SignalPayload
		if err := protocol.DecodePayload(env, &p); err != nil {
			r.sendError(c, ErrInvalidMessage)
			return nil
		}
		return r.dispatch(c, r.Relay(c, env.Type, p.TargetID, p.Data))
	case constants.MsgChat:
		var p protocol.ChatPayload
		if err := protocol.DecodePayload(env, &p); err != nil {
			r.sendError(c, ErrInvalidMessage)
			return nil
		}
		return r.dispatch(c, r.Chat(c, p.Content))
	default:
		r.sendError(c, ErrInvalidMessage)
		return nil
	}
}

// dispatch decides whether an operation error is fatal. Unauthorized closes
// the connection; everything else is reported and the connection lives on.
func (r *Router) dispatch(c *Conn, err error) error {
	if err == nil {
		return nil
	}
	r.sendError(c, err)
	if errors.Is(err, ErrUnauthorized) {
		return err
	}
	r.logger.Warn("signaling operation failed",
		zap.String("conn_id", string(c.ID)), zap.Error(err))
	return nil
}

// Join moves the connection into the meeting's room, notifying both the room
// it left (on a switch) and the room it entered.
func (r *Router) Join(c *Conn, meetingID uint) error {
	if !c.authenticated() {
		return ErrUnauthorized
	}
	key := roomKey(meetingID)
	if cur, ok := r.rooms.RoomOf(c.ID); ok && cur == key {
		return nil
	}
	prev, switched := r.rooms.Join(key, c.ID)
	if switched {
		r.broadcast(prev, c.ID, constants.MsgParticipantLeft, &protocol.ParticipantPayload{UserID: c.UserID})
		r.recordLeave(meetingIDFromKey(prev), c.UserID)
	}
	r.broadcast(key, c.ID, constants.MsgParticipantJoined, &protocol.ParticipantPayload{UserID: c.UserID})
	r.recordJoin(meetingID, c.UserID)
	c.setState(StateInRoom)
	metricRooms.Set(float64(r.rooms.Rooms()))
	r.logger.Info("joined room",
		zap.String("conn_id", string(c.ID)),
		zap.Uint("user_id", c.UserID),
		zap.Uint("meeting_id", meetingID))
	return nil
}

// Leave removes the connection from the meeting's room. Leaving a room the
// connection is not in is a no-op.
func (r *Router) Leave(c *Conn, meetingID uint) error {
	if !c.authenticated() {
		return ErrUnauthorized
	}
	key := roomKey(meetingID)
	if !r.rooms.Leave(key, c.ID) {
		return nil
	}
	r.broadcast(key, c.ID, constants.MsgParticipantLeft, &protocol.ParticipantPayload{UserID: c.UserID})
	r.recordLeave(meetingID, c.UserID)
	c.setState(StateAuthenticated)
	metricRooms.Set(float64(r.rooms.Rooms()))
	r.logger.Info("left room",
		zap.String("conn_id", string(c.ID)),
		zap.Uint("user_id", c.UserID),
		zap.Uint("meeting_id", meetingID))
	return nil
}

// Relay forwards an offer/answer/candidate to every live connection of the
// target user. The sender identity is taken from the authenticated connection,
// never from the payload. An offline target drops the message silently.
func (r *Router) Relay(c *Conn, msgType string, targetID uint, data json.RawMessage) error {
	if !c.authenticated() {
		return ErrUnauthorized
	}
	targets := r.registry.Resolve(targetID)
	if len(targets) == 0 {
		metricDropped.Inc()
		r.logger.Debug("relay target offline",
			zap.String("type", msgType), zap.Uint("target_id", targetID))
		return nil
	}
	frame, err := protocol.Encode(msgType, &protocol.ForwardPayload{From: c.UserID, Data: data})
	if err != nil {
		return err
	}
	for _, t := range targets {
		if t.trySend(frame) {
			metricRelayed.WithLabelValues(msgType).Inc()
		}
	}
	return nil
}

// Chat broadcasts a chat line to the other members of the sender's room and
// persists it best-effort.
func (r *Router) Chat(c *Conn, content string) error {
	if !c.authenticated() {
		return ErrUnauthorized
	}
	key, ok := r.rooms.RoomOf(c.ID)
	if !ok {
		return ErrNotInRoom
	}
	r.broadcast(key, c.ID, constants.MsgChat, &protocol.ChatPayload{From: c.UserID, Content: content})
	if r.chats != nil {
		if err := r.chats.SaveMessage(meetingIDFromKey(key), c.UserID, content); err != nil {
			r.logger.Warn("chat persistence failed",
				zap.Uint("user_id", c.UserID), zap.Error(err))
		}
	}
	return nil
}

// Teardown runs the full disconnect path: room removal with the same
// notification as an explicit leave, then unregistration. It runs exactly
// once per connection and is safe for connections that never registered.
func (r *Router) Teardown(c *Conn) {
	c.teardownOnce.Do(func() {
		if key, ok := r.rooms.Remove(c.ID); ok {
			r.broadcast(key, c.ID, constants.MsgParticipantLeft, &protocol.ParticipantPayload{UserID: c.UserID})
			r.recordLeave(meetingIDFromKey(key), c.UserID)
		}
		if _, ok := r.registry.Get(c.ID); ok {
			r.registry.Unregister(c.ID)
			metricConnections.Dec()
		}
		c.closeSend()
		metricRooms.Set(float64(r.rooms.Rooms()))
		r.logger.Info("connection torn down",
			zap.String("conn_id", string(c.ID)),
			zap.Uint("user_id", c.UserID))
	})
}

// broadcast sends one frame to every member of the room except exclude. The
// member set is snapshotted first so no lock is held across sends.
func (r *Router) broadcast(roomKey string, exclude ConnID, msgType string, payload interface{}) {
	frame, err := protocol.Encode(msgType, payload)
	if err != nil {
		r.logger.Error("broadcast encode failed", zap.String("type", msgType), zap.Error(err))
		return
	}
	for _, id := range r.rooms.MembersOf(roomKey) {
		if id == exclude {
			continue
		}
		if member, ok := r.registry.Get(id); ok {
			member.trySend(frame)
		}
	}
}

func (r *Router) recordJoin(meetingID, userID uint) {
	if r.store != nil {
		if err := r.store.AddParticipant(meetingID, userID); err != nil {
			r.logger.Warn("participant bookkeeping failed",
				zap.Uint("meeting_id", meetingID), zap.Uint("user_id", userID), zap.Error(err))
		}
	}
	if r.publisher != nil {
		r.publisher.PublishJoin(meetingID, userID)
	}
}

func (r *Router) recordLeave(meetingID, userID uint) {
	if r.store != nil {
		if err := r.store.RemoveParticipant(meetingID, userID); err != nil {
			r.logger.Warn("participant bookkeeping failed",
				zap.Uint("meeting_id", meetingID), zap.Uint("user_id", userID), zap.Error(err))
		}
	}
	if r.publisher != nil {
		r.publisher.PublishLeave(meetingID, userID)
	}
}

func (r *Router) sendError(c *Conn, err error) {
	appErr := ToAppError(err)
	frame, encErr := protocol.Encode(constants.MsgError, &protocol.ErrorPayload{
		Code:    string(appErr.Code),
		Message: appErr.Message,
	})
	if encErr == nil {
		c.trySend(frame)
	}
}

func (c *Conn) authenticated() bool {
	s := c.State()
	return s == StateAuthenticated || s == StateInRoom
}

func roomKey(meetingID uint) string {
	return "meeting:" + strconv.FormatUint(uint64(meetingID), 10)
}

func meetingIDFromKey(key string) uint {
	n, _ := strconv.ParseUint(strings.TrimPrefix(key, "meeting:"), 10, 64)
	return uint(n)
}
