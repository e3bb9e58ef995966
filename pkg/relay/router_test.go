package relay

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/LingByte/LingMeetX/pkg/constants"
	"github.com/LingByte/LingMeetX/pkg/protocol"
	"go.uber.org/zap"
)

type participantCall struct {
	MeetingID uint
	UserID    uint
}

type fakeStore struct {
	mu      sync.Mutex
	added   []participantCall
	removed []participantCall
	fail    bool
}

func (f *fakeStore) AddParticipant(meetingID, userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return ErrInvalidMessage
	}
	f.added = append(f.added, participantCall{meetingID, userID})
	return nil
}

func (f *fakeStore) RemoveParticipant(meetingID, userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return ErrInvalidMessage
	}
	f.removed = append(f.removed, participantCall{meetingID, userID})
	return nil
}

func newTestRouter(store ParticipantStore) *Router {
	return NewRouter(NewRegistry(), NewRoomTable(), store, zap.NewNop())
}

func attach(t *testing.T, r *Router, userID uint) *Conn {
	t.Helper()
	c := NewConn(userID)
	if err := r.Attach(c); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	return c
}

// recv pops one buffered frame, failing the test if none is pending.
func recv(t *testing.T, c *Conn) *protocol.Envelope {
	t.Helper()
	select {
	case frame, ok := <-c.send:
		if !ok {
			t.Fatal("Outbound channel closed")
		}
		env, err := protocol.Decode(frame)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		return env
	default:
		t.Fatal("Expected a pending frame, found none")
		return nil
	}
}

func assertNoFrame(t *testing.T, c *Conn) {
	t.Helper()
	select {
	case frame, ok := <-c.send:
		if ok {
			env, _ := protocol.Decode(frame)
			t.Fatalf("Expected no frame, got %q", env.Type)
		}
	default:
	}
}

func drain(c *Conn) {
	for {
		select {
		case <-c.send:
		default:
			return
		}
	}
}

func TestJoinNotifiesExistingMembers(t *testing.T) {
	store := &fakeStore{}
	r := newTestRouter(store)
	a := attach(t, r, 1)
	b := attach(t, r, 2)

	if err := r.Join(a, 42); err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	// Nobody else in the room yet: no notification anywhere.
	assertNoFrame(t, a)

	if err := r.Join(b, 42); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	env := recv(t, a)
	if env.Type != constants.MsgParticipantJoined {
		t.Fatalf("Expected participantJoined, got %q", env.Type)
	}
	var p protocol.ParticipantPayload
	if err := protocol.DecodePayload(env, &p); err != nil {
		t.Fatalf("DecodePayload failed: %v", err)
	}
	if p.UserID != 2 {
		t.Errorf("Expected userId 2, got %d", p.UserID)
	}
	// The joiner is excluded from its own notification.
	assertNoFrame(t, b)

	if len(store.added) != 2 || store.added[1] != (participantCall{42, 2}) {
		t.Errorf("Unexpected participant records: %+v", store.added)
	}
}

func TestOfferAnswerRoundTrip(t *testing.T) {
	r := newTestRouter(&fakeStore{})
	a := attach(t, r, 1)
	b := attach(t, r, 2)
	if err := r.Join(a, 42); err != nil {
		t.Fatal(err)
	}
	if err := r.Join(b, 42); err != nil {
		t.Fatal(err)
	}
	drain(a)
	drain(b)

	offer := json.RawMessage(`{"sdp":"v=0 offer-x"}`)
	if err := r.Relay(a, constants.MsgOffer, 2, offer); err != nil {
		t.Fatalf("Relay failed: %v", err)
	}

	env := recv(t, b)
	if env.Type != constants.MsgOffer {
		t.Fatalf("Expected offer, got %q", env.Type)
	}
	var fwd protocol.ForwardPayload
	if err := protocol.DecodePayload(env, &fwd); err != nil {
		t.Fatal(err)
	}
	if fwd.From != 1 {
		t.Errorf("Expected from=1, got %d", fwd.From)
	}
	if string(fwd.Data) != string(offer) {
		t.Errorf("Payload altered in transit: %s", fwd.Data)
	}
	assertNoFrame(t, b) // exactly once

	answer := json.RawMessage(`{"sdp":"v=0 answer-y"}`)
	if err := r.Relay(b, constants.MsgAnswer, 1, answer); err != nil {
		t.Fatalf("Relay failed: %v", err)
	}

	env = recv(t, a)
	if env.Type != constants.MsgAnswer {
		t.Fatalf("Expected answer, got %q", env.Type)
	}
	if err := protocol.DecodePayload(env, &fwd); err != nil {
		t.Fatal(err)
	}
	if fwd.From != 2 || string(fwd.Data) != string(answer) {
		t.Errorf("Got from=%d data=%s", fwd.From, fwd.Data)
	}
}

func TestRelayToOfflineTargetDropsSilently(t *testing.T) {
	r := newTestRouter(&fakeStore{})
	a := attach(t, r, 1)

	err := r.Relay(a, constants.MsgOffer, 99, json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Offline target must not be an error, got %v", err)
	}
	assertNoFrame(t, a)
}

func TestRelayFanOutToAllDevices(t *testing.T) {
	r := newTestRouter(&fakeStore{})
	sender := attach(t, r, 1)
	tab := attach(t, r, 2)
	phone := attach(t, r, 2)

	payload := json.RawMessage(`{"candidate":"udp 1"}`)
	if err := r.Relay(sender, constants.MsgICECandidate, 2, payload); err != nil {
		t.Fatal(err)
	}

	for _, target := range []*Conn{tab, phone} {
		env := recv(t, target)
		if env.Type != constants.MsgICECandidate {
			t.Fatalf("Expected ice-candidate, got %q", env.Type)
		}
		var fwd protocol.ForwardPayload
		if err := protocol.DecodePayload(env, &fwd); err != nil {
			t.Fatal(err)
		}
		if fwd.From != 1 {
			t.Errorf("Sender identity must come from the server, got %d", fwd.From)
		}
	}
}

func TestSenderIdentityCannotBeSpoofed(t *testing.T) {
	r := newTestRouter(&fakeStore{})
	a := attach(t, r, 1)
	b := attach(t, r, 2)

	// Client claims to be user 777 inside the signal payload.
	raw, err := protocol.Encode(constants.MsgOffer, &protocol.SignalPayload{
		TargetID: 2,
		Data:     json.RawMessage(`{"from":777,"sdp":"x"}`),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := r.HandleMessage(a, raw); err != nil {
		t.Fatalf("HandleMessage failed: %v", err)
	}

	env := recv(t, b)
	var fwd protocol.ForwardPayload
	if err := protocol.DecodePayload(env, &fwd); err != nil {
		t.Fatal(err)
	}
	if fwd.From != 1 {
		t.Errorf("From must be the authenticated identity 1, got %d", fwd.From)
	}
}

func TestDisconnectNotifiesRoomExactlyOnce(t *testing.T) {
	store := &fakeStore{}
	r := newTestRouter(store)
	a := attach(t, r, 1)
	b := attach(t, r, 2)
	if err := r.Join(a, 42); err != nil {
		t.Fatal(err)
	}
	if err := r.Join(b, 42); err != nil {
		t.Fatal(err)
	}
	drain(a)

	r.Teardown(b)
	r.Teardown(b) // duplicate disconnect must be harmless

	env := recv(t, a)
	if env.Type != constants.MsgParticipantLeft {
		t.Fatalf("Expected participantLeft, got %q", env.Type)
	}
	var p protocol.ParticipantPayload
	if err := protocol.DecodePayload(env, &p); err != nil {
		t.Fatal(err)
	}
	if p.UserID != 2 {
		t.Errorf("Expected userId 2, got %d", p.UserID)
	}
	assertNoFrame(t, a)

	// Relays toward the departed user now drop silently.
	if err := r.Relay(a, constants.MsgOffer, 2, json.RawMessage(`{}`)); err != nil {
		t.Fatalf("Relay after disconnect must not error, got %v", err)
	}

	if len(store.removed) != 1 || store.removed[0] != (participantCall{42, 2}) {
		t.Errorf("Expected one departure record, got %+v", store.removed)
	}
}

func TestTeardownOfUnregisteredConnIsSafe(t *testing.T) {
	r := newTestRouter(&fakeStore{})
	c := NewConn(1) // never attached

	r.Teardown(c)
	r.Teardown(c)

	if c.State() != StateClosed {
		t.Errorf("Expected StateClosed, got %v", c.State())
	}
}

func TestRoomSwitchNotifiesBothRooms(t *testing.T) {
	store := &fakeStore{}
	r := newTestRouter(store)
	a := attach(t, r, 1)
	b := attach(t, r, 2)
	c := attach(t, r, 3)
	if err := r.Join(a, 1); err != nil {
		t.Fatal(err)
	}
	if err := r.Join(b, 1); err != nil {
		t.Fatal(err)
	}
	if err := r.Join(c, 2); err != nil {
		t.Fatal(err)
	}
	drain(a)

	// b switches from meeting 1 to meeting 2.
	if err := r.Join(b, 2); err != nil {
		t.Fatal(err)
	}

	env := recv(t, a)
	if env.Type != constants.MsgParticipantLeft {
		t.Errorf("Old room should see participantLeft, got %q", env.Type)
	}
	env = recv(t, c)
	if env.Type != constants.MsgParticipantJoined {
		t.Errorf("New room should see participantJoined, got %q", env.Type)
	}

	want := []participantCall{{1, 2}, {2, 2}}
	if store.removed[len(store.removed)-1] != want[0] {
		t.Errorf("Expected departure from meeting 1, got %+v", store.removed)
	}
	if store.added[len(store.added)-1] != want[1] {
		t.Errorf("Expected join into meeting 2, got %+v", store.added)
	}
}

func TestUnauthenticatedOperationsRejected(t *testing.T) {
	r := newTestRouter(&fakeStore{})
	c := NewConn(1) // StateConnecting: never attached

	if err := r.Join(c, 42); err != ErrUnauthorized {
		t.Errorf("Join: expected ErrUnauthorized, got %v", err)
	}
	if err := r.Relay(c, constants.MsgOffer, 2, nil); err != ErrUnauthorized {
		t.Errorf("Relay: expected ErrUnauthorized, got %v", err)
	}

	// Through the dispatch path an Unauthorized op is fatal.
	raw, _ := protocol.Encode(constants.MsgJoin, &protocol.JoinPayload{RoomID: 42})
	if err := r.HandleMessage(c, raw); err == nil {
		t.Error("HandleMessage should report a fatal error for unauthenticated join")
	}
}

func TestStoreFailureDoesNotBlockSignaling(t *testing.T) {
	store := &fakeStore{fail: true}
	r := newTestRouter(store)
	a := attach(t, r, 1)
	b := attach(t, r, 2)

	if err := r.Join(a, 42); err != nil {
		t.Fatalf("Join must survive store failure, got %v", err)
	}
	if err := r.Join(b, 42); err != nil {
		t.Fatalf("Join must survive store failure, got %v", err)
	}
	// The notification still went out.
	env := recv(t, a)
	if env.Type != constants.MsgParticipantJoined {
		t.Errorf("Expected participantJoined, got %q", env.Type)
	}
}

func TestChatBroadcastAndPersistence(t *testing.T) {
	r := newTestRouter(&fakeStore{})
	var saved []string
	r.SetChatSink(chatSinkFunc(func(meetingID, userID uint, content string) error {
		saved = append(saved, content)
		return nil
	}))
	a := attach(t, r, 1)
	b := attach(t, r, 2)
	if err := r.Join(a, 42); err != nil {
		t.Fatal(err)
	}
	if err := r.Join(b, 42); err != nil {
		t.Fatal(err)
	}
	drain(a)

	if err := r.Chat(a, "hello room"); err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	env := recv(t, b)
	if env.Type != constants.MsgChat {
		t.Fatalf("Expected chat, got %q", env.Type)
	}
	var p protocol.ChatPayload
	if err := protocol.DecodePayload(env, &p); err != nil {
		t.Fatal(err)
	}
	if p.From != 1 || p.Content != "hello room" {
		t.Errorf("Got from=%d content=%q", p.From, p.Content)
	}
	if len(saved) != 1 || saved[0] != "hello room" {
		t.Errorf("Chat should be persisted, got %v", saved)
	}

	// Chat outside a room is rejected but not fatal.
	idle := attach(t, r, 3)
	raw, _ := protocol.Encode(constants.MsgChat, &protocol.ChatPayload{Content: "nope"})
	if err := r.HandleMessage(idle, raw); err != nil {
		t.Errorf("Chat outside a room should not close the connection, got %v", err)
	}
	env = recv(t, idle)
	if env.Type != constants.MsgError {
		t.Errorf("Expected error envelope, got %q", env.Type)
	}
}

type chatSinkFunc func(meetingID, userID uint, content string) error

func (f chatSinkFunc) SaveMessage(meetingID, userID uint, content string) error {
	return f(meetingID, userID, content)
}
