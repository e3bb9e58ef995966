package protocol

import (
	"encoding/json"

	"github.com/bytedance/sonic"
)

// Envelope is the frame exchanged over the meeting WebSocket. Payload carries
// the type-specific body and is never interpreted by the relay for SDP/ICE
// traffic.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// JoinPayload asks to join a meeting room
type JoinPayload struct {
	RoomID uint `json:"roomId"`
}

// LeavePayload asks to leave a meeting room
type LeavePayload struct {
	RoomID uint `json:"roomId"`
}

// SignalPayload carries an offer, answer, or ICE candidate toward a target
// user. Data is the opaque SDP/candidate body.
type SignalPayload struct {
	TargetID uint            `json:"targetId"`
	Data     json.RawMessage `json:"data"`
}

// ForwardPayload is the relayed form of SignalPayload. From is attached by
// the server from the sender's authenticated identity.
type ForwardPayload struct {
	From uint            `json:"from"`
	Data json.RawMessage `json:"data"`
}

// ParticipantPayload announces a join or leave to the rest of a room
type ParticipantPayload struct {
	UserID uint `json:"userId"`
}

// ChatPayload is an in-room chat line
type ChatPayload struct {
	From    uint   `json:"from,omitempty"`
	Content string `json:"content"`
}

// ErrorPayload reports a protocol-level failure to the client before the
// connection is closed.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Encode marshals an envelope with the given type and payload body.
func Encode(msgType string, payload interface{}) ([]byte, error) {
	body, err := sonic.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return sonic.Marshal(&Envelope{Type: msgType, Payload: body})
}

// Decode unmarshals a raw frame into an envelope.
func Decode(data []byte) (*Envelope, error) {
	var env Envelope
	if err := sonic.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// DecodePayload unmarshals an envelope payload into dst.
func DecodePayload(env *Envelope, dst interface{}) error {
	return sonic.Unmarshal(env.Payload, dst)
}
