// Package proto defines the textual JSON frames exchanged with browser
// peers. The server interprets only a handful of types; everything else
// is an addressed envelope relayed verbatim between peers in a room.
package proto

import (
	"encoding/json"
	"errors"
	"time"
)

// Frame types the server interprets on the inbound side.
const (
	TypeDisconnect = "disconnect"
	TypePong       = "pong"
)

// Frame types the server emits.
const (
	TypeDisplayName = "display-name"
	TypePeers       = "peers"
	TypePeerJoined  = "peer-joined"
	TypePeerLeft    = "peer-left"
	TypePing        = "ping"
)

// Device describes a peer's client as parsed from its User-Agent header.
type Device struct {
	Type    string `json:"type"`
	Model   string `json:"model"`
	OS      string `json:"os"`
	Browser string `json:"browser"`
}

// DisplayIdentity is the server-assigned human-readable identity of a
// peer. DisplayName is a pure function of the peer id; DeviceName comes
// from the User-Agent header.
type DisplayIdentity struct {
	DisplayName string `json:"displayName"`
	DeviceName  string `json:"deviceName"`
	Device      Device `json:"device"`
}

// PeerInfo is the public view of a peer published to other room members.
type PeerInfo struct {
	ID           string          `json:"id"`
	Name         DisplayIdentity `json:"name"`
	RTCSupported bool            `json:"rtcSupported"`
}

var errNotObject = errors.New("frame is not a JSON object")

// Envelope is a decoded inbound frame. Fields holds every member of the
// original object as raw JSON so relayed payloads pass through untouched.
type Envelope struct {
	Type   string
	To     string
	Fields map[string]json.RawMessage
}

// ParseEnvelope decodes an inbound frame. It fails when the frame is not
// a JSON object or carries no string "type"; callers drop such frames.
func ParseEnvelope(raw []byte) (Envelope, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Envelope{}, errNotObject
	}
	env := Envelope{Fields: fields}
	if err := json.Unmarshal(fields["type"], &env.Type); err != nil || env.Type == "" {
		return Envelope{}, errors.New("missing type")
	}
	if rawTo, ok := fields["to"]; ok {
		// Non-string "to" stays empty and the router drops the frame.
		_ = json.Unmarshal(rawTo, &env.To)
	}
	return env, nil
}

// RewriteRelay produces the relayed form of an envelope: the "to" field
// is stripped and the verified sender id is injected, overwriting any
// sender the client may have spoofed. All other fields pass through.
func RewriteRelay(env Envelope, sender string) ([]byte, error) {
	out := make(map[string]json.RawMessage, len(env.Fields))
	for k, v := range env.Fields {
		if k == "to" || k == "sender" {
			continue
		}
		out[k] = v
	}
	quoted, err := json.Marshal(sender)
	if err != nil {
		return nil, err
	}
	out["sender"] = quoted
	return json.Marshal(out)
}

// MarshalDisplayName builds the display-name frame sent to a newcomer.
// The payload field is named "message" for wire compatibility with the
// browser client.
func MarshalDisplayName(name DisplayIdentity) []byte {
	b, _ := json.Marshal(struct {
		Type    string `json:"type"`
		Message struct {
			DisplayName string `json:"displayName"`
			DeviceName  string `json:"deviceName"`
		} `json:"message"`
	}{
		Type: TypeDisplayName,
		Message: struct {
			DisplayName string `json:"displayName"`
			DeviceName  string `json:"deviceName"`
		}{name.DisplayName, name.DeviceName},
	})
	return b
}

// MarshalPeers builds the roster frame sent to a newcomer.
func MarshalPeers(peers []PeerInfo) []byte {
	if peers == nil {
		peers = []PeerInfo{}
	}
	b, _ := json.Marshal(struct {
		Type  string     `json:"type"`
		Peers []PeerInfo `json:"peers"`
	}{TypePeers, peers})
	return b
}

// MarshalPeerJoined builds the announcement sent to existing room members.
func MarshalPeerJoined(peer PeerInfo) []byte {
	b, _ := json.Marshal(struct {
		Type string   `json:"type"`
		Peer PeerInfo `json:"peer"`
	}{TypePeerJoined, peer})
	return b
}

// MarshalPeerLeft builds the departure notice sent to surviving members.
func MarshalPeerLeft(peerID string) []byte {
	b, _ := json.Marshal(struct {
		Type   string `json:"type"`
		PeerID string `json:"peerId"`
	}{TypePeerLeft, peerID})
	return b
}

// MarshalPing builds the keepalive probe.
func MarshalPing() []byte {
	b, _ := json.Marshal(struct {
		Type string `json:"type"`
	}{TypePing})
	return b
}

func NowMillis() int64 { return time.Now().UnixMilli() }
