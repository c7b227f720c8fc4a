package proto

import (
	"encoding/json"
	"testing"
)

func TestParseEnvelope(t *testing.T) {
	t.Run("addressed frame", func(t *testing.T) {
		env, err := ParseEnvelope([]byte(`{"type":"signal","to":"peer-1","sdp":"v=0"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if env.Type != "signal" {
			t.Errorf("type = %q, want signal", env.Type)
		}
		if env.To != "peer-1" {
			t.Errorf("to = %q, want peer-1", env.To)
		}
		if _, ok := env.Fields["sdp"]; !ok {
			t.Error("payload field lost during parse")
		}
	})

	t.Run("bare frame", func(t *testing.T) {
		env, err := ParseEnvelope([]byte(`{"type":"pong"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if env.Type != TypePong || env.To != "" {
			t.Errorf("got %+v", env)
		}
	})

	t.Run("non-object", func(t *testing.T) {
		for _, raw := range []string{`[1,2]`, `"text"`, `42`, `not json`} {
			if _, err := ParseEnvelope([]byte(raw)); err == nil {
				t.Errorf("ParseEnvelope(%q) accepted a non-object", raw)
			}
		}
	})

	t.Run("missing type", func(t *testing.T) {
		if _, err := ParseEnvelope([]byte(`{"to":"x"}`)); err == nil {
			t.Error("accepted frame without type")
		}
		if _, err := ParseEnvelope([]byte(`{"type":7}`)); err == nil {
			t.Error("accepted non-string type")
		}
	})

	t.Run("non-string to stays empty", func(t *testing.T) {
		env, err := ParseEnvelope([]byte(`{"type":"signal","to":{"id":"x"}}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if env.To != "" {
			t.Errorf("to = %q, want empty", env.To)
		}
	})
}

func TestRewriteRelay(t *testing.T) {
	env, err := ParseEnvelope([]byte(`{"type":"signal","to":"peer-a","sender":"spoofed","sdp":"v=0","ice":{"candidate":"c"}}`))
	if err != nil {
		t.Fatal(err)
	}

	frame, err := RewriteRelay(env, "real-sender")
	if err != nil {
		t.Fatal(err)
	}

	var out map[string]json.RawMessage
	if err := json.Unmarshal(frame, &out); err != nil {
		t.Fatalf("relayed frame is not valid JSON: %v", err)
	}

	if _, ok := out["to"]; ok {
		t.Error("relayed frame still carries to")
	}

	var sender string
	if err := json.Unmarshal(out["sender"], &sender); err != nil || sender != "real-sender" {
		t.Errorf("sender = %q, want real-sender", sender)
	}

	var sdp string
	if err := json.Unmarshal(out["sdp"], &sdp); err != nil || sdp != "v=0" {
		t.Error("payload field sdp not preserved")
	}
	if _, ok := out["ice"]; !ok {
		t.Error("nested payload field not preserved")
	}

	var typ string
	if err := json.Unmarshal(out["type"], &typ); err != nil || typ != "signal" {
		t.Errorf("type = %q, want signal", typ)
	}
}

func TestMarshalDisplayName(t *testing.T) {
	frame := MarshalDisplayName(DisplayIdentity{DisplayName: "Cyan Iguana", DeviceName: "Mac Chrome"})

	var out struct {
		Type    string `json:"type"`
		Message struct {
			DisplayName string `json:"displayName"`
			DeviceName  string `json:"deviceName"`
		} `json:"message"`
	}
	if err := json.Unmarshal(frame, &out); err != nil {
		t.Fatal(err)
	}
	if out.Type != TypeDisplayName {
		t.Errorf("type = %q", out.Type)
	}
	if out.Message.DisplayName != "Cyan Iguana" || out.Message.DeviceName != "Mac Chrome" {
		t.Errorf("message = %+v", out.Message)
	}
}

func TestMarshalPeersNilIsEmptyArray(t *testing.T) {
	frame := MarshalPeers(nil)

	var out struct {
		Type  string     `json:"type"`
		Peers []PeerInfo `json:"peers"`
	}
	if err := json.Unmarshal(frame, &out); err != nil {
		t.Fatal(err)
	}
	if out.Peers == nil || len(out.Peers) != 0 {
		t.Errorf("peers = %#v, want empty array", out.Peers)
	}
	// The wire form must be [], not null: older clients crash on null.
	if string(frame) == `{"type":"peers","peers":null}` {
		t.Error("nil roster serialized as null")
	}
}

func TestMarshalPeerLeft(t *testing.T) {
	var out struct {
		Type   string `json:"type"`
		PeerID string `json:"peerId"`
	}
	if err := json.Unmarshal(MarshalPeerLeft("p-1"), &out); err != nil {
		t.Fatal(err)
	}
	if out.Type != TypePeerLeft || out.PeerID != "p-1" {
		t.Errorf("got %+v", out)
	}
}
