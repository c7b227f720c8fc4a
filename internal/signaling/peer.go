package signaling

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/driftdrop/driftdrop/internal/proto"
)

// outboundQueueSize bounds the per-session send queue. Frames beyond it
// are dropped rather than buffered without limit.
const outboundQueueSize = 64

// Peer owns one live websocket session: its identity, capability flag,
// room key, heartbeat, and the serialized write side of the connection.
// id, name, rtcSupported and roomKey are immutable after creation.
type Peer struct {
	id           string
	name         proto.DisplayIdentity
	rtcSupported bool
	roomKey      string
	joinedAt     time.Time

	conn *websocket.Conn
	out  chan []byte

	mu       sync.Mutex
	lastBeat time.Time

	done      chan struct{}
	closeOnce sync.Once
}

func newPeer(id string, name proto.DisplayIdentity, rtcSupported bool, roomKey string, conn *websocket.Conn) *Peer {
	now := time.Now()
	return &Peer{
		id:           id,
		name:         name,
		rtcSupported: rtcSupported,
		roomKey:      roomKey,
		joinedAt:     now,
		conn:         conn,
		out:          make(chan []byte, outboundQueueSize),
		lastBeat:     now,
		done:         make(chan struct{}),
	}
}

// Info returns the public view of this peer published to room members.
func (p *Peer) Info() proto.PeerInfo {
	return proto.PeerInfo{
		ID:           p.id,
		Name:         p.name,
		RTCSupported: p.rtcSupported,
	}
}

// Send queues a frame for delivery. A closed or backlogged session drops
// the frame and reports false; delivery is best effort and never blocks
// or fails upward.
func (p *Peer) Send(frame []byte) bool {
	select {
	case <-p.done:
		return false
	default:
	}
	select {
	case p.out <- frame:
		return true
	default:
		// slow client; drop rather than queue without bound
		return false
	}
}

// touch refreshes the heartbeat. Called by the router on pong.
func (p *Peer) touch() {
	p.mu.Lock()
	p.lastBeat = time.Now()
	p.mu.Unlock()
}

func (p *Peer) beat() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastBeat
}

// close cancels keepalive, stops the writer and tears down the
// transport. Safe to call from any teardown path, any number of times.
func (p *Peer) close() {
	p.closeOnce.Do(func() {
		close(p.done)
		if p.conn != nil {
			_ = p.conn.Close()
		}
	})
}

// writePump serializes all writes to the connection so concurrent
// announcements cannot interleave bytes on one stream. It exits when the
// session closes or a write fails; a failed write tears the session down
// so the read loop notices promptly.
func (p *Peer) writePump() {
	for {
		select {
		case <-p.done:
			return
		case frame := <-p.out:
			if err := p.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				p.close()
				return
			}
		}
	}
}

// keepalive pings the session every interval and evicts it once no pong
// has been observed within twice the interval. Leaving the room closes
// p.done, which cancels the loop.
func (p *Peer) keepalive(interval time.Duration, evict func(*Peer)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			if time.Since(p.beat()) > 2*interval {
				evict(p)
				return
			}
			p.Send(proto.MarshalPing())
		}
	}
}
