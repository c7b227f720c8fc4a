// internal/signaling/server.go
package signaling

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/driftdrop/driftdrop/internal/config"
	"github.com/driftdrop/driftdrop/internal/identity"
	"github.com/driftdrop/driftdrop/internal/proto"
	"github.com/driftdrop/driftdrop/internal/util"
)

// cookieName carries the stable peer identifier across reconnects.
const cookieName = "peerid"

type Server struct {
	cfg  config.Config
	srv  *http.Server
	addr string // actual bound address, known after Start

	rooms   *Rooms
	metrics *Metrics
	logs    *LogBuffer

	upgrader websocket.Upgrader

	// per-IP rate limiter for connection attempts
	rateMu     sync.Mutex
	rateWindow map[string]*rateBucket
}

// rateBucket is a fixed-size ring buffer of timestamps for rate limiting.
// Avoids per-request slice allocations.
type rateBucket struct {
	times []time.Time
	head  int
	count int
}

// expire drops timestamps that fell out of the window.
func (b *rateBucket) expire(cutoff time.Time) {
	for b.count > 0 && b.times[b.head].Before(cutoff) {
		b.head = (b.head + 1) % len(b.times)
		b.count--
	}
}

// rateSweepInterval is how often stale per-IP buckets are reaped.
const rateSweepInterval = 5 * time.Second

func New(cfg config.Config) *Server {
	return &Server{
		cfg:     cfg,
		rooms:   NewRooms(),
		metrics: NewMetrics(),
		logs:    NewLogBuffer(500),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Browser peers arrive from whatever origin the deployer
			// serves the app on (LAN IP, hostname, reverse proxy).
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		rateWindow: map[string]*rateBucket{},
	}
}

// Logs exposes the ring buffer so main can tee stdlib log into it.
func (s *Server) Logs() *LogBuffer { return s.logs }

// Stats exposes the collectors, mainly for tests.
func (s *Server) Stats() *Metrics { return s.metrics }

func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()

	// Upgrade endpoints. The two paths differ only in the capability
	// bit surfaced to other peers; everything downstream is shared.
	mux.HandleFunc("/server/webrtc", func(w http.ResponseWriter, r *http.Request) {
		s.handleUpgrade(w, r, true)
	})
	mux.HandleFunc("/server/fallback", func(w http.ResponseWriter, r *http.Request) {
		s.handleUpgrade(w, r, false)
	})

	// Observability surface. Read-only; never mutates registry state.
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/peers.json", s.handlePeersJSON)
	mux.HandleFunc("/logs.json", s.logs.ServeLogsJSON)
	mux.Handle("/metrics", s.metrics.Handler())

	s.srv = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return err
	}
	s.addr = ln.Addr().String()

	// Stop server when ctx ends. Shutdown does not close hijacked
	// websocket connections, so tear the sessions down explicitly.
	go func() {
		<-ctx.Done()
		s.closeAll()
		shctx, cancel := context.WithTimeout(context.Background(), util.ShutdownTimeout)
		defer cancel()
		_ = s.srv.Shutdown(shctx)
	}()

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("signaling server error: %v", err)
		}
	}()

	go s.rateSweeper(ctx)

	return nil
}

func (s *Server) URL() string {
	return "http://" + s.addr
}

// Addr returns the bound listen address.
func (s *Server) Addr() string { return s.addr }

// handleUpgrade performs the handshake: adopt or mint the peer id
// cookie, resolve the room key, build the display identity, then hand
// the session to the lifecycle path.
func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request, rtcSupported bool) {
	ip := extractIP(r.RemoteAddr)
	if !s.allowConnect(ip) {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		return
	}

	id := ""
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		id = c.Value
	}

	var respHeader http.Header
	if id == "" {
		id = identity.MintPeerID()
		cookie := &http.Cookie{
			Name:     cookieName,
			Value:    id,
			SameSite: http.SameSiteStrictMode,
			Secure:   true,
		}
		respHeader = http.Header{}
		respHeader.Add("Set-Cookie", cookie.String())
	}

	room := roomKey(r)
	name := identity.FromUserAgent(id, r.UserAgent())

	conn, err := s.upgrader.Upgrade(w, r, respHeader)
	if err != nil {
		// Upgrader has already written the error response.
		log.Printf("signaling: upgrade from %s failed: %v", ip, err)
		return
	}
	conn.SetReadLimit(s.cfg.Limits.MaxFrameBytes)

	p := newPeer(id, name, rtcSupported, room, conn)
	s.metrics.ConnectsTotal.Inc()

	s.connect(p)

	go p.writePump()
	go p.keepalive(s.pingInterval(), s.evict)

	// The read loop runs on the handler goroutine and returns on
	// disconnect, transport error, or eviction.
	s.readLoop(p)
}

func (s *Server) pingInterval() time.Duration {
	return time.Duration(s.cfg.Keepalive.PingIntervalSec) * time.Second
}

// connect joins the session and announces it. The announcement order is
// load-bearing for the browser state machine: existing peers hear
// peer-joined before the newcomer gets its roster, so the newcomer never
// sees a peer-joined about itself.
func (s *Server) connect(p *Peer) {
	s.rooms.Join(p, func(others []*Peer) {
		joined := proto.MarshalPeerJoined(p.Info())
		infos := make([]proto.PeerInfo, 0, len(others))
		for _, q := range others {
			q.Send(joined)
			infos = append(infos, q.Info())
		}
		p.Send(proto.MarshalPeers(infos))
		p.Send(proto.MarshalDisplayName(p.name))
	})
	s.syncGauges()
	log.Printf("signaling: %q (%s) joined room %s", p.name.DisplayName, p.id, p.roomKey)
}

// leave runs the disconnect path. Idempotent: only the first caller per
// session notifies survivors; every caller ensures the transport is
// torn down.
func (s *Server) leave(p *Peer) {
	removed := s.rooms.Leave(p, func(survivors []*Peer) {
		left := proto.MarshalPeerLeft(p.id)
		for _, q := range survivors {
			q.Send(left)
		}
	})
	p.close()
	if !removed {
		return
	}
	s.syncGauges()
	log.Printf("signaling: %q (%s) left room %s", p.name.DisplayName, p.id, p.roomKey)
}

// evict is the keepalive scheduler's teardown hook.
func (s *Server) evict(p *Peer) {
	log.Printf("signaling: evicting silent peer %q (%s)", p.name.DisplayName, p.id)
	s.metrics.EvictionsTotal.Inc()
	s.leave(p)
}

// readLoop reads frames sequentially from the session's transport and
// dispatches them by type. Any read error runs the disconnect path.
func (s *Server) readLoop(p *Peer) {
	defer s.leave(p)

	for {
		_, raw, err := p.conn.ReadMessage()
		if err != nil {
			return
		}

		env, err := proto.ParseEnvelope(raw)
		if err != nil {
			s.metrics.Dropped("malformed")
			continue
		}

		switch env.Type {
		case proto.TypeDisconnect:
			return
		case proto.TypePong:
			p.touch()
		default:
			s.relay(p, env)
		}
	}
}

// relay forwards an addressed envelope to the named recipient in the
// sender's room, stripping "to" and injecting the verified sender id.
// A client-supplied sender field is never trusted.
func (s *Server) relay(p *Peer, env proto.Envelope) {
	if env.To == "" {
		s.metrics.Dropped("unaddressed")
		return
	}
	target := s.rooms.Lookup(p.roomKey, env.To)
	if target == nil {
		s.metrics.Dropped("unknown-recipient")
		return
	}
	frame, err := proto.RewriteRelay(env, p.id)
	if err != nil {
		s.metrics.Dropped("malformed")
		return
	}
	if target.Send(frame) {
		s.metrics.RelayedFramesTotal.Inc()
	} else {
		s.metrics.Dropped("backlogged")
	}
}

// closeAll tears down every session, e.g. on shutdown.
func (s *Server) closeAll() {
	for _, p := range s.rooms.All() {
		s.leave(p)
	}
}

func (s *Server) syncGauges() {
	rooms, peers := s.rooms.Counts()
	s.metrics.Rooms.Set(float64(rooms))
	s.metrics.Peers.Set(float64(peers))
}

// allowConnect applies the per-IP fixed-window connection rate limit.
func (s *Server) allowConnect(ip string) bool {
	now := time.Now()
	cutoff := now.Add(-time.Minute)

	s.rateMu.Lock()
	defer s.rateMu.Unlock()

	b := s.rateWindow[ip]
	if b == nil {
		b = &rateBucket{times: make([]time.Time, s.cfg.Limits.ConnectsPerMinute)}
		s.rateWindow[ip] = b
	}
	b.expire(cutoff)

	if b.count >= len(b.times) {
		return false
	}
	b.times[(b.head+b.count)%len(b.times)] = now
	b.count++
	return true
}

// rateSweeper periodically reaps rate-limit buckets whose window has
// fully expired, so the table does not grow with every address ever
// seen.
func (s *Server) rateSweeper(ctx context.Context) {
	ticker := time.NewTicker(rateSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepRateWindow(time.Now())
		}
	}
}

func (s *Server) sweepRateWindow(now time.Time) {
	cutoff := now.Add(-time.Minute)

	s.rateMu.Lock()
	defer s.rateMu.Unlock()

	for ip, b := range s.rateWindow {
		b.expire(cutoff)
		if b.count == 0 {
			delete(s.rateWindow, ip)
		}
	}
}

// roomKey resolves the address peers are grouped by. Behind a proxy the
// first X-Forwarded-For element identifies the client; otherwise the
// transport remote address does. Loopback variants collapse to
// 127.0.0.1 so local v4 and v6 clients land in the same room.
func roomKey(r *http.Request) string {
	addr := ""
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		addr = strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	} else {
		addr = extractIP(r.RemoteAddr)
	}
	if addr == "::1" || addr == "::ffff:127.0.0.1" {
		addr = "127.0.0.1"
	}
	return addr
}

// extractIP returns the IP portion of a host:port address.
func extractIP(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
