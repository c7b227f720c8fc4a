package signaling

import "sync"

// Rooms is the process-wide registry mapping a room key (the peers'
// observed source address) to the live sessions in that room, keyed by
// peer id. All methods are safe for concurrent use; snapshots are
// computed under the lock so announcements see a consistent view.
type Rooms struct {
	mu    sync.Mutex
	rooms map[string]map[string]*Peer
}

func NewRooms() *Rooms {
	return &Rooms{rooms: map[string]map[string]*Peer{}}
}

// Join inserts p into its room and calls announce with the peers that
// were already there, while the registry lock is still held. Running the
// announcement under the lock guarantees a newcomer's roster frames are
// queued before any later join in the same room can be announced to it.
//
// A session reconnecting with the same peer id displaces the old entry;
// the displaced session's eventual Leave is a no-op.
func (r *Rooms) Join(p *Peer, announce func(others []*Peer)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room := r.rooms[p.roomKey]
	if room == nil {
		room = map[string]*Peer{}
		r.rooms[p.roomKey] = room
	}

	others := make([]*Peer, 0, len(room))
	for id, q := range room {
		if id != p.id {
			others = append(others, q)
		}
	}
	room[p.id] = p

	if announce != nil {
		announce(others)
	}
}

// Leave removes p from its room if this exact session is still
// registered, calling notify with the survivors under the lock. It
// returns false when p had already left or was displaced by a reconnect,
// which makes every teardown path (close, error, disconnect frame,
// keepalive eviction) idempotent.
func (r *Rooms) Leave(p *Peer, notify func(survivors []*Peer)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	room := r.rooms[p.roomKey]
	if room == nil || room[p.id] != p {
		return false
	}

	delete(room, p.id)
	if len(room) == 0 {
		delete(r.rooms, p.roomKey)
	}

	if notify != nil {
		survivors := make([]*Peer, 0, len(room))
		for _, q := range room {
			survivors = append(survivors, q)
		}
		notify(survivors)
	}
	return true
}

// Lookup returns the session with the given id in the given room, or nil.
func (r *Rooms) Lookup(roomKey, peerID string) *Peer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rooms[roomKey][peerID]
}

// Others returns every session in the room except the given peer id.
func (r *Rooms) Others(roomKey, exceptID string) []*Peer {
	r.mu.Lock()
	defer r.mu.Unlock()

	room := r.rooms[roomKey]
	out := make([]*Peer, 0, len(room))
	for id, q := range room {
		if id != exceptID {
			out = append(out, q)
		}
	}
	return out
}

// Counts returns the number of rooms and the total number of sessions.
func (r *Rooms) Counts() (rooms, peers int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, room := range r.rooms {
		peers += len(room)
	}
	return len(r.rooms), peers
}

// All returns a snapshot of every registered session.
func (r *Rooms) All() []*Peer {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Peer
	for _, room := range r.rooms {
		for _, p := range room {
			out = append(out, p)
		}
	}
	return out
}
