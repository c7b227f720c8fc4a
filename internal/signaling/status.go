package signaling

import (
	"encoding/json"
	"html/template"
	"net/http"
	"sort"
	"time"

	"github.com/driftdrop/driftdrop/internal/proto"
)

// PeerRow is the status-page view of one session.
type PeerRow struct {
	ID           string `json:"id"`
	DisplayName  string `json:"display_name"`
	DeviceName   string `json:"device_name"`
	RTCSupported bool   `json:"rtc_supported"`
	Room         string `json:"room"`
	JoinedAt     int64  `json:"joined_at"`
	LastBeat     int64  `json:"last_beat"`
}

type indexVM struct {
	Title     string
	RoomCount int
	PeerCount int
	Peers     []PeerRow
	Now       string
}

var statusTmpl = template.Must(template.New("status").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: 0.3rem 0.6rem; text-align: left; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>{{.PeerCount}} peer(s) in {{.RoomCount}} room(s) &mdash; {{.Now}}</p>
<table>
<tr><th>Name</th><th>Device</th><th>Room</th><th>WebRTC</th><th>Peer ID</th></tr>
{{range .Peers}}<tr><td>{{.DisplayName}}</td><td>{{.DeviceName}}</td><td>{{.Room}}</td><td>{{if .RTCSupported}}yes{{else}}no{{end}}</td><td>{{.ID}}</td></tr>
{{end}}</table>
</body>
</html>
`))

// peerRows snapshots the registry for the status surface, sorted by
// room then join time.
func (s *Server) peerRows() []PeerRow {
	peers := s.rooms.All()
	rows := make([]PeerRow, 0, len(peers))
	for _, p := range peers {
		rows = append(rows, PeerRow{
			ID:           p.id,
			DisplayName:  p.name.DisplayName,
			DeviceName:   p.name.DeviceName,
			RTCSupported: p.rtcSupported,
			Room:         p.roomKey,
			JoinedAt:     p.joinedAt.UnixMilli(),
			LastBeat:     p.beat().UnixMilli(),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Room != rows[j].Room {
			return rows[i].Room < rows[j].Room
		}
		return rows[i].JoinedAt < rows[j].JoinedAt
	})
	return rows
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rows := s.peerRows()
	roomCount, peerCount := s.rooms.Counts()
	vm := indexVM{
		Title:     "driftdrop",
		RoomCount: roomCount,
		PeerCount: peerCount,
		Peers:     rows,
		Now:       time.UnixMilli(proto.NowMillis()).Format("2006-01-02 15:04:05"),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = statusTmpl.Execute(w, vm)
}

func (s *Server) handlePeersJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(s.peerRows())
}
