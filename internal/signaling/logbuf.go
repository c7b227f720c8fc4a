package signaling

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"
)

type LogEntry struct {
	TS  time.Time `json:"ts"`
	Msg string    `json:"msg"`
}

// LogBuffer keeps the most recent log lines in a fixed ring for the
// status page. It implements io.Writer so it can sit behind
// log.SetOutput / io.MultiWriter.
type LogBuffer struct {
	mu      sync.Mutex
	entries []LogEntry
	head    int
	count   int

	partial bytes.Buffer
}

func NewLogBuffer(max int) *LogBuffer {
	if max <= 0 {
		max = 500
	}
	return &LogBuffer{entries: make([]LogEntry, max)}
}

// Write implements io.Writer, splitting the stream into lines.
func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.partial.Write(p)

	for {
		data := b.partial.Bytes()
		i := bytes.IndexByte(data, '\n')
		if i == -1 {
			break
		}

		line := string(data[:i])
		b.partial.Next(i + 1)

		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		b.push(LogEntry{TS: time.Now(), Msg: line})
	}

	return len(p), nil
}

// push appends an entry, overwriting the oldest when full. Caller holds b.mu.
func (b *LogBuffer) push(e LogEntry) {
	idx := (b.head + b.count) % len(b.entries)
	b.entries[idx] = e
	if b.count == len(b.entries) {
		b.head = (b.head + 1) % len(b.entries)
	} else {
		b.count++
	}
}

// Snapshot returns the buffered entries, oldest first.
func (b *LogBuffer) Snapshot() []LogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]LogEntry, b.count)
	for i := 0; i < b.count; i++ {
		out[i] = b.entries[(b.head+i)%len(b.entries)]
	}
	return out
}

// GET /logs.json
func (b *LogBuffer) ServeLogsJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(b.Snapshot())
}
