package chatlog

import (
	"sync"
	"time"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Entry is one message of the log. Content is either a string or a structured payload
// (an element, a list of elements or a document).
type Entry struct {
	Role      Role      `json:"role"`
	Content   any       `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Log is an append-only, unbounded record of the messages exchanged with the generator.
// It is an audit trail for display and never fed back to the model. The zero value is
// ready to use.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
}

func New() *Log {
	return &Log{now: time.Now}
}

func (l *Log) Append(role Role, content any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now
	if now == nil {
		now = time.Now
	}
	l.entries = append(l.entries, Entry{Role: role, Content: content, CreatedAt: now()})
}

// Snapshot returns a copy of the entries in insertion order.
func (l *Log) Snapshot() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Reset drops every entry, as a process restart would.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}
