// Package notify keeps a small in-memory feed of non-blocking notices.
// Storage failures are reported here as warnings instead of failing the
// operation that triggered them.
package notify

import (
	"sync"
	"time"
)

// Level classifies a notice.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

// Notice is one user-visible, non-fatal message.
type Notice struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

const maxNotices = 50

// Feed is a bounded, concurrency-safe notice buffer.
type Feed struct {
	mu      sync.Mutex
	notices []Notice
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{}
}

// Warn appends a warning notice.
func (f *Feed) Warn(message string) {
	f.push(Notice{Level: LevelWarning, Message: message, At: time.Now()})
}

// Info appends an informational notice.
func (f *Feed) Info(message string) {
	f.push(Notice{Level: LevelInfo, Message: message, At: time.Now()})
}

func (f *Feed) push(n Notice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, n)
	if len(f.notices) > maxNotices {
		f.notices = f.notices[len(f.notices)-maxNotices:]
	}
}

// Recent returns the buffered notices, newest last.
func (f *Feed) Recent() []Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Notice, len(f.notices))
	copy(out, f.notices)
	return out
}
