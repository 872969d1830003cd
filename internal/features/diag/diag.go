// Package diag keeps a bounded, most-recent-first log of component
// failures. Errors shown to the user are also recorded here so an admin can
// inspect what went wrong without crashing anything.
package diag

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"cs2-giveaway-backend/internal/common/logger"
)

const (
	keyDiagLog = "diag:log"
	// MaxEntries caps the log; older entries fall off the end.
	MaxEntries = 50
)

// Entry is a single recorded failure.
type Entry struct {
	Component string    `json:"component"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type Log struct {
	client redis.Cmdable
}

func NewLog(client redis.Cmdable) *Log {
	return &Log{client: client}
}

// Record pushes an entry to the front of the log and trims it to the cap.
// Recording is best effort; a failing diagnostic log never fails the caller.
func (l *Log) Record(ctx context.Context, component, message string) {
	entry := Entry{
		Component: component,
		Message:   message,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	pipe := l.client.Pipeline()
	pipe.LPush(ctx, keyDiagLog, data)
	pipe.LTrim(ctx, keyDiagLog, 0, MaxEntries-1)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to record diagnostic entry")
	}
}

// List returns the log, most recent first.
func (l *Log) List(ctx context.Context) ([]Entry, error) {
	items, err := l.client.LRange(ctx, keyDiagLog, 0, MaxEntries-1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		var entry Entry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
