package order

import (
	"strings"
	"time"

	"driverdesk/internal/core/domain/model/kernel"
)

const (
	logEntrySeparator = " | "
	logTimeSeparator  = " @ "
)

// StatusLog is the append-only audit trail "<label> @ <YYYY-MM-DD HH:MM:SS>".
// The zero value is an empty log.
type StatusLog struct {
	entries []string
}

// ParseStatusLog splits a persisted log. Blank segments are dropped.
func ParseStatusLog(raw string) StatusLog {
	var entries []string
	for _, part := range strings.Split(raw, "|") {
		if part = strings.TrimSpace(part); part != "" {
			entries = append(entries, part)
		}
	}
	return StatusLog{entries: entries}
}

// Append returns a log with one more entry.
func (l StatusLog) Append(label string, at time.Time) StatusLog {
	entries := make([]string, len(l.entries), len(l.entries)+1)
	copy(entries, l.entries)
	entries = append(entries, label+logTimeSeparator+kernel.FormatTimestamp(at))
	return StatusLog{entries: entries}
}

// Entries returns a copy of the entries, oldest first.
func (l StatusLog) Entries() []string {
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l StatusLog) Len() int {
	return len(l.entries)
}

// String is the persisted form.
func (l StatusLog) String() string {
	return strings.Join(l.entries, logEntrySeparator)
}

// LastChangedAt parses the timestamp of the newest entry.
// ok is false for an empty log or an unparseable tail.
func (l StatusLog) LastChangedAt(loc *time.Location) (time.Time, bool) {
	if len(l.entries) == 0 {
		return time.Time{}, false
	}
	last := l.entries[len(l.entries)-1]
	idx := strings.LastIndex(last, "@")
	if idx < 0 {
		return time.Time{}, false
	}
	at, err := kernel.ParseTimestamp(last[idx+1:], loc)
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}
