// Package logentry defines the log record shared by sources, the filter engine,
// the session and the UI.
package logentry

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Level is the ordinal severity of an entry. Raw values match the platform
// log store so records exported from it keep their meaning.
type Level int

const (
	LevelUndefined Level = iota
	LevelDebug
	LevelInfo
	LevelNotice
	LevelError
	LevelFault
)

// Levels lists every known level in ordinal order.
var Levels = []Level{LevelDebug, LevelInfo, LevelNotice, LevelError, LevelFault}

// String returns the level label. Unknown ordinals render as "".
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelNotice:
		return "notice"
	case LevelError:
		return "error"
	case LevelFault:
		return "fault"
	default:
		return ""
	}
}

// ParseLevel converts a label or a numeric ordinal into a Level.
// Common aliases from other loggers are accepted; anything else is undefined.
func ParseLevel(s string) Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		return Level(n)
	}
	switch s {
	case "debug", "trace":
		return LevelDebug
	case "info":
		return LevelInfo
	case "notice", "warn", "warning":
		return LevelNotice
	case "error", "err":
		return LevelError
	case "fault", "fatal", "panic", "critical":
		return LevelFault
	default:
		return LevelUndefined
	}
}

// UnmarshalJSON accepts both "error" and 4.
func (l *Level) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*l = Level(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("level: %w", err)
	}
	*l = ParseLevel(s)
	return nil
}

// MarshalJSON writes the label, or the ordinal when it has no label.
func (l Level) MarshalJSON() ([]byte, error) {
	if label := l.String(); label != "" {
		return json.Marshal(label)
	}
	return json.Marshal(int(l))
}

// Entry is a single log record. Entries are produced by a source and never mutated.
type Entry struct {
	Time      time.Time `json:"time"`
	Level     Level     `json:"level"`
	Category  string    `json:"category"`
	Subsystem string    `json:"subsystem"`
	Sender    string    `json:"sender"`
	Message   string    `json:"message"`
}

// record is the wire form of an entry; it tolerates the field names of other
// structured loggers.
type record struct {
	Time      string          `json:"time"`
	TS        string          `json:"ts"`
	Timestamp string          `json:"timestamp"`
	Date      string          `json:"date"`
	Level     json.RawMessage `json:"level"`
	Category  string          `json:"category"`
	Subsystem string          `json:"subsystem"`
	Sender    string          `json:"sender"`
	Message   string          `json:"message"`
	Msg       string          `json:"msg"`
	Composed  string          `json:"composedMessage"`
}

// Decode parses one JSON record. Records without a parseable timestamp are rejected
// since the high-water mark depends on it.
func Decode(data []byte) (Entry, error) {
	var raw record
	if err := json.Unmarshal(data, &raw); err != nil {
		return Entry{}, fmt.Errorf("decode entry: %w", err)
	}
	ts := ParseTime(firstNonEmpty(raw.Time, raw.TS, raw.Timestamp, raw.Date))
	if ts.IsZero() {
		return Entry{}, fmt.Errorf("decode entry: missing or invalid timestamp")
	}
	entry := Entry{
		Time:      ts,
		Category:  raw.Category,
		Subsystem: raw.Subsystem,
		Sender:    raw.Sender,
		Message:   firstNonEmpty(raw.Composed, raw.Message, raw.Msg),
	}
	if len(raw.Level) > 0 {
		if err := entry.Level.UnmarshalJSON(raw.Level); err != nil {
			return Entry{}, fmt.Errorf("decode entry: %w", err)
		}
	}
	return entry, nil
}

const localTimestampLayout = "2006-01-02 15:04:05.000"

// ParseTime returns the timestamp as time.Time when possible.
func ParseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	for _, layout := range []string{localTimestampLayout, time.DateTime} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

// TimeString formats the entry time as HH:MM:SS.mmm in local time.
func (e Entry) TimeString() string {
	return e.Time.In(time.Local).Format("15:04:05.000")
}

// ShareText renders the entry in the plain-text export format:
//
//	time|category|subsystem
//	message
//	sender|level
func (e Entry) ShareText() string {
	return fmt.Sprintf("%s|%s|%s\n%s\n%s|%s",
		e.TimeString(), e.Category, e.Subsystem, e.Message, e.Sender, e.Level)
}

// SameGroup reports whether two entries share subsystem, sender and category.
// Consecutive entries in the same group are rendered without repeating the header.
func SameGroup(a, b Entry) bool {
	return a.Subsystem == b.Subsystem && a.Sender == b.Sender && a.Category == b.Category
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
