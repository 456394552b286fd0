package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"hbs/src/config"
	"strconv"
	"strings"
	"time"
)

var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	config.TIME_PARSE_FORMAT,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseInstant accepts epoch milliseconds or an ISO-8601 timestamp. Layouts without an
// offset are read as UTC. The result is UTC truncated to milliseconds.
func ParseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return FromMillis(ms), nil
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Normalize(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

func Normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// Millis is the wire form of every timestamp the API emits.
func Millis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func MillisPtr(t *time.Time) *int64 {
	if t == nil || t.IsZero() {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

// FlexTime decodes from a JSON number (epoch ms) or a JSON string.
type FlexTime struct {
	time.Time
}

func (f *FlexTime) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var raw string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
	} else {
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		raw = n.String()
	}
	t, err := ParseInstant(raw)
	if err != nil {
		return err
	}
	f.Time = t
	return nil
}

func (f FlexTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(Millis(f.Time))
}
