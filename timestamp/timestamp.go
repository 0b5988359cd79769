// Package timestamp reads the datetimes the backend writes. Records stored
// without a zone come back as "2024-05-01T12:34:56" and are taken as UTC.
package timestamp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// NaiveLayout is the zone-less form the backend uses for database timestamps
const NaiveLayout = "2006-01-02T15:04:05.999999"

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// Time is a time.Time that remembers whether it arrived without a zone, so
// it is written back in the same form
type Time struct {
	time.Time
	naive bool
}

func New(t time.Time) Time {
	return Time{Time: t}
}

// Naive returns t in UTC, marked to serialize without a zone
func Naive(t time.Time) Time {
	return Time{Time: t.UTC(), naive: true}
}

func (t Time) IsNaive() bool {
	return t.naive
}

// Parse accepts RFC 3339 or the backend's zone-less layouts
func Parse(s string) (Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Time{Time: ts}, nil
	}
	for _, layout := range naiveLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Time{Time: ts, naive: true}, nil
		}
	}
	return Time{}, fmt.Errorf("[timestamp Parse] unrecognised timestamp %q", s)
}

func (t Time) String() string {
	if t.naive {
		return t.Time.UTC().Format(NaiveLayout)
	}
	return t.Time.Format(time.RFC3339Nano)
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

func (t *Time) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("[timestamp UnmarshalJSON] %w", err)
	}
	if s == "" {
		*t = Time{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
