package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// EventKind is the closed vocabulary of interaction types.
type EventKind int

const (
	// EventOther covers any kind outside the known vocabulary.
	EventOther EventKind = iota
	EventView
	EventAddToCart
	EventPurchase
)

// ParseEventKind maps a raw event name to its kind. Unknown names map to
// EventOther rather than failing.
func ParseEventKind(s string) EventKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "view":
		return EventView
	case "add_to_cart":
		return EventAddToCart
	case "purchase":
		return EventPurchase
	default:
		return EventOther
	}
}

func (k EventKind) String() string {
	switch k {
	case EventView:
		return "view"
	case EventAddToCart:
		return "add_to_cart"
	case EventPurchase:
		return "purchase"
	default:
		return "other"
	}
}

func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *EventKind) UnmarshalText(text []byte) error {
	*k = ParseEventKind(string(text))
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp accepts RFC 3339, naive ISO 8601 (read as UTC) and Unix
// epoch seconds, which is what the event producers emit.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(secs) || math.IsInf(secs, 0) || secs >= math.MaxInt64 || secs < math.MinInt64 {
			return time.Time{}, fmt.Errorf("epoch timestamp %q out of range", s)
		}
		whole := int64(secs)
		frac := int64((secs - float64(whole)) * 1e9)
		return time.Unix(whole, frac).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// FormatTimestamp renders t the way event records store it.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
