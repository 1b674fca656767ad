// Package eventlog provides durable and in-memory interaction event logs.
package eventlog

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"reco/internal/domain"
)

// Record is the stored form of an interaction event. The timestamp is kept
// as written so records from older producers (epoch seconds) still load.
type Record struct {
	TS        json.RawMessage `json:"ts"`
	UserID    int             `json:"userId"`
	ProductID int             `json:"productId"`
	Event     string          `json:"event"`
}

// Encode serializes e as a Record.
func Encode(e domain.InteractionEvent) ([]byte, error) {
	ts, err := json.Marshal(domain.FormatTimestamp(e.Timestamp))
	if err != nil {
		return nil, err
	}
	return json.Marshal(Record{
		TS:        ts,
		UserID:    e.UserID,
		ProductID: e.ItemID,
		Event:     e.Kind.String(),
	})
}

// Decode parses a stored record. A malformed record is an error; an
// unparseable timestamp is not, and leaves Timestamp zero.
func Decode(data []byte) (domain.InteractionEvent, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.InteractionEvent{}, fmt.Errorf("invalid event record: %w", err)
	}

	e := domain.InteractionEvent{
		UserID: rec.UserID,
		ItemID: rec.ProductID,
		Kind:   domain.ParseEventKind(rec.Event),
	}
	if ts, err := domain.ParseTimestamp(rawTimestamp(rec.TS)); err == nil {
		e.Timestamp = ts
	}
	return e, nil
}

func rawTimestamp(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	if bytes.Equal(raw, []byte("null")) {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

// countUnparsed returns how many events carry no usable timestamp.
func countUnparsed(events []domain.InteractionEvent) int {
	n := 0
	for _, e := range events {
		if e.Timestamp.IsZero() {
			n++
		}
	}
	return n
}
