package domain

import (
	"testing"
	"time"
)

func TestParseEventKind(t *testing.T) {
	tests := []struct {
		in   string
		want EventKind
	}{
		{"view", EventView},
		{" VIEW ", EventView},
		{"add_to_cart", EventAddToCart},
		{"purchase", EventPurchase},
		{"click", EventOther},
		{"", EventOther},
	}

	for _, tc := range tests {
		if got := ParseEventKind(tc.in); got != tc.want {
			t.Errorf("ParseEventKind(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestEventKindText(t *testing.T) {
	var k EventKind
	if err := k.UnmarshalText([]byte("purchase")); err != nil {
		t.Fatal(err)
	}
	if k != EventPurchase {
		t.Errorf("expected purchase, got %v", k)
	}
	text, _ := EventOther.MarshalText()
	if string(text) != "other" {
		t.Errorf("expected other, got %s", text)
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   string
	}{
		{"rfc3339", "2025-03-01T10:30:00Z"},
		{"offset", "2025-03-01T11:30:00+01:00"},
		{"naive", "2025-03-01T10:30:00"},
		{"space", "2025-03-01 10:30:00"},
		{"epoch", "1740825000"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTimestamp(tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(want) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tc.in, got, want)
			}
		})
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	for _, in := range []string{"", "yesterday", "2025-13-45", "NaN", "Inf", "-inf", "1e300", "-1e300"} {
		if _, err := ParseTimestamp(in); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestItemText(t *testing.T) {
	it := Item{Name: "Eclair", Category: "Pastry", Description: "Chocolate"}
	if got := it.Text(); got != "Eclair | Pastry | Chocolate" {
		t.Errorf("unexpected text %q", got)
	}
}
