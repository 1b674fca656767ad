package engine

import (
	"testing"

	"reco/internal/domain"
)

func TestTopPopular(t *testing.T) {
	events := []domain.InteractionEvent{
		{ItemID: 5}, {ItemID: 3}, {ItemID: 5}, {ItemID: 9},
		{ItemID: 3}, {ItemID: 5}, {ItemID: 1},
	}

	got := TopPopular(events, []int{1, 3, 5, 9}, 3)
	want := []int{5, 3, 1}
	if len(got) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: expected %d, got %d", i, id, got[i].ID)
		}
		if got[i].Score != 0 {
			t.Errorf("expected zero score, got %f", got[i].Score)
		}
	}
}

func TestTopPopular_NoEvents(t *testing.T) {
	got := TopPopular(nil, []int{8, 4, 6}, 2)
	if len(got) != 2 || got[0].ID != 8 || got[1].ID != 4 {
		t.Errorf("expected catalog order, got %v", got)
	}

	if got := TopPopular(nil, nil, 5); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
	if got := TopPopular(nil, []int{1}, 0); len(got) != 0 {
		t.Errorf("expected empty result for k=0, got %v", got)
	}
}

func TestTopPopular_Deterministic(t *testing.T) {
	events := []domain.InteractionEvent{{ItemID: 4}, {ItemID: 2}, {ItemID: 7}, {ItemID: 3}}
	first := TopPopular(events, nil, 4)
	for i := 0; i < 20; i++ {
		again := TopPopular(events, nil, 4)
		for j := range first {
			if first[j].ID != again[j].ID {
				t.Fatalf("non-deterministic ordering: %v vs %v", first, again)
			}
		}
	}
	if first[0].ID != 2 || first[3].ID != 7 {
		t.Errorf("expected ties by ascending id, got %v", first)
	}
}
