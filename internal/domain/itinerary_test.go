package domain

import (
	"errors"
	"testing"
)

func stop(key string) *PlaceStop {
	return &PlaceStop{Key: key, Name: key}
}

func dayKeys(day *ItineraryDay) []string {
	keys := make([]string, 0, len(day.Places))
	for _, p := range day.Places {
		keys = append(keys, p.Key)
	}
	return keys
}

func sameKeys(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestAddPlaceDuplicateKeyIsNoOp(t *testing.T) {
	it := NewItinerary()
	it.AddDay()
	it.AddDay()

	if err := it.AddPlace(0, stop("place:louvre")); err != nil {
		t.Fatalf("first add: %v", err)
	}
	// Same key again, even in a different day.
	if err := it.AddPlace(1, stop("place:louvre")); err != nil {
		t.Fatalf("duplicate add: %v", err)
	}

	if got := it.PlaceCount(); got != 1 {
		t.Errorf("place count = %d, want 1", got)
	}
	if len(it.Days()[1].Places) != 0 {
		t.Errorf("duplicate key must not land in another day")
	}
}

func TestAddPlaceRejectsEmptyKey(t *testing.T) {
	it := NewItinerary()
	it.AddDay()

	err := it.AddPlace(0, &PlaceStop{Name: "keyless"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestRemoveDayRenumbersContiguously(t *testing.T) {
	it := NewItinerary()
	it.AddDay()
	it.AddDay()
	it.AddDay()

	if err := it.RemoveDay(1); err != nil {
		t.Fatalf("remove day: %v", err)
	}

	days := it.Days()
	if len(days) != 2 {
		t.Fatalf("day count = %d, want 2", len(days))
	}
	for i, d := range days {
		if d.DayNumber != i+1 {
			t.Errorf("day %d numbered %d, want %d", i, d.DayNumber, i+1)
		}
	}
}

func TestRemovePlaceNotFound(t *testing.T) {
	it := NewItinerary()
	it.AddDay()

	err := it.RemovePlace(0, "place:ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestReorderMovesStably(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		want     []string
	}{
		{"forward", "a", "c", []string{"b", "c", "a"}},
		{"backward", "c", "a", []string{"c", "a", "b"}},
		{"adjacent", "a", "b", []string{"b", "a", "c"}},
		{"self", "b", "b", []string{"a", "b", "c"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			it := NewItinerary()
			it.AddDay()
			for _, k := range []string{"a", "b", "c"} {
				if err := it.AddPlace(0, stop(k)); err != nil {
					t.Fatalf("add %s: %v", k, err)
				}
			}

			if err := it.Reorder(0, tc.from, tc.to); err != nil {
				t.Fatalf("reorder: %v", err)
			}
			if got := dayKeys(it.Days()[0]); !sameKeys(got, tc.want) {
				t.Errorf("order = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestReorderThenInverseRestoresOrder(t *testing.T) {
	it := NewItinerary()
	it.AddDay()
	for _, k := range []string{"a", "b", "c", "d"} {
		if err := it.AddPlace(0, stop(k)); err != nil {
			t.Fatalf("add %s: %v", k, err)
		}
	}

	if err := it.Reorder(0, "b", "d"); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	// Move it back to the position now held by the element that took
	// its old slot.
	if err := it.Reorder(0, "b", "c"); err != nil {
		t.Fatalf("inverse reorder: %v", err)
	}

	if got := dayKeys(it.Days()[0]); !sameKeys(got, []string{"a", "b", "c", "d"}) {
		t.Errorf("order = %v, want original a b c d", got)
	}
}

func TestReorderUnknownKey(t *testing.T) {
	it := NewItinerary()
	it.AddDay()
	if err := it.AddPlace(0, stop("a")); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := it.Reorder(0, "a", "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown target: err = %v, want ErrNotFound", err)
	}
	if err := it.Reorder(0, "nope", "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown source: err = %v, want ErrNotFound", err)
	}
}
