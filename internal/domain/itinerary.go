package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// PlaceStop is one place within an itinerary day. Key is unique across
// the entire itinerary and is the stable identity used for reorder and
// removal; it is derived from the external place id when available,
// otherwise a synthetic fallback. A stop with nil coordinates is
// excluded from routing but may still display.
type PlaceStop struct {
	Key         string       `json:"key"`
	PlaceID     string       `json:"place_id,omitempty"`
	Name        string       `json:"name"`
	Address     string       `json:"address"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Categories  []string     `json:"categories,omitempty"`
	Rating      float64      `json:"rating,omitempty"`
	HeroImage   string       `json:"hero_image,omitempty"`
}

// StopKey returns the stable key for a place: the external place id when
// present, otherwise a synthetic one.
func StopKey(placeID string) string {
	if placeID != "" {
		return "place:" + placeID
	}
	return "stop:" + uuid.NewString()
}

// ItineraryDay groups the ordered stops of one trip day. Day numbers
// form a contiguous 1..N sequence with no gaps; a day may be empty.
type ItineraryDay struct {
	DayNumber int          `json:"day_number"`
	Places    []*PlaceStop `json:"places"`
}

// Itinerary is the mutable ordered Day -> Place model. It exclusively
// owns day/place identity and ordering; routing and cost entities are
// rebuilt from it and are never independently mutable.
type Itinerary struct {
	days []*ItineraryDay
}

func NewItinerary() *Itinerary { return &Itinerary{} }

// Days returns the day list. Callers must treat it as read-only.
func (it *Itinerary) Days() []*ItineraryDay { return it.days }

// PlaceCount returns the number of stops across all days.
func (it *Itinerary) PlaceCount() int {
	n := 0
	for _, d := range it.days {
		n += len(d.Places)
	}
	return n
}

// AddDay appends an empty day and returns it.
func (it *Itinerary) AddDay() *ItineraryDay {
	day := &ItineraryDay{DayNumber: len(it.days) + 1, Places: []*PlaceStop{}}
	it.days = append(it.days, day)
	return day
}

// RemoveDay deletes the day at index (0-based) and renumbers the
// remaining days to stay contiguous.
func (it *Itinerary) RemoveDay(index int) error {
	if index < 0 || index >= len(it.days) {
		return fmt.Errorf("%w: day index %d out of range", ErrInvalidInput, index)
	}
	it.days = append(it.days[:index], it.days[index+1:]...)
	for i, d := range it.days {
		d.DayNumber = i + 1
	}
	return nil
}

// HasPlace reports whether key exists anywhere in the itinerary.
func (it *Itinerary) HasPlace(key string) bool {
	for _, d := range it.days {
		for _, p := range d.Places {
			if p.Key == key {
				return true
			}
		}
	}
	return false
}

// AddPlace appends a place to the day at index. Adding a key that
// already exists anywhere in the itinerary is an idempotent no-op; this
// is what prevents the same place being added twice across days.
func (it *Itinerary) AddPlace(dayIndex int, place *PlaceStop) error {
	if dayIndex < 0 || dayIndex >= len(it.days) {
		return fmt.Errorf("%w: day index %d out of range", ErrInvalidInput, dayIndex)
	}
	if place == nil || place.Key == "" {
		return fmt.Errorf("%w: place with a non-empty key is required", ErrInvalidInput)
	}
	if it.HasPlace(place.Key) {
		return nil
	}
	day := it.days[dayIndex]
	day.Places = append(day.Places, place)
	return nil
}

// RemovePlace deletes the stop identified by key from the day at index.
func (it *Itinerary) RemovePlace(dayIndex int, key string) error {
	if dayIndex < 0 || dayIndex >= len(it.days) {
		return fmt.Errorf("%w: day index %d out of range", ErrInvalidInput, dayIndex)
	}
	day := it.days[dayIndex]
	for i, p := range day.Places {
		if p.Key == key {
			day.Places = append(day.Places[:i], day.Places[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: place %q in day %d", ErrNotFound, key, dayIndex+1)
}

// Reorder relocates the stop identified by fromKey to the position
// currently held by toKey within the same day. The move is stable: all
// other stops retain their relative order.
func (it *Itinerary) Reorder(dayIndex int, fromKey, toKey string) error {
	if dayIndex < 0 || dayIndex >= len(it.days) {
		return fmt.Errorf("%w: day index %d out of range", ErrInvalidInput, dayIndex)
	}
	if fromKey == toKey {
		return nil
	}
	day := it.days[dayIndex]

	from, to := -1, -1
	for i, p := range day.Places {
		switch p.Key {
		case fromKey:
			from = i
		case toKey:
			to = i
		}
	}
	if from < 0 {
		return fmt.Errorf("%w: place %q in day %d", ErrNotFound, fromKey, dayIndex+1)
	}
	if to < 0 {
		return fmt.Errorf("%w: place %q in day %d", ErrNotFound, toKey, dayIndex+1)
	}

	moved := day.Places[from]
	rest := append(day.Places[:from:from], day.Places[from+1:]...)
	day.Places = append(rest[:to:to], append([]*PlaceStop{moved}, rest[to:]...)...)
	return nil
}
