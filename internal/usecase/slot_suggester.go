package usecase

import (
	"context"
	"sort"

	"reservation-bot/internal/data/entity"
)

const DefaultMaxSuggestions = 3

type SlotSuggester interface {
	// Suggest returns up to limit free slots of date closest to requested.
	// An empty result is valid.
	Suggest(ctx context.Context, business *entity.Business, date, requested string, limit int) ([]string, error)
}

type slotSuggester struct {
	availability AvailabilityIndex
}

func NewSlotSuggester(availability AvailabilityIndex) SlotSuggester {
	return &slotSuggester{availability: availability}
}

func (s *slotSuggester) Suggest(ctx context.Context, business *entity.Business, date, requested string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultMaxSuggestions
	}

	free, err := s.availability.FreeSlots(ctx, business, date)
	if err != nil {
		return nil, err
	}
	return closestSlots(free, requestedMinutes(business, requested), limit), nil
}

func requestedMinutes(business *entity.Business, requested string) int {
	if hhmm, err := NormalizeTime(requested); err == nil {
		if m, ok := minutesOf(hhmm); ok {
			return m
		}
	}
	if m, ok := minutesOf(business.OpeningStart()); ok {
		return m
	}
	m, _ := minutesOf(entity.DefaultOpenStart)
	return m
}

// closestSlots orders free by distance to target, keeping ascending order
// between equal distances.
func closestSlots(free []string, target, limit int) []string {
	ordered := make([]string, len(free))
	copy(ordered, free)

	distance := func(slot string) int {
		m, _ := minutesOf(slot)
		if m > target {
			return m - target
		}
		return target - m
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return distance(ordered[i]) < distance(ordered[j])
	})

	if len(ordered) > limit {
		ordered = ordered[:limit]
	}
	return ordered
}
