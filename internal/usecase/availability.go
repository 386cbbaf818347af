package usecase

import (
	"context"

	"reservation-bot/internal/data/entity"
	"reservation-bot/internal/data/repository"
)

// AvailabilityIndex answers slot questions for one business day. Conflicts
// are exact (date, time) matches; durations never overlap-check.
type AvailabilityIndex interface {
	IsTaken(ctx context.Context, business *entity.Business, date, hhmm string) (bool, error)
	// FreeSlots lists every untaken slot from opening to closing inclusive,
	// ascending.
	FreeSlots(ctx context.Context, business *entity.Business, date string) ([]string, error)
}

type availabilityIndex struct {
	reservations repository.ReservationRepository
}

func NewAvailabilityIndex(reservations repository.ReservationRepository) AvailabilityIndex {
	return &availabilityIndex{reservations: reservations}
}

func (a *availabilityIndex) IsTaken(ctx context.Context, business *entity.Business, date, hhmm string) (bool, error) {
	taken, err := a.reservations.IsTaken(ctx, business.ID, date, hhmm)
	if err != nil {
		return false, repoErr("is taken", err)
	}
	return taken, nil
}

func (a *availabilityIndex) FreeSlots(ctx context.Context, business *entity.Business, date string) ([]string, error) {
	booked, err := a.reservations.ListBookedTimes(ctx, business.ID, date)
	if err != nil {
		return nil, repoErr("list booked times", err)
	}

	taken := make(map[string]struct{}, len(booked))
	for _, hhmm := range booked {
		taken[hhmm] = struct{}{}
	}

	var free []string
	for _, slot := range DaySlots(business) {
		if _, ok := taken[slot]; !ok {
			free = append(free, slot)
		}
	}
	return free, nil
}

// DaySlots enumerates the business's slot grid. Unparseable hours fall back
// to the defaults.
func DaySlots(business *entity.Business) []string {
	start, ok := minutesOf(business.OpeningStart())
	if !ok {
		start, _ = minutesOf(entity.DefaultOpenStart)
	}
	end, ok := minutesOf(business.OpeningEnd())
	if !ok {
		end, _ = minutesOf(entity.DefaultOpenEnd)
	}
	step := business.SlotStep()

	var slots []string
	for m := start; m <= end; m += step {
		slots = append(slots, formatMinutes(m))
	}
	return slots
}
