package usecase

import (
	"context"
	"testing"

	"reservation-bot/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaySlots(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		slots := DaySlots(&entity.Business{})
		require.Len(t, slots, 19)
		assert.Equal(t, "09:00", slots[0])
		assert.Equal(t, "18:00", slots[len(slots)-1])
	})

	t.Run("custom hours", func(t *testing.T) {
		slots := DaySlots(&entity.Business{OpenStart: "10:00", OpenEnd: "12:00", SlotStepMin: 60})
		assert.Equal(t, []string{"10:00", "11:00", "12:00"}, slots)
	})

	t.Run("broken hours fall back", func(t *testing.T) {
		slots := DaySlots(&entity.Business{OpenStart: "late", OpenEnd: "never"})
		assert.Equal(t, "09:00", slots[0])
		assert.Equal(t, "18:00", slots[len(slots)-1])
	})
}

func TestFreeSlots(t *testing.T) {
	business := &entity.Business{BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()}, OpenStart: "09:00", OpenEnd: "10:30"}
	repo := &fakeReservationRepo{}
	repo.add(&entity.Reservation{BusinessID: business.ID, Date: "2025-11-20", Time: "09:30", Status: entity.ReservationConfirmed})
	repo.add(&entity.Reservation{BusinessID: business.ID, Date: "2025-11-20", Time: "10:00", Status: entity.ReservationCanceled})
	repo.add(&entity.Reservation{BusinessID: business.ID, Date: "2025-11-21", Time: "09:00", Status: entity.ReservationPending})

	free, err := NewAvailabilityIndex(repo).FreeSlots(context.Background(), business, "2025-11-20")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00", "10:30"}, free)

	repo.err = errBoom
	_, err = NewAvailabilityIndex(repo).FreeSlots(context.Background(), business, "2025-11-20")
	assert.ErrorIs(t, err, ErrRepository)
}

func TestSlotSuggester(t *testing.T) {
	business := &entity.Business{BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()}}
	repo := &fakeReservationRepo{}
	for _, hhmm := range []string{"16:00", "15:30"} {
		repo.add(&entity.Reservation{BusinessID: business.ID, Date: "2025-11-20", Time: hhmm, Status: entity.ReservationConfirmed})
	}
	suggester := NewSlotSuggester(NewAvailabilityIndex(repo))

	t.Run("nearest first, earlier on ties", func(t *testing.T) {
		got, err := suggester.Suggest(context.Background(), business, "2025-11-20", "16:00", 3)
		require.NoError(t, err)
		assert.Equal(t, []string{"16:30", "15:00", "17:00"}, got)
	})

	t.Run("default limit", func(t *testing.T) {
		got, err := suggester.Suggest(context.Background(), business, "2025-11-20", "09:00", 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"09:00", "09:30", "10:00"}, got)
	})

	t.Run("unparseable request measures from opening", func(t *testing.T) {
		got, err := suggester.Suggest(context.Background(), business, "2025-11-20", "soon", 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"09:00", "09:30"}, got)
	})

	t.Run("fully booked day", func(t *testing.T) {
		full := &fakeReservationRepo{}
		for _, hhmm := range DaySlots(business) {
			full.add(&entity.Reservation{BusinessID: business.ID, Date: "2025-11-22", Time: hhmm, Status: entity.ReservationConfirmed})
		}
		got, err := NewSlotSuggester(NewAvailabilityIndex(full)).Suggest(context.Background(), business, "2025-11-22", "12:00", 3)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
