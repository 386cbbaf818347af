package usecase

import (
	"context"

	"reservation-bot/internal/data/entity"
)

// Notifier delivers a text message to a customer on behalf of business.
type Notifier interface {
	Send(ctx context.Context, phone, text string, business *entity.Business) error
}

// CalendarEvent is the appointment mirrored into the business calendar.
// Date is free-form as the customer typed it and Time is HH:MM.
type CalendarEvent struct {
	Summary         string
	Description     string
	Date            string
	Time            string
	DurationMinutes int
	CalendarID      string
	Timezone        string
}

// Calendar creates appointment events and returns the provider event id.
type Calendar interface {
	CreateEvent(ctx context.Context, event *CalendarEvent) (string, error)
}

// Classifier picks one of allowed for free text. An empty answer means no
// pick.
type Classifier interface {
	PickService(ctx context.Context, business *entity.Business, allowed []string, text string) (string, error)
}
