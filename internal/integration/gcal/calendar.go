package gcal

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	_ "time/tzdata"

	"reservation-bot/internal/usecase"
	"reservation-bot/pkg/utils"

	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const defaultDurationMin = 45

// dateLayouts are tried in order against the customer's date text.
// Layouts without a year get the current one.
var dateLayouts = []struct {
	layout  string
	hasYear bool
}{
	{"2006-01-02", true},
	{"02/01/2006", true},
	{"2/1/2006", true},
	{"02-01-2006", true},
	{"2 Jan 2006", true},
	{"2 January 2006", true},
	{"Jan 2 2006", true},
	{"January 2 2006", true},
	{"2 Jan", false},
	{"2 January", false},
	{"Jan 2", false},
	{"January 2", false},
}

var ordinalSuffix = regexp.MustCompile(`(\d)(st|nd|rd|th)\b`)

// Calendar writes appointments into Google Calendar.
type Calendar struct {
	events *calendar.EventsService
	now    func() time.Time
	log    *zap.Logger
}

// NewCalendar authenticates with the service account file from cfg unless
// opts are given.
func NewCalendar(ctx context.Context, cfg utils.CalendarConfig, log *zap.Logger, opts ...option.ClientOption) (*Calendar, error) {
	if len(opts) == 0 {
		opts = []option.ClientOption{
			option.WithCredentialsFile(cfg.CredentialsFile),
			option.WithScopes(calendar.CalendarEventsScope),
		}
	}

	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcal: create service: %w", err)
	}

	return &Calendar{
		events: svc.Events,
		now:    time.Now,
		log:    log.With(zap.String("integration", "gcal")),
	}, nil
}

func (c *Calendar) CreateEvent(ctx context.Context, event *usecase.CalendarEvent) (string, error) {
	loc, err := time.LoadLocation(event.Timezone)
	if err != nil {
		return "", fmt.Errorf("gcal: timezone %q: %w", event.Timezone, err)
	}

	start, err := StartTime(event.Date, event.Time, loc, c.now())
	if err != nil {
		return "", err
	}
	duration := event.DurationMinutes
	if duration <= 0 {
		duration = defaultDurationMin
	}
	end := start.Add(time.Duration(duration) * time.Minute)

	created, err := c.events.Insert(event.CalendarID, &calendar.Event{
		Summary:     event.Summary,
		Description: event.Description,
		Start:       &calendar.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: event.Timezone},
		End:         &calendar.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: event.Timezone},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("gcal: insert event: %w", err)
	}

	c.log.Debug("Event inserted", zap.String("event_id", created.Id), zap.String("calendar_id", event.CalendarID))
	return created.Id, nil
}

// StartTime combines a free-form date and an HH:MM time in loc. now picks
// the year for dates typed without one.
func StartTime(date, hhmm string, loc *time.Location, now time.Time) (time.Time, error) {
	day, err := ParseDate(date, now.In(loc))
	if err != nil {
		return time.Time{}, err
	}
	clock, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("gcal: time %q: %w", hhmm, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, loc), nil
}

// ParseDate reads the date formats customers commonly type.
func ParseDate(raw string, now time.Time) (time.Time, error) {
	text := strings.Join(strings.Fields(strings.ReplaceAll(raw, ",", " ")), " ")
	text = ordinalSuffix.ReplaceAllString(text, "$1")

	for _, l := range dateLayouts {
		t, err := time.Parse(l.layout, text)
		if err != nil {
			continue
		}
		if !l.hasYear {
			t = t.AddDate(now.Year()-t.Year(), 0, 0)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("gcal: unrecognised date %q", raw)
}
