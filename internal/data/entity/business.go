package entity

type Provider string

const (
	ProviderMeta      Provider = "meta"
	Provider360Dialog Provider = "360dialog"
)

const (
	DefaultOpenStart   = "09:00"
	DefaultOpenEnd     = "18:00"
	DefaultSlotStepMin = 30
	DefaultCalendarID  = "primary"
	DefaultTimezone    = "Asia/Beirut"
)

// Business is one tenant of the bot. Messaging and calendar fields are
// opaque to the dialogue and only passed to the collaborators.
type Business struct {
	BaseNoDelete
	Name          string   `db:"name"`
	Provider      Provider `db:"provider"`
	PhoneNumberID *string  `db:"phone_number_id"`
	AccessToken   string   `db:"access_token"`
	APIKey        string   `db:"api_key"`
	CalendarID    string   `db:"calendar_id"`
	Timezone      string   `db:"timezone"`
	OpenStart     string   `db:"open_start"`
	OpenEnd       string   `db:"open_end"`
	SlotStepMin   int      `db:"slot_step_min"`
}

func (b *Business) OpeningStart() string {
	if b.OpenStart == "" {
		return DefaultOpenStart
	}
	return b.OpenStart
}

func (b *Business) OpeningEnd() string {
	if b.OpenEnd == "" {
		return DefaultOpenEnd
	}
	return b.OpenEnd
}

func (b *Business) SlotStep() int {
	if b.SlotStepMin <= 0 {
		return DefaultSlotStepMin
	}
	return b.SlotStepMin
}

func (b *Business) CalendarOrDefault() string {
	if b.CalendarID == "" {
		return DefaultCalendarID
	}
	return b.CalendarID
}

func (b *Business) TimezoneOrDefault() string {
	if b.Timezone == "" {
		return DefaultTimezone
	}
	return b.Timezone
}
