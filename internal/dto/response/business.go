package response

import (
	"time"

	"reservation-bot/internal/data/entity"
)

// BusinessResponse never echoes provider credentials; it only reports
// whether they are set.
type BusinessResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Provider       entity.Provider `json:"provider"`
	PhoneNumberID  *string         `json:"phone_number_id,omitempty"`
	HasAccessToken bool            `json:"has_access_token"`
	HasAPIKey      bool            `json:"has_api_key"`
	CalendarID     string          `json:"calendar_id"`
	Timezone       string          `json:"timezone"`
	OpenStart      string          `json:"open_start"`
	OpenEnd        string          `json:"open_end"`
	SlotStepMin    int             `json:"slot_step_min"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func BusinessToResponse(b *entity.Business) BusinessResponse {
	return BusinessResponse{
		ID:             b.ID.String(),
		Name:           b.Name,
		Provider:       b.Provider,
		PhoneNumberID:  b.PhoneNumberID,
		HasAccessToken: b.AccessToken != "",
		HasAPIKey:      b.APIKey != "",
		CalendarID:     b.CalendarOrDefault(),
		Timezone:       b.TimezoneOrDefault(),
		OpenStart:      b.OpeningStart(),
		OpenEnd:        b.OpeningEnd(),
		SlotStepMin:    b.SlotStep(),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}
