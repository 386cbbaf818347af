package request

type UpdateBusinessRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Provider      *string `json:"provider,omitempty" validate:"omitempty,oneof=meta 360dialog"`
	PhoneNumberID *string `json:"phone_number_id,omitempty" validate:"omitempty,min=3,max=64"`
	AccessToken   *string `json:"access_token,omitempty"`
	APIKey        *string `json:"api_key,omitempty"`
	CalendarID    *string `json:"calendar_id,omitempty" validate:"omitempty,min=1,max=255"`
	Timezone      *string `json:"timezone,omitempty" validate:"omitempty,timezone"`
	OpenStart     *string `json:"open_start,omitempty" validate:"omitempty,hhmm"`
	OpenEnd       *string `json:"open_end,omitempty" validate:"omitempty,hhmm"`
	SlotStepMin   *int    `json:"slot_step_min,omitempty" validate:"omitempty,min=5,max=240"`
}
