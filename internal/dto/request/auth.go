package request

// RegisterRequest creates a business together with its owner account.
type RegisterRequest struct {
	BusinessName  string  `json:"business_name" validate:"required,min=2,max=120"`
	Email         string  `json:"email" validate:"required,email"`
	Password      string  `json:"password" validate:"required,min=8,max=72"`
	Provider      string  `json:"provider" validate:"required,oneof=meta 360dialog"`
	PhoneNumberID *string `json:"phone_number_id,omitempty" validate:"omitempty,min=3,max=64"`
	AccessToken   string  `json:"access_token,omitempty"`
	APIKey        string  `json:"api_key,omitempty"`
	Timezone      string  `json:"timezone,omitempty" validate:"omitempty,timezone"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
