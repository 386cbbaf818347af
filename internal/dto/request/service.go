package request

type ServiceRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Price       float64 `json:"price" validate:"min=0"`
	DurationMin int     `json:"duration_min" validate:"required,min=5,max=600"`
}

type ServiceUpdateRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,min=0"`
	DurationMin *int     `json:"duration_min,omitempty" validate:"omitempty,min=5,max=600"`
}
