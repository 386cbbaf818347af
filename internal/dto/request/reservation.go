package request

type ReservationListRequest struct {
	PaginatedRequest
	Status string `json:"status" validate:"omitempty,oneof=pending confirmed canceled"`
}

// AvailabilityRequest asks for the free slots of Date; Time, when set, is
// the wanted time that suggestions are measured from.
type AvailabilityRequest struct {
	Date string `json:"date" validate:"required,max=50"`
	Time string `json:"time,omitempty" validate:"max=20"`
}
