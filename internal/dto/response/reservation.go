package response

import (
	"time"

	"reservation-bot/internal/data/entity"
)

type ReservationResponse struct {
	ID            string                   `json:"id"`
	CustomerName  string                   `json:"customer_name"`
	CustomerPhone string                   `json:"customer_phone"`
	Service       string                   `json:"service"`
	Date          string                   `json:"date"`
	Time          string                   `json:"time"`
	Status        entity.ReservationStatus `json:"status"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

func ReservationToResponse(r *entity.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:            r.ID.String(),
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		Service:       r.Service,
		Date:          r.Date,
		Time:          r.Time,
		Status:        r.Status,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

type AvailabilityResponse struct {
	Date        string   `json:"date"`
	FreeSlots   []string `json:"free_slots"`
	Requested   string   `json:"requested,omitempty"`
	Taken       bool     `json:"taken"`
	Suggestions []string `json:"suggestions,omitempty"`
}
