package entity

import "github.com/google/uuid"

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCanceled  ReservationStatus = "canceled"
)

// Reservation is a booked slot. Date is kept as the customer typed it and
// Time is always HH:MM. At most one non-canceled reservation exists per
// (BusinessID, Date, Time).
type Reservation struct {
	BaseNoDelete
	BusinessID    uuid.UUID         `db:"business_id"`
	CustomerName  string            `db:"customer_name"`
	CustomerPhone string            `db:"customer_phone"`
	Service       string            `db:"service"`
	Date          string            `db:"date"`
	Time          string            `db:"time"`
	Status        ReservationStatus `db:"status"`
}

func (r *Reservation) IsActive() bool {
	return r.Status != ReservationCanceled
}
