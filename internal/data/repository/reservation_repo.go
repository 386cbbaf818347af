package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reservation-bot/internal/data/entity"
	"reservation-bot/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReservationRepository interface {
	// Create returns ErrSlotTaken when an active reservation already holds
	// the same business, date and time.
	Create(ctx context.Context, reservation *entity.Reservation) error
	IsTaken(ctx context.Context, businessID uuid.UUID, date, hhmm string) (bool, error)
	ListBookedTimes(ctx context.Context, businessID uuid.UUID, date string) ([]string, error)
	// CancelActiveByCustomer cancels every active reservation of phone and
	// returns how many changed.
	CancelActiveByCustomer(ctx context.Context, businessID uuid.UUID, phone string) (int64, error)

	// Dashboard queries
	FindByID(ctx context.Context, businessID, id uuid.UUID) (*entity.Reservation, error)
	List(ctx context.Context, businessID uuid.UUID, status entity.ReservationStatus, limit, offset int) ([]*entity.Reservation, error)
	Count(ctx context.Context, businessID uuid.UUID, status entity.ReservationStatus) (int64, error)
	// UpdateStatus returns ErrInvalidTransition when the stored row has
	// moved on: confirm needs a pending row, and canceled rows are final.
	UpdateStatus(ctx context.Context, businessID, id uuid.UUID, status entity.ReservationStatus) error
}

type reservationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReservationRepository(db database.PgxIface, log *zap.Logger) ReservationRepository {
	return &reservationRepository{
		db:  db,
		log: log.With(zap.String("repository", "reservation")),
	}
}

const reservationColumns = `id, business_id, customer_name, customer_phone, service,
		       date, time, status, created_at, updated_at`

func (r *reservationRepository) Create(ctx context.Context, reservation *entity.Reservation) error {
	query := `
		INSERT INTO reservations (id, business_id, customer_name, customer_phone, service,
		                          date, time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		reservation.ID,
		reservation.BusinessID,
		reservation.CustomerName,
		reservation.CustomerPhone,
		reservation.Service,
		reservation.Date,
		reservation.Time,
		string(reservation.Status),
		reservation.CreatedAt,
		reservation.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			r.log.Warn("Reservation slot already taken",
				zap.String("business_id", reservation.BusinessID.String()),
				zap.String("date", reservation.Date),
				zap.String("time", reservation.Time))
			return fmt.Errorf("create reservation %s %s: %w", reservation.Date, reservation.Time, ErrSlotTaken)
		}
		r.log.Error("Failed to create reservation",
			zap.Error(err),
			zap.String("business_id", reservation.BusinessID.String()),
			zap.String("phone", reservation.CustomerPhone))
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

func (r *reservationRepository) IsTaken(ctx context.Context, businessID uuid.UUID, date, hhmm string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE business_id = $1 AND date = $2 AND time = $3 AND status <> 'canceled'
		)
	`

	var taken bool
	if err := r.db.QueryRow(ctx, query, businessID, date, hhmm).Scan(&taken); err != nil {
		r.log.Error("Failed to check slot",
			zap.Error(err),
			zap.String("business_id", businessID.String()),
			zap.String("date", date),
			zap.String("time", hhmm))
		return false, fmt.Errorf("check slot %s %s: %w", date, hhmm, err)
	}
	return taken, nil
}

func (r *reservationRepository) ListBookedTimes(ctx context.Context, businessID uuid.UUID, date string) ([]string, error) {
	query := `
		SELECT time FROM reservations
		WHERE business_id = $1 AND date = $2 AND status <> 'canceled'
		ORDER BY time
	`

	rows, err := r.db.Query(ctx, query, businessID, date)
	if err != nil {
		r.log.Error("Failed to list booked times", zap.Error(err), zap.String("date", date))
		return nil, fmt.Errorf("list booked times %s: %w", date, err)
	}
	defer rows.Close()

	var times []string
	for rows.Next() {
		var hhmm string
		if err := rows.Scan(&hhmm); err != nil {
			return nil, fmt.Errorf("scan booked time: %w", err)
		}
		times = append(times, hhmm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booked times: %w", err)
	}
	return times, nil
}

func (r *reservationRepository) CancelActiveByCustomer(ctx context.Context, businessID uuid.UUID, phone string) (int64, error) {
	query := `
		UPDATE reservations
		SET status = 'canceled', updated_at = NOW()
		WHERE business_id = $1 AND customer_phone = $2 AND status <> 'canceled'
	`

	result, err := r.db.Exec(ctx, query, businessID, phone)
	if err != nil {
		r.log.Error("Failed to cancel customer reservations",
			zap.Error(err),
			zap.String("business_id", businessID.String()),
			zap.String("phone", phone))
		return 0, fmt.Errorf("cancel reservations of %s: %w", phone, err)
	}
	return result.RowsAffected(), nil
}

// ==================== DASHBOARD METHODS ====================

func (r *reservationRepository) FindByID(ctx context.Context, businessID, id uuid.UUID) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE business_id = $1 AND id = $2`

	reservation, err := scanReservation(r.db.QueryRow(ctx, query, businessID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find reservation", zap.Error(err), zap.String("reservation_id", id.String()))
		return nil, fmt.Errorf("find reservation %s: %w", id, err)
	}
	return reservation, nil
}

func (r *reservationRepository) List(ctx context.Context, businessID uuid.UUID, status entity.ReservationStatus, limit, offset int) ([]*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
		FROM reservations
		WHERE business_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, businessID, string(status), limit, offset)
	if err != nil {
		r.log.Error("Failed to list reservations",
			zap.Error(err),
			zap.String("business_id", businessID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset))
		return nil, fmt.Errorf("list reservations limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var reservations []*entity.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			r.log.Error("Failed to scan reservation row", zap.Error(err))
			return nil, fmt.Errorf("scan reservation row: %w", err)
		}
		reservations = append(reservations, reservation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservation rows: %w", err)
	}
	return reservations, nil
}

func (r *reservationRepository) Count(ctx context.Context, businessID uuid.UUID, status entity.ReservationStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM reservations WHERE business_id = $1 AND ($2 = '' OR status = $2)`

	var count int64
	if err := r.db.QueryRow(ctx, query, businessID, string(status)).Scan(&count); err != nil {
		r.log.Error("Failed to count reservations", zap.Error(err))
		return 0, fmt.Errorf("count reservations: %w", err)
	}
	return count, nil
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, businessID, id uuid.UUID, status entity.ReservationStatus) error {
	// only pending rows can be confirmed; canceled rows never move
	from := "status <> 'canceled'"
	if status == entity.ReservationConfirmed {
		from = "status = 'pending'"
	}

	query := `
		UPDATE reservations
		SET status = $3, updated_at = $4
		WHERE business_id = $1 AND id = $2 AND ` + from

	result, err := r.db.Exec(ctx, query, businessID, id, string(status), time.Now())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update reservation %s: %w", id, ErrSlotTaken)
		}
		r.log.Error("Failed to update reservation status",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
			zap.String("status", string(status)))
		return fmt.Errorf("update reservation %s: %w", id, err)
	}
	if result.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	err = r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM reservations WHERE business_id = $1 AND id = $2)`,
		businessID, id).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check reservation existence", zap.Error(err), zap.String("reservation_id", id.String()))
		return fmt.Errorf("check reservation %s: %w", id, err)
	}
	if !exists {
		return fmt.Errorf("reservation %s: %w", id, ErrNotFound)
	}
	return fmt.Errorf("reservation %s to %s: %w", id, status, ErrInvalidTransition)
}

func scanReservation(row pgx.Row) (*entity.Reservation, error) {
	var res entity.Reservation
	var status string
	err := row.Scan(
		&res.ID,
		&res.BusinessID,
		&res.CustomerName,
		&res.CustomerPhone,
		&res.Service,
		&res.Date,
		&res.Time,
		&status,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	res.Status = entity.ReservationStatus(status)
	return &res, nil
}
