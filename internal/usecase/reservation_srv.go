package usecase

import (
	"context"
	"fmt"
	"time"

	"reservation-bot/internal/data/entity"
	"reservation-bot/internal/data/repository"
	"reservation-bot/internal/dto/request"
	"reservation-bot/internal/dto/response"
	"reservation-bot/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReservationService backs the operator dashboard.
type ReservationService interface {
	ListReservations(ctx context.Context, businessID uuid.UUID, req *request.ReservationListRequest) (*response.PaginatedResponse[response.ReservationResponse], error)
	GetReservation(ctx context.Context, businessID uuid.UUID, reservationID string) (*response.ReservationResponse, error)
	// ConfirmReservation moves pending to confirmed and notifies the
	// customer. Confirming twice is a no-op; canceled is terminal.
	ConfirmReservation(ctx context.Context, business *entity.Business, reservationID string) (*response.ReservationResponse, error)
	CancelReservation(ctx context.Context, business *entity.Business, reservationID string) (*response.ReservationResponse, error)
	GetAvailability(ctx context.Context, business *entity.Business, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error)
}

type reservationService struct {
	reservations repository.ReservationRepository
	availability AvailabilityIndex
	suggester    SlotSuggester
	notifier     Notifier
	maxSuggest   int
	metrics      *metrics.BotMetrics
	log          *zap.Logger
}

func NewReservationService(
	reservations repository.ReservationRepository,
	notifier Notifier,
	maxSuggestions int,
	m *metrics.BotMetrics,
	log *zap.Logger,
) ReservationService {
	availability := NewAvailabilityIndex(reservations)
	return &reservationService{
		reservations: reservations,
		availability: availability,
		suggester:    NewSlotSuggester(availability),
		notifier:     notifier,
		maxSuggest:   maxSuggestions,
		metrics:      m,
		log:          log.With(zap.String("service", "reservation")),
	}
}

func (s *reservationService) ListReservations(ctx context.Context, businessID uuid.UUID, req *request.ReservationListRequest) (*response.PaginatedResponse[response.ReservationResponse], error) {
	status := entity.ReservationStatus(req.Status)

	reservations, err := s.reservations.List(ctx, businessID, status, req.Limit(), req.Offset())
	if err != nil {
		return nil, repoErr("list reservations", err)
	}

	total, err := s.reservations.Count(ctx, businessID, status)
	if err != nil {
		return nil, repoErr("count reservations", err)
	}

	data := make([]response.ReservationResponse, 0, len(reservations))
	for _, r := range reservations {
		data = append(data, response.ReservationToResponse(r))
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	return response.NewPaginatedResponse(data, page, req.Limit(), total), nil
}

func (s *reservationService) GetReservation(ctx context.Context, businessID uuid.UUID, reservationID string) (*response.ReservationResponse, error) {
	reservation, err := s.find(ctx, businessID, reservationID)
	if err != nil {
		return nil, err
	}
	resp := response.ReservationToResponse(reservation)
	return &resp, nil
}

func (s *reservationService) ConfirmReservation(ctx context.Context, business *entity.Business, reservationID string) (*response.ReservationResponse, error) {
	reservation, err := s.find(ctx, business.ID, reservationID)
	if err != nil {
		return nil, err
	}

	switch reservation.Status {
	case entity.ReservationConfirmed:
		resp := response.ReservationToResponse(reservation)
		return &resp, nil
	case entity.ReservationCanceled:
		return nil, fmt.Errorf("confirm reservation %s: %w: already canceled", reservationID, ErrInvalidTransition)
	}

	if err := s.transition(ctx, reservation, entity.ReservationConfirmed); err != nil {
		return nil, err
	}
	notify(ctx, s.notifier, s.metrics, s.log, business, reservation.CustomerPhone, msgOperatorConfirmed(reservation))

	resp := response.ReservationToResponse(reservation)
	return &resp, nil
}

func (s *reservationService) CancelReservation(ctx context.Context, business *entity.Business, reservationID string) (*response.ReservationResponse, error) {
	reservation, err := s.find(ctx, business.ID, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.Status == entity.ReservationCanceled {
		return nil, fmt.Errorf("cancel reservation %s: %w: already canceled", reservationID, ErrInvalidTransition)
	}

	if err := s.transition(ctx, reservation, entity.ReservationCanceled); err != nil {
		return nil, err
	}
	notify(ctx, s.notifier, s.metrics, s.log, business, reservation.CustomerPhone, msgOperatorCanceled(reservation))

	resp := response.ReservationToResponse(reservation)
	return &resp, nil
}

func (s *reservationService) GetAvailability(ctx context.Context, business *entity.Business, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error) {
	free, err := s.availability.FreeSlots(ctx, business, req.Date)
	if err != nil {
		return nil, err
	}
	resp := &response.AvailabilityResponse{Date: req.Date, FreeSlots: free}
	if resp.FreeSlots == nil {
		resp.FreeSlots = []string{}
	}
	if req.Time == "" {
		return resp, nil
	}

	hhmm, err := NormalizeTime(req.Time)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	resp.Requested = hhmm

	resp.Taken, err = s.availability.IsTaken(ctx, business, req.Date, hhmm)
	if err != nil {
		return nil, err
	}
	if resp.Taken {
		resp.Suggestions, err = s.suggester.Suggest(ctx, business, req.Date, hhmm, s.maxSuggest)
		if err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// ==================== HELPER METHODS ====================

func (s *reservationService) find(ctx context.Context, businessID uuid.UUID, reservationID string) (*entity.Reservation, error) {
	id, err := uuid.Parse(reservationID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid reservation ID", ErrValidation)
	}

	reservation, err := s.reservations.FindByID(ctx, businessID, id)
	if err != nil {
		return nil, repoErr("find reservation", err)
	}
	if reservation == nil {
		return nil, fmt.Errorf("reservation %s: %w", reservationID, ErrNotFound)
	}
	return reservation, nil
}

func (s *reservationService) transition(ctx context.Context, reservation *entity.Reservation, status entity.ReservationStatus) error {
	if err := s.reservations.UpdateStatus(ctx, reservation.BusinessID, reservation.ID, status); err != nil {
		return repoErr("update reservation status", err)
	}

	s.log.Info("Reservation status changed",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("from", string(reservation.Status)),
		zap.String("to", string(status)))

	reservation.Status = status
	reservation.UpdatedAt = time.Now()
	return nil
}
