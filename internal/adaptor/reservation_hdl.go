package adaptor

import (
	"net/http"

	"reservation-bot/internal/data/entity"
	"reservation-bot/internal/dto/request"
	"reservation-bot/internal/usecase"
	"reservation-bot/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReservationHandler struct {
	service  usecase.ReservationService
	business usecase.BusinessService
	log      *zap.Logger
}

func NewReservationHandler(service usecase.ReservationService, business usecase.BusinessService, log *zap.Logger) *ReservationHandler {
	return &ReservationHandler{
		service:  service,
		business: business,
		log:      log.With(zap.String("handler", "reservation")),
	}
}

// ListReservations handles GET /api/reservations?status=&page=&per_page=
func (h *ReservationHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	businessID, ok := utils.GetBusinessIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	req := &request.ReservationListRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("per_page"), 10),
		},
		Status: query.Get("status"),
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	reservations, err := h.service.ListReservations(r.Context(), businessID, req)
	if err != nil {
		handleServiceError(w, h.log, err, "list reservations")
		return
	}

	utils.ResponseSuccess(w, "success", reservations)
}

// GetReservation handles GET /api/reservations/{id}
func (h *ReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	businessID, ok := utils.GetBusinessIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	reservation, err := h.service.GetReservation(r.Context(), businessID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get reservation")
		return
	}

	utils.ResponseSuccess(w, "success", reservation)
}

// ConfirmReservation handles PUT /api/reservations/{id}/confirm
func (h *ReservationHandler) ConfirmReservation(w http.ResponseWriter, r *http.Request) {
	business, ok := h.currentBusiness(w, r, "confirm reservation")
	if !ok {
		return
	}

	reservation, err := h.service.ConfirmReservation(r.Context(), business, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "confirm reservation")
		return
	}

	utils.ResponseSuccess(w, "Reservation confirmed", reservation)
}

// CancelReservation handles PUT /api/reservations/{id}/cancel
func (h *ReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	business, ok := h.currentBusiness(w, r, "cancel reservation")
	if !ok {
		return
	}

	reservation, err := h.service.CancelReservation(r.Context(), business, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "cancel reservation")
		return
	}

	utils.ResponseSuccess(w, "Reservation canceled", reservation)
}

// GetAvailability handles GET /api/availability?date=&time=
func (h *ReservationHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	business, ok := h.currentBusiness(w, r, "get availability")
	if !ok {
		return
	}

	req := &request.AvailabilityRequest{
		Date: r.URL.Query().Get("date"),
		Time: r.URL.Query().Get("time"),
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	availability, err := h.service.GetAvailability(r.Context(), business, req)
	if err != nil {
		handleServiceError(w, h.log, err, "get availability")
		return
	}

	utils.ResponseSuccess(w, "success", availability)
}

func (h *ReservationHandler) currentBusiness(w http.ResponseWriter, r *http.Request, operation string) (*entity.Business, bool) {
	businessID, ok := utils.GetBusinessIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return nil, false
	}

	business, err := h.business.ResolveByID(r.Context(), businessID)
	if err != nil {
		handleServiceError(w, h.log, err, operation)
		return nil, false
	}
	return business, true
}
