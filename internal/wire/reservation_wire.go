package wire

import (
	"reservation-bot/internal/adaptor"
	"reservation-bot/internal/data/repository"
	"reservation-bot/pkg/middleware"
	"reservation-bot/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReservation(
	r chi.Router,
	reservationHandler *adaptor.ReservationHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.Route("/api/reservations", func(r chi.Router) {
			r.Get("/", reservationHandler.ListReservations)     // ?status=pending&page=1&per_page=10
			r.Get("/{id}", reservationHandler.GetReservation)
			r.Put("/{id}/confirm", reservationHandler.ConfirmReservation)
			r.Put("/{id}/cancel", reservationHandler.CancelReservation)
		})

		r.Get("/api/availability", reservationHandler.GetAvailability) // ?date=2025-11-20&time=16:00
	})
}
