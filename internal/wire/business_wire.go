package wire

import (
	"reservation-bot/internal/adaptor"
	"reservation-bot/internal/data/repository"
	"reservation-bot/pkg/middleware"
	"reservation-bot/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireBusiness mounts the settings and service catalog of the caller's business.
func wireBusiness(
	r chi.Router,
	businessHandler *adaptor.BusinessHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.Get("/api/business", businessHandler.GetBusiness)
		r.Put("/api/business", businessHandler.UpdateBusiness)

		r.Route("/api/services", func(r chi.Router) {
			r.Get("/", businessHandler.ListServices)
			r.Post("/", businessHandler.CreateService)
			r.Put("/{id}", businessHandler.UpdateService)
			r.Delete("/{id}", businessHandler.DeleteService)
		})
	})
}
