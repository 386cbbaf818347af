package wire

import (
	"reservation-bot/internal/adaptor"
	"reservation-bot/internal/data/repository"
	"reservation-bot/pkg/middleware"
	"reservation-bot/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// per-IP limiter against credential stuffing
	limited := r.With(middleware.RateLimit(config.Auth.LoginPerMinute, log))
	limited.Post("/api/register", authHandler.Register)
	limited.Post("/api/login", authHandler.Login)

	// ==================== PROTECTED ROUTES ====================
	r.With(middleware.AuthSession(repo.Session, log)).Post("/api/logout", authHandler.Logout)
}
