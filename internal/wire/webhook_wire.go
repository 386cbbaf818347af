package wire

import (
	"reservation-bot/internal/adaptor"
	"reservation-bot/internal/data/repository"
	"reservation-bot/pkg/middleware"
	"reservation-bot/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireWebhook(
	r chi.Router,
	webhookHandler *adaptor.WebhookHandler,
	messageHandler *adaptor.MessageHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROVIDER ROUTES ====================
	// Meta calls these directly, authenticated by the verify token handshake
	r.Get("/webhook", webhookHandler.Verify)
	r.Post("/webhook", webhookHandler.Receive)

	// ==================== PROTECTED ROUTES ====================
	r.With(middleware.AuthSession(repo.Session, log)).Post("/api/messages", messageHandler.Inject)
}
