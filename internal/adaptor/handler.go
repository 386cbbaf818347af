package adaptor

import (
	"reservation-bot/internal/usecase"
	"reservation-bot/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth        *AuthHandler
	Business    *BusinessHandler
	Reservation *ReservationHandler
	Message     *MessageHandler
	Webhook     *WebhookHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(service.Auth, log),
		Business:    NewBusinessHandler(service.Business, service.Catalog, log),
		Reservation: NewReservationHandler(service.Reservation, service.Business, log),
		Message:     NewMessageHandler(service.Inbound, log),
		Webhook:     NewWebhookHandler(service.Inbound, config.WhatsApp.VerifyToken, config.WhatsApp.AppSecret, log),
	}
}
