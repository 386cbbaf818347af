package usecase

import (
	"reservation-bot/internal/data/repository"
	"reservation-bot/pkg/metrics"
	"reservation-bot/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth        AuthService
	Business    BusinessService
	Catalog     CatalogService
	Reservation ReservationService
	Dialogue    DialogueService
	Inbound     InboundService
}

func NewService(repo *repository.Repository, collab Collaborators, config *utils.Config, m *metrics.BotMetrics, log *zap.Logger) *Service {
	business := NewBusinessService(repo.Business, config.Conversation.BusinessCacheTTL, log)
	dialogue := NewDialogueService(repo, collab, config, m, log)

	return &Service{
		Auth:        NewAuthService(repo, config, log),
		Business:    business,
		Catalog:     NewCatalogService(repo.Service, log),
		Reservation: NewReservationService(repo.Reservation, collab.Notifier, config.Conversation.MaxSuggestions, m, log),
		Dialogue:    dialogue,
		Inbound:     NewInboundService(business, repo.ProcessedMessage, dialogue, m, log),
	}
}
