package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"reservation-bot/internal/data/entity"
	"reservation-bot/internal/data/repository"
	"reservation-bot/internal/dto/request"
	"reservation-bot/internal/dto/response"
	"reservation-bot/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InboundSummary counts what one webhook delivery contained.
type InboundSummary struct {
	Handled    int `json:"handled"`
	Duplicates int `json:"duplicates"`
	Ignored    int `json:"ignored"`
}

// InboundService feeds customer messages into the dialogue.
type InboundService interface {
	// HandleWebhook processes every text message of a Meta delivery. An
	// error means the delivery should be retried by the provider; messages
	// handled before the error stay marked and are skipped on redelivery.
	HandleWebhook(ctx context.Context, payload *request.WebhookPayload) (*InboundSummary, error)
	// HandleInjected runs one message for businessID without de-duplication.
	HandleInjected(ctx context.Context, businessID uuid.UUID, req *request.MessageRequest) (*response.DialogueResponse, error)
}

type inboundService struct {
	businesses BusinessService
	processed  repository.ProcessedMessageRepository
	dialogue   DialogueService
	metrics    *metrics.BotMetrics
	log        *zap.Logger
}

func NewInboundService(
	businesses BusinessService,
	processed repository.ProcessedMessageRepository,
	dialogue DialogueService,
	m *metrics.BotMetrics,
	log *zap.Logger,
) InboundService {
	return &inboundService{
		businesses: businesses,
		processed:  processed,
		dialogue:   dialogue,
		metrics:    m,
		log:        log.With(zap.String("service", "inbound")),
	}
}

func (s *inboundService) HandleWebhook(ctx context.Context, payload *request.WebhookPayload) (*InboundSummary, error) {
	summary := &InboundSummary{}
	provider := string(entity.ProviderMeta)

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if change.Field != "" && change.Field != "messages" {
				continue
			}
			value := change.Value
			if len(value.Messages) == 0 {
				// delivery receipts only
				continue
			}

			business, err := s.businesses.ResolveByPhoneNumberID(ctx, value.Metadata.PhoneNumberID)
			if errors.Is(err, ErrNotFound) {
				s.log.Warn("Webhook for unknown phone number id",
					zap.String("phone_number_id", value.Metadata.PhoneNumberID),
					zap.Int("messages", len(value.Messages)))
				summary.Ignored += len(value.Messages)
				s.metrics.ObserveInbound(provider, "unknown_business")
				continue
			}
			if err != nil {
				return summary, err
			}

			for _, msg := range value.Messages {
				if err := s.handleOne(ctx, business, msg, summary); err != nil {
					return summary, err
				}
			}
		}
	}

	return summary, nil
}

func (s *inboundService) handleOne(ctx context.Context, business *entity.Business, msg request.WebhookMessage, summary *InboundSummary) error {
	provider := string(entity.ProviderMeta)

	if msg.Type != "text" || msg.Text == nil || strings.TrimSpace(msg.Text.Body) == "" || msg.From == "" {
		s.log.Debug("Ignoring non-text message", zap.String("message_id", msg.ID), zap.String("type", msg.Type))
		summary.Ignored++
		s.metrics.ObserveInbound(provider, "ignored")
		return nil
	}

	fresh, err := s.processed.MarkProcessed(ctx, provider, msg.ID)
	if err != nil {
		s.metrics.ObserveInbound(provider, "error")
		return repoErr("mark message processed", err)
	}
	if !fresh {
		s.log.Info("Skipping duplicate message", zap.String("message_id", msg.ID))
		summary.Duplicates++
		s.metrics.ObserveInbound(provider, "duplicate")
		return nil
	}

	_, err = s.dialogue.HandleMessage(ctx, &InboundMessage{
		Business: business,
		Phone:    msg.From,
		Text:     msg.Text.Body,
	})
	if err != nil {
		if !retryable(err) {
			s.log.Warn("Dropping message", zap.Error(err), zap.String("message_id", msg.ID))
			summary.Ignored++
			s.metrics.ObserveInbound(provider, "dropped")
			return nil
		}

		// forget the mark so the provider's redelivery is handled
		if unmarkErr := s.processed.Unmark(context.WithoutCancel(ctx), provider, msg.ID); unmarkErr != nil {
			s.log.Error("Failed to unmark message", zap.Error(unmarkErr), zap.String("message_id", msg.ID))
		}
		s.metrics.ObserveInbound(provider, "error")
		return fmt.Errorf("handle message %s: %w", msg.ID, err)
	}

	summary.Handled++
	s.metrics.ObserveInbound(provider, "handled")
	return nil
}

func (s *inboundService) HandleInjected(ctx context.Context, businessID uuid.UUID, req *request.MessageRequest) (*response.DialogueResponse, error) {
	business, err := s.businesses.ResolveByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	result, err := s.dialogue.HandleMessage(ctx, &InboundMessage{
		Business: business,
		Phone:    req.Phone,
		Text:     req.Text,
	})
	if err != nil {
		s.metrics.ObserveInbound("api", "error")
		return nil, err
	}
	s.metrics.ObserveInbound("api", "handled")

	return dialogueToResponse(result), nil
}

func dialogueToResponse(result *DialogueResult) *response.DialogueResponse {
	resp := &response.DialogueResponse{
		Outcome:  string(result.Outcome),
		Step:     string(result.Step),
		Replies:  result.Replies,
		Canceled: result.Canceled,
	}
	if resp.Replies == nil {
		resp.Replies = []string{}
	}
	if result.Reservation != nil {
		r := response.ReservationToResponse(result.Reservation)
		resp.Reservation = &r
	}
	if result.Conflict != nil {
		resp.Suggestions = result.Conflict.Suggestions
	}
	return resp
}

// retryable reports whether a redelivery could succeed.
func retryable(err error) bool {
	return errors.Is(err, ErrRepository) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
