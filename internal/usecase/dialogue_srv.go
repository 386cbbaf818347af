package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"reservation-bot/internal/data/entity"
	"reservation-bot/internal/data/repository"
	"reservation-bot/pkg/metrics"
	"reservation-bot/pkg/utils"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Outcome string

const (
	OutcomeIgnored    Outcome = "ignored"
	OutcomePrompted   Outcome = "prompted"
	OutcomeReprompted Outcome = "reprompted"
	OutcomeConflict   Outcome = "conflict"
	OutcomeConfirmed  Outcome = "confirmed"
	OutcomeCanceled   Outcome = "canceled"
)

var (
	cancelWords = []string{"cancel", "delete"}
	bookWords   = []string{"book", "appointment", "reserve"}
)

// InboundMessage is one customer text addressed to a business.
type InboundMessage struct {
	Business *entity.Business
	Phone    string
	Text     string
}

// DialogueResult describes what handling one message did. Step is empty
// when no conversation remains.
type DialogueResult struct {
	Outcome     Outcome
	Step        entity.ConversationStep
	Replies     []string
	Reservation *entity.Reservation
	Conflict    *ConflictError
	Canceled    int64
}

// DialogueService runs the booking conversation. Messages for the same
// (business, phone) are handled one at a time in arrival order.
type DialogueService interface {
	HandleMessage(ctx context.Context, msg *InboundMessage) (*DialogueResult, error)
}

// Collaborators are the outside systems the dialogue talks to. Calendar
// and Classifier may be nil.
type Collaborators struct {
	Notifier   Notifier
	Calendar   Calendar
	Classifier Classifier
}

type dialogueService struct {
	repo         *repository.Repository
	resolver     ServiceResolver
	availability AvailabilityIndex
	suggester    SlotSuggester
	notifier     Notifier
	calendar     Calendar
	sessions     *keyedMutex
	slots        *keyedMutex
	config       utils.ConversationConfig
	calTimeout   time.Duration
	metrics      *metrics.BotMetrics
	tracer       trace.Tracer
	now          func() time.Time
	log          *zap.Logger
}

func NewDialogueService(
	repo *repository.Repository,
	collab Collaborators,
	config *utils.Config,
	m *metrics.BotMetrics,
	log *zap.Logger,
) DialogueService {
	availability := NewAvailabilityIndex(repo.Reservation)
	return &dialogueService{
		repo:         repo,
		resolver:     NewServiceResolver(repo.Service, collab.Classifier, m, log),
		availability: availability,
		suggester:    NewSlotSuggester(availability),
		notifier:     collab.Notifier,
		calendar:     collab.Calendar,
		sessions:     newKeyedMutex(),
		slots:        newKeyedMutex(),
		config:       config.Conversation,
		calTimeout:   config.Calendar.Timeout,
		metrics:      m,
		tracer:       otel.Tracer("reservation-bot.usecase.dialogue"),
		now:          time.Now,
		log:          log.With(zap.String("service", "dialogue")),
	}
}

func (d *dialogueService) HandleMessage(ctx context.Context, msg *InboundMessage) (*DialogueResult, error) {
	if msg == nil || msg.Business == nil || strings.TrimSpace(msg.Phone) == "" {
		return nil, fmt.Errorf("handle message: %w: business and phone are required", ErrValidation)
	}
	business := msg.Business
	phone := strings.TrimSpace(msg.Phone)

	ctx, span := d.tracer.Start(ctx, "dialogue.handle_message", trace.WithAttributes(
		attribute.String("business_id", business.ID.String()),
	))
	defer span.End()
	start := time.Now()

	unlock, err := d.sessions.Lock(ctx, sessionKey(business.ID, phone))
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("wait for conversation %s: %w", phone, err)
	}
	defer unlock()

	result, err := d.dispatch(ctx, business, phone, strings.TrimSpace(msg.Text))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "handle message failed")
		d.log.Error("Failed to handle message",
			zap.Error(err),
			zap.String("business_id", business.ID.String()),
			zap.String("phone", phone))
		d.metrics.ObserveOutcome("error", time.Since(start).Seconds())
		return nil, err
	}

	span.SetAttributes(attribute.String("outcome", string(result.Outcome)))
	d.metrics.ObserveOutcome(string(result.Outcome), time.Since(start).Seconds())
	return result, nil
}

func (d *dialogueService) dispatch(ctx context.Context, business *entity.Business, phone, text string) (*DialogueResult, error) {
	lower := strings.ToLower(text)

	// book is checked first: "I want to book, not cancel" restarts
	if containsAny(lower, bookWords) {
		return d.startBooking(ctx, business, phone)
	}
	if containsAny(lower, cancelWords) {
		return d.cancelAll(ctx, business, phone)
	}

	session, err := d.repo.Conversation.Get(ctx, business.ID, phone)
	if err != nil {
		return nil, repoErr("load conversation", err)
	}
	if session == nil {
		return d.unsolicited(ctx, business, phone), nil
	}

	switch session.Step {
	case entity.StepAwaitingName:
		return d.acceptName(ctx, business, session, text)
	case entity.StepAwaitingService:
		return d.acceptService(ctx, business, session, text)
	case entity.StepAwaitingDate:
		return d.acceptDate(ctx, business, session, text)
	default:
		return d.acceptTime(ctx, business, session, text)
	}
}

// ==================== GLOBAL INTENTS ====================

func (d *dialogueService) cancelAll(ctx context.Context, business *entity.Business, phone string) (*DialogueResult, error) {
	n, err := d.repo.Reservation.CancelActiveByCustomer(ctx, business.ID, phone)
	if err != nil {
		return nil, repoErr("cancel reservations", err)
	}
	if err := d.repo.Conversation.Delete(ctx, business.ID, phone); err != nil {
		return nil, repoErr("delete conversation", err)
	}

	d.log.Info("Customer canceled reservations",
		zap.String("business_id", business.ID.String()),
		zap.String("phone", phone),
		zap.Int64("canceled", n))

	result := &DialogueResult{Outcome: OutcomeCanceled, Canceled: n}
	d.reply(ctx, business, phone, result, msgCanceledAll)
	return result, nil
}

func (d *dialogueService) startBooking(ctx context.Context, business *entity.Business, phone string) (*DialogueResult, error) {
	session := entity.NewConversationSession(business.ID, phone, d.now())
	if err := d.repo.Conversation.Save(ctx, session); err != nil {
		return nil, repoErr("start conversation", err)
	}

	result := &DialogueResult{Outcome: OutcomePrompted, Step: session.Step}
	d.reply(ctx, business, phone, result, msgAskName)
	return result, nil
}

func (d *dialogueService) unsolicited(ctx context.Context, business *entity.Business, phone string) *DialogueResult {
	if !d.config.HelpOnUnsolicited {
		d.log.Debug("Ignoring message outside a conversation",
			zap.String("business_id", business.ID.String()),
			zap.String("phone", phone))
		return &DialogueResult{Outcome: OutcomeIgnored}
	}

	result := &DialogueResult{Outcome: OutcomePrompted}
	d.reply(ctx, business, phone, result, msgHelp)
	return result
}

// ==================== STEPS ====================

func (d *dialogueService) acceptName(ctx context.Context, business *entity.Business, session *entity.ConversationSession, text string) (*DialogueResult, error) {
	if text == "" {
		return d.reprompt(ctx, business, session, msgAskName), nil
	}
	if err := session.AcceptName(text, d.now()); err != nil {
		return nil, err
	}
	if err := d.repo.Conversation.Save(ctx, session); err != nil {
		return nil, repoErr("save conversation", err)
	}

	names, err := d.repo.Service.ListNames(ctx, business.ID)
	if err != nil {
		// the prompt degrades to examples; the step already advanced
		d.log.Warn("Failed to list services for prompt", zap.Error(err), zap.String("business_id", business.ID.String()))
		names = nil
	}

	result := &DialogueResult{Outcome: OutcomePrompted, Step: session.Step}
	d.reply(ctx, business, session.Phone, result, msgAskService(session.Name, names))
	return result, nil
}

func (d *dialogueService) acceptService(ctx context.Context, business *entity.Business, session *entity.ConversationSession, text string) (*DialogueResult, error) {
	service := d.resolver.Resolve(ctx, business, text)
	if service == "" {
		return d.reprompt(ctx, business, session, msgAskService(session.Name, nil)), nil
	}
	if err := session.AcceptService(service, d.now()); err != nil {
		return nil, err
	}
	if err := d.repo.Conversation.Save(ctx, session); err != nil {
		return nil, repoErr("save conversation", err)
	}

	result := &DialogueResult{Outcome: OutcomePrompted, Step: session.Step}
	d.reply(ctx, business, session.Phone, result, msgAskDate(service))
	return result, nil
}

func (d *dialogueService) acceptDate(ctx context.Context, business *entity.Business, session *entity.ConversationSession, text string) (*DialogueResult, error) {
	if text == "" {
		return d.reprompt(ctx, business, session, msgAskDate(session.Service)), nil
	}
	if err := session.AcceptDate(text, d.now()); err != nil {
		return nil, err
	}
	if err := d.repo.Conversation.Save(ctx, session); err != nil {
		return nil, repoErr("save conversation", err)
	}

	result := &DialogueResult{Outcome: OutcomePrompted, Step: session.Step}
	d.reply(ctx, business, session.Phone, result, msgAskTime)
	return result, nil
}

func (d *dialogueService) acceptTime(ctx context.Context, business *entity.Business, session *entity.ConversationSession, text string) (*DialogueResult, error) {
	hhmm, err := NormalizeTime(text)
	if errors.Is(err, ErrTimeNotParseable) {
		return d.reprompt(ctx, business, session, msgTimeNotParseable), nil
	}
	if err != nil {
		return nil, err
	}

	unlock, err := d.slots.Lock(ctx, slotKey(business.ID, session.Date, hhmm))
	if err != nil {
		return nil, fmt.Errorf("wait for slot %s %s: %w", session.Date, hhmm, err)
	}
	defer unlock()

	taken, err := d.availability.IsTaken(ctx, business, session.Date, hhmm)
	if err != nil {
		return nil, err
	}
	if taken {
		return d.conflict(ctx, business, session, hhmm)
	}

	svc, err := d.repo.Service.FindByName(ctx, business.ID, session.Service)
	if err != nil {
		return nil, repoErr("find service", err)
	}
	info := svc.Info()

	now := d.now()
	reservation := &entity.Reservation{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BusinessID:    business.ID,
		CustomerName:  session.Name,
		CustomerPhone: session.Phone,
		Service:       session.Service,
		Date:          session.Date,
		Time:          hhmm,
		Status:        entity.ReservationConfirmed,
	}

	if err := d.repo.Reservation.Create(ctx, reservation); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			// another instance won the slot between check and insert
			return d.conflict(ctx, business, session, hhmm)
		}
		return nil, repoErr("create reservation", err)
	}

	if err := d.repo.Conversation.Delete(ctx, business.ID, session.Phone); err != nil {
		d.log.Error("Failed to delete finished conversation",
			zap.Error(err),
			zap.String("reservation_id", reservation.ID.String()))
	}

	d.log.Info("Reservation confirmed",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("business_id", business.ID.String()),
		zap.String("service", reservation.Service),
		zap.String("date", reservation.Date),
		zap.String("time", reservation.Time))

	result := &DialogueResult{Outcome: OutcomeConfirmed, Reservation: reservation}
	d.reply(ctx, business, session.Phone, result, msgBookingConfirmed(reservation, info))
	d.addToCalendar(ctx, business, reservation, info)
	return result, nil
}

func (d *dialogueService) conflict(ctx context.Context, business *entity.Business, session *entity.ConversationSession, hhmm string) (*DialogueResult, error) {
	suggestions, err := d.suggester.Suggest(ctx, business, session.Date, hhmm, d.config.MaxSuggestions)
	if err != nil {
		return nil, err
	}

	result := &DialogueResult{
		Outcome:  OutcomeConflict,
		Step:     session.Step,
		Conflict: &ConflictError{Date: session.Date, Time: hhmm, Suggestions: suggestions},
	}
	d.reply(ctx, business, session.Phone, result, msgSlotTaken(session.Date, hhmm, suggestions))
	return result, nil
}

// ==================== HELPER METHODS ====================

func (d *dialogueService) reprompt(ctx context.Context, business *entity.Business, session *entity.ConversationSession, text string) *DialogueResult {
	result := &DialogueResult{Outcome: OutcomeReprompted, Step: session.Step}
	d.reply(ctx, business, session.Phone, result, text)
	return result
}

// reply records text on result and sends it. Delivery failures are logged
// and counted, never returned.
func (d *dialogueService) reply(ctx context.Context, business *entity.Business, phone string, result *DialogueResult, text string) {
	result.Replies = append(result.Replies, text)
	notify(ctx, d.notifier, d.metrics, d.log, business, phone, text)
}

func (d *dialogueService) addToCalendar(ctx context.Context, business *entity.Business, r *entity.Reservation, info entity.ServiceInfo) {
	if d.calendar == nil {
		return
	}
	if d.calTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.calTimeout)
		defer cancel()
	}

	eventID, err := d.calendar.CreateEvent(ctx, &CalendarEvent{
		Summary:         calendarSummary(r),
		Description:     calendarDescription(r, info),
		Date:            r.Date,
		Time:            r.Time,
		DurationMinutes: info.DurationMin,
		CalendarID:      business.CalendarOrDefault(),
		Timezone:        business.TimezoneOrDefault(),
	})
	if err != nil {
		d.log.Error("Failed to create calendar event",
			zap.Error(collaboratorErr("create calendar event", err)),
			zap.String("reservation_id", r.ID.String()))
		d.metrics.ObserveCollaboratorFailure("calendar")
		return
	}
	d.log.Info("Calendar event created",
		zap.String("reservation_id", r.ID.String()),
		zap.String("event_id", eventID))
}

func notify(ctx context.Context, notifier Notifier, m *metrics.BotMetrics, log *zap.Logger, business *entity.Business, phone, text string) {
	if notifier == nil {
		return
	}
	err := notifier.Send(ctx, phone, text, business)
	m.ObserveOutbound(string(business.Provider), err)
	if err != nil {
		log.Error("Failed to send message",
			zap.Error(collaboratorErr("send message", err)),
			zap.String("business_id", business.ID.String()),
			zap.String("phone", phone))
		m.ObserveCollaboratorFailure("notifier")
	}
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func sessionKey(businessID uuid.UUID, phone string) string {
	return businessID.String() + "|" + phone
}

func slotKey(businessID uuid.UUID, date, hhmm string) string {
	return businessID.String() + "|" + date + "|" + hhmm
}
