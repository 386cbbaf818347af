package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"reservation-bot/internal/data/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultSessionTTL is the idle time after which an unfinished booking
// conversation is forgotten.
const DefaultSessionTTL = 30 * time.Minute

// ConversationRepository stores one booking conversation per
// (business, phone). Every Save refreshes the idle TTL.
type ConversationRepository interface {
	Get(ctx context.Context, businessID uuid.UUID, phone string) (*entity.ConversationSession, error)
	Save(ctx context.Context, session *entity.ConversationSession) error
	Delete(ctx context.Context, businessID uuid.UUID, phone string) error
}

type conversationRepository struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
	log    *zap.Logger
}

func NewConversationRepository(rdb *redis.Client, ttl time.Duration, log *zap.Logger) ConversationRepository {
	if rdb == nil {
		panic("repository: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &conversationRepository{
		redis:  rdb,
		ttl:    ttl,
		tracer: otel.Tracer("reservation-bot.repository.conversation"),
		log:    log.With(zap.String("repository", "conversation")),
	}
}

func conversationKey(businessID uuid.UUID, phone string) string {
	return fmt.Sprintf("conversation:%s:%s", businessID, phone)
}

func (r *conversationRepository) Get(ctx context.Context, businessID uuid.UUID, phone string) (*entity.ConversationSession, error) {
	ctx, span := r.tracer.Start(ctx, "conversation.get")
	defer span.End()

	key := conversationKey(businessID, phone)
	data, err := r.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		r.log.Error("Failed to load conversation", zap.Error(err), zap.String("key", key))
		return nil, fmt.Errorf("load conversation %s: %w", key, err)
	}

	var session entity.ConversationSession
	if err := json.Unmarshal(data, &session); err != nil || !session.Valid() {
		// unreadable state is dropped so the customer can start over
		r.log.Warn("Discarding invalid conversation", zap.String("key", key), zap.Error(err))
		if delErr := r.redis.Del(ctx, key).Err(); delErr != nil {
			span.RecordError(delErr)
			return nil, fmt.Errorf("discard conversation %s: %w", key, delErr)
		}
		return nil, nil
	}
	return &session, nil
}

func (r *conversationRepository) Save(ctx context.Context, session *entity.ConversationSession) error {
	ctx, span := r.tracer.Start(ctx, "conversation.save")
	defer span.End()

	data, err := json.Marshal(session)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("marshal conversation: %w", err)
	}

	key := conversationKey(session.BusinessID, session.Phone)
	if err := r.redis.Set(ctx, key, data, r.ttl).Err(); err != nil {
		span.RecordError(err)
		r.log.Error("Failed to save conversation", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("save conversation %s: %w", key, err)
	}
	return nil
}

func (r *conversationRepository) Delete(ctx context.Context, businessID uuid.UUID, phone string) error {
	ctx, span := r.tracer.Start(ctx, "conversation.delete")
	defer span.End()

	key := conversationKey(businessID, phone)
	if err := r.redis.Del(ctx, key).Err(); err != nil {
		span.RecordError(err)
		r.log.Error("Failed to delete conversation", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("delete conversation %s: %w", key, err)
	}
	return nil
}
