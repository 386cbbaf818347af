package repository

import (
	"context"
	"fmt"

	"reservation-bot/pkg/database"

	"go.uber.org/zap"
)

// ProcessedMessageRepository de-duplicates webhook deliveries by provider
// message id.
type ProcessedMessageRepository interface {
	// MarkProcessed returns false if the message was already recorded.
	MarkProcessed(ctx context.Context, provider, messageID string) (bool, error)
	// Unmark forgets a message so a redelivery is handled again.
	Unmark(ctx context.Context, provider, messageID string) error
}

type processedMessageRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewProcessedMessageRepository(db database.PgxIface, log *zap.Logger) ProcessedMessageRepository {
	return &processedMessageRepository{
		db:  db,
		log: log.With(zap.String("repository", "processed_message")),
	}
}

func (r *processedMessageRepository) MarkProcessed(ctx context.Context, provider, messageID string) (bool, error) {
	query := `
		INSERT INTO processed_messages (provider, message_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	ct, err := r.db.Exec(ctx, query, provider, messageID)
	if err != nil {
		r.log.Error("Failed to mark message processed",
			zap.Error(err),
			zap.String("provider", provider),
			zap.String("message_id", messageID))
		return false, fmt.Errorf("mark processed %s/%s: %w", provider, messageID, err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *processedMessageRepository) Unmark(ctx context.Context, provider, messageID string) error {
	query := `DELETE FROM processed_messages WHERE provider = $1 AND message_id = $2`
	if _, err := r.db.Exec(ctx, query, provider, messageID); err != nil {
		r.log.Error("Failed to unmark message",
			zap.Error(err),
			zap.String("provider", provider),
			zap.String("message_id", messageID))
		return fmt.Errorf("unmark processed %s/%s: %w", provider, messageID, err)
	}
	return nil
}
