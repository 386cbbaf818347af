package repository

import (
	"errors"
	"time"

	"reservation-bot/pkg/database"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned by updates that matched no row.
	ErrNotFound = errors.New("not found")
	// ErrSlotTaken reports a write rejected by the active-slot unique index.
	ErrSlotTaken = errors.New("slot already taken")
	// ErrDuplicate reports any other unique constraint violation.
	ErrDuplicate = errors.New("already exists")
	// ErrInvalidTransition reports a status update the stored row no longer allows.
	ErrInvalidTransition = errors.New("invalid status transition")
)

type Repository struct {
	Business         BusinessRepository
	Service          ServiceRepository
	Reservation      ReservationRepository
	User             UserRepository
	Session          SessionRepository
	ProcessedMessage ProcessedMessageRepository
	Conversation     ConversationRepository
}

func NewRepository(db database.PgxIface, rdb *redis.Client, sessionTTL time.Duration, log *zap.Logger) *Repository {
	return &Repository{
		Business:         NewBusinessRepository(db, log),
		Service:          NewServiceRepository(db, log),
		Reservation:      NewReservationRepository(db, log),
		User:             NewUserRepository(db, log),
		Session:          NewSessionRepository(db, log),
		ProcessedMessage: NewProcessedMessageRepository(db, log),
		Conversation:     NewConversationRepository(rdb, sessionTTL, log),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
