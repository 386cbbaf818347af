package repository

import (
	"context"
	"errors"
	"fmt"

	"reservation-bot/internal/data/entity"
	"reservation-bot/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BusinessRepository interface {
	// CreateWithOwner inserts a business and its first operator in one
	// transaction.
	CreateWithOwner(ctx context.Context, business *entity.Business, owner *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Business, error)
	FindByPhoneNumberID(ctx context.Context, phoneNumberID string) (*entity.Business, error)
	Update(ctx context.Context, business *entity.Business) error
}

type businessRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBusinessRepository(db database.PgxIface, log *zap.Logger) BusinessRepository {
	return &businessRepository{
		db:  db,
		log: log.With(zap.String("repository", "business")),
	}
}

const businessColumns = `id, name, provider, phone_number_id, access_token, api_key,
		       calendar_id, timezone, open_start, open_end, slot_step_min,
		       created_at, updated_at`

func (r *businessRepository) CreateWithOwner(ctx context.Context, business *entity.Business, owner *entity.User) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin register business: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO businesses (id, name, provider, phone_number_id, access_token, api_key,
		                        calendar_id, timezone, open_start, open_end, slot_step_min,
		                        created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		business.ID,
		business.Name,
		string(business.Provider),
		business.PhoneNumberID,
		business.AccessToken,
		business.APIKey,
		business.CalendarID,
		business.Timezone,
		business.OpenStart,
		business.OpenEnd,
		business.SlotStepMin,
		business.CreatedAt,
		business.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create business", zap.Error(err), zap.String("name", business.Name))
		if isUniqueViolation(err) {
			return fmt.Errorf("create business %s: phone number id %w", business.Name, ErrDuplicate)
		}
		return fmt.Errorf("create business %s: %w", business.Name, err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, business_id, email, password, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		owner.ID,
		business.ID,
		owner.Email,
		owner.PasswordHash,
		owner.IsActive,
		owner.CreatedAt,
		owner.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create business owner", zap.Error(err), zap.String("email", owner.Email))
		if isUniqueViolation(err) {
			return fmt.Errorf("create user %s: email %w", owner.Email, ErrDuplicate)
		}
		return fmt.Errorf("create user %s: %w", owner.Email, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit register business: %w", err)
	}
	return nil
}

func (r *businessRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE id = $1`

	business, err := scanBusiness(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find business by ID", zap.Error(err), zap.String("business_id", id.String()))
		return nil, fmt.Errorf("find business %s: %w", id, err)
	}
	return business, nil
}

func (r *businessRepository) FindByPhoneNumberID(ctx context.Context, phoneNumberID string) (*entity.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE phone_number_id = $1`

	business, err := scanBusiness(r.db.QueryRow(ctx, query, phoneNumberID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find business by phone number id",
			zap.Error(err),
			zap.String("phone_number_id", phoneNumberID))
		return nil, fmt.Errorf("find business by phone number id %s: %w", phoneNumberID, err)
	}
	return business, nil
}

func (r *businessRepository) Update(ctx context.Context, business *entity.Business) error {
	query := `
		UPDATE businesses
		SET name = $2, provider = $3, phone_number_id = $4, access_token = $5, api_key = $6,
		    calendar_id = $7, timezone = $8, open_start = $9, open_end = $10,
		    slot_step_min = $11, updated_at = $12
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		business.ID,
		business.Name,
		string(business.Provider),
		business.PhoneNumberID,
		business.AccessToken,
		business.APIKey,
		business.CalendarID,
		business.Timezone,
		business.OpenStart,
		business.OpenEnd,
		business.SlotStepMin,
		business.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update business", zap.Error(err), zap.String("business_id", business.ID.String()))
		if isUniqueViolation(err) {
			return fmt.Errorf("update business %s: phone number id %w", business.ID, ErrDuplicate)
		}
		return fmt.Errorf("update business %s: %w", business.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("business %s: %w", business.ID, ErrNotFound)
	}
	return nil
}

func scanBusiness(row pgx.Row) (*entity.Business, error) {
	var b entity.Business
	var provider string
	err := row.Scan(
		&b.ID,
		&b.Name,
		&provider,
		&b.PhoneNumberID,
		&b.AccessToken,
		&b.APIKey,
		&b.CalendarID,
		&b.Timezone,
		&b.OpenStart,
		&b.OpenEnd,
		&b.SlotStepMin,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Provider = entity.Provider(provider)
	return &b, nil
}
