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

type ServiceRepository interface {
	Create(ctx context.Context, service *entity.Service) error
	FindByID(ctx context.Context, businessID, id uuid.UUID) (*entity.Service, error)
	// FindByName matches the canonical name case-insensitively.
	FindByName(ctx context.Context, businessID uuid.UUID, name string) (*entity.Service, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*entity.Service, error)
	ListNames(ctx context.Context, businessID uuid.UUID) ([]string, error)
	Update(ctx context.Context, service *entity.Service) error
	Delete(ctx context.Context, businessID, id uuid.UUID) error
}

type serviceRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewServiceRepository(db database.PgxIface, log *zap.Logger) ServiceRepository {
	return &serviceRepository{
		db:  db,
		log: log.With(zap.String("repository", "service")),
	}
}

func (r *serviceRepository) Create(ctx context.Context, service *entity.Service) error {
	query := `
		INSERT INTO services (id, business_id, name, price, duration_min, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		service.ID,
		service.BusinessID,
		service.Name,
		service.Price,
		service.DurationMin,
		service.CreatedAt,
		service.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create service",
			zap.Error(err),
			zap.String("business_id", service.BusinessID.String()),
			zap.String("name", service.Name))
		if isUniqueViolation(err) {
			return fmt.Errorf("create service %s: %w", service.Name, ErrDuplicate)
		}
		return fmt.Errorf("create service %s: %w", service.Name, err)
	}
	return nil
}

func (r *serviceRepository) FindByID(ctx context.Context, businessID, id uuid.UUID) (*entity.Service, error) {
	query := `
		SELECT id, business_id, name, price, duration_min, created_at, updated_at
		FROM services
		WHERE business_id = $1 AND id = $2
	`

	service, err := scanService(r.db.QueryRow(ctx, query, businessID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find service", zap.Error(err), zap.String("service_id", id.String()))
		return nil, fmt.Errorf("find service %s: %w", id, err)
	}
	return service, nil
}

func (r *serviceRepository) FindByName(ctx context.Context, businessID uuid.UUID, name string) (*entity.Service, error) {
	query := `
		SELECT id, business_id, name, price, duration_min, created_at, updated_at
		FROM services
		WHERE business_id = $1 AND LOWER(name) = LOWER($2)
		LIMIT 1
	`

	service, err := scanService(r.db.QueryRow(ctx, query, businessID, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find service by name",
			zap.Error(err),
			zap.String("business_id", businessID.String()),
			zap.String("name", name))
		return nil, fmt.Errorf("find service by name %s: %w", name, err)
	}
	return service, nil
}

func (r *serviceRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*entity.Service, error) {
	query := `
		SELECT id, business_id, name, price, duration_min, created_at, updated_at
		FROM services
		WHERE business_id = $1
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, businessID)
	if err != nil {
		r.log.Error("Failed to list services", zap.Error(err), zap.String("business_id", businessID.String()))
		return nil, fmt.Errorf("list services of %s: %w", businessID, err)
	}
	defer rows.Close()

	var services []*entity.Service
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			r.log.Error("Failed to scan service row", zap.Error(err))
			return nil, fmt.Errorf("scan service row: %w", err)
		}
		services = append(services, service)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate service rows: %w", err)
	}
	return services, nil
}

func (r *serviceRepository) ListNames(ctx context.Context, businessID uuid.UUID) ([]string, error) {
	query := `SELECT name FROM services WHERE business_id = $1 ORDER BY name`

	rows, err := r.db.Query(ctx, query, businessID)
	if err != nil {
		r.log.Error("Failed to list service names", zap.Error(err), zap.String("business_id", businessID.String()))
		return nil, fmt.Errorf("list service names of %s: %w", businessID, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan service name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate service names: %w", err)
	}
	return names, nil
}

func (r *serviceRepository) Update(ctx context.Context, service *entity.Service) error {
	query := `
		UPDATE services
		SET name = $3, price = $4, duration_min = $5, updated_at = $6
		WHERE business_id = $1 AND id = $2
	`

	result, err := r.db.Exec(ctx, query,
		service.BusinessID,
		service.ID,
		service.Name,
		service.Price,
		service.DurationMin,
		service.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update service", zap.Error(err), zap.String("service_id", service.ID.String()))
		if isUniqueViolation(err) {
			return fmt.Errorf("update service %s: %w", service.Name, ErrDuplicate)
		}
		return fmt.Errorf("update service %s: %w", service.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("service %s: %w", service.ID, ErrNotFound)
	}
	return nil
}

func (r *serviceRepository) Delete(ctx context.Context, businessID, id uuid.UUID) error {
	query := `DELETE FROM services WHERE business_id = $1 AND id = $2`

	result, err := r.db.Exec(ctx, query, businessID, id)
	if err != nil {
		r.log.Error("Failed to delete service", zap.Error(err), zap.String("service_id", id.String()))
		return fmt.Errorf("delete service %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("service %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanService(row pgx.Row) (*entity.Service, error) {
	var s entity.Service
	err := row.Scan(
		&s.ID,
		&s.BusinessID,
		&s.Name,
		&s.Price,
		&s.DurationMin,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
