package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"reservation-bot/internal/data/entity"
	"reservation-bot/internal/data/repository"
	"reservation-bot/internal/dto/request"
	"reservation-bot/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogService manages the services a business offers. Names are the
// canonical names the dialogue resolves to and looks prices up by.
type CatalogService interface {
	ListServices(ctx context.Context, businessID uuid.UUID) ([]response.ServiceResponse, error)
	CreateService(ctx context.Context, businessID uuid.UUID, req *request.ServiceRequest) (*response.ServiceResponse, error)
	UpdateService(ctx context.Context, businessID uuid.UUID, serviceID string, req *request.ServiceUpdateRequest) (*response.ServiceResponse, error)
	DeleteService(ctx context.Context, businessID uuid.UUID, serviceID string) error
}

type catalogService struct {
	repo repository.ServiceRepository
	log  *zap.Logger
}

func NewCatalogService(repo repository.ServiceRepository, log *zap.Logger) CatalogService {
	return &catalogService{
		repo: repo,
		log:  log.With(zap.String("service", "catalog")),
	}
}

func (s *catalogService) ListServices(ctx context.Context, businessID uuid.UUID) ([]response.ServiceResponse, error) {
	services, err := s.repo.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, repoErr("list services", err)
	}

	result := make([]response.ServiceResponse, 0, len(services))
	for _, svc := range services {
		result = append(result, response.ServiceToResponse(svc))
	}
	return result, nil
}

func (s *catalogService) CreateService(ctx context.Context, businessID uuid.UUID, req *request.ServiceRequest) (*response.ServiceResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	now := time.Now()
	svc := &entity.Service{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BusinessID:  businessID,
		Name:        name,
		Price:       req.Price,
		DurationMin: req.DurationMin,
	}

	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, repoErr("create service", err)
	}

	s.log.Info("Service created",
		zap.String("business_id", businessID.String()),
		zap.String("service_id", svc.ID.String()),
		zap.String("name", svc.Name))

	resp := response.ServiceToResponse(svc)
	return &resp, nil
}

func (s *catalogService) UpdateService(ctx context.Context, businessID uuid.UUID, serviceID string, req *request.ServiceUpdateRequest) (*response.ServiceResponse, error) {
	id, err := uuid.Parse(serviceID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid service ID", ErrValidation)
	}

	svc, err := s.repo.FindByID(ctx, businessID, id)
	if err != nil {
		return nil, repoErr("find service", err)
	}
	if svc == nil {
		return nil, fmt.Errorf("service %s: %w", serviceID, ErrNotFound)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", ErrValidation)
		}
		svc.Name = name
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.DurationMin != nil {
		svc.DurationMin = *req.DurationMin
	}
	svc.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, svc); err != nil {
		return nil, repoErr("update service", err)
	}

	s.log.Info("Service updated", zap.String("service_id", serviceID))

	resp := response.ServiceToResponse(svc)
	return &resp, nil
}

func (s *catalogService) DeleteService(ctx context.Context, businessID uuid.UUID, serviceID string) error {
	id, err := uuid.Parse(serviceID)
	if err != nil {
		return fmt.Errorf("%w: invalid service ID", ErrValidation)
	}

	if err := s.repo.Delete(ctx, businessID, id); err != nil {
		return repoErr("delete service", err)
	}

	s.log.Info("Service deleted", zap.String("service_id", serviceID))
	return nil
}
