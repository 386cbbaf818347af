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
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const defaultBusinessCacheTTL = 5 * time.Minute

type BusinessService interface {
	// ResolveByPhoneNumberID routes an inbound webhook to its tenant.
	// Lookups are cached; unknown ids return ErrNotFound and are not cached.
	ResolveByPhoneNumberID(ctx context.Context, phoneNumberID string) (*entity.Business, error)
	ResolveByID(ctx context.Context, id uuid.UUID) (*entity.Business, error)
	GetBusiness(ctx context.Context, id uuid.UUID) (*response.BusinessResponse, error)
	UpdateBusiness(ctx context.Context, id uuid.UUID, req *request.UpdateBusinessRequest) (*response.BusinessResponse, error)
}

type businessService struct {
	repo  repository.BusinessRepository
	cache *cache.Cache
	log   *zap.Logger
}

func NewBusinessService(repo repository.BusinessRepository, ttl time.Duration, log *zap.Logger) BusinessService {
	if ttl <= 0 {
		ttl = defaultBusinessCacheTTL
	}
	return &businessService{
		repo:  repo,
		cache: cache.New(ttl, 2*ttl),
		log:   log.With(zap.String("service", "business")),
	}
}

func (s *businessService) ResolveByPhoneNumberID(ctx context.Context, phoneNumberID string) (*entity.Business, error) {
	key := "phone:" + phoneNumberID
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*entity.Business), nil
	}

	business, err := s.repo.FindByPhoneNumberID(ctx, phoneNumberID)
	if err != nil {
		return nil, repoErr("resolve business", err)
	}
	if business == nil {
		return nil, fmt.Errorf("business for phone number id %s: %w", phoneNumberID, ErrNotFound)
	}

	s.remember(business)
	return business, nil
}

func (s *businessService) ResolveByID(ctx context.Context, id uuid.UUID) (*entity.Business, error) {
	if cached, ok := s.cache.Get("id:" + id.String()); ok {
		return cached.(*entity.Business), nil
	}

	business, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repoErr("find business", err)
	}
	if business == nil {
		return nil, fmt.Errorf("business %s: %w", id, ErrNotFound)
	}

	s.remember(business)
	return business, nil
}

func (s *businessService) GetBusiness(ctx context.Context, id uuid.UUID) (*response.BusinessResponse, error) {
	business, err := s.ResolveByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := response.BusinessToResponse(business)
	return &resp, nil
}

func (s *businessService) UpdateBusiness(ctx context.Context, id uuid.UUID, req *request.UpdateBusinessRequest) (*response.BusinessResponse, error) {
	business, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repoErr("find business", err)
	}
	if business == nil {
		return nil, fmt.Errorf("business %s: %w", id, ErrNotFound)
	}

	previous := *business
	applyBusinessUpdate(business, req)

	if err := validateOpeningHours(business); err != nil {
		return nil, err
	}
	if business.Provider == entity.ProviderMeta && (business.PhoneNumberID == nil || *business.PhoneNumberID == "") {
		return nil, fmt.Errorf("%w: meta businesses need a phone_number_id", ErrValidation)
	}

	business.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, business); err != nil {
		s.log.Error("Failed to update business", zap.Error(err), zap.String("business_id", id.String()))
		return nil, repoErr("update business", err)
	}

	s.forget(&previous)
	s.forget(business)

	s.log.Info("Business settings updated", zap.String("business_id", id.String()))

	resp := response.BusinessToResponse(business)
	return &resp, nil
}

// ==================== HELPER METHODS ====================

func (s *businessService) remember(business *entity.Business) {
	s.cache.SetDefault("id:"+business.ID.String(), business)
	if business.PhoneNumberID != nil && *business.PhoneNumberID != "" {
		s.cache.SetDefault("phone:"+*business.PhoneNumberID, business)
	}
}

func (s *businessService) forget(business *entity.Business) {
	s.cache.Delete("id:" + business.ID.String())
	if business.PhoneNumberID != nil {
		s.cache.Delete("phone:" + *business.PhoneNumberID)
	}
}

func applyBusinessUpdate(b *entity.Business, req *request.UpdateBusinessRequest) {
	if req.Name != nil {
		b.Name = strings.TrimSpace(*req.Name)
	}
	if req.Provider != nil {
		b.Provider = entity.Provider(*req.Provider)
	}
	if req.PhoneNumberID != nil {
		id := strings.TrimSpace(*req.PhoneNumberID)
		b.PhoneNumberID = &id
	}
	if req.AccessToken != nil {
		b.AccessToken = *req.AccessToken
	}
	if req.APIKey != nil {
		b.APIKey = *req.APIKey
	}
	if req.CalendarID != nil {
		b.CalendarID = *req.CalendarID
	}
	if req.Timezone != nil {
		b.Timezone = *req.Timezone
	}
	if req.OpenStart != nil {
		b.OpenStart = *req.OpenStart
	}
	if req.OpenEnd != nil {
		b.OpenEnd = *req.OpenEnd
	}
	if req.SlotStepMin != nil {
		b.SlotStepMin = *req.SlotStepMin
	}
}

func validateOpeningHours(b *entity.Business) error {
	start, ok := minutesOf(b.OpeningStart())
	if !ok {
		return fmt.Errorf("%w: open_start must look like 09:00", ErrValidation)
	}
	end, ok := minutesOf(b.OpeningEnd())
	if !ok {
		return fmt.Errorf("%w: open_end must look like 18:00", ErrValidation)
	}
	if end < start {
		return fmt.Errorf("%w: open_end is before open_start", ErrValidation)
	}
	return nil
}
