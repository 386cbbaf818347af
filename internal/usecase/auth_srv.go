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
	"reservation-bot/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	// Register creates a business and its owner account, then logs the
	// owner in.
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	repo   *repository.Repository // grouping business, user & session repos
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}
	if entity.Provider(req.Provider) == entity.ProviderMeta && (req.PhoneNumberID == nil || strings.TrimSpace(*req.PhoneNumberID) == "") {
		return nil, fmt.Errorf("%w: phone_number_id is required for meta", ErrValidation)
	}

	// 2. Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("process password: %w", err)
	}

	// 3. Build business and owner
	now := time.Now()
	business := &entity.Business{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:          strings.TrimSpace(req.BusinessName),
		Provider:      entity.Provider(req.Provider),
		PhoneNumberID: req.PhoneNumberID,
		AccessToken:   req.AccessToken,
		APIKey:        req.APIKey,
		CalendarID:    entity.DefaultCalendarID,
		Timezone:      req.Timezone,
		OpenStart:     entity.DefaultOpenStart,
		OpenEnd:       entity.DefaultOpenEnd,
		SlotStepMin:   entity.DefaultSlotStepMin,
	}
	if business.Timezone == "" {
		business.Timezone = entity.DefaultTimezone
	}

	owner := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BusinessID:   business.ID,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hashedPassword,
		IsActive:     true,
	}

	// 4. Save both in one transaction
	if err := s.repo.Business.CreateWithOwner(ctx, business, owner); err != nil {
		return nil, repoErr("register business", err)
	}

	// 5. Auto login
	session, err := s.createSession(ctx, owner.ID)
	if err != nil {
		s.log.Warn("Failed to create session after register",
			zap.Error(err), zap.String("user_id", owner.ID.String()))
	}

	s.log.Info("Business registered",
		zap.String("business_id", business.ID.String()),
		zap.String("user_id", owner.ID.String()),
		zap.String("provider", string(business.Provider)))

	resp := response.AuthToResponse(owner, session)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	// 2. Find user
	user, err := s.repo.User.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, repoErr("find user", err)
	}
	if user == nil {
		s.log.Warn("User not found for login", zap.String("email", req.Email))
		return nil, ErrInvalidCredentials
	}

	// 3. Check password
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	// 4. Check if user is active
	if !user.IsActive {
		s.log.Warn("Inactive user tried to login", zap.String("user_id", user.ID.String()))
		return nil, ErrAccountDisabled
	}

	// 5. Create session
	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, repoErr("create session", err)
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("business_id", user.BusinessID.String()))

	resp := response.AuthToResponse(user, session)
	return &resp, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	tokenUUID, err := uuid.Parse(token)
	if err != nil {
		s.log.Warn("Invalid token format", zap.Error(err))
		return fmt.Errorf("%w: invalid token format", ErrValidation)
	}

	if err := s.repo.Session.Revoke(ctx, tokenUUID.String()); err != nil {
		return repoErr("revoke session", err)
	}

	s.log.Info("User logged out")
	return nil
}

// ==================== HELPER METHODS ====================

func (s *authService) createSession(ctx context.Context, userID uuid.UUID) (*entity.Session, error) {
	hours := s.config.Auth.SessionExpiryHours
	if hours <= 0 {
		hours = 24
	}

	now := time.Now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    userID,
		Token:     uuid.New(),
		ExpiresAt: now.Add(time.Duration(hours) * time.Hour),
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}
