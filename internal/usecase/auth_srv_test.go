package usecase

import (
	"context"
	"testing"
	"time"

	"reservation-bot/internal/data/entity"
	"reservation-bot/internal/data/repository"
	"reservation-bot/internal/dto/request"
	"reservation-bot/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type authFixture struct {
	businesses *fakeBusinessRepo
	users      *fakeUserRepo
	sessions   *fakeSessionRepo
	service    AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		businesses: newFakeBusinessRepo(),
		users:      &fakeUserRepo{},
		sessions:   &fakeSessionRepo{},
	}
	repo := &repository.Repository{Business: f.businesses, User: f.users, Session: f.sessions}
	config := &utils.Config{Auth: utils.AuthConfig{SessionExpiryHours: 2}}
	f.service = NewAuthService(repo, config, zap.NewNop())
	return f
}

func TestRegister(t *testing.T) {
	f := newAuthFixture()

	resp, err := f.service.Register(context.Background(), &request.RegisterRequest{
		BusinessName:  "Fade Studio",
		Email:         "Owner@Fade.test",
		Password:      "s3cret-pass",
		Provider:      "meta",
		PhoneNumberID: strPtr("1122334455"),
	})
	require.NoError(t, err)
	assert.Equal(t, "owner@fade.test", resp.Email)
	assert.NotEmpty(t, resp.Token)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), resp.ExpiresAt, time.Minute)

	require.Len(t, f.businesses.owners, 1)
	owner := f.businesses.owners[0]
	assert.NotEqual(t, "s3cret-pass", owner.PasswordHash)
	business := f.businesses.businesses[owner.BusinessID]
	require.NotNil(t, business)
	assert.Equal(t, entity.DefaultTimezone, business.Timezone)
	assert.Equal(t, entity.DefaultSlotStepMin, business.SlotStepMin)
}

func TestRegisterRejects(t *testing.T) {
	f := newAuthFixture()

	_, err := f.service.Register(context.Background(), &request.RegisterRequest{
		BusinessName: "Fade Studio", Email: "owner@fade.test", Password: "s3cret-pass", Provider: "meta",
	})
	assert.ErrorIs(t, err, ErrValidation, "meta needs a phone number id")

	_, err = f.service.Register(context.Background(), &request.RegisterRequest{
		BusinessName: "Fade Studio", Email: "not-an-email", Password: "short", Provider: "sms",
	})
	assert.ErrorIs(t, err, ErrValidation)

	req := &request.RegisterRequest{BusinessName: "Fade", Email: "owner@fade.test", Password: "s3cret-pass", Provider: "360dialog", APIKey: "k"}
	_, err = f.service.Register(context.Background(), req)
	require.NoError(t, err)
	_, err = f.service.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestLoginAndLogout(t *testing.T) {
	f := newAuthFixture()
	hash, err := utils.HashPassword("s3cret-pass")
	require.NoError(t, err)
	f.users.users = []*entity.User{
		{Base: entity.Base{ID: uuid.New()}, BusinessID: uuid.New(), Email: "owner@fade.test", PasswordHash: hash, IsActive: true},
		{Base: entity.Base{ID: uuid.New()}, BusinessID: uuid.New(), Email: "gone@fade.test", PasswordHash: hash, IsActive: false},
	}

	_, err = f.service.Login(context.Background(), &request.LoginRequest{Email: "owner@fade.test", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.service.Login(context.Background(), &request.LoginRequest{Email: "nobody@fade.test", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.service.Login(context.Background(), &request.LoginRequest{Email: "gone@fade.test", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrAccountDisabled)

	resp, err := f.service.Login(context.Background(), &request.LoginRequest{Email: "owner@fade.test", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, f.users.users[0].BusinessID.String(), resp.BusinessID)

	require.NoError(t, f.service.Logout(context.Background(), resp.Token))
	assert.Equal(t, []string{resp.Token}, f.sessions.revoked)

	assert.ErrorIs(t, f.service.Logout(context.Background(), "garbage"), ErrValidation)
	assert.ErrorIs(t, f.service.Logout(context.Background(), uuid.NewString()), ErrNotFound)
}
