package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey     contextKey = "user_id"
	BusinessIDKey contextKey = "business_id"
	TokenKey      contextKey = "token"
)

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	return uuidFromContext(ctx, UserIDKey)
}

// GetBusinessIDFromContext returns the business the authenticated operator
// belongs to.
func GetBusinessIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	return uuidFromContext(ctx, BusinessIDKey)
}

func uuidFromContext(ctx context.Context, key contextKey) (uuid.UUID, bool) {
	val, ok := ctx.Value(key).(uuid.UUID)
	if !ok || val == uuid.Nil {
		return uuid.Nil, false
	}
	return val, true
}

func SetUserContext(ctx context.Context, userID, businessID uuid.UUID) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	ctx = context.WithValue(ctx, BusinessIDKey, businessID)
	return ctx
}

func GetTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok && token != ""
}

func SetTokenContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}
