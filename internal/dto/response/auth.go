package response

import (
	"time"

	"reservation-bot/internal/data/entity"
)

type AuthResponse struct {
	UserID     string    `json:"user_id"`
	BusinessID string    `json:"business_id"`
	Email      string    `json:"email"`
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expires_at"`
}

func AuthToResponse(user *entity.User, session *entity.Session) AuthResponse {
	resp := AuthResponse{
		UserID:     user.ID.String(),
		BusinessID: user.BusinessID.String(),
		Email:      user.Email,
	}

	if session != nil {
		resp.Token = session.Token.String()
		resp.ExpiresAt = session.ExpiresAt
	}

	return resp
}
