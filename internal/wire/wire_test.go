package wire

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reservation-bot/internal/data/repository"
	"reservation-bot/internal/usecase"
	"reservation-bot/pkg/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	config := &utils.Config{
		Auth:         utils.AuthConfig{SessionExpiryHours: 24, LoginPerMinute: 10},
		Conversation: utils.ConversationConfig{SessionTTL: 30 * time.Minute, MaxSuggestions: 3, BusinessCacheTTL: time.Minute},
		WhatsApp:     utils.WhatsAppConfig{VerifyToken: "secret", AppSecret: "app-secret"},
	}

	log := zap.NewNop()
	repo := repository.NewRepository(mock, rdb, config.Conversation.SessionTTL, log)
	return Wiring(repo, usecase.Collaborators{}, prometheus.NewRegistry(), config, log)
}

func TestRoutes(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name   string
		method string
		path   string
		code   int
	}{
		{"health", http.MethodGet, "/health", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
		{"webhook handshake", http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=secret&hub.challenge=42", http.StatusOK},
		{"webhook bad token", http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=nope&hub.challenge=42", http.StatusForbidden},
		{"unsigned delivery", http.MethodPost, "/webhook", http.StatusUnauthorized},
		{"business needs auth", http.MethodGet, "/api/business", http.StatusUnauthorized},
		{"services need auth", http.MethodGet, "/api/services", http.StatusUnauthorized},
		{"reservations need auth", http.MethodGet, "/api/reservations", http.StatusUnauthorized},
		{"availability needs auth", http.MethodGet, "/api/availability", http.StatusUnauthorized},
		{"inject needs auth", http.MethodPost, "/api/messages", http.StatusUnauthorized},
		{"logout needs auth", http.MethodPost, "/api/logout", http.StatusUnauthorized},
		{"unknown", http.MethodGet, "/api/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			app.Router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
