package adaptor

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"reservation-bot/internal/dto/request"
	"reservation-bot/internal/dto/response"
	"reservation-bot/internal/usecase"
	"reservation-bot/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubInbound struct {
	webhookErr error
	payloads   []*request.WebhookPayload
	injected   []*request.MessageRequest
	businessID uuid.UUID
}

func (s *stubInbound) HandleWebhook(_ context.Context, payload *request.WebhookPayload) (*usecase.InboundSummary, error) {
	s.payloads = append(s.payloads, payload)
	if s.webhookErr != nil {
		return nil, s.webhookErr
	}
	return &usecase.InboundSummary{Handled: 1}, nil
}

func (s *stubInbound) HandleInjected(_ context.Context, businessID uuid.UUID, req *request.MessageRequest) (*response.DialogueResponse, error) {
	s.businessID = businessID
	s.injected = append(s.injected, req)
	return &response.DialogueResponse{Outcome: "prompted", Replies: []string{"Sure, what is your full name?"}}, nil
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) utils.Response {
	t.Helper()
	var env utils.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestWebhookVerify(t *testing.T) {
	h := NewWebhookHandler(&stubInbound{}, "secret", testAppSecret, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Verify(rec, httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=secret&hub.challenge=12345", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "12345", rec.Body.String())

	rec = httptest.NewRecorder()
	h.Verify(rec, httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	unset := NewWebhookHandler(&stubInbound{}, "", testAppSecret, zap.NewNop())
	rec = httptest.NewRecorder()
	unset.Verify(rec, httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=&hub.challenge=1", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

const testAppSecret = "app-secret"

func sign(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func signedDelivery(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("X-Hub-Signature-256", sign(testAppSecret, body))
	return req
}

const cancelDelivery = `{"object":"whatsapp_business_account","entry":[{"id":"1","changes":[{"field":"messages","value":{
	"messaging_product":"whatsapp","metadata":{"phone_number_id":"1122334455"},
	"messages":[{"id":"wamid.9","from":"96170000001","type":"text","text":{"body":"cancel"}}]}}]}]}`

func TestWebhookReceive(t *testing.T) {
	body := `{"object":"whatsapp_business_account","entry":[{"id":"1","changes":[{"field":"messages","value":{
		"messaging_product":"whatsapp","metadata":{"phone_number_id":"1122334455"},
		"messages":[{"id":"wamid.1","from":"96170000001","type":"text","text":{"body":"book"}}]}}]}]}`

	inbound := &stubInbound{}
	h := NewWebhookHandler(inbound, "secret", testAppSecret, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Receive(rec, signedDelivery(body))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, inbound.payloads, 1)
	msg := inbound.payloads[0].Entry[0].Changes[0].Value.Messages[0]
	assert.Equal(t, "book", msg.Text.Body)
	assert.Equal(t, "1122334455", inbound.payloads[0].Entry[0].Changes[0].Value.Metadata.PhoneNumberID)

	inbound.webhookErr = fmt.Errorf("handle message: %w", usecase.ErrRepository)
	rec = httptest.NewRecorder()
	h.Receive(rec, signedDelivery(body))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "5", rec.Header().Get("Retry-After"))

	rec = httptest.NewRecorder()
	h.Receive(rec, signedDelivery("{not json"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookReceiveRejectsUnsignedDeliveries(t *testing.T) {
	tampered := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(cancelDelivery))
	tampered.Header.Set("X-Hub-Signature-256", sign(testAppSecret, strings.Replace(cancelDelivery, "cancel", "book", 1)))

	wrongSecret := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(cancelDelivery))
	wrongSecret.Header.Set("X-Hub-Signature-256", sign("other-secret", cancelDelivery))

	noPrefix := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(cancelDelivery))
	noPrefix.Header.Set("X-Hub-Signature-256", strings.TrimPrefix(sign(testAppSecret, cancelDelivery), "sha256="))

	tests := []struct {
		name string
		req  *http.Request
	}{
		{"missing header", httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(cancelDelivery))},
		{"tampered body", tampered},
		{"wrong secret", wrongSecret},
		{"missing prefix", noPrefix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inbound := &stubInbound{}
			h := NewWebhookHandler(inbound, "secret", testAppSecret, zap.NewNop())

			rec := httptest.NewRecorder()
			h.Receive(rec, tt.req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Empty(t, inbound.payloads)
		})
	}

	// without a configured secret nothing is accepted
	inbound := &stubInbound{}
	h := NewWebhookHandler(inbound, "secret", "", zap.NewNop())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(cancelDelivery))
	req.Header.Set("X-Hub-Signature-256", sign("", cancelDelivery))
	h.Receive(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, inbound.payloads)
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"entry":[]}`)
	good := sign(testAppSecret, string(body))

	assert.True(t, VerifySignature(testAppSecret, body, good))
	assert.True(t, VerifySignature(testAppSecret, body, "sha256="+strings.ToUpper(strings.TrimPrefix(good, "sha256="))))
	assert.False(t, VerifySignature(testAppSecret, body, ""))
	assert.False(t, VerifySignature(testAppSecret, body, "sha256="))
	assert.False(t, VerifySignature(testAppSecret, []byte(`{"entry":[{}]}`), good))
	assert.False(t, VerifySignature("", body, good))
}

func TestMessageInject(t *testing.T) {
	inbound := &stubInbound{}
	h := NewMessageHandler(inbound, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Inject(rec, httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(`{"phone":"+96170000001","text":"book"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	businessID := uuid.New()
	ctx := utils.SetUserContext(context.Background(), uuid.New(), businessID)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(`{"phone":"+96170000001"}`)).WithContext(ctx)
	h.Inject(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec).Errors, "Text")

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(`{"phone":"+96170000001","text":"book"}`)).WithContext(ctx)
	h.Inject(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, businessID, inbound.businessID)
	assert.True(t, decodeEnvelope(t, rec).Status)
}

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"conflict", &usecase.ConflictError{Date: "2025-11-20", Time: "16:00", Suggestions: []string{"15:30"}}, http.StatusConflict},
		{"validation", fmt.Errorf("%w: bad", usecase.ErrValidation), http.StatusBadRequest},
		{"not found", fmt.Errorf("reservation x: %w", usecase.ErrNotFound), http.StatusNotFound},
		{"duplicate", fmt.Errorf("create service: %w", usecase.ErrAlreadyExists), http.StatusConflict},
		{"transition", fmt.Errorf("cancel: %w", usecase.ErrInvalidTransition), http.StatusConflict},
		{"credentials", usecase.ErrInvalidCredentials, http.StatusUnauthorized},
		{"disabled", usecase.ErrAccountDisabled, http.StatusForbidden},
		{"timeout", fmt.Errorf("wait: %w", context.DeadlineExceeded), http.StatusServiceUnavailable},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleServiceError(rec, zap.NewNop(), tt.err, "test")
			assert.Equal(t, tt.code, rec.Code)
			assert.False(t, decodeEnvelope(t, rec).Status)
		})
	}

	rec := httptest.NewRecorder()
	handleServiceError(rec, zap.NewNop(), &usecase.ConflictError{Date: "d", Time: "16:00", Suggestions: []string{"15:30"}}, "test")
	details, ok := decodeEnvelope(t, rec).Errors.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"15:30"}, details["suggestions"])
}
