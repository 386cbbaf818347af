package adaptor

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"reservation-bot/internal/dto/request"
	"reservation-bot/internal/usecase"
	"reservation-bot/pkg/utils"

	"go.uber.org/zap"
)

const maxWebhookBody = 1 << 20

// WebhookHandler receives Meta Cloud API callbacks. Deliveries must be
// signed with the app secret.
type WebhookHandler struct {
	inbound     usecase.InboundService
	verifyToken string
	appSecret   string
	log         *zap.Logger
}

func NewWebhookHandler(inbound usecase.InboundService, verifyToken, appSecret string, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		inbound:     inbound,
		verifyToken: verifyToken,
		appSecret:   appSecret,
		log:         log.With(zap.String("handler", "webhook")),
	}
}

// Verify handles GET /webhook, the subscription handshake.
func (h *WebhookHandler) Verify(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	mode := query.Get("hub.mode")
	token := query.Get("hub.verify_token")

	if mode != "subscribe" || h.verifyToken == "" ||
		subtle.ConstantTimeCompare([]byte(token), []byte(h.verifyToken)) != 1 {
		h.log.Warn("Webhook verification rejected", zap.String("mode", mode))
		utils.ResponseForbidden(w, "Verification failed")
		return
	}

	h.log.Info("Webhook verified")
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(query.Get("hub.challenge")))
}

// Receive handles POST /webhook. A 503 makes the provider redeliver.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid webhook payload", nil)
		return
	}

	if !VerifySignature(h.appSecret, body, r.Header.Get("X-Hub-Signature-256")) {
		h.log.Warn("Webhook signature rejected", zap.String("ip", r.RemoteAddr))
		utils.ResponseUnauthorized(w, "Invalid signature")
		return
	}

	var payload request.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		utils.ResponseBadRequest(w, "Invalid webhook payload", nil)
		return
	}

	summary, err := h.inbound.HandleWebhook(r.Context(), &payload)
	if err != nil {
		h.log.Error("Webhook delivery failed, asking for redelivery", zap.Error(err))
		utils.ResponseServiceUnavailable(w, "Temporarily unavailable")
		return
	}

	utils.ResponseSuccess(w, "EVENT_RECEIVED", summary)
}

// VerifySignature checks an X-Hub-Signature-256 header ("sha256=<hex>")
// against the HMAC of body. An empty secret rejects everything.
func VerifySignature(appSecret string, body []byte, signature string) bool {
	if appSecret == "" {
		return false
	}
	sigHex, ok := strings.CutPrefix(signature, "sha256=")
	if !ok || sigHex == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(strings.ToLower(sigHex)))
}
