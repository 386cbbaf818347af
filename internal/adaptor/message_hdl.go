package adaptor

import (
	"encoding/json"
	"net/http"

	"reservation-bot/internal/dto/request"
	"reservation-bot/internal/usecase"
	"reservation-bot/pkg/utils"

	"go.uber.org/zap"
)

// MessageHandler lets an operator drive the bot without WhatsApp.
type MessageHandler struct {
	inbound usecase.InboundService
	log     *zap.Logger
}

func NewMessageHandler(inbound usecase.InboundService, log *zap.Logger) *MessageHandler {
	return &MessageHandler{
		inbound: inbound,
		log:     log.With(zap.String("handler", "message")),
	}
}

// Inject handles POST /api/messages (protected)
func (h *MessageHandler) Inject(w http.ResponseWriter, r *http.Request) {
	businessID, ok := utils.GetBusinessIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	result, err := h.inbound.HandleInjected(r.Context(), businessID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "inject message")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}
