package adaptor

import (
	"encoding/json"
	"net/http"

	"reservation-bot/internal/dto/request"
	"reservation-bot/internal/usecase"
	"reservation-bot/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BusinessHandler serves the operator's business settings and service
// catalog.
type BusinessHandler struct {
	business usecase.BusinessService
	catalog  usecase.CatalogService
	log      *zap.Logger
}

func NewBusinessHandler(business usecase.BusinessService, catalog usecase.CatalogService, log *zap.Logger) *BusinessHandler {
	return &BusinessHandler{
		business: business,
		catalog:  catalog,
		log:      log.With(zap.String("handler", "business")),
	}
}

// GetBusiness handles GET /api/business
func (h *BusinessHandler) GetBusiness(w http.ResponseWriter, r *http.Request) {
	businessID, ok := utils.GetBusinessIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	resp, err := h.business.GetBusiness(r.Context(), businessID)
	if err != nil {
		handleServiceError(w, h.log, err, "get business")
		return
	}

	utils.ResponseSuccess(w, "success", resp)
}

// UpdateBusiness handles PUT /api/business
func (h *BusinessHandler) UpdateBusiness(w http.ResponseWriter, r *http.Request) {
	businessID, ok := utils.GetBusinessIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateBusinessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	resp, err := h.business.UpdateBusiness(r.Context(), businessID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update business")
		return
	}

	utils.ResponseSuccess(w, "Business updated", resp)
}

// ==================== SERVICE CATALOG ====================

// ListServices handles GET /api/services
func (h *BusinessHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	businessID, ok := utils.GetBusinessIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	services, err := h.catalog.ListServices(r.Context(), businessID)
	if err != nil {
		handleServiceError(w, h.log, err, "list services")
		return
	}

	utils.ResponseSuccess(w, "success", services)
}

// CreateService handles POST /api/services
func (h *BusinessHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	businessID, ok := utils.GetBusinessIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.ServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	service, err := h.catalog.CreateService(r.Context(), businessID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create service")
		return
	}

	utils.ResponseCreated(w, "Service created", service)
}

// UpdateService handles PUT /api/services/{id}
func (h *BusinessHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	businessID, ok := utils.GetBusinessIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.ServiceUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	service, err := h.catalog.UpdateService(r.Context(), businessID, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update service")
		return
	}

	utils.ResponseSuccess(w, "Service updated", service)
}

// DeleteService handles DELETE /api/services/{id}
func (h *BusinessHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	businessID, ok := utils.GetBusinessIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.catalog.DeleteService(r.Context(), businessID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete service")
		return
	}

	utils.ResponseSuccess(w, "Service deleted", nil)
}
