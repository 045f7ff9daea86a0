package set_capacity_default

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/service/capacity"
)

const (
	msgInvalidProviderID  = "некорректный ID салона"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidValue       = "некорректное значение вместимости"
)

// SetCapacityDefaultRequest HTTP request model
type SetCapacityDefaultRequest struct {
	MaxReservations int `json:"maxReservations"`
}

// CapacityDefaultResponse HTTP response model
type CapacityDefaultResponse struct {
	ProviderID      int64 `json:"providerId"`
	MaxReservations int   `json:"maxReservations"`
}

type Handler struct {
	service CapacityService
	logger  Logger
}

func NewHandler(service CapacityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/providers/{providerId}/capacity/default
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	providerID, err := strconv.ParseInt(vars["providerId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /providers/{providerId}/capacity/default - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	var req SetCapacityDefaultRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /providers/{providerId}/capacity/default - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	def, err := h.service.SetDefault(r.Context(), providerID, req.MaxReservations)
	if err != nil {
		switch {
		case errors.Is(err, capacity.ErrInvalidInput):
			h.logger.Warn("PUT /providers/{providerId}/capacity/default - Invalid value: provider_id=%d, value=%d",
				providerID, req.MaxReservations)
			handlers.RespondBadRequest(w, msgInvalidValue)

		default:
			h.logger.Error("PUT /providers/{providerId}/capacity/default - Failed to set default: provider_id=%d, error=%v", providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /providers/{providerId}/capacity/default - Default updated: provider_id=%d, value=%d",
		providerID, def.MaxReservations)
	handlers.RespondJSON(w, http.StatusOK, CapacityDefaultResponse{
		ProviderID:      def.ProviderID,
		MaxReservations: def.MaxReservations,
	})
}
