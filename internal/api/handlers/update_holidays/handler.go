package update_holidays

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/service/schedule"
	"github.com/m04kA/SMC-SalonService/internal/service/schedule/models"
)

const (
	msgInvalidProviderID  = "некорректный ID салона"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDays        = "дни недели должны быть в диапазоне 0..6"
)

// UpdateHolidaysRequest HTTP request model
// Итоговым набором выходных становится ровно days
type UpdateHolidaysRequest struct {
	Days []int `json:"days"`
}

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/providers/{providerId}/holidays
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	providerID, err := strconv.ParseInt(vars["providerId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /providers/{providerId}/holidays - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	var req UpdateHolidaysRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /providers/{providerId}/holidays - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.ReconcileHolidays(r.Context(), &models.UpdateHolidaysRequest{
		ProviderID: providerID,
		Days:       req.Days,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /providers/{providerId}/holidays - Invalid days: provider_id=%d, days=%v", providerID, req.Days)
			handlers.RespondBadRequest(w, msgInvalidDays)

		default:
			h.logger.Error("PUT /providers/{providerId}/holidays - Failed to update holidays: provider_id=%d, error=%v", providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /providers/{providerId}/holidays - Holidays updated: provider_id=%d, days=%v", providerID, req.Days)
	handlers.RespondJSON(w, http.StatusOK, result)
}
