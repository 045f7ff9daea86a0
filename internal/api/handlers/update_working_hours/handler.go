package update_working_hours

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/service/schedule"
)

const (
	msgInvalidProviderID  = "некорректный ID салона"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidSchedule    = "некорректное расписание"
)

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

// Handle PUT /api/v1/providers/{providerId}/working-hours
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	providerID, err := strconv.ParseInt(vars["providerId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /providers/{providerId}/working-hours - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	var req UpdateWorkingHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /providers/{providerId}/working-hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.ReplaceWorkingHours(r.Context(), req.ToServiceRequest(providerID))
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /providers/{providerId}/working-hours - Invalid schedule: provider_id=%d, error=%v", providerID, err)
			handlers.RespondBadRequest(w, msgInvalidSchedule)

		default:
			h.logger.Error("PUT /providers/{providerId}/working-hours - Failed to update schedule: provider_id=%d, error=%v", providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /providers/{providerId}/working-hours - Schedule updated: provider_id=%d, days=%d",
		providerID, len(req.Days))
	handlers.RespondJSON(w, http.StatusOK, FromServiceResponse(result))
}
