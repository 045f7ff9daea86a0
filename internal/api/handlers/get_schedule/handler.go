package get_schedule

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
)

const (
	msgInvalidProviderID = "некорректный ID салона"
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

// Handle GET /api/v1/providers/{providerId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	providerID, err := strconv.ParseInt(vars["providerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /providers/{providerId}/schedule - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	result, err := h.service.GetSchedule(r.Context(), providerID)
	if err != nil {
		h.logger.Error("GET /providers/{providerId}/schedule - Failed to get schedule: provider_id=%d, error=%v", providerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /providers/{providerId}/schedule - Schedule retrieved: provider_id=%d", providerID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
