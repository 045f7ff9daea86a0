package get_provider_reservations

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/domain"
)

const (
	msgInvalidProviderID = "некорректный ID салона"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidStatus     = "некорректный статус бронирования"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/{providerId}/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	providerID, err := strconv.ParseInt(vars["providerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /providers/{providerId}/reservations - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	filter := domain.ProviderReservationsFilter{
		ProviderID: providerID,
	}

	query := r.URL.Query()

	if raw := query.Get("startDate"); raw != "" {
		startDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /providers/{providerId}/reservations - Invalid start date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		filter.StartDate = &startDate
	}

	if raw := query.Get("endDate"); raw != "" {
		endDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /providers/{providerId}/reservations - Invalid end date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		filter.EndDate = &endDate
	}

	if raw := query.Get("status"); raw != "" {
		status := domain.ReservationStatus(raw)
		switch status {
		case domain.StatusBeforeVisit, domain.StatusVisited, domain.StatusCanceled, domain.StatusNoShow:
			filter.Status = &status
		default:
			h.logger.Warn("GET /providers/{providerId}/reservations - Invalid status: %s", raw)
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}
	}

	filter.IncludeInactive = query.Get("includeInactive") == "true"

	result, err := h.service.GetProviderReservations(r.Context(), filter)
	if err != nil {
		h.logger.Error("GET /providers/{providerId}/reservations - Failed to get reservations: provider_id=%d, error=%v", providerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /providers/{providerId}/reservations - Retrieved %d reservations: provider_id=%d", len(result), providerID)
	handlers.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"reservations": result,
	})
}
