package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/domain"
	getAvailability "github.com/m04kA/SMC-SalonService/internal/usecase/get_availability"
)

const (
	msgInvalidProviderID = "некорректный ID салона"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingDate       = "параметр date обязателен"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/{providerId}/availability?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	providerID, err := strconv.ParseInt(vars["providerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /providers/{providerId}/availability - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	rawDate := r.URL.Query().Get("date")
	if rawDate == "" {
		h.logger.Warn("GET /providers/{providerId}/availability - Missing date parameter")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := time.Parse(domain.DateFormat, rawDate)
	if err != nil {
		h.logger.Warn("GET /providers/{providerId}/availability - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		ProviderID: providerID,
		Date:       date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /providers/{providerId}/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidProviderID)

		default:
			h.logger.Error("GET /providers/{providerId}/availability - Failed to get availability: provider_id=%d, error=%v", providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /providers/{providerId}/availability - Availability retrieved: provider_id=%d, date=%s", providerID, rawDate)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
