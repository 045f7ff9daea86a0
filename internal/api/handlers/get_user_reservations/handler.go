package get_user_reservations

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/domain"
)

const (
	msgInvalidUserID = "некорректный ID пользователя"
	msgInvalidStatus = "некорректный статус бронирования"
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

// Handle GET /api/v1/users/{userId}/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := strconv.ParseInt(vars["userId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /users/{userId}/reservations - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	// Фильтр по статусу (опционально)
	var statusPtr *domain.ReservationStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.ReservationStatus(raw)
		switch status {
		case domain.StatusBeforeVisit, domain.StatusVisited, domain.StatusCanceled, domain.StatusNoShow:
			statusPtr = &status
		default:
			h.logger.Warn("GET /users/{userId}/reservations - Invalid status: %s", raw)
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}
	}

	result, err := h.service.GetCustomerReservations(r.Context(), userID, statusPtr)
	if err != nil {
		h.logger.Error("GET /users/{userId}/reservations - Failed to get reservations: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /users/{userId}/reservations - Retrieved %d reservations: user_id=%d", len(result), userID)
	handlers.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"reservations": result,
	})
}
