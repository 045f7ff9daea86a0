package update_reservation_status

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/service/reservations"
	"github.com/m04kA/SMC-SalonService/internal/service/reservations/models"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidStatus        = "допустимые статусы: visited, no_show"
	msgNotFound             = "бронирование не найдено"
	msgInvalidTransition    = "недопустимый переход статуса"
	msgForbidden            = "доступ запрещен"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"` // visited | no_show
}

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

// Handle PATCH /api/v1/reservations/{reservationId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	reservationID, err := strconv.ParseInt(vars["reservationId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id}/status - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	var req UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /reservations/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	status := domain.ReservationStatus(req.Status)
	if status != domain.StatusVisited && status != domain.StatusNoShow {
		h.logger.Warn("PATCH /reservations/{id}/status - Invalid status: %s", req.Status)
		handlers.RespondBadRequest(w, msgInvalidStatus)
		return
	}

	result, err := h.service.UpdateStatus(r.Context(), reservationID, &models.UpdateStatusRequest{
		UserID: req.UserID,
		Status: status,
	})
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("PATCH /reservations/{id}/status - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, reservations.ErrInvalidTransition):
			h.logger.Warn("PATCH /reservations/{id}/status - Invalid transition: reservation_id=%d, status=%s", reservationID, req.Status)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, reservations.ErrAccessDenied):
			h.logger.Warn("PATCH /reservations/{id}/status - Access denied: reservation_id=%d, user_id=%d", reservationID, req.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, reservations.ErrInvalidInput):
			h.logger.Warn("PATCH /reservations/{id}/status - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("PATCH /reservations/{id}/status - Failed to update status: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /reservations/{id}/status - Status updated successfully: reservation_id=%d, status=%s",
		reservationID, req.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
