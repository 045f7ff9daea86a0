package cancel_reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/service/reservations"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgNotFound             = "бронирование не найдено"
	msgAlreadyCanceled      = "бронирование уже отменено"
	msgCannotCancel         = "бронирование нельзя отменить в текущем статусе"
	msgForbidden            = "доступ запрещен"
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

// Handle DELETE /api/v1/reservations/{reservationId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	reservationID, err := strconv.ParseInt(vars["reservationId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /reservations/{id} - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	var req CancelReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("DELETE /reservations/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Cancel(r.Context(), reservationID, req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("DELETE /reservations/{id} - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, reservations.ErrAlreadyCanceled):
			h.logger.Warn("DELETE /reservations/{id} - Already canceled: reservation_id=%d", reservationID)
			handlers.RespondConflict(w, msgAlreadyCanceled)

		case errors.Is(err, reservations.ErrCannotCancel):
			h.logger.Warn("DELETE /reservations/{id} - Cannot cancel: reservation_id=%d", reservationID)
			handlers.RespondConflict(w, msgCannotCancel)

		case errors.Is(err, reservations.ErrAccessDenied):
			h.logger.Warn("DELETE /reservations/{id} - Access denied: reservation_id=%d, user_id=%d", reservationID, req.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /reservations/{id} - Failed to cancel reservation: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /reservations/{id} - Reservation canceled successfully: reservation_id=%d, user_id=%d",
		reservationID, req.UserID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
