package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	createReservation "github.com/m04kA/SMC-SalonService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidTime          = "некорректный формат времени, ожидается RFC3339"
	msgSlotUnavailable      = "выбранное время недоступно"
	msgCustomerNotFound     = "клиент не найден"
	msgSubscriptionInactive = "подписка салона неактивна"
	msgMenuNotFound         = "позиция меню не найдена"
	msgMenuInactive         = "позиция меню недоступна"
	msgDurationMismatch     = "время окончания не совпадает с длительностью услуг"
	msgInvalidDate          = "бронирование должно начинаться в будущем"
	msgProviderClosed       = "салон закрыт в выбранную дату"
	msgOutsideWorkingHours  = "бронирование выходит за рабочие часы салона"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrSlotUnavailable):
			h.logger.Warn("POST /reservations - Slot unavailable: customer_id=%d, provider_id=%d", req.CustomerID, req.ProviderID)
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, createReservation.ErrCustomerNotFound):
			h.logger.Warn("POST /reservations - Customer not found: customer_id=%d", req.CustomerID)
			handlers.RespondNotFound(w, msgCustomerNotFound)

		case errors.Is(err, createReservation.ErrSubscriptionInactive):
			h.logger.Warn("POST /reservations - Subscription inactive: provider_id=%d", req.ProviderID)
			handlers.RespondForbidden(w, msgSubscriptionInactive)

		case errors.Is(err, createReservation.ErrMenuNotFound):
			h.logger.Warn("POST /reservations - Menu not found: provider_id=%d, menus=%v", req.ProviderID, req.MenuIDs)
			handlers.RespondNotFound(w, msgMenuNotFound)

		case errors.Is(err, createReservation.ErrMenuInactive):
			h.logger.Warn("POST /reservations - Menu inactive: provider_id=%d, menus=%v", req.ProviderID, req.MenuIDs)
			handlers.RespondBadRequest(w, msgMenuInactive)

		case errors.Is(err, createReservation.ErrDurationMismatch):
			h.logger.Warn("POST /reservations - Duration mismatch: customer_id=%d, provider_id=%d", req.CustomerID, req.ProviderID)
			handlers.RespondBadRequest(w, msgDurationMismatch)

		case errors.Is(err, createReservation.ErrInvalidDate):
			h.logger.Warn("POST /reservations - Invalid date: customer_id=%d, provider_id=%d", req.CustomerID, req.ProviderID)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, createReservation.ErrProviderClosed):
			h.logger.Warn("POST /reservations - Provider closed: provider_id=%d", req.ProviderID)
			handlers.RespondBadRequest(w, msgProviderClosed)

		case errors.Is(err, createReservation.ErrOutsideWorkingHours):
			h.logger.Warn("POST /reservations - Outside working hours: provider_id=%d", req.ProviderID)
			handlers.RespondBadRequest(w, msgOutsideWorkingHours)

		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: customer_id=%d, provider_id=%d, error=%v",
				req.CustomerID, req.ProviderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Reservation created successfully: reservation_id=%d, customer_id=%d, provider_id=%d",
		result.ID, req.CustomerID, req.ProviderID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
