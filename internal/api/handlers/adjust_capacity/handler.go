package adjust_capacity

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/service/capacity"
)

const (
	msgInvalidProviderID  = "некорректный ID салона"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidSlot        = "некорректные параметры слота"
	msgLedgerCorrupted    = "леджер вместимости поврежден, требуется ручное вмешательство"
)

// AdjustCapacityRequest HTTP request model
type AdjustCapacityRequest struct {
	Date     string `json:"date"`     // "2026-09-01"
	TimeSlot int    `json:"timeSlot"` // 0..47
	Delta    int    `json:"delta"`    // +1 | -1
}

// AdjustCapacityResponse HTTP response model
type AdjustCapacityResponse struct {
	ProviderID int64  `json:"providerId"`
	Date       string `json:"date"`
	TimeSlot   int    `json:"timeSlot"`
	Remaining  int    `json:"remaining"`
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

// Handle PATCH /api/v1/providers/{providerId}/capacity
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	providerID, err := strconv.ParseInt(vars["providerId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /providers/{providerId}/capacity - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	var req AdjustCapacityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /providers/{providerId}/capacity - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		h.logger.Warn("PATCH /providers/{providerId}/capacity - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	remaining, err := h.service.Adjust(r.Context(), providerID, date, req.TimeSlot, req.Delta)
	if err != nil {
		switch {
		case errors.Is(err, capacity.ErrInvalidInput):
			h.logger.Warn("PATCH /providers/{providerId}/capacity - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, capacity.ErrCapacityUnderflow):
			h.logger.Error("PATCH /providers/{providerId}/capacity - Ledger corrupted: provider_id=%d, slot=%d, error=%v",
				providerID, req.TimeSlot, err)
			handlers.RespondError(w, http.StatusConflict, msgLedgerCorrupted)

		default:
			h.logger.Error("PATCH /providers/{providerId}/capacity - Failed to adjust capacity: provider_id=%d, error=%v", providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /providers/{providerId}/capacity - Capacity adjusted: provider_id=%d, date=%s, slot=%d, delta=%+d, remaining=%d",
		providerID, req.Date, req.TimeSlot, req.Delta, remaining)
	handlers.RespondJSON(w, http.StatusOK, AdjustCapacityResponse{
		ProviderID: providerID,
		Date:       req.Date,
		TimeSlot:   req.TimeSlot,
		Remaining:  remaining,
	})
}
