package update_working_hours

import (
	"github.com/m04kA/SMC-SalonService/internal/service/schedule/models"
)

// DayHoursRequest рабочие часы одного дня недели в HTTP запросе
type DayHoursRequest struct {
	DayOfWeek int    `json:"dayOfWeek"` // 0 = воскресенье ... 6 = суббота
	StartTime string `json:"startTime"` // "10:00"
	EndTime   string `json:"endTime"`   // "19:00"
}

// UpdateWorkingHoursRequest HTTP request model
// Полная перезапись: отсутствующие дни считаются закрытыми
type UpdateWorkingHoursRequest struct {
	Days []DayHoursRequest `json:"days"`
}

// DayHoursResponse рабочие часы одного дня недели в HTTP ответе
type DayHoursResponse struct {
	DayOfWeek int    `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// ScheduleResponse HTTP response model
type ScheduleResponse struct {
	ProviderID   int64              `json:"providerId"`
	WorkingHours []DayHoursResponse `json:"workingHours"`
	Holidays     []int              `json:"holidays"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateWorkingHoursRequest) ToServiceRequest(providerID int64) *models.UpdateWorkingHoursRequest {
	days := make([]models.DayHours, 0, len(r.Days))
	for _, d := range r.Days {
		days = append(days, models.DayHours{
			DayOfWeek: d.DayOfWeek,
			StartTime: d.StartTime,
			EndTime:   d.EndTime,
		})
	}

	return &models.UpdateWorkingHoursRequest{
		ProviderID: providerID,
		Days:       days,
	}
}

// FromServiceResponse конвертирует ответ сервиса в HTTP response
func FromServiceResponse(resp *models.ScheduleResponse) *ScheduleResponse {
	hours := make([]DayHoursResponse, 0, len(resp.WorkingHours))
	for _, wh := range resp.WorkingHours {
		hours = append(hours, DayHoursResponse{
			DayOfWeek: wh.DayOfWeek,
			StartTime: wh.StartTime,
			EndTime:   wh.EndTime,
		})
	}

	return &ScheduleResponse{
		ProviderID:   resp.ProviderID,
		WorkingHours: hours,
		Holidays:     resp.Holidays,
	}
}
