package models

import (
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// DayHours рабочие часы одного дня недели
type DayHours struct {
	DayOfWeek int    `json:"dayOfWeek"` // 0 = воскресенье ... 6 = суббота
	StartTime string `json:"startTime"` // "HH:MM"
	EndTime   string `json:"endTime"`   // "HH:MM"
}

// UpdateWorkingHoursRequest запрос полной перезаписи недельного расписания
// Дни недели, отсутствующие в Days, считаются закрытыми и удаляются
type UpdateWorkingHoursRequest struct {
	ProviderID int64
	Days       []DayHours
}

// UpdateHolidaysRequest запрос сверки набора выходных дней
// Итоговым набором выходных становится ровно Days: лишние удаляются, недостающие создаются
type UpdateHolidaysRequest struct {
	ProviderID int64
	Days       []int
}

// ScheduleResponse недельное расписание провайдера
type ScheduleResponse struct {
	ProviderID   int64      `json:"providerId"`
	WorkingHours []DayHours `json:"workingHours"`
	Holidays     []int      `json:"holidays"`
}

// FromDomainSchedule конвертирует доменные модели в ответ сервиса
func FromDomainSchedule(providerID int64, hours []*domain.WorkingHours, holidays []*domain.Holiday) *ScheduleResponse {
	resp := &ScheduleResponse{
		ProviderID:   providerID,
		WorkingHours: make([]DayHours, 0, len(hours)),
		Holidays:     make([]int, 0, len(holidays)),
	}

	for _, wh := range hours {
		resp.WorkingHours = append(resp.WorkingHours, DayHours{
			DayOfWeek: int(wh.DayOfWeek),
			StartTime: wh.StartTime.String(),
			EndTime:   wh.EndTime.String(),
		})
	}

	for _, h := range holidays {
		resp.Holidays = append(resp.Holidays, int(h.DayOfWeek))
	}

	return resp
}

// Weekdays возвращает дни недели запроса в доменном представлении
func (r *UpdateHolidaysRequest) Weekdays() []time.Weekday {
	days := make([]time.Weekday, 0, len(r.Days))
	for _, d := range r.Days {
		days = append(days, time.Weekday(d))
	}
	return days
}
