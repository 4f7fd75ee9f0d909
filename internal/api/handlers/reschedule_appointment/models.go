package reschedule_appointment

import (
	"time"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	"github.com/m04kA/HMS-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

// RescheduleAppointmentRequest HTTP request model
type RescheduleAppointmentRequest struct {
	Date      string  `json:"date"`      // "2026-09-08"
	StartTime string  `json:"startTime"` // "11:00"
	EndTime   string  `json:"endTime"`   // "11:30"
	Timezone  *string `json:"timezone,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *RescheduleAppointmentRequest) ToServiceRequest(userID string) (*models.RescheduleAppointmentRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	return &models.RescheduleAppointmentRequest{
		UserID:    userID,
		Date:      date,
		StartTime: startTime,
		EndTime:   endTime,
		Timezone:  r.Timezone,
	}, nil
}
