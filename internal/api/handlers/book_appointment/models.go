package book_appointment

import (
	"time"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	appointmentModels "github.com/m04kA/HMS-AppointmentService/internal/service/appointments/models"
	bookAppointment "github.com/m04kA/HMS-AppointmentService/internal/usecase/book_appointment"
	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

// BookAppointmentRequest HTTP request model
type BookAppointmentRequest struct {
	DoctorID   string  `json:"doctorId"`
	HospitalID string  `json:"hospitalId"`
	Date       string  `json:"date"`      // "2026-09-07"
	StartTime  string  `json:"startTime"` // "10:00"
	EndTime    string  `json:"endTime"`   // "10:30"
	Type       *string `json:"type,omitempty"`
	Timezone   *string `json:"timezone,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BookAppointmentRequest) ToUseCaseRequest(userID string) (*bookAppointment.Request, error) {
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

	return &bookAppointment.Request{
		UserID:     userID,
		DoctorID:   r.DoctorID,
		HospitalID: r.HospitalID,
		Date:       date,
		StartTime:  startTime,
		EndTime:    endTime,
		Type:       r.Type,
		Timezone:   r.Timezone,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookAppointment.Response) *appointmentModels.AppointmentResponse {
	return appointmentModels.FromDomainAppointment(resp.Appointment, resp.Timezone)
}
