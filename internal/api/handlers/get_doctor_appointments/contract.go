package get_doctor_appointments

import (
	"context"

	"github.com/m04kA/HMS-AppointmentService/internal/service/appointments/models"
)

type AppointmentsService interface {
	ListByDoctor(ctx context.Context, req *models.ListByDoctorRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
