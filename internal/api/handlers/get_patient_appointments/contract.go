package get_patient_appointments

import (
	"context"

	"github.com/m04kA/HMS-AppointmentService/internal/service/appointments/models"
)

type AppointmentsService interface {
	ListByPatient(ctx context.Context, req *models.ListByPatientRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
