package reschedule_appointment

import (
	"context"

	"github.com/m04kA/HMS-AppointmentService/internal/service/appointments/models"
)

type AppointmentsService interface {
	Reschedule(ctx context.Context, appointmentID string, req *models.RescheduleAppointmentRequest) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
