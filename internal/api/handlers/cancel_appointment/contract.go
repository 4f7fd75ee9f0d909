package cancel_appointment

import (
	"context"

	"github.com/m04kA/HMS-AppointmentService/internal/service/appointments/models"
)

type AppointmentsService interface {
	Cancel(ctx context.Context, appointmentID string, req *models.CancelAppointmentRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
