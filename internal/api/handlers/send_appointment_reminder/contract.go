package send_appointment_reminder

import "context"

type ReminderService interface {
	SendForAppointment(ctx context.Context, appointmentID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
