package get_upcoming_reminders

import (
	"context"

	"github.com/m04kA/HMS-AppointmentService/internal/service/reminder/models"
)

type ReminderService interface {
	UpcomingReminders(ctx context.Context, days int) (*models.UpcomingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
