package run_reminder_sweep

import (
	"context"

	"github.com/m04kA/HMS-AppointmentService/internal/service/reminder/models"
)

type ReminderService interface {
	RunSweep(ctx context.Context, mode models.SweepMode) (*models.SweepResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
