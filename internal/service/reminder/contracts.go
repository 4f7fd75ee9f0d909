package reminder

import (
	"context"
	"time"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	"github.com/m04kA/HMS-AppointmentService/internal/integrations/notifyservice"
	"github.com/m04kA/HMS-AppointmentService/internal/integrations/registryservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	// GetForReminder получает подтверждённые записи без отправленного
	// напоминания, начинающиеся в интервале [from, to)
	GetForReminder(ctx context.Context, hospitalID *string, from, to time.Time) ([]*domain.Appointment, error)
	CountForReminder(ctx context.Context, from, to time.Time) (int, error)
	MarkReminderSent(ctx context.Context, id string) error
}

// RegistryServiceClient интерфейс клиента для RegistryService
type RegistryServiceClient interface {
	ListActiveHospitals(ctx context.Context) ([]registryservice.Hospital, error)
	GetHospital(ctx context.Context, hospitalID string) (*registryservice.Hospital, error)
	GetPatient(ctx context.Context, patientID string) (*registryservice.Patient, error)
}

// NotifyServiceClient интерфейс клиента для NotifyService
type NotifyServiceClient interface {
	SendReminder(ctx context.Context, notice *notifyservice.AppointmentNotice) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
