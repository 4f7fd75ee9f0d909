package book_appointment

import (
	"context"
	"time"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	"github.com/m04kA/HMS-AppointmentService/internal/integrations/notifyservice"
	"github.com/m04kA/HMS-AppointmentService/internal/integrations/registryservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	// GetByDoctorForInterval получает записи врача в интервале [from, to).
	// Внутри транзакции строки блокируются через FOR UPDATE
	GetByDoctorForInterval(ctx context.Context, doctorID string, from, to time.Time, statuses []domain.AppointmentStatus) ([]*domain.Appointment, error)
	// NextSequence атомарно выдаёт следующий порядковый номер записи
	// в рамках пары (госпиталь, календарный день)
	NextSequence(ctx context.Context, hospitalID string, day time.Time) (int, error)
}

// RegistryServiceClient интерфейс клиента для RegistryService
type RegistryServiceClient interface {
	GetHospital(ctx context.Context, hospitalID string) (*registryservice.Hospital, error)
	GetDoctor(ctx context.Context, doctorID string) (*registryservice.Doctor, error)
	GetPatient(ctx context.Context, patientID string) (*registryservice.Patient, error)
	GetPatientByUser(ctx context.Context, userID string) (*registryservice.Patient, error)
}

// NotifyServiceClient интерфейс клиента для NotifyService
type NotifyServiceClient interface {
	SendConfirmation(ctx context.Context, notice *notifyservice.AppointmentNotice) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
