package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	"github.com/m04kA/HMS-AppointmentService/internal/integrations/registryservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// GetByDoctorForInterval получает записи врача с указанными статусами в интервале [from, to)
	GetByDoctorForInterval(ctx context.Context, doctorID string, from, to time.Time, statuses []domain.AppointmentStatus) ([]*domain.Appointment, error)
}

// ScheduleRepository интерфейс репозитория шаблонов расписания
type ScheduleRepository interface {
	GetByDoctorAndDay(ctx context.Context, doctorID string, dayOfWeek int) (*domain.DoctorSchedule, error)
}

// RegistryServiceClient интерфейс клиента для RegistryService
type RegistryServiceClient interface {
	GetDoctor(ctx context.Context, doctorID string) (*registryservice.Doctor, error)
	GetHospital(ctx context.Context, hospitalID string) (*registryservice.Hospital, error)
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
