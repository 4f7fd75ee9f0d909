package appointments

import (
	"context"
	"time"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	"github.com/m04kA/HMS-AppointmentService/internal/integrations/notifyservice"
	"github.com/m04kA/HMS-AppointmentService/internal/integrations/registryservice"
	"github.com/m04kA/HMS-AppointmentService/internal/usecase/book_appointment"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	ListWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) error
	Cancel(ctx context.Context, id string, reason *string, cancelledBy string) error
}

// RegistryServiceClient интерфейс клиента для RegistryService
type RegistryServiceClient interface {
	GetHospital(ctx context.Context, hospitalID string) (*registryservice.Hospital, error)
	GetPatient(ctx context.Context, patientID string) (*registryservice.Patient, error)
}

// NotifyServiceClient интерфейс клиента для NotifyService
type NotifyServiceClient interface {
	SendCancellation(ctx context.Context, notice *notifyservice.AppointmentNotice) error
}

// BookingUseCase интерфейс use case создания записи, используется при переносе
type BookingUseCase interface {
	Execute(ctx context.Context, req *book_appointment.Request) (*book_appointment.Response, error)
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
