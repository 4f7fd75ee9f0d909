package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	scheduleRepo "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/schedule"
	registryClient "github.com/m04kA/HMS-AppointmentService/internal/integrations/registryservice"
	"github.com/m04kA/HMS-AppointmentService/pkg/timezone"
	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

// UseCase use case для получения свободных слотов врача
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	registryClient  RegistryServiceClient
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	registryClient RegistryServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		registryClient:  registryClient,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения свободных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: doctor=%s, date=%s",
		req.DoctorID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем врача
	doctor, err := uc.registryClient.GetDoctor(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, registryClient.ErrDoctorNotFound) {
			uc.logger.Warn("GetAvailableSlots: doctor id=%s not found", req.DoctorID)
			return nil, ErrDoctorNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get doctor id=%s: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to get doctor: %v", ErrInternal, err)
	}
	if !doctor.IsActive {
		uc.logger.Warn("GetAvailableSlots: doctor id=%s is not active", req.DoctorID)
		return nil, ErrDoctorNotFound
	}

	// 3. Получаем госпиталь: явный из запроса либо госпиталь врача
	hospitalID := doctor.HospitalID
	if req.HospitalID != nil {
		hospitalID = *req.HospitalID
	}
	hospital, err := uc.registryClient.GetHospital(ctx, hospitalID)
	if err != nil {
		if errors.Is(err, registryClient.ErrHospitalNotFound) {
			uc.logger.Warn("GetAvailableSlots: hospital id=%s not found", hospitalID)
			return nil, ErrHospitalNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get hospital id=%s: %v", hospitalID, err)
		return nil, fmt.Errorf("%w: failed to get hospital: %v", ErrInternal, err)
	}

	// 4. Определяем эффективную таймзону расчёта.
	// Явная зона из запроса валидируется строго, зона госпиталя
	// деградирует до UTC внутри pkg/timezone
	zone := hospital.Timezone
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			uc.logger.Warn("GetAvailableSlots: invalid timezone %q in request", *req.Timezone)
			return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, *req.Timezone)
		}
		zone = *req.Timezone
	}
	if zone == "" {
		zone = domain.DefaultTimezone
	}

	// 5. Получаем шаблон расписания на день недели даты
	dayOfWeek := int(req.Date.Weekday())
	sched, err := uc.scheduleRepo.GetByDoctorAndDay(ctx, req.DoctorID, dayOfWeek)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			uc.logger.Info("GetAvailableSlots: doctor id=%s has no schedule for day %d", req.DoctorID, dayOfWeek)
			return &Response{
				DoctorID: req.DoctorID,
				Date:     req.Date,
				Timezone: zone,
				Slots:    []types.TimeString{},
			}, nil
		}
		uc.logger.Error("GetAvailableSlots: failed to get schedule for doctor id=%s: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}

	// 6. Получаем записи врача, пересекающиеся с локальными сутками даты,
	// включая начавшиеся до локальной полуночи в другой таймзоне
	from, to := timezone.DayBounds(req.Date, zone)
	existing, err := uc.appointmentRepo.GetByDoctorForInterval(ctx, req.DoctorID, from, to, domain.ConflictStatuses)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments for doctor id=%s: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 7. Разворачиваем шаблон в свободные слоты
	duration := doctor.SlotDurationMinutes
	if duration <= 0 {
		duration = domain.DefaultSlotDurationMinutes
	}
	step := duration + doctor.BufferMinutes

	slots, err := generateSlotsFromTemplate(sched, req.Date, duration, step, existing, zone, uc.timeProvider.Now())
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for doctor=%s, date=%s, zone=%s",
		len(slots), req.DoctorID, req.Date.Format(domain.DateFormat), zone)

	return &Response{
		DoctorID: req.DoctorID,
		Date:     req.Date,
		Timezone: zone,
		Slots:    slots,
	}, nil
}
