package book_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	"github.com/m04kA/HMS-AppointmentService/internal/integrations/notifyservice"
	registryClient "github.com/m04kA/HMS-AppointmentService/internal/integrations/registryservice"
	"github.com/m04kA/HMS-AppointmentService/pkg/ptr"
	"github.com/m04kA/HMS-AppointmentService/pkg/timezone"
	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

// UseCase use case для создания записи на приём
type UseCase struct {
	appointmentRepo AppointmentRepository
	registryClient  RegistryServiceClient
	notifyClient    NotifyServiceClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	registryClient RegistryServiceClient,
	notifyClient NotifyServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		registryClient:  registryClient,
		notifyClient:    notifyClient,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
// Использует сериализуемую транзакцию для предотвращения двойного бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookAppointment: user=%s, doctor=%s, hospital=%s, date=%s, time=%s-%s",
		req.UserID, req.DoctorID, req.HospitalID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем госпиталь
	hospital, err := uc.registryClient.GetHospital(ctx, req.HospitalID)
	if err != nil {
		if errors.Is(err, registryClient.ErrHospitalNotFound) {
			uc.logger.Warn("BookAppointment: hospital id=%s not found", req.HospitalID)
			return nil, ErrHospitalNotFound
		}
		uc.logger.Error("BookAppointment: failed to get hospital id=%s: %v", req.HospitalID, err)
		return nil, fmt.Errorf("%w: failed to get hospital: %v", ErrInternal, err)
	}

	// 4. Определяем эффективную таймзону: явная зона валидируется строго,
	// зона госпиталя деградирует до UTC молча
	zone := hospital.Timezone
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			uc.logger.Warn("BookAppointment: invalid timezone %q in request", *req.Timezone)
			return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, *req.Timezone)
		}
		zone = *req.Timezone
	}
	if zone == "" {
		zone = domain.DefaultTimezone
	}

	// 5. Получаем врача и проверяем принадлежность госпиталю
	doctor, err := uc.registryClient.GetDoctor(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, registryClient.ErrDoctorNotFound) {
			uc.logger.Warn("BookAppointment: doctor id=%s not found", req.DoctorID)
			return nil, ErrDoctorNotFound
		}
		uc.logger.Error("BookAppointment: failed to get doctor id=%s: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to get doctor: %v", ErrInternal, err)
	}
	if !doctor.IsActive || doctor.HospitalID != req.HospitalID {
		uc.logger.Warn("BookAppointment: doctor id=%s is not active in hospital id=%s", req.DoctorID, req.HospitalID)
		return nil, ErrDoctorNotFound
	}

	// 6. Получаем пациента: явный ID при переносе, иначе по пользователю
	var patient *registryClient.Patient
	if req.PatientID != nil {
		patient, err = uc.registryClient.GetPatient(ctx, *req.PatientID)
	} else {
		patient, err = uc.registryClient.GetPatientByUser(ctx, req.UserID)
	}
	if err != nil {
		if errors.Is(err, registryClient.ErrPatientNotFound) {
			uc.logger.Warn("BookAppointment: patient not found for user=%s", req.UserID)
			return nil, ErrPatientNotFound
		}
		uc.logger.Error("BookAppointment: failed to get patient: %v", err)
		return nil, fmt.Errorf("%w: failed to get patient: %v", ErrInternal, err)
	}

	// 7. Переводим настенное время запроса в моменты UTC
	startUTC, endUTC, err := intervalToUTC(req.Date, req.StartTime, req.EndTime, zone)
	if err != nil {
		uc.logger.Warn("BookAppointment: invalid interval: %v", err)
		return nil, err
	}

	// 8. Запись должна начинаться строго в будущем
	if !startUTC.After(now) {
		uc.logger.Warn("BookAppointment: start time %s is not in the future", startUTC)
		return nil, fmt.Errorf("%w: appointment must start in the future", ErrInvalidInput)
	}

	apptType := domain.AppointmentType(ptr.Deref(req.Type, string(domain.TypeConsultation)))

	var result *domain.Appointment

	// 9. Проверка конфликта и вставка в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 9.1. Берём с блокировкой FOR UPDATE записи врача, пересекающиеся
		// с локальными сутками: запись из другой таймзоны может начинаться
		// до локальной полуночи и при этом конфликтовать
		from, to := timezone.DayBounds(req.Date, zone)
		existing, err := uc.appointmentRepo.GetByDoctorForInterval(txCtx, req.DoctorID, from, to, domain.ConflictStatuses)
		if err != nil {
			uc.logger.Error("BookAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
		}

		// 9.2. Проверяем пересечение полуоткрытых интервалов
		for _, appt := range existing {
			if appt.Overlaps(startUTC, endUTC) {
				uc.logger.Warn("BookAppointment: slot %s-%s conflicts with appointment id=%s",
					req.StartTime, req.EndTime, appt.ID)
				return ErrSlotConflict
			}
		}

		// 9.3. Атомарно получаем порядковый номер за день
		seq, err := uc.appointmentRepo.NextSequence(txCtx, req.HospitalID, req.Date)
		if err != nil {
			uc.logger.Error("BookAppointment: failed to get next sequence: %v", err)
			return fmt.Errorf("%w: failed to get next sequence: %w", ErrInternal, err)
		}
		number := fmt.Sprintf("%s%s%04d", domain.AppointmentNumberPrefix, req.Date.Format(domain.NumberDateFormat), seq)

		// 9.4. Создаем запись
		appt := &domain.Appointment{
			HospitalID:        req.HospitalID,
			DoctorID:          req.DoctorID,
			PatientID:         patient.ID,
			AppointmentNumber: number,
			AppointmentDate:   req.Date,
			StartTime:         startUTC,
			EndTime:           endUTC,
			Type:              apptType,
			Status:            domain.StatusPending,
			RescheduledFrom:   req.RescheduledFrom,
			BookedBy:          &req.UserID,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("BookAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("BookAppointment: created appointment id=%s number=%s", result.ID, result.AppointmentNumber)

	// 10. Уведомление отправляется после коммита и не влияет на результат
	uc.sendConfirmation(ctx, result, patient, zone)

	return &Response{Appointment: result, Timezone: zone}, nil
}

// intervalToUTC переводит пару настенных времён на дату date в моменты UTC
// Начало должно быть строго раньше конца
func intervalToUTC(date time.Time, start, end types.TimeString, zone string) (time.Time, time.Time, error) {
	startMin, err := start.Minutes()
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid start time: %v", ErrInvalidInput, err)
	}
	endMin, err := end.Minutes()
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid end time: %v", ErrInvalidInput, err)
	}
	if startMin >= endMin {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start time must be before end time", ErrInvalidInput)
	}

	startWall := time.Date(date.Year(), date.Month(), date.Day(), startMin/60, startMin%60, 0, 0, time.UTC)
	endWall := time.Date(date.Year(), date.Month(), date.Day(), endMin/60, endMin%60, 0, 0, time.UTC)

	return timezone.ToUTC(startWall, zone), timezone.ToUTC(endWall, zone), nil
}

func (uc *UseCase) sendConfirmation(ctx context.Context, appt *domain.Appointment, patient *registryClient.Patient, zone string) {
	notice := &notifyservice.AppointmentNotice{
		AppointmentID:     appt.ID,
		AppointmentNumber: appt.AppointmentNumber,
		HospitalID:        appt.HospitalID,
		DoctorID:          appt.DoctorID,
		PatientID:         appt.PatientID,
		PatientEmail:      patient.ContactEmail,
		Date:              appt.AppointmentDate.Format(domain.DateFormat),
		StartTime:         timezone.ToZone(appt.StartTime, zone).Format(domain.TimeFormat),
		Timezone:          zone,
	}
	if err := uc.notifyClient.SendConfirmation(ctx, notice); err != nil {
		uc.logger.Warn("BookAppointment: failed to send confirmation for appointment id=%s: %v", appt.ID, err)
	}
}
