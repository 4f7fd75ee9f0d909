package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/HMS-AppointmentService/internal/integrations/notifyservice"
	registryClient "github.com/m04kA/HMS-AppointmentService/internal/integrations/registryservice"
	"github.com/m04kA/HMS-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/HMS-AppointmentService/internal/usecase/book_appointment"
	"github.com/m04kA/HMS-AppointmentService/pkg/timezone"
)

// Service сервис для работы с жизненным циклом записей
type Service struct {
	appointmentRepo AppointmentRepository
	registryClient  RegistryServiceClient
	notifyClient    NotifyServiceClient
	bookingUseCase  BookingUseCase
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	registryClient RegistryServiceClient,
	notifyClient NotifyServiceClient,
	bookingUseCase BookingUseCase,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		registryClient:  registryClient,
		notifyClient:    notifyClient,
		bookingUseCase:  bookingUseCase,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id string) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%s", id)

	appt, err := s.getAppointment(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	return models.FromDomainAppointment(appt, s.zoneForHospital(ctx, appt.HospitalID)), nil
}

// ListByDoctor получает записи врача с фильтрацией по статусу и периоду
func (s *Service) ListByDoctor(ctx context.Context, req *models.ListByDoctorRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListByDoctor: fetching appointments for doctor=%s, status=%v", req.DoctorID, req.Status)

	if req.DoctorID == "" {
		return nil, fmt.Errorf("%w: doctorID is required", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListByDoctor: invalid status=%v for doctor=%s", req.Status, req.DoctorID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidStatus)
	}

	appts, err := s.appointmentRepo.ListWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListByDoctor: repository error for doctor=%s: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: ListByDoctor - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByDoctor: fetched %d appointments for doctor=%s", len(appts), req.DoctorID)
	return models.FromDomainAppointmentList(appts, s.zonesForAppointments(ctx, appts)), nil
}

// ListByPatient получает записи пациента с фильтрацией по статусу
func (s *Service) ListByPatient(ctx context.Context, req *models.ListByPatientRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListByPatient: fetching appointments for patient=%s, status=%v", req.PatientID, req.Status)

	if req.PatientID == "" {
		return nil, fmt.Errorf("%w: patientID is required", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListByPatient: invalid status=%v for patient=%s", req.Status, req.PatientID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidStatus)
	}

	appts, err := s.appointmentRepo.ListWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListByPatient: repository error for patient=%s: %v", req.PatientID, err)
		return nil, fmt.Errorf("%w: ListByPatient - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByPatient: fetched %d appointments for patient=%s", len(appts), req.PatientID)
	return models.FromDomainAppointmentList(appts, s.zonesForAppointments(ctx, appts)), nil
}

// Cancel отменяет запись
// Отменить может пациент записи либо пользователь, создавший её
func (s *Service) Cancel(ctx context.Context, appointmentID string, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%s by user=%s", appointmentID, req.UserID)

	if req.UserID == "" {
		return fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}

	appt, err := s.getAppointment(ctx, "Cancel", appointmentID)
	if err != nil {
		return err
	}

	patient, err := s.getPatient(ctx, "Cancel", appt.PatientID)
	if err != nil {
		return err
	}

	if err := s.checkOwnership(appt, patient, req.UserID); err != nil {
		s.logger.Warn("Cancel: access denied for user=%s to appointment id=%s", req.UserID, appointmentID)
		return err
	}

	now := s.timeProvider.Now()
	if !appt.CanBeCancelled(now) {
		s.logger.Warn("Cancel: appointment id=%s cannot be cancelled, status=%s, start=%s",
			appointmentID, appt.Status, appt.StartTime)
		return ErrCannotCancel
	}

	if err := s.appointmentRepo.Cancel(ctx, appointmentID, req.CancellationReason, req.UserID); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%s: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: appointment id=%s cancelled by user=%s", appointmentID, req.UserID)

	// Уведомление об отмене отправляется после записи в БД и не влияет на результат
	s.sendCancellation(ctx, appt, patient, req.CancellationReason)

	return nil
}

// UpdateStatus переводит запись в новый статус по таблице переходов
// Отмена и перенос выполняются отдельными операциями, здесь они запрещены
func (s *Service) UpdateStatus(ctx context.Context, appointmentID string, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: appointment id=%s -> %s by user=%s", appointmentID, req.Status, req.UserID)

	status, err := models.ToDomainAppointmentStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%s", req.Status, appointmentID)
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}
	if status == domain.StatusCancelled || status == domain.StatusRescheduled {
		s.logger.Warn("UpdateStatus: status=%s must go through its dedicated operation", status)
		return nil, fmt.Errorf("%w: %s is not allowed here", ErrInvalidStatus, status)
	}

	appt, err := s.getAppointment(ctx, "UpdateStatus", appointmentID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(appt.Status, status) {
		s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for appointment id=%s",
			appt.Status, status, appointmentID)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, status)
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, appointmentID, status); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%s: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	appt.Status = status
	s.logger.Info("UpdateStatus: appointment id=%s is now %s", appointmentID, status)
	return models.FromDomainAppointment(appt, s.zoneForHospital(ctx, appt.HospitalID)), nil
}

// Reschedule переносит запись на новый интервал
// Сначала создаётся новая запись со ссылкой на исходную, затем исходная
// переводится в rescheduled. Конфликт нового интервала оставляет
// исходную запись нетронутой
func (s *Service) Reschedule(ctx context.Context, appointmentID string, req *models.RescheduleAppointmentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Reschedule: appointment id=%s to date=%s time=%s-%s by user=%s",
		appointmentID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime, req.UserID)

	if req.UserID == "" {
		return nil, fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}

	appt, err := s.getAppointment(ctx, "Reschedule", appointmentID)
	if err != nil {
		return nil, err
	}

	patient, err := s.getPatient(ctx, "Reschedule", appt.PatientID)
	if err != nil {
		return nil, err
	}

	if err := s.checkOwnership(appt, patient, req.UserID); err != nil {
		s.logger.Warn("Reschedule: access denied for user=%s to appointment id=%s", req.UserID, appointmentID)
		return nil, err
	}

	if !domain.CanTransition(appt.Status, domain.StatusRescheduled) {
		s.logger.Warn("Reschedule: appointment id=%s in status=%s cannot be rescheduled", appointmentID, appt.Status)
		return nil, fmt.Errorf("%w: status is %s", ErrCannotReschedule, appt.Status)
	}

	bookReq := &book_appointment.Request{
		UserID:          req.UserID,
		PatientID:       &appt.PatientID,
		DoctorID:        appt.DoctorID,
		HospitalID:      appt.HospitalID,
		Date:            req.Date,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Type:            (*string)(&appt.Type),
		Timezone:        req.Timezone,
		RescheduledFrom: &appt.ID,
	}

	resp, err := s.bookingUseCase.Execute(ctx, bookReq)
	if err != nil {
		// Ошибки бронирования (конфликт слота, валидация) отдаём как есть
		return nil, err
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, appointmentID, domain.StatusRescheduled); err != nil {
		// Новая запись уже создана; исходную пометить не удалось.
		// Сообщаем об ошибке, ссылка rescheduled_from позволяет разобрать вручную
		s.logger.Error("Reschedule: new appointment id=%s created, but failed to mark id=%s rescheduled: %v",
			resp.Appointment.ID, appointmentID, err)
		return nil, fmt.Errorf("%w: Reschedule - failed to mark source appointment: %v", ErrInternal, err)
	}

	s.logger.Info("Reschedule: appointment id=%s rescheduled to id=%s", appointmentID, resp.Appointment.ID)
	return models.FromDomainAppointment(resp.Appointment, s.zoneForHospital(ctx, resp.Appointment.HospitalID)), nil
}

func (s *Service) getAppointment(ctx context.Context, op, id string) (*domain.Appointment, error) {
	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%s not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appt, nil
}

func (s *Service) getPatient(ctx context.Context, op, patientID string) (*registryClient.Patient, error) {
	patient, err := s.registryClient.GetPatient(ctx, patientID)
	if err != nil {
		if errors.Is(err, registryClient.ErrPatientNotFound) {
			s.logger.Warn("%s: patient id=%s not found", op, patientID)
			return nil, ErrPatientNotFound
		}
		s.logger.Error("%s: failed to get patient id=%s: %v", op, patientID, err)
		return nil, fmt.Errorf("%w: %s - failed to get patient: %v", ErrInternal, op, err)
	}
	return patient, nil
}

// checkOwnership проверяет, что пользователь связан с записью:
// это пациент записи либо пользователь, создавший её
func (s *Service) checkOwnership(appt *domain.Appointment, patient *registryClient.Patient, userID string) error {
	if patient.UserID == userID {
		return nil
	}
	if appt.BookedBy != nil && *appt.BookedBy == userID {
		return nil
	}
	return ErrAccessDenied
}

// zoneForHospital возвращает таймзону госпиталя, UTC при любой ошибке
func (s *Service) zoneForHospital(ctx context.Context, hospitalID string) string {
	hospital, err := s.registryClient.GetHospital(ctx, hospitalID)
	if err != nil {
		s.logger.Warn("zoneForHospital: failed to get hospital id=%s, falling back to UTC: %v", hospitalID, err)
		return domain.DefaultTimezone
	}
	if hospital.Timezone == "" || !timezone.IsValid(hospital.Timezone) {
		return domain.DefaultTimezone
	}
	return hospital.Timezone
}

// zonesForAppointments строит отображение hospitalID -> таймзона,
// запрашивая каждый госпиталь не более одного раза
func (s *Service) zonesForAppointments(ctx context.Context, appts []*domain.Appointment) map[string]string {
	zones := make(map[string]string)
	for _, appt := range appts {
		if _, ok := zones[appt.HospitalID]; ok {
			continue
		}
		zones[appt.HospitalID] = s.zoneForHospital(ctx, appt.HospitalID)
	}
	return zones
}

func (s *Service) sendCancellation(ctx context.Context, appt *domain.Appointment, patient *registryClient.Patient, reason *string) {
	zone := s.zoneForHospital(ctx, appt.HospitalID)
	notice := &notifyservice.AppointmentNotice{
		AppointmentID:     appt.ID,
		AppointmentNumber: appt.AppointmentNumber,
		HospitalID:        appt.HospitalID,
		DoctorID:          appt.DoctorID,
		PatientID:         appt.PatientID,
		PatientEmail:      patient.ContactEmail,
		Date:              timezone.ToZone(appt.StartTime, zone).Format(domain.DateFormat),
		StartTime:         timezone.ToZone(appt.StartTime, zone).Format(domain.TimeFormat),
		Timezone:          zone,
		Reason:            reason,
	}
	if err := s.notifyClient.SendCancellation(ctx, notice); err != nil {
		s.logger.Warn("Cancel: failed to send cancellation for appointment id=%s: %v", appt.ID, err)
	}
}
