package reminder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/HMS-AppointmentService/internal/integrations/notifyservice"
	registryClient "github.com/m04kA/HMS-AppointmentService/internal/integrations/registryservice"
	"github.com/m04kA/HMS-AppointmentService/internal/service/reminder/models"
	"github.com/m04kA/HMS-AppointmentService/pkg/timezone"
)

// Service сервис рассылки напоминаний о завтрашних приёмах
//
// Семантика доставки at-least-once: флаг reminder_sent ставится только
// после успешной отправки, поэтому упавшая между отправкой и записью
// флага рассылка может отправить напоминание повторно
type Service struct {
	appointmentRepo AppointmentRepository
	registryClient  RegistryServiceClient
	notifyClient    NotifyServiceClient
	timeProvider    TimeProvider
	logger          Logger

	localHour     int // Локальный час госпиталя, в который уходит рассылка
	maxConcurrent int // Максимум одновременных отправок
}

// NewService создает новый экземпляр сервиса напоминаний
func NewService(
	appointmentRepo AppointmentRepository,
	registryClient RegistryServiceClient,
	notifyClient NotifyServiceClient,
	timeProvider TimeProvider,
	localHour int,
	maxConcurrent int,
	logger Logger,
) *Service {
	if localHour < 0 || localHour > 23 {
		localHour = domain.DefaultReminderLocalHour
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Service{
		appointmentRepo: appointmentRepo,
		registryClient:  registryClient,
		notifyClient:    notifyClient,
		timeProvider:    timeProvider,
		logger:          logger,
		localHour:       localHour,
		maxConcurrent:   maxConcurrent,
	}
}

// Run запускает плановую рассылку по тикеру до отмены контекста
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	s.logger.Info("Reminder: scheduler started, interval=%s, localHour=%d", interval, s.localHour)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Reminder: scheduler stopped")
			return
		case <-ticker.C:
			if _, err := s.RunSweep(ctx, models.ModeScheduled); err != nil {
				s.logger.Error("Reminder: scheduled sweep failed: %v", err)
			}
		}
	}
}

// RunSweep выполняет один проход рассылки по всем активным госпиталям
// В плановом режиме госпиталь обрабатывается только когда его локальный
// час равен localHour; ручной режим обрабатывает все госпитали сразу
func (s *Service) RunSweep(ctx context.Context, mode models.SweepMode) (*models.SweepResult, error) {
	s.logger.Info("RunSweep: mode=%s", mode)

	hospitals, err := s.registryClient.ListActiveHospitals(ctx)
	if err != nil {
		s.logger.Error("RunSweep: failed to list hospitals: %v", err)
		return nil, fmt.Errorf("%w: RunSweep - failed to list hospitals: %v", ErrInternal, err)
	}

	result := &models.SweepResult{Mode: mode}
	for i := range hospitals {
		hospital := &hospitals[i]
		zone := s.hospitalZone(hospital)

		if mode == models.ModeScheduled && s.localNow(zone).Hour() != s.localHour {
			continue
		}

		processed, succeeded, failed := s.sweepHospital(ctx, hospital, zone)
		result.Hospitals++
		result.Processed += processed
		result.Succeeded += succeeded
		result.Failed += failed
	}

	s.logger.Info("RunSweep: mode=%s, hospitals=%d, processed=%d, succeeded=%d, failed=%d",
		mode, result.Hospitals, result.Processed, result.Succeeded, result.Failed)
	return result, nil
}

// sweepHospital рассылает напоминания по завтрашним записям одного госпиталя
func (s *Service) sweepHospital(ctx context.Context, hospital *registryClient.Hospital, zone string) (processed, succeeded, failed int) {
	tomorrow := s.localNow(zone).AddDate(0, 0, 1)
	from, to := timezone.DayBounds(tomorrow, zone)

	appts, err := s.appointmentRepo.GetForReminder(ctx, &hospital.ID, from, to)
	if err != nil {
		s.logger.Error("RunSweep: failed to get appointments for hospital id=%s: %v", hospital.ID, err)
		return 0, 0, 0
	}
	if len(appts) == 0 {
		return 0, 0, 0
	}

	s.logger.Info("RunSweep: hospital id=%s, zone=%s, %d reminders to send", hospital.ID, zone, len(appts))

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sem = make(chan struct{}, s.maxConcurrent)
	)

	for _, appt := range appts {
		wg.Add(1)
		sem <- struct{}{}
		go func(appt *domain.Appointment) {
			defer wg.Done()
			defer func() { <-sem }()

			err := s.dispatchOne(ctx, appt, zone)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				s.logger.Warn("RunSweep: reminder for appointment id=%s failed: %v", appt.ID, err)
			} else {
				succeeded++
			}
		}(appt)
	}
	wg.Wait()

	return len(appts), succeeded, failed
}

// dispatchOne отправляет одно напоминание и помечает его отправленным
// Порядок строгий: сначала отправка, потом флаг
func (s *Service) dispatchOne(ctx context.Context, appt *domain.Appointment, zone string) error {
	patient, err := s.registryClient.GetPatient(ctx, appt.PatientID)
	if err != nil {
		return fmt.Errorf("%w: failed to get patient id=%s: %v", ErrDispatchFailed, appt.PatientID, err)
	}

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
	}

	if err := s.notifyClient.SendReminder(ctx, notice); err != nil {
		return fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}

	if err := s.appointmentRepo.MarkReminderSent(ctx, appt.ID); err != nil {
		// Напоминание ушло, но флаг не записан: следующий проход отправит его
		// повторно. Это цена at-least-once
		return fmt.Errorf("%w: sent but failed to mark appointment id=%s: %v", ErrDispatchFailed, appt.ID, err)
	}

	return nil
}

// SendForAppointment отправляет напоминание по одной записи вне рассылки
func (s *Service) SendForAppointment(ctx context.Context, appointmentID string) error {
	s.logger.Info("SendForAppointment: appointment id=%s", appointmentID)

	appt, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("SendForAppointment: appointment id=%s not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("SendForAppointment: repository error for appointment id=%s: %v", appointmentID, err)
		return fmt.Errorf("%w: SendForAppointment - repository error: %v", ErrInternal, err)
	}

	if appt.ReminderSent {
		s.logger.Warn("SendForAppointment: reminder for appointment id=%s already sent", appointmentID)
		return ErrAlreadySent
	}
	if appt.Status != domain.StatusConfirmed {
		s.logger.Warn("SendForAppointment: appointment id=%s is %s, not confirmed", appointmentID, appt.Status)
		return ErrNotConfirmed
	}

	zone := domain.DefaultTimezone
	if hospital, err := s.registryClient.GetHospital(ctx, appt.HospitalID); err == nil {
		zone = s.hospitalZone(hospital)
	} else {
		s.logger.Warn("SendForAppointment: failed to get hospital id=%s, using UTC: %v", appt.HospitalID, err)
	}

	if err := s.dispatchOne(ctx, appt, zone); err != nil {
		s.logger.Error("SendForAppointment: dispatch failed for appointment id=%s: %v", appointmentID, err)
		return err
	}

	s.logger.Info("SendForAppointment: reminder for appointment id=%s sent", appointmentID)
	return nil
}

// UpcomingReminders возвращает сводку подтверждённых записей на ближайшие
// days календарных дней UTC, начиная с сегодняшнего
func (s *Service) UpcomingReminders(ctx context.Context, days int) (*models.UpcomingResponse, error) {
	if days <= 0 {
		days = 1
	}

	now := s.timeProvider.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	resp := &models.UpcomingResponse{Days: make([]models.UpcomingDay, 0, days)}
	for i := 0; i < days; i++ {
		from := today.AddDate(0, 0, i)
		to := from.AddDate(0, 0, 1)

		count, err := s.appointmentRepo.CountForReminder(ctx, from, to)
		if err != nil {
			s.logger.Error("UpcomingReminders: failed to count for %s: %v", from.Format(domain.DateFormat), err)
			return nil, fmt.Errorf("%w: UpcomingReminders - repository error: %v", ErrInternal, err)
		}

		resp.Days = append(resp.Days, models.UpcomingDay{
			Date:  from.Format(domain.DateFormat),
			Count: count,
		})
	}

	return resp, nil
}

// localNow возвращает текущее время провайдера в настенных часах зоны
func (s *Service) localNow(zone string) time.Time {
	return timezone.ToZone(s.timeProvider.Now(), zone)
}

// hospitalZone возвращает таймзону госпиталя, UTC при неизвестной зоне
func (s *Service) hospitalZone(hospital *registryClient.Hospital) string {
	if hospital.Timezone == "" || !timezone.IsValid(hospital.Timezone) {
		return domain.DefaultTimezone
	}
	return hospital.Timezone
}
