package models

import (
	"errors"
	"time"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	"github.com/m04kA/HMS-AppointmentService/pkg/timezone"
	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	UserID             string  `json:"userId"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// RescheduleAppointmentRequest запрос на перенос записи на новый интервал
type RescheduleAppointmentRequest struct {
	UserID    string           `json:"userId"`
	Date      time.Time        `json:"date"`
	StartTime types.TimeString `json:"startTime"`
	EndTime   types.TimeString `json:"endTime"`
	Timezone  *string          `json:"timezone,omitempty"`
}

// UpdateStatusRequest запрос на обновление статуса записи
type UpdateStatusRequest struct {
	UserID string `json:"userId"`
	Status string `json:"status"`
}

// ListByDoctorRequest запрос на получение записей врача
type ListByDoctorRequest struct {
	DoctorID  string     `json:"doctorId"`
	Status    *string    `json:"status,omitempty"`
	StartFrom *time.Time `json:"startFrom,omitempty"` // Нижняя граница начала (включительно)
	StartTo   *time.Time `json:"startTo,omitempty"`   // Верхняя граница начала (исключительно)
	LiveOnly  bool       `json:"liveOnly,omitempty"`
}

// ListByPatientRequest запрос на получение записей пациента
type ListByPatientRequest struct {
	PatientID string  `json:"patientId"`
	Status    *string `json:"status,omitempty"`
	LiveOnly  bool    `json:"liveOnly,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListByDoctorRequest) ToDomainFilter() (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{
		DoctorID:  &r.DoctorID,
		StartFrom: r.StartFrom,
		StartTo:   r.StartTo,
		LiveOnly:  r.LiveOnly,
	}
	if r.Status != nil {
		status, err := ToDomainAppointmentStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}
	return filter, nil
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListByPatientRequest) ToDomainFilter() (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{
		PatientID: &r.PatientID,
		LiveOnly:  r.LiveOnly,
	}
	if r.Status != nil {
		status, err := ToDomainAppointmentStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}
	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными записи
// Время приёма отдаётся и как моменты UTC, и как настенное время
// в таймзоне госпиталя
type AppointmentResponse struct {
	ID                string `json:"id"`
	HospitalID        string `json:"hospitalId"`
	DoctorID          string `json:"doctorId"`
	PatientID         string `json:"patientId"`
	AppointmentNumber string `json:"appointmentNumber"`
	Date              string `json:"date"`      // "2026-09-07"
	StartTime         string `json:"startTime"` // "10:00" в таймзоне госпиталя
	EndTime           string `json:"endTime"`   // "10:30" в таймзоне госпиталя
	Timezone          string `json:"timezone"`
	Type              string `json:"type"`
	Status            string `json:"status"`

	StartTimeUTC time.Time `json:"startTimeUtc"`
	EndTimeUTC   time.Time `json:"endTimeUtc"`

	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledBy        *string    `json:"cancelledBy,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`

	RescheduledFrom *string `json:"rescheduledFrom,omitempty"`

	ReminderSent   bool       `json:"reminderSent"`
	ReminderSentAt *time.Time `json:"reminderSentAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
// zone задаёт таймзону отображения настенного времени
func FromDomainAppointment(a *domain.Appointment, zone string) *AppointmentResponse {
	if a == nil {
		return nil
	}

	localStart := timezone.ToZone(a.StartTime, zone)
	localEnd := timezone.ToZone(a.EndTime, zone)

	return &AppointmentResponse{
		ID:                a.ID,
		HospitalID:        a.HospitalID,
		DoctorID:          a.DoctorID,
		PatientID:         a.PatientID,
		AppointmentNumber: a.AppointmentNumber,
		Date:              localStart.Format(domain.DateFormat),
		StartTime:         localStart.Format(domain.TimeFormat),
		EndTime:           localEnd.Format(domain.TimeFormat),
		Timezone:          zone,
		Type:              string(a.Type),
		Status:            string(a.Status),

		StartTimeUTC: a.StartTime,
		EndTimeUTC:   a.EndTime,

		CancellationReason: a.CancellationReason,
		CancelledBy:        a.CancelledBy,
		CancelledAt:        a.CancelledAt,

		RescheduledFrom: a.RescheduledFrom,

		ReminderSent:   a.ReminderSent,
		ReminderSentAt: a.ReminderSentAt,

		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
// zones отображает hospitalID в таймзону; по умолчанию UTC
func FromDomainAppointmentList(appts []*domain.Appointment, zones map[string]string) *AppointmentListResponse {
	out := make([]AppointmentResponse, 0, len(appts))
	for _, a := range appts {
		zone, ok := zones[a.HospitalID]
		if !ok {
			zone = domain.DefaultTimezone
		}
		out = append(out, *FromDomainAppointment(a, zone))
	}
	return &AppointmentListResponse{Appointments: out}
}

// ToDomainAppointmentStatus конвертирует строку в domain статус
func ToDomainAppointmentStatus(s string) (domain.AppointmentStatus, error) {
	status := domain.AppointmentStatus(s)
	switch status {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusInProgress,
		domain.StatusCompleted, domain.StatusCancelled, domain.StatusNoShow, domain.StatusRescheduled:
		return status, nil
	}
	return "", ErrInvalidStatus
}
