package domain

import "time"

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending     AppointmentStatus = "pending"
	StatusConfirmed   AppointmentStatus = "confirmed"
	StatusInProgress  AppointmentStatus = "in_progress"
	StatusCompleted   AppointmentStatus = "completed"
	StatusCancelled   AppointmentStatus = "cancelled"
	StatusNoShow      AppointmentStatus = "no_show"
	StatusRescheduled AppointmentStatus = "rescheduled"
)

// AppointmentType represents the type of an appointment
type AppointmentType string

const (
	TypeConsultation   AppointmentType = "consultation"
	TypeFollowUp       AppointmentType = "follow_up"
	TypeEmergency      AppointmentType = "emergency"
	TypeRoutineCheckup AppointmentType = "routine_checkup"
	TypeVaccination    AppointmentType = "vaccination"
	TypeTest           AppointmentType = "test"
)

// IsValidAppointmentType reports whether t is one of the known appointment types
func IsValidAppointmentType(t AppointmentType) bool {
	switch t {
	case TypeConsultation, TypeFollowUp, TypeEmergency, TypeRoutineCheckup, TypeVaccination, TypeTest:
		return true
	}
	return false
}

// Appointment represents a booked appointment between a patient and a doctor
// StartTime and EndTime are absolute UTC instants derived from the wall-clock
// input and the effective timezone at booking time
type Appointment struct {
	ID                string
	HospitalID        string
	DoctorID          string
	PatientID         string
	AppointmentNumber string
	AppointmentDate   time.Time
	StartTime         time.Time
	EndTime           time.Time
	Type              AppointmentType
	Status            AppointmentStatus

	CancellationReason *string
	CancelledBy        *string
	CancelledAt        *time.Time

	// RescheduledFrom ID предыдущей записи при переносе
	// Слабая ссылка: разрешается отдельным запросом, каскадов и владения нет
	RescheduledFrom *string

	ReminderSent   bool
	ReminderSentAt *time.Time

	BookedBy *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsLive returns true if the appointment still occupies its time interval
func (a *Appointment) IsLive() bool {
	return a.Status == StatusPending ||
		a.Status == StatusConfirmed ||
		a.Status == StatusInProgress
}

// CanBeCancelled returns true if the appointment may still be cancelled at now
func (a *Appointment) CanBeCancelled(now time.Time) bool {
	return (a.Status == StatusPending || a.Status == StatusConfirmed) &&
		a.StartTime.After(now)
}

// DurationMinutes returns the appointment length in whole minutes
func (a *Appointment) DurationMinutes() int {
	return int(a.EndTime.Sub(a.StartTime) / time.Minute)
}

// Overlaps reports whether two half-open intervals [start, end) intersect
// Touching endpoints do not count as overlap
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.StartTime.Before(end) && a.EndTime.After(start)
}

// AppointmentsFilter фильтр для выборки записей
type AppointmentsFilter struct {
	DoctorID   *string
	PatientID  *string
	HospitalID *string
	Status     *AppointmentStatus
	StartFrom  *time.Time // Нижняя граница start_time (включительно)
	StartTo    *time.Time // Верхняя граница start_time (исключительно)
	LiveOnly   bool       // Только записи, занимающие интервал (pending/confirmed/in_progress)
}
